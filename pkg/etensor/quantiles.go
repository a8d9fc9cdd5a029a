package etensor

import(
	"fmt"
	"log"

	"github.com/codahale/hdrhistogram"

	"github.com/abworrall/histmatch/pkg/emath"
)

// Channel values are recorded in the histogram as integers in [0, quantileScale].
const quantileScale = 10000

// Quantiles estimates the given quantiles (each in [0,1]) of channel
// `c`. Values outside [0,1] are pinned to the ends, and precision is
// about 1/1000 of the range, which is plenty for diagnostics. The
// histogram reports the top of a bucket, so results are pinned back
// into [0,1] too.
func (t *Tensor)Quantiles(c int, qs ...float64) []float64 {
	h := hdrhistogram.New(1, quantileScale, 3)
	for _, v := range t.ChannelValues(c) {
		if err := h.RecordValue(int64(emath.Clamp01(v) * quantileScale + 0.5)); err != nil {
			log.Printf("Quantiles: %s c%d, dropping %f: %v\n", t, c, v, err)
		}
	}

	ret := make([]float64, len(qs))
	for i, q := range qs {
		ret[i] = emath.Clamp01(float64(h.ValueAtQuantile(emath.Clamp01(q) * 100.0)) / quantileScale)
	}
	return ret
}

// ChannelSummary is a one-line description of a channel's distribution.
func (t *Tensor)ChannelSummary(c int) string {
	min, max := t.ChannelRange(c)
	q := t.Quantiles(c, 0.05, 0.50, 0.95)
	return fmt.Sprintf("c%d[min=%.4f, p05=%.4f, p50=%.4f, p95=%.4f, max=%.4f]", c, min, q[0], q[1], q[2], max)
}
