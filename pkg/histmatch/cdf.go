package histmatch

import(
	"fmt"
	"log"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/abworrall/histmatch/pkg/emath"
	"github.com/abworrall/histmatch/pkg/etensor"
)

// Histogram matching via the cumulative distribution, after
// https://sgugger.github.io/deep-painterly-harmonization.html
//
// Per channel: bin the source values, scale the bins so they hold as
// many values as the target has pixels, then walk the target pixels in
// rank order and hand each one the value at the same point of the
// source's cumulative histogram, interpolating inside the bin.

// Keeps an empty bin from dividing by zero.
const binEpsilon = 1e-8

// CDFMatch gives each target channel the source channel's value
// distribution, while keeping every pixel's rank within its channel.
// The output is not clamped; values stay inside the channel's bin
// range.
func CDFMatch(cfg Config, target, source *etensor.Tensor) (*etensor.Tensor, error) {
	if err := checkChannels(target, source); err != nil {
		return nil, err
	}
	if err := checkDevice(cfg); err != nil {
		return nil, err
	}
	if cfg.Bins < 1 {
		return nil, fmt.Errorf("bins must be at least 1, got %d", cfg.Bins)
	}

	out := target.NewLike()

	for c:=0; c<target.C; c++ {
		tv := target.ChannelValues(c)
		sv := source.ChannelValues(c)

		lo, hi, err := binRange(cfg.CDFRange, tv, sv)
		if err != nil {
			return nil, err
		}
		hist := histc(sv, cfg.Bins, lo, hi)

		if cfg.Verbosity > 0 {
			log.Printf("histmatch: cdf c%d range [%f,%f], %.0f of %d source values binned\n",
				c, lo, hi, floats.Sum(hist), len(sv))
		}

		out.SetChannelValues(c, remapByCDF(tv, hist, lo, hi))
	}

	return out, nil
}

// binRange picks the per-channel range that both images are binned
// over. The bottom is always the smaller of the two minima.
func binRange(mode string, tv, sv []float64) (float64, float64, error) {
	top := math.Max
	switch mode {
	case CDFRangeUnion:
	case CDFRangeLegacy:
		top = math.Min
	default:
		return 0, 0, fmt.Errorf("cdfrange %q not recognized, wanted %v", mode, CDFRanges)
	}

	lo := math.Min(floats.Min(tv), floats.Min(sv))
	hi := top(floats.Max(tv), floats.Max(sv))
	return lo, hi, nil
}

// histc counts values into `bins` equal width bins over [lo,hi].
// Values outside the range (and NaNs) are ignored, and a value equal
// to `hi` lands in the last bin. If lo == hi the bins span [lo-1,hi+1].
func histc(vals []float64, bins int, lo, hi float64) []float64 {
	if lo == hi {
		lo, hi = lo - 1, hi + 1
	}

	in := make([]float64, 0, len(vals))
	for _, v := range vals {
		if v >= lo && v <= hi {
			in = append(in, v)
		}
	}
	sort.Float64s(in)

	// stat.Histogram wants the top divider strictly above every value
	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	return stat.Histogram(nil, dividers, in, nil)
}

// remapByCDF returns the matched values for one channel, in the same
// order as `tv`. `hist` is the source histogram over [lo,hi].
func remapByCDF(tv, hist []float64, lo, hi float64) []float64 {
	n := len(tv)
	bins := len(hist)

	// Scale the bins to hold n values in total. An empty histogram
	// stays all zero, which sends every rank to the top of the range.
	freq := make([]float64, bins)
	if total := floats.Sum(hist); total > 0 {
		floats.ScaleTo(freq, float64(n) / total, hist)
	}
	cum := floats.CumSum(make([]float64, bins), freq)
	prev := make([]float64, bins)
	copy(prev[1:], cum[:bins-1])

	order := argsort(tv)
	step := (hi - lo) / float64(bins)
	out := make([]float64, n)

	for k, pixel := range order {
		r := float64(k + 1)

		// The bin is the number of bins whose cumulative count is below r
		idx := sort.Search(bins, func(b int) bool { return cum[b] >= r })
		if idx > bins - 1 {
			idx = bins - 1
		}

		frac := emath.Clamp01((r - prev[idx]) / (binEpsilon + freq[idx]))
		out[pixel] = lo + (frac + float64(idx)) * step
	}

	return out
}

// argsort returns the indices of `vals` in ascending value order.
// Equal values keep their original order.
func argsort(vals []float64) []int {
	order := make([]int, len(vals))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return vals[order[i]] < vals[order[j]] })
	return order
}
