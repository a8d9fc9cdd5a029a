// Package histmatch transfers color statistics from a source image
// onto a target image. Two strategies are available: "pca" matches the
// channel covariance with a linear transform, and "cdf" remaps every
// channel so its cumulative distribution follows the source's.
package histmatch

import(
	"fmt"
	"log"
	"sort"

	"github.com/abworrall/histmatch/pkg/etensor"
)

// A MatcherFunc returns a new tensor shaped like `target`, whose
// color statistics follow `source`.
type MatcherFunc func(cfg Config, target, source *etensor.Tensor) (*etensor.Tensor, error)

var matchers = map[string]MatcherFunc{
	"pca": PCAMatch,
	"cdf": CDFMatch,
}

func ListStrategies() string {
	names := []string{}
	for name := range matchers {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("%v", names)
}

func (c Config)GetMatcher() (MatcherFunc, error) {
	if m, exists := matchers[c.Strategy]; exists {
		return m, nil
	}
	return nil, fmt.Errorf("histogram matching strategy not recognized: %q, wanted %s", c.Strategy, ListStrategies())
}

// MatchHistogram runs whichever matcher cfg.Strategy names.
func MatchHistogram(cfg Config, target, source *etensor.Tensor) (*etensor.Tensor, error) {
	m, err := cfg.GetMatcher()
	if err != nil {
		return nil, err
	}

	if cfg.Verbosity > 0 {
		log.Printf("histmatch: %s, target %s, source %s\n", cfg.Strategy, target, source)
	}

	out, err := m(cfg, target, source)
	if err != nil {
		return nil, fmt.Errorf("%s match: %w", cfg.Strategy, err)
	}
	if !out.SameShape(target) {
		return nil, fmt.Errorf("%s match: output %s, wanted the target's shape %s", cfg.Strategy, out, target)
	}
	if !out.AllFinite() {
		log.Printf("histmatch: %s output %s has NaN or Inf values, treat it as a failed match\n", cfg.Strategy, out)
	}

	if cfg.Verbosity > 1 {
		for c:=0; c<out.C; c++ {
			log.Printf("histmatch: source %s\n", source.ChannelSummary(c))
			log.Printf("histmatch: output %s\n", out.ChannelSummary(c))
		}
	}

	if cfg.OnPreview != nil {
		previewPlanes(cfg, "target", target)
		previewPlanes(cfg, "output", out)
	}

	return out, nil
}

// previewPlanes names each preview `<label>-b<batch>-c<channel>`, and
// titles it with the plane's size and value range.
func previewPlanes(cfg Config, label string, t *etensor.Tensor) {
	for b:=0; b<t.B; b++ {
		for c:=0; c<t.C; c++ {
			plane := t.Plane(b, c)
			name := fmt.Sprintf("%s-b%d-c%d", label, b, c)
			cfg.OnPreview(name, t.ChannelImage(b, c, cfg.Strategy+" "+plane.Stats()))
		}
	}
}

// Both matchers need the same number of channels; the spatial sizes
// may differ.
func checkChannels(target, source *etensor.Tensor) error {
	if target.C != source.C {
		return fmt.Errorf("channel mismatch: target %s, source %s", target, source)
	}
	if target.PixelsPerChannel() == 0 || source.PixelsPerChannel() == 0 {
		return fmt.Errorf("empty image: target %s, source %s", target, source)
	}
	return nil
}
