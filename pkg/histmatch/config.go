package histmatch

import(
	"fmt"
	"image"
	"io"
	"log"

	"gopkg.in/yaml.v2"

	"github.com/abworrall/histmatch/pkg/ecolor"
)

/* Example config file ...

verbosity: 1
strategy: pca
eps: 0.01
bins: 128
cdfrange: union
colorspace: HSV
device: cpu

*/

// Config is passed by value into every matching call; there is no
// package level state.
type Config struct {
	Verbosity   int

	Strategy    string   // "pca" or "cdf"
	Eps         float64  // PCA: added to the covariance diagonal
	Bins        int      // CDF: histogram bins per channel
	CDFRange    string   // CDF: how the top of the bin range is picked, see CDFRanges
	Colorspace  string   // SwapColorChannel: which space's channel 0 gets swapped
	Device      string   // Where the maths happens; only "cpu" is implemented

	// If set, MatchHistogram hands over a labelled grayscale preview of
	// every channel plane of the target and of the matched output.
	OnPreview   func(name string, img image.Image) `yaml:"-"`
}

const(
	DefaultEps  = 1e-2
	DefaultBins = 128

	// CDFRangeUnion bins over [min of mins, max of maxes], so neither
	// image gets values cut off.
	CDFRangeUnion  = "union"

	// CDFRangeLegacy tops the range out at the smaller of the two
	// maxima. Source values above it are dropped from the histogram,
	// and the output can't exceed it.
	CDFRangeLegacy = "legacy"
)

var(
	CDFRanges = []string{CDFRangeUnion, CDFRangeLegacy}
	Devices   = []string{"cpu"}
)

func NewConfig() Config {
	return Config{
		Strategy:   "cdf",
		Eps:        DefaultEps,
		Bins:       DefaultBins,
		CDFRange:   CDFRangeUnion,
		Colorspace: "HSV",
		Device:     "cpu",
	}
}

// NewConfigFromYaml starts from the defaults, and overrides whatever
// the yaml sets.
func NewConfigFromYaml(b []byte) (Config, error) {
	c := NewConfig()
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("parse config yaml: %v", err)
	}
	return c, c.Validate()
}

func LoadConfig(r io.Reader) (Config, error) {
	contents, err := io.ReadAll(r)
	if err != nil {
		return NewConfig(), fmt.Errorf("config read: %v", err)
	}
	return NewConfigFromYaml(contents)
}

func (c Config)AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Printf("Can't marshal config yaml: %v\n", err)
		return ""
	}
	return string(b)
}

// Validate checks every named choice in the config. The strategy is
// checked here too, but GetMatcher is what callers hit first.
func (c Config)Validate() error {
	if _, err := c.GetMatcher(); err != nil {
		return err
	}
	if c.Eps < 0 {
		return fmt.Errorf("eps must not be negative, got %g", c.Eps)
	}
	if c.Bins < 1 {
		return fmt.Errorf("bins must be at least 1, got %d", c.Bins)
	}
	if !contains(CDFRanges, c.CDFRange) {
		return fmt.Errorf("cdfrange %q not recognized, wanted %v", c.CDFRange, CDFRanges)
	}
	if _, err := ecolor.CanonicalSpace(c.Colorspace); err != nil {
		return err
	}
	return checkDevice(c)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
