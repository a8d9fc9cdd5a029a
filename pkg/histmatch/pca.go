package histmatch

import(
	"fmt"
	"log"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/abworrall/histmatch/pkg/emath"
	"github.com/abworrall/histmatch/pkg/etensor"
)

// Linear color transfer, after
// https://github.com/ProGamerGov/Neural-Tools/blob/master/linear-color-transform.py
//
// Each image is reduced to its channel means and the square root of
// its channel covariance. The target is whitened by its own root and
// colored by the source's, then shifted onto the source means.

// channelStats holds the centered pixel data of one image, as a
// (channels x pixels) matrix, along with what we derived from it.
type channelStats struct {
	Means    []float64
	Centered *mat.Dense
	Cov      *mat.SymDense
	Root     *mat.Dense  // Symmetric square root of Cov
}

func newChannelStats(t *etensor.Tensor, eps float64) (channelStats, error) {
	nChan, nPix := t.C, t.PixelsPerChannel()
	cs := channelStats{Means: make([]float64, nChan)}

	data := make([]float64, 0, nChan*nPix)
	for c:=0; c<nChan; c++ {
		vals := t.ChannelValues(c)
		cs.Means[c] = stat.Mean(vals, nil)
		for i := range vals {
			vals[i] -= cs.Means[c]
		}
		data = append(data, vals...)
	}
	cs.Centered = mat.NewDense(nChan, nPix, data)

	// C = X.Xt / n + eps.I ; the eps keeps C positive definite when a
	// channel is flat.
	cs.Cov = &mat.SymDense{}
	cs.Cov.SymOuterK(1.0 / float64(nPix), cs.Centered)
	for i:=0; i<nChan; i++ {
		cs.Cov.SetSym(i, i, cs.Cov.At(i, i) + eps)
	}

	root, err := symSqrt(cs.Cov)
	if err != nil {
		return cs, err
	}
	cs.Root = root

	return cs, nil
}

// symSqrt builds Q = V.sqrt(diag(vals)).Vt from the eigendecomposition
// of a symmetric matrix. A negative eigenvalue (from rounding on a
// near singular matrix) has no real sqrt; its NaN is replaced with 0.
func symSqrt(s *mat.SymDense) (*mat.Dense, error) {
	var es mat.EigenSym
	if ok := es.Factorize(s, true); !ok {
		return nil, fmt.Errorf("eigendecomposition of covariance failed to converge")
	}

	vals := es.Values(nil)
	roots := make([]float64, len(vals))
	for i, v := range vals {
		roots[i] = emath.NaNToZero(math.Sqrt(v))
	}

	var vecs mat.Dense
	es.VectorsTo(&vecs)

	var tmp, q mat.Dense
	tmp.Mul(&vecs, mat.NewDiagDense(len(roots), roots))
	q.Mul(&tmp, vecs.T())
	return &q, nil
}

// PCAMatch maps the target's channel covariance onto the source's. The
// output is clamped to [0,1]. If the target's root covariance can't
// be inverted an error comes back; a result containing NaN or Inf
// should also be treated as a failed match.
func PCAMatch(cfg Config, target, source *etensor.Tensor) (*etensor.Tensor, error) {
	if err := checkChannels(target, source); err != nil {
		return nil, err
	}
	if err := checkDevice(cfg); err != nil {
		return nil, err
	}

	st, err := newChannelStats(target, cfg.Eps)
	if err != nil {
		return nil, fmt.Errorf("target stats: %v", err)
	}
	ss, err := newChannelStats(source, cfg.Eps)
	if err != nil {
		return nil, fmt.Errorf("source stats: %v", err)
	}

	var rootInv mat.Dense
	if err := rootInv.Inverse(st.Root); err != nil {
		return nil, fmt.Errorf("inverting target covariance root: %w", err)
	}

	// xform = Qs . inverse(Qt)
	var xform, matched mat.Dense
	xform.Mul(ss.Root, &rootInv)
	matched.Mul(&xform, st.Centered)

	if cfg.Verbosity > 0 {
		log.Printf("histmatch: pca transform\n%v\n", mat.Formatted(&xform, mat.Prefix(""), mat.Squeeze()))
	}

	out := target.NewLike()
	_, nPix := matched.Dims()
	for c:=0; c<target.C; c++ {
		vals := make([]float64, nPix)
		for i := range vals {
			vals[i] = matched.At(c, i) + ss.Means[c]
		}
		out.SetChannelValues(c, vals)
	}

	return out.Clamp(0, 1), nil
}

func checkDevice(cfg Config) error {
	if !contains(Devices, cfg.Device) {
		return fmt.Errorf("device %q not supported, wanted %v", cfg.Device, Devices)
	}
	return nil
}
