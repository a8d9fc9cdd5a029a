package histmatch

import(
	"math/rand"

	"github.com/abworrall/histmatch/pkg/etensor"
)

// randomTensor fills a tensor with values in [lo, hi), deterministically.
func randomTensor(seed int64, b, c, h, w int, lo, hi float64) *etensor.Tensor {
	rnd := rand.New(rand.NewSource(seed))
	t := etensor.New(b, c, h, w)
	for i := range t.Data {
		t.Data[i] = lo + rnd.Float64() * (hi - lo)
	}
	return t
}

// filledTensor has every value set to `v`.
func filledTensor(b, c, h, w int, v float64) *etensor.Tensor {
	t := etensor.New(b, c, h, w)
	for i := range t.Data {
		t.Data[i] = v
	}
	return t
}

func cloneTensor(t *etensor.Tensor) *etensor.Tensor {
	cp := t.NewLike()
	copy(cp.Data, t.Data)
	return cp
}

// correlatedTensor gives 3 channels that share a common component, so
// the covariance has off-diagonal terms.
func correlatedTensor(seed int64, h, w int) *etensor.Tensor {
	rnd := rand.New(rand.NewSource(seed))
	t := etensor.New(1, 3, h, w)
	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			common := rnd.Float64()
			t.Set(0, 0, y, x, 0.2 + 0.5*common + 0.1*rnd.Float64())
			t.Set(0, 1, y, x, 0.1 + 0.3*common + 0.3*rnd.Float64())
			t.Set(0, 2, y, x, 0.6 - 0.4*common + 0.2*rnd.Float64())
		}
	}
	return t
}
