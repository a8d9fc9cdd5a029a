package histmatch

import(
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/abworrall/histmatch/pkg/etensor"
)

func TestPCAMatchIdentity(t *testing.T) {
	img := correlatedTensor(1, 16, 16)
	out, err := PCAMatch(NewConfig(), img, cloneTensor(img))
	require.NoError(t, err)
	require.True(t, out.SameShape(img))
	assert.InDeltaSlice(t, img.Data, out.Data, 1e-9)
}

func TestPCAMatchConstantGray(t *testing.T) {
	tgt := filledTensor(1, 3, 4, 4, 0.5)
	src := filledTensor(1, 3, 4, 4, 0.8)

	out, err := PCAMatch(NewConfig(), tgt, src)
	require.NoError(t, err)
	require.Equal(t, tgt.Shape(), out.Shape())
	for _, v := range out.Data {
		assert.InDelta(t, 0.8, v, 1e-9)
	}
	assert.Equal(t, 0.5, tgt.Data[0], "target must not be modified")
}

func TestPCAMatchClamps(t *testing.T) {
	tgt := randomTensor(7, 1, 3, 12, 12, 0, 1)
	src := randomTensor(8, 1, 3, 6, 9, 0.7, 1.0)
	src.Data[0] = 1.0

	out, err := PCAMatch(NewConfig(), tgt, src)
	require.NoError(t, err)
	require.Equal(t, tgt.Shape(), out.Shape(), "source size doesn't matter, only its statistics")

	hitCeiling := false
	for _, v := range out.Data {
		require.True(t, v >= 0 && v <= 1, "value %f outside [0,1]", v)
		if v == 1 { hitCeiling = true }
	}
	assert.True(t, hitCeiling, "a wide target against a bright source should need clamping")
}

func TestPCAMatchTransfersStatistics(t *testing.T) {
	tgt := correlatedTensor(11, 32, 32)
	src := randomTensor(12, 1, 3, 32, 32, 0.3, 0.7)

	cfg := NewConfig()
	cfg.Eps = 0 // exact match of covariance is only possible without regularization
	out, err := PCAMatch(cfg, tgt, src)
	require.NoError(t, err)

	require.True(t, out.AllFinite())
	for c:=0; c<3; c++ {
		assert.InDelta(t, stat.Mean(src.ChannelValues(c), nil), stat.Mean(out.ChannelValues(c), nil), 1e-3)
	}

	// Nothing in the source needs clamping, so the output covariance should equal the source's
	so := newChannelStatsOrFail(t, src)
	oo := newChannelStatsOrFail(t, out)
	assert.True(t, mat.EqualApprox(so.Cov, oo.Cov, 1e-6), "covariance mismatch:\n%v\nvs\n%v",
		mat.Formatted(so.Cov), mat.Formatted(oo.Cov))
}

func newChannelStatsOrFail(t *testing.T, tn *etensor.Tensor) channelStats {
	cs, err := newChannelStats(tn, 0)
	require.NoError(t, err)
	return cs
}

func TestSymSqrt(t *testing.T) {
	s := mat.NewSymDense(3, []float64{
		4, 1, 0,
		1, 3, 1,
		0, 1, 2,
	})
	q, err := symSqrt(s)
	require.NoError(t, err)

	var sq mat.Dense
	sq.Mul(q, q)
	assert.True(t, mat.EqualApprox(&sq, s, 1e-9))
	assert.True(t, mat.EqualApprox(q, q.T(), 1e-12), "root should be symmetric")
}

func TestSymSqrtPatchesNaN(t *testing.T) {
	// One negative eigenvalue; its sqrt would be NaN.
	s := mat.NewSymDense(2, []float64{
		1, 0,
		0, -1e-12,
	})
	q, err := symSqrt(s)
	require.NoError(t, err)

	r, c := q.Dims()
	for i:=0; i<r; i++ {
		for j:=0; j<c; j++ {
			assert.False(t, math.IsNaN(q.At(i, j)))
		}
	}
	assert.InDelta(t, 1.0, q.At(0, 0), 1e-9)
	assert.InDelta(t, 0.0, q.At(1, 1), 1e-9)
}

func TestPCAMatchSingularTarget(t *testing.T) {
	cfg := NewConfig()
	cfg.Eps = 0 // a flat target then has an all zero covariance

	_, err := PCAMatch(cfg, filledTensor(1, 3, 4, 4, 0.5), randomTensor(3, 1, 3, 4, 4, 0, 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inverting")
}

func TestPCAMatchBatch(t *testing.T) {
	tgt := randomTensor(21, 2, 3, 4, 4, 0.1, 0.5)
	out, err := PCAMatch(NewConfig(), tgt, cloneTensor(tgt))
	require.NoError(t, err)
	assert.InDeltaSlice(t, tgt.Data, out.Data, 1e-9, "batch items are pooled into one set of statistics")
}
