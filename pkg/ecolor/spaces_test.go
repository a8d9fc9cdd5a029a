package ecolor

import(
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abworrall/histmatch/pkg/emath"
	"github.com/abworrall/histmatch/pkg/etensor"
)

var testColors = []emath.Vec3{
	{0, 0, 0},
	{1, 1, 1},
	{0.5, 0.5, 0.5},
	{1, 0, 0},
	{0.2, 0.7, 0.4},
	{0.9, 0.3, 0.8},
}

func TestRoundTrips(t *testing.T) {
	for _, space := range Spaces {
		for _, rgb := range testColors {
			v, err := FromRGB(space, rgb)
			require.NoError(t, err)
			back, err := ToRGB(space, v)
			require.NoError(t, err)
			assert.InDeltaSlice(t, rgb[:], back[:], 1e-3, "%s round trip of %s", space, rgb)
		}
	}
}

func TestChannelZeroMeaning(t *testing.T) {
	v, err := FromRGB("YCbCr", emath.Vec3{1, 1, 1})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 0.5, 0.5}, v[:], 1e-6, "white is full luma, no chroma")

	v, err = FromRGB("HSV", emath.Vec3{0, 0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 240.0/360.0, v[0], 1e-9, "blue hue")
	assert.InDelta(t, 1.0, v[2], 1e-9)

	v, err = FromRGB("Lab", emath.Vec3{1, 1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v[0], 1e-3, "white has full lightness")
}

func TestUnknownSpace(t *testing.T) {
	_, err := FromRGB("CMYK", emath.Vec3{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CMYK")

	_, err = ToRGB("CMYK", emath.Vec3{})
	require.Error(t, err)

	_, err = CanonicalSpace("CMYK")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CMYK")

	name, err := CanonicalSpace("ycbcr")
	require.NoError(t, err)
	assert.Equal(t, "YCbCr", name)
}

func TestConvertTensor(t *testing.T) {
	tn := etensor.New(2, 3, 2, 2)
	for i := range tn.Data {
		tn.Data[i] = float64(i % 7) / 7.0
	}
	orig := append([]float64(nil), tn.Data...)

	hsv, err := ConvertTensor(tn, "RGB", "HSV")
	require.NoError(t, err)
	require.True(t, hsv.SameShape(tn))
	assert.Equal(t, orig, tn.Data, "input must not be modified")

	back, err := ConvertTensor(hsv, "HSV", "RGB")
	require.NoError(t, err)
	assert.InDeltaSlice(t, tn.Data, back.Data, 1e-9)

	_, err = ConvertTensor(etensor.New(1, 1, 2, 2), "RGB", "HSV")
	require.Error(t, err)

	_, err = ConvertTensor(tn, "RGB", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}
