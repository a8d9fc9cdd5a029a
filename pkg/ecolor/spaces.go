package ecolor

import(
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/abworrall/histmatch/pkg/emath"
	"github.com/abworrall/histmatch/pkg/etensor"
)

// The color spaces we can move an sRGB pixel into. Channel 0 is hue
// for HSV, luma for YCbCr, lightness for Lab, and X for XYZ.
var(
	Spaces = []string{"RGB", "HSV", "YCbCr", "Lab", "XYZ"}

	// JFIF (full range) YCbCr, as used by JPEG and PIL. Cb and Cr get
	// a +0.5 bias so everything sits in [0,1].
	//
	// https://www.w3.org/Graphics/JPEG/jfif3.pdf
	sRGB_to_ycbcr = emath.Mat3{
		 0.299,     0.587,     0.114,
		-0.168736, -0.331264,  0.5,
		 0.5,      -0.418688, -0.081312,
	}
	ycbcr_to_sRGB = emath.Mat3{
		1.0,  0.0,       1.402,
		1.0, -0.344136, -0.714136,
		1.0,  1.772,     0.0,
	}
	chromaBias = emath.Vec3{0, 0.5, 0.5}
)

func ListSpaces() string {
	return fmt.Sprintf("%v", Spaces)
}

// CanonicalSpace matches a color space name case-insensitively, and
// returns the spelling used in `Spaces`.
func CanonicalSpace(name string) (string, error) {
	for _, s := range Spaces {
		if strings.EqualFold(s, name) {
			return s, nil
		}
	}
	return "", fmt.Errorf("color space %q not recognized, wanted %s", name, ListSpaces())
}

// FromRGB moves an sRGB triple (each channel in [0,1]) into `space`.
// Hue is scaled down to [0,1] so HSV behaves like the other spaces.
func FromRGB(space string, rgb emath.Vec3) (emath.Vec3, error) {
	col := colorful.Color{R:rgb[0], G:rgb[1], B:rgb[2]}

	switch space {
	case "RGB":
		return rgb, nil
	case "HSV":
		h, s, v := col.Hsv()
		return emath.Vec3{h / 360.0, s, v}, nil
	case "YCbCr":
		return sRGB_to_ycbcr.ApplyAffine(rgb, chromaBias), nil
	case "Lab":
		l, a, b := col.Lab()
		return emath.Vec3{l, a, b}, nil
	case "XYZ":
		x, y, z := col.Xyz()
		return emath.Vec3{x, y, z}, nil
	}

	return emath.Vec3{}, fmt.Errorf("FromRGB: color space %q not recognized, wanted %s", space, ListSpaces())
}

// ToRGB is the inverse of FromRGB. The result is not clamped.
func ToRGB(space string, v emath.Vec3) (emath.Vec3, error) {
	var col colorful.Color

	switch space {
	case "RGB":
		return v, nil
	case "HSV":
		col = colorful.Hsv(v[0] * 360.0, v[1], v[2])
	case "YCbCr":
		return ycbcr_to_sRGB.Apply(v.Sub(chromaBias)), nil
	case "Lab":
		col = colorful.Lab(v[0], v[1], v[2])
	case "XYZ":
		col = colorful.Xyz(v[0], v[1], v[2])
	default:
		return emath.Vec3{}, fmt.Errorf("ToRGB: color space %q not recognized, wanted %s", space, ListSpaces())
	}

	return emath.Vec3{col.R, col.G, col.B}, nil
}

// ConvertTensor moves a 3-channel tensor from one color space to
// another, pixel by pixel, going via sRGB. The input is not modified.
func ConvertTensor(t *etensor.Tensor, from, to string) (*etensor.Tensor, error) {
	if t.C != 3 {
		return nil, fmt.Errorf("ConvertTensor %s->%s: need 3 channels, %s has %d", from, to, t, t.C)
	}

	out := t.NewLike()
	for b:=0; b<t.B; b++ {
		for y:=0; y<t.H; y++ {
			for x:=0; x<t.W; x++ {
				in := emath.Vec3{t.Get(b,0,y,x), t.Get(b,1,y,x), t.Get(b,2,y,x)}

				rgb, err := ToRGB(from, in)
				if err != nil {
					return nil, fmt.Errorf("ConvertTensor: %v", err)
				}
				v, err := FromRGB(to, rgb)
				if err != nil {
					return nil, fmt.Errorf("ConvertTensor: %v", err)
				}

				out.Set(b,0,y,x, v[0])
				out.Set(b,1,y,x, v[1])
				out.Set(b,2,y,x, v[2])
			}
		}
	}

	return out, nil
}
