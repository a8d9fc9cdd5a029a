package etensor

import(
	"image"
	"image/color"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/hdrcolor"

	"github.com/abworrall/histmatch/pkg/emath"
)

// A Tensor with one or three channels can be treated as an image; the
// first batch item is what you see. Values are not clamped here, HDR
// consumers get whatever is in the tensor.
var _ hdr.Image = (*Tensor)(nil)

// Implement image.Image
func (t *Tensor)ColorModel() color.Model { return hdrcolor.RGBModel }
func (t *Tensor)Bounds() image.Rectangle { return image.Rect(0, 0, t.W, t.H) }
func (t *Tensor)At(x, y int) color.Color { return t.HDRAt(x, y) }

// Implement hdr.Image
func (t *Tensor)HDRAt(x, y int) hdrcolor.Color { return t.RGBAt(x, y) }
func (t *Tensor)Size() int                     { return t.W * t.H }

// RGBAt reads the pixel from batch item 0. Single channel tensors are
// read as gray.
func (t *Tensor)RGBAt(x, y int) hdrcolor.RGB {
	if !(image.Point{x, y}.In(t.Bounds())) || t.B == 0 || t.C == 0 {
		return hdrcolor.RGB{}
	}
	if t.C < 3 {
		v := t.Get(0, 0, y, x)
		return hdrcolor.RGB{R:v, G:v, B:v}
	}
	return hdrcolor.RGB{R:t.Get(0, 0, y, x), G:t.Get(0, 1, y, x), B:t.Get(0, 2, y, x)}
}

// FromImage builds a (1,3,h,w) tensor from any image, with each
// channel mapped from [0, 0xFFFF] to [0.0, 1.0]. Alpha is dropped.
// HDR images keep their float values.
func FromImage(img image.Image) *Tensor {
	b := img.Bounds()
	t := New(1, 3, b.Dy(), b.Dx())

	hdrImg, isHDR := img.(hdr.Image)

	for y:=0; y<b.Dy(); y++ {
		for x:=0; x<b.Dx(); x++ {
			if isHDR {
				r, g, bl, _ := hdrImg.HDRAt(x + b.Min.X, y + b.Min.Y).HDRRGBA()
				t.Set(0, 0, y, x, r)
				t.Set(0, 1, y, x, g)
				t.Set(0, 2, y, x, bl)
				continue
			}
			r, g, bl, _ := img.At(x + b.Min.X, y + b.Min.Y).RGBA()
			t.Set(0, 0, y, x, float64(r) / float64(0xFFFF))
			t.Set(0, 1, y, x, float64(g) / float64(0xFFFF))
			t.Set(0, 2, y, x, float64(bl) / float64(0xFFFF))
		}
	}

	return t
}

// ToRGBA64 renders batch item 0 as an LDR image, clamping to [0,1].
func (t *Tensor)ToRGBA64() *image.RGBA64 {
	img := image.NewRGBA64(t.Bounds())
	for y:=0; y<t.H; y++ {
		for x:=0; x<t.W; x++ {
			c := t.RGBAt(x, y)
			img.SetRGBA64(x, y, color.RGBA64{
				R: to16(c.R),
				G: to16(c.G),
				B: to16(c.B),
				A: 0xFFFF,
			})
		}
	}
	return img
}

// ChannelImage gives a labelled grayscale preview of one channel plane.
func (t *Tensor)ChannelImage(b, c int, title string) image.Image {
	plane := t.Plane(b, c)
	return plane.ToImg(title)
}

func to16(f float64) uint16 {
	return uint16(emath.Clamp01(f) * 65535.0 + 0.5)
}
