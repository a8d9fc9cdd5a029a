package emath

import(
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg" // Move to https://pkg.go.dev/golang.org/x/image/font#Drawer sometime
	"gonum.org/v1/gonum/floats"
)

// A FloatGrid is a grid of floats, with some operations. It is used
// to look at a single channel plane of an image tensor; a grid made
// by FloatGridOver shares its values with the caller.
type FloatGrid struct {
	stride int
	values []float64
}

func NewFloatGrid(w, h int) FloatGrid {
	return FloatGrid{
		stride: w,
		values: make([]float64, w*h),
	}
}

// FloatGridOver wraps an existing slice (row-major, `w` values per
// row) without copying it, so writes show up in the caller's slice.
func FloatGridOver(w, h int, values []float64) FloatGrid {
	if len(values) != w*h {
		panic(fmt.Sprintf("FloatGridOver: %dx%d grid needs %d values, got %d", w, h, w*h, len(values)))
	}
	return FloatGrid{stride: w, values: values}
}

func (fg *FloatGrid)Set(x, y int, v float64) { fg.values[fg.stride*y + x] = v }
func (fg *FloatGrid)Get(x, y int) float64    { return fg.values[fg.stride*y + x] }
func (fg *FloatGrid)Dx() int                 { return fg.stride }
func (fg *FloatGrid)Values() []float64       { return fg.values }

func (fg *FloatGrid)Dy() int {
	if fg.stride == 0 { return 0 }
	return len(fg.values) / fg.stride
}

// Range returns the smallest and largest values in the grid. An empty grid gives (0,0).
func (fg *FloatGrid)Range() (float64, float64) {
	if len(fg.values) == 0 {
		return 0, 0
	}
	return floats.Min(fg.values), floats.Max(fg.values)
}

func (fg *FloatGrid)Stats() string {
	min, max := fg.Range()
	return fmt.Sprintf("fg[%dx%d, vals{%f,%f}]", fg.Dx(), fg.Dy(), min, max)
}

// ToImg renders a simple grayscale preview, based on the range of
// values in the grid, and gamma scaling the gray to look normal for
// human vision. The title is drawn in the top left corner.
func (fg *FloatGrid)ToImg(title string) image.Image {
	min, max := fg.Range()

	img := image.NewRGBA64(image.Rectangle{Max:image.Point{fg.Dx(), fg.Dy()}})
	for x:=0; x<fg.Dx(); x++ {
		for y:=0; y<fg.Dy(); y++ {
			gray := 0.0
			if max > min {
				gray = GammaExpand_F64((fg.Get(x,y) - min) / (max - min))
			}
			v := uint16(Clamp01(gray) * 65535.0 + 0.5)
			img.Set(x, y, color.RGBA64{v, v, v, 0xFFFF})
		}
	}

	if title == "" {
		return img
	}

	dc := gg.NewContextForImage(img)
	dc.SetRGB(1,1,1)
	dc.DrawString(title, 4, 14)
	return dc.Image()
}
