package histmatch

import(
	"fmt"
	"image"
	"log"

	"golang.org/x/image/draw"      // replace by "image/draw" at some point

	"github.com/abworrall/histmatch/pkg/ecolor"
	"github.com/abworrall/histmatch/pkg/etensor"
)

// SwapColorChannel resizes the source to the target's size, moves
// both into cfg.Colorspace, and gives the target the source's channel
// 0 (hue for HSV, luma for YCbCr, lightness for Lab). The result is
// converted back to RGB and clamped to [0,1].
func SwapColorChannel(cfg Config, target, source image.Image) (*etensor.Tensor, error) {
	tb := target.Bounds()
	resized := resizeImage(source, tb.Dx(), tb.Dy())

	return SwapTensorChannel(cfg, etensor.FromImage(target), etensor.FromImage(resized))
}

// SwapTensorChannel is SwapColorChannel for 3-channel RGB tensors. A
// source of a different height or width is resampled first, which
// needs it to be a single image (batch of 1).
func SwapTensorChannel(cfg Config, target, source *etensor.Tensor) (*etensor.Tensor, error) {
	space, err := ecolor.CanonicalSpace(cfg.Colorspace)
	if err != nil {
		return nil, err
	}
	if target.C != 3 || source.C != 3 {
		return nil, fmt.Errorf("channel swap needs RGB images: target %s, source %s", target, source)
	}

	if source.H != target.H || source.W != target.W {
		if source.B != 1 {
			return nil, fmt.Errorf("channel swap can only resize a single source image, got %s", source)
		}
		source = etensor.FromImage(resizeImage(source, target.W, target.H))
	}
	if source.B != target.B {
		return nil, fmt.Errorf("channel swap batch mismatch: target %s, source %s", target, source)
	}

	tc, err := ecolor.ConvertTensor(target, "RGB", space)
	if err != nil {
		return nil, err
	}
	sc, err := ecolor.ConvertTensor(source, "RGB", space)
	if err != nil {
		return nil, err
	}

	for b:=0; b<tc.B; b++ {
		dst, src := tc.Plane(b, 0), sc.Plane(b, 0)
		copy(dst.Values(), src.Values())
	}

	if cfg.Verbosity > 0 {
		log.Printf("histmatch: swapped %s channel 0 into %s\n", space, target)
	}

	out, err := ecolor.ConvertTensor(tc, space, "RGB")
	if err != nil {
		return nil, err
	}
	return out.Clamp(0, 1), nil
}

// resizeImage scales to w x h with Catmull-Rom. Tensors are read via
// their clamped LDR rendering.
func resizeImage(img image.Image, w, h int) image.Image {
	if t, ok := img.(*etensor.Tensor); ok {
		img = t.ToRGBA64()
	}
	if b := img.Bounds(); b.Dx() == w && b.Dy() == h {
		return img
	}

	dst := image.NewRGBA64(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
