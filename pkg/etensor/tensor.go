package etensor

import(
	"fmt"

	"github.com/abworrall/histmatch/pkg/emath"
)

// A Tensor is a 4-d array of float64 with axes (batch, channel,
// height, width), stored contiguously in that order. Image values are
// nominally in [0,1]. Nothing in this module mutates a Tensor that it
// was handed; operations build new ones.
type Tensor struct {
	B, C, H, W int
	Data     []float64
}

func New(b, c, h, w int) *Tensor {
	if b < 0 || c < 0 || h < 0 || w < 0 {
		panic(fmt.Sprintf("etensor.New: negative dimension in (%d,%d,%d,%d)", b, c, h, w))
	}
	return &Tensor{B:b, C:c, H:h, W:w, Data:make([]float64, b*c*h*w)}
}

func (t *Tensor)Shape() [4]int              { return [4]int{t.B, t.C, t.H, t.W} }
func (t *Tensor)Index(b, c, y, x int) int   { return ((b*t.C + c)*t.H + y)*t.W + x }
func (t *Tensor)Get(b, c, y, x int) float64 { return t.Data[t.Index(b,c,y,x)] }
func (t *Tensor)Set(b, c, y, x int, v float64) { t.Data[t.Index(b,c,y,x)] = v }

// PixelsPerChannel is the number of values a channel has across the
// whole batch.
func (t *Tensor)PixelsPerChannel() int      { return t.B * t.H * t.W }

func (t *Tensor)SameShape(o *Tensor) bool   { return t.Shape() == o.Shape() }

func (t *Tensor)String() string {
	return fmt.Sprintf("Tensor(%d,%d,%d,%d)", t.B, t.C, t.H, t.W)
}

// NewLike returns a zeroed tensor with the same shape as `t`.
func (t *Tensor)NewLike() *Tensor { return New(t.B, t.C, t.H, t.W) }

// Plane returns the (b,c) plane as a FloatGrid view; writes to the
// grid land in the tensor.
func (t *Tensor)Plane(b, c int) emath.FloatGrid {
	off := t.Index(b, c, 0, 0)
	return emath.FloatGridOver(t.W, t.H, t.Data[off:off+t.H*t.W])
}

// ChannelValues returns a copy of every value in channel `c`, batch
// items concatenated in order.
func (t *Tensor)ChannelValues(c int) []float64 {
	n := t.H * t.W
	vals := make([]float64, 0, t.PixelsPerChannel())
	for b:=0; b<t.B; b++ {
		off := t.Index(b, c, 0, 0)
		vals = append(vals, t.Data[off:off+n]...)
	}
	return vals
}

// SetChannelValues is the inverse of ChannelValues.
func (t *Tensor)SetChannelValues(c int, vals []float64) {
	if len(vals) != t.PixelsPerChannel() {
		panic(fmt.Sprintf("SetChannelValues: %s channel needs %d values, got %d", t, t.PixelsPerChannel(), len(vals)))
	}
	n := t.H * t.W
	for b:=0; b<t.B; b++ {
		off := t.Index(b, c, 0, 0)
		copy(t.Data[off:off+n], vals[b*n:(b+1)*n])
	}
}

// ChannelRange is the min and max of channel `c` over the whole batch.
func (t *Tensor)ChannelRange(c int) (float64, float64) {
	vals := t.ChannelValues(c)
	fg := emath.FloatGridOver(len(vals), 1, vals)
	return fg.Range()
}

// Clamp pins every value into [lo,hi], in place.
func (t *Tensor)Clamp(lo, hi float64) *Tensor {
	for i, v := range t.Data {
		t.Data[i] = emath.Clamp(v, lo, hi)
	}
	return t
}

func (t *Tensor)AllFinite() bool { return emath.AllFinite(t.Data) }
