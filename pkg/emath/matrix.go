package emath

// Small fixed-size matrices, used for per-pixel color transforms

import(
	"golang.org/x/image/math/f64"  // Will be "image/math/f64" at some point, hopefully make this file redundant
)

// Use local types so we can hang methods off them
type Vec3 f64.Vec3
type Mat3 f64.Mat3

func (m Mat3)Apply(v Vec3) Vec3 {
	return Vec3{
		(m[3*0+0]*v[0] + m[3*0+1]*v[1] + m[3*0+2]*v[2]),
	  (m[3*1+0]*v[0] + m[3*1+1]*v[1] + m[3*1+2]*v[2]),
	  (m[3*2+0]*v[0] + m[3*2+1]*v[1] + m[3*2+2]*v[2]),
	}
}

// ApplyAffine is Apply followed by adding an offset, e.g. the +0.5 chroma bias in YCbCr.
func (m Mat3)ApplyAffine(v, offset Vec3) Vec3 {
	return m.Apply(v).Add(offset)
}

func (v Vec3)Add(w Vec3) Vec3 {
	return Vec3{v[0]+w[0], v[1]+w[1], v[2]+w[2]}
}

func (v Vec3)Sub(w Vec3) Vec3 {
	return Vec3{v[0]-w[0], v[1]-w[1], v[2]-w[2]}
}
