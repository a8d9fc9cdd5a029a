package emath

import "math"

// Some functions that only operate on basic types, that are useful

// https://www.sjbrown.co.uk/posts/gamma-correct-rendering/ - "linear RGB to sRGB"
// `f` is assumed to be in the range [0,1]
func GammaExpand_F64(f float64) float64 {
	if f <= 0.0031308 {
		return 12.92 * f
	}
	return 1.055 * math.Pow(f, 1.0/2.4) - 0.055
}

// Clamp pins f into [lo, hi]. NaN passes through untouched.
func Clamp(f, lo, hi float64) float64 {
	if f < lo { return lo }
	if f > hi { return hi }
	return f
}

func Clamp01(f float64) float64 { return Clamp(f, 0.0, 1.0) }

// NaNToZero is the explicit patch for entries that went NaN (e.g. sqrt of a
// slightly negative eigenvalue).
func NaNToZero(f float64) float64 {
	if math.IsNaN(f) { return 0.0 }
	return f
}

// AllFinite reports whether every value is neither NaN nor Inf.
func AllFinite(vals []float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
