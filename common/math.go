package common

import "github.com/go-gl/mathgl/mgl64"

const (
	BaseWidth  = 1280
	BaseHeight = 720

	// Gravity is the Z acceleration applied to falling bodies, in cm/s^2.
	Gravity = -980.0

	// KindaSmallNumber is the tolerance used for direction normalisation.
	KindaSmallNumber = 1e-4
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	return mgl64.Clamp(v, lo, hi)
}

// SafeNormal returns v scaled to unit length. ok is false when v is too short
// to carry a direction, in which case the zero vector is returned.
func SafeNormal(v mgl64.Vec3) (n mgl64.Vec3, ok bool) {
	l := v.Len()
	if l < KindaSmallNumber {
		return mgl64.Vec3{}, false
	}
	return v.Mul(1 / l), true
}

// ClampLength rescales v to max when it is longer, keeping its direction.
func ClampLength(v mgl64.Vec3, max float64) mgl64.Vec3 {
	l := v.Len()
	if l <= max || l == 0 {
		return v
	}
	return v.Mul(max / l)
}
