package common

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	AxisX = mgl64.Vec3{1, 0, 0}
	AxisY = mgl64.Vec3{0, 1, 0}
	AxisZ = mgl64.Vec3{0, 0, 1}
)

// Rotator is an orientation in degrees. X is forward, Y is right and Z is up;
// positive pitch raises the nose.
type Rotator struct {
	Pitch float64
	Yaw   float64
	Roll  float64
}

// Vector returns the unit forward direction of r. Roll does not affect it.
func (r Rotator) Vector() mgl64.Vec3 {
	p := mgl64.DegToRad(r.Pitch)
	y := mgl64.DegToRad(r.Yaw)
	cp := math.Cos(p)
	return mgl64.Vec3{cp * math.Cos(y), cp * math.Sin(y), math.Sin(p)}
}

// Quat returns the rotation as yaw about Z, then pitch, then roll about X.
func (r Rotator) Quat() mgl64.Quat {
	yaw := mgl64.QuatRotate(mgl64.DegToRad(r.Yaw), AxisZ)
	pitch := mgl64.QuatRotate(-mgl64.DegToRad(r.Pitch), AxisY)
	roll := mgl64.QuatRotate(mgl64.DegToRad(r.Roll), AxisX)
	return yaw.Mul(pitch).Mul(roll)
}

// RotateVector transforms v from the rotator's local space into world space.
func (r Rotator) RotateVector(v mgl64.Vec3) mgl64.Vec3 {
	return r.Quat().Rotate(v)
}

// RightVector returns the local Y axis in world space.
func (r Rotator) RightVector() mgl64.Vec3 {
	return r.RotateVector(AxisY)
}

// Normalized wraps every axis into (-180, 180].
func (r Rotator) Normalized() Rotator {
	return Rotator{
		Pitch: NormalizeAxis(r.Pitch),
		Yaw:   NormalizeAxis(r.Yaw),
		Roll:  NormalizeAxis(r.Roll),
	}
}

func (r Rotator) String() string {
	return fmt.Sprintf("P=%.2f Y=%.2f R=%.2f", r.Pitch, r.Yaw, r.Roll)
}

// RotatorFromVector returns the yaw and pitch that point along v. Roll is
// always zero.
func RotatorFromVector(v mgl64.Vec3) Rotator {
	yaw := mgl64.RadToDeg(math.Atan2(v.Y(), v.X()))
	pitch := mgl64.RadToDeg(math.Atan2(v.Z(), math.Hypot(v.X(), v.Y())))
	return Rotator{Pitch: pitch, Yaw: yaw}
}

// NormalizeAxis wraps an angle in degrees into (-180, 180].
func NormalizeAxis(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg > 180 {
		deg -= 360
	}
	return deg
}
