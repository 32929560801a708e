package controller

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/mayfly/common"
	"github.com/milk9111/mayfly/timer"
)

// FrameClock reports the simulation time covered by the current frame.
type FrameClock interface {
	DeltaSeconds() float64
}

// InputSource exposes named axes and press actions for one frame.
type InputSource interface {
	Axis(name string) float64
	JustPressed(action string) bool
}

// Movement is the body the controller steers. The movement subsystem owns
// the state; the controller reads it and overwrites parts of it once per frame.
type Movement interface {
	Location() mgl64.Vec3
	SetLocation(mgl64.Vec3)
	Rotation() common.Rotator
	SetRotation(common.Rotator)
	Velocity() mgl64.Vec3
	SetVelocity(mgl64.Vec3)
	Mode() common.MovementMode
	SetMode(common.MovementMode)

	// AddImpulse changes velocity instantly. Unless velocityChange is set the
	// impulse is divided by the body's mass.
	AddImpulse(impulse mgl64.Vec3, velocityChange bool)
	// AddInput queues a movement request consumed on the next integration step.
	AddInput(direction mgl64.Vec3, scale float64)
	// Jump starts a jump when the body is able to; it reports whether it did.
	Jump() bool
}

// GuidePath is a local-space curve sampled by distance.
type GuidePath interface {
	Length() float64
	LocationAtDistance(d float64) mgl64.Vec3
}

// Timers schedules one-shot callbacks.
type Timers interface {
	SetTimer(seconds float64, fn func()) timer.Handle
	IsActive(h timer.Handle) bool
	Elapsed(h timer.Handle) float64
	Clear(h timer.Handle) bool
}
