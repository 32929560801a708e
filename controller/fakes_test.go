package controller

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/mayfly/common"
	"github.com/milk9111/mayfly/timer"
)

type impulse struct {
	v              mgl64.Vec3
	velocityChange bool
}

type moveInput struct {
	dir   mgl64.Vec3
	scale float64
}

type fakeBody struct {
	location mgl64.Vec3
	rotation common.Rotator
	velocity mgl64.Vec3
	mode     common.MovementMode

	impulses []impulse
	inputs   []moveInput
	jumps    int
}

func (b *fakeBody) Location() mgl64.Vec3 { return b.location }
func (b *fakeBody) SetLocation(v mgl64.Vec3) { b.location = v }
func (b *fakeBody) Rotation() common.Rotator { return b.rotation }
func (b *fakeBody) SetRotation(r common.Rotator) { b.rotation = r }
func (b *fakeBody) Velocity() mgl64.Vec3 { return b.velocity }
func (b *fakeBody) SetVelocity(v mgl64.Vec3) { b.velocity = v }
func (b *fakeBody) Mode() common.MovementMode { return b.mode }
func (b *fakeBody) SetMode(m common.MovementMode) { b.mode = m }
func (b *fakeBody) AddInput(d mgl64.Vec3, s float64) { b.inputs = append(b.inputs, moveInput{d, s}) }

func (b *fakeBody) AddImpulse(v mgl64.Vec3, velocityChange bool) {
	b.impulses = append(b.impulses, impulse{v, velocityChange})
}

func (b *fakeBody) Jump() bool {
	if b.mode != common.MovementWalking {
		return false
	}
	b.jumps++
	return true
}

// fakeTimers wraps a real manager and counts schedules.
type fakeTimers struct {
	*timer.Manager
	scheduled int
}

func newFakeTimers() *fakeTimers {
	return &fakeTimers{Manager: timer.NewManager()}
}

func (f *fakeTimers) SetTimer(seconds float64, fn func()) timer.Handle {
	f.scheduled++
	return f.Manager.SetTimer(seconds, fn)
}

// linePath runs straight along local +X.
type linePath struct {
	length float64
}

func (p linePath) Length() float64 { return p.length }

func (p linePath) LocationAtDistance(d float64) mgl64.Vec3 {
	return mgl64.Vec3{mgl64.Clamp(d, 0, p.length), 0, 0}
}

// hookPath runs along local +X and turns to +Z for its last half percent.
type hookPath struct {
	length float64
}

func (p hookPath) Length() float64 { return p.length }

func (p hookPath) LocationAtDistance(d float64) mgl64.Vec3 {
	bend := 0.995 * p.length
	if d <= bend {
		return mgl64.Vec3{d, 0, 0}
	}
	return mgl64.Vec3{bend, 0, mgl64.Clamp(d, 0, p.length) - bend}
}

// pointPath has a length but every sample is the origin.
type pointPath struct{}

func (pointPath) Length() float64 { return 100 }
func (pointPath) LocationAtDistance(float64) mgl64.Vec3 { return mgl64.Vec3{} }

type fakeInput struct {
	axes    map[string]float64
	pressed map[string]bool
}

func (f fakeInput) Axis(name string) float64 { return f.axes[name] }
func (f fakeInput) JustPressed(name string) bool { return f.pressed[name] }
