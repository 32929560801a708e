package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/mayfly/common"
)

// Body is the movement state of a character: velocity, mode and the limits
// the movement system integrates under.
type Body struct {
	Velocity mgl64.Vec3
	Mode     common.MovementMode

	Mass       float64
	Radius     float64
	HalfHeight float64

	MaxWalkSpeed    float64
	MaxFlySpeed     float64
	MaxAcceleration float64
	BrakingWalking  float64
	BrakingFlying   float64
	JumpZVelocity   float64
	AirControl      float64

	// OnLanded runs once when a falling body reaches walkable ground.
	OnLanded func(common.HitResult)

	pendingInput mgl64.Vec3
}

var BodyComponent = NewComponent[Body]()

const defaultMass = 100.0

func (b *Body) mass() float64 {
	if b.Mass <= 0 {
		return defaultMass
	}
	return b.Mass
}

// AddInput accumulates a movement request for the next integration step.
func (b *Body) AddInput(direction mgl64.Vec3, scale float64) {
	if b == nil || scale == 0 {
		return
	}
	b.pendingInput = b.pendingInput.Add(direction.Mul(scale))
}

// ConsumeInput returns the accumulated input, clamped to unit length, and
// clears it.
func (b *Body) ConsumeInput() mgl64.Vec3 {
	if b == nil {
		return mgl64.Vec3{}
	}
	in := common.ClampLength(b.pendingInput, 1)
	b.pendingInput = mgl64.Vec3{}
	return in
}

// PendingInput returns the input queued so far this frame.
func (b *Body) PendingInput() mgl64.Vec3 {
	if b == nil {
		return mgl64.Vec3{}
	}
	return b.pendingInput
}

// AddImpulse changes velocity at once. Without velocityChange the impulse is
// scaled by the inverse mass.
func (b *Body) AddImpulse(impulse mgl64.Vec3, velocityChange bool) {
	if b == nil {
		return
	}
	if !velocityChange {
		impulse = impulse.Mul(1 / b.mass())
	}
	b.Velocity = b.Velocity.Add(impulse)
}

// Jump launches a walking body upward.
func (b *Body) Jump() bool {
	if b == nil || b.Mode != common.MovementWalking {
		return false
	}
	b.Velocity[2] = b.JumpZVelocity
	b.Mode = common.MovementFalling
	return true
}

// SetMode switches movement mode. Walking drops any vertical velocity.
func (b *Body) SetMode(mode common.MovementMode) {
	if b == nil || b.Mode == mode {
		return
	}
	b.Mode = mode
	if mode == common.MovementWalking {
		b.Velocity[2] = 0
	}
}

// Pawn joins an entity's transform and body into the view a character
// controller steers.
type Pawn struct {
	Transform *Transform
	Body      *Body
}

func (p Pawn) Location() mgl64.Vec3 {
	return p.Transform.Location
}

func (p Pawn) SetLocation(v mgl64.Vec3) {
	p.Transform.Location = v
}

func (p Pawn) Rotation() common.Rotator {
	return p.Transform.Rotation
}

func (p Pawn) SetRotation(r common.Rotator) {
	p.Transform.Rotation = r
}

func (p Pawn) Velocity() mgl64.Vec3 {
	return p.Body.Velocity
}

func (p Pawn) SetVelocity(v mgl64.Vec3) {
	p.Body.Velocity = v
}

func (p Pawn) Mode() common.MovementMode {
	return p.Body.Mode
}

func (p Pawn) SetMode(mode common.MovementMode) {
	p.Body.SetMode(mode)
}

func (p Pawn) AddImpulse(impulse mgl64.Vec3, velocityChange bool) {
	p.Body.AddImpulse(impulse, velocityChange)
}

func (p Pawn) AddInput(direction mgl64.Vec3, scale float64) {
	p.Body.AddInput(direction, scale)
}

func (p Pawn) Jump() bool {
	return p.Body.Jump()
}
