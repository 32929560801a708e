// Package controller turns per-frame time and player input into orientation,
// velocity and movement-mode changes on a character body.
package controller

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/mayfly/common"
	"go.uber.org/zap"
)

const (
	MinArmLength = 400.0
	MaxArmLength = 1000.0

	// maxControlPitch keeps the look target away from the poles.
	maxControlPitch = 89.0

	// takeoffExitFrom and takeoffExitTo bound the stretch of the guide path
	// the exit tangent is taken over, as fractions of its length.
	takeoffExitFrom = 0.98
	takeoffExitTo   = 0.99
)

var (
	ErrNilMovement = errors.New("controller: movement is nil")
	ErrNilTimers   = errors.New("controller: timers are nil")
	// ErrTakeoffActive is returned when the guide path is swapped mid-takeoff.
	ErrTakeoffActive = errors.New("controller: takeoff in progress")
)

// SpringArm is the camera boom. The camera sits TargetArmLength behind the
// pivot along the control rotation.
type SpringArm struct {
	TargetArmLength float64
}

// CharacterController drives one character body.
type CharacterController struct {
	tuning Tuning
	body   Movement
	timers Timers
	path   GuidePath
	log    *zap.Logger

	arm     SpringArm
	control common.Rotator
	takeoff TakeoffState
}

type Option func(*CharacterController)

// WithGuidePath enables the scripted takeoff along path.
func WithGuidePath(path GuidePath) Option {
	return func(c *CharacterController) {
		c.path = path
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(c *CharacterController) {
		if log != nil {
			c.log = log
		}
	}
}

// New builds a controller for body. The control rotation starts at the body's
// current facing.
func New(body Movement, timers Timers, tuning Tuning, opts ...Option) (*CharacterController, error) {
	if body == nil {
		return nil, ErrNilMovement
	}
	if timers == nil {
		return nil, ErrNilTimers
	}
	if err := tuning.Validate(); err != nil {
		return nil, err
	}

	c := &CharacterController{
		tuning: tuning,
		body:   body,
		timers: timers,
		log:    zap.NewNop(),
		arm:    SpringArm{TargetArmLength: MinArmLength},
	}
	for _, opt := range opts {
		opt(c)
	}
	rot := body.Rotation()
	c.control = common.Rotator{
		Pitch: common.Clamp(rot.Pitch, -maxControlPitch, maxControlPitch),
		Yaw:   rot.Yaw,
	}
	return c, nil
}

func (c *CharacterController) Tuning() Tuning {
	return c.tuning
}

func (c *CharacterController) SpringArm() SpringArm {
	return c.arm
}

func (c *CharacterController) ControlRotation() common.Rotator {
	return c.control
}

func (c *CharacterController) TakeoffState() TakeoffState {
	return c.takeoff
}

func (c *CharacterController) HasGuidePath() bool {
	return c.path != nil
}

func (c *CharacterController) GuidePath() GuidePath {
	return c.path
}

// SetGuidePath replaces the takeoff curve. A nil path turns takeoff back into
// a plain lunge.
func (c *CharacterController) SetGuidePath(path GuidePath) error {
	if c.takeoff.Active() {
		return ErrTakeoffActive
	}
	c.path = path
	return nil
}

// Tick runs the per-frame update.
func (c *CharacterController) Tick(dt float64) {
	if c == nil {
		return
	}
	if dt < 0 {
		dt = 0
	}

	if c.tickTakeoff() {
		return
	}

	c.turnTowardsControl(dt)
	c.limitVelocity()
	c.scaleSpringArm(dt)
}

// turnTowardsControl blends the actor facing toward the control rotation.
// The further off target, the faster it turns.
func (c *CharacterController) turnTowardsControl(dt float64) {
	actor := c.body.Rotation()
	look := c.control
	look.Roll = actor.Roll

	from := actor.Vector()
	to := look.Vector()
	distance := to.Sub(from).Len()
	speed := c.tuning.TurnSpeed * c.tuning.TurnSpeedScaling * distance

	end := interpNormalRotationTo(from, to, dt, speed)

	// grounded characters never point their nose into the floor
	grounded := c.body.Mode().Grounded()
	if grounded {
		end[2] = math.Max(0, end[2])
	}

	if math.Hypot(end.X(), end.Y()) < common.KindaSmallNumber {
		// straight up or down carries no heading; keep the current one
		if grounded && end.Z() <= 0 {
			c.body.SetRotation(common.Rotator{Yaw: actor.Yaw})
			return
		}
		rot := common.RotatorFromVector(end)
		rot.Yaw = actor.Yaw
		c.body.SetRotation(rot)
		return
	}
	c.body.SetRotation(common.RotatorFromVector(end))
}

func (c *CharacterController) limitVelocity() {
	v := c.body.Velocity()
	if v.Len() > c.tuning.MaxVelocity {
		c.body.SetVelocity(common.ClampLength(v, c.tuning.MaxVelocity))
	}
}

func (c *CharacterController) scaleSpringArm(dt float64) {
	speed := c.body.Velocity().Len()
	target := math.Min(MinArmLength+speed*c.tuning.SpringArmVelocityFactor, MaxArmLength)
	c.arm.TargetArmLength = common.Lerp(c.arm.TargetArmLength, target, common.Clamp(dt, 0, 1))
}

// MoveForward pushes along the control rotation with roll removed.
func (c *CharacterController) MoveForward(value float64) {
	if value == 0 {
		return
	}
	dir := common.Rotator{Pitch: c.control.Pitch, Yaw: c.control.Yaw}.Vector()
	c.body.AddInput(dir, value)
}

// MoveRight pushes along the control rotation's right vector, level with the
// ground.
func (c *CharacterController) MoveRight(value float64) {
	if value == 0 {
		return
	}
	dir := common.Rotator{Yaw: c.control.Yaw}.RightVector()
	c.body.AddInput(dir, value)
}

// AddYawInput turns the look target by deg degrees.
func (c *CharacterController) AddYawInput(deg float64) {
	if deg == 0 {
		return
	}
	c.control.Yaw = common.NormalizeAxis(c.control.Yaw + deg)
}

// AddPitchInput raises the look target by deg degrees.
func (c *CharacterController) AddPitchInput(deg float64) {
	if deg == 0 {
		return
	}
	c.control.Pitch = common.Clamp(c.control.Pitch+deg, -maxControlPitch, maxControlPitch)
}

func (c *CharacterController) Jump() {
	if !c.body.Jump() {
		c.log.Debug("jump ignored", zap.Stringer("mode", c.body.Mode()))
	}
}

// Lunge throws the character along its facing.
func (c *CharacterController) Lunge() {
	c.impulseAlong("lunge", c.body.Rotation().Vector(), c.tuning.LungeStrength)
}

// Backstep throws the character away from its facing.
func (c *CharacterController) Backstep() {
	c.impulseAlong("backstep", c.body.Rotation().Vector().Mul(-1), c.tuning.BackstepStrength)
}

func (c *CharacterController) StartFlying() {
	c.body.SetMode(common.MovementFlying)
}

// Landed is called by the movement subsystem when a fall ends on ground.
func (c *CharacterController) Landed(hit common.HitResult) {
	c.log.Info("landed",
		zap.Float64("x", hit.Location.X()),
		zap.Float64("y", hit.Location.Y()),
		zap.Float64("z", hit.Location.Z()),
	)
}

// impulseAlong applies strength along dir. A direction that cannot be
// normalised is reported and the impulse is dropped.
func (c *CharacterController) impulseAlong(ability string, dir mgl64.Vec3, strength float64) bool {
	n, ok := common.SafeNormal(dir)
	if !ok {
		c.log.Warn("zero-length impulse direction", zap.String("ability", ability))
		return false
	}
	c.body.AddImpulse(n.Mul(strength), false)
	return true
}
