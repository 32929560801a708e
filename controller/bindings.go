package controller

// Axis names.
const (
	AxisMoveForward = "MoveForward"
	AxisMoveRight   = "MoveRight"
	AxisYaw         = "Yaw"
	AxisPitch       = "Pitch"
)

// Action names.
const (
	ActionJump        = "Jump"
	ActionLunge       = "Lunge"
	ActionBackstep    = "Backstep"
	ActionStartFlying = "StartFlying"
)

type axisBinding struct {
	name string
	fn   func(float64)
}

type actionBinding struct {
	name string
	fn   func()
}

// Bindings routes named input to handlers. Axes are dispatched every frame,
// actions only on the frame they are pressed.
type Bindings struct {
	axes    []axisBinding
	actions []actionBinding
}

func (b *Bindings) BindAxis(name string, fn func(float64)) {
	if b == nil || fn == nil {
		return
	}
	b.axes = append(b.axes, axisBinding{name: name, fn: fn})
}

func (b *Bindings) BindAction(name string, fn func()) {
	if b == nil || fn == nil {
		return
	}
	b.actions = append(b.actions, actionBinding{name: name, fn: fn})
}

// Dispatch reads src once and calls every bound handler, axes first, each
// group in binding order.
func (b *Bindings) Dispatch(src InputSource) {
	if b == nil || src == nil {
		return
	}
	for _, a := range b.axes {
		a.fn(src.Axis(a.name))
	}
	for _, a := range b.actions {
		if src.JustPressed(a.name) {
			a.fn()
		}
	}
}

// SetupInput binds the controller's handlers. Lunge goes through Takeoff,
// which lunges when no guide path is configured.
func (c *CharacterController) SetupInput(b *Bindings) {
	b.BindAxis(AxisMoveForward, c.MoveForward)
	b.BindAxis(AxisMoveRight, c.MoveRight)
	b.BindAxis(AxisYaw, c.AddYawInput)
	b.BindAxis(AxisPitch, c.AddPitchInput)
	b.BindAction(ActionJump, c.Jump)
	b.BindAction(ActionLunge, c.Takeoff)
	b.BindAction(ActionBackstep, c.Backstep)
	b.BindAction(ActionStartFlying, c.StartFlying)
}
