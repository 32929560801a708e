package system

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/mayfly/controller"
	"github.com/milk9111/mayfly/ecs"
	"github.com/milk9111/mayfly/ecs/component"
)

const (
	stickDeadzone = 0.2
	// degrees per pixel of mouse travel
	mouseSensitivity = 0.2
	// degrees per frame at full stick deflection
	stickLookRate = 3.0
)

// InputSystem samples keyboard, mouse and the first gamepad into every
// Input component.
type InputSystem struct {
	lastX, lastY int
	primed       bool
}

func NewInputSystem() *InputSystem {
	return &InputSystem{}
}

func (i *InputSystem) Update(w *ecs.World) {
	if i == nil || w == nil {
		return
	}

	forward := keyAxis(ebiten.KeyW, ebiten.KeyArrowUp, ebiten.KeyS, ebiten.KeyArrowDown)
	right := keyAxis(ebiten.KeyD, ebiten.KeyArrowRight, ebiten.KeyA, ebiten.KeyArrowLeft)

	yaw, pitch := i.mouseLook(ebiten.CursorPosition())

	jump := inpututil.IsKeyJustPressed(ebiten.KeySpace)
	lunge := inpututil.IsKeyJustPressed(ebiten.KeyShiftLeft) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	backstep := inpututil.IsKeyJustPressed(ebiten.KeyControlLeft) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)
	fly := inpututil.IsKeyJustPressed(ebiten.KeyF)

	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		id := gamepads[0]
		lx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		ly := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Hypot(lx, ly) > stickDeadzone {
			right = lx
			forward = -ly
		}

		rx := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal)
		ry := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical)
		if math.Hypot(rx, ry) > stickDeadzone {
			yaw += rx * stickLookRate
			pitch -= ry * stickLookRate
		}

		jump = jump || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		lunge = lunge || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightLeft)
		backstep = backstep || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightRight)
		fly = fly || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightTop)
	}

	ecs.ForEach(w, component.InputComponent.Kind(), func(e ecs.Entity, input *component.Input) {
		input.Reset()
		input.SetAxis(controller.AxisMoveForward, forward)
		input.SetAxis(controller.AxisMoveRight, right)
		input.SetAxis(controller.AxisYaw, yaw)
		input.SetAxis(controller.AxisPitch, pitch)
		if jump {
			input.Press(controller.ActionJump)
		}
		if lunge {
			input.Press(controller.ActionLunge)
		}
		if backstep {
			input.Press(controller.ActionBackstep)
		}
		if fly {
			input.Press(controller.ActionStartFlying)
		}
	})
}

// Release forgets the last cursor position, so travel made while the
// cursor was free does not turn the view.
func (i *InputSystem) Release() {
	if i == nil {
		return
	}
	i.primed = false
}

// mouseLook converts cursor travel since the last frame into yaw and pitch
// degrees. The first frame after Release only records the position.
func (i *InputSystem) mouseLook(x, y int) (yaw, pitch float64) {
	if i.primed {
		yaw = float64(x-i.lastX) * mouseSensitivity
		pitch = -float64(y-i.lastY) * mouseSensitivity
	}
	i.lastX, i.lastY, i.primed = x, y, true
	return yaw, pitch
}

func keyAxis(pos, posAlt, neg, negAlt ebiten.Key) float64 {
	v := 0.0
	if ebiten.IsKeyPressed(pos) || ebiten.IsKeyPressed(posAlt) {
		v += 1
	}
	if ebiten.IsKeyPressed(neg) || ebiten.IsKeyPressed(negAlt) {
		v -= 1
	}
	return v
}
