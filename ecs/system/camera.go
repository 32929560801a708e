package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/mayfly/common"
	"github.com/milk9111/mayfly/ecs"
	"github.com/milk9111/mayfly/ecs/component"
)

// CameraSystem places the camera at the end of the player's spring arm,
// looking along the control rotation.
type CameraSystem struct {
	camEntity    ecs.Entity
	targetEntity ecs.Entity
}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

func (cs *CameraSystem) Update(w *ecs.World) {
	if cs == nil || w == nil {
		return
	}
	if !ecs.IsAlive(w, cs.camEntity) {
		cs.camEntity, _ = ecs.First(w, component.CameraComponent.Kind())
	}
	if !ecs.IsAlive(w, cs.targetEntity) {
		cs.targetEntity, _ = ecs.First(w, component.PlayerTagComponent.Kind())
	}

	cam, ok := ecs.Get(w, cs.camEntity, component.CameraComponent.Kind())
	if !ok {
		return
	}
	target, ok := ecs.Get(w, cs.targetEntity, component.TransformComponent.Kind())
	if !ok {
		return
	}

	alpha := 1.0
	if cam.Smoothness > 0 {
		alpha = common.Clamp(1-cam.Smoothness, 0, 1)
	}
	cam.Pivot = lerpVec(cam.Pivot, target.Location, alpha)

	if c, ok := ecs.Get(w, cs.targetEntity, component.CharacterComponent.Kind()); ok && c.Controller != nil {
		cam.Rotation = c.Controller.ControlRotation()
		cam.ArmLength = c.Controller.SpringArm().TargetArmLength
	}
	cam.Location = armLocation(cam.Pivot, cam.Rotation, cam.ArmLength)
}

// armLocation is the point length behind pivot along rot.
func armLocation(pivot mgl64.Vec3, rot common.Rotator, length float64) mgl64.Vec3 {
	return pivot.Sub(rot.Vector().Mul(length))
}

func lerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
