package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/mayfly/ecs"
	"github.com/milk9111/mayfly/ecs/component"
)

// View maps the world's XY plane onto the screen, seen from above: world +X
// points up the screen and +Y to the right.
type View struct {
	Center        mgl64.Vec3
	Zoom          float64
	Width, Height float64
}

// ViewOf centres a view on the camera's pivot.
func ViewOf(w *ecs.World, width, height float64) View {
	v := View{Zoom: 1, Width: width, Height: height}
	camEntity, ok := ecs.First(w, component.CameraComponent.Kind())
	if !ok {
		return v
	}
	if cam, ok := ecs.Get(w, camEntity, component.CameraComponent.Kind()); ok {
		v.Center = cam.Pivot
		if cam.Zoom > 0 {
			v.Zoom = cam.Zoom
		}
	}
	return v
}

func (v View) ToScreen(p mgl64.Vec3) (float32, float32) {
	x := v.Width/2 + (p.Y()-v.Center.Y())*v.Zoom
	y := v.Height/2 - (p.X()-v.Center.X())*v.Zoom
	return float32(x), float32(y)
}

// Scale converts a world length to pixels.
func (v View) Scale(length float64) float32 {
	return float32(length * v.Zoom)
}
