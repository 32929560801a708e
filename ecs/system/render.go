package system

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/mayfly/common"
	"github.com/milk9111/mayfly/ecs"
	"github.com/milk9111/mayfly/ecs/component"
	"golang.org/x/image/colornames"
)

const (
	gridSpacing     = 200.0
	arrowLength     = 120.0
	pathSamples     = 48
	altitudeScale   = 1.0 / 1000
	obstacleMaxTint = 600.0
)

var (
	backgroundColor = colornames.Darkslategray
	gridColor       = color.NRGBA{R: 255, G: 255, B: 255, A: 24}
	shadowColor     = color.NRGBA{A: 96}
	bodyColor       = colornames.Lightsteelblue
	facingColor     = colornames.Yellow
	controlColor    = colornames.Lime
	pathColor       = colornames.Orange
	cameraColor     = colornames.Lightgrey
)

// RenderSystem draws the world from above. Altitude shows as a growing body
// and a shadow left on the ground.
type RenderSystem struct {
	Debug bool
	Space *cp.Space
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}
	b := screen.Bounds()
	view := ViewOf(w, float64(b.Dx()), float64(b.Dy()))

	screen.Fill(backgroundColor)
	drawGrid(screen, view)

	ecs.ForEach2(w, component.TransformComponent.Kind(), component.ObstacleComponent.Kind(), func(e ecs.Entity, tr *component.Transform, obs *component.Obstacle) {
		pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !ok {
			return
		}
		drawObstacle(screen, view, tr.Location, pb.Width, pb.Depth, obs.Height)
	})

	ecs.ForEach2(w, component.TransformComponent.Kind(), component.BodyComponent.Kind(), func(e ecs.Entity, tr *component.Transform, body *component.Body) {
		if gp, ok := ecs.Get(w, e, component.GuidePathComponent.Kind()); ok && gp.Path != nil {
			anchor, rot := tr.Location, tr.Rotation
			if c, ok := ecs.Get(w, e, component.CharacterComponent.Kind()); ok && c.Controller != nil {
				if st := c.Controller.TakeoffState(); st.Active() {
					anchor = st.Anchor
				}
			}
			drawGuidePath(screen, view, gp, anchor, rot)
		}

		drawBody(screen, view, tr, body)

		if c, ok := ecs.Get(w, e, component.CharacterComponent.Kind()); ok && c.Controller != nil {
			drawArrow(screen, view, tr.Location, c.Controller.ControlRotation().Vector(), controlColor)
		}
		drawArrow(screen, view, tr.Location, tr.Rotation.Vector(), facingColor)
	})

	if camEntity, ok := ecs.First(w, component.CameraComponent.Kind()); ok {
		if cam, ok := ecs.Get(w, camEntity, component.CameraComponent.Kind()); ok {
			x, y := view.ToScreen(cam.Location)
			vector.StrokeCircle(screen, x, y, 6, 2, cameraColor, true)
			px, py := view.ToScreen(cam.Pivot)
			vector.StrokeLine(screen, x, y, px, py, 1, cameraColor, true)
		}
	}

	if r.Debug {
		DrawPhysicsDebug(r.Space, view, screen)
	}
	drawHUD(w, screen)
}

func drawGrid(screen *ebiten.Image, view View) {
	halfW := view.Width / 2 / view.Zoom
	halfH := view.Height / 2 / view.Zoom

	minX := math.Floor((view.Center.X()-halfH)/gridSpacing) * gridSpacing
	for x := minX; x <= view.Center.X()+halfH; x += gridSpacing {
		_, sy := view.ToScreen(mgl64.Vec3{x, 0, 0})
		vector.StrokeLine(screen, 0, sy, float32(view.Width), sy, 1, gridColor, false)
	}
	minY := math.Floor((view.Center.Y()-halfW)/gridSpacing) * gridSpacing
	for y := minY; y <= view.Center.Y()+halfW; y += gridSpacing {
		sx, _ := view.ToScreen(mgl64.Vec3{0, y, 0})
		vector.StrokeLine(screen, sx, 0, sx, float32(view.Height), 1, gridColor, false)
	}
}

func drawObstacle(screen *ebiten.Image, view View, center mgl64.Vec3, width, depth, height float64) {
	// the far edge along X is the top of the screen rectangle
	x, y := view.ToScreen(mgl64.Vec3{center.X() + width/2, center.Y() - depth/2, 0})
	tint := uint8(80 + 120*common.Clamp(height/obstacleMaxTint, 0, 1))
	fill := color.NRGBA{R: tint, G: tint / 2, B: 40, A: 200}
	vector.FillRect(screen, x, y, view.Scale(depth), view.Scale(width), fill, false)
	vector.StrokeRect(screen, x, y, view.Scale(depth), view.Scale(width), 1, colornames.Sandybrown, false)
}

func drawBody(screen *ebiten.Image, view View, tr *component.Transform, body *component.Body) {
	radius := body.Radius
	if radius <= 0 {
		radius = 30
	}
	ground := mgl64.Vec3{tr.Location.X(), tr.Location.Y(), 0}
	gx, gy := view.ToScreen(ground)
	vector.DrawFilledCircle(screen, gx, gy, view.Scale(radius), shadowColor, true)

	x, y := view.ToScreen(tr.Location)
	scale := 1 + math.Max(tr.Location.Z(), 0)*altitudeScale
	vector.DrawFilledCircle(screen, x, y, view.Scale(radius*scale), bodyColor, true)
	if body.Mode == common.MovementFlying {
		vector.StrokeCircle(screen, x, y, view.Scale(radius*scale)+3, 2, colornames.Skyblue, true)
	}
}

func drawArrow(screen *ebiten.Image, view View, from, dir mgl64.Vec3, clr color.Color) {
	flat, ok := common.SafeNormal(mgl64.Vec3{dir.X(), dir.Y(), 0})
	if !ok {
		return
	}
	// shorten the arrow as the direction tilts out of the ground plane
	tip := from.Add(flat.Mul(arrowLength * math.Hypot(dir.X(), dir.Y())))
	x1, y1 := view.ToScreen(from)
	x2, y2 := view.ToScreen(tip)
	vector.StrokeLine(screen, x1, y1, x2, y2, 3, clr, true)
	vector.DrawFilledCircle(screen, x2, y2, 4, clr, true)
}

func drawGuidePath(screen *ebiten.Image, view View, gp *component.GuidePath, anchor mgl64.Vec3, rot common.Rotator) {
	length := gp.Path.Length()
	if length <= 0 {
		return
	}
	prev := anchor.Add(rot.RotateVector(gp.Path.LocationAtDistance(0)))
	for i := 1; i <= pathSamples; i++ {
		d := length * float64(i) / pathSamples
		next := anchor.Add(rot.RotateVector(gp.Path.LocationAtDistance(d)))
		x1, y1 := view.ToScreen(prev)
		x2, y2 := view.ToScreen(next)
		vector.StrokeLine(screen, x1, y1, x2, y2, 2, pathColor, true)
		prev = next
	}
}

func drawHUD(w *ecs.World, screen *ebiten.Image) {
	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return
	}
	tr, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	if !ok {
		return
	}
	body, ok := ecs.Get(w, player, component.BodyComponent.Kind())
	if !ok {
		return
	}

	text := fmt.Sprintf("Mode: %s\nSpeed: %.0f\nLocation: %.0f %.0f %.0f\nFacing: %s",
		body.Mode, body.Velocity.Len(), tr.Location.X(), tr.Location.Y(), tr.Location.Z(), tr.Rotation)
	if c, ok := ecs.Get(w, player, component.CharacterComponent.Kind()); ok && c.Controller != nil {
		st := c.Controller.TakeoffState()
		text += fmt.Sprintf("\nControl: %s\nArm: %.0f\nTakeoff: %s %.2f",
			c.Controller.ControlRotation(), c.Controller.SpringArm().TargetArmLength, st.Phase, st.Elapsed)
	}
	if st, ok := ecs.Get(w, player, component.StatsComponent.Kind()); ok {
		text += fmt.Sprintf("\nLandings: %d", st.Landings)
	}
	ebitenutil.DebugPrintAt(screen, text, 10, 10)
}

func vec2(v cp.Vector) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, 0}
}
