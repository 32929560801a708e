package system

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/mayfly/common"
	"github.com/milk9111/mayfly/controller"
	"github.com/milk9111/mayfly/ecs"
	"github.com/milk9111/mayfly/ecs/component"
)

func testBody(mode common.MovementMode) *component.Body {
	return &component.Body{
		Mode:            mode,
		Mass:            100,
		Radius:          34,
		MaxWalkSpeed:    600,
		MaxFlySpeed:     1200,
		MaxAcceleration: 2048,
		BrakingWalking:  2048,
		BrakingFlying:   1000,
		JumpZVelocity:   420,
		AirControl:      0.05,
	}
}

func spawnBody(t *testing.T, w *ecs.World, loc mgl64.Vec3, b *component.Body) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Location: loc}); err != nil {
		t.Fatal(err)
	}
	if err := ecs.Add(w, e, component.BodyComponent.Kind(), b); err != nil {
		t.Fatal(err)
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Radius: b.Radius}); err != nil {
		t.Fatal(err)
	}
	return e
}

func spawnObstacle(t *testing.T, w *ecs.World, center mgl64.Vec3, width, depth, height float64) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Location: center}); err != nil {
		t.Fatal(err)
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Width: width, Depth: depth, Static: true}); err != nil {
		t.Fatal(err)
	}
	if err := ecs.Add(w, e, component.ObstacleComponent.Kind(), &component.Obstacle{Height: height}); err != nil {
		t.Fatal(err)
	}
	return e
}

func location(w *ecs.World, e ecs.Entity) mgl64.Vec3 {
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	return tr.Location
}

func TestAccelerate(t *testing.T) {
	cases := []struct {
		name  string
		v     mgl64.Vec3
		input mgl64.Vec3
		want  float64 // resulting speed
	}{
		{"from_rest", mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, 204.8},
		{"capped_at_max", mgl64.Vec3{590, 0, 0}, mgl64.Vec3{1, 0, 0}, 600},
		{"brakes_without_input", mgl64.Vec3{300, 0, 0}, mgl64.Vec3{}, 95.2},
		{"brakes_to_rest", mgl64.Vec3{100, 0, 0}, mgl64.Vec3{}, 0},
		{"over_max_brakes_toward_max", mgl64.Vec3{2500, 0, 0}, mgl64.Vec3{1, 0, 0}, 2295.2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := accelerate(c.v, c.input, 600, 2048, 2048, 0.1)
			if math.Abs(got.Len()-c.want) > 1e-6 {
				t.Fatalf("expected speed %v, got %v (%v)", c.want, got.Len(), got)
			}
		})
	}
}

func TestIntegrateVelocityFallingAppliesGravity(t *testing.T) {
	b := testBody(common.MovementFalling)
	integrateVelocity(b, mgl64.Vec3{}, 0.5)
	if math.Abs(b.Velocity.Z()-common.Gravity*0.5) > 1e-9 {
		t.Fatalf("expected vz %v, got %v", common.Gravity*0.5, b.Velocity.Z())
	}

	flying := testBody(common.MovementFlying)
	integrateVelocity(flying, mgl64.Vec3{}, 0.5)
	if flying.Velocity.Z() != 0 {
		t.Fatalf("flying bodies ignore gravity, got vz %v", flying.Velocity.Z())
	}
}

func TestStepVertical(t *testing.T) {
	cases := []struct {
		name     string
		mode     common.MovementMode
		z, vz    float64
		wantMode common.MovementMode
		wantZ    float64
		landed   bool
	}{
		{"walking_stays_on_ground", common.MovementWalking, 0, 0, common.MovementWalking, 0, false},
		{"walking_launched_upward", common.MovementWalking, 0, 100, common.MovementFalling, 10, false},
		{"walking_left_in_the_air", common.MovementWalking, 200, 0, common.MovementFalling, 200, false},
		{"falling_lands", common.MovementFalling, 5, -100, common.MovementWalking, 0, true},
		{"falling_in_air", common.MovementFalling, 200, -100, common.MovementFalling, 190, false},
		{"flying_clamped_to_ground", common.MovementFlying, 5, -100, common.MovementFlying, 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tr := &component.Transform{Location: mgl64.Vec3{0, 0, c.z}}
			b := testBody(c.mode)
			b.Velocity = mgl64.Vec3{0, 0, c.vz}

			hit, landed := stepVertical(tr, b, 0.1)

			if landed != c.landed {
				t.Fatalf("expected landed=%v", c.landed)
			}
			if b.Mode != c.wantMode {
				t.Fatalf("expected mode %s, got %s", c.wantMode, b.Mode)
			}
			if math.Abs(tr.Location.Z()-c.wantZ) > 1e-9 {
				t.Fatalf("expected z %v, got %v", c.wantZ, tr.Location.Z())
			}
			if landed && hit.Normal != groundNormal {
				t.Fatalf("expected ground normal, got %v", hit.Normal)
			}
		})
	}
}

func TestMovementSystemFallAndLand(t *testing.T) {
	w := ecs.NewWorld()
	b := testBody(common.MovementFalling)
	var hits []common.HitResult
	b.OnLanded = func(hit common.HitResult) { hits = append(hits, hit) }
	e := spawnBody(t, w, mgl64.Vec3{0, 0, 100}, b)

	s := NewMovementSystem()
	landedEvents := 0
	modeEvents := 0
	for i := 0; i < 120 && len(hits) == 0; i++ {
		s.Update(w)
		for _, evt := range w.Events().Drain() {
			switch evt.Type {
			case ecs.EventLanded:
				landedEvents++
			case ecs.EventModeChanged:
				modeEvents++
			}
		}
	}

	if len(hits) != 1 || landedEvents != 1 {
		t.Fatalf("expected one landing, got hooks=%d events=%d", len(hits), landedEvents)
	}
	if modeEvents != 1 {
		t.Fatalf("expected one mode change, got %d", modeEvents)
	}
	if b.Mode != common.MovementWalking || location(w, e).Z() != 0 {
		t.Fatalf("expected walking on the ground, got %s at %v", b.Mode, location(w, e))
	}
}

func TestMovementSystemWalksFromInput(t *testing.T) {
	w := ecs.NewWorld()
	b := testBody(common.MovementWalking)
	e := spawnBody(t, w, mgl64.Vec3{}, b)
	s := NewMovementSystem()

	for i := 0; i < 60; i++ {
		b.AddInput(mgl64.Vec3{0, 1, 0}, 1)
		s.Update(w)
	}

	loc := location(w, e)
	if loc.Y() <= 100 || math.Abs(loc.X()) > 1e-6 {
		t.Fatalf("expected to walk along +Y, got %v", loc)
	}
	if b.Velocity.Len() > b.MaxWalkSpeed+1e-6 {
		t.Fatalf("walk speed %v exceeds max %v", b.Velocity.Len(), b.MaxWalkSpeed)
	}
}

func TestMovementSystemObstacleBlocksUnlessAboveOrNoClip(t *testing.T) {
	cases := []struct {
		name    string
		mode    common.MovementMode
		z       float64
		noclip  bool
		blocked bool
	}{
		{"blocked_on_ground", common.MovementWalking, 0, false, true},
		{"flies_over", common.MovementFlying, 300, false, false},
		{"noclip", common.MovementWalking, 0, true, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			spawnObstacle(t, w, mgl64.Vec3{200, 0, 0}, 100, 400, 150)
			b := testBody(c.mode)
			e := spawnBody(t, w, mgl64.Vec3{0, 0, c.z}, b)
			s := NewMovementSystem(WithNoClip(c.noclip))

			for i := 0; i < 120; i++ {
				if c.mode == common.MovementFlying {
					b.Velocity[2] = 0
				}
				b.AddInput(mgl64.Vec3{1, 0, 0}, 1)
				s.Update(w)
			}

			// the obstacle's near face is at x=150; the body's edge stops there
			x := location(w, e).X()
			if c.blocked && x > 150-b.Radius+1 {
				t.Fatalf("expected to be blocked before the obstacle, got x=%v", x)
			}
			if !c.blocked && x < 300 {
				t.Fatalf("expected to pass the obstacle, got x=%v", x)
			}
		})
	}
}

func TestMovementSystemLeavesPinnedBodiesAlone(t *testing.T) {
	w := ecs.NewWorld()
	b := testBody(common.MovementWalking)
	e := spawnBody(t, w, mgl64.Vec3{}, b)
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())

	path := straightUp{length: 300}
	c, err := controller.New(component.Pawn{Transform: tr, Body: b}, w.Timers(), controller.DefaultTuning(), controller.WithGuidePath(path))
	if err != nil {
		t.Fatal(err)
	}
	if err := ecs.Add(w, e, component.CharacterComponent.Kind(), &component.Character{Controller: c}); err != nil {
		t.Fatal(err)
	}

	c.Takeoff()
	tr.Location = mgl64.Vec3{0, 0, 120}
	NewMovementSystem().Update(w)

	if tr.Location != (mgl64.Vec3{0, 0, 120}) {
		t.Fatalf("pinned body moved to %v", tr.Location)
	}
	if b.Mode != common.MovementWalking {
		t.Fatalf("pinned body changed mode to %s", b.Mode)
	}
}

type straightUp struct {
	length float64
}

func (p straightUp) Length() float64 { return p.length }

func (p straightUp) LocationAtDistance(d float64) mgl64.Vec3 {
	return mgl64.Vec3{0, 0, mgl64.Clamp(d, 0, p.length)}
}
