package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/mayfly/common"
	"github.com/milk9111/mayfly/ecs"
	"github.com/milk9111/mayfly/ecs/component"
	"go.uber.org/zap"
)

const (
	collisionTypeCharacter cp.CollisionType = iota + 1
	collisionTypeObstacle
)

const (
	// groundTolerance is how far above the ground plane a walking body may
	// drift before it starts falling.
	groundTolerance = 0.5
	// swimSpeedScale scales MaxFlySpeed while swimming.
	swimSpeedScale = 0.5
)

var groundNormal = mgl64.Vec3{0, 0, 1}

// MovementSystem integrates every Body: acceleration from queued input,
// braking, gravity on Z, horizontal collisions through a Chipmunk space and
// landing on the ground plane at Z=0.
type MovementSystem struct {
	space         *cp.Space
	handlersReady bool
	noclip        bool
	log           *zap.Logger

	tracked map[ecs.Entity]*trackedBody
	modes   map[ecs.Entity]common.MovementMode
}

type trackedBody struct {
	body   *cp.Body
	shape  *cp.Shape
	static bool
}

type MovementOption func(*MovementSystem)

// WithNoClip lets bodies pass through obstacles.
func WithNoClip(noclip bool) MovementOption {
	return func(s *MovementSystem) {
		s.noclip = noclip
	}
}

func WithMovementLogger(log *zap.Logger) MovementOption {
	return func(s *MovementSystem) {
		if log != nil {
			s.log = log
		}
	}
}

func NewMovementSystem(opts ...MovementOption) *MovementSystem {
	s := &MovementSystem{
		log:     zap.NewNop(),
		tracked: make(map[ecs.Entity]*trackedBody),
		modes:   make(map[ecs.Entity]common.MovementMode),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MovementSystem) Space() *cp.Space {
	if s == nil {
		return nil
	}
	return s.space
}

func (s *MovementSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	if s.space == nil {
		s.space = cp.NewSpace()
		s.space.Iterations = 20
		s.space.SetGravity(cp.Vector{})
		s.handlersReady = false
	}
	s.ensureHandlers()
	s.cleanup(w)
	s.syncObstacles(w)

	dt := w.DeltaSeconds()
	bodies := s.prepareBodies(w, dt)
	if dt > 0 {
		s.space.Step(dt)
	}
	for _, e := range bodies {
		s.settle(w, e, dt)
	}
	s.emitModeChanges(w)
}

func (s *MovementSystem) ensureHandlers() {
	if s.handlersReady || s.space == nil {
		return
	}
	handler := s.space.NewCollisionHandler(collisionTypeCharacter, collisionTypeObstacle)
	handler.UserData = s
	handler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*MovementSystem)
		if !ok || sys == nil {
			return true
		}
		if sys.noclip {
			return false
		}
		char, obstacle := arb.Shapes()
		if _, swapped := char.UserData.(float64); swapped {
			char, obstacle = obstacle, char
		}
		tr, ok := char.Body().UserData.(*component.Transform)
		if !ok || tr == nil {
			return true
		}
		height, ok := obstacle.UserData.(float64)
		if !ok {
			return true
		}
		// bodies above the top pass over
		return tr.Location.Z() < height
	}
	s.handlersReady = true
}

func (s *MovementSystem) cleanup(w *ecs.World) {
	for e, tb := range s.tracked {
		if ecs.IsAlive(w, e) && ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
			continue
		}
		if tb.shape != nil {
			s.space.RemoveShape(tb.shape)
		}
		if tb.body != nil && !tb.static {
			s.space.RemoveBody(tb.body)
		}
		delete(s.tracked, e)
		delete(s.modes, e)
	}
}

func (s *MovementSystem) syncObstacles(w *ecs.World) {
	ecs.ForEach2(w, component.TransformComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, tr *component.Transform, pb *component.PhysicsBody) {
		if !pb.Static || pb.Shape != nil {
			return
		}
		height := math.Inf(1)
		if obs, ok := ecs.Get(w, e, component.ObstacleComponent.Kind()); ok && obs.Height > 0 {
			height = obs.Height
		}
		x, y := tr.Location.X(), tr.Location.Y()
		bb := cp.BB{L: x - pb.Width/2, B: y - pb.Depth/2, R: x + pb.Width/2, T: y + pb.Depth/2}
		shape := cp.NewBox2(s.space.StaticBody, bb, 0)
		shape.SetCollisionType(collisionTypeObstacle)
		shape.SetFriction(0)
		shape.UserData = height
		s.space.AddShape(shape)

		pb.Body = s.space.StaticBody
		pb.Shape = shape
		s.tracked[e] = &trackedBody{body: pb.Body, shape: shape, static: true}
	})
}

// prepareBodies integrates velocity for every dynamic body and pushes its
// horizontal state into the space. It returns the bodies to settle after
// the step.
func (s *MovementSystem) prepareBodies(w *ecs.World, dt float64) []ecs.Entity {
	var out []ecs.Entity
	ecs.ForEach3(w, component.TransformComponent.Kind(), component.BodyComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, tr *component.Transform, b *component.Body, pb *component.PhysicsBody) {
		if pb.Static {
			return
		}
		if pb.Body == nil {
			s.createBody(e, tr, b, pb)
		}

		input := b.ConsumeInput()
		if pinned(w, e) {
			// the controller places the body itself
			pb.Body.SetPosition(cp.Vector{X: tr.Location.X(), Y: tr.Location.Y()})
			pb.Body.SetVelocity(0, 0)
			return
		}
		integrateVelocity(b, input, dt)
		pb.Body.SetPosition(cp.Vector{X: tr.Location.X(), Y: tr.Location.Y()})
		pb.Body.SetVelocity(b.Velocity.X(), b.Velocity.Y())
		out = append(out, e)
	})
	return out
}

func (s *MovementSystem) createBody(e ecs.Entity, tr *component.Transform, b *component.Body, pb *component.PhysicsBody) {
	radius := pb.Radius
	if radius <= 0 {
		radius = b.Radius
	}
	if radius <= 0 {
		radius = 1
	}
	mass := b.Mass
	if mass <= 0 {
		mass = 1
	}

	body := cp.NewBody(mass, math.Inf(1))
	body.SetPosition(cp.Vector{X: tr.Location.X(), Y: tr.Location.Y()})
	body.UserData = tr
	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetCollisionType(collisionTypeCharacter)
	shape.SetFriction(0)
	shape.SetElasticity(0)
	s.space.AddBody(body)
	s.space.AddShape(shape)

	pb.Body = body
	pb.Shape = shape
	s.tracked[e] = &trackedBody{body: body, shape: shape}
}

// settle reads the collided horizontal motion back and resolves the vertical
// axis against the ground plane.
func (s *MovementSystem) settle(w *ecs.World, e ecs.Entity, dt float64) {
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return
	}
	b, ok := ecs.Get(w, e, component.BodyComponent.Kind())
	if !ok {
		return
	}
	pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || pb.Body == nil {
		return
	}

	pos := pb.Body.Position()
	vel := pb.Body.Velocity()
	b.Velocity = mgl64.Vec3{vel.X, vel.Y, b.Velocity.Z()}
	tr.Location = mgl64.Vec3{pos.X, pos.Y, tr.Location.Z()}

	if hit, landed := stepVertical(tr, b, dt); landed {
		s.log.Debug("body landed", zap.Stringer("entity", e), zap.Float64("x", hit.Location.X()), zap.Float64("y", hit.Location.Y()))
		if b.OnLanded != nil {
			b.OnLanded(hit)
		}
		w.Events().Push(ecs.Event{Type: ecs.EventLanded, Data: ecs.LandedEvent{Entity: e, Hit: hit}})
	}
}

func (s *MovementSystem) emitModeChanges(w *ecs.World) {
	ecs.ForEach(w, component.BodyComponent.Kind(), func(e ecs.Entity, b *component.Body) {
		prev, seen := s.modes[e]
		s.modes[e] = b.Mode
		if !seen || prev == b.Mode {
			return
		}
		w.Events().Push(ecs.Event{Type: ecs.EventModeChanged, Data: ecs.ModeChangedEvent{Entity: e, From: prev, To: b.Mode}})
	})
}

// pinned reports whether e's controller is carrying it along a takeoff path.
func pinned(w *ecs.World, e ecs.Entity) bool {
	c, ok := ecs.Get(w, e, component.CharacterComponent.Kind())
	if !ok || c.Controller == nil {
		return false
	}
	return c.Controller.TakeoffState().Active()
}

// integrateVelocity applies one step of input acceleration, braking and
// gravity according to the body's movement mode.
func integrateVelocity(b *component.Body, input mgl64.Vec3, dt float64) {
	if dt <= 0 {
		return
	}
	flat := mgl64.Vec3{input.X(), input.Y(), 0}
	horizontal := mgl64.Vec3{b.Velocity.X(), b.Velocity.Y(), 0}

	switch b.Mode {
	case common.MovementWalking:
		horizontal = accelerate(horizontal, flat, b.MaxWalkSpeed, b.MaxAcceleration, b.BrakingWalking, dt)
		b.Velocity = mgl64.Vec3{horizontal.X(), horizontal.Y(), b.Velocity.Z()}
	case common.MovementFalling:
		horizontal = accelerate(horizontal, flat.Mul(b.AirControl), b.MaxWalkSpeed, b.MaxAcceleration, 0, dt)
		b.Velocity = mgl64.Vec3{horizontal.X(), horizontal.Y(), b.Velocity.Z() + common.Gravity*dt}
	case common.MovementFlying:
		b.Velocity = accelerate(b.Velocity, input, b.MaxFlySpeed, b.MaxAcceleration, b.BrakingFlying, dt)
	case common.MovementSwimming:
		b.Velocity = accelerate(b.Velocity, input, b.MaxFlySpeed*swimSpeedScale, b.MaxAcceleration, b.BrakingFlying, dt)
	}
}

// accelerate pushes v along input. Without input, or above maxSpeed, it
// first brakes: to rest, or down to maxSpeed. Input never raises the speed
// past maxSpeed or past what the body already had.
func accelerate(v, input mgl64.Vec3, maxSpeed, accel, braking, dt float64) mgl64.Vec3 {
	hasInput := input.Len() > common.KindaSmallNumber
	speed := v.Len()

	floor := 0.0
	if hasInput {
		floor = maxSpeed
	}
	if braking > 0 && speed > floor {
		next := math.Max(floor, speed-braking*dt)
		if speed > 0 {
			v = v.Mul(next / speed)
		}
		speed = next
	}
	if !hasInput {
		return v
	}
	limit := math.Max(maxSpeed, speed)
	return common.ClampLength(v.Add(input.Mul(accel*dt)), limit)
}

// stepVertical moves the body along Z and resolves the ground plane. It
// reports the contact when a falling body lands.
func stepVertical(tr *component.Transform, b *component.Body, dt float64) (common.HitResult, bool) {
	z := tr.Location.Z() + b.Velocity.Z()*dt

	switch b.Mode {
	case common.MovementWalking:
		if b.Velocity.Z() > 0 || z > groundTolerance {
			b.Mode = common.MovementFalling
			tr.Location[2] = math.Max(z, 0)
			return common.HitResult{}, false
		}
		tr.Location[2] = 0
		b.Velocity[2] = 0
	case common.MovementFalling:
		if z <= 0 && b.Velocity.Z() <= 0 {
			tr.Location[2] = 0
			b.SetMode(common.MovementWalking)
			loc := tr.Location
			return common.HitResult{Location: loc, Normal: groundNormal}, true
		}
		tr.Location[2] = z
	case common.MovementFlying, common.MovementSwimming:
		if z < 0 {
			z = 0
			b.Velocity[2] = math.Max(b.Velocity.Z(), 0)
		}
		tr.Location[2] = z
	}
	return common.HitResult{}, false
}
