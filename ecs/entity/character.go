package entity

import (
	"context"
	"fmt"

	"github.com/milk9111/mayfly/common"
	"github.com/milk9111/mayfly/controller"
	"github.com/milk9111/mayfly/ecs"
	"github.com/milk9111/mayfly/ecs/component"
	"github.com/milk9111/mayfly/prefabs"
	"github.com/milk9111/mayfly/spline"
	"go.uber.org/zap"
)

// NewCharacter builds the player character from a prefab: its body, input,
// controller and, when the prefab has one, the takeoff guide path.
func NewCharacter(ctx context.Context, w *ecs.World, filename string, log *zap.Logger) (ecs.Entity, error) {
	if log == nil {
		log = zap.NewNop()
	}
	spec, err := prefabs.LoadCharacterSpec(filename)
	if err != nil {
		return 0, fmt.Errorf("character: load spec: %w", err)
	}
	mode, err := spec.Body.MovementMode()
	if err != nil {
		return 0, fmt.Errorf("character: %w", err)
	}
	path, source, err := buildGuidePath(ctx, spec.TakeoffPath)
	if err != nil {
		return 0, fmt.Errorf("character: %w", err)
	}

	e := ecs.CreateEntity(w)
	tr := &component.Transform{
		Location: spec.Transform.Location(),
		Rotation: spec.Transform.Rotation(),
	}
	body := &component.Body{
		Mode:            mode,
		Mass:            spec.Body.Mass,
		Radius:          spec.Body.Radius,
		HalfHeight:      spec.Body.HalfHeight,
		MaxWalkSpeed:    spec.Body.MaxWalkSpeed,
		MaxFlySpeed:     spec.Body.MaxFlySpeed,
		MaxAcceleration: spec.Body.MaxAcceleration,
		BrakingWalking:  spec.Body.BrakingWalking,
		BrakingFlying:   spec.Body.BrakingFlying,
		JumpZVelocity:   spec.Body.JumpZVelocity,
		AirControl:      spec.Body.AirControl,
	}

	opts := []controller.Option{controller.WithLogger(log.With(zap.String("character", spec.Name)))}
	if path != nil {
		opts = append(opts, controller.WithGuidePath(path))
	}
	ctrl, err := controller.New(component.Pawn{Transform: tr, Body: body}, w.Timers(), spec.Tuning.Tuning(), opts...)
	if err != nil {
		return 0, fmt.Errorf("character: new controller: %w", err)
	}
	body.OnLanded = ctrl.Landed

	char := &component.Character{Controller: ctrl, Spawn: *tr}
	ctrl.SetupInput(&char.Bindings)

	if err := ecs.Add(w, e, component.TransformComponent.Kind(), tr); err != nil {
		return 0, fmt.Errorf("character: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.BodyComponent.Kind(), body); err != nil {
		return 0, fmt.Errorf("character: add body: %w", err)
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Radius: body.Radius}); err != nil {
		return 0, fmt.Errorf("character: add physics body: %w", err)
	}
	if err := ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{}); err != nil {
		return 0, fmt.Errorf("character: add input: %w", err)
	}
	if err := ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		return 0, fmt.Errorf("character: add player tag: %w", err)
	}
	if err := ecs.Add(w, e, component.StatsComponent.Kind(), &component.Stats{}); err != nil {
		return 0, fmt.Errorf("character: add stats: %w", err)
	}
	if err := ecs.Add(w, e, component.CharacterComponent.Kind(), char); err != nil {
		return 0, fmt.Errorf("character: add character: %w", err)
	}
	if path != nil {
		if err := ecs.Add(w, e, component.GuidePathComponent.Kind(), &component.GuidePath{Path: path, Source: source}); err != nil {
			return 0, fmt.Errorf("character: add guide path: %w", err)
		}
	}

	log.Info("character spawned",
		zap.String("name", spec.Name),
		zap.Stringer("mode", mode),
		zap.Bool("guide_path", path != nil),
	)
	return e, nil
}

// ReloadGuidePath rebuilds e's takeoff path from the prefab. It fails while
// a takeoff is in progress; the caller may retry later.
func ReloadGuidePath(ctx context.Context, w *ecs.World, e ecs.Entity, filename string) error {
	c, ok := ecs.Get(w, e, component.CharacterComponent.Kind())
	if !ok || c.Controller == nil {
		return fmt.Errorf("character: %s has no controller", e)
	}
	// the swap would be refused anyway; skip rerunning the path script
	if c.Controller.TakeoffState().Active() {
		return controller.ErrTakeoffActive
	}
	spec, err := prefabs.LoadCharacterSpec(filename)
	if err != nil {
		return fmt.Errorf("character: load spec: %w", err)
	}
	path, source, err := buildGuidePath(ctx, spec.TakeoffPath)
	if err != nil {
		return fmt.Errorf("character: %w", err)
	}

	if path == nil {
		if err := c.Controller.SetGuidePath(nil); err != nil {
			return err
		}
		ecs.Remove(w, e, component.GuidePathComponent.Kind())
		return nil
	}
	if err := c.Controller.SetGuidePath(path); err != nil {
		return err
	}
	return ecs.Add(w, e, component.GuidePathComponent.Kind(), &component.GuidePath{Path: path, Source: source})
}

// ResetCharacter puts e back at its spawn point, at rest and walking. A
// takeoff in progress is abandoned.
func ResetCharacter(w *ecs.World, e ecs.Entity) bool {
	c, ok := ecs.Get(w, e, component.CharacterComponent.Kind())
	if !ok {
		return false
	}
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return false
	}
	body, ok := ecs.Get(w, e, component.BodyComponent.Kind())
	if !ok {
		return false
	}
	if c.Controller != nil {
		c.Controller.CancelTakeoff()
	}
	*tr = c.Spawn
	body.Velocity = body.Velocity.Mul(0)
	body.ConsumeInput()
	body.SetMode(common.MovementWalking)
	return true
}

func buildGuidePath(ctx context.Context, spec *prefabs.PathSpec) (*spline.Path, string, error) {
	if spec == nil {
		return nil, "", nil
	}
	points, err := prefabs.PathPoints(ctx, spec)
	if err != nil {
		return nil, "", err
	}
	path, err := spline.New(points)
	if err != nil {
		return nil, "", fmt.Errorf("guide path: %w", err)
	}
	source := spec.Script
	if source == "" {
		source = "points"
	}
	return path, source, nil
}
