package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/mayfly/ecs"
	"github.com/milk9111/mayfly/ecs/component"
	"github.com/milk9111/mayfly/prefabs"
)

// LoadLevel creates one static obstacle entity per obstacle in the level
// prefab.
func LoadLevel(w *ecs.World, filename string) ([]ecs.Entity, error) {
	spec, err := prefabs.LoadLevelSpec(filename)
	if err != nil {
		return nil, fmt.Errorf("level: load spec: %w", err)
	}

	out := make([]ecs.Entity, 0, len(spec.Obstacles))
	for i, o := range spec.Obstacles {
		e, err := NewObstacle(w, o)
		if err != nil {
			return nil, fmt.Errorf("level: obstacle %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func NewObstacle(w *ecs.World, spec prefabs.ObstacleSpec) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		Location: mgl64.Vec3{spec.X, spec.Y, 0},
	}); err != nil {
		return 0, fmt.Errorf("add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:  spec.Width,
		Depth:  spec.Depth,
		Static: true,
	}); err != nil {
		return 0, fmt.Errorf("add physics body: %w", err)
	}
	if err := ecs.Add(w, e, component.ObstacleComponent.Kind(), &component.Obstacle{Height: spec.Height}); err != nil {
		return 0, fmt.Errorf("add obstacle: %w", err)
	}
	return e, nil
}
