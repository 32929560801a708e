package entity

import (
	"fmt"

	"github.com/milk9111/mayfly/controller"
	"github.com/milk9111/mayfly/ecs"
	"github.com/milk9111/mayfly/ecs/component"
	"github.com/milk9111/mayfly/prefabs"
)

const (
	defaultZoom       = 0.5
	defaultSmoothness = 0.15
)

func NewCamera(w *ecs.World) (ecs.Entity, error) {
	spec, err := prefabs.LoadCameraSpec(prefabs.CameraSpecFile)
	if err != nil {
		return 0, fmt.Errorf("camera: load spec: %w", err)
	}

	camera := ecs.CreateEntity(w)
	if err := ecs.Add(w, camera, component.CameraTagComponent.Kind(), &component.CameraTag{}); err != nil {
		return 0, fmt.Errorf("camera: add camera tag: %w", err)
	}

	zoom := spec.Zoom
	if zoom <= 0 {
		zoom = defaultZoom
	}
	smooth := spec.Smoothness
	if smooth == 0 {
		smooth = defaultSmoothness
	}
	if err := ecs.Add(w, camera, component.CameraComponent.Kind(), &component.Camera{
		ArmLength:  controller.MinArmLength,
		Zoom:       zoom,
		Smoothness: smooth,
	}); err != nil {
		return 0, fmt.Errorf("camera: add camera component: %w", err)
	}

	return camera, nil
}
