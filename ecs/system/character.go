package system

import (
	"github.com/milk9111/mayfly/controller"
	"github.com/milk9111/mayfly/ecs"
	"github.com/milk9111/mayfly/ecs/component"
)

// CharacterSystem feeds each character its input and runs the controller's
// frame update.
type CharacterSystem struct{}

func NewCharacterSystem() *CharacterSystem {
	return &CharacterSystem{}
}

func (s *CharacterSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	var clock controller.FrameClock = w
	dt := clock.DeltaSeconds()

	ecs.ForEach(w, component.CharacterComponent.Kind(), func(e ecs.Entity, c *component.Character) {
		if c.Controller == nil {
			return
		}
		if input, ok := ecs.Get(w, e, component.InputComponent.Kind()); ok {
			c.Bindings.Dispatch(input)
		}
		c.Controller.Tick(dt)
	})
}
