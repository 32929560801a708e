package component

import (
	"github.com/milk9111/mayfly/controller"
	"github.com/milk9111/mayfly/spline"
)

// Character owns the controller of a playable body and the input bindings
// that feed it.
type Character struct {
	Controller *controller.CharacterController
	Bindings   controller.Bindings
	Spawn      Transform
}

var CharacterComponent = NewComponent[Character]()

// GuidePath is the takeoff curve attached to a character, kept for drawing
// and hot reload.
type GuidePath struct {
	Path   *spline.Path
	Source string
}

var GuidePathComponent = NewComponent[GuidePath]()

// Stats counts what happened to a character, for the HUD.
type Stats struct {
	Landings    int
	ModeChanges int
}

var StatsComponent = NewComponent[Stats]()
