package component

import "github.com/jakecoffman/cp"

// PhysicsBody stores Chipmunk2D runtime data for the horizontal collision
// pass. Characters are circles; static colliders are boxes.
type PhysicsBody struct {
	Body   *cp.Body
	Shape  *cp.Shape
	Radius float64
	Width  float64
	Depth  float64
	Static bool
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()

// Obstacle is a box standing on the ground plane. Bodies above Height pass
// over it.
type Obstacle struct {
	Height float64
}

var ObstacleComponent = NewComponent[Obstacle]()
