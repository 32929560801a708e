package ecs

// System updates a world once per frame.
type System interface {
	Update(w *World)
}

// SystemFunc adapts a function to System.
type SystemFunc func(w *World)

func (f SystemFunc) Update(w *World) {
	f(w)
}

// Scheduler runs systems in registration order.
type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, system := range systems {
		s.Add(system)
	}
	return s
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

// Update runs every system and then closes the frame.
func (s *Scheduler) Update(w *World) {
	for _, system := range s.systems {
		system.Update(w)
	}
	w.EndFrame()
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
