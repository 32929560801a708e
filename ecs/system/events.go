package system

import (
	"github.com/milk9111/mayfly/ecs"
	"github.com/milk9111/mayfly/ecs/component"
	"go.uber.org/zap"
)

// EventLogSystem drains the frame's events, logs them and tallies them into
// Stats components.
type EventLogSystem struct {
	log *zap.Logger
}

func NewEventLogSystem(log *zap.Logger) *EventLogSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &EventLogSystem{log: log}
}

func (s *EventLogSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	for _, evt := range w.Events().Drain() {
		switch data := evt.Data.(type) {
		case ecs.LandedEvent:
			s.log.Debug("event", zap.String("type", evt.Type), zap.Stringer("entity", data.Entity), zap.Float64("z", data.Hit.Location.Z()))
			if st, ok := ecs.Get(w, data.Entity, component.StatsComponent.Kind()); ok {
				st.Landings++
			}
		case ecs.ModeChangedEvent:
			s.log.Debug("event", zap.String("type", evt.Type), zap.Stringer("entity", data.Entity), zap.Stringer("from", data.From), zap.Stringer("to", data.To))
			if st, ok := ecs.Get(w, data.Entity, component.StatsComponent.Kind()); ok {
				st.ModeChanges++
			}
		default:
			s.log.Debug("event", zap.String("type", evt.Type))
		}
	}
}
