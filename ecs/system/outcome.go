package system

import (
	"github.com/milk9111/gridchase/ecs"
)

// OutcomeSystem records the first catch on the GameState entity.
type OutcomeSystem struct{}

func NewOutcomeSystem() *OutcomeSystem {
	return &OutcomeSystem{}
}

func (o *OutcomeSystem) Update(w *ecs.World) {
	if o == nil || w == nil {
		return
	}
	events := w.Events().Take(ecs.EventCaught)
	if len(events) == 0 {
		return
	}
	state, ok := gameState(w)
	if !ok || state.Caught {
		return
	}
	for _, evt := range events {
		c, ok := evt.Data.(ecs.Caught)
		if !ok {
			continue
		}
		state.Caught = true
		state.CaughtBy = c.ID
		state.CaughtTurn = c.Turn
		return
	}
}
