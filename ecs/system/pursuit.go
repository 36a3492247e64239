package system

import (
	"log/slog"

	"github.com/milk9111/gridchase/bottleneck"
	"github.com/milk9111/gridchase/ecs"
	"github.com/milk9111/gridchase/pathfind"
	"github.com/milk9111/gridchase/pursuit"
)

// PursuitSystem answers every EventPlayerMoved with one pursuit round. It
// mirrors opponent entities into a roster, runs the policy, then writes the
// moved positions and chosen roles back onto the entities. A catch is pushed
// as EventCaught.
type PursuitSystem struct {
	roster *pursuit.Roster
	policy *pursuit.Policy
	agents map[ecs.Entity]*pursuit.Agent
	logger *slog.Logger
	sink   pursuit.CaughtSink
}

// PursuitOption configures a PursuitSystem.
type PursuitOption func(*PursuitSystem)

// WithPursuitLogger sets the logger shared with the policy and analyzer.
func WithPursuitLogger(l *slog.Logger) PursuitOption {
	return func(s *PursuitSystem) { s.logger = l }
}

// WithCaughtSink forwards the policy's caught signal.
func WithCaughtSink(sink pursuit.CaughtSink) PursuitOption {
	return func(s *PursuitSystem) { s.sink = sink }
}

func NewPursuitSystem(finder *pathfind.Finder, options ...PursuitOption) *PursuitSystem {
	s := &PursuitSystem{
		roster: &pursuit.Roster{},
		agents: map[ecs.Entity]*pursuit.Agent{},
	}
	for _, o := range options {
		o(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	policyOpts := []pursuit.Option{pursuit.WithLogger(s.logger)}
	if s.sink != nil {
		policyOpts = append(policyOpts, pursuit.WithCaughtSink(s.sink))
	}
	s.policy = pursuit.NewPolicy(finder, bottleneck.New(finder, bottleneck.WithLogger(s.logger)), s.roster, policyOpts...)
	return s
}

// Roster exposes the mirrored roster.
func (s *PursuitSystem) Roster() *pursuit.Roster {
	return s.roster
}

func (s *PursuitSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	moves := w.Events().Take(ecs.EventPlayerMoved)
	if len(moves) == 0 {
		return
	}

	for _, evt := range moves {
		moved, ok := evt.Data.(ecs.PlayerMoved)
		if !ok {
			continue
		}
		refs := s.sync(w)
		tick := s.policy.OnPlayerMove(pursuit.Position{X: moved.X, Y: moved.Y})
		s.writeBack(refs, tick)

		if tick.Caught {
			var by ecs.Entity
			for _, ref := range refs {
				if ref.opponent.ID == tick.CaughtBy {
					by = ref.entity
				}
			}
			s.logger.Info("player caught", "turn", moved.Turn, "by", tick.CaughtBy)
			w.Events().Push(ecs.Event{
				Type: ecs.EventCaught,
				Data: ecs.Caught{Opponent: by, ID: tick.CaughtBy, Turn: moved.Turn},
			})
			return
		}
	}
}

// sync registers new opponents in Order and drops destroyed ones, then
// copies every transform into its agent.
func (s *PursuitSystem) sync(w *ecs.World) []opponentRef {
	refs := opponents(w)

	live := make(map[ecs.Entity]bool, len(refs))
	for _, ref := range refs {
		live[ref.entity] = true
	}
	for e, a := range s.agents {
		if !live[e] {
			s.roster.Unregister(a.ID)
			delete(s.agents, e)
		}
	}

	for _, ref := range refs {
		a, ok := s.agents[ref.entity]
		if !ok {
			a = &pursuit.Agent{ID: ref.opponent.ID}
			if err := s.roster.Register(a); err != nil {
				s.logger.Error("opponent not registered", "id", ref.opponent.ID, "err", err)
				continue
			}
			s.agents[ref.entity] = a
		}
		a.X, a.Y = ref.transform.X, ref.transform.Y
	}
	return refs
}

func (s *PursuitSystem) writeBack(refs []opponentRef, tick pursuit.Tick) {
	byID := make(map[string]pursuit.Decision, len(tick.Decisions))
	for _, d := range tick.Decisions {
		byID[d.AgentID] = d
	}

	for _, ref := range refs {
		a, ok := s.agents[ref.entity]
		if !ok {
			continue
		}
		ref.transform.X, ref.transform.Y = a.X, a.Y
		ref.opponent.Role = a.Role

		d, ok := byID[a.ID]
		if !ok {
			continue
		}
		ref.opponent.Decision = d.Kind
		ref.opponent.HasChokepoint = false
		if n, ok := d.Candidate.Node(); ok && d.Kind == pursuit.Intercept {
			ref.opponent.ChokepointX, ref.opponent.ChokepointY = n.Cell.X, n.Cell.Y
			ref.opponent.HasChokepoint = true
		}
	}
}
