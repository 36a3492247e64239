// Package pursuit decides, once per player move, what every opponent does:
// the closest opponent chases the player along a path, the others head for
// chokepoints picked by the bottleneck analyzer, and anyone without a useful
// move holds.
package pursuit

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/milk9111/gridchase/bottleneck"
	"github.com/milk9111/gridchase/grid"
	"github.com/milk9111/gridchase/pathfind"
)

// DecisionKind tags a Decision.
type DecisionKind int

const (
	Hold DecisionKind = iota
	Chase
	Intercept
)

func (k DecisionKind) String() string {
	switch k {
	case Hold:
		return "hold"
	case Chase:
		return "chase"
	case Intercept:
		return "intercept"
	default:
		return fmt.Sprintf("decision(%d)", int(k))
	}
}

// Decision is what one opponent does this turn. Step is meaningful only when
// Kind is Chase or Intercept. Path is set for Chase, Candidate for Intercept.
type Decision struct {
	Kind      DecisionKind
	AgentID   string
	Role      Role
	Step      grid.Cell
	Path      pathfind.Result
	Candidate bottleneck.Candidate
}

// Moves reports whether the decision changes the agent's cell.
func (d Decision) Moves() bool {
	return d.Kind != Hold
}

// CaughtSink receives the single "caught" signal of a tick.
type CaughtSink interface {
	Caught()
}

// CaughtFunc adapts a function to CaughtSink.
type CaughtFunc func()

func (f CaughtFunc) Caught() {
	if f != nil {
		f()
	}
}

// Tick records one player-move round.
type Tick struct {
	Decisions []Decision
	Caught    bool
	CaughtBy  string
}

// Option configures a Policy.
type Option func(*Policy)

// WithCaughtSink sets the receiver of the caught signal.
func WithCaughtSink(s CaughtSink) Option {
	return func(p *Policy) { p.sink = s }
}

// WithLogger sets the logger used for decisions.
func WithLogger(l *slog.Logger) Option {
	return func(p *Policy) { p.logger = l }
}

// Policy assigns roles and moves over an injected roster.
type Policy struct {
	grid     grid.Grid
	finder   *pathfind.Finder
	analyzer *bottleneck.Analyzer
	roster   *Roster
	sink     CaughtSink
	logger   *slog.Logger
}

// NewPolicy wires a policy. The analyzer must search the finder's grid.
func NewPolicy(finder *pathfind.Finder, analyzer *bottleneck.Analyzer, roster *Roster, options ...Option) *Policy {
	p := &Policy{
		grid:     finder.Grid(),
		finder:   finder,
		analyzer: analyzer,
		roster:   roster,
	}
	for _, o := range options {
		o(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Roster returns the roster the policy reads.
func (p *Policy) Roster() *Roster {
	return p.roster
}

// Closest returns the opponent with the shortest path to the player.
// Ties go to the earliest registered opponent; opponents that cannot reach
// the player rank behind every opponent that can.
func (p *Policy) Closest(player Position) (*Agent, bool) {
	playerCell, ok := p.grid.CellAt(player.X, player.Y)
	if !ok {
		return nil, false
	}

	var closest *Agent
	best := math.MaxInt
	for _, a := range p.roster.Agents() {
		length := math.MaxInt
		if cell, ok := p.grid.CellAt(a.X, a.Y); ok {
			if n, found := p.finder.Length(cell, playerCell); found {
				length = n
			}
		}
		if closest == nil || length < best {
			closest = a
			best = length
		}
	}
	return closest, closest != nil
}

// Decide picks a move for self without changing any state.
func (p *Policy) Decide(self *Agent, player Position) Decision {
	closest, _ := p.Closest(player)
	return p.decide(self, player, closest)
}

// decide is Decide with the chaser already chosen. A nil chaser makes self
// an interceptor.
func (p *Policy) decide(self *Agent, player Position, chaser *Agent) Decision {
	hold := Decision{Kind: Hold, AgentID: self.ID, Role: RoleIdle}

	playerCell, ok := p.grid.CellAt(player.X, player.Y)
	if !ok {
		p.logger.Debug("pursuit: player outside grid", "agent", self.ID, "x", player.X, "y", player.Y)
		return hold
	}
	selfCell, ok := p.grid.CellAt(self.X, self.Y)
	if !ok {
		p.logger.Debug("pursuit: agent outside grid", "agent", self.ID, "x", self.X, "y", self.Y)
		return hold
	}

	if chaser == self {
		hold.Role = RoleChaser
		path := p.finder.FindPath(selfCell, playerCell)
		step, ok := path.Next()
		if !ok {
			return hold
		}
		return Decision{Kind: Chase, AgentID: self.ID, Role: RoleChaser, Step: step.Cell, Path: path}
	}

	hold.Role = RoleInterceptor
	candidate := p.analyzer.Find(selfCell, playerCell, p.allyCells(self))
	step, ok := candidate.FirstStep()
	if !ok {
		return hold
	}
	return Decision{Kind: Intercept, AgentID: self.ID, Role: RoleInterceptor, Step: step.Cell, Candidate: candidate}
}

func (p *Policy) allyCells(self *Agent) []grid.Cell {
	agents := p.roster.Agents()
	out := make([]grid.Cell, 0, len(agents))
	for _, a := range agents {
		if a == self {
			continue
		}
		if c, ok := p.grid.CellAt(a.X, a.Y); ok {
			out = append(out, c)
		}
	}
	return out
}

// Apply moves the agent onto the decision's step, keeping the agent's offset
// inside its tile.
func (p *Policy) Apply(self *Agent, d Decision) {
	self.Role = d.Role
	if !d.Moves() {
		return
	}
	if cur, ok := p.grid.CellAt(self.X, self.Y); ok {
		self.X = d.Step.WorldX + (self.X - cur.WorldX)
		self.Y = d.Step.WorldY + (self.Y - cur.WorldY)
		return
	}
	self.X = d.Step.WorldX
	self.Y = d.Step.WorldY
}

// OnPlayerMove runs one round. The chaser is the opponent closest to the
// player before anyone moves. Then every opponent, in registration order,
// decides against the current positions and moves before the next one
// decides. The caught signal fires at most once.
func (p *Policy) OnPlayerMove(player Position) Tick {
	agents := p.roster.Agents()
	tick := Tick{Decisions: make([]Decision, 0, len(agents))}

	chaser, _ := p.Closest(player)
	playerCell, playerOK := p.grid.CellAt(player.X, player.Y)
	for _, a := range agents {
		d := p.decide(a, player, chaser)
		p.Apply(a, d)
		tick.Decisions = append(tick.Decisions, d)

		p.logger.Debug("pursuit: decision",
			"agent", a.ID, "kind", d.Kind.String(), "role", d.Role.String(), "x", a.X, "y", a.Y)

		if tick.Caught || !playerOK {
			continue
		}
		if cell, ok := p.grid.CellAt(a.X, a.Y); ok && cell.Point() == playerCell.Point() {
			tick.Caught = true
			tick.CaughtBy = a.ID
			if p.sink != nil {
				p.sink.Caught()
			}
		}
	}
	return tick
}
