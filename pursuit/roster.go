package pursuit

import (
	"errors"
	"fmt"
)

var (
	ErrNilAgent       = errors.New("pursuit: agent is nil")
	ErrEmptyAgentID   = errors.New("pursuit: agent id is empty")
	ErrDuplicateAgent = errors.New("pursuit: agent already registered")
)

// Role is the part an opponent played on its last decision.
type Role int

const (
	RoleIdle Role = iota
	RoleChaser
	RoleInterceptor
)

func (r Role) String() string {
	switch r {
	case RoleIdle:
		return "idle"
	case RoleChaser:
		return "chaser"
	case RoleInterceptor:
		return "interceptor"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Position is a world-space coordinate.
type Position struct {
	X float64
	Y float64
}

// Agent is a pursuing opponent.
type Agent struct {
	ID   string
	X    float64
	Y    float64
	Role Role
}

// Position returns the agent's world position.
func (a *Agent) Position() Position {
	return Position{X: a.X, Y: a.Y}
}

// Roster is the ordered set of opponents taking part in a pursuit.
// Registration order is significant: it breaks ties between equally close
// opponents. A roster is populated during setup and read during ticks; it
// carries no locking.
type Roster struct {
	agents []*Agent
}

// NewRoster creates a roster with the given agents registered in order.
func NewRoster(agents ...*Agent) (*Roster, error) {
	r := &Roster{}
	for _, a := range agents {
		if err := r.Register(a); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register appends an agent.
func (r *Roster) Register(a *Agent) error {
	if a == nil {
		return ErrNilAgent
	}
	if a.ID == "" {
		return ErrEmptyAgentID
	}
	if _, ok := r.Get(a.ID); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateAgent, a.ID)
	}
	r.agents = append(r.agents, a)
	return nil
}

// Unregister removes the agent with id, keeping the order of the rest.
func (r *Roster) Unregister(id string) bool {
	for i, a := range r.agents {
		if a.ID == id {
			r.agents = append(r.agents[:i], r.agents[i+1:]...)
			return true
		}
	}
	return false
}

// Get looks an agent up by id.
func (r *Roster) Get(id string) (*Agent, bool) {
	if r == nil {
		return nil, false
	}
	for _, a := range r.agents {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}

// Agents returns the agents in registration order. The slice is a copy; the
// agents are shared.
func (r *Roster) Agents() []*Agent {
	if r == nil {
		return nil
	}
	out := make([]*Agent, len(r.agents))
	copy(out, r.agents)
	return out
}

// Len returns the number of registered agents.
func (r *Roster) Len() int {
	if r == nil {
		return 0
	}
	return len(r.agents)
}
