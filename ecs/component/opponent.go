package component

import "github.com/milk9111/gridchase/pursuit"

// Opponent marks a pursuer. Order is its registration order; lower orders
// win ties for the chaser role.
type Opponent struct {
	ID       string
	Order    int
	Role     pursuit.Role
	Decision pursuit.DecisionKind
	// Chokepoint is the tile an interceptor is heading for. HasChokepoint
	// is false for chasers and holds.
	ChokepointX   int
	ChokepointY   int
	HasChokepoint bool
}

var OpponentComponent = NewComponent[Opponent]()
