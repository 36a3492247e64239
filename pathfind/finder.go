// Package pathfind implements the cost-guided grid search used both for
// direct pursuit and for distance estimation.
//
// The default mode is greedy best-first: a node's cost is the Manhattan
// distance remaining to the goal and never includes the distance already
// travelled. It is fast and deterministic but can return longer than shortest
// paths around obstacles. ModeAStar adds the travelled depth to the cost and
// must be selected explicitly.
package pathfind

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/milk9111/gridchase/grid"
)

var ErrUnknownMode = errors.New("pathfind: unknown mode")

// Mode selects how node cost is computed.
type Mode int

const (
	// ModeGreedy uses cost = Manhattan(cell, goal).
	ModeGreedy Mode = iota
	// ModeAStar uses cost = depth + Manhattan(cell, goal).
	ModeAStar
)

func (m Mode) String() string {
	switch m {
	case ModeGreedy:
		return "greedy"
	case ModeAStar:
		return "astar"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode maps a configuration string onto a Mode. The empty string selects
// ModeGreedy.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "greedy":
		return ModeGreedy, nil
	case "astar", "a*":
		return ModeAStar, nil
	default:
		return ModeGreedy, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Options defines parameters for the search.
type Options struct {
	// MaxExpansions caps the number of closed nodes per search. Zero means
	// one more than the number of tiles in the grid.
	MaxExpansions int
	Mode          Mode
	Logger        *slog.Logger
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithMaxExpansions caps node expansions per search.
func WithMaxExpansions(n int) Option {
	return func(o *Options) { o.MaxExpansions = n }
}

// WithMode selects the cost function.
func WithMode(m Mode) Option {
	return func(o *Options) { o.Mode = m }
}

// WithLogger sets the logger used for search diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// Result is the outcome of a search. Nodes run from the step nearest the
// start to the terminal node and never include the start itself. When Found
// is false, Nodes is the partial chain to the last visited node.
type Result struct {
	Nodes    []Node
	Found    bool
	Expanded int
}

// Len returns the number of steps in the result.
func (r Result) Len() int {
	return len(r.Nodes)
}

// Next returns the first step of a goal-reaching result.
func (r Result) Next() (Node, bool) {
	if !r.Found || len(r.Nodes) == 0 {
		return Node{}, false
	}
	return r.Nodes[0], true
}

// Cells returns the cells of the result in order.
func (r Result) Cells() []grid.Cell {
	out := make([]grid.Cell, 0, len(r.Nodes))
	for _, n := range r.Nodes {
		out = append(out, n.Cell)
	}
	return out
}

// Contains reports whether p is one of the result's cells.
func (r Result) Contains(p grid.Point) bool {
	for _, n := range r.Nodes {
		if n.Cell.Point() == p {
			return true
		}
	}
	return false
}

// Manhattan returns |dx| + |dy| between two cells.
func Manhattan(a, b grid.Cell) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Finder runs searches over a grid. It holds no per-search state and may be
// shared by every opponent in a tick.
type Finder struct {
	grid grid.Grid
	opts Options
}

// NewFinder creates a finder for g.
func NewFinder(g grid.Grid, options ...Option) *Finder {
	opts := Options{Mode: ModeGreedy}
	for _, o := range options {
		o(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Finder{grid: g, opts: opts}
}

// Grid returns the grid the finder searches.
func (f *Finder) Grid() grid.Grid {
	return f.grid
}

// Mode returns the configured cost mode.
func (f *Finder) Mode() Mode {
	return f.opts.Mode
}

func (f *Finder) maxExpansions() int {
	if f.opts.MaxExpansions > 0 {
		return f.opts.MaxExpansions
	}
	return f.grid.Len() + 1
}

func (f *Finder) cost(cell, goal grid.Cell, depth int) int {
	h := Manhattan(cell, goal)
	if f.opts.Mode == ModeAStar {
		return depth + h
	}
	return h
}

// FindPathWorld resolves both endpoints through the grid and searches
// between them. A missing endpoint yields an empty, not-found result.
func (f *Finder) FindPathWorld(fromX, fromY, toX, toY float64) Result {
	from, ok := f.grid.CellAt(fromX, fromY)
	if !ok {
		f.opts.Logger.Debug("pathfind: start outside grid", "x", fromX, "y", fromY)
		return Result{}
	}
	to, ok := f.grid.CellAt(toX, toY)
	if !ok {
		f.opts.Logger.Debug("pathfind: goal outside grid", "x", toX, "y", toY)
		return Result{}
	}
	return f.FindPath(from, to)
}

// Length returns the number of steps between two cells and whether the goal
// was reached.
func (f *Finder) Length(from, to grid.Cell) (int, bool) {
	r := f.FindPath(from, to)
	return r.Len(), r.Found
}

// FindPath searches from one cell to another.
func (f *Finder) FindPath(from, to grid.Cell) Result {
	tree, terminal, found, expanded := f.Search(from, to)
	return Result{
		Nodes:    tree.Chain(terminal),
		Found:    found,
		Expanded: expanded,
	}
}

// Search runs the search and returns the whole arena together with the
// terminal node index. Most callers want FindPath. A blocked or off-grid
// endpoint yields an empty arena and NoParent.
func (f *Finder) Search(from, to grid.Cell) (*Tree, int, bool, int) {
	if !f.grid.Walkable(from) || !f.grid.Walkable(to) {
		f.opts.Logger.Debug("pathfind: endpoint not walkable", "from", from.Point(), "to", to.Point())
		return NewTree(0), NoParent, false, 0
	}
	tree := NewTree(16)
	root := tree.Add(from, f.cost(from, to, 0), NoParent)

	goal := to.Point()
	open := []int{root}
	openSet := map[grid.Point]int{from.Point(): root}
	closed := make(map[grid.Point]bool)

	limit := f.maxExpansions()
	current := root
	expanded := 0

	for {
		node := tree.Node(current)
		// In greedy mode the cost reaches 0 exactly here.
		if node.Cell.Point() == goal {
			return tree, current, true, expanded
		}
		if expanded >= limit {
			f.opts.Logger.Warn("pathfind: expansion limit reached",
				"from", from.Point(), "to", goal, "limit", limit)
			return tree, current, false, expanded
		}

		open = removeIndex(open, current)
		delete(openSet, node.Cell.Point())
		closed[node.Cell.Point()] = true
		expanded++

		for _, n := range f.grid.Neighbors(node.Cell) {
			p := n.Point()
			if closed[p] {
				continue
			}
			if idx, inOpen := openSet[p]; inOpen {
				if f.opts.Mode == ModeAStar && node.Depth+1 < tree.Node(idx).Depth {
					tree.reparent(idx, current, f.cost(n, to, node.Depth+1))
				}
				continue
			}
			idx := tree.Add(n, f.cost(n, to, node.Depth+1), current)
			open = append(open, idx)
			openSet[p] = idx
		}

		if len(open) == 0 {
			f.opts.Logger.Debug("pathfind: goal unreachable",
				"from", from.Point(), "to", goal, "expanded", expanded)
			return tree, current, false, expanded
		}
		current = lowestCost(tree, open)
	}
}

// lowestCost scans open in insertion order; the earliest minimal node wins.
func lowestCost(tree *Tree, open []int) int {
	best := open[0]
	bestCost := tree.Node(best).Cost
	for _, idx := range open[1:] {
		if c := tree.Node(idx).Cost; c < bestCost {
			best = idx
			bestCost = c
		}
	}
	return best
}

// removeIndex deletes v from open preserving the order of the rest.
func removeIndex(open []int, v int) []int {
	for i, idx := range open {
		if idx == v {
			return append(open[:i], open[i+1:]...)
		}
	}
	return open
}
