// Package bottleneck finds chokepoints an interceptor can move toward
// instead of following the player directly.
//
// The analysis runs in three phases:
//
//   - Reach: breadth-first expansion from the opponent, bounded to half the
//     opponent-to-player path length. The open leaves at termination form the
//     frontier.
//   - Chokepoints: each frontier leaf is backed off through corridor cells
//     (exactly two walkable neighbors) until a junction or the search root.
//   - Selection: candidates whose route to the player crosses an ally are
//     dropped; the shortest remaining route wins, earliest on ties.
package bottleneck

import (
	"log/slog"

	"github.com/milk9111/gridchase/grid"
	"github.com/milk9111/gridchase/pathfind"
)

// Candidate is the selected chokepoint together with the reachability tree
// that produced it. The zero value is the "none" result.
type Candidate struct {
	Tree     *pathfind.Tree
	Index    int
	Distance int
	Route    pathfind.Result
	Found    bool
}

// Node returns the chokepoint node.
func (c Candidate) Node() (pathfind.Node, bool) {
	if !c.Found || c.Tree == nil {
		return pathfind.Node{}, false
	}
	return c.Tree.Node(c.Index), true
}

// FirstStep returns the node on the chokepoint's chain adjacent to the
// opponent's start. A chokepoint at the start itself has no step.
func (c Candidate) FirstStep() (pathfind.Node, bool) {
	if !c.Found || c.Tree == nil {
		return pathfind.Node{}, false
	}
	idx := c.Tree.Ancestor(c.Index, 1)
	if idx == pathfind.NoParent {
		return pathfind.Node{}, false
	}
	return c.Tree.Node(idx), true
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger used for analysis diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// Analyzer scores chokepoints using a shared path finder.
type Analyzer struct {
	finder *pathfind.Finder
	grid   grid.Grid
	logger *slog.Logger
}

// New creates an analyzer over the finder's grid.
func New(finder *pathfind.Finder, options ...Option) *Analyzer {
	a := &Analyzer{finder: finder, grid: finder.Grid()}
	for _, o := range options {
		o(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// ReachDistance returns ceil((pathLength(opponent, player) - 1) / 2), the
// farthest the opponent can get before the player could reach its start.
// ok is false when the player is unreachable.
func (a *Analyzer) ReachDistance(opponent, player grid.Cell) (int, bool) {
	length, found := a.finder.Length(opponent, player)
	if !found {
		return 0, false
	}
	return halfRoundedUp(length - 1), true
}

func halfRoundedUp(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + 1) / 2
}

// Reach expands breadth-first from start. A node whose cost reached distance
// is a leaf and is not expanded. It returns the tree and the frontier in
// insertion order.
func (a *Analyzer) Reach(start grid.Cell, distance int) (*pathfind.Tree, []int) {
	tree := pathfind.NewTree(32)
	root := tree.Add(start, 0, pathfind.NoParent)

	queue := []int{root}
	seen := map[grid.Point]bool{start.Point(): true}
	var frontier []int

	for head := 0; head < len(queue); head++ {
		idx := queue[head]
		node := tree.Node(idx)
		if node.Cost >= distance {
			frontier = append(frontier, idx)
			continue
		}
		for _, n := range a.grid.Neighbors(node.Cell) {
			p := n.Point()
			if seen[p] {
				continue
			}
			seen[p] = true
			queue = append(queue, tree.Add(n, node.Cost+1, idx))
		}
	}

	return tree, frontier
}

// Chokepoints backs every frontier leaf off through corridor cells and
// returns the distinct stopping nodes in first-seen order.
func (a *Analyzer) Chokepoints(tree *pathfind.Tree, frontier []int) []int {
	seen := make(map[int]bool, len(frontier))
	out := make([]int, 0, len(frontier))
	for _, leaf := range frontier {
		cur := leaf
		for {
			n := tree.Node(cur)
			if n.IsRoot() || grid.WalkableNeighborCount(a.grid, n.Cell) != 2 {
				break
			}
			cur = n.Parent
		}
		if seen[cur] {
			continue
		}
		seen[cur] = true
		out = append(out, cur)
	}
	return out
}

// Find runs all three phases for one opponent. allies are the cells
// currently held by the opponent's teammates.
func (a *Analyzer) Find(opponent, player grid.Cell, allies []grid.Cell) Candidate {
	distance, ok := a.ReachDistance(opponent, player)
	if !ok {
		a.logger.Debug("bottleneck: player unreachable", "opponent", opponent.Point(), "player", player.Point())
		return Candidate{}
	}

	tree, frontier := a.Reach(opponent, distance)
	if len(frontier) == 0 {
		a.logger.Debug("bottleneck: empty frontier", "opponent", opponent.Point(), "distance", distance)
		return Candidate{}
	}

	occupied := make(map[grid.Point]bool, len(allies))
	for _, c := range allies {
		occupied[c.Point()] = true
	}

	best := Candidate{}
	chokepoints := a.Chokepoints(tree, frontier)
	for _, idx := range chokepoints {
		cell := tree.Node(idx).Cell
		route := a.finder.FindPath(cell, player)
		if !route.Found {
			continue
		}
		if occupied[cell.Point()] || crossesAlly(route, occupied) {
			continue
		}
		if best.Found && route.Len() >= best.Route.Len() {
			continue
		}
		best = Candidate{Tree: tree, Index: idx, Distance: distance, Route: route, Found: true}
	}

	if !best.Found {
		a.logger.Debug("bottleneck: every candidate covered", "opponent", opponent.Point(), "candidates", len(chokepoints))
	}
	return best
}

func crossesAlly(route pathfind.Result, occupied map[grid.Point]bool) bool {
	if len(occupied) == 0 {
		return false
	}
	for _, n := range route.Nodes {
		if occupied[n.Cell.Point()] {
			return true
		}
	}
	return false
}
