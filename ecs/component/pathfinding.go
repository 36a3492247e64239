package component

// PathNode is a world-space point along a path.
type PathNode struct {
	X float64
	Y float64
}

// Pathfinding holds the last path an opponent searched, for debugging and
// board dumps.
type Pathfinding struct {
	Path     []PathNode
	Target   PathNode
	Found    bool
	Expanded int
}

var PathfindingComponent = NewComponent[Pathfinding]()
