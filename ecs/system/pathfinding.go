package system

import (
	"github.com/milk9111/gridchase/ecs"
	"github.com/milk9111/gridchase/ecs/component"
	"github.com/milk9111/gridchase/pathfind"
)

// PathfindingSystem records, for every opponent carrying a Pathfinding
// component, the path it would take straight to the player from where it
// now stands. It only observes; movement is the pursuit system's job.
type PathfindingSystem struct {
	finder *pathfind.Finder
}

func NewPathfindingSystem(finder *pathfind.Finder) *PathfindingSystem {
	return &PathfindingSystem{finder: finder}
}

func (ps *PathfindingSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	_, player, ok := playerPosition(w)
	if !ok {
		return
	}
	g := ps.finder.Grid()

	ecs.ForEach(w, component.PathfindingComponent.Kind(), func(e ecs.Entity, pf *component.Pathfinding) {
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			return
		}
		res := ps.finder.FindPathWorld(t.X, t.Y, player.X, player.Y)
		pf.Path = cellsToWorld(g, res.Cells())
		pf.Found = res.Found
		pf.Expanded = res.Expanded
		pf.Target = component.PathNode{X: player.X, Y: player.Y}
	})
}
