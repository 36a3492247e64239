package system

import (
	"slices"

	"github.com/milk9111/gridchase/ecs"
	"github.com/milk9111/gridchase/ecs/component"
	"github.com/milk9111/gridchase/grid"
)

type opponentRef struct {
	entity    ecs.Entity
	opponent  *component.Opponent
	transform *component.Transform
}

func playerPosition(w *ecs.World) (ecs.Entity, *component.Transform, bool) {
	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return 0, nil, false
	}
	t, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	if !ok {
		return 0, nil, false
	}
	return player, t, true
}

// opponents returns every opponent with a transform, in registration order.
func opponents(w *ecs.World) []opponentRef {
	var out []opponentRef
	ecs.ForEach2(w, component.OpponentComponent.Kind(), component.TransformComponent.Kind(),
		func(e ecs.Entity, o *component.Opponent, t *component.Transform) {
			out = append(out, opponentRef{entity: e, opponent: o, transform: t})
		})
	slices.SortStableFunc(out, func(a, b opponentRef) int {
		return a.opponent.Order - b.opponent.Order
	})
	return out
}

// cellCenter returns the world position of the middle of c.
func cellCenter(g grid.Grid, c grid.Cell) (float64, float64) {
	half := g.TileSize() * 0.5
	return c.WorldX + half, c.WorldY + half
}

func cellsToWorld(g grid.Grid, cells []grid.Cell) []component.PathNode {
	if len(cells) == 0 {
		return nil
	}
	out := make([]component.PathNode, 0, len(cells))
	for _, c := range cells {
		x, y := cellCenter(g, c)
		out = append(out, component.PathNode{X: x, Y: y})
	}
	return out
}
