package main

import (
	"strings"

	"github.com/milk9111/gridchase/ecs"
	"github.com/milk9111/gridchase/ecs/component"
	"github.com/milk9111/gridchase/pursuit"
)

// Board glyphs. Opponents are drawn with the first letter of their id,
// upper-cased while chasing.
const (
	glyphWall       = '#'
	glyphFloor      = '.'
	glyphPath       = '+'
	glyphChokepoint = 'o'
	glyphPlayer     = '@'
	glyphCaught     = 'X'
)

// Board renders the grid with the chaser's path, interceptor targets, the
// opponents and the player.
func (g *Game) Board() string {
	w, h := g.grid.Width(), g.grid.Height()
	cells := make([][]byte, h)
	for y := range cells {
		cells[y] = make([]byte, w)
		for x := range cells[y] {
			cells[y][x] = glyphFloor
			if c, ok := g.grid.Cell(x, y); ok && !c.Walkable {
				cells[y][x] = glyphWall
			}
		}
	}
	put := func(wx, wy float64, glyph byte) {
		if c, ok := g.grid.CellAt(wx, wy); ok {
			cells[c.Y][c.X] = glyph
		}
	}

	type marker struct {
		x, y  float64
		glyph byte
	}
	var opponents []marker

	ecs.ForEach2(g.world, component.OpponentComponent.Kind(), component.TransformComponent.Kind(),
		func(e ecs.Entity, o *component.Opponent, t *component.Transform) {
			if o.Role == pursuit.RoleChaser {
				if pf, ok := ecs.Get(g.world, e, component.PathfindingComponent.Kind()); ok {
					for _, n := range pf.Path {
						put(n.X, n.Y, glyphPath)
					}
				}
			}
			if o.HasChokepoint {
				if c, ok := g.grid.Cell(o.ChokepointX, o.ChokepointY); ok {
					cells[c.Y][c.X] = glyphChokepoint
				}
			}
			opponents = append(opponents, marker{x: t.X, y: t.Y, glyph: opponentGlyph(o)})
		})

	if _, t, ok := playerTransform(g.world); ok {
		put(t.X, t.Y, glyphPlayer)
	}
	for _, m := range opponents {
		put(m.x, m.y, m.glyph)
	}
	if g.caught {
		if _, t, ok := playerTransform(g.world); ok {
			put(t.X, t.Y, glyphCaught)
		}
	}

	var b strings.Builder
	for y, row := range cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		b.Write(row)
	}
	return b.String()
}

func opponentGlyph(o *component.Opponent) byte {
	glyph := byte('?')
	if o.ID != "" {
		glyph = o.ID[0]
	}
	if o.Role == pursuit.RoleChaser {
		return strings.ToUpper(string(glyph))[0]
	}
	return strings.ToLower(string(glyph))[0]
}

func playerTransform(w *ecs.World) (ecs.Entity, *component.Transform, bool) {
	player, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		return 0, nil, false
	}
	t, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	return player, t, ok
}
