package bottleneck

import (
	"context"
	"log/slog"
	"testing"

	"github.com/milk9111/gridchase/grid"
	"github.com/milk9111/gridchase/pathfind"
	"pgregory.net/rapid"
)

// twoRooms joins two open rooms with a 1-wide corridor from (3,2) to (7,2).
// Both corridor ends also open onto their room's lower row, so they are
// junctions; (4,2)..(6,2) are plain corridor cells.
var twoRooms = []string{
	"...#####...",
	"...#####...",
	"...........",
	"....###....",
	"...#####...",
}

func at(t *testing.T, m *grid.Map, x, y int) grid.Cell {
	t.Helper()
	c, ok := m.Cell(x, y)
	if !ok {
		t.Fatalf("cell (%d,%d) out of bounds", x, y)
	}
	return c
}

func TestReachDistance(t *testing.T) {
	m, _ := grid.New(12, 1, 1, nil)
	a := New(pathfind.NewFinder(m))

	cases := []struct {
		playerX int
		want    int
	}{
		{0, 0}, // same cell, length 0
		{1, 0}, // length 1
		{2, 1},
		{3, 1},
		{4, 2},
		{5, 2},
		{9, 4},
	}
	for _, c := range cases {
		got, ok := a.ReachDistance(at(t, m, 0, 0), at(t, m, c.playerX, 0))
		if !ok || got != c.want {
			t.Fatalf("player at %d: expected %d, got %d (ok=%v)", c.playerX, c.want, got, ok)
		}
	}
}

func TestReachFrontier(t *testing.T) {
	m := grid.MustParse(twoRooms, 1)
	a := New(pathfind.NewFinder(m))

	tree, frontier := a.Reach(at(t, m, 5, 2), 2)
	want := []grid.Point{{X: 7, Y: 2}, {X: 3, Y: 2}}
	if len(frontier) != len(want) {
		t.Fatalf("expected %d frontier leaves, got %d", len(want), len(frontier))
	}
	for i, idx := range frontier {
		n := tree.Node(idx)
		if n.Cell.Point() != want[i] {
			t.Fatalf("leaf %d: expected %v, got %v", i, want[i], n.Cell.Point())
		}
		if n.Cost != 2 {
			t.Fatalf("leaf %d: expected cost 2, got %d", i, n.Cost)
		}
	}

	tree, frontier = a.Reach(at(t, m, 5, 2), 0)
	if len(frontier) != 1 || !tree.Node(frontier[0]).IsRoot() {
		t.Fatalf("expected the root alone at distance 0")
	}
}

func TestChokepointsBackOffCorridor(t *testing.T) {
	m := grid.MustParse(twoRooms, 1)
	a := New(pathfind.NewFinder(m))

	// Distance 1 only reaches corridor cells, which back off to the root.
	tree, frontier := a.Reach(at(t, m, 5, 2), 1)
	got := a.Chokepoints(tree, frontier)
	if len(got) != 1 || !tree.Node(got[0]).IsRoot() {
		t.Fatalf("expected the start cell as the only candidate, got %v", got)
	}
}

func TestFindSelectsCorridorEndJunction(t *testing.T) {
	m := grid.MustParse(twoRooms, 1)
	a := New(pathfind.NewFinder(m))

	c := a.Find(at(t, m, 5, 2), at(t, m, 9, 2), nil)
	if !c.Found {
		t.Fatalf("expected a candidate")
	}
	if c.Distance != 2 {
		t.Fatalf("expected reach distance 2, got %d", c.Distance)
	}
	n, _ := c.Node()
	if n.Cell.Point() != (grid.Point{X: 7, Y: 2}) {
		t.Fatalf("expected corridor end (7,2), got %v", n.Cell.Point())
	}
	if cnt := m.WalkableNeighborCount(n.Cell); cnt == 2 {
		t.Fatalf("selected a mid-corridor cell")
	}
	step, ok := c.FirstStep()
	if !ok || step.Cell.Point() != (grid.Point{X: 6, Y: 2}) {
		t.Fatalf("expected first step (6,2), got %v ok=%v", step.Cell.Point(), ok)
	}
}

func TestFindSkipsCandidatesCoveredByAllies(t *testing.T) {
	m, _ := grid.New(7, 7, 1, nil)
	a := New(pathfind.NewFinder(m))
	opponent := at(t, m, 0, 3)
	player := at(t, m, 4, 3)

	free := a.Find(opponent, player, nil)
	n, _ := free.Node()
	if n.Cell.Point() != (grid.Point{X: 2, Y: 3}) {
		t.Fatalf("expected (2,3) without allies, got %v", n.Cell.Point())
	}

	covered := a.Find(opponent, player, []grid.Cell{at(t, m, 3, 3)})
	if !covered.Found {
		t.Fatalf("expected an alternative candidate")
	}
	n, _ = covered.Node()
	if n.Cell.Point() != (grid.Point{X: 1, Y: 2}) {
		t.Fatalf("expected (1,2) once (2,3) is covered, got %v", n.Cell.Point())
	}
	if covered.Route.Contains(grid.Point{X: 3, Y: 3}) {
		t.Fatalf("selected route crosses the ally")
	}
	step, ok := covered.FirstStep()
	if !ok || step.Cell.Point() != (grid.Point{X: 0, Y: 2}) {
		t.Fatalf("expected first step (0,2), got %v", step.Cell.Point())
	}
}

func TestFindReturnsNone(t *testing.T) {
	t.Run("unreachable_player", func(t *testing.T) {
		m := grid.MustParse([]string{"..#.."}, 1)
		a := New(pathfind.NewFinder(m))
		if c := a.Find(at(t, m, 0, 0), at(t, m, 4, 0), nil); c.Found {
			t.Fatalf("expected none")
		}
	})

	t.Run("all_candidates_covered", func(t *testing.T) {
		m := grid.MustParse(twoRooms, 1)
		a := New(pathfind.NewFinder(m))
		c := a.Find(at(t, m, 5, 2), at(t, m, 9, 2), []grid.Cell{at(t, m, 8, 2)})
		if c.Found {
			t.Fatalf("expected none when an ally guards the only exit")
		}
		if _, ok := c.FirstStep(); ok {
			t.Fatalf("none must not yield a step")
		}
	})
}

func TestChokepointCandidatesAreJunctionsOrStart(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		w := rapid.IntRange(2, 9).Draw(t, "w")
		h := rapid.IntRange(2, 9).Draw(t, "h")
		walls := rapid.SliceOfN(rapid.IntRange(0, 2), w*h, w*h).Draw(t, "walls")
		blocked := make([]bool, w*h)
		for i, v := range walls {
			blocked[i] = v == 0
		}
		sx, sy := rapid.IntRange(0, w-1).Draw(t, "sx"), rapid.IntRange(0, h-1).Draw(t, "sy")
		blocked[sy*w+sx] = false
		m, err := grid.New(w, h, 1, blocked)
		if err != nil {
			t.Fatalf("new grid: %v", err)
		}
		a := New(pathfind.NewFinder(m))
		start, _ := m.Cell(sx, sy)
		distance := rapid.IntRange(0, w+h).Draw(t, "distance")

		tree, frontier := a.Reach(start, distance)
		for _, idx := range frontier {
			if tree.Node(idx).Cost != distance {
				t.Fatalf("frontier leaf at cost %d, want %d", tree.Node(idx).Cost, distance)
			}
		}
		for _, idx := range a.Chokepoints(tree, frontier) {
			n := tree.Node(idx)
			if n.IsRoot() {
				if n.Cell.Point() != start.Point() {
					t.Fatalf("root is not the start cell")
				}
				continue
			}
			if m.WalkableNeighborCount(n.Cell) == 2 {
				t.Fatalf("candidate %v is a corridor cell", n.Cell.Point())
			}
		}
	})
}

// recordHandler keeps the attributes of every record it sees.
type recordHandler struct {
	attrs []map[string]slog.Value
}

func (h *recordHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *recordHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordHandler) WithGroup(string) slog.Handler { return h }

func (h *recordHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := map[string]slog.Value{"msg": slog.StringValue(r.Message)}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value
		return true
	})
	h.attrs = append(h.attrs, attrs)
	return nil
}

func TestFindLogsChokepointCount(t *testing.T) {
	m := grid.MustParse(twoRooms, 1)
	h := &recordHandler{}
	a := New(pathfind.NewFinder(m), WithLogger(slog.New(h)))

	// Distance 1 reaches two corridor leaves that both back off to the start,
	// and the ally on (6,2) covers the start's route.
	a.Find(at(t, m, 5, 2), at(t, m, 7, 2), []grid.Cell{at(t, m, 6, 2)})

	for _, rec := range h.attrs {
		if rec["msg"].String() != "bottleneck: every candidate covered" {
			continue
		}
		if got := rec["candidates"].Int64(); got != 1 {
			t.Fatalf("expected 1 candidate logged, got %d", got)
		}
		return
	}
	t.Fatalf("expected a covered-candidates record")
}
