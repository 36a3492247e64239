package grid

import (
	"errors"
	"testing"

	"pgregory.net/rapid"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name    string
		rows    []string
		wantErr error
	}{
		{"open", []string{"...", "..."}, nil},
		{"walls", []string{".#.", "#.."}, nil},
		{"empty", nil, ErrInvalidDimensions},
		{"ragged", []string{"...", ".."}, ErrRaggedRows},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m, err := Parse(c.rows, 32)
			if c.wantErr != nil {
				if !errors.Is(err, c.wantErr) {
					t.Fatalf("expected %v, got %v", c.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if m.Width() != len(c.rows[0]) || m.Height() != len(c.rows) {
				t.Fatalf("unexpected size %dx%d", m.Width(), m.Height())
			}
		})
	}
}

func TestCellAt(t *testing.T) {
	m := MustParse([]string{
		"..#",
		"...",
	}, 32)

	cases := []struct {
		name         string
		wx, wy       float64
		wantX, wantY int
		wantOK       bool
		walkable     bool
	}{
		{"origin", 0, 0, 0, 0, true, true},
		{"inside_tile", 40, 10, 1, 0, true, true},
		{"wall", 70, 5, 2, 0, true, false},
		{"second_row", 95.9, 63.9, 2, 1, true, true},
		{"left_of_map", -1, 0, 0, 0, false, false},
		{"below_map", 0, 64, 0, 0, false, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cell, ok := m.CellAt(c.wx, c.wy)
			if ok != c.wantOK {
				t.Fatalf("expected ok=%v, got %v", c.wantOK, ok)
			}
			if !ok {
				return
			}
			if cell.X != c.wantX || cell.Y != c.wantY {
				t.Fatalf("expected (%d,%d), got (%d,%d)", c.wantX, c.wantY, cell.X, cell.Y)
			}
			if cell.Walkable != c.walkable {
				t.Fatalf("expected walkable=%v", c.walkable)
			}
			if cell.WorldX != float64(cell.X)*32 || cell.WorldY != float64(cell.Y)*32 {
				t.Fatalf("unexpected world anchor %v,%v", cell.WorldX, cell.WorldY)
			}
		})
	}
}

func TestNeighborsOrderAndFiltering(t *testing.T) {
	m := MustParse([]string{
		".#.",
		"...",
		"...",
	}, 1)

	center, _ := m.Cell(1, 1)
	got := m.Neighbors(center)
	want := []Point{{2, 1}, {1, 2}, {0, 1}}
	if len(got) != len(want) {
		t.Fatalf("expected %d neighbors, got %d", len(want), len(got))
	}
	for i, n := range got {
		if n.Point() != want[i] {
			t.Fatalf("neighbor %d: expected %v, got %v", i, want[i], n.Point())
		}
	}

	corner, _ := m.Cell(0, 0)
	if n := m.WalkableNeighborCount(corner); n != 1 {
		t.Fatalf("expected corner to have 1 walkable neighbor, got %d", n)
	}
}

func TestStringRoundTrip(t *testing.T) {
	rows := []string{"#..#", "....", "##.."}
	m := MustParse(rows, 16)
	want := "#..#\n....\n##.."
	if m.String() != want {
		t.Fatalf("expected %q, got %q", want, m.String())
	}
}

func TestNeighborsAreAdjacentAndWalkable(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		w := rapid.IntRange(1, 12).Draw(t, "w")
		h := rapid.IntRange(1, 12).Draw(t, "h")
		blocked := rapid.SliceOfN(rapid.Bool(), w*h, w*h).Draw(t, "blocked")
		m, err := New(w, h, 8, blocked)
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		x := rapid.IntRange(0, w-1).Draw(t, "x")
		y := rapid.IntRange(0, h-1).Draw(t, "y")
		c, _ := m.Cell(x, y)
		for _, n := range m.Neighbors(c) {
			dx, dy := n.X-c.X, n.Y-c.Y
			if dx*dx+dy*dy != 1 {
				t.Fatalf("neighbor %v not adjacent to %v", n.Point(), c.Point())
			}
			if !m.Walkable(n) {
				t.Fatalf("neighbor %v not walkable", n.Point())
			}
		}
	})
}
