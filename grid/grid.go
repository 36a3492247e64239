// Package grid provides the occupancy and adjacency oracle the pursuit core
// searches over: a fixed-size tile map with 4-directional neighbors.
package grid

import (
	"errors"
	"math"
	"strings"
)

var (
	ErrInvalidDimensions = errors.New("grid: invalid dimensions")
	ErrRaggedRows        = errors.New("grid: rows have different lengths")
)

// Point is the comparable identity of a cell.
type Point struct {
	X int
	Y int
}

// Cell is a single tile of the map.
type Cell struct {
	X        int
	Y        int
	WorldX   float64
	WorldY   float64
	Walkable bool
}

// Point returns the grid coordinate of the cell.
func (c Cell) Point() Point {
	return Point{X: c.X, Y: c.Y}
}

// Grid is the query surface consumed by searches.
type Grid interface {
	CellAt(worldX, worldY float64) (Cell, bool)
	Cell(x, y int) (Cell, bool)
	Neighbors(c Cell) []Cell
	Walkable(c Cell) bool
	TileSize() float64
	Len() int
}

// Map is a rectangular tile grid. Tiles are addressed row-major.
type Map struct {
	width    int
	height   int
	tileSize float64
	blocked  []bool
}

// neighborOffsets is the fixed expansion order: north, east, south, west.
var neighborOffsets = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// New creates a map. blocked may be nil for an open map; otherwise it must
// hold width*height entries.
func New(width, height int, tileSize float64, blocked []bool) (*Map, error) {
	if width <= 0 || height <= 0 || tileSize <= 0 {
		return nil, ErrInvalidDimensions
	}
	if blocked == nil {
		blocked = make([]bool, width*height)
	}
	if len(blocked) != width*height {
		return nil, ErrInvalidDimensions
	}
	cp := make([]bool, len(blocked))
	copy(cp, blocked)
	return &Map{width: width, height: height, tileSize: tileSize, blocked: cp}, nil
}

// Parse builds a map from ASCII rows. '#' is a wall, anything else is floor.
func Parse(rows []string, tileSize float64) (*Map, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrInvalidDimensions
	}
	width := len(rows[0])
	blocked := make([]bool, 0, width*len(rows))
	for _, row := range rows {
		if len(row) != width {
			return nil, ErrRaggedRows
		}
		for i := 0; i < len(row); i++ {
			blocked = append(blocked, row[i] == '#')
		}
	}
	return New(width, len(rows), tileSize, blocked)
}

// MustParse is Parse for fixtures known to be valid.
func MustParse(rows []string, tileSize float64) *Map {
	m, err := Parse(rows, tileSize)
	if err != nil {
		panic("grid: parse fixture: " + err.Error())
	}
	return m
}

func (m *Map) Width() int {
	return m.width
}

func (m *Map) Height() int {
	return m.height
}

// Len returns the number of tiles.
func (m *Map) Len() int {
	return m.width * m.height
}

func (m *Map) TileSize() float64 {
	return m.tileSize
}

func (m *Map) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.width && y < m.height
}

// Cell returns the tile at grid coordinate (x, y).
func (m *Map) Cell(x, y int) (Cell, bool) {
	if m == nil || !m.inBounds(x, y) {
		return Cell{}, false
	}
	return Cell{
		X:        x,
		Y:        y,
		WorldX:   float64(x) * m.tileSize,
		WorldY:   float64(y) * m.tileSize,
		Walkable: !m.blocked[y*m.width+x],
	}, true
}

// CellAt returns the tile containing the world position.
func (m *Map) CellAt(worldX, worldY float64) (Cell, bool) {
	if m == nil {
		return Cell{}, false
	}
	if math.IsNaN(worldX) || math.IsNaN(worldY) {
		return Cell{}, false
	}
	x := int(math.Floor(worldX / m.tileSize))
	y := int(math.Floor(worldY / m.tileSize))
	return m.Cell(x, y)
}

// Walkable reports whether the cell is in bounds and not blocked.
func (m *Map) Walkable(c Cell) bool {
	if m == nil || !m.inBounds(c.X, c.Y) {
		return false
	}
	return !m.blocked[c.Y*m.width+c.X]
}

// Neighbors returns the walkable 4-neighbors of c in north, east, south,
// west order.
func (m *Map) Neighbors(c Cell) []Cell {
	out := make([]Cell, 0, 4)
	for _, d := range neighborOffsets {
		n, ok := m.Cell(c.X+d[0], c.Y+d[1])
		if !ok || !n.Walkable {
			continue
		}
		out = append(out, n)
	}
	return out
}

// WalkableNeighborCount counts the walkable 4-neighbors of c.
func WalkableNeighborCount(g Grid, c Cell) int {
	return len(g.Neighbors(c))
}

// WalkableNeighborCount counts the walkable 4-neighbors of c.
func (m *Map) WalkableNeighborCount(c Cell) int {
	return WalkableNeighborCount(m, c)
}

// SetBlocked toggles a tile. It is a setup-time operation; callers must not
// mutate a map while a search over it is running.
func (m *Map) SetBlocked(x, y int, blocked bool) bool {
	if m == nil || !m.inBounds(x, y) {
		return false
	}
	m.blocked[y*m.width+x] = blocked
	return true
}

// String renders the map with '#' for walls and '.' for floor.
func (m *Map) String() string {
	if m == nil {
		return ""
	}
	var b strings.Builder
	b.Grow((m.width + 1) * m.height)
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.blocked[y*m.width+x] {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		if y < m.height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
