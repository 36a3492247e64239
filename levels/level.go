package levels

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/milk9111/gridchase/grid"
)

// DefaultTileSize is used when a level does not set tile_size.
const DefaultTileSize = 32

const (
	EntityPlayer   = "player"
	EntityOpponent = "opponent"
)

var (
	ErrNoPlayer       = errors.New("levels: level has no player spawn")
	ErrManyPlayers    = errors.New("levels: level has more than one player spawn")
	ErrLayerSize      = errors.New("levels: layer size does not match level dimensions")
	ErrBadSpawn       = errors.New("levels: spawn outside level or on a wall")
	ErrDuplicateSpawn = errors.New("levels: duplicate opponent id")
)

// Level is a tile map stored as JSON. Walls come either from Rows ('#' is a
// wall) or from Layers: flat row-major arrays of Width*Height tile values,
// where a non-zero tile on a layer whose meta has physics set blocks.
type Level struct {
	Name      string      `json:"-"`
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	TileSize  float64     `json:"tile_size,omitempty"`
	Rows      []string    `json:"rows,omitempty"`
	Layers    [][]int     `json:"layers,omitempty"`
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`
	Entities  []Entity    `json:"entities,omitempty"`

	// Legacy player spawn, used when no player entity is listed.
	SpawnX *int `json:"spawn_x,omitempty"`
	SpawnY *int `json:"spawn_y,omitempty"`
}

type LayerMeta struct {
	Physics bool `json:"physics"`
}

// Entity is a spawn point in tile coordinates.
type Entity struct {
	Type  string         `json:"type"`
	ID    string         `json:"id,omitempty"`
	X     int            `json:"x"`
	Y     int            `json:"y"`
	Props map[string]any `json:"props,omitempty"`
}

// Parse checks a level against the level schema, decodes it and fills in
// defaults. It does not build the grid.
func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if err := validateSchema(data); err != nil {
		return nil, err
	}
	if len(lvl.Rows) > 0 {
		if lvl.Height == 0 {
			lvl.Height = len(lvl.Rows)
		}
		if lvl.Width == 0 {
			lvl.Width = len(lvl.Rows[0])
		}
	}
	if lvl.TileSize <= 0 {
		lvl.TileSize = DefaultTileSize
	}
	return &lvl, nil
}

// Grid builds the occupancy grid.
func (l *Level) Grid() (*grid.Map, error) {
	if len(l.Rows) > 0 {
		m, err := grid.Parse(l.Rows, l.TileSize)
		if err != nil {
			return nil, err
		}
		if m.Width() != l.Width || m.Height() != l.Height {
			return nil, fmt.Errorf("%w: rows are %dx%d, level is %dx%d",
				ErrLayerSize, m.Width(), m.Height(), l.Width, l.Height)
		}
		return m, nil
	}

	m, err := grid.New(l.Width, l.Height, l.TileSize, nil)
	if err != nil {
		return nil, err
	}
	size := l.Width * l.Height
	for i, layer := range l.Layers {
		if i >= len(l.LayerMeta) || !l.LayerMeta[i].Physics {
			continue
		}
		if len(layer) != size {
			return nil, fmt.Errorf("%w: layer %d has %d tiles, want %d", ErrLayerSize, i, len(layer), size)
		}
		for idx, v := range layer {
			if v != 0 {
				m.SetBlocked(idx%l.Width, idx/l.Width, true)
			}
		}
	}
	return m, nil
}

// Player returns the player spawn.
func (l *Level) Player() (Entity, error) {
	var found []Entity
	for _, e := range l.Entities {
		if e.Type == EntityPlayer {
			found = append(found, e)
		}
	}
	switch {
	case len(found) == 1:
		return found[0], nil
	case len(found) > 1:
		return Entity{}, ErrManyPlayers
	case l.SpawnX != nil && l.SpawnY != nil:
		return Entity{Type: EntityPlayer, X: *l.SpawnX, Y: *l.SpawnY}, nil
	}
	return Entity{}, ErrNoPlayer
}

// Opponents returns the opponent spawns in file order. Spawns without an id
// are named opponent-1, opponent-2 and so on by position in that order.
func (l *Level) Opponents() []Entity {
	var out []Entity
	for _, e := range l.Entities {
		if e.Type != EntityOpponent {
			continue
		}
		if e.ID == "" {
			e.ID = fmt.Sprintf("opponent-%d", len(out)+1)
		}
		out = append(out, e)
	}
	return out
}

// Validate checks what the schema cannot: there is exactly one player and
// every spawn is in bounds, on a walkable tile and uniquely named.
func (l *Level) Validate(g grid.Grid) error {
	p, err := l.Player()
	if err != nil {
		return err
	}
	spawns := append([]Entity{p}, l.Opponents()...)
	seen := make(map[string]bool, len(spawns))
	for _, e := range spawns {
		c, ok := g.Cell(e.X, e.Y)
		if !ok || !c.Walkable {
			return fmt.Errorf("%w: %s at (%d,%d)", ErrBadSpawn, e.Type, e.X, e.Y)
		}
		if e.Type != EntityOpponent {
			continue
		}
		if seen[e.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateSpawn, e.ID)
		}
		seen[e.ID] = true
	}
	return nil
}

// Layered returns a copy of l whose walls are stored as a single physics
// layer instead of rows. g must be the grid built from l.
func (l *Level) Layered(g *grid.Map) *Level {
	walls := make([]int, l.Width*l.Height)
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			if c, ok := g.Cell(x, y); ok && !c.Walkable {
				walls[y*l.Width+x] = 1
			}
		}
	}
	out := *l
	out.Rows = nil
	out.Layers = [][]int{walls}
	out.LayerMeta = []LayerMeta{{Physics: true}}
	out.Entities = append([]Entity(nil), l.Entities...)
	return &out
}
