package levels

import (
	"errors"
	"testing"

	"github.com/milk9111/gridchase/grid"
)

func TestLoadEmbeddedLevels(t *testing.T) {
	names, err := List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) == 0 {
		t.Fatalf("expected embedded levels")
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			lvl, err := Load(name)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			g, err := lvl.Grid()
			if err != nil {
				t.Fatalf("grid: %v", err)
			}
			if err := lvl.Validate(g); err != nil {
				t.Fatalf("validate: %v", err)
			}
			if len(lvl.Opponents()) == 0 {
				t.Fatalf("expected at least one opponent")
			}
		})
	}
}

func TestCorridorLayersMatchRows(t *testing.T) {
	lvl, err := Load("levels/corridor.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	g, err := lvl.Grid()
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	want := grid.MustParse([]string{
		"...#####...",
		"...#####...",
		"...........",
		"....###....",
		"...#####...",
	}, 32)
	if g.String() != want.String() {
		t.Fatalf("unexpected grid:\n%s\nwant:\n%s", g, want)
	}
	if lvl.Name != "corridor" {
		t.Fatalf("expected name corridor, got %q", lvl.Name)
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		name    string
		data    string
		wantErr error
		check   func(t *testing.T, l *Level)
	}{
		{
			name: "rows_fill_dimensions",
			data: `{"rows": ["..#", "..."], "entities": [{"type": "player", "x": 0, "y": 0}]}`,
			check: func(t *testing.T, l *Level) {
				if l.Width != 3 || l.Height != 2 || l.TileSize != DefaultTileSize {
					t.Fatalf("unexpected defaults %dx%d tile %v", l.Width, l.Height, l.TileSize)
				}
			},
		},
		{
			name:    "no_dimensions",
			data:    `{}`,
			wantErr: ErrInvalidLevel,
		},
		{
			name:    "zero_width",
			data:    `{"width": 0, "height": 3}`,
			wantErr: ErrInvalidLevel,
		},
		{
			name:    "unknown_entity_type",
			data:    `{"rows": ["..."], "entities": [{"type": "ghost", "x": 0, "y": 0}]}`,
			wantErr: ErrInvalidLevel,
		},
		{
			name:    "negative_spawn",
			data:    `{"rows": ["..."], "entities": [{"type": "player", "x": -1, "y": 0}]}`,
			wantErr: ErrInvalidLevel,
		},
		{
			name:    "half_legacy_spawn",
			data:    `{"width": 2, "height": 1, "spawn_x": 1}`,
			wantErr: ErrInvalidLevel,
		},
		{
			name:    "misspelled_field",
			data:    `{"rows": ["..."], "tilesize": 16}`,
			wantErr: ErrInvalidLevel,
		},
		{
			name: "legacy_spawn",
			data: `{"width": 2, "height": 1, "spawn_x": 1, "spawn_y": 0}`,
			check: func(t *testing.T, l *Level) {
				p, err := l.Player()
				if err != nil || p.X != 1 || p.Y != 0 {
					t.Fatalf("expected legacy spawn (1,0), got %+v err=%v", p, err)
				}
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			l, err := Parse([]byte(c.data))
			if c.wantErr != nil {
				if !errors.Is(err, c.wantErr) {
					t.Fatalf("expected %v, got %v", c.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			c.check(t, l)
		})
	}
}

func TestGridErrors(t *testing.T) {
	l := &Level{
		Width:     2,
		Height:    2,
		TileSize:  1,
		Layers:    [][]int{{1, 1, 1}},
		LayerMeta: []LayerMeta{{Physics: true}},
	}
	if _, err := l.Grid(); !errors.Is(err, ErrLayerSize) {
		t.Fatalf("expected ErrLayerSize, got %v", err)
	}

	// A short layer without physics is ignored.
	l.LayerMeta[0].Physics = false
	g, err := l.Grid()
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	if g.Len() != 4 {
		t.Fatalf("expected 4 tiles, got %d", g.Len())
	}
}

func TestValidate(t *testing.T) {
	base := func() *Level {
		return &Level{
			Width:    3,
			Height:   1,
			TileSize: 1,
			Rows:     []string{"..#"},
			Entities: []Entity{
				{Type: EntityPlayer, X: 0, Y: 0},
				{Type: EntityOpponent, X: 1, Y: 0},
			},
		}
	}

	cases := []struct {
		name   string
		mutate func(l *Level)
		want   error
	}{
		{"ok", func(*Level) {}, nil},
		{"no_player", func(l *Level) { l.Entities = l.Entities[1:] }, ErrNoPlayer},
		{"two_players", func(l *Level) { l.Entities = append(l.Entities, Entity{Type: EntityPlayer, X: 1}) }, ErrManyPlayers},
		{"spawn_on_wall", func(l *Level) { l.Entities[1].X = 2 }, ErrBadSpawn},
		{"spawn_out_of_bounds", func(l *Level) { l.Entities[0].Y = 4 }, ErrBadSpawn},
		{"duplicate_id", func(l *Level) {
			l.Entities[1].ID = "a"
			l.Entities = append(l.Entities, Entity{Type: EntityOpponent, ID: "a", X: 1})
		}, ErrDuplicateSpawn},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			l := base()
			c.mutate(l)
			g, err := l.Grid()
			if err != nil {
				t.Fatalf("grid: %v", err)
			}
			err = l.Validate(g)
			if c.want == nil && err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if c.want != nil && !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
}

func TestOpponentsDefaultIDs(t *testing.T) {
	l := &Level{Entities: []Entity{
		{Type: EntityOpponent},
		{Type: EntityPlayer},
		{Type: EntityOpponent, ID: "named"},
		{Type: EntityOpponent},
	}}
	got := l.Opponents()
	want := []string{"opponent-1", "named", "opponent-3"}
	if len(got) != len(want) {
		t.Fatalf("expected %d opponents, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("opponent %d: expected %s, got %s", i, want[i], got[i].ID)
		}
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load("does-not-exist"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLayeredKeepsWalls(t *testing.T) {
	lvl, err := Load("arena")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	g, err := lvl.Grid()
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	layered := lvl.Layered(g)
	if len(layered.Rows) != 0 || len(layered.Layers) != 1 {
		t.Fatalf("expected one layer and no rows")
	}
	g2, err := layered.Grid()
	if err != nil {
		t.Fatalf("layered grid: %v", err)
	}
	if g2.String() != g.String() {
		t.Fatalf("walls changed:\n%s\nwant:\n%s", g2, g)
	}
	if len(lvl.Rows) == 0 {
		t.Fatalf("Layered must not modify the source level")
	}
}
