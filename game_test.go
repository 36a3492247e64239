package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/milk9111/gridchase/levels"
	"github.com/milk9111/gridchase/pathfind"
)

func quiet() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestCorridorScenarioEndsInCatch(t *testing.T) {
	g, err := NewGame(Config{Scenario: "corridor", Logger: quiet()})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	res, err := g.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !res.Caught || res.CaughtBy != "guard" || res.CaughtTurn != 4 || res.Turns != 4 {
		t.Fatalf("expected guard to catch on turn 4, got %+v", res)
	}
	if !strings.Contains(res.String(), "caught by guard on turn 4") {
		t.Fatalf("unexpected summary %q", res.String())
	}
	if g.Step() {
		t.Fatalf("a finished game must not step")
	}
}

func TestChaseScenarioRunsToAnEnd(t *testing.T) {
	g, err := NewGame(Config{Scenario: "chase", Logger: quiet()})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	res, err := g.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Level != "arena" {
		t.Fatalf("expected the arena level, got %s", res.Level)
	}
	if res.Turns <= 0 || res.Turns > 60 {
		t.Fatalf("turns out of range: %d", res.Turns)
	}
	if !res.Caught && res.Turns != 60 {
		t.Fatalf("an uncaught run must use every turn, used %d", res.Turns)
	}
	if res.Caught && res.CaughtTurn != res.Turns {
		t.Fatalf("the run should stop on the catching turn: %+v", res)
	}
}

func TestConfigOverrides(t *testing.T) {
	t.Run("max_turns", func(t *testing.T) {
		g, err := NewGame(Config{Scenario: "corridor", MaxTurns: 2, Logger: quiet()})
		if err != nil {
			t.Fatalf("new game: %v", err)
		}
		res, _ := g.Run(context.Background())
		if res.Caught || res.Turns != 2 {
			t.Fatalf("expected an uncaught 2-turn run, got %+v", res)
		}
	})

	t.Run("astar", func(t *testing.T) {
		g, err := NewGame(Config{Scenario: "corridor", AStar: true, Logger: quiet()})
		if err != nil {
			t.Fatalf("new game: %v", err)
		}
		if g.finder.Mode() != pathfind.ModeAStar {
			t.Fatalf("expected A* mode, got %v", g.finder.Mode())
		}
	})

	t.Run("level", func(t *testing.T) {
		g, err := NewGame(Config{Scenario: "corridor", Level: "arena", Logger: quiet()})
		if err != nil {
			t.Fatalf("new game: %v", err)
		}
		if g.level.Name != "arena" || g.grid.Width() != 13 {
			t.Fatalf("expected the arena level, got %s", g.level.Name)
		}
	})
}

func TestBoard(t *testing.T) {
	g, err := NewGame(Config{Scenario: "corridor", Logger: quiet()})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	want := strings.Join([]string{
		"h..#####...",
		"...#####...",
		".....g...@.",
		"....###....",
		"...#####...",
	}, "\n")
	if got := g.Board(); got != want {
		t.Fatalf("unexpected board:\n%s\nwant:\n%s", got, want)
	}

	g.Step()
	want = strings.Join([]string{
		"h..#####...",
		"...#####...",
		"......G++@.",
		"....###....",
		"...#####...",
	}, "\n")
	if got := g.Board(); got != want {
		t.Fatalf("unexpected board after one turn:\n%s\nwant:\n%s", got, want)
	}
}

func TestDumpWritesEveryTurn(t *testing.T) {
	var buf bytes.Buffer
	g, err := NewGame(Config{Scenario: "corridor", Dump: &buf, Logger: quiet()})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	if _, err := g.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := buf.String()
	for _, s := range []string{"turn 1\n", "turn 4\n", "X"} {
		if !strings.Contains(out, s) {
			t.Fatalf("dump is missing %q:\n%s", s, out)
		}
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	g, err := NewGame(Config{Scenario: "chase", Logger: quiet()})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := g.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res.Turns != 1 {
		t.Fatalf("expected the run to stop after the first turn, got %d", res.Turns)
	}
}

func TestNewGameErrors(t *testing.T) {
	if _, err := NewGame(Config{Scenario: "missing", Logger: quiet()}); err == nil {
		t.Fatalf("expected an error for a missing scenario")
	}
	_, err := NewGame(Config{Scenario: "corridor", Level: "missing", Logger: quiet()})
	if !errors.Is(err, levels.ErrNotFound) {
		t.Fatalf("expected levels.ErrNotFound, got %v", err)
	}
}

func TestPrintCatalog(t *testing.T) {
	var buf bytes.Buffer
	if err := printCatalog(&buf); err != nil {
		t.Fatalf("catalog: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "corridor") || !strings.Contains(out, "arena") {
		t.Fatalf("catalog is missing entries:\n%s", out)
	}
}

func TestChangeTrackerSkipsUnmodifiedFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c := newChangeTracker()

	if !c.changed(path) {
		t.Fatalf("first sighting should count as a change")
	}
	if c.changed(path) {
		t.Fatalf("same modification time should be skipped")
	}

	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if !c.changed(path) {
		t.Fatalf("newer modification time should count as a change")
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !c.changed(path) {
		t.Fatalf("a removed file should count as a change")
	}
}
