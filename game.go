package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/milk9111/gridchase/ecs"
	"github.com/milk9111/gridchase/ecs/component"
	"github.com/milk9111/gridchase/ecs/system"
	"github.com/milk9111/gridchase/grid"
	"github.com/milk9111/gridchase/levels"
	"github.com/milk9111/gridchase/pathfind"
	"github.com/milk9111/gridchase/prefabs"
	"github.com/milk9111/gridchase/pursuit"
)

// Config selects and overrides a scenario.
type Config struct {
	Scenario string
	Level    string
	MaxTurns int
	AStar    bool
	Dump     io.Writer
	Logger   *slog.Logger
}

// Result summarizes a finished run.
type Result struct {
	Scenario   string
	Level      string
	Turns      int
	Caught     bool
	CaughtBy   string
	CaughtTurn int
}

func (r Result) String() string {
	if r.Caught {
		return fmt.Sprintf("%s on %s: caught by %s on turn %d", r.Scenario, r.Level, r.CaughtBy, r.CaughtTurn)
	}
	return fmt.Sprintf("%s on %s: player escaped for %d turns", r.Scenario, r.Level, r.Turns)
}

// Game is one headless pursuit run.
type Game struct {
	scenario *prefabs.ScenarioSpec
	level    *levels.Level
	grid     *grid.Map
	finder   *pathfind.Finder
	world    *ecs.World
	state    ecs.Entity
	maxTurns int
	caught   bool
	dump     io.Writer
	logger   *slog.Logger
}

func NewGame(cfg Config) (*Game, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	spec, err := prefabs.LoadScenario(cfg.Scenario)
	if err != nil {
		return nil, err
	}
	if cfg.Level != "" {
		spec.Level = cfg.Level
	}
	if cfg.MaxTurns > 0 {
		spec.MaxTurns = cfg.MaxTurns
	}
	if cfg.AStar {
		spec.Search.Mode = pathfind.ModeAStar.String()
	}

	lvl, err := levels.Load(spec.Level)
	if err != nil {
		return nil, err
	}
	m, err := lvl.Grid()
	if err != nil {
		return nil, fmt.Errorf("game: level %s: %w", lvl.Name, err)
	}
	if err := lvl.Validate(m); err != nil {
		return nil, fmt.Errorf("game: level %s: %w", lvl.Name, err)
	}

	g := &Game{
		scenario: spec,
		level:    lvl,
		grid:     m,
		world:    ecs.NewWorld(),
		maxTurns: spec.MaxTurns,
		dump:     cfg.Dump,
		logger:   logger.With("scenario", spec.Name, "level", lvl.Name),
	}
	opts := append(spec.SearchOptions(), pathfind.WithLogger(g.logger))
	g.finder = pathfind.NewFinder(m, opts...)

	if err := g.spawn(); err != nil {
		return nil, err
	}

	g.world.AddSystem(system.NewPlayerControlSystem(m, g.logger))
	g.world.AddSystem(system.NewPursuitSystem(g.finder,
		system.WithPursuitLogger(g.logger),
		system.WithCaughtSink(pursuit.CaughtFunc(func() { g.caught = true })),
	))
	g.world.AddSystem(system.NewPathfindingSystem(g.finder))
	g.world.AddSystem(system.NewOutcomeSystem())
	return g, nil
}

func (g *Game) spawn() error {
	w := g.world

	g.state = ecs.CreateEntity(w)
	if err := ecs.Add(w, g.state, component.GameStateComponent.Kind(), &component.GameState{}); err != nil {
		return fmt.Errorf("game: spawn state: %w", err)
	}

	p, err := g.level.Player()
	if err != nil {
		return err
	}
	moves, err := g.scenario.Player.Directions()
	if err != nil {
		return err
	}
	player := ecs.CreateEntity(w)
	x, y := g.tileCenter(p.X, p.Y)
	if err := ecs.Add(w, player, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		return fmt.Errorf("game: spawn player: %w", err)
	}
	if err := ecs.Add(w, player, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y}); err != nil {
		return fmt.Errorf("game: spawn player: %w", err)
	}
	ctrl := &component.PlayerControl{Script: g.scenario.Player.Script, Moves: moves}
	if err := ecs.Add(w, player, component.PlayerControlComponent.Kind(), ctrl); err != nil {
		return fmt.Errorf("game: spawn player: %w", err)
	}

	for i, o := range g.level.Opponents() {
		e := ecs.CreateEntity(w)
		x, y := g.tileCenter(o.X, o.Y)
		if err := ecs.Add(w, e, component.OpponentTagComponent.Kind(), &component.OpponentTag{}); err != nil {
			return fmt.Errorf("game: spawn %s: %w", o.ID, err)
		}
		if err := ecs.Add(w, e, component.OpponentComponent.Kind(), &component.Opponent{ID: o.ID, Order: i}); err != nil {
			return fmt.Errorf("game: spawn %s: %w", o.ID, err)
		}
		if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y}); err != nil {
			return fmt.Errorf("game: spawn %s: %w", o.ID, err)
		}
		if err := ecs.Add(w, e, component.PathfindingComponent.Kind(), &component.Pathfinding{}); err != nil {
			return fmt.Errorf("game: spawn %s: %w", o.ID, err)
		}
	}
	return nil
}

func (g *Game) tileCenter(x, y int) (float64, float64) {
	size := g.grid.TileSize()
	return (float64(x) + 0.5) * size, (float64(y) + 0.5) * size
}

// Over reports whether the run has ended.
func (g *Game) Over() bool {
	return g.caught || g.world.Turn() >= g.maxTurns
}

// Step plays one turn. It returns false once the run is over.
func (g *Game) Step() bool {
	if g.Over() {
		return false
	}
	g.world.Update()
	g.logger.Debug("turn", "turn", g.world.Turn())
	if g.dump != nil {
		fmt.Fprintf(g.dump, "turn %d\n%s\n", g.world.Turn(), g.Board())
	}
	return !g.Over()
}

// Run plays until a catch, the turn limit, or ctx is done.
func (g *Game) Run(ctx context.Context) (Result, error) {
	g.logger.Info("run started", "max_turns", g.maxTurns, "mode", g.finder.Mode().String())
	for g.Step() {
		if err := ctx.Err(); err != nil {
			return g.Result(), err
		}
	}
	res := g.Result()
	g.logger.Info("run finished", "turns", res.Turns, "caught", res.Caught, "by", res.CaughtBy)
	return res, nil
}

// Result reports the run so far.
func (g *Game) Result() Result {
	res := Result{Scenario: g.scenario.Name, Level: g.level.Name, Turns: g.world.Turn()}
	if s, ok := ecs.Get(g.world, g.state, component.GameStateComponent.Kind()); ok {
		res.Caught = s.Caught
		res.CaughtBy = s.CaughtBy
		res.CaughtTurn = s.CaughtTurn
	}
	return res
}
