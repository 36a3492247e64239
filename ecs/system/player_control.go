package system

import (
	"log/slog"

	"github.com/milk9111/gridchase/ecs"
	"github.com/milk9111/gridchase/ecs/component"
	"github.com/milk9111/gridchase/grid"
)

// PlayerControlSystem moves the player one tile per turn, either by script
// or from a fixed move list, and announces the move with EventPlayerMoved.
// Moves into walls or off the map leave the player in place; the turn still
// counts.
type PlayerControlSystem struct {
	grid        grid.Grid
	logger      *slog.Logger
	scriptCache map[string]*playerScriptRuntime
	failed      map[string]bool
}

func NewPlayerControlSystem(g grid.Grid, logger *slog.Logger) *PlayerControlSystem {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlayerControlSystem{
		grid:        g,
		logger:      logger,
		scriptCache: map[string]*playerScriptRuntime{},
		failed:      map[string]bool{},
	}
}

func (s *PlayerControlSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	player, t, ok := playerPosition(w)
	if !ok {
		return
	}
	ctrl, ok := ecs.Get(w, player, component.PlayerControlComponent.Kind())
	if !ok {
		return
	}
	cur, ok := s.grid.CellAt(t.X, t.Y)
	if !ok {
		s.logger.Warn("player outside grid", "x", t.X, "y", t.Y)
		return
	}

	dir := s.nextMove(w, ctrl, cur)
	ctrl.Last = dir

	dx, dy := dir.Offset()
	if next, ok := s.grid.Cell(cur.X+dx, cur.Y+dy); ok && next.Walkable && (dx != 0 || dy != 0) {
		t.X = next.WorldX + (t.X - cur.WorldX)
		t.Y = next.WorldY + (t.Y - cur.WorldY)
		cur = next
	}

	if state, ok := gameState(w); ok {
		state.PlayerTurn++
	}

	s.logger.Debug("player moved", "turn", w.Turn(), "dir", string(dir), "x", cur.X, "y", cur.Y)
	w.Events().Push(ecs.Event{
		Type: ecs.EventPlayerMoved,
		Data: ecs.PlayerMoved{Entity: player, Turn: w.Turn(), X: t.X, Y: t.Y},
	})
}

func (s *PlayerControlSystem) nextMove(w *ecs.World, ctrl *component.PlayerControl, cur grid.Cell) component.Direction {
	if ctrl.Script == "" {
		if ctrl.Cursor >= len(ctrl.Moves) {
			return component.DirWait
		}
		dir := ctrl.Moves[ctrl.Cursor]
		ctrl.Cursor++
		return dir
	}

	rt, err := s.runtime(ctrl.Script)
	if err != nil {
		return component.DirWait
	}
	engine := buildPlayerScriptEngine(scriptView{world: w, grid: s.grid, player: cur, logger: s.logger}, rt)
	dir, err := rt.move(engine)
	if err != nil {
		s.logger.Warn("player script failed, waiting", "script", ctrl.Script, "turn", w.Turn(), "err", err)
		return component.DirWait
	}
	return dir
}

// runtime compiles a script on first use. A script that fails to load is
// reported once and then treated as always waiting.
func (s *PlayerControlSystem) runtime(path string) (*playerScriptRuntime, error) {
	if rt, ok := s.scriptCache[path]; ok {
		return rt, nil
	}
	rt, err := loadPlayerScript(path)
	if err != nil {
		if !s.failed[path] {
			s.logger.Error("player script unavailable", "script", path, "err", err)
			s.failed[path] = true
		}
		return nil, err
	}
	s.scriptCache[path] = rt
	return rt, nil
}

func gameState(w *ecs.World) (*component.GameState, bool) {
	e, ok := ecs.First(w, component.GameStateComponent.Kind())
	if !ok {
		return nil, false
	}
	return ecs.Get(w, e, component.GameStateComponent.Kind())
}
