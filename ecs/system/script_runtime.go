package system

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/gridchase/ecs"
	"github.com/milk9111/gridchase/ecs/component"
	"github.com/milk9111/gridchase/grid"
	"github.com/milk9111/gridchase/prefabs"
)

// playerScriptRuntime runs one compiled player script. The script is
// compiled once; every turn re-runs it with a fresh engine and reads back
// the direction chosen by move(engine).
type playerScriptRuntime struct {
	scriptPath string
	compiled   *tengo.Compiled
	stateData  *tengo.Map
}

const playerMoveDispatchScript = `
__move = move(__engine)
`

func loadPlayerScript(path string) (*playerScriptRuntime, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("player script: empty path")
	}
	src, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, fmt.Errorf("player script: load %s: %w", path, err)
	}
	return compilePlayerScript(path, src)
}

func compilePlayerScript(path string, src []byte) (*playerScriptRuntime, error) {
	full := string(src) + "\n" + playerMoveDispatchScript
	script := tengo.NewScript([]byte(full))
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__move", "")

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("player script: compile %s: %w", path, err)
	}
	return &playerScriptRuntime{
		scriptPath: path,
		compiled:   compiled,
		stateData:  &tengo.Map{Value: map[string]tengo.Object{}},
	}, nil
}

// move runs the script once and parses the returned direction.
func (rt *playerScriptRuntime) move(engine *tengo.ImmutableMap) (component.Direction, error) {
	if rt == nil || rt.compiled == nil {
		return component.DirWait, fmt.Errorf("nil script runtime")
	}
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return component.DirWait, err
	}
	if err := rt.compiled.Set("__move", ""); err != nil {
		return component.DirWait, err
	}
	if err := rt.compiled.Run(); err != nil {
		return component.DirWait, err
	}
	return component.ParseDirection(objectAsString(rt.compiled.Get("__move").Object()))
}

// scriptView is what the engine functions read. It is rebuilt every turn.
type scriptView struct {
	world  *ecs.World
	grid   grid.Grid
	player grid.Cell
	logger *slog.Logger
}

func buildPlayerScriptEngine(v scriptView, rt *playerScriptRuntime) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["turn"] = &tengo.UserFunction{Name: "turn", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(v.world.Turn())}, nil
	}}

	values["player"] = &tengo.UserFunction{Name: "player", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return tilePair(v.player.X, v.player.Y), nil
	}}

	values["opponents"] = &tengo.UserFunction{Name: "opponents", Value: func(args ...tengo.Object) (tengo.Object, error) {
		refs := opponents(v.world)
		out := make([]tengo.Object, 0, len(refs))
		for _, ref := range refs {
			c, ok := v.grid.CellAt(ref.transform.X, ref.transform.Y)
			if !ok {
				continue
			}
			out = append(out, tilePair(c.X, c.Y))
		}
		return &tengo.Array{Value: out}, nil
	}}

	values["walkable"] = &tengo.UserFunction{Name: "walkable", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return tengo.FalseValue, nil
		}
		x, okX := objectAsInt(args[0])
		y, okY := objectAsInt(args[1])
		if !okX || !okY {
			return tengo.FalseValue, nil
		}
		if c, ok := v.grid.Cell(x, y); ok && c.Walkable {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["tile_size"] = &tengo.UserFunction{Name: "tile_size", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: v.grid.TileSize()}, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		v.logger.Debug("player script", "script", rt.scriptPath, "msg", strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	values["state"] = rt.stateData

	return &tengo.ImmutableMap{Value: values}
}

func tilePair(x, y int) *tengo.Array {
	return &tengo.Array{Value: []tengo.Object{&tengo.Int{Value: int64(x)}, &tengo.Int{Value: int64(y)}}}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Undefined:
		return ""
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectAsInt(obj tengo.Object) (int, bool) {
	switch v := obj.(type) {
	case *tengo.Int:
		return int(v.Value), true
	case *tengo.Float:
		return int(v.Value), true
	default:
		return 0, false
	}
}
