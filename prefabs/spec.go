// Package prefabs holds the scenario specs and player scripts the simulator
// runs. Both ship embedded; copies on disk under ./prefabs win so they can be
// edited and hot reloaded.
package prefabs

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/gridchase/ecs/component"
	"github.com/milk9111/gridchase/pathfind"
)

// DefaultMaxTurns bounds a run whose scenario does not set max_turns.
const DefaultMaxTurns = 100

var (
	ErrNoLevel       = errors.New("prefabs: scenario has no level")
	ErrBadMaxTurns   = errors.New("prefabs: max_turns must not be negative")
	ErrBadExpansions = errors.New("prefabs: search.max_expansions must not be negative")
	ErrPlayerControl = errors.New("prefabs: player needs either a script or moves, not both")
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// ScenarioSpec describes one pursuit run.
type ScenarioSpec struct {
	Name     string     `yaml:"name"`
	Level    string     `yaml:"level"`
	MaxTurns int        `yaml:"max_turns"`
	Search   SearchSpec `yaml:"search"`
	Player   PlayerSpec `yaml:"player"`
}

type SearchSpec struct {
	Mode          string `yaml:"mode"`
	MaxExpansions int    `yaml:"max_expansions"`
}

// PlayerSpec picks how the player moves. Script names a tengo file under
// prefabs/scripts; Moves is a fixed list of up, right, down, left or wait.
type PlayerSpec struct {
	Script string   `yaml:"script"`
	Moves  []string `yaml:"moves"`
}

// LoadScenario loads, defaults and validates the named scenario.
func LoadScenario(name string) (*ScenarioSpec, error) {
	spec, err := LoadSpec[ScenarioSpec](name)
	if err != nil {
		return nil, err
	}
	if spec.Name == "" {
		spec.Name = strings.TrimSuffix(cleanPrefabPath(name), ".yaml")
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: scenario %s: %w", spec.Name, err)
	}
	if spec.MaxTurns == 0 {
		spec.MaxTurns = DefaultMaxTurns
	}
	return &spec, nil
}

// Validate checks the fields a run depends on.
func (s *ScenarioSpec) Validate() error {
	if strings.TrimSpace(s.Level) == "" {
		return ErrNoLevel
	}
	if s.MaxTurns < 0 {
		return ErrBadMaxTurns
	}
	if s.Search.MaxExpansions < 0 {
		return ErrBadExpansions
	}
	if _, err := pathfind.ParseMode(s.Search.Mode); err != nil {
		return err
	}
	if s.Player.Script != "" && len(s.Player.Moves) > 0 {
		return ErrPlayerControl
	}
	_, err := s.Player.Directions()
	return err
}

// Directions parses Moves.
func (p PlayerSpec) Directions() ([]component.Direction, error) {
	out := make([]component.Direction, 0, len(p.Moves))
	for i, m := range p.Moves {
		d, err := component.ParseDirection(m)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// SearchOptions turns the search section into finder options.
func (s *ScenarioSpec) SearchOptions() []pathfind.Option {
	var opts []pathfind.Option
	if mode, err := pathfind.ParseMode(s.Search.Mode); err == nil {
		opts = append(opts, pathfind.WithMode(mode))
	}
	if s.Search.MaxExpansions > 0 {
		opts = append(opts, pathfind.WithMaxExpansions(s.Search.MaxExpansions))
	}
	return opts
}
