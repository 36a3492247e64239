// Package levels loads tile levels from JSON. Levels ship embedded in the
// binary; a file of the same name under ./levels on disk takes precedence so
// levels can be edited without rebuilding.
package levels

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

// Dir is the on-disk override directory, relative to the working directory.
const Dir = "levels"

var ErrNotFound = errors.New("levels: level not found")

// Load reads and decodes the named level. name may omit the .json suffix
// and may carry a leading "levels/".
func Load(name string) (*Level, error) {
	clean := cleanLevelPath(name)
	data, err := os.ReadFile(filepath.Join(Dir, filepath.FromSlash(clean)))
	if err != nil {
		data, err = fs.ReadFile(LevelsFS, clean)
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("levels: read %s: %w", clean, err)
	}

	lvl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("levels: parse %s: %w", clean, err)
	}
	lvl.Name = strings.TrimSuffix(clean, ".json")
	return lvl, nil
}

// List returns the names of the embedded levels, sorted.
func List() ([]string, error) {
	entries, err := fs.Glob(LevelsFS, "*.json")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e, ".json"))
	}
	slices.Sort(names)
	return names, nil
}

func cleanLevelPath(name string) string {
	s := path.Clean(filepath.ToSlash(name))
	if after, ok := strings.CutPrefix(s, Dir+"/"); ok {
		s = after
	}
	if !strings.HasSuffix(s, ".json") {
		s += ".json"
	}
	return s
}
