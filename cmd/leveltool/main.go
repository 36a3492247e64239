// Command leveltool checks, prints and converts level files.
//
//	leveltool arena corridor          validate levels
//	leveltool -print arena            draw the level with its spawns
//	leveltool -layers out.json arena  save a rows level in layer form
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/milk9111/gridchase/levels"
)

func main() {
	printLevels := flag.Bool("print", false, "draw each level with its spawns")
	layers := flag.String("layers", "", "write the (single) level in layer form to this file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	names := flag.Args()
	if len(names) == 0 {
		all, err := levels.List()
		if err != nil {
			logger.Error("list levels", "err", err)
			os.Exit(1)
		}
		names = all
	}
	if *layers != "" && len(names) != 1 {
		logger.Error("-layers needs exactly one level")
		os.Exit(2)
	}

	failed := false
	for _, name := range names {
		lvl, err := check(name)
		if err != nil {
			logger.Error("level invalid", "level", name, "err", err)
			failed = true
			continue
		}
		logger.Info("level ok", "level", lvl.Name, "width", lvl.Width, "height", lvl.Height,
			"opponents", len(lvl.Opponents()))
		if *printLevels {
			if err := draw(os.Stdout, lvl); err != nil {
				logger.Error("draw", "level", name, "err", err)
				failed = true
			}
		}
		if *layers != "" {
			if err := save(*layers, lvl); err != nil {
				logger.Error("save", "file", *layers, "err", err)
				failed = true
			}
		}
	}
	if failed {
		os.Exit(1)
	}
}

func check(name string) (*levels.Level, error) {
	lvl, err := levels.Load(name)
	if err != nil {
		return nil, err
	}
	g, err := lvl.Grid()
	if err != nil {
		return nil, err
	}
	if err := lvl.Validate(g); err != nil {
		return nil, err
	}
	return lvl, nil
}

// draw prints the walls with the player as '@' and opponents by the first
// letter of their id.
func draw(w io.Writer, lvl *levels.Level) error {
	g, err := lvl.Grid()
	if err != nil {
		return err
	}
	rows := strings.Split(g.String(), "\n")
	cells := make([][]byte, len(rows))
	for i, r := range rows {
		cells[i] = []byte(r)
	}
	if p, err := lvl.Player(); err == nil {
		cells[p.Y][p.X] = '@'
	}
	for _, o := range lvl.Opponents() {
		cells[o.Y][o.X] = o.ID[0]
	}
	fmt.Fprintf(w, "%s (%dx%d, tile %g)\n", lvl.Name, lvl.Width, lvl.Height, lvl.TileSize)
	for _, r := range cells {
		fmt.Fprintln(w, string(r))
	}
	return nil
}

func save(path string, lvl *levels.Level) error {
	g, err := lvl.Grid()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(lvl.Layered(g)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
