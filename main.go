package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/milk9111/gridchase/levels"
	"github.com/milk9111/gridchase/prefabs"
)

func main() {
	scenario := flag.String("scenario", "chase", "scenario name in prefabs/ (basename, .yaml optional)")
	levelName := flag.String("level", "", "level name in levels/, overrides the scenario's level")
	turns := flag.Int("turns", 0, "turn limit, overrides the scenario's max_turns")
	dump := flag.Bool("dump", false, "print the board after every turn")
	watch := flag.Bool("watch", false, "rerun whenever a scenario, script or level changes on disk")
	astar := flag.Bool("astar", false, "use A* instead of greedy best-first search")
	verbose := flag.Bool("v", false, "enable debug logging")
	list := flag.Bool("list", false, "list the embedded scenarios and levels and exit")
	flag.Parse()

	logger := newLogger(os.Stderr, *verbose)
	slog.SetDefault(logger)

	if *list {
		if err := printCatalog(os.Stdout); err != nil {
			logger.Error("list failed", "err", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := Config{
		Scenario: *scenario,
		Level:    *levelName,
		MaxTurns: *turns,
		AStar:    *astar,
		Logger:   logger,
	}
	if *dump {
		cfg.Dump = os.Stdout
	}

	if err := runOnce(ctx, cfg, os.Stdout); err != nil && !*watch {
		logger.Error("run failed", "err", err)
		os.Exit(1)
	}
	if !*watch {
		return
	}
	if err := watchAndRerun(ctx, cfg, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("watch failed", "err", err)
		os.Exit(1)
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func runOnce(ctx context.Context, cfg Config, out io.Writer) error {
	game, err := NewGame(cfg)
	if err != nil {
		return err
	}
	res, err := game.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, res)
	return nil
}

// watchAndRerun blocks until ctx is done, rerunning cfg after every change
// under the on-disk override directories. Failed reruns are logged, not
// fatal, so a half-saved file does not end the session.
func watchAndRerun(ctx context.Context, cfg Config, out io.Writer) error {
	var dirs []string
	for _, dir := range []string{prefabs.Dir, prefabs.Dir + "/scripts", levels.Dir} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		return fmt.Errorf("watch: none of %s exist in the working directory",
			strings.Join([]string{prefabs.Dir, levels.Dir}, ", "))
	}

	w, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("watching for changes", "dirs", dirs)
	changes := newChangeTracker()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case name, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !changes.changed(name) {
				logger.Debug("modification time unchanged, skipping", "file", name)
				continue
			}
			logger.Info("change detected, rerunning", "file", name)
			if err := runOnce(ctx, cfg, out); err != nil {
				logger.Error("rerun failed", "err", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		}
	}
}

// changeTracker remembers the last modification time seen per file, so a
// burst of events for one save reruns once.
type changeTracker struct {
	seen map[string]time.Time
}

func newChangeTracker() *changeTracker {
	return &changeTracker{seen: make(map[string]time.Time)}
}

// changed reports whether name was modified since the last call for it.
// Files that cannot be stat'ed count as changed so the rerun reports why.
func (c *changeTracker) changed(name string) bool {
	mod, ok := prefabs.ModTime(name)
	if !ok {
		delete(c.seen, name)
		return true
	}
	if last, ok := c.seen[name]; ok && last.Equal(mod) {
		return false
	}
	c.seen[name] = mod
	return true
}

func printCatalog(out io.Writer) error {
	scenarios, err := prefabs.Scenarios()
	if err != nil {
		return err
	}
	lvls, err := levels.List()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "scenarios: %s\n", strings.Join(scenarios, ", "))
	fmt.Fprintf(out, "levels: %s\n", strings.Join(lvls, ", "))
	return nil
}
