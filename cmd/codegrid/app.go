package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/codegrid/internal/config"
	"github.com/vovakirdan/codegrid/internal/levels"
	"github.com/vovakirdan/codegrid/internal/playback"
	"github.com/vovakirdan/codegrid/internal/program"
	"github.com/vovakirdan/codegrid/internal/registry"
	"github.com/vovakirdan/codegrid/internal/replay"
	"github.com/vovakirdan/codegrid/internal/storage"
)

// errNotPassed makes the process exit non-zero when a run fails its level.
var errNotPassed = errors.New("level not passed")

// app holds what every command needs: configuration, logging and levels.
type app struct {
	cfg     config.Config
	log     *log.Logger
	catalog *levels.Catalog
}

func setup() (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "codegrid",
	})
	if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(lvl)
	}
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}

	catalog, err := levels.Builtin()
	if err != nil {
		return nil, err
	}
	dir := flagLevels
	if dir == "" {
		dir = cfg.Levels.Dir
	}
	if dir != "" {
		n, err := levels.NewLoader(config.ExpandHome(dir)).Merge(catalog)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded level packs", "dir", dir, "levels", n)
	}

	return &app{cfg: cfg, log: logger, catalog: catalog}, nil
}

func (a *app) student() string {
	if flagStudent != "" {
		return flagStudent
	}
	return a.cfg.Storage.Student
}

func (a *app) openStore() (*storage.Store, error) {
	path := flagDBPath
	if path == "" {
		path = a.cfg.Storage.DB
	}
	return storage.Open(path)
}

// resolveGame accepts a game id or the course id it is published under.
func resolveGame(id string) (registry.Game, error) {
	game, err := registry.Get(id)
	if err == nil {
		return game, nil
	}
	if game, cerr := registry.ByCourse(id); cerr == nil {
		return game, nil
	}
	return nil, fmt.Errorf("%w (run 'codegrid list' to see available games)", err)
}

// level resolves a game and one of its levels.
func (a *app) level(gameID string, id int) (registry.Game, *levels.Level, error) {
	game, err := resolveGame(gameID)
	if err != nil {
		return nil, nil, err
	}
	l, err := a.catalog.Get(game.ID(), id)
	if err != nil {
		return nil, nil, err
	}
	return game, l, nil
}

// prepared is a program compiled for its level.
type prepared struct {
	game     registry.Game
	level    *levels.Level
	steps    []program.Instruction
	warnings []string
}

// prepare loads a program file, applies --game/--level overrides and
// compiles it against the level's rules.
func (a *app) prepare(path, gameOverride string, levelOverride int) (*prepared, error) {
	f, err := program.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if gameOverride != "" {
		f.Game = gameOverride
	}
	if levelOverride > 0 {
		f.Level = levelOverride
	}
	if f.Game == "" || f.Level == 0 {
		return nil, fmt.Errorf("%s: program file needs a game and a level", path)
	}

	game, l, err := a.level(f.Game, f.Level)
	if err != nil {
		return nil, err
	}

	c := game.Rules(l).Constraints(a.cfg.Compiler.Budget)
	c.MaxDepth = a.cfg.Compiler.MaxDepth
	compiled, err := program.Compile(f.Workspace(), c)
	if err != nil {
		return nil, err
	}
	for _, w := range compiled.Warnings {
		a.log.Warn(w, "file", path)
	}
	return &prepared{game: game, level: l, steps: compiled.Steps, warnings: compiled.Warnings}, nil
}

// checkUnlocked refuses levels beyond the student's progress.
func (a *app) checkUnlocked(ctx context.Context, store *storage.Store, p *prepared) error {
	ok, err := store.UnlockedLevel(ctx, a.student(), p.game.ID(), p.level.ID)
	if err != nil {
		return err
	}
	if !ok {
		done, _ := store.CompletedLevel(ctx, a.student(), p.game.ID())
		return fmt.Errorf("%s level %d is locked: solve level %d first (or pass --force)", p.game.ID(), p.level.ID, done+1)
	}
	return nil
}

// recordedDriver builds a driver that saves progress, history (stopped
// runs included) and a replay transcript for every run. Close the recorder
// when done.
func (a *app) recordedDriver(store *storage.Store, clock playback.Clock, delay playback.DelayFunc) (*playback.Driver, *replay.Recorder) {
	history := storage.NewHistory(store, a.student(), a.log)
	d := playback.New(playback.Options{
		Clock:     clock,
		Delay:     delay,
		Logger:    a.log.WithPrefix("playback"),
		Sink:      storage.Progress{Store: store, Student: a.student()},
		OnStopped: history.Stopped,
	})
	d.Subscribe(history)

	var rec *replay.Recorder
	if dir := a.cfg.Replay.Dir; dir != "" {
		rec = replay.NewRecorder(config.ExpandHome(dir), a.log.WithPrefix("replay"))
		d.Subscribe(rec)
	}
	return d, rec
}

func closeRecorder(a *app, rec *replay.Recorder) {
	if rec == nil {
		return
	}
	if err := rec.Close(); err != nil {
		a.log.Error("could not write replay", "error", err)
		return
	}
	for _, p := range rec.Paths() {
		a.log.Debug("replay saved", "path", p)
	}
}
