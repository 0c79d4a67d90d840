package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/codegrid/internal/config"
	"github.com/vovakirdan/codegrid/internal/platform/tui"
	"github.com/vovakirdan/codegrid/internal/replay"
)

var replayFrames bool

var replayCmd = &cobra.Command{
	Use:   "replay [file]",
	Short: "Inspect recorded runs",
	Long: `Without arguments, lists the transcripts in the replay directory.
Given a transcript (a path or a name inside the replay directory), shows
its steps and the final board.

Examples:
  codegrid replay
  codegrid replay karel-001-20260101-120000.000-1.jsonl.zst --frames`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&replayFrames, "frames", false, "Draw the board after every committed step")
}

func runReplay(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}

	dir := config.ExpandHome(a.cfg.Replay.Dir)
	if len(args) == 0 {
		return listReplays(dir)
	}

	path := args[0]
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) && dir != "" {
		path = filepath.Join(dir, path)
	}
	t, err := replay.Open(path)
	if err != nil {
		return err
	}

	l, err := a.catalog.Get(t.Header.Game, t.Header.Level)
	if err != nil {
		a.log.Warn("level not in catalog, drawing without it", "game", t.Header.Game, "level", t.Header.Level)
		l = nil
	}
	title := t.Header.Game
	if l != nil && l.Title != "" {
		title += ": " + l.Title
	}

	fmt.Printf("%s · Level %d (%d steps, started %s)\n", title, t.Header.Level, t.Header.Total,
		t.Header.Started.Local().Format("2006-01-02 15:04:05"))
	fmt.Println()

	for _, s := range t.Snapshots {
		if !s.Committed || s.Instruction == nil {
			continue
		}
		fmt.Printf("  %3d  %s\n", s.Index+1, s.Instruction)
		if replayFrames {
			fmt.Println(tui.RenderBoard(tui.DrawBoard(t.Header.Game, l, s.World)))
		}
	}
	fmt.Println()

	if final := t.Final(); final != nil && !replayFrames {
		fmt.Println(tui.RenderBoard(tui.DrawBoard(t.Header.Game, l, final.World)))
	}

	msg := "Run stopped."
	if t.Result != nil {
		msg = t.Result.Message()
	}
	fmt.Printf("%s: %s\n", t.Status(), msg)
	return nil
}

func listReplays(dir string) error {
	if dir == "" {
		fmt.Println("Replays are disabled (replay.dir is empty).")
		return nil
	}
	paths, err := replay.List(dir)
	if errors.Is(err, fs.ErrNotExist) {
		paths, err = nil, nil
	}
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Println("No replays recorded yet.")
		return nil
	}

	fmt.Printf("Replays in %s:\n\n", dir)
	for _, p := range paths {
		t, err := replay.Open(p)
		if err != nil {
			fmt.Printf("  %-50s  unreadable: %v\n", filepath.Base(p), err)
			continue
		}
		fmt.Printf("  %-50s  %-12s L%-3d %s\n", filepath.Base(p), t.Header.Game, t.Header.Level, t.Status())
	}
	return nil
}
