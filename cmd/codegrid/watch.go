package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/codegrid/internal/platform/tui"
	"github.com/vovakirdan/codegrid/internal/playback"
)

var (
	watchGame   string
	watchLevel  int
	watchForce  bool
	watchPaused bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <program.yaml>",
	Short: "Animate a program step by step",
	Long: `Opens a terminal view of the level and plays the program at the
configured speed. Runs are recorded like 'codegrid run'.

Keys:
  enter/space  run        s/esc  stop      r  reset
  f/tab        speed      ?      help      q  quit

Examples:
  codegrid watch karelworld-4.yaml
  codegrid watch draft.yaml --paused`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchGame, "game", "", "Override the program file's game")
	watchCmd.Flags().IntVar(&watchLevel, "level", 0, "Override the program file's level")
	watchCmd.Flags().BoolVar(&watchForce, "force", false, "Watch a level that is not unlocked yet")
	watchCmd.Flags().BoolVar(&watchPaused, "paused", false, "Wait for enter before running")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("watch needs a terminal; use 'codegrid run' instead")
	}

	a, err := setup()
	if err != nil {
		return err
	}

	p, err := a.prepare(args[0], watchGame, watchLevel)
	if err != nil {
		return err
	}

	store, err := a.openStore()
	if err != nil {
		return fmt.Errorf("opening progress database: %w", err)
	}
	defer store.Close()

	if !watchForce {
		if err := a.checkUnlocked(context.Background(), store, p); err != nil {
			return err
		}
	}

	pacer := playback.NewPacer(a.cfg.Playback)
	d, rec := a.recordedDriver(store, playback.RealClock{}, pacer.Delay)
	defer closeRecorder(a, rec)

	feed := tui.NewFeed()
	d.Subscribe(feed)

	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		width = 0
	}

	r, err := tui.Run(tui.WatchOptions{
		Game:    p.game,
		Level:   p.level,
		Steps:   p.steps,
		Source:  filepath.Base(args[0]),
		Driver:  d,
		Feed:    feed,
		Pacer:   pacer,
		AutoRun: !watchPaused,
		Width:   width,
	})
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if r == nil {
		fmt.Println("No run finished.")
		return nil
	}

	printResult(p.game.Title(), p.level.ID, r.Status, r.Message(), r.Executed, r.Total, r.Goal)
	if r.Status != playback.Passed {
		return errNotPassed
	}
	return nil
}
