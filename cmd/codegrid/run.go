package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/codegrid/internal/engine"
	"github.com/vovakirdan/codegrid/internal/platform/tui"
	"github.com/vovakirdan/codegrid/internal/playback"
)

var (
	runGame    string
	runLevel   int
	runForce   bool
	runShow    bool
	runAnimate bool
)

var runCmd = &cobra.Command{
	Use:   "run <program.yaml>",
	Short: "Run a program and record the result",
	Long: `Compiles a program file, runs it against its level and records the
outcome. A passed level unlocks the next one.

The exit status is non-zero unless the level was passed.

Examples:
  codegrid run karel-1.yaml
  codegrid run solution.yaml --game tank --level 3 --show
  codegrid run draft.yaml --animate`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runGame, "game", "", "Override the program file's game")
	runCmd.Flags().IntVar(&runLevel, "level", 0, "Override the program file's level")
	runCmd.Flags().BoolVar(&runForce, "force", false, "Run a level that is not unlocked yet")
	runCmd.Flags().BoolVar(&runShow, "show", false, "Print the final board")
	runCmd.Flags().BoolVar(&runAnimate, "animate", false, "Print every step at playback speed")
}

func runRun(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}

	p, err := a.prepare(args[0], runGame, runLevel)
	if err != nil {
		return err
	}

	store, err := a.openStore()
	if err != nil {
		return fmt.Errorf("opening progress database: %w", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if !runForce {
		if err := a.checkUnlocked(ctx, store, p); err != nil {
			return err
		}
	}

	var (
		clock playback.Clock = &playback.RecordingClock{}
		delay playback.DelayFunc
	)
	if runAnimate {
		clock = playback.RealClock{}
		delay = playback.NewPacer(a.cfg.Playback).Delay
	}
	d, rec := a.recordedDriver(store, clock, delay)
	defer closeRecorder(a, rec)

	if runAnimate {
		d.Subscribe(playback.ObserverFuncs{OnSnapshot: func(s playback.Snapshot) {
			if !s.Committed && s.Index >= 0 {
				return
			}
			fmt.Print("\033[H\033[2J")
			fmt.Println(tui.RenderBoard(tui.DrawBoard(p.game.ID(), p.level, s.World)))
			if s.Instruction != nil {
				fmt.Printf("step %d/%d  %s\n", s.Index+1, s.Total, s.Instruction)
			}
		}})
	}

	a.log.Debug("running", "game", p.game.ID(), "level", p.level.ID, "steps", len(p.steps))
	r, err := d.Run(ctx, p.game.Rules(p.level), p.steps)
	if err != nil {
		return err
	}

	if runShow && !runAnimate {
		fmt.Println(tui.RenderBoard(tui.DrawBoard(p.game.ID(), p.level, r.World)))
	}
	printResult(p.game.Title(), p.level.ID, r.Status, r.Message(), r.Executed, r.Total, r.Goal)

	if r.Status != playback.Passed {
		return errNotPassed
	}
	return nil
}

func printResult(title string, level int, status playback.Status, msg string, executed, total int, goal engine.GoalResult) {
	mark := "✗"
	if status == playback.Passed {
		mark = "✓"
	}
	fmt.Printf("%s · Level %d: %s %s\n", title, level, mark, msg)
	fmt.Printf("  status %s, %d/%d steps", status, executed, total)
	if goal.Percent > 0 {
		fmt.Printf(", %d%% similar", goal.Percent)
	}
	fmt.Println()
}
