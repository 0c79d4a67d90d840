package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/codegrid/internal/engine"
	"github.com/vovakirdan/codegrid/internal/platform/tui"
	"github.com/vovakirdan/codegrid/internal/playback"
)

var (
	checkGame  string
	checkLevel int
	checkShow  bool
)

var checkCmd = &cobra.Command{
	Use:   "check <program.yaml>",
	Short: "Compile and judge a program without recording",
	Long: `Compiles a program against its level's rules and judges the final
state. Nothing is saved and locked levels can be checked.

Examples:
  codegrid check bricks-2.yaml
  codegrid check draft.yaml --game pencil --level 1 --show`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkGame, "game", "", "Override the program file's game")
	checkCmd.Flags().IntVar(&checkLevel, "level", 0, "Override the program file's level")
	checkCmd.Flags().BoolVar(&checkShow, "show", false, "Print the final board")
}

func runCheck(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}

	p, err := a.prepare(args[0], checkGame, checkLevel)
	if err != nil {
		return err
	}
	for _, w := range p.warnings {
		fmt.Println("warning:", w)
	}
	fmt.Printf("compiled %d steps\n", len(p.steps))

	rep := engine.Run(p.game.Rules(p.level), p.steps)
	if checkShow {
		fmt.Println(tui.RenderBoard(tui.DrawBoard(p.game.ID(), p.level, rep.World)))
	}

	r := playback.Result{Status: playback.GoalFailed, Failure: rep.Failure, Goal: rep.Goal}
	switch {
	case rep.Failure != nil:
		r.Status = playback.Failed
	case rep.Passed():
		r.Status = playback.Passed
	}
	printResult(p.game.Title(), p.level.ID, r.Status, r.Message(), rep.Executed, len(p.steps), rep.Goal)

	if r.Status != playback.Passed {
		return errNotPassed
	}
	return nil
}
