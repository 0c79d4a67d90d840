// codegrid runs block programs against grid puzzles in the terminal.
//
// Usage:
//
//	codegrid list                  - List puzzle games
//	codegrid levels <game>         - List a game's levels and progress
//	codegrid run <program.yaml>    - Run a program and record the result
//	codegrid watch <program.yaml>  - Animate a program in the terminal
//	codegrid check <program.yaml>  - Compile and judge without recording
//	codegrid progress              - Show progress per game
//	codegrid replay [file]         - List or show recorded runs
//	codegrid quiz [module]         - Take the sequence logic quiz
//
// Global flags:
//
//	--config <path>   - Config file (default search: ~/.codegrid, ./configs)
//	--db <path>       - Progress database
//	--levels <dir>    - Extra level packs
//	--student <name>  - Whose progress to use
//	--verbose         - Debug logging
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/vovakirdan/codegrid/internal/games/bricks"
	_ "github.com/vovakirdan/codegrid/internal/games/karel"
	_ "github.com/vovakirdan/codegrid/internal/games/karelworld"
	_ "github.com/vovakirdan/codegrid/internal/games/pencil"
	_ "github.com/vovakirdan/codegrid/internal/games/tank"
)

var (
	// Global flags
	flagConfig  string
	flagDBPath  string
	flagLevels  string
	flagStudent string
	flagVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "codegrid",
	Short: "codegrid - program Karel, TinyTank, Bricks and Pencil with blocks",
	Long: `codegrid runs block programs against grid puzzles and tracks which
levels a student has solved.

Programs are YAML files naming a game, a level and a list of blocks:

  game: karelworld
  level: 1
  program:
    - {repeat: 5, body: [move_right]}

Available commands:
  list      - Show all puzzle games
  levels    - Show the levels of a game
  run       - Run a program and record the result
  watch     - Animate a program step by step
  check     - Compile and judge a program without recording
  progress  - Show or reset progress
  replay    - Inspect recorded runs
  quiz      - Take the sequence logic quiz

Examples:
  codegrid list
  codegrid levels karelworld
  codegrid watch solutions/karelworld-1.yaml
  codegrid run solutions/tank-3.yaml --show`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to progress database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLevels, "levels", "", "Directory of extra level packs")
	rootCmd.PersistentFlags().StringVar(&flagStudent, "student", "", "Student name for progress (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(quizCmd)
}
