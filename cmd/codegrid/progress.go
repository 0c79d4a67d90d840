package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/codegrid/internal/quiz"
	"github.com/vovakirdan/codegrid/internal/registry"
)

var (
	progressReset  bool
	progressRecent int
)

var progressCmd = &cobra.Command{
	Use:   "progress [game]",
	Short: "Show or reset progress",
	Long: `Shows solved levels and run counts per game for a student.

With --reset, clears the progress and run history of the given game, or of
every game when none is given.

Examples:
  codegrid progress
  codegrid progress karel --recent 5
  codegrid progress tank --reset`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProgress,
}

func init() {
	progressCmd.Flags().BoolVar(&progressReset, "reset", false, "Clear progress and history")
	progressCmd.Flags().IntVar(&progressRecent, "recent", 0, "Also list the most recent runs")
}

func runProgress(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}

	var game string
	if len(args) == 1 {
		game = args[0]
		if !registry.Exists(game) {
			if _, err := quiz.Find(game); err != nil {
				return fmt.Errorf("unknown game or quiz %q", game)
			}
		}
	}

	store, err := a.openStore()
	if err != nil {
		return fmt.Errorf("opening progress database: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	student := a.student()

	if progressReset {
		if err := store.ClearProgress(ctx, student, game); err != nil {
			return err
		}
		if game == "" {
			fmt.Printf("Cleared all progress for %s.\n", student)
		} else {
			fmt.Printf("Cleared %s progress for %s.\n", game, student)
		}
		return nil
	}

	stats, err := store.Stats(ctx, student)
	if err != nil {
		return err
	}

	fmt.Printf("Progress - %s\n", student)
	fmt.Println()

	ids := make([]string, 0, len(stats))
	for id := range stats {
		if game == "" || id == game {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	if len(ids) == 0 {
		fmt.Println("Nothing played yet.")
		fmt.Println()
		fmt.Println("Run 'codegrid list' to pick a game.")
		return nil
	}

	fmt.Printf("  %-14s  %-10s  %-8s  %-12s  %s\n", "Game", "Solved", "Runs", "Passed", "Last played")
	fmt.Printf("  %-14s  %-10s  %-8s  %-12s  %s\n", "----", "------", "----", "------", "-----------")
	for _, id := range ids {
		st := stats[id]
		solved := fmt.Sprintf("%d", st.Completed)
		if n := a.levelCount(id); n > 0 {
			solved = fmt.Sprintf("%d/%d", st.Completed, n)
		}
		last := "-"
		if !st.LastPlayed.IsZero() {
			last = st.LastPlayed.Local().Format("2006-01-02 15:04")
		}
		fmt.Printf("  %-14s  %-10s  %-8d  %-12d  %s\n", id, solved, st.Runs, st.Passed, last)
	}

	if progressRecent > 0 {
		runs, err := store.RecentRuns(ctx, student, game, progressRecent)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println("Recent runs:")
		for _, r := range runs {
			line := fmt.Sprintf("  %s  %-12s L%-3d %-12s %d/%d", r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Game, r.Level, r.Status, r.Executed, r.Total)
			if r.Reason != "" {
				line += "  " + r.Reason
			}
			fmt.Println(line)
		}
	}
	return nil
}

// levelCount returns how many levels or quiz modules a game has.
func (a *app) levelCount(id string) int {
	if n := len(a.catalog.Levels(id)); n > 0 {
		return n
	}
	if b, err := quiz.Find(id); err == nil {
		return len(b.Modules)
	}
	return 0
}
