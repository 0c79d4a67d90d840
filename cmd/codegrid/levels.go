package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var levelsCmd = &cobra.Command{
	Use:   "levels <game>",
	Short: "List a game's levels",
	Long: `Shows the levels of a game and which of them the student has solved
or unlocked.

Examples:
  codegrid levels karel
  codegrid levels kursus2 --student ana`,
	Args: cobra.ExactArgs(1),
	RunE: runLevels,
}

func runLevels(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}

	game, err := resolveGame(args[0])
	if err != nil {
		return err
	}

	store, err := a.openStore()
	if err != nil {
		return fmt.Errorf("opening progress database: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	done, err := store.CompletedLevel(ctx, a.student(), game.ID())
	if err != nil {
		return err
	}
	completions, err := store.Completions(ctx, a.student(), game.ID())
	if err != nil {
		return err
	}
	solved := make(map[int]bool, len(completions))
	for _, c := range completions {
		solved[c.Level] = true
	}

	lvls := a.catalog.Levels(game.ID())
	if len(lvls) == 0 {
		fmt.Printf("%s has no levels.\n", game.Title())
		return nil
	}

	fmt.Printf("%s - %s\n", game.Title(), game.Description())
	fmt.Println()
	fmt.Printf("  %-4s  %-28s  %-7s  %s\n", "ID", "Title", "Size", "State")
	fmt.Printf("  %-4s  %-28s  %-7s  %s\n", "--", "-----", "----", "-----")
	for _, l := range lvls {
		state := "locked"
		switch {
		case solved[l.ID]:
			state = "solved"
		case l.ID <= done+1:
			state = "open"
		}
		fmt.Printf("  %-4d  %-28s  %-7s  %s\n", l.ID, l.Title, fmt.Sprintf("%dx%d", l.Cols, l.Rows), state)
	}
	return nil
}
