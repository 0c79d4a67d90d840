package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/codegrid/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all puzzle games",
	Long:  `Shows every registered puzzle game with its course and level count.`,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}

	games := registry.List()
	if len(games) == 0 {
		fmt.Println("No games available.")
		return nil
	}

	fmt.Println("Available games:")
	fmt.Println()

	// Calculate column widths
	maxIDLen, maxTitleLen := 2, 5 // "ID", "Title" headers
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
		maxTitleLen = max(maxTitleLen, len(g.Title))
	}

	fmt.Printf("  %-*s  %-*s  %-10s  %s\n", maxIDLen, "ID", maxTitleLen, "Title", "Course", "Levels")
	fmt.Printf("  %-*s  %-*s  %-10s  %s\n", maxIDLen, "--", maxTitleLen, "-----", "------", "------")

	for _, g := range games {
		n := len(a.catalog.Levels(g.ID))
		fmt.Printf("  %-*s  %-*s  %-10s  %d\n", maxIDLen, g.ID, maxTitleLen, g.Title, g.Course, n)
	}

	fmt.Println()
	fmt.Println("Run 'codegrid levels <id>' to see a game's levels.")
	return nil
}
