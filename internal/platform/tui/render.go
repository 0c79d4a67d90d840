package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/codegrid/internal/core"
)

// colorStyles maps each drawing role to a terminal style.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault: lipgloss.NewStyle(),
	core.ColorMuted:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	core.ColorWall:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorRobot:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
	core.ColorBall:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorGoal:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	core.ColorTarget:  lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorMonster: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	core.ColorBullet:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorBrick:   lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
	core.ColorFalling: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorLine:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorGhost:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	core.ColorError:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boardStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	passStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// RenderBoard draws and styles a board inside a rounded border.
func RenderBoard(s *core.Screen) string {
	return boardStyle.Render(RenderScreen(s))
}
