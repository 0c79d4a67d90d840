package tui

import (
	"github.com/vovakirdan/codegrid/internal/core"
	"github.com/vovakirdan/codegrid/internal/engine"
	"github.com/vovakirdan/codegrid/internal/games/pencil"
	"github.com/vovakirdan/codegrid/internal/levels"
)

// DrawBoard renders a world into a fresh screen. l supplies the overlays
// that are not part of the world (goal, targets, target drawing, target
// height) and may be nil.
func DrawBoard(game string, l *levels.Level, w *engine.World) *core.Screen {
	switch game {
	case levels.Bricks:
		return drawBricks(l, w)
	case levels.Pencil:
		return drawPencil(l, w)
	default:
		return drawGrid(game, l, w)
	}
}

// drawGrid draws the cell puzzles (both Karels and TinyTank), two
// characters per cell.
func drawGrid(game string, l *levels.Level, w *engine.World) *core.Screen {
	s := core.NewScreen(w.Size.Cols*2, w.Size.Rows)

	targets := map[core.Coord]int{}
	var goal *core.Coord
	if l != nil {
		for _, t := range l.Targets {
			targets[t.At] += t.Count
		}
		goal = l.Goal
	}

	for y := 0; y < w.Size.Rows; y++ {
		for x := 0; x < w.Size.Cols; x++ {
			c := core.C(x, y)
			first, second, color := '·', ' ', core.ColorMuted

			switch {
			case w.IsWall(c):
				first, second, color = '█', '█', core.ColorWall
			case w.Bullet != nil && *w.Bullet == c:
				first, color = '•', core.ColorBullet
			case w.MonsterAt(c) >= 0:
				first, color = 'M', core.ColorMonster
			case w.BallsAt(c) > 0:
				first, color = digit(w.BallsAt(c)), core.ColorBall
				if n, ok := targets[c]; ok {
					second = digit(n)
				}
			case goal != nil && *goal == c:
				first, color = 'G', core.ColorGoal
			case targets[c] > 0:
				first, second, color = 'p', digit(targets[c]), core.ColorTarget
			}
			s.SetColored(x*2, y, first, color)
			s.SetColored(x*2+1, y, second, color)
		}
	}

	agent := w.Dir.Arrow()
	if game == levels.KarelWorld {
		agent = '@'
	}
	s.SetColored(w.Pos.X*2, w.Pos.Y, agent, core.ColorRobot)
	if w.Carry > 0 {
		s.SetColored(w.Pos.X*2+1, w.Pos.Y, digit(w.Carry), core.ColorRobot)
	}
	return s
}

// drawBricks draws the columns with the cursor on an extra top row.
func drawBricks(l *levels.Level, w *engine.World) *core.Screen {
	cols := len(w.Heights)
	s := core.NewScreen(cols*2, w.MaxHeight+1)

	target := 0
	if l != nil {
		target = l.TargetHeight()
	}

	for x := 0; x < cols; x++ {
		for row := 0; row < w.MaxHeight; row++ {
			fromBottom := w.MaxHeight - row
			r, color := '·', core.ColorMuted
			switch {
			case fromBottom <= w.Heights[x]:
				r, color = '▓', core.ColorBrick
			case fromBottom <= target:
				r, color = '░', core.ColorGhost
			}
			s.SetColored(x*2, row+1, r, color)
		}
	}
	if w.Falling != nil {
		s.SetColored(w.Falling.X*2, w.Falling.Y+1, '▓', core.ColorFalling)
	}
	s.SetColored(w.Pos.X*2, 0, '▼', core.ColorRobot)
	return s
}

// drawPencil draws lattice points four characters apart horizontally and
// two vertically. Target edges show as ghosts; drawn edges outside the
// target are flagged.
func drawPencil(l *levels.Level, w *engine.World) *core.Screen {
	width := (w.Size.Cols-1)*4 + 1
	height := (w.Size.Rows-1)*2 + 1
	s := core.NewScreen(width, height)

	for y := 0; y < w.Size.Rows; y++ {
		for x := 0; x < w.Size.Cols; x++ {
			s.SetColored(x*4, y*2, '·', core.ColorMuted)
		}
	}

	var target engine.EdgeSet
	if l != nil {
		target = pencil.Target(l)
		for _, e := range target.Sorted() {
			drawEdge(s, e, core.ColorGhost)
		}
	}
	for _, e := range w.Edges.Sorted() {
		color := core.ColorLine
		if target != nil && !target[e] {
			color = core.ColorError
		}
		drawEdge(s, e, color)
	}

	s.SetColored(w.Pos.X*4, w.Pos.Y*2, '●', core.ColorRobot)
	return s
}

func drawEdge(s *core.Screen, e engine.Edge, color core.Color) {
	x, y := e.A.X*4, e.A.Y*2
	if e.A.Y == e.B.Y {
		for i := 1; i <= 3; i++ {
			s.SetColored(x+i, y, '─', color)
		}
		return
	}
	s.SetColored(x, y+1, '│', color)
}

func digit(n int) rune {
	if n > 9 {
		return '+'
	}
	return rune('0' + n)
}
