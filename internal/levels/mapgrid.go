package levels

import (
	"fmt"
	"unicode/utf8"

	"github.com/vovakirdan/codegrid/internal/core"
)

// Map glyphs.
//
//	.  empty        A  robot start   G  goal
//	1  stone wall   2  wood wall     3  ice wall    4  circuit wall
//	#  wall (stone)
//	b  one ball     B  two balls
//	p  target (1)   P  target (1)
//	T  tank start   M  monster
const (
	glyphEmpty   = '.'
	glyphStart   = 'A'
	glyphGoal    = 'G'
	glyphTank    = 'T'
	glyphMonster = 'M'
	glyphWall    = '#'
)

var wallGlyphs = map[rune]WallVariant{
	'1':       Stone,
	'2':       Wood,
	'3':       Ice,
	'4':       Circuit,
	glyphWall: Stone,
}

// grid is the result of parsing a map drawing.
type grid struct {
	cols, rows int
	start      *core.Coord
	goal       *core.Coord
	walls      []Wall
	balls      []Stack
	targets    []Stack
	monsters   []core.Coord
}

// parseMap reads a rectangular map drawing. A and T both mark the start;
// the game-specific checks decide which ones are acceptable.
func parseMap(lines []string) (*grid, error) {
	if len(lines) == 0 || lines[0] == "" {
		return nil, ValidationError{Code: "EMPTY_MAP", Message: "map has no rows"}
	}

	g := &grid{rows: len(lines), cols: utf8.RuneCountInString(lines[0])}

	for y, line := range lines {
		if n := utf8.RuneCountInString(line); n != g.cols {
			return nil, ValidationError{
				Code:    "NON_RECTANGULAR",
				Message: fmt.Sprintf("row %d has %d cells, expected %d", y, n, g.cols),
			}
		}

		x := 0
		for _, ch := range line {
			p := core.C(x, y)
			x++

			if v, ok := wallGlyphs[ch]; ok {
				g.walls = append(g.walls, Wall{At: p, Variant: v})
				continue
			}

			switch ch {
			case glyphEmpty:
			case glyphStart, glyphTank:
				if g.start != nil {
					return nil, ValidationError{
						Code:    "MULTIPLE_STARTS",
						Message: fmt.Sprintf("second start at %v, first at %v", p, *g.start),
					}
				}
				g.start = &p
			case glyphGoal:
				if g.goal != nil {
					return nil, ValidationError{
						Code:    "MULTIPLE_GOALS",
						Message: fmt.Sprintf("second goal at %v, first at %v", p, *g.goal),
					}
				}
				g.goal = &p
			case 'b':
				g.balls = addStack(g.balls, p, 1)
			case 'B':
				g.balls = addStack(g.balls, p, 2)
			case 'p', 'P':
				g.targets = addStack(g.targets, p, 1)
			case glyphMonster:
				g.monsters = append(g.monsters, p)
			default:
				return nil, ValidationError{
					Code:    "UNKNOWN_GLYPH",
					Message: fmt.Sprintf("unknown map glyph %q at %v", ch, p),
				}
			}
		}
	}

	if g.start == nil {
		return nil, ValidationError{Code: "MISSING_START", Message: "map has no start"}
	}
	return g, nil
}

// addStack merges count into an existing stack at p or appends a new one,
// preserving first-seen order.
func addStack(stacks []Stack, p core.Coord, count int) []Stack {
	for i := range stacks {
		if stacks[i].At == p {
			stacks[i].Count += count
			return stacks
		}
	}
	return append(stacks, Stack{At: p, Count: count})
}
