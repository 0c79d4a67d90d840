package levels

import (
	"fmt"

	"github.com/vovakirdan/codegrid/internal/core"
	"github.com/vovakirdan/codegrid/internal/program"
)

// ValidationError contains details about a malformed level.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func invalid(code, format string, args ...any) error {
	return ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Validate runs the semantic checks for the level's game.
func Validate(l *Level) error {
	if l.ID < 1 {
		return invalid("INVALID_ID", "level id %d must be positive", l.ID)
	}
	if l.Cols <= 0 || l.Rows <= 0 {
		return invalid("INVALID_SIZE", "grid %dx%d is empty", l.Cols, l.Rows)
	}

	switch l.Game {
	case Karel:
		return validateRobot(l, false)
	case KarelWorld:
		return validateRobot(l, true)
	case Tank:
		return validateTank(l)
	case Bricks:
		return validateBricks(l)
	case Pencil:
		return validatePencil(l)
	default:
		return invalid("UNKNOWN_GAME", "unknown game %q", l.Game)
	}
}

// validateCell checks that c is inside the grid and not a wall.
func validateCell(l *Level, walls map[core.Coord]bool, what string, c core.Coord) error {
	if !l.Size().Contains(c) {
		return invalid("OUT_OF_GRID", "%s %v is outside the %dx%d grid", what, c, l.Cols, l.Rows)
	}
	if walls[c] {
		return invalid("ON_WALL", "%s %v is on a wall", what, c)
	}
	return nil
}

func validateRobot(l *Level, world bool) error {
	walls := l.WallSet()
	for _, w := range l.Walls {
		if !l.Size().Contains(w.At) {
			return invalid("OUT_OF_GRID", "wall %v is outside the grid", w.At)
		}
	}
	if err := validateCell(l, walls, "start", l.Start); err != nil {
		return err
	}
	if l.Goal == nil {
		return invalid("MISSING_GOAL", "level has no goal")
	}
	if err := validateCell(l, walls, "goal", *l.Goal); err != nil {
		return err
	}
	for _, b := range l.Balls {
		if err := validateCell(l, walls, "ball", b.At); err != nil {
			return err
		}
		if b.Count <= 0 {
			return invalid("INVALID_COUNT", "ball stack at %v has count %d", b.At, b.Count)
		}
	}
	for _, t := range l.Targets {
		if err := validateCell(l, walls, "target", t.At); err != nil {
			return err
		}
	}
	if len(l.Monsters) > 0 {
		return invalid("UNEXPECTED_MONSTER", "%s levels have no monsters", l.Game)
	}

	if !world {
		if len(l.Targets) > 0 {
			return invalid("UNEXPECTED_TARGET", "karel levels have no placement targets")
		}
		return nil
	}

	if l.RequiredCarry < 0 {
		return invalid("INVALID_COUNT", "required carry %d is negative", l.RequiredCarry)
	}
	// The goal needs the carried balls plus those placed on targets.
	need := l.RequiredCarry
	for _, t := range l.Targets {
		need += t.Count
	}
	if need > l.TotalBalls() {
		return invalid("UNSATISFIABLE", "goal needs %d balls but the map has %d", need, l.TotalBalls())
	}
	for k := range l.Allowed {
		switch k {
		case program.MoveUp, program.MoveRight, program.MoveDown, program.MoveLeft,
			program.Pick, program.Put, program.Repeat:
		default:
			return invalid("INVALID_ALLOWED", "instruction %q cannot be allowed here", k)
		}
	}
	return nil
}

func validateTank(l *Level) error {
	walls := l.WallSet()
	if err := validateCell(l, walls, "tank", l.Start); err != nil {
		return err
	}
	if l.Goal != nil {
		return invalid("UNEXPECTED_GOAL", "tank levels have no goal cell")
	}
	if len(l.Monsters) == 0 {
		return invalid("MISSING_MONSTERS", "level has no monsters")
	}
	for _, m := range l.Monsters {
		if err := validateCell(l, walls, "monster", m); err != nil {
			return err
		}
	}
	if len(l.Balls) > 0 || len(l.Targets) > 0 {
		return invalid("UNEXPECTED_BALL", "tank levels have no balls")
	}
	return nil
}

func validateBricks(l *Level) error {
	if len(l.Heights) != l.Cols {
		return invalid("INVALID_HEIGHTS", "%d heights for %d columns", len(l.Heights), l.Cols)
	}
	for i, h := range l.Heights {
		if h < 0 || h > l.MaxHeight {
			return invalid("INVALID_HEIGHTS", "column %d height %d outside 0..%d", i, h, l.MaxHeight)
		}
	}
	if l.Start.X < 0 || l.Start.X >= l.Cols {
		return invalid("OUT_OF_GRID", "cursor start %d outside 0..%d", l.Start.X, l.Cols-1)
	}
	return nil
}

func validatePencil(l *Level) error {
	if !l.Size().Contains(l.Start) {
		return invalid("OUT_OF_GRID", "pen start %v is outside the canvas", l.Start)
	}
	if l.Threshold <= 0 || l.Threshold > 1 {
		return invalid("INVALID_THRESHOLD", "threshold %v outside (0, 1]", l.Threshold)
	}
	if len(l.Target) == 0 {
		return invalid("MISSING_TARGET", "level has no target drawing")
	}

	cur := l.Start
	for i, in := range l.Target {
		if in.Kind != program.Line || in.Len <= 0 {
			return invalid("INVALID_TARGET", "target step %d (%v) is not a line", i, in)
		}
		for n := 0; n < in.Len; n++ {
			cur = cur.Step(in.Dir)
			if !l.Size().Contains(cur) {
				return invalid("OUT_OF_GRID", "target step %d leaves the canvas at %v", i, cur)
			}
		}
	}
	return nil
}
