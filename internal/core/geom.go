// Package core provides the grid geometry shared by every puzzle.
// It has no external dependencies so that the engine and the games stay pure
// and testable.
package core

import (
	"fmt"
	"strings"
)

// Coord is a cell (or lattice point) on a puzzle grid.
// X increases to the right, Y increases downward.
type Coord struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// C is a convenience constructor for Coord.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// String returns the coordinate as "(x,y)".
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns a new Coord offset by (dx, dy).
func (c Coord) Add(dx, dy int) Coord {
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// Step returns the neighbouring Coord in direction d.
func (c Coord) Step(d Dir) Coord {
	dx, dy := d.Delta()
	return c.Add(dx, dy)
}

// Size is the extent of a rectangular grid.
type Size struct {
	Cols int `json:"cols"`
	Rows int `json:"rows"`
}

// Contains reports whether c lies inside the grid.
func (s Size) Contains(c Coord) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < s.Cols && c.Y < s.Rows
}

// Dir is a compass heading. The order matters: turning right adds one.
type Dir uint8

const (
	North Dir = iota
	East
	South
	West
)

// String returns the one-letter compass name.
func (d Dir) String() string {
	switch d {
	case North:
		return "N"
	case East:
		return "E"
	case South:
		return "S"
	case West:
		return "W"
	default:
		return "?"
	}
}

// Delta returns the (dx, dy) offset for one step in this direction.
// North decreases Y (screen coordinates).
func (d Dir) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	default:
		return 0, 0
	}
}

// TurnRight rotates clockwise: N -> E -> S -> W -> N.
func (d Dir) TurnRight() Dir {
	return (d + 1) % 4
}

// TurnLeft rotates counter-clockwise.
func (d Dir) TurnLeft() Dir {
	return (d + 3) % 4
}

// Arrow returns a glyph pointing in this direction.
func (d Dir) Arrow() rune {
	switch d {
	case North:
		return '▲'
	case East:
		return '▶'
	case South:
		return '▼'
	case West:
		return '◀'
	default:
		return '?'
	}
}

// ParseDir accepts compass letters (N/E/S/W), screen letters (U/R/D/L)
// and the full English words, case-insensitively.
func ParseDir(s string) (Dir, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "N", "U", "UP", "NORTH":
		return North, nil
	case "E", "R", "RIGHT", "EAST":
		return East, nil
	case "S", "D", "DOWN", "SOUTH":
		return South, nil
	case "W", "L", "LEFT", "WEST":
		return West, nil
	}
	return North, fmt.Errorf("core: unknown direction %q", s)
}

// MarshalText encodes the direction as its compass letter.
func (d Dir) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes anything ParseDir accepts.
func (d *Dir) UnmarshalText(b []byte) error {
	parsed, err := ParseDir(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
