// Package levels loads, validates and serves puzzle level descriptors.
// Built-in packs are embedded; more can be loaded from a directory.
package levels

import (
	"github.com/vovakirdan/codegrid/internal/core"
	"github.com/vovakirdan/codegrid/internal/program"
)

// Game identifiers shared by level packs, the registry and storage.
const (
	Karel      = "karel"
	KarelWorld = "karelworld"
	Bricks     = "bricks"
	Tank       = "tank"
	Pencil     = "pencil"
)

// WallVariant is the decorative style of a wall. Simulation ignores it.
type WallVariant string

const (
	Stone   WallVariant = "stone"
	Wood    WallVariant = "wood"
	Ice     WallVariant = "ice"
	Circuit WallVariant = "circuit"
)

// Wall is a blocked cell.
type Wall struct {
	At      core.Coord
	Variant WallVariant
}

// Stack is a count of balls at a cell, used both for ground balls and for
// placement targets.
type Stack struct {
	At    core.Coord
	Count int
}

// Level is an immutable, validated puzzle descriptor. Only the fields
// relevant to its Game are set.
type Level struct {
	Game  string
	ID    int
	Title string

	Cols int
	Rows int

	Start core.Coord
	Dir   core.Dir
	Goal  *core.Coord

	Walls   []Wall
	Balls   []Stack
	Targets []Stack

	RequiredCarry int
	Allowed       program.KindSet

	Monsters []core.Coord

	MaxHeight int
	Heights   []int

	Target    []program.Instruction
	Threshold float64

	// Source is the pack file the level came from, or "builtin".
	Source string
}

// Size returns the grid extent.
func (l *Level) Size() core.Size {
	return core.Size{Cols: l.Cols, Rows: l.Rows}
}

// WallSet returns the walls as a lookup set.
func (l *Level) WallSet() map[core.Coord]bool {
	set := make(map[core.Coord]bool, len(l.Walls))
	for _, w := range l.Walls {
		set[w.At] = true
	}
	return set
}

// BallMap returns the ground balls as position -> count.
func (l *Level) BallMap() map[core.Coord]int {
	m := make(map[core.Coord]int, len(l.Balls))
	for _, b := range l.Balls {
		m[b.At] += b.Count
	}
	return m
}

// TotalBalls sums the ground balls.
func (l *Level) TotalBalls() int {
	n := 0
	for _, b := range l.Balls {
		n += b.Count
	}
	return n
}

// TargetHeight is the column height a bricks level must reach.
func (l *Level) TargetHeight() int {
	max := 0
	for _, h := range l.Heights {
		if h > max {
			max = h
		}
	}
	return max
}
