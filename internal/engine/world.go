// Package engine executes flat instruction streams against a puzzle world.
// It is deterministic and knows nothing about time: pacing and cancellation
// belong to the playback driver.
package engine

import (
	"fmt"
	"maps"
	"sort"

	"github.com/vovakirdan/codegrid/internal/core"
)

// Edge is an undirected unit segment between two lattice points.
// A and B are normalized so that the same segment always compares equal.
type Edge struct {
	A core.Coord `json:"a"`
	B core.Coord `json:"b"`
}

// NewEdge builds a normalized edge.
func NewEdge(p, q core.Coord) Edge {
	if q.X < p.X || (q.X == p.X && q.Y < p.Y) {
		p, q = q, p
	}
	return Edge{A: p, B: q}
}

// String returns "x1,y1-x2,y2".
func (e Edge) String() string {
	return fmt.Sprintf("%d,%d-%d,%d", e.A.X, e.A.Y, e.B.X, e.B.Y)
}

// EdgeSet is a set of drawn segments.
type EdgeSet map[Edge]bool

// Sorted returns the edges in a stable order.
func (s EdgeSet) Sorted() []Edge {
	out := make([]Edge, 0, len(s))
	for e, ok := range s {
		if ok {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.A != b.A {
			if a.A.Y != b.A.Y {
				return a.A.Y < b.A.Y
			}
			return a.A.X < b.A.X
		}
		if a.B.Y != b.B.Y {
			return a.B.Y < b.B.Y
		}
		return a.B.X < b.B.X
	})
	return out
}

// World is the complete mutable state of one run. Only the fields a game
// uses are populated; the rest stay zero. Its JSON form is in world_json.go.
type World struct {
	Size core.Size

	// Agent: robot, tank, bricks cursor (X only) or pencil tip.
	Pos   core.Coord
	Dir   core.Dir
	Carry int

	// Walls is level data shared between clones and never mutated.
	Walls map[core.Coord]bool

	Balls    map[core.Coord]int
	Monsters []core.Coord

	Heights   []int
	MaxHeight int

	Edges EdgeSet

	// Transient markers for sub-step frames.
	Bullet  *core.Coord
	Falling *core.Coord
}

// Clone returns a deep copy. Walls are shared.
func (w *World) Clone() *World {
	c := *w
	c.Balls = maps.Clone(w.Balls)
	c.Edges = maps.Clone(w.Edges)
	if w.Monsters != nil {
		c.Monsters = append([]core.Coord(nil), w.Monsters...)
	}
	if w.Heights != nil {
		c.Heights = append([]int(nil), w.Heights...)
	}
	if w.Bullet != nil {
		b := *w.Bullet
		c.Bullet = &b
	}
	if w.Falling != nil {
		f := *w.Falling
		c.Falling = &f
	}
	return &c
}

// BallsAt returns the ground count at c.
func (w *World) BallsAt(c core.Coord) int {
	return w.Balls[c]
}

// TotalBalls counts ground balls plus carried ones.
func (w *World) TotalBalls() int {
	n := w.Carry
	for _, v := range w.Balls {
		n += v
	}
	return n
}

// MonsterAt returns the index of the monster at c, or -1.
func (w *World) MonsterAt(c core.Coord) int {
	for i, m := range w.Monsters {
		if m == c {
			return i
		}
	}
	return -1
}

// IsWall reports whether c holds a wall.
func (w *World) IsWall(c core.Coord) bool {
	return w.Walls[c]
}

// Stack is a ball count at a position, used for serialization.
type Stack struct {
	At    core.Coord `json:"at"`
	Count int        `json:"count"`
}

// BallStacks returns the ground balls in row-major order.
func (w *World) BallStacks() []Stack {
	out := make([]Stack, 0, len(w.Balls))
	for c, n := range w.Balls {
		if n > 0 {
			out = append(out, Stack{At: c, Count: n})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].At.Y != out[j].At.Y {
			return out[i].At.Y < out[j].At.Y
		}
		return out[i].At.X < out[j].At.X
	})
	return out
}
