package engine

import (
	"github.com/vovakirdan/codegrid/internal/core"
	"github.com/vovakirdan/codegrid/internal/program"
)

// Phase names a visible moment of an instruction. The playback driver maps
// each phase to a delay.
type Phase string

const (
	PhaseStep   Phase = "step"
	PhaseMove   Phase = "move"
	PhaseTurn   Phase = "turn"
	PhaseBullet Phase = "bullet"
	PhaseHit    Phase = "hit"
	PhaseFall   Phase = "fall"
	PhaseSettle Phase = "settle"
	PhaseLine   Phase = "line"
)

// Frame is an intermediate snapshot produced while an instruction resolves.
type Frame struct {
	Phase Phase
	World *World
}

// Effect describes a successful instruction: the sub-step frames shown
// before the commit and the phase of the committed state.
type Effect struct {
	Frames []Frame
	Phase  Phase
}

// StepFunc applies one primitive to w in place. On failure the caller
// discards w, so a StepFunc may leave it half-modified.
type StepFunc func(w *World, in program.Instruction) (Effect, *Failure)

// MoveTo moves the agent one cell in a fixed direction.
func MoveTo(d core.Dir, msgs Messages, phase Phase) StepFunc {
	return func(w *World, _ program.Instruction) (Effect, *Failure) {
		if f := step(w, d, msgs); f != nil {
			return Effect{}, f
		}
		return Effect{Phase: phase}, nil
	}
}

// Forward moves the agent one cell in its facing direction.
func Forward(msgs Messages, phase Phase) StepFunc {
	return func(w *World, _ program.Instruction) (Effect, *Failure) {
		if f := step(w, w.Dir, msgs); f != nil {
			return Effect{}, f
		}
		return Effect{Phase: phase}, nil
	}
}

// step checks bounds, then walls, then monsters, and moves on success.
func step(w *World, d core.Dir, msgs Messages) *Failure {
	next := w.Pos.Step(d)
	switch {
	case !w.Size.Contains(next):
		return msgs.Fail(OutOfBounds)
	case w.IsWall(next):
		return msgs.Fail(WallCollision)
	case w.MonsterAt(next) >= 0:
		return msgs.Fail(EntityCollision)
	}
	w.Pos = next
	return nil
}

// Turn rotates the agent. It never fails.
func Turn(right bool, phase Phase) StepFunc {
	return func(w *World, _ program.Instruction) (Effect, *Failure) {
		if right {
			w.Dir = w.Dir.TurnRight()
		} else {
			w.Dir = w.Dir.TurnLeft()
		}
		return Effect{Phase: phase}, nil
	}
}

// Pick moves one ball from the current cell into the agent's hand.
func Pick(msgs Messages, phase Phase) StepFunc {
	return func(w *World, _ program.Instruction) (Effect, *Failure) {
		n := w.Balls[w.Pos]
		if n <= 0 {
			return Effect{}, msgs.Fail(NothingToPick)
		}
		if n == 1 {
			delete(w.Balls, w.Pos)
		} else {
			w.Balls[w.Pos] = n - 1
		}
		w.Carry++
		return Effect{Phase: phase}, nil
	}
}

// Put moves one carried ball onto the current cell.
func Put(msgs Messages, phase Phase) StepFunc {
	return func(w *World, _ program.Instruction) (Effect, *Failure) {
		if w.Carry <= 0 {
			return Effect{}, msgs.Fail(NothingToPut)
		}
		if w.Balls == nil {
			w.Balls = make(map[core.Coord]int)
		}
		w.Carry--
		w.Balls[w.Pos]++
		return Effect{Phase: phase}, nil
	}
}

// Shoot fires a bullet from the cell ahead of the agent. The bullet stops at
// the first wall, the first monster (removing it) or the grid edge. It never
// fails; shooting point-blank into a wall simply does nothing.
func Shoot() StepFunc {
	return func(w *World, _ program.Instruction) (Effect, *Failure) {
		var frames []Frame
		for b := w.Pos.Step(w.Dir); w.Size.Contains(b) && !w.IsWall(b); b = b.Step(w.Dir) {
			at := b
			w.Bullet = &at
			frames = append(frames, Frame{Phase: PhaseBullet, World: w.Clone()})

			if i := w.MonsterAt(b); i >= 0 {
				w.Monsters = append(w.Monsters[:i:i], w.Monsters[i+1:]...)
				w.Bullet = nil
				frames = append(frames, Frame{Phase: PhaseHit, World: w.Clone()})
				break
			}
		}
		w.Bullet = nil
		return Effect{Frames: frames, Phase: PhaseSettle}, nil
	}
}

// Cursor shifts the bricks cursor by dx, clamped to the columns. It never fails.
func Cursor(dx int, phase Phase) StepFunc {
	return func(w *World, _ program.Instruction) (Effect, *Failure) {
		w.Pos.X = core.Clamp(w.Pos.X+dx, 0, len(w.Heights)-1)
		return Effect{Phase: phase}, nil
	}
}

// Drop lets a brick fall into the cursor column.
func Drop(msgs Messages) StepFunc {
	return func(w *World, _ program.Instruction) (Effect, *Failure) {
		x := w.Pos.X
		if w.Heights[x] >= w.MaxHeight {
			return Effect{}, msgs.Fail(ColumnFull)
		}

		var frames []Frame
		land := w.MaxHeight - 1 - w.Heights[x]
		for y := 0; y <= land; y++ {
			at := core.C(x, y)
			w.Falling = &at
			frames = append(frames, Frame{Phase: PhaseFall, World: w.Clone()})
		}
		w.Falling = nil
		w.Heights[x]++
		return Effect{Frames: frames, Phase: PhaseSettle}, nil
	}
}

// DrawLine moves the pen in.Len points in in.Dir, recording every unit
// segment. Leaving the canvas fails the whole line.
func DrawLine(msgs Messages, phase Phase) StepFunc {
	return func(w *World, in program.Instruction) (Effect, *Failure) {
		if w.Edges == nil {
			w.Edges = make(EdgeSet)
		}
		cur := w.Pos
		for i := 0; i < in.Len; i++ {
			next := cur.Step(in.Dir)
			if !w.Size.Contains(next) {
				return Effect{}, msgs.Fail(OutOfCanvas)
			}
			w.Edges[NewEdge(cur, next)] = true
			cur = next
		}
		w.Pos = cur
		return Effect{Phase: phase}, nil
	}
}

// Trace returns the edges drawn by a sequence of lines from start,
// without any bounds checks. Used to build target shapes.
func Trace(start core.Coord, lines []program.Instruction) EdgeSet {
	edges := make(EdgeSet)
	cur := start
	for _, l := range lines {
		for i := 0; i < l.Len; i++ {
			next := cur.Step(l.Dir)
			edges[NewEdge(cur, next)] = true
			cur = next
		}
	}
	return edges
}
