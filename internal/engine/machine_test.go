package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vovakirdan/codegrid/internal/core"
	"github.com/vovakirdan/codegrid/internal/program"
)

// robotRules is a small four-direction robot on a 4x3 grid with one wall.
func robotRules() *Rules {
	return &Rules{
		Game:  "test",
		Level: 1,
		Start: func() *World {
			return &World{
				Size:  core.Size{Cols: 4, Rows: 3},
				Pos:   core.C(0, 0),
				Walls: map[core.Coord]bool{core.C(1, 1): true},
				Balls: map[core.Coord]int{core.C(1, 0): 1},
			}
		},
		Steps: map[program.Kind]StepFunc{
			program.MoveUp:    MoveTo(core.North, DefaultMessages, PhaseStep),
			program.MoveRight: MoveTo(core.East, DefaultMessages, PhaseStep),
			program.MoveDown:  MoveTo(core.South, DefaultMessages, PhaseStep),
			program.MoveLeft:  MoveTo(core.West, DefaultMessages, PhaseStep),
			program.Pick:      Pick(DefaultMessages, PhaseStep),
			program.Put:       Put(DefaultMessages, PhaseStep),
		},
		Repeats: []program.Kind{program.Repeat},
		Goal: CarryGoal{
			Goal:     core.C(3, 0),
			Required: 1,
			Text: CarryGoalText{
				NotAtGoal: "not at goal",
				Carry:     "carry %d/%d",
				Target:    "target %d,%d",
			},
		}.Func(),
	}
}

func steps(kinds ...program.Kind) []program.Instruction {
	out := make([]program.Instruction, len(kinds))
	for i, k := range kinds {
		out[i] = program.I(k)
	}
	return out
}

func TestMachineCompletesAndPasses(t *testing.T) {
	rep := Run(robotRules(), steps(program.MoveRight, program.Pick, program.MoveRight, program.MoveRight))

	if rep.Status != Completed {
		t.Fatalf("status = %v, expected completed (failure %v)", rep.Status, rep.Failure)
	}
	if !rep.Passed() {
		t.Errorf("goal failed: %s", rep.Goal.Reason)
	}
	if rep.Executed != 4 {
		t.Errorf("executed = %d, expected 4", rep.Executed)
	}
}

func TestMachineGoalReasons(t *testing.T) {
	tests := []struct {
		name   string
		steps  []program.Instruction
		reason string
	}{
		{"stops short", steps(program.MoveRight, program.Pick), "not at goal"},
		{"skips the ball", steps(program.MoveRight, program.MoveRight, program.MoveRight), "carry 0/1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rep := Run(robotRules(), tc.steps)
			if rep.Status != Completed {
				t.Fatalf("status = %v, expected completed", rep.Status)
			}
			if rep.Goal.Passed {
				t.Fatal("goal should fail")
			}
			if rep.Goal.Reason != tc.reason {
				t.Errorf("reason = %q, expected %q", rep.Goal.Reason, tc.reason)
			}
		})
	}
}

func TestMachineFailureIsAtomic(t *testing.T) {
	r := robotRules()
	m := NewMachine(r, steps(program.MoveRight, program.MoveDown, program.MoveRight))

	first := m.Step()
	if first.Failure != nil {
		t.Fatalf("first step failed: %v", first.Failure)
	}
	before := m.World().Clone()

	res := m.Step()
	if res.Failure == nil || res.Failure.Kind != WallCollision {
		t.Fatalf("second step = %v, expected wall collision", res.Failure)
	}
	if res.Status != Failed || m.Status() != Failed {
		t.Errorf("status = %v, expected failed", m.Status())
	}
	if diff := cmp.Diff(before, m.World()); diff != "" {
		t.Errorf("failed step changed the world (-before +after):\n%s", diff)
	}
	if m.Executed() != 1 {
		t.Errorf("executed = %d, expected 1", m.Executed())
	}

	// Halted machines ignore further steps.
	again := m.Step()
	if again.Status != Failed || m.Executed() != 1 {
		t.Error("step after failure should be a no-op")
	}
}

func TestMachineEmptyProgramIsCompleted(t *testing.T) {
	rep := Run(robotRules(), nil)
	if rep.Status != Completed {
		t.Fatalf("status = %v, expected completed", rep.Status)
	}
	if rep.Goal.Passed {
		t.Error("empty program should not reach the goal")
	}
}

func TestMachineFreshWorldPerRun(t *testing.T) {
	r := robotRules()
	prog := steps(program.MoveRight, program.Pick)

	first := Run(r, prog)
	second := Run(r, prog)
	if diff := cmp.Diff(first.World, second.World); diff != "" {
		t.Errorf("runs differ (-first +second):\n%s", diff)
	}

	// The committed world of a run must not leak into the next start.
	if got := r.Start().BallsAt(core.C(1, 0)); got != 1 {
		t.Errorf("start world has %d balls, expected 1", got)
	}
}

func TestRulesKnownIncludesRepeats(t *testing.T) {
	r := robotRules()
	known := r.Known()
	for _, k := range []program.Kind{program.MoveUp, program.Pick, program.Repeat} {
		if !known.Has(k) {
			t.Errorf("Known() missing %s", k)
		}
	}
	if known.Has(program.RepeatLast) || known.Has(program.Shoot) {
		t.Error("Known() has kinds the game does not offer")
	}
}

func TestMachinePanicsOnUncompiledKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for a kind without a step")
		}
	}()
	m := NewMachine(robotRules(), steps(program.Shoot))
	m.Step()
}
