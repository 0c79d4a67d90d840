package bricks

import (
	"errors"
	"testing"

	"github.com/vovakirdan/codegrid/internal/core"
	"github.com/vovakirdan/codegrid/internal/engine"
	"github.com/vovakirdan/codegrid/internal/levels"
	"github.com/vovakirdan/codegrid/internal/program"
)

func run(t *testing.T, l *levels.Level, body ...program.Instruction) engine.Report {
	t.Helper()
	rules := Game{}.Rules(l)
	c, err := program.Compile(program.Seq(body...), rules.Constraints(program.DefaultBudget))
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return engine.Run(rules, c.Steps)
}

func builtin(t *testing.T, id int) *levels.Level {
	t.Helper()
	c, err := levels.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	l, err := c.Get(levels.Bricks, id)
	if err != nil {
		t.Fatal(err)
	}
	return l
}

var (
	left  = program.I(program.MoveLeft)
	right = program.I(program.MoveRight)
	drop  = program.I(program.Drop)
)

func TestFillSingleHole(t *testing.T) {
	l := builtin(t, 1) // heights 5,5,5,4,5,5,5 with the cursor over column 3

	rep := run(t, l, drop)
	if !rep.Passed() {
		t.Fatalf("one drop should level the surface: %v %q", rep.Status, rep.Goal.Reason)
	}
	for i, h := range rep.World.Heights {
		if h != 5 {
			t.Errorf("column %d height = %d, expected 5", i, h)
		}
	}

	rep = run(t, l, right, drop)
	if rep.Passed() || rep.Goal.Reason != NotLevel {
		t.Errorf("dropping on the wrong column: passed=%v reason=%q", rep.Passed(), rep.Goal.Reason)
	}
}

func TestRepeatLast(t *testing.T) {
	l := builtin(t, 2) // heights 5,4,5,4,5,5,5, cursor at 3

	rep := run(t, l, drop, left, program.RepeatLastOf(2), drop)
	if rep.World.Pos.X != 0 {
		t.Errorf("cursor = %d, expected 0", rep.World.Pos.X)
	}
	if rep.Passed() {
		t.Error("dropping on column 0 should overfill it")
	}

	rep = run(t, l, drop, left, left, drop)
	if !rep.Passed() {
		t.Errorf("expected pass: %q", rep.Goal.Reason)
	}
}

func TestCursorClamps(t *testing.T) {
	l := &levels.Level{Game: levels.Bricks, ID: 1, Cols: 3, Rows: 4, MaxHeight: 4, Heights: []int{1, 1, 1}}

	rep := run(t, l, left, left, right, right, right, right, right)
	if rep.Status != engine.Completed {
		t.Fatalf("cursor moves never fail, got %v", rep.Failure)
	}
	if rep.World.Pos.X != 2 {
		t.Errorf("cursor = %d, expected 2", rep.World.Pos.X)
	}
}

func TestColumnFull(t *testing.T) {
	l := &levels.Level{Game: levels.Bricks, ID: 1, Cols: 2, Rows: 3, MaxHeight: 3, Heights: []int{2, 3}}

	rep := run(t, l, drop, drop)
	if rep.Status != engine.Failed || rep.Failure.Kind != engine.ColumnFull {
		t.Fatalf("expected COLUMN_FULL, got %v %v", rep.Status, rep.Failure)
	}
	if rep.Executed != 1 || rep.World.Heights[0] != 3 {
		t.Errorf("executed %d, heights %v", rep.Executed, rep.World.Heights)
	}
}

func TestDropFrames(t *testing.T) {
	l := &levels.Level{Game: levels.Bricks, ID: 1, Cols: 1, Rows: 5, MaxHeight: 5, Heights: []int{2}}
	rules := Game{}.Rules(l)
	m := engine.NewMachine(rules, []program.Instruction{drop})

	res := m.Step()
	if res.Failure != nil {
		t.Fatal(res.Failure)
	}
	// rows 0..2 are empty above a column of height 2 in a 5-high well
	if len(res.Effect.Frames) != 3 {
		t.Errorf("fall frames = %d, expected 3", len(res.Effect.Frames))
	}
	last := res.Effect.Frames[len(res.Effect.Frames)-1].World.Falling
	if last == nil || *last != core.C(0, 2) {
		t.Errorf("brick lands at %v, expected (0,2)", last)
	}
	if res.World.Falling != nil {
		t.Error("committed world still shows a falling brick")
	}
}

func TestRepeatNeedsAction(t *testing.T) {
	rules := Game{}.Rules(builtin(t, 1))
	_, err := program.Compile(program.Seq(program.RepeatLastOf(3), drop), rules.Constraints(program.DefaultBudget))
	var ce program.CompileError
	if !errors.As(err, &ce) || ce.Code != program.CodeNoPrecedingAction {
		t.Errorf("Compile() error = %v, expected %s", err, program.CodeNoPrecedingAction)
	}
}
