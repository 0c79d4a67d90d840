package tank

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/vovakirdan/codegrid/internal/core"
	"github.com/vovakirdan/codegrid/internal/engine"
	"github.com/vovakirdan/codegrid/internal/levels"
	"github.com/vovakirdan/codegrid/internal/program"
)

func arena(t *testing.T, dir string, rows ...string) *levels.Level {
	t.Helper()
	var b strings.Builder
	fmt.Fprintf(&b, "game: tank\nlevels:\n  - id: 1\n    title: test\n    dir: %s\n    map:\n", dir)
	for _, r := range rows {
		fmt.Fprintf(&b, "      - %q\n", r)
	}
	p, err := levels.ParsePack([]byte(b.String()), "test")
	if err != nil {
		t.Fatalf("ParsePack() error = %v", err)
	}
	return p.Levels[0]
}

func run(t *testing.T, l *levels.Level, body ...program.Instruction) engine.Report {
	t.Helper()
	rules := Game{}.Rules(l)
	c, err := program.Compile(program.Seq(body...), rules.Constraints(program.DefaultBudget))
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return engine.Run(rules, c.Steps)
}

var (
	fwd   = program.I(program.Forward)
	left  = program.I(program.TurnLeft)
	right = program.I(program.TurnRight)
	shoot = program.I(program.Shoot)
)

func TestShootClearLine(t *testing.T) {
	l := arena(t, "E", "T..M")

	rep := run(t, l, shoot)
	if !rep.Passed() {
		t.Fatalf("expected pass, got %v %q", rep.Status, rep.Goal.Reason)
	}
	if len(rep.World.Monsters) != 0 {
		t.Errorf("monsters left: %v", rep.World.Monsters)
	}
}

func TestShootBlockedByWall(t *testing.T) {
	l := arena(t, "E", "T.#M")

	rep := run(t, l, shoot)
	if rep.Status != engine.Completed {
		t.Fatalf("shooting never fails, got %v", rep.Failure)
	}
	if rep.Passed() || rep.Goal.Reason != MonstersLeft {
		t.Errorf("passed=%v reason=%q", rep.Passed(), rep.Goal.Reason)
	}
	if len(rep.World.Monsters) != 1 {
		t.Errorf("wall should stop the bullet, monsters = %v", rep.World.Monsters)
	}
}

func TestShootRemovesOnlyFirst(t *testing.T) {
	l := arena(t, "E", "T.MM")

	rep := run(t, l, shoot)
	if len(rep.World.Monsters) != 1 || rep.World.Monsters[0] != core.C(3, 0) {
		t.Errorf("monsters = %v, expected only (3,0)", rep.World.Monsters)
	}

	rep = run(t, l, shoot, shoot)
	if !rep.Passed() {
		t.Errorf("two shots should clear the row: %q", rep.Goal.Reason)
	}
}

func TestShootIntoEdge(t *testing.T) {
	l := arena(t, "W", "T..M")
	rep := run(t, l, shoot)
	if rep.Status != engine.Completed || len(rep.World.Monsters) != 1 {
		t.Errorf("shot into the edge changed the world: %v %v", rep.Status, rep.World.Monsters)
	}
}

func TestDriveAndTurn(t *testing.T) {
	l := arena(t, "N",
		"...M",
		"....",
		"T...",
	)

	rep := run(t, l, fwd, fwd, right, shoot)
	if !rep.Passed() {
		t.Fatalf("expected pass: %v %v %q", rep.Status, rep.Failure, rep.Goal.Reason)
	}
	if rep.World.Dir != core.East || rep.World.Pos != core.C(0, 0) {
		t.Errorf("tank at %v facing %v", rep.World.Pos, rep.World.Dir)
	}

	rep = run(t, l, left, fwd)
	if rep.Failure == nil || rep.Failure.Kind != engine.OutOfBounds {
		t.Errorf("driving west off the map: %v", rep.Failure)
	}
}

func TestCollisions(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		kind engine.FailureKind
		msg  string
	}{
		{"wall", []string{"T#M"}, engine.WallCollision, "The tank hit a wall."},
		{"monster", []string{"TM."}, engine.EntityCollision, "The tank ran into a monster."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rep := run(t, arena(t, "E", tc.rows...), fwd)
			if rep.Status != engine.Failed {
				t.Fatalf("status = %v, expected failed", rep.Status)
			}
			if rep.Failure.Kind != tc.kind || rep.Failure.Message != tc.msg {
				t.Errorf("failure = %v", rep.Failure)
			}
			if rep.World.Pos != core.C(0, 0) {
				t.Errorf("tank moved to %v", rep.World.Pos)
			}
		})
	}
}

func TestNoRepeat(t *testing.T) {
	rules := Game{}.Rules(arena(t, "E", "T.M"))
	_, err := program.Compile(program.Seq(fwd, program.RepeatLastOf(2)), rules.Constraints(program.DefaultBudget))
	var ce program.CompileError
	if !errors.As(err, &ce) || ce.Code != program.CodeUnknown {
		t.Errorf("Compile() error = %v, expected %s", err, program.CodeUnknown)
	}
}

func TestBuiltinLevelOne(t *testing.T) {
	c, err := levels.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	l, err := c.Get(levels.Tank, 1)
	if err != nil {
		t.Fatal(err)
	}
	// monster three cells east of the tank
	if rep := run(t, l, shoot); !rep.Passed() {
		t.Errorf("level 1 not solved: %q", rep.Goal.Reason)
	}
}
