package replay

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/vovakirdan/codegrid/internal/core"
	"github.com/vovakirdan/codegrid/internal/engine"
	"github.com/vovakirdan/codegrid/internal/games/karelworld"
	"github.com/vovakirdan/codegrid/internal/games/pencil"
	"github.com/vovakirdan/codegrid/internal/levels"
	"github.com/vovakirdan/codegrid/internal/playback"
	"github.com/vovakirdan/codegrid/internal/program"
)

func ballLevel() *levels.Level {
	goal := core.C(2, 0)
	return &levels.Level{
		Game: levels.KarelWorld, ID: 4, Cols: 3, Rows: 2, Goal: &goal,
		Walls:         []levels.Wall{{At: core.C(0, 1)}},
		Balls:         []levels.Stack{{At: core.C(1, 0), Count: 2}},
		RequiredCarry: 1,
	}
}

func record(t *testing.T, dir string, clock playback.Clock, runs ...[]program.Instruction) (*Recorder, []playback.Result) {
	t.Helper()
	rec := NewRecorder(dir, nil)
	d := playback.New(playback.Options{Clock: clock})
	d.Subscribe(rec)

	rules := karelworld.Game{}.Rules(ballLevel())
	var results []playback.Result
	for _, steps := range runs {
		res, err := d.Run(context.Background(), rules, steps)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		results = append(results, res)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return rec, results
}

func TestRecordAndOpen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "replays")
	steps := []program.Instruction{
		program.I(program.MoveRight),
		program.I(program.Pick),
		program.I(program.MoveRight),
	}
	rec, results := record(t, dir, &playback.RecordingClock{}, steps)

	paths := rec.Paths()
	if len(paths) != 1 {
		t.Fatalf("Paths() = %v, expected one transcript", paths)
	}

	tr, err := Open(paths[0])
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if tr.Header.Game != levels.KarelWorld || tr.Header.Level != 4 || tr.Header.Total != 3 {
		t.Errorf("header = %+v", tr.Header)
	}
	if len(tr.Snapshots) != 4 {
		t.Errorf("snapshots = %d, expected start + 3", len(tr.Snapshots))
	}
	if tr.Status() != playback.Passed {
		t.Errorf("Status() = %s, expected passed", tr.Status())
	}

	final := tr.Final()
	if final == nil || final.World.Carry != 1 || final.World.BallsAt(core.C(1, 0)) != 1 {
		t.Errorf("final world = %+v", final)
	}
	if !final.World.IsWall(core.C(0, 1)) {
		t.Error("walls were not recorded")
	}
	if diff := cmp.Diff(results[0].World, tr.Result.World); diff != "" {
		t.Errorf("recorded result world differs (-run +replay):\n%s", diff)
	}
}

func TestStoppedRunHasNoResult(t *testing.T) {
	dir := t.TempDir()
	rec := NewRecorder(dir, nil)

	var d *playback.Driver
	clock := &playback.RecordingClock{OnSleep: func(n int, _ time.Duration) {
		if n == 1 {
			d.Stop()
		}
	}}
	d = playback.New(playback.Options{Clock: clock})
	d.Subscribe(rec)

	rules := karelworld.Game{}.Rules(ballLevel())
	res, err := d.Run(context.Background(), rules, []program.Instruction{program.I(program.MoveRight), program.I(program.Pick)})
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != playback.Stopped {
		t.Fatalf("status = %s, expected stopped", res.Status)
	}
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}

	tr, err := Open(rec.Paths()[0])
	if err != nil {
		t.Fatal(err)
	}
	if tr.Result != nil || tr.Status() != playback.Stopped {
		t.Errorf("stopped transcript has result %+v", tr.Result)
	}
	if len(tr.Snapshots) != 2 {
		t.Errorf("snapshots = %d, expected start + 1", len(tr.Snapshots))
	}
}

func TestOneTranscriptPerRun(t *testing.T) {
	dir := t.TempDir()
	fail := []program.Instruction{program.I(program.Pick)}
	pass := []program.Instruction{program.I(program.MoveRight), program.I(program.Pick), program.I(program.MoveRight)}
	rec, _ := record(t, dir, &playback.RecordingClock{}, fail, pass)

	listed, err := List(dir)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("List() = %v, expected two transcripts", listed)
	}
	if diff := cmp.Diff(rec.Paths(), listed); diff != "" {
		t.Errorf("List() order differs from recording order (-recorded +listed):\n%s", diff)
	}

	first, err := Open(listed[0])
	if err != nil {
		t.Fatal(err)
	}
	if first.Status() != playback.Failed || first.Result.Failure.Kind != engine.NothingToPick {
		t.Errorf("first transcript = %s %+v", first.Status(), first.Result.Failure)
	}
}

func TestPencilEdgesSurvive(t *testing.T) {
	l := &levels.Level{
		Game: levels.Pencil, ID: 1, Cols: 5, Rows: 5, Start: core.C(1, 1),
		Target:    []program.Instruction{program.LineOf(core.East, 2)},
		Threshold: 1,
	}
	rec := NewRecorder(t.TempDir(), nil)
	d := playback.New(playback.Options{Clock: &playback.RecordingClock{}})
	d.Subscribe(rec)

	if _, err := d.Run(context.Background(), pencil.Game{}.Rules(l), l.Target); err != nil {
		t.Fatal(err)
	}
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}

	tr, err := Open(rec.Paths()[0])
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(pencil.Target(l), tr.Final().World.Edges); diff != "" {
		t.Errorf("edges differ (-target +replay):\n%s", diff)
	}
	if tr.Result.Goal.Percent != 100 {
		t.Errorf("percent = %d, expected 100", tr.Result.Goal.Percent)
	}
}

func TestReadRejectsBadInput(t *testing.T) {
	if _, err := Read(bytes.NewReader([]byte("not zstd at all"))); err == nil {
		t.Error("Read() accepted garbage")
	}

	dir := t.TempDir()
	missing := filepath.Join(dir, "nope"+Extension)
	if _, err := Open(missing); err == nil {
		t.Error("Open() of a missing file should fail")
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	listed, err := List(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(listed) != 0 {
		t.Errorf("List() = %v, expected other files to be ignored", listed)
	}
}
