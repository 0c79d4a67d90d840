package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/codegrid/internal/core"
	"github.com/vovakirdan/codegrid/internal/games/tank"
	"github.com/vovakirdan/codegrid/internal/levels"
	"github.com/vovakirdan/codegrid/internal/playback"
	"github.com/vovakirdan/codegrid/internal/program"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsProgress(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	store, err := Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.RecordCompletion(ctx, "ada", levels.Karel, 1); err != nil {
		t.Fatal(err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	got, err := store.CompletedLevel(ctx, "ada", levels.Karel)
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Errorf("CompletedLevel() = %d, expected 1", got)
	}
}

func TestRecordCompletionIsIdempotent(t *testing.T) {
	store := openTest(t)
	ctx := context.Background()

	first, err := store.RecordCompletion(ctx, "ada", levels.Tank, 2)
	if err != nil {
		t.Fatalf("RecordCompletion() failed: %v", err)
	}
	again, err := store.RecordCompletion(ctx, "ada", levels.Tank, 2)
	if err != nil {
		t.Fatalf("RecordCompletion() failed: %v", err)
	}
	if !first || again {
		t.Errorf("RecordCompletion() = %v then %v, expected true then false", first, again)
	}

	done, err := store.Completions(ctx, "ada", levels.Tank)
	if err != nil {
		t.Fatal(err)
	}
	if len(done) != 1 {
		t.Errorf("Expected 1 completion, got %d", len(done))
	}
}

func TestUnlockedLevel(t *testing.T) {
	store := openTest(t)
	ctx := context.Background()

	for _, lvl := range []int{1, 2, 3} {
		if _, err := store.RecordCompletion(ctx, "ada", levels.Bricks, lvl); err != nil {
			t.Fatal(err)
		}
	}
	// Another student's progress must not leak.
	if _, err := store.RecordCompletion(ctx, "bob", levels.Bricks, 9); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		student string
		level   int
		want    bool
	}{
		{"ada", 1, true},
		{"ada", 4, true},
		{"ada", 5, false},
		{"carl", 1, true},
		{"carl", 2, false},
		{"bob", 10, true},
	}

	for _, tc := range tests {
		got, err := store.UnlockedLevel(ctx, tc.student, levels.Bricks, tc.level)
		if err != nil {
			t.Fatalf("UnlockedLevel() failed: %v", err)
		}
		if got != tc.want {
			t.Errorf("UnlockedLevel(%s, %d) = %v, expected %v", tc.student, tc.level, got, tc.want)
		}
	}
}

func TestRecentRuns(t *testing.T) {
	store := openTest(t)
	ctx := context.Background()

	runs := []RunRecord{
		{Student: "ada", Game: levels.Karel, Level: 1, Status: "failed", Reason: "Crashed into wall!", Executed: 2, Total: 5},
		{Student: "ada", Game: levels.Karel, Level: 1, Status: "passed", Executed: 5, Total: 5, Token: 7},
		{Student: "ada", Game: levels.Pencil, Level: 3, Status: "goal_failed", Reason: "Drawing is 50% similar, needs 100%."},
	}
	for _, r := range runs {
		if _, err := store.RecordRun(ctx, r); err != nil {
			t.Fatalf("RecordRun() failed: %v", err)
		}
	}

	all, err := store.RecentRuns(ctx, "ada", "", 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(all))
	}
	if all[0].Game != levels.Pencil || all[2].Reason != "Crashed into wall!" {
		t.Errorf("runs not newest first: %+v", all)
	}

	karel, err := store.RecentRuns(ctx, "ada", levels.Karel, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(karel) != 1 || karel[0].Status != "passed" || karel[0].Token != 7 {
		t.Errorf("RecentRuns(karel, 1) = %+v", karel)
	}
	if karel[0].CreatedAt.IsZero() {
		t.Error("CreatedAt was not parsed")
	}
}

func TestStatsAndClear(t *testing.T) {
	store := openTest(t)
	ctx := context.Background()

	store.RecordCompletion(ctx, "ada", levels.Karel, 1)
	store.RecordCompletion(ctx, "ada", levels.Karel, 2)
	store.RecordRun(ctx, RunRecord{Student: "ada", Game: levels.Karel, Level: 1, Status: "passed"})
	store.RecordRun(ctx, RunRecord{Student: "ada", Game: levels.Karel, Level: 2, Status: "failed"})
	store.RecordRun(ctx, RunRecord{Student: "ada", Game: levels.Tank, Level: 1, Status: "failed"})

	stats, err := store.Stats(ctx, "ada")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	k := stats[levels.Karel]
	if k == nil || k.Completed != 2 || k.Highest != 2 || k.Runs != 2 || k.Passed != 1 {
		t.Errorf("karel stats = %+v", k)
	}
	if tk := stats[levels.Tank]; tk == nil || tk.Completed != 0 || tk.Runs != 1 {
		t.Errorf("tank stats = %+v", tk)
	}

	if err := store.ClearProgress(ctx, "ada", levels.Karel); err != nil {
		t.Fatalf("ClearProgress() failed: %v", err)
	}
	if got, _ := store.CompletedLevel(ctx, "ada", levels.Karel); got != 0 {
		t.Errorf("CompletedLevel() after clear = %d, expected 0", got)
	}
	if runs, _ := store.RecentRuns(ctx, "ada", "", 10); len(runs) != 1 {
		t.Errorf("Expected the tank run to survive, got %d runs", len(runs))
	}

	if err := store.ClearProgress(ctx, "ada", ""); err != nil {
		t.Fatal(err)
	}
	if runs, _ := store.RecentRuns(ctx, "ada", "", 10); len(runs) != 0 {
		t.Errorf("Expected no runs after clearing everything, got %d", len(runs))
	}
}

func TestDriverRecordsProgressAndHistory(t *testing.T) {
	store := openTest(t)
	ctx := context.Background()

	d := playback.New(playback.Options{
		Clock: &playback.RecordingClock{},
		Sink:  Progress{Store: store, Student: "ada"},
	})
	d.Subscribe(NewHistory(store, "ada", nil))

	l := &levels.Level{Game: levels.Tank, ID: 3, Cols: 3, Rows: 1, Dir: core.East,
		Monsters: []core.Coord{core.C(2, 0)}}
	rules := tank.Game{}.Rules(l)

	miss := []program.Instruction{program.I(program.TurnLeft), program.I(program.Shoot)}
	if res, err := d.Run(ctx, rules, miss); err != nil || res.Status != playback.GoalFailed {
		t.Fatalf("missed shot = %v, %v", res.Status, err)
	}
	hit := []program.Instruction{program.I(program.Shoot)}
	if res, err := d.Run(ctx, rules, hit); err != nil || res.Status != playback.Passed {
		t.Fatalf("clear shot = %v, %v", res.Status, err)
	}

	done, err := store.CompletedLevel(ctx, "ada", levels.Tank)
	if err != nil {
		t.Fatal(err)
	}
	if done != 3 {
		t.Errorf("CompletedLevel() = %d, expected 3", done)
	}

	runs, err := store.RecentRuns(ctx, "ada", levels.Tank, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	if runs[0].Status != "passed" || runs[0].Reason != "" {
		t.Errorf("newest run = %+v", runs[0])
	}
	if runs[1].Status != "goal_failed" || runs[1].Reason != tank.MonstersLeft {
		t.Errorf("oldest run = %+v", runs[1])
	}
}

func TestHistoryRecordsStoppedRuns(t *testing.T) {
	store := openTest(t)
	history := NewHistory(store, "ada", nil)

	d := playback.New(playback.Options{
		Clock:     &playback.RecordingClock{},
		Sink:      Progress{Store: store, Student: "ada"},
		OnStopped: history.Stopped,
	})
	d.Subscribe(history)

	l := &levels.Level{Game: levels.Tank, ID: 1, Cols: 3, Rows: 1, Dir: core.East,
		Monsters: []core.Coord{core.C(2, 0)}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := d.Run(ctx, tank.Game{}.Rules(l), []program.Instruction{program.I(program.Shoot)})
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != playback.Stopped {
		t.Fatalf("status = %s, expected stopped", res.Status)
	}

	runs, err := store.RecentRuns(context.Background(), "ada", levels.Tank, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("Expected 1 run, got %d", len(runs))
	}
	if runs[0].Status != "stopped" || runs[0].Reason != "Run stopped." {
		t.Errorf("stopped run = %+v", runs[0])
	}
	if done, _ := store.CompletedLevel(context.Background(), "ada", levels.Tank); done != 0 {
		t.Errorf("CompletedLevel() = %d after a stopped run", done)
	}
}
