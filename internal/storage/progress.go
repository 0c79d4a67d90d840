package storage

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/codegrid/internal/playback"
)

// Progress records passed levels for one student. It implements
// playback.ProgressSink.
type Progress struct {
	Store   *Store
	Student string
}

// LevelCompleted marks the level solved.
func (p Progress) LevelCompleted(ctx context.Context, game string, level int) error {
	_, err := p.Store.RecordCompletion(ctx, p.Student, game, level)
	return err
}

var _ playback.ProgressSink = Progress{}

// History is a playback.Observer that stores every finished run. Stopped
// runs never reach observers; pass Stopped as the driver's OnStopped hook
// to store those too.
type History struct {
	store   *Store
	student string
	log     *log.Logger
}

// NewHistory creates a run history observer.
func NewHistory(store *Store, student string, logger *log.Logger) *History {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &History{store: store, student: student, log: logger}
}

func (h *History) Snapshot(playback.Snapshot) {}

func (h *History) Done(r playback.Result) { h.record(r) }

// Stopped stores a run that ended Stopped.
func (h *History) Stopped(r playback.Result) { h.record(r) }

func (h *History) record(r playback.Result) {
	if _, err := h.store.RecordRun(context.Background(), RunFromResult(h.student, r)); err != nil {
		h.log.Error("could not record run", "game", r.Game, "level", r.Level, "error", err)
	}
}

// RunFromResult converts a playback result into a history row.
func RunFromResult(student string, r playback.Result) RunRecord {
	rec := RunRecord{
		Student:  student,
		Game:     r.Game,
		Level:    r.Level,
		Status:   string(r.Status),
		Executed: r.Executed,
		Total:    r.Total,
		Token:    r.Token,
	}
	if r.Status != playback.Passed {
		rec.Reason = r.Message()
	}
	return rec
}
