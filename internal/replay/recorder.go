// Package replay records playback runs as zstd-compressed JSON lines and
// reads them back.
//
// A transcript holds one header line, one line per published snapshot and,
// for runs that were not stopped, a final result line.
package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zstd"

	"github.com/vovakirdan/codegrid/internal/playback"
)

// Extension is the suffix of every transcript file.
const Extension = ".jsonl.zst"

// EntryType tags a transcript line.
type EntryType string

const (
	TypeHeader   EntryType = "header"
	TypeSnapshot EntryType = "snapshot"
	TypeResult   EntryType = "result"
)

// Header opens a transcript.
type Header struct {
	Game    string    `json:"game"`
	Level   int       `json:"level"`
	Token   uint64    `json:"token"`
	Total   int       `json:"total"`
	Started time.Time `json:"started"`
}

// Entry is one transcript line. Exactly one of the payloads is set.
type Entry struct {
	Type     EntryType          `json:"type"`
	Header   *Header            `json:"header,omitempty"`
	Snapshot *playback.Snapshot `json:"snapshot,omitempty"`
	Result   *playback.Result   `json:"result,omitempty"`
}

// Recorder is a playback.Observer that writes one transcript per run into
// a directory. Write errors cannot be returned through the observer
// interface; the first one is kept and reported by Close.
type Recorder struct {
	dir string
	log *log.Logger
	now func() time.Time

	mu    sync.Mutex
	token uint64
	path  string
	f     *os.File
	enc   *zstd.Encoder
	w     *bufio.Writer
	paths []string
	err   error
}

// NewRecorder creates a recorder writing into dir. The directory is created
// on the first run.
func NewRecorder(dir string, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Recorder{dir: dir, log: logger, now: time.Now}
}

// Snapshot appends s to the transcript of its run, starting a new
// transcript when the run token changes.
func (r *Recorder) Snapshot(s playback.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.w == nil || s.Token != r.token {
		if err := r.closeLocked(); err != nil {
			r.fail(err)
		}
		if err := r.openLocked(s); err != nil {
			r.fail(err)
			return
		}
	}
	r.writeLocked(Entry{Type: TypeSnapshot, Snapshot: &s})
}

// Done writes the result line and closes the transcript.
func (r *Recorder) Done(res playback.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.w == nil || res.Token != r.token {
		return
	}
	r.writeLocked(Entry{Type: TypeResult, Result: &res})
	if err := r.closeLocked(); err != nil {
		r.fail(err)
	}
}

// Close finishes any open transcript and returns the first write error.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.closeLocked(); err != nil {
		r.fail(err)
	}
	return r.err
}

// Paths lists the transcripts written so far, oldest first.
func (r *Recorder) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func (r *Recorder) fail(err error) {
	if r.err == nil {
		r.err = err
	}
	r.log.Error("replay write failed", "path", r.path, "error", err)
}

func (r *Recorder) openLocked(s playback.Snapshot) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("replay: creating directory: %w", err)
	}

	started := r.now()
	name := fmt.Sprintf("%s-%03d-%s-%d%s", s.Game, s.Level, started.UTC().Format("20060102-150405.000"), s.Token, Extension)
	path := filepath.Join(r.dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("replay: creating transcript: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("replay: creating encoder: %w", err)
	}

	r.f = f
	r.enc = enc
	r.w = bufio.NewWriterSize(enc, 64*1024)
	r.token = s.Token
	r.path = path
	r.paths = append(r.paths, path)
	r.log.Debug("replay started", "path", path)

	r.writeLocked(Entry{Type: TypeHeader, Header: &Header{
		Game:    s.Game,
		Level:   s.Level,
		Token:   s.Token,
		Total:   s.Total,
		Started: started,
	}})
	return nil
}

func (r *Recorder) writeLocked(e Entry) {
	if r.w == nil {
		return
	}
	b, err := json.Marshal(e)
	if err != nil {
		r.fail(fmt.Errorf("replay: encoding %s: %w", e.Type, err))
		return
	}
	if _, err := r.w.Write(b); err != nil {
		r.fail(err)
		return
	}
	if err := r.w.WriteByte('\n'); err != nil {
		r.fail(err)
	}
}

func (r *Recorder) closeLocked() error {
	if r.w == nil {
		return nil
	}
	var firstErr error
	if err := r.w.Flush(); err != nil {
		firstErr = err
	}
	if err := r.enc.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := r.f.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	r.w, r.enc, r.f = nil, nil, nil
	if firstErr != nil {
		return fmt.Errorf("replay: closing %s: %w", r.path, firstErr)
	}
	return nil
}
