package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/vovakirdan/codegrid/internal/playback"
)

// Transcript is a decoded replay file.
type Transcript struct {
	Path      string
	Header    Header
	Snapshots []playback.Snapshot
	// Result is nil when the run was stopped or the recorder never finished.
	Result *playback.Result
}

// Status returns the recorded outcome, or Stopped when there is none.
func (t *Transcript) Status() playback.Status {
	if t.Result == nil {
		return playback.Stopped
	}
	return t.Result.Status
}

// Final returns the last recorded snapshot, or nil for an empty transcript.
func (t *Transcript) Final() *playback.Snapshot {
	if len(t.Snapshots) == 0 {
		return nil
	}
	return &t.Snapshots[len(t.Snapshots)-1]
}

// Open reads and decodes the transcript at path.
func Open(path string) (*Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: opening %s: %w", path, err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("replay: %s: %w", filepath.Base(path), err)
	}
	t.Path = path
	return t, nil
}

// Read decodes a zstd-compressed transcript stream.
func Read(r io.Reader) (*Transcript, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	t := &Transcript{}
	line := 0
	for sc.Scan() {
		line++
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		switch {
		case line == 1 && (e.Type != TypeHeader || e.Header == nil):
			return nil, fmt.Errorf("line 1: expected a header, got %q", e.Type)
		case e.Type == TypeHeader && line == 1:
			t.Header = *e.Header
		case e.Type == TypeSnapshot && e.Snapshot != nil:
			t.Snapshots = append(t.Snapshots, *e.Snapshot)
		case e.Type == TypeResult && e.Result != nil:
			t.Result = e.Result
		default:
			return nil, fmt.Errorf("line %d: unexpected %q entry", line, e.Type)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if line == 0 {
		return nil, fmt.Errorf("empty transcript")
	}
	return t, nil
}

// List returns the transcript files in dir sorted by name, which is also
// the order they were started in for a given game and level.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("replay: listing %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Extension) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}
