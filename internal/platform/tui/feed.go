// Package tui provides the Bubble Tea watch view: it follows a playback
// driver and draws each published world state.
package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/codegrid/internal/playback"
)

// SnapshotMsg carries a published world state into the Bubble Tea loop.
type SnapshotMsg playback.Snapshot

// DoneMsg carries a run's terminal result.
type DoneMsg playback.Result

// Feed is a playback.Observer that forwards publications to a Bubble Tea
// program. Sends block until the program reads them or the feed is closed,
// so the driver never runs ahead of the screen.
type Feed struct {
	ch   chan tea.Msg
	quit chan struct{}
	once sync.Once
}

// NewFeed creates an open feed.
func NewFeed() *Feed {
	return &Feed{ch: make(chan tea.Msg, 16), quit: make(chan struct{})}
}

func (f *Feed) Snapshot(s playback.Snapshot) { f.send(SnapshotMsg(s)) }
func (f *Feed) Done(r playback.Result)       { f.send(DoneMsg(r)) }

func (f *Feed) send(msg tea.Msg) {
	select {
	case f.ch <- msg:
	case <-f.quit:
	}
}

// Close releases any blocked sender. It is safe to call more than once.
func (f *Feed) Close() {
	f.once.Do(func() { close(f.quit) })
}

// Wait returns a command that delivers the next publication. The model
// issues it again after handling each one.
func (f *Feed) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-f.ch:
			return msg
		case <-f.quit:
			return nil
		}
	}
}
