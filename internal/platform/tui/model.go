package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/codegrid/internal/engine"
	"github.com/vovakirdan/codegrid/internal/levels"
	"github.com/vovakirdan/codegrid/internal/playback"
	"github.com/vovakirdan/codegrid/internal/program"
	"github.com/vovakirdan/codegrid/internal/registry"
)

// WatchOptions wires a watch view to an already configured driver. The
// feed must be subscribed to the driver.
type WatchOptions struct {
	Game   registry.Game
	Level  *levels.Level
	Steps  []program.Instruction
	Source string

	Driver *playback.Driver
	Feed   *Feed
	Pacer  *playback.Pacer

	// AutoRun starts the program as soon as the view opens.
	AutoRun bool
	Width   int
}

// runMsg asks the model to start a run.
type runMsg struct{}

// WatchModel is the Bubble Tea model that animates one program on one level.
type WatchModel struct {
	opts  WatchOptions
	rules *engine.Rules
	keys  WatchKeyMap
	help  help.Model

	world  *engine.World
	index  int
	instr  *program.Instruction
	phase  engine.Phase
	result *playback.Result
	notice string

	width    int
	quitting bool
}

// NewWatchModel creates the model and its start world.
func NewWatchModel(opts WatchOptions) WatchModel {
	rules := opts.Game.Rules(opts.Level)
	h := help.New()
	h.Width = opts.Width

	return WatchModel{
		opts:  opts,
		rules: rules,
		keys:  DefaultWatchKeyMap(),
		help:  h,
		world: rules.Start(),
		index: -1,
		width: opts.Width,
	}
}

// Init starts listening to the driver.
func (m WatchModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.opts.Feed.Wait()}
	if m.opts.AutoRun {
		cmds = append(cmds, func() tea.Msg { return runMsg{} })
	}
	return tea.Batch(cmds...)
}

// Update handles keys and driver publications.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case runMsg:
		return m.start(), nil

	case SnapshotMsg:
		if msg.Token == m.opts.Driver.Token() {
			m.world = msg.World
			m.index = msg.Index
			m.instr = msg.Instruction
			m.phase = msg.Phase
		}
		return m, m.opts.Feed.Wait()

	case DoneMsg:
		if msg.Token == m.opts.Driver.Token() {
			r := playback.Result(msg)
			m.result = &r
			m.world = r.World
			m.notice = ""
		}
		return m, m.opts.Feed.Wait()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

func (m WatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.opts.Driver.Stop()
		m.opts.Feed.Close()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Run):
		return m.start(), nil

	case key.Matches(msg, m.keys.Stop):
		if m.opts.Driver.Running() {
			m.opts.Driver.Stop()
			m.notice = "Run stopped."
		}
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		m.world = m.opts.Driver.Reset(m.rules)
		m.index = -1
		m.instr = nil
		m.phase = ""
		m.result = nil
		m.notice = "Level reset."
		return m, nil

	case key.Matches(msg, m.keys.Speed):
		if m.opts.Pacer != nil {
			m.notice = "Speed " + m.opts.Pacer.Toggle().Label()
		}
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	return m, nil
}

// start begins a run from the level's start state.
func (m WatchModel) start() WatchModel {
	_, _, err := m.opts.Driver.Start(context.Background(), m.rules, m.opts.Steps)
	switch {
	case errors.Is(err, playback.ErrBusy):
		m.notice = "Already running."
	case err != nil:
		m.notice = err.Error()
	default:
		m.result = nil
		m.notice = ""
	}
	return m
}

// View renders the title, the board, the status lines and the help bar.
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := fmt.Sprintf("%s · Level %d", m.opts.Game.Title(), m.opts.Level.ID)
	if m.opts.Level.Title != "" {
		title += ": " + m.opts.Level.Title
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	board := RenderBoard(DrawBoard(m.opts.Game.ID(), m.opts.Level, m.world))
	if m.width > 0 {
		board = lipgloss.PlaceHorizontal(m.width, lipgloss.Left, board)
	}
	b.WriteString(board)
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(m.statusLine()))
	b.WriteString("\n")

	if line := m.resultLine(); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m WatchModel) statusLine() string {
	parts := []string{fmt.Sprintf("step %d/%d", m.index+1, len(m.opts.Steps))}
	if m.instr != nil {
		parts = append(parts, m.instr.String())
	}
	if m.world != nil && m.world.Carry > 0 {
		parts = append(parts, fmt.Sprintf("carrying %d", m.world.Carry))
	}
	if m.opts.Pacer != nil {
		parts = append(parts, "speed "+m.opts.Pacer.Speed().Label())
	}
	if m.opts.Source != "" {
		parts = append(parts, m.opts.Source)
	}
	return strings.Join(parts, "  ")
}

func (m WatchModel) resultLine() string {
	if m.result == nil {
		if m.notice != "" {
			return infoStyle.Render(m.notice)
		}
		return ""
	}
	msg := m.result.Message()
	if m.result.Goal.Percent > 0 && m.result.Status == playback.Passed {
		msg = fmt.Sprintf("%s (%d%% similar)", msg, m.result.Goal.Percent)
	}
	if m.result.Status == playback.Passed {
		return passStyle.Render("✓ " + msg)
	}
	return failStyle.Render("✗ " + msg)
}

// Result returns the last terminal result the view received, if any.
func (m WatchModel) Result() *playback.Result {
	return m.result
}

// Run starts the Bubble Tea program and returns the final model's result.
// It returns once any run it started has ended.
func Run(opts WatchOptions) (*playback.Result, error) {
	p := tea.NewProgram(NewWatchModel(opts), tea.WithAltScreen())

	final, err := p.Run()
	opts.Driver.Stop()
	opts.Feed.Close()
	// A run stopped by quitting still reports to the driver's OnStopped hook.
	opts.Driver.Wait()
	if err != nil {
		return nil, err
	}
	if wm, ok := final.(WatchModel); ok {
		return wm.Result(), nil
	}
	return nil, nil
}
