// Package playback turns a compiled instruction stream into a paced,
// cancellable sequence of published world states.
//
// Every run holds a token. Stop, Reset and a newer Start advance the
// driver's current token; a run whose token is no longer current stops at
// its next check and publishes nothing more. Tokens are checked before each
// instruction and before each publication.
package playback

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/codegrid/internal/engine"
	"github.com/vovakirdan/codegrid/internal/program"
)

// ErrBusy is returned by Start while the current run is still going.
var ErrBusy = errors.New("playback: a run is already in progress")

// DelayFunc returns the pause after a phase of a game.
type DelayFunc func(game string, phase engine.Phase) time.Duration

// ProgressSink is told about every passed level.
type ProgressSink interface {
	LevelCompleted(ctx context.Context, game string, level int) error
}

// Options configures a Driver. Zero fields get defaults: RealClock, no
// delay, a discarding logger.
type Options struct {
	Clock  Clock
	Delay  DelayFunc
	Logger *log.Logger
	Sink   ProgressSink
	// OnStopped receives runs that end Stopped. Observers never see those.
	OnStopped func(Result)
}

// Driver runs one program at a time.
type Driver struct {
	clock     Clock
	delay     DelayFunc
	log       *log.Logger
	sink      ProgressSink
	onStopped func(Result)
	wg        sync.WaitGroup

	mu        sync.Mutex
	token     uint64
	active    uint64
	running   bool
	committed uint64
	cancel    context.CancelFunc
	observers []Observer
}

// New creates a driver.
func New(opts Options) *Driver {
	d := &Driver{
		clock: opts.Clock,
		delay: opts.Delay,
		log:   opts.Logger,
		sink:  opts.Sink,

		onStopped: opts.OnStopped,
	}
	if d.clock == nil {
		d.clock = RealClock{}
	}
	if d.delay == nil {
		d.delay = func(string, engine.Phase) time.Duration { return 0 }
	}
	if d.log == nil {
		d.log = log.New(io.Discard)
	}
	return d
}

// Subscribe adds an observer for all future publications.
func (d *Driver) Subscribe(o Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, o)
}

// Token returns the current run token.
func (d *Driver) Token() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.token
}

// Running reports whether the current token's run is in progress.
func (d *Driver) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running && d.active == d.token
}

// Run executes steps synchronously and returns the outcome. It returns
// ErrBusy if another run is in progress.
func (d *Driver) Run(ctx context.Context, rules *engine.Rules, steps []program.Instruction) (Result, error) {
	tok, runCtx, err := d.acquire(ctx)
	if err != nil {
		return Result{}, err
	}
	return d.loop(runCtx, tok, rules, steps), nil
}

// Start executes steps in a new goroutine. The returned channel receives
// the result, including a Stopped one, and is then closed.
func (d *Driver) Start(ctx context.Context, rules *engine.Rules, steps []program.Instruction) (uint64, <-chan Result, error) {
	tok, runCtx, err := d.acquire(ctx)
	if err != nil {
		return 0, nil, err
	}
	out := make(chan Result, 1)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer close(out)
		out <- d.loop(runCtx, tok, rules, steps)
	}()
	return tok, out, nil
}

// Wait blocks until every run begun with Start has returned.
func (d *Driver) Wait() {
	d.wg.Wait()
}

// Stop cancels the current run without judging it. It is a no-op when
// nothing is running.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running || d.active != d.token || d.committed == d.active {
		return
	}
	d.invalidate()
	d.log.Info("run stopped", "token", d.active)
}

// Reset cancels any run and returns a fresh start world for rules.
// Calling it repeatedly yields equal worlds.
func (d *Driver) Reset(rules *engine.Rules) *engine.World {
	d.mu.Lock()
	d.invalidate()
	d.mu.Unlock()
	return rules.Start()
}

// invalidate advances the token and cancels the in-flight sleep. d.mu must be held.
func (d *Driver) invalidate() {
	d.token++
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func (d *Driver) acquire(ctx context.Context) (uint64, context.Context, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running && d.active == d.token {
		return 0, nil, ErrBusy
	}
	d.invalidate()
	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.active = d.token
	d.running = true
	return d.token, runCtx, nil
}

func (d *Driver) release(tok uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active == tok {
		d.running = false
		if d.token == tok && d.cancel != nil {
			d.cancel()
			d.cancel = nil
		}
	}
}

func (d *Driver) live(tok uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.token == tok
}

func (d *Driver) subscribers() []Observer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Observer(nil), d.observers...)
}

// publish delivers s while tok is current and reports whether every
// observer got it. The token is checked before each observer, so a Stop
// made by one observer keeps the snapshot from the rest.
func (d *Driver) publish(tok uint64, s Snapshot) bool {
	for _, o := range d.subscribers() {
		if !d.live(tok) {
			return false
		}
		o.Snapshot(s)
	}
	return d.live(tok)
}

// commit marks tok's result final if tok is still current. Stop is a no-op
// for a committed run, so the sink and Done are never split from it.
func (d *Driver) commit(tok uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.token != tok {
		return false
	}
	d.committed = tok
	return true
}

func (d *Driver) loop(ctx context.Context, tok uint64, rules *engine.Rules, steps []program.Instruction) Result {
	defer d.release(tok)

	logger := d.log.With("game", rules.Game, "level", rules.Level, "token", tok)
	logger.Info("run started", "steps", len(steps))

	m := engine.NewMachine(rules, steps)
	base := Snapshot{Token: tok, Game: rules.Game, Level: rules.Level, Total: len(steps)}
	stopped := func() Result {
		logger.Debug("run cancelled", "executed", m.Executed())
		r := Result{
			Token: tok, Game: rules.Game, Level: rules.Level, Status: Stopped,
			Executed: m.Executed(), Total: len(steps), World: m.World(),
		}
		if d.onStopped != nil {
			d.onStopped(r)
		}
		return r
	}

	start := base
	start.Index = -1
	start.Phase = engine.PhaseStep
	start.Committed = true
	start.World = m.World()
	if !d.publish(tok, start) {
		return stopped()
	}

	for m.Status() == engine.Running {
		if !d.live(tok) || ctx.Err() != nil {
			return stopped()
		}

		res := m.Step()
		in := res.Instruction
		snap := base
		snap.Index = res.Index
		snap.Instruction = &in

		if res.Failure != nil {
			logger.Info("run failed", "step", res.Index, "kind", res.Failure.Kind)
			snap.Phase = engine.PhaseStep
			snap.Committed = true
			snap.World = res.World
			if !d.publish(tok, snap) {
				return stopped()
			}
			break
		}

		for _, f := range res.Effect.Frames {
			fs := snap
			fs.Phase = f.Phase
			fs.World = f.World
			if !d.publish(tok, fs) {
				return stopped()
			}
			if d.clock.Sleep(ctx, d.delay(rules.Game, f.Phase)) != nil {
				return stopped()
			}
		}

		snap.Phase = res.Effect.Phase
		snap.Committed = true
		snap.World = res.World
		if !d.publish(tok, snap) {
			return stopped()
		}
		logger.Debug("step", "step", res.Index, "kind", in.Kind)
		if d.clock.Sleep(ctx, d.delay(rules.Game, res.Effect.Phase)) != nil {
			return stopped()
		}
	}

	r := Result{
		Token:    tok,
		Game:     rules.Game,
		Level:    rules.Level,
		Failure:  m.Failure(),
		Executed: m.Executed(),
		Total:    len(steps),
		World:    m.World(),
	}
	switch m.Status() {
	case engine.Failed:
		r.Status = Failed
	default:
		r.Goal = m.Evaluate()
		r.Status = GoalFailed
		if r.Goal.Passed {
			r.Status = Passed
		}
	}

	if !d.commit(tok) {
		return stopped()
	}
	if r.Status == Passed && d.sink != nil {
		if err := d.sink.LevelCompleted(ctx, rules.Game, rules.Level); err != nil {
			logger.Error("could not record progress", "error", err)
		}
	}
	for _, o := range d.subscribers() {
		o.Done(r)
	}
	logger.Info("run finished", "status", r.Status, "executed", r.Executed)
	return r
}
