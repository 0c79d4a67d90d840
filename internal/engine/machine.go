package engine

import (
	"fmt"

	"github.com/vovakirdan/codegrid/internal/program"
)

// Rules is everything the engine needs to play one level of one game.
type Rules struct {
	Game  string
	Level int

	// Start builds a fresh world for each run.
	Start func() *World

	// Steps maps each primitive the game understands to its behaviour.
	Steps map[program.Kind]StepFunc

	// Repeats lists the repeat kinds the game's editor offers.
	Repeats []program.Kind

	// Allowed narrows the instruction set for this level. Nil allows all.
	Allowed program.KindSet

	Goal GoalFunc
}

// Known returns every kind the compiler should accept for this game.
func (r *Rules) Known() program.KindSet {
	s := make(program.KindSet, len(r.Steps)+len(r.Repeats))
	for k := range r.Steps {
		s[k] = true
	}
	for _, k := range r.Repeats {
		s[k] = true
	}
	return s
}

// Constraints returns the compiler constraints for this level.
func (r *Rules) Constraints(budget int) program.Constraints {
	return program.Constraints{
		Budget:  budget,
		Known:   r.Known(),
		Allowed: r.Allowed,
	}
}

// Status is the machine's lifecycle state.
type Status int

const (
	Running Status = iota
	Completed
	Failed
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// StepResult reports what one call to Machine.Step did.
type StepResult struct {
	Index       int
	Instruction program.Instruction
	Effect      Effect
	// World is the committed state after the step; on failure it is the
	// unchanged state from before it.
	World   *World
	Failure *Failure
	Status  Status
}

// Machine executes a compiled stream one instruction at a time.
// Instructions are atomic: each runs on a scratch copy that is committed
// only if the instruction succeeds.
type Machine struct {
	rules   *Rules
	steps   []program.Instruction
	pc      int
	world   *World
	status  Status
	failure *Failure
}

// NewMachine starts a machine on a fresh world from r.
func NewMachine(r *Rules, steps []program.Instruction) *Machine {
	m := &Machine{
		rules: r,
		steps: steps,
		world: r.Start(),
	}
	if len(steps) == 0 {
		m.status = Completed
	}
	return m
}

// World returns the committed state. Callers must not mutate it.
func (m *Machine) World() *World {
	return m.world
}

// Status returns the lifecycle state.
func (m *Machine) Status() Status {
	return m.status
}

// Failure returns the failure that halted the machine, if any.
func (m *Machine) Failure() *Failure {
	return m.failure
}

// Executed returns how many instructions committed.
func (m *Machine) Executed() int {
	return m.pc
}

// Len returns the length of the stream.
func (m *Machine) Len() int {
	return len(m.steps)
}

// Step executes the next instruction. Calling Step on a halted machine
// returns its terminal state unchanged.
func (m *Machine) Step() StepResult {
	if m.status != Running {
		return StepResult{Index: m.pc, World: m.world, Failure: m.failure, Status: m.status}
	}

	idx := m.pc
	in := m.steps[idx]
	fn, ok := m.rules.Steps[in.Kind]
	if !ok {
		// Compile rejects unknown kinds; reaching here is a wiring bug.
		panic(fmt.Sprintf("engine: %s has no step for %q", m.rules.Game, in.Kind))
	}

	scratch := m.world.Clone()
	eff, fail := fn(scratch, in)
	if fail != nil {
		m.status = Failed
		m.failure = fail
		return StepResult{Index: idx, Instruction: in, World: m.world, Failure: fail, Status: m.status}
	}

	m.world = scratch
	m.pc++
	if m.pc == len(m.steps) {
		m.status = Completed
	}
	return StepResult{Index: idx, Instruction: in, Effect: eff, World: m.world, Status: m.status}
}

// Evaluate judges the final world. It is only meaningful once Completed.
func (m *Machine) Evaluate() GoalResult {
	return m.rules.Goal(m.world)
}

// Report is the terminal outcome of a synchronous run.
type Report struct {
	Status   Status
	Failure  *Failure
	Goal     GoalResult
	Executed int
	World    *World
}

// Passed reports whether the run completed and met its goal.
func (r Report) Passed() bool {
	return r.Status == Completed && r.Goal.Passed
}

// Run executes steps to completion without any pacing.
func Run(r *Rules, steps []program.Instruction) Report {
	m := NewMachine(r, steps)
	for m.Status() == Running {
		m.Step()
	}
	rep := Report{
		Status:   m.Status(),
		Failure:  m.Failure(),
		Executed: m.Executed(),
		World:    m.World(),
	}
	if rep.Status == Completed {
		rep.Goal = m.Evaluate()
	}
	return rep
}
