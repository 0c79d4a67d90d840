package playback

import (
	"github.com/vovakirdan/codegrid/internal/engine"
	"github.com/vovakirdan/codegrid/internal/program"
)

// Status is the terminal outcome of a run as seen by observers.
type Status string

const (
	// Passed: the stream completed and the goal was met.
	Passed Status = "passed"
	// GoalFailed: the stream completed but the goal was not met.
	GoalFailed Status = "goal_failed"
	// Failed: an instruction violated a rule and halted the run.
	Failed Status = "failed"
	// Stopped: the run was cancelled before finishing. No goal is judged.
	Stopped Status = "stopped"
)

// Snapshot is one published world state.
type Snapshot struct {
	Token uint64 `json:"token"`
	Game  string `json:"game"`
	Level int    `json:"level"`

	// Index is the instruction being shown, or -1 for the start state.
	Index       int                  `json:"index"`
	Total       int                  `json:"total"`
	Instruction *program.Instruction `json:"instruction,omitempty"`
	Phase       engine.Phase         `json:"phase"`
	// Committed is false for sub-step frames (bullet flight, falling brick).
	Committed bool          `json:"committed"`
	World     *engine.World `json:"world"`
}

// Result is the terminal report of a run.
type Result struct {
	Token    uint64            `json:"token"`
	Game     string            `json:"game"`
	Level    int               `json:"level"`
	Status   Status            `json:"status"`
	Failure  *engine.Failure   `json:"failure,omitempty"`
	Goal     engine.GoalResult `json:"goal"`
	Executed int               `json:"executed"`
	Total    int               `json:"total"`
	World    *engine.World     `json:"world"`
}

// Message returns the student-facing summary of the result.
func (r Result) Message() string {
	switch r.Status {
	case Passed:
		return "Level complete!"
	case GoalFailed:
		return r.Goal.Reason
	case Failed:
		if r.Failure != nil {
			return r.Failure.Message
		}
		return "Run failed."
	default:
		return "Run stopped."
	}
}

// Observer receives the states of current runs. Calls for one run are
// sequential; a cancelled run makes no further calls.
type Observer interface {
	Snapshot(s Snapshot)
	Done(r Result)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnSnapshot func(Snapshot)
	OnDone     func(Result)
}

func (o ObserverFuncs) Snapshot(s Snapshot) {
	if o.OnSnapshot != nil {
		o.OnSnapshot(s)
	}
}

func (o ObserverFuncs) Done(r Result) {
	if o.OnDone != nil {
		o.OnDone(r)
	}
}
