package engine

import "fmt"

// FailureKind classifies a runtime invariant violation.
type FailureKind string

const (
	OutOfBounds     FailureKind = "OUT_OF_BOUNDS"
	WallCollision   FailureKind = "WALL_COLLISION"
	EntityCollision FailureKind = "ENTITY_COLLISION"
	NothingToPick   FailureKind = "NOTHING_TO_PICK"
	NothingToPut    FailureKind = "NOTHING_TO_PUT"
	ColumnFull      FailureKind = "COLUMN_FULL"
	OutOfCanvas     FailureKind = "OUT_OF_CANVAS"
)

// Failure halts a run. It is a value, not a Go error: a failed run is a
// normal outcome of a student's program.
type Failure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

func (f *Failure) String() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Messages holds the student-facing text for each failure kind.
// Games override the defaults to match their own wording.
type Messages map[FailureKind]string

// DefaultMessages is used for any kind a game does not override.
var DefaultMessages = Messages{
	OutOfBounds:     "Moved off the edge of the world.",
	WallCollision:   "Crashed into a wall.",
	EntityCollision: "Crashed into a monster.",
	NothingToPick:   "There is no ball here to pick up.",
	NothingToPut:    "There is no ball to put down.",
	ColumnFull:      "The column is already full.",
	OutOfCanvas:     "The line leaves the canvas.",
}

// Fail builds a Failure using the message for kind.
func (m Messages) Fail(kind FailureKind) *Failure {
	msg, ok := m[kind]
	if !ok {
		msg = DefaultMessages[kind]
	}
	return &Failure{Kind: kind, Message: msg}
}
