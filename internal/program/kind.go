// Package program models the block programs students assemble and flattens
// them into the primitive instruction stream the engine executes.
package program

import (
	"sort"
	"strings"
)

// Kind identifies an instruction.
type Kind string

// Primitive kinds. Which of them a game understands is decided by the game's
// step table; bricks reuses MoveLeft/MoveRight for its cursor.
const (
	MoveUp    Kind = "move_up"
	MoveRight Kind = "move_right"
	MoveDown  Kind = "move_down"
	MoveLeft  Kind = "move_left"
	Forward   Kind = "forward"
	TurnLeft  Kind = "turn_left"
	TurnRight Kind = "turn_right"
	Pick      Kind = "pick"
	Put       Kind = "put"
	Shoot     Kind = "shoot"
	Drop      Kind = "drop"
	Line      Kind = "line"
)

// Repeat kinds. Repeat carries a nested body; RepeatLast re-emits the most
// recent primitive.
const (
	Repeat     Kind = "repeat"
	RepeatLast Kind = "repeat_last"
)

// Repeat counts accepted by the compiler.
const (
	MinTimes = 2
	MaxTimes = 6
)

// IsRepeat reports whether k is one of the repeat kinds.
func (k Kind) IsRepeat() bool {
	return k == Repeat || k == RepeatLast
}

// KindSet is an unordered set of instruction kinds.
type KindSet map[Kind]bool

// NewKindSet builds a set from the given kinds.
func NewKindSet(kinds ...Kind) KindSet {
	s := make(KindSet, len(kinds))
	for _, k := range kinds {
		s[k] = true
	}
	return s
}

// Has reports membership. A nil set contains nothing.
func (s KindSet) Has(k Kind) bool {
	return s[k]
}

// Sorted returns the members in lexical order.
func (s KindSet) Sorted() []Kind {
	out := make([]Kind, 0, len(s))
	for k, ok := range s {
		if ok {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// String joins the members with commas.
func (s KindSet) String() string {
	kinds := s.Sorted()
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ",")
}
