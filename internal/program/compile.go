package program

import (
	"fmt"
)

// Compile error codes.
const (
	CodeNoPrecedingAction = "NO_PRECEDING_ACTION"
	CodeProgramTooLong    = "PROGRAM_TOO_LONG"
	CodeUnknown           = "UNKNOWN_INSTRUCTION"
	CodeDisallowed        = "DISALLOWED_INSTRUCTION"
	CodeInvalidArgument   = "INVALID_ARGUMENT"
)

// Defaults for Constraints fields left at zero.
const (
	DefaultBudget   = 600
	DefaultMaxDepth = 64
)

// Line lengths a student program may draw. Level targets are not bound
// by them.
const (
	ShortLine = 2
	LongLine  = 4
)

// ValidLineLen reports whether n is a drawable line length.
func ValidLineLen(n int) bool {
	return n == ShortLine || n == LongLine
}

// MultipleRootsWarning is emitted when the workspace holds several stacks.
const MultipleRootsWarning = "more than one root stack; executing in top-to-bottom order"

// CompileError reports why a program could not be flattened.
type CompileError struct {
	Code    string
	Message string
}

func (e CompileError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Constraints bounds what Compile accepts.
type Constraints struct {
	// Budget caps the number of primitives after expansion.
	Budget int
	// MaxDepth caps repeat nesting.
	MaxDepth int
	// Known lists the kinds the target game can execute, repeats included.
	Known KindSet
	// Allowed narrows Known for a specific level. Nil allows every known kind.
	Allowed KindSet
}

// Compiled is a flat, repeat-free instruction stream.
type Compiled struct {
	Steps    []Instruction
	Warnings []string
}

// Compile flattens p into a primitive stream. It is deterministic and never
// partially succeeds: on error the returned Compiled is empty.
func Compile(p Program, c Constraints) (Compiled, error) {
	if c.Budget <= 0 {
		c.Budget = DefaultBudget
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultMaxDepth
	}

	cp := &compiler{c: c}

	var warnings []string
	if len(p.Roots) > 1 {
		warnings = append(warnings, MultipleRootsWarning)
	}

	var (
		out  []Instruction
		last *Instruction
	)
	for _, root := range p.ordered() {
		seg, after, err := cp.expand(root.Body, 0, last, c.Budget-len(out))
		if err != nil {
			return Compiled{}, err
		}
		out = append(out, seg...)
		last = after
	}

	return Compiled{Steps: out, Warnings: warnings}, nil
}

type compiler struct {
	c Constraints
}

// expand flattens list given the primitive that precedes it (nil if none).
// It returns the primitives and the last primitive in effect afterwards.
// More than limit primitives is PROGRAM_TOO_LONG.
//
// A repeat body is expanded at most twice: once after the primitive that
// precedes the repeat, and once more after its own last primitive when that
// differs. Every later iteration equals the second one, so it is copied
// instead of walked again.
func (cp *compiler) expand(list []Instruction, depth int, last *Instruction, limit int) ([]Instruction, *Instruction, error) {
	if depth > cp.c.MaxDepth {
		return nil, nil, CompileError{
			Code:    CodeProgramTooLong,
			Message: fmt.Sprintf("repeat nesting deeper than %d", cp.c.MaxDepth),
		}
	}

	var out []Instruction
	for _, in := range list {
		if err := cp.check(in); err != nil {
			return nil, nil, err
		}

		switch in.Kind {
		case RepeatLast:
			if last == nil {
				return nil, nil, CompileError{
					Code:    CodeNoPrecedingAction,
					Message: "repeat needs a preceding action",
				}
			}
			if len(out)+in.Times > limit {
				return nil, nil, cp.tooLong()
			}
			for t := 0; t < in.Times; t++ {
				out = append(out, *last)
			}

		case Repeat:
			first, after, err := cp.expand(in.Body, depth+1, last, limit-len(out))
			if err != nil {
				return nil, nil, err
			}
			rest := first
			if !samePrimitive(last, after) {
				rest, after, err = cp.expand(in.Body, depth+1, after, limit-len(out)-len(first))
				if err != nil {
					return nil, nil, err
				}
			}
			if len(out)+len(first)+(in.Times-1)*len(rest) > limit {
				return nil, nil, cp.tooLong()
			}
			out = append(out, first...)
			for t := 1; t < in.Times; t++ {
				out = append(out, rest...)
			}
			last = after

		default:
			if len(out) >= limit {
				return nil, nil, cp.tooLong()
			}
			prim := Instruction{Kind: in.Kind, Dir: in.Dir, Len: in.Len}
			out = append(out, prim)
			last = &prim
		}
	}
	return out, last, nil
}

func (cp *compiler) tooLong() error {
	return CompileError{
		Code:    CodeProgramTooLong,
		Message: fmt.Sprintf("program expands to more than %d steps", cp.c.Budget),
	}
}

func samePrimitive(a, b *Instruction) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Kind == b.Kind && a.Dir == b.Dir && a.Len == b.Len
}

// check validates a single node before it is expanded.
func (cp *compiler) check(in Instruction) error {
	if !cp.c.Known.Has(in.Kind) {
		return CompileError{
			Code:    CodeUnknown,
			Message: fmt.Sprintf("unknown instruction %q", in.Kind),
		}
	}
	if cp.c.Allowed != nil && !cp.c.Allowed.Has(in.Kind) {
		return CompileError{
			Code:    CodeDisallowed,
			Message: fmt.Sprintf("instruction %q is not available in this level", in.Kind),
		}
	}
	if in.Kind.IsRepeat() && (in.Times < MinTimes || in.Times > MaxTimes) {
		return CompileError{
			Code:    CodeInvalidArgument,
			Message: fmt.Sprintf("repeat count %d outside %d..%d", in.Times, MinTimes, MaxTimes),
		}
	}
	if in.Kind == Line && !ValidLineLen(in.Len) {
		return CompileError{
			Code:    CodeInvalidArgument,
			Message: fmt.Sprintf("line length %d must be %d or %d", in.Len, ShortLine, LongLine),
		}
	}
	return nil
}
