package program

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/codegrid/internal/core"
)

// Instruction is one node of a program tree. Primitives only use Kind
// (plus Dir/Len for lines); repeats use Times and, for Repeat, Body.
type Instruction struct {
	Kind  Kind          `json:"kind" yaml:"kind"`
	Dir   core.Dir      `json:"dir,omitempty" yaml:"-"`
	Len   int           `json:"len,omitempty" yaml:"len,omitempty"`
	Times int           `json:"times,omitempty" yaml:"times,omitempty"`
	Body  []Instruction `json:"body,omitempty" yaml:"body,omitempty"`
}

// I is a shorthand constructor for a bare primitive.
func I(k Kind) Instruction {
	return Instruction{Kind: k}
}

// LineOf builds a line primitive.
func LineOf(d core.Dir, n int) Instruction {
	return Instruction{Kind: Line, Dir: d, Len: n}
}

// RepeatOf builds a nested repeat.
func RepeatOf(times int, body ...Instruction) Instruction {
	return Instruction{Kind: Repeat, Times: times, Body: body}
}

// RepeatLastOf builds a repeat that re-emits the preceding primitive.
func RepeatLastOf(times int) Instruction {
	return Instruction{Kind: RepeatLast, Times: times}
}

// String renders the instruction in the same shorthand the YAML format accepts.
func (in Instruction) String() string {
	switch in.Kind {
	case Line:
		return fmt.Sprintf("line %s %d", dirLetter(in.Dir), in.Len)
	case RepeatLast:
		return fmt.Sprintf("repeat_last %d", in.Times)
	case Repeat:
		parts := make([]string, len(in.Body))
		for i, b := range in.Body {
			parts[i] = b.String()
		}
		return fmt.Sprintf("repeat %d [%s]", in.Times, strings.Join(parts, "; "))
	default:
		return string(in.Kind)
	}
}

// dirLetter uses the screen letters lines are authored with.
func dirLetter(d core.Dir) string {
	switch d {
	case core.North:
		return "U"
	case core.East:
		return "R"
	case core.South:
		return "D"
	default:
		return "L"
	}
}

// yamlInstruction is the long mapping form of an instruction.
type yamlInstruction struct {
	Kind       string        `yaml:"kind"`
	Dir        string        `yaml:"dir"`
	Len        int           `yaml:"len"`
	Times      int           `yaml:"times"`
	Body       []Instruction `yaml:"body"`
	Repeat     int           `yaml:"repeat"`
	RepeatLast int           `yaml:"repeat_last"`
}

// UnmarshalYAML accepts three spellings:
//
//	- forward                      # scalar primitive
//	- line R 4                     # scalar with arguments
//	- {kind: line, dir: R, len: 4} # mapping
//	- {repeat: 3, body: [...]}     # nested repeat shorthand
//	- {repeat_last: 2}             # reference repeat shorthand
func (in *Instruction) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		parsed, err := parseShorthand(n.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		*in = parsed
		return nil

	case yaml.MappingNode:
		var raw yamlInstruction
		if err := n.Decode(&raw); err != nil {
			return err
		}
		out := Instruction{
			Kind:  Kind(raw.Kind),
			Len:   raw.Len,
			Times: raw.Times,
			Body:  raw.Body,
		}
		switch {
		case raw.Repeat != 0:
			out.Kind = Repeat
			out.Times = raw.Repeat
		case raw.RepeatLast != 0:
			out.Kind = RepeatLast
			out.Times = raw.RepeatLast
		}
		if out.Kind == Line && raw.Dir == "" {
			return fmt.Errorf("line %d: line needs a dir", n.Line)
		}
		if raw.Dir != "" {
			d, err := core.ParseDir(raw.Dir)
			if err != nil {
				return fmt.Errorf("line %d: %w", n.Line, err)
			}
			out.Dir = d
		}
		if out.Kind == "" {
			return fmt.Errorf("line %d: instruction has no kind", n.Line)
		}
		*in = out
		return nil
	}

	return fmt.Errorf("line %d: unexpected node for instruction", n.Line)
}

// MarshalYAML writes primitives back in shorthand form.
func (in Instruction) MarshalYAML() (any, error) {
	switch in.Kind {
	case Repeat:
		return map[string]any{"repeat": in.Times, "body": in.Body}, nil
	default:
		return in.String(), nil
	}
}

func parseShorthand(s string) (Instruction, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Instruction{}, fmt.Errorf("empty instruction")
	}
	kind := Kind(strings.ToLower(fields[0]))
	args := fields[1:]

	switch kind {
	case Line:
		if len(args) != 2 {
			return Instruction{}, fmt.Errorf("line needs a direction and a length, got %q", s)
		}
		d, err := core.ParseDir(args[0])
		if err != nil {
			return Instruction{}, err
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return Instruction{}, fmt.Errorf("line length %q: %w", args[1], err)
		}
		return LineOf(d, n), nil

	case RepeatLast:
		if len(args) != 1 {
			return Instruction{}, fmt.Errorf("repeat_last needs a count, got %q", s)
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return Instruction{}, fmt.Errorf("repeat count %q: %w", args[0], err)
		}
		return RepeatLastOf(n), nil
	}

	if len(args) != 0 {
		return Instruction{}, fmt.Errorf("%s takes no arguments, got %q", kind, s)
	}
	return I(kind), nil
}

// Root is one free-standing block stack in the editor workspace. Its
// position decides execution order when several stacks exist.
type Root struct {
	X    int           `yaml:"x"`
	Y    int           `yaml:"y"`
	Body []Instruction `yaml:"body"`
}

// Program is everything on the workspace: zero or more root stacks.
type Program struct {
	Roots []Root
}

// Seq wraps a single instruction list as a one-root program.
func Seq(body ...Instruction) Program {
	return Program{Roots: []Root{{Body: body}}}
}

// ordered returns the roots sorted top-to-bottom, then left-to-right.
func (p Program) ordered() []Root {
	roots := make([]Root, len(p.Roots))
	copy(roots, p.Roots)
	sort.SliceStable(roots, func(i, j int) bool {
		if roots[i].Y != roots[j].Y {
			return roots[i].Y < roots[j].Y
		}
		return roots[i].X < roots[j].X
	})
	return roots
}
