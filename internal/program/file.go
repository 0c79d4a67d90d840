package program

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is a saved workspace: which puzzle it targets and its block stacks.
//
//	game: karelworld
//	level: 7
//	program:
//	  - move_right
//	  - {repeat: 3, body: [move_down, pick]}
//
// Several stacks can be given under roots instead of program.
type File struct {
	Game    string        `yaml:"game"`
	Level   int           `yaml:"level"`
	Program []Instruction `yaml:"program,omitempty"`
	Roots   []Root        `yaml:"roots,omitempty"`
}

// Workspace returns the program held by the file.
func (f File) Workspace() Program {
	var p Program
	if len(f.Program) > 0 {
		p.Roots = append(p.Roots, Root{Body: f.Program})
	}
	p.Roots = append(p.Roots, f.Roots...)
	return p
}

// Parse decodes a program file.
func Parse(data []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("program: parse: %w", err)
	}
	return f, nil
}

// LoadFile reads and decodes a program file from disk.
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("program: read %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Marshal encodes a file back to YAML.
func Marshal(f File) ([]byte, error) {
	return yaml.Marshal(f)
}
