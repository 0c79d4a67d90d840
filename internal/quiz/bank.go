// Package quiz loads multiple-choice question banks and grades answers.
package quiz

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed banks/*.yaml
var builtinBanks embed.FS

// ErrNotFound is returned when a bank or module does not exist.
var ErrNotFound = errors.New("quiz: not found")

// Option is one answer choice.
type Option struct {
	ID      string `yaml:"id"`
	Text    string `yaml:"text"`
	Correct bool   `yaml:"correct"`
}

// Question is a single multiple-choice question with exactly one correct option.
type Question struct {
	ID          string   `yaml:"id"`
	Prompt      string   `yaml:"question"`
	Options     []Option `yaml:"options"`
	Explanation string   `yaml:"explanation"`
}

// CorrectOption returns the id of the correct option.
func (q Question) CorrectOption() string {
	for _, o := range q.Options {
		if o.Correct {
			return o.ID
		}
	}
	return ""
}

// Option looks up a choice by id.
func (q Question) Option(id string) (Option, bool) {
	for _, o := range q.Options {
		if strings.EqualFold(o.ID, id) {
			return o, true
		}
	}
	return Option{}, false
}

// Module is one quiz level. Number is its 1-based position in the bank and
// plays the role of a level id for progress.
type Module struct {
	ID        string     `yaml:"id"`
	Number    int        `yaml:"-"`
	Title     string     `yaml:"title"`
	Questions []Question `yaml:"questions"`
}

// Bank is a course made of quiz modules.
type Bank struct {
	ID          string   `yaml:"id"`
	Course      string   `yaml:"course"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Modules     []Module `yaml:"modules"`
}

// Module returns the module with the given 1-based number.
func (b *Bank) Module(n int) (*Module, error) {
	if n < 1 || n > len(b.Modules) {
		return nil, fmt.Errorf("quiz: %s module %d: %w", b.ID, n, ErrNotFound)
	}
	return &b.Modules[n-1], nil
}

// ParseBank decodes and validates a bank.
func ParseBank(data []byte) (*Bank, error) {
	var b Bank
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("quiz: decoding bank: %w", err)
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	for i := range b.Modules {
		b.Modules[i].Number = i + 1
	}
	return &b, nil
}

// LoadBank reads a bank file.
func LoadBank(p string) (*Bank, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("quiz: reading %s: %w", p, err)
	}
	b, err := ParseBank(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	return b, nil
}

// Builtin returns the embedded banks sorted by id.
func Builtin() ([]*Bank, error) {
	entries, err := builtinBanks.ReadDir("banks")
	if err != nil {
		return nil, fmt.Errorf("quiz: reading embedded banks: %w", err)
	}

	var banks []*Bank
	for _, e := range entries {
		data, err := builtinBanks.ReadFile(path.Join("banks", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("quiz: reading %s: %w", e.Name(), err)
		}
		b, err := ParseBank(data)
		if err != nil {
			return nil, fmt.Errorf("quiz: builtin %s: %w", e.Name(), err)
		}
		banks = append(banks, b)
	}
	sort.Slice(banks, func(i, j int) bool { return banks[i].ID < banks[j].ID })
	return banks, nil
}

// Find returns the builtin bank with the given id.
func Find(id string) (*Bank, error) {
	banks, err := Builtin()
	if err != nil {
		return nil, err
	}
	for _, b := range banks {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, fmt.Errorf("quiz: bank %q: %w", id, ErrNotFound)
}

func (b *Bank) validate() error {
	if b.ID == "" {
		return fmt.Errorf("quiz: bank has no id")
	}
	if len(b.Modules) == 0 {
		return fmt.Errorf("quiz: bank %s has no modules", b.ID)
	}

	questionIDs := make(map[string]bool)
	for mi, m := range b.Modules {
		if len(m.Questions) == 0 {
			return fmt.Errorf("quiz: module %d (%s) has no questions", mi+1, m.ID)
		}
		for _, q := range m.Questions {
			if q.ID == "" {
				return fmt.Errorf("quiz: module %s has a question without id", m.ID)
			}
			if questionIDs[q.ID] {
				return fmt.Errorf("quiz: duplicate question id %q", q.ID)
			}
			questionIDs[q.ID] = true

			if len(q.Options) < 2 {
				return fmt.Errorf("quiz: question %s needs at least two options", q.ID)
			}
			correct := 0
			optionIDs := make(map[string]bool)
			for _, o := range q.Options {
				key := strings.ToLower(o.ID)
				if key == "" || optionIDs[key] {
					return fmt.Errorf("quiz: question %s has a missing or duplicate option id %q", q.ID, o.ID)
				}
				optionIDs[key] = true
				if o.Correct {
					correct++
				}
			}
			if correct != 1 {
				return fmt.Errorf("quiz: question %s has %d correct options, expected 1", q.ID, correct)
			}
		}
	}
	return nil
}
