package quiz

import (
	"context"
	"fmt"
	"strings"
)

// Answers maps question ids to the chosen option ids.
type Answers map[string]string

// ParseAnswers reads "q1=b,q2=a" pairs.
func ParseAnswers(s string) (Answers, error) {
	out := make(Answers)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		q, o, ok := strings.Cut(part, "=")
		if !ok || strings.TrimSpace(q) == "" || strings.TrimSpace(o) == "" {
			return nil, fmt.Errorf("quiz: answer %q is not question=option", part)
		}
		out[strings.TrimSpace(q)] = strings.TrimSpace(o)
	}
	return out, nil
}

// Item is the verdict for one question.
type Item struct {
	Question    string
	Chosen      string
	Correct     string
	IsCorrect   bool
	Explanation string
}

// Grade is the verdict for a module. A module passes only when every
// question is answered correctly.
type Grade struct {
	Module  string
	Number  int
	Correct int
	Total   int
	Percent int
	Passed  bool
	Items   []Item
}

// GradeModule checks answers against m. Unanswered questions count as wrong;
// an answer naming an option the question does not have is an error.
func GradeModule(m *Module, answers Answers) (Grade, error) {
	g := Grade{Module: m.ID, Number: m.Number, Total: len(m.Questions)}

	for _, q := range m.Questions {
		item := Item{Question: q.ID, Correct: q.CorrectOption(), Explanation: q.Explanation}
		if chosen, ok := answers[q.ID]; ok {
			opt, found := q.Option(chosen)
			if !found {
				return Grade{}, fmt.Errorf("quiz: question %s has no option %q", q.ID, chosen)
			}
			item.Chosen = opt.ID
			item.IsCorrect = opt.Correct
		}
		if item.IsCorrect {
			g.Correct++
		}
		g.Items = append(g.Items, item)
	}

	if g.Total > 0 {
		g.Percent = g.Correct * 100 / g.Total
	}
	g.Passed = g.Total > 0 && g.Correct == g.Total
	return g, nil
}

// ProgressRecorder receives passed modules, keyed like levels: the bank id
// as the game and the module number as the level.
type ProgressRecorder interface {
	LevelCompleted(ctx context.Context, game string, level int) error
}

// Submit grades module n of b and records progress when it passes.
func Submit(ctx context.Context, rec ProgressRecorder, b *Bank, n int, answers Answers) (Grade, error) {
	m, err := b.Module(n)
	if err != nil {
		return Grade{}, err
	}
	g, err := GradeModule(m, answers)
	if err != nil {
		return Grade{}, err
	}
	if g.Passed && rec != nil {
		if err := rec.LevelCompleted(ctx, b.ID, m.Number); err != nil {
			return g, fmt.Errorf("quiz: recording progress: %w", err)
		}
	}
	return g, nil
}
