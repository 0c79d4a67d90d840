package engine

import (
	"fmt"
	"math"

	"github.com/vovakirdan/codegrid/internal/core"
)

// GoalResult is the judgment of a completed run.
type GoalResult struct {
	Passed bool    `json:"passed"`
	Reason string  `json:"reason,omitempty"`
	Score  float64 `json:"score,omitempty"`
	// Percent is Score rounded for display; only similarity goals set it.
	Percent int `json:"percent,omitempty"`
}

// GoalFunc is a pure predicate over a terminal world.
type GoalFunc func(w *World) GoalResult

// CarryPolicy decides how the carried count is compared to the requirement.
type CarryPolicy int

const (
	// AtLeast passes when carried >= required.
	AtLeast CarryPolicy = iota
	// Exactly passes only when carried == required.
	Exactly
)

// Target is a cell that must end up holding at least Count ground balls.
type Target struct {
	At    core.Coord
	Count int
}

// CarryGoalText holds the diagnostic wording of a CarryGoal. The carry and
// target messages are format strings: (carried, required) and (x, y).
type CarryGoalText struct {
	NotAtGoal string
	Carry     string
	Target    string
}

// CarryGoal checks position first, then the carried count, then each
// placement target in declared order.
type CarryGoal struct {
	Goal     core.Coord
	Required int
	Policy   CarryPolicy
	Targets  []Target
	Text     CarryGoalText
}

// Func returns the goal predicate.
func (g CarryGoal) Func() GoalFunc {
	return func(w *World) GoalResult {
		if w.Pos != g.Goal {
			return GoalResult{Reason: g.Text.NotAtGoal}
		}

		short := w.Carry < g.Required
		if g.Policy == Exactly {
			short = w.Carry != g.Required
		}
		if short {
			return GoalResult{Reason: fmt.Sprintf(g.Text.Carry, w.Carry, g.Required)}
		}

		for _, t := range g.Targets {
			if w.BallsAt(t.At) < t.Count {
				return GoalResult{Reason: fmt.Sprintf(g.Text.Target, t.At.X, t.At.Y)}
			}
		}
		return GoalResult{Passed: true}
	}
}

// NoMonsters passes when every monster has been removed.
func NoMonsters(reason string) GoalFunc {
	return func(w *World) GoalResult {
		if len(w.Monsters) > 0 {
			return GoalResult{Reason: reason}
		}
		return GoalResult{Passed: true}
	}
}

// LevelColumns passes when every column has exactly the target height.
func LevelColumns(target int, reason string) GoalFunc {
	return func(w *World) GoalResult {
		for _, h := range w.Heights {
			if h != target {
				return GoalResult{Reason: reason}
			}
		}
		return GoalResult{Passed: true}
	}
}

// Jaccard returns |a∩b| / |a∪b|, or 0 when both sets are empty.
func Jaccard(a, b EdgeSet) float64 {
	inter := 0
	for e := range a {
		if b[e] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// Similarity passes when the drawn edges match target with Jaccard
// similarity at or above threshold.
func Similarity(target EdgeSet, threshold float64) GoalFunc {
	return func(w *World) GoalResult {
		s := Jaccard(w.Edges, target)
		pct := int(math.Round(s * 100))
		res := GoalResult{Score: s, Percent: pct, Passed: s >= threshold}
		if !res.Passed {
			res.Reason = fmt.Sprintf("Drawing is %d%% similar, needs %d%%.", pct, int(math.Round(threshold*100)))
		}
		return res
	}
}
