// Package karel implements the classic Karel robot: a turtle that moves
// forward, turns and picks up balls on its way to a goal cell.
package karel

import (
	"github.com/vovakirdan/codegrid/internal/engine"
	"github.com/vovakirdan/codegrid/internal/levels"
	"github.com/vovakirdan/codegrid/internal/program"
	"github.com/vovakirdan/codegrid/internal/registry"
)

// Messages is the failure wording shown to students.
var Messages = engine.Messages{
	engine.OutOfBounds:   "Crashed into world edge!",
	engine.WallCollision: "Crashed into wall!",
	engine.NothingToPick: "No ball here!",
	engine.NothingToPut:  "No balls to put!",
}

// GoalText is the goal diagnostic wording.
var GoalText = engine.CarryGoalText{
	NotAtGoal: "Did not reach the goal!",
	Carry:     "Collected %d/%d balls.",
	Target:    "Ball target at (%d,%d) is not filled.",
}

// Game implements registry.Game for Karel.
type Game struct{}

func init() {
	registry.Register(Game{})
}

func (Game) ID() string          { return levels.Karel }
func (Game) Title() string       { return "Karel the Robot" }
func (Game) Course() string      { return "kursus1" }
func (Game) Description() string { return "Drive Karel to the goal, collecting every ball on the way." }

// Rules builds the engine rules for l. Karel must finish holding exactly
// as many balls as the level contains.
func (Game) Rules(l *levels.Level) *engine.Rules {
	walls := l.WallSet()

	return &engine.Rules{
		Game:  levels.Karel,
		Level: l.ID,
		Start: func() *engine.World {
			return &engine.World{
				Size:  l.Size(),
				Pos:   l.Start,
				Dir:   l.Dir,
				Walls: walls,
				Balls: l.BallMap(),
			}
		},
		Steps: map[program.Kind]engine.StepFunc{
			program.Forward:   engine.Forward(Messages, engine.PhaseStep),
			program.TurnLeft:  engine.Turn(false, engine.PhaseStep),
			program.TurnRight: engine.Turn(true, engine.PhaseStep),
			program.Pick:      engine.Pick(Messages, engine.PhaseStep),
			program.Put:       engine.Put(Messages, engine.PhaseStep),
		},
		Allowed: l.Allowed,
		Goal: engine.CarryGoal{
			Goal:     *l.Goal,
			Required: l.TotalBalls(),
			Policy:   engine.Exactly,
			Text:     GoalText,
		}.Func(),
	}
}
