// Package karelworld implements Karel World, the block-editor variant of
// Karel: four-direction moves, balls, placement targets and nested repeat.
package karelworld

import (
	"github.com/vovakirdan/codegrid/internal/core"
	"github.com/vovakirdan/codegrid/internal/engine"
	"github.com/vovakirdan/codegrid/internal/levels"
	"github.com/vovakirdan/codegrid/internal/program"
	"github.com/vovakirdan/codegrid/internal/registry"
)

var Messages = engine.Messages{
	engine.OutOfBounds:   "Karel left the arena.",
	engine.WallCollision: "Karel hit a wall.",
	engine.NothingToPick: "There is no ball to pick up.",
	engine.NothingToPut:  "There is no ball to put down.",
}

var GoalText = engine.CarryGoalText{
	NotAtGoal: "Karel has not reached the goal yet.",
	Carry:     "Not enough balls in hand (%d/%d).",
	Target:    "Ball target at (%d,%d) is not complete yet.",
}

// Game implements registry.Game for Karel World.
type Game struct{}

func init() {
	registry.Register(Game{})
}

func (Game) ID() string     { return levels.KarelWorld }
func (Game) Title() string  { return "Karel World" }
func (Game) Course() string { return "blockly1" }
func (Game) Description() string {
	return "Program Karel with blocks: move, carry balls to targets and repeat."
}

// Rules builds the engine rules for l. Carrying more than required is fine;
// targets are checked in declared order.
func (Game) Rules(l *levels.Level) *engine.Rules {
	walls := l.WallSet()

	targets := make([]engine.Target, len(l.Targets))
	for i, t := range l.Targets {
		targets[i] = engine.Target{At: t.At, Count: t.Count}
	}

	return &engine.Rules{
		Game:  levels.KarelWorld,
		Level: l.ID,
		Start: func() *engine.World {
			return &engine.World{
				Size:  l.Size(),
				Pos:   l.Start,
				Walls: walls,
				Balls: l.BallMap(),
			}
		},
		Steps: map[program.Kind]engine.StepFunc{
			program.MoveUp:    engine.MoveTo(core.North, Messages, engine.PhaseStep),
			program.MoveRight: engine.MoveTo(core.East, Messages, engine.PhaseStep),
			program.MoveDown:  engine.MoveTo(core.South, Messages, engine.PhaseStep),
			program.MoveLeft:  engine.MoveTo(core.West, Messages, engine.PhaseStep),
			program.Pick:      engine.Pick(Messages, engine.PhaseStep),
			program.Put:       engine.Put(Messages, engine.PhaseStep),
		},
		Repeats: []program.Kind{program.Repeat},
		Allowed: l.Allowed,
		Goal: engine.CarryGoal{
			Goal:     *l.Goal,
			Required: l.RequiredCarry,
			Policy:   engine.AtLeast,
			Targets:  targets,
			Text:     GoalText,
		}.Func(),
	}
}
