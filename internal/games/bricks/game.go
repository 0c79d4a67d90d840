// Package bricks implements the brick-stacking puzzle: a cursor above a row
// of columns drops bricks until every column has the same height.
package bricks

import (
	"github.com/vovakirdan/codegrid/internal/engine"
	"github.com/vovakirdan/codegrid/internal/levels"
	"github.com/vovakirdan/codegrid/internal/program"
	"github.com/vovakirdan/codegrid/internal/registry"
)

var Messages = engine.Messages{
	engine.ColumnFull: "The column is already full.",
}

// NotLevel is reported when the run ends with uneven columns.
const NotLevel = "The surface is not level yet. Try again."

// Game implements registry.Game for Bricks.
type Game struct{}

func init() {
	registry.Register(Game{})
}

func (Game) ID() string          { return levels.Bricks }
func (Game) Title() string       { return "Bricks" }
func (Game) Course() string      { return "kursus3" }
func (Game) Description() string { return "Drop bricks until every column is the same height." }

// Rules builds the engine rules for l. Cursor moves clamp at the edges and
// never fail; the target height is the tallest starting column.
func (Game) Rules(l *levels.Level) *engine.Rules {
	return &engine.Rules{
		Game:  levels.Bricks,
		Level: l.ID,
		Start: func() *engine.World {
			return &engine.World{
				Size:      l.Size(),
				Pos:       l.Start,
				Heights:   append([]int(nil), l.Heights...),
				MaxHeight: l.MaxHeight,
			}
		},
		Steps: map[program.Kind]engine.StepFunc{
			program.MoveLeft:  engine.Cursor(-1, engine.PhaseMove),
			program.MoveRight: engine.Cursor(1, engine.PhaseMove),
			program.Drop:      engine.Drop(Messages),
		},
		Repeats: []program.Kind{program.RepeatLast},
		Allowed: l.Allowed,
		Goal:    engine.LevelColumns(l.TargetHeight(), NotLevel),
	}
}
