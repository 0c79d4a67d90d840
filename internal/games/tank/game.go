// Package tank implements TinyTank: steer a tank around walls and shoot
// every monster in the arena.
package tank

import (
	"github.com/vovakirdan/codegrid/internal/core"
	"github.com/vovakirdan/codegrid/internal/engine"
	"github.com/vovakirdan/codegrid/internal/levels"
	"github.com/vovakirdan/codegrid/internal/program"
	"github.com/vovakirdan/codegrid/internal/registry"
)

var Messages = engine.Messages{
	engine.OutOfBounds:     "The tank left the arena.",
	engine.WallCollision:   "The tank hit a wall.",
	engine.EntityCollision: "The tank ran into a monster.",
}

// MonstersLeft is reported when the run ends with monsters still standing.
const MonstersLeft = "There are still monsters left."

// Game implements registry.Game for TinyTank.
type Game struct{}

func init() {
	registry.Register(Game{})
}

func (Game) ID() string          { return levels.Tank }
func (Game) Title() string       { return "TinyTank" }
func (Game) Course() string      { return "kursus4" }
func (Game) Description() string { return "Steer the tank and shoot every monster." }

// Rules builds the engine rules for l. TinyTank has no repeat block.
func (Game) Rules(l *levels.Level) *engine.Rules {
	walls := l.WallSet()

	return &engine.Rules{
		Game:  levels.Tank,
		Level: l.ID,
		Start: func() *engine.World {
			return &engine.World{
				Size:     l.Size(),
				Pos:      l.Start,
				Dir:      l.Dir,
				Walls:    walls,
				Monsters: append([]core.Coord(nil), l.Monsters...),
			}
		},
		Steps: map[program.Kind]engine.StepFunc{
			program.Forward:   engine.Forward(Messages, engine.PhaseMove),
			program.TurnLeft:  engine.Turn(false, engine.PhaseTurn),
			program.TurnRight: engine.Turn(true, engine.PhaseTurn),
			program.Shoot:     engine.Shoot(),
		},
		Allowed: l.Allowed,
		Goal:    engine.NoMonsters(MonstersLeft),
	}
}
