// Package pencil implements the line-drawing puzzle. The drawing is judged
// by the Jaccard similarity of its unit edges to the level's target shape.
package pencil

import (
	"github.com/vovakirdan/codegrid/internal/engine"
	"github.com/vovakirdan/codegrid/internal/levels"
	"github.com/vovakirdan/codegrid/internal/program"
	"github.com/vovakirdan/codegrid/internal/registry"
)

var Messages = engine.Messages{
	engine.OutOfCanvas: "The line leaves the canvas.",
}

// Game implements registry.Game for Pencil.
type Game struct{}

func init() {
	registry.Register(Game{})
}

func (Game) ID() string          { return levels.Pencil }
func (Game) Title() string       { return "Pencil" }
func (Game) Course() string      { return "kursus2" }
func (Game) Description() string { return "Draw the target shape with straight lines." }

// Rules builds the engine rules for l.
func (Game) Rules(l *levels.Level) *engine.Rules {
	target := Target(l)

	return &engine.Rules{
		Game:  levels.Pencil,
		Level: l.ID,
		Start: func() *engine.World {
			return &engine.World{
				Size:  l.Size(),
				Pos:   l.Start,
				Edges: engine.EdgeSet{},
			}
		},
		Steps: map[program.Kind]engine.StepFunc{
			program.Line: engine.DrawLine(Messages, engine.PhaseLine),
		},
		Repeats: []program.Kind{program.RepeatLast},
		Allowed: l.Allowed,
		Goal:    engine.Similarity(target, l.Threshold),
	}
}

// Target returns the edge set of the level's target drawing.
func Target(l *levels.Level) engine.EdgeSet {
	return engine.Trace(l.Start, l.Target)
}
