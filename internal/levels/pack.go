package levels

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/codegrid/internal/core"
	"github.com/vovakirdan/codegrid/internal/program"
)

//go:embed schema/pack.schema.json
var packSchemaJSON []byte

const packSchemaURL = "https://codegrid.local/schema/pack.schema.json"

var (
	schemaOnce sync.Once
	packSchema *jsonschema.Schema
	schemaErr  error
)

// compiledSchema compiles the embedded pack schema once.
func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(packSchemaURL, bytes.NewReader(packSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("levels: load schema: %w", err)
			return
		}
		packSchema, schemaErr = c.Compile(packSchemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("levels: compile schema: %w", schemaErr)
		}
	})
	return packSchema, schemaErr
}

// Pack is one level file: a game and its levels in declared order.
type Pack struct {
	Game   string
	Levels []*Level
	Source string
}

type yamlPack struct {
	Game   string      `yaml:"game"`
	Levels []yamlLevel `yaml:"levels"`
}

type yamlLevel struct {
	ID    int    `yaml:"id"`
	Title string `yaml:"title"`

	Cols  int    `yaml:"cols"`
	Rows  int    `yaml:"rows"`
	Start []int  `yaml:"start"`
	Dir   string `yaml:"dir"`
	Goal  []int  `yaml:"goal"`

	Walls [][]int `yaml:"walls"`
	Balls [][]int `yaml:"balls"`

	Map           []string `yaml:"map"`
	RequiredCarry int      `yaml:"required_carry"`
	Allowed       []string `yaml:"allowed"`

	MaxHeight int   `yaml:"max_height"`
	StartX    int   `yaml:"start_x"`
	Heights   []int `yaml:"heights"`

	Threshold float64               `yaml:"threshold"`
	Target    []program.Instruction `yaml:"target"`
}

// ParsePack validates data against the pack schema, decodes it and runs the
// per-game semantic checks. source is recorded on every level.
func ParsePack(data []byte, source string) (*Pack, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	var raw yamlPack
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("levels: decode: %w", err)
	}

	pack := &Pack{Game: raw.Game, Source: source}
	seen := make(map[int]bool, len(raw.Levels))

	for _, yl := range raw.Levels {
		if seen[yl.ID] {
			return nil, ValidationError{
				Code:    "DUPLICATE_ID",
				Message: fmt.Sprintf("%s level %d declared twice", raw.Game, yl.ID),
			}
		}
		seen[yl.ID] = true

		lvl, err := buildLevel(raw.Game, yl)
		if err != nil {
			return nil, fmt.Errorf("%s level %d: %w", raw.Game, yl.ID, err)
		}
		lvl.Source = source
		if err := Validate(lvl); err != nil {
			return nil, fmt.Errorf("%s level %d: %w", raw.Game, yl.ID, err)
		}
		pack.Levels = append(pack.Levels, lvl)
	}

	return pack, nil
}

// validateSchema checks the document shape. The YAML is round-tripped
// through JSON so the validator sees plain JSON values.
func validateSchema(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("levels: decode: %w", err)
	}
	js, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("levels: convert to json: %w", err)
	}
	var v any
	if err := json.Unmarshal(js, &v); err != nil {
		return fmt.Errorf("levels: convert to json: %w", err)
	}

	if err := s.Validate(v); err != nil {
		return ValidationError{Code: "SCHEMA", Message: err.Error()}
	}
	return nil
}

func buildLevel(game string, yl yamlLevel) (*Level, error) {
	lvl := &Level{
		Game:          game,
		ID:            yl.ID,
		Title:         yl.Title,
		Cols:          yl.Cols,
		Rows:          yl.Rows,
		RequiredCarry: yl.RequiredCarry,
		MaxHeight:     yl.MaxHeight,
		Heights:       yl.Heights,
		Threshold:     yl.Threshold,
		Target:        yl.Target,
		Dir:           core.East,
	}

	if yl.Dir != "" {
		d, err := core.ParseDir(yl.Dir)
		if err != nil {
			return nil, err
		}
		lvl.Dir = d
	}
	if len(yl.Start) == 2 {
		lvl.Start = point(yl.Start)
	}
	if len(yl.Goal) == 2 {
		g := point(yl.Goal)
		lvl.Goal = &g
	}
	for _, w := range yl.Walls {
		lvl.Walls = append(lvl.Walls, Wall{At: point(w), Variant: Stone})
	}
	for _, b := range yl.Balls {
		lvl.Balls = addStack(lvl.Balls, point(b), 1)
	}
	if yl.Allowed != nil {
		lvl.Allowed = make(program.KindSet, len(yl.Allowed))
		for _, k := range yl.Allowed {
			lvl.Allowed[program.Kind(k)] = true
		}
	}

	if len(yl.Map) > 0 {
		g, err := parseMap(yl.Map)
		if err != nil {
			return nil, err
		}
		lvl.Cols, lvl.Rows = g.cols, g.rows
		lvl.Start = *g.start
		lvl.Goal = g.goal
		lvl.Walls = g.walls
		lvl.Balls = g.balls
		lvl.Targets = g.targets
		lvl.Monsters = g.monsters
	}

	if game == Bricks {
		if lvl.Cols == 0 {
			lvl.Cols = len(yl.Heights)
		}
		lvl.Rows = yl.MaxHeight
		lvl.Start = core.C(yl.StartX, 0)
	}

	return lvl, nil
}

func point(xy []int) core.Coord {
	return core.C(xy[0], xy[1])
}
