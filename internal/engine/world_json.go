package engine

import (
	"encoding/json"
	"sort"

	"github.com/vovakirdan/codegrid/internal/core"
)

// worldJSON is the wire form of World. Maps keyed by Coord become sorted
// lists so that transcripts are stable and readable.
type worldJSON struct {
	Size      core.Size    `json:"size"`
	Pos       core.Coord   `json:"pos"`
	Dir       core.Dir     `json:"dir"`
	Carry     int          `json:"carry,omitempty"`
	Walls     []core.Coord `json:"walls,omitempty"`
	Balls     []Stack      `json:"balls,omitempty"`
	Monsters  []core.Coord `json:"monsters,omitempty"`
	Heights   []int        `json:"heights,omitempty"`
	MaxHeight int          `json:"max_height,omitempty"`
	Edges     []Edge       `json:"edges,omitempty"`
	Bullet    *core.Coord  `json:"bullet,omitempty"`
	Falling   *core.Coord  `json:"falling,omitempty"`
}

// MarshalJSON encodes the world with walls, balls and edges as sorted lists.
func (w World) MarshalJSON() ([]byte, error) {
	var walls []core.Coord
	for c, ok := range w.Walls {
		if ok {
			walls = append(walls, c)
		}
	}
	sort.Slice(walls, func(i, j int) bool {
		if walls[i].Y != walls[j].Y {
			return walls[i].Y < walls[j].Y
		}
		return walls[i].X < walls[j].X
	})

	var edges []Edge
	if len(w.Edges) > 0 {
		edges = w.Edges.Sorted()
	}
	var balls []Stack
	if len(w.Balls) > 0 {
		balls = w.BallStacks()
	}

	return json.Marshal(worldJSON{
		Size:      w.Size,
		Pos:       w.Pos,
		Dir:       w.Dir,
		Carry:     w.Carry,
		Walls:     walls,
		Balls:     balls,
		Monsters:  w.Monsters,
		Heights:   w.Heights,
		MaxHeight: w.MaxHeight,
		Edges:     edges,
		Bullet:    w.Bullet,
		Falling:   w.Falling,
	})
}

// UnmarshalJSON rebuilds the lookup maps from the wire lists.
func (w *World) UnmarshalJSON(data []byte) error {
	var wire worldJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*w = World{
		Size:      wire.Size,
		Pos:       wire.Pos,
		Dir:       wire.Dir,
		Carry:     wire.Carry,
		Monsters:  wire.Monsters,
		Heights:   wire.Heights,
		MaxHeight: wire.MaxHeight,
		Bullet:    wire.Bullet,
		Falling:   wire.Falling,
	}
	if len(wire.Walls) > 0 {
		w.Walls = make(map[core.Coord]bool, len(wire.Walls))
		for _, c := range wire.Walls {
			w.Walls[c] = true
		}
	}
	if len(wire.Balls) > 0 {
		w.Balls = make(map[core.Coord]int, len(wire.Balls))
		for _, b := range wire.Balls {
			w.Balls[b.At] += b.Count
		}
	}
	if len(wire.Edges) > 0 {
		w.Edges = make(EdgeSet, len(wire.Edges))
		for _, e := range wire.Edges {
			w.Edges[NewEdge(e.A, e.B)] = true
		}
	}
	return nil
}
