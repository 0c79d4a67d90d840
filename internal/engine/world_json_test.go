package engine

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vovakirdan/codegrid/internal/core"
)

func TestWorldJSONKeepsMaps(t *testing.T) {
	bullet := core.C(2, 1)
	w := gridWorld()
	w.Carry = 1
	w.Balls[core.C(4, 3)] = 3
	w.Monsters = []core.Coord{core.C(4, 0)}
	w.Edges = EdgeSet{NewEdge(core.C(1, 1), core.C(2, 1)): true}
	w.Bullet = &bullet

	data, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"dir":"E"`) {
		t.Errorf("direction not encoded as a letter: %s", data)
	}

	var got World
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if diff := cmp.Diff(w, &got); diff != "" {
		t.Errorf("decoded world differs (-want +got):\n%s", diff)
	}
}

func TestWorldJSONIsStable(t *testing.T) {
	w := &World{
		Size:  core.Size{Cols: 3, Rows: 3},
		Balls: map[core.Coord]int{core.C(2, 2): 1, core.C(0, 0): 1, core.C(1, 0): 2},
	}

	first, _ := json.Marshal(w)
	for i := 0; i < 10; i++ {
		again, _ := json.Marshal(w)
		if string(again) != string(first) {
			t.Fatalf("encoding changed between calls:\n%s\n%s", first, again)
		}
	}
	want := `"balls":[{"at":{"x":0,"y":0},"count":1},{"at":{"x":1,"y":0},"count":2},{"at":{"x":2,"y":2},"count":1}]`
	if !strings.Contains(string(first), want) {
		t.Errorf("balls not in row-major order: %s", first)
	}
}
