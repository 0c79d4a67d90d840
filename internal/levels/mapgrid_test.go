package levels

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vovakirdan/codegrid/internal/core"
)

func TestParseMap(t *testing.T) {
	g, err := parseMap([]string{
		"A.1.",
		".bB3",
		"pbG.",
	})
	if err != nil {
		t.Fatalf("parseMap() error = %v", err)
	}

	if g.cols != 4 || g.rows != 3 {
		t.Errorf("size = %dx%d, expected 4x3", g.cols, g.rows)
	}
	if *g.start != core.C(0, 0) {
		t.Errorf("start = %v, expected (0,0)", *g.start)
	}
	if g.goal == nil || *g.goal != core.C(2, 2) {
		t.Errorf("goal = %v, expected (2,2)", g.goal)
	}

	wantWalls := []Wall{{At: core.C(2, 0), Variant: Stone}, {At: core.C(3, 1), Variant: Ice}}
	if diff := cmp.Diff(wantWalls, g.walls); diff != "" {
		t.Errorf("walls mismatch (-want +got):\n%s", diff)
	}

	wantBalls := []Stack{{At: core.C(1, 1), Count: 1}, {At: core.C(2, 1), Count: 2}, {At: core.C(1, 2), Count: 1}}
	if diff := cmp.Diff(wantBalls, g.balls); diff != "" {
		t.Errorf("balls mismatch (-want +got):\n%s", diff)
	}

	wantTargets := []Stack{{At: core.C(0, 2), Count: 1}}
	if diff := cmp.Diff(wantTargets, g.targets); diff != "" {
		t.Errorf("targets mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMapTank(t *testing.T) {
	g, err := parseMap([]string{
		"..M",
		"T#M",
	})
	if err != nil {
		t.Fatalf("parseMap() error = %v", err)
	}
	if *g.start != core.C(0, 1) {
		t.Errorf("start = %v, expected (0,1)", *g.start)
	}
	if diff := cmp.Diff([]core.Coord{core.C(2, 0), core.C(2, 1)}, g.monsters); diff != "" {
		t.Errorf("monsters mismatch (-want +got):\n%s", diff)
	}
	if len(g.walls) != 1 || g.walls[0].At != core.C(1, 1) {
		t.Errorf("walls = %v, expected one at (1,1)", g.walls)
	}
}

func TestParseMapErrors(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		code string
	}{
		{"empty", nil, "EMPTY_MAP"},
		{"empty row", []string{""}, "EMPTY_MAP"},
		{"ragged", []string{"A..", ".."}, "NON_RECTANGULAR"},
		{"two starts", []string{"A.A"}, "MULTIPLE_STARTS"},
		{"robot and tank", []string{"A.T"}, "MULTIPLE_STARTS"},
		{"two goals", []string{"AGG"}, "MULTIPLE_GOALS"},
		{"unknown glyph", []string{"A.x"}, "UNKNOWN_GLYPH"},
		{"no start", []string{"..G"}, "MISSING_START"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseMap(tc.rows)
			var ve ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("parseMap() error = %v, expected ValidationError", err)
			}
			if ve.Code != tc.code {
				t.Errorf("code = %s, expected %s", ve.Code, tc.code)
			}
		})
	}
}

func TestAddStackMerges(t *testing.T) {
	var s []Stack
	s = addStack(s, core.C(1, 1), 1)
	s = addStack(s, core.C(0, 0), 2)
	s = addStack(s, core.C(1, 1), 2)

	want := []Stack{{At: core.C(1, 1), Count: 3}, {At: core.C(0, 0), Count: 2}}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("stacks mismatch (-want +got):\n%s", diff)
	}
}
