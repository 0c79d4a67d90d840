package core

import "testing"

func TestDirTurns(t *testing.T) {
	order := []Dir{North, East, South, West}

	for i, d := range order {
		right := order[(i+1)%4]
		left := order[(i+3)%4]
		if got := d.TurnRight(); got != right {
			t.Errorf("%v.TurnRight() = %v, expected %v", d, got, right)
		}
		if got := d.TurnLeft(); got != left {
			t.Errorf("%v.TurnLeft() = %v, expected %v", d, got, left)
		}
		if got := d.TurnLeft().TurnRight(); got != d {
			t.Errorf("%v left then right = %v", d, got)
		}
	}
}

func TestCoordStep(t *testing.T) {
	tests := []struct {
		name     string
		dir      Dir
		expected Coord
	}{
		{"north decreases y", North, C(2, 1)},
		{"east increases x", East, C(3, 2)},
		{"south increases y", South, C(2, 3)},
		{"west decreases x", West, C(1, 2)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := C(2, 2).Step(tc.dir)
			if got != tc.expected {
				t.Errorf("Step(%v) = %v, expected %v", tc.dir, got, tc.expected)
			}
		})
	}
}

func TestParseDir(t *testing.T) {
	tests := []struct {
		in       string
		expected Dir
		wantErr  bool
	}{
		{"N", North, false},
		{"u", North, false},
		{"R", East, false},
		{"south", South, false},
		{" L ", West, false},
		{"x", North, true},
		{"", North, true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseDir(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseDir(%q) err = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if !tc.wantErr && got != tc.expected {
				t.Errorf("ParseDir(%q) = %v, expected %v", tc.in, got, tc.expected)
			}
		})
	}
}

func TestSizeContains(t *testing.T) {
	s := Size{Cols: 3, Rows: 2}

	inside := []Coord{C(0, 0), C(2, 1), C(1, 0)}
	outside := []Coord{C(-1, 0), C(3, 0), C(0, 2), C(0, -1)}

	for _, c := range inside {
		if !s.Contains(c) {
			t.Errorf("Contains(%v) = false, expected true", c)
		}
	}
	for _, c := range outside {
		if s.Contains(c) {
			t.Errorf("Contains(%v) = true, expected false", c)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 6, 0},
		{6, 0, 6, 6},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}
}
