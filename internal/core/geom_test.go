package core

import "testing"

func TestDirectionOpposite(t *testing.T) {
	tests := []struct {
		a, b Direction
		want bool
	}{
		{DirUp, DirDown, true},
		{DirDown, DirUp, true},
		{DirLeft, DirRight, true},
		{DirRight, DirLeft, true},
		{DirUp, DirLeft, false},
		{DirRight, DirDown, false},
		{DirRight, DirRight, false},
	}

	for _, tc := range tests {
		t.Run(tc.a.String()+"-"+tc.b.String(), func(t *testing.T) {
			if got := tc.a.IsOpposite(tc.b); got != tc.want {
				t.Errorf("IsOpposite() = %v, expected %v", got, tc.want)
			}
		})
	}
}

func TestPositionAdd(t *testing.T) {
	start := Pos(5, 5)

	tests := []struct {
		dir  Direction
		want Position
	}{
		{DirRight, Pos(6, 5)},
		{DirLeft, Pos(4, 5)},
		{DirUp, Pos(5, 4)},
		{DirDown, Pos(5, 6)},
	}

	for _, tc := range tests {
		if got := start.Add(tc.dir); got != tc.want {
			t.Errorf("Add(%s) = %v, expected %v", tc.dir, got, tc.want)
		}
	}
}

func TestParseDirection(t *testing.T) {
	for _, d := range []Direction{DirUp, DirDown, DirLeft, DirRight} {
		got, err := ParseDirection(d.String())
		if err != nil || got != d {
			t.Errorf("ParseDirection(%q) = %v, %v", d.String(), got, err)
		}
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Error("expected error for unknown direction")
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(0, 0, 20, 20)

	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{"origin", 0, 0, true},
		{"last cell", 19, 19, true},
		{"right edge exclusive", 20, 5, false},
		{"bottom edge exclusive", 5, 20, false},
		{"negative x", -1, 5, false},
		{"negative y", 5, -1, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.x, tc.y); got != tc.want {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.want)
			}
		})
	}
}

func TestActionDirection(t *testing.T) {
	if d, ok := ActionLeft.Direction(); !ok || d != DirLeft {
		t.Errorf("ActionLeft.Direction() = %v, %v", d, ok)
	}
	if _, ok := ActionPause.Direction(); ok {
		t.Error("ActionPause should not map to a direction")
	}
}
