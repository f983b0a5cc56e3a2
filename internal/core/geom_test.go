package core

import "testing"

func TestRectIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Rect
		expected bool
	}{
		{"overlapping rects", NewRect(0, 0, 10, 10), NewRect(5, 5, 10, 10), true},
		{"non-overlapping horizontal", NewRect(0, 0, 10, 10), NewRect(15, 0, 10, 10), false},
		{"adjacent vertical (no overlap)", NewRect(0, 0, 10, 10), NewRect(0, 10, 10, 10), false},
		{"contained rect", NewRect(0, 0, 20, 20), NewRect(5, 5, 5, 5), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Intersects(tc.b); got != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", got, tc.expected)
			}
			if got := tc.b.Intersects(tc.a); got != tc.expected {
				t.Errorf("Intersects() (reversed) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	if !r.Contains(10, 10) {
		t.Error("top-left corner should be inside")
	}
	if r.Contains(30, 25) {
		t.Error("bottom-right edge is exclusive")
	}
}

func TestBoxIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Box
		expected bool
	}{
		{
			name:     "vehicle inside top collider",
			a:        CenteredBox(1180, 200, 52, 52),
			b:        NewBox(1100, 0, 150, 400),
			expected: true,
		},
		{
			name:     "vehicle inside gap",
			a:        CenteredBox(1180, 500, 52, 52),
			b:        NewBox(1100, 0, 150, 400),
			expected: false,
		},
		{
			name:     "touching edges",
			a:        NewBox(0, 0, 10, 10),
			b:        NewBox(10, 0, 10, 10),
			expected: false,
		},
		{
			name:     "zero height collider",
			a:        NewBox(0, 0, 10, 10),
			b:        NewBox(0, 5, 10, 0),
			expected: false,
		},
		{
			name:     "fractional overlap",
			a:        NewBox(0, 0, 10, 10),
			b:        NewBox(9.5, 9.5, 10, 10),
			expected: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Intersects(tc.b); got != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", got, tc.expected)
			}
			if got := tc.b.Intersects(tc.a); got != tc.expected {
				t.Errorf("Intersects() (reversed) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestCenteredBox(t *testing.T) {
	b := CenteredBox(100, 50, 20, 10)
	if b.X != 90 || b.Y != 45 {
		t.Errorf("CenteredBox origin = (%v, %v), expected (90, 45)", b.X, b.Y)
	}
	if b.Right() != 110 || b.Bottom() != 55 {
		t.Errorf("CenteredBox edges = (%v, %v), expected (110, 55)", b.Right(), b.Bottom())
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}
}

func TestClampFAndLerp(t *testing.T) {
	if got := ClampF(-5.5, 0, 10); got != 0 {
		t.Errorf("ClampF below range = %v, expected 0", got)
	}
	if got := ClampF(15.5, 0, 10); got != 10 {
		t.Errorf("ClampF above range = %v, expected 10", got)
	}
	if got := Lerp(260, 300, 0.5); got != 280 {
		t.Errorf("Lerp(260, 300, 0.5) = %v, expected 280", got)
	}
	if got := Lerp(400, 880, 0); got != 400 {
		t.Errorf("Lerp(400, 880, 0) = %v, expected 400", got)
	}
}
