package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 || s.Height() != 24 {
		t.Fatalf("size = %dx%d, expected 80x24", s.Width(), s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y) != ' ' {
				t.Fatalf("New screen should be filled with spaces, got %q at (%d, %d)", s.Get(x, y), x, y)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.SetColored(5, 5, 'X', ColorRed)
	cell := s.GetCell(5, 5)
	if cell.Rune != 'X' || cell.Color != ColorRed {
		t.Errorf("GetCell(5, 5) = %+v, expected red X", cell)
	}

	// Out of bounds writes are ignored
	s.Set(-1, 0, 'A')
	s.Set(100, 0, 'A')
	s.Set(0, -1, 'A')
	s.Set(0, 100, 'A')

	if s.Get(-1, 0) != ' ' || s.Get(100, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
}

func TestScreenClearResetsColor(t *testing.T) {
	s := NewScreen(4, 4)
	s.DrawRect(NewRect(0, 0, 4, 4), '#', ColorGreen)
	s.Clear()

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if c := s.GetCell(x, y); c.Rune != ' ' || c.Color != ColorDefault {
				t.Fatalf("After Clear, expected blank cell at (%d, %d), got %+v", x, y, c)
			}
		}
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(20, 3)
	s.DrawText(2, 1, "Lives ♥")

	if got := s.Row(1); !strings.HasPrefix(got, "  Lives ♥") {
		t.Errorf("Row(1) = %q, expected text at column 2", got)
	}

	// Clipping at the right edge must not panic
	s.DrawText(18, 0, "overflow")
	if s.Get(19, 0) != 'v' {
		t.Errorf("expected clipped text to keep its first runes, got %q", s.Get(19, 0))
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(11, 1)
	s.DrawTextCentered(0, "abc", ColorYellow)

	if s.Row(0) != "    abc    " {
		t.Errorf("centered row = %q", s.Row(0))
	}
	if s.GetCell(4, 0).Color != ColorYellow {
		t.Error("centered text should carry its color")
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(5, 3)
	s.DrawBox(NewRect(0, 0, 5, 3), ColorDefault)

	expected := "┌───┐\n│   │\n└───┘"
	if s.String() != expected {
		t.Errorf("box =\n%s\nexpected\n%s", s.String(), expected)
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(10, 5)
	s.Set(1, 1, 'X')
	s.Resize(20, 8)

	if s.Width() != 20 || s.Height() != 8 {
		t.Fatalf("size after resize = %dx%d", s.Width(), s.Height())
	}
	if len(strings.Split(s.String(), "\n")) != 8 {
		t.Error("String() should have one line per row")
	}
}
