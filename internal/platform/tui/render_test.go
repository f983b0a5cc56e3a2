package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-heli/internal/core"
)

func TestRenderScreen(t *testing.T) {
	s := core.NewScreen(12, 3)
	s.DrawTextColored(0, 0, "Stage", core.ColorYellow)
	s.DrawText(6, 0, "1")
	s.SetColored(5, 2, '█', core.ColorGreen)

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if !strings.Contains(lines[0], "Stage") || !strings.Contains(lines[0], "1") {
		t.Errorf("first line %q lost its text", lines[0])
	}
	if !strings.Contains(lines[2], "█") {
		t.Errorf("last line %q lost the colored cell", lines[2])
	}
}
