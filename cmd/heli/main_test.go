package main

import (
	"math"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-heli/internal/config"
	"github.com/vovakirdan/tui-heli/internal/games/heli"
	"github.com/vovakirdan/tui-heli/internal/levels"
	"github.com/vovakirdan/tui-heli/internal/storage"
)

func TestParseLaunch(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    levels.Launch
		wantErr bool
	}{
		{"no args", nil, levels.Launch{}, false},
		{"chapter only", []string{"rural"}, levels.Launch{ChapterID: "rural"}, false},
		{"chapter and level", []string{"rural", "3"}, levels.Launch{ChapterID: "rural", LevelIndex: 2}, false},
		{"level zero", []string{"rural", "0"}, levels.Launch{}, true},
		{"not a number", []string{"rural", "two"}, levels.Launch{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLaunch(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseLaunch(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseLaunch(%v) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}

func TestProfile(t *testing.T) {
	tests := []struct {
		name string
		gap  heli.Gap
		want string
	}{
		{"centered", heli.Gap{Height: 200, Center: 400}, strings.Repeat("#", 9) + strings.Repeat(".", 6) + strings.Repeat("#", 9)},
		{"clamped", heli.Gap{Height: 400, Center: 0}, strings.Repeat(".", 6) + strings.Repeat("#", 18)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := profile(tt.gap, 800)
			if got != tt.want {
				t.Errorf("profile() = %q, want %q", got, tt.want)
			}
			if len(got) != profileWidth {
				t.Errorf("len(profile()) = %d, want %d", len(got), profileWidth)
			}
		})
	}
}

func TestGenerateCourse(t *testing.T) {
	catalog, err := levels.Default()
	if err != nil {
		t.Fatalf("levels.Default() error = %v", err)
	}
	lvl, ok := findLevel(catalog, "rural-1")
	if !ok {
		t.Fatal("rural-1 not found")
	}
	if _, ok := findLevel(catalog, "nope"); ok {
		t.Error("unknown id should not be found")
	}

	cfg := config.DefaultHeliConfig()
	pairs, step, err := generateCourse(lvl, cfg, 7)
	if err != nil {
		t.Fatalf("generateCourse() error = %v", err)
	}
	if len(pairs) == 0 {
		t.Fatal("course has no pairs")
	}
	for i, p := range pairs {
		if p.Anchor >= lvl.Goal {
			t.Errorf("pair %d anchor %v at or past goal %v", i, p.Anchor, lvl.Goal)
		}
		if i > 0 && math.Abs(p.Anchor-pairs[i-1].Anchor-step) > 1e-9 {
			t.Errorf("pair %d spacing %v, want %v", i, p.Anchor-pairs[i-1].Anchor, step)
		}
	}

	again, _, _ := generateCourse(lvl, cfg, 7)
	if len(again) != len(pairs) {
		t.Fatalf("same seed gave %d pairs, want %d", len(again), len(pairs))
	}
	for i := range pairs {
		if again[i].Gap != pairs[i].Gap {
			t.Fatalf("pair %d differs between runs with the same seed", i)
		}
	}
}

func TestLevelSummary(t *testing.T) {
	got := levelSummary(&storage.LevelStats{Runs: 3, Completions: 1, HighScore: 1250, AvgScore: 700.4})
	want := "Best: 1,250  Runs: 3  Cleared: 1  Average: 700"
	if got != want {
		t.Errorf("levelSummary() = %q, want %q", got, want)
	}
}

func TestScoresClear(t *testing.T) {
	path := t.TempDir() + "/heli.db"
	store, err := storage.Open(path)
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}
	for _, id := range []string{"rural-1", "rural-2"} {
		if _, err := store.SaveRun(storage.RunRecord{LevelID: id, Score: 10, Outcome: storage.OutcomeDead}); err != nil {
			t.Fatalf("SaveRun() error = %v", err)
		}
	}
	store.Close()

	oldPath, oldClear := flagDBPath, flagClear
	t.Cleanup(func() { flagDBPath, flagClear = oldPath, oldClear })
	flagDBPath, flagClear = path, true

	if err := runScores(nil, []string{"rural-1"}); err != nil {
		t.Fatalf("runScores() error = %v", err)
	}

	store, err = storage.Open(path)
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}
	defer store.Close()
	stats, err := store.GetAllLevelStats()
	if err != nil {
		t.Fatalf("GetAllLevelStats() error = %v", err)
	}
	if _, ok := stats["rural-1"]; ok {
		t.Error("rural-1 runs should be cleared")
	}
	if s, ok := stats["rural-2"]; !ok || s.Runs != 1 {
		t.Errorf("rural-2 stats = %+v, want one run kept", s)
	}
}
