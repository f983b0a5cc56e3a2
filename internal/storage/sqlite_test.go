package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-heli/internal/games/heli"
	"github.com/vovakirdan/tui-heli/internal/progress"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreKV(t *testing.T) {
	store := openTestStore(t)

	if _, ok, err := store.GetValue("missing"); err != nil || ok {
		t.Fatalf("GetValue(missing) = %v, %v", ok, err)
	}

	if err := store.SetValue("k", "one"); err != nil {
		t.Fatalf("SetValue() failed: %v", err)
	}
	if err := store.SetValue("k", "two"); err != nil {
		t.Fatalf("SetValue() overwrite failed: %v", err)
	}

	v, ok, err := store.GetValue("k")
	if err != nil || !ok || v != "two" {
		t.Errorf("GetValue() = %q, %v, %v, expected two", v, ok, err)
	}
}

func TestStoreKVSurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	progress.NewStore(store, nil).UnlockLevel("rural", 2)
	progress.NewBestScore(store, nil).Set(150)
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if got := progress.NewStore(store, nil).ChapterProgress("rural").UnlockedLevels; got != 2 {
		t.Errorf("unlocked after reopen = %d, expected 2", got)
	}
	if got := progress.NewBestScore(store, nil).Get(); got != 150 {
		t.Errorf("best after reopen = %d, expected 150", got)
	}
}

func TestStoreNamespace(t *testing.T) {
	store := openTestStore(t)

	alice := progress.NewStore(store.Namespace("alice"), nil)
	bob := progress.NewStore(store.Namespace("bob"), nil)

	alice.UnlockLevel("rural", 3)

	if got := alice.ChapterProgress("rural").UnlockedLevels; got != 3 {
		t.Errorf("alice unlocked = %d, expected 3", got)
	}
	if got := bob.ChapterProgress("rural").UnlockedLevels; got != 0 {
		t.Errorf("bob unlocked = %d, expected 0", got)
	}
	if _, ok, _ := store.GetValue(progress.ProgressKey); ok {
		t.Error("namespaced write leaked into the global key")
	}
}

func TestStoreSaveAndTopRuns(t *testing.T) {
	store := openTestStore(t)

	runs := []RunRecord{
		{ChapterID: "rural", LevelID: "rural-1", Score: 100, Outcome: OutcomeDead},
		{ChapterID: "rural", LevelID: "rural-1", Score: 50, Outcome: OutcomeDead},
		{ChapterID: "rural", LevelID: "rural-1", Score: 200, Stars: 3, Outcome: OutcomeComplete},
		{ChapterID: "rural", LevelID: "rural-2", LevelIndex: 1, Score: 500, Outcome: OutcomeDead},
	}
	ids := make(map[string]bool)
	for _, r := range runs {
		id, err := store.SaveRun(r)
		if err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
		if id == "" || ids[id] {
			t.Errorf("SaveRun() returned empty or duplicate id %q", id)
		}
		ids[id] = true
	}

	top, err := store.TopRuns("rural-1", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(top))
	}
	want := []int{200, 100, 50}
	for i, w := range want {
		if top[i].Score != w {
			t.Errorf("run %d score = %d, expected %d", i, top[i].Score, w)
		}
	}
	if top[0].Stars != 3 || top[0].Outcome != OutcomeComplete || top[0].CreatedAt.IsZero() {
		t.Errorf("unexpected top run %+v", top[0])
	}

	all, err := store.TopRuns("", 2)
	if err != nil {
		t.Fatalf("TopRuns(all) failed: %v", err)
	}
	if len(all) != 2 || all[0].Score != 500 || all[0].LevelIndex != 1 {
		t.Errorf("unexpected leaderboard %+v", all)
	}
}

func TestStoreRecentRuns(t *testing.T) {
	store := openTestStore(t)

	for i := range 25 {
		if _, err := store.SaveRun(RunRecord{LevelID: "rural-1", Score: i, Outcome: OutcomeDead}); err != nil {
			t.Fatal(err)
		}
	}

	recent, err := store.RecentRuns(0)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(recent) != 20 {
		t.Fatalf("Expected default limit of 20, got %d", len(recent))
	}
	if recent[0].Score != 24 {
		t.Errorf("most recent score = %d, expected 24", recent[0].Score)
	}
}

func TestStoreClearRuns(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(RunRecord{LevelID: "rural-1", Score: 42, Outcome: OutcomeDead})
	store.SaveRun(RunRecord{LevelID: "rural-2", Score: 7, Outcome: OutcomeDead})

	if err := store.ClearRuns("rural-1"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}
	if stats, _ := store.GetLevelStats("rural-1"); stats.Runs != 0 || stats.HighScore != 0 {
		t.Errorf("stats after clear = %+v", stats)
	}
	if stats, _ := store.GetLevelStats("rural-2"); stats.HighScore != 7 {
		t.Errorf("other level cleared: %+v", stats)
	}

	if err := store.ClearRuns(""); err != nil {
		t.Fatalf("ClearRuns(\"\") failed: %v", err)
	}
	if runs, _ := store.RecentRuns(10); len(runs) != 0 {
		t.Errorf("%d runs left after clearing everything", len(runs))
	}
}

func TestStoreRecordRun(t *testing.T) {
	store := openTestStore(t)

	var rec heli.Recorder = store
	rec.RecordRun(heli.Outcome{
		Result: heli.Result{
			Score:          88,
			Stars:          2,
			RemainingLives: 3,
			MaxLives:       5,
			ChapterID:      "rural",
			LevelIndex:     0,
		},
		LevelID:   "rural-1",
		Completed: true,
		Distance:  4800,
		Hits:      2,
	})
	rec.RecordRun(heli.Outcome{
		Result:  heli.Result{Score: 30, MaxLives: 5, ChapterID: "rural"},
		LevelID: "rural-1",
		Hits:    5,
	})

	stats, err := store.GetLevelStats("rural-1")
	if err != nil {
		t.Fatalf("GetLevelStats() failed: %v", err)
	}
	if stats.Runs != 2 || stats.Completions != 1 || stats.HighScore != 88 || stats.BestStars != 2 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if stats.AvgScore != 59 {
		t.Errorf("AvgScore = %v, expected 59", stats.AvgScore)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed not set")
	}

	top, _ := store.TopRuns("rural-1", 1)
	if len(top) != 1 || top[0].Distance != 4800 || top[0].Lives != 3 || top[0].Hits != 2 {
		t.Errorf("unexpected run %+v", top)
	}
}

func TestStoreLevelStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.GetLevelStats("rural-3")
	if err != nil {
		t.Fatalf("GetLevelStats() failed: %v", err)
	}
	if empty.Runs != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("unexpected empty stats %+v", empty)
	}

	store.SaveRun(RunRecord{LevelID: "rural-1", Score: 10, Outcome: OutcomeDead})
	store.SaveRun(RunRecord{LevelID: "rural-2", Score: 20, Outcome: OutcomeComplete, Stars: 1})
	store.SaveRun(RunRecord{LevelID: "rural-2", Score: 40, Outcome: OutcomeComplete, Stars: 3})

	all, err := store.GetAllLevelStats()
	if err != nil {
		t.Fatalf("GetAllLevelStats() failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected stats for 2 levels, got %d", len(all))
	}
	if s := all["rural-2"]; s.Runs != 2 || s.Completions != 2 || s.HighScore != 40 || s.BestStars != 3 {
		t.Errorf("unexpected rural-2 stats %+v", s)
	}
}
