// Package storage provides SQLite-based persistence for progress, the best
// score and run history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-heli/internal/games/heli"
	"github.com/vovakirdan/tui-heli/internal/progress"
)

// Run outcomes.
const (
	OutcomeComplete = "complete"
	OutcomeDead     = "dead"
)

// Store manages the SQLite database connection.
type Store struct {
	db     *sql.DB
	logger *log.Logger
}

// RunRecord is one finished session.
type RunRecord struct {
	ID         string // uuid, generated by SaveRun if empty
	ChapterID  string
	LevelID    string
	LevelIndex int
	Score      int
	Stars      int
	Lives      int
	MaxLives   int
	Outcome    string
	Distance   float64
	Hits       int
	Revives    int
	CreatedAt  time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// SSH sessions share the store; serialize writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, logger: log.New(io.Discard)}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// SetLogger sets the logger used for failures that cannot be returned.
func (s *Store) SetLogger(logger *log.Logger) {
	if logger != nil {
		s.logger = logger.WithPrefix("storage")
	}
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			chapter_id TEXT NOT NULL,
			level_id TEXT NOT NULL,
			level_index INTEGER NOT NULL,
			score INTEGER NOT NULL,
			stars INTEGER NOT NULL DEFAULT 0,
			lives INTEGER NOT NULL DEFAULT 0,
			max_lives INTEGER NOT NULL DEFAULT 0,
			outcome TEXT NOT NULL,
			distance REAL NOT NULL DEFAULT 0,
			hits INTEGER NOT NULL DEFAULT 0,
			revives INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_level_id ON runs(level_id);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(level_id, score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetValue implements progress.KV.
func (s *Store) GetValue(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot read %s: %w", key, err)
	}
	return value, true, nil
}

// SetValue implements progress.KV.
func (s *Store) SetValue(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write %s: %w", key, err)
	}
	return nil
}

// Namespace returns a KV view whose keys are scoped to ns, so several
// players can share one database.
func (s *Store) Namespace(ns string) progress.KV {
	return namespacedKV{store: s, prefix: ns + ":"}
}

type namespacedKV struct {
	store  *Store
	prefix string
}

func (n namespacedKV) GetValue(key string) (string, bool, error) {
	return n.store.GetValue(n.prefix + key)
}

func (n namespacedKV) SetValue(key, value string) error {
	return n.store.SetValue(n.prefix+key, value)
}

// SaveRun records a finished session and returns its id.
func (s *Store) SaveRun(r RunRecord) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT INTO runs
		 (run_id, chapter_id, level_id, level_index, score, stars, lives, max_lives, outcome, distance, hits, revives, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.ChapterID,
		r.LevelID,
		r.LevelIndex,
		r.Score,
		r.Stars,
		r.Lives,
		r.MaxLives,
		r.Outcome,
		r.Distance,
		r.Hits,
		r.Revives,
		r.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}

	return r.ID, nil
}

// RecordRun implements heli.Recorder. Failures are logged.
func (s *Store) RecordRun(o heli.Outcome) {
	outcome := OutcomeDead
	if o.Completed {
		outcome = OutcomeComplete
	}
	_, err := s.SaveRun(RunRecord{
		ChapterID:  o.ChapterID,
		LevelID:    o.LevelID,
		LevelIndex: o.LevelIndex,
		Score:      o.Score,
		Stars:      o.Stars,
		Lives:      o.RemainingLives,
		MaxLives:   o.MaxLives,
		Outcome:    outcome,
		Distance:   o.Distance,
		Hits:       o.Hits,
		Revives:    o.Revives,
	})
	if err != nil {
		s.logger.Warn("failed to record run", "level", o.LevelID, "err", err)
	}
}

// Ensure Store implements the ports it is wired to.
var (
	_ progress.KV   = (*Store)(nil)
	_ heli.Recorder = (*Store)(nil)
)

const runColumns = `run_id, chapter_id, level_id, level_index, score, stars, lives, max_lives,
		        outcome, distance, hits, revives, created_at`

// TopRuns retrieves the best N runs for a level, or across all levels if
// levelID is empty. Results are ordered by score descending.
func (s *Store) TopRuns(levelID string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE ? = '' OR level_id = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		levelID, levelID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return scanRuns(rows)
}

// RecentRuns retrieves the most recent runs across all levels.
func (s *Store) RecentRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]RunRecord, error) {
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var createdAt int64
		if err := rows.Scan(
			&r.ID,
			&r.ChapterID,
			&r.LevelID,
			&r.LevelIndex,
			&r.Score,
			&r.Stars,
			&r.Lives,
			&r.MaxLives,
			&r.Outcome,
			&r.Distance,
			&r.Hits,
			&r.Revives,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = time.UnixMilli(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// ClearRuns deletes the run history of a level, or all history if levelID
// is empty.
func (s *Store) ClearRuns(levelID string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE ? = '' OR level_id = ?", levelID, levelID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// LevelStats contains aggregated statistics for a level.
type LevelStats struct {
	LevelID     string
	Runs        int
	Completions int
	HighScore   int
	AvgScore    float64
	BestStars   int
	LastPlayed  time.Time
}

const statsColumns = `COUNT(*),
		        COALESCE(SUM(outcome = 'complete'), 0),
		        COALESCE(MAX(score), 0),
		        COALESCE(AVG(score), 0),
		        COALESCE(MAX(stars), 0),
		        COALESCE(MAX(created_at), 0)`

// GetLevelStats retrieves aggregated statistics for a level.
func (s *Store) GetLevelStats(levelID string) (*LevelStats, error) {
	stats := &LevelStats{LevelID: levelID}
	var lastPlayed int64

	err := s.db.QueryRow(
		`SELECT `+statsColumns+` FROM runs WHERE level_id = ?`,
		levelID,
	).Scan(&stats.Runs, &stats.Completions, &stats.HighScore, &stats.AvgScore, &stats.BestStars, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}
	if lastPlayed > 0 {
		stats.LastPlayed = time.UnixMilli(lastPlayed)
	}

	return stats, nil
}

// GetAllLevelStats retrieves statistics for every level that has been
// played.
func (s *Store) GetAllLevelStats() (map[string]*LevelStats, error) {
	rows, err := s.db.Query(
		`SELECT level_id, ` + statsColumns + `
		 FROM runs
		 GROUP BY level_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all level stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*LevelStats)
	for rows.Next() {
		var ls LevelStats
		var lastPlayed int64
		if err := rows.Scan(&ls.LevelID, &ls.Runs, &ls.Completions, &ls.HighScore, &ls.AvgScore, &ls.BestStars, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		if lastPlayed > 0 {
			ls.LastPlayed = time.UnixMilli(lastPlayed)
		}
		stats[ls.LevelID] = &ls
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}
