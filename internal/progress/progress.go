// Package progress keeps per-chapter unlock progress and the best score on
// top of a small key-value port. Persistence failures are logged and
// swallowed: a broken store never blocks gameplay, progress simply stops
// improving.
package progress

import (
	"encoding/json"
	"io"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
)

// Storage keys.
const (
	ProgressKey = "HELI_PROGRESS"
	BestKey     = "HELI_BEST"
)

// KV is the persistence port: get/set of string values by key.
type KV interface {
	GetValue(key string) (value string, ok bool, err error)
	SetValue(key, value string) error
}

// MemoryKV is an in-memory KV.
type MemoryKV struct {
	mu sync.Mutex
	m  map[string]string
}

// NewMemoryKV creates an empty in-memory KV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{m: make(map[string]string)}
}

// GetValue implements KV.
func (kv *MemoryKV) GetValue(key string) (string, bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.m[key]
	return v, ok, nil
}

// SetValue implements KV.
func (kv *MemoryKV) SetValue(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.m[key] = value
	return nil
}

// Progress is the unlock state of one chapter.
type Progress struct {
	UnlockedLevels int `json:"unlockedLevels"`
}

// Store persists chapter progress as one JSON document.
type Store struct {
	kv     KV
	logger *log.Logger
}

// NewStore creates a progress store. logger may be nil.
func NewStore(kv KV, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{kv: kv, logger: logger.WithPrefix("progress")}
}

// load reads the progress document. Missing or corrupt data yields an
// empty map.
func (s *Store) load() map[string]Progress {
	all := make(map[string]Progress)

	raw, ok, err := s.kv.GetValue(ProgressKey)
	if err != nil {
		s.logger.Warn("failed to read progress", "err", err)
		return all
	}
	if !ok || raw == "" {
		return all
	}
	if err := json.Unmarshal([]byte(raw), &all); err != nil {
		s.logger.Warn("discarding corrupt progress", "err", err)
		return make(map[string]Progress)
	}
	return all
}

func (s *Store) save(all map[string]Progress) {
	data, err := json.Marshal(all)
	if err != nil {
		s.logger.Warn("failed to encode progress", "err", err)
		return
	}
	if err := s.kv.SetValue(ProgressKey, string(data)); err != nil {
		s.logger.Warn("failed to save progress", "err", err)
	}
}

// ChapterProgress returns the progress of a chapter.
func (s *Store) ChapterProgress(chapterID string) Progress {
	return s.load()[chapterID]
}

// All returns the progress of every chapter with any recorded state.
func (s *Store) All() map[string]Progress {
	return s.load()
}

// UnlockLevel records that levels up to levelIndex are unlocked. Progress
// never moves backwards.
func (s *Store) UnlockLevel(chapterID string, levelIndex int) {
	all := s.load()
	if levelIndex <= all[chapterID].UnlockedLevels {
		return
	}
	all[chapterID] = Progress{UnlockedLevels: levelIndex}
	s.save(all)
	s.logger.Debug("level unlocked", "chapter", chapterID, "index", levelIndex)
}

// ResetChapter clears the progress of a chapter.
func (s *Store) ResetChapter(chapterID string) {
	all := s.load()
	delete(all, chapterID)
	s.save(all)
}

// BestScore keeps the all-time best score.
type BestScore struct {
	kv     KV
	logger *log.Logger
}

// NewBestScore creates a best score store. logger may be nil.
func NewBestScore(kv KV, logger *log.Logger) *BestScore {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &BestScore{kv: kv, logger: logger.WithPrefix("best")}
}

// Get returns the best score, 0 when none is stored or the value is
// unreadable.
func (b *BestScore) Get() int {
	raw, ok, err := b.kv.GetValue(BestKey)
	if err != nil {
		b.logger.Warn("failed to read best score", "err", err)
		return 0
	}
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		b.logger.Warn("discarding corrupt best score", "value", raw)
		return 0
	}
	return n
}

// Set stores score if it beats the current best.
func (b *BestScore) Set(score int) {
	if score <= b.Get() {
		return
	}
	if err := b.kv.SetValue(BestKey, strconv.Itoa(score)); err != nil {
		b.logger.Warn("failed to save best score", "err", err)
	}
}
