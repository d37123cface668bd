package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/npratt/hanoi/internal/storage"
)

// DefaultKey is the fixed identifier the statistics record is stored under.
const DefaultKey = "hanoiStats"

// Store loads and saves the player record through a blob store.
// The record lives under a single key; every save replaces it.
type Store struct {
	blob        storage.Store
	key         string
	defaultDisk int
	logger      *slog.Logger

	mu      sync.Mutex
	current PlayerStatistics
	loaded  bool
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the record key.
func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// WithLogger sets the logger used for recoverable load problems.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithDefaultDiskCount sets LastDiskCount of the default record.
func WithDefaultDiskCount(n int) Option {
	return func(s *Store) {
		s.defaultDisk = n
	}
}

// NewStore creates a Store over blob.
func NewStore(blob storage.Store, opts ...Option) *Store {
	s := &Store{
		blob:        blob,
		key:         DefaultKey,
		defaultDisk: 3,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.current = Default(s.defaultDisk)
	return s
}

// Key returns the record key.
func (s *Store) Key() string {
	return s.key
}

// Load reads the record. A missing or unreadable record yields the default
// record; problems are logged, never returned.
func (s *Store) Load(ctx context.Context) PlayerStatistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = s.read(ctx)
	s.loaded = true
	return s.current.Clone()
}

func (s *Store) read(ctx context.Context) PlayerStatistics {
	data, err := s.blob.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("statistics unavailable, using defaults", "key", s.key, "error", err)
		}
		return Default(s.defaultDisk)
	}

	var rec PlayerStatistics
	if err := json.Unmarshal(data, &rec); err != nil {
		s.logger.Warn("statistics record malformed, using defaults", "key", s.key, "error", err)
		return Default(s.defaultDisk)
	}
	if !rec.valid() {
		s.logger.Warn("statistics record out of range, using defaults", "key", s.key)
		return Default(s.defaultDisk)
	}
	return rec
}

// Current returns the last loaded or saved record without touching storage.
func (s *Store) Current() PlayerStatistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Save replaces the stored record with rec.
func (s *Store) Save(ctx context.Context, rec PlayerStatistics) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx, rec)
}

func (s *Store) saveLocked(ctx context.Context, rec PlayerStatistics) error {
	s.current = rec.Clone()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode statistics: %w", err)
	}
	if err := s.blob.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("save statistics: %w", err)
	}
	return nil
}

// RecordCompletion folds a completed game into the record and persists it.
// The in-memory record is updated even when the write fails, so the caller
// keeps showing the right numbers and the next save carries them.
func (s *Store) RecordCompletion(ctx context.Context, elapsedSeconds, moves, diskCount int) (PlayerStatistics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		s.current = s.read(ctx)
		s.loaded = true
	}

	next := Record(s.current, elapsedSeconds, moves, diskCount)
	err := s.saveLocked(ctx, next)
	return next.Clone(), err
}

// Reset removes the stored record and returns the default one.
func (s *Store) Reset(ctx context.Context) (PlayerStatistics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = Default(s.defaultDisk)
	s.loaded = true
	if err := s.blob.Delete(ctx, s.key); err != nil {
		return s.current.Clone(), fmt.Errorf("reset statistics: %w", err)
	}
	return s.current.Clone(), nil
}
