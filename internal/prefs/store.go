package prefs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/opencode-ai/mailassist/internal/config"
	"github.com/opencode-ai/mailassist/internal/db"
)

// PersistenceError reports a failed preference read or write.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("preferences %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Store loads and saves Preferences through a Backend.
// Save only writes when the value differs from the last one seen.
type Store struct {
	backend Backend
	logger  zerolog.Logger
	closer  io.Closer

	mu       sync.Mutex
	last     Preferences
	hasLast  bool
	fallback *Preferences
}

// NewStore returns a Store over backend.
func NewStore(backend Backend, logger zerolog.Logger) *Store {
	return &Store{backend: backend, logger: logger}
}

// Open builds the Store selected by cfg. Close releases the underlying database.
func Open(ctx context.Context, cfg config.PrefsConfig, logger zerolog.Logger) (*Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return NewStore(NewMemoryBackend(), logger), nil
	case config.BackendFile:
		return NewStore(NewFileBackend(cfg.Path), logger), nil
	case config.BackendSQLite, "":
		database, err := db.Open(cfg.Path)
		if err != nil {
			return nil, &PersistenceError{Op: "open", Err: err}
		}
		if _, err := database.MigrateUp(ctx); err != nil {
			_ = database.Close()
			return nil, &PersistenceError{Op: "migrate", Err: err}
		}
		store := NewStore(NewSQLiteBackend(database), logger)
		store.closer = database
		return store, nil
	default:
		return nil, fmt.Errorf("unknown preference backend %q", cfg.Backend)
	}
}

// OpenOrMemory is Open, falling back to an in-memory store when storage is unavailable.
func OpenOrMemory(ctx context.Context, cfg config.PrefsConfig, logger zerolog.Logger) *Store {
	store, err := Open(ctx, cfg, logger)
	if err != nil {
		logger.Warn().Err(err).Str("backend", cfg.Backend).Msg("preferences unavailable, keeping them in memory")
		return NewStore(NewMemoryBackend(), logger)
	}
	return store
}

// SetFallback replaces Default as the value Load returns when nothing is
// stored, e.g. to start in the language detected from the locale.
func (s *Store) SetFallback(p Preferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fallback := p.WithBindings(p.VariableBindings)
	s.fallback = &fallback
}

func (s *Store) initial() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fallback == nil {
		return Default()
	}
	return s.fallback.WithBindings(s.fallback.VariableBindings)
}

// Close releases the backend.
func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Load returns the stored preferences, or Default when nothing usable is stored.
// Failures are logged and never returned.
func (s *Store) Load(ctx context.Context) Preferences {
	p, err := s.load(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load preferences")
	}

	s.mu.Lock()
	s.last = p
	s.hasLast = true
	s.mu.Unlock()
	return p
}

func (s *Store) load(ctx context.Context) (Preferences, error) {
	raw, err := s.backend.Get(ctx, Key)
	if errors.Is(err, ErrNotFound) {
		return s.initial(), nil
	}
	if err != nil {
		return Default(), &PersistenceError{Op: "load", Err: err}
	}
	p, err := Decode(raw)
	if err != nil {
		return Default(), &PersistenceError{Op: "decode", Err: err}
	}
	return p, nil
}

// Save writes p when it differs from the last loaded or saved value.
// It reports whether a write happened; the error is also logged.
func (s *Store) Save(ctx context.Context, p Preferences) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasLast && s.last.Equal(p) {
		return false, nil
	}

	raw, err := Encode(p)
	if err != nil {
		perr := &PersistenceError{Op: "encode", Err: err}
		s.logger.Warn().Err(perr).Msg("failed to save preferences")
		return false, perr
	}
	if err := s.backend.Put(ctx, Key, raw); err != nil {
		perr := &PersistenceError{Op: "save", Err: err}
		s.logger.Warn().Err(perr).Msg("failed to save preferences")
		return false, perr
	}

	s.last = p.WithBindings(p.VariableBindings)
	s.hasLast = true
	s.logger.Debug().Msg("preferences saved")
	return true, nil
}

// Reset removes the stored preferences.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Delete(ctx, Key); err != nil {
		return &PersistenceError{Op: "reset", Err: err}
	}
	s.last = Default()
	s.hasLast = false
	return nil
}
