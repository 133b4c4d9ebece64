// Package session owns the generation lifecycle: the active configuration,
// the in-flight/result state, and the bounded persisted history.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/educationrisehub/faceless-reels-generator/internal/content"
	"github.com/educationrisehub/faceless-reels-generator/internal/storage"
	"github.com/educationrisehub/faceless-reels-generator/pkg/logger"
)

var (
	// ErrBusy is returned when Generate is called while a generation is
	// already in flight.
	ErrBusy = errors.New("a generation is already in progress")

	// ErrNotFound is returned when a history entry id is unknown.
	ErrNotFound = errors.New("history entry not found")
)

// HistoryLimit caps the number of retained generation results. The oldest
// entries beyond the cap are dropped on insert.
const HistoryLimit = 50

// Generator produces normalized content for a configuration.
type Generator interface {
	Generate(ctx context.Context, cfg content.Config) (content.Output, error)
}

// Session is the single-user state machine. All state is mutated under one
// mutex; the external model call runs outside it with only the in-flight
// flag held.
type Session struct {
	mu         sync.Mutex
	cfg        content.Config
	generating bool
	result     *content.GenerationResult
	history    []content.GenerationResult

	gen  Generator
	repo storage.HistoryRepository
	log  *logger.Logger
}

// New creates a session and loads the persisted history once. A corrupt or
// unreadable stored history is discarded with a diagnostic log, never
// surfaced.
func New(ctx context.Context, cfg content.Config, gen Generator, repo storage.HistoryRepository, log *logger.Logger) *Session {
	s := &Session{
		cfg:  cfg,
		gen:  gen,
		repo: repo,
		log:  log.WithComponent("session"),
	}

	history, err := repo.Load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("Discarding stored history")
		history = nil
	}
	s.history = history
	return s
}

// Config returns the current configuration.
func (s *Session) Config() content.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// SetNiche updates the niche.
func (s *Session) SetNiche(n content.Niche) error {
	if !n.Valid() {
		return fmt.Errorf("invalid niche %q", n)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Niche = n
	return nil
}

// SetMode updates the creation mode and clears the current result: stale
// data from a different mode must not be shown. Topic and the remaining
// configuration are preserved.
func (s *Session) SetMode(m content.Mode) error {
	if !m.Valid() {
		return fmt.Errorf("invalid mode %q", m)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Mode = m
	s.result = nil
	return nil
}

// SetPlatform replaces the platform selection; it is single-select.
func (s *Session) SetPlatform(p content.Platform) error {
	if !p.Valid() {
		return fmt.Errorf("invalid platform %q", p)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Platform = p
	return nil
}

// SetContentType updates the content type.
func (s *Session) SetContentType(t content.ContentType) error {
	if !t.Valid() {
		return fmt.Errorf("invalid content type %q", t)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.ContentType = t
	return nil
}

// SetTopic updates the free-form topic.
func (s *Session) SetTopic(topic string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Topic = topic
}

// Generate runs one generation with the current configuration. Validation
// failures and ErrBusy leave all state untouched and cause no model call.
// On success the result becomes current, is prepended to history, and the
// history is persisted. On failure the previous result is retained.
func (s *Session) Generate(ctx context.Context) (content.GenerationResult, error) {
	s.mu.Lock()
	if s.generating {
		s.mu.Unlock()
		return content.GenerationResult{}, ErrBusy
	}
	cfg := s.cfg
	if err := cfg.Validate(); err != nil {
		s.mu.Unlock()
		return content.GenerationResult{}, err
	}
	s.generating = true
	s.mu.Unlock()

	out, err := s.gen.Generate(ctx, cfg)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generating = false

	if err != nil {
		s.log.Error().Err(err).Str("mode", string(cfg.Mode)).Msg("Generation failed")
		return content.GenerationResult{}, err
	}

	result := content.NewResult(cfg, out)
	s.result = &result
	s.history = append([]content.GenerationResult{result}, s.history...)
	if len(s.history) > HistoryLimit {
		s.history = s.history[:HistoryLimit]
	}
	s.persistLocked(ctx)

	s.log.Info().
		Str("result_id", result.ID).
		Str("mode", string(result.Mode)).
		Int("history_len", len(s.history)).
		Msg("Generation complete")
	return result, nil
}

// Result returns the currently displayed result, if any.
func (s *Session) Result() (content.GenerationResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return content.GenerationResult{}, false
	}
	return *s.result, true
}

// History returns a copy of the history, newest first.
func (s *Session) History() []content.GenerationResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]content.GenerationResult, len(s.history))
	copy(out, s.history)
	return out
}

// HistoryEntry looks up a history entry by id without changing any state.
func (s *Session) HistoryEntry(id string) (content.GenerationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.history {
		if r.ID == id {
			return r, nil
		}
	}
	return content.GenerationResult{}, ErrNotFound
}

// SelectHistory makes a stored history entry the current result. No model
// call is made and the history is not mutated.
func (s *Session) SelectHistory(id string) (content.GenerationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.history {
		if r.ID == id {
			result := r
			s.result = &result
			return result, nil
		}
	}
	return content.GenerationResult{}, ErrNotFound
}

// ClearHistory empties the in-memory history and removes the persisted
// value immediately. The current result stays visible.
func (s *Session) ClearHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("clearing persisted history: %w", err)
	}
	return nil
}

// persistLocked writes the history when non-empty. An empty history is never
// written; the stored value disappears only through an explicit clear.
func (s *Session) persistLocked(ctx context.Context) {
	if len(s.history) == 0 {
		return
	}
	if err := s.repo.Save(ctx, s.history); err != nil {
		s.log.Warn().Err(err).Msg("Failed to persist history")
	}
}
