package storage

import (
	"context"
	"errors"

	"github.com/educationrisehub/faceless-reels-generator/internal/content"
)

// ErrCorrupt reports that a persisted history value could not be decoded.
// Callers recover by starting with an empty history; it is never fatal.
var ErrCorrupt = errors.New("corrupt history value")

// HistoryRepository persists the bounded generation history. The history is
// stored wholesale under a single key: loaded once at startup, overwritten on
// every change, removed on clear.
type HistoryRepository interface {
	// Load returns the stored history, newest first. A missing value yields
	// an empty history and no error; an undecodable one fails with ErrCorrupt.
	Load(ctx context.Context) ([]content.GenerationResult, error)

	// Save overwrites the stored history with the given list.
	Save(ctx context.Context, history []content.GenerationResult) error

	// Clear removes the stored history value entirely.
	Clear(ctx context.Context) error

	Close() error
}
