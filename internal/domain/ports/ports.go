// Package ports defines interfaces for external dependencies.
// Clean Architecture: These are the boundaries - usecases depend on these abstractions,
// not concrete implementations. Adapters implement these interfaces.
package ports

import (
	"context"

	"github.com/0xcro3dile/makanapa-go/internal/domain/entities"
)

// PlaceSearcher finds restaurants around a coordinate.
type PlaceSearcher interface {
	// FetchNearby returns normalized places within radius meters of lat/lon.
	// It never returns an empty slice with a nil error.
	FetchNearby(ctx context.Context, lat, lon, radius float64) ([]entities.Place, error)
}

// TextGenerator is the transport to a generative-text service.
// Retries and per-call deadlines live here, not in the usecases.
type TextGenerator interface {
	// Complete sends a single user-role prompt and returns the raw text reply.
	Complete(ctx context.Context, prompt string) (string, error)
}

// Recommender produces recommendations for either mode.
type Recommender interface {
	GenerateGeneral(ctx context.Context, category string) (entities.RecommendationResult, error)
	GenerateNearMe(ctx context.Context, category string, places []entities.Place) (entities.RecommendationResult, error)
}

// HistoryStore persists completed recommendations. It is append-only.
type HistoryStore interface {
	// Save inserts one record. lat/lon are nil for general mode.
	Save(ctx context.Context, category string, lat, lon *float64, result entities.RecommendationResult) (entities.HistoryRecord, error)

	// List returns all records, newest first. Empty history is not an error.
	List(ctx context.Context) ([]entities.HistoryRecord, error)
}

// FileWatcher monitors a single file for changes.
type FileWatcher interface {
	// Watch starts monitoring path and emits events.
	Watch(ctx context.Context, path string) (<-chan FileEvent, error)

	// Stop stops the watcher.
	Stop() error
}

// FileEvent represents a file system change.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// FileOperation is the type of file change.
type FileOperation int

const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
)
