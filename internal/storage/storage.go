// ABOUTME: Storage interface for the cached CSV source payloads
// ABOUTME: Defines the contract the loader uses for conditional refetches

package storage

import (
	"errors"
	"time"

	"github.com/harper/smilefeed/internal/models"
)

// ErrNotFound is returned when no payload is cached for a source.
var ErrNotFound = errors.New("source not cached")

// Store defines the storage interface for cached sources.
type Store interface {
	// Close closes the store and releases resources.
	Close() error

	// GetSource returns the cached payload for url, or ErrNotFound.
	GetSource(url string) (*models.Source, error)

	// SaveSource inserts or replaces the cached payload for source.URL.
	SaveSource(source *models.Source) error

	// TouchSource records a 304 revalidation without changing the body.
	TouchSource(url string, fetchedAt time.Time) error

	// DeleteSource drops the cached payload for url.
	DeleteSource(url string) error
}
