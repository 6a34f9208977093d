// ABOUTME: Build configuration for the article feed pipeline
// ABOUTME: Names every variation point: start date, batch size, slug filter and image policy

package feed

import (
	"errors"
	"fmt"
	"time"

	"github.com/harper/smilefeed/internal/content"
	"github.com/harper/smilefeed/internal/schedule"
)

// ErrInvalidConfig is returned by Build for configurations it cannot use.
var ErrInvalidConfig = errors.New("invalid feed config")

// Config controls how a CSV sheet becomes a feed.
type Config struct {
	// StartDate is the publish date of the first batch. Its time of day is kept.
	StartDate time.Time
	// BatchSize is the number of articles released per day. Must be > 0.
	BatchSize int
	// RequireSlugColumn drops rows whose Slug column is blank instead of
	// deriving their slug from the title.
	RequireSlugColumn bool
	// FeaturedImage selects which extracted image is featured.
	// Empty means content.FeaturedLast.
	FeaturedImage content.ImagePolicy
}

// DefaultConfig returns the configuration used by the live site.
func DefaultConfig() Config {
	return Config{
		StartDate:     time.Date(2026, time.February, 10, 0, 0, 0, 0, time.Local),
		BatchSize:     schedule.DefaultBatchSize,
		FeaturedImage: content.FeaturedLast,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive, got %d", ErrInvalidConfig, c.BatchSize)
	}
	if c.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidConfig)
	}
	if c.FeaturedImage != "" && !c.FeaturedImage.Valid() {
		return fmt.Errorf("%w: unknown featured image policy %q", ErrInvalidConfig, c.FeaturedImage)
	}
	return nil
}

func (c Config) imagePolicy() content.ImagePolicy {
	if c.FeaturedImage == "" {
		return content.FeaturedLast
	}
	return c.FeaturedImage
}
