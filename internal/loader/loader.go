// ABOUTME: Loads the article CSV and builds it into one immutable feed snapshot
// ABOUTME: Handles conditional refetches through the source cache and discards canceled loads

package loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/harper/smilefeed/internal/feed"
	"github.com/harper/smilefeed/internal/fetch"
	"github.com/harper/smilefeed/internal/models"
	"github.com/harper/smilefeed/internal/storage"
)

// ErrNoSource is reported when no CSV source is configured.
var ErrNoSource = errors.New("no article source configured")

// ErrNoCachedBody is reported when the server answers 304 but nothing is cached.
var ErrNoCachedBody = errors.New("source not modified but no cached copy exists")

// Fetcher retrieves a source. *fetch.Fetcher satisfies it.
type Fetcher interface {
	Load(ctx context.Context, source string, etag, lastModified *string) (*fetch.Result, error)
}

// Options configures a Loader.
type Options struct {
	Source       string
	Feed         feed.Config
	Store        storage.Store // nil disables caching
	Fetcher      Fetcher       // nil uses fetch.New with the default timeout
	Logger       logrus.FieldLogger
	StaleOnError bool
	Now          func() time.Time
}

// Loader turns the configured source into feed snapshots.
type Loader struct {
	source       string
	cfg          feed.Config
	store        storage.Store
	fetcher      Fetcher
	log          logrus.FieldLogger
	staleOnError bool
	now          func() time.Time
}

// Snapshot is the outcome of one load. It is assigned once and never mutated.
// Feed is never nil: on failure it is empty and Err says why.
type Snapshot struct {
	ID          uuid.UUID
	Source      string
	Feed        *feed.Feed
	Err         error
	Stale       bool // Feed was built from the cache after a failed fetch
	NotModified bool // the server confirmed the cached copy
	LoadedAt    time.Time
}

// OK reports whether the snapshot was built from a successful fetch.
func (s *Snapshot) OK() bool {
	return s != nil && s.Err == nil
}

// Canceled reports whether the load was abandoned by its caller.
func (s *Snapshot) Canceled() bool {
	return s != nil && (errors.Is(s.Err, context.Canceled) || errors.Is(s.Err, context.DeadlineExceeded))
}

// New validates the options and returns a Loader.
func New(opts Options) (*Loader, error) {
	if err := opts.Feed.Validate(); err != nil {
		return nil, err
	}

	l := &Loader{
		source:       opts.Source,
		cfg:          opts.Feed,
		store:        opts.Store,
		fetcher:      opts.Fetcher,
		log:          opts.Logger,
		staleOnError: opts.StaleOnError,
		now:          opts.Now,
	}
	if l.fetcher == nil {
		l.fetcher = fetch.New(fetch.DefaultTimeout)
	}
	if l.log == nil {
		l.log = logrus.StandardLogger()
	}
	if l.now == nil {
		l.now = time.Now
	}
	return l, nil
}

// Source returns the configured source URL or path.
func (l *Loader) Source() string {
	return l.source
}

// FeedConfig returns the build configuration.
func (l *Loader) FeedConfig() feed.Config {
	return l.cfg
}

// Load fetches the source and builds a snapshot. Failures are reported in
// Snapshot.Err rather than returned. If ctx ends before the load completes
// the result is discarded: the snapshot is empty, Err is the context error
// and nothing is written to the cache.
func (l *Loader) Load(ctx context.Context) *Snapshot {
	snap := &Snapshot{
		ID:       uuid.New(),
		Source:   l.source,
		Feed:     feed.Empty(),
		LoadedAt: l.now(),
	}
	log := l.log.WithFields(logrus.Fields{"source": l.source, "snapshot": snap.ID.String()})

	if l.source == "" {
		snap.Err = ErrNoSource
		return snap
	}

	cached := l.cached(log)

	var etag, lastModified *string
	if cached != nil {
		etag, lastModified = cached.ETag, cached.LastModified
	}

	start := time.Now()
	result, err := l.fetcher.Load(ctx, l.source, etag, lastModified)
	if ctx.Err() != nil {
		log.WithError(ctx.Err()).Debug("load abandoned")
		snap.Err = ctx.Err()
		return snap
	}

	var body []byte
	switch {
	case err != nil:
		log.WithError(err).Warn("fetch failed")
		snap.Err = fmt.Errorf("fetch %s: %w", l.source, err)
		if !l.staleOnError || cached == nil {
			return snap
		}
		body = cached.Body
		snap.Stale = true
	case result.NotModified:
		if cached == nil {
			snap.Err = ErrNoCachedBody
			return snap
		}
		body = cached.Body
		snap.NotModified = true
		if err := l.store.TouchSource(l.source, snap.LoadedAt); err != nil {
			log.WithError(err).Warn("failed to update cache timestamp")
		}
	default:
		body = result.Body
		l.save(log, result, snap.LoadedAt)
	}

	built, err := feed.Build(string(body), l.cfg)
	if err != nil {
		snap.Err = err
		return snap
	}
	snap.Feed = built

	fields := logrus.Fields{
		"articles":     built.Len(),
		"skipped_rows": built.Stats.Malformed + built.Stats.MissingTitle + built.Stats.MissingSlug,
		"not_modified": snap.NotModified,
		"stale":        snap.Stale,
		"duration":     time.Since(start).String(),
	}
	if len(built.Stats.MissingColumns) > 0 {
		fields["missing_columns"] = built.Stats.MissingColumns
	}
	if built.Stats.ParseError != nil {
		fields["parse_error"] = built.Stats.ParseError.Error()
	}
	log.WithFields(fields).Info("feed built")

	return snap
}

func (l *Loader) cacheable() bool {
	return l.store != nil && fetch.IsRemote(l.source)
}

func (l *Loader) cached(log logrus.FieldLogger) *models.Source {
	if !l.cacheable() {
		return nil
	}
	src, err := l.store.GetSource(l.source)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.WithError(err).Warn("failed to read source cache")
		}
		return nil
	}
	return src
}

func (l *Loader) save(log logrus.FieldLogger, result *fetch.Result, fetchedAt time.Time) {
	if !l.cacheable() {
		return
	}
	src := models.NewSource(l.source, result.Body)
	src.FetchedAt = fetchedAt
	src.SetCacheHeaders(result.ETag, result.LastModified)
	if err := l.store.SaveSource(src); err != nil {
		log.WithError(err).Warn("failed to cache source")
	}
}
