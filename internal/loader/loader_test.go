// ABOUTME: Tests for snapshot loading over HTTP, local files and the source cache
// ABOUTME: Covers fetch failures, stale fallback, 304 revalidation and canceled loads

package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/smilefeed/internal/feed"
	"github.com/harper/smilefeed/internal/fetch"
	"github.com/harper/smilefeed/internal/logging"
	"github.com/harper/smilefeed/internal/storage"
)

const testCSV = "Article Title,Article Content,wp_category\n" +
	"First Post,<p>One</p>,Care\n" +
	"Second Post,<p>Two</p>,Guide\n"

func testFeedConfig() feed.Config {
	return feed.Config{
		StartDate: time.Date(2026, time.February, 10, 0, 0, 0, 0, time.Local),
		BatchSize: 3,
	}
}

func newStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newLoader(t *testing.T, opts Options) *Loader {
	t.Helper()
	if opts.Feed.BatchSize == 0 {
		opts.Feed = testFeedConfig()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	l, err := New(opts)
	require.NoError(t, err)
	return l
}

// etagServer serves testCSV with an ETag and answers 304 when it matches.
func etagServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		w.Write([]byte(testCSV))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(Options{Source: "x.csv", Feed: feed.Config{BatchSize: 0}})
	assert.ErrorIs(t, err, feed.ErrInvalidConfig)
}

func TestLoadRemote(t *testing.T) {
	var hits int32
	srv := etagServer(t, &hits)

	snap := newLoader(t, Options{Source: srv.URL + "/articles.csv"}).Load(context.Background())

	require.True(t, snap.OK(), "unexpected error: %v", snap.Err)
	assert.NotEqual(t, uuid.Nil, snap.ID)
	assert.Equal(t, 2, snap.Feed.Len())
	assert.Equal(t, "first-post", snap.Feed.Articles()[0].Slug)
	assert.False(t, snap.Stale)
	assert.False(t, snap.NotModified)
}

func TestLoadLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0644))

	store := newStore(t)
	snap := newLoader(t, Options{Source: path, Store: store}).Load(context.Background())

	require.True(t, snap.OK(), "unexpected error: %v", snap.Err)
	assert.Equal(t, 2, snap.Feed.Len())

	_, err := store.GetSource(path)
	assert.ErrorIs(t, err, storage.ErrNotFound, "local files bypass the cache")
}

func TestLoadNoSource(t *testing.T) {
	snap := newLoader(t, Options{}).Load(context.Background())
	assert.ErrorIs(t, snap.Err, ErrNoSource)
	assert.NotNil(t, snap.Feed)
	assert.Equal(t, 0, snap.Feed.Len())
}

func TestLoadFetchFailureGivesEmptyFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	snap := newLoader(t, Options{Source: srv.URL}).Load(context.Background())

	require.Error(t, snap.Err)
	assert.ErrorIs(t, snap.Err, fetch.ErrStatus)
	assert.False(t, snap.OK())
	assert.False(t, snap.Stale)
	require.NotNil(t, snap.Feed)
	assert.Empty(t, snap.Feed.Published(time.Now()))
}

func TestLoadRevalidatesWithCache(t *testing.T) {
	var hits int32
	srv := etagServer(t, &hits)
	store := newStore(t)
	l := newLoader(t, Options{Source: srv.URL, Store: store})

	first := l.Load(context.Background())
	require.True(t, first.OK(), "first load: %v", first.Err)
	assert.False(t, first.NotModified)

	cached, err := store.GetSource(srv.URL)
	require.NoError(t, err)
	require.NotNil(t, cached.ETag)
	assert.Equal(t, `"v1"`, *cached.ETag)

	second := l.Load(context.Background())
	require.True(t, second.OK(), "second load: %v", second.Err)
	assert.True(t, second.NotModified)
	assert.Equal(t, 2, second.Feed.Len())
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))

	// Each load builds a fresh feed.
	assert.NotSame(t, first.Feed, second.Feed)
	assert.Equal(t, first.Feed.Articles(), second.Feed.Articles())
}

func TestLoadStaleOnError(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "down", http.StatusBadGateway)
			return
		}
		w.Write([]byte(testCSV))
	}))
	defer srv.Close()

	store := newStore(t)

	strict := newLoader(t, Options{Source: srv.URL, Store: store})
	require.True(t, strict.Load(context.Background()).OK())

	fail.Store(true)

	snap := strict.Load(context.Background())
	assert.Error(t, snap.Err)
	assert.Equal(t, 0, snap.Feed.Len(), "stale fallback is off by default")

	lenient := newLoader(t, Options{Source: srv.URL, Store: store, StaleOnError: true})
	snap = lenient.Load(context.Background())
	assert.Error(t, snap.Err)
	assert.True(t, snap.Stale)
	assert.Equal(t, 2, snap.Feed.Len())
}

func TestLoadStaleOnErrorWithoutCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	snap := newLoader(t, Options{Source: srv.URL, Store: newStore(t), StaleOnError: true}).Load(context.Background())
	assert.Error(t, snap.Err)
	assert.False(t, snap.Stale)
	assert.Equal(t, 0, snap.Feed.Len())
}

// cancelingFetcher completes the fetch only after its caller has gone away.
type cancelingFetcher struct {
	cancel context.CancelFunc
}

func (f *cancelingFetcher) Load(ctx context.Context, source string, etag, lastModified *string) (*fetch.Result, error) {
	f.cancel()
	return &fetch.Result{Body: []byte(testCSV), ETag: `"late"`}, nil
}

func TestLoadDiscardsCanceledResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := newStore(t)
	source := "https://example.com/articles.csv"
	l := newLoader(t, Options{
		Source:  source,
		Store:   store,
		Fetcher: &cancelingFetcher{cancel: cancel},
	})

	snap := l.Load(ctx)

	assert.True(t, snap.Canceled())
	assert.ErrorIs(t, snap.Err, context.Canceled)
	assert.Equal(t, 0, snap.Feed.Len(), "results arriving after cancellation are dropped")

	_, err := store.GetSource(source)
	assert.ErrorIs(t, err, storage.ErrNotFound, "discarded results are not cached")
}

func TestLoadNotModifiedWithoutCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	}))
	defer srv.Close()

	snap := newLoader(t, Options{Source: srv.URL}).Load(context.Background())
	assert.True(t, errors.Is(snap.Err, ErrNoCachedBody))
}

func TestLoadUsesClock(t *testing.T) {
	at := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "articles.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0644))

	snap := newLoader(t, Options{Source: path, Now: func() time.Time { return at }}).Load(context.Background())
	assert.Equal(t, at, snap.LoadedAt)
}
