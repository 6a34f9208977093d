// ABOUTME: Read-only HTTP API over the article feed with an RSS endpoint
// ABOUTME: Caches the built snapshot with go-cache and evaluates visibility per request

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/harper/smilefeed/internal/feed"
	"github.com/harper/smilefeed/internal/loader"
	"github.com/harper/smilefeed/internal/models"
)

const (
	snapshotKey            = "snapshot"
	defaultRefreshInterval = 5 * time.Minute
	defaultRelatedLimit    = 3
	shutdownTimeout        = 10 * time.Second
)

// SnapshotLoader produces feed snapshots. *loader.Loader satisfies it.
type SnapshotLoader interface {
	Load(ctx context.Context) *loader.Snapshot
}

// Options configures a Server.
type Options struct {
	Loader          SnapshotLoader
	RefreshInterval time.Duration
	RelatedLimit    int
	Channel         ChannelInfo
	Logger          logrus.FieldLogger
	Now             func() time.Time
}

// Server serves the article API.
type Server struct {
	loader  SnapshotLoader
	cache   *cache.Cache
	related int
	channel ChannelInfo
	log     logrus.FieldLogger
	now     func() time.Time

	loadMu sync.Mutex
}

// New creates a Server. Zero options take their defaults.
func New(opts Options) *Server {
	ttl := opts.RefreshInterval
	if ttl <= 0 {
		ttl = defaultRefreshInterval
	}
	s := &Server{
		loader:  opts.Loader,
		cache:   cache.New(ttl, 2*ttl),
		related: opts.RelatedLimit,
		channel: opts.Channel,
		log:     opts.Logger,
		now:     opts.Now,
	}
	if s.related <= 0 {
		s.related = defaultRelatedLimit
	}
	if s.channel.Title == "" {
		s.channel.Title = "Smile articles"
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Handler returns the API routes wrapped in CORS and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/articles", s.handleListArticles)
	mux.HandleFunc("GET /api/articles/{slug}", s.handleGetArticle)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /feed.xml", s.handleRSS)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	})
	return RequestLogging(s.log)(c.Handler(mux))
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("serving article API")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Invalidate drops the cached snapshot so the next request reloads.
func (s *Server) Invalidate() {
	s.cache.Delete(snapshotKey)
}

// snapshot returns the cached snapshot or loads a new one. Only snapshots
// that carry a usable feed are cached; failures are retried on the next request.
func (s *Server) snapshot(ctx context.Context) *loader.Snapshot {
	if v, ok := s.cache.Get(snapshotKey); ok {
		return v.(*loader.Snapshot)
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if v, ok := s.cache.Get(snapshotKey); ok {
		return v.(*loader.Snapshot)
	}

	// A client disconnecting should not abandon a load other requests are waiting on.
	snap := s.loader.Load(context.WithoutCancel(ctx))
	if snap.OK() || snap.Stale {
		s.cache.Set(snapshotKey, snap, cache.DefaultExpiration)
	}
	if snap.Err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": RequestID(ctx),
			"stale":      snap.Stale,
		}).WithError(snap.Err).Warn("feed load failed")
	}
	return snap
}

// usable reports whether handlers can answer from snap, writing a 503 if not.
func (s *Server) usable(w http.ResponseWriter, snap *loader.Snapshot) bool {
	if snap.Err != nil && !snap.Stale {
		writeJSON(w, http.StatusServiceUnavailable, ArticleListResponse{
			Articles: []ArticleSummary{},
			Error:    snap.Err.Error(),
		})
		return false
	}
	if snap.Stale {
		w.Header().Set("X-Smilefeed-Stale", "true")
	}
	return true
}

func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(r.Context())
	if !s.usable(w, snap) {
		return
	}

	now := s.now()
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	var articles []models.Article
	if query != "" {
		articles = filterCategory(snap.Feed.Search(query, now), category)
	} else {
		articles = snap.Feed.ByCategory(category, now)
	}

	resp := ArticleListResponse{
		Articles: toSummaries(articles),
		Count:    len(articles),
		Upcoming: snap.Feed.UpcomingCount(now),
		Stale:    snap.Stale,
	}
	if next, ok := snap.Feed.NextRelease(now); ok {
		resp.NextRelease = &next
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(r.Context())
	if !s.usable(w, snap) {
		return
	}

	now := s.now()
	article, err := snap.Feed.FindBySlug(r.PathValue("slug"), now)
	if errors.Is(err, feed.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, ArticleResponse{
		Article:        toDetail(article),
		Related:        toSummaries(snap.Feed.Related(article, s.related, now)),
		FurtherReading: feed.FurtherReading(article, feed.DefaultReadingCount),
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(r.Context())
	if !s.usable(w, snap) {
		return
	}

	categories := snap.Feed.Categories(s.now())
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, CategoriesResponse{Categories: categories})
}

func (s *Server) handleRSS(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(r.Context())
	if !s.usable(w, snap) {
		return
	}

	info := s.channel
	if info.BaseURL == "" {
		info.BaseURL = requestBaseURL(r)
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	now := s.now()
	if err := WriteRSS(w, info, snap.Feed.Published(now), now); err != nil {
		s.log.WithField("request_id", RequestID(r.Context())).WithError(err).Error("failed to write RSS")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(r.Context())

	resp := HealthResponse{
		Status:   "ok",
		Articles: snap.Feed.Len(),
		LoadedAt: snap.LoadedAt,
		Stale:    snap.Stale,
	}
	status := http.StatusOK
	if snap.Err != nil {
		resp.Error = snap.Err.Error()
		resp.Status = "degraded"
		if !snap.Stale {
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, status, resp)
}

func filterCategory(articles []models.Article, category string) []models.Article {
	if category == "" || strings.EqualFold(category, feed.CategoryAll) {
		return articles
	}
	out := make([]models.Article, 0, len(articles))
	for _, a := range articles {
		if strings.EqualFold(a.Category, category) {
			out = append(out, a)
		}
	}
	return out
}

func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	return scheme + "://" + r.Host
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
