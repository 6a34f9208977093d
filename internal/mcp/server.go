// ABOUTME: MCP server implementation for smilefeed
// ABOUTME: Provides tools, resources, and prompts for AI agents to browse published articles

package mcp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/harper/smilefeed/internal/loader"
)

const defaultRefreshInterval = 5 * time.Minute

// SnapshotLoader produces feed snapshots. *loader.Loader satisfies it.
type SnapshotLoader interface {
	Load(ctx context.Context) *loader.Snapshot
}

// Options configures a Server.
type Options struct {
	Loader          SnapshotLoader
	RelatedLimit    int
	RefreshInterval time.Duration
	Now             func() time.Time
	Version         string
}

// Server wraps the MCP server with smilefeed-specific context
type Server struct {
	mcpServer *server.MCPServer
	loader    SnapshotLoader
	related   int
	ttl       time.Duration
	now       func() time.Time

	mu       sync.Mutex
	snap     *loader.Snapshot
	loadedAt time.Time
}

// NewServer creates a new MCP server instance
func NewServer(opts Options) *Server {
	s := &Server{
		loader:  opts.Loader,
		related: opts.RelatedLimit,
		ttl:     opts.RefreshInterval,
		now:     opts.Now,
	}
	if s.related <= 0 {
		s.related = 3
	}
	if s.ttl <= 0 {
		s.ttl = defaultRefreshInterval
	}
	if s.now == nil {
		s.now = time.Now
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}

	s.mcpServer = server.NewMCPServer(
		"smilefeed",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdio
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// snapshot returns the current feed snapshot, reloading it once the refresh
// interval has passed. A failed load with no stale copy is an error.
func (s *Server) snapshot(ctx context.Context) (*loader.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snap == nil || time.Since(s.loadedAt) >= s.ttl {
		snap := s.loader.Load(ctx)
		if snap.Err != nil && !snap.Stale {
			return nil, fmt.Errorf("failed to load articles: %w", snap.Err)
		}
		s.snap = snap
		s.loadedAt = time.Now()
	}
	return s.snap, nil
}

// registerTools is implemented in tools.go
// registerResources is implemented in resources.go
// registerPrompts is implemented in prompts.go
