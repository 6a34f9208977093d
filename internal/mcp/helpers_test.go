// ABOUTME: Shared fixtures for MCP server tests
// ABOUTME: Builds a fixed feed snapshot and decodes tool and resource results

package mcp

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/smilefeed/internal/feed"
	"github.com/harper/smilefeed/internal/loader"
)

const mcpCSV = "Article Title,Article Content,wp_category\n" +
	"Brace Basics,<p>Metal braces explained</p>,Care\n" +
	"Aligner Prices,<p>What clear aligners cost</p>,Pricing\n" +
	"Retainer Care,<p>Clean your retainer daily</p>,Care\n" +
	"Coming Soon,<p>Unreleased</p>,Care\n"

var testNow = time.Date(2026, time.February, 10, 9, 0, 0, 0, time.Local)

type stubLoader struct {
	snap  *loader.Snapshot
	loads int32
}

func (l *stubLoader) Load(ctx context.Context) *loader.Snapshot {
	atomic.AddInt32(&l.loads, 1)
	return l.snap
}

func setupTestServer(t *testing.T) (*Server, *stubLoader) {
	t.Helper()
	f, err := feed.Build(mcpCSV, feed.Config{
		StartDate: time.Date(2026, time.February, 10, 0, 0, 0, 0, time.Local),
		BatchSize: 3,
	})
	if err != nil {
		t.Fatalf("build feed: %v", err)
	}
	stub := &stubLoader{snap: &loader.Snapshot{Feed: f}}
	return NewServer(Options{Loader: stub, Now: func() time.Time { return testNow }}), stub
}

func intPtr(i int) *int {
	return &i
}

func strPtr(s string) *string {
	return &s
}

// marshalToMap converts a struct to map[string]interface{} for test input
func marshalToMap(t *testing.T, v interface{}) map[string]interface{} {
	t.Helper()
	inputJSON, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal input: %v", err)
	}
	var inputMap map[string]interface{}
	if err := json.Unmarshal(inputJSON, &inputMap); err != nil {
		t.Fatalf("failed to unmarshal to map: %v", err)
	}
	return inputMap
}

func toolRequest(t *testing.T, input interface{}) mcp.CallToolRequest {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = marshalToMap(t, input)
	return req
}

func decodeResult(t *testing.T, result *mcp.CallToolResult, v interface{}) {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("expected tool result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	if err := json.Unmarshal([]byte(text.Text), v); err != nil {
		t.Fatalf("failed to parse result: %v", err)
	}
}

func outputSlugs(items []ArticleOutput) []string {
	out := make([]string, len(items))
	for i, a := range items {
		out[i] = a.Slug
	}
	return out
}
