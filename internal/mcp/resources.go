// ABOUTME: MCP resource providers for smilefeed
// ABOUTME: Exposes read-only views of categories and the release schedule

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	categoriesURI = "smilefeed://categories"
	scheduleURI   = "smilefeed://schedule"
)

// ResourceData is the standard response format for all resources.
type ResourceData struct {
	Metadata ResourceMetadata  `json:"metadata"`
	Data     interface{}       `json:"data"`
	Links    map[string]string `json:"links"`
}

// ResourceMetadata contains metadata about the resource response.
type ResourceMetadata struct {
	Timestamp   time.Time `json:"timestamp"`
	Count       int       `json:"count"`
	ResourceURI string    `json:"resource_uri"`
}

// CategoryCount is one entry of the categories resource.
type CategoryCount struct {
	Name     string `json:"name"`
	Articles int    `json:"articles"`
}

// ScheduleData is the body of the schedule resource.
type ScheduleData struct {
	StartDate   time.Time  `json:"start_date"`
	BatchSize   int        `json:"batch_size"`
	Published   int        `json:"published"`
	Upcoming    int        `json:"upcoming"`
	NextRelease *time.Time `json:"next_release,omitempty"`
	Stale       bool       `json:"stale,omitempty"`
}

func (s *Server) registerResources() {
	s.registerCategoriesResource()
	s.registerScheduleResource()
}

func (s *Server) registerCategoriesResource() {
	s.mcpServer.AddResource(
		mcp.Resource{
			URI:         categoriesURI,
			Name:        "Article Categories",
			Description: "Categories of the published articles in first-appearance order, with the number of published articles in each",
			MIMEType:    "application/json",
		},
		s.handleCategoriesResource,
	)
}

func (s *Server) handleCategoriesResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	names := snap.Feed.Categories(now)
	categories := make([]CategoryCount, 0, len(names))
	for _, name := range names {
		categories = append(categories, CategoryCount{
			Name:     name,
			Articles: len(snap.Feed.ByCategory(name, now)),
		})
	}

	return resourceJSON(request.Params.URI, ResourceData{
		Metadata: ResourceMetadata{
			Timestamp:   now,
			Count:       len(categories),
			ResourceURI: categoriesURI,
		},
		Data:  categories,
		Links: map[string]string{"schedule": scheduleURI},
	})
}

func (s *Server) registerScheduleResource() {
	s.mcpServer.AddResource(
		mcp.Resource{
			URI:         scheduleURI,
			Name:        "Release Schedule",
			Description: "Drip-feed release state: start date, articles per day, how many are published and upcoming, and the next release time",
			MIMEType:    "application/json",
		},
		s.handleScheduleResource,
	)
}

func (s *Server) handleScheduleResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	cfg := snap.Feed.Config()
	data := ScheduleData{
		StartDate: cfg.StartDate,
		BatchSize: cfg.BatchSize,
		Published: len(snap.Feed.Published(now)),
		Upcoming:  snap.Feed.UpcomingCount(now),
		Stale:     snap.Stale,
	}
	if next, ok := snap.Feed.NextRelease(now); ok {
		data.NextRelease = &next
	}

	return resourceJSON(request.Params.URI, ResourceData{
		Metadata: ResourceMetadata{
			Timestamp:   now,
			Count:       data.Published,
			ResourceURI: scheduleURI,
		},
		Data:  data,
		Links: map[string]string{"categories": categoriesURI},
	})
}

func resourceJSON(uri string, data ResourceData) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource data: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
