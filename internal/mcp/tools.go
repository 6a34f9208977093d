// ABOUTME: MCP tool definitions and handlers for article operations
// ABOUTME: Provides tools for listing, reading, relating and searching published articles

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/smilefeed/internal/content"
	"github.com/harper/smilefeed/internal/feed"
	"github.com/harper/smilefeed/internal/models"
	"github.com/harper/smilefeed/internal/timeutil"
)

// Type definitions for input/output structures

type ListArticlesInput struct {
	Category *string `json:"category,omitempty"`
	Limit    *int    `json:"limit,omitempty"`
}

type ArticleOutput struct {
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	PublishDate   time.Time `json:"publish_date"`
	Date          string    `json:"date"`
	Excerpt       string    `json:"excerpt"`
	FeaturedImage string    `json:"featured_image,omitempty"`
}

type ListArticlesOutput struct {
	Articles []ArticleOutput `json:"articles"`
	Count    int             `json:"count"`
	Upcoming int             `json:"upcoming"`
	Filters  map[string]any  `json:"filters"`
}

type GetArticleInput struct {
	Slug string `json:"slug"`
}

type GetArticleOutput struct {
	ArticleOutput
	Content         string               `json:"content"`
	Images          []string             `json:"images"`
	MetaTitle       string               `json:"meta_title,omitempty"`
	MetaDescription string               `json:"meta_description,omitempty"`
	Related         []string             `json:"related"`
	FurtherReading  []models.ReadingLink `json:"further_reading"`
}

type RelatedArticlesInput struct {
	Slug  string `json:"slug"`
	Limit *int   `json:"limit,omitempty"`
}

type RelatedArticlesOutput struct {
	Slug     string          `json:"slug"`
	Articles []ArticleOutput `json:"articles"`
	Count    int             `json:"count"`
}

type SearchArticlesInput struct {
	Query    string  `json:"query"`
	Category *string `json:"category,omitempty"`
	Limit    *int    `json:"limit,omitempty"`
}

type SearchArticlesOutput struct {
	Query    string          `json:"query"`
	Articles []ArticleOutput `json:"articles"`
	Count    int             `json:"count"`
}

func (s *Server) registerTools() {
	s.registerListArticlesTool()
	s.registerGetArticleTool()
	s.registerRelatedArticlesTool()
	s.registerSearchArticlesTool()
}

func (s *Server) registerListArticlesTool() {
	tool := mcp.Tool{
		Name:        "list_articles",
		Description: "List the articles published so far, in release order. Articles are drip-released a few per day, so unreleased ones are never returned. Filter by category (case-insensitive, 'all' for every category) and cap results with limit. Use get_article to read one in full.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"category": map[string]interface{}{
					"type":        "string",
					"description": "Optional category to filter by. Example: 'Orthodontics'",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of articles to return. If omitted, returns all. Example: 10",
				},
			},
		},
	}
	s.mcpServer.AddTool(tool, s.handleListArticles)
}

func (s *Server) registerGetArticleTool() {
	tool := mcp.Tool{
		Name:        "get_article",
		Description: "Get a published article by slug. Content is converted from HTML to Markdown and returned with its images, related article slugs and further reading links.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"slug": map[string]interface{}{
					"type":        "string",
					"description": "The article slug. Example: 'how-much-do-braces-cost'",
				},
			},
			Required: []string{"slug"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleGetArticle)
}

func (s *Server) registerRelatedArticlesTool() {
	tool := mcp.Tool{
		Name:        "related_articles",
		Description: "List published articles related to the given one: same category first, then other articles in release order. The article itself is never included.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"slug": map[string]interface{}{
					"type":        "string",
					"description": "The slug of the article to find related articles for.",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of related articles (default 3).",
				},
			},
			Required: []string{"slug"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleRelatedArticles)
}

func (s *Server) registerSearchArticlesTool() {
	tool := mcp.Tool{
		Name:        "search_articles",
		Description: "Case-insensitive substring search over the title, text and category of published articles. An empty query returns every published article.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Text to search for. Example: 'retainer'",
				},
				"category": map[string]interface{}{
					"type":        "string",
					"description": "Optional category to narrow the results.",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results.",
				},
			},
			Required: []string{"query"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleSearchArticles)
}

// Tool Handlers

func (s *Server) handleListArticles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ListArticlesInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if err := checkLimit(input.Limit); err != nil {
		return nil, err
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	category := deref(input.Category)
	articles := applyLimit(snap.Feed.ByCategory(category, now), input.Limit)

	filters := make(map[string]any)
	if category != "" {
		filters["category"] = category
	}
	if input.Limit != nil {
		filters["limit"] = *input.Limit
	}

	return jsonResult(ListArticlesOutput{
		Articles: toOutputs(articles),
		Count:    len(articles),
		Upcoming: snap.Feed.UpcomingCount(now),
		Filters:  filters,
	})
}

func (s *Server) handleGetArticle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input GetArticleInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if strings.TrimSpace(input.Slug) == "" {
		return nil, fmt.Errorf("slug is required")
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	article, err := snap.Feed.FindBySlug(input.Slug, now)
	if err != nil {
		return nil, notFound(err, input.Slug)
	}

	images := article.ImageURLs
	if images == nil {
		images = []string{}
	}
	related := snap.Feed.Related(article, s.related, now)
	relatedSlugs := make([]string, len(related))
	for i, r := range related {
		relatedSlugs[i] = r.Slug
	}

	return jsonResult(GetArticleOutput{
		ArticleOutput:   toOutput(article),
		Content:         content.ToMarkdown(article.CleanedContent),
		Images:          images,
		MetaTitle:       article.MetaTitle,
		MetaDescription: article.MetaDescription,
		Related:         relatedSlugs,
		FurtherReading:  feed.FurtherReading(article, feed.DefaultReadingCount),
	})
}

func (s *Server) handleRelatedArticles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input RelatedArticlesInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if err := checkLimit(input.Limit); err != nil {
		return nil, err
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	article, err := snap.Feed.FindBySlug(input.Slug, now)
	if err != nil {
		return nil, notFound(err, input.Slug)
	}

	limit := s.related
	if input.Limit != nil {
		limit = *input.Limit
	}
	related := snap.Feed.Related(article, limit, now)

	return jsonResult(RelatedArticlesOutput{
		Slug:     article.Slug,
		Articles: toOutputs(related),
		Count:    len(related),
	})
}

func (s *Server) handleSearchArticles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input SearchArticlesInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if err := checkLimit(input.Limit); err != nil {
		return nil, err
	}

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	results := snap.Feed.Search(input.Query, s.now())
	if category := deref(input.Category); category != "" && !strings.EqualFold(category, feed.CategoryAll) {
		filtered := results[:0:0]
		for _, a := range results {
			if strings.EqualFold(a.Category, category) {
				filtered = append(filtered, a)
			}
		}
		results = filtered
	}
	results = applyLimit(results, input.Limit)

	return jsonResult(SearchArticlesOutput{
		Query:    input.Query,
		Articles: toOutputs(results),
		Count:    len(results),
	})
}

// Helpers

func toOutput(a models.Article) ArticleOutput {
	return ArticleOutput{
		Slug:          a.Slug,
		Title:         a.Title,
		Category:      a.Category,
		PublishDate:   a.PublishDate,
		Date:          timeutil.FormatLong(a.PublishDate),
		Excerpt:       content.Excerpt(a.CleanedContent, content.DefaultExcerptLength),
		FeaturedImage: a.FeaturedImageURL,
	}
}

func toOutputs(articles []models.Article) []ArticleOutput {
	out := make([]ArticleOutput, 0, len(articles))
	for _, a := range articles {
		out = append(out, toOutput(a))
	}
	return out
}

func checkLimit(limit *int) error {
	if limit != nil && *limit < 0 {
		return fmt.Errorf("limit must be non-negative, got %d", *limit)
	}
	return nil
}

func applyLimit(articles []models.Article, limit *int) []models.Article {
	if limit == nil || *limit >= len(articles) {
		return articles
	}
	return articles[:*limit]
}

func notFound(err error, slug string) error {
	if errors.Is(err, feed.ErrNotFound) {
		return fmt.Errorf("%w: %s", feed.ErrNotFound, slug)
	}
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output: %w", err)
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
