// ABOUTME: JSON response shapes for the article API
// ABOUTME: Maps feed articles to list summaries and detail views

package api

import (
	"time"

	"github.com/harper/smilefeed/internal/content"
	"github.com/harper/smilefeed/internal/models"
	"github.com/harper/smilefeed/internal/timeutil"
)

// ArticleSummary is an article as shown in listings.
type ArticleSummary struct {
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	PublishDate   time.Time `json:"publish_date"`
	Date          string    `json:"date"`
	Excerpt       string    `json:"excerpt"`
	FeaturedImage string    `json:"featured_image,omitempty"`
}

// ArticleDetail is a single article with its cleaned body.
type ArticleDetail struct {
	ArticleSummary
	Content         string   `json:"content"`
	Images          []string `json:"images"`
	MetaTitle       string   `json:"meta_title,omitempty"`
	MetaDescription string   `json:"meta_description,omitempty"`
	SchemaMarkup    string   `json:"schema_markup,omitempty"`
}

// ArticleListResponse is returned by GET /api/articles.
type ArticleListResponse struct {
	Articles    []ArticleSummary `json:"articles"`
	Count       int              `json:"count"`
	Upcoming    int              `json:"upcoming"`
	NextRelease *time.Time       `json:"next_release,omitempty"`
	Stale       bool             `json:"stale,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// ArticleResponse is returned by GET /api/articles/{slug}.
type ArticleResponse struct {
	Article        ArticleDetail        `json:"article"`
	Related        []ArticleSummary     `json:"related"`
	FurtherReading []models.ReadingLink `json:"further_reading"`
}

// CategoriesResponse is returned by GET /api/categories.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status   string    `json:"status"`
	Articles int       `json:"articles"`
	LoadedAt time.Time `json:"loaded_at"`
	Stale    bool      `json:"stale,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func toSummary(a models.Article) ArticleSummary {
	return ArticleSummary{
		Slug:          a.Slug,
		Title:         a.Title,
		Category:      a.Category,
		PublishDate:   a.PublishDate,
		Date:          timeutil.FormatLong(a.PublishDate),
		Excerpt:       content.Excerpt(a.CleanedContent, content.DefaultExcerptLength),
		FeaturedImage: a.FeaturedImageURL,
	}
}

func toSummaries(articles []models.Article) []ArticleSummary {
	out := make([]ArticleSummary, len(articles))
	for i, a := range articles {
		out[i] = toSummary(a)
	}
	return out
}

func toDetail(a models.Article) ArticleDetail {
	images := a.ImageURLs
	if images == nil {
		images = []string{}
	}
	return ArticleDetail{
		ArticleSummary:  toSummary(a),
		Content:         a.CleanedContent,
		Images:          images,
		MetaTitle:       a.MetaTitle,
		MetaDescription: a.MetaDescription,
		SchemaMarkup:    a.SchemaMarkup,
	}
}
