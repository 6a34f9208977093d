// ABOUTME: Feed type with visibility-aware selectors over built articles
// ABOUTME: Provides listing, slug lookup, related articles, search and category views

package feed

import (
	"errors"
	"strings"
	"time"

	"github.com/harper/smilefeed/internal/content"
	"github.com/harper/smilefeed/internal/models"
	"github.com/harper/smilefeed/internal/schedule"
)

// ErrNotFound is returned when no visible article has the requested slug.
var ErrNotFound = errors.New("article not found")

// CategoryAll selects every category in ByCategory.
const CategoryAll = "all"

// Feed is the ordered result of one Build. Its articles are only reachable
// through accessors that return copies, so it is never modified after Build
// returns and is safe to share between goroutines. Every selector takes
// the evaluation time and only ever returns articles published by then.
// A nil *Feed behaves as an empty feed.
type Feed struct {
	Stats BuildStats

	articles   []models.Article

	config     Config
	searchText []string
}

// Empty returns a feed with no articles.
func Empty() *Feed {
	return &Feed{}
}

// Config returns the configuration the feed was built with.
func (f *Feed) Config() Config {
	if f == nil {
		return Config{}
	}
	return f.config
}

// Articles returns a copy of every built article, published or not, in
// feed order.
func (f *Feed) Articles() []models.Article {
	if f == nil || len(f.articles) == 0 {
		return nil
	}
	out := make([]models.Article, len(f.articles))
	for i, a := range f.articles {
		out[i] = cloneArticle(a)
	}
	return out
}

// Len returns the number of built articles, published or not.
func (f *Feed) Len() int {
	if f == nil {
		return 0
	}
	return len(f.articles)
}

// Published returns the articles visible at now, in feed order.
func (f *Feed) Published(now time.Time) []models.Article {
	if f == nil {
		return nil
	}
	out := make([]models.Article, 0, len(f.articles))
	for _, a := range f.articles {
		if a.IsVisibleAt(now) {
			out = append(out, cloneArticle(a))
		}
	}
	return out
}

// UpcomingCount returns how many built articles are not yet visible at now.
func (f *Feed) UpcomingCount(now time.Time) int {
	if f == nil {
		return 0
	}
	n := 0
	for _, a := range f.articles {
		if !a.IsVisibleAt(now) {
			n++
		}
	}
	return n
}

// NextRelease returns when the next batch goes live after now.
func (f *Feed) NextRelease(now time.Time) (time.Time, bool) {
	if f == nil {
		return time.Time{}, false
	}
	return schedule.NextRelease(len(f.articles), f.config.StartDate, f.config.BatchSize, now)
}

// FindBySlug returns the visible article with slug, or ErrNotFound.
func (f *Feed) FindBySlug(slug string, now time.Time) (models.Article, error) {
	if f != nil {
		for _, a := range f.articles {
			if a.Slug == slug && a.IsVisibleAt(now) {
				return cloneArticle(a), nil
			}
		}
	}
	return models.Article{}, ErrNotFound
}

// Related returns up to limit visible articles other than article: same
// category first, then any other category, both in feed order.
func (f *Feed) Related(article models.Article, limit int, now time.Time) []models.Article {
	if f == nil || limit <= 0 {
		return nil
	}

	published := f.Published(now)
	out := make([]models.Article, 0, limit)
	taken := make(map[string]bool, limit)

	pick := func(sameCategory bool) {
		for _, a := range published {
			if len(out) >= limit {
				return
			}
			if a.Slug == article.Slug || taken[a.Slug] {
				continue
			}
			if (a.Category == article.Category) != sameCategory {
				continue
			}
			taken[a.Slug] = true
			out = append(out, a)
		}
	}
	pick(true)
	pick(false)

	return out
}

// Search returns visible articles whose title, plain-text content or
// category contains query, ignoring case. An empty query returns every
// visible article.
func (f *Feed) Search(query string, now time.Time) []models.Article {
	if f == nil {
		return nil
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return f.Published(now)
	}

	var out []models.Article
	for i, a := range f.articles {
		if !a.IsVisibleAt(now) {
			continue
		}
		if strings.Contains(f.searchTextAt(i), q) {
			out = append(out, cloneArticle(a))
		}
	}
	return out
}

// ByCategory returns visible articles in category. An empty category or
// CategoryAll returns every visible article.
func (f *Feed) ByCategory(category string, now time.Time) []models.Article {
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, CategoryAll) {
		return f.Published(now)
	}

	var out []models.Article
	for _, a := range f.Published(now) {
		if strings.EqualFold(a.Category, category) {
			out = append(out, a)
		}
	}
	return out
}

// Categories returns the distinct categories of visible articles in
// first-occurrence order.
func (f *Feed) Categories(now time.Time) []string {
	var out []string
	seen := make(map[string]bool)
	for _, a := range f.Published(now) {
		if seen[a.Category] {
			continue
		}
		seen[a.Category] = true
		out = append(out, a.Category)
	}
	return out
}

// searchTextAt returns the lower-cased searchable text of article i,
// computing it if Build did not.
func (f *Feed) searchTextAt(i int) string {
	if i < len(f.searchText) {
		return f.searchText[i]
	}
	return searchText(f.articles[i])
}

// cloneArticle copies a so callers cannot reach the feed's image slices.
func cloneArticle(a models.Article) models.Article {
	if a.ImageURLs != nil {
		a.ImageURLs = append([]string(nil), a.ImageURLs...)
	}
	return a
}

func searchText(a models.Article) string {
	return strings.ToLower(a.Title + "\n" + content.PlainText(a.Content) + "\n" + a.Category)
}
