// ABOUTME: Tests for visibility-aware feed selectors
// ABOUTME: Covers slug lookup, related padding, search, categories and the publish boundary

package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sixArticles builds two daily batches of three: a, b, c on Feb 10 and
// d, e, f on Feb 11.
func sixArticles(t *testing.T) *Feed {
	t.Helper()
	return mustBuild(t, sheet(t,
		[4]string{"Aligner Care", "<p>Clean your <strong>trays</strong> daily.</p>", "Care", "a"},
		[4]string{"Invisalign Cost", "<p>Prices from £1,500.</p>", "Pricing", "b"},
		[4]string{"Braces Compared", "<p>Metal versus clear.</p>", "Guide", "c"},
		[4]string{"Cleaning Tablets", "<p>Fizzing tablets help.</p>", "Care", "d"},
		[4]string{"Teen Treatment", "<p>Compliance indicators.</p>", "Guide", "e"},
		[4]string{"Finance Options", "<p>Spread the cost.</p>", "Pricing", "f"},
	), testConfig())
}

func TestPublishedBoundary(t *testing.T) {
	f := sixArticles(t)

	before := day(11).Add(-time.Nanosecond)
	assert.Equal(t, []string{"a", "b", "c"}, slugs(f.Published(before)))
	assert.Equal(t, 3, f.UpcomingCount(before))

	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, slugs(f.Published(day(11))))
	assert.Equal(t, 0, f.UpcomingCount(day(11)))

	assert.Empty(t, f.Published(day(10).Add(-time.Second)))
}

func TestFutureArticlesUnreachable(t *testing.T) {
	f := sixArticles(t)
	now := day(10).Add(12 * time.Hour)

	_, err := f.FindBySlug("d", now)
	assert.ErrorIs(t, err, ErrNotFound)

	a, err := f.FindBySlug("a", now)
	require.NoError(t, err)
	for _, r := range f.Related(a, 10, now) {
		assert.NotEqual(t, "d", r.Slug)
		assert.True(t, r.IsVisibleAt(now))
	}

	assert.Empty(t, f.Search("tablets", now))
	assert.Equal(t, []string{"b"}, slugs(f.ByCategory("Pricing", now)))
	assert.Equal(t, []string{"Care", "Pricing", "Guide"}, f.Categories(now))

	later := day(11)
	got, err := f.FindBySlug("d", later)
	require.NoError(t, err)
	assert.Equal(t, "Cleaning Tablets", got.Title)
	assert.Equal(t, []string{"d"}, slugs(f.Search("tablets", later)))
}

func TestFindBySlugMiss(t *testing.T) {
	f := sixArticles(t)
	_, err := f.FindBySlug("does-not-exist", day(20))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRelatedPadding(t *testing.T) {
	f := mustBuild(t, sheet(t,
		[4]string{"Target", "", "Care", "target"},
		[4]string{"Other One", "", "Pricing", "o1"},
		[4]string{"Same", "", "Care", "same"},
		[4]string{"Other Two", "", "Guide", "o2"},
		[4]string{"Other Three", "", "Pricing", "o3"},
	), testConfig())
	now := day(20)

	target, err := f.FindBySlug("target", now)
	require.NoError(t, err)

	related := f.Related(target, 3, now)
	assert.Equal(t, []string{"same", "o1", "o2"}, slugs(related))
}

func TestRelatedLimits(t *testing.T) {
	f := sixArticles(t)
	now := day(20)
	a, err := f.FindBySlug("a", now)
	require.NoError(t, err)

	all := f.Related(a, 100, now)
	assert.Len(t, all, 5)
	assert.Equal(t, []string{"d", "b", "c", "e", "f"}, slugs(all))

	assert.Empty(t, f.Related(a, 0, now))
	assert.Len(t, f.Related(a, 1, now), 1)
}

func TestSearch(t *testing.T) {
	f := sixArticles(t)
	now := day(20)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty returns everything", "", []string{"a", "b", "c", "d", "e", "f"}},
		{"whitespace returns everything", "   ", []string{"a", "b", "c", "d", "e", "f"}},
		{"title match ignores case", "INVISALIGN", []string{"b"}},
		{"content match", "fizzing", []string{"d"}},
		{"category match", "pricing", []string{"b", "f"}},
		{"markup is not searchable", "strong", nil},
		{"text inside markup is", "trays", []string{"a"}},
		{"no match", "retainer", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.Search(tt.query, now)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, slugs(got))
		})
	}
}

func TestByCategory(t *testing.T) {
	f := sixArticles(t)
	now := day(20)

	assert.Equal(t, []string{"a", "d"}, slugs(f.ByCategory("care", now)))
	assert.Len(t, f.ByCategory("all", now), 6)
	assert.Len(t, f.ByCategory("", now), 6)
	assert.Empty(t, f.ByCategory("Nope", now))
}

func TestNextRelease(t *testing.T) {
	f := sixArticles(t)

	next, ok := f.NextRelease(day(10))
	require.True(t, ok)
	assert.True(t, next.Equal(day(11)))

	_, ok = f.NextRelease(day(11))
	assert.False(t, ok)
}

func TestNilFeed(t *testing.T) {
	var f *Feed
	now := day(20)

	assert.Equal(t, 0, f.Len())
	assert.Empty(t, f.Published(now))
	assert.Empty(t, f.Search("", now))
	assert.Empty(t, f.Categories(now))
	_, err := f.FindBySlug("a", now)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, Empty().Len())
}

func TestSelectorsReturnCopies(t *testing.T) {
	f := mustBuild(t, sheet(t,
		[4]string{"Hero", `<img src="https://a.test/A.png"><img src="https://a.test/B.png">`, "Care", "hero"},
	), testConfig())

	all := f.Articles()
	require.Len(t, all, 1)
	all[0].Title = "changed"
	all[0].ImageURLs[0] = "https://evil.test/x.png"

	published := f.Published(day(10))
	published[0].ImageURLs[1] = "https://evil.test/y.png"

	found, err := f.FindBySlug("hero", day(10))
	require.NoError(t, err)
	found.ImageURLs[0] = "https://evil.test/z.png"

	again, err := f.FindBySlug("hero", day(10))
	require.NoError(t, err)
	assert.Equal(t, "Hero", again.Title)
	assert.Equal(t, []string{"https://a.test/A.png", "https://a.test/B.png"}, again.ImageURLs)
	assert.Equal(t, "https://a.test/B.png", again.FeaturedImageURL)
}
