// ABOUTME: Article model derived from a validated CSV row by the feed builder
// ABOUTME: Carries the derived slug, drip-feed publish date, featured image and cleaned markup

package models

import "time"

// UncategorizedCategory is used for rows with a blank category.
const UncategorizedCategory = "uncategorized"

// Article is a derived, read-only article record. Articles are rebuilt in
// full on every feed build and never mutated afterwards.
type Article struct {
	Title            string
	Content          string // raw HTML
	CleanedContent   string // HTML with presentation-only markup removed
	Category         string
	Slug             string
	SequenceIndex    int
	PublishDate      time.Time
	FeaturedImageURL string // empty when the content has no images
	ImageURLs        []string

	MetaTitle       string
	MetaDescription string
	SchemaMarkup    string
	Status          string
	FurtherReading  string
}

// HasFeaturedImage reports whether a featured image was found.
func (a *Article) HasFeaturedImage() bool {
	return a.FeaturedImageURL != ""
}

// IsVisibleAt reports whether the article is published as of now.
func (a *Article) IsVisibleAt(now time.Time) bool {
	return !a.PublishDate.After(now)
}
