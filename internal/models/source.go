// ABOUTME: Source model representing a fetched CSV payload with HTTP caching support
// ABOUTME: Tracks conditional request headers (ETag, Last-Modified) and the cached body

package models

import "time"

// Source is the last successfully fetched payload of a CSV asset.
type Source struct {
	URL          string
	Body         []byte
	ETag         *string
	LastModified *string
	FetchedAt    time.Time
}

// NewSource creates a Source for url fetched now.
func NewSource(url string, body []byte) *Source {
	return &Source{
		URL:       url,
		Body:      body,
		FetchedAt: time.Now(),
	}
}

// SetCacheHeaders updates the source's HTTP caching headers for conditional requests
func (s *Source) SetCacheHeaders(etag, lastModified string) {
	if etag != "" {
		s.ETag = &etag
	}
	if lastModified != "" {
		s.LastModified = &lastModified
	}
}

// ReadingLink is an external reference shown under an article.
type ReadingLink struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}
