// ABOUTME: Image URL extraction from article HTML
// ABOUTME: Collects <img src> values and bare image links, then picks the featured image

package content

import (
	stdhtml "html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ImagePolicy selects which extracted image becomes the featured image.
type ImagePolicy string

const (
	// FeaturedLast picks the last image in extraction order.
	FeaturedLast ImagePolicy = "last"
	// FeaturedFirst picks the first image in extraction order.
	FeaturedFirst ImagePolicy = "first"
)

// Valid reports whether p is a known policy.
func (p ImagePolicy) Valid() bool {
	return p == FeaturedLast || p == FeaturedFirst
}

// bareImagePattern matches http(s) links ending in an image extension.
// A trailing query string is consumed but not part of group 1, so bare
// links are recorded without it.
var bareImagePattern = regexp.MustCompile(`(?i)(https?://[^\s"'<>]+\.(?:png|jpe?g|webp|gif))(?:\?[^\s"'<>]*)?`)

// ExtractImageURLs returns image URLs found in html in first-occurrence order
// without duplicates: every <img> src first, then bare image links.
func ExtractImageURLs(html string) []string {
	if strings.TrimSpace(html) == "" {
		return nil
	}

	var urls []string
	seen := make(map[string]struct{})
	add := func(u string) {
		u = strings.TrimSpace(u)
		if u == "" {
			return
		}
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err == nil {
		doc.Find("img").Each(func(_ int, s *goquery.Selection) {
			if src, ok := s.Attr("src"); ok {
				add(src)
			}
		})
	}

	for _, m := range bareImagePattern.FindAllStringSubmatch(html, -1) {
		add(stdhtml.UnescapeString(m[1]))
	}

	return urls
}

// Featured returns the featured image for urls under policy, or "" if none.
// Unknown policies fall back to FeaturedLast.
func Featured(urls []string, policy ImagePolicy) string {
	if len(urls) == 0 {
		return ""
	}
	if policy == FeaturedFirst {
		return urls[0]
	}
	return urls[len(urls)-1]
}
