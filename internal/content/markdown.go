// ABOUTME: Markdown conversion of cleaned article HTML for terminal and file output
// ABOUTME: Passes plain text through and falls back to the input when conversion fails

package content

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

var htmlTagPattern = regexp.MustCompile(`(?i)<\s*(p|div|span|a|br|img|h[1-6]|ul|ol|li|table|tr|td|th|strong|em|b|i|code|pre|blockquote|figure|section)[^>]*>`)

// IsHTML reports whether s looks like HTML rather than plain text.
func IsHTML(s string) bool {
	if strings.Contains(s, "<!DOCTYPE") || strings.Contains(s, "<html") {
		return true
	}
	return htmlTagPattern.MatchString(s)
}

// ToMarkdown converts article HTML to Markdown. Plain text is returned
// unchanged, and so is HTML the converter rejects.
func ToMarkdown(s string) string {
	if s == "" || !IsHTML(s) {
		return s
	}

	markdown, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return s
	}
	return strings.TrimSpace(markdown)
}

// ArticleMarkdown renders cleaned article HTML as Markdown, prefixed with
// the featured image when there is one.
func ArticleMarkdown(cleaned, featuredImage, title string) string {
	var b strings.Builder
	if featuredImage != "" {
		b.WriteString("![")
		b.WriteString(title)
		b.WriteString("](")
		b.WriteString(featuredImage)
		b.WriteString(")\n\n")
	}
	b.WriteString(ToMarkdown(cleaned))
	return strings.TrimSpace(b.String())
}
