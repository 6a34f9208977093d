// ABOUTME: Presentation cleanup for trusted article HTML
// ABOUTME: Drops bold tags, inline styles, fixed image sizes and runs of line breaks

package content

import (
	"regexp"
	"strings"
)

var (
	emphasisTagPattern = regexp.MustCompile(`(?i)</?(?:strong|b)\b[^>]*>`)

	// tagPattern matches a well-formed opening tag; attrPattern matches one
	// attribute inside it, quoted values included.
	tagPattern  = regexp.MustCompile(`<[a-zA-Z][a-zA-Z0-9:-]*(?:\s+[^\s"'<>/=]+(?:\s*=\s*(?:"[^"]*"|'[^']*'|[^\s"'<>]+))?)*\s*/?>`)
	attrPattern = regexp.MustCompile(`\s+([^\s"'<>/=]+)(?:\s*=\s*(?:"[^"]*"|'[^']*'|[^\s"'<>]+))?`)

	lineBreakRunPattern = regexp.MustCompile(`(?i)(?:<br\b[^>]*>\s*){3,}`)
)

// CleanMarkup removes presentation-only markup from trusted HTML:
//  1. <strong>/<b> tags (inner text kept)
//  2. style attributes
//  3. width and height attributes
//  4. runs of three or more <br> collapsed to two
//
// Attributes are only touched inside well-formed tags, never in text.
// This is not a sanitizer. Passes repeat until nothing changes, so the
// result is stable under repeated cleaning. A pass that changes anything
// makes the string shorter, so the loop ends.
func CleanMarkup(html string) string {
	h := html
	for {
		next := cleanOnce(h)
		if next == h {
			return h
		}
		h = next
	}
}

func cleanOnce(h string) string {
	h = emphasisTagPattern.ReplaceAllString(h, "")
	h = stripAttributes(h, "style")
	h = stripAttributes(h, "width", "height")
	h = lineBreakRunPattern.ReplaceAllString(h, "<br><br>")
	return h
}

// stripAttributes removes the named attributes from every well-formed tag.
func stripAttributes(h string, names ...string) string {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	return tagPattern.ReplaceAllStringFunc(h, func(tag string) string {
		return attrPattern.ReplaceAllStringFunc(tag, func(attr string) string {
			m := attrPattern.FindStringSubmatch(attr)
			if m != nil && drop[strings.ToLower(m[1])] {
				return ""
			}
			return attr
		})
	})
}
