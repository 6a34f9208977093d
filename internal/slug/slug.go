// ABOUTME: URL-safe slug normalization for article titles and slug columns
// ABOUTME: Registry disambiguates collisions within one feed build by numeric suffixing

package slug

import (
	"regexp"
	"strconv"
	"strings"
)

// Fallback is the token used when normalization leaves nothing behind.
const Fallback = "post"

var (
	quotePattern    = regexp.MustCompile("['\"‘’“”]")
	nonTokenPattern = regexp.MustCompile(`[^a-z0-9]+`)
)

// Normalize lower-cases and trims text, drops straight and curly quotes,
// collapses every run outside [a-z0-9] into one hyphen and trims hyphens.
func Normalize(text string) string {
	s := strings.TrimSpace(strings.ToLower(text))
	s = quotePattern.ReplaceAllString(s, "")
	s = nonTokenPattern.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return Fallback
	}
	return s
}

// FromRow picks the slug source for a row: a non-blank slug column wins,
// otherwise the title.
func FromRow(slugColumn, title string) string {
	if strings.TrimSpace(slugColumn) != "" {
		return Normalize(slugColumn)
	}
	return Normalize(title)
}

// Registry tracks tokens handed out during a single feed build.
// The zero value is not usable; call NewRegistry.
type Registry struct {
	used map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{used: make(map[string]struct{})}
}

// Disambiguate returns token unchanged if unused, otherwise the first free
// token-N with N >= 2. The returned token is recorded as used.
func (r *Registry) Disambiguate(token string) string {
	if token == "" {
		token = Fallback
	}
	candidate := token
	for i := 2; r.has(candidate); i++ {
		candidate = token + "-" + strconv.Itoa(i)
	}
	r.used[candidate] = struct{}{}
	return candidate
}

// Len returns the number of recorded tokens.
func (r *Registry) Len() int {
	return len(r.used)
}

func (r *Registry) has(token string) bool {
	_, ok := r.used[token]
	return ok
}
