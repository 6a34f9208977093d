// ABOUTME: Further-reading links attached to article detail views
// ABOUTME: Picks a stable, per-article slice of a fixed reference pool using FNV-1a

package feed

import (
	"hash/fnv"
	"net/url"
	"strings"

	"github.com/harper/smilefeed/internal/models"
	"github.com/harper/smilefeed/internal/slug"
)

// DefaultReadingCount is the number of further-reading links per article.
const DefaultReadingCount = 3

// ReadingPool is the reference list further-reading links are drawn from.
var ReadingPool = []models.ReadingLink{
	{URL: "https://www.invisalign.com", Label: "Invisalign (official site)"},
	{URL: "https://pubmed.ncbi.nlm.nih.gov/?term=invisalign", Label: "PubMed: Invisalign research"},
	{URL: "https://pubmed.ncbi.nlm.nih.gov/?term=clear+aligners", Label: "PubMed: Clear aligners research"},
	{URL: "https://www.mouthhealthy.org/all-topics-a-z/orthodontics", Label: "MouthHealthy (ADA): Orthodontics"},
	{URL: "https://www.nhs.uk/conditions/orthodontics/", Label: "NHS: Orthodontics"},
	{URL: "https://www.mayoclinic.org/tests-procedures/braces/about/pac-20384670", Label: "Mayo Clinic: Braces overview"},
	{URL: "https://www.cdc.gov/oralhealth", Label: "CDC: Oral health"},
	{URL: "https://www.ajodo.org", Label: "AJODO (orthodontic journal)"},
}

// FurtherReading returns up to count links for article. Links listed in the
// article's own Further Reading column come first; the rest is a run of
// consecutive pool entries starting at hash(slug) mod len(pool).
func FurtherReading(article models.Article, count int) []models.ReadingLink {
	if count <= 0 {
		return nil
	}

	out := make([]models.ReadingLink, 0, count)
	seen := make(map[string]bool)
	add := func(l models.ReadingLink) {
		if len(out) < count && !seen[l.URL] {
			seen[l.URL] = true
			out = append(out, l)
		}
	}

	for _, l := range ParseReadingLinks(article.FurtherReading) {
		add(l)
	}

	pool := ReadingPool
	if len(pool) == 0 {
		return out
	}
	key := article.Slug
	if key == "" {
		key = slug.Fallback
	}
	start := int(hashString(key) % uint32(len(pool)))
	for i := 0; i < len(pool) && len(out) < count; i++ {
		add(pool[(start+i)%len(pool)])
	}
	return out
}

// ParseReadingLinks reads links from a Further Reading cell. Entries are
// separated by newlines or semicolons and are either a bare URL or
// "Label | URL". Entries without an absolute http(s) URL are ignored.
func ParseReadingLinks(cell string) []models.ReadingLink {
	var out []models.ReadingLink
	fields := strings.FieldsFunc(cell, func(r rune) bool { return r == '\n' || r == ';' })
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		label, raw := "", field
		if i := strings.LastIndex(field, "|"); i >= 0 {
			label = strings.TrimSpace(field[:i])
			raw = strings.TrimSpace(field[i+1:])
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			continue
		}
		if label == "" {
			label = u.Host
		}
		out = append(out, models.ReadingLink{URL: raw, Label: label})
	}
	return out
}

func hashString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}
