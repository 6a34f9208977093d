// ABOUTME: Shared fixtures for feed tests
// ABOUTME: Builds CSV sheets with encoding/csv so quoting in fixtures is always valid

package feed

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/harper/smilefeed/internal/models"
)

var testHeader = []string{"Article Title", "Article Content", "wp_category", "Slug", "Meta Title", "Meta Description", "Schema Markup", "Status"}

// sheet renders rows under the standard header. Each row is
// title, content, category, slug; the remaining columns are filled in.
func sheet(t *testing.T, rows ...[4]string) string {
	t.Helper()
	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(testHeader); err != nil {
		t.Fatalf("write header: %v", err)
	}
	for _, r := range rows {
		record := []string{r[0], r[1], r[2], r[3], r[0] + " | Smile", "desc", "{}", "Published"}
		if err := w.Write(record); err != nil {
			t.Fatalf("write row: %v", err)
		}
	}
	w.Flush()
	return b.String()
}

func day(d int) time.Time {
	return time.Date(2026, time.February, d, 0, 0, 0, 0, time.Local)
}

func testConfig() Config {
	return Config{StartDate: day(10), BatchSize: 3}
}

func mustBuild(t *testing.T, csvText string, cfg Config) *Feed {
	t.Helper()
	f, err := Build(csvText, cfg)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return f
}

func slugs(articles []models.Article) []string {
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = a.Slug
	}
	return out
}
