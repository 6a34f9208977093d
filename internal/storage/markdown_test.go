// ABOUTME: Tests for the markdown article exporter
// ABOUTME: Verifies file naming, frontmatter fields and rendered bodies

package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harper/smilefeed/internal/models"
)

func testArticle(slug string) models.Article {
	return models.Article{
		Title:            "Braces: Cost & Care",
		Content:          `<p><strong>Hi</strong></p><img src="https://cdn.example.com/a.png">`,
		CleanedContent:   `<p>Hi</p><img src="https://cdn.example.com/a.png">`,
		Category:         "Care",
		Slug:             slug,
		SequenceIndex:    4,
		PublishDate:      time.Date(2026, 2, 11, 0, 0, 0, 0, time.Local),
		FeaturedImageURL: "https://cdn.example.com/a.png",
		ImageURLs:        []string{"https://cdn.example.com/a.png"},
		MetaTitle:        "Braces | Smile",
		Status:           "Published",
	}
}

func TestMarkdownExporterCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "articles")

	exp, err := NewMarkdownExporter(dir)
	if err != nil {
		t.Fatalf("NewMarkdownExporter failed: %v", err)
	}
	if exp.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", exp.Dir(), dir)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("expected export directory to exist: %v", err)
	}
}

func TestMarkdownExportWritesFrontmatter(t *testing.T) {
	exp, err := NewMarkdownExporter(t.TempDir())
	if err != nil {
		t.Fatalf("NewMarkdownExporter failed: %v", err)
	}

	a := testArticle("braces-cost-care")
	n, err := exp.Export([]models.Article{a}, func(models.Article) []string {
		return []string{"aligners", "retainers"}
	})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 file written, got %d", n)
	}

	fm, body, err := ReadFrontmatter(exp.PathFor(a.Slug))
	if err != nil {
		t.Fatalf("ReadFrontmatter failed: %v", err)
	}

	if fm["title"] != a.Title {
		t.Errorf("title = %v, want %q", fm["title"], a.Title)
	}
	if fm["slug"] != a.Slug {
		t.Errorf("slug = %v", fm["slug"])
	}
	if fm["date"] != "2026-02-11" {
		t.Errorf("date = %v, want 2026-02-11", fm["date"])
	}
	if fm["sequence"] != 4 {
		t.Errorf("sequence = %v, want 4", fm["sequence"])
	}
	if fm["featured_image"] != a.FeaturedImageURL {
		t.Errorf("featured_image = %v", fm["featured_image"])
	}
	related, ok := fm["related"].([]interface{})
	if !ok || len(related) != 2 || related[0] != "aligners" {
		t.Errorf("related = %v", fm["related"])
	}

	if !strings.HasPrefix(body, "![Braces: Cost & Care](https://cdn.example.com/a.png)") {
		t.Errorf("expected featured image first in body, got %q", body)
	}
	if !strings.Contains(body, "Hi") {
		t.Errorf("expected article text in body, got %q", body)
	}
	if strings.Contains(body, "**Hi**") {
		t.Errorf("expected cleaned content without emphasis, got %q", body)
	}
}

func TestMarkdownExportOmitsEmptyFields(t *testing.T) {
	exp, err := NewMarkdownExporter(t.TempDir())
	if err != nil {
		t.Fatalf("NewMarkdownExporter failed: %v", err)
	}

	a := testArticle("plain")
	a.FeaturedImageURL = ""
	a.ImageURLs = nil
	a.CleanedContent = "Just text."
	if err := exp.WriteArticle(a, nil); err != nil {
		t.Fatalf("WriteArticle failed: %v", err)
	}

	fm, body, err := ReadFrontmatter(exp.PathFor("plain"))
	if err != nil {
		t.Fatalf("ReadFrontmatter failed: %v", err)
	}
	for _, key := range []string{"featured_image", "images", "related"} {
		if _, ok := fm[key]; ok {
			t.Errorf("expected %s to be omitted", key)
		}
	}
	if body != "Just text." {
		t.Errorf("body = %q", body)
	}
}

func TestMarkdownExportOverwrites(t *testing.T) {
	exp, err := NewMarkdownExporter(t.TempDir())
	if err != nil {
		t.Fatalf("NewMarkdownExporter failed: %v", err)
	}

	a := testArticle("same")
	if err := exp.WriteArticle(a, nil); err != nil {
		t.Fatalf("WriteArticle failed: %v", err)
	}
	a.Title = "Updated"
	if err := exp.WriteArticle(a, nil); err != nil {
		t.Fatalf("WriteArticle failed: %v", err)
	}

	fm, _, err := ReadFrontmatter(exp.PathFor("same"))
	if err != nil {
		t.Fatalf("ReadFrontmatter failed: %v", err)
	}
	if fm["title"] != "Updated" {
		t.Errorf("title = %v, want Updated", fm["title"])
	}

	entries, err := os.ReadDir(exp.Dir())
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected a single file and no temp leftovers, got %d entries", len(entries))
	}
}

func TestReadFrontmatterMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.md")
	if err := os.WriteFile(path, []byte("no frontmatter"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := ReadFrontmatter(path); err == nil {
		t.Error("expected error for file without frontmatter")
	}
}
