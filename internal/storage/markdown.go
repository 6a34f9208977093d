// ABOUTME: Markdown exporter writing one file per visible article with YAML frontmatter
// ABOUTME: Files are named after the article slug and written atomically

package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/harper/smilefeed/internal/content"
	"github.com/harper/smilefeed/internal/models"
)

// MarkdownExporter writes articles as markdown files into a directory.
type MarkdownExporter struct {
	dir string
}

// articleFrontmatter holds the YAML frontmatter of an exported article.
type articleFrontmatter struct {
	Title           string   `yaml:"title"`
	Slug            string   `yaml:"slug"`
	Category        string   `yaml:"category"`
	Date            string   `yaml:"date"`
	Sequence        int      `yaml:"sequence"`
	FeaturedImage   string   `yaml:"featured_image,omitempty"`
	Images          []string `yaml:"images,omitempty"`
	MetaTitle       string   `yaml:"meta_title,omitempty"`
	MetaDescription string   `yaml:"meta_description,omitempty"`
	Status          string   `yaml:"status,omitempty"`
	Related         []string `yaml:"related,omitempty"`
}

// NewMarkdownExporter creates dir if needed and returns an exporter rooted there.
func NewMarkdownExporter(dir string) (*MarkdownExporter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	return &MarkdownExporter{dir: dir}, nil
}

// Dir returns the export directory.
func (e *MarkdownExporter) Dir() string {
	return e.dir
}

// PathFor returns the file path an article is exported to.
func (e *MarkdownExporter) PathFor(slug string) string {
	return filepath.Join(e.dir, slug+".md")
}

// Export writes every article and returns the number of files written.
// related may be nil; otherwise it supplies the related slugs per article.
func (e *MarkdownExporter) Export(articles []models.Article, related func(models.Article) []string) (int, error) {
	written := 0
	for _, a := range articles {
		var rel []string
		if related != nil {
			rel = related(a)
		}
		if err := e.WriteArticle(a, rel); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// WriteArticle renders a single article to <dir>/<slug>.md.
func (e *MarkdownExporter) WriteArticle(a models.Article, related []string) error {
	fm := articleFrontmatter{
		Title:           a.Title,
		Slug:            a.Slug,
		Category:        a.Category,
		Date:            a.PublishDate.Format("2006-01-02"),
		Sequence:        a.SequenceIndex,
		FeaturedImage:   a.FeaturedImageURL,
		Images:          a.ImageURLs,
		MetaTitle:       a.MetaTitle,
		MetaDescription: a.MetaDescription,
		Status:          a.Status,
		Related:         related,
	}

	body := content.ArticleMarkdown(a.CleanedContent, a.FeaturedImageURL, a.Title)
	doc, err := renderFrontmatter(&fm, body)
	if err != nil {
		return fmt.Errorf("render frontmatter for %s: %w", a.Slug, err)
	}

	return atomicWrite(e.PathFor(a.Slug), []byte(doc))
}

// ReadFrontmatter parses the frontmatter and body of an exported file.
func ReadFrontmatter(path string) (map[string]interface{}, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}

	yamlStr, body := splitFrontmatter(string(data))
	if yamlStr == "" {
		return nil, "", fmt.Errorf("no frontmatter found in %s", path)
	}

	fm := map[string]interface{}{}
	if err := yaml.Unmarshal([]byte(yamlStr), &fm); err != nil {
		return nil, "", fmt.Errorf("parse frontmatter in %s: %w", path, err)
	}
	return fm, strings.TrimSpace(body), nil
}

func renderFrontmatter(v interface{}, body string) (string, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(out)
	b.WriteString("---\n\n")
	b.WriteString(body)
	b.WriteString("\n")
	return b.String(), nil
}

func splitFrontmatter(doc string) (string, string) {
	if !strings.HasPrefix(doc, "---\n") {
		return "", doc
	}
	rest := doc[len("---\n"):]
	end := strings.Index(rest, "\n---\n")
	if end == -1 {
		return "", doc
	}
	return rest[:end+1], rest[end+len("\n---\n"):]
}

// atomicWrite writes data to a temp file in the same directory and renames it into place.
func atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".smilefeed-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
