// ABOUTME: Feed assembly from CSV text into ordered, derived article records
// ABOUTME: Applies row validation, slug derivation, drip-feed dates and HTML inspection per row

package feed

import (
	"strings"

	"github.com/harper/smilefeed/internal/content"
	"github.com/harper/smilefeed/internal/models"
	"github.com/harper/smilefeed/internal/parse"
	"github.com/harper/smilefeed/internal/schedule"
	"github.com/harper/smilefeed/internal/slug"
)

// BuildStats summarizes what happened to the input rows.
type BuildStats struct {
	Rows           int      // well-formed data rows read from the sheet
	Malformed      int      // records dropped for broken CSV quoting
	MissingTitle   int      // rows dropped for a blank title
	MissingSlug    int      // rows dropped for a blank slug (RequireSlugColumn only)
	MissingColumns []string // required columns absent from the header
	ParseError     error    // set when the sheet could not be read at all
}

// Build turns CSV text into a feed. It only fails for an invalid config:
// unreadable sheets give an empty feed and malformed rows are dropped, with
// the details recorded in Feed.Stats.
func Build(csvText string, cfg Config) (*Feed, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	f := &Feed{config: cfg}

	sheet, err := parse.Parse([]byte(csvText))
	if err != nil {
		f.Stats.ParseError = err
		if sheet == nil {
			return f, nil
		}
	}

	f.Stats.Rows = len(sheet.Rows)
	f.Stats.Malformed = len(sheet.Skipped)
	f.Stats.MissingColumns = sheet.MissingColumns()

	registry := slug.NewRegistry()
	policy := cfg.imagePolicy()
	f.articles = make([]models.Article, 0, len(sheet.Rows))

	for _, row := range sheet.Rows {
		if err := row.Validate(cfg.RequireSlugColumn); err != nil {
			switch err {
			case models.ErrMissingTitle:
				f.Stats.MissingTitle++
			case models.ErrMissingSlug:
				f.Stats.MissingSlug++
			}
			continue
		}

		seq := len(f.articles)
		images := content.ExtractImageURLs(row.Content)

		f.articles = append(f.articles, models.Article{
			Title:            strings.TrimSpace(row.Title),
			Content:          row.Content,
			CleanedContent:   content.CleanMarkup(row.Content),
			Category:         categoryOrDefault(row.Category),
			Slug:             registry.Disambiguate(slug.FromRow(row.Slug, row.Title)),
			SequenceIndex:    seq,
			PublishDate:      schedule.PublishDate(seq, cfg.StartDate, cfg.BatchSize),
			FeaturedImageURL: content.Featured(images, policy),
			ImageURLs:        images,
			MetaTitle:        row.MetaTitle,
			MetaDescription:  row.MetaDescription,
			SchemaMarkup:     row.SchemaMarkup,
			Status:           row.Status,
			FurtherReading:   row.FurtherReading,
		})
	}

	f.searchText = make([]string, len(f.articles))
	for i, a := range f.articles {
		f.searchText[i] = searchText(a)
	}

	return f, nil
}

func categoryOrDefault(c string) string {
	c = strings.TrimSpace(c)
	if c == "" {
		return models.UncategorizedCategory
	}
	return c
}
