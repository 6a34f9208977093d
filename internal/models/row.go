// ABOUTME: Row model for a single CSV article record keyed by header name
// ABOUTME: Maps the known column headers to explicit fields and validates required ones

package models

import (
	"errors"
	"strings"
)

// Column headers of the article sheet.
const (
	ColumnTitle           = "Article Title"
	ColumnContent         = "Article Content"
	ColumnCategory        = "wp_category"
	ColumnSlug            = "Slug"
	ColumnMetaTitle       = "Meta Title"
	ColumnMetaDescription = "Meta Description"
	ColumnSchemaMarkup    = "Schema Markup"
	ColumnStatus          = "Status"
	ColumnFurtherReading  = "Further Reading"
)

// Validation errors returned by Row.Validate.
var (
	ErrMissingTitle = errors.New("row has no title")
	ErrMissingSlug  = errors.New("row has no slug")
)

// Row is one article record as it appears in the CSV sheet.
// Every field is raw text and may be empty.
type Row struct {
	Line            int // 1-based line the record starts on
	Title           string
	Content         string
	Category        string
	Slug            string
	MetaTitle       string
	MetaDescription string
	SchemaMarkup    string
	Status          string
	FurtherReading  string
}

// RowFromRecord builds a Row from a header-keyed record.
// Unknown columns are ignored and missing columns stay empty.
func RowFromRecord(record map[string]string) Row {
	return Row{
		Title:           record[ColumnTitle],
		Content:         record[ColumnContent],
		Category:        record[ColumnCategory],
		Slug:            record[ColumnSlug],
		MetaTitle:       record[ColumnMetaTitle],
		MetaDescription: record[ColumnMetaDescription],
		SchemaMarkup:    record[ColumnSchemaMarkup],
		Status:          record[ColumnStatus],
		FurtherReading:  record[ColumnFurtherReading],
	}
}

// Validate reports whether the row can become an article.
// A title is always required; the slug only when requireSlug is set.
func (r Row) Validate(requireSlug bool) error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrMissingTitle
	}
	if requireSlug && strings.TrimSpace(r.Slug) == "" {
		return ErrMissingSlug
	}
	return nil
}
