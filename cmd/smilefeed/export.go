// ABOUTME: Export command for writing published articles as markdown files
// ABOUTME: Writes one file per article with YAML frontmatter and related slugs

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/smilefeed/internal/models"
	"github.com/harper/smilefeed/internal/storage"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export published articles to markdown",
	Long:  "Write every published article to <dir>/<slug>.md with YAML frontmatter",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")

		now, err := evaluationTime()
		if err != nil {
			return err
		}

		f, err := loadFeed(cmd.Context())
		if err != nil {
			return err
		}

		exporter, err := storage.NewMarkdownExporter(dir)
		if err != nil {
			return err
		}

		limit := cfg.GetRelatedLimit()
		related := func(a models.Article) []string {
			var slugs []string
			for _, r := range f.Related(a, limit, now) {
				slugs = append(slugs, r.Slug)
			}
			return slugs
		}

		n, err := exporter.Export(f.Published(now), related)
		if err != nil {
			return fmt.Errorf("export stopped after %d articles: %w", n, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d articles to %s\n", n, exporter.Dir())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("dir", "d", "articles", "output directory")
}
