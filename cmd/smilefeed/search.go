// ABOUTME: Search command for finding published articles by text
// ABOUTME: Matches title, category and plain-text content and prints an excerpt per hit

package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/smilefeed/internal/config"
	"github.com/harper/smilefeed/internal/content"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search published articles",
	Long:  "Case-insensitive search over the title, category and text of published articles",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		query := strings.Join(args, " ")

		now, err := evaluationTime()
		if err != nil {
			return err
		}

		f, err := loadFeed(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		results := f.Search(query, now)
		if len(results) == 0 {
			fmt.Fprintf(out, "No articles match %q\n", query)
			return nil
		}
		if limit > 0 && len(results) > limit {
			results = results[:limit]
		}

		faint := color.New(color.Faint).SprintFunc()
		for _, a := range results {
			printArticleLine(out, a)
			if excerpt := content.Excerpt(a.Content, config.ExcerptLength); excerpt != "" {
				fmt.Fprintf(out, "  %s\n", faint(excerpt))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntP("limit", "n", config.DefaultListLimit, "max results to show (0 for all)")
}
