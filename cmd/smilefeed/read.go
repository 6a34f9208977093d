// ABOUTME: Read command for viewing a published article
// ABOUTME: Displays article details with markdown rendering, related articles and further reading

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/smilefeed/internal/config"
	"github.com/harper/smilefeed/internal/content"
	"github.com/harper/smilefeed/internal/feed"
	"github.com/harper/smilefeed/internal/timeutil"
)

var readCmd = &cobra.Command{
	Use:   "read <slug>",
	Short: "Read an article",
	Long:  "Display the full content of a published article with related articles and further reading",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")

		now, err := evaluationTime()
		if err != nil {
			return err
		}

		f, err := loadFeed(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		article, err := f.FindBySlug(args[0], now)
		if err != nil {
			if errors.Is(err, feed.ErrNotFound) {
				fmt.Fprintln(out, "Article not found")
			}
			return fmt.Errorf("%w: %s", err, args[0])
		}

		bold := color.New(color.Bold).SprintFunc()
		faint := color.New(color.Faint).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		separator := strings.Repeat("─", config.SeparatorWidth)
		fmt.Fprintln(out, separator)
		fmt.Fprintf(out, "%s\n\n", bold(article.Title))
		fmt.Fprintf(out, "%s %s\n", faint("Category:"), article.Category)
		fmt.Fprintf(out, "%s %s\n", faint("Published:"), timeutil.FormatLong(article.PublishDate))
		fmt.Fprintf(out, "%s %s\n", faint("Slug:"), article.Slug)
		if article.HasFeaturedImage() {
			fmt.Fprintf(out, "%s %s\n", faint("Image:"), cyan(article.FeaturedImageURL))
		}
		fmt.Fprintln(out, separator)

		markdown := content.ArticleMarkdown(article.CleanedContent, article.FeaturedImageURL, article.Title)
		if markdown == "" {
			fmt.Fprintln(out, "\n(No content available)")
		} else if raw {
			fmt.Fprintf(out, "\n%s\n", markdown)
		} else {
			rendered, err := glamour.Render(markdown, "dark")
			if err != nil {
				fmt.Fprintf(out, "%s\n", faint("(markdown rendering unavailable, showing plain text)"))
				fmt.Fprintf(out, "\n%s\n", markdown)
			} else {
				fmt.Fprint(out, rendered)
			}
		}

		related := f.Related(article, cfg.GetRelatedLimit(), now)
		if len(related) > 0 {
			fmt.Fprintf(out, "\n%s\n", bold("Related"))
			for _, r := range related {
				fmt.Fprintf(out, "  %s %s\n", r.Title, faint(r.Slug))
			}
		}

		links := feed.FurtherReading(article, feed.DefaultReadingCount)
		if len(links) > 0 {
			fmt.Fprintf(out, "\n%s\n", bold("Further reading"))
			for _, l := range links {
				fmt.Fprintf(out, "  %s %s\n", l.Label, cyan(l.URL))
			}
		}

		fmt.Fprintln(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(readCmd)

	readCmd.Flags().Bool("raw", false, "print markdown without terminal rendering")
}
