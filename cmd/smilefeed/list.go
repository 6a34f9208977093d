// ABOUTME: List command for viewing published articles with filtering options
// ABOUTME: Displays slug, title, category and release date using color formatting

package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/smilefeed/internal/config"
	"github.com/harper/smilefeed/internal/feed"
	"github.com/harper/smilefeed/internal/models"
	"github.com/harper/smilefeed/internal/timeutil"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List published articles",
	Long:    "List published articles newest batch last, with optional category filtering",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		upcoming, _ := cmd.Flags().GetBool("upcoming")
		limit, _ := cmd.Flags().GetInt("limit")

		if limit < 0 {
			return fmt.Errorf("limit must be non-negative, got %d", limit)
		}

		now, err := evaluationTime()
		if err != nil {
			return err
		}

		f, err := loadFeed(cmd.Context())
		if err != nil {
			return err
		}

		var articles []models.Article
		if upcoming {
			articles = upcomingArticles(f.Articles(), category, now)
		} else {
			articles = f.ByCategory(category, now)
		}

		out := cmd.OutOrStdout()
		if len(articles) == 0 {
			fmt.Fprintln(out, "No articles found")
			return nil
		}

		if limit > 0 && len(articles) > limit {
			articles = articles[:limit]
		}
		printArticleList(out, articles)

		if !upcoming {
			faint := color.New(color.Faint).SprintFunc()
			if n := f.UpcomingCount(now); n > 0 {
				msg := fmt.Sprintf("%d upcoming", n)
				if next, ok := f.NextRelease(now); ok {
					msg += ", next release " + timeutil.FormatLong(next)
				}
				fmt.Fprintln(out, faint(msg))
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("category", "c", "", "filter by category")
	listCmd.Flags().Bool("upcoming", false, "show scheduled articles that are not yet published")
	listCmd.Flags().IntP("limit", "n", config.DefaultListLimit, "max articles to show (0 for all)")
}

// printArticleList writes one line per article.
func printArticleList(w io.Writer, articles []models.Article) {
	for _, a := range articles {
		printArticleLine(w, a)
	}
}

// printArticleLine writes slug, title, category and release date.
func printArticleLine(w io.Writer, a models.Article) {
	faint := color.New(color.Faint).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintf(w, "%s %s %s %s\n",
		faint(a.Slug),
		a.Title,
		cyan("["+a.Category+"]"),
		faint(timeutil.FormatLong(a.PublishDate)),
	)
}

// upcomingArticles returns the scheduled articles not yet visible at now.
func upcomingArticles(all []models.Article, category string, now time.Time) []models.Article {
	category = strings.TrimSpace(category)
	matchAll := category == "" || strings.EqualFold(category, feed.CategoryAll)

	var out []models.Article
	for _, a := range all {
		if a.IsVisibleAt(now) {
			continue
		}
		if matchAll || strings.EqualFold(a.Category, category) {
			out = append(out, a)
		}
	}
	return out
}
