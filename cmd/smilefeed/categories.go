// ABOUTME: Categories command for listing categories of published articles
// ABOUTME: Prints each category in first-seen order with its article count

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"cats"},
	Short:   "List article categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		now, err := evaluationTime()
		if err != nil {
			return err
		}

		f, err := loadFeed(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		categories := f.Categories(now)
		if len(categories) == 0 {
			fmt.Fprintln(out, "No categories found")
			return nil
		}

		faint := color.New(color.Faint).SprintFunc()
		for _, c := range categories {
			fmt.Fprintf(out, "%s %s\n", c, faint(fmt.Sprintf("(%d)", len(f.ByCategory(c, now)))))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}
