// ABOUTME: Serve command for the read-only article HTTP API
// ABOUTME: Serves JSON endpoints and an RSS document until interrupted

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/harper/smilefeed/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the article API over HTTP",
	Long: `Serve published articles over HTTP.

Endpoints:
  GET /api/articles?category=&q=   published articles
  GET /api/articles/{slug}         one article with related and further reading
  GET /api/categories              categories of published articles
  GET /feed.xml                    RSS 2.0 feed
  GET /healthz                     load status

The built feed is kept for refresh_interval; visibility is evaluated per request.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		listen, _ := cmd.Flags().GetString("listen")
		baseURL, _ := cmd.Flags().GetString("base-url")
		title, _ := cmd.Flags().GetString("title")

		if listen == "" {
			listen = cfg.GetListen()
		}

		interval, err := cfg.GetRefreshInterval()
		if err != nil {
			return err
		}

		nowFunc, err := clock()
		if err != nil {
			return err
		}

		server := api.New(api.Options{
			Loader:          feedLoader,
			RefreshInterval: interval,
			RelatedLimit:    cfg.GetRelatedLimit(),
			Channel: api.ChannelInfo{
				Title:   title,
				BaseURL: baseURL,
			},
			Logger: logger,
			Now:    nowFunc,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := server.ListenAndServe(ctx, listen); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("listen", "", "listen address (default from config, :8080)")
	serveCmd.Flags().String("base-url", "", "public base URL for RSS links (default from the request)")
	serveCmd.Flags().String("title", "", "RSS channel title")
}

// clock returns a fixed clock when --now is set, otherwise time.Now.
func clock() (func() time.Time, error) {
	if nowFlag == "" {
		return time.Now, nil
	}
	t, err := evaluationTime()
	if err != nil {
		return nil, err
	}
	return func() time.Time { return t }, nil
}
