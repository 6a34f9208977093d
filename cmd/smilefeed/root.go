// ABOUTME: Root Cobra command and global flags
// ABOUTME: Loads config, builds the logger, source cache and feed loader for subcommands

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/harper/smilefeed/internal/config"
	"github.com/harper/smilefeed/internal/feed"
	"github.com/harper/smilefeed/internal/fetch"
	"github.com/harper/smilefeed/internal/loader"
	"github.com/harper/smilefeed/internal/logging"
	"github.com/harper/smilefeed/internal/storage"
	"github.com/harper/smilefeed/internal/timeutil"
)

var (
	configPath  string
	sourceFlag  string
	startDate   string
	batchSize   int
	requireSlug bool
	nowFlag     string
	noCache     bool
	logLevel    string

	cfg        *config.Config
	logger     *logrus.Logger
	store      storage.Store
	feedLoader *loader.Loader
)

// Commands that never touch the article source.
var skipPipeline = map[string]bool{
	"version": true,
	"setup":   true,
	"help":    true,
}

var rootCmd = &cobra.Command{
	Use:   "smilefeed",
	Short: "Drip-fed article feed built from a CSV sheet",
	Long: `
███████╗███╗   ███╗██╗██╗     ███████╗███████╗███████╗███████╗██████╗
██╔════╝████╗ ████║██║██║     ██╔════╝██╔════╝██╔════╝██╔════╝██╔══██╗
███████╗██╔████╔██║██║██║     █████╗  █████╗  █████╗  █████╗  ██║  ██║
╚════██║██║╚██╔╝██║██║██║     ██╔══╝  ██╔══╝  ██╔══╝  ██╔══╝  ██║  ██║
███████║██║ ╚═╝ ██║██║███████╗███████╗██║     ███████╗███████╗██████╔╝
╚══════╝╚═╝     ╚═╝╚═╝╚══════╝╚══════╝╚═╝     ╚══════╝╚══════╝╚═════╝

Turns an article CSV sheet into a dated, drip-fed article feed.

Browse it from the terminal, serve it over HTTP, or expose it via MCP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if skipPipeline[cmd.Name()] {
			return nil
		}
		return setupPipeline(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store != nil {
			if err := store.Close(); err != nil {
				return fmt.Errorf("failed to close source cache: %w", err)
			}
			store = nil
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file path (default: ~/.config/smilefeed/config.json)")
	flags.StringVar(&sourceFlag, "source", "", "article CSV URL or file path")
	flags.StringVar(&startDate, "start-date", "", "release date of the first batch (YYYY-MM-DD)")
	flags.IntVar(&batchSize, "batch-size", 0, "articles released per day")
	flags.BoolVar(&requireSlug, "require-slug", false, "skip rows with a blank Slug column")
	flags.StringVar(&nowFlag, "now", "", "evaluate visibility at this date instead of now")
	flags.BoolVar(&noCache, "no-cache", false, "disable the source cache")
	flags.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// setupPipeline loads the config, applies env and flag overrides and
// builds the loader shared by every subcommand.
func setupPipeline(cmd *cobra.Command) error {
	if store != nil {
		_ = store.Close()
		store = nil
	}

	path := configPath
	if path == "" {
		path = config.GetConfigPath()
	}

	c, err := config.LoadFrom(config.ExpandPath(path))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	c.ApplyEnv(os.Getenv)
	applyFlags(cmd, c)

	log, err := logging.New(c.GetLogLevel(), c.LogFormat)
	if err != nil {
		return err
	}

	fc, err := c.FeedConfig()
	if err != nil {
		return err
	}

	st, err := c.OpenStore()
	if err != nil {
		return err
	}

	l, err := loader.New(loader.Options{
		Source:       c.Source,
		Feed:         fc,
		Store:        st,
		Fetcher:      fetch.New(config.DefaultHTTPTimeout),
		Logger:       log,
		StaleOnError: c.StaleOnError,
	})
	if err != nil {
		if st != nil {
			_ = st.Close()
		}
		return err
	}

	cfg = c
	logger = log
	store = st
	feedLoader = l
	return nil
}

// applyFlags copies explicitly set global flags over the config.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("source") {
		c.Source = sourceFlag
	}
	if flags.Changed("start-date") {
		c.StartDate = startDate
	}
	if flags.Changed("batch-size") {
		c.BatchSize = batchSize
	}
	if flags.Changed("require-slug") {
		c.RequireSlugColumn = requireSlug
	}
	if flags.Changed("no-cache") && noCache {
		c.SetCache(false)
	}
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
}

// evaluationTime returns --now when set, otherwise the current time.
func evaluationTime() (time.Time, error) {
	if nowFlag == "" {
		return time.Now(), nil
	}
	t, err := timeutil.ParseDate(nowFlag)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now: %w", err)
	}
	return t, nil
}

// loadFeed builds the feed once for a command. A stale feed is returned with
// a warning; any other load failure is an error.
func loadFeed(ctx context.Context) (*feed.Feed, error) {
	snap := feedLoader.Load(ctx)
	if snap.Err != nil {
		if !snap.Stale {
			return nil, fmt.Errorf("failed to load articles: %w", snap.Err)
		}
		logger.WithError(snap.Err).Warn("source unavailable, using cached copy")
	}
	return snap.Feed, nil
}
