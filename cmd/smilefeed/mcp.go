// ABOUTME: MCP server command for smilefeed CLI
// ABOUTME: Starts stdio-based MCP server for AI agent integration

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/smilefeed/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI agents",
	Long: `Start the Model Context Protocol (MCP) server on stdio.

This allows AI agents to list, read, search and cross-link the
published articles through structured tools.

The server communicates via JSON-RPC on stdin/stdout; logs go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, err := cfg.GetRefreshInterval()
		if err != nil {
			return err
		}

		nowFunc, err := clock()
		if err != nil {
			return err
		}

		server := mcp.NewServer(mcp.Options{
			Loader:          feedLoader,
			RelatedLimit:    cfg.GetRelatedLimit(),
			RefreshInterval: interval,
			Now:             nowFunc,
			Version:         Version,
		})

		if err := server.ServeStdio(); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
