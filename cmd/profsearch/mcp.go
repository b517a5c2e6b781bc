// ABOUTME: MCP server command implementation for profsearch.
// ABOUTME: Starts the MCP server in stdio mode for AI agent integration.
package main

import (
	"github.com/spf13/cobra"

	"github.com/2389-research/profsearch/internal/logger"
	mcppkg "github.com/2389-research/profsearch/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server (stdio mode)",
	Long: `Start the Model Context Protocol server for AI agent integration.

The MCP server communicates via stdio, letting agents search the
professor directory with the same ranking as the HTTP API.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	server, err := mcppkg.NewServer(globalSearch, version, mcppkg.WithLogger(logger.Named("mcp")))
	if err != nil {
		return err
	}

	return server.Serve(ctx)
}
