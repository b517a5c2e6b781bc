// ABOUTME: Serve command that runs the professor search HTTP API.
// ABOUTME: Optionally warms the embedding model before accepting traffic.
package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/2389-research/profsearch/internal/api"
	"github.com/2389-research/profsearch/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API exposing POST /api/search/semantic,
GET /api/search, GET /api/profesores, and GET /healthz.

The server drains in-flight requests on SIGINT or SIGTERM.`,
	RunE: runServe,
}

var (
	serveAddr    string
	servePreload bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, :8080)")
	serveCmd.Flags().BoolVar(&servePreload, "preload", false, "Load the embedding model before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if servePreload {
		if _, err := globalEmbedder.Model(ctx); err != nil {
			// Requests retry the load, so a failed warmup is not fatal.
			globalLogger.Warn("embedding model preload failed", zap.Error(err))
		} else {
			globalLogger.Info("embedding model loaded", zap.Int("dimension", globalEmbedder.Dimension()))
		}
	}

	addr := serveAddr
	if addr == "" {
		addr = globalConfig.GetAddr()
	}

	server := api.NewServer(globalSearch,
		api.WithLogger(logger.Named("api")),
		api.WithModelStatus(globalEmbedder),
		api.WithDefaultLimit(globalConfig.GetDefaultLimit()),
	)
	return server.ListenAndServe(ctx, addr)
}
