// ABOUTME: Root Cobra command and global flags for the profsearch CLI.
// ABOUTME: Loads config and wires the logger, professor store, embedder, and search service.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/2389-research/profsearch/internal/config"
	"github.com/2389-research/profsearch/internal/embeddings"
	"github.com/2389-research/profsearch/internal/logger"
	"github.com/2389-research/profsearch/internal/search"
	"github.com/2389-research/profsearch/internal/storage"
)

var globalConfig *config.Config
var globalLogger *zap.Logger
var globalStore storage.ProfessorStore
var globalEmbedder *embeddings.Service
var globalSearch *search.Service

// Flags
var (
	debugFlag  bool
	configPath string
	envFile    string
)

var errNoStore = errors.New("no professor store configured: run `profsearch setup`, set SUPABASE_URL and SUPABASE_ANON_KEY, or set PROFSEARCH_FIXTURE")

var rootCmd = &cobra.Command{
	Use:     "profsearch",
	Short:   "Semantic search over a directory of university professors",
	Version: version,
	Long: `
profsearch ranks professors by how closely their profile matches what a
student is looking for, using sentence embeddings and cosine similarity.

Serve the HTTP API, query from the terminal, or expose the search to AI
agents over MCP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "setup" {
			return nil
		}

		if err := config.LoadDotEnv(envFile); err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		globalConfig = cfg

		l, err := logger.Init(debugFlag)
		if err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}
		globalLogger = l

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		globalStore = store

		embOpts, err := cfg.EmbeddingOptions()
		if err != nil {
			return fmt.Errorf("failed to resolve embedding settings: %w", err)
		}
		loader, err := embeddings.NewLoader(embOpts)
		if err != nil {
			return err
		}
		globalEmbedder = embeddings.NewService(loader)

		globalSearch = search.NewService(store, globalEmbedder,
			search.WithLogger(logger.Named("search")),
			search.WithConcurrency(cfg.GetConcurrency()),
			search.WithDefaultLimit(cfg.GetDefaultLimit()),
		)

		globalLogger.Debug("profsearch initialized",
			zap.String("provider", cfg.GetProvider()),
			zap.Int("concurrency", cfg.GetConcurrency()),
		)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if globalEmbedder != nil {
			_ = globalEmbedder.Close()
			globalEmbedder = nil
		}
		if globalStore != nil {
			_ = globalStore.Close()
			globalStore = nil
		}
		logger.Sync()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/profsearch/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file to load before reading config")
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

// openStore prefers a local fixture file over the remote store.
func openStore(cfg *config.Config) (storage.ProfessorStore, error) {
	fixture, err := cfg.GetFixturePath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve fixture path: %w", err)
	}
	if fixture != "" {
		store, err := storage.NewFileStore(fixture)
		if err != nil {
			return nil, fmt.Errorf("failed to open fixture store: %w", err)
		}
		logger.L().Debug("using fixture store", zap.String("path", fixture))
		return store, nil
	}

	if cfg.HasRemoteStore() {
		logger.L().Debug("using remote store", zap.String("url", cfg.Store.URL), zap.String("table", cfg.GetTable()))
		return storage.NewRestClient(cfg.Store.URL, cfg.Store.APIKey, cfg.GetTable()), nil
	}

	return nil, errNoStore
}
