// ABOUTME: Configuration management for profsearch with YAML config, .env files, and env overrides.
// ABOUTME: Handles store credentials, embedding provider settings, server address, and ~ expansion.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/2389-research/profsearch/internal/embeddings"
	"github.com/2389-research/profsearch/internal/storage"
)

// Defaults applied when a setting is absent from both the file and the environment.
const (
	DefaultAddr = ":8080"
)

// Environment variables that override file settings when set.
const (
	EnvStoreURL      = "SUPABASE_URL"
	EnvStoreKey      = "SUPABASE_ANON_KEY"
	EnvFixturePath   = "PROFSEARCH_FIXTURE"
	EnvProvider      = "PROFSEARCH_EMBEDDINGS_PROVIDER"
	EnvGeminiKey     = "GEMINI_API_KEY"
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvOnnxRuntime   = "ONNXRUNTIME_LIB"
	EnvServerAddress = "PROFSEARCH_ADDR"
)

// Config stores profsearch configuration loaded from ~/.config/profsearch/config.yaml.
type Config struct {
	Store      StoreConfig      `yaml:"store"`
	Embeddings EmbeddingsConfig `yaml:"embeddings"`
	Server     ServerConfig     `yaml:"server"`
	Search     SearchConfig     `yaml:"search"`
}

// StoreConfig selects where professors are read from.
// A fixture path wins over the remote store when both are set.
type StoreConfig struct {
	URL         string `yaml:"url,omitempty"`
	APIKey      string `yaml:"api_key,omitempty"`
	Table       string `yaml:"table,omitempty"`
	FixturePath string `yaml:"fixture_path,omitempty"`
}

// EmbeddingsConfig configures the embedding model provider.
type EmbeddingsConfig struct {
	Provider          string `yaml:"provider,omitempty"`
	ModelPath         string `yaml:"model_path,omitempty"`
	TokenizerPath     string `yaml:"tokenizer_path,omitempty"`
	SharedLibraryPath string `yaml:"shared_library_path,omitempty"`
	MaxSeqLen         int    `yaml:"max_seq_len,omitempty"`
	Dimension         int    `yaml:"dimension,omitempty"`
	Model             string `yaml:"model,omitempty"`
	GeminiAPIKey      string `yaml:"gemini_api_key,omitempty"`
	OpenAIAPIKey      string `yaml:"openai_api_key,omitempty"`
	OpenAIBaseURL     string `yaml:"openai_base_url,omitempty"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// SearchConfig holds ranking settings.
type SearchConfig struct {
	DefaultLimit int `yaml:"default_limit,omitempty"`
	Concurrency  int `yaml:"concurrency,omitempty"`
}

// HasRemoteStore returns true if the PostgREST store is configured.
func (c *Config) HasRemoteStore() bool {
	return c.Store.URL != "" && c.Store.APIKey != ""
}

// GetTable returns the professors table name.
func (c *Config) GetTable() string {
	if c.Store.Table != "" {
		return c.Store.Table
	}
	return storage.DefaultTable
}

// GetFixturePath returns the expanded fixture path, or "" when none is configured.
func (c *Config) GetFixturePath() (string, error) {
	return ExpandPath(c.Store.FixturePath)
}

// GetAddr returns the HTTP listen address.
func (c *Config) GetAddr() string {
	if c.Server.Addr != "" {
		return c.Server.Addr
	}
	return DefaultAddr
}

// GetDefaultLimit returns the result count for requests that omit a limit.
func (c *Config) GetDefaultLimit() int {
	if c.Search.DefaultLimit > 0 {
		return c.Search.DefaultLimit
	}
	return embeddings.DefaultLimit
}

// GetConcurrency returns the candidate embedding fan-out.
func (c *Config) GetConcurrency() int {
	if c.Search.Concurrency > 0 {
		return c.Search.Concurrency
	}
	return embeddings.DefaultConcurrency
}

// GetProvider returns the embedding provider name.
func (c *Config) GetProvider() string {
	if c.Embeddings.Provider != "" {
		return strings.ToLower(c.Embeddings.Provider)
	}
	return embeddings.ProviderONNX
}

// EmbeddingOptions converts the embeddings section into provider options, expanding ~ in paths.
func (c *Config) EmbeddingOptions() (embeddings.Options, error) {
	e := c.Embeddings
	modelPath, err := ExpandPath(e.ModelPath)
	if err != nil {
		return embeddings.Options{}, err
	}
	tokenizerPath, err := ExpandPath(e.TokenizerPath)
	if err != nil {
		return embeddings.Options{}, err
	}
	libPath, err := ExpandPath(e.SharedLibraryPath)
	if err != nil {
		return embeddings.Options{}, err
	}

	return embeddings.Options{
		Provider: c.GetProvider(),
		ONNX: embeddings.ONNXConfig{
			SharedLibraryPath: libPath,
			ModelPath:         modelPath,
			TokenizerPath:     tokenizerPath,
			MaxSeqLen:         e.MaxSeqLen,
			Dimension:         e.Dimension,
		},
		Gemini: embeddings.GeminiConfig{
			APIKey:    e.GeminiAPIKey,
			Model:     e.Model,
			Dimension: e.Dimension,
		},
		OpenAI: embeddings.OpenAIConfig{
			APIKey:    e.OpenAIAPIKey,
			BaseURL:   e.OpenAIBaseURL,
			Model:     e.Model,
			Dimension: e.Dimension,
		},
		HashingDimension: e.Dimension,
	}, nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "profsearch", "config.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// LoadDotEnv loads variables from .env files without overriding the real environment.
// Missing files are skipped. With no arguments it reads ./.env.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads config from the default path and applies environment overrides.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads config from path and applies environment overrides.
// A missing file yields an empty config.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, err
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrides := []struct {
		env    string
		target *string
	}{
		{EnvStoreURL, &c.Store.URL},
		{EnvStoreKey, &c.Store.APIKey},
		{EnvFixturePath, &c.Store.FixturePath},
		{EnvProvider, &c.Embeddings.Provider},
		{EnvGeminiKey, &c.Embeddings.GeminiAPIKey},
		{EnvOpenAIKey, &c.Embeddings.OpenAIAPIKey},
		{EnvOnnxRuntime, &c.Embeddings.SharedLibraryPath},
		{EnvServerAddress, &c.Server.Addr},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.target = v
		}
	}
}

// Save writes config to the default path.
func (c *Config) Save() error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes config to path with owner-only permissions.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
