// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.seaward/config.yaml or ./config.yaml)
//  3. Default values
//
// Main configuration categories:
//   - AI: model and embedder selection, temperature
//   - Index: vector index location and chunking parameters
//   - Sources: the documents the agreement index is built from
//   - Storage: PostgreSQL connection for chat sessions
//   - Search: SearXNG endpoint for the web-search fallback
//
// Validation is fail-fast with sentinel errors (see validation.go) so a
// misconfigured process never reaches the pipeline.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultModelName is the Gemini model used for grading and generation.
	DefaultModelName = "gemini-2.5-flash"

	// DefaultEmbedderModel is the Gemini embedding model for the vector index.
	DefaultEmbedderModel = "gemini-embedding-001"

	// DefaultTopK is the number of chunks retrieved per question.
	DefaultTopK = 10

	// DefaultChunkSize and DefaultChunkOverlap are the token-window splitter
	// parameters used when building the index.
	DefaultChunkSize    = 100
	DefaultChunkOverlap = 50

	// DefaultIndexDir is the directory holding the serialized vector index.
	DefaultIndexDir = "index_vsa"
)

// Config stores application configuration.
// SECURITY: sensitive fields are masked in String(); never log the raw struct.
type Config struct {
	// AI model configuration
	ModelName     string  `mapstructure:"model_name"`
	EmbedderModel string  `mapstructure:"embedder_model"`
	Temperature   float32 `mapstructure:"temperature"`

	// Retrieval configuration
	TopK int `mapstructure:"top_k"`

	// Index configuration
	IndexDir     string `mapstructure:"index_dir"`
	ChunkSize    int    `mapstructure:"chunk_size"`
	ChunkOverlap int    `mapstructure:"chunk_overlap"`

	// Sources the agreement index is built from. Each entry is either an
	// http(s) URL or a local .pdf path; anything else fails loading.
	Sources []string `mapstructure:"sources"`

	// Web search fallback (SearXNG)
	SearXNG SearXNGConfig `mapstructure:"searxng"`

	// Web page fetching
	WebScraper WebScraperConfig `mapstructure:"web_scraper"`

	// Storage configuration (chat sessions)
	PostgresHost     string `mapstructure:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password"` // SENSITIVE
	PostgresDBName   string `mapstructure:"postgres_db_name"`
	PostgresSSLMode  string `mapstructure:"postgres_ssl_mode"`

	// HTTP server address for serve mode.
	ServerAddr string `mapstructure:"server_addr"`

	// Tracing exports pipeline spans over OTLP.
	Tracing TracingConfig `mapstructure:"tracing"`
}

// SearXNGConfig holds SearXNG service configuration for web search.
type SearXNGConfig struct {
	// BaseURL is the SearXNG instance URL (e.g., http://searxng:8080).
	BaseURL string `mapstructure:"base_url"`
	// MaxResults caps the number of search results appended per question.
	MaxResults int `mapstructure:"max_results"`
}

// TracingConfig holds the OTLP trace export settings. Genkit emits spans
// for every flow run; enabling tracing ships them to a local collector.
type TracingConfig struct {
	// Enabled turns OTLP span export on.
	Enabled bool `mapstructure:"enabled"`
	// Endpoint is the collector's OTLP HTTP endpoint (host:port, no TLS).
	Endpoint string `mapstructure:"endpoint"`
	// ServiceName is the service name reported on exported spans.
	ServiceName string `mapstructure:"service_name"`
	// Environment tags spans with a deployment environment.
	Environment string `mapstructure:"environment"`
}

// WebScraperConfig holds fetch behavior for web page sources.
type WebScraperConfig struct {
	// Parallelism is max concurrent requests per domain.
	Parallelism int `mapstructure:"parallelism"`
	// DelayMs is the delay between requests in milliseconds.
	DelayMs int `mapstructure:"delay_ms"`
	// TimeoutMs is the request timeout in milliseconds.
	TimeoutMs int `mapstructure:"timeout_ms"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".seaward")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	setDefaults(v)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using defaults",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("model_name", DefaultModelName)
	v.SetDefault("embedder_model", DefaultEmbedderModel)
	v.SetDefault("temperature", 0.0)

	v.SetDefault("top_k", DefaultTopK)

	v.SetDefault("index_dir", DefaultIndexDir)
	v.SetDefault("chunk_size", DefaultChunkSize)
	v.SetDefault("chunk_overlap", DefaultChunkOverlap)

	v.SetDefault("sources", []string{filepath.Join(DefaultIndexDir, "vsa.pdf")})

	v.SetDefault("searxng.base_url", "http://localhost:8888")
	v.SetDefault("searxng.max_results", 5)

	v.SetDefault("web_scraper.parallelism", 2)
	v.SetDefault("web_scraper.delay_ms", 1000)
	v.SetDefault("web_scraper.timeout_ms", 30000)

	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", 5432)
	v.SetDefault("postgres_user", "seaward")
	v.SetDefault("postgres_password", "seaward_dev_password")
	v.SetDefault("postgres_db_name", "seaward")
	v.SetDefault("postgres_ssl_mode", "disable")

	v.SetDefault("server_addr", "127.0.0.1:3400")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4318")
	v.SetDefault("tracing.service_name", "seaward")
	v.SetDefault("tracing.environment", "dev")
}

// bindEnvVariables binds environment overrides explicitly.
// GEMINI_API_KEY is read directly by Genkit, not via viper; its presence is
// checked in CheckRequiredEnv.
func bindEnvVariables(v *viper.Viper) {
	mustBind := func(key, envVar string) {
		if err := v.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("model_name", "SEAWARD_MODEL_NAME")
	mustBind("embedder_model", "SEAWARD_EMBEDDER_MODEL")
	mustBind("index_dir", "SEAWARD_INDEX_DIR")
	mustBind("searxng.base_url", "SEAWARD_SEARXNG_URL")
	mustBind("server_addr", "SEAWARD_SERVER_ADDR")
	mustBind("postgres_host", "SEAWARD_POSTGRES_HOST")
	mustBind("postgres_password", "SEAWARD_POSTGRES_PASSWORD")
	mustBind("tracing.enabled", "SEAWARD_TRACING_ENABLED")
	mustBind("tracing.endpoint", "SEAWARD_TRACING_ENDPOINT")
}

// CheckRequiredEnv verifies environment variables the process cannot run
// without. Genkit reads GEMINI_API_KEY itself at model-call time; checking
// here keeps the failure at startup rather than mid-pipeline.
func CheckRequiredEnv() error {
	if os.Getenv("GEMINI_API_KEY") == "" {
		return errors.New("GEMINI_API_KEY not set (export GEMINI_API_KEY=your-api-key, see https://ai.google.dev/)")
	}
	return nil
}

// FullModelName returns the provider-qualified model name for Genkit,
// e.g. "googleai/gemini-2.5-flash". A name already containing "/" is
// returned as-is.
func (c *Config) FullModelName() string {
	if strings.Contains(c.ModelName, "/") {
		return c.ModelName
	}
	return "googleai/" + c.ModelName
}

// PostgresURL returns the postgres:// URL used by golang-migrate.
func (c *Config) PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.PostgresUser, c.PostgresPassword,
		c.PostgresHost, c.PostgresPort,
		c.PostgresDBName, c.PostgresSSLMode)
}

// PostgresConnectionString returns the keyword/value connection string for pgx.
func (c *Config) PostgresConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort,
		c.PostgresUser, c.PostgresPassword,
		c.PostgresDBName, c.PostgresSSLMode)
}

// maskedValue replaces sensitive values in String output.
const maskedValue = "********"

// String implements Stringer so accidental printing never leaks secrets.
func (c Config) String() string {
	masked := c
	if masked.PostgresPassword != "" {
		masked.PostgresPassword = maskedValue
	}
	return fmt.Sprintf("Config{model=%s embedder=%s top_k=%d index_dir=%s sources=%d postgres=%s:%d/%s}",
		masked.ModelName, masked.EmbedderModel, masked.TopK, masked.IndexDir,
		len(masked.Sources), masked.PostgresHost, masked.PostgresPort, masked.PostgresDBName)
}
