package config

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for configuration validation.
// Callers can use errors.Is to branch on the specific failure.
var (
	ErrEmptyModelName      = errors.New("model name cannot be empty")
	ErrEmptyEmbedderModel  = errors.New("embedder model cannot be empty")
	ErrInvalidTemperature  = errors.New("temperature must be between 0.0 and 2.0")
	ErrInvalidTopK         = errors.New("top_k must be between 1 and 100")
	ErrEmptyIndexDir       = errors.New("index_dir cannot be empty")
	ErrInvalidChunkSize    = errors.New("chunk_size must be positive")
	ErrInvalidChunkOverlap = errors.New("chunk_overlap must be non-negative and smaller than chunk_size")
	ErrEmptySearXNGURL     = errors.New("searxng.base_url cannot be empty")
	ErrInvalidMaxResults   = errors.New("searxng.max_results must be between 1 and 50")
	ErrInvalidPostgresPort = errors.New("postgres_port must be between 1 and 65535")
	ErrInvalidSSLMode      = errors.New("postgres_ssl_mode must be one of: disable, require, verify-ca, verify-full")
	ErrEmptyServerAddr     = errors.New("server_addr cannot be empty")
)

var validSSLModes = map[string]bool{
	"disable":     true,
	"require":     true,
	"verify-ca":   true,
	"verify-full": true,
}

// Validate checks all configuration values and returns the first violation.
// An empty Sources list is allowed: an index built from zero documents is a
// legal (if useless) state and the pipeline handles empty retrievals.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ModelName) == "" {
		return ErrEmptyModelName
	}
	if strings.TrimSpace(c.EmbedderModel) == "" {
		return ErrEmptyEmbedderModel
	}
	if c.Temperature < 0.0 || c.Temperature > 2.0 {
		return fmt.Errorf("%w: got %.2f", ErrInvalidTemperature, c.Temperature)
	}
	if c.TopK < 1 || c.TopK > 100 {
		return fmt.Errorf("%w: got %d", ErrInvalidTopK, c.TopK)
	}
	if strings.TrimSpace(c.IndexDir) == "" {
		return ErrEmptyIndexDir
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidChunkSize, c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: got overlap=%d size=%d", ErrInvalidChunkOverlap, c.ChunkOverlap, c.ChunkSize)
	}
	if strings.TrimSpace(c.SearXNG.BaseURL) == "" {
		return ErrEmptySearXNGURL
	}
	if c.SearXNG.MaxResults < 1 || c.SearXNG.MaxResults > 50 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxResults, c.SearXNG.MaxResults)
	}
	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return fmt.Errorf("%w: got %d", ErrInvalidPostgresPort, c.PostgresPort)
	}
	if !validSSLModes[c.PostgresSSLMode] {
		return fmt.Errorf("%w: got %q", ErrInvalidSSLMode, c.PostgresSSLMode)
	}
	if strings.TrimSpace(c.ServerAddr) == "" {
		return ErrEmptyServerAddr
	}
	return nil
}
