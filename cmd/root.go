// Package cmd implements the seaward command-line interface.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/seaward0/seaward/internal/config"
	"github.com/seaward0/seaward/internal/log"
)

var (
	logLevel string
	logJSON  bool
)

var rootCmd = &cobra.Command{
	Use:   "seaward",
	Short: "seaward - question answering over a Vessel Sharing Agreement",
	Long: `seaward answers natural-language questions about a maritime Vessel
Sharing Agreement. Retrieved passages are graded for relevance; when any
passage misses, a web search supplements the context before the cited
answer is generated.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false,
		"emit logs as JSON")
}

// newLogger builds the process logger from the persistent flags and installs
// it as the slog default.
func newLogger() log.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := log.New(log.Config{Level: level, JSON: logJSON})
	slog.SetDefault(logger)
	return logger
}

// loadConfig loads and validates configuration, printing a hint for the most
// common failure.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := config.CheckRequiredEnv(); err != nil {
		os.Stderr.WriteString("Hint: export GEMINI_API_KEY=your-api-key\n")
		return nil, err
	}
	return cfg, nil
}
