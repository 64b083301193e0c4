package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seaward0/seaward/internal/app"
	"github.com/seaward0/seaward/internal/index"
)

var indexRebuild bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or rebuild the agreement vector index",
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexRebuild, "rebuild", false,
		"drop the persisted index and re-embed all sources")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := newLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Checked before Setup: opening the index creates its directory.
	existed := index.Exists(cfg.IndexDir)

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("cleanup failed", "error", closeErr)
		}
	}()

	if err := a.EnsureIndex(ctx, indexRebuild); err != nil {
		return err
	}

	switch {
	case indexRebuild:
		fmt.Printf("Rebuilt index: %d chunks in %s\n", a.Index.Count(), cfg.IndexDir)
	case existed:
		fmt.Printf("Loaded index: %d chunks in %s\n", a.Index.Count(), cfg.IndexDir)
	default:
		fmt.Printf("Built index: %d chunks in %s\n", a.Index.Count(), cfg.IndexDir)
	}
	return nil
}
