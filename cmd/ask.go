package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seaward0/seaward/internal/app"
	"github.com/seaward0/seaward/internal/pipeline"
)

var (
	askShowSteps bool
	askSessionID string
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the Vessel Sharing Agreement",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askShowSteps, "steps", false,
		"print the pipeline steps that produced the answer")
	askCmd.Flags().StringVar(&askSessionID, "session", "",
		"record the exchange in this session (UUID)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := newLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("cleanup failed", "error", closeErr)
		}
	}()

	if err := a.EnsureIndex(ctx, false); err != nil {
		return err
	}

	question := strings.Join(args, " ")
	out, err := a.Flow.Run(ctx, pipeline.Input{
		Question:  question,
		SessionID: askSessionID,
	})
	if err != nil {
		return fmt.Errorf("answering question: %w", err)
	}

	fmt.Println(out.Answer)

	if askShowSteps {
		fmt.Println()
		fmt.Println("Steps:")
		for i, step := range out.Steps {
			fmt.Printf("  %d. %s\n", i+1, step)
		}
	}
	return nil
}
