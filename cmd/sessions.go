package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/seaward0/seaward/internal/app"
	"github.com/seaward0/seaward/internal/session"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage chat sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSessionStore(cmd, func(store *session.Store) error {
			sessions, err := store.ListSessions(cmd.Context(), 100, 0)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Println("No sessions.")
				return nil
			}
			for _, s := range sessions {
				title := s.Title
				if title == "" {
					title = "(untitled)"
				}
				fmt.Printf("%s  %s  %s\n",
					s.ID, s.UpdatedAt.Format("2006-01-02 15:04"), title)
			}
			return nil
		})
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show a session's messages with their step traces",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid session id: %w", err)
		}
		return withSessionStore(cmd, func(store *session.Store) error {
			msgs, err := store.Messages(cmd.Context(), sessionID, 0)
			if err != nil {
				return err
			}
			for _, m := range msgs {
				fmt.Printf("[%s] %s\n", m.Role, m.Content)
				if len(m.Steps) > 0 {
					fmt.Printf("  steps: %v\n", m.Steps)
				}
			}
			return nil
		})
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session and its messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid session id: %w", err)
		}
		return withSessionStore(cmd, func(store *session.Store) error {
			if err := store.DeleteSession(cmd.Context(), sessionID); err != nil {
				return err
			}
			fmt.Printf("Deleted session %s\n", sessionID)
			return nil
		})
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd, sessionsShowCmd, sessionsDeleteCmd)
	rootCmd.AddCommand(sessionsCmd)
}

// withSessionStore runs fn with an initialized session store and tears the
// application down afterwards.
func withSessionStore(cmd *cobra.Command, fn func(*session.Store) error) error {
	logger := newLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := app.Setup(cmd.Context(), cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("cleanup failed", "error", closeErr)
		}
	}()

	return fn(a.SessionStore)
}
