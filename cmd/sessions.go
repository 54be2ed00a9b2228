package cmd

import (
	"github.com/spf13/cobra"
)

// sessionsCmd represents the sessions command.
var sessionsCmd = newSessionsCmd()

func newSessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List saved generation sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openSessionStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sessions, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			newUI(cmd).SessionTable(sessions)

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}
