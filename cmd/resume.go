package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	m "github.com/mosawalhi7/passweaver/internal/model"
)

var resumeLimitFlag uint64
var resumeFileFlag string
var resumeRestartFlag bool

// resumeCmd represents the resume command.
var resumeCmd = newResumeCmd()

func newResumeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resume <session-id>",
		Short: "Resume a saved generation session where it left off",
		Long:  resumeLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openSessionStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			session, err := store.Get(cmd.Context(), args[0])

			var corrupt *m.SessionCorruptError
			if errors.As(err, &corrupt) {
				// Fall back to a fresh run over whatever inputs decoded
				// rather than refusing outright.
				newUI(cmd).Warnf("session %s has corrupt progress state, starting over", session.ID)
				session.Cursor = m.Cursor{}
				session.TotalGenerated = 0
				session.Completed = false
			} else if err != nil {
				return err
			}

			if session.Completed {
				if !resumeRestartFlag {
					return fmt.Errorf("session %s already completed; pass --restart to run it again", session.ID)
				}

				if err := store.Reset(cmd.Context(), session.ID); err != nil {
					return err
				}

				session.Cursor = m.Cursor{}
				session.TotalGenerated = 0
				session.Completed = false
			}

			limit := resumeLimitFlag
			if limit == 0 {
				limit = viper.GetUint64(limitConfigKey)
			}

			return runGeneration(cmd, store, session, limit, resumeFileFlag)
		},
	}

	return cmd
}

func init() {
	configureResumeFlags(resumeCmd)
	rootCmd.AddCommand(resumeCmd)
}

func configureResumeFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64VarP(&resumeLimitFlag, limitFlagName, "c", 0, "maximum passwords to generate this run (0: config default)")
	cmd.Flags().StringVarP(&resumeFileFlag, "file", "f", "", "output file name (default: next run file for the session)")
	cmd.Flags().BoolVar(&resumeRestartFlag, "restart", false, "restart a completed session from the beginning")
}
