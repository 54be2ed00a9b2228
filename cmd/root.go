// Package cmd provides the root command and CLI setup for pwv.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mosawalhi7/passweaver/internal/adapter"
	"github.com/mosawalhi7/passweaver/internal/controller"
)

var rulesAdapter adapter.RulesFileAdapter

// outputDirFlag is a root-level flag shared by commands that write
// wordlists.
var outputDirFlag string

// rulesPathFlag points at the rules file driving generation.
var rulesPathFlag string

var verboseFlag bool
var logFileFlag string

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	rulesAdapter = adapter.NewLocalRulesFileAdapter()
}

const rootLongDescription = `Passweaver (pwv) generates candidate password wordlists from personal
tokens (names, dates, numbers) combined by the declarative rules in
rules.txt. Accepted candidates stream to a plain-text wordlist; saved
sessions checkpoint progress so long runs can be interrupted and
resumed.

Edit rules.txt to change what gets generated; no rebuild needed.`

const generateLongDescription = `Generate passwords from the supplied tokens.

String tokens are mandatory; dates (D/M/YYYY) and numbers are optional.
With --save-session the run records a resumable session.`

const resumeLongDescription = `Resume a saved generation session where it left off.

The candidate stream is regenerated deterministically and everything up
to the session's checkpoint is skipped, so resumed output continues the
earlier run without duplicates.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pwv",
		Short: "Personalized password wordlist generator",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(logFileFlag, verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&outputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for generated wordlists",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().
		StringVarP(
			&rulesPathFlag, rulesFlagName, "r",
			viper.GetString(rulesFlagName),
			"path to the rules file",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(rulesFlagName), rulesFlagName)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "enable debug logging")
	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, "", "log file path (default from config)")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// openSessionStore opens the configured session database.
func openSessionStore() (adapter.SessionStore, error) {
	return adapter.OpenSessionStore(viper.GetString(sessionDBKey))
}

// newUI selects the interactive or plain UI for a command.
func newUI(cmd *cobra.Command) controller.UI {
	return controller.NewUI(cmd, controller.IsTTY(os.Stdout))
}

// signalContext derives a context cancelled on user interrupt, the
// pipeline's cooperative suspension point.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}

	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
