package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mosawalhi7/passweaver/internal/adapter"
	"github.com/mosawalhi7/passweaver/internal/domain"
	m "github.com/mosawalhi7/passweaver/internal/model"
)

var generateStringsFlag []string
var generateDatesFlag []string
var generateNumbersFlag []string
var generateMinLengthFlag int
var generateMaxLengthFlag int
var generateRequireUpperFlag bool
var generateRequireSymbolFlag bool
var generateLimitFlag uint64
var generateFileFlag string
var generateSaveFlag bool

// generateCmd represents the generate command.
var generateCmd = newGenerateCmd()

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a password wordlist from personal tokens",
		Long:  generateLongDescription,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session := m.Session{
				Strings: cleanTokens(generateStringsFlag),
				Dates:   cleanTokens(generateDatesFlag),
				Numbers: cleanTokens(generateNumbersFlag),
				Filter:  filterFromConfig(),
			}

			if len(session.Strings) == 0 {
				return fmt.Errorf("%w: pass at least one value with --strings", m.ErrNoTokens)
			}

			if _, err := m.ParseDates(session.Dates); err != nil {
				return err
			}

			if err := session.Filter.Validate(); err != nil {
				return err
			}

			var store adapter.SessionStore

			if generateSaveFlag {
				s, err := openSessionStore()
				if err != nil {
					return err
				}
				defer func() { _ = s.Close() }()

				session, err = s.Create(cmd.Context(), session)
				if err != nil {
					return err
				}

				store = s
				cmd.Printf("Session created: %s\n", session.ID)
			} else {
				// Ephemeral run: the id only names the output file.
				session.ID = adapter.NewSessionID()
			}

			return runGeneration(cmd, store, session, generateLimitFlag, generateFileFlag)
		},
	}

	return cmd
}

func init() {
	configureGenerateFlags(generateCmd)
	rootCmd.AddCommand(generateCmd)
}

func configureGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&generateStringsFlag, "strings", "s", nil, "personal strings (name, surname, nickname); required")
	cmd.Flags().StringSliceVarP(&generateDatesFlag, "dates", "d", nil, "dates in D/M/YYYY form")
	cmd.Flags().StringSliceVarP(&generateNumbersFlag, "numbers", "n", nil, "personal numbers (favorite, house, phone)")

	cmd.Flags().IntVar(&generateMinLengthFlag, minLengthFlagName, viper.GetInt(minLengthConfigKey), "minimum password length (0 disables)")
	bindFlagToConfig(cmd.Flags().Lookup(minLengthFlagName), minLengthConfigKey)

	cmd.Flags().IntVar(&generateMaxLengthFlag, maxLengthFlagName, viper.GetInt(maxLengthConfigKey), "maximum password length (0 disables)")
	bindFlagToConfig(cmd.Flags().Lookup(maxLengthFlagName), maxLengthConfigKey)

	cmd.Flags().BoolVar(&generateRequireUpperFlag, requireUpperFlagName, viper.GetBool(requireUpperConfigKey), "require at least one uppercase letter")
	bindFlagToConfig(cmd.Flags().Lookup(requireUpperFlagName), requireUpperConfigKey)

	cmd.Flags().BoolVar(&generateRequireSymbolFlag, requireSymbolFlagName, viper.GetBool(requireSymbolConfigKey), "require at least one symbol")
	bindFlagToConfig(cmd.Flags().Lookup(requireSymbolFlagName), requireSymbolConfigKey)

	cmd.Flags().Uint64VarP(&generateLimitFlag, limitFlagName, "c", viper.GetUint64(limitConfigKey), "maximum passwords to generate this run")
	bindFlagToConfig(cmd.Flags().Lookup(limitFlagName), limitConfigKey)

	cmd.Flags().StringVarP(&generateFileFlag, "file", "f", "", "output file name (default: auto under the output dir)")
	cmd.Flags().BoolVar(&generateSaveFlag, "save-session", false, "save a resumable session")
}

func filterFromConfig() m.FilterConfig {
	return m.FilterConfig{
		MinLength:        viper.GetInt(minLengthConfigKey),
		MaxLength:        viper.GetInt(maxLengthConfigKey),
		RequireUppercase: viper.GetBool(requireUpperConfigKey),
		RequireSymbol:    viper.GetBool(requireSymbolConfigKey),
	}
}

func cleanTokens(values []string) []string {
	out := make([]string, 0, len(values))

	for _, v := range values {
		for _, field := range strings.Fields(v) {
			out = append(out, field)
		}
	}

	return out
}

// runGeneration wires the pipeline for generate and resume and executes
// one run. store may be nil for ephemeral runs.
func runGeneration(cmd *cobra.Command, store adapter.SessionStore, session m.Session, limit uint64, fileName string) error {
	rulesText, err := rulesAdapter.Load(viper.GetString(rulesFlagName))
	if err != nil {
		return err
	}

	outputDir := viper.GetString(outputFlagName)

	outputPath := adapter.NextRunPath(outputDir, session.ID)
	if strings.TrimSpace(fileName) != "" {
		outputPath = adapter.NamedOutputPath(outputDir, fileName)
	}

	ui := newUI(cmd)
	engine := domain.NewCombinationEngine(engineConfig())
	workflow := domain.NewWorkflow(engine, store, ui)

	ctx, stop := signalContext(cmd)
	defer stop()

	_, err = workflow.Generate(ctx, domain.GenerateArgs{
		Session:            session,
		RulesText:          rulesText,
		Limit:              limit,
		OutputPath:         outputPath,
		CheckpointInterval: viper.GetUint64(checkpointIntervalKey),
	})

	if store != nil && session.ID != "" {
		// Record the file only once the sink opened it. Whatever was
		// written up to the checkpoint remains valid even on failure,
		// but a run that died before opening wrote nothing.
		if _, statErr := os.Stat(outputPath); statErr == nil {
			if appendErr := store.AppendOutputFile(context.Background(), session.ID, outputPath); appendErr != nil && err == nil {
				err = appendErr
			}
		}
	}

	return err
}
