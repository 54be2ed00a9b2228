package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"generate", "resume", "sessions", "init", "version"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	require.NotNil(t, flags.Lookup(outputFlagName))
	require.NotNil(t, flags.Lookup(rulesFlagName))
	require.NotNil(t, flags.Lookup(verboseFlagName))
	require.NotNil(t, flags.Lookup(logFileFlagName))

	assert.Equal(t, "o", flags.Lookup(outputFlagName).Shorthand)
	assert.Equal(t, "r", flags.Lookup(rulesFlagName).Shorthand)
}

func TestGenerateCmd_Flags(t *testing.T) {
	flags := generateCmd.Flags()

	for _, name := range []string{
		"strings", "dates", "numbers", "file", "save-session",
		limitFlagName, minLengthFlagName, maxLengthFlagName,
		requireUpperFlagName, requireSymbolFlagName,
	} {
		assert.NotNil(t, flags.Lookup(name), "missing flag %q", name)
	}

	assert.Equal(t, "s", flags.Lookup("strings").Shorthand)
	assert.Equal(t, "d", flags.Lookup("dates").Shorthand)
	assert.Equal(t, "n", flags.Lookup("numbers").Shorthand)
}

func TestResumeCmd_RequiresSessionID(t *testing.T) {
	cmd := newResumeCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	assert.Error(t, err)
}

func TestRootCmd_RunShowsHelp(t *testing.T) {
	out := &bytes.Buffer{}

	cmd := newRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, out.String(), "pwv")
}

func TestCleanTokens(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"empty", nil, []string{}},
		{"plain values", []string{"john", "sam"}, []string{"john", "sam"}},
		{"splits embedded whitespace", []string{"john sam"}, []string{"john", "sam"}},
		{"drops blank entries", []string{"  ", "john"}, []string{"john"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanTokens(tt.in))
		})
	}
}
