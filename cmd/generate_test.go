package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mosawalhi7/passweaver/internal/model"
)

func setViperForTest(t *testing.T, key string, value any) {
	t.Helper()

	old := viper.Get(key)
	viper.Set(key, value)
	t.Cleanup(func() { viper.Set(key, old) })
}

func TestGenerateCmd_InvalidFilterPersistsNothing(t *testing.T) {
	tempDir := t.TempDir()

	setViperForTest(t, sessionDBKey, filepath.Join(tempDir, "sessions.db"))
	setViperForTest(t, minLengthConfigKey, 12)
	setViperForTest(t, maxLengthConfigKey, 6)

	oldStrings, oldSave := generateStringsFlag, generateSaveFlag
	generateStringsFlag = []string{"john"}
	generateSaveFlag = true
	t.Cleanup(func() {
		generateStringsFlag = oldStrings
		generateSaveFlag = oldSave
	})

	cmd := newGenerateCmd()
	cmd.SetContext(context.Background())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.RunE(cmd, nil)

	var invalid *m.InvalidFilterConfigError
	require.ErrorAs(t, err, &invalid)

	store, err := openSessionStore()
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	sessions, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestRunGeneration_FailedRunRecordsNoOutputFile(t *testing.T) {
	tempDir := t.TempDir()

	setViperForTest(t, sessionDBKey, filepath.Join(tempDir, "sessions.db"))
	setViperForTest(t, rulesFlagName, filepath.Join(tempDir, "missing-rules.txt"))
	setViperForTest(t, outputFlagName, filepath.Join(tempDir, "wordlists"))

	store, err := openSessionStore()
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	session, err := store.Create(ctx, m.Session{Strings: []string{"john"}})
	require.NoError(t, err)

	cmd := newGenerateCmd()
	cmd.SetContext(ctx)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err = runGeneration(cmd, store, session, 0, "")
	require.Error(t, err)

	got, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, got.OutputFiles)
}

func TestRunGeneration_SuccessfulRunRecordsOutputFile(t *testing.T) {
	tempDir := t.TempDir()

	rulesPath := filepath.Join(tempDir, "rules.txt")
	require.NoError(t, os.WriteFile(rulesPath, []byte("string + short_year\n"), 0o644))

	setViperForTest(t, sessionDBKey, filepath.Join(tempDir, "sessions.db"))
	setViperForTest(t, rulesFlagName, rulesPath)
	setViperForTest(t, outputFlagName, filepath.Join(tempDir, "wordlists"))

	store, err := openSessionStore()
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	session, err := store.Create(ctx, m.Session{
		Strings: []string{"john"},
		Dates:   []string{"5/3/1990"},
	})
	require.NoError(t, err)

	cmd := newGenerateCmd()
	cmd.SetContext(ctx)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	require.NoError(t, runGeneration(cmd, store, session, 0, ""))

	got, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, got.OutputFiles, 1)

	_, statErr := os.Stat(got.OutputFiles[0])
	assert.NoError(t, statErr)
}
