package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	for _, want := range []string{"serve", "script", "process", "run", "recent"} {
		assert.True(t, names[want], "expected subcommand %q to be registered", want)
	}
}

func TestScriptCommand_RequiresTopic(t *testing.T) {
	flag := scriptCmd.Flags().Lookup("topic")
	require.NotNil(t, flag)
	assert.Contains(t, flag.Annotations[cobra.BashCompOneRequiredFlag], "true")
}

func TestLoadRecentConfig_Defaults(t *testing.T) {
	cfg, err := loadRecentConfig("")
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.DBPath)
}

func TestLoadRecentConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data, err := json.Marshal(map[string]string{"db_path": "custom.db"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := loadRecentConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "custom.db", cfg.DBPath)
}

func TestLoadRecentConfig_MissingFile(t *testing.T) {
	_, err := loadRecentConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
