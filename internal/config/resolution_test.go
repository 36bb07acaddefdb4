package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfig_PriorityOrder(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, FileName), "format: json\nlog_level: info\ntheme: pastel\n")

	t.Run("file over defaults", func(t *testing.T) {
		cfg, err := ResolveConfig(dir, CliFlags{})
		require.NoError(t, err)
		assert.Equal(t, "json", cfg.Format)
		assert.Equal(t, "file", cfg.FormatSource)
		assert.Equal(t, "pastel", cfg.Theme)
		assert.Equal(t, DefaultLang, cfg.Lang)
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv("DPCHECK_LOG_LEVEL", "debug")
		cfg, err := ResolveConfig(dir, CliFlags{})
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "env", cfg.LogLevelSource)
	})

	t.Run("cli over env", func(t *testing.T) {
		t.Setenv("DPCHECK_LOG_LEVEL", "debug")
		t.Setenv("DPCHECK_FORMAT", "llm")
		cfg, err := ResolveConfig(dir, CliFlags{LogLevel: "error", Format: "sarif"})
		require.NoError(t, err)
		assert.Equal(t, "error", cfg.LogLevel)
		assert.Equal(t, "cli", cfg.LogLevelSource)
		assert.Equal(t, "sarif", cfg.Format)
	})
}

func TestResolveConfig_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := ResolveConfig(dir, CliFlags{})
	require.NoError(t, err)
	assert.Equal(t, DefaultFormat, cfg.Format)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, "default", cfg.LogLevelSource)
	assert.Empty(t, cfg.ConfigPath)
}

func TestResolveConfig_NoColor(t *testing.T) {
	dir := isolate(t)

	t.Run("NO_COLOR any value", func(t *testing.T) {
		t.Setenv("NO_COLOR", "yes please")
		cfg, err := ResolveConfig(dir, CliFlags{})
		require.NoError(t, err)
		assert.True(t, cfg.NoColor)
		assert.Equal(t, "env", cfg.NoColorSource)
	})

	t.Run("explicit flag wins", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		cfg, err := ResolveConfig(dir, CliFlags{NoColor: false, NoColorSet: true})
		require.NoError(t, err)
		assert.False(t, cfg.NoColor)
		assert.Equal(t, "cli", cfg.NoColorSource)
	})
}

func TestResolveConfig_Validation(t *testing.T) {
	dir := isolate(t)

	_, err := ResolveConfig(dir, CliFlags{Format: "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)

	_, err = ResolveConfig(dir, CliFlags{Theme: "neon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid theme "neon"`)
}
