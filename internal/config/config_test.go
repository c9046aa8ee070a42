package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dooshek/typozap/internal/fileops"
	"github.com/dooshek/typozap/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOps(t *testing.T) *fileops.DefaultFileOps {
	t.Helper()
	ops := fileops.NewFileOps(filepath.Join(t.TempDir(), "typozap"))
	require.NoError(t, ops.EnsureDirectories())
	return ops
}

func TestLoadConfigMissingReturnsNil(t *testing.T) {
	cfg, err := LoadConfig(newOps(t))
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadConfigParsesYAML(t *testing.T) {
	ops := newOps(t)
	yamlData := `
hotkey:
  key: g
  ctrl: true
  shift: true
llm:
  provider: openai
  openai:
    base_url: https://generativelanguage.googleapis.com/v1beta/openai/
    model: gemini-2.0-flash
timing:
  copy_delay_ms: 150
`
	require.NoError(t, os.WriteFile(filepath.Join(ops.GetConfigDir(), configFilename), []byte(yamlData), 0o644))

	cfg, err := LoadConfig(ops)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, types.KeyBinding{Key: "g", Ctrl: true, Shift: true}, cfg.Hotkey)
	assert.Equal(t, types.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.OpenAI.Model)
	assert.Equal(t, 150, cfg.Timing.CopyDelayMs)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	ops := newOps(t)
	require.NoError(t, os.WriteFile(filepath.Join(ops.GetConfigDir(), configFilename), []byte("hotkey: [oops"), 0o644))

	_, err := LoadConfig(ops)
	assert.Error(t, err)
}

func TestSaveConfigMergesIntoExisting(t *testing.T) {
	ops := newOps(t)

	require.NoError(t, SaveConfig(ops, &types.Config{
		Hotkey: types.KeyBinding{Key: "t", Alt: true},
		LLM:    types.LLMConfig{Provider: "gemini", Gemini: types.GeminiConfig{TopK: 3}},
	}))
	require.NoError(t, SaveConfig(ops, &types.Config{
		Timing: types.TimingConfig{PasteDelayMs: 300},
	}))

	cfg, err := LoadConfig(ops)
	require.NoError(t, err)
	assert.Equal(t, "t", cfg.Hotkey.Key)
	assert.True(t, cfg.Hotkey.Alt)
	assert.Equal(t, 3, cfg.LLM.Gemini.TopK)
	assert.Equal(t, 300, cfg.Timing.PasteDelayMs)
}

func TestPreferencesRoundTrip(t *testing.T) {
	ops := newOps(t)

	assert.Equal(t, "", LoadPreferences(ops).SelectedTone)

	require.NoError(t, SavePreferences(ops, Preferences{SelectedTone: "Formal"}))
	assert.Equal(t, "Formal", LoadPreferences(ops).SelectedTone)
}

func TestPreferencesInvalidFileIgnored(t *testing.T) {
	ops := newOps(t)
	require.NoError(t, os.WriteFile(filepath.Join(ops.GetConfigDir(), preferencesFilename), []byte(":::"), 0o644))

	assert.Equal(t, Preferences{}, LoadPreferences(ops))
}
