package config

import (
	"errors"
	"fmt"

	"github.com/dooshek/typozap/internal/fileops"
	"github.com/dooshek/typozap/internal/logger"
	"github.com/dooshek/typozap/internal/types"
	"gopkg.in/yaml.v3"
)

const (
	configFilename      = "typozap.yaml"
	preferencesFilename = "preferences.yaml"
)

// Preferences holds state changed from the menu bar rather than the config file
type Preferences struct {
	SelectedTone string `yaml:"selected_tone"`
}

// LoadConfig reads typozap.yaml. It returns nil, nil when no config exists yet.
func LoadConfig(fileOps fileops.FileOps) (*types.Config, error) {
	if err := fileOps.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	data, err := fileOps.LoadConfig(configFilename)
	if err != nil {
		if errors.Is(err, fileops.ErrConfigNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config types.Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveConfig merges config into the existing file and writes it back
func SaveConfig(fileOps fileops.FileOps, config *types.Config) error {
	existingConfig, err := LoadConfig(fileOps)
	if err != nil {
		logger.Warnf("Failed to load existing config: %v", err)
	} else if existingConfig != nil {
		mergeConfigs(existingConfig, config)
		config = existingConfig
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := fileOps.SaveConfig(configFilename, data); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// mergeConfigs merges sourceConfig into targetConfig, keeping target values
// that are not explicitly set in sourceConfig
func mergeConfigs(targetConfig, sourceConfig *types.Config) {
	if !sourceConfig.Hotkey.IsZero() {
		targetConfig.Hotkey = sourceConfig.Hotkey
	}

	src, dst := sourceConfig.LLM, &targetConfig.LLM
	if src.Provider != "" {
		dst.Provider = src.Provider
	}
	if src.Gemini.Endpoint != "" {
		dst.Gemini.Endpoint = src.Gemini.Endpoint
	}
	if src.Gemini.Temperature != 0 {
		dst.Gemini.Temperature = src.Gemini.Temperature
	}
	if src.Gemini.TopK != 0 {
		dst.Gemini.TopK = src.Gemini.TopK
	}
	if src.Gemini.TopP != 0 {
		dst.Gemini.TopP = src.Gemini.TopP
	}
	if src.Gemini.MaxOutputTokens != 0 {
		dst.Gemini.MaxOutputTokens = src.Gemini.MaxOutputTokens
	}
	if src.OpenAI.BaseURL != "" {
		dst.OpenAI.BaseURL = src.OpenAI.BaseURL
	}
	if src.OpenAI.Model != "" {
		dst.OpenAI.Model = src.OpenAI.Model
	}
	if src.OpenAI.Temperature != 0 {
		dst.OpenAI.Temperature = src.OpenAI.Temperature
	}
	if src.OpenAI.MaxTokens != 0 {
		dst.OpenAI.MaxTokens = src.OpenAI.MaxTokens
	}

	if sourceConfig.Timing.CopyDelayMs != 0 {
		targetConfig.Timing.CopyDelayMs = sourceConfig.Timing.CopyDelayMs
	}
	if sourceConfig.Timing.PasteDelayMs != 0 {
		targetConfig.Timing.PasteDelayMs = sourceConfig.Timing.PasteDelayMs
	}
	if sourceConfig.Timing.SuccessIconMs != 0 {
		targetConfig.Timing.SuccessIconMs = sourceConfig.Timing.SuccessIconMs
	}

	// A bool cannot say "unset"; the latest save wins.
	targetConfig.Notifications = sourceConfig.Notifications
}

// LoadPreferences reads preferences.yaml, returning zero preferences if missing or invalid
func LoadPreferences(fileOps fileops.FileOps) Preferences {
	var prefs Preferences

	data, err := fileOps.LoadConfig(preferencesFilename)
	if err != nil {
		if !errors.Is(err, fileops.ErrConfigNotFound) {
			logger.Warnf("Failed to read preferences: %v", err)
		}
		return prefs
	}

	if err := yaml.Unmarshal(data, &prefs); err != nil {
		logger.Warnf("Ignoring invalid preferences file: %v", err)
		return Preferences{}
	}
	return prefs
}

// SavePreferences writes preferences.yaml
func SavePreferences(fileOps fileops.FileOps, prefs Preferences) error {
	data, err := yaml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	if err := fileOps.SaveConfig(preferencesFilename, data); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}
