package types

import (
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// KeyCombo interface for types that can be printed as a key combination
type KeyCombo interface {
	HasCtrl() bool
	HasShift() bool
	HasAlt() bool
	HasSuper() bool
	GetKey() string
}

type KeyBinding struct {
	Key   string `yaml:"key"`   // The actual key (e.g., "t", "space", "f5")
	Ctrl  bool   `yaml:"ctrl"`  // Control key modifier
	Shift bool   `yaml:"shift"` // Shift key modifier
	Alt   bool   `yaml:"alt"`   // Alt/Option key modifier
	Super bool   `yaml:"super"` // Super/Command key modifier
}

func (kb KeyBinding) HasCtrl() bool  { return kb.Ctrl }
func (kb KeyBinding) HasShift() bool { return kb.Shift }
func (kb KeyBinding) HasAlt() bool   { return kb.Alt }
func (kb KeyBinding) HasSuper() bool { return kb.Super }
func (kb KeyBinding) GetKey() string { return kb.Key }

// IsZero reports whether no key is bound.
func (kb KeyBinding) IsZero() bool { return kb.Key == "" }

// FormatKeyCombo formats a key combination into a human-readable string
func FormatKeyCombo(combo KeyCombo) string {
	var parts []string
	if combo.HasCtrl() {
		parts = append(parts, "CTRL")
	}
	if combo.HasShift() {
		parts = append(parts, "SHIFT")
	}
	if combo.HasAlt() {
		parts = append(parts, "ALT")
	}
	if combo.HasSuper() {
		parts = append(parts, "SUPER")
	}
	if key := combo.GetKey(); key != "" {
		parts = append(parts, strings.ToUpper(key))
	}
	return strings.Join(parts, " + ")
}

type LLMProvider string

const (
	ProviderGemini LLMProvider = "gemini"
	ProviderOpenAI LLMProvider = "openai"
)

const (
	DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"
	DefaultOpenAIModel    = openai.GPT4oMini
)

// GeminiConfig holds the generateContent endpoint and generation parameters
type GeminiConfig struct {
	Endpoint        string  `yaml:"endpoint"`
	Temperature     float64 `yaml:"temperature"`
	TopK            int     `yaml:"top_k"`
	TopP            float64 `yaml:"top_p"`
	MaxOutputTokens int     `yaml:"max_output_tokens"`
}

// OpenAIConfig targets any OpenAI-compatible chat completions API
type OpenAIConfig struct {
	BaseURL     string  `yaml:"base_url"` // empty means api.openai.com
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

type LLMConfig struct {
	Provider LLMProvider  `yaml:"provider"`
	Gemini   GeminiConfig `yaml:"gemini"`
	OpenAI   OpenAIConfig `yaml:"openai"`
}

// TimingConfig controls the fixed delays between pipeline steps
type TimingConfig struct {
	CopyDelayMs   int `yaml:"copy_delay_ms"`
	PasteDelayMs  int `yaml:"paste_delay_ms"`
	SuccessIconMs int `yaml:"success_icon_ms"`
}

func (t TimingConfig) CopyDelay() time.Duration {
	return time.Duration(t.CopyDelayMs) * time.Millisecond
}

func (t TimingConfig) PasteDelay() time.Duration {
	return time.Duration(t.PasteDelayMs) * time.Millisecond
}

func (t TimingConfig) SuccessIcon() time.Duration {
	return time.Duration(t.SuccessIconMs) * time.Millisecond
}

type NotificationConfig struct {
	Sound bool `yaml:"sound"`
}

type Config struct {
	Hotkey        KeyBinding         `yaml:"hotkey"`
	LLM           LLMConfig          `yaml:"llm"`
	Timing        TimingConfig       `yaml:"timing"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// DefaultHotkey is Option+T on macOS, Alt+T elsewhere
func DefaultHotkey() KeyBinding {
	return KeyBinding{Key: "t", Alt: true}
}

// GetHotkey returns the hotkey binding with defaults
func (c *Config) GetHotkey() KeyBinding {
	if c.Hotkey.IsZero() {
		return DefaultHotkey()
	}
	return c.Hotkey
}

// GetLLMConfig returns provider configuration with defaults
func (c *Config) GetLLMConfig() LLMConfig {
	config := c.LLM

	if config.Provider == "" {
		config.Provider = ProviderGemini
	}

	if config.Gemini.Endpoint == "" {
		config.Gemini.Endpoint = DefaultGeminiEndpoint
	}
	if config.Gemini.Temperature == 0 {
		config.Gemini.Temperature = 0.1
	}
	if config.Gemini.TopK == 0 {
		config.Gemini.TopK = 1
	}
	if config.Gemini.TopP == 0 {
		config.Gemini.TopP = 0.8
	}
	if config.Gemini.MaxOutputTokens == 0 {
		config.Gemini.MaxOutputTokens = 1024
	}

	if config.OpenAI.Model == "" {
		config.OpenAI.Model = DefaultOpenAIModel
	}
	if config.OpenAI.Temperature == 0 {
		config.OpenAI.Temperature = 0.1
	}
	if config.OpenAI.MaxTokens == 0 {
		config.OpenAI.MaxTokens = 1024
	}

	return config
}

// GetTimingConfig returns pipeline delays with defaults.
// Negative values are treated as unset.
func (c *Config) GetTimingConfig() TimingConfig {
	config := c.Timing
	if config.CopyDelayMs <= 0 {
		config.CopyDelayMs = 100
	}
	if config.PasteDelayMs <= 0 {
		config.PasteDelayMs = 200
	}
	if config.SuccessIconMs <= 0 {
		config.SuccessIconMs = 1000
	}
	return config
}

// Default returns a configuration populated with every default
func Default() *Config {
	cfg := &Config{Notifications: NotificationConfig{Sound: true}}
	cfg.Hotkey = cfg.GetHotkey()
	cfg.LLM = cfg.GetLLMConfig()
	cfg.Timing = cfg.GetTimingConfig()
	return cfg
}
