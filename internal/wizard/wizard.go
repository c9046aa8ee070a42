// Package wizard is the interactive first-run setup: shortcut, provider and API key.
package wizard

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dooshek/typozap/internal/config"
	"github.com/dooshek/typozap/internal/fileops"
	"github.com/dooshek/typozap/internal/keyboard"
	"github.com/dooshek/typozap/internal/logger"
	"github.com/dooshek/typozap/internal/secret"
	"github.com/dooshek/typozap/internal/types"
	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	bold   = color.New(color.Bold)
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
)

// prompter reads answers line by line
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

func (p *prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	response, err := p.in.ReadString('\n')
	if err != nil && !(err == io.EOF && response != "") {
		return "", err
	}
	return cleanResponse(response), nil
}

// cleanResponse trims and strips control characters from terminal input
func cleanResponse(response string) string {
	response = strings.TrimSpace(response)
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, response)
}

// isYes treats an empty answer as yes
func isYes(response string) bool {
	response = strings.ToLower(response)
	return response == "" || response == "y" || response == "yes"
}

// parseProvider maps an answer onto a provider, defaulting to gemini
func parseProvider(response string) (types.LLMProvider, error) {
	switch strings.ToLower(response) {
	case "", "gemini", "g":
		return types.ProviderGemini, nil
	case "openai", "o":
		return types.ProviderOpenAI, nil
	default:
		return "", fmt.Errorf("unknown provider %q", response)
	}
}

// Run walks through setup and saves the resulting config
func Run(fileOps fileops.FileOps, secrets *secret.Store) (*types.Config, error) {
	return run(newPrompter(os.Stdin, os.Stdout), fileOps, secrets)
}

func run(p *prompter, fileOps fileops.FileOps, secrets *secret.Store) (*types.Config, error) {
	bold.Fprintln(p.out, "\n🔤 Welcome to TypoZap Configuration Wizard!")
	fmt.Fprintln(p.out, "\nThis wizard will set up your correction shortcut and API key.")

	cfg := types.Default()

	hk, err := chooseHotkey(p)
	if err != nil {
		return nil, err
	}
	cfg.Hotkey = hk

	provider, err := chooseProvider(p)
	if err != nil {
		return nil, err
	}
	cfg.LLM.Provider = provider

	if provider == types.ProviderOpenAI {
		baseURL, err := p.ask("OpenAI-compatible base URL (empty for api.openai.com): ")
		if err != nil {
			return nil, err
		}
		cfg.LLM.OpenAI.BaseURL = baseURL
	}

	if err := promptAPIKey(p, secrets); err != nil {
		return nil, err
	}

	if err := config.SaveConfig(fileOps, cfg); err != nil {
		logger.Error("Failed to save config", err)
		return nil, err
	}

	green.Fprintln(p.out, "\n✅ Configuration saved successfully!")
	fmt.Fprintf(p.out, "Your shortcut is: %s\n", types.FormatKeyCombo(cfg.Hotkey))
	fmt.Fprintln(p.out, "Select text anywhere and press it to correct the selection.")
	return cfg, nil
}

// chooseProvider asks until the answer names a known provider
func chooseProvider(p *prompter) (types.LLMProvider, error) {
	for {
		answer, err := p.ask("\nCorrection provider [gemini/openai] (gemini): ")
		if err != nil {
			return "", err
		}
		provider, err := parseProvider(answer)
		if err != nil {
			red.Fprintln(p.out, err)
			continue
		}
		return provider, nil
	}
}

func chooseHotkey(p *prompter) (types.KeyBinding, error) {
	def := types.DefaultHotkey()
	answer, err := p.ask(fmt.Sprintf("\nUse the default shortcut %s? [Y/n]: ", types.FormatKeyCombo(def)))
	if err != nil {
		return types.KeyBinding{}, err
	}
	if isYes(answer) {
		return def, nil
	}

	for {
		cyan.Println("\nPress your key combination (Ctrl, Alt, Shift, Super + key)...")
		fmt.Println("Use at least one modifier, e.g. Ctrl+Shift+G or Alt+T.")
		fmt.Println("(Press Ctrl+C to cancel)")

		keyPress, err := captureKeys()
		if err != nil {
			logger.Error("Failed to capture key", err)
			return types.KeyBinding{}, err
		}
		if !keyboard.ValidKey(keyPress.Key) || !keyPress.hasModifier() {
			red.Println("\nThat combination cannot be used as a global shortcut, try again.")
			continue
		}

		yellow.Print("\nSelected shortcut is: ")
		printKeyCombination(keyPress, false)
		fmt.Println()

		answer, err := p.ask("\nDo you want to use this shortcut? [Y/n]: ")
		if err != nil {
			return types.KeyBinding{}, err
		}
		if isYes(answer) {
			return keyPress.binding(), nil
		}
		fmt.Println("\nOK, let's try again.")
	}
}

// promptAPIKey reads the key without echo and stores it. An empty answer keeps the stored key.
func promptAPIKey(p *prompter, secrets *secret.Store) error {
	if p == nil {
		p = newPrompter(os.Stdin, os.Stdout)
	}
	if secrets.HasCredential() {
		fmt.Fprintln(p.out, "\nAn API key is already stored in the system keychain.")
	}

	key, err := readSecret(p, "API key (input hidden, empty to skip): ")
	if err != nil {
		return err
	}
	if key == "" {
		fmt.Fprintln(p.out, "Keeping the current API key.")
		return nil
	}

	secrets.Set(key)
	if !secrets.HasCredential() {
		return fmt.Errorf("failed to store API key in the system keychain")
	}
	green.Fprintf(p.out, "API key %s stored.\n", logger.Redact(key))
	return nil
}

// SetAPIKey is the --set-key entry point
func SetAPIKey(secrets *secret.Store) error {
	return promptAPIKey(nil, secrets)
}

func readSecret(p *prompter, question string) (string, error) {
	fd := int(os.Stdin.Fd())
	if p.out != os.Stdout || !term.IsTerminal(fd) {
		return p.ask(question)
	}
	fmt.Fprint(p.out, question)
	data, err := term.ReadPassword(fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
