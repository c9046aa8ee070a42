package notification

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/dooshek/typozap/internal/logger"
)

// exit status osascript uses when the user presses Cancel
const osascriptCancelled = 1

type darwinNotifier struct {
	run func(script string) (string, error)
}

func newDarwinNotifier() platformNotifier {
	return &darwinNotifier{run: runOsascript}
}

func runOsascript(script string) (string, error) {
	out, err := exec.Command("osascript", "-e", script).Output()
	return string(out), err
}

// appleScriptQuote returns s as an AppleScript string literal
func appleScriptQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

func (n *darwinNotifier) send(title, message string) error {
	logger.Debugf("Sending macOS notification: %s - %s", title, message)
	script := fmt.Sprintf(`display notification %s with title %s`, appleScriptQuote(message), appleScriptQuote(title))
	if _, err := n.run(script); err != nil {
		return fmt.Errorf("failed to send macOS notification: %w", err)
	}
	return nil
}

func (n *darwinNotifier) alert(title, message string) error {
	script := fmt.Sprintf(`display alert %s message %s`, appleScriptQuote(title), appleScriptQuote(message))
	if _, err := n.run(script); err != nil {
		return fmt.Errorf("failed to show macOS alert: %w", err)
	}
	return nil
}

func (n *darwinNotifier) promptSecret(title, message string) (string, bool, error) {
	script := fmt.Sprintf(
		`display dialog %s with title %s default answer "" with hidden answer buttons {"Cancel", "Save"} default button "Save"`,
		appleScriptQuote(message), appleScriptQuote(title))
	out, err := n.run(script)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == osascriptCancelled {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to show macOS dialog: %w", err)
	}
	value, ok := parseDialogOutput(out)
	return value, ok, nil
}

func (n *darwinNotifier) confirm(title, message, accept string) (bool, error) {
	script := fmt.Sprintf(
		`display alert %s message %s as warning buttons {"Later", %s} default button %s`,
		appleScriptQuote(title), appleScriptQuote(message), appleScriptQuote(accept), appleScriptQuote(accept))
	out, err := n.run(script)
	if err != nil {
		return false, fmt.Errorf("failed to show macOS alert: %w", err)
	}
	return strings.Contains(out, "button returned:"+accept), nil
}

// parseDialogOutput extracts the answer from osascript's
// "button returned:Save, text returned:..." record
func parseDialogOutput(out string) (string, bool) {
	out = strings.TrimRight(out, "\r\n")
	const marker = "text returned:"
	idx := strings.Index(out, marker)
	if idx < 0 {
		return "", false
	}
	if !strings.Contains(out[:idx], "button returned:Save") {
		return "", false
	}
	return out[idx+len(marker):], true
}

func (n *darwinNotifier) playSuccess() error {
	return afplay("/System/Library/Sounds/Glass.aiff")
}

func (n *darwinNotifier) playError() error {
	return afplay("/System/Library/Sounds/Basso.aiff")
}

func afplay(path string) error {
	go func() {
		if err := exec.Command("afplay", path).Run(); err != nil {
			logger.Errorf("Failed to play %s", err, path)
		}
	}()
	return nil
}
