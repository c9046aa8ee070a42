// Package permissions checks the OS grants needed to send copy and paste
// chords to other applications.
package permissions

import "github.com/dooshek/typozap/internal/logger"

const (
	// AccessibilitySettingsURL opens System Settings at Privacy & Security > Accessibility
	AccessibilitySettingsURL = "x-apple.systempreferences:com.apple.preference.security?Privacy_Accessibility"

	accessibilityTitle   = "Accessibility Permission Required"
	accessibilityMessage = "TypoZap needs accessibility permission to copy and paste text. " +
		"Grant it in System Settings > Privacy & Security > Accessibility, then restart TypoZap."
	openSettingsButton = "Open System Settings"
)

// Prompter asks the user whether to go ahead with an action
type Prompter interface {
	Confirm(title, message, accept string) (bool, error)
}

// Checker verifies that synthetic key events will reach other apps
type Checker struct {
	trusted func() bool
	open    func(url string) error
}

func NewChecker() *Checker {
	return &Checker{trusted: accessibilityTrusted, open: openURL}
}

// CheckAccessibility reports whether the process may post key events. When it
// may not, the user is told why and offered the settings pane.
func (c *Checker) CheckAccessibility(p Prompter) bool {
	if c.trusted() {
		logger.Debug("Accessibility permission granted")
		return true
	}

	logger.Warn("Accessibility permission missing - copy and paste chords will be ignored")
	open, err := p.Confirm(accessibilityTitle, accessibilityMessage, openSettingsButton)
	if err != nil {
		logger.Warnf("Could not show accessibility prompt: %v", err)
		return false
	}
	if open {
		if err := c.open(AccessibilitySettingsURL); err != nil {
			logger.Error("Failed to open System Settings", err)
		}
	}
	return false
}
