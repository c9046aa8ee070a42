package notification

import (
	"errors"
	"runtime"

	"github.com/dooshek/typozap/internal/logger"
)

const appName = "TypoZap"

// ErrPromptUnsupported is returned when the platform has no secret prompt dialog
var ErrPromptUnsupported = errors.New("secret prompt not supported on this platform")

// Notifier defines the interface for user-visible notices, prompts and sounds
type Notifier interface {
	Notify(title, message string) error
	// PromptSecret asks for a hidden value. ok is false when the user cancels.
	PromptSecret(title, message string) (value string, ok bool, err error)
	// Confirm shows a modal with an accept button and a "Later" button
	Confirm(title, message, accept string) (bool, error)
	PlaySuccess() error
	PlayError() error
}

// SilentNotifier is a no-op implementation for headless runs and tests
type SilentNotifier struct{}

func NewSilent() Notifier {
	return &SilentNotifier{}
}

func (s *SilentNotifier) Notify(title, message string) error { return nil }
func (s *SilentNotifier) PromptSecret(title, message string) (string, bool, error) {
	return "", false, ErrPromptUnsupported
}
func (s *SilentNotifier) Confirm(title, message, accept string) (bool, error) {
	return false, ErrPromptUnsupported
}
func (s *SilentNotifier) PlaySuccess() error { return nil }
func (s *SilentNotifier) PlayError() error   { return nil }

type platformNotifier interface {
	send(title, message string) error
	alert(title, message string) error
	promptSecret(title, message string) (string, bool, error)
	confirm(title, message, accept string) (bool, error)
	playSuccess() error
	playError() error
}

type baseNotifier struct {
	platform platformNotifier
	sound    bool
}

// New creates a platform-specific notifier. Sounds play only when sound is set.
func New(sound bool) Notifier {
	logger.Debug("Initializing notification system")
	var platform platformNotifier
	switch runtime.GOOS {
	case "darwin":
		logger.Debug("Using Darwin (macOS) notifier")
		platform = newDarwinNotifier()
	case "linux":
		logger.Debug("Using Linux notifier")
		platform = newLinuxNotifier()
	default:
		logger.Debug("Using generic notifier")
		platform = newGenericNotifier()
	}
	return &baseNotifier{platform: platform, sound: sound}
}

// Notify shows a notification, falling back to a modal alert when it cannot be delivered
func (n *baseNotifier) Notify(title, message string) error {
	err := n.platform.send(title, message)
	if err == nil {
		return nil
	}
	logger.Warnf("Notification failed, showing alert instead: %v", err)
	return n.platform.alert(title, message)
}

func (n *baseNotifier) PromptSecret(title, message string) (string, bool, error) {
	return n.platform.promptSecret(title, message)
}

// Confirm falls back to a plain alert when no dialog can be shown, reporting false
func (n *baseNotifier) Confirm(title, message, accept string) (bool, error) {
	ok, err := n.platform.confirm(title, message, accept)
	if err == nil {
		return ok, nil
	}
	logger.Warnf("Confirmation dialog failed, showing alert instead: %v", err)
	return false, n.platform.alert(title, message)
}

func (n *baseNotifier) PlaySuccess() error {
	if !n.sound {
		return nil
	}
	return n.platform.playSuccess()
}

func (n *baseNotifier) PlayError() error {
	if !n.sound {
		return nil
	}
	return n.platform.playError()
}
