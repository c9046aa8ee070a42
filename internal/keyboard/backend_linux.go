package keyboard

import (
	"os"
	"strings"

	"github.com/dooshek/typozap/internal/logger"
	"github.com/dooshek/typozap/internal/types"
)

// newSystemBackend picks X11 grabs or evdev based on the session type
func newSystemBackend(binding types.KeyBinding) (backend, error) {
	if isWayland() {
		logger.Debug("Wayland session detected, reading keyboard via evdev")
		return newEvdevBackend(binding)
	}
	return newSystemHotkey(binding)
}

func isWayland() bool {
	session := os.Getenv("XDG_SESSION_TYPE")
	return strings.ToLower(session) == "wayland"
}
