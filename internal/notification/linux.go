package notification

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/dooshek/typozap/internal/logger"
	"github.com/gen2brain/beeep"
	"github.com/godbus/dbus/v5"
)

const (
	notificationsDest   = "org.freedesktop.Notifications"
	notificationsPath   = "/org/freedesktop/Notifications"
	notificationsMethod = "org.freedesktop.Notifications.Notify"
	notificationTimeout = int32(5000)

	successSound = "/usr/share/sounds/freedesktop/stereo/complete.oga"
	errorSound   = "/usr/share/sounds/freedesktop/stereo/dialog-error.oga"
)

type linuxNotifier struct{}

func newLinuxNotifier() platformNotifier {
	return &linuxNotifier{}
}

// send goes through the session bus notification daemon, then beeep
func (n *linuxNotifier) send(title, message string) error {
	logger.Debugf("Sending notification: %s - %s", title, message)
	err := notifyDBus(title, message)
	if err == nil {
		return nil
	}
	logger.Debugf("D-Bus notification failed, falling back to beeep: %v", err)
	return beeep.Notify(title, message, "")
}

func notifyDBus(title, message string) error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	obj := conn.Object(notificationsDest, dbus.ObjectPath(notificationsPath))
	call := obj.Call(notificationsMethod, 0,
		appName, uint32(0), "", title, message,
		[]string{}, map[string]dbus.Variant{}, notificationTimeout)
	return call.Err
}

func (n *linuxNotifier) alert(title, message string) error {
	return beeep.Alert(title, message, "")
}

func (n *linuxNotifier) promptSecret(title, message string) (string, bool, error) {
	out, err := exec.Command("zenity", "--entry", "--hide-text",
		"--title="+title, "--text="+message).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to run zenity: %w", err)
	}
	return strings.TrimRight(string(out), "\r\n"), true, nil
}

func (n *linuxNotifier) confirm(title, message, accept string) (bool, error) {
	err := exec.Command("zenity", "--question", "--title="+title, "--text="+message,
		"--ok-label="+accept, "--cancel-label=Later").Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return false, nil
		}
		return false, fmt.Errorf("failed to run zenity: %w", err)
	}
	return true, nil
}

func (n *linuxNotifier) playSuccess() error {
	return playSound(successSound)
}

func (n *linuxNotifier) playError() error {
	return playSound(errorSound)
}

func playSound(path string) error {
	if _, err := os.Stat(path); err != nil {
		return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
	}
	go func() {
		if err := exec.Command("paplay", path).Run(); err != nil {
			logger.Errorf("Failed to play %s", err, path)
		}
	}()
	return nil
}
