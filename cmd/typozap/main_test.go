package main

import (
	"errors"
	"testing"

	"github.com/dooshek/typozap/internal/keyboard"
	"github.com/dooshek/typozap/internal/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	notification.SilentNotifier
	titles   []string
	messages []string
}

func (n *recordingNotifier) Notify(title, message string) error {
	n.titles = append(n.titles, title)
	n.messages = append(n.messages, message)
	return nil
}

func TestReportHotkeyFailureNotifies(t *testing.T) {
	n := &recordingNotifier{}

	reportHotkeyFailure(n, "ALT + T", keyboard.ErrHotkeyConflict)

	require.Len(t, n.messages, 1)
	assert.Equal(t, "TypoZap", n.titles[0])
	assert.Contains(t, n.messages[0], "Could not register ALT + T")
	assert.Contains(t, n.messages[0], keyboard.ErrHotkeyConflict.Error())
}

func TestReportHotkeyFailureWithoutDevice(t *testing.T) {
	n := &recordingNotifier{}

	reportHotkeyFailure(n, "CTRL + SHIFT + G", errors.New("no keyboard device found"))

	require.Len(t, n.messages, 1)
	assert.Contains(t, n.messages[0], "no keyboard device found")
}

func TestLogTarget(t *testing.T) {
	assert.Equal(t, "/tmp/custom.log", logTarget("/tmp/custom.log", true, "/cfg/typozap.log"))
	assert.Equal(t, "/tmp/custom.log", logTarget("/tmp/custom.log", false, "/cfg/typozap.log"))
	assert.Equal(t, "", logTarget("", true, "/cfg/typozap.log"))
	assert.Equal(t, "/cfg/typozap.log", logTarget("", false, "/cfg/typozap.log"))
}
