package windowdetect

import (
	"fmt"
	"strings"

	"github.com/go-vgo/robotgo"
)

// WindowInfo contains information about the focused window
type WindowInfo struct {
	Title   string
	AppName string
}

// String formats the window for logs, e.g. "Safari (Bug report)"
func (w WindowInfo) String() string {
	switch {
	case w.AppName == "" && w.Title == "":
		return "unknown window"
	case w.Title == "":
		return w.AppName
	case w.AppName == "":
		return w.Title
	default:
		return fmt.Sprintf("%s (%s)", w.AppName, w.Title)
	}
}

// Detector defines the interface for window detection
type Detector interface {
	GetFocusedWindow() (*WindowInfo, error)
	// Describe formats the focused window for logs, never failing
	Describe() string
}

type platformDetector interface {
	activePID() int
	processName(pid int) (string, error)
	activeTitle() string
}

type robotgoDetector struct{}

func (robotgoDetector) activePID() int                      { return robotgo.GetPid() }
func (robotgoDetector) processName(pid int) (string, error) { return robotgo.FindName(pid) }
func (robotgoDetector) activeTitle() string                 { return robotgo.GetTitle() }

type baseDetector struct {
	platform platformDetector
}

// New creates a detector for the focused window
func New() Detector {
	return &baseDetector{platform: robotgoDetector{}}
}

func (d *baseDetector) GetFocusedWindow() (*WindowInfo, error) {
	info := &WindowInfo{Title: strings.TrimSpace(d.platform.activeTitle())}

	pid := d.platform.activePID()
	if pid > 0 {
		name, err := d.platform.processName(pid)
		if err != nil && info.Title == "" {
			return nil, fmt.Errorf("failed to resolve focused process %d: %w", pid, err)
		}
		info.AppName = strings.TrimSpace(name)
	}

	if info.AppName == "" && info.Title == "" {
		return nil, fmt.Errorf("no focused window")
	}
	return info, nil
}

func (d *baseDetector) Describe() string {
	info, err := d.GetFocusedWindow()
	if err != nil {
		return WindowInfo{}.String()
	}
	return info.String()
}
