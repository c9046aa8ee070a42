package clipboard

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/dooshek/typozap/internal/logger"
)

type backend interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemBackend struct{}

func (systemBackend) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (systemBackend) WriteAll(text string) error { return clipboard.WriteAll(text) }

// Clipboard reads and writes the text representation of the system clipboard.
// There is no locking against other processes: last writer wins.
type Clipboard struct {
	backend backend
}

func New() *Clipboard {
	return &Clipboard{backend: systemBackend{}}
}

func newWithBackend(b backend) *Clipboard {
	return &Clipboard{backend: b}
}

// Read returns the clipboard text, or "" when the clipboard holds no text
func (c *Clipboard) Read() string {
	text, err := c.backend.ReadAll()
	if err != nil {
		logger.Debugf("clipboard: read failed: %v", err)
		return ""
	}
	return text
}

// Write replaces the clipboard content with text
func (c *Clipboard) Write(text string) error {
	logger.Debugf("clipboard: writing %d chars", len(text))
	if err := c.backend.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}

// HasText reports whether the clipboard holds non-whitespace text
func (c *Clipboard) HasText() bool {
	return HasText(c.Read())
}

// HasText reports whether text counts as a selection: anything but whitespace
func HasText(text string) bool {
	return strings.TrimSpace(text) != ""
}

// Available reports whether a clipboard utility is usable on this system
func Available() bool {
	return !clipboard.Unsupported
}
