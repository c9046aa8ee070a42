package keyboard

import (
	"fmt"
	"sync"
	"time"

	"github.com/dooshek/typozap/internal/logger"
	"github.com/go-vgo/robotgo"
)

// chordGap separates the synthetic key events so the target app sees a real chord
const chordGap = 10 * time.Millisecond

// toggler posts a single key down or up event
type toggler func(key, direction string) error

func robotgoToggle(key, direction string) error {
	return robotgo.KeyToggle(key, direction)
}

// Simulator posts copy and paste chords to the focused application.
// Events are posted one chord at a time.
type Simulator struct {
	mu       sync.Mutex
	modifier string
	toggle   toggler
	gap      time.Duration
}

// NewSimulator creates a simulator using the platform copy modifier
func NewSimulator() *Simulator {
	return &Simulator{modifier: CopyModifier, toggle: robotgoToggle, gap: chordGap}
}

// SendCopyChord presses modifier+C
func (s *Simulator) SendCopyChord() error {
	return s.chord("c")
}

// SendPasteChord presses modifier+V
func (s *Simulator) SendPasteChord() error {
	return s.chord("v")
}

// chord posts modifier down, key down, key up, modifier up in that order.
// The modifier is always released, even if a key event fails.
func (s *Simulator) chord(key string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Debugf("Sending %s+%s", s.modifier, key)
	if err := s.toggle(s.modifier, "down"); err != nil {
		return fmt.Errorf("failed to press %s: %w", s.modifier, err)
	}
	defer func() {
		if upErr := s.toggle(s.modifier, "up"); upErr != nil && err == nil {
			err = fmt.Errorf("failed to release %s: %w", s.modifier, upErr)
		}
	}()

	time.Sleep(s.gap)
	if err := s.toggle(key, "down"); err != nil {
		return fmt.Errorf("failed to press %s: %w", key, err)
	}
	time.Sleep(s.gap)
	if err := s.toggle(key, "up"); err != nil {
		return fmt.Errorf("failed to release %s: %w", key, err)
	}
	time.Sleep(s.gap)
	return nil
}
