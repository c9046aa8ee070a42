package keyboard

import (
	"fmt"
	"strings"
	"sync"

	"github.com/MarinX/keylogger"
	"github.com/dooshek/typozap/internal/logger"
	"github.com/dooshek/typozap/internal/types"
)

// ModifierState tracks the state of modifier keys (Ctrl, Shift, Alt, Super)
type ModifierState struct {
	Ctrl  bool
	Shift bool
	Alt   bool
	Super bool
}

// chordMatcher turns raw evdev key events into hotkey presses
type chordMatcher struct {
	binding   types.KeyBinding
	targetKey uint16
	mods      ModifierState
}

func newChordMatcher(binding types.KeyBinding) (*chordMatcher, error) {
	if _, _, err := parseBinding(binding); err != nil {
		return nil, err
	}
	code, ok := EvdevKeyCodes[strings.ToLower(binding.Key)]
	if !ok {
		return nil, fmt.Errorf("%w: no evdev code for %q", ErrHotkeyInvalid, binding.Key)
	}
	return &chordMatcher{binding: binding, targetKey: code}, nil
}

// feed updates modifier state and reports whether the event completes the chord
func (c *chordMatcher) feed(code uint16, pressed bool) bool {
	switch code {
	case EvdevLeftControl, EvdevRightControl:
		c.mods.Ctrl = pressed
	case EvdevLeftShift, EvdevRightShift:
		c.mods.Shift = pressed
	case EvdevLeftAlt, EvdevRightAlt:
		c.mods.Alt = pressed
	case EvdevLeftSuper, EvdevRightSuper:
		c.mods.Super = pressed
	default:
		return pressed && code == c.targetKey && c.modifiersMatch()
	}
	return false
}

func (c *chordMatcher) modifiersMatch() bool {
	return c.mods.Ctrl == c.binding.Ctrl &&
		c.mods.Shift == c.binding.Shift &&
		c.mods.Alt == c.binding.Alt &&
		c.mods.Super == c.binding.Super
}

// evdevBackend reads the keyboard device directly, for Wayland sessions
// where X11 grabs are unavailable. Requires membership in the input group.
type evdevBackend struct {
	matcher   *chordMatcher
	kbd       *keylogger.KeyLogger
	keyCh     chan struct{}
	closeOnce sync.Once
}

func newEvdevBackend(binding types.KeyBinding) (*evdevBackend, error) {
	m, err := newChordMatcher(binding)
	if err != nil {
		return nil, err
	}
	return &evdevBackend{matcher: m}, nil
}

func (e *evdevBackend) Register() error {
	keyboards := keylogger.FindAllKeyboardDevices()
	if len(keyboards) == 0 {
		return fmt.Errorf("no keyboard devices found")
	}

	kbd, err := keylogger.New(keyboards[0])
	if err != nil {
		if strings.Contains(err.Error(), "permission denied") {
			fmt.Printf("Cannot access keyboard device.\n" +
				"Solution: \n" +
				"1. Add yourself to the input group: sudo usermod -aG input $USER \n" +
				"2. Log out and log back in \n" +
				"3. Run the program again \n\n")
		}
		return fmt.Errorf("error initializing keylogger: %w", err)
	}
	logger.Debugf("Reading keyboard events from %s", keyboards[0])

	e.kbd = kbd
	e.keyCh = make(chan struct{}, 4)
	events := kbd.Read()
	go func() {
		for ev := range events {
			if ev.Type != keylogger.EvKey {
				continue
			}
			if ev.KeyPress() || ev.KeyRelease() {
				if e.matcher.feed(ev.Code, ev.KeyPress()) {
					select {
					case e.keyCh <- struct{}{}:
					default:
					}
				}
			}
		}
		e.closeOnce.Do(func() { close(e.keyCh) })
	}()
	return nil
}

func (e *evdevBackend) Unregister() error {
	if e.kbd == nil {
		return nil
	}
	return e.kbd.Close()
}

func (e *evdevBackend) Keydown() <-chan struct{} {
	return e.keyCh
}
