package wizard

import (
	"fmt"
	"os"
	"strings"

	"github.com/MarinX/keylogger"
	"github.com/dooshek/typozap/internal/keyboard"
)

// evdevKeyNames inverts keyboard.EvdevKeyCodes
var evdevKeyNames = func() map[uint16]string {
	m := make(map[uint16]string, len(keyboard.EvdevKeyCodes))
	for name, code := range keyboard.EvdevKeyCodes {
		if name == "enter" {
			continue
		}
		m[code] = name
	}
	return m
}()

func captureKeys() (KeyPress, error) {
	if strings.ToLower(os.Getenv("XDG_SESSION_TYPE")) == "wayland" {
		return captureEvdevKeys()
	}
	return captureHookKeys()
}

func captureEvdevKeys() (KeyPress, error) {
	keyboards := keylogger.FindAllKeyboardDevices()
	if len(keyboards) == 0 {
		return KeyPress{}, fmt.Errorf("no keyboard devices found")
	}

	kbd, err := keylogger.New(keyboards[0])
	if err != nil {
		return KeyPress{}, fmt.Errorf("failed to initialize keylogger: %w", err)
	}
	defer kbd.Close()

	var keyPress KeyPress
	for e := range kbd.Read() {
		if e.Type != keylogger.EvKey {
			continue
		}
		code := e.Code
		if e.KeyPress() {
			if applyEvdevModifier(&keyPress, code, true) {
				printKeyCombination(keyPress, true)
				continue
			}
			if key, ok := evdevKeyNames[code]; ok {
				keyPress.Key = key
				return keyPress, nil
			}
		} else if e.KeyRelease() {
			if applyEvdevModifier(&keyPress, code, false) {
				printKeyCombination(keyPress, true)
			}
		}
	}
	return keyPress, fmt.Errorf("keyboard device closed")
}

func applyEvdevModifier(kp *KeyPress, code uint16, down bool) bool {
	switch code {
	case keyboard.EvdevLeftControl, keyboard.EvdevRightControl:
		kp.Ctrl = down
	case keyboard.EvdevLeftShift, keyboard.EvdevRightShift:
		kp.Shift = down
	case keyboard.EvdevLeftAlt, keyboard.EvdevRightAlt:
		kp.Alt = down
	case keyboard.EvdevLeftSuper, keyboard.EvdevRightSuper:
		kp.Super = down
	default:
		return false
	}
	return true
}
