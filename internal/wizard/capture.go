package wizard

import (
	"fmt"
	"strings"

	"github.com/dooshek/typozap/internal/keyboard"
	"github.com/dooshek/typozap/internal/types"
	hook "github.com/robotn/gohook"
)

type KeyPress struct {
	Key   string
	Ctrl  bool
	Shift bool
	Alt   bool
	Super bool
}

// Implement types.KeyCombo for KeyPress
func (kp KeyPress) HasCtrl() bool  { return kp.Ctrl }
func (kp KeyPress) HasShift() bool { return kp.Shift }
func (kp KeyPress) HasAlt() bool   { return kp.Alt }
func (kp KeyPress) HasSuper() bool { return kp.Super }
func (kp KeyPress) GetKey() string { return kp.Key }

func (kp KeyPress) binding() types.KeyBinding {
	return types.KeyBinding{Key: kp.Key, Ctrl: kp.Ctrl, Shift: kp.Shift, Alt: kp.Alt, Super: kp.Super}
}

func (kp KeyPress) hasModifier() bool {
	return kp.Ctrl || kp.Shift || kp.Alt || kp.Super
}

// printKeyCombination prints a key combination in a standardized format.
// If clearLine is true, it will clear the current line before printing.
func printKeyCombination(combo types.KeyCombo, clearLine bool) {
	if clearLine {
		fmt.Print("\033[2K\r")
		fmt.Print("Shortcut: ")
	}
	fmt.Print(types.FormatKeyCombo(combo))
}

// applyModifier sets or clears the modifier a raw code belongs to
func applyModifier(kp *KeyPress, code uint16, down bool) bool {
	switch code {
	case keyboard.RawLeftControl, keyboard.RawRightControl:
		kp.Ctrl = down
	case keyboard.RawLeftShift, keyboard.RawRightShift:
		kp.Shift = down
	case keyboard.RawLeftAlt, keyboard.RawRightAlt:
		kp.Alt = down
	case keyboard.RawLeftSuper, keyboard.RawRightSuper:
		kp.Super = down
	default:
		return false
	}
	return true
}

// captureHookKeys reads one key combination through the system event hook
func captureHookKeys() (KeyPress, error) {
	evChan := hook.Start()
	defer hook.End()

	var keyPress KeyPress
	for ev := range evChan {
		code := ev.Rawcode

		switch ev.Kind {
		case hook.KeyHold, hook.KeyDown:
			if applyModifier(&keyPress, code, true) {
				printKeyCombination(keyPress, true)
				continue
			}
			if key, ok := keyboard.RawKeyMap[code]; ok {
				keyPress.Key = key
				return keyPress, nil
			}
			// ASCII fallback
			if ev.Keychar >= 32 && ev.Keychar <= 126 {
				keyPress.Key = strings.ToLower(string(ev.Keychar))
				return keyPress, nil
			}
		case hook.KeyUp:
			if applyModifier(&keyPress, code, false) {
				printKeyCombination(keyPress, true)
			}
		}
	}
	return keyPress, fmt.Errorf("keyboard hook closed")
}
