package keyboard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dooshek/typozap/internal/types"
	"golang.design/x/hotkey"
)

// ErrHotkeyConflict is returned when the hotkey is already registered by another app.
var ErrHotkeyConflict = errors.New("hotkey: key combination already registered by another application")

// ErrHotkeyInvalid is returned when the binding cannot be mapped to a hotkey.
var ErrHotkeyInvalid = errors.New("hotkey: invalid key combination")

// hotkeyKeys maps binding key names to golang.design/x/hotkey keys
var hotkeyKeys = map[string]hotkey.Key{
	"space":  hotkey.KeySpace,
	"tab":    hotkey.KeyTab,
	"return": hotkey.KeyReturn,
	"enter":  hotkey.KeyReturn,
	// a-z
	"a": hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD,
	"e": hotkey.KeyE, "f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH,
	"i": hotkey.KeyI, "j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO, "p": hotkey.KeyP,
	"q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,
	// 0-9
	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,
	// Function keys
	"f1": hotkey.KeyF1, "f2": hotkey.KeyF2, "f3": hotkey.KeyF3, "f4": hotkey.KeyF4,
	"f5": hotkey.KeyF5, "f6": hotkey.KeyF6, "f7": hotkey.KeyF7, "f8": hotkey.KeyF8,
	"f9": hotkey.KeyF9, "f10": hotkey.KeyF10, "f11": hotkey.KeyF11, "f12": hotkey.KeyF12,
}

// ValidKey reports whether name can be used as the hotkey's key
func ValidKey(name string) bool {
	_, ok := hotkeyKeys[strings.ToLower(name)]
	return ok
}

// parseBinding maps a binding onto hotkey modifiers and key.
// At least one modifier is required so plain typing never triggers a correction.
func parseBinding(kb types.KeyBinding) ([]hotkey.Modifier, hotkey.Key, error) {
	key, ok := hotkeyKeys[strings.ToLower(kb.Key)]
	if !ok {
		return nil, 0, fmt.Errorf("%w: unknown key %q", ErrHotkeyInvalid, kb.Key)
	}

	var mods []hotkey.Modifier
	if kb.Ctrl {
		mods = append(mods, modCtrl)
	}
	if kb.Shift {
		mods = append(mods, modShift)
	}
	if kb.Alt {
		mods = append(mods, modAlt)
	}
	if kb.Super {
		mods = append(mods, modSuper)
	}
	if len(mods) == 0 {
		return nil, 0, fmt.Errorf("%w: %s needs at least one modifier", ErrHotkeyInvalid, types.FormatKeyCombo(kb))
	}
	return mods, key, nil
}
