package keyboard

import "golang.design/x/hotkey"

const (
	modCtrl  = hotkey.ModCtrl
	modShift = hotkey.ModShift
	modAlt   = hotkey.Mod1
	modSuper = hotkey.Mod4
)

const CopyModifier = "ctrl"

// X11 modifier key codes, as reported by the hook
const (
	RawLeftControl  uint16 = 65507
	RawRightControl uint16 = 65508
	RawLeftShift    uint16 = 65505
	RawRightShift   uint16 = 65506
	RawLeftAlt      uint16 = 65513
	RawRightAlt     uint16 = 65027
	RawLeftSuper    uint16 = 65515
	RawRightSuper   uint16 = 65516
)

// RawKeyMap maps X11 codes to key names
var RawKeyMap = map[uint16]string{
	// a-z
	38: "a", 56: "b", 54: "c", 40: "d", 26: "e", 41: "f", 42: "g", 43: "h",
	31: "i", 44: "j", 45: "k", 46: "l", 58: "m", 57: "n", 32: "o", 33: "p",
	24: "q", 27: "r", 39: "s", 28: "t", 30: "u", 55: "v", 25: "w", 53: "x",
	29: "y", 52: "z",
	// ASCII codes some servers report instead
	97: "a", 118: "v", 99: "c", 116: "t", 120: "x", 122: "z",
	// 0-9
	19: "0", 10: "1", 11: "2", 12: "3", 13: "4", 14: "5", 15: "6", 16: "7", 17: "8", 18: "9",
	65: "space", 23: "tab", 36: "return",
}

// Evdev (Wayland) modifier key codes
const (
	EvdevLeftControl  uint16 = 29
	EvdevRightControl uint16 = 97
	EvdevLeftShift    uint16 = 42
	EvdevRightShift   uint16 = 54
	EvdevLeftAlt      uint16 = 56
	EvdevRightAlt     uint16 = 100
	EvdevLeftSuper    uint16 = 125
	EvdevRightSuper   uint16 = 126
)

// EvdevKeyCodes maps key names to evdev codes
var EvdevKeyCodes = map[string]uint16{
	// a-z
	"a": 30, "b": 48, "c": 46, "d": 32, "e": 18, "f": 33, "g": 34, "h": 35,
	"i": 23, "j": 36, "k": 37, "l": 38, "m": 50, "n": 49, "o": 24, "p": 25,
	"q": 16, "r": 19, "s": 31, "t": 20, "u": 22, "v": 47, "w": 17, "x": 45,
	"y": 21, "z": 44,
	// 0-9
	"0": 11, "1": 2, "2": 3, "3": 4, "4": 5, "5": 6, "6": 7, "7": 8, "8": 9, "9": 10,
	"space": 57, "tab": 15, "return": 28, "enter": 28,
	"f1": 59, "f2": 60, "f3": 61, "f4": 62, "f5": 63, "f6": 64,
	"f7": 65, "f8": 66, "f9": 67, "f10": 68, "f11": 87, "f12": 88,
}
