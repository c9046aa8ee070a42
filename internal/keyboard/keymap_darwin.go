package keyboard

import "golang.design/x/hotkey"

const (
	modCtrl  = hotkey.ModCtrl
	modShift = hotkey.ModShift
	modAlt   = hotkey.ModOption
	modSuper = hotkey.ModCmd
)

// CopyModifier is the modifier used in the copy/paste chords
const CopyModifier = "cmd"

// macOS virtual key codes for modifiers, as reported by the event tap
const (
	RawLeftControl  uint16 = 59
	RawRightControl uint16 = 62
	RawLeftShift    uint16 = 56
	RawRightShift   uint16 = 60
	RawLeftAlt      uint16 = 58
	RawRightAlt     uint16 = 61
	RawLeftSuper    uint16 = 55
	RawRightSuper   uint16 = 54
)

// RawKeyMap maps macOS virtual key codes to key names
var RawKeyMap = map[uint16]string{
	// a-z
	0: "a", 11: "b", 8: "c", 2: "d", 14: "e", 3: "f", 5: "g", 4: "h",
	34: "i", 38: "j", 40: "k", 37: "l", 46: "m", 45: "n", 31: "o", 35: "p",
	12: "q", 15: "r", 1: "s", 17: "t", 32: "u", 9: "v", 13: "w", 7: "x",
	16: "y", 6: "z",
	// 0-9
	29: "0", 18: "1", 19: "2", 20: "3", 21: "4", 23: "5", 22: "6", 26: "7", 28: "8", 25: "9",
	// Others
	49: "space", 48: "tab", 36: "return",
	122: "f1", 120: "f2", 99: "f3", 118: "f4", 96: "f5", 97: "f6",
	98: "f7", 100: "f8", 101: "f9", 109: "f10", 103: "f11", 111: "f12",
}
