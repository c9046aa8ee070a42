package keyboard

import (
	"strconv"

	"golang.design/x/hotkey"
)

const (
	modCtrl  = hotkey.ModCtrl
	modShift = hotkey.ModShift
	modAlt   = hotkey.ModAlt
	modSuper = hotkey.ModWin
)

const CopyModifier = "ctrl"

// Windows virtual-key codes for modifiers
const (
	RawLeftControl  uint16 = 0xA2
	RawRightControl uint16 = 0xA3
	RawLeftShift    uint16 = 0xA0
	RawRightShift   uint16 = 0xA1
	RawLeftAlt      uint16 = 0xA4
	RawRightAlt     uint16 = 0xA5
	RawLeftSuper    uint16 = 0x5B
	RawRightSuper   uint16 = 0x5C
)

// RawKeyMap maps Windows virtual-key codes to key names
var RawKeyMap = func() map[uint16]string {
	m := map[uint16]string{0x20: "space", 0x09: "tab", 0x0D: "return"}
	for c := 'a'; c <= 'z'; c++ {
		m[uint16(c-'a'+0x41)] = string(c)
	}
	for d := '0'; d <= '9'; d++ {
		m[uint16(d-'0'+0x30)] = string(d)
	}
	for i := 1; i <= 12; i++ {
		m[uint16(0x70+i-1)] = "f" + strconv.Itoa(i)
	}
	return m
}()
