//go:build !linux

package keyboard

import "github.com/dooshek/typozap/internal/types"

func newSystemBackend(binding types.KeyBinding) (backend, error) {
	return newSystemHotkey(binding)
}
