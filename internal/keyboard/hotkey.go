package keyboard

import (
	"sync"

	"github.com/dooshek/typozap/internal/types"
	"golang.design/x/hotkey"
)

// systemHotkey wraps golang.design/x/hotkey.
// The hotkey.Hotkey is created lazily in Register so construction spawns no cgo goroutines.
type systemHotkey struct {
	hk        *hotkey.Hotkey
	mods      []hotkey.Modifier
	key       hotkey.Key
	keyCh     chan struct{}
	closeOnce sync.Once
}

func newSystemHotkey(binding types.KeyBinding) (*systemHotkey, error) {
	mods, key, err := parseBinding(binding)
	if err != nil {
		return nil, err
	}
	return &systemHotkey{mods: mods, key: key}, nil
}

func (s *systemHotkey) Register() error {
	s.hk = hotkey.New(s.mods, s.key)
	if err := s.hk.Register(); err != nil {
		_ = s.hk.Unregister()
		s.hk = nil
		return ErrHotkeyConflict
	}

	s.keyCh = make(chan struct{}, 4)
	src := s.hk.Keydown()
	go func() {
		for range src {
			select {
			case s.keyCh <- struct{}{}:
			default: // drop on rapid presses
			}
		}
		s.closeOnce.Do(func() { close(s.keyCh) })
	}()
	return nil
}

func (s *systemHotkey) Unregister() error {
	if s.hk == nil {
		return nil
	}
	return s.hk.Unregister()
}

func (s *systemHotkey) Keydown() <-chan struct{} {
	return s.keyCh
}
