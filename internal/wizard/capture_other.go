//go:build !linux

package wizard

func captureKeys() (KeyPress, error) {
	return captureHookKeys()
}
