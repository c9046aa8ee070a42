//go:build !darwin || !cgo

package permissions

import "errors"

// Only macOS gates synthetic input behind a per-app grant.
func accessibilityTrusted() bool {
	return true
}

func openURL(url string) error {
	return errors.New("no accessibility settings pane on this platform")
}
