//go:build darwin && cgo

package permissions

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework Foundation
#include <ApplicationServices/ApplicationServices.h>

// tz_is_trusted also adds the app to the Accessibility list in System Settings
static bool tz_is_trusted() {
    const void *keys[] = { kAXTrustedCheckOptionPrompt };
    const void *values[] = { kCFBooleanTrue };
    CFDictionaryRef options = CFDictionaryCreate(kCFAllocatorDefault,
        keys,
        values,
        1,
        &kCFTypeDictionaryKeyCallBacks,
        &kCFTypeDictionaryValueCallBacks);
    bool trusted = AXIsProcessTrustedWithOptions(options);
    CFRelease(options);
    return trusted;
}
*/
import "C"

import (
	"fmt"
	"os/exec"
)

func accessibilityTrusted() bool {
	return bool(C.tz_is_trusted())
}

func openURL(url string) error {
	if err := exec.Command("open", url).Run(); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}
