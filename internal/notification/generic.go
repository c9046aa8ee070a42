package notification

import "github.com/gen2brain/beeep"

type genericNotifier struct{}

func newGenericNotifier() platformNotifier {
	return &genericNotifier{}
}

func (n *genericNotifier) send(title, message string) error {
	return beeep.Notify(title, message, "")
}

func (n *genericNotifier) alert(title, message string) error {
	return beeep.Alert(title, message, "")
}

func (n *genericNotifier) promptSecret(title, message string) (string, bool, error) {
	return "", false, ErrPromptUnsupported
}

func (n *genericNotifier) confirm(title, message, accept string) (bool, error) {
	return false, ErrPromptUnsupported
}

func (n *genericNotifier) playSuccess() error {
	return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
}

func (n *genericNotifier) playError() error {
	return beeep.Beep(beeep.DefaultFreq/2, beeep.DefaultDuration)
}
