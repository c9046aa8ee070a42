package permissions

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakePrompter struct {
	accept bool
	err    error
	asked  []string
}

func (p *fakePrompter) Confirm(title, message, accept string) (bool, error) {
	p.asked = append(p.asked, title)
	return p.accept, p.err
}

func newTestChecker(trusted bool) (*Checker, *[]string) {
	var opened []string
	c := &Checker{
		trusted: func() bool { return trusted },
		open: func(url string) error {
			opened = append(opened, url)
			return nil
		},
	}
	return c, &opened
}

func TestTrustedProcessIsNotPrompted(t *testing.T) {
	c, opened := newTestChecker(true)
	p := &fakePrompter{}

	assert.True(t, c.CheckAccessibility(p))
	assert.Empty(t, p.asked)
	assert.Empty(t, *opened)
}

func TestMissingPermissionOpensSettings(t *testing.T) {
	c, opened := newTestChecker(false)
	p := &fakePrompter{accept: true}

	assert.False(t, c.CheckAccessibility(p))
	assert.Equal(t, []string{"Accessibility Permission Required"}, p.asked)
	assert.Equal(t, []string{AccessibilitySettingsURL}, *opened)
}

func TestMissingPermissionLater(t *testing.T) {
	c, opened := newTestChecker(false)
	p := &fakePrompter{accept: false}

	assert.False(t, c.CheckAccessibility(p))
	assert.Len(t, p.asked, 1)
	assert.Empty(t, *opened)
}

func TestMissingPermissionPromptFails(t *testing.T) {
	c, opened := newTestChecker(false)
	p := &fakePrompter{accept: true, err: errors.New("no dialog")}

	assert.False(t, c.CheckAccessibility(p))
	assert.Empty(t, *opened)
}
