package keyboard

import (
	"context"
	"sync"
	"time"

	"github.com/dooshek/typozap/internal/logger"
	"github.com/dooshek/typozap/internal/types"
)

// debounceThreshold drops repeated presses that arrive too fast
const debounceThreshold = 300 * time.Millisecond

// backend abstracts the platform hotkey implementation so tests can use a mock
type backend interface {
	Register() error
	Unregister() error
	Keydown() <-chan struct{}
}

// Monitor listens for the global hotkey and invokes a callback on every press
type Monitor struct {
	mu        sync.Mutex
	backend   backend
	binding   types.KeyBinding
	cancel    context.CancelFunc
	doneCh    chan struct{}
	lastPress time.Time
	now       func() time.Time
}

// CreateMonitor creates a monitor for the binding using the platform backend
func CreateMonitor(binding types.KeyBinding) (*Monitor, error) {
	b, err := newSystemBackend(binding)
	if err != nil {
		return nil, err
	}
	return newMonitorWithBackend(binding, b), nil
}

func newMonitorWithBackend(binding types.KeyBinding, b backend) *Monitor {
	return &Monitor{
		backend: b,
		binding: binding,
		now:     time.Now,
	}
}

// Start registers the hotkey and calls onTrigger for each press until ctx is
// cancelled or Stop is called. Returns ErrHotkeyConflict if the combination is taken.
func (m *Monitor) Start(ctx context.Context, onTrigger func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.backend.Register(); err != nil {
		return err
	}
	logger.Infof("Hotkey %s registered", types.FormatKeyCombo(m.binding))

	listenCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	doneCh := make(chan struct{})
	m.doneCh = doneCh
	keydown := m.backend.Keydown()

	go func() {
		defer close(doneCh)
		for {
			select {
			case <-listenCtx.Done():
				return
			case _, ok := <-keydown:
				if !ok {
					return
				}
				if !m.accept() {
					logger.Debug("Hotkey press ignored - too soon after previous")
					continue
				}
				logger.Debugf("Hotkey %s triggered", types.FormatKeyCombo(m.binding))
				onTrigger()
			}
		}
	}()
	return nil
}

func (m *Monitor) accept() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if !m.lastPress.IsZero() && now.Sub(m.lastPress) < debounceThreshold {
		return false
	}
	m.lastPress = now
	return true
}

// Stop unregisters the hotkey and waits briefly for the listener to exit
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	doneCh := m.doneCh
	m.cancel = nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	if err := m.backend.Unregister(); err != nil {
		logger.Warnf("Failed to unregister hotkey: %v", err)
	}
	cancel()

	select {
	case <-doneCh:
	case <-time.After(200 * time.Millisecond):
		logger.Warn("Timed out waiting for hotkey listener to exit")
	}
}

// Combo returns the display form of the monitored combination
func (m *Monitor) Combo() string {
	return types.FormatKeyCombo(m.binding)
}
