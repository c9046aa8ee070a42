package keyboard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dooshek/typozap/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockBackend struct {
	registerErr  error
	registered   atomic.Bool
	unregistered atomic.Int32
	ch           chan struct{}
}

func newMockBackend() *mockBackend {
	return &mockBackend{ch: make(chan struct{}, 8)}
}

func (m *mockBackend) Register() error {
	if m.registerErr != nil {
		return m.registerErr
	}
	m.registered.Store(true)
	return nil
}

func (m *mockBackend) Unregister() error {
	m.unregistered.Add(1)
	return nil
}

func (m *mockBackend) Keydown() <-chan struct{} { return m.ch }

func TestMonitorTriggersOnPress(t *testing.T) {
	b := newMockBackend()
	m := newMonitorWithBackend(types.DefaultHotkey(), b)

	var count atomic.Int32
	require.NoError(t, m.Start(context.Background(), func() { count.Add(1) }))
	defer m.Stop()

	assert.True(t, b.registered.Load())
	b.ch <- struct{}{}
	require.Eventually(t, func() bool { return count.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestMonitorDebouncesRapidPresses(t *testing.T) {
	b := newMockBackend()
	m := newMonitorWithBackend(types.DefaultHotkey(), b)
	start := time.Now()
	var offset atomic.Int64
	m.now = func() time.Time { return start.Add(time.Duration(offset.Load())) }

	var count atomic.Int32
	require.NoError(t, m.Start(context.Background(), func() { count.Add(1) }))
	defer m.Stop()

	b.ch <- struct{}{}
	require.Eventually(t, func() bool { return count.Load() == 1 }, time.Second, 5*time.Millisecond)

	offset.Store(int64(50 * time.Millisecond))
	b.ch <- struct{}{}
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), count.Load())

	offset.Store(int64(time.Second))
	b.ch <- struct{}{}
	require.Eventually(t, func() bool { return count.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestMonitorStartConflict(t *testing.T) {
	b := newMockBackend()
	b.registerErr = ErrHotkeyConflict
	m := newMonitorWithBackend(types.DefaultHotkey(), b)

	err := m.Start(context.Background(), func() {})
	assert.True(t, errors.Is(err, ErrHotkeyConflict))
}

func TestMonitorStopUnregisters(t *testing.T) {
	b := newMockBackend()
	m := newMonitorWithBackend(types.DefaultHotkey(), b)

	var count atomic.Int32
	require.NoError(t, m.Start(context.Background(), func() { count.Add(1) }))
	m.Stop()
	m.Stop()

	assert.Equal(t, int32(1), b.unregistered.Load())
	b.ch <- struct{}{}
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), count.Load())
}

func TestMonitorExitsOnContextCancel(t *testing.T) {
	b := newMockBackend()
	m := newMonitorWithBackend(types.DefaultHotkey(), b)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, m.Start(ctx, func() {}))
	cancel()

	m.mu.Lock()
	done := m.doneCh
	m.mu.Unlock()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("listener did not exit")
	}
}

func TestMonitorCombo(t *testing.T) {
	m := newMonitorWithBackend(types.DefaultHotkey(), newMockBackend())
	assert.Equal(t, "ALT + T", m.Combo())
}

func TestParseBinding(t *testing.T) {
	mods, key, err := parseBinding(types.KeyBinding{Key: "T", Alt: true, Shift: true})
	require.NoError(t, err)
	assert.Len(t, mods, 2)
	assert.Equal(t, hotkeyKeys["t"], key)

	_, _, err = parseBinding(types.KeyBinding{Key: "t"})
	assert.True(t, errors.Is(err, ErrHotkeyInvalid))

	_, _, err = parseBinding(types.KeyBinding{Key: "pause", Ctrl: true})
	assert.True(t, errors.Is(err, ErrHotkeyInvalid))
}

func TestValidKey(t *testing.T) {
	assert.True(t, ValidKey("F5"))
	assert.True(t, ValidKey("space"))
	assert.False(t, ValidKey("ctrl"))
}
