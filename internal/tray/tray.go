// Package tray is the menu-bar surface: status title, tone picker, API key
// entry, usage line and quit.
package tray

import (
	"sync"

	"github.com/dooshek/typozap/internal/logger"
	"github.com/dooshek/typozap/internal/state"
	"github.com/dooshek/typozap/internal/stats"
	"github.com/dooshek/typozap/internal/tone"
	"github.com/dooshek/typozap/internal/types"
	"github.com/getlantern/systray"
)

// Callbacks connect menu actions to the rest of the app
type Callbacks struct {
	// OnReady runs once the menu bar is up. Hotkeys are registered here so
	// the platform event loop is already running.
	OnReady  func()
	OnSetKey func()
	OnQuit   func()
}

type Tray struct {
	app       *state.AppState
	stats     *stats.Manager
	callbacks Callbacks
	indicator *Indicator
	picker    *tonePicker

	mu        sync.Mutex
	toneMenu  *systray.MenuItem
	toneItems []*systray.MenuItem
	toneDone  chan struct{}
	statsItem *systray.MenuItem
}

func New(app *state.AppState, statsMgr *stats.Manager, cb Callbacks) *Tray {
	return &Tray{
		app:       app,
		stats:     statsMgr,
		callbacks: cb,
		indicator: NewIndicator(systray.SetTitle, app.Config.GetTimingConfig().SuccessIcon()),
		picker:    newTonePicker(),
	}
}

// Indicator returns the status indicator driving the menu-bar title
func (t *Tray) Indicator() *Indicator {
	return t.indicator
}

// Run blocks until Quit. Must be called from the main goroutine.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit tears down the menu bar and makes Run return
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	logger.Debug("Menu bar ready")
	systray.SetTitle(IconIdle)
	systray.SetTooltip("TypoZap - " + types.FormatKeyCombo(t.app.Config.GetHotkey()))

	hotkeyItem := systray.AddMenuItem("Correct selection: "+types.FormatKeyCombo(t.app.Config.GetHotkey()), "")
	hotkeyItem.Disable()
	systray.AddSeparator()

	t.toneMenu = systray.AddMenuItem("Tone", "Prompt style used for corrections")
	t.buildToneItems(t.app.Tones.All())
	t.app.Tones.OnChange(func(tones []tone.Tone) {
		t.buildToneItems(tones)
	})

	mSetKey := systray.AddMenuItem("Set API Key…", "Store the API key in the system keychain")
	t.statsItem = systray.AddMenuItem("", "")
	t.statsItem.Disable()
	t.RefreshStats()

	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit TypoZap")

	go func() {
		for {
			select {
			case <-mSetKey.ClickedCh:
				if t.callbacks.OnSetKey != nil {
					t.callbacks.OnSetKey()
				}
			case <-mQuit.ClickedCh:
				logger.Info("Quit selected from menu")
				if t.callbacks.OnQuit != nil {
					t.callbacks.OnQuit()
				}
				systray.Quit()
				return
			}
		}
	}()

	if t.callbacks.OnReady != nil {
		t.callbacks.OnReady()
	}
}

func (t *Tray) onExit() {
	logger.Debug("Menu bar closed")
}

// buildToneItems replaces the tone submenu. systray cannot remove items, so
// stale ones are hidden.
func (t *Tray) buildToneItems(tones []tone.Tone) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.toneDone != nil {
		close(t.toneDone)
	}
	for _, item := range t.toneItems {
		item.Hide()
	}
	t.toneItems = nil
	t.picker.reset()
	done := make(chan struct{})
	t.toneDone = done

	selected := t.app.SelectedTone()
	for _, tn := range tones {
		item := t.toneMenu.AddSubMenuItemCheckbox(tn.Title, tn.Description, tn.Title == selected)
		t.toneItems = append(t.toneItems, item)
		t.picker.add(tn.Title, item)

		go func(title string, item *systray.MenuItem) {
			for {
				select {
				case <-done:
					return
				case <-item.ClickedCh:
					t.picker.check(t.app.SelectTone(title))
				}
			}
		}(tn.Title, item)
	}
}

// RefreshStats updates the usage line
func (t *Tray) RefreshStats() {
	if t.statsItem == nil {
		return
	}
	s := t.stats.GetStats()
	t.statsItem.SetTitle(statsLine(s))
	t.statsItem.SetTooltip(statsTooltip(s))
}
