package tray

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dooshek/typozap/internal/stats"
)

// checkable is the part of a menu item the tone picker drives
type checkable interface {
	Check()
	Uncheck()
}

// tonePicker keeps exactly one tone item checked
type tonePicker struct {
	mu    sync.Mutex
	items map[string]checkable
}

func newTonePicker() *tonePicker {
	return &tonePicker{items: make(map[string]checkable)}
}

func (p *tonePicker) add(title string, item checkable) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items[title] = item
}

func (p *tonePicker) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = make(map[string]checkable)
}

func (p *tonePicker) check(selected string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for title, item := range p.items {
		if title == selected {
			item.Check()
		} else {
			item.Uncheck()
		}
	}
}

// statsLine summarizes usage for the menu
func statsLine(s stats.Stats) string {
	total := s.Totals()
	if total.Corrections == 0 && total.Failures == 0 {
		return "No corrections yet"
	}
	line := fmt.Sprintf("Corrections: %d (%d chars)", total.Corrections, total.CharsOut)
	if total.Failures > 0 {
		line += fmt.Sprintf(", failed: %d", total.Failures)
	}
	return line
}

// statsTooltip lists per-tone counts
func statsTooltip(s stats.Stats) string {
	var parts []string
	for _, name := range s.ToneNames() {
		t := s.Tones[name]
		parts = append(parts, fmt.Sprintf("%s: %d", name, t.Corrections))
	}
	return strings.Join(parts, ", ")
}
