package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/dooshek/typozap/internal/logger"
)

// ToneStats holds counters for a single tone
type ToneStats struct {
	Corrections int `json:"corrections"`
	Failures    int `json:"failures"`
	CharsIn     int `json:"chars_in"`
	CharsOut    int `json:"chars_out"`
}

// Stats holds all correction statistics
type Stats struct {
	Tones map[string]*ToneStats `json:"tones"`
}

// Totals sums every tone
func (s Stats) Totals() ToneStats {
	var total ToneStats
	for _, t := range s.Tones {
		total.Corrections += t.Corrections
		total.Failures += t.Failures
		total.CharsIn += t.CharsIn
		total.CharsOut += t.CharsOut
	}
	return total
}

// ToneNames returns tone titles in stable order
func (s Stats) ToneNames() []string {
	names := make([]string, 0, len(s.Tones))
	for name := range s.Tones {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Manager persists statistics to a JSON file
type Manager struct {
	stats    Stats
	filePath string
	mu       sync.Mutex
}

// NewManager creates a stats manager and loads existing data from filePath
func NewManager(filePath string) *Manager {
	m := &Manager{
		filePath: filePath,
		stats:    Stats{Tones: make(map[string]*ToneStats)},
	}

	if err := m.load(); err != nil {
		logger.Debugf("Could not load stats (will start fresh): %v", err)
	}

	return m
}

func (m *Manager) entry(toneTitle string) *ToneStats {
	if m.stats.Tones == nil {
		m.stats.Tones = make(map[string]*ToneStats)
	}
	t, ok := m.stats.Tones[toneTitle]
	if !ok {
		t = &ToneStats{}
		m.stats.Tones[toneTitle] = t
	}
	return t
}

// RecordSuccess counts a completed correction and persists immediately
func (m *Manager) RecordSuccess(toneTitle string, charsIn, charsOut int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := m.entry(toneTitle)
	t.Corrections++
	t.CharsIn += charsIn
	t.CharsOut += charsOut

	if err := m.save(); err != nil {
		logger.Error("Failed to save stats after correction", err)
	}
}

// RecordFailure counts a failed correction and persists immediately
func (m *Manager) RecordFailure(toneTitle string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entry(toneTitle).Failures++

	if err := m.save(); err != nil {
		logger.Error("Failed to save stats after failure", err)
	}
}

// GetStats returns a deep copy of current statistics
func (m *Manager) GetStats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := Stats{Tones: make(map[string]*ToneStats, len(m.stats.Tones))}
	for name, t := range m.stats.Tones {
		c := *t
		out.Tones[name] = &c
	}
	return out
}

func (m *Manager) load() error {
	data, err := os.ReadFile(m.filePath)
	if err != nil {
		return err
	}

	var s Stats
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to parse stats: %w", err)
	}
	if s.Tones == nil {
		s.Tones = make(map[string]*ToneStats)
	}
	m.stats = s
	return nil
}

func (m *Manager) save() error {
	if err := os.MkdirAll(filepath.Dir(m.filePath), 0o755); err != nil {
		return fmt.Errorf("failed to create stats directory: %w", err)
	}

	data, err := json.MarshalIndent(m.stats, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	return os.WriteFile(m.filePath, data, 0o644)
}
