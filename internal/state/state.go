package state

import (
	"sync"

	"github.com/dooshek/typozap/internal/config"
	"github.com/dooshek/typozap/internal/fileops"
	"github.com/dooshek/typozap/internal/logger"
	"github.com/dooshek/typozap/internal/tone"
	"github.com/dooshek/typozap/internal/types"
)

// AppState is owned by main and handed to every component that needs it.
// It holds the loaded config and the persisted tone selection.
type AppState struct {
	Config *types.Config
	Tones  *tone.Catalog

	fileOps fileops.FileOps

	mu           sync.RWMutex
	selectedTone string
}

// New loads the persisted tone selection and normalizes it against tones
func New(cfg *types.Config, tones *tone.Catalog, fileOps fileops.FileOps) *AppState {
	s := &AppState{
		Config:  cfg,
		Tones:   tones,
		fileOps: fileOps,
	}

	prefs := config.LoadPreferences(fileOps)
	s.selectedTone = s.normalize(prefs.SelectedTone)

	tones.OnChange(func([]tone.Tone) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.selectedTone = s.normalize(s.selectedTone)
	})

	return s
}

// normalize maps a title onto the catalog's spelling, or the default tone
func (s *AppState) normalize(title string) string {
	return s.Tones.Resolve(title).Title
}

// SelectedTone returns the title of the selected tone. Always a tone that exists.
func (s *AppState) SelectedTone() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedTone
}

// SelectTone changes and persists the selection. Unknown titles select the default tone.
func (s *AppState) SelectTone(title string) string {
	s.mu.Lock()
	s.selectedTone = s.normalize(title)
	selected := s.selectedTone
	s.mu.Unlock()

	if err := config.SavePreferences(s.fileOps, config.Preferences{SelectedTone: selected}); err != nil {
		logger.Error("Failed to persist tone selection", err)
	}
	logger.Infof("Tone selected: %s", selected)
	return selected
}
