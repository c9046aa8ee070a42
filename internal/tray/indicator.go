package tray

import (
	"sync"
	"time"

	"github.com/dooshek/typozap/internal/pipeline"
)

const (
	IconIdle       = "🔤"
	IconProcessing = "⏳"
	IconSuccess    = "✅"
	IconError      = "❌"
)

func iconFor(s pipeline.Status) string {
	switch s {
	case pipeline.StatusProcessing:
		return IconProcessing
	case pipeline.StatusSuccess:
		return IconSuccess
	case pipeline.StatusError:
		return IconError
	default:
		return IconIdle
	}
}

// Indicator shows pipeline status as the menu-bar title.
// Success and error icons fall back to idle after revertAfter.
type Indicator struct {
	mu          sync.Mutex
	setTitle    func(string)
	revertAfter time.Duration
	timer       *time.Timer
	generation  uint64
}

func NewIndicator(setTitle func(string), revertAfter time.Duration) *Indicator {
	return &Indicator{setTitle: setTitle, revertAfter: revertAfter}
}

func (i *Indicator) SetStatus(s pipeline.Status) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.generation++
	if i.timer != nil {
		i.timer.Stop()
		i.timer = nil
	}
	i.setTitle(iconFor(s))

	if s != pipeline.StatusSuccess && s != pipeline.StatusError {
		return
	}
	gen := i.generation
	i.timer = time.AfterFunc(i.revertAfter, func() {
		i.mu.Lock()
		defer i.mu.Unlock()
		// a newer status owns the title
		if gen != i.generation {
			return
		}
		i.setTitle(IconIdle)
	})
}
