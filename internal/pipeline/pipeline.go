package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dooshek/typozap/internal/clipboard"
	"github.com/dooshek/typozap/internal/logger"
	"github.com/dooshek/typozap/internal/types"
)

var (
	// ErrBusy is returned when a run is requested while another is in flight
	ErrBusy = errors.New("correction already in progress")
	// ErrNoSelection is returned when the copy chord produced no text
	ErrNoSelection = errors.New("no text selected")
	// ErrEmptyCorrection is returned instead of pasting blank text over the selection
	ErrEmptyCorrection = errors.New("correction returned no text")
)

const (
	noSelectionTitle   = "No Text Selected"
	noSelectionMessage = "Please select some text to correct."
	failureTitle       = "Correction Failed"
)

// State is the position of a run in the copy, correct, paste cycle
type State int32

const (
	Idle State = iota
	Copying
	AwaitingClipboard
	Correcting
	Pasting
	Restoring
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Copying:
		return "copying"
	case AwaitingClipboard:
		return "awaiting_clipboard"
	case Correcting:
		return "correcting"
	case Pasting:
		return "pasting"
	case Restoring:
		return "restoring"
	default:
		return "unknown"
	}
}

// Status is what the menu-bar indicator shows
type Status int

const (
	StatusIdle Status = iota
	StatusProcessing
	StatusSuccess
	StatusError
)

type Clipboard interface {
	Read() string
	Write(text string) error
}

type Keyboard interface {
	SendCopyChord() error
	SendPasteChord() error
}

type Corrector interface {
	Correct(ctx context.Context, text, toneTitle string) (string, error)
}

type Notifier interface {
	Notify(title, message string) error
	PlaySuccess() error
	PlayError() error
}

type Indicator interface {
	SetStatus(Status)
}

type ToneSource interface {
	SelectedTone() string
}

// WindowSource names the window a run is about to edit
type WindowSource interface {
	Describe() string
}

type Recorder interface {
	RecordSuccess(toneTitle string, charsIn, charsOut int)
	RecordFailure(toneTitle string)
}

// Deps are the collaborators a pipeline drives. Indicator, Stats and Window may be nil.
type Deps struct {
	Clipboard Clipboard
	Keyboard  Keyboard
	Corrector Corrector
	Notifier  Notifier
	Indicator Indicator
	Tones     ToneSource
	Stats     Recorder
	Window    WindowSource
	Timing    types.TimingConfig
}

// Result describes a finished run
type Result struct {
	Tone   string
	Window string
	Text   string
	Err    error
}

// Pipeline runs one correction cycle at a time
type Pipeline struct {
	deps  Deps
	state atomic.Int32
	busy  atomic.Bool
	sleep func(ctx context.Context, d time.Duration) error

	mu        sync.Mutex
	observers []func(Result)
}

func New(deps Deps) *Pipeline {
	return &Pipeline{deps: deps, sleep: sleepCtx}
}

// sleepCtx waits for d or until ctx is done
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (p *Pipeline) State() State {
	return State(p.state.Load())
}

// Busy reports whether a run is in flight
func (p *Pipeline) Busy() bool {
	return p.busy.Load()
}

// OnFinished registers fn to be called after every run that got past the busy guard
func (p *Pipeline) OnFinished(fn func(Result)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, fn)
}

// Trigger starts a run in the background
func (p *Pipeline) Trigger(ctx context.Context) {
	go func() {
		if _, err := p.Run(ctx); err != nil {
			if errors.Is(err, ErrBusy) {
				logger.Debug("Hotkey ignored - correction already in progress")
				return
			}
			logger.Debugf("Correction run ended: %v", err)
		}
	}()
}

// Run performs one copy, correct, paste, restore cycle and returns the
// corrected text. The clipboard content from before the run is restored after
// a successful paste and when nothing was selected.
func (p *Pipeline) Run(ctx context.Context) (string, error) {
	if !p.busy.CompareAndSwap(false, true) {
		return "", ErrBusy
	}
	defer p.busy.Store(false)
	defer p.setState(Idle)

	toneTitle := p.deps.Tones.SelectedTone()
	window := ""
	if p.deps.Window != nil {
		window = p.deps.Window.Describe()
		logger.Debugf("Correcting selection in %s", window)
	}
	text, err := p.run(ctx, toneTitle)
	p.finish(Result{Tone: toneTitle, Window: window, Text: text, Err: err})
	return text, err
}

func (p *Pipeline) run(ctx context.Context, toneTitle string) (string, error) {
	timing := p.deps.Timing
	clip := p.deps.Clipboard

	p.setStatus(StatusProcessing)
	p.setState(Copying)

	// Clearing first lets an empty read mean "nothing selected" rather
	// than stale clipboard content.
	snapshot := clip.Read()
	if err := clip.Write(""); err != nil {
		logger.Warnf("Failed to clear clipboard before copy: %v", err)
	}
	if err := p.deps.Keyboard.SendCopyChord(); err != nil {
		p.restore(snapshot)
		return "", p.fail(toneTitle, err)
	}

	p.setState(AwaitingClipboard)
	if err := p.sleep(ctx, timing.CopyDelay()); err != nil {
		p.restore(snapshot)
		p.setStatus(StatusIdle)
		return "", err
	}

	selected := clip.Read()
	if !clipboard.HasText(selected) {
		p.restore(snapshot)
		p.setStatus(StatusIdle)
		if err := p.deps.Notifier.Notify(noSelectionTitle, noSelectionMessage); err != nil {
			logger.Warnf("Failed to show notification: %v", err)
		}
		return "", ErrNoSelection
	}

	p.setState(Correcting)
	logger.Debugf("Correcting %d characters with tone %q", len(selected), toneTitle)
	corrected, err := p.deps.Corrector.Correct(ctx, selected, toneTitle)
	if err != nil {
		if ctx.Err() != nil {
			p.setStatus(StatusIdle)
			return "", err
		}
		return "", p.fail(toneTitle, err)
	}
	if !clipboard.HasText(corrected) {
		return "", p.fail(toneTitle, ErrEmptyCorrection)
	}

	p.setState(Pasting)
	if err := clip.Write(corrected); err != nil {
		return "", p.fail(toneTitle, err)
	}
	if err := p.deps.Keyboard.SendPasteChord(); err != nil {
		return "", p.fail(toneTitle, err)
	}
	sleepErr := p.sleep(ctx, timing.PasteDelay())

	p.setState(Restoring)
	p.restore(snapshot)
	if sleepErr != nil {
		p.setStatus(StatusIdle)
		return "", sleepErr
	}

	if p.deps.Stats != nil {
		p.deps.Stats.RecordSuccess(toneTitle, len([]rune(selected)), len([]rune(corrected)))
	}
	p.setStatus(StatusSuccess)
	if err := p.deps.Notifier.PlaySuccess(); err != nil {
		logger.Debugf("Failed to play success sound: %v", err)
	}
	logger.Info("Correction applied")
	return corrected, nil
}

// fail surfaces a terminal run error to the user
func (p *Pipeline) fail(toneTitle string, err error) error {
	logger.Error("Correction failed", err)
	if p.deps.Stats != nil {
		p.deps.Stats.RecordFailure(toneTitle)
	}
	p.setStatus(StatusError)
	if nErr := p.deps.Notifier.Notify(failureTitle, err.Error()); nErr != nil {
		logger.Warnf("Failed to show notification: %v", nErr)
	}
	if sErr := p.deps.Notifier.PlayError(); sErr != nil {
		logger.Debugf("Failed to play error sound: %v", sErr)
	}
	return err
}

func (p *Pipeline) restore(snapshot string) {
	if err := p.deps.Clipboard.Write(snapshot); err != nil {
		logger.Warnf("Failed to restore clipboard: %v", err)
	}
}

func (p *Pipeline) setState(s State) {
	p.state.Store(int32(s))
}

func (p *Pipeline) setStatus(s Status) {
	if p.deps.Indicator != nil {
		p.deps.Indicator.SetStatus(s)
	}
}

func (p *Pipeline) finish(r Result) {
	p.mu.Lock()
	observers := append([]func(Result){}, p.observers...)
	p.mu.Unlock()
	for _, fn := range observers {
		fn(r)
	}
}
