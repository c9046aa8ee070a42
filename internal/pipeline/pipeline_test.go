package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dooshek/typozap/internal/correction"
	"github.com/dooshek/typozap/internal/llm"
	"github.com/dooshek/typozap/internal/tone"
	"github.com/dooshek/typozap/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClipboard struct {
	mu      sync.Mutex
	content string
	writes  []string
}

func (c *fakeClipboard) Read() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.content
}

func (c *fakeClipboard) Write(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.content = text
	c.writes = append(c.writes, text)
	return nil
}

// fakeKeyboard acts like the focused app: copy puts the selection on the
// clipboard and paste captures what was pasted
type fakeKeyboard struct {
	clip      *fakeClipboard
	selection string
	copyErr   error
	pasted    []string
}

func (k *fakeKeyboard) SendCopyChord() error {
	if k.copyErr != nil {
		return k.copyErr
	}
	if k.selection != "" {
		_ = k.clip.Write(k.selection)
	}
	return nil
}

func (k *fakeKeyboard) SendPasteChord() error {
	k.pasted = append(k.pasted, k.clip.Read())
	return nil
}

type fakeCorrector struct {
	calls  atomic.Int32
	result string
	err    error
	block  chan struct{}
	tones  []string
}

func (c *fakeCorrector) Correct(ctx context.Context, text, toneTitle string) (string, error) {
	c.calls.Add(1)
	c.tones = append(c.tones, toneTitle)
	if c.block != nil {
		select {
		case <-c.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return c.result, c.err
}

type notice struct{ title, message string }

type fakeNotifier struct {
	mu       sync.Mutex
	notices  []notice
	success  int
	failures int
}

func (n *fakeNotifier) Notify(title, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice{title, message})
	return nil
}
func (n *fakeNotifier) PlaySuccess() error { n.success++; return nil }
func (n *fakeNotifier) PlayError() error   { n.failures++; return nil }

type fakeIndicator struct {
	mu       sync.Mutex
	statuses []Status
}

func (i *fakeIndicator) SetStatus(s Status) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.statuses = append(i.statuses, s)
}

type fixedTone string

func (f fixedTone) SelectedTone() string { return string(f) }

type fakeStats struct {
	successes, failures int
	in, out             int
}

func (s *fakeStats) RecordSuccess(toneTitle string, in, out int) {
	s.successes++
	s.in, s.out = in, out
}
func (s *fakeStats) RecordFailure(toneTitle string) { s.failures++ }

type fixture struct {
	clip      *fakeClipboard
	keyboard  *fakeKeyboard
	corrector *fakeCorrector
	notifier  *fakeNotifier
	indicator *fakeIndicator
	stats     *fakeStats
	sleeps    []time.Duration
	pipeline  *Pipeline
}

func newFixture(original, selection string) *fixture {
	clip := &fakeClipboard{content: original}
	f := &fixture{
		clip:      clip,
		keyboard:  &fakeKeyboard{clip: clip, selection: selection},
		corrector: &fakeCorrector{result: "corrected"},
		notifier:  &fakeNotifier{},
		indicator: &fakeIndicator{},
		stats:     &fakeStats{},
	}
	f.pipeline = f.build(f.corrector)
	return f
}

func (f *fixture) build(c Corrector) *Pipeline {
	p := New(Deps{
		Clipboard: f.clip,
		Keyboard:  f.keyboard,
		Corrector: c,
		Notifier:  f.notifier,
		Indicator: f.indicator,
		Tones:     fixedTone("Default"),
		Stats:     f.stats,
		Timing:    types.TimingConfig{CopyDelayMs: 100, PasteDelayMs: 200},
	})
	p.sleep = func(ctx context.Context, d time.Duration) error {
		f.sleeps = append(f.sleeps, d)
		return ctx.Err()
	}
	return p
}

func TestRunSuccessPastesAndRestores(t *testing.T) {
	f := newFixture("original", "teh cat sat")
	f.corrector.result = "The cat sat."

	got, err := f.pipeline.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "The cat sat.", got)
	assert.Equal(t, []string{"The cat sat."}, f.keyboard.pasted)
	assert.Equal(t, "original", f.clip.Read())
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, f.sleeps)
	assert.Equal(t, []Status{StatusProcessing, StatusSuccess}, f.indicator.statuses)
	assert.Equal(t, 1, f.stats.successes)
	assert.Equal(t, 11, f.stats.in)
	assert.Equal(t, 12, f.stats.out)
	assert.Equal(t, 1, f.notifier.success)
	assert.Equal(t, Idle, f.pipeline.State())
	assert.False(t, f.pipeline.Busy())
}

func TestRunRestoresEmptyOriginalClipboard(t *testing.T) {
	f := newFixture("", "teh")

	_, err := f.pipeline.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "", f.clip.Read())
}

func TestRunEmptySelectionNeverCorrects(t *testing.T) {
	for name, selection := range map[string]string{"empty": "", "whitespace": " \n\t "} {
		t.Run(name, func(t *testing.T) {
			f := newFixture("original", selection)

			_, err := f.pipeline.Run(context.Background())

			assert.True(t, errors.Is(err, ErrNoSelection))
			assert.Zero(t, f.corrector.calls.Load())
			assert.Empty(t, f.keyboard.pasted)
			assert.Equal(t, "original", f.clip.Read())
			require.Len(t, f.notifier.notices, 1)
			assert.Equal(t, "No Text Selected", f.notifier.notices[0].title)
			assert.Equal(t, Idle, f.pipeline.State())
		})
	}
}

func TestRunCorrectionFailureLeavesClipboard(t *testing.T) {
	f := newFixture("original", "teh cat")
	f.corrector.err = &llm.StatusError{Code: 500, Body: "oops"}

	_, err := f.pipeline.Run(context.Background())

	assert.Equal(t, 500, llm.StatusCode(err))
	assert.Empty(t, f.keyboard.pasted)
	assert.Equal(t, "teh cat", f.clip.Read(), "clipboard keeps the copied selection")
	require.Len(t, f.notifier.notices, 1)
	assert.Equal(t, "Correction Failed", f.notifier.notices[0].title)
	assert.Equal(t, 1, f.stats.failures)
	assert.Equal(t, 1, f.notifier.failures)
	assert.Equal(t, []Status{StatusProcessing, StatusError}, f.indicator.statuses)
}

func TestRunBlankCorrectionIsNotPasted(t *testing.T) {
	f := newFixture("original", "teh cat")
	f.corrector.result = "  \n"

	_, err := f.pipeline.Run(context.Background())

	assert.ErrorIs(t, err, ErrEmptyCorrection)
	assert.Empty(t, f.keyboard.pasted)
	assert.Equal(t, "teh cat", f.clip.Read())
	require.Len(t, f.notifier.notices, 1)
	assert.Equal(t, "Correction Failed", f.notifier.notices[0].title)
	assert.Equal(t, 1, f.stats.failures)
	assert.Zero(t, f.stats.successes)
}

func TestRunCopyChordFailureRestores(t *testing.T) {
	f := newFixture("original", "text")
	f.keyboard.copyErr = errors.New("accessibility denied")

	_, err := f.pipeline.Run(context.Background())

	require.Error(t, err)
	assert.Zero(t, f.corrector.calls.Load())
	assert.Equal(t, "original", f.clip.Read())
}

func TestRunUsesSelectedTone(t *testing.T) {
	f := newFixture("", "text")
	p := f.build(f.corrector)
	p.deps.Tones = fixedTone("Formal")

	_, err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"Formal"}, f.corrector.tones)
}

func TestBusyGuardRejectsSecondRun(t *testing.T) {
	f := newFixture("original", "text")
	f.corrector.block = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := f.pipeline.Run(context.Background())
		done <- err
	}()
	require.Eventually(t, func() bool { return f.pipeline.State() == Correcting }, time.Second, time.Millisecond)
	assert.True(t, f.pipeline.Busy())

	_, err := f.pipeline.Run(context.Background())
	assert.True(t, errors.Is(err, ErrBusy))

	close(f.corrector.block)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), f.corrector.calls.Load())
	assert.False(t, f.pipeline.Busy())
}

func TestRunCancelledDuringCorrection(t *testing.T) {
	f := newFixture("original", "text")
	f.corrector.block = make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := f.pipeline.Run(ctx)
		done <- err
	}()
	require.Eventually(t, func() bool { return f.pipeline.State() == Correcting }, time.Second, time.Millisecond)
	cancel()

	err := <-done
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, f.notifier.notices, "cancellation is not a user-visible failure")
	assert.Empty(t, f.keyboard.pasted)
	assert.Equal(t, Idle, f.pipeline.State())
}

func TestRunCancelledBeforeRead(t *testing.T) {
	f := newFixture("original", "text")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.pipeline.Run(ctx)

	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, f.corrector.calls.Load())
	assert.Equal(t, "original", f.clip.Read())
}

func TestOnFinishedReceivesResult(t *testing.T) {
	f := newFixture("", "text")
	var results []Result
	f.pipeline.OnFinished(func(r Result) { results = append(results, r) })

	_, _ = f.pipeline.Run(context.Background())

	require.Len(t, results, 1)
	assert.Equal(t, "corrected", results[0].Text)
	assert.Equal(t, "Default", results[0].Tone)
	assert.NoError(t, results[0].Err)
}

type fixedWindow string

func (w fixedWindow) Describe() string { return string(w) }

func TestResultNamesFocusedWindow(t *testing.T) {
	f := newFixture("", "text")
	f.pipeline.deps.Window = fixedWindow("TextEdit (Untitled)")
	var got Result
	f.pipeline.OnFinished(func(r Result) { got = r })

	_, err := f.pipeline.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "TextEdit (Untitled)", got.Window)
}

func TestTriggerRunsInBackground(t *testing.T) {
	f := newFixture("original", "text")
	finished := make(chan Result, 1)
	f.pipeline.OnFinished(func(r Result) { finished <- r })

	f.pipeline.Trigger(context.Background())

	select {
	case r := <-finished:
		assert.Equal(t, "corrected", r.Text)
	case <-time.After(time.Second):
		t.Fatal("trigger did not run the pipeline")
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "awaiting_clipboard", AwaitingClipboard.String())
	assert.Equal(t, "restoring", Restoring.String())
}

type staticKey string

func (s staticKey) Get() (string, bool) { return string(s), s != "" }

func TestScenarioDefaultToneAgainstGemini(t *testing.T) {
	var gotKey, gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-goog-api-key")
		var body struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil && len(body.Contents) > 0 && len(body.Contents[0].Parts) > 0 {
			gotPrompt = body.Contents[0].Parts[0].Text
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"The cat sat."}]}}]}`))
	}))
	defer server.Close()

	cfg := &types.Config{LLM: types.LLMConfig{Gemini: types.GeminiConfig{Endpoint: server.URL}}}
	client := correction.NewClient(staticKey("key-123"), tone.NewCatalog(), cfg.GetLLMConfig())

	f := newFixture("before", "teh cat sat")
	p := f.build(client)
	p.deps.Tones = fixedTone("default")

	got, err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "key-123", gotKey)
	assert.Equal(t, tone.Default.Render("teh cat sat"), gotPrompt)
	assert.Equal(t, "The cat sat.", got)
	assert.Equal(t, []string{"The cat sat."}, f.keyboard.pasted)
	assert.Equal(t, "before", f.clip.Read())
}

func TestScenarioMissingCredentialFails(t *testing.T) {
	client := correction.NewClient(staticKey(""), tone.NewCatalog(), types.Default().GetLLMConfig())
	f := newFixture("before", "text")
	p := f.build(client)

	_, err := p.Run(context.Background())

	assert.True(t, errors.Is(err, llm.ErrMissingCredential))
	assert.Empty(t, f.keyboard.pasted)
}
