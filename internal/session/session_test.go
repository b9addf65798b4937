package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/petrokh/tolmach/internal"
	"github.com/petrokh/tolmach/internal/cache"
	"github.com/petrokh/tolmach/internal/chain"
	"github.com/petrokh/tolmach/internal/translator"
)

// fakeChain answers every request with "T:" + source text and records calls.
type fakeChain struct {
	mu    sync.Mutex
	calls []translator.Request
	err   error
}

func (f *fakeChain) Translate(_ context.Context, req translator.Request) (chain.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	err := f.err
	f.mu.Unlock()
	if err != nil {
		return chain.Result{}, err
	}
	return chain.Result{Text: "T:" + req.Text, Service: "fake", Latency: time.Millisecond}, nil
}

func (f *fakeChain) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeChain) lastCall() translator.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return translator.Request{}
	}
	return f.calls[len(f.calls)-1]
}

// stateRecorder collects every published state for later inspection.
type stateRecorder struct {
	mu     sync.Mutex
	states []State
}

func (r *stateRecorder) record(st State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, st)
}

func (r *stateRecorder) texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, st := range r.states {
		out = append(out, st.TranslatedText)
	}
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

const testDebounce = 20 * time.Millisecond

func newTestController(f Translator, c *cache.Cache, cfg Config) *Controller {
	cfg.Debounce = testDebounce
	return NewController(f, c, cfg, zerolog.Nop())
}

func TestController_TranslatesAfterDebounce(t *testing.T) {
	f := &fakeChain{}
	c := cache.New()
	ctrl := newTestController(f, c, Config{})
	defer ctrl.Close()

	ctrl.Submit("Hello", "en", "ja")

	waitFor(t, func() bool { return ctrl.Snapshot().TranslatedText == "T:Hello" })

	st := ctrl.Snapshot()
	if st.IsTranslating {
		t.Error("expected IsTranslating=false after completion")
	}
	if st.ErrorMessage != "" {
		t.Errorf("expected empty error, got %q", st.ErrorMessage)
	}
	if got, ok := c.Get("en", "ja", "Hello"); !ok || got != "T:Hello" {
		t.Errorf("expected completed translation in cache, got %q (hit=%v)", got, ok)
	}
}

func TestController_RejectsEmptyAndShortText(t *testing.T) {
	f := &fakeChain{}
	ctrl := newTestController(f, nil, Config{})
	defer ctrl.Close()

	ctrl.Submit("", "en", "ja")
	ctrl.Submit("   ", "en", "ja")
	ctrl.Submit("a", "en", "ja")
	ctrl.Submit(" x ", "en", "ja")

	time.Sleep(4 * testDebounce)

	if f.callCount() != 0 {
		t.Errorf("expected no translation calls, got %d", f.callCount())
	}
	if st := ctrl.Snapshot(); st != (State{}) {
		t.Errorf("expected untouched state, got %+v", st)
	}
}

func TestController_DebounceLatestWins(t *testing.T) {
	f := &fakeChain{}
	rec := &stateRecorder{}
	ctrl := newTestController(f, nil, Config{OnState: rec.record})
	defer ctrl.Close()

	ctrl.Submit("Hello", "en", "ja")
	time.Sleep(testDebounce / 4)
	ctrl.Submit("Hello wo", "en", "ja")
	time.Sleep(testDebounce / 4)
	ctrl.Submit("Hello world", "en", "ja")

	waitFor(t, func() bool { return ctrl.Snapshot().TranslatedText == "T:Hello world" })

	if f.callCount() != 1 {
		t.Errorf("expected exactly one translation call, got %d", f.callCount())
	}
	if got := f.lastCall().Text; got != "Hello world" {
		t.Errorf("expected only last text to be translated, got %q", got)
	}
	for _, text := range rec.texts() {
		if text == "T:Hello" || text == "T:Hello wo" {
			t.Errorf("superseded translation %q was published", text)
		}
	}
}

func TestController_DuplicateSubmitIgnored(t *testing.T) {
	f := &fakeChain{}
	ctrl := newTestController(f, nil, Config{})
	defer ctrl.Close()

	ctrl.Submit("Hello", "en", "ja")
	waitFor(t, func() bool { return f.callCount() == 1 })

	// Recognizer re-emits the same final text.
	ctrl.Submit("Hello", "en", "ja")
	ctrl.Submit("  Hello  ", "en", "ja")

	time.Sleep(3 * testDebounce)

	if f.callCount() != 1 {
		t.Errorf("expected no extra calls for re-emitted text, got %d", f.callCount())
	}
}

func TestController_CacheHitPublishesImmediately(t *testing.T) {
	f := &fakeChain{}
	c := cache.New()
	var hooks int
	var hookMu sync.Mutex
	ctrl := newTestController(f, c, Config{OnTranslated: func(internal.Exchange) {
		hookMu.Lock()
		hooks++
		hookMu.Unlock()
	}})
	defer ctrl.Close()

	ctrl.Submit("Hello", "en", "ja")
	waitFor(t, func() bool { return f.callCount() == 1 })
	ctrl.Submit("Goodbye", "en", "ja")
	waitFor(t, func() bool { return f.callCount() == 2 })
	waitFor(t, func() bool {
		hookMu.Lock()
		defer hookMu.Unlock()
		return hooks == 2
	})

	// "Hello" is cached; the result must be published synchronously with
	// no debounce wait and no network call.
	ctrl.Submit("Hello", "en", "ja")

	if got := ctrl.Snapshot().TranslatedText; got != "T:Hello" {
		t.Errorf("expected synchronous cached result, got %q", got)
	}

	time.Sleep(3 * testDebounce)

	if f.callCount() != 2 {
		t.Errorf("expected no network call for cached text, got %d calls", f.callCount())
	}
	hookMu.Lock()
	defer hookMu.Unlock()
	if hooks != 2 {
		t.Errorf("completion hook must not fire for cache hits, fired %d times", hooks)
	}
}

func TestController_LanguagePairChangeClearsCache(t *testing.T) {
	f := &fakeChain{}
	c := cache.New()
	ctrl := newTestController(f, c, Config{})
	defer ctrl.Close()

	ctrl.Submit("Hello", "en", "ja")
	waitFor(t, func() bool { return c.Len() == 1 })

	ctrl.Submit("Hello there", "en", "de")

	// The clear happens synchronously inside Submit, before any dispatch.
	if c.Len() != 0 {
		t.Errorf("expected empty cache immediately after pair change, got %d entries", c.Len())
	}
}

func TestController_PairChangeRetranslatesSameText(t *testing.T) {
	f := &fakeChain{}
	ctrl := newTestController(f, nil, Config{})
	defer ctrl.Close()

	ctrl.Submit("Hello", "en", "ja")
	waitFor(t, func() bool { return f.callCount() == 1 })

	// Same text, new target language: must not be treated as a duplicate.
	ctrl.Submit("Hello", "en", "de")
	waitFor(t, func() bool { return f.callCount() == 2 })

	if got := f.lastCall().TargetLang; got != "de" {
		t.Errorf("expected retranslation into de, got %q", got)
	}
}

func TestController_AllServicesFailed(t *testing.T) {
	f := &fakeChain{err: chain.ErrAllServicesFailed}
	ctrl := newTestController(f, nil, Config{})
	defer ctrl.Close()

	ctrl.Submit("Hello", "en", "ja")

	waitFor(t, func() bool { return ctrl.Snapshot().ErrorMessage != "" })

	st := ctrl.Snapshot()
	if st.TranslatedText != FailurePlaceholder {
		t.Errorf("expected placeholder text, got %q", st.TranslatedText)
	}
	if st.IsTranslating {
		t.Error("expected IsTranslating=false after failure")
	}
}

func TestController_ErrorClearedOnNextRequest(t *testing.T) {
	f := &fakeChain{err: chain.ErrAllServicesFailed}
	ctrl := newTestController(f, nil, Config{})
	defer ctrl.Close()

	ctrl.Submit("Hello", "en", "ja")
	waitFor(t, func() bool { return ctrl.Snapshot().ErrorMessage != "" })

	f.mu.Lock()
	f.err = nil
	f.mu.Unlock()

	ctrl.Submit("Hello again", "en", "ja")
	waitFor(t, func() bool { return ctrl.Snapshot().TranslatedText == "T:Hello again" })

	if msg := ctrl.Snapshot().ErrorMessage; msg != "" {
		t.Errorf("expected error cleared after recovery, got %q", msg)
	}
}

// blockingChain lets a test hold a translation in flight.
type blockingChain struct {
	started chan translator.Request
	release chan struct{}
}

func (b *blockingChain) Translate(ctx context.Context, req translator.Request) (chain.Result, error) {
	b.started <- req
	select {
	case <-b.release:
		return chain.Result{Text: "T:" + req.Text, Service: "fake"}, nil
	case <-ctx.Done():
		return chain.Result{}, ctx.Err()
	}
}

func TestController_SupersededInFlightResultDiscarded(t *testing.T) {
	b := &blockingChain{
		started: make(chan translator.Request, 2),
		release: make(chan struct{}),
	}
	rec := &stateRecorder{}
	ctrl := newTestController(b, nil, Config{OnState: rec.record})
	defer ctrl.Close()

	ctrl.Submit("Hello", "en", "ja")
	<-b.started // first operation is now in flight

	ctrl.Submit("Hello world", "en", "ja")
	<-b.started // second operation in flight; first was superseded

	close(b.release)

	waitFor(t, func() bool { return ctrl.Snapshot().TranslatedText == "T:Hello world" })

	for _, text := range rec.texts() {
		if text == "T:Hello" {
			t.Error("superseded in-flight result was published")
		}
	}
}

func TestController_IsTranslatingDuringFlight(t *testing.T) {
	b := &blockingChain{
		started: make(chan translator.Request, 1),
		release: make(chan struct{}),
	}
	ctrl := newTestController(b, nil, Config{})
	defer ctrl.Close()

	ctrl.Submit("Hello", "en", "ja")
	<-b.started

	waitFor(t, func() bool { return ctrl.Snapshot().IsTranslating })

	close(b.release)
	waitFor(t, func() bool { return !ctrl.Snapshot().IsTranslating })
}

func TestController_CompletionHookCarriesExchange(t *testing.T) {
	f := &fakeChain{}
	var mu sync.Mutex
	var got internal.Exchange
	ctrl := newTestController(f, nil, Config{OnTranslated: func(ex internal.Exchange) {
		mu.Lock()
		got = ex
		mu.Unlock()
	}})
	defer ctrl.Close()

	ctrl.Submit("Hello", "en", "ja")

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return got.ID != ""
	})

	mu.Lock()
	defer mu.Unlock()
	if got.SourceText != "Hello" || got.SourceLang != "en" || got.TargetLang != "ja" {
		t.Errorf("unexpected exchange %+v", got)
	}
	if got.TranslatedText != "T:Hello" {
		t.Errorf("expected translated text in exchange, got %q", got.TranslatedText)
	}
	if got.Service != "fake" {
		t.Errorf("expected service name in exchange, got %q", got.Service)
	}
	if got.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

func TestController_CloseCancelsPending(t *testing.T) {
	f := &fakeChain{}
	ctrl := newTestController(f, nil, Config{})

	ctrl.Submit("Hello", "en", "ja")
	ctrl.Close()

	time.Sleep(3 * testDebounce)

	if f.callCount() != 0 {
		t.Errorf("expected pending operation cancelled by Close, got %d calls", f.callCount())
	}

	ctrl.Submit("After close", "en", "ja")
	time.Sleep(2 * testDebounce)
	if f.callCount() != 0 {
		t.Error("Submit after Close must be a no-op")
	}
}
