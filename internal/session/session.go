// Package session owns the live interpretation loop: it receives
// recognized-text events, decides when a translation request is actually
// worth issuing, and publishes the observable session state.
package session

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/petrokh/tolmach/internal"
	"github.com/petrokh/tolmach/internal/cache"
	"github.com/petrokh/tolmach/internal/chain"
	"github.com/petrokh/tolmach/internal/translator"
)

const (
	// DefaultDebounce is how long recognized text must stop changing
	// before a network translation is issued.
	DefaultDebounce = 300 * time.Millisecond

	// minSubmitRunes suppresses one-character recognition fragments.
	minSubmitRunes = 2

	// FailurePlaceholder is published as the translated text when every
	// service failed.
	FailurePlaceholder = "(translation unavailable)"

	failureMessage = "Could not translate. Check your connection and try again."
)

// State is the observable session state. Exactly one mutator (the
// controller) writes it; any number of observers read it via Snapshot.
// Terminal values persist until the next request starts.
type State struct {
	TranslatedText string
	IsTranslating  bool
	ErrorMessage   string
}

// Translator is the downstream translation dependency, satisfied by
// *chain.Chain.
type Translator interface {
	Translate(ctx context.Context, req translator.Request) (chain.Result, error)
}

// Config tunes a Controller.
type Config struct {
	// Debounce delays dispatch until input has stopped changing.
	// Zero means DefaultDebounce.
	Debounce time.Duration

	// OnState, when non-nil, is called after every state change. Callbacks
	// run outside the controller lock; read Snapshot for the authoritative
	// current state.
	OnState func(State)

	// OnTranslated, when non-nil, fires exactly once per successfully
	// completed, non-cached translation. Collaborators use it to trigger
	// speech synthesis and history persistence.
	OnTranslated func(internal.Exchange)
}

// Controller coordinates debounce, supersession, and caching for a stream
// of recognized-text events. At most one translation operation is pending
// or in flight at any time; a newer submission supersedes an older one,
// and superseded operations never mutate state even if their network call
// completes later.
type Controller struct {
	logger       zerolog.Logger
	chain        Translator
	cache        *cache.Cache
	debounce     time.Duration
	onState      func(State)
	onTranslated func(internal.Exchange)

	mu             sync.Mutex
	state          State
	lastSourceLang string
	lastTargetLang string
	lastSubmitted  string
	generation     uint64
	pendingTimer   *time.Timer
	pendingCancel  context.CancelFunc
	closed         bool
}

func NewController(tr Translator, c *cache.Cache, cfg Config, logger zerolog.Logger) *Controller {
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if c == nil {
		c = cache.New()
	}
	return &Controller{
		logger:       logger,
		chain:        tr,
		cache:        c,
		debounce:     debounce,
		onState:      cfg.OnState,
		onTranslated: cfg.OnTranslated,
	}
}

// Snapshot returns the current session state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit handles one recognized-text observation. It may be called many
// times per second during live dictation; most calls are expected to
// short-circuit without scheduling any work.
func (c *Controller) Submit(text, sourceLang, targetLang string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}
	if utf8.RuneCountInString(trimmed) < minSubmitRunes {
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	if sourceLang != c.lastSourceLang || targetLang != c.lastTargetLang {
		// New language pair: nothing cached for the old pair may leak
		// into the new one, and the same text must be translatable again.
		c.cache.Clear()
		c.lastSourceLang = sourceLang
		c.lastTargetLang = targetLang
		c.lastSubmitted = ""
	}

	if trimmed == c.lastSubmitted {
		c.mu.Unlock()
		return
	}

	if cached, ok := c.cache.Get(sourceLang, targetLang, trimmed); ok {
		c.supersedeLocked()
		c.lastSubmitted = trimmed
		c.state = State{TranslatedText: cached}
		st := c.state
		c.mu.Unlock()
		c.notify(st)
		return
	}

	c.supersedeLocked()
	gen := c.generation

	ctx, cancel := context.WithCancel(context.Background())
	c.pendingCancel = cancel

	req := translator.Request{Text: trimmed, SourceLang: sourceLang, TargetLang: targetLang}
	c.pendingTimer = time.AfterFunc(c.debounce, func() {
		c.run(ctx, gen, req)
	})
	c.mu.Unlock()
}

// supersedeLocked invalidates any pending or in-flight operation. The
// generation bump is what keeps a stale operation from writing state; the
// timer stop and context cancel are best-effort resource cleanup.
func (c *Controller) supersedeLocked() {
	c.generation++
	if c.pendingTimer != nil {
		c.pendingTimer.Stop()
		c.pendingTimer = nil
	}
	if c.pendingCancel != nil {
		c.pendingCancel()
		c.pendingCancel = nil
	}
}

// run executes one translation operation after the debounce delay.
// The generation is re-checked after the delay and again after the network
// call, so a superseded operation never writes state.
func (c *Controller) run(ctx context.Context, gen uint64, req translator.Request) {
	c.mu.Lock()
	if gen != c.generation || c.closed {
		c.mu.Unlock()
		return
	}
	c.state.IsTranslating = true
	c.state.ErrorMessage = ""
	st := c.state
	c.mu.Unlock()
	c.notify(st)

	res, err := c.chain.Translate(ctx, req)

	c.mu.Lock()
	if gen != c.generation || c.closed {
		// Superseded mid-flight; discard whatever came back.
		c.mu.Unlock()
		return
	}

	// This operation is current; release its cancel resources.
	if c.pendingCancel != nil {
		c.pendingCancel()
		c.pendingCancel = nil
	}
	c.pendingTimer = nil

	if err != nil {
		c.state = State{TranslatedText: FailurePlaceholder, ErrorMessage: failureMessage}
		st := c.state
		c.mu.Unlock()
		c.logger.Warn().
			Str("source_lang", req.SourceLang).
			Str("target_lang", req.TargetLang).
			Err(err).
			Msg("translation failed")
		c.notify(st)
		return
	}

	c.cache.Put(req.SourceLang, req.TargetLang, req.Text, res.Text)
	c.lastSubmitted = req.Text
	c.state = State{TranslatedText: res.Text}
	st = c.state
	c.mu.Unlock()
	c.notify(st)

	if c.onTranslated != nil {
		c.onTranslated(internal.Exchange{
			ID:             uuid.New().String(),
			SourceText:     req.Text,
			SourceLang:     req.SourceLang,
			TargetLang:     req.TargetLang,
			TranslatedText: res.Text,
			Service:        res.Service,
			Latency:        res.Latency,
			Timestamp:      time.Now(),
		})
	}
}

func (c *Controller) notify(st State) {
	if c.onState != nil {
		c.onState(st)
	}
}

// Close cancels any pending operation. Further Submit calls are no-ops.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.supersedeLocked()
}
