// Package chain tries translation services in a fixed priority order and
// returns the first usable result.
package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/petrokh/tolmach/internal/translator"
)

// ErrAllServicesFailed is returned when every service in the chain failed
// for a request. Individual service failures are never surfaced.
var ErrAllServicesFailed = errors.New("all translation services failed")

// DefaultTimeout bounds each individual service call. The chain imposes no
// aggregate deadline, so worst-case latency is the sum over all services.
const DefaultTimeout = 8 * time.Second

// ResultValidator checks that a candidate result is in the expected target
// language. Satisfied by *validator.Validator.
type ResultValidator interface {
	IsValid(translatedText, targetLang string) (bool, error)
}

// Config tunes a Chain.
type Config struct {
	// Timeout applies to each service call independently.
	// Zero means DefaultTimeout.
	Timeout time.Duration

	// Validator, when non-nil, rejects results that are not in the target
	// language; a rejected result counts as a service failure.
	Validator ResultValidator
}

// Result is a successful translation and its provenance.
type Result struct {
	Text    string
	Service string
	Latency time.Duration
}

// Chain holds the ordered service list. The order is static; services are
// never re-ranked at runtime.
type Chain struct {
	services  []translator.Service
	timeout   time.Duration
	validator ResultValidator
	logger    zerolog.Logger
}

func New(services []translator.Service, cfg Config, logger zerolog.Logger) *Chain {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Chain{
		services:  services,
		timeout:   timeout,
		validator: cfg.Validator,
		logger:    logger,
	}
}

// Translate runs the request through the chain: each service gets one
// attempt under its own timeout, any failure moves to the next, and the
// first success wins. When every service fails, ErrAllServicesFailed is
// returned.
func (c *Chain) Translate(ctx context.Context, req translator.Request) (Result, error) {
	if len(c.services) == 0 {
		return Result{}, fmt.Errorf("%w: no services configured", ErrAllServicesFailed)
	}

	for _, svc := range c.services {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		text, latency, err := c.translateOne(ctx, svc, req)
		if err != nil {
			c.logger.Debug().
				Str("service", svc.Name()).
				Err(err).
				Msg("translation service failed, trying next")
			continue
		}

		return Result{Text: text, Service: svc.Name(), Latency: latency}, nil
	}

	return Result{}, ErrAllServicesFailed
}

func (c *Chain) translateOne(ctx context.Context, svc translator.Service, req translator.Request) (string, time.Duration, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	text, err := svc.Translate(callCtx, req)
	latency := time.Since(start)
	if err != nil {
		return "", latency, err
	}
	if text == "" {
		return "", latency, translator.ErrEmptyTranslation
	}

	if c.validator != nil {
		if ok, err := c.validator.IsValid(text, req.TargetLang); !ok {
			if err == nil {
				err = errors.New("result not in target language")
			}
			return "", latency, fmt.Errorf("result rejected: %w", err)
		}
	}

	return text, latency, nil
}
