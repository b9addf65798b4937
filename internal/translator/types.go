package translator

import (
	"context"
	"errors"
)

// Request is a single translation request. Values are immutable once created.
type Request struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

// Service is one translation backend. Implementations perform a single
// request/response round-trip and hold no mutable state shared with other
// services, so they can be swapped or mocked independently.
type Service interface {
	Name() string
	Translate(ctx context.Context, req Request) (string, error)
}

var (
	// ErrEmptyTranslation is returned when a provider answers successfully
	// but the translated text is missing or empty.
	ErrEmptyTranslation = errors.New("empty translation response")

	// ErrServiceWarning is returned when a provider embeds a quota or
	// service warning in an otherwise successful response body.
	ErrServiceWarning = errors.New("service returned a warning instead of a translation")
)
