// Package translation defines the capability interface for the neural
// translation backend and its HTTP client implementation.
package translation

import (
	"context"
	"errors"
)

//go:generate mockgen -source=translator.go -destination=../mocks/translation/mock_translator.go -package=mock_translation

// Translator is the capability abstraction around the neural translation
// backend. The hybrid translator depends only on this interface, so the
// real model server can be replaced by a mock in tests.
type Translator interface {
	// Translate translates text between the given languages. Language codes
	// are short codes ("en", "si"). A call may block for seconds while the
	// backend runs inference.
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)

	// CheckHealth verifies that the backend is ready to serve requests.
	CheckHealth(ctx context.Context) error
}

var (
	// ErrServiceUnavailable indicates the translation backend is not ready
	// or failed while serving the request.
	ErrServiceUnavailable = errors.New("translation service unavailable")

	// ErrInputTooLarge indicates the backend rejected the text as exceeding
	// its sequence limit.
	ErrInputTooLarge = errors.New("input text too large")
)
