package translation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerTranslator wraps a Translator with a circuit breaker so a model
// server that keeps failing is given time to recover instead of being
// hammered by every incoming request. While the breaker is open, calls fail
// fast with ErrServiceUnavailable.
type BreakerTranslator struct {
	inner   Translator
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerTranslator wraps inner with a circuit breaker. The breaker
// opens after five consecutive failures and probes again after 30 seconds.
func NewBreakerTranslator(inner Translator) *BreakerTranslator {
	return &BreakerTranslator{
		inner: inner,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "translation-backend",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

// Translate delegates to the wrapped translator through the breaker.
func (t *BreakerTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	result, err := t.breaker.Execute(func() (interface{}, error) {
		return t.inner.Translate(ctx, text, sourceLang, targetLang)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%w: circuit breaker open", ErrServiceUnavailable)
		}
		return "", err
	}
	return result.(string), nil
}

// CheckHealth probes the wrapped translator directly; health checks bypass
// the breaker so recovery is observable.
func (t *BreakerTranslator) CheckHealth(ctx context.Context) error {
	return t.inner.CheckHealth(ctx)
}
