package translation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyTranslator struct {
	err   error
	calls int
}

func (f *flakyTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "පරිවර්තනය", nil
}

func (f *flakyTranslator) CheckHealth(ctx context.Context) error {
	return f.err
}

func TestBreakerTranslator_PassesThroughSuccess(t *testing.T) {
	inner := &flakyTranslator{}
	breaker := NewBreakerTranslator(inner)

	got, err := breaker.Translate(context.Background(), "hello", "en", "si")
	require.NoError(t, err)
	assert.Equal(t, "පරිවර්තනය", got)
	assert.Equal(t, 1, inner.calls)
}

func TestBreakerTranslator_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := &flakyTranslator{err: errors.New("backend down")}
	breaker := NewBreakerTranslator(inner)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := breaker.Translate(ctx, "hello", "en", "si")
		require.Error(t, err)
	}
	require.Equal(t, 5, inner.calls)

	// Breaker is open now: the backend is no longer called and the error
	// maps onto ErrServiceUnavailable.
	_, err := breaker.Translate(ctx, "hello", "en", "si")
	require.ErrorIs(t, err, ErrServiceUnavailable)
	assert.Equal(t, 5, inner.calls)
}

func TestBreakerTranslator_CheckHealthBypassesBreaker(t *testing.T) {
	inner := &flakyTranslator{err: errors.New("backend down")}
	breaker := NewBreakerTranslator(inner)

	ctx := context.Background()
	for i := 0; i < 6; i++ {
		_, _ = breaker.Translate(ctx, "hello", "en", "si")
	}

	calls := inner.calls
	require.Error(t, breaker.CheckHealth(ctx))
	assert.Equal(t, calls+1, inner.calls)
}
