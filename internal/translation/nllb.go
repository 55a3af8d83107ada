package translation

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"
)

const (
	// DefaultMaxRetryAttempts is the number of retries after the first
	// failed call to the backend.
	DefaultMaxRetryAttempts = 2

	defaultRequestTimeout = 2 * time.Minute
)

// NLLB language codes for the supported short codes.
var nllbLanguageCodes = map[string]string{
	"en": "eng_Latn",
	"si": "sin_Sinh",
}

// NLLBClient implements Translator against an NLLB model server speaking a
// small JSON protocol: POST /translate with text and NLLB language codes.
type NLLBClient struct {
	httpClient       *resty.Client
	maxRetryAttempts uint
}

// NewNLLBClient creates a client for the model server at baseURL.
func NewNLLBClient(baseURL string, retryAttempts uint) *NLLBClient {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(defaultRequestTimeout)

	return &NLLBClient{
		httpClient:       client,
		maxRetryAttempts: retryAttempts,
	}
}

// Close releases the underlying HTTP client.
func (client *NLLBClient) Close() error {
	return client.httpClient.Close()
}

type translateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

type translateResponse struct {
	Translation string `json:"translation"`
	Error       string `json:"error,omitempty"`
}

// Translate sends the text to the model server, retrying transient
// failures with backoff. Non-retryable failures are surfaced immediately.
func (client *NLLBClient) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	source, ok := nllbLanguageCodes[sourceLang]
	if !ok {
		return "", fmt.Errorf("unsupported source language %q", sourceLang)
	}
	target, ok := nllbLanguageCodes[targetLang]
	if !ok {
		return "", fmt.Errorf("unsupported target language %q", targetLang)
	}

	var result string
	var lastErr error
	if err := retry.Do(
		func() error {
			translation, err := client.translate(ctx, text, source, target)
			if err != nil {
				lastErr = err
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			result = translation
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	); err != nil {
		// retry.Do aggregates attempt errors; report the last underlying
		// error so sentinel matching with errors.Is keeps working.
		if lastErr != nil {
			return "", lastErr
		}
		return "", err
	}
	return result, nil
}

func (client *NLLBClient) translate(ctx context.Context, text, source, target string) (string, error) {
	var body translateResponse
	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(translateRequest{
			Text:       text,
			SourceLang: source,
			TargetLang: target,
		}).
		SetResult(&body).
		SetError(&body).
		Post("/translate")
	if err != nil {
		return "", fmt.Errorf("model server request > %w: %w", ErrServiceUnavailable, err)
	}

	switch {
	case response.StatusCode() == http.StatusOK:
		return body.Translation, nil
	case response.StatusCode() == http.StatusRequestEntityTooLarge:
		return "", fmt.Errorf("%w: %s", ErrInputTooLarge, body.Error)
	case response.StatusCode() == http.StatusServiceUnavailable:
		return "", fmt.Errorf("%w: model not ready: %s", ErrServiceUnavailable, body.Error)
	default:
		return "", fmt.Errorf("model server response error %d: %s", response.StatusCode(), response.String())
	}
}

// CheckHealth probes the model server readiness endpoint.
func (client *NLLBClient) CheckHealth(ctx context.Context) error {
	response, err := client.httpClient.R().
		SetContext(ctx).
		Get("/health")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}
	if response.StatusCode() != http.StatusOK {
		return fmt.Errorf("%w: health check status %d", ErrServiceUnavailable, response.StatusCode())
	}
	return nil
}

// isRetryableError determines if an error should trigger a retry.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()

	// Retry on network-related errors
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") {
		return true
	}

	// Retry on 5xx errors (server errors)
	if strings.Contains(errStr, "response error 5") {
		return true
	}

	// Retry on rate limiting (429)
	if strings.Contains(errStr, "response error 429") {
		return true
	}

	// Retry while the model is still loading
	if strings.Contains(errStr, "model not ready") {
		return true
	}

	return false
}
