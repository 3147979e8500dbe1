package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/uslanozan/asset-smith/logger"
)

const defaultRetryDelay = 500 * time.Millisecond

// baseClient sağlayıcıların ortak HTTP ve retry davranışını taşır.
type baseClient struct {
	provider   string
	httpClient *http.Client
	log        *logger.Logger
	MaxRetries int
	RetryDelay time.Duration
}

func newBaseClient(provider string, timeout time.Duration, maxRetries int, log *logger.Logger) baseClient {
	return baseClient{
		provider:   provider,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With("provider", provider),
		MaxRetries: maxRetries,
		RetryDelay: defaultRetryDelay,
	}
}

// doWithRetry isteği newReq ile her denemede yeniden kurar. Bağlantı hataları, 429 ve 5xx tekrar denenir;
// diğer 4xx hemen *APIError olarak döner. Başarılı cevabın gövdesini döndürür.
func (b *baseClient) doWithRetry(ctx context.Context, newReq func(ctx context.Context) (*http.Request, error)) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= b.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := b.RetryDelay * time.Duration(1<<min(attempt-1, 10))
			b.log.Warn("model request failed, retrying",
				"attempt", attempt,
				"max_retries", b.MaxRetries,
				"retry_delay_ms", delay.Milliseconds(),
				"error", lastErr,
			)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := newReq(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := b.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("failed to read response: %w", readErr)
			continue
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			if attempt > 0 {
				b.log.Info("model request succeeded after retry", "attempts", attempt+1)
			}
			return body, nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = &APIError{Provider: b.provider, StatusCode: resp.StatusCode, Body: string(body)}
		default:
			return nil, &APIError{Provider: b.provider, StatusCode: resp.StatusCode, Body: string(body)}
		}
	}

	b.log.Error("model request failed after all retries", "attempts", b.MaxRetries+1, "error", lastErr)
	return nil, fmt.Errorf("request failed after %d retries: %w", b.MaxRetries, lastErr)
}
