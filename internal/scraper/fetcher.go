package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const (
	maxRetries        = 3
	defaultTimeout    = 30 * time.Second
	retryWaitDuration = 2 * time.Second
	maxBodyBytes      = 5 << 20
)

// Fetcher retrieves web pages with retry logic
type Fetcher struct {
	Client    *http.Client
	Logger    *zap.Logger
	Headers   map[string]string
	RetryWait time.Duration
}

// NewFetcher creates a new fetcher with default settings.
// It refuses to connect to non-public addresses.
func NewFetcher(log *zap.Logger) *Fetcher {
	return &Fetcher{
		Client: &http.Client{
			Timeout:   defaultTimeout,
			Transport: newPublicTransport(),
		},
		Logger:    log.Named("fetcher"),
		Headers:   getDefaultHeaders(),
		RetryWait: retryWaitDuration,
	}
}

// FetchURL retrieves the content of a URL with retry logic.
// Client errors other than 429 are not retried.
func (f *Fetcher) FetchURL(ctx context.Context, url string) ([]byte, error) {
	var content []byte
	attempt := 0

	bo := backoff.WithMaxRetries(backoff.NewConstantBackOff(f.RetryWait), maxRetries-1)
	err := backoff.Retry(func() error {
		attempt++
		var err error
		content, err = f.fetchOnce(ctx, url)
		if err == nil {
			return nil
		}

		f.Logger.Warn("Fetch attempt failed",
			zap.Error(err),
			zap.String("url", url),
			zap.Int("attempt", attempt))

		var se *statusError
		if errors.Is(err, ErrForbiddenAddress) || (errors.As(err, &se) && !se.retryable()) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(bo, ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL after %d attempts: %w", attempt, err)
	}

	f.Logger.Debug("Successfully fetched URL",
		zap.String("url", url),
		zap.Int("content_length", len(content)))
	return content, nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status code %d", e.code)
}

func (e *statusError) retryable() bool {
	return e.code >= 500 || e.code == http.StatusTooManyRequests
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers
	for key, value := range f.Headers {
		req.Header.Set(key, value)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode}
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return content, nil
}

// getDefaultHeaders returns common headers for HTTP requests
func getDefaultHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.5",
		"Cache-Control":   "no-cache",
		"Pragma":          "no-cache",
	}
}
