// Package sources implements the per-site adapters that produce raw
// candidate records for the pipeline intake.
package sources

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"eventpipe/internal/config"
	"eventpipe/pkg/utils"
)

// ErrUnexpectedStatusCode indicates an HTTP response with unexpected status.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

// Fetcher wraps an HTTP client with retry/backoff from the configured
// policy and a per-host minimum delay so adapters stay polite crawlers.
type Fetcher struct {
	client *resty.Client

	mu       sync.Mutex
	lastSeen map[string]time.Time
}

// NewFetcher creates a fetcher using the retry policy.
func NewFetcher(retry config.RetryPolicy) *Fetcher {
	client := resty.New().
		SetRetryCount(retry.MaxAttempts-1).
		SetRetryWaitTime(time.Duration(retry.InitialDelayMs)*time.Millisecond).
		SetRetryMaxWaitTime(time.Duration(retry.MaxDelayMs)*time.Millisecond).
		SetTimeout(retry.GetTimeout()).
		SetHeaders(utils.NewHTTPHelper().BuildHeaders(nil))

	return &Fetcher{
		client:   client,
		lastSeen: make(map[string]time.Time),
	}
}

// Get fetches a URL, honoring a minimum delay between requests to the
// same host.
func (f *Fetcher) Get(ctx context.Context, rawURL string, minDelay time.Duration) ([]byte, error) {
	if minDelay > 0 {
		if err := f.waitForHost(ctx, rawURL, minDelay); err != nil {
			return nil, err
		}
	}

	resp, err := f.client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", rawURL, err)
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("%w: %d from %s", ErrUnexpectedStatusCode, resp.StatusCode(), rawURL)
	}

	return resp.Body(), nil
}

func (f *Fetcher) waitForHost(ctx context.Context, rawURL string, minDelay time.Duration) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url %s: %w", rawURL, err)
	}

	f.mu.Lock()
	now := time.Now()
	wait := time.Duration(0)

	if last, ok := f.lastSeen[u.Host]; ok {
		if elapsed := now.Sub(last); elapsed < minDelay {
			wait = minDelay - elapsed
		}
	}

	f.lastSeen[u.Host] = now.Add(wait)
	f.mu.Unlock()

	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
