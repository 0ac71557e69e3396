package content

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/webtop-os/webtop/internal/infrastructure/config"
	"github.com/webtop-os/webtop/internal/infrastructure/resilience"
	"github.com/webtop-os/webtop/internal/shared/utils"
)

// Fetcher downloads remote payloads with retries, rate limiting, and a
// circuit breaker shared across all sources. One misbehaving mirror trips
// the breaker instead of stalling every lazy load behind timeouts.
type Fetcher struct {
	client  *resty.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
	maxSize int64
}

// NewFetcher creates a production-ready fetch client
func NewFetcher(cfg config.ContentConfig) *Fetcher {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 15 * time.Second
	retryClient.Logger = nil // Disable logging

	client := resty.New().
		SetTimeout(cfg.FetchTimeout).
		SetHeader("User-Agent", "webtop-content/1.0")
	client.SetTransport(retryClient.HTTPClient.Transport)

	breaker := resilience.New(resilience.Config{
		FailureThreshold: 5,
		Cooldown:         30 * time.Second,
		ProbeQuota:       2,
	})

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.FetchRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.FetchRPS), cfg.FetchRPS)
	}

	return &Fetcher{
		client:  client,
		limiter: limiter,
		breaker: breaker,
		maxSize: utils.MaxContentSize,
	}
}

// Fetch retrieves url, honoring ctx, the shared limiter, and the breaker
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	if err := f.breaker.Allow(); err != nil {
		return nil, err
	}

	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		f.breaker.Record(false)
		return nil, err
	}
	if resp.IsError() {
		f.breaker.Record(false)
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode())
	}
	f.breaker.Record(true)

	body := resp.Body()
	if f.maxSize > 0 && int64(len(body)) > f.maxSize {
		return nil, fmt.Errorf("fetch %s: %d bytes exceeds size limit", url, len(body))
	}
	return body, nil
}
