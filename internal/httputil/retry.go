// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// DefaultBaseDelay is the first backoff when a Retrier has no BaseDelay.
// Tests override it to avoid real sleeps.
var DefaultBaseDelay = 10 * time.Second

// MaxDelay caps a single backoff, including server-sent Retry-After values.
const MaxDelay = 5 * time.Minute

// Retrier sends a request and resends it while the server answers 429 Too
// Many Requests or 503 Service Unavailable. The backoff starts at BaseDelay
// and doubles each attempt unless the response carries a Retry-After
// header in seconds.
//
// MaxRetries <= 0 sends the request exactly once.
type Retrier struct {
	Client     *http.Client
	MaxRetries int
	BaseDelay  time.Duration
	Logger     *slog.Logger
}

// Do executes req. The last retryable response is returned as-is once
// retries are exhausted so the caller can inspect it. A context cancelled
// during a backoff wait returns ctx.Err().
func (r Retrier) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if !Retryable(resp.StatusCode) || attempt >= r.MaxRetries {
			return resp, nil
		}

		wait := r.backoff(resp, attempt)
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		logger.Warn("server busy, retrying",
			slog.String("url", req.URL.String()),
			slog.Int("status", resp.StatusCode),
			slog.Duration("backoff", wait),
			slog.Int("attempt", attempt+1),
			slog.Int("max_retries", r.MaxRetries))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// Retryable reports whether a response status is worth resending.
func Retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

func (r Retrier) backoff(resp *http.Response, attempt int) time.Duration {
	if s := resp.Header.Get("Retry-After"); s != "" {
		if secs, err := strconv.Atoi(s); err == nil && secs >= 0 {
			return min(time.Duration(secs)*time.Second, MaxDelay)
		}
	}
	base := r.BaseDelay
	if base <= 0 {
		base = DefaultBaseDelay
	}
	if attempt >= 32 {
		return MaxDelay
	}
	return min(base<<attempt, MaxDelay)
}
