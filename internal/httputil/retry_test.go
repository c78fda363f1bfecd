// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedServer answers each request with the next status in statuses,
// repeating the last one, and counts calls.
func scriptedServer(t *testing.T, header http.Header, statuses ...int) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := int(atomic.AddInt32(&calls, 1))
		if n > len(statuses) {
			n = len(statuses)
		}
		for k, vs := range header {
			for _, v := range vs {
				w.Header().Add(k, v)
			}
		}
		w.WriteHeader(statuses[n-1])
	}))
	t.Cleanup(ts.Close)
	return ts, &calls
}

func get(ctx context.Context, t *testing.T, r Retrier, url string) (*http.Response, error) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	resp, err := r.Do(ctx, req)
	if resp != nil {
		t.Cleanup(func() { resp.Body.Close() })
	}
	return resp, err
}

func TestRetrier_Attempts(t *testing.T) {
	tests := []struct {
		name       string
		statuses   []int
		maxRetries int
		wantStatus int
		wantCalls  int32
	}{
		{"success first try", []int{200}, 3, 200, 1},
		{"429 then success", []int{429, 429, 200}, 3, 200, 3},
		{"503 then success", []int{503, 200}, 3, 200, 2},
		{"exhausted returns last response", []int{429}, 2, 429, 3},
		{"zero retries sends once", []int{429, 200}, 0, 429, 1},
		{"negative retries sends once", []int{503, 200}, -1, 503, 1},
		{"404 is not retried", []int{404, 200}, 3, 404, 1},
		{"500 is not retried", []int{500, 200}, 3, 500, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, calls := scriptedServer(t, nil, tt.statuses...)
			r := Retrier{Client: ts.Client(), MaxRetries: tt.maxRetries, BaseDelay: time.Millisecond}

			resp, err := get(context.Background(), t, r, ts.URL)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(calls))
		})
	}
}

func TestRetrier_ContextCancelledDuringBackoff(t *testing.T) {
	ts, _ := scriptedServer(t, nil, http.StatusTooManyRequests)
	r := Retrier{Client: ts.Client(), MaxRetries: 5, BaseDelay: 500 * time.Millisecond}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := get(ctx, t, r, ts.URL)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRetrier_Backoff(t *testing.T) {
	r := Retrier{BaseDelay: time.Second}
	plain := &http.Response{Header: http.Header{}}

	assert.Equal(t, time.Second, r.backoff(plain, 0))
	assert.Equal(t, 4*time.Second, r.backoff(plain, 2))
	assert.Equal(t, MaxDelay, r.backoff(plain, 20))

	after := &http.Response{Header: http.Header{"Retry-After": {"7"}}}
	assert.Equal(t, 7*time.Second, r.backoff(after, 3))

	huge := &http.Response{Header: http.Header{"Retry-After": {"86400"}}}
	assert.Equal(t, MaxDelay, r.backoff(huge, 0))

	date := &http.Response{Header: http.Header{"Retry-After": {"Wed, 21 Oct 2015 07:28:00 GMT"}}}
	assert.Equal(t, 2*time.Second, r.backoff(date, 1))

	assert.Equal(t, DefaultBaseDelay, Retrier{}.backoff(plain, 0))
}

func TestRetrier_HonoursRetryAfter(t *testing.T) {
	ts, calls := scriptedServer(t, http.Header{"Retry-After": {"0"}}, 503, 200)
	r := Retrier{Client: ts.Client(), MaxRetries: 1, BaseDelay: time.Hour}

	resp, err := get(context.Background(), t, r, ts.URL)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}
