// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads source workbooks to the local filesystem.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/pdiddy/bcb-report/internal/fsutil"
	"github.com/pdiddy/bcb-report/internal/httputil"
	"github.com/pdiddy/bcb-report/pkg/types"
)

// StatusError reports a non-2xx response from the source.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("received status code %d while downloading the file from url %s", e.StatusCode, e.URL)
}

// Fetcher retrieves a URL and persists the body under a local path.
type Fetcher struct {
	retrier httputil.Retrier
	cfg     types.HTTPConfig
	logger  *slog.Logger
}

// New returns a Fetcher. A nil client gets one with cfg.Timeout.
func New(client *http.Client, cfg types.HTTPConfig, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "fetch"))
	return &Fetcher{
		retrier: httputil.Retrier{Client: client, MaxRetries: cfg.MaxRetries, Logger: logger},
		cfg:     cfg,
		logger:  logger,
	}
}

// Download performs a GET on url, buffers the whole body and writes it to
// targetDir/fileName, overwriting any existing file. A non-2xx response is
// returned as *StatusError and nothing is written.
func (f *Fetcher) Download(ctx context.Context, url, targetDir, fileName string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	if f.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", f.cfg.UserAgent)
	}

	f.logger.Info("downloading", slog.String("url", url))

	resp, err := f.retrier.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{StatusCode: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	filePath := filepath.Join(targetDir, fileName)
	if err := fsutil.WriteFileAtomic(filePath, body); err != nil {
		return "", err
	}

	f.logger.Info("downloaded",
		slog.String("path", filePath),
		slog.Int("bytes", len(body)))
	return filePath, nil
}
