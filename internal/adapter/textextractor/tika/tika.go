// Package tika provides Apache Tika integration for text extraction.
//
// It converts PDF and Word documents to plain text through the Tika server
// REST API. Transient failures are retried with exponential backoff.
package tika

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fairyhunter13/ai-resume-screener/internal/domain"
	"github.com/fairyhunter13/ai-resume-screener/internal/observability"
	"github.com/fairyhunter13/ai-resume-screener/pkg/textx"
)

const defaultBaseURL = "http://localhost:9998"

// Client is a minimal Apache Tika HTTP client.
// It performs PUT /tika with Accept: text/plain to retrieve extracted text.
// See: https://tika.apache.org/server/ for API details.
type Client struct {
	baseURL    string
	httpClient *http.Client
	newBackOff func() backoff.BackOff
}

// Option configures a Client.
type Option func(*Client)

// WithBackoff sets the retry schedule for transient failures.
func WithBackoff(maxElapsed, initial, maxInterval time.Duration, multiplier float64) Option {
	return func(c *Client) {
		c.newBackOff = func() backoff.BackOff {
			expo := backoff.NewExponentialBackOff()
			expo.MaxElapsedTime = maxElapsed
			expo.InitialInterval = initial
			expo.MaxInterval = maxInterval
			expo.Multiplier = multiplier
			return expo
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// New constructs a Tika client with a default timeout.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Extract sends content to Tika and returns the cleaned plain text.
// Client errors are permanent; server and transport errors are retried.
func (c *Client) Extract(ctx context.Context, fileName string, content []byte) (string, error) {
	lg := observability.LoggerFromContext(ctx)
	var result string
	attempt := 0
	op := func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/tika", bytes.NewReader(content))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "text/plain")
		// Content-Type best-effort from extension
		if ct := contentTypeFromExt(filepath.Ext(fileName)); ct != "" {
			req.Header.Set("Content-Type", ct)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return backoff.Permanent(fmt.Errorf("tika status %d", resp.StatusCode))
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("tika status %d", resp.StatusCode)
		}
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		result = textx.Clean(string(b))
		return nil
	}
	notify := func(err error, wait time.Duration) {
		lg.Warn("tika extract retry",
			slog.String("file", fileName),
			slog.Int("attempt", attempt),
			slog.Duration("wait", wait),
			slog.Any("error", err))
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(c.newBackOff(), ctx), notify); err != nil {
		return "", fmt.Errorf("op=tika.Extract: %w: %s: %v", domain.ErrExtraction, fileName, err)
	}
	return result, nil
}

// Ping checks that the Tika server answers.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/version", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tika status %d", resp.StatusCode)
	}
	return nil
}

func contentTypeFromExt(ext string) string {
	ext = strings.ToLower(ext)
	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".txt":
		return "text/plain"
	default:
		if ext != "" {
			return mime.TypeByExtension(ext)
		}
	}
	return ""
}
