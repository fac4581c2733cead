package archive

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultUserAgent mimics a desktop browser; the archives reject obvious bots
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123 Safari/537.36"

	// minPayloadSize filters out error pages served with status 200
	minPayloadSize = 1024
)

// ErrPayloadTooSmall is returned when a source answers with an empty or placeholder document
var ErrPayloadTooSmall = errors.New("archive payload too small")

// Client downloads archive documents with browser-like headers
type Client struct {
	httpClient     *http.Client
	userAgent      string
	maxRetries     uint64
	initialBackoff time.Duration
}

// NewClient creates a client with the given per-request timeout
func NewClient(timeout time.Duration, userAgent string) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		httpClient:     &http.Client{Timeout: timeout},
		userAgent:      userAgent,
		maxRetries:     2,
		initialBackoff: 500 * time.Millisecond,
	}
}

// WithRetry overrides how many times a failed request is retried and the first backoff delay
func (c *Client) WithRetry(maxRetries uint64, initialBackoff time.Duration) *Client {
	c.maxRetries = maxRetries
	c.initialBackoff = initialBackoff
	return c
}

// Fetch downloads url, retrying transient failures with exponential backoff.
// Client errors (4xx) and undersized payloads are not retried.
func (c *Client) Fetch(ctx context.Context, url, referer string) ([]byte, error) {
	var body []byte

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialBackoff
	policy := backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx)

	err := backoff.RetryNotify(func() error {
		data, err := c.fetchOnce(ctx, url, referer)
		if err != nil {
			return err
		}
		body = data
		return nil
	}, policy, func(err error, wait time.Duration) {
		log.WithError(err).WithFields(log.Fields{
			"url":  url,
			"wait": wait,
		}).Debug("Retrying archive download")
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) fetchOnce(ctx context.Context, url, referer string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create HTTP request: %w", err))
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "it-IT,it;q=0.9,en-US;q=0.8,en;q=0.7")
	req.Header.Set("Connection", "keep-alive")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("archive returned non-OK status: %d", resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	reader := io.Reader(resp.Body)
	if strings.Contains(resp.Header.Get("Content-Encoding"), "gzip") {
		gzReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzReader.Close()
		reader = gzReader
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if len(body) <= minPayloadSize {
		return nil, backoff.Permanent(fmt.Errorf("%w: %d bytes", ErrPayloadTooSmall, len(body)))
	}
	return body, nil
}
