// Package fetch implements the resilient HTTP layer: retries with jittered
// backoff, user-agent rotation, block detection, and per-host politeness.
package fetch

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/aluiziolira/go-price-watch/config"
)

// Page is the raw result of a successful fetch.
type Page struct {
	URL        string
	Body       []byte
	StatusCode int
	FetchedAt  time.Time
	Duration   time.Duration
	Attempts   int
}

// Client issues resilient GETs over a shared HTTP client. Safe for
// concurrent use; the only cross-fetch state is the host limiter and the
// user-agent rotation index.
type Client struct {
	httpClient *http.Client
	cfg        *config.Config
	agents     []string
	limiter    *HostLimiter
	metrics    *Metrics

	// Injected for tests so retry behavior is verifiable without real
	// time passing.
	sleep   func(ctx context.Context, d time.Duration) error
	randInt func(n int64) int64

	agentIdx atomic.Uint64
}

// NewClient builds a fetch client from cfg. limiter and metrics may be nil.
func NewClient(cfg *config.Config, limiter *HostLimiter, metrics *Metrics) *Client {
	return &Client{
		httpClient: &http.Client{
			Transport: newTransport(cfg.Timeout, cfg.ChromeTLS),
			Timeout:   cfg.Timeout,
		},
		cfg:     cfg,
		agents:  config.UserAgents,
		limiter: limiter,
		metrics: metrics,
		sleep:   sleepContext,
		randInt: rand.Int63n,
	}
}

// Fetch retrieves rawURL with up to MaxRetries attempts. Blocked responses
// (403/429) wait an extended randomized delay before the next attempt; other
// failures wait the base delay plus jitter. The terminal error carries the
// classification of the last attempt.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	maxRetries := c.cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}

	start := time.Now()
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if attempt > 1 {
			c.metrics.IncRetries()
			if err := c.sleep(ctx, c.retryDelay(lastErr)); err != nil {
				return nil, err
			}
		}

		if err := c.limiter.Wait(ctx, rawURL); err != nil {
			return nil, err
		}

		page, err := c.attempt(ctx, rawURL)
		if err == nil {
			page.Attempts = attempt
			page.Duration = time.Since(start)
			c.metrics.IncRequest("success")
			return page, nil
		}

		lastErr = err
		c.metrics.IncRequest("failure")
		c.metrics.IncError(ErrorTypeLabel(err))
		slog.Warn("fetch attempt failed",
			slog.String("url", rawURL),
			slog.Int("attempt", attempt),
			slog.Any("error", err),
		)

		if ctx.Err() != nil {
			return nil, lastErr
		}
	}

	return nil, fmt.Errorf("fetch %s: retries exhausted: %w", rawURL, lastErr)
}

func (c *Client) attempt(ctx context.Context, rawURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, ErrNetwork{Err: err}
	}
	c.setHeaders(req)

	began := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveDuration(time.Since(began))
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrBlocked{StatusCode: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, ErrHTTPStatus{StatusCode: resp.StatusCode}
	}

	body, err := decodeBody(resp, c.cfg.MaxBodyBytes)
	if err != nil {
		return nil, ErrNetwork{Err: fmt.Errorf("read body: %w", err)}
	}

	return &Page{
		URL:        rawURL,
		Body:       body,
		StatusCode: resp.StatusCode,
		FetchedAt:  time.Now(),
	}, nil
}

// setHeaders applies the fixed baseline header set and the next user agent
// from the rotation pool.
func (c *Client) setHeaders(req *http.Request) {
	for key, value := range config.BaselineHeaders {
		req.Header.Set(key, value)
	}
	if len(c.agents) > 0 {
		idx := c.agentIdx.Add(1) - 1
		req.Header.Set("User-Agent", c.agents[int(idx)%len(c.agents)])
	}
}

func (c *Client) retryDelay(lastErr error) time.Duration {
	if IsBlocked(lastErr) {
		return c.randDuration(c.cfg.BlockedDelayMin, c.cfg.BlockedDelayMax)
	}
	return c.cfg.RetryDelay + c.randDuration(c.cfg.JitterMin, c.cfg.JitterMax)
}

func (c *Client) randDuration(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(c.randInt(int64(max-min)))
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout{Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout{Err: err}
	}
	return ErrNetwork{Err: err}
}

// decodeBody reads the capped response body, decompressing according to
// Content-Encoding. Transparent decompression is off because the baseline
// headers set Accept-Encoding explicitly.
func decodeBody(resp *http.Response, maxBytes int64) ([]byte, error) {
	reader := io.Reader(resp.Body)
	if maxBytes > 0 {
		reader = io.LimitReader(reader, maxBytes)
	}

	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "gzip":
		gz, err := gzip.NewReader(reader)
		if err != nil {
			return nil, fmt.Errorf("gzip body: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "deflate":
		fr := flate.NewReader(reader)
		defer fr.Close()
		reader = fr
	case "br":
		reader = brotli.NewReader(reader)
	}

	return io.ReadAll(reader)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
