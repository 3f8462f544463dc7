package fetch

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"

	"github.com/aluiziolira/go-price-watch/config"
)

func newTestClient(cfg *config.Config, transport http.RoundTripper) (*Client, *sleepRecorder) {
	client := NewClient(cfg, nil, NewMetrics())
	client.httpClient.Transport = transport
	recorder := &sleepRecorder{}
	client.sleep = recorder.sleep
	client.randInt = func(n int64) int64 { return 0 }
	return client, recorder
}

type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	return ctx.Err()
}

func (s *sleepRecorder) snapshot() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Duration, len(s.delays))
	copy(out, s.delays)
	return out
}

func TestFetchRecoversAfterRateLimit(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MaxRetries = 3

	const url = "http://shop.test/product/1"
	transport := httpmock.NewMockTransport()

	attempts := 0
	transport.RegisterResponder("GET", url, func(req *http.Request) (*http.Response, error) {
		attempts++
		if attempts < 3 {
			return httpmock.NewStringResponse(http.StatusTooManyRequests, ""), nil
		}
		return httpmock.NewStringResponse(http.StatusOK, "<html>attempt three</html>"), nil
	})

	client, recorder := newTestClient(cfg, transport)

	page, err := client.Fetch(context.Background(), url)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if page.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", page.Attempts)
	}
	if got := string(page.Body); got != "<html>attempt three</html>" {
		t.Errorf("body = %q, want attempt-3 content", got)
	}

	delays := recorder.snapshot()
	if len(delays) != 2 {
		t.Fatalf("expected 2 retry waits, got %d", len(delays))
	}
	for i, delay := range delays {
		if delay < cfg.BlockedDelayMin || delay > cfg.BlockedDelayMax {
			t.Errorf("blocked wait %d = %v, want within [%v, %v]", i, delay, cfg.BlockedDelayMin, cfg.BlockedDelayMax)
		}
	}
}

func TestFetchExhaustsRetries(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MaxRetries = 2

	const url = "http://shop.test/product/2"
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", url, httpmock.NewStringResponder(http.StatusInternalServerError, ""))

	client, recorder := newTestClient(cfg, transport)

	_, err := client.Fetch(context.Background(), url)
	if err == nil {
		t.Fatal("expected terminal error")
	}
	var status ErrHTTPStatus
	if !errors.As(err, &status) || status.StatusCode != http.StatusInternalServerError {
		t.Fatalf("terminal error = %v, want wrapped http status 500", err)
	}

	delays := recorder.snapshot()
	if len(delays) != 1 {
		t.Fatalf("expected 1 retry wait, got %d", len(delays))
	}
	// Non-blocked failures use the base delay plus jitter, not the extended
	// blocked delay.
	if delays[0] < cfg.RetryDelay+cfg.JitterMin || delays[0] > cfg.RetryDelay+cfg.JitterMax {
		t.Errorf("retry wait = %v, want within [%v, %v]", delays[0], cfg.RetryDelay+cfg.JitterMin, cfg.RetryDelay+cfg.JitterMax)
	}
}

func TestFetchClassifiesForbiddenAsBlocked(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MaxRetries = 1

	const url = "http://shop.test/product/3"
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", url, httpmock.NewStringResponder(http.StatusForbidden, ""))

	client, _ := newTestClient(cfg, transport)

	_, err := client.Fetch(context.Background(), url)
	if !IsBlocked(err) {
		t.Fatalf("expected blocked classification, got %v", err)
	}
}

func TestFetchRotatesUserAgents(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MaxRetries = 4

	const url = "http://shop.test/product/4"
	transport := httpmock.NewMockTransport()

	var agents []string
	transport.RegisterResponder("GET", url, func(req *http.Request) (*http.Response, error) {
		agents = append(agents, req.Header.Get("User-Agent"))
		if req.Header.Get("Accept-Language") == "" {
			t.Error("baseline headers missing on attempt")
		}
		if len(agents) < 3 {
			return httpmock.NewStringResponse(http.StatusServiceUnavailable, ""), nil
		}
		return httpmock.NewStringResponse(http.StatusOK, "ok"), nil
	})

	client, _ := newTestClient(cfg, transport)

	if _, err := client.Fetch(context.Background(), url); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(agents) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(agents))
	}
	if agents[0] == agents[1] && agents[1] == agents[2] {
		t.Error("user agent never rotated across attempts")
	}
}

func TestFetchStopsOnCancelledContext(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MaxRetries = 3

	const url = "http://shop.test/product/5"
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", url, httpmock.NewStringResponder(http.StatusInternalServerError, ""))

	ctx, cancel := context.WithCancel(context.Background())
	client, _ := newTestClient(cfg, transport)
	client.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	if _, err := client.Fetch(ctx, url); err == nil {
		t.Fatal("expected error after context cancellation")
	}
}

func TestClassifyTransportError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "context deadline", err: context.DeadlineExceeded, expected: "timeout"},
		{name: "net timeout", err: &net.DNSError{IsTimeout: true}, expected: "timeout"},
		{name: "connection refused", err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, expected: "network"},
		{name: "generic", err: errors.New("boom"), expected: "network"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorTypeLabel(classifyTransportError(tt.err)); got != tt.expected {
				t.Fatalf("label = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestHostLimiterSerializesPerHost(t *testing.T) {
	limiter := NewHostLimiter(50 * time.Millisecond)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := limiter.Wait(context.Background(), "http://shop.test/item"); err != nil {
			t.Fatalf("wait: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("three same-host waits took %v, want at least 100ms", elapsed)
	}

	// A different host is not delayed by the first one.
	start = time.Now()
	if err := limiter.Wait(context.Background(), "http://other.test/item"); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 40*time.Millisecond {
		t.Errorf("fresh host wait took %v, want immediate", elapsed)
	}
}
