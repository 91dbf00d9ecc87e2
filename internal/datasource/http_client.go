package datasource

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/pattern-edge/internal/metrics"
)

const (
	defaultRetryWaitMin = 100 * time.Millisecond
	defaultRetryWaitMax = 10 * time.Second
)

// HTTPClientConfig holds configuration for the shared download client
type HTTPClientConfig struct {
	Timeout          time.Duration
	MaxRetries       int
	RateLimit        float64 // requests per second
	Burst            int
	FailureThreshold int // consecutive failures before the circuit opens
	Cooldown         time.Duration
}

// DefaultHTTPClientConfig returns recommended defaults
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:          30 * time.Second,
		MaxRetries:       5,
		RateLimit:        2.0,
		Burst:            1,
		FailureThreshold: 5,
		Cooldown:         time.Minute,
	}
}

// RateLimitedHTTPClient wraps retryablehttp.Client with rate limiting and a
// circuit breaker. Retries handle transient faults inside one request; the
// breaker stops hammering a host that keeps failing across requests.
type RateLimitedHTTPClient struct {
	client  *retryablehttp.Client
	limiter *rate.Limiter
	breaker *circuitBreaker
	logger  *logrus.Logger
}

// NewRateLimitedHTTPClient creates a new rate-limited HTTP client
func NewRateLimitedHTTPClient(cfg HTTPClientConfig, logger *logrus.Logger) *RateLimitedHTTPClient {
	if logger == nil {
		logger = logrus.New()
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = defaultRetryWaitMin
	retryClient.RetryWaitMax = defaultRetryWaitMax
	retryClient.CheckRetry = customRetryPolicy()
	// Silence the per-attempt retry chatter
	retryClient.Logger = nil

	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &RateLimitedHTTPClient{
		client:  retryClient,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), burst),
		breaker: newCircuitBreaker(cfg.FailureThreshold, cfg.Cooldown, logger),
		logger:  logger,
	}
}

// Do executes an HTTP request with rate limiting and circuit breaking. The
// request's own context governs cancellation and the limiter wait.
func (c *RateLimitedHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if err := c.breaker.allow(); err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	retryReq, err := retryablehttp.FromRequest(req)
	if err != nil {
		return nil, fmt.Errorf("wrap request: %w", err)
	}

	resp, err := c.client.Do(retryReq)
	if err != nil {
		c.breaker.failure(err)
		return nil, err
	}

	if resp.StatusCode < http.StatusInternalServerError {
		c.breaker.success()
	}
	return resp, nil
}

// Get executes a GET request under the given context
func (c *RateLimitedHTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// Close closes any resources held by the client
func (c *RateLimitedHTTPClient) Close() error {
	c.client.HTTPClient.CloseIdleConnections()
	return nil
}

// customRetryPolicy defines which HTTP responses should trigger a retry
func customRetryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			// Retry on network errors
			return true, nil
		}

		// Retry on rate limiting and server-side failures
		switch resp.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true, nil
		}
		return false, nil
	}
}

// circuitBreaker counts consecutive request failures and rejects new work
// once the threshold is reached. After the cooldown a single trial request is
// let through; another failure reopens the circuit immediately.
type circuitBreaker struct {
	mu        sync.Mutex
	threshold int
	cooldown  time.Duration
	failures  int
	open      bool
	openedAt  time.Time
	lastErr   error
	logger    *logrus.Logger
}

func newCircuitBreaker(threshold int, cooldown time.Duration, logger *logrus.Logger) *circuitBreaker {
	if threshold < 1 {
		threshold = 1
	}
	return &circuitBreaker{
		threshold: threshold,
		cooldown:  cooldown,
		logger:    logger,
	}
}

func (b *circuitBreaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.open {
		return nil
	}
	if time.Since(b.openedAt) < b.cooldown {
		return NewSourceError("http", ErrCodeCircuitOpen,
			fmt.Sprintf("rejecting request after %d consecutive failures", b.failures),
			fmt.Errorf("%w: last error: %v", ErrCircuitOpen, b.lastErr))
	}

	// Half-open: permit one trial request, one more failure reopens
	b.open = false
	b.failures = b.threshold - 1
	metrics.SetCircuitBreakerOpen(false)
	b.logger.WithField("cooldown", b.cooldown).Info("circuit breaker half-open, allowing trial request")
	return nil
}

func (b *circuitBreaker) success() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	if b.open {
		b.open = false
		metrics.SetCircuitBreakerOpen(false)
	}
}

func (b *circuitBreaker) failure(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	b.lastErr = err
	if b.failures >= b.threshold && !b.open {
		b.open = true
		b.openedAt = time.Now()
		metrics.SetCircuitBreakerOpen(true)
		b.logger.WithError(err).WithField("failures", b.failures).
			Warn("circuit breaker opened")
	}
}
