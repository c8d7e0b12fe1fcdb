package fetcher

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/corpix/uarand"

	"forum-mirror/internal/config"
	"forum-mirror/internal/observability"
)

const randomUserAgent = "random"

// Transport performs a single GET. An error means no response was obtained;
// any response, whatever its status, is returned as-is.
type Transport interface {
	Get(ctx context.Context, url string, header http.Header) (*FetchResponse, error)
}

type FetchResponse struct {
	StatusCode int
	Body       []byte
	URL        string
	Headers    http.Header
}

// FetchError is returned once every attempt for a URL has failed.
type FetchError struct {
	URL        string
	StatusCode int // 0 when the last attempt got no response
	Attempts   int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s failed after %d attempt(s): status %d: %v", e.URL, e.Attempts, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s failed after %d attempt(s): %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type Fetcher struct {
	transport   Transport
	cfg         *config.Config
	logger      *observability.Logger
	cache       *ResponseCache
	rateLimiter *RateLimiter
	sleep       func(ctx context.Context, d time.Duration) error
	now         func() time.Time
}

type Option func(*Fetcher)

func WithTransport(t Transport) Option {
	return func(f *Fetcher) { f.transport = t }
}

// WithSleep replaces the backoff wait.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(f *Fetcher) { f.sleep = sleep }
}

// WithClock sets the clock used for response cache expiry.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) { f.now = now }
}

func NewFetcher(cfg *config.Config, logger *observability.Logger, opts ...Option) *Fetcher {
	f := &Fetcher{
		cfg:         cfg,
		logger:      logger,
		rateLimiter: NewRateLimiter(cfg.RateLimit.MaxConcurrentPerHost, cfg.RateLimit.RPM),
		sleep:       sleepContext,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.transport == nil {
		f.transport = NewHTTPTransport(cfg)
	}
	if cfg.ResponseCacheEnabled() {
		f.cache = NewResponseCache(cfg.GetResponseCacheTTL(), cfg.ResponseCache.MaxEntries, f.now)
	}
	return f
}

// Fetch returns the body of urlStr, served from the response cache when
// possible. Failures are reported as *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string) (string, error) {
	if f.cache != nil {
		if body, ok := f.cache.Get(urlStr); ok {
			f.logger.Debug("Response cache hit", "url", urlStr)
			return body, nil
		}
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return "", &FetchError{URL: urlStr, Attempts: 0, Err: fmt.Errorf("invalid URL: %w", err)}
	}
	host := parsedURL.Host

	maxAttempts := f.cfg.HTTP.MaxAttempts
	var (
		lastErr    error
		lastStatus int
	)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := f.calculateBackoff(attempt - 1)
			f.logger.Debug("Retrying fetch", "url", urlStr, "attempt", attempt+1, "backoff", backoff.String())
			if err := f.sleep(ctx, backoff); err != nil {
				return "", &FetchError{URL: urlStr, StatusCode: lastStatus, Attempts: attempt, Err: err}
			}
		}

		resp, err := f.attempt(ctx, host, urlStr)
		if err != nil {
			if ctx.Err() != nil {
				return "", &FetchError{URL: urlStr, Attempts: attempt + 1, Err: ctx.Err()}
			}
			lastErr, lastStatus = err, 0
			f.logger.Warn("Fetch attempt failed", "url", urlStr, "attempt", attempt+1, "error", err)
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			body := string(resp.Body)
			if f.cache != nil {
				f.cache.Set(urlStr, body)
			}
			return body, nil
		}

		lastErr = fmt.Errorf("unexpected status: %d", resp.StatusCode)
		lastStatus = resp.StatusCode
		if !retryableStatus(resp.StatusCode) {
			return "", &FetchError{URL: urlStr, StatusCode: lastStatus, Attempts: attempt + 1, Err: lastErr}
		}
		f.logger.Warn("Fetch attempt got retryable status", "url", urlStr, "attempt", attempt+1, "status", resp.StatusCode)
	}

	return "", &FetchError{URL: urlStr, StatusCode: lastStatus, Attempts: maxAttempts, Err: lastErr}
}

func (f *Fetcher) attempt(ctx context.Context, host, urlStr string) (*FetchResponse, error) {
	release, err := f.rateLimiter.Acquire(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}
	defer release()

	attemptCtx, cancel := context.WithTimeout(ctx, f.cfg.GetAttemptTimeout())
	defer cancel()

	return f.transport.Get(attemptCtx, urlStr, f.headers())
}

func (f *Fetcher) headers() http.Header {
	ua := f.cfg.HTTP.UserAgent
	if ua == randomUserAgent {
		ua = uarand.GetRandom()
	}

	h := make(http.Header)
	h.Set("User-Agent", ua)
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if f.cfg.HTTP.AcceptLanguage != "" {
		h.Set("Accept-Language", f.cfg.HTTP.AcceptLanguage)
	}
	return h
}

// calculateBackoff returns the wait after the failed attempt with the given
// 0-based index: base * 2^attempt, spread by ±jitter_pct.
func (f *Fetcher) calculateBackoff(attempt int) time.Duration {
	baseMS := float64(f.cfg.HTTP.RetryBaseDelayMS)
	exponential := baseMS * math.Pow(2, float64(attempt))

	if jitterPct := f.cfg.HTTP.JitterPct; jitterPct > 0 {
		jitterRange := exponential * float64(jitterPct) / 100
		exponential += (rand.Float64() - 0.5) * 2 * jitterRange
	}

	return time.Duration(math.Max(exponential, 0) * float64(time.Millisecond))
}

func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsNotFound reports whether err is a fetch that ended in 404.
func IsNotFound(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.StatusCode == http.StatusNotFound
}
