// Package collyfetcher implements Fetcher using gocolly.
package collyfetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/goodbuys/labelcrawler/internal/crawler"
	"github.com/goodbuys/labelcrawler/internal/hoststats"
	"github.com/goodbuys/labelcrawler/internal/telemetry"
)

// ErrNotHTML is returned when a response succeeds but carries a content type
// the extraction pipeline cannot use. Callers skip the page without retrying.
var ErrNotHTML = errors.New("response is not html")

// userAgents is rotated per attempt so a blocked identity does not poison
// every retry against the same host.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
}

// retryableStatuses are the HTTP statuses worth another attempt.
var retryableStatuses = map[int]struct{}{
	http.StatusForbidden:           {},
	http.StatusTooManyRequests:     {},
	http.StatusInternalServerError: {},
	http.StatusBadGateway:          {},
	http.StatusServiceUnavailable:  {},
	http.StatusGatewayTimeout:      {},
}

// Config controls collector behavior.
type Config struct {
	Timeout     time.Duration
	Retries     int
	BackoffBase time.Duration
}

// Fetcher implements crawler.Fetcher using the Colly collector with a
// bounded retry ladder and host-level block accounting. One Fetcher is
// shared by all concurrent target crawls.
type Fetcher struct {
	cfg           Config
	transport     http.RoundTripper
	baseCollector *colly.Collector
	stats         *hoststats.Tracker
	attempt       atomic.Uint64
}

// New builds a Fetcher. A nil tracker gets replaced with a private one so
// penalty accounting always has somewhere to go.
func New(cfg Config, stats *hoststats.Tracker) *Fetcher {
	if stats == nil {
		stats = hoststats.NewTracker()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 12 * time.Second
	}
	if cfg.BackoffBase == 0 {
		cfg.BackoffBase = 800 * time.Millisecond
	}
	c := colly.NewCollector(colly.Async(false))
	// Host pacing, penalties, and the path ignore lists live upstream;
	// a robots probe per URL would double every request.
	c.IgnoreRobotsTxt = true

	transport := newHTTPTransport()
	c.WithTransport(transport)

	return &Fetcher{
		cfg:           cfg,
		transport:     transport,
		baseCollector: c,
		stats:         stats,
	}
}

// Fetch executes an HTTP GET with retries on throttling and server errors.
// A successful non-HTML response yields ErrNotHTML.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (crawler.FetchResponse, error) {
	host := hostOf(rawURL)
	var lastErr error
	for attempt := 0; attempt <= f.cfg.Retries; attempt++ {
		if attempt > 0 {
			telemetry.ObserveRetry()
			if err := sleepCtx(ctx, f.cfg.BackoffBase*time.Duration(attempt)); err != nil {
				return crawler.FetchResponse{}, err
			}
		}
		resp, retry, err := f.attemptFetch(ctx, rawURL, host, attempt)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !retry {
			// ErrNotHTML still carries the body so sitemap callers can
			// parse it.
			return resp, err
		}
	}
	return crawler.FetchResponse{}, fmt.Errorf("fetch %s: retries exhausted: %w", rawURL, lastErr)
}

// attemptFetch runs one collector pass. The bool result reports whether the
// failure is worth another attempt.
func (f *Fetcher) attemptFetch(ctx context.Context, rawURL, host string, attempt int) (crawler.FetchResponse, bool, error) {
	var (
		result    crawler.FetchResponse
		fetchErr  error
		errStatus int
	)
	start := time.Now()
	collector := f.buildCollector(attempt, start, &result, &fetchErr, &errStatus)

	if err := f.runCollector(ctx, collector, rawURL); err != nil {
		if ctx.Err() != nil {
			return crawler.FetchResponse{}, false, err
		}
		// OnError captured a status when the server answered; otherwise
		// this was a transport failure.
		if errStatus != 0 {
			retry, herr := f.handleHTTPError(host, errStatus, start, err)
			return crawler.FetchResponse{}, retry, herr
		}
		f.stats.RecordError(host, err, time.Since(start))
		telemetry.ObservePage(host, "transport_error")
		return crawler.FetchResponse{}, true, err
	}
	if fetchErr != nil {
		if errStatus == 0 {
			f.stats.RecordError(host, fetchErr, time.Since(start))
			telemetry.ObservePage(host, "transport_error")
			return crawler.FetchResponse{}, true, fetchErr
		}
		retry, herr := f.handleHTTPError(host, errStatus, start, fetchErr)
		return crawler.FetchResponse{}, retry, herr
	}

	if !htmlContentType(result.ContentType) {
		f.stats.RecordStatus(host, result.StatusCode, result.Duration, false)
		telemetry.ObservePage(host, "not_html")
		return result, false, fmt.Errorf("fetch %s: %w (%s)", rawURL, ErrNotHTML, result.ContentType)
	}
	f.stats.RecordStatus(host, result.StatusCode, result.Duration, true)
	f.stats.DecayPenalty(host)
	telemetry.ObservePage(host, "ok")
	return result, false, nil
}

func (f *Fetcher) handleHTTPError(host string, status int, start time.Time, fetchErr error) (bool, error) {
	dur := time.Since(start)
	f.stats.RecordStatus(host, status, dur, false)
	if status == http.StatusForbidden || status == http.StatusTooManyRequests {
		f.stats.BumpPenalty(host)
		telemetry.ObserveThrottle(host)
	}
	telemetry.ObservePage(host, telemetry.StatusLabel(status))
	_, retryable := retryableStatuses[status]
	return retryable, fmt.Errorf("fetch failed with status %d: %w", status, fetchErr)
}

func (f *Fetcher) buildCollector(
	attempt int,
	start time.Time,
	result *crawler.FetchResponse,
	fetchErr *error,
	errStatus *int,
) *colly.Collector {
	collector := f.baseCollector.Clone()
	// Retries revisit the same URL, so the visited cache must not apply.
	collector.AllowURLRevisit = true
	rotation := int(f.attempt.Add(1) % uint64(len(userAgents)))
	collector.UserAgent = userAgents[(rotation+attempt)%len(userAgents)]
	collector.SetRequestTimeout(f.cfg.Timeout)
	collector.WithTransport(f.transport)

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
		r.Headers.Set("Cache-Control", "no-cache")
		r.Headers.Set("Pragma", "no-cache")
	})

	collector.OnResponse(func(r *colly.Response) {
		*result = crawler.FetchResponse{
			URL:         r.Request.URL.String(),
			StatusCode:  r.StatusCode,
			ContentType: r.Headers.Get("Content-Type"),
			Body:        append([]byte(nil), r.Body...),
			Duration:    time.Since(start),
		}
	})

	collector.OnError(func(r *colly.Response, err error) {
		*fetchErr = err
		if r != nil {
			*errStatus = r.StatusCode
		}
	})
	return collector
}

func (f *Fetcher) runCollector(ctx context.Context, collector *colly.Collector, url string) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("colly fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("colly visit failed: %w", err)
		}
		return nil
	}
}

func htmlContentType(ct string) bool {
	lower := strings.ToLower(ct)
	return strings.Contains(lower, "text/html") || strings.Contains(lower, "application/xhtml+xml")
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("retry backoff canceled: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
