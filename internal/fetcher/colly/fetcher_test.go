package collyfetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/goodbuys/labelcrawler/internal/hoststats"
)

func testConfig() Config {
	return Config{
		Timeout:     5 * time.Second,
		Retries:     2,
		BackoffBase: time.Millisecond,
	}
}

func TestFetchReturnsHTML(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NotEmpty(t, r.Header.Get("Accept"))
		require.NotEmpty(t, r.Header.Get("Accept-Language"))
		require.NotEmpty(t, r.UserAgent())
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	f := New(testConfig(), hoststats.NewTracker())
	resp, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(resp.Body), "ok")
}

func TestFetchRetriesOnServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>recovered</html>"))
	}))
	defer srv.Close()

	f := New(testConfig(), hoststats.NewTracker())
	resp, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Contains(t, string(resp.Body), "recovered")
	require.Equal(t, int32(3), calls.Load())
}

func TestFetchExhaustsRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	tracker := hoststats.NewTracker()
	f := New(testConfig(), tracker)
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	require.Equal(t, int32(3), calls.Load())
}

func TestFetchDoesNotRetryNotFound(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := New(testConfig(), hoststats.NewTracker())
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	require.Equal(t, int32(1), calls.Load())
}

func TestFetchRejectsNonHTMLButKeepsBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(`<urlset></urlset>`))
	}))
	defer srv.Close()

	f := New(testConfig(), hoststats.NewTracker())
	resp, err := f.Fetch(context.Background(), srv.URL)
	require.ErrorIs(t, err, ErrNotHTML)
	require.Contains(t, string(resp.Body), "urlset")
}

func TestThrottleResponsesBumpHostPenalty(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	tracker := hoststats.NewTracker()
	f := New(testConfig(), tracker)
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)

	host := hostOf(srv.URL)
	require.Greater(t, tracker.Penalty(host), 1.0)
}

func TestSuccessDecaysHostPenalty(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	tracker := hoststats.NewTracker()
	host := hostOf(srv.URL)
	tracker.BumpPenalty(host)
	before := tracker.Penalty(host)

	f := New(testConfig(), tracker)
	_, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Less(t, tracker.Penalty(host), before)
}

func TestFetchConcurrentCallsShareOneFetcher(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	f := New(testConfig(), hoststats.NewTracker())
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := f.Fetch(context.Background(), srv.URL)
			errs <- err
		}()
	}
	for i := 0; i < 8; i++ {
		require.NoError(t, <-errs)
	}
}

func TestTransportErrorRecordsHostError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	tracker := hoststats.NewTracker()
	f := New(testConfig(), tracker)
	_, err := f.Fetch(context.Background(), url)
	require.Error(t, err)

	snap := tracker.Snapshot()
	stats, ok := snap[hostOf(url)]
	require.True(t, ok)
	require.Greater(t, stats.ErrorCount, 0)
	// Transport failures never masquerade as an HTTP status.
	require.NotContains(t, stats.StatusCounts, "0")
}

func TestHTMLContentType(t *testing.T) {
	t.Parallel()

	require.True(t, htmlContentType("text/html"))
	require.True(t, htmlContentType("application/xhtml+xml; charset=utf-8"))
	require.False(t, htmlContentType("application/json"))
	require.False(t, htmlContentType(""))
}
