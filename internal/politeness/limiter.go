// Package politeness paces outbound requests per host. The base spacing is
// enforced with a token-bucket limiter shared across all target crawls that
// touch the host; on top of that, each wait adds jitter and is stretched by
// the host's adaptive penalty multiplier.
package politeness

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/goodbuys/labelcrawler/internal/hoststats"
	"github.com/goodbuys/labelcrawler/internal/telemetry"
)

// Config holds the delay knobs.
type Config struct {
	BaseDelay time.Duration
	Jitter    time.Duration
}

// Limiter manages per-host pacing.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	cfg      Config
	stats    *hoststats.Tracker
}

// New creates a Limiter backed by the given host tracker.
func New(cfg Config, stats *hoststats.Tracker) *Limiter {
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 900 * time.Millisecond
	}
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		cfg:      cfg,
		stats:    stats,
	}
}

// Wait blocks until the host may be contacted again, respecting the context.
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	host := u.Host

	start := time.Now()
	if err := l.hostLimiter(host).Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	delay := l.penalizedDelay(host)
	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return fmt.Errorf("politeness wait canceled: %w", ctx.Err())
		case <-timer.C:
		}
	}

	if waited := time.Since(start); waited > time.Millisecond {
		telemetry.ObserveRateLimitDelay(host, waited)
	}
	return nil
}

func (l *Limiter) hostLimiter(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[host]
	if !ok {
		lim = rate.NewLimiter(rate.Every(l.cfg.BaseDelay), 1)
		l.limiters[host] = lim
	}
	return lim
}

// penalizedDelay computes jitter(base, jitterRange) × hostPenalty, minus the
// base spacing the token bucket already enforced.
func (l *Limiter) penalizedDelay(host string) time.Duration {
	wait := l.cfg.BaseDelay
	if l.cfg.Jitter > 0 {
		wait += time.Duration(rand.Int63n(int64(l.cfg.Jitter) + 1))
	}
	penalty := 1.0
	if l.stats != nil {
		penalty = l.stats.Penalty(host)
	}
	total := time.Duration(float64(wait) * penalty)
	if total <= l.cfg.BaseDelay {
		return 0
	}
	return total - l.cfg.BaseDelay
}
