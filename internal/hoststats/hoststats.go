// Package hoststats tracks per-host request outcomes and the adaptive
// penalty multiplier that scales inter-request delay. Multiple target crawls
// may touch the same host concurrently, so all state lives behind one mutex.
package hoststats

import (
	"strconv"
	"sync"
	"time"
)

const (
	minPenalty  = 1.0
	maxPenalty  = 3.0
	bumpFactor  = 1.3
	decayFactor = 0.95
)

// HostStats is the per-host counter snapshot persisted as diagnostics.
type HostStats struct {
	Host           string         `json:"host"`
	TotalRequests  int            `json:"totalRequests"`
	SuccessHTML    int            `json:"successHtml"`
	NonHTMLOrEmpty int            `json:"nonHtmlOrEmpty"`
	BlockCount     int            `json:"blockCount"`
	ErrorCount     int            `json:"errorCount"`
	StatusCounts   map[string]int `json:"statusCounts"`
	LastStatus     int            `json:"lastStatus,omitempty"`
	LastError      string         `json:"lastError,omitempty"`
	LastDurationMs int64          `json:"lastDurationMs"`
	LastSeenAt     time.Time      `json:"lastSeenAt"`
	Penalty        float64        `json:"penaltyMultiplier"`
}

// Tracker owns all per-host state for a run.
type Tracker struct {
	mu      sync.Mutex
	stats   map[string]*HostStats
	penalty map[string]float64
}

// NewTracker constructs an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		stats:   make(map[string]*HostStats),
		penalty: make(map[string]float64),
	}
}

// Penalty returns the host's delay multiplier, clamped to [1, 3].
func (t *Tracker) Penalty(host string) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.penaltyLocked(host)
}

func (t *Tracker) penaltyLocked(host string) float64 {
	p, ok := t.penalty[host]
	if !ok || p < minPenalty {
		return minPenalty
	}
	if p > maxPenalty {
		return maxPenalty
	}
	return p
}

// BumpPenalty escalates the host's penalty after a throttle response.
func (t *Tracker) BumpPenalty(host string) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	next := t.penaltyLocked(host) * bumpFactor
	if next > maxPenalty {
		next = maxPenalty
	}
	t.penalty[host] = next
	return next
}

// DecayPenalty cools the host's penalty after a successful HTML response.
// The multiplier never drops below 1.
func (t *Tracker) DecayPenalty(host string) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	next := t.penaltyLocked(host) * decayFactor
	if next < minPenalty {
		next = minPenalty
	}
	t.penalty[host] = next
	return next
}

// RecordStatus records one completed HTTP exchange. htmlOK distinguishes a
// usable HTML body from a non-HTML or empty response, which is counted
// separately from genuine errors.
func (t *Tracker) RecordStatus(host string, status int, dur time.Duration, htmlOK bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.getLocked(host)
	s.TotalRequests++
	s.LastStatus = status
	s.LastDurationMs = dur.Milliseconds()
	s.LastSeenAt = time.Now().UTC()
	s.StatusCounts[strconv.Itoa(status)]++
	if htmlOK {
		s.SuccessHTML++
	} else {
		s.NonHTMLOrEmpty++
	}
	if status == 403 || status == 429 {
		s.BlockCount++
	}
}

// RecordError records a transport-level failure (timeout, reset, DNS).
func (t *Tracker) RecordError(host string, err error, dur time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.getLocked(host)
	s.TotalRequests++
	s.ErrorCount++
	if err != nil {
		s.LastError = err.Error()
	}
	s.LastDurationMs = dur.Milliseconds()
	s.LastSeenAt = time.Now().UTC()
}

func (t *Tracker) getLocked(host string) *HostStats {
	s, ok := t.stats[host]
	if !ok {
		s = &HostStats{Host: host, StatusCounts: make(map[string]int)}
		t.stats[host] = s
	}
	return s
}

// Snapshot returns a deep copy of all host stats with the current penalty
// folded in, suitable for writing to the diagnostics file.
func (t *Tracker) Snapshot() map[string]HostStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]HostStats, len(t.stats))
	for host, s := range t.stats {
		cp := *s
		cp.StatusCounts = make(map[string]int, len(s.StatusCounts))
		for k, v := range s.StatusCounts {
			cp.StatusCounts[k] = v
		}
		cp.Penalty = t.penaltyLocked(host)
		out[host] = cp
	}
	return out
}
