// Package progress fans crawl lifecycle events out to pluggable sinks and
// keeps a run snapshot for the status endpoint.
package progress

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goodbuys/labelcrawler/internal/crawler"
	"github.com/goodbuys/labelcrawler/internal/telemetry"
)

// Kind identifies an event type.
type Kind string

// Event kinds emitted during a run.
const (
	KindRunStarted     Kind = "run_started"
	KindTargetStarted  Kind = "target_started"
	KindPageCrawled    Kind = "page_crawled"
	KindTargetFinished Kind = "target_finished"
	KindRunFinished    Kind = "run_finished"
)

// Event is one progress notification.
type Event struct {
	Kind         Kind
	RunID        string
	TargetID     string
	TargetName   string
	URL          string
	Status       crawler.CrawlStatus
	PagesCrawled int
	Kept         int
	Dropped      int
	Err          string
	At           time.Time
}

// Sink consumes progress events. Implementations must be safe for
// concurrent use.
type Sink interface {
	OnEvent(Event)
}

// Hub broadcasts events to all registered sinks.
type Hub struct {
	mu    sync.RWMutex
	sinks []Sink
}

// NewHub creates an empty Hub.
func NewHub(sinks ...Sink) *Hub {
	return &Hub{sinks: sinks}
}

// Register adds a sink. Nil hubs and nil sinks are tolerated so callers can
// wire progress optionally.
func (h *Hub) Register(s Sink) {
	if h == nil || s == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sinks = append(h.sinks, s)
}

// Publish delivers the event to every sink.
func (h *Hub) Publish(ev Event) {
	if h == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.sinks {
		s.OnEvent(ev)
	}
}

// LogSink writes progress events to the structured log.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink wraps a logger as a sink.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// OnEvent logs the event at a level matching its significance.
func (s *LogSink) OnEvent(ev Event) {
	fields := []zap.Field{
		zap.String("run_id", ev.RunID),
		zap.String("target_id", ev.TargetID),
	}
	switch ev.Kind {
	case KindPageCrawled:
		s.logger.Debug("page crawled", append(fields, zap.String("url", ev.URL))...)
	case KindTargetFinished:
		fields = append(fields,
			zap.String("target", ev.TargetName),
			zap.String("status", string(ev.Status)),
			zap.Int("pages", ev.PagesCrawled),
			zap.Int("kept", ev.Kept),
			zap.Int("dropped", ev.Dropped),
		)
		if ev.Err != "" {
			s.logger.Warn("target finished with error", append(fields, zap.String("error", ev.Err))...)
			return
		}
		s.logger.Info("target finished", fields...)
	case KindRunStarted, KindRunFinished:
		s.logger.Info(string(ev.Kind), fields...)
	default:
		s.logger.Debug(string(ev.Kind), fields...)
	}
}

// MetricsSink forwards terminal target states to Prometheus counters.
type MetricsSink struct{}

// NewMetricsSink creates the metrics sink.
func NewMetricsSink() *MetricsSink {
	return &MetricsSink{}
}

// OnEvent updates counters for finished targets and gate verdicts.
func (MetricsSink) OnEvent(ev Event) {
	if ev.Kind != KindTargetFinished {
		return
	}
	telemetry.ObserveTarget(string(ev.Status))
	telemetry.ObserveCandidates("kept", ev.Kept)
	telemetry.ObserveCandidates("dropped", ev.Dropped)
}

// TargetState is the per-target view kept by the snapshot sink.
type TargetState struct {
	TargetID     string              `json:"targetId"`
	TargetName   string              `json:"targetName"`
	Status       crawler.CrawlStatus `json:"status,omitempty"`
	PagesCrawled int                 `json:"pagesCrawled"`
	Kept         int                 `json:"kept"`
	Dropped      int                 `json:"dropped"`
	Err          string              `json:"error,omitempty"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// Snapshot is the run-level view served over HTTP.
type Snapshot struct {
	RunID     string        `json:"runId"`
	StartedAt time.Time     `json:"startedAt,omitempty"`
	DoneAt    time.Time     `json:"doneAt,omitempty"`
	Targets   []TargetState `json:"targets"`
}

// SnapshotSink keeps the latest state of every target.
type SnapshotSink struct {
	mu      sync.RWMutex
	runID   string
	started time.Time
	done    time.Time
	targets map[string]*TargetState
	order   []string
}

// NewSnapshotSink creates an empty snapshot sink.
func NewSnapshotSink() *SnapshotSink {
	return &SnapshotSink{targets: make(map[string]*TargetState)}
}

// OnEvent folds the event into the run snapshot. Events delivered outside a
// Hub arrive unstamped, so a zero At defaults to now.
func (s *SnapshotSink) OnEvent(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	switch ev.Kind {
	case KindRunStarted:
		s.runID = ev.RunID
		s.started = ev.At
	case KindRunFinished:
		s.done = ev.At
	case KindTargetStarted, KindPageCrawled, KindTargetFinished:
		st, ok := s.targets[ev.TargetID]
		if !ok {
			st = &TargetState{TargetID: ev.TargetID, TargetName: ev.TargetName}
			s.targets[ev.TargetID] = st
			s.order = append(s.order, ev.TargetID)
		}
		if ev.TargetName != "" {
			st.TargetName = ev.TargetName
		}
		if ev.Kind == KindPageCrawled {
			st.PagesCrawled++
		}
		if ev.Kind == KindTargetFinished {
			st.Status = ev.Status
			st.PagesCrawled = ev.PagesCrawled
			st.Kept = ev.Kept
			st.Dropped = ev.Dropped
			st.Err = ev.Err
		}
		st.UpdatedAt = ev.At
	}
}

// Snapshot returns a copy of the current run state.
func (s *SnapshotSink) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{RunID: s.runID, StartedAt: s.started, DoneAt: s.done}
	for _, id := range s.order {
		snap.Targets = append(snap.Targets, *s.targets[id])
	}
	return snap
}
