package progress

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goodbuys/labelcrawler/internal/crawler"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func TestHubBroadcastsToAllSinks(t *testing.T) {
	t.Parallel()

	a := &recordingSink{}
	b := &recordingSink{}
	hub := NewHub(a)
	hub.Register(b)

	hub.Publish(Event{Kind: KindRunStarted, RunID: "run-1"})

	require.Len(t, a.events, 1)
	require.Len(t, b.events, 1)
	require.False(t, a.events[0].At.IsZero())
}

func TestNilHubIsSafe(t *testing.T) {
	t.Parallel()

	var hub *Hub
	hub.Register(&recordingSink{})
	hub.Publish(Event{Kind: KindRunStarted})
}

func TestSnapshotSinkFoldsTargetLifecycle(t *testing.T) {
	t.Parallel()

	sink := NewSnapshotSink()
	sink.OnEvent(Event{Kind: KindRunStarted, RunID: "run-1"})
	sink.OnEvent(Event{Kind: KindTargetStarted, RunID: "run-1", TargetID: "t1", TargetName: "Fair Label"})
	sink.OnEvent(Event{Kind: KindPageCrawled, RunID: "run-1", TargetID: "t1", URL: "https://label.org"})
	sink.OnEvent(Event{Kind: KindPageCrawled, RunID: "run-1", TargetID: "t1", URL: "https://label.org/members"})
	sink.OnEvent(Event{
		Kind:         KindTargetFinished,
		RunID:        "run-1",
		TargetID:     "t1",
		TargetName:   "Fair Label",
		Status:       crawler.CrawlCompleted,
		PagesCrawled: 2,
		Kept:         5,
		Dropped:      12,
	})
	sink.OnEvent(Event{Kind: KindRunFinished, RunID: "run-1"})

	snap := sink.Snapshot()
	require.Equal(t, "run-1", snap.RunID)
	require.False(t, snap.StartedAt.IsZero())
	require.False(t, snap.DoneAt.IsZero())

	require.Len(t, snap.Targets, 1)
	ts := snap.Targets[0]
	require.Equal(t, "Fair Label", ts.TargetName)
	require.Equal(t, crawler.CrawlCompleted, ts.Status)
	require.Equal(t, 2, ts.PagesCrawled)
	require.Equal(t, 5, ts.Kept)
	require.Equal(t, 12, ts.Dropped)
}

func TestSnapshotSinkPreservesTargetOrder(t *testing.T) {
	t.Parallel()

	sink := NewSnapshotSink()
	sink.OnEvent(Event{Kind: KindTargetStarted, TargetID: "t1"})
	sink.OnEvent(Event{Kind: KindTargetStarted, TargetID: "t2"})
	sink.OnEvent(Event{Kind: KindPageCrawled, TargetID: "t1"})

	snap := sink.Snapshot()
	require.Len(t, snap.Targets, 2)
	require.Equal(t, "t1", snap.Targets[0].TargetID)
	require.Equal(t, "t2", snap.Targets[1].TargetID)
}
