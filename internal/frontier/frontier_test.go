package frontier

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/goodbuys/labelcrawler/internal/crawler"
	"github.com/goodbuys/labelcrawler/internal/extract"
	"github.com/goodbuys/labelcrawler/internal/hash/sha256"
	"github.com/goodbuys/labelcrawler/internal/heuristics"
	"github.com/goodbuys/labelcrawler/internal/known"
	"github.com/goodbuys/labelcrawler/internal/rules"
	"github.com/goodbuys/labelcrawler/internal/score"
)

type fakeFetcher struct {
	pages   map[string]string
	fetched []string
}

func (f *fakeFetcher) Fetch(_ context.Context, rawURL string) (crawler.FetchResponse, error) {
	f.fetched = append(f.fetched, rawURL)
	body, ok := f.pages[rawURL]
	if !ok {
		return crawler.FetchResponse{}, fmt.Errorf("fetch failed with status 404: %s", rawURL)
	}
	return crawler.FetchResponse{
		URL:         rawURL,
		StatusCode:  200,
		ContentType: "text/html; charset=utf-8",
		Body:        []byte(body),
	}, nil
}

type fakeClock struct {
	now time.Time
}

func (c fakeClock) Now() time.Time {
	return c.now
}

func testProfile() crawler.Profile {
	return crawler.Profile{
		Name:          "labels",
		MaxPages:      20,
		MaxDepth:      2,
		MaxCandidates: 100,
		PerTargetKeep: 10,
		MinScore:      4,
		HardMinScore:  7,
	}
}

func newTestCrawler(t *testing.T, fetcher crawler.Fetcher, profile crawler.Profile) *Crawler {
	t.Helper()
	rs := rules.Default()
	filter := heuristics.NewFilter(rs)
	ks := known.Bootstrap(nil, nil, filter)
	c, err := New(Options{
		Fetcher: fetcher,
		Extract: extract.New(rs, filter),
		Scorer:  score.NewScorer(rs, filter, ks),
		Filter:  filter,
		Known:   ks,
		Hasher:  sha256.New(),
		Clock:   fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		Profile: profile,
	})
	require.NoError(t, err)
	return c
}

const rootHTML = `<html><body>
	<main><a href="/members">Member Directory</a></main>
</body></html>`

const membersHTML = `<html><body>
	<h1>Our Members</h1>
	<ul>
		<li><a href="https://acme.example.com">Acme Corp</a></li>
		<li><a href="/contact">Contact Us</a></li>
	</ul>
</body></html>`

func TestCrawlTargetKeepsCorroboratedEntity(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{pages: map[string]string{
		"https://label.org":         rootHTML,
		"https://label.org/members": membersHTML,
	}}
	c := newTestCrawler(t, fetcher, testProfile())

	res := c.CrawlTarget(context.Background(), crawler.Target{
		ID:        "t1",
		Name:      "Fair Label",
		SourceURL: "https://label.org",
	}, time.Time{})

	require.Equal(t, crawler.CrawlCompleted, res.Status)
	require.Equal(t, 2, res.PagesCrawled)

	require.Len(t, res.Kept, 1)
	kept := res.Kept[0]
	require.Equal(t, "Acme Corp", kept.Name)
	require.True(t, kept.Evidence.Flags.ExternalLink)
	require.True(t, kept.Evidence.Flags.StructuralSuffix)
	require.Contains(t, kept.Evidence.URLs, "https://label.org/members")
	require.Equal(t, "t1", kept.Evidence.TargetID)
}

func TestCrawlTargetDeadlineInPastStopsImmediately(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{pages: map[string]string{
		"https://label.org": rootHTML,
	}}
	c := newTestCrawler(t, fetcher, testProfile())

	past := time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC)
	res := c.CrawlTarget(context.Background(), crawler.Target{
		ID:        "t1",
		Name:      "Fair Label",
		SourceURL: "https://label.org",
	}, past)

	require.Equal(t, crawler.CrawlDeadlineStopped, res.Status)
	require.Zero(t, res.PagesCrawled)
	require.Empty(t, fetcher.fetched)
}

func TestCrawlTargetFailsWithoutStartURL(t *testing.T) {
	t.Parallel()

	c := newTestCrawler(t, &fakeFetcher{pages: map[string]string{}}, testProfile())

	res := c.CrawlTarget(context.Background(), crawler.Target{
		ID:   "t1",
		Name: "Fair Label",
	}, time.Time{})

	require.Equal(t, crawler.CrawlFailed, res.Status)
	require.NotEmpty(t, res.ErrorText)
}

func TestCrawlTargetSuppressesDuplicateContent(t *testing.T) {
	t.Parallel()

	// Two URLs serving byte-identical listings must not double the
	// page-diversity evidence.
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://label.org":             `<html><body><main><a href="/members">Member Directory</a><a href="/our-members">Full List</a></main></body></html>`,
		"https://label.org/members":     membersHTML,
		"https://label.org/our-members": membersHTML,
	}}
	c := newTestCrawler(t, fetcher, testProfile())

	res := c.CrawlTarget(context.Background(), crawler.Target{
		ID:        "t1",
		Name:      "Fair Label",
		SourceURL: "https://label.org",
	}, time.Time{})

	require.Len(t, res.Kept, 1)
	require.Equal(t, 1, res.Kept[0].Evidence.PagesSeen)
}

func TestCrawlTargetSkipsOffHostAndIgnoredLinks(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{pages: map[string]string{
		"https://label.org": `<html><body><main>
			<a href="https://other.org/members">Offsite Directory</a>
			<a href="/login">Member Login</a>
			<a href="/members">Member Directory</a>
		</main></body></html>`,
		"https://label.org/members": membersHTML,
	}}
	c := newTestCrawler(t, fetcher, testProfile())

	res := c.CrawlTarget(context.Background(), crawler.Target{
		ID:        "t1",
		Name:      "Fair Label",
		SourceURL: "https://label.org",
	}, time.Time{})
	require.Equal(t, crawler.CrawlCompleted, res.Status)

	for _, u := range fetcher.fetched {
		require.NotContains(t, u, "other.org")
		require.NotContains(t, u, "/login")
	}
}

func TestCrawlTargetHonorsPageCap(t *testing.T) {
	t.Parallel()

	pages := map[string]string{}
	var links string
	for i := 0; i < 30; i++ {
		u := fmt.Sprintf("https://label.org/members/page-%d", i)
		links += fmt.Sprintf(`<a href="%s">Listing %d</a>`, u, i)
		pages[u] = membersHTML
	}
	pages["https://label.org"] = `<html><body><main>` + links + `</main></body></html>`

	profile := testProfile()
	profile.MaxPages = 5
	fetcher := &fakeFetcher{pages: pages}
	c := newTestCrawler(t, fetcher, profile)

	res := c.CrawlTarget(context.Background(), crawler.Target{
		ID:        "t1",
		Name:      "Fair Label",
		SourceURL: "https://label.org",
	}, time.Time{})

	require.Equal(t, 5, res.PagesCrawled)
}

func TestCrawlTargetIsIdempotentAcrossRuns(t *testing.T) {
	t.Parallel()

	newFetcher := func() *fakeFetcher {
		return &fakeFetcher{pages: map[string]string{
			"https://label.org":         rootHTML,
			"https://label.org/members": membersHTML,
		}}
	}
	target := crawler.Target{ID: "t1", Name: "Fair Label", SourceURL: "https://label.org"}

	c1 := newTestCrawler(t, newFetcher(), testProfile())
	c2 := newTestCrawler(t, newFetcher(), testProfile())

	res1 := c1.CrawlTarget(context.Background(), target, time.Time{})
	res2 := c2.CrawlTarget(context.Background(), target, time.Time{})

	require.Equal(t, res1.Kept, res2.Kept)
	require.Equal(t, res1.Status, res2.Status)
}
