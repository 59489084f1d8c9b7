// Package frontier drives the breadth-first crawl of one target: seeding,
// politeness, fetching with headless promotion, extraction, scoring, and the
// final threshold gate.
package frontier

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goodbuys/labelcrawler/internal/crawler"
	"github.com/goodbuys/labelcrawler/internal/extract"
	collyfetcher "github.com/goodbuys/labelcrawler/internal/fetcher/colly"
	"github.com/goodbuys/labelcrawler/internal/headless/detector"
	"github.com/goodbuys/labelcrawler/internal/heuristics"
	"github.com/goodbuys/labelcrawler/internal/known"
	"github.com/goodbuys/labelcrawler/internal/politeness"
	"github.com/goodbuys/labelcrawler/internal/progress"
	"github.com/goodbuys/labelcrawler/internal/score"
)

const (
	maxDroppedSample   = 50
	maxSitemapSeeds    = 40
	sitemapChildLimit  = 3
	sitemapPathDefault = "/sitemap.xml"
)

// Options wires the collaborators a Crawler needs.
type Options struct {
	Fetcher  crawler.Fetcher
	Headless crawler.Fetcher
	Detector *detector.Heuristic
	Limiter  *politeness.Limiter
	Extract  *extract.Extractor
	Scorer   *score.Scorer
	Filter   *heuristics.Filter
	Known    *known.Set
	Hasher   crawler.Hasher
	Clock    crawler.Clock
	Hub      *progress.Hub
	Logger   *zap.Logger
	Profile  crawler.Profile
	RunID    string
}

// Crawler runs the per-target pipeline. One Crawler is shared by all targets
// of a run; per-target state lives in crawlState.
type Crawler struct {
	opts Options
}

// New validates options and builds a Crawler.
func New(opts Options) (*Crawler, error) {
	if opts.Fetcher == nil {
		return nil, errors.New("frontier: fetcher is required")
	}
	if opts.Extract == nil || opts.Scorer == nil || opts.Filter == nil {
		return nil, errors.New("frontier: extractor, scorer, and filter are required")
	}
	if opts.Clock == nil {
		return nil, errors.New("frontier: clock is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Crawler{opts: opts}, nil
}

type queueItem struct {
	url   string
	depth int
}

type crawlState struct {
	target   crawler.Target
	origin   *url.URL
	queue    []queueItem
	enqueued map[string]struct{}
	seen     map[string]struct{} // content hashes
	agg      *score.Aggregator
	dropped  []crawler.DroppedCandidate
	nDropped int
	pages    int
	status   crawler.CrawlStatus
}

// CrawlTarget crawls one target until its page cap, candidate cap, or the
// run deadline stops it. Fetch failures skip the page; only a target with no
// crawlable start URL fails outright.
func (c *Crawler) CrawlTarget(ctx context.Context, target crawler.Target, deadline time.Time) crawler.CrawlResult {
	logger := c.opts.Logger.With(
		zap.String("target_id", target.ID),
		zap.String("target", target.Name),
	)
	c.opts.Hub.Publish(progress.Event{
		Kind:       progress.KindTargetStarted,
		RunID:      c.opts.RunID,
		TargetID:   target.ID,
		TargetName: target.Name,
	})

	st, err := c.newState(target)
	if err != nil {
		return crawler.CrawlResult{
			Target:    target,
			Status:    crawler.CrawlFailed,
			ErrorText: err.Error(),
		}
	}

	if c.opts.Profile.SitemapSeed {
		c.seedFromSitemap(ctx, st, logger)
	}

	for len(st.queue) > 0 && st.pages < c.opts.Profile.MaxPages {
		if !deadline.IsZero() && c.opts.Clock.Now().After(deadline) {
			st.status = crawler.CrawlDeadlineStopped
			break
		}
		if ctx.Err() != nil {
			st.status = crawler.CrawlDeadlineStopped
			break
		}
		item := st.queue[0]
		st.queue = st.queue[1:]

		c.crawlPage(ctx, st, item, logger)

		if st.agg.Size() >= c.opts.Profile.MaxCandidates {
			st.status = crawler.CrawlCapStopped
			break
		}
	}

	return c.finalize(st)
}

// newState builds the initial frontier: the start URL, same-host seeds, and
// the directory hint paths probed against the origin.
func (c *Crawler) newState(target crawler.Target) (*crawlState, error) {
	start := target.StartURL()
	origin, err := url.Parse(start)
	if err != nil || origin.Host == "" {
		return nil, fmt.Errorf("target %s has no crawlable start url: %q", target.ID, start)
	}

	st := &crawlState{
		target:   target,
		origin:   origin,
		enqueued: make(map[string]struct{}),
		seen:     make(map[string]struct{}),
		agg:      score.NewAggregator(),
		status:   crawler.CrawlCompleted,
	}

	st.push(start, 0)
	for _, seed := range target.SeedURLs {
		if heuristics.SameHost(start, seed) && !c.opts.Filter.ShouldIgnorePath(seed) {
			st.push(seed, 0)
		}
	}
	for _, hint := range c.opts.Scorer.DirectoryHints() {
		probe := origin.Scheme + "://" + origin.Host + hint
		st.push(probe, 1)
	}
	return st, nil
}

func (st *crawlState) push(rawURL string, depth int) {
	norm := normalizeURL(rawURL)
	if norm == "" {
		return
	}
	if _, ok := st.enqueued[norm]; ok {
		return
	}
	st.enqueued[norm] = struct{}{}
	st.queue = append(st.queue, queueItem{url: norm, depth: depth})
}

// crawlPage fetches, extracts, and scores one page. All failures are
// page-local.
func (c *Crawler) crawlPage(ctx context.Context, st *crawlState, item queueItem, logger *zap.Logger) {
	if c.opts.Limiter != nil {
		if err := c.opts.Limiter.Wait(ctx, item.url); err != nil {
			return
		}
	}

	resp, err := c.opts.Fetcher.Fetch(ctx, item.url)
	if err != nil {
		logger.Debug("page fetch skipped", zap.String("url", item.url), zap.Error(err))
		return
	}
	if c.opts.Detector != nil && c.opts.Headless != nil && c.opts.Detector.NeedsJS(resp) {
		rendered, herr := c.opts.Headless.Fetch(ctx, item.url)
		if herr != nil {
			logger.Debug("headless promotion failed", zap.String("url", item.url), zap.Error(herr))
		} else {
			resp = rendered
		}
	}

	st.pages++
	c.opts.Hub.Publish(progress.Event{
		Kind:     progress.KindPageCrawled,
		RunID:    c.opts.RunID,
		TargetID: st.target.ID,
		URL:      item.url,
	})

	if c.duplicateContent(st, resp.Body) {
		logger.Debug("duplicate content skipped", zap.String("url", item.url))
		return
	}

	doc, err := extract.Parse(resp.URL, resp.Body)
	if err != nil {
		logger.Debug("page parse skipped", zap.String("url", item.url), zap.Error(err))
		return
	}
	c.opts.Extract.StripNoise(doc)

	if item.depth < c.opts.Profile.MaxDepth {
		c.expandLinks(st, doc, item.depth+1)
	}

	cands := c.opts.Extract.Candidates(doc)
	cands.InjectKnown(c.opts.Known.FoundInText(doc.BodyText()))

	pc := c.opts.Scorer.NewPageContext(resp.URL, doc.URL.Path, doc.HeadingsText())
	for name, ps := range c.opts.Scorer.ScorePage(pc, cands) {
		if ps.Score < c.opts.Profile.MinScore && !ps.Flags.Strong() {
			st.drop(crawler.DroppedCandidate{
				Name:          name,
				URL:           resp.URL,
				Reason:        "failed_score_filter",
				Score:         ps.Score,
				SampleReasons: ps.Reasons,
			})
			continue
		}
		st.agg.Add(name, resp.URL, ps)
	}
}

// duplicateContent fingerprints the body and reports whether an identical
// page was already scored. Protects the page-diversity boost from mirrored
// URLs.
func (c *Crawler) duplicateContent(st *crawlState, body []byte) bool {
	if c.opts.Hasher == nil || len(body) == 0 {
		return false
	}
	sum, err := c.opts.Hasher.Hash(body)
	if err != nil {
		return false
	}
	if _, ok := st.seen[sum]; ok {
		return true
	}
	st.seen[sum] = struct{}{}
	return false
}

func (c *Crawler) expandLinks(st *crawlState, doc *extract.Document, depth int) {
	for _, link := range c.opts.Extract.Links(doc) {
		if !heuristics.SameHost(st.origin.String(), link) {
			continue
		}
		if c.opts.Filter.ShouldIgnorePath(link) {
			continue
		}
		st.push(link, depth)
	}
}

func (st *crawlState) drop(d crawler.DroppedCandidate) {
	st.nDropped++
	if len(st.dropped) < maxDroppedSample {
		st.dropped = append(st.dropped, d)
	}
}

// seedFromSitemap fetches the origin sitemap and enqueues its same-host
// pages, following at most a few child sitemaps of an index.
func (c *Crawler) seedFromSitemap(ctx context.Context, st *crawlState, logger *zap.Logger) {
	smURL := st.origin.Scheme + "://" + st.origin.Host + sitemapPathDefault
	locs := c.fetchSitemap(ctx, smURL, logger)

	seeded, children := 0, 0
	for _, loc := range locs {
		if seeded >= maxSitemapSeeds {
			break
		}
		if extract.IsSitemapURL(loc) {
			if children >= sitemapChildLimit {
				continue
			}
			children++
			for _, child := range c.fetchSitemap(ctx, loc, logger) {
				if seeded >= maxSitemapSeeds {
					break
				}
				if c.seedURL(st, child) {
					seeded++
				}
			}
			continue
		}
		if c.seedURL(st, loc) {
			seeded++
		}
	}
	if seeded > 0 {
		logger.Debug("sitemap seeded", zap.Int("urls", seeded))
	}
}

func (c *Crawler) seedURL(st *crawlState, loc string) bool {
	if !heuristics.SameHost(st.origin.String(), loc) {
		return false
	}
	if c.opts.Filter.ShouldIgnorePath(loc) {
		return false
	}
	before := len(st.queue)
	st.push(loc, 1)
	return len(st.queue) > before
}

func (c *Crawler) fetchSitemap(ctx context.Context, smURL string, logger *zap.Logger) []string {
	if c.opts.Limiter != nil {
		if err := c.opts.Limiter.Wait(ctx, smURL); err != nil {
			return nil
		}
	}
	resp, err := c.opts.Fetcher.Fetch(ctx, smURL)
	if err != nil && !errors.Is(err, collyfetcher.ErrNotHTML) {
		logger.Debug("sitemap fetch skipped", zap.String("url", smURL), zap.Error(err))
		return nil
	}
	locs, perr := extract.SitemapURLs(resp.Body)
	if perr != nil {
		logger.Debug("sitemap parse skipped", zap.String("url", smURL), zap.Error(perr))
		return nil
	}
	return locs
}

// finalize applies the threshold gate and assembles the crawl result.
func (c *Crawler) finalize(st *crawlState) crawler.CrawlResult {
	gate := score.Gate{
		MinScore:      c.opts.Profile.MinScore,
		HardMinScore:  c.opts.Profile.HardMinScore,
		PerTargetKeep: c.opts.Profile.PerTargetKeep,
	}
	kept, gateDropped := gate.Apply(st.agg, st.target)
	for _, d := range gateDropped {
		st.drop(d)
	}

	result := crawler.CrawlResult{
		Target:        st.target,
		Status:        st.status,
		PagesCrawled:  st.pages,
		Kept:          kept,
		DroppedSample: st.dropped,
		DroppedCount:  st.nDropped,
	}
	c.opts.Hub.Publish(progress.Event{
		Kind:         progress.KindTargetFinished,
		RunID:        c.opts.RunID,
		TargetID:     st.target.ID,
		TargetName:   st.target.Name,
		Status:       result.Status,
		PagesCrawled: result.PagesCrawled,
		Kept:         len(result.Kept),
		Dropped:      result.DroppedCount,
	})
	return result
}

// normalizeURL strips fragments and trailing slashes so the visited set does
// not admit trivial aliases.
func normalizeURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}
