// Package runner orchestrates a full batch run: loading inputs,
// bootstrapping the known-entity set, fanning targets out across workers,
// and persisting the merged rows, audit, and diagnostics.
package runner

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goodbuys/labelcrawler/internal/clock/system"
	"github.com/goodbuys/labelcrawler/internal/config"
	"github.com/goodbuys/labelcrawler/internal/crawler"
	"github.com/goodbuys/labelcrawler/internal/extract"
	collyfetcher "github.com/goodbuys/labelcrawler/internal/fetcher/colly"
	"github.com/goodbuys/labelcrawler/internal/fetcher/headless"
	"github.com/goodbuys/labelcrawler/internal/frontier"
	"github.com/goodbuys/labelcrawler/internal/hash/sha256"
	"github.com/goodbuys/labelcrawler/internal/headless/detector"
	"github.com/goodbuys/labelcrawler/internal/heuristics"
	"github.com/goodbuys/labelcrawler/internal/hoststats"
	"github.com/goodbuys/labelcrawler/internal/id/uuid"
	"github.com/goodbuys/labelcrawler/internal/known"
	"github.com/goodbuys/labelcrawler/internal/politeness"
	"github.com/goodbuys/labelcrawler/internal/progress"
	"github.com/goodbuys/labelcrawler/internal/rules"
	"github.com/goodbuys/labelcrawler/internal/score"
	"github.com/goodbuys/labelcrawler/internal/store"
)

// Runner executes batch runs. Build one per process; Run may be called once
// per profile.
type Runner struct {
	cfg      config.Config
	logger   *zap.Logger
	clock    crawler.Clock
	ids      crawler.IDGenerator
	hub      *progress.Hub
	snapshot *progress.SnapshotSink
}

// New wires a Runner with the standard sinks: structured log, Prometheus
// counters, and the snapshot served by the status endpoint.
func New(cfg config.Config, logger *zap.Logger) *Runner {
	snapshot := progress.NewSnapshotSink()
	hub := progress.NewHub(
		progress.NewLogSink(logger),
		progress.NewMetricsSink(),
		snapshot,
	)
	return &Runner{
		cfg:      cfg,
		logger:   logger,
		clock:    system.New(),
		ids:      uuid.NewUUIDGenerator(),
		hub:      hub,
		snapshot: snapshot,
	}
}

// Snapshot exposes the live run state for the HTTP status endpoint.
func (r *Runner) Snapshot() progress.Snapshot {
	return r.snapshot.Snapshot()
}

// Run crawls every target under the named profile and persists the results.
// Individual target failures are recorded in the audit; only input loading
// and output writing abort the run.
func (r *Runner) Run(ctx context.Context, profileName string) error {
	runID, err := r.ids.NewID()
	if err != nil {
		return fmt.Errorf("generate run id: %w", err)
	}
	started := r.clock.Now()
	logger := r.logger.With(zap.String("run_id", runID), zap.String("profile", profileName))

	targets, err := store.LoadTargets(r.cfg.Paths.Targets)
	if err != nil {
		return err
	}
	previous, err := store.LoadRows(r.cfg.Paths.Rows)
	if err != nil {
		return err
	}

	ruleset := rules.Default()
	filter := heuristics.NewFilter(ruleset)
	filter.SeedTargetNames(targets)
	previous = store.FilterPlausibleRows(previous, filter)

	knownSet := known.Bootstrap(store.EntityNames(previous), ruleset.ManualKnownEntities, filter)
	logger.Info("run starting",
		zap.Int("targets", len(targets)),
		zap.Int("previous_rows", len(previous)),
		zap.Int("known_entities", knownSet.Len()),
	)

	crawl, cleanup, err := r.buildCrawler(profileName, runID, ruleset, filter, knownSet)
	if err != nil {
		return err
	}
	defer cleanup()

	r.hub.Publish(progress.Event{Kind: progress.KindRunStarted, RunID: runID})
	results := r.crawlAll(ctx, crawl, targets, profileName)
	r.hub.Publish(progress.Event{Kind: progress.KindRunFinished, RunID: runID})

	return r.persist(runID, profileName, started, previous, results)
}

// buildCrawler assembles the per-run pipeline. The returned cleanup closes
// the headless browser allocator when one was started.
func (r *Runner) buildCrawler(profileName, runID string, ruleset *rules.Ruleset, filter *heuristics.Filter, knownSet *known.Set) (*frontier.Crawler, func(), error) {
	_, baseDelay, jitter, timeout, retries := r.cfg.ProfileTuning(profileName)

	tracker := hoststats.NewTracker()
	limiter := politeness.New(politeness.Config{BaseDelay: baseDelay, Jitter: jitter}, tracker)
	fetcher := collyfetcher.New(collyfetcher.Config{Timeout: timeout, Retries: retries}, tracker)

	cleanup := func() {
		if r.cfg.DryRun {
			return
		}
		if err := store.WriteHostStats(r.cfg.Paths.HostStats, tracker.Snapshot()); err != nil {
			r.logger.Warn("write host stats failed", zap.Error(err))
		}
	}

	var headlessFetcher crawler.Fetcher
	var promote *detector.Heuristic
	if r.cfg.Headless.Enabled {
		hf, err := headless.NewChromedp(headless.Config{
			MaxParallel:       r.cfg.Headless.MaxParallel,
			NavigationTimeout: time.Duration(r.cfg.Headless.NavTimeoutSec) * time.Second,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("init headless fetcher: %w", err)
		}
		headlessFetcher = hf
		promote = detector.NewHeuristic(r.cfg.Headless.MinHTMLBytes)
		inner := cleanup
		cleanup = func() {
			hf.Close()
			inner()
		}
	}

	profile := r.profile(profileName)
	crawl, err := frontier.New(frontier.Options{
		Fetcher:  fetcher,
		Headless: headlessFetcher,
		Detector: promote,
		Limiter:  limiter,
		Extract:  extract.New(ruleset, filter),
		Scorer:   score.NewScorer(ruleset, filter, knownSet),
		Filter:   filter,
		Known:    knownSet,
		Hasher:   sha256.New(),
		Clock:    r.clock,
		Hub:      r.hub,
		Logger:   r.logger,
		Profile:  profile,
		RunID:    runID,
	})
	if err != nil {
		return nil, nil, err
	}
	return crawl, cleanup, nil
}

func (r *Runner) profile(name string) crawler.Profile {
	if name == "products" {
		return r.cfg.ProductProfile()
	}
	return r.cfg.LabelProfile()
}

// crawlAll fans targets across the worker pool. Results land at the
// target's input index so output order is stable regardless of completion
// order.
func (r *Runner) crawlAll(ctx context.Context, crawl *frontier.Crawler, targets []crawler.Target, profileName string) []crawler.CrawlResult {
	concurrency, _, _, _, _ := r.cfg.ProfileTuning(profileName)
	deadline := r.cfg.Crawl.Deadline(r.clock.Now())

	results := make([]crawler.CrawlResult, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, target := range targets {
		g.Go(func() error {
			results[i] = crawl.CrawlTarget(gctx, target, deadline)
			return nil
		})
	}
	// Workers never return errors; failures are carried in the results.
	_ = g.Wait()
	return results
}

func (r *Runner) persist(runID, profileName string, started time.Time, previous []store.EntityRow, results []crawler.CrawlResult) error {
	finished := r.clock.Now()

	base := previous
	if r.cfg.ClearOutput {
		base = nil
	}

	audit := store.BuildAudit(runID, profileName, started, finished, r.cfg.DryRun, previous, results)
	if r.cfg.DryRun {
		r.logger.Info("dry run, skipping writes",
			zap.Int("targets", len(audit.Targets)),
			zap.Duration("elapsed", finished.Sub(started)),
		)
		return nil
	}
	if err := store.WriteAudit(r.cfg.Paths.Audit, audit); err != nil {
		return err
	}
	merged := store.MergeRows(base, results)
	if err := store.WriteRows(r.cfg.Paths.Rows, merged); err != nil {
		return err
	}
	r.logger.Info("run persisted",
		zap.Int("rows", len(merged)),
		zap.Duration("elapsed", finished.Sub(started)),
	)
	return nil
}
