package score

import (
	"math"
	"sort"

	"github.com/goodbuys/labelcrawler/internal/crawler"
)

const maxSnippetsPerRecord = 5

// Record accumulates evidence for one candidate across all pages of a crawl.
type Record struct {
	TotalScore float64
	Reasons    map[string]struct{}
	URLs       map[string]struct{}
	Pages      map[string]struct{}
	Flags      crawler.Flags
	Snippets   []string
}

// Aggregator merges per-page scores into per-candidate evidence records.
type Aggregator struct {
	records map[string]*Record
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{records: make(map[string]*Record)}
}

// Add folds one page's score for a candidate into its running record.
func (a *Aggregator) Add(name, pageURL string, ps PageScore) {
	rec, ok := a.records[name]
	if !ok {
		rec = &Record{
			Reasons: make(map[string]struct{}),
			URLs:    make(map[string]struct{}),
			Pages:   make(map[string]struct{}),
		}
		a.records[name] = rec
	}
	rec.TotalScore += ps.Score
	for _, r := range ps.Reasons {
		rec.Reasons[r] = struct{}{}
	}
	rec.URLs[pageURL] = struct{}{}
	rec.Pages[pageURL] = struct{}{}
	rec.Flags.Merge(ps.Flags)
	for _, sn := range ps.Snippets {
		if len(rec.Snippets) >= maxSnippetsPerRecord {
			break
		}
		rec.Snippets = append(rec.Snippets, sn)
	}
}

// Size returns the number of distinct candidates tracked so far.
func (a *Aggregator) Size() int {
	return len(a.records)
}

// Record returns the running record for a candidate, or nil.
func (a *Aggregator) Record(name string) *Record {
	return a.records[name]
}

// Names returns the tracked candidate names in sorted order.
func (a *Aggregator) Names() []string {
	names := make([]string, 0, len(a.records))
	for name := range a.records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FinalScore computes a record's crawl-level score: the raw total boosted by
// page diversity, then dampened when no strong structural signal was seen.
func FinalScore(rec *Record) float64 {
	score := rec.TotalScore * math.Log2(1+float64(len(rec.Pages)))
	if !rec.Flags.Strong() {
		score *= 0.4
	}
	return score
}
