package store

import (
	"sort"
	"strings"
	"time"

	"github.com/goodbuys/labelcrawler/internal/crawler"
)

// Audit sample caps keep the file reviewable by hand.
const (
	maxKeptSample = 25
	maxDiffSample = 50
)

// TargetAudit records what one target crawl did to the persisted rows.
type TargetAudit struct {
	TargetID     string                     `json:"targetId"`
	TargetName   string                     `json:"targetName"`
	Status       crawler.CrawlStatus        `json:"status"`
	PagesCrawled int                        `json:"pagesCrawled"`
	KeptCount    int                        `json:"keptCount"`
	KeptSample   []crawler.KeptEntity       `json:"keptSample,omitempty"`
	DroppedCount int                        `json:"droppedCount"`
	Dropped      []crawler.DroppedCandidate `json:"droppedSample,omitempty"`
	NewlyFound   []string                   `json:"newlyFound,omitempty"`
	Lost         []string                   `json:"lost,omitempty"`
	Error        string                     `json:"error,omitempty"`
}

// Audit is the full record of one run.
type Audit struct {
	RunID      string        `json:"runId"`
	Profile    string        `json:"profile"`
	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt time.Time     `json:"finishedAt"`
	DryRun     bool          `json:"dryRun,omitempty"`
	Targets    []TargetAudit `json:"targets"`
}

// BuildAudit assembles the run audit, diffing each target's kept set against
// the rows persisted before the run so reviewers see churn, not just totals.
func BuildAudit(runID, profile string, started, finished time.Time, dryRun bool, previous []EntityRow, results []crawler.CrawlResult) Audit {
	prevByLabel := previousNamesByLabel(previous)

	audit := Audit{
		RunID:      runID,
		Profile:    profile,
		StartedAt:  started,
		FinishedAt: finished,
		DryRun:     dryRun,
	}
	for _, res := range results {
		ta := TargetAudit{
			TargetID:     res.Target.ID,
			TargetName:   res.Target.Name,
			Status:       res.Status,
			PagesCrawled: res.PagesCrawled,
			KeptCount:    len(res.Kept),
			DroppedCount: res.DroppedCount,
			Error:        res.ErrorText,
		}
		ta.KeptSample = res.Kept
		if len(ta.KeptSample) > maxKeptSample {
			ta.KeptSample = ta.KeptSample[:maxKeptSample]
		}
		ta.Dropped = res.DroppedSample
		if len(ta.Dropped) > maxDiffSample {
			ta.Dropped = ta.Dropped[:maxDiffSample]
		}
		if res.Status != crawler.CrawlFailed {
			ta.NewlyFound, ta.Lost = diffKept(prevByLabel[res.Target.ID], res.Kept)
		}
		audit.Targets = append(audit.Targets, ta)
	}
	return audit
}

func previousNamesByLabel(rows []EntityRow) map[string]map[string]struct{} {
	out := make(map[string]map[string]struct{})
	for _, row := range rows {
		for _, label := range row.Labels {
			set, ok := out[label]
			if !ok {
				set = make(map[string]struct{})
				out[label] = set
			}
			set[strings.ToLower(row.Entity)] = struct{}{}
		}
	}
	return out
}

func diffKept(prev map[string]struct{}, kept []crawler.KeptEntity) (newlyFound, lost []string) {
	current := make(map[string]struct{}, len(kept))
	for _, k := range kept {
		key := strings.ToLower(k.Name)
		current[key] = struct{}{}
		if _, ok := prev[key]; !ok {
			newlyFound = append(newlyFound, k.Name)
		}
	}
	for key := range prev {
		if _, ok := current[key]; !ok {
			lost = append(lost, key)
		}
	}
	sort.Strings(newlyFound)
	sort.Strings(lost)
	if len(newlyFound) > maxDiffSample {
		newlyFound = newlyFound[:maxDiffSample]
	}
	if len(lost) > maxDiffSample {
		lost = lost[:maxDiffSample]
	}
	return newlyFound, lost
}
