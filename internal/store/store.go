// Package store owns the persisted artifacts of a run: the merged entity
// rows, the per-run audit file, and the host diagnostics snapshot. All
// writes are atomic so a crash mid-run never truncates prior results.
package store

import (
	"sort"
	"strings"

	"github.com/goodbuys/labelcrawler/internal/crawler"
	"github.com/goodbuys/labelcrawler/internal/heuristics"
)

// Per-row persistence caps. Evidence is an audit aid, not an archive.
const (
	maxEvidencePerLabel = 5
	maxURLsPerEvidence  = 5
	maxSnippetsPersist  = 3
)

// EntityRow is one persisted entity with the labels it was found under and
// the evidence supporting each association.
type EntityRow struct {
	Entity          string                        `json:"entity"`
	Labels          []string                      `json:"labels"`
	EvidenceByLabel map[string][]crawler.Evidence `json:"evidenceByLabel"`
}

// MergeRows upserts crawl results into the previously persisted rows. Rows
// keep every label ever observed, keyed by label id; a label's evidence list
// is prepended with the newest run and capped. The labels slice always
// mirrors the evidence map keys, sorted.
func MergeRows(previous []EntityRow, results []crawler.CrawlResult) []EntityRow {
	byEntity := make(map[string]*EntityRow, len(previous))
	var order []string
	for i := range previous {
		row := previous[i]
		if row.EvidenceByLabel == nil {
			row.EvidenceByLabel = make(map[string][]crawler.Evidence)
		}
		byEntity[strings.ToLower(row.Entity)] = &row
		order = append(order, strings.ToLower(row.Entity))
	}

	for _, res := range results {
		if res.Status == crawler.CrawlFailed {
			continue
		}
		label := res.Target.ID
		for _, kept := range res.Kept {
			key := strings.ToLower(kept.Name)
			row, ok := byEntity[key]
			if !ok {
				row = &EntityRow{
					Entity:          kept.Name,
					EvidenceByLabel: make(map[string][]crawler.Evidence),
				}
				byEntity[key] = row
				order = append(order, key)
			}
			ev := capEvidence(kept.Evidence)
			evs := append([]crawler.Evidence{ev}, row.EvidenceByLabel[label]...)
			if len(evs) > maxEvidencePerLabel {
				evs = evs[:maxEvidencePerLabel]
			}
			row.EvidenceByLabel[label] = evs
		}
	}

	out := make([]EntityRow, 0, len(byEntity))
	for _, key := range order {
		row := byEntity[key]
		row.Labels = labelKeys(row.EvidenceByLabel)
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Entity) < strings.ToLower(out[j].Entity)
	})
	return out
}

// FilterPlausibleRows drops persisted rows whose entity name no longer
// passes the row-level plausibility check, so bad rows from older rule
// versions wash out instead of accumulating.
func FilterPlausibleRows(rows []EntityRow, filter *heuristics.Filter) []EntityRow {
	out := rows[:0]
	for _, row := range rows {
		if filter.PlausibleRowName(row.Entity) {
			out = append(out, row)
		}
	}
	return out
}

// EntityNames returns every persisted entity name, used to bootstrap the
// known-entity set.
func EntityNames(rows []EntityRow) []string {
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Entity)
	}
	return names
}

func capEvidence(ev crawler.Evidence) crawler.Evidence {
	if len(ev.URLs) > maxURLsPerEvidence {
		ev.URLs = ev.URLs[:maxURLsPerEvidence]
	}
	if len(ev.Snippets) > maxSnippetsPersist {
		ev.Snippets = ev.Snippets[:maxSnippetsPersist]
	}
	return ev
}

func labelKeys(m map[string][]crawler.Evidence) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
