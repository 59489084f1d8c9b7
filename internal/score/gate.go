package score

import (
	"sort"
	"strings"

	"github.com/goodbuys/labelcrawler/internal/crawler"
)

// Gate applies the final keep decision to aggregated records. Candidates
// backed by a known-historical or strong structural signal pass at the
// configured minimum; everything else must clear the hard floor.
type Gate struct {
	MinScore      float64
	HardMinScore  float64
	PerTargetKeep int
}

// Apply splits the aggregator's records into kept entities and a dropped
// sample. Kept entities are sorted by final score descending, ties broken by
// case-insensitive name, and truncated to the per-target cap.
func (g Gate) Apply(agg *Aggregator, target crawler.Target) ([]crawler.KeptEntity, []crawler.DroppedCandidate) {
	var kept []crawler.KeptEntity
	var dropped []crawler.DroppedCandidate

	for _, name := range agg.Names() {
		rec := agg.Record(name)
		final := FinalScore(rec)
		if g.keeps(rec, final) {
			kept = append(kept, crawler.KeptEntity{
				Name:     name,
				Evidence: g.evidence(rec, final, target),
			})
			continue
		}
		dropped = append(dropped, crawler.DroppedCandidate{
			Name:          name,
			Reason:        "below_threshold",
			Score:         final,
			PagesSeen:     len(rec.Pages),
			SampleReasons: sortedSet(rec.Reasons),
		})
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Evidence.Score != kept[j].Evidence.Score {
			return kept[i].Evidence.Score > kept[j].Evidence.Score
		}
		return strings.ToLower(kept[i].Name) < strings.ToLower(kept[j].Name)
	})
	if g.PerTargetKeep > 0 && len(kept) > g.PerTargetKeep {
		for _, ent := range kept[g.PerTargetKeep:] {
			dropped = append(dropped, crawler.DroppedCandidate{
				Name:      ent.Name,
				Reason:    "over_keep_cap",
				Score:     ent.Evidence.Score,
				PagesSeen: ent.Evidence.PagesSeen,
			})
		}
		kept = kept[:g.PerTargetKeep]
	}
	return kept, dropped
}

func (g Gate) keeps(rec *Record, final float64) bool {
	if rec.Flags.KnownHistorical && final >= g.MinScore {
		return true
	}
	if rec.Flags.Strong() && final >= g.MinScore {
		return true
	}
	return final >= g.HardMinScore
}

func (g Gate) evidence(rec *Record, final float64, target crawler.Target) crawler.Evidence {
	return crawler.Evidence{
		Score:      final,
		PagesSeen:  len(rec.Pages),
		URLs:       sortedSet(rec.URLs),
		Flags:      rec.Flags,
		Reasons:    sortedSet(rec.Reasons),
		Snippets:   rec.Snippets,
		TargetID:   target.ID,
		TargetName: target.Name,
	}
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
