// Package score assigns per-page signal deltas to candidates, aggregates
// them across pages, and applies the threshold gate. Scoring is a pure fold
// over signal events so it can be tested apart from the crawl loop.
package score

import (
	"strings"

	"github.com/goodbuys/labelcrawler/internal/crawler"
	"github.com/goodbuys/labelcrawler/internal/extract"
	"github.com/goodbuys/labelcrawler/internal/heuristics"
	"github.com/goodbuys/labelcrawler/internal/known"
	"github.com/goodbuys/labelcrawler/internal/rules"
)

// Signal deltas. Positive signals sit between the base contribution and the
// known-historical boost; negative signals mirror the original rule weights.
const (
	deltaBase             = 1
	deltaDirectoryHint    = 1
	deltaDirectoryHeading = 1
	deltaExternalLink     = 2
	deltaDetailPage       = 2
	deltaLegalSuffix      = 2
	deltaStructuredData   = 3
	deltaKnownEntity      = 4
	deltaNegativeTerm     = -5
	deltaPhoneShape       = -4
	deltaNoisePhrase      = -3
	deltaSymbolUnlisted   = -3
	deltaNoiseTopic       = -2
	deltaProductOrVerb    = -2
	deltaMenuPrefix       = -2
)

// Event is one recorded signal with its audit tag.
type Event struct {
	Reason string
	Delta  float64
}

// PageScore is the fold result for one candidate on one page.
type PageScore struct {
	Score    float64
	Reasons  []string
	Flags    crawler.Flags
	Snippets []string
}

// Scorer evaluates candidates against one page's context.
type Scorer struct {
	rules  *rules.Ruleset
	filter *heuristics.Filter
	known  *known.Set

	noisePhrases []string
	noiseTopics  []string
	negative     map[string]struct{}
	productVerbs map[string]struct{}
	menuPrefixes []string
}

// NewScorer builds a Scorer. The known set may be nil.
func NewScorer(rs *rules.Ruleset, filter *heuristics.Filter, ks *known.Set) *Scorer {
	s := &Scorer{
		rules:        rs,
		filter:       filter,
		known:        ks,
		negative:     make(map[string]struct{}),
		productVerbs: make(map[string]struct{}),
	}
	for _, term := range rs.NegativeTerms {
		s.negative[strings.ToLower(term)] = struct{}{}
	}
	for _, v := range rs.ProductVerbs {
		s.productVerbs[strings.ToLower(v)] = struct{}{}
	}
	for _, p := range rs.NoisePhrases {
		s.noisePhrases = append(s.noisePhrases, strings.ToLower(p))
	}
	for _, t := range rs.NoiseTopics {
		s.noiseTopics = append(s.noiseTopics, strings.ToLower(t))
	}
	for _, p := range rs.NoisePrefixes {
		s.menuPrefixes = append(s.menuPrefixes, strings.ToLower(p))
	}
	return s
}

// DirectoryHints exposes the path fragments that mark member-directory
// pages, used by the frontier to probe likely listing paths on the origin.
func (s *Scorer) DirectoryHints() []string {
	return s.rules.DirectoryHints
}

// PageContext captures the page-level signals shared by every candidate on
// the page.
type PageContext struct {
	URL              string
	Path             string
	DirectoryPath    bool
	DirectoryHeading bool
}

// NewPageContext derives the page-level directory signals from the URL path
// and the page's heading text.
func (s *Scorer) NewPageContext(pageURL, path, headings string) PageContext {
	pc := PageContext{URL: pageURL, Path: strings.ToLower(path)}
	for _, hint := range s.rules.DirectoryHints {
		if strings.Contains(pc.Path, hint) {
			pc.DirectoryPath = true
			break
		}
	}
	for _, word := range s.rules.DirectoryHeadingWords {
		if strings.Contains(headings, word) {
			pc.DirectoryHeading = true
			break
		}
	}
	return pc
}

// ScorePage folds the signal events for every candidate on one page into a
// per-candidate score record.
func (s *Scorer) ScorePage(pc PageContext, cands *extract.Candidates) map[string]PageScore {
	out := make(map[string]PageScore, len(cands.Names))
	for _, raw := range cands.Names {
		name := heuristics.CleanText(raw)
		if name == "" {
			continue
		}
		events := s.events(pc, cands, name)

		ps := PageScore{Snippets: cands.Snippets[raw]}
		for _, ev := range events {
			ps.Score += ev.Delta
			ps.Reasons = append(ps.Reasons, ev.Reason)
			switch ev.Reason {
			case "ext_link":
				ps.Flags.ExternalLink = true
			case "detail_page":
				ps.Flags.DetailPage = true
			case "suffix_hit":
				ps.Flags.StructuralSuffix = true
			case "schema_org":
				ps.Flags.StructuredData = true
			case "known_entity":
				ps.Flags.KnownHistorical = true
			}
		}
		out[name] = ps
	}
	return out
}

// events produces the ordered, immutable signal list for one candidate.
func (s *Scorer) events(pc PageContext, cands *extract.Candidates, name string) []Event {
	lower := strings.ToLower(name)
	events := []Event{{Reason: "base", Delta: deltaBase}}

	if pc.DirectoryPath {
		events = append(events, Event{Reason: "directory_hint", Delta: deltaDirectoryHint})
	}
	if pc.DirectoryHeading {
		events = append(events, Event{Reason: "directory_heading", Delta: deltaDirectoryHeading})
	}
	if cands.ExternalLink[name] {
		events = append(events, Event{Reason: "ext_link", Delta: deltaExternalLink})
	}
	if cands.DetailPage[name] {
		events = append(events, Event{Reason: "detail_page", Delta: deltaDetailPage})
	}
	if s.filter.HasLegalSuffix(name) {
		events = append(events, Event{Reason: "suffix_hit", Delta: deltaLegalSuffix})
	}
	if cands.Structured[name] {
		events = append(events, Event{Reason: "schema_org", Delta: deltaStructuredData})
	}
	if s.known.Contains(name) {
		events = append(events, Event{Reason: "known_entity", Delta: deltaKnownEntity})
	}

	if _, ok := s.negative[lower]; ok {
		events = append(events, Event{Reason: "negative_term", Delta: deltaNegativeTerm})
	}
	if s.hasProductVerbToken(lower) {
		events = append(events, Event{Reason: "product_or_verb", Delta: deltaProductOrVerb})
	}
	for _, phrase := range s.noisePhrases {
		if strings.Contains(lower, phrase) {
			events = append(events, Event{Reason: "noise_phrase", Delta: deltaNoisePhrase})
		}
	}
	for _, topic := range s.noiseTopics {
		if strings.Contains(lower, topic) {
			events = append(events, Event{Reason: "noise_topic", Delta: deltaNoiseTopic})
		}
	}
	if s.filter.PhoneLike(name) {
		events = append(events, Event{Reason: "phone_shape", Delta: deltaPhoneShape})
	}
	if s.hasMenuPrefix(lower) {
		events = append(events, Event{Reason: "menu_prefix", Delta: deltaMenuPrefix})
	}
	if s.filter.SymbolBlocked(name) {
		events = append(events, Event{Reason: "symbol_unlisted", Delta: deltaSymbolUnlisted})
	}
	return events
}

func (s *Scorer) hasProductVerbToken(lower string) bool {
	for _, tok := range strings.Fields(lower) {
		if _, ok := s.productVerbs[tok]; ok {
			return true
		}
	}
	return false
}

func (s *Scorer) hasMenuPrefix(lower string) bool {
	for _, p := range s.menuPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}
