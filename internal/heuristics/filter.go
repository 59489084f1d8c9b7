// Package heuristics implements the plausibility filter: the pure predicate
// deciding whether a scraped string is shaped like an entity name.
package heuristics

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/goodbuys/labelcrawler/internal/crawler"
	"github.com/goodbuys/labelcrawler/internal/rules"
)

var (
	phoneRe       = regexp.MustCompile(`^\+?\s*\d[\d\s().\-+]*$`)
	metricRe      = regexp.MustCompile(`(?i)\b(tonnes?|tons?|kg|kilograms?|g|grams?|tco2e?|tco2|co₂|co2)\b`)
	asMentionedRe = regexp.MustCompile(`(?i)^(as mentioned|as described|as shown|as outlined)\b`)
	copyrightRe   = regexp.MustCompile(`(?i)^(©|copyright)`)
	markupRe      = regexp.MustCompile(`^[{}<>]`)
	hasDigitRe    = regexp.MustCompile(`\d`)
	hasAlphaRe    = regexp.MustCompile(`(?i)[a-z]`)
	urlishRe      = regexp.MustCompile(`(?i)https?://`)
	symbolLeadRe  = regexp.MustCompile(`^[&+\-]`)

	titleLikeRe    = regexp.MustCompile(`^[A-Z][A-Za-z0-9&\-.'() ]*[A-Za-z0-9)]$`)
	allCapsShortRe = regexp.MustCompile(`^[A-Z0-9&\-.]{2,30}$`)
	legalSuffixRe  = regexp.MustCompile(`(?i)\b(Inc|Incorporated|LLC|Ltd|Limited|AG|GmbH|S\.?A\.?|Co\.?|Company|Corp|Corporation|PLC|LLP|NV|BV|OY|Spa|S\.p\.A\.?|AB|AS|SRL|SAS|SA|KK)\b\.?`)
)

const (
	minNameLen = 2
	maxNameLen = 80
	maxTokens  = 5
)

// Filter is the plausibility predicate, configured with injected rule lists.
// All methods are safe for concurrent use once construction (and the
// one-time SeedTargetNames call) is done.
type Filter struct {
	rules *rules.Ruleset

	stopWords    map[string]struct{}
	noiseExact   map[string]struct{}
	genericNouns map[string]struct{}
	badPlurals   map[string]struct{}
	langWords    map[string]struct{}
	symbolAllow  map[string]struct{}
	targetNames  map[string]struct{}

	noisePrefixes []string
	noiseTopics   []string
	ignorePaths   []string
}

// NewFilter builds a Filter from the given ruleset.
func NewFilter(rs *rules.Ruleset) *Filter {
	return &Filter{
		rules:         rs,
		stopWords:     lowerSet(rs.StopWords),
		noiseExact:    lowerSet(rs.NoiseExact),
		genericNouns:  lowerSet(rs.GenericNouns),
		badPlurals:    lowerSet(rs.BadPlurals),
		langWords:     lowerSet(rs.LanguageWords),
		symbolAllow:   exactSet(rs.SymbolAllow),
		targetNames:   map[string]struct{}{},
		noisePrefixes: lowerSlice(rs.NoisePrefixes),
		noiseTopics:   lowerSlice(rs.NoiseTopics),
		ignorePaths:   lowerSlice(rs.IgnorePaths),
	}
}

// SeedTargetNames registers target (label) names and ids as noise, so a
// certification label can never masquerade as a company. Call once at
// startup, before crawling begins.
func (f *Filter) SeedTargetNames(targets []crawler.Target) {
	for _, t := range targets {
		for _, raw := range []string{t.Name, t.ID} {
			norm := NormalizeText(raw)
			if norm == "" {
				continue
			}
			f.targetNames[strings.ToLower(norm)] = struct{}{}
		}
	}
}

// LooksLikeEntity reports whether the string is plausibly an entity name.
// It is deliberately conservative: false negatives are preferred over
// garbage, because the historical-injection path can still recover
// previously confirmed entities.
func (f *Filter) LooksLikeEntity(txt string) bool {
	t := CleanText(txt)
	if t == "" {
		return false
	}
	if len(t) < minNameLen || len(t) > maxNameLen {
		return false
	}

	lower := strings.ToLower(t)

	// Symbol-led names pass only via the explicit allow-list, checked
	// before the exclusion lists so a substring match cannot reject an
	// allow-listed name.
	if symbolLeadRe.MatchString(t) {
		_, ok := f.symbolAllow[t]
		return ok
	}

	if _, ok := f.targetNames[lower]; ok {
		return false
	}
	if _, ok := f.stopWords[lower]; ok {
		return false
	}
	if _, ok := f.noiseExact[lower]; ok {
		return false
	}
	for _, p := range f.noisePrefixes {
		if strings.HasPrefix(lower, p) {
			return false
		}
	}
	for _, topic := range f.noiseTopics {
		if strings.Contains(lower, topic) {
			return false
		}
	}
	if _, ok := f.genericNouns[lower]; ok {
		return false
	}
	if _, ok := f.badPlurals[lower]; ok {
		return false
	}
	if _, ok := f.langWords[lower]; ok {
		return false
	}

	if phoneRe.MatchString(t) {
		return false
	}
	if strings.Contains(t, "@") {
		return false
	}
	if urlishRe.MatchString(t) {
		return false
	}
	if asMentionedRe.MatchString(lower) {
		return false
	}
	if hasDigitRe.MatchString(t) && metricRe.MatchString(lower) {
		return false
	}
	if copyrightRe.MatchString(lower) {
		return false
	}
	if markupRe.MatchString(t) {
		return false
	}
	if !hasAlphaRe.MatchString(t) {
		return false
	}

	if len(strings.Fields(t)) > maxTokens {
		return false
	}
	if t == lower {
		return false
	}

	return legalSuffixRe.MatchString(t) || allCapsShortRe.MatchString(t) || titleLikeRe.MatchString(t)
}

// HasLegalSuffix reports whether the string carries an Inc/Ltd/GmbH-style
// legal suffix.
func (f *Filter) HasLegalSuffix(s string) bool {
	return legalSuffixRe.MatchString(s)
}

// PhoneLike reports whether the string is shaped like a phone number.
func (f *Filter) PhoneLike(s string) bool {
	return phoneRe.MatchString(CleanText(s))
}

// SymbolBlocked reports whether the string starts with a symbol and is not
// on the allow-list.
func (f *Filter) SymbolBlocked(s string) bool {
	if !symbolLeadRe.MatchString(s) {
		return false
	}
	_, ok := f.symbolAllow[s]
	return !ok
}

// PlausibleRowName applies the looser sanity check used for rows already
// persisted in a previous run. Forgiving on purpose: tightening
// LooksLikeEntity must not wipe good data on the next load.
func (f *Filter) PlausibleRowName(name string) bool {
	canon := NormalizeText(name)
	if canon == "" {
		return false
	}
	if len(canon) < 2 || len(canon) > 120 {
		return false
	}
	return hasAlphaRe.MatchString(canon)
}

// ShouldIgnorePath reports whether the URL's path is on the ignore list
// (login, cart, legal and similar pages that never hold entity listings).
func (f *Filter) ShouldIgnorePath(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	p := strings.ToLower(u.Path)
	for _, prefix := range f.ignorePaths {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

func lowerSet(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, s := range items {
		out[strings.ToLower(s)] = struct{}{}
	}
	return out
}

func exactSet(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, s := range items {
		out[s] = struct{}{}
	}
	return out
}

func lowerSlice(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		out = append(out, strings.ToLower(s))
	}
	return out
}
