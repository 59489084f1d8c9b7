package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/goodbuys/labelcrawler/internal/heuristics"
	"github.com/goodbuys/labelcrawler/internal/rules"
)

const (
	maxSnippetsPerName = 2
	snippetMaxLen      = 160
)

// Candidates is the deduplicated raw-candidate set extracted from one page,
// with the per-candidate link context needed by the scorer.
type Candidates struct {
	Names        []string
	Structured   map[string]bool
	ExternalLink map[string]bool
	DetailPage   map[string]bool
	Snippets     map[string][]string
}

func newCandidates() *Candidates {
	return &Candidates{
		Structured:   make(map[string]bool),
		ExternalLink: make(map[string]bool),
		DetailPage:   make(map[string]bool),
		Snippets:     make(map[string][]string),
	}
}

func (c *Candidates) add(name string) {
	for _, existing := range c.Names {
		if existing == name {
			return
		}
	}
	c.Names = append(c.Names, name)
}

// InjectKnown adds canonical known-entity names spotted in the body text so
// they participate in scoring even when no selector surfaced them.
func (c *Candidates) InjectKnown(names []string) {
	for _, name := range names {
		c.add(name)
	}
}

func (c *Candidates) addSnippet(name, snippet string) {
	if len(c.Snippets[name]) >= maxSnippetsPerName {
		return
	}
	if len(snippet) > snippetMaxLen {
		snippet = snippet[:snippetMaxLen]
	}
	c.Snippets[name] = append(c.Snippets[name], snippet)
}

// Extractor pulls entity-name candidates out of parsed documents using
// structured data, optional per-site precision selectors, and a generic
// fallback over anchors, headings, list items, and table cells.
type Extractor struct {
	rules  *rules.Ruleset
	filter *heuristics.Filter
}

// New builds an Extractor over the given rule data and plausibility filter.
func New(rs *rules.Ruleset, filter *heuristics.Filter) *Extractor {
	return &Extractor{rules: rs, filter: filter}
}

// StripNoise removes known-noise DOM sections (nav, footers, cookie
// banners, …) plus any path-specific removals before extraction runs.
func (e *Extractor) StripNoise(d *Document) {
	for _, sel := range e.rules.SectionFilters.GlobalRemove {
		d.doc.Find(sel).Remove()
	}
	p := strings.ToLower(d.URL.Path)
	for _, rule := range e.rules.SectionFilters.PathSpecific {
		if rule.PathPrefix == "" || !strings.HasPrefix(p, rule.PathPrefix) {
			continue
		}
		for _, sel := range rule.Selectors {
			if sel != "" {
				d.doc.Find(sel).Remove()
			}
		}
	}
}

// Links returns all resolvable outbound link URLs on the page.
func (e *Extractor) Links(d *Document) []string {
	seen := make(map[string]struct{})
	var out []string
	d.doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		resolved, ok := d.resolve(href)
		if !ok {
			return
		}
		if _, dup := seen[resolved]; dup {
			return
		}
		seen[resolved] = struct{}{}
		out = append(out, resolved)
	})
	return out
}

// Candidates runs the full extraction order: structured-data entities,
// per-site precision selectors (which suppress the generic scan when they
// produce anything), then the generic fallback. Every raw string passes
// through the plausibility filter before being retained.
func (e *Extractor) Candidates(d *Document) *Candidates {
	c := newCandidates()

	for _, name := range e.structuredNames(d) {
		if !e.filter.LooksLikeEntity(name) {
			continue
		}
		c.add(name)
		c.Structured[name] = true
	}

	if !e.perSite(d, c) {
		e.generic(d, c)
	}
	return c
}

// perSite applies registered precision selectors for the page's host.
// Returns true when a config exists and yielded at least one candidate, in
// which case generic extraction is skipped for this page.
func (e *Extractor) perSite(d *Document, c *Candidates) bool {
	cfg, ok := e.rules.SiteConfigs[d.URL.Host]
	if !ok {
		return false
	}
	found := false
	for _, rule := range cfg.Rules {
		if rule.Selector == "" {
			continue
		}
		d.doc.Find(rule.Selector).Each(func(_ int, s *goquery.Selection) {
			raw := ""
			if rule.Attr != "" {
				raw, _ = s.Attr(rule.Attr)
			} else {
				raw = s.Text()
			}
			if raw == "" {
				return
			}
			parts := []string{raw}
			if rule.SplitOn != "" {
				parts = strings.Split(raw, rule.SplitOn)
			}
			for _, part := range parts {
				t := heuristics.CleanText(part)
				if t == "" || !e.filter.LooksLikeEntity(t) {
					continue
				}
				c.add(t)
				c.addSnippet(t, t)
				found = true
			}
		})
	}
	return found
}

// generic scans anchors, headings, list items, and table cells. Anchor
// candidates also record link context: whether the anchor points off-host
// (external) or at an internal detail page.
func (e *Extractor) generic(d *Document, c *Candidates) {
	d.doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		t := heuristics.CleanText(s.Text())
		if t == "" || !e.filter.LooksLikeEntity(t) {
			return
		}
		c.add(t)
		c.addSnippet(t, t)
		href, _ := s.Attr("href")
		if resolved, ok := d.resolve(href); ok {
			e.classifyLink(d, c, t, resolved)
		}
	})

	for _, sel := range []string{"h1,h2,h3,h4,h5,h6", "li", "td,th"} {
		d.doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			t := heuristics.CleanText(s.Text())
			if t == "" || !e.filter.LooksLikeEntity(t) {
				return
			}
			c.add(t)
			c.addSnippet(t, t)
		})
	}
}

func (e *Extractor) classifyLink(d *Document, c *Candidates, name, resolved string) {
	u, err := url.Parse(resolved)
	if err != nil {
		return
	}
	if u.Host != "" && u.Host != d.URL.Host {
		c.ExternalLink[name] = true
		return
	}
	p := strings.ToLower(u.Path)
	for _, hint := range e.rules.DetailPathHints {
		if strings.Contains(p, hint) {
			c.DetailPage[name] = true
			return
		}
	}
}
