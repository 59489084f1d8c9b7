package extract

import (
	"encoding/json"
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"github.com/goodbuys/labelcrawler/internal/heuristics"
)

// maxJSONLDDepth bounds the recursive walk so adversarially nested
// structured data cannot blow the stack.
const maxJSONLDDepth = 32

var orgTypeRe = regexp.MustCompile(`(?i)Organization|Corporation|Brand|LocalBusiness`)

// structuredNames parses every embedded JSON-LD block and collects
// organization-like names and ItemList member names. Malformed blocks are
// ignored at block scope.
func (e *Extractor) structuredNames(d *Document) []string {
	seen := make(map[string]struct{})
	var out []string
	collect := func(raw string) {
		t := heuristics.CleanText(raw)
		if t == "" {
			return
		}
		if _, dup := seen[t]; dup {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	d.doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var parsed any
		if err := json.Unmarshal([]byte(s.Text()), &parsed); err != nil {
			return
		}
		walkJSONLD(parsed, 0, collect)
	})
	return out
}

// walkJSONLD recurses through a decoded JSON-LD value, visiting @graph
// children, ItemList elements, and organization-typed nodes.
func walkJSONLD(node any, depth int, collect func(string)) {
	if depth > maxJSONLDDepth {
		return
	}
	switch v := node.(type) {
	case []any:
		for _, child := range v {
			walkJSONLD(child, depth+1, collect)
		}
	case map[string]any:
		if graph, ok := v["@graph"].([]any); ok {
			for _, child := range graph {
				walkJSONLD(child, depth+1, collect)
			}
		}
		if items, ok := v["itemListElement"].([]any); ok {
			for _, item := range items {
				if m, ok := item.(map[string]any); ok {
					if name := stringField(m, "name"); name != "" {
						collect(name)
					}
					walkJSONLD(m, depth+1, collect)
				}
			}
		}
		if typeMatchesOrg(v["@type"]) {
			for _, key := range []string{"name", "legalName", "alternateName"} {
				if name := stringField(v, key); name != "" {
					collect(name)
					break
				}
			}
		}
		for _, key := range []string{"mainEntity", "about", "member", "brand", "parentOrganization"} {
			if child, ok := v[key]; ok {
				walkJSONLD(child, depth+1, collect)
			}
		}
	}
}

func typeMatchesOrg(t any) bool {
	switch v := t.(type) {
	case string:
		return orgTypeRe.MatchString(v)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && orgTypeRe.MatchString(s) {
				return true
			}
		}
	}
	return false
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
