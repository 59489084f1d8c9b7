// Package known maintains the known-entity set bootstrapped from previous
// runs. Read-only after Bootstrap; safe for concurrent readers.
package known

import (
	"strings"

	"github.com/goodbuys/labelcrawler/internal/heuristics"
)

// Set maps lowercased entity names to their canonical casing.
type Set struct {
	canon map[string]string
}

// Bootstrap builds the known-entity set from previously persisted names and
// the manual allow-list. Every name is passed back through the plausibility
// filter so stale or now-invalid entries are silently dropped rather than
// propagated into the new run.
func Bootstrap(previous []string, manual []string, filter *heuristics.Filter) *Set {
	s := &Set{canon: make(map[string]string)}
	for _, name := range previous {
		s.add(name, filter)
	}
	for _, name := range manual {
		s.add(name, filter)
	}
	return s
}

func (s *Set) add(name string, filter *heuristics.Filter) {
	canon := heuristics.NormalizeText(name)
	if canon == "" {
		return
	}
	if !filter.LooksLikeEntity(canon) {
		return
	}
	lower := strings.ToLower(canon)
	if _, ok := s.canon[lower]; !ok {
		s.canon[lower] = canon
	}
}

// Contains reports whether the name is a known historical entity.
func (s *Set) Contains(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.canon[strings.ToLower(heuristics.NormalizeText(name))]
	return ok
}

// Len returns the number of known entities.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.canon)
}

// FoundInText returns the canonical names of known entities that appear
// verbatim in the page's body text. Very short names are skipped to avoid
// accidental substring hits.
func (s *Set) FoundInText(bodyText string) []string {
	if s == nil || len(s.canon) == 0 {
		return nil
	}
	body := strings.ToLower(heuristics.NormalizeText(bodyText))
	if body == "" {
		return nil
	}
	var out []string
	for lower, canon := range s.canon {
		if len(lower) < 3 {
			continue
		}
		if strings.Contains(body, lower) {
			out = append(out, canon)
		}
	}
	return out
}
