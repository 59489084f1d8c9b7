package heuristics

import (
	"net/url"
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeText collapses runs of whitespace and trims the ends.
func NormalizeText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// CleanText normalizes scraped text: non-breaking spaces become regular
// spaces, newlines and whitespace runs collapse to single spaces.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return NormalizeText(s)
}

// SameHost reports whether two URLs share a host. Unparseable URLs never
// match anything.
func SameHost(a, b string) bool {
	ua, err := url.Parse(a)
	if err != nil {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil {
		return false
	}
	return ua.Host != "" && ua.Host == ub.Host
}
