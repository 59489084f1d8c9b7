package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
)

// SitemapURLs parses a sitemap body and returns the listed page URLs. Both
// plain urlsets and sitemap indexes are handled; for an index the returned
// URLs are the child sitemap locations, which the caller may fetch in turn.
func SitemapURLs(body []byte) ([]string, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse sitemap: %w", err)
	}
	var out []string
	for _, n := range xmlquery.Find(doc, "//*[local-name()='urlset']/*[local-name()='url']/*[local-name()='loc']") {
		if loc := strings.TrimSpace(n.InnerText()); loc != "" {
			out = append(out, loc)
		}
	}
	for _, n := range xmlquery.Find(doc, "//*[local-name()='sitemapindex']/*[local-name()='sitemap']/*[local-name()='loc']") {
		if loc := strings.TrimSpace(n.InnerText()); loc != "" {
			out = append(out, loc)
		}
	}
	return out, nil
}

// IsSitemapURL reports whether a URL looks like a sitemap endpoint.
func IsSitemapURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	return strings.Contains(lower, "sitemap") && (strings.HasSuffix(lower, ".xml") || strings.Contains(lower, "sitemap.xml"))
}
