// Package extract turns raw HTML into links, structured-data entities, and
// plausible entity-name candidates.
package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/goodbuys/labelcrawler/internal/heuristics"
)

// Document is one parsed page plus its resolved URL.
type Document struct {
	URL *url.URL
	doc *goquery.Document
}

// Parse builds a Document from a fetched body. Malformed HTML is tolerated
// as far as the parser allows; a hard parse failure is reported so the
// caller can skip the page.
func Parse(rawURL string, body []byte) (*Document, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{URL: u, doc: doc}, nil
}

// BodyText returns the page's cleaned body text.
func (d *Document) BodyText() string {
	return heuristics.CleanText(d.doc.Find("body").Text())
}

// HeadingsText returns the lowercased concatenation of all heading text,
// used for the directory-heading scoring signal.
func (d *Document) HeadingsText() string {
	var sb strings.Builder
	d.doc.Find("h1,h2,h3,h4,h5,h6").Each(func(_ int, s *goquery.Selection) {
		sb.WriteString(heuristics.CleanText(s.Text()))
		sb.WriteString(" ")
	})
	return strings.ToLower(sb.String())
}

// resolve joins a possibly relative href against the document URL.
func (d *Document) resolve(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}
	if strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	return d.URL.ResolveReference(ref).String(), true
}
