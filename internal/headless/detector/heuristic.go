// Package detector decides when to promote a fetched page to the headless
// renderer.
package detector

import (
	"bytes"

	"github.com/goodbuys/labelcrawler/internal/crawler"
)

// Heuristic promotes pages that look like JavaScript application shells:
// tiny HTML bodies, framework mount points, or explicit noscript warnings.
type Heuristic struct {
	MinHTMLBytes int
}

// NewHeuristic creates a new detector. A zero threshold falls back to a
// conservative default.
func NewHeuristic(minHTMLBytes int) *Heuristic {
	if minHTMLBytes == 0 {
		minHTMLBytes = 2048
	}
	return &Heuristic{MinHTMLBytes: minHTMLBytes}
}

var shellMarkers = [][]byte{
	[]byte("__next"),
	[]byte(`id="root"`),
	[]byte(`id="app"`),
	[]byte("data-reactroot"),
	[]byte("ng-version"),
	[]byte("enable javascript"),
	[]byte("requires javascript"),
}

// NeedsJS reports whether the plain-fetch response should be refetched with
// a headless browser.
func (h *Heuristic) NeedsJS(resp crawler.FetchResponse) bool {
	if resp.StatusCode != 200 {
		return false
	}
	if len(resp.Body) == 0 {
		return true
	}
	lower := bytes.ToLower(resp.Body)
	if len(resp.Body) < h.MinHTMLBytes {
		for _, marker := range shellMarkers {
			if bytes.Contains(lower, marker) {
				return true
			}
		}
	}
	return false
}
