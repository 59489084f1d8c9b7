// Package crawler defines core types shared across subsystems.
package crawler

import "time"

// Target is one unit of crawl work: a certification label or a
// company/domain. Immutable for the duration of a run.
type Target struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	SourceURL string   `json:"source_url"`
	SeedURLs  []string `json:"seed_urls,omitempty"`
}

// StartURL picks the URL that primes the frontier: the first seed if any,
// otherwise the source URL.
func (t Target) StartURL() string {
	if len(t.SeedURLs) > 0 && t.SeedURLs[0] != "" {
		return t.SeedURLs[0]
	}
	return t.SourceURL
}

// CrawlStatus is the terminal state of one target's crawl.
type CrawlStatus string

// Terminal crawl states recorded per target.
const (
	CrawlCompleted       CrawlStatus = "completed"
	CrawlDeadlineStopped CrawlStatus = "deadline_stopped"
	CrawlCapStopped      CrawlStatus = "cap_stopped"
	CrawlFailed          CrawlStatus = "failed"
)

// Flags marks the corroborating signals accumulated for a candidate.
type Flags struct {
	ExternalLink     bool `json:"externalLink"`
	DetailPage       bool `json:"detailPage"`
	StructuralSuffix bool `json:"structuralSuffix"`
	StructuredData   bool `json:"structuredData"`
	KnownHistorical  bool `json:"knownHistorical"`
}

// Strong reports whether any hard-to-fake signal is set.
func (f Flags) Strong() bool {
	return f.ExternalLink || f.DetailPage || f.StructuralSuffix || f.StructuredData || f.KnownHistorical
}

// Merge ORs another flag set into this one.
func (f *Flags) Merge(other Flags) {
	f.ExternalLink = f.ExternalLink || other.ExternalLink
	f.DetailPage = f.DetailPage || other.DetailPage
	f.StructuralSuffix = f.StructuralSuffix || other.StructuralSuffix
	f.StructuredData = f.StructuredData || other.StructuredData
	f.KnownHistorical = f.KnownHistorical || other.KnownHistorical
}

// Evidence is the audit trail supporting one kept entity for one target.
type Evidence struct {
	Score      float64  `json:"score"`
	PagesSeen  int      `json:"pagesSeen"`
	URLs       []string `json:"urls"`
	Flags      Flags    `json:"flags"`
	Reasons    []string `json:"reasons"`
	Snippets   []string `json:"snippets"`
	TargetID   string   `json:"targetId,omitempty"`
	TargetName string   `json:"targetName,omitempty"`
}

// KeptEntity is one surviving candidate with its evidence.
type KeptEntity struct {
	Name     string   `json:"name"`
	Evidence Evidence `json:"evidence"`
}

// DroppedCandidate records why a candidate did not survive, for the audit.
type DroppedCandidate struct {
	Name          string   `json:"name"`
	URL           string   `json:"url,omitempty"`
	Reason        string   `json:"reason"`
	Score         float64  `json:"score"`
	PagesSeen     int      `json:"pagesSeen,omitempty"`
	SampleReasons []string `json:"sampleReasons,omitempty"`
}

// CrawlResult is everything one target crawl produced.
type CrawlResult struct {
	Target        Target
	Status        CrawlStatus
	PagesCrawled  int
	Kept          []KeptEntity
	DroppedSample []DroppedCandidate
	DroppedCount  int
	ErrorText     string
}

// FetchResponse is the result returned by a Fetcher implementation.
type FetchResponse struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
	Duration    time.Duration
}

// Profile parameterizes one crawl subsystem (label discovery, product
// discovery) over the shared pipeline.
type Profile struct {
	Name          string
	MaxPages      int
	MaxDepth      int
	MaxCandidates int
	PerTargetKeep int
	MinScore      float64
	HardMinScore  float64
	SitemapSeed   bool
}
