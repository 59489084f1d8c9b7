// Package rules holds the injectable rule lists that drive the plausibility
// filter, candidate extractor, and scorer. The lists are configuration data,
// not behavior: components receive a Ruleset at construction time so tests
// can substitute synthetic rules.
package rules

// SelectorRule is one high-precision extraction rule for a configured site.
// If Attr is set the attribute value is read instead of the element text.
// SplitOn optionally splits the raw value into multiple candidates.
type SelectorRule struct {
	Selector string `json:"selector"`
	Attr     string `json:"attr,omitempty"`
	SplitOn  string `json:"split_on,omitempty"`
}

// SiteConfig groups the precision rules registered for one hostname.
type SiteConfig struct {
	Rules []SelectorRule `json:"rules"`
}

// PathSectionRule removes selectors only on pages under a path prefix.
type PathSectionRule struct {
	PathPrefix string   `json:"path_prefix"`
	Selectors  []string `json:"selectors"`
}

// SectionFilters lists DOM regions stripped before extraction.
type SectionFilters struct {
	GlobalRemove []string          `json:"global_remove"`
	PathSpecific []PathSectionRule `json:"path_specific"`
}

// Ruleset is the full bundle of rule data one crawl profile runs with.
type Ruleset struct {
	// Exclusion lists consumed by the plausibility filter.
	StopWords     []string
	NoiseExact    []string
	NoisePhrases  []string
	NoisePrefixes []string
	NoiseTopics   []string
	GenericNouns  []string
	BadPlurals    []string
	NegativeTerms []string
	LanguageWords []string
	ProductVerbs  []string
	SymbolAllow   []string

	// Crawl-shape rules.
	IgnorePaths           []string
	DirectoryHints        []string
	DirectoryHeadingWords []string
	DetailPathHints       []string

	SectionFilters SectionFilters
	SiteConfigs    map[string]SiteConfig

	// Manual allow-list merged into the known-entity bootstrap.
	ManualKnownEntities []string
}
