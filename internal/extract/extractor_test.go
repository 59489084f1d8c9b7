package extract

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goodbuys/labelcrawler/internal/heuristics"
	"github.com/goodbuys/labelcrawler/internal/rules"
)

func newTestExtractor() *Extractor {
	rs := rules.Default()
	return New(rs, heuristics.NewFilter(rs))
}

func mustParse(t *testing.T, rawURL, html string) *Document {
	t.Helper()
	doc, err := Parse(rawURL, []byte(html))
	require.NoError(t, err)
	return doc
}

func TestGenericExtractionWithLinkContext(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<h2>Our Members</h2>
		<ul>
			<li><a href="https://acme.example.com">Acme Corp</a></li>
			<li><a href="/member/beta-goods">Beta Goods Ltd</a></li>
			<li><a href="/about">learn more</a></li>
		</ul>
	</body></html>`
	doc := mustParse(t, "https://label.org/members", html)

	e := newTestExtractor()
	c := e.Candidates(doc)

	require.Contains(t, c.Names, "Acme Corp")
	require.Contains(t, c.Names, "Beta Goods Ltd")
	require.NotContains(t, c.Names, "learn more")

	require.True(t, c.ExternalLink["Acme Corp"])
	require.False(t, c.ExternalLink["Beta Goods Ltd"])
	require.True(t, c.DetailPage["Beta Goods Ltd"])
}

func TestStructuredDataExtraction(t *testing.T) {
	t.Parallel()

	html := `<html><head>
		<script type="application/ld+json">
		{"@context":"https://schema.org","@type":"Organization","name":"Alter Eco Foods"}
		</script>
		<script type="application/ld+json">
		{"@graph":[{"@type":"Brand","name":"Beta Goods Ltd"}]}
		</script>
		<script type="application/ld+json">not json at all</script>
	</head><body></body></html>`
	doc := mustParse(t, "https://label.org/", html)

	e := newTestExtractor()
	c := e.Candidates(doc)

	require.True(t, c.Structured["Alter Eco Foods"])
	require.True(t, c.Structured["Beta Goods Ltd"])
}

func TestPerSiteRulesSuppressGenericScan(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<div class="brand-card"><h3>Acme Corp</h3><img alt="Beta Goods Ltd"></div>
		<a href="/x">Unrelated Heading Co</a>
	</body></html>`
	doc := mustParse(t, "https://www.fairtradecertified.org/brands", html)

	e := newTestExtractor()
	c := e.Candidates(doc)

	require.Contains(t, c.Names, "Acme Corp")
	require.Contains(t, c.Names, "Beta Goods Ltd")
	require.NotContains(t, c.Names, "Unrelated Heading Co")
}

func TestStripNoiseRemovesChromeAndLegalBodies(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<nav><a href="/x">Nav Brand Co</a></nav>
		<main><a href="/member/x">Main Brand Co</a></main>
	</body></html>`
	doc := mustParse(t, "https://label.org/members", html)

	e := newTestExtractor()
	e.StripNoise(doc)
	c := e.Candidates(doc)

	require.Contains(t, c.Names, "Main Brand Co")
	require.NotContains(t, c.Names, "Nav Brand Co")
}

func TestLinksResolveAndDedupe(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<a href="/members">A</a>
		<a href="/members">A again</a>
		<a href="#section">skip</a>
		<a href="javascript:void(0)">skip</a>
		<a href="https://other.org/page">B</a>
	</body></html>`
	doc := mustParse(t, "https://label.org/", html)

	e := newTestExtractor()
	links := e.Links(doc)

	require.Equal(t, []string{"https://label.org/members", "https://other.org/page"}, links)
}

func TestHeadingsText(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, "https://label.org/", `<html><body><h1>Our Members</h1><h3>Partners</h3></body></html>`)
	require.Contains(t, doc.HeadingsText(), "our members")
	require.Contains(t, doc.HeadingsText(), "partners")
}

func TestSitemapURLs(t *testing.T) {
	t.Parallel()

	urlset := `<?xml version="1.0" encoding="UTF-8"?>
	<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
		<url><loc>https://shop.example.com/products/a</loc></url>
		<url><loc> https://shop.example.com/products/b </loc></url>
	</urlset>`
	locs, err := SitemapURLs([]byte(urlset))
	require.NoError(t, err)
	require.Equal(t, []string{
		"https://shop.example.com/products/a",
		"https://shop.example.com/products/b",
	}, locs)

	index := `<?xml version="1.0"?>
	<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
		<sitemap><loc>https://shop.example.com/sitemap-1.xml</loc></sitemap>
	</sitemapindex>`
	locs, err = SitemapURLs([]byte(index))
	require.NoError(t, err)
	require.Equal(t, []string{"https://shop.example.com/sitemap-1.xml"}, locs)
}

func TestIsSitemapURL(t *testing.T) {
	t.Parallel()

	require.True(t, IsSitemapURL("https://x.com/sitemap.xml"))
	require.True(t, IsSitemapURL("https://x.com/sitemap-products.xml"))
	require.False(t, IsSitemapURL("https://x.com/products"))
}
