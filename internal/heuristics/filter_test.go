package heuristics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goodbuys/labelcrawler/internal/crawler"
	"github.com/goodbuys/labelcrawler/internal/rules"
)

func TestLooksLikeEntity(t *testing.T) {
	t.Parallel()

	f := NewFilter(rules.Default())

	cases := []struct {
		name string
		in   string
		want bool
	}{
		{"legal suffix", "Patagonia, Inc.", true},
		{"title case", "Alter Eco Foods", true},
		{"all caps acronym", "REI", true},
		{"allowed symbol lead", "& Other Stories", true},
		{"navigation chrome", "learn more", false},
		{"metric with digits", "7 billion tonnes of CO2", false},
		{"phone number", "+1 (415) 555-0100", false},
		{"email address", "hello@example.com", false},
		{"url", "https://example.com/members", false},
		{"lowercase only", "organic cotton", false},
		{"copyright line", "© 2024 Example Corp", false},
		{"empty", "", false},
		{"too many tokens", "The Quick Brown Fox Jumps Over", false},
		{"symbol lead not allowed", "+ More Options", false},
		{"self reference", "As mentioned above", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, f.LooksLikeEntity(tc.in), "input %q", tc.in)
		})
	}
}

func TestSeedTargetNamesBlocksLabels(t *testing.T) {
	t.Parallel()

	f := NewFilter(rules.Default())
	require.True(t, f.LooksLikeEntity("Fairtrade International"))

	f.SeedTargetNames([]crawler.Target{
		{ID: "fairtrade", Name: "Fairtrade International"},
	})
	require.False(t, f.LooksLikeEntity("Fairtrade International"))
	require.False(t, f.LooksLikeEntity("fairtrade"))
	require.True(t, f.LooksLikeEntity("Divine Chocolate Ltd"))
}

func TestHasLegalSuffix(t *testing.T) {
	t.Parallel()

	f := NewFilter(rules.Default())
	require.True(t, f.HasLegalSuffix("Patagonia, Inc."))
	require.True(t, f.HasLegalSuffix("Siemens AG"))
	require.False(t, f.HasLegalSuffix("Alter Eco"))
}

func TestPlausibleRowName(t *testing.T) {
	t.Parallel()

	f := NewFilter(rules.Default())
	require.True(t, f.PlausibleRowName("Patagonia, Inc."))
	require.True(t, f.PlausibleRowName("x2"))
	require.False(t, f.PlausibleRowName(""))
	require.False(t, f.PlausibleRowName("7"))
	require.False(t, f.PlausibleRowName("12345"))
}

func TestShouldIgnorePath(t *testing.T) {
	t.Parallel()

	f := NewFilter(rules.Default())
	require.True(t, f.ShouldIgnorePath("https://example.com/login"))
	require.True(t, f.ShouldIgnorePath("https://example.com/privacy-policy?x=1"))
	require.True(t, f.ShouldIgnorePath("https://example.com/cart/items"))
	require.False(t, f.ShouldIgnorePath("https://example.com/members"))
	require.False(t, f.ShouldIgnorePath("https://example.com/"))
}

func TestCleanText(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Alter Eco", CleanText("  Alter  Eco \n"))
	require.Equal(t, "", CleanText("  \t\n"))
}

func TestSameHost(t *testing.T) {
	t.Parallel()

	require.True(t, SameHost("https://example.com/a", "https://example.com/b?q=1"))
	require.False(t, SameHost("https://example.com/a", "https://other.com/a"))
	require.False(t, SameHost("https://example.com/a", "::bad::"))
}
