package known

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goodbuys/labelcrawler/internal/heuristics"
	"github.com/goodbuys/labelcrawler/internal/rules"
)

func TestBootstrapFiltersImplausibleNames(t *testing.T) {
	t.Parallel()

	filter := heuristics.NewFilter(rules.Default())
	s := Bootstrap(
		[]string{"Patagonia, Inc.", "learn more", ""},
		[]string{"Dr. Bronner's"},
		filter,
	)

	require.True(t, s.Contains("Patagonia, Inc."))
	require.True(t, s.Contains("patagonia, inc."))
	require.True(t, s.Contains("Dr. Bronner's"))
	require.False(t, s.Contains("learn more"))
	require.Equal(t, 2, s.Len())
}

func TestFoundInText(t *testing.T) {
	t.Parallel()

	filter := heuristics.NewFilter(rules.Default())
	s := Bootstrap([]string{"Patagonia, Inc.", "Alter Eco"}, nil, filter)

	body := "Our partners include Patagonia, Inc. and several local farms."
	found := s.FoundInText(body)
	require.Equal(t, []string{"Patagonia, Inc."}, found)

	require.Empty(t, s.FoundInText("no partners here"))
	require.Empty(t, s.FoundInText(""))
}

func TestNilSetIsSafe(t *testing.T) {
	t.Parallel()

	var s *Set
	require.False(t, s.Contains("Anything"))
	require.Zero(t, s.Len())
	require.Empty(t, s.FoundInText("body"))
}
