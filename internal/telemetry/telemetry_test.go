package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeHost(t *testing.T) {
	t.Parallel()

	require.Equal(t, "shop.example.com", SanitizeHost("https://shop.example.com/path"))
	require.Equal(t, "shop.example.com", SanitizeHost("shop.example.com"))
	require.Equal(t, "shop.example.com", SanitizeHost("SHOP.Example.com:8443"))
	require.Equal(t, "unknown", SanitizeHost(""))
}

func TestStatusLabel(t *testing.T) {
	t.Parallel()

	require.Equal(t, "429", StatusLabel(429))
	require.Equal(t, "0", StatusLabel(0))
}

func TestHandlerServesMetrics(t *testing.T) {
	t.Parallel()

	ObservePage("shop.example.com", "ok")
	ObserveTarget("completed")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "labelcrawler_pages_total")
}
