package detector

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goodbuys/labelcrawler/internal/crawler"
)

func resp(status int, body string) crawler.FetchResponse {
	return crawler.FetchResponse{StatusCode: status, Body: []byte(body)}
}

func TestNeedsJSEmptyBody(t *testing.T) {
	t.Parallel()

	h := NewHeuristic(0)
	require.True(t, h.NeedsJS(resp(200, "")))
}

func TestNeedsJSSmallShellWithMountPoint(t *testing.T) {
	t.Parallel()

	h := NewHeuristic(0)
	require.True(t, h.NeedsJS(resp(200, `<html><body><div id="root"></div></body></html>`)))
	require.True(t, h.NeedsJS(resp(200, `<html><body><div id="__next"></div></body></html>`)))
	require.True(t, h.NeedsJS(resp(200, `<html><body><noscript>Please enable JavaScript</noscript></body></html>`)))
}

func TestNeedsJSIgnoresSmallPlainPages(t *testing.T) {
	t.Parallel()

	h := NewHeuristic(0)
	require.False(t, h.NeedsJS(resp(200, `<html><body><h1>Members</h1><ul><li>Acme Corp</li></ul></body></html>`)))
}

func TestNeedsJSIgnoresLargeDocuments(t *testing.T) {
	t.Parallel()

	h := NewHeuristic(64)
	big := `<html><body><div id="root"></div>` +
		`<p>plenty of server-rendered content that pushes this over the size threshold</p></body></html>`
	require.False(t, h.NeedsJS(resp(200, big)))
}

func TestNeedsJSSkipsNon200(t *testing.T) {
	t.Parallel()

	h := NewHeuristic(0)
	require.False(t, h.NeedsJS(resp(404, "")))
	require.False(t, h.NeedsJS(resp(503, `<div id="root"></div>`)))
}
