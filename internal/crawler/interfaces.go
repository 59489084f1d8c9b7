package crawler

import (
	"context"
	"time"
)

// Fetcher fetches a URL and returns the body plus metadata. Implementations
// retry internally; a returned error means the URL should be skipped, never
// that the crawl should abort.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (FetchResponse, error)
}

// Hasher computes digests for duplicate-content suppression.
type Hasher interface {
	Hash(data []byte) (string, error)
}

// Clock returns the current time (useful for testing deadlines).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces run identifiers.
type IDGenerator interface {
	NewID() (string, error)
}
