// Package system includes tests for the real clock.
package system

import (
	"testing"
	"time"
)

// TestNowIsUTCAndMonotonicEnough verifies the clock returns UTC time.
func TestNowIsUTCAndMonotonicEnough(t *testing.T) {
	t.Parallel()

	c := New()
	a := c.Now()
	if a.Location() != time.UTC {
		t.Fatalf("expected UTC, got %v", a.Location())
	}
	b := c.Now()
	if b.Before(a) {
		t.Fatalf("clock went backwards: %v then %v", a, b)
	}
}
