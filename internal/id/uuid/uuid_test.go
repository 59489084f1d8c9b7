// Package uuid includes tests for the run ID generator.
package uuid

import "testing"

// TestNewIDProducesUniqueIDs checks basic shape and uniqueness.
func TestNewIDProducesUniqueIDs(t *testing.T) {
	t.Parallel()

	g := NewUUIDGenerator()
	a, err := g.NewID()
	if err != nil {
		t.Fatalf("NewID() error = %v", err)
	}
	b, err := g.NewID()
	if err != nil {
		t.Fatalf("NewID() error = %v", err)
	}
	if a == b {
		t.Fatalf("expected unique ids, got %s twice", a)
	}
	if len(a) != 36 {
		t.Fatalf("expected canonical uuid length 36, got %d (%s)", len(a), a)
	}
}
