package redis

import (
	"testing"
)

func TestULIDGenerator(t *testing.T) {
	t.Parallel()

	gen := NewULIDGenerator()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := gen.Generate()
		if len(id) != 26 {
			t.Fatalf("expected 26-character ULID, got %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}
