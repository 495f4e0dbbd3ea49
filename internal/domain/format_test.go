package domain

import (
	"strings"
	"testing"
)

func TestShortAddress(t *testing.T) {
	t.Parallel()

	long := "GCEXAMPLE" + strings.Repeat("5HT4", 10) + "ADDRESS"

	t.Run("long address shortened", func(t *testing.T) {
		got := ShortAddress(long)
		want := long[:8] + "..." + long[len(long)-8:]
		if got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
		if len(got) != 19 {
			t.Fatalf("expected 19 characters, got %d", len(got))
		}
	})

	t.Run("shortening is idempotent", func(t *testing.T) {
		once := ShortAddress(long)
		twice := ShortAddress(once)
		if once != twice {
			t.Fatalf("expected %q, got %q", once, twice)
		}
	})

	t.Run("short address unchanged", func(t *testing.T) {
		for _, addr := range []string{"", "abc", "exactly15chars!"} {
			if got := ShortAddress(addr); got != addr {
				t.Errorf("expected %q unchanged, got %q", addr, got)
			}
		}
	})

	t.Run("sixteen characters shortened", func(t *testing.T) {
		addr := "ABCDEFGHIJKLMNOP"
		got := ShortAddress(addr)
		if got != "ABCDEFGH...IJKLMNOP" {
			t.Fatalf("expected ABCDEFGH...IJKLMNOP, got %q", got)
		}
	})
}
