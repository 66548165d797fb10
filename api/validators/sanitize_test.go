package validators

import "testing"

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hello  ", 0); got != "hello" {
		t.Fatalf("expected trim without cap, got %q", got)
	}
	if got := SanitizeString("hello", 3); got != "hel" {
		t.Fatalf("expected cap at 3 runes, got %q", got)
	}
}

func TestSanitizeStringKeepsMultibyteRunesWhole(t *testing.T) {
	if got := SanitizeString("héllo wörld", 6); got != "héllo " {
		t.Fatalf("expected six whole runes, got %q", got)
	}
}
