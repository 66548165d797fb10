package env

import "testing"

func TestGetFallsBackWhenEmpty(t *testing.T) {
	t.Setenv("BAXOQ_TEST_EMPTY", "")
	if got := Get("BAXOQ_TEST_EMPTY", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
}

func TestGetPrefixedSharesNamespace(t *testing.T) {
	t.Setenv("BAXOQ_LOG_FORMAT", "console")
	if got := GetPrefixed("LOG_FORMAT", "json"); got != "console" {
		t.Fatalf("expected console, got %q", got)
	}
}
