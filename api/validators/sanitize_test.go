package validators

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeStringCutsOnCharacterBoundary(t *testing.T) {
	input := "a" + strings.Repeat("ệ", 100)
	got := SanitizeString(input, 255)
	if !utf8.ValidString(got) {
		t.Fatalf("expected valid utf-8, got %q", got)
	}
	if len(got) > 255 {
		t.Fatalf("expected at most 255 bytes, got %d", len(got))
	}
	if !strings.HasPrefix(input, got) {
		t.Fatalf("expected a prefix of the input, got %q", got)
	}
}

func TestSanitizeStringNormalizesWhitespace(t *testing.T) {
	got := SanitizeString("  cà   phê\tsữa \x00đá ", 0)
	if got != "cà phê sữa đá" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestSanitizeStringKeepsShortInput(t *testing.T) {
	if got := SanitizeString("trà", 10); got != "trà" {
		t.Fatalf("unexpected result %q", got)
	}
}
