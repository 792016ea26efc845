package fingerprint

import (
	"regexp"
	"testing"
)

var hexRe = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestComputeDeterministic(t *testing.T) {
	t.Parallel()

	a := Compute("Acme raises $10M", "Series A round", "Acme announced a funding round today.")
	b := Compute("Acme raises $10M", "Series A round", "Acme announced a funding round today.")
	if a != b {
		t.Fatalf("same input produced different fingerprints: %s vs %s", a, b)
	}
	if !hexRe.MatchString(a) {
		t.Fatalf("fingerprint is not 64 hex chars: %q", a)
	}
}

func TestComputeFormattingInvariant(t *testing.T) {
	t.Parallel()

	a := Compute("Acme Raises $10M!", "Series A round.", "Acme announced a funding round today.")
	b := Compute("  acme   raises 10m ", "series a round", "acme announced a funding round today")
	if a != b {
		t.Fatalf("case/punctuation/whitespace variants should collide: %s vs %s", a, b)
	}
}

func TestComputeTitleSensitive(t *testing.T) {
	t.Parallel()

	a := Compute("Acme raises $10M", "desc", "body")
	b := Compute("Acme raises $20M", "desc", "body")
	if a == b {
		t.Fatal("different titles must not collide")
	}
}

func TestComputeBodyPrefixBounded(t *testing.T) {
	t.Parallel()

	long := make([]byte, 0, 4096)
	for i := 0; i < 4096; i++ {
		long = append(long, 'a')
	}
	base := string(long)

	// Divergence beyond the bounded prefixes must not change the identity.
	a := Compute("title", "desc", base+" tail one")
	b := Compute("title", "desc", base+" tail two")
	if a != b {
		t.Fatal("body divergence past the prefix should not change the fingerprint")
	}
}

func TestComputeEmptyFields(t *testing.T) {
	t.Parallel()

	a := Compute("", "", "")
	if !hexRe.MatchString(a) {
		t.Fatalf("empty input should still produce a valid fingerprint, got %q", a)
	}
	if a == Compute("title", "", "") {
		t.Fatal("empty and non-empty titles must differ")
	}
}
