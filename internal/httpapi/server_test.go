package httpapi

import (
	"testing"
)

func TestParseArticleIDParam(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{raw: "42", want: 42},
		{raw: "st-n-42", want: 42},
		{raw: "ST-N-7", want: 7},
		{raw: " 13 ", want: 13},
		{raw: "", wantErr: true},
		{raw: "st-n-", wantErr: true},
		{raw: "0", wantErr: true},
		{raw: "-5", wantErr: true},
		{raw: "abc", wantErr: true},
	}

	for _, tc := range cases {
		got, err := parseArticleIDParam(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("parseArticleIDParam(%q) expected error, got %d", tc.raw, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseArticleIDParam(%q) unexpected error: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("parseArticleIDParam(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestParsePositiveIntBounds(t *testing.T) {
	t.Parallel()

	if got, err := parsePositiveInt("", 25, 1, 200); err != nil || got != 25 {
		t.Fatalf("empty value should return default: got %d err %v", got, err)
	}
	if got, err := parsePositiveInt("100", 25, 1, 200); err != nil || got != 100 {
		t.Fatalf("valid value: got %d err %v", got, err)
	}
	if _, err := parsePositiveInt("201", 25, 1, 200); err == nil {
		t.Fatalf("expected error above max")
	}
	if _, err := parsePositiveInt("0", 25, 1, 200); err == nil {
		t.Fatalf("expected error below min")
	}
	if _, err := parsePositiveInt("abc", 25, 1, 200); err == nil {
		t.Fatalf("expected error for non-integer")
	}
}

func TestParseDayParam(t *testing.T) {
	t.Parallel()

	day, err := parseDayParam("2026-03-14")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if day.Format("2006-01-02") != "2026-03-14" {
		t.Fatalf("unexpected day: %v", day)
	}

	if _, err := parseDayParam("14.03.2026"); err == nil {
		t.Fatalf("expected error for non-ISO date")
	}

	if _, err := parseDayParam(""); err != nil {
		t.Fatalf("empty date should default to today: %v", err)
	}
}

func TestDecodeIngestRequestEnvelope(t *testing.T) {
	t.Parallel()

	source, items, err := decodeIngestRequest([]byte(`{"source":"inc42","items":[{"title":"a","url":"https://x.test/a"}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source != "inc42" {
		t.Fatalf("unexpected source: %q", source)
	}
	if len(items) != 1 {
		t.Fatalf("unexpected item count: %d", len(items))
	}
}

func TestDecodeIngestRequestBareArray(t *testing.T) {
	t.Parallel()

	source, items, err := decodeIngestRequest([]byte(`[{"title":"a","url":"https://x.test/a"},{"title":"b","url":"https://x.test/b"}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source != "api" {
		t.Fatalf("bare array should default source to api, got %q", source)
	}
	if len(items) != 2 {
		t.Fatalf("unexpected item count: %d", len(items))
	}
}

func TestDecodeIngestRequestRejectsEmpty(t *testing.T) {
	t.Parallel()

	if _, _, err := decodeIngestRequest([]byte(``)); err == nil {
		t.Fatalf("expected error for empty body")
	}
	if _, _, err := decodeIngestRequest([]byte(`[]`)); err == nil {
		t.Fatalf("expected error for empty array")
	}
	if _, _, err := decodeIngestRequest([]byte(`{"source":"x","items":[]}`)); err == nil {
		t.Fatalf("expected error for empty items")
	}
	if _, _, err := decodeIngestRequest([]byte(`{bad json`)); err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
}

func TestDedupeIDs(t *testing.T) {
	t.Parallel()

	got := dedupeIDs([]int64{3, 1, 3, 0, -2, 1, 7})
	want := []int64{3, 1, 7}
	if len(got) != len(want) {
		t.Fatalf("unexpected length: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected ids: got %v want %v", got, want)
		}
	}
}
