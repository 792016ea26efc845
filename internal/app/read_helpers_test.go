package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseArticleID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{raw: "42", want: 42},
		{raw: "st-n-42", want: 42},
		{raw: "ST-N-9", want: 9},
		{raw: " st-n-3 ", want: 3},
		{raw: "", wantErr: true},
		{raw: "st-n-", wantErr: true},
		{raw: "0", wantErr: true},
		{raw: "-1", wantErr: true},
		{raw: "banana", wantErr: true},
	}

	for _, tc := range cases {
		got, err := parseArticleID(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("parseArticleID(%q) expected error, got %d", tc.raw, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseArticleID(%q) unexpected error: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("parseArticleID(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestParseArticleIDList(t *testing.T) {
	t.Parallel()

	ids, err := parseArticleIDList("st-n-3, 1,3,,7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int64{3, 1, 7}
	if len(ids) != len(want) {
		t.Fatalf("unexpected ids: got %v want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("unexpected ids: got %v want %v", ids, want)
		}
	}

	if _, err := parseArticleIDList(""); err == nil {
		t.Fatalf("expected error for empty list")
	}
	if _, err := parseArticleIDList("1,x"); err == nil {
		t.Fatalf("expected error for invalid entry")
	}
}

func TestParseOutputFormat(t *testing.T) {
	t.Parallel()

	if got, err := parseOutputFormat("", outputFormatTable); err != nil || got != outputFormatTable {
		t.Fatalf("empty should fall back to default: got %q err %v", got, err)
	}
	if got, err := parseOutputFormat("JSON", outputFormatTable); err != nil || got != outputFormatJSON {
		t.Fatalf("expected json, got %q err %v", got, err)
	}
	if _, err := parseOutputFormat("yaml", outputFormatTable); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestLoadJSONInputFileOverridesInline(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "payload.json")
	if err := os.WriteFile(path, []byte(`{"from":"file"}`), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, err := loadJSONInput(`{"from":"inline"}`, path, "payload")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != `{"from":"file"}` {
		t.Fatalf("file should override inline, got %s", got)
	}

	inline, err := loadJSONInput(`{"from":"inline"}`, "", "payload")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(inline) != `{"from":"inline"}` {
		t.Fatalf("unexpected inline payload: %s", inline)
	}

	if _, err := loadJSONInput("", "", "payload"); err == nil {
		t.Fatalf("expected error when no payload is provided")
	}
}

func TestDecodeScrapedItems(t *testing.T) {
	t.Parallel()

	items, err := decodeScrapedItems([]byte(`{"title":"Acme raises funding","url":"https://x.test/a"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Acme raises funding" {
		t.Fatalf("unexpected items: %+v", items)
	}

	items, err = decodeScrapedItems([]byte(`[{"title":"a","url":"https://x.test/a"},{"title":"b","url":"https://x.test/b"}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("unexpected item count: %d", len(items))
	}

	if _, err := decodeScrapedItems([]byte(`[]`)); err == nil {
		t.Fatalf("expected error for empty array")
	}
	if _, err := decodeScrapedItems([]byte(`[{"url":"https://x.test/a"}]`)); err == nil {
		t.Fatalf("expected error for item missing title")
	}
}
