package reader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCleanTextCollapsesWhitespaceAndPreservesParagraphs(t *testing.T) {
	t.Parallel()

	input := "  First   paragraph \n\n Second\tparagraph \r\n\r\nThird line "
	got := CleanText(input)
	want := "First paragraph\n\nSecond paragraph\n\nThird line"
	if got != want {
		t.Fatalf("CleanText mismatch\nwant: %q\ngot:  %q", want, got)
	}
}

func TestTruncateText(t *testing.T) {
	t.Parallel()

	input := "abcdefghijklmnopqrstuvwxyz"

	got, truncated := TruncateText(input, 10)
	if !truncated {
		t.Fatalf("expected truncated=true")
	}
	if got != "abcdefghi…" {
		t.Fatalf("unexpected truncated text: %q", got)
	}

	full, wasTruncated := TruncateText("short", 10)
	if wasTruncated {
		t.Fatalf("expected truncated=false for short text")
	}
	if full != "short" {
		t.Fatalf("unexpected short text: %q", full)
	}
}

func TestFetchTextPlainText(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Line one.\n\nLine two."))
	}))
	defer server.Close()

	text, err := FetchTextWithOptions(context.Background(), server.URL, "fallback title", FetchOptions{})
	if err != nil {
		t.Fatalf("FetchTextWithOptions: %v", err)
	}
	if !strings.Contains(text, "Line one.") {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestFetchTextErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	if _, err := FetchTextWithOptions(context.Background(), server.URL, "", FetchOptions{}); err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}

func TestFetchTextEmptyURL(t *testing.T) {
	t.Parallel()

	if _, err := FetchText(context.Background(), "   ", ""); err == nil {
		t.Fatal("expected error for empty URL")
	}
}
