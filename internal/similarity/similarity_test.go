package similarity

import (
	"context"
	"math"
	"strings"
	"testing"
)

func TestPrepareText(t *testing.T) {
	t.Parallel()

	got := PrepareText("Acme Raises $10M!", "Funding round, via Inc42", "")
	want := "acme raises 10m funding round via"
	if got != want {
		t.Fatalf("PrepareText = %q, want %q", got, want)
	}

	if got := PrepareText("", "", ""); got != "" {
		t.Fatalf("PrepareText(empty) = %q, want empty", got)
	}
}

func TestPrepareTextIncludesBodySample(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("x", bodySampleLen) + " overflow"
	got := PrepareText("Title", "Desc", body)
	if !strings.Contains(got, "title desc") {
		t.Fatalf("PrepareText = %q, missing title and description", got)
	}
	if !strings.Contains(got, "xxx") {
		t.Fatalf("PrepareText = %q, body words missing", got)
	}
	if strings.Contains(got, "overflow") {
		t.Fatalf("PrepareText kept body text past %d bytes: %q", bodySampleLen, got)
	}
}

func TestLexicalBestIdenticalText(t *testing.T) {
	t.Parallel()

	lexical := NewLexical(0.80)
	text := PrepareText("Acme raises funding for expansion", "Series A led by Example Ventures", "")

	candidates := []Candidate{
		{ArticleID: 1, DisplayID: "st-n-1", Text: PrepareText("Completely different topic about weather", "Rain expected tomorrow across the coast", "")},
		{ArticleID: 2, DisplayID: "st-n-2", Text: text},
	}

	match, err := lexical.Best(context.Background(), text, candidates)
	if err != nil {
		t.Fatalf("Best returned error: %v", err)
	}
	if match == nil {
		t.Fatal("expected a match for identical text")
	}
	if match.ArticleID != 2 {
		t.Fatalf("matched article %d, want 2", match.ArticleID)
	}
	if match.Score < 0.99 {
		t.Fatalf("identical text scored %f, want ~1.0", match.Score)
	}
}

func TestLexicalBestUnrelatedText(t *testing.T) {
	t.Parallel()

	lexical := NewLexical(0.80)
	text := PrepareText("Acme raises funding for expansion", "", "")

	candidates := []Candidate{
		{ArticleID: 1, DisplayID: "st-n-1", Text: PrepareText("Heavy rain warning issued for coastal districts", "", "")},
	}

	match, err := lexical.Best(context.Background(), text, candidates)
	if err != nil {
		t.Fatalf("Best returned error: %v", err)
	}
	if match != nil {
		t.Fatalf("unrelated text matched with score %f", match.Score)
	}
}

func TestLexicalBestEmptyInputs(t *testing.T) {
	t.Parallel()

	lexical := NewLexical(0.80)

	if match, err := lexical.Best(context.Background(), "", []Candidate{{ArticleID: 1, Text: "foo bar"}}); err != nil || match != nil {
		t.Fatalf("empty text: match=%v err=%v", match, err)
	}
	if match, err := lexical.Best(context.Background(), "foo bar", nil); err != nil || match != nil {
		t.Fatalf("no candidates: match=%v err=%v", match, err)
	}
}

func TestLexicalStemming(t *testing.T) {
	t.Parallel()

	// Morphological variants should map to the same stem and score high.
	lexical := NewLexical(0.60)
	text := PrepareText("startup acquires competitor", "", "")
	candidates := []Candidate{
		{ArticleID: 7, DisplayID: "st-n-7", Text: PrepareText("startups acquiring competitors", "", "")},
	}

	match, err := lexical.Best(context.Background(), text, candidates)
	if err != nil {
		t.Fatalf("Best returned error: %v", err)
	}
	if match == nil {
		t.Fatal("stemmed variants should match")
	}
}

func TestSparseCosine(t *testing.T) {
	t.Parallel()

	a := map[string]float64{"x": 1, "y": 2}
	if got := sparseCosine(a, a); math.Abs(got-1) > 1e-9 {
		t.Fatalf("self-cosine = %f, want 1", got)
	}

	b := map[string]float64{"z": 3}
	if got := sparseCosine(a, b); got != 0 {
		t.Fatalf("disjoint cosine = %f, want 0", got)
	}

	if got := sparseCosine(nil, a); got != 0 {
		t.Fatalf("nil cosine = %f, want 0", got)
	}
}

type fakeEmbedder struct {
	vectors [][]float64
	err     error
	calls   int
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vectors[:len(texts)], nil
}

func TestSemanticBest(t *testing.T) {
	t.Parallel()

	embedder := &fakeEmbedder{
		vectors: [][]float64{
			{1, 0, 0},   // incoming
			{0.99, 0.1, 0}, // near duplicate
			{0, 1, 0},   // orthogonal
		},
	}
	semantic := NewSemantic(embedder, 0.85)

	candidates := []Candidate{
		{ArticleID: 11, DisplayID: "st-n-11", Text: "near duplicate"},
		{ArticleID: 12, DisplayID: "st-n-12", Text: "unrelated"},
	}

	match, err := semantic.Best(context.Background(), "incoming", candidates)
	if err != nil {
		t.Fatalf("Best returned error: %v", err)
	}
	if match == nil {
		t.Fatal("expected semantic match")
	}
	if match.ArticleID != 11 {
		t.Fatalf("matched article %d, want 11", match.ArticleID)
	}
	if embedder.calls != 1 {
		t.Fatalf("embedder called %d times, want 1 batched call", embedder.calls)
	}
}

func TestSemanticBestBelowThreshold(t *testing.T) {
	t.Parallel()

	embedder := &fakeEmbedder{
		vectors: [][]float64{
			{1, 0},
			{0, 1},
		},
	}
	semantic := NewSemantic(embedder, 0.85)

	match, err := semantic.Best(context.Background(), "incoming", []Candidate{
		{ArticleID: 1, DisplayID: "st-n-1", Text: "unrelated"},
	})
	if err != nil {
		t.Fatalf("Best returned error: %v", err)
	}
	if match != nil {
		t.Fatalf("orthogonal vectors matched with score %f", match.Score)
	}
}
