package analyze

import (
	"strings"
	"testing"
)

func TestQualityMonotonicInBodyLength(t *testing.T) {
	t.Parallel()

	title := "Acme raises funding for nationwide expansion plans"
	short := Quality(title, "A short description over fifty characters long for scoring.", strings.Repeat("word ", 50))
	long := Quality(title, "A short description over fifty characters long for scoring.", strings.Repeat("word ", 500))
	if long < short {
		t.Fatalf("longer body scored lower: short=%d long=%d", short, long)
	}
}

func TestQualityBounds(t *testing.T) {
	t.Parallel()

	if got := Quality("", "", ""); got < 0 || got > 100 {
		t.Fatalf("empty article score out of range: %d", got)
	}

	rich := Quality(
		"Acme raises funding for major acquisition and expansion",
		strings.Repeat("Detailed description of the funding round. ", 3),
		strings.Repeat("Acme announced a funding round today. The investment supports growth. Partners joined the round. Expansion follows next year. Hiring continues across offices. The startup plans an ipo. ", 5),
	)
	if rich < 0 || rich > 100 {
		t.Fatalf("rich article score out of range: %d", rich)
	}
}

func TestQualityKeywordsCountTitleOnly(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("Plain filler sentence about nothing in particular. ", 20)
	plain := Quality("Company publishes its quarterly report today", "desc", body)
	stuffed := Quality("Company publishes its quarterly report today", "desc",
		body+strings.Repeat("funding ipo merger acquisition partnership ", 10))
	if stuffed > plain {
		t.Fatalf("body keywords must not raise the score: plain=%d stuffed=%d", plain, stuffed)
	}
}

func TestQualityKeywordRepeatCountsOnce(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("Plain filler sentence about nothing in particular. ", 20)
	once := Quality("Acme funding update arrives for investors today", "desc", body)
	repeated := Quality("Acme funding update funding news funding today", "desc", body)
	if repeated != once {
		t.Fatalf("repeated title keyword changed the score: once=%d repeated=%d", once, repeated)
	}
}

func TestSentenceLengthVariety(t *testing.T) {
	t.Parallel()

	three := []string{"one", "one two", "one two three"}
	if sentenceLengthVariety(three) {
		t.Fatal("three distinct lengths should not count as varied")
	}

	four := append(three, "one two three four")
	if !sentenceLengthVariety(four) {
		t.Fatal("four distinct lengths should count as varied")
	}
}

func TestQualityPlaceholderPenalty(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("Real sentence about the business. ", 30)
	clean := Quality("Acme raises funding for expansion today", "desc", body)
	tainted := Quality("Acme raises funding for expansion today", "desc", body+" lorem ipsum dolor")
	if tainted >= clean {
		t.Fatalf("placeholder content not penalized: clean=%d tainted=%d", clean, tainted)
	}
}

func TestSentimentEmpty(t *testing.T) {
	t.Parallel()

	if got := Sentiment(""); got != 0 {
		t.Fatalf("Sentiment(empty) = %f, want exactly 0", got)
	}
}

func TestSentimentDirection(t *testing.T) {
	t.Parallel()

	positive := Sentiment("record growth and strong gains boost profit")
	if positive <= 0 {
		t.Fatalf("positive text scored %f", positive)
	}

	negative := Sentiment("layoffs and losses deepen the crisis after bankruptcy")
	if negative >= 0 {
		t.Fatalf("negative text scored %f", negative)
	}
}

func TestSentimentBounds(t *testing.T) {
	t.Parallel()

	saturated := Sentiment("growth growth growth growth")
	if saturated > 1 || saturated < -1 {
		t.Fatalf("score out of [-1,1]: %f", saturated)
	}
	if saturated != 1 {
		t.Fatalf("saturated positive text should clamp to 1, got %f", saturated)
	}
}

func TestReadabilityEmpty(t *testing.T) {
	t.Parallel()

	got, err := Readability("")
	if err != nil {
		t.Fatalf("Readability(empty): %v", err)
	}
	if got != 0 {
		t.Fatalf("Readability(empty) = %f, want 0", got)
	}
}

func TestReadabilitySimpleVsComplex(t *testing.T) {
	t.Parallel()

	simple, err := Readability("The cat sat. The dog ran. It was fun.")
	if err != nil {
		t.Fatalf("simple text: %v", err)
	}

	dense, err := Readability("Organizational restructuring initiatives necessitate comprehensive administrative reconsideration throughout multinational conglomerate subsidiaries.")
	if err != nil {
		t.Fatalf("dense text: %v", err)
	}

	if simple <= dense {
		t.Fatalf("simple text (%f) should read easier than dense text (%f)", simple, dense)
	}
}

func TestReadabilityBounds(t *testing.T) {
	t.Parallel()

	for _, text := range []string{
		"Go. Run. Stop.",
		"Incomprehensibility notwithstanding, haberdashery proliferates internationally.",
	} {
		got, err := Readability(text)
		if err != nil {
			t.Fatalf("Readability(%q): %v", text, err)
		}
		if got < 0 || got > 100 {
			t.Fatalf("Readability(%q) = %f, out of [0,100]", text, got)
		}
	}
}

func TestCountSyllables(t *testing.T) {
	t.Parallel()

	cases := []struct {
		word string
		want int
	}{
		{word: "cat", want: 1},
		{word: "table", want: 2},
		{word: "date", want: 1},
		{word: "pale", want: 1},
		{word: "whale", want: 1},
		{word: "syllable", want: 3},
		{word: "the", want: 1},
		{word: "", want: 1},
	}
	for _, tc := range cases {
		if got := countSyllables(tc.word); got != tc.want {
			t.Fatalf("countSyllables(%q) = %d, want %d", tc.word, got, tc.want)
		}
	}
}

func TestEntities(t *testing.T) {
	t.Parallel()

	text := "Acme Technologies raised a new round. Beta Labs announced a partnership with Gamma Systems. The market reacted."
	entities := Entities(text)
	if len(entities) == 0 {
		t.Fatal("expected entities")
	}

	found := make(map[string]bool, len(entities))
	for _, entity := range entities {
		found[entity] = true
	}
	if !found["Acme Technologies"] {
		t.Fatalf("missing corporate-suffix entity, got %v", entities)
	}
	for _, entity := range entities {
		if entity == "The" {
			t.Fatal("excluded words must not appear as entities")
		}
	}
}

func TestEntitiesCapAndDedup(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	for i := 0; i < 30; i++ {
		sb.WriteString("Acme Labs announced news. ")
	}
	entities := Entities(sb.String())
	if len(entities) != 1 {
		t.Fatalf("repeated entity should be deduplicated, got %v", entities)
	}

	sb.Reset()
	names := []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon", "Zeta", "Eta", "Theta", "Iota", "Kappa", "Lambda", "Mu"}
	for _, name := range names {
		sb.WriteString(name + " Labs announced results. ")
	}
	entities = Entities(sb.String())
	if len(entities) > 10 {
		t.Fatalf("entities not capped at 10, got %d", len(entities))
	}
}

func TestEntitiesEmpty(t *testing.T) {
	t.Parallel()

	if got := Entities("   "); got != nil {
		t.Fatalf("Entities(blank) = %v, want nil", got)
	}
}

func TestAnalyzeDefaults(t *testing.T) {
	t.Parallel()

	facets := Analyze("", "", "")
	if facets.SentimentScore != 0 {
		t.Fatalf("empty sentiment = %f, want 0", facets.SentimentScore)
	}
	if facets.ReadabilityScore != 0 {
		t.Fatalf("empty readability = %f, want 0", facets.ReadabilityScore)
	}
	if facets.KeyEntities != nil {
		t.Fatalf("empty entities = %v, want nil", facets.KeyEntities)
	}
}
