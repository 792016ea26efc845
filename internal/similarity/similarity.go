// Package similarity scores near-duplicate likelihood between an incoming
// article and stored candidates. Strategies share one contract so the
// deduplication pipeline can degrade from semantic to lexical scoring when a
// capability is unavailable.
package similarity

import (
	"context"
	"math"
	"strings"

	"horse.fit/newsdesk/internal/textnorm"
)

// Candidate is one stored article to compare against.
type Candidate struct {
	ArticleID int64
	DisplayID string
	Text      string
}

// Match reports the best-scoring candidate at or above a strategy's
// threshold.
type Match struct {
	ArticleID int64
	DisplayID string
	Score     float64
}

// Strategy finds the closest candidate to the prepared incoming text. A nil
// match with a nil error means nothing cleared the threshold.
type Strategy interface {
	Name() string
	Best(ctx context.Context, text string, candidates []Candidate) (*Match, error)
}

// bodySampleLen bounds how much of the article body joins the comparison
// text. The opening of a syndicated story carries the shared wording.
const bodySampleLen = 500

// PrepareText builds the comparison text for an article: normalized title,
// description, and the first 500 characters of the body, with publisher
// boilerplate removed.
func PrepareText(title, description, body string) string {
	joined := strings.TrimSpace(title + " " + description + " " + textnorm.Truncate(body, bodySampleLen))
	return textnorm.StripBoilerplate(textnorm.Normalize(joined))
}

func cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
