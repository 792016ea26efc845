// Package analyze computes per-article content facets at ingest time. Each
// facet is independent: a facet that cannot be computed falls back to its
// documented default instead of failing the article.
package analyze

// Facets bundles every computed facet for one article.
type Facets struct {
	QualityScore     int
	SentimentScore   float64
	ReadabilityScore float64
	KeyEntities      []string
}

// Analyze computes all facets for an article.
func Analyze(title, description, body string) Facets {
	readability, err := Readability(body)
	if err != nil {
		readability = 50
	}

	return Facets{
		QualityScore:     Quality(title, description, body),
		SentimentScore:   Sentiment(title + " " + description + " " + body),
		ReadabilityScore: readability,
		KeyEntities:      Entities(title + ". " + body),
	}
}
