package similarity

import (
	"context"
	"math"
	"strings"

	"github.com/kljensen/snowball"
)

// Lexical scores candidates by cosine distance between TF-IDF vectors. The
// corpus is refit on every call from the incoming text plus the candidate
// window, so scores adapt to whatever vocabulary the window carries.
type Lexical struct {
	threshold float64
}

func NewLexical(threshold float64) *Lexical {
	return &Lexical{threshold: threshold}
}

func (l *Lexical) Name() string { return "lexical" }

func (l *Lexical) Best(_ context.Context, text string, candidates []Candidate) (*Match, error) {
	if l == nil || text == "" || len(candidates) == 0 {
		return nil, nil
	}

	docs := make([][]string, 0, len(candidates)+1)
	docs = append(docs, lexicalTokens(text))
	for _, candidate := range candidates {
		docs = append(docs, lexicalTokens(candidate.Text))
	}

	vectors := fitTFIDF(docs)
	incoming := vectors[0]
	if len(incoming) == 0 {
		return nil, nil
	}

	var best *Match
	for i, candidate := range candidates {
		score := sparseCosine(incoming, vectors[i+1])
		if score < l.threshold {
			continue
		}
		if best == nil || score > best.Score {
			best = &Match{
				ArticleID: candidate.ArticleID,
				DisplayID: candidate.DisplayID,
				Score:     score,
			}
		}
	}
	return best, nil
}

// lexicalTokens splits prepared text into stemmed content words.
func lexicalTokens(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if len(field) < 2 {
			continue
		}
		if _, stop := stopwords[field]; stop {
			continue
		}
		stemmed, err := snowball.Stem(field, "english", false)
		if err != nil || stemmed == "" {
			stemmed = field
		}
		tokens = append(tokens, stemmed)
	}
	return tokens
}

// fitTFIDF returns one sparse TF-IDF vector per document. IDF uses add-one
// smoothing so terms present in every document still carry a little weight.
func fitTFIDF(docs [][]string) []map[string]float64 {
	n := float64(len(docs))
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{}, len(doc))
		for _, token := range doc {
			if _, ok := seen[token]; ok {
				continue
			}
			seen[token] = struct{}{}
			df[token]++
		}
	}

	vectors := make([]map[string]float64, len(docs))
	for i, doc := range docs {
		vector := make(map[string]float64, len(doc))
		if len(doc) == 0 {
			vectors[i] = vector
			continue
		}
		counts := make(map[string]int, len(doc))
		for _, token := range doc {
			counts[token]++
		}
		total := float64(len(doc))
		for token, count := range counts {
			tf := float64(count) / total
			idf := math.Log((n+1)/(float64(df[token])+1)) + 1
			vector[token] = tf * idf
		}
		vectors[i] = vector
	}
	return vectors
}

func sparseCosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	var dot float64
	for token, weight := range small {
		if other, ok := large[token]; ok {
			dot += weight * other
		}
	}
	if dot == 0 {
		return 0
	}
	var normA, normB float64
	for _, weight := range a {
		normA += weight * weight
	}
	for _, weight := range b {
		normB += weight * weight
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// IsStopword reports whether a lowercase word is an English function word.
func IsStopword(word string) bool {
	_, ok := stopwords[word]
	return ok
}

// stopwords is a compact English function-word list. Similarity scoring only
// cares about content words.
var stopwords = map[string]struct{}{
	"a": {}, "about": {}, "above": {}, "after": {}, "again": {}, "all": {},
	"also": {}, "am": {}, "an": {}, "and": {}, "any": {}, "are": {}, "as": {},
	"at": {}, "be": {}, "because": {}, "been": {}, "before": {}, "being": {},
	"below": {}, "between": {}, "both": {}, "but": {}, "by": {}, "can": {},
	"could": {}, "did": {}, "do": {}, "does": {}, "doing": {}, "down": {},
	"during": {}, "each": {}, "few": {}, "for": {}, "from": {}, "further": {},
	"had": {}, "has": {}, "have": {}, "having": {}, "he": {}, "her": {},
	"here": {}, "hers": {}, "him": {}, "his": {}, "how": {}, "i": {}, "if": {},
	"in": {}, "into": {}, "is": {}, "it": {}, "its": {}, "just": {}, "me": {},
	"more": {}, "most": {}, "my": {}, "no": {}, "nor": {}, "not": {}, "now": {},
	"of": {}, "off": {}, "on": {}, "once": {}, "only": {}, "or": {},
	"other": {}, "our": {}, "out": {}, "over": {}, "own": {}, "said": {},
	"same": {}, "she": {}, "should": {}, "so": {}, "some": {}, "such": {},
	"than": {}, "that": {}, "the": {}, "their": {}, "them": {}, "then": {},
	"there": {}, "these": {}, "they": {}, "this": {}, "those": {},
	"through": {}, "to": {}, "too": {}, "under": {}, "until": {}, "up": {},
	"very": {}, "was": {}, "we": {}, "were": {}, "what": {}, "when": {},
	"where": {}, "which": {}, "while": {}, "who": {}, "whom": {}, "why": {},
	"will": {}, "with": {}, "would": {}, "you": {}, "your": {},
}
