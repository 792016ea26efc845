package similarity

import (
	"context"
	"fmt"
)

// Semantic scores candidates by cosine distance between embedding vectors.
// The incoming text and all candidates are embedded in a single request.
type Semantic struct {
	embedder  Embedder
	threshold float64
}

func NewSemantic(embedder Embedder, threshold float64) *Semantic {
	return &Semantic{
		embedder:  embedder,
		threshold: threshold,
	}
}

func (s *Semantic) Name() string { return "semantic" }

func (s *Semantic) Best(ctx context.Context, text string, candidates []Candidate) (*Match, error) {
	if s == nil || s.embedder == nil {
		return nil, fmt.Errorf("semantic strategy is not initialized")
	}
	if text == "" || len(candidates) == 0 {
		return nil, nil
	}

	texts := make([]string, 0, len(candidates)+1)
	texts = append(texts, text)
	for _, candidate := range candidates {
		texts = append(texts, candidate.Text)
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed comparison texts: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: want %d, got %d", len(texts), len(vectors))
	}

	incoming := vectors[0]
	var best *Match
	for i, candidate := range candidates {
		score := cosine(incoming, vectors[i+1])
		if score < s.threshold {
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
