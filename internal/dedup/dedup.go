// Package dedup decides whether an incoming article duplicates stored
// content. Identity checks run first and are authoritative; similarity
// stages run in order of confidence and are skipped, never fatal, when a
// capability is unavailable.
package dedup

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"horse.fit/newsdesk/internal/db"
	"horse.fit/newsdesk/internal/similarity"
	"horse.fit/newsdesk/internal/textnorm"
)

// Duplicate reasons, in stage order.
const (
	ReasonHash     = "duplicate_hash"
	ReasonURL      = "duplicate_url"
	ReasonSemantic = "duplicate_semantic"
	ReasonLexical  = "duplicate_lexical"
	ReasonTitle    = "duplicate_title"
)

// Confidence tiers attached to duplicate verdicts.
const (
	ConfidenceExact  = "exact"
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

const titlePrefixWords = 10

// Store is the storage surface the checker needs.
type Store interface {
	FindByContentHash(ctx context.Context, contentHash string) (*db.ArticleRef, error)
	FindByURL(ctx context.Context, articleURL string) (*db.ArticleRef, error)
	RecentCandidates(ctx context.Context, source string, limit int) ([]db.DedupCandidate, error)
}

// Incoming is the article under consideration.
type Incoming struct {
	Title       string
	Description string
	Body        string
	URL         string
	ContentHash string
	Source      string
	Language    string
}

// Result is the verdict for one incoming article.
type Result struct {
	Duplicate  bool
	Reason     string
	Confidence string
	Score      float64
	Match      *db.ArticleRef
}

// Checker runs the staged duplicate detection pipeline.
type Checker struct {
	store          Store
	semantic       similarity.Strategy
	lexical        similarity.Strategy
	candidateLimit int
	logger         zerolog.Logger
}

// NewChecker builds a checker. Semantic may be nil when no embedding
// capability is configured; the pipeline then starts at the lexical stage.
func NewChecker(store Store, semantic, lexical similarity.Strategy, candidateLimit int, logger zerolog.Logger) (*Checker, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if candidateLimit <= 0 {
		candidateLimit = 200
	}
	return &Checker{
		store:          store,
		semantic:       semantic,
		lexical:        lexical,
		candidateLimit: candidateLimit,
		logger:         logger,
	}, nil
}

// Check runs the stages in order: content hash, URL, semantic, lexical,
// title prefix. The first stage that fires wins. Identity lookups that fail
// for reasons other than no-rows are returned as errors; similarity stage
// failures downgrade to the next stage.
func (c *Checker) Check(ctx context.Context, in Incoming) (*Result, error) {
	if c == nil || c.store == nil {
		return nil, fmt.Errorf("dedup checker is not initialized")
	}

	if in.ContentHash != "" {
		ref, err := c.store.FindByContentHash(ctx, in.ContentHash)
		switch {
		case err == nil:
			return &Result{Duplicate: true, Reason: ReasonHash, Confidence: ConfidenceExact, Score: 1, Match: ref}, nil
		case !db.IsNoRows(err):
			return nil, fmt.Errorf("content hash lookup: %w", err)
		}
	}

	if in.URL != "" {
		ref, err := c.store.FindByURL(ctx, in.URL)
		switch {
		case err == nil:
			return &Result{Duplicate: true, Reason: ReasonURL, Confidence: ConfidenceExact, Score: 1, Match: ref}, nil
		case !db.IsNoRows(err):
			return nil, fmt.Errorf("url lookup: %w", err)
		}
	}

	candidates, err := c.store.RecentCandidates(ctx, in.Source, c.candidateLimit)
	if err != nil {
		// Similarity stages need candidates; without them the article is
		// treated as unique rather than failing the ingest.
		c.logger.Warn().Err(err).Msg("candidate window unavailable, skipping similarity stages")
		return &Result{Duplicate: false}, nil
	}
	candidates = filterByLanguage(candidates, in.Language)
	if len(candidates) == 0 {
		return &Result{Duplicate: false}, nil
	}

	prepared := similarity.PrepareText(in.Title, in.Description, in.Body)
	comparable := make([]similarity.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		comparable = append(comparable, similarity.Candidate{
			ArticleID: candidate.ArticleID,
			DisplayID: candidate.DisplayID,
			Text:      similarity.PrepareText(candidate.Title, candidate.Description, candidate.ArticleBody),
		})
	}

	if c.semantic != nil {
		match, err := c.semantic.Best(ctx, prepared, comparable)
		if err != nil {
			c.logger.Warn().Err(err).Msg("semantic stage unavailable, falling back to lexical")
		} else if match != nil {
			return &Result{
				Duplicate:  true,
				Reason:     ReasonSemantic,
				Confidence: ConfidenceHigh,
				Score:      match.Score,
				Match:      refFromMatch(match, candidates),
			}, nil
		}
	}

	if c.lexical != nil {
		match, err := c.lexical.Best(ctx, prepared, comparable)
		if err != nil {
			c.logger.Warn().Err(err).Msg("lexical stage failed, falling back to title prefix")
		} else if match != nil {
			return &Result{
				Duplicate:  true,
				Reason:     ReasonLexical,
				Confidence: ConfidenceMedium,
				Score:      match.Score,
				Match:      refFromMatch(match, candidates),
			}, nil
		}
	}

	if prefix := textnorm.FirstWords(textnorm.Normalize(in.Title), titlePrefixWords); prefix != "" {
		for _, candidate := range candidates {
			candidatePrefix := textnorm.FirstWords(textnorm.Normalize(candidate.Title), titlePrefixWords)
			if candidatePrefix != "" && candidatePrefix == prefix {
				return &Result{
					Duplicate:  true,
					Reason:     ReasonTitle,
					Confidence: ConfidenceLow,
					Score:      1,
					Match: &db.ArticleRef{
						ArticleID: candidate.ArticleID,
						DisplayID: candidate.DisplayID,
						Title:     candidate.Title,
						URL:       candidate.URL,
					},
				}, nil
			}
		}
	}

	return &Result{Duplicate: false}, nil
}

// filterByLanguage keeps candidates in the incoming article's language.
// Undetermined languages on either side compare everything.
func filterByLanguage(candidates []db.DedupCandidate, language string) []db.DedupCandidate {
	if language == "" || language == "und" {
		return candidates
	}
	kept := make([]db.DedupCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Language == "" || candidate.Language == "und" || candidate.Language == language {
			kept = append(kept, candidate)
		}
	}
	return kept
}

func refFromMatch(match *similarity.Match, candidates []db.DedupCandidate) *db.ArticleRef {
	for _, candidate := range candidates {
		if candidate.ArticleID == match.ArticleID {
			return &db.ArticleRef{
				ArticleID: candidate.ArticleID,
				DisplayID: candidate.DisplayID,
				Title:     candidate.Title,
				URL:       candidate.URL,
			}
		}
	}
	return &db.ArticleRef{ArticleID: match.ArticleID, DisplayID: match.DisplayID}
}
