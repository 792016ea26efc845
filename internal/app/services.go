package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"horse.fit/newsdesk/internal/config"
	"horse.fit/newsdesk/internal/db"
	"horse.fit/newsdesk/internal/dedup"
	"horse.fit/newsdesk/internal/ingestion"
	"horse.fit/newsdesk/internal/insight"
	"horse.fit/newsdesk/internal/reader"
	"horse.fit/newsdesk/internal/similarity"
)

// lexicalThresholdMargin keeps the TF-IDF stage slightly more permissive
// than the semantic stage, since it only reports medium confidence.
const lexicalThresholdMargin = 0.05

// buildIngestionService assembles the full pipeline from configuration:
// dedup stages (semantic only when an embedding endpoint is configured),
// insight generation (Gemini when a key is set, local heuristics otherwise),
// and readability backfill for enhance.
func buildIngestionService(cfg *config.Config, pool *db.Pool, logger zerolog.Logger) (*ingestion.Service, error) {
	var semantic similarity.Strategy
	if cfg.EmbeddingAvailable() {
		embedder, err := similarity.NewHTTPEmbedder(similarity.HTTPEmbedderOptions{
			Endpoint:  cfg.EmbeddingEndpoint,
			MaxLength: cfg.EmbeddingMaxLength,
			Timeout:   cfg.EmbeddingTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("configure embedder: %w", err)
		}
		semantic = similarity.NewSemantic(embedder, cfg.SimilarityThreshold)
	}
	lexical := similarity.NewLexical(cfg.SimilarityThreshold - lexicalThresholdMargin)

	checker, err := dedup.NewChecker(pool, semantic, lexical, cfg.DedupCandidateLimit, logger)
	if err != nil {
		return nil, fmt.Errorf("configure dedup: %w", err)
	}

	var primary insight.Generator
	if cfg.GeminiAPIKey != "" {
		gemini, err := insight.NewGemini(insight.GeminiOptions{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			Timeout: cfg.InsightTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("configure gemini: %w", err)
		}
		primary = gemini
	}
	insights := insight.NewService(primary, logger)

	return ingestion.NewService(pool, checker, insights, ingestion.Options{
		DedupEnabled: cfg.DedupEnabled,
		BodyFetcher: func(ctx context.Context, articleURL, title string) (string, error) {
			return reader.FetchText(ctx, articleURL, title)
		},
	}, logger)
}
