// Package ingestion runs the article intake pipeline: validation,
// fingerprinting, language annotation, duplicate detection, content
// analysis, insight generation, and storage.
package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"horse.fit/newsdesk/internal/analyze"
	"horse.fit/newsdesk/internal/db"
	"horse.fit/newsdesk/internal/dedup"
	"horse.fit/newsdesk/internal/fingerprint"
	"horse.fit/newsdesk/internal/globaltime"
	"horse.fit/newsdesk/internal/insight"
	"horse.fit/newsdesk/internal/langdetect"
)

// Item outcome dispositions.
const (
	DispositionInserted  = "inserted"
	DispositionDuplicate = "duplicate"
	DispositionInvalid   = "invalid_input"
)

// Store is the storage surface the ingestion service needs.
type Store interface {
	InsertArticle(ctx context.Context, rec db.NewArticleRecord, now time.Time) (*db.ArticleRef, error)
	GetArticle(ctx context.Context, articleID int64) (*db.ArticleDetail, error)
	UpdateArticleAnalysis(ctx context.Context, articleID int64, upd db.AnalysisUpdate, now time.Time) error
	InsertActivityLog(ctx context.Context, action string, articleID *int64, details json.RawMessage, now time.Time) error
	StartScrapeRun(ctx context.Context, source string, now time.Time) (int64, error)
	FinishScrapeRun(ctx context.Context, runID int64, result db.ScrapeRunResult, now time.Time) error
}

// Deduper is the duplicate-decision surface, satisfied by dedup.Checker.
type Deduper interface {
	Check(ctx context.Context, in dedup.Incoming) (*dedup.Result, error)
}

// BodyFetcher backfills article text from the source page during enhance.
type BodyFetcher func(ctx context.Context, articleURL, title string) (string, error)

// Item is one scraped article as delivered by a scraper.
type Item struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	Author      string `json:"author,omitempty"`
	Date        string `json:"date,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	ArticleBody string `json:"article_body,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// Outcome reports what happened to one item.
type Outcome struct {
	Disposition string         `json:"disposition"`
	Reason      string         `json:"reason,omitempty"`
	Confidence  string         `json:"confidence,omitempty"`
	Score       float64        `json:"score,omitempty"`
	Article     *db.ArticleRef `json:"article,omitempty"`
	Duplicate   *db.ArticleRef `json:"duplicate_of,omitempty"`
}

// BatchResult aggregates outcomes for one ingest batch.
type BatchResult struct {
	ScrapeRunID int64     `json:"scrape_run_id,omitempty"`
	Received    int       `json:"received"`
	Inserted    int       `json:"inserted"`
	Duplicates  int       `json:"duplicates"`
	Invalid     int       `json:"invalid"`
	Outcomes    []Outcome `json:"outcomes"`
}

// Options configures a Service.
type Options struct {
	DedupEnabled bool
	BodyFetcher  BodyFetcher
}

// Service is the ingest and enhancement pipeline.
type Service struct {
	store        Store
	deduper      Deduper
	insights     *insight.Service
	dedupEnabled bool
	fetchBody    BodyFetcher
	logger       zerolog.Logger
}

func NewService(store Store, deduper Deduper, insights *insight.Service, opts Options, logger zerolog.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if insights == nil {
		return nil, fmt.Errorf("insight service is required")
	}
	if opts.DedupEnabled && deduper == nil {
		return nil, fmt.Errorf("deduper is required when dedup is enabled")
	}
	return &Service{
		store:        store,
		deduper:      deduper,
		insights:     insights,
		dedupEnabled: opts.DedupEnabled,
		fetchBody:    opts.BodyFetcher,
		logger:       logger,
	}, nil
}

// IngestBatch processes a batch of scraped items under one scrape run. Item
// failures are recorded per item; only store-level failures abort the batch.
func (s *Service) IngestBatch(ctx context.Context, source string, items []Item) (*BatchResult, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("ingestion service is not initialized")
	}

	result := &BatchResult{
		Received: len(items),
		Outcomes: make([]Outcome, 0, len(items)),
	}

	runID, err := s.store.StartScrapeRun(ctx, source, globaltime.UTC())
	if err != nil {
		return nil, fmt.Errorf("start scrape run: %w", err)
	}
	result.ScrapeRunID = runID

	var batchErr error
	for _, item := range items {
		outcome, err := s.IngestOne(ctx, item)
		if err != nil {
			batchErr = err
			break
		}
		result.Outcomes = append(result.Outcomes, *outcome)
		switch outcome.Disposition {
		case DispositionInserted:
			result.Inserted++
		case DispositionDuplicate:
			result.Duplicates++
		case DispositionInvalid:
			result.Invalid++
		}
	}

	runResult := db.ScrapeRunResult{
		ItemsReceived:  result.Received,
		ItemsInserted:  result.Inserted,
		ItemsDuplicate: result.Duplicates,
		ItemsInvalid:   result.Invalid,
	}
	if batchErr != nil {
		message := batchErr.Error()
		runResult.ErrorMessage = &message
	}
	if err := s.store.FinishScrapeRun(ctx, runID, runResult, globaltime.UTC()); err != nil {
		s.logger.Warn().Err(err).Int64("scrape_run_id", runID).Msg("finish scrape run failed")
	}

	if batchErr != nil {
		return result, batchErr
	}
	return result, nil
}

// IngestOne runs the full pipeline for a single item.
func (s *Service) IngestOne(ctx context.Context, item Item) (*Outcome, error) {
	title := strings.TrimSpace(item.Title)
	articleURL := strings.TrimSpace(item.URL)
	if title == "" || articleURL == "" {
		return &Outcome{Disposition: DispositionInvalid, Reason: "title and url are required"}, nil
	}

	// With dedup disabled a random fingerprint guarantees the hash
	// uniqueness constraint never trips.
	contentHash := uuid.NewString()
	if s.dedupEnabled {
		contentHash = fingerprint.Compute(title, item.Description, item.ArticleBody)
	}

	language := langdetect.Detect(title + " " + item.Description)

	if s.dedupEnabled {
		verdict, err := s.deduper.Check(ctx, dedup.Incoming{
			Title:       title,
			Description: item.Description,
			Body:        item.ArticleBody,
			URL:         articleURL,
			ContentHash: contentHash,
			Source:      item.Source,
			Language:    language,
		})
		if err != nil {
			return nil, fmt.Errorf("duplicate check: %w", err)
		}
		if verdict.Duplicate {
			s.logActivity(ctx, "article_duplicate", nil, map[string]any{
				"title":      title,
				"url":        articleURL,
				"reason":     verdict.Reason,
				"confidence": verdict.Confidence,
			})
			return &Outcome{
				Disposition: DispositionDuplicate,
				Reason:      verdict.Reason,
				Confidence:  verdict.Confidence,
				Score:       verdict.Score,
				Duplicate:   verdict.Match,
			}, nil
		}
	}

	facets := analyze.Analyze(title, item.Description, item.ArticleBody)
	generated, provider := s.insights.Generate(ctx, insight.Input{
		Title:       title,
		Description: item.Description,
		Body:        item.ArticleBody,
	})

	rec := db.NewArticleRecord{
		Title:            title,
		URL:              articleURL,
		Source:           strings.TrimSpace(item.Source),
		Author:           optional(item.Author),
		PublishDate:      ParsePublishDate(item.Date),
		Category:         optional(item.Category),
		Description:      optional(item.Description),
		ArticleBody:      optional(item.ArticleBody),
		ImageURL:         optional(item.ImageURL),
		ContentHash:      contentHash,
		Language:         language,
		QualityScore:     &facets.QualityScore,
		AISummary:        optional(generated.Summary),
		SentimentScore:   &facets.SentimentScore,
		ReadabilityScore: &facets.ReadabilityScore,
		TopicCategory:    optional(generated.TopicCategory),
	}
	rec.AITags = marshalList(generated.Tags)
	rec.KeyEntities = marshalList(facets.KeyEntities)

	ref, err := s.store.InsertArticle(ctx, rec, globaltime.UTC())
	if err != nil {
		// A concurrent insert can land between the dedup check and ours;
		// report it the same way the hash stage would have.
		if errors.Is(err, db.ErrDuplicate) {
			return &Outcome{
				Disposition: DispositionDuplicate,
				Reason:      dedup.ReasonHash,
				Confidence:  dedup.ConfidenceExact,
			}, nil
		}
		return nil, fmt.Errorf("insert article: %w", err)
	}

	s.logActivity(ctx, "article_ingested", &ref.ArticleID, map[string]any{
		"display_id": ref.DisplayID,
		"source":     item.Source,
		"provider":   provider,
	})

	return &Outcome{Disposition: DispositionInserted, Article: ref}, nil
}

// Enhance re-runs analysis and insight for a stored article. When the body
// is missing and a fetcher is configured, the page text is backfilled first.
func (s *Service) Enhance(ctx context.Context, articleID int64) (*db.ArticleDetail, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("ingestion service is not initialized")
	}

	article, err := s.store.GetArticle(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("load article %d: %w", articleID, err)
	}

	body := derefOrEmpty(article.ArticleBody)
	var backfilled *string
	if strings.TrimSpace(body) == "" && s.fetchBody != nil {
		fetched, err := s.fetchBody(ctx, article.URL, article.Title)
		if err != nil {
			s.logger.Warn().Err(err).Int64("article_id", articleID).Msg("body backfill failed, enhancing with stored fields")
		} else if strings.TrimSpace(fetched) != "" {
			body = fetched
			backfilled = &fetched
		}
	}

	description := derefOrEmpty(article.Description)
	facets := analyze.Analyze(article.Title, description, body)
	generated, provider := s.insights.Generate(ctx, insight.Input{
		Title:       article.Title,
		Description: description,
		Body:        body,
	})

	upd := db.AnalysisUpdate{
		QualityScore:     &facets.QualityScore,
		AITags:           marshalList(generated.Tags),
		AISummary:        optional(generated.Summary),
		SentimentScore:   &facets.SentimentScore,
		ReadabilityScore: &facets.ReadabilityScore,
		KeyEntities:      marshalList(facets.KeyEntities),
		TopicCategory:    optional(generated.TopicCategory),
		ArticleBody:      backfilled,
	}
	if err := s.store.UpdateArticleAnalysis(ctx, articleID, upd, globaltime.UTC()); err != nil {
		return nil, fmt.Errorf("persist enhanced analysis: %w", err)
	}

	s.logActivity(ctx, "article_enhanced", &articleID, map[string]any{
		"provider":   provider,
		"backfilled": backfilled != nil,
	})

	return s.store.GetArticle(ctx, articleID)
}

// logActivity is best effort; a failed audit write never fails the
// operation it records.
func (s *Service) logActivity(ctx context.Context, action string, articleID *int64, details map[string]any) {
	payload, err := json.Marshal(details)
	if err != nil {
		payload = nil
	}
	if err := s.store.InsertActivityLog(ctx, action, articleID, payload, globaltime.UTC()); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("activity log write failed")
	}
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func derefOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func marshalList(values []string) json.RawMessage {
	if len(values) == 0 {
		return nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	return raw
}
