package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/newsdesk/internal/db"
	"horse.fit/newsdesk/internal/dedup"
	"horse.fit/newsdesk/internal/insight"
)

type memoryStore struct {
	nextID    int64
	articles  map[int64]*db.ArticleDetail
	byHash    map[string]int64
	byURL     map[string]int64
	activity  []string
	runs      map[int64]db.ScrapeRunResult
	nextRunID int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		articles: make(map[int64]*db.ArticleDetail),
		byHash:   make(map[string]int64),
		byURL:    make(map[string]int64),
		runs:     make(map[int64]db.ScrapeRunResult),
	}
}

func (m *memoryStore) InsertArticle(_ context.Context, rec db.NewArticleRecord, now time.Time) (*db.ArticleRef, error) {
	if _, exists := m.byHash[rec.ContentHash]; exists {
		return nil, db.ErrDuplicate
	}
	if _, exists := m.byURL[rec.URL]; exists {
		return nil, db.ErrDuplicate
	}

	m.nextID++
	id := m.nextID
	displayID := fmt.Sprintf("st-n-%d", id)
	m.articles[id] = &db.ArticleDetail{
		ArticleID:        id,
		DisplayID:        displayID,
		Title:            rec.Title,
		URL:              rec.URL,
		Source:           rec.Source,
		Description:      rec.Description,
		ArticleBody:      rec.ArticleBody,
		Status:           "pulled",
		ContentHash:      rec.ContentHash,
		Language:         rec.Language,
		QualityScore:     rec.QualityScore,
		AITags:           rec.AITags,
		AISummary:        rec.AISummary,
		SentimentScore:   rec.SentimentScore,
		ReadabilityScore: rec.ReadabilityScore,
		KeyEntities:      rec.KeyEntities,
		TopicCategory:    rec.TopicCategory,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	m.byHash[rec.ContentHash] = id
	m.byURL[rec.URL] = id
	return &db.ArticleRef{ArticleID: id, DisplayID: displayID, Title: rec.Title, URL: rec.URL}, nil
}

func (m *memoryStore) GetArticle(_ context.Context, articleID int64) (*db.ArticleDetail, error) {
	article, ok := m.articles[articleID]
	if !ok {
		return nil, db.ErrNoRows
	}
	copied := *article
	return &copied, nil
}

func (m *memoryStore) UpdateArticleAnalysis(_ context.Context, articleID int64, upd db.AnalysisUpdate, now time.Time) error {
	article, ok := m.articles[articleID]
	if !ok {
		return db.ErrNoRows
	}
	article.QualityScore = upd.QualityScore
	article.AITags = upd.AITags
	article.AISummary = upd.AISummary
	article.SentimentScore = upd.SentimentScore
	article.ReadabilityScore = upd.ReadabilityScore
	article.KeyEntities = upd.KeyEntities
	article.TopicCategory = upd.TopicCategory
	if upd.ArticleBody != nil {
		article.ArticleBody = upd.ArticleBody
	}
	article.UpdatedAt = now
	return nil
}

func (m *memoryStore) InsertActivityLog(_ context.Context, action string, _ *int64, _ json.RawMessage, _ time.Time) error {
	m.activity = append(m.activity, action)
	return nil
}

func (m *memoryStore) StartScrapeRun(_ context.Context, _ string, _ time.Time) (int64, error) {
	m.nextRunID++
	return m.nextRunID, nil
}

func (m *memoryStore) FinishScrapeRun(_ context.Context, runID int64, result db.ScrapeRunResult, _ time.Time) error {
	m.runs[runID] = result
	return nil
}

// dedup.Store over the memory store.
func (m *memoryStore) FindByContentHash(_ context.Context, hash string) (*db.ArticleRef, error) {
	if id, ok := m.byHash[hash]; ok {
		a := m.articles[id]
		return &db.ArticleRef{ArticleID: id, DisplayID: a.DisplayID, Title: a.Title, URL: a.URL}, nil
	}
	return nil, db.ErrNoRows
}

func (m *memoryStore) FindByURL(_ context.Context, articleURL string) (*db.ArticleRef, error) {
	if id, ok := m.byURL[articleURL]; ok {
		a := m.articles[id]
		return &db.ArticleRef{ArticleID: id, DisplayID: a.DisplayID, Title: a.Title, URL: a.URL}, nil
	}
	return nil, db.ErrNoRows
}

func (m *memoryStore) RecentCandidates(_ context.Context, _ string, limit int) ([]db.DedupCandidate, error) {
	candidates := make([]db.DedupCandidate, 0, len(m.articles))
	for id, article := range m.articles {
		candidates = append(candidates, db.DedupCandidate{
			ArticleID:   id,
			DisplayID:   article.DisplayID,
			Title:       article.Title,
			Description: derefOrEmpty(article.Description),
			ArticleBody: derefOrEmpty(article.ArticleBody),
			Language:    article.Language,
			URL:         article.URL,
		})
		if len(candidates) >= limit {
			break
		}
	}
	return candidates, nil
}

func newTestService(t *testing.T, store *memoryStore, opts Options) *Service {
	t.Helper()

	checker, err := dedup.NewChecker(store, nil, nil, 50, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewChecker: %v", err)
	}
	service, err := NewService(store, checker, insight.NewService(nil, zerolog.Nop()), opts, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return service
}

func TestIngestOneInserts(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	service := newTestService(t, store, Options{DedupEnabled: true})

	outcome, err := service.IngestOne(context.Background(), Item{
		Title:       "Acme raises a large seed round for expansion",
		URL:         "https://example.com/acme-seed",
		Source:      "examplewire",
		Date:        "2025-06-03",
		Description: "Acme closed new funding to grow its platform across three markets.",
		ArticleBody: "Acme Technologies announced the round today. Investors from two funds joined. The startup plans rapid expansion.",
	})
	if err != nil {
		t.Fatalf("IngestOne: %v", err)
	}
	if outcome.Disposition != DispositionInserted {
		t.Fatalf("disposition = %q, want inserted: %+v", outcome.Disposition, outcome)
	}
	if outcome.Article == nil || outcome.Article.DisplayID != "st-n-1" {
		t.Fatalf("unexpected article ref: %+v", outcome.Article)
	}

	stored := store.articles[outcome.Article.ArticleID]
	if stored.Status != "pulled" {
		t.Fatalf("new article status = %q, want pulled", stored.Status)
	}
	if stored.QualityScore == nil || *stored.QualityScore <= 0 {
		t.Fatal("quality score not computed")
	}
	if stored.TopicCategory == nil || *stored.TopicCategory != "funding" {
		t.Fatalf("topic category = %v, want funding", stored.TopicCategory)
	}
}

func TestIngestOneInvalidInput(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	service := newTestService(t, store, Options{DedupEnabled: true})

	for _, item := range []Item{
		{Title: "", URL: "https://example.com/a"},
		{Title: "Title only", URL: "  "},
	} {
		outcome, err := service.IngestOne(context.Background(), item)
		if err != nil {
			t.Fatalf("IngestOne: %v", err)
		}
		if outcome.Disposition != DispositionInvalid {
			t.Fatalf("disposition = %q, want invalid_input", outcome.Disposition)
		}
	}
	if len(store.articles) != 0 {
		t.Fatal("invalid items must not be stored")
	}
}

func TestIngestOneExactDuplicate(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	service := newTestService(t, store, Options{DedupEnabled: true})

	item := Item{
		Title:       "Acme raises a large seed round for expansion",
		URL:         "https://example.com/acme-seed",
		Source:      "examplewire",
		Description: "Acme closed new funding.",
	}

	first, err := service.IngestOne(context.Background(), item)
	if err != nil {
		t.Fatalf("first IngestOne: %v", err)
	}
	if first.Disposition != DispositionInserted {
		t.Fatalf("first insert failed: %+v", first)
	}

	second, err := service.IngestOne(context.Background(), item)
	if err != nil {
		t.Fatalf("second IngestOne: %v", err)
	}
	if second.Disposition != DispositionDuplicate {
		t.Fatalf("disposition = %q, want duplicate", second.Disposition)
	}
	if second.Reason != dedup.ReasonHash {
		t.Fatalf("reason = %q, want %q", second.Reason, dedup.ReasonHash)
	}
	if second.Confidence != dedup.ConfidenceExact {
		t.Fatalf("confidence = %q, want exact", second.Confidence)
	}
	if second.Duplicate == nil || second.Duplicate.ArticleID != first.Article.ArticleID {
		t.Fatalf("duplicate ref = %+v", second.Duplicate)
	}
}

func TestIngestOneURLDuplicate(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	service := newTestService(t, store, Options{DedupEnabled: true})

	if _, err := service.IngestOne(context.Background(), Item{
		Title: "Original title about the announcement",
		URL:   "https://example.com/shared",
	}); err != nil {
		t.Fatalf("first IngestOne: %v", err)
	}

	outcome, err := service.IngestOne(context.Background(), Item{
		Title: "A rewritten headline for the same page",
		URL:   "https://example.com/shared",
	})
	if err != nil {
		t.Fatalf("second IngestOne: %v", err)
	}
	if outcome.Disposition != DispositionDuplicate || outcome.Reason != dedup.ReasonURL {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}
}

func TestIngestOneDedupDisabled(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	service, err := NewService(store, nil, insight.NewService(nil, zerolog.Nop()), Options{DedupEnabled: false}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	item := Item{Title: "Same content twice", URL: "https://example.com/one"}
	if _, err := service.IngestOne(context.Background(), item); err != nil {
		t.Fatalf("first IngestOne: %v", err)
	}

	item.URL = "https://example.com/two"
	outcome, err := service.IngestOne(context.Background(), item)
	if err != nil {
		t.Fatalf("second IngestOne: %v", err)
	}
	if outcome.Disposition != DispositionInserted {
		t.Fatalf("dedup disabled should insert identical content, got %+v", outcome)
	}
}

func TestIngestBatchCounts(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	service := newTestService(t, store, Options{DedupEnabled: true})

	items := []Item{
		{Title: "First fresh story about a funding round", URL: "https://example.com/1"},
		{Title: "First fresh story about a funding round", URL: "https://example.com/1"},
		{Title: "", URL: "https://example.com/3"},
		{Title: "Second fresh story on an unrelated acquisition deal", URL: "https://example.com/4"},
	}

	result, err := service.IngestBatch(context.Background(), "examplewire", items)
	if err != nil {
		t.Fatalf("IngestBatch: %v", err)
	}
	if result.Received != 4 || result.Inserted != 2 || result.Duplicates != 1 || result.Invalid != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}

	run, ok := store.runs[result.ScrapeRunID]
	if !ok {
		t.Fatal("scrape run not finished")
	}
	if run.ItemsInserted != 2 || run.ItemsDuplicate != 1 || run.ItemsInvalid != 1 {
		t.Fatalf("scrape run counters mismatch: %+v", run)
	}
}

func TestEnhanceRecomputesAnalysis(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	service := newTestService(t, store, Options{DedupEnabled: true})

	outcome, err := service.IngestOne(context.Background(), Item{
		Title:       "Acme announces a partnership with Beta Labs",
		URL:         "https://example.com/partnership",
		Description: "A collaboration between two startups.",
	})
	if err != nil {
		t.Fatalf("IngestOne: %v", err)
	}

	articleID := outcome.Article.ArticleID
	before := store.articles[articleID].UpdatedAt

	enhanced, err := service.Enhance(context.Background(), articleID)
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	if enhanced.TopicCategory == nil || *enhanced.TopicCategory != "partnership" {
		t.Fatalf("topic category = %v, want partnership", enhanced.TopicCategory)
	}
	if enhanced.Status != "pulled" {
		t.Fatalf("enhance must not change status, got %q", enhanced.Status)
	}
	if !store.articles[articleID].UpdatedAt.After(before) && !store.articles[articleID].UpdatedAt.Equal(before) {
		t.Fatal("analysis update not persisted")
	}
}

func TestEnhanceBackfillsBody(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	fetched := "Fetched page text. It has two sentences."
	checker, err := dedup.NewChecker(store, nil, nil, 50, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewChecker: %v", err)
	}
	service, err := NewService(store, checker, insight.NewService(nil, zerolog.Nop()), Options{
		DedupEnabled: true,
		BodyFetcher: func(_ context.Context, _ string, _ string) (string, error) {
			return fetched, nil
		},
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	outcome, err := service.IngestOne(context.Background(), Item{
		Title: "A headline without any body text at all",
		URL:   "https://example.com/no-body",
	})
	if err != nil {
		t.Fatalf("IngestOne: %v", err)
	}

	enhanced, err := service.Enhance(context.Background(), outcome.Article.ArticleID)
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	if enhanced.ArticleBody == nil || !strings.Contains(*enhanced.ArticleBody, "Fetched page text") {
		t.Fatalf("body not backfilled: %v", enhanced.ArticleBody)
	}
}

func TestEnhanceMissingArticle(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	service := newTestService(t, store, Options{DedupEnabled: true})

	if _, err := service.Enhance(context.Background(), 999); err == nil {
		t.Fatal("expected error for missing article")
	}
}
