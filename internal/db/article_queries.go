package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// NewArticleRecord is the insert payload for a freshly analyzed article.
type NewArticleRecord struct {
	Title       string
	URL         string
	Source      string
	Author      *string
	PublishDate *time.Time
	Category    *string
	Description *string
	ArticleBody *string
	ImageURL    *string
	ContentHash string
	Language    string

	QualityScore     *int
	AITags           json.RawMessage
	AISummary        *string
	SentimentScore   *float64
	ReadabilityScore *float64
	KeyEntities      json.RawMessage
	TopicCategory    *string
}

// ArticleRef identifies an existing article matched during deduplication.
type ArticleRef struct {
	ArticleID int64  `json:"article_id"`
	DisplayID string `json:"display_id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
}

// DedupCandidate carries the fields the similarity stages compare against.
type DedupCandidate struct {
	ArticleID   int64
	DisplayID   string
	Title       string
	Description string
	ArticleBody string
	Language    string
	URL         string
}

// ArticleListOptions controls article listing queries.
type ArticleListOptions struct {
	Status string
	Source string
	Limit  int
}

// ArticleListItem is the read model for article listings.
type ArticleListItem struct {
	ArticleID     int64      `json:"article_id"`
	DisplayID     string     `json:"display_id"`
	Title         string     `json:"title"`
	URL           string     `json:"url"`
	Source        string     `json:"source"`
	Status        string     `json:"status"`
	QualityScore  *int       `json:"quality_score,omitempty"`
	TopicCategory *string    `json:"topic_category,omitempty"`
	PublishDate   *time.Time `json:"publish_date,omitempty"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ArticleDetail is the full read model for a single article.
type ArticleDetail struct {
	ArticleID        int64           `json:"article_id"`
	ArticleUUID      string          `json:"article_uuid"`
	DisplayID        string          `json:"display_id"`
	Title            string          `json:"title"`
	URL              string          `json:"url"`
	Source           string          `json:"source"`
	Author           *string         `json:"author,omitempty"`
	PublishDate      *time.Time      `json:"publish_date,omitempty"`
	Category         *string         `json:"category,omitempty"`
	Description      *string         `json:"description,omitempty"`
	ArticleBody      *string         `json:"article_body,omitempty"`
	ImageURL         *string         `json:"image_url,omitempty"`
	Status           string          `json:"status"`
	ContentHash      string          `json:"content_hash"`
	Language         string          `json:"language"`
	QualityScore     *int            `json:"quality_score,omitempty"`
	AITags           json.RawMessage `json:"ai_tags,omitempty"`
	AISummary        *string         `json:"ai_summary,omitempty"`
	SentimentScore   *float64        `json:"sentiment_score,omitempty"`
	ReadabilityScore *float64        `json:"readability_score,omitempty"`
	KeyEntities      json.RawMessage `json:"key_entities,omitempty"`
	TopicCategory    *string         `json:"topic_category,omitempty"`
	PublishedAt      *time.Time      `json:"published_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// InsertArticle inserts a new article and assigns its display ID in the same
// transaction. Unique violations on url or content_hash map to ErrDuplicate.
func (p *Pool) InsertArticle(ctx context.Context, rec NewArticleRecord, now time.Time) (*ArticleRef, error) {
	title := strings.TrimSpace(rec.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	articleURL := strings.TrimSpace(rec.URL)
	if articleURL == "" {
		return nil, fmt.Errorf("url is required")
	}
	if strings.TrimSpace(rec.ContentHash) == "" {
		return nil, fmt.Errorf("content hash is required")
	}

	language := strings.TrimSpace(rec.Language)
	if language == "" {
		language = "und"
	}

	tx, err := p.BeginTx(ctx, TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	const insertQ = `
INSERT INTO newsdesk.articles (
	title, url, source, author, publish_date, category, description,
	article_body, image_url, status, content_hash, language,
	quality_score, ai_tags, ai_summary, sentiment_score,
	readability_score, key_entities, topic_category,
	created_at, updated_at
) VALUES (
	$1, $2, $3, $4, $5, $6, $7,
	$8, $9, 'pulled', $10, $11,
	$12, $13, $14, $15,
	$16, $17, $18,
	$19, $19
)
RETURNING article_id
`

	var articleID int64
	err = tx.QueryRow(ctx, insertQ,
		title,
		articleURL,
		strings.TrimSpace(rec.Source),
		rec.Author,
		rec.PublishDate,
		rec.Category,
		rec.Description,
		rec.ArticleBody,
		rec.ImageURL,
		rec.ContentHash,
		language,
		rec.QualityScore,
		jsonbOrNil(rec.AITags),
		rec.AISummary,
		rec.SentimentScore,
		rec.ReadabilityScore,
		jsonbOrNil(rec.KeyEntities),
		rec.TopicCategory,
		now.UTC(),
	).Scan(&articleID)
	if err != nil {
		if IsDuplicate(err) {
			return nil, fmt.Errorf("insert article: %w", ErrDuplicate)
		}
		return nil, fmt.Errorf("insert article: %w", err)
	}

	displayID := fmt.Sprintf("st-n-%d", articleID)

	const displayQ = `
UPDATE newsdesk.articles
SET display_id = $2
WHERE article_id = $1
`
	if _, err := tx.Exec(ctx, displayQ, articleID, displayID); err != nil {
		return nil, fmt.Errorf("assign display id: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit article insert: %w", err)
	}

	return &ArticleRef{
		ArticleID: articleID,
		DisplayID: displayID,
		Title:     title,
		URL:       articleURL,
	}, nil
}

// FindByContentHash returns the article holding the given fingerprint, or
// ErrNoRows.
func (p *Pool) FindByContentHash(ctx context.Context, contentHash string) (*ArticleRef, error) {
	const q = `
SELECT article_id, display_id, title, url
FROM newsdesk.articles
WHERE content_hash = $1
LIMIT 1
`
	var ref ArticleRef
	if err := p.QueryRow(ctx, q, contentHash).Scan(&ref.ArticleID, &ref.DisplayID, &ref.Title, &ref.URL); err != nil {
		return nil, err
	}
	return &ref, nil
}

// FindByURL returns the article with the given URL, or ErrNoRows.
func (p *Pool) FindByURL(ctx context.Context, articleURL string) (*ArticleRef, error) {
	const q = `
SELECT article_id, display_id, title, url
FROM newsdesk.articles
WHERE url = $1
LIMIT 1
`
	var ref ArticleRef
	if err := p.QueryRow(ctx, q, articleURL).Scan(&ref.ArticleID, &ref.DisplayID, &ref.Title, &ref.URL); err != nil {
		return nil, err
	}
	return &ref, nil
}

// RecentCandidates returns the most recent articles to compare an incoming
// item against. Source narrows the window when non-empty.
func (p *Pool) RecentCandidates(ctx context.Context, source string, limit int) ([]DedupCandidate, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be > 0")
	}

	const q = `
SELECT
	a.article_id,
	a.display_id,
	a.title,
	COALESCE(a.description, ''),
	COALESCE(LEFT(a.article_body, 500), ''),
	a.language,
	a.url
FROM newsdesk.articles a
WHERE ($1 = '' OR a.source = $1)
ORDER BY a.created_at DESC, a.article_id DESC
LIMIT $2
`

	rows, err := p.Query(ctx, q, strings.TrimSpace(source), limit)
	if err != nil {
		return nil, fmt.Errorf("query dedup candidates: %w", err)
	}
	defer rows.Close()

	items := make([]DedupCandidate, 0, limit)
	for rows.Next() {
		var row DedupCandidate
		if err := rows.Scan(&row.ArticleID, &row.DisplayID, &row.Title, &row.Description, &row.ArticleBody, &row.Language, &row.URL); err != nil {
			return nil, fmt.Errorf("scan candidate row: %w", err)
		}
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidate rows: %w", err)
	}

	return items, nil
}

// GetArticle loads the full article row by numeric ID.
func (p *Pool) GetArticle(ctx context.Context, articleID int64) (*ArticleDetail, error) {
	const q = `
SELECT
	a.article_id,
	a.article_uuid::text,
	a.display_id,
	a.title,
	a.url,
	a.source,
	a.author,
	a.publish_date,
	a.category,
	a.description,
	a.article_body,
	a.image_url,
	a.status,
	a.content_hash,
	a.language,
	a.quality_score,
	a.ai_tags,
	a.ai_summary,
	a.sentiment_score,
	a.readability_score,
	a.key_entities,
	a.topic_category,
	a.published_at,
	a.created_at,
	a.updated_at
FROM newsdesk.articles a
WHERE a.article_id = $1
`

	var row ArticleDetail
	err := p.QueryRow(ctx, q, articleID).Scan(
		&row.ArticleID,
		&row.ArticleUUID,
		&row.DisplayID,
		&row.Title,
		&row.URL,
		&row.Source,
		&row.Author,
		&row.PublishDate,
		&row.Category,
		&row.Description,
		&row.ArticleBody,
		&row.ImageURL,
		&row.Status,
		&row.ContentHash,
		&row.Language,
		&row.QualityScore,
		&row.AITags,
		&row.AISummary,
		&row.SentimentScore,
		&row.ReadabilityScore,
		&row.KeyEntities,
		&row.TopicCategory,
		&row.PublishedAt,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListArticles lists articles newest-first with optional status and source
// filters.
func (p *Pool) ListArticles(ctx context.Context, opts ArticleListOptions) ([]ArticleListItem, error) {
	if opts.Limit <= 0 {
		return nil, fmt.Errorf("limit must be > 0")
	}

	const q = `
SELECT
	a.article_id,
	a.display_id,
	a.title,
	a.url,
	a.source,
	a.status,
	a.quality_score,
	a.topic_category,
	a.publish_date,
	a.published_at,
	a.created_at
FROM newsdesk.articles a
WHERE ($1 = '' OR a.status = $1)
  AND ($2 = '' OR a.source = $2)
ORDER BY a.created_at DESC, a.article_id DESC
LIMIT $3
`

	rows, err := p.Query(ctx, q,
		strings.ToLower(strings.TrimSpace(opts.Status)),
		strings.TrimSpace(opts.Source),
		opts.Limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	items := make([]ArticleListItem, 0, opts.Limit)
	for rows.Next() {
		var row ArticleListItem
		if err := rows.Scan(
			&row.ArticleID,
			&row.DisplayID,
			&row.Title,
			&row.URL,
			&row.Source,
			&row.Status,
			&row.QualityScore,
			&row.TopicCategory,
			&row.PublishDate,
			&row.PublishedAt,
			&row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan article row: %w", err)
		}
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate article rows: %w", err)
	}

	return items, nil
}

// ListDistinctSources returns the sources present in storage, alphabetically.
func (p *Pool) ListDistinctSources(ctx context.Context) ([]string, error) {
	const q = `
SELECT DISTINCT a.source
FROM newsdesk.articles a
WHERE a.source <> ''
ORDER BY 1
`

	rows, err := p.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query distinct sources: %w", err)
	}
	defer rows.Close()

	sources := make([]string, 0, 16)
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("scan source row: %w", err)
		}
		sources = append(sources, source)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate source rows: %w", err)
	}

	return sources, nil
}

// ClearAllArticles removes every article and activity row. Destructive and
// intended for operator resets only.
func (p *Pool) ClearAllArticles(ctx context.Context) (int64, error) {
	tx, err := p.BeginTx(ctx, TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	tag, err := tx.Exec(ctx, `DELETE FROM newsdesk.articles`)
	if err != nil {
		return 0, fmt.Errorf("delete articles: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM newsdesk.activity_logs`); err != nil {
		return 0, fmt.Errorf("delete activity logs: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit clear: %w", err)
	}

	return tag.RowsAffected(), nil
}

func jsonbOrNil(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
