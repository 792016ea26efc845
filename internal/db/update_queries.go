package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ArticleStatuses is the editorial lifecycle in its canonical order.
var ArticleStatuses = []string{"pulled", "approved", "published", "rejected"}

// IsValidStatus reports whether status names a lifecycle state.
func IsValidStatus(status string) bool {
	normalized := strings.ToLower(strings.TrimSpace(status))
	for _, s := range ArticleStatuses {
		if s == normalized {
			return true
		}
	}
	return false
}

// UpdateArticleStatus moves the given articles to a new lifecycle status and
// returns how many rows actually changed. Articles already in the target
// status are left untouched, which makes the operation idempotent. Moving to
// published stamps published_at once; the stamp survives later transitions.
func (p *Pool) UpdateArticleStatus(ctx context.Context, articleIDs []int64, status string, now time.Time) (int64, error) {
	normalized := strings.ToLower(strings.TrimSpace(status))
	if !IsValidStatus(normalized) {
		return 0, fmt.Errorf("invalid status %q", status)
	}
	if len(articleIDs) == 0 {
		return 0, nil
	}

	const q = `
UPDATE newsdesk.articles
SET
	status = $2,
	published_at = CASE
		WHEN $2 = 'published' AND published_at IS NULL THEN $3
		ELSE published_at
	END,
	updated_at = $3
WHERE article_id = ANY($1::bigint[])
  AND status <> $2
`

	tag, err := p.Exec(ctx, q, int64Array(articleIDs), normalized, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("update article status: %w", err)
	}
	return tag.RowsAffected(), nil
}

// AnalysisUpdate carries re-computed analysis facets for an existing article.
type AnalysisUpdate struct {
	QualityScore     *int
	AITags           json.RawMessage
	AISummary        *string
	SentimentScore   *float64
	ReadabilityScore *float64
	KeyEntities      json.RawMessage
	TopicCategory    *string
	ArticleBody      *string
}

// UpdateArticleAnalysis overwrites the analysis facets of one article. The
// scraped fields and the lifecycle status are never touched here.
func (p *Pool) UpdateArticleAnalysis(ctx context.Context, articleID int64, upd AnalysisUpdate, now time.Time) error {
	const q = `
UPDATE newsdesk.articles
SET
	quality_score = $2,
	ai_tags = $3,
	ai_summary = $4,
	sentiment_score = $5,
	readability_score = $6,
	key_entities = $7,
	topic_category = $8,
	article_body = COALESCE($9, article_body),
	updated_at = $10
WHERE article_id = $1
`

	tag, err := p.Exec(ctx, q,
		articleID,
		upd.QualityScore,
		jsonbOrNil(upd.AITags),
		upd.AISummary,
		upd.SentimentScore,
		upd.ReadabilityScore,
		jsonbOrNil(upd.KeyEntities),
		upd.TopicCategory,
		upd.ArticleBody,
		now.UTC(),
	)
	if err != nil {
		return fmt.Errorf("update article analysis: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}

// int64Array renders IDs as a Postgres bigint array literal. Raw SQL through
// gorm does not pass Go slices to ANY() directly.
func int64Array(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%d", id))
	}
	return "{" + strings.Join(parts, ",") + "}"
}
