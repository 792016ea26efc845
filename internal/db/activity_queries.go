package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ActivityEntry is the read model for the activity feed.
type ActivityEntry struct {
	ActivityLogID int64           `json:"activity_log_id"`
	Action        string          `json:"action"`
	ArticleID     *int64          `json:"article_id,omitempty"`
	Details       json.RawMessage `json:"details,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// InsertActivityLog appends one activity row.
func (p *Pool) InsertActivityLog(ctx context.Context, action string, articleID *int64, details json.RawMessage, now time.Time) error {
	trimmed := strings.TrimSpace(action)
	if trimmed == "" {
		return fmt.Errorf("action is required")
	}

	const q = `
INSERT INTO newsdesk.activity_logs (action, article_id, details, created_at)
VALUES ($1, $2, $3, $4)
`

	if _, err := p.Exec(ctx, q, trimmed, articleID, jsonbOrNil(details), now.UTC()); err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

// ListActivity returns the newest activity rows.
func (p *Pool) ListActivity(ctx context.Context, limit int) ([]ActivityEntry, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be > 0")
	}

	const q = `
SELECT
	l.activity_log_id,
	l.action,
	l.article_id,
	l.details,
	l.created_at
FROM newsdesk.activity_logs l
ORDER BY l.created_at DESC, l.activity_log_id DESC
LIMIT $1
`

	rows, err := p.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	defer rows.Close()

	items := make([]ActivityEntry, 0, limit)
	for rows.Next() {
		var row ActivityEntry
		if err := rows.Scan(&row.ActivityLogID, &row.Action, &row.ArticleID, &row.Details, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity row: %w", err)
		}
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity rows: %w", err)
	}

	return items, nil
}
