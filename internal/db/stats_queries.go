package db

import (
	"context"
	"fmt"
	"time"
)

// StatsSourceCount stores per-source counts.
type StatsSourceCount struct {
	Source   string `json:"source"`
	Articles int64  `json:"articles"`
}

// StatsStatusCount stores per-status counts.
type StatsStatusCount struct {
	Status   string `json:"status"`
	Articles int64  `json:"articles"`
}

// DeskStats is the read model returned by the stats command.
type DeskStats struct {
	Day               string             `json:"day"`
	TotalArticles     int64              `json:"total_articles"`
	ByStatus          []StatsStatusCount `json:"by_status"`
	BySource          []StatsSourceCount `json:"by_source"`
	IngestedToday     int64              `json:"ingested_today"`
	PublishedToday    int64              `json:"published_today"`
	AvgQualityScore   *float64           `json:"avg_quality_score,omitempty"`
	AvgSentimentScore *float64           `json:"avg_sentiment_score,omitempty"`
}

// QueryDeskStats returns totals, per-status and per-source breakdowns, and
// daily throughput for the UTC day [dayStart, dayEnd).
func (p *Pool) QueryDeskStats(ctx context.Context, dayStart, dayEnd time.Time) (*DeskStats, error) {
	startUTC := dayStart.UTC()
	endUTC := dayEnd.UTC()
	if !startUTC.Before(endUTC) {
		return nil, fmt.Errorf("dayStart must be before dayEnd")
	}

	stats := &DeskStats{
		Day:      startUTC.Format("2006-01-02"),
		ByStatus: make([]StatsStatusCount, 0, 4),
		BySource: make([]StatsSourceCount, 0, 16),
	}

	const statusQuery = `
SELECT a.status, COUNT(*)::BIGINT
FROM newsdesk.articles a
GROUP BY a.status
ORDER BY 1
`

	rows, err := p.Query(ctx, statusQuery)
	if err != nil {
		return nil, fmt.Errorf("query stats by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row StatsStatusCount
		if err := rows.Scan(&row.Status, &row.Articles); err != nil {
			return nil, fmt.Errorf("scan status stats row: %w", err)
		}
		stats.ByStatus = append(stats.ByStatus, row)
		stats.TotalArticles += row.Articles
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status stats rows: %w", err)
	}

	const sourceQuery = `
SELECT a.source, COUNT(*)::BIGINT
FROM newsdesk.articles a
GROUP BY a.source
ORDER BY 2 DESC, 1
`

	sourceRows, err := p.Query(ctx, sourceQuery)
	if err != nil {
		return nil, fmt.Errorf("query stats by source: %w", err)
	}
	defer sourceRows.Close()

	for sourceRows.Next() {
		var row StatsSourceCount
		if err := sourceRows.Scan(&row.Source, &row.Articles); err != nil {
			return nil, fmt.Errorf("scan source stats row: %w", err)
		}
		stats.BySource = append(stats.BySource, row)
	}
	if err := sourceRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate source stats rows: %w", err)
	}

	const throughputQuery = `
SELECT
	(SELECT COUNT(*) FROM newsdesk.articles a WHERE a.created_at >= $1 AND a.created_at < $2) AS ingested_today,
	(SELECT COUNT(*) FROM newsdesk.articles a WHERE a.published_at >= $1 AND a.published_at < $2) AS published_today,
	(SELECT AVG(a.quality_score) FROM newsdesk.articles a WHERE a.quality_score IS NOT NULL) AS avg_quality,
	(SELECT AVG(a.sentiment_score) FROM newsdesk.articles a WHERE a.sentiment_score IS NOT NULL) AS avg_sentiment
`

	if err := p.QueryRow(ctx, throughputQuery, startUTC, endUTC).Scan(
		&stats.IngestedToday,
		&stats.PublishedToday,
		&stats.AvgQualityScore,
		&stats.AvgSentimentScore,
	); err != nil {
		return nil, fmt.Errorf("query stats throughput: %w", err)
	}

	return stats, nil
}
