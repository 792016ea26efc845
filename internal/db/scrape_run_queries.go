package db

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ScrapeRunResult carries the final counters for one ingest batch.
type ScrapeRunResult struct {
	ItemsReceived  int
	ItemsInserted  int
	ItemsDuplicate int
	ItemsInvalid   int
	ErrorMessage   *string
}

// StartScrapeRun opens a scrape run row and returns its ID.
func (p *Pool) StartScrapeRun(ctx context.Context, source string, now time.Time) (int64, error) {
	const q = `
INSERT INTO newsdesk.scrape_runs (source, started_at, status)
VALUES ($1, $2, 'running')
RETURNING scrape_run_id
`

	var runID int64
	if err := p.QueryRow(ctx, q, strings.TrimSpace(source), now.UTC()).Scan(&runID); err != nil {
		return 0, fmt.Errorf("start scrape run: %w", err)
	}
	return runID, nil
}

// FinishScrapeRun closes a scrape run with its counters. Status is failed
// when an error message is present, succeeded otherwise.
func (p *Pool) FinishScrapeRun(ctx context.Context, runID int64, result ScrapeRunResult, now time.Time) error {
	status := "succeeded"
	if result.ErrorMessage != nil && strings.TrimSpace(*result.ErrorMessage) != "" {
		status = "failed"
	}

	const q = `
UPDATE newsdesk.scrape_runs
SET
	finished_at = $2,
	status = $3,
	items_received = $4,
	items_inserted = $5,
	items_duplicate = $6,
	items_invalid = $7,
	error_message = $8
WHERE scrape_run_id = $1
`

	tag, err := p.Exec(ctx, q,
		runID,
		now.UTC(),
		status,
		result.ItemsReceived,
		result.ItemsInserted,
		result.ItemsDuplicate,
		result.ItemsInvalid,
		result.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("finish scrape run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}
