package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"horse.fit/newsdesk/internal/db"
	"horse.fit/newsdesk/internal/globaltime"
	"horse.fit/newsdesk/internal/ingestion"
	payloadschema "horse.fit/newsdesk/schema"
)

const maxIngestBodyBytes = 8 * 1024 * 1024

type ingestRequest struct {
	Source string            `json:"source"`
	Items  []json.RawMessage `json:"items"`
}

type statusUpdateRequest struct {
	IDs    []int64 `json:"ids"`
	Status string  `json:"status"`
}

// handleIngest accepts a batch envelope {"source": ..., "items": [...]} or a
// bare array of scraped items. Every item is schema-validated before the
// batch runs.
func (s *Server) handleIngest(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxIngestBodyBytes+1))
	if err != nil {
		return failValidation(c, map[string]string{"body": "could not be read"})
	}
	if len(body) > maxIngestBodyBytes {
		return fail(c, http.StatusRequestEntityTooLarge, "Request body too large", nil)
	}

	source, rawItems, err := decodeIngestRequest(body)
	if err != nil {
		return failValidation(c, map[string]string{"body": err.Error()})
	}

	items := make([]ingestion.Item, 0, len(rawItems))
	for i, raw := range rawItems {
		scraped, err := payloadschema.ValidateScrapedItemPayload(raw)
		if err != nil {
			return failValidation(c, map[string]string{
				fmt.Sprintf("items[%d]", i): err.Error(),
			})
		}
		items = append(items, ingestion.Item{
			Title:       scraped.Title,
			URL:         scraped.URL,
			Source:      scraped.Source,
			Author:      scraped.Author,
			Date:        scraped.Date,
			Category:    scraped.Category,
			Description: scraped.Description,
			ArticleBody: scraped.ArticleBody,
			ImageURL:    scraped.ImageURL,
		})
	}

	result, err := s.ingest.IngestBatch(c.Request().Context(), source, items)
	if err != nil {
		s.logger.Error().Err(err).Str("source", source).Msg("ingest batch failed")
		return internalError(c, "Ingest failed")
	}

	return successWithStatus(c, http.StatusCreated, result)
}

func decodeIngestRequest(body []byte) (string, []json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "", nil, errors.New("payload is required")
	}

	if strings.HasPrefix(trimmed, "[") {
		var rawItems []json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &rawItems); err != nil {
			return "", nil, fmt.Errorf("invalid JSON array: %v", err)
		}
		if len(rawItems) == 0 {
			return "", nil, errors.New("items must not be empty")
		}
		return "api", rawItems, nil
	}

	var req ingestRequest
	if err := json.Unmarshal([]byte(trimmed), &req); err != nil {
		return "", nil, fmt.Errorf("invalid JSON object: %v", err)
	}
	if len(req.Items) == 0 {
		return "", nil, errors.New("items must not be empty")
	}
	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = "api"
	}
	return source, req.Items, nil
}

func (s *Server) handleEnhance(c echo.Context) error {
	articleID, err := parseArticleIDParam(c.Param("article_id"))
	if err != nil {
		return failValidation(c, map[string]string{"article_id": err.Error()})
	}

	detail, err := s.ingest.Enhance(c.Request().Context(), articleID)
	if err != nil {
		if db.IsNoRows(err) {
			return failNotFound(c, "Article not found")
		}
		s.logger.Error().Err(err).Int64("article_id", articleID).Msg("enhance failed")
		return internalError(c, "Enhance failed")
	}
	return success(c, detail)
}

func (s *Server) handleStatusUpdate(c echo.Context) error {
	var req statusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return failValidation(c, map[string]string{"body": "must be a JSON object with ids and status"})
	}

	status := strings.TrimSpace(strings.ToLower(req.Status))
	if !db.IsValidStatus(status) {
		return failValidation(c, map[string]string{
			"status": fmt.Sprintf("must be one of %s", strings.Join(db.ArticleStatuses, ", ")),
		})
	}

	ids := dedupeIDs(req.IDs)
	if len(ids) == 0 {
		return failValidation(c, map[string]string{"ids": "must contain at least one positive article id"})
	}

	updated, err := s.pool.UpdateArticleStatus(c.Request().Context(), ids, status, globaltime.UTC())
	if err != nil {
		s.logger.Error().Err(err).Str("status", status).Msg("status update failed")
		return internalError(c, "Status update failed")
	}

	details, _ := json.Marshal(map[string]any{
		"status":    status,
		"requested": len(ids),
		"updated":   updated,
	})
	if err := s.pool.InsertActivityLog(c.Request().Context(), "status_changed", nil, details, globaltime.UTC()); err != nil {
		s.logger.Warn().Err(err).Msg("activity log write failed")
	}

	return success(c, map[string]any{
		"status":    status,
		"requested": len(ids),
		"updated":   updated,
	})
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
