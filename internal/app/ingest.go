package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/newsdesk/internal/cli"
	"horse.fit/newsdesk/internal/config"
	"horse.fit/newsdesk/internal/db"
	"horse.fit/newsdesk/internal/ingestion"
	"horse.fit/newsdesk/internal/logging"
	payloadschema "horse.fit/newsdesk/schema"
)

func runIngest(args []string) int {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 2*time.Minute, "Command timeout")
	source := fs.String("source", "manual_cli", "Scrape run source label")
	payload := fs.String("payload", "", "Scraped item JSON (single object or array)")
	payloadFile := fs.String("payload-file", "", "Path to payload JSON file (overrides --payload)")
	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	outputFormat, err := parseOutputFormat(*format, outputFormatTable)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid format: %v\n", err)
		return 2
	}

	payloadJSON, err := loadJSONInput(*payload, *payloadFile, "payload")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid payload: %v\n", err)
		return 2
	}

	items, err := decodeScrapedItems(payloadJSON)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid payload: %v\n", err)
		return 2
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		return 1
	}
	defer pool.Close()

	svc, err := buildIngestionService(cfg, pool, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build ingestion service: %v\n", err)
		return 1
	}

	result, err := svc.IngestBatch(ctx, strings.TrimSpace(*source), items)
	if err != nil {
		if result != nil {
			reportBatch(result, outputFormat)
		}
		fmt.Fprintf(os.Stderr, "Ingest failed: %v\n", err)
		return 1
	}

	if err := reportBatch(result, outputFormat); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render output: %v\n", err)
		return 1
	}
	return 0
}

// decodeScrapedItems accepts either one scraped item or an array of them,
// validating each against the payload schema.
func decodeScrapedItems(payload json.RawMessage) ([]ingestion.Item, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("payload is empty")
	}

	var rawItems []json.RawMessage
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &rawItems); err != nil {
			return nil, fmt.Errorf("decode payload array: %w", err)
		}
	} else {
		rawItems = []json.RawMessage{trimmed}
	}
	if len(rawItems) == 0 {
		return nil, fmt.Errorf("payload array is empty")
	}

	items := make([]ingestion.Item, 0, len(rawItems))
	for i, raw := range rawItems {
		scraped, err := payloadschema.ValidateScrapedItemPayload(raw)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
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
	return items, nil
}

func reportBatch(result *ingestion.BatchResult, outputFormat string) error {
	if outputFormat == outputFormatJSON {
		return printJSON(result)
	}

	rows := make([][]string, 0, len(result.Outcomes))
	for _, outcome := range result.Outcomes {
		displayID := ""
		title := ""
		if outcome.Article != nil {
			displayID = outcome.Article.DisplayID
			title = outcome.Article.Title
		} else if outcome.Duplicate != nil {
			displayID = outcome.Duplicate.DisplayID
			title = outcome.Duplicate.Title
		}
		rows = append(rows, []string{
			outcome.Disposition,
			outcome.Reason,
			outcome.Confidence,
			displayID,
			truncateForTable(title, 60),
		})
	}
	if err := writeTable([]string{"disposition", "reason", "confidence", "article", "title"}, rows); err != nil {
		return err
	}

	fmt.Printf("\nrun_id=%d received=%d inserted=%d duplicates=%d invalid=%d\n",
		result.ScrapeRunID, result.Received, result.Inserted, result.Duplicates, result.Invalid)
	return nil
}
