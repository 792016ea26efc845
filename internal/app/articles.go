package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/newsdesk/internal/cli"
	"horse.fit/newsdesk/internal/db"
)

func runArticles(args []string) int {
	fs := flag.NewFlagSet("articles", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	idFlag := fs.String("id", "", "Show one article in full (numeric or st-n-<n>)")
	status := fs.String("status", "", "Filter by lifecycle status")
	source := fs.String("source", "", "Filter by source")
	limit := fs.Int("limit", 50, "Maximum rows to list")
	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "articles does not accept positional arguments")
		return 2
	}

	outputFormat, err := parseOutputFormat(*format, outputFormatTable)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid format: %v\n", err)
		return 2
	}

	statusFilter := strings.ToLower(strings.TrimSpace(*status))
	if statusFilter != "" && !db.IsValidStatus(statusFilter) {
		fmt.Fprintf(os.Stderr, "invalid --status %q (expected one of %s)\n", *status, strings.Join(db.ArticleStatuses, ", "))
		return 2
	}
	if *limit < 1 {
		fmt.Fprintln(os.Stderr, "--limit must be at least 1")
		return 2
	}

	ctx, cancel, pool, err := connectReadPool(*timeout, envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer cancel()
	defer pool.Close()

	if strings.TrimSpace(*idFlag) != "" {
		articleID, err := parseArticleID(*idFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid --id: %v\n", err)
			return 2
		}

		detail, err := pool.GetArticle(ctx, articleID)
		if err != nil {
			if db.IsNoRows(err) {
				fmt.Fprintf(os.Stderr, "article %s not found\n", *idFlag)
				return 1
			}
			fmt.Fprintf(os.Stderr, "Failed to load article: %v\n", err)
			return 1
		}

		if outputFormat == outputFormatJSON {
			if err := printJSON(detail); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
				return 1
			}
			return 0
		}
		if err := writeArticleDetailTable(detail); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render output: %v\n", err)
			return 1
		}
		return 0
	}

	items, err := pool.ListArticles(ctx, db.ArticleListOptions{
		Status: statusFilter,
		Source: strings.TrimSpace(*source),
		Limit:  *limit,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list articles: %v\n", err)
		return 1
	}

	if outputFormat == outputFormatJSON {
		if err := printJSON(items); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		quality := ""
		if item.QualityScore != nil {
			quality = fmt.Sprintf("%d", *item.QualityScore)
		}
		rows = append(rows, []string{
			item.DisplayID,
			item.Status,
			item.Source,
			quality,
			pointerStringOrEmpty(item.TopicCategory),
			truncateForTable(item.Title, 60),
			formatUTCTimestamp(item.CreatedAt),
		})
	}
	if err := writeTable([]string{"id", "status", "source", "quality", "topic", "title", "created_at"}, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render table: %v\n", err)
		return 1
	}
	return 0
}

func writeArticleDetailTable(detail *db.ArticleDetail) error {
	quality := ""
	if detail.QualityScore != nil {
		quality = fmt.Sprintf("%d", *detail.QualityScore)
	}
	sentiment := ""
	if detail.SentimentScore != nil {
		sentiment = fmt.Sprintf("%.2f", *detail.SentimentScore)
	}
	readability := ""
	if detail.ReadabilityScore != nil {
		readability = fmt.Sprintf("%.1f", *detail.ReadabilityScore)
	}

	rows := [][]string{
		{"id", detail.DisplayID},
		{"uuid", detail.ArticleUUID},
		{"title", truncateForTable(detail.Title, 100)},
		{"url", detail.URL},
		{"source", detail.Source},
		{"status", detail.Status},
		{"language", detail.Language},
		{"author", pointerStringOrEmpty(detail.Author)},
		{"category", pointerStringOrEmpty(detail.Category)},
		{"topic", pointerStringOrEmpty(detail.TopicCategory)},
		{"quality", quality},
		{"sentiment", sentiment},
		{"readability", readability},
		{"summary", truncateForTable(pointerStringOrEmpty(detail.AISummary), 100)},
		{"tags", truncateForTable(string(detail.AITags), 100)},
		{"entities", truncateForTable(string(detail.KeyEntities), 100)},
		{"publish_date", formatUTCTimestampPtr(detail.PublishDate)},
		{"published_at", formatUTCTimestampPtr(detail.PublishedAt)},
		{"created_at", formatUTCTimestamp(detail.CreatedAt)},
		{"updated_at", formatUTCTimestamp(detail.UpdatedAt)},
	}
	return writeTable([]string{"field", "value"}, rows)
}
