package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"horse.fit/newsdesk/internal/cli"
)

func runStats(args []string) int {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	date := fs.String("date", defaultUTCDayString(), "UTC day (YYYY-MM-DD) for the throughput counters")
	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "stats does not accept positional arguments")
		return 2
	}

	day, err := parseUTCDate(*date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid --date: %v\n", err)
		return 2
	}

	outputFormat, err := parseOutputFormat(*format, outputFormatTable)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid format: %v\n", err)
		return 2
	}

	ctx, cancel, pool, err := connectReadPool(*timeout, envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer cancel()
	defer pool.Close()

	dayStart, dayEnd := utcDayBounds(day)
	stats, err := pool.QueryDeskStats(ctx, dayStart, dayEnd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to query desk stats: %v\n", err)
		return 1
	}

	if outputFormat == outputFormatJSON {
		if err := printJSON(stats); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	statusRows := make([][]string, 0, len(stats.ByStatus)+1)
	for _, row := range stats.ByStatus {
		statusRows = append(statusRows, []string{row.Status, fmt.Sprintf("%d", row.Articles)})
	}
	statusRows = append(statusRows, []string{"TOTAL", fmt.Sprintf("%d", stats.TotalArticles)})
	if err := writeTable([]string{"status", "articles"}, statusRows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render status table: %v\n", err)
		return 1
	}

	fmt.Println()
	sourceRows := make([][]string, 0, len(stats.BySource))
	for _, row := range stats.BySource {
		sourceRows = append(sourceRows, []string{row.Source, fmt.Sprintf("%d", row.Articles)})
	}
	if err := writeTable([]string{"source", "articles"}, sourceRows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render source table: %v\n", err)
		return 1
	}

	fmt.Println()
	avgQuality := ""
	if stats.AvgQualityScore != nil {
		avgQuality = fmt.Sprintf("%.1f", *stats.AvgQualityScore)
	}
	avgSentiment := ""
	if stats.AvgSentimentScore != nil {
		avgSentiment = fmt.Sprintf("%.2f", *stats.AvgSentimentScore)
	}
	throughputRows := [][]string{
		{"day", stats.Day},
		{"ingested_today", fmt.Sprintf("%d", stats.IngestedToday)},
		{"published_today", fmt.Sprintf("%d", stats.PublishedToday)},
		{"avg_quality_score", avgQuality},
		{"avg_sentiment_score", avgSentiment},
	}
	if err := writeTable([]string{"metric", "value"}, throughputRows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render throughput table: %v\n", err)
		return 1
	}

	return 0
}
