package app

import (
	"fmt"
	"os"
	"strings"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "health":
		return runHealth(args[1:])
	case "validate":
		return runValidate(args[1:])
	case "ingest":
		return runIngest(args[1:])
	case "enhance":
		return runEnhance(args[1:])
	case "status":
		return runStatus(args[1:])
	case "articles":
		return runArticles(args[1:])
	case "sources":
		return runSources(args[1:])
	case "activity":
		return runActivity(args[1:])
	case "stats":
		return runStats(args[1:])
	case "clear":
		return runClear(args[1:])
	case "serve":
		return runServe(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "newsdesk CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  newsdesk <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  health    Verify database connectivity")
	fmt.Fprintln(os.Stderr, "  validate  Validate scraped item JSON files against the payload schema")
	fmt.Fprintln(os.Stderr, "  ingest    Run scraped items through dedup, analysis, and storage")
	fmt.Fprintln(os.Stderr, "  enhance   Re-run analysis and insight for a stored article")
	fmt.Fprintln(os.Stderr, "  status    Move articles through the editorial lifecycle")
	fmt.Fprintln(os.Stderr, "  articles  List stored articles or show one in full")
	fmt.Fprintln(os.Stderr, "  sources   List distinct article sources")
	fmt.Fprintln(os.Stderr, "  activity  Show the recent activity feed")
	fmt.Fprintln(os.Stderr, "  stats     Show desk totals and daily throughput")
	fmt.Fprintln(os.Stderr, "  clear     Delete every article and activity row")
	fmt.Fprintln(os.Stderr, "  serve     Start the Echo API server")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"newsdesk <command> -h\" for command-specific flags.")
}
