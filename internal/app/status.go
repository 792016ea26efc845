package app

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/newsdesk/internal/cli"
	"horse.fit/newsdesk/internal/db"
	"horse.fit/newsdesk/internal/globaltime"
)

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	ids := fs.String("ids", "", "Comma-separated article ids (numeric or st-n-<n>)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "status requires exactly one target status (%s)\n", strings.Join(db.ArticleStatuses, ", "))
		return 2
	}

	targetStatus := strings.ToLower(strings.TrimSpace(fs.Arg(0)))
	if !db.IsValidStatus(targetStatus) {
		fmt.Fprintf(os.Stderr, "invalid status %q (expected one of %s)\n", fs.Arg(0), strings.Join(db.ArticleStatuses, ", "))
		return 2
	}

	articleIDs, err := parseArticleIDList(*ids)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid --ids: %v\n", err)
		return 2
	}

	ctx, cancel, pool, err := connectReadPool(*timeout, envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer cancel()
	defer pool.Close()

	updated, err := pool.UpdateArticleStatus(ctx, articleIDs, targetStatus, globaltime.UTC())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status update failed: %v\n", err)
		return 1
	}

	details, _ := json.Marshal(map[string]any{
		"status":    targetStatus,
		"requested": len(articleIDs),
		"updated":   updated,
	})
	if err := pool.InsertActivityLog(ctx, "status_changed", nil, details, globaltime.UTC()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: activity log failed: %v\n", err)
	}

	fmt.Printf("status=%s requested=%d updated=%d\n", targetStatus, len(articleIDs), updated)
	return 0
}
