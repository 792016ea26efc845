package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"horse.fit/newsdesk/internal/cli"
)

func runClear(args []string) int {
	fs := flag.NewFlagSet("clear", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 1*time.Minute, "Command timeout")
	yes := fs.Bool("yes", false, "Confirm deleting every article and activity row")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "clear does not accept positional arguments")
		return 2
	}
	if !*yes {
		fmt.Fprintln(os.Stderr, "clear deletes every article and activity row; re-run with --yes to confirm")
		return 2
	}

	ctx, cancel, pool, err := connectReadPool(*timeout, envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer cancel()
	defer pool.Close()

	deleted, err := pool.ClearAllArticles(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Clear failed: %v\n", err)
		return 1
	}

	fmt.Printf("deleted_articles=%d\n", deleted)
	return 0
}
