// Command attsplit splits an account statement's wireless charges among the
// configured phone lines and reports or notifies the results.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/LXXHXX/att-bill-splitter/internal/config"
	"github.com/LXXHXX/att-bill-splitter/internal/ledger/sqlite"
	"github.com/LXXHXX/att-bill-splitter/pkg/logging"
)

const usageText = `Usage: attsplit <command> [arguments]

Commands:
  split <statement-file>...   parse statement dumps and split their charges
  summary <month> [year]      print per-user wireless totals for a cycle
  details <month> [year]      print per-user charge type breakdowns
  notify <month> [year]       text each user their charge details

Configuration is read from config.json (override with ATTSPLIT_CONFIG).
`

func main() {
	logger := logging.Setup()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(2)
	}
	command, args := os.Args[1], os.Args[2:]

	cfg, err := config.Load(configPath())
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open ledger database", "error", err, "path", cfg.DBPath)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	var runErr error
	switch command {
	case "split":
		runErr = runSplit(ctx, logger, cfg, store, args)
	case "summary":
		runErr = runReport(ctx, logger, store, args, false)
	case "details":
		runErr = runReport(ctx, logger, store, args, true)
	case "notify":
		runErr = runNotify(ctx, logger, cfg, store, args)
	default:
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(2)
	}
	if runErr != nil {
		logger.Error("command failed", "command", command, "error", runErr)
		os.Exit(1)
	}
}

func configPath() string {
	if path := os.Getenv("ATTSPLIT_CONFIG"); path != "" {
		return path
	}
	return "config.json"
}
