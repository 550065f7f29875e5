package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/LXXHXX/att-bill-splitter/internal/ledger"
	"github.com/LXXHXX/att-bill-splitter/internal/report"
)

func runReport(ctx context.Context, logger *slog.Logger, store ledger.Store, args []string, detailed bool) error {
	month, year, err := monthYearArgs(args)
	if err != nil {
		return err
	}
	r := report.New(store, logger)
	if detailed {
		return r.Details(ctx, os.Stdout, month, year)
	}
	return r.Summary(ctx, os.Stdout, month, year)
}

// monthYearArgs reads "<month> [year]"; year defaults to the current year.
func monthYearArgs(args []string) (time.Month, int, error) {
	if len(args) < 1 {
		return 0, 0, errors.New("month argument required (1-12)")
	}
	m, err := strconv.Atoi(args[0])
	if err != nil || m < 1 || m > 12 {
		return 0, 0, fmt.Errorf("invalid month %q (want 1-12)", args[0])
	}
	year := time.Now().Year()
	if len(args) > 1 {
		year, err = strconv.Atoi(args[1])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid year %q", args[1])
		}
	}
	return time.Month(m), year, nil
}
