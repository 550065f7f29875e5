package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/LXXHXX/att-bill-splitter/internal/config"
	"github.com/LXXHXX/att-bill-splitter/internal/ledger"
	"github.com/LXXHXX/att-bill-splitter/internal/splitter"
	"github.com/LXXHXX/att-bill-splitter/internal/statement"
)

// runSplit parses each statement dump and splits its charges. Cycles are
// processed sequentially; the first fatal error aborts the remaining files.
func runSplit(ctx context.Context, logger *slog.Logger, cfg *config.Config, store ledger.Store, args []string) error {
	if len(args) == 0 {
		return errors.New("split requires at least one statement file")
	}

	fee, err := cfg.PooledFeeAmount()
	if err != nil {
		return err
	}
	phonebook := make([]splitter.Line, len(cfg.Phonebook))
	for i, line := range cfg.Phonebook {
		phonebook[i] = splitter.Line{Name: line.Name, Number: line.Number}
	}
	sp, err := splitter.New(store, logger, fee, phonebook)
	if err != nil {
		return err
	}

	for _, path := range args {
		stmt, err := statement.ParseFile(path)
		if err != nil {
			return err
		}
		logger.Info("splitting statement", "file", path, "cycle", stmt.CycleName)
		if err := sp.Split(ctx, stmt); err != nil {
			return fmt.Errorf("splitting %s: %w", path, err)
		}
	}
	return nil
}
