package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/LXXHXX/att-bill-splitter/internal/config"
	"github.com/LXXHXX/att-bill-splitter/internal/ledger"
	"github.com/LXXHXX/att-bill-splitter/internal/report"
)

func runNotify(ctx context.Context, logger *slog.Logger, cfg *config.Config, store ledger.Store, args []string) error {
	month, year, err := monthYearArgs(args)
	if err != nil {
		return err
	}
	if cfg.Twilio.AccountSID == "" || cfg.Twilio.AuthToken == "" || cfg.Twilio.Number == "" {
		return fmt.Errorf("twilio credentials not configured")
	}

	r := report.New(store, logger)
	messages, err := r.BuildMessages(ctx, month, year)
	if err != nil {
		return fmt.Errorf("building messages: %w", err)
	}
	if len(messages) == 0 {
		fmt.Printf("No charge summary found for %d/%d. Please split the bill first.\n", year, int(month))
		return nil
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.Twilio.AccountSID,
		Password: cfg.Twilio.AuthToken,
	})

	scanner := bufio.NewScanner(os.Stdin)
	for _, msg := range messages {
		body := msg.Body
		if cfg.Twilio.PaymentMsg != "" {
			body += "\n" + cfg.Twilio.PaymentMsg
		}
		fmt.Println(body)
		fmt.Printf("Notify %s (y/n)? ", msg.To)
		if !scanner.Scan() {
			break
		}
		answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if answer != "y" && answer != "yes" {
			logger.Info("skipped notification", "to", msg.To)
			continue
		}

		params := &openapi.CreateMessageParams{}
		params.SetTo(msg.To)
		params.SetFrom(cfg.Twilio.Number)
		params.SetBody(body)
		resp, err := client.Api.CreateMessage(params)
		if err != nil {
			logger.Error("failed to send notification", "to", msg.To, "error", err)
			continue
		}
		sid := ""
		if resp.Sid != nil {
			sid = *resp.Sid
		}
		logger.Info("notification sent", "to", msg.To, "sid", sid)
	}
	return scanner.Err()
}
