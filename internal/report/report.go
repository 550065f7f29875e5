// Package report provides the read-only paths over the ledger: console
// summaries, per-type detail breakdowns, and notification message bodies for
// a previously split billing cycle.
package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/LXXHXX/att-bill-splitter/internal/ledger"
	"github.com/LXXHXX/att-bill-splitter/internal/models"
)

const divider = "--------------------------------------------------------------"

// Reporter renders charge summaries for billing cycles. It only reads the
// ledger; splitting must already have happened.
type Reporter struct {
	store ledger.Store
	log   *slog.Logger
}

// New creates a Reporter.
func New(store ledger.Store, log *slog.Logger) *Reporter {
	return &Reporter{store: store, log: log}
}

// cycleFor resolves the billing cycle whose end date falls in month/year.
// A nil cycle with nil error is the normal "nothing split yet" case.
func (r *Reporter) cycleFor(ctx context.Context, w io.Writer, month time.Month, year int) (*models.BillingCycle, error) {
	cycle, err := r.store.CycleByMonth(ctx, month, year)
	if err != nil {
		return nil, err
	}
	if cycle == nil {
		fmt.Fprintf(w, "No charge summary found for %d/%d. Please split the bill first.\n", year, int(month))
		return nil, nil
	}
	return cycle, nil
}

// Summary prints one line per user with their wireless total for the cycle,
// followed by the wireless grand total. Users appear in insertion order.
func (r *Reporter) Summary(ctx context.Context, w io.Writer, month time.Month, year int) error {
	cycle, err := r.cycleFor(ctx, w, month, year)
	if err != nil || cycle == nil {
		return err
	}

	rows, err := r.store.UserTotals(ctx, cycle, models.CategoryWireless)
	if err != nil {
		return fmt.Errorf("loading user totals: %w", err)
	}

	fmt.Fprintln(w, divider)
	fmt.Fprintf(w, "    Charge Summary for Billing Cycle %s\n", cycle.Name)
	fmt.Fprintln(w, divider)
	total := decimal.Zero
	for _, row := range rows {
		fmt.Fprintf(w, "    %-18s (%s)      Total: %s\n",
			row.User.Name, row.User.Number, row.Total.StringFixed(2))
		total = total.Add(row.Total)
	}
	fmt.Fprintln(w, divider)
	fmt.Fprintf(w, "%47s: %s\n", "Wireless Total", total.StringFixed(2))
	return nil
}

// Details prints each user's charge-type breakdown with a per-user subtotal
// at every user boundary, then the wireless grand total. Rows arrive from
// the ledger grouped by user in insertion order.
func (r *Reporter) Details(ctx context.Context, w io.Writer, month time.Month, year int) error {
	cycle, err := r.cycleFor(ctx, w, month, year)
	if err != nil || cycle == nil {
		return err
	}

	rows, err := r.store.TypeTotals(ctx, cycle, models.CategoryWireless)
	if err != nil {
		return fmt.Errorf("loading type totals: %w", err)
	}

	fmt.Fprintln(w, divider)
	fmt.Fprintf(w, "    Charge Details for Billing Cycle %s\n", cycle.Name)
	fmt.Fprintln(w, divider)
	currentNumber := ""
	userTotal := decimal.Zero
	grandTotal := decimal.Zero
	for _, row := range rows {
		if row.User.Number != currentNumber {
			if currentNumber != "" {
				fmt.Fprintf(w, "      - %-40s   %s\n\n", "Total", userTotal.StringFixed(2))
				grandTotal = grandTotal.Add(userTotal)
			}
			currentNumber = row.User.Number
			userTotal = decimal.Zero
			fmt.Fprintf(w, "    %s (%s)\n", row.User.Name, row.User.Number)
		}
		fmt.Fprintf(w, "      - %-40s   %s\n", row.TypeText, row.Total.StringFixed(2))
		userTotal = userTotal.Add(row.Total)
	}
	if currentNumber != "" {
		fmt.Fprintf(w, "      - %-40s   %s\n\n", "Total", userTotal.StringFixed(2))
		grandTotal = grandTotal.Add(userTotal)
	}
	fmt.Fprintf(w, "%47s: %s\n", "Wireless Total", grandTotal.StringFixed(2))
	return nil
}

// PendingMessage is one notification waiting for operator confirmation.
// Building messages and sending them are separate steps: the confirmation
// and delivery loop belongs to the caller.
type PendingMessage struct {
	// To is the recipient's phone number.
	To string

	// Body is the formatted multi-line charge breakdown.
	Body string
}

// BuildMessages assembles one charge-detail message per user for the cycle
// ending in month/year. Returns an empty slice when no cycle matches.
func (r *Reporter) BuildMessages(ctx context.Context, month time.Month, year int) ([]PendingMessage, error) {
	cycle, err := r.store.CycleByMonth(ctx, month, year)
	if err != nil {
		return nil, err
	}
	if cycle == nil {
		r.log.Info("no billing cycle found for notification period", "month", int(month), "year", year)
		return nil, nil
	}

	rows, err := r.store.TypeTotals(ctx, cycle, models.CategoryWireless)
	if err != nil {
		return nil, fmt.Errorf("loading type totals: %w", err)
	}

	var messages []PendingMessage
	var body strings.Builder
	currentNumber := ""
	userTotal := decimal.Zero
	flush := func() {
		if currentNumber == "" {
			return
		}
		fmt.Fprintf(&body, "  - %-30s %s\n", "Total", userTotal.StringFixed(2))
		messages = append(messages, PendingMessage{To: currentNumber, Body: body.String()})
	}
	for _, row := range rows {
		if row.User.Number != currentNumber {
			flush()
			currentNumber = row.User.Number
			userTotal = decimal.Zero
			body.Reset()
			fmt.Fprintf(&body, "Hi %s (%s),\nYour AT&T Wireless Charges for %s:\n",
				row.User.Name, row.User.Number, cycle.Name)
		}
		fmt.Fprintf(&body, "  - %-30s %s\n", row.TypeText, row.Total.StringFixed(2))
		userTotal = userTotal.Add(row.Total)
	}
	flush()
	return messages, nil
}
