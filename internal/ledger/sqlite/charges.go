package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/LXXHXX/att-bill-splitter/internal/ledger"
	"github.com/LXXHXX/att-bill-splitter/internal/models"
)

// Amounts are stored as decimal strings and summed in Go; SQL SUM over REAL
// would reintroduce float arithmetic into the reconciliation path.

// InsertCharge appends one charge record. A repeated (user, type, cycle)
// triple fails with ledger.DuplicateChargeError. The engine is single-writer
// (one batch run at a time), so the lookup-then-insert is not racy; the
// UNIQUE constraint in the schema remains as a backstop.
func (s *SQLiteStore) InsertCharge(ctx context.Context, user *models.User, chargeType *models.ChargeType, cycle *models.BillingCycle, amount decimal.Decimal) (*models.Charge, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM charges WHERE user_id = ? AND charge_type_id = ? AND billing_cycle_id = ?",
		user.ID, chargeType.ID, cycle.ID,
	).Scan(&one)
	if err == nil {
		return nil, &ledger.DuplicateChargeError{
			UserNumber: user.Number,
			TypeCode:   chargeType.Type,
			CycleName:  cycle.Name,
		}
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to check for existing charge: %w", err)
	}

	charge := &models.Charge{
		ID:             uuid.New().String(),
		UserID:         user.ID,
		ChargeTypeID:   chargeType.ID,
		BillingCycleID: cycle.ID,
		Amount:         amount,
		CreatedAt:      time.Now().Unix(),
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO charges (id, user_id, charge_type_id, billing_cycle_id, amount, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		charge.ID, charge.UserID, charge.ChargeTypeID, charge.BillingCycleID,
		charge.Amount.String(), charge.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to insert charge: %w", err)
	}
	return charge, nil
}

// SumByCategory returns the sum of one user's charge amounts for a cycle,
// restricted to a category.
func (s *SQLiteStore) SumByCategory(ctx context.Context, user *models.User, cycle *models.BillingCycle, categoryCode string) (decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.amount
		 FROM charges c
		 JOIN charge_types t ON c.charge_type_id = t.id
		 JOIN charge_categories cat ON t.category_id = cat.id
		 WHERE c.user_id = ? AND c.billing_cycle_id = ? AND cat.category = ?`,
		user.ID, cycle.ID, categoryCode,
	)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to query charges for user %s: %w", user.Number, err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return decimal.Decimal{}, fmt.Errorf("failed to scan charge amount: %w", err)
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("failed to parse stored amount %q: %w", raw, err)
		}
		total = total.Add(amount)
	}
	if err := rows.Err(); err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to iterate charges: %w", err)
	}
	return total, nil
}

// UserTotals returns per-user cycle totals for a category, ordered by user
// insertion order.
func (s *SQLiteStore) UserTotals(ctx context.Context, cycle *models.BillingCycle, categoryCode string) ([]ledger.UserTotal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.id, u.name, u.number, u.created_at, c.amount
		 FROM charges c
		 JOIN users u ON c.user_id = u.id
		 JOIN charge_types t ON c.charge_type_id = t.id
		 JOIN charge_categories cat ON t.category_id = cat.id
		 WHERE c.billing_cycle_id = ? AND cat.category = ?
		 ORDER BY u.rowid`,
		cycle.ID, categoryCode,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query user totals: %w", err)
	}
	defer rows.Close()

	var totals []ledger.UserTotal
	for rows.Next() {
		var user models.User
		var raw string
		if err := rows.Scan(&user.ID, &user.Name, &user.Number, &user.CreatedAt, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan user total row: %w", err)
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored amount %q: %w", raw, err)
		}
		// Rows arrive grouped by user; fold into the last total.
		if n := len(totals); n > 0 && totals[n-1].User.ID == user.ID {
			totals[n-1].Total = totals[n-1].Total.Add(amount)
			continue
		}
		totals = append(totals, ledger.UserTotal{User: user, Total: amount})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user totals: %w", err)
	}
	return totals, nil
}

// TypeTotals returns per-(user, charge type) totals for a category, ordered
// by user insertion order so one user's rows are consecutive.
func (s *SQLiteStore) TypeTotals(ctx context.Context, cycle *models.BillingCycle, categoryCode string) ([]ledger.TypeTotal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT u.id, u.name, u.number, u.created_at, t.text, c.amount
		 FROM charges c
		 JOIN users u ON c.user_id = u.id
		 JOIN charge_types t ON c.charge_type_id = t.id
		 JOIN charge_categories cat ON t.category_id = cat.id
		 WHERE c.billing_cycle_id = ? AND cat.category = ?
		 ORDER BY u.rowid, t.rowid`,
		cycle.ID, categoryCode,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query type totals: %w", err)
	}
	defer rows.Close()

	var totals []ledger.TypeTotal
	for rows.Next() {
		var user models.User
		var typeText, raw string
		if err := rows.Scan(&user.ID, &user.Name, &user.Number, &user.CreatedAt, &typeText, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan type total row: %w", err)
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored amount %q: %w", raw, err)
		}
		if n := len(totals); n > 0 && totals[n-1].User.ID == user.ID && totals[n-1].TypeText == typeText {
			totals[n-1].Total = totals[n-1].Total.Add(amount)
			continue
		}
		totals = append(totals, ledger.TypeTotal{User: user, TypeText: typeText, Total: amount})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate type totals: %w", err)
	}
	return totals, nil
}
