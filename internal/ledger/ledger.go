// Package ledger defines the persistence boundary for billing data.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/LXXHXX/att-bill-splitter/internal/models"
)

// DuplicateChargeError reports an attempt to insert a second charge for the
// same (user, charge type, billing cycle) triple. It is recoverable: callers
// log a warning and continue with the next line item.
type DuplicateChargeError struct {
	UserNumber string
	TypeCode   string
	CycleName  string
}

func (e *DuplicateChargeError) Error() string {
	return fmt.Sprintf("duplicate charge for user %s, type %s, cycle %q",
		e.UserNumber, e.TypeCode, e.CycleName)
}

// UserTotal is one summary row: a user's total for a billing cycle within a
// category.
type UserTotal struct {
	User  models.User
	Total decimal.Decimal
}

// TypeTotal is one detail row: a user's total for one charge type.
type TypeTotal struct {
	User     models.User
	TypeText string
	Total    decimal.Decimal
}

// Store defines the ledger operations for billing data.
// This abstraction allows swapping storage backends without changing the
// splitter or the report layer.
//
// Get-or-create methods return the entity plus a created flag: true when the
// call created a new row, false when an existing row matched the natural
// key. They are safe to call repeatedly with identical keys.
type Store interface {
	// GetOrCreateUser resolves a user by phone number.
	GetOrCreateUser(ctx context.Context, name, number string) (*models.User, bool, error)

	// GetOrCreateCategory resolves a charge category by code.
	GetOrCreateCategory(ctx context.Context, code, text string) (*models.ChargeCategory, bool, error)

	// GetOrCreateType resolves a charge type by its normalized code within
	// a category. The display text is stored on first creation only.
	GetOrCreateType(ctx context.Context, code, text string, category *models.ChargeCategory) (*models.ChargeType, bool, error)

	// GetOrCreateCycle resolves a billing cycle by its displayed name.
	// A false created flag is the reprocessing signal: the cycle was
	// already split.
	GetOrCreateCycle(ctx context.Context, name string) (*models.BillingCycle, bool, error)

	// InsertCharge appends one charge record. A repeated
	// (user, type, cycle) triple fails with DuplicateChargeError and
	// leaves the existing row untouched.
	InsertCharge(ctx context.Context, user *models.User, chargeType *models.ChargeType, cycle *models.BillingCycle, amount decimal.Decimal) (*models.Charge, error)

	// SumByCategory returns the sum of one user's charge amounts for a
	// cycle, restricted to a category. Zero when no charges exist.
	SumByCategory(ctx context.Context, user *models.User, cycle *models.BillingCycle, categoryCode string) (decimal.Decimal, error)

	// UserTotals returns per-user cycle totals for a category, ordered by
	// user insertion order.
	UserTotals(ctx context.Context, cycle *models.BillingCycle, categoryCode string) ([]UserTotal, error)

	// TypeTotals returns per-(user, charge type) totals for a category,
	// ordered by user insertion order so rows of one user are consecutive.
	TypeTotals(ctx context.Context, cycle *models.BillingCycle, categoryCode string) ([]TypeTotal, error)

	// CycleByMonth resolves the billing cycle whose end date falls in the
	// given month and year. Returns (nil, nil) when no cycle matches —
	// a normal empty-result case, not an error.
	CycleByMonth(ctx context.Context, month time.Month, year int) (*models.BillingCycle, error)

	// Close releases any resources held by the store.
	Close() error
}
