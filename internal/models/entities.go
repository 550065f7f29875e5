package models

import "github.com/shopspring/decimal"

// Charge category codes for the fixed set of service categories.
const (
	CategoryUverseTV       = "utv"
	CategoryUverseInternet = "uvi"
	CategoryWireless       = "wireless"
)

// User represents one phone line holder on the account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the display name of the line holder.
	Name string

	// Number is the phone number, the unique natural key.
	// A user is created on first encounter and immutable afterwards.
	Number string

	// CreatedAt is the Unix timestamp when the user was first recorded.
	CreatedAt int64
}

// ChargeCategory is one service category on the statement.
type ChargeCategory struct {
	// ID is the unique identifier for the category (UUID format).
	ID string

	// Category is the unique category code (e.g. "utv", "wireless").
	Category string

	// Text is the display text as printed on the statement.
	Text string
}

// ChargeType is a specific billable line-item kind within a category.
// Many charge types belong to one category.
type ChargeType struct {
	// ID is the unique identifier for the charge type (UUID format).
	ID string

	// Type is the unique normalized type code (e.g. "monthly-charges").
	Type string

	// Text is the display text, stored once on first reference and never
	// recomputed from later labels.
	Text string

	// CategoryID references the owning ChargeCategory.
	CategoryID string
}

// Charge is one monetary fact: what a user owes for one charge type in one
// billing cycle. The (UserID, ChargeTypeID, BillingCycleID) triple is unique;
// a second write of the same triple is rejected, never overwritten.
type Charge struct {
	// ID is the unique identifier for the charge (UUID format).
	ID string

	// UserID references the user who owes the amount.
	UserID string

	// ChargeTypeID references the kind of charge.
	ChargeTypeID string

	// BillingCycleID references the statement period.
	BillingCycleID string

	// Amount is the final share owed. It may have been adjusted before
	// storage (the account-fee offset is absorbed into the monthly line).
	Amount decimal.Decimal

	// CreatedAt is the Unix timestamp when the charge was written.
	CreatedAt int64
}
