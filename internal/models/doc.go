// Package models defines the core domain models for the bill splitter.
//
// # Persisted Models
//
// Five entities are persisted through the ledger:
//   - User: one phone line holder, keyed by phone number
//   - ChargeCategory: a service category (U-verse TV, U-verse Internet, Wireless)
//   - ChargeType: a billable line-item kind within a category
//   - BillingCycle: one statement period, keyed by its displayed label
//   - Charge: one monetary fact tying a user, a charge type and a cycle
//
// Reference entities (User, ChargeCategory, ChargeType, BillingCycle) are
// created lazily on first encounter and never updated. Charge rows are
// write-once; corrections happen on a fresh billing cycle, never in place.
//
// # Statement Input
//
// The splitter consumes a Statement: the already-fetched line-item blocks of
// one statement page, grouped into category sections (attributed to the
// account holder) and per-line wireless sections. How the blocks were
// obtained is not this package's concern.
//
// # Design Principles
//
//  1. Amounts are decimal.Decimal, never float64 — split shares and the
//     reconciliation check need exact arithmetic.
//  2. Relationships use ID strings instead of pointers to avoid circular
//     references.
//  3. Natural keys (number, category code, type code, cycle name) carry the
//     uniqueness constraints; UUIDs are storage identity only.
package models
