package models

import (
	"strings"
	"time"
)

// BillingCycle is one statement period, uniquely named by its displayed date
// range (e.g. "Mar 15 - Apr 14, 2016"). A pre-existing cycle with the same
// name means the statement was already processed.
type BillingCycle struct {
	// ID is the unique identifier for the cycle (UUID format).
	ID string

	// Name is the cycle label as displayed on the statement, unique.
	Name string

	// EndDate is the cycle's end date, parsed from the trailing part of the
	// label. Nil when the label does not carry a parseable date; such cycles
	// are invisible to month/year report lookups.
	EndDate *time.Time

	// CreatedAt is the Unix timestamp when the cycle was first recorded.
	CreatedAt int64
}

// Date layouts seen in statement cycle labels.
var cycleEndLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
}

// ParseCycleEndDate extracts the end date from a cycle label of the form
// "<start> - <end date>". Returns nil when no trailing date parses.
func ParseCycleEndDate(name string) *time.Time {
	idx := strings.LastIndex(name, " - ")
	if idx < 0 {
		return nil
	}
	tail := strings.TrimSpace(name[idx+3:])
	for _, layout := range cycleEndLayouts {
		if t, err := time.Parse(layout, tail); err == nil {
			return &t
		}
	}
	return nil
}
