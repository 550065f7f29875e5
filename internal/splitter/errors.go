package splitter

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ParsingError reports that a named line's charge elements could not be
// located at all. Always fatal: a configured line with no detected charges
// cannot be told apart from a broken statement parse. (A line whose charges
// extract successfully but sum to zero is fine — it just sits out the pooled
// share.)
type ParsingError struct {
	Name   string
	Number string
	Reason string
}

func (e *ParsingError) Error() string {
	return fmt.Sprintf("parsing charges for %s (%s): %s", e.Name, e.Number, e.Reason)
}

// CalculationError reports that the computed wireless total disagrees with
// the total printed on the statement beyond tolerance. Fatal: the persisted
// data for the cycle must not be trusted until an operator investigates.
type CalculationError struct {
	Computed decimal.Decimal
	Billed   decimal.Decimal
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("computed wireless total %s does not match billed total %s",
		e.Computed.StringFixed(2), e.Billed.StringFixed(2))
}
