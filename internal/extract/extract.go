// Package extract pulls monetary amounts and normalized charge-type codes
// out of free-form statement text.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

// MonthlyChargesLabel is the canonical label for the recurring monthly
// charges line item. Statement labels carry trailing billing-period text
// ("Monthly Charges Mar 15 - Apr 14"); all such variants collapse to this.
const MonthlyChargesLabel = "Monthly Charges"

// ExtractionError reports that an expected anchor/amount pattern was not
// found in a block of statement text. Whether that is fatal depends on the
// caller: a category with zero line items is valid, missing account holder
// data is not.
type ExtractionError struct {
	Label string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("no amount found after anchor %q", e.Label)
}

// CanonicalLabel normalizes a raw line-item label for use as a search
// anchor. Labels beginning with "Monthly Charges" collapse to exactly that
// literal; everything else is returned trimmed. Idempotent.
func CanonicalLabel(label string) string {
	label = strings.TrimSpace(label)
	if strings.HasPrefix(label, MonthlyChargesLabel) {
		return MonthlyChargesLabel
	}
	return label
}

// TypeCode derives the stable charge-type code for a raw label: canonical
// label, lower-cased, word-separated, punctuation-stripped. Idempotent.
func TypeCode(label string) string {
	return slug.Make(CanonicalLabel(label))
}

// TotalAmount finds the first "Total <label>" anchor in body and returns the
// currency amount that follows it. The amount may sit on a later line; the
// search spans newlines. The label is canonicalized before matching.
func TotalAmount(body, label string) (decimal.Decimal, error) {
	anchor := CanonicalLabel(label)
	re, err := regexp.Compile(`(?s)Total ` + regexp.QuoteMeta(anchor) + `.*?\$([0-9][0-9,]*(?:\.[0-9]+)?)`)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("compiling anchor pattern for %q: %w", anchor, err)
	}
	m := re.FindStringSubmatch(body)
	if m == nil {
		return decimal.Decimal{}, &ExtractionError{Label: anchor}
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q for %q: %w", m[1], anchor, err)
	}
	return amount, nil
}

var discountRe = regexp.MustCompile(`(?s)National Account Discount.*?\$([0-9][0-9,]*(?:\.[0-9]+)?)`)

// DiscountAmount locates the "National Account Discount" figure inside a
// monthly-charges block. The boolean reports presence: an absent discount is
// unset, not zero, and the caller decides what that means.
func DiscountAmount(body string) (decimal.Decimal, bool) {
	m := discountRe.FindStringSubmatch(body)
	if m == nil {
		return decimal.Decimal{}, false
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return amount, true
}

// StatementTotal parses the statement's printed "Total Wireless Charges"
// figure, stripping the currency symbol.
func StatementTotal(text string) (decimal.Decimal, error) {
	s := strings.TrimPrefix(strings.TrimSpace(text), "$")
	amount, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Decimal{}, &ExtractionError{Label: "Total Wireless Charges"}
	}
	return amount, nil
}
