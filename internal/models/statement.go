package models

// Block is one line-item block from the statement: a chunk of content
// attributable to one charge type. Label is the block's heading line; Body is
// the block's full text content, from which amounts are extracted.
type Block struct {
	Label string
	Body  string
}

// CategorySection groups the blocks of one non-wireless service category.
// All charges in these sections belong to the account holder.
type CategorySection struct {
	// Code is the category code ("utv", "uvi").
	Code string

	// Text is the category display text ("U-verse TV").
	Text string

	Blocks []Block
}

// LineSection groups the wireless blocks of one phone line.
type LineSection struct {
	// Name is the line holder's display name as printed on the statement.
	Name string

	// Number is the line's phone number.
	Number string

	Blocks []Block
}

// Statement is the in-memory representation of one statement page's
// line-item blocks for a single billing cycle. It is the input boundary of
// the splitter; producing it (page fetch, file parse) is someone else's job.
type Statement struct {
	// CycleName is the displayed billing cycle label.
	CycleName string

	// Categories holds the non-wireless sections in statement order.
	Categories []CategorySection

	// Wireless holds one section per phone line in statement order.
	Wireless []LineSection

	// WirelessTotalText is the raw printed "Total Wireless Charges" figure
	// (e.g. "$255.00"), kept verbatim for the reconciliation check.
	WirelessTotalText string
}

// Line returns the wireless section for a phone number, or nil when the
// statement carries no section for that line.
func (s *Statement) Line(number string) *LineSection {
	for i := range s.Wireless {
		if s.Wireless[i].Number == number {
			return &s.Wireless[i]
		}
	}
	return nil
}
