// Package statement parses a saved plain-text dump of one account-statement
// page into the line-item block tree the splitter consumes.
//
// The dump is the page's text content, section by section:
//
//	New charges for Mar 15 - Apr 14, 2016
//
//	U-verse TV
//
//	Monthly Charges Mar 15 - Apr 14
//	U450 package
//	Total Monthly Charges $64.99
//
//	Total U-verse TV Charges $64.99
//
//	John Doe 555-123-4567
//
//	Monthly Charges Mar 15 - Apr 14
//	National Account Discount
//	$20.00
//	Total Monthly Charges $175.00
//
//	Total for 555-123-4567 $180.00
//
//	Total Wireless Charges $225.00
//
// Category headers ("U-verse TV", "U-verse Internet") and wireless line
// headers ("<Name> <number>") open a section; "Total … Charges" /
// "Total for <number>" footers close it. Blocks within a section are
// separated by blank lines; a block's first line is its label and its full
// text is kept as the body for amount extraction.
package statement

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/LXXHXX/att-bill-splitter/internal/models"
)

const cyclePrefix = "New charges for "

// categoryHeaders maps a section header line to its category code.
var categoryHeaders = map[string]struct{ code, text string }{
	"U-verse TV":       {models.CategoryUverseTV, "U-verse TV"},
	"U-verse Internet": {models.CategoryUverseInternet, "U-verse Internet"},
}

var lineHeaderRe = regexp.MustCompile(`^(.+?)\s+(\d{3}-\d{3}-\d{4})$`)

// parser accumulates sections while scanning the dump line by line.
type parser struct {
	stmt models.Statement

	category *models.CategorySection
	line     *models.LineSection
	block    []string

	// wantWirelessTotal marks that the "Total Wireless Charges" anchor was
	// seen without an amount on the same line.
	wantWirelessTotal bool
}

// ParseFile reads a statement dump from disk.
func ParseFile(path string) (*models.Statement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening statement dump: %w", err)
	}
	defer f.Close()
	stmt, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing statement dump %s: %w", path, err)
	}
	return stmt, nil
}

// Parse reads one statement page dump.
func Parse(r io.Reader) (*models.Statement, error) {
	p := &parser{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		p.handleLine(strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading statement dump: %w", err)
	}
	p.flushBlock()
	p.closeSection()

	if p.stmt.CycleName == "" {
		return nil, fmt.Errorf("statement dump has no %q header", strings.TrimSpace(cyclePrefix))
	}
	return &p.stmt, nil
}

func (p *parser) handleLine(line string) {
	switch {
	case line == "":
		p.flushBlock()

	case p.wantWirelessTotal:
		p.stmt.WirelessTotalText = line
		p.wantWirelessTotal = false

	case strings.HasPrefix(line, cyclePrefix):
		p.stmt.CycleName = strings.TrimSpace(strings.TrimPrefix(line, cyclePrefix))

	case strings.HasPrefix(line, "Total Wireless Charges"):
		p.flushBlock()
		p.closeSection()
		rest := strings.TrimSpace(strings.TrimPrefix(line, "Total Wireless Charges"))
		if rest == "" {
			p.wantWirelessTotal = true
		} else {
			p.stmt.WirelessTotalText = rest
		}

	case p.isCategoryHeader(line):
		// handled inside isCategoryHeader to reuse the lookup

	case strings.HasPrefix(line, "Total for ") && p.line != nil && len(p.block) == 0:
		p.closeSection()

	case p.isSectionFooter(line):
		p.closeSection()

	case p.isLineHeader(line):
		// handled inside isLineHeader

	default:
		p.block = append(p.block, line)
	}
}

// isCategoryHeader opens a category section when the line matches a known
// header. Sections never nest: an open section is closed first.
func (p *parser) isCategoryHeader(line string) bool {
	h, ok := categoryHeaders[line]
	if !ok {
		return false
	}
	p.flushBlock()
	p.closeSection()
	p.category = &models.CategorySection{Code: h.code, Text: h.text}
	return true
}

// isSectionFooter recognizes "Total <category text> Charges …" lines, which
// terminate the open category section without contributing a block.
func (p *parser) isSectionFooter(line string) bool {
	if p.category == nil || len(p.block) > 0 {
		return false
	}
	return strings.HasPrefix(line, "Total "+p.category.Text+" Charges")
}

// isLineHeader opens a wireless line section for "<Name> <number>" headers.
// Only a line standing at a block boundary qualifies, so content lines that
// happen to end in a phone number stay inside their block.
func (p *parser) isLineHeader(line string) bool {
	if len(p.block) > 0 {
		return false
	}
	m := lineHeaderRe.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	p.closeSection()
	p.line = &models.LineSection{Name: strings.TrimSpace(m[1]), Number: m[2]}
	return true
}

// flushBlock finishes the block under construction and attaches it to the
// open section. Text outside any section is dropped.
func (p *parser) flushBlock() {
	if len(p.block) == 0 {
		return
	}
	block := models.Block{
		Label: p.block[0],
		Body:  strings.Join(p.block, "\n"),
	}
	p.block = nil
	switch {
	case p.line != nil:
		p.line.Blocks = append(p.line.Blocks, block)
	case p.category != nil:
		p.category.Blocks = append(p.category.Blocks, block)
	}
}

// closeSection commits the open section, if any, to the statement.
func (p *parser) closeSection() {
	p.flushBlock()
	if p.category != nil {
		p.stmt.Categories = append(p.stmt.Categories, *p.category)
		p.category = nil
	}
	if p.line != nil {
		p.stmt.Wireless = append(p.stmt.Wireless, *p.line)
		p.line = nil
	}
}
