// Package splitter implements the bill splitting engine: it classifies the
// line-item blocks of one statement, allocates the pooled wireless account
// fee across active lines, persists every resulting charge through the
// ledger, and reconciles the computed wireless total against the statement.
package splitter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/LXXHXX/att-bill-splitter/internal/extract"
	"github.com/LXXHXX/att-bill-splitter/internal/ledger"
	"github.com/LXXHXX/att-bill-splitter/internal/models"
)

// shareTypeText is the display text of the synthetic charge that carries
// each active line's slice of the pooled account fee.
const shareTypeText = "Account Monthly Charges Share"

// reconcileTolerance is the largest acceptable absolute difference between
// the computed wireless total and the statement's printed total.
var reconcileTolerance = decimal.RequireFromString("0.01")

// Line is one configured phone line: who to bill for it.
type Line struct {
	Name   string
	Number string
}

// Splitter walks one statement's line-item blocks and writes the resulting
// charges through the ledger.
type Splitter struct {
	store     ledger.Store
	log       *slog.Logger
	pooledFee decimal.Decimal
	phonebook []Line
}

// New creates a Splitter. The first phonebook entry is the account holder;
// pooledFee is the fixed account-level wireless monthly charge that gets
// split across active lines.
func New(store ledger.Store, log *slog.Logger, pooledFee decimal.Decimal, phonebook []Line) (*Splitter, error) {
	if len(phonebook) == 0 {
		return nil, fmt.Errorf("phonebook must contain at least the account holder")
	}
	return &Splitter{
		store:     store,
		log:       log,
		pooledFee: pooledFee,
		phonebook: phonebook,
	}, nil
}

// Split processes one billing cycle's statement.
//
// A cycle whose name already exists in the ledger is skipped entirely
// (idempotent at cycle granularity). Non-wireless charges all go to the
// account holder. For wireless, each line's items are extracted and stored,
// the account fee offset (pooled fee minus any national account discount) is
// absorbed into the holder's monthly line, and the offset is then split
// evenly across active lines — lines whose extracted wireless amounts sum to
// more than zero. Finally the persisted wireless total is reconciled against
// the statement's printed total.
func (s *Splitter) Split(ctx context.Context, stmt *models.Statement) error {
	cycle, created, err := s.store.GetOrCreateCycle(ctx, stmt.CycleName)
	if err != nil {
		return fmt.Errorf("resolving billing cycle: %w", err)
	}
	if !created {
		s.log.Warn("billing cycle already processed, skipping", "cycle", cycle.Name)
		return nil
	}
	s.log.Info("processing new bill", "cycle", cycle.Name)

	holder, _, err := s.store.GetOrCreateUser(ctx, s.phonebook[0].Name, s.phonebook[0].Number)
	if err != nil {
		return fmt.Errorf("resolving account holder: %w", err)
	}

	for _, section := range stmt.Categories {
		if err := s.splitCategory(ctx, holder, cycle, section); err != nil {
			return err
		}
	}

	wireless, _, err := s.store.GetOrCreateCategory(ctx, models.CategoryWireless, "Wireless")
	if err != nil {
		return fmt.Errorf("resolving wireless category: %w", err)
	}

	offset, err := s.splitHolderWireless(ctx, holder, wireless, cycle, stmt)
	if err != nil {
		return err
	}

	active := []*models.User{holder}
	for _, line := range s.phonebook[1:] {
		if line.Number == holder.Number {
			continue
		}
		user, lineTotal, err := s.splitLineWireless(ctx, line, wireless, cycle, stmt)
		if err != nil {
			return err
		}
		if lineTotal.GreaterThan(decimal.Zero) {
			active = append(active, user)
		} else {
			s.log.Info("line has no wireless charges this cycle, excluded from account fee split",
				"name", line.Name, "number", line.Number)
		}
	}

	if err := s.writeShares(ctx, wireless, cycle, offset, active); err != nil {
		return err
	}

	if err := s.reconcile(ctx, cycle, active, stmt); err != nil {
		return err
	}
	s.log.Info("finished processing bill", "cycle", cycle.Name)
	return nil
}

// splitCategory writes one non-wireless category's charges, all attributed
// to the account holder. A section with zero blocks is valid and skipped.
func (s *Splitter) splitCategory(ctx context.Context, holder *models.User, cycle *models.BillingCycle, section models.CategorySection) error {
	if len(section.Blocks) == 0 {
		s.log.Info("no charge blocks found for category, skipped", "category", section.Code)
		return nil
	}
	category, _, err := s.store.GetOrCreateCategory(ctx, section.Code, section.Text)
	if err != nil {
		return fmt.Errorf("resolving category %s: %w", section.Code, err)
	}
	for _, block := range section.Blocks {
		amount, err := extract.TotalAmount(block.Body, block.Label)
		if err != nil {
			return fmt.Errorf("extracting %s charge for account holder: %w", section.Code, err)
		}
		if err := s.writeCharge(ctx, holder, category, cycle, block.Label, amount); err != nil {
			return err
		}
	}
	return nil
}

// splitHolderWireless processes the account holder's wireless blocks and
// returns the account fee offset (pooled fee minus discount). The offset is
// subtracted from the holder's monthly-charges amount before storage; the
// discount never becomes a charge of its own.
//
// A missing monthly-charges block is fatal: without it the discount is
// undefined, and defaulting it to zero would overcharge every active line by
// the undiscounted pooled fee.
func (s *Splitter) splitHolderWireless(ctx context.Context, holder *models.User, wireless *models.ChargeCategory, cycle *models.BillingCycle, stmt *models.Statement) (decimal.Decimal, error) {
	section := stmt.Line(holder.Number)
	if section == nil || len(section.Blocks) == 0 {
		return decimal.Decimal{}, &ParsingError{
			Name:   holder.Name,
			Number: holder.Number,
			Reason: "no wireless charge blocks found for account holder",
		}
	}

	offset := decimal.Zero
	monthlySeen := false
	for _, block := range section.Blocks {
		blockOffset := decimal.Zero
		if extract.CanonicalLabel(block.Label) == extract.MonthlyChargesLabel {
			monthlySeen = true
			discount, ok := extract.DiscountAmount(block.Body)
			if !ok {
				discount = decimal.Zero
				s.log.Info("no national account discount on monthly charges block", "cycle", cycle.Name)
			}
			offset = s.pooledFee.Sub(discount)
			blockOffset = offset
		}
		amount, err := extract.TotalAmount(block.Body, block.Label)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("extracting wireless charge for account holder: %w", err)
		}
		if err := s.writeCharge(ctx, holder, wireless, cycle, block.Label, amount.Sub(blockOffset)); err != nil {
			return decimal.Decimal{}, err
		}
	}
	if !monthlySeen {
		return decimal.Decimal{}, &ParsingError{
			Name:   holder.Name,
			Number: holder.Number,
			Reason: "no monthly charges line item in account holder's wireless block",
		}
	}
	return offset, nil
}

// splitLineWireless processes one additional line's wireless blocks and
// returns the user together with the sum of the extracted amounts. That sum
// decides whether the line is active for the pooled fee split.
func (s *Splitter) splitLineWireless(ctx context.Context, line Line, wireless *models.ChargeCategory, cycle *models.BillingCycle, stmt *models.Statement) (*models.User, decimal.Decimal, error) {
	section := stmt.Line(line.Number)
	if section == nil || len(section.Blocks) == 0 {
		return nil, decimal.Decimal{}, &ParsingError{
			Name:   line.Name,
			Number: line.Number,
			Reason: "no wireless charge blocks found",
		}
	}
	user, _, err := s.store.GetOrCreateUser(ctx, line.Name, line.Number)
	if err != nil {
		return nil, decimal.Decimal{}, fmt.Errorf("resolving user %s: %w", line.Number, err)
	}

	lineTotal := decimal.Zero
	for _, block := range section.Blocks {
		amount, err := extract.TotalAmount(block.Body, block.Label)
		if err != nil {
			return nil, decimal.Decimal{}, fmt.Errorf("extracting wireless charge for %s (%s): %w", line.Name, line.Number, err)
		}
		if err := s.writeCharge(ctx, user, wireless, cycle, block.Label, amount); err != nil {
			return nil, decimal.Decimal{}, err
		}
		lineTotal = lineTotal.Add(amount)
	}
	return user, lineTotal, nil
}

// writeShares splits the account fee offset evenly across active lines and
// writes one share charge per line. Lines with zero wireless total are not
// in the denominator: they neither pay nor reduce others' share.
func (s *Splitter) writeShares(ctx context.Context, wireless *models.ChargeCategory, cycle *models.BillingCycle, offset decimal.Decimal, active []*models.User) error {
	shareType, _, err := s.store.GetOrCreateType(ctx, extract.TypeCode(shareTypeText), shareTypeText, wireless)
	if err != nil {
		return fmt.Errorf("resolving share charge type: %w", err)
	}
	share := offset.Div(decimal.NewFromInt(int64(len(active))))
	s.log.Info("splitting account monthly charges",
		"offset", offset.StringFixed(2), "active_lines", len(active), "share", share.StringFixed(2))
	for _, user := range active {
		if _, err := s.store.InsertCharge(ctx, user, shareType, cycle, share); err != nil {
			if warned := s.warnDuplicate(err); warned {
				continue
			}
			return fmt.Errorf("inserting share charge for %s: %w", user.Number, err)
		}
	}
	return nil
}

// reconcile sums the persisted wireless charges of the cycle and compares
// them with the statement's printed total. Mismatch beyond tolerance is a
// hard error; the persisted rows stay, flagged for operator investigation.
func (s *Splitter) reconcile(ctx context.Context, cycle *models.BillingCycle, active []*models.User, stmt *models.Statement) error {
	computed := decimal.Zero
	for _, user := range active {
		userTotal, err := s.store.SumByCategory(ctx, user, cycle, models.CategoryWireless)
		if err != nil {
			return fmt.Errorf("summing wireless charges for %s: %w", user.Number, err)
		}
		computed = computed.Add(userTotal)
	}

	billed, err := extract.StatementTotal(stmt.WirelessTotalText)
	if err != nil {
		return fmt.Errorf("reading billed wireless total: %w", err)
	}
	if computed.Sub(billed).Abs().GreaterThan(reconcileTolerance) {
		return &CalculationError{Computed: computed, Billed: billed}
	}
	s.log.Info("wireless charges verified against billed total", "total", billed.StringFixed(2))
	return nil
}

// writeCharge classifies one block's label and appends the charge. A
// duplicate (user, type, cycle) row is logged and skipped, never fatal.
func (s *Splitter) writeCharge(ctx context.Context, user *models.User, category *models.ChargeCategory, cycle *models.BillingCycle, label string, amount decimal.Decimal) error {
	text := extract.CanonicalLabel(label)
	chargeType, _, err := s.store.GetOrCreateType(ctx, extract.TypeCode(label), text, category)
	if err != nil {
		return fmt.Errorf("resolving charge type %q: %w", text, err)
	}
	if _, err := s.store.InsertCharge(ctx, user, chargeType, cycle, amount); err != nil {
		if warned := s.warnDuplicate(err); warned {
			return nil
		}
		return fmt.Errorf("inserting charge %q for %s: %w", text, user.Number, err)
	}
	return nil
}

// warnDuplicate logs a DuplicateChargeError and reports whether err was one.
func (s *Splitter) warnDuplicate(err error) bool {
	var dup *ledger.DuplicateChargeError
	if !errors.As(err, &dup) {
		return false
	}
	s.log.Warn("trying to write duplicate charge record",
		"user", dup.UserNumber, "type", dup.TypeCode, "cycle", dup.CycleName)
	return true
}
