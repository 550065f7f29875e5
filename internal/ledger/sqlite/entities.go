package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/LXXHXX/att-bill-splitter/internal/models"
)

// GetOrCreateUser resolves a user by phone number, creating the row on first
// encounter.
func (s *SQLiteStore) GetOrCreateUser(ctx context.Context, name, number string) (*models.User, bool, error) {
	user := &models.User{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, number, created_at FROM users WHERE number = ?",
		number,
	).Scan(&user.ID, &user.Name, &user.Number, &user.CreatedAt)
	if err == nil {
		return user, false, nil
	}
	if err != sql.ErrNoRows {
		return nil, false, fmt.Errorf("failed to look up user %s: %w", number, err)
	}

	user = &models.User{
		ID:        uuid.New().String(),
		Name:      name,
		Number:    number,
		CreatedAt: time.Now().Unix(),
	}
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, name, number, created_at) VALUES (?, ?, ?, ?)",
		user.ID, user.Name, user.Number, user.CreatedAt,
	); err != nil {
		return nil, false, fmt.Errorf("failed to create user %s: %w", number, err)
	}
	return user, true, nil
}

// GetOrCreateCategory resolves a charge category by code.
func (s *SQLiteStore) GetOrCreateCategory(ctx context.Context, code, text string) (*models.ChargeCategory, bool, error) {
	category := &models.ChargeCategory{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, category, text FROM charge_categories WHERE category = ?",
		code,
	).Scan(&category.ID, &category.Category, &category.Text)
	if err == nil {
		return category, false, nil
	}
	if err != sql.ErrNoRows {
		return nil, false, fmt.Errorf("failed to look up category %s: %w", code, err)
	}

	category = &models.ChargeCategory{
		ID:       uuid.New().String(),
		Category: code,
		Text:     text,
	}
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO charge_categories (id, category, text) VALUES (?, ?, ?)",
		category.ID, category.Category, category.Text,
	); err != nil {
		return nil, false, fmt.Errorf("failed to create category %s: %w", code, err)
	}
	return category, true, nil
}

// GetOrCreateType resolves a charge type by its normalized code. The display
// text is stored once on creation; later calls with different text return
// the stored row unchanged.
func (s *SQLiteStore) GetOrCreateType(ctx context.Context, code, text string, category *models.ChargeCategory) (*models.ChargeType, bool, error) {
	chargeType := &models.ChargeType{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, type, text, category_id FROM charge_types WHERE type = ?",
		code,
	).Scan(&chargeType.ID, &chargeType.Type, &chargeType.Text, &chargeType.CategoryID)
	if err == nil {
		return chargeType, false, nil
	}
	if err != sql.ErrNoRows {
		return nil, false, fmt.Errorf("failed to look up charge type %s: %w", code, err)
	}

	chargeType = &models.ChargeType{
		ID:         uuid.New().String(),
		Type:       code,
		Text:       text,
		CategoryID: category.ID,
	}
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO charge_types (id, type, text, category_id) VALUES (?, ?, ?, ?)",
		chargeType.ID, chargeType.Type, chargeType.Text, chargeType.CategoryID,
	); err != nil {
		return nil, false, fmt.Errorf("failed to create charge type %s: %w", code, err)
	}
	return chargeType, true, nil
}

// GetOrCreateCycle resolves a billing cycle by its displayed name. The end
// date is parsed from the label at creation time; cycles with unparseable
// labels persist with a NULL end date.
func (s *SQLiteStore) GetOrCreateCycle(ctx context.Context, name string) (*models.BillingCycle, bool, error) {
	cycle, err := s.scanCycle(s.db.QueryRowContext(ctx,
		"SELECT id, name, end_date, created_at FROM billing_cycles WHERE name = ?",
		name,
	))
	if err == nil {
		return cycle, false, nil
	}
	if err != sql.ErrNoRows {
		return nil, false, fmt.Errorf("failed to look up billing cycle %q: %w", name, err)
	}

	cycle = &models.BillingCycle{
		ID:        uuid.New().String(),
		Name:      name,
		EndDate:   models.ParseCycleEndDate(name),
		CreatedAt: time.Now().Unix(),
	}
	var endDate interface{}
	if cycle.EndDate != nil {
		endDate = cycle.EndDate.Format(time.DateOnly)
	}
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO billing_cycles (id, name, end_date, created_at) VALUES (?, ?, ?, ?)",
		cycle.ID, cycle.Name, endDate, cycle.CreatedAt,
	); err != nil {
		return nil, false, fmt.Errorf("failed to create billing cycle %q: %w", name, err)
	}
	return cycle, true, nil
}

// CycleByMonth resolves the billing cycle whose end date falls in the given
// month and year. Returns (nil, nil) when none matches.
func (s *SQLiteStore) CycleByMonth(ctx context.Context, month time.Month, year int) (*models.BillingCycle, error) {
	cycle, err := s.scanCycle(s.db.QueryRowContext(ctx,
		`SELECT id, name, end_date, created_at FROM billing_cycles
		 WHERE end_date IS NOT NULL
		   AND CAST(strftime('%m', end_date) AS INTEGER) = ?
		   AND CAST(strftime('%Y', end_date) AS INTEGER) = ?
		 ORDER BY end_date DESC LIMIT 1`,
		int(month), year,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up billing cycle for %d/%d: %w", year, int(month), err)
	}
	return cycle, nil
}

func (s *SQLiteStore) scanCycle(row *sql.Row) (*models.BillingCycle, error) {
	cycle := &models.BillingCycle{}
	var endDate sql.NullString
	if err := row.Scan(&cycle.ID, &cycle.Name, &endDate, &cycle.CreatedAt); err != nil {
		return nil, err
	}
	if endDate.Valid {
		t, err := time.Parse(time.DateOnly, endDate.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored end date %q: %w", endDate.String, err)
		}
		cycle.EndDate = &t
	}
	return cycle, nil
}
