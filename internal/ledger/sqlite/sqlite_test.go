package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/LXXHXX/att-bill-splitter/internal/ledger"
	"github.com/LXXHXX/att-bill-splitter/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGetOrCreateIdempotence(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("user", func(t *testing.T) {
		first, created, err := store.GetOrCreateUser(ctx, "John Doe", "555-123-4567")
		if err != nil {
			t.Fatalf("GetOrCreateUser failed: %v", err)
		}
		if !created {
			t.Error("Expected created=true on first call")
		}

		second, created, err := store.GetOrCreateUser(ctx, "John Doe", "555-123-4567")
		if err != nil {
			t.Fatalf("GetOrCreateUser (second) failed: %v", err)
		}
		if created {
			t.Error("Expected created=false on second call")
		}
		if second.ID != first.ID {
			t.Errorf("Second call returned different entity: %s vs %s", second.ID, first.ID)
		}
	})

	t.Run("category", func(t *testing.T) {
		first, created, err := store.GetOrCreateCategory(ctx, models.CategoryWireless, "Wireless")
		if err != nil {
			t.Fatalf("GetOrCreateCategory failed: %v", err)
		}
		if !created {
			t.Error("Expected created=true on first call")
		}
		second, created, err := store.GetOrCreateCategory(ctx, models.CategoryWireless, "Wireless")
		if err != nil {
			t.Fatalf("GetOrCreateCategory (second) failed: %v", err)
		}
		if created || second.ID != first.ID {
			t.Errorf("Expected same category row, got created=%v id=%s want id=%s", created, second.ID, first.ID)
		}
	})

	t.Run("type keeps first text", func(t *testing.T) {
		category, _, err := store.GetOrCreateCategory(ctx, models.CategoryUverseTV, "U-verse TV")
		if err != nil {
			t.Fatalf("GetOrCreateCategory failed: %v", err)
		}
		first, _, err := store.GetOrCreateType(ctx, "monthly-charges", "Monthly Charges", category)
		if err != nil {
			t.Fatalf("GetOrCreateType failed: %v", err)
		}
		second, created, err := store.GetOrCreateType(ctx, "monthly-charges", "Different Text", category)
		if err != nil {
			t.Fatalf("GetOrCreateType (second) failed: %v", err)
		}
		if created {
			t.Error("Expected created=false on second call")
		}
		if second.Text != first.Text {
			t.Errorf("Stored text was recomputed: %q vs %q", second.Text, first.Text)
		}
	})

	t.Run("cycle", func(t *testing.T) {
		first, created, err := store.GetOrCreateCycle(ctx, "Mar 15 - Apr 14, 2016")
		if err != nil {
			t.Fatalf("GetOrCreateCycle failed: %v", err)
		}
		if !created {
			t.Error("Expected created=true on first call")
		}
		if first.EndDate == nil || first.EndDate.Format(time.DateOnly) != "2016-04-14" {
			t.Errorf("EndDate = %v, want 2016-04-14", first.EndDate)
		}
		second, created, err := store.GetOrCreateCycle(ctx, "Mar 15 - Apr 14, 2016")
		if err != nil {
			t.Fatalf("GetOrCreateCycle (second) failed: %v", err)
		}
		if created || second.ID != first.ID {
			t.Errorf("Expected same cycle row, got created=%v id=%s want id=%s", created, second.ID, first.ID)
		}
		if second.EndDate == nil || !second.EndDate.Equal(*first.EndDate) {
			t.Errorf("Round-tripped EndDate = %v, want %v", second.EndDate, first.EndDate)
		}
	})
}

func TestInsertChargeUniqueness(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user, _, err := store.GetOrCreateUser(ctx, "John Doe", "555-123-4567")
	if err != nil {
		t.Fatalf("GetOrCreateUser failed: %v", err)
	}
	category, _, err := store.GetOrCreateCategory(ctx, models.CategoryWireless, "Wireless")
	if err != nil {
		t.Fatalf("GetOrCreateCategory failed: %v", err)
	}
	chargeType, _, err := store.GetOrCreateType(ctx, "monthly-charges", "Monthly Charges", category)
	if err != nil {
		t.Fatalf("GetOrCreateType failed: %v", err)
	}
	cycle, _, err := store.GetOrCreateCycle(ctx, "Mar 15 - Apr 14, 2016")
	if err != nil {
		t.Fatalf("GetOrCreateCycle failed: %v", err)
	}

	amount := decimal.RequireFromString("45.00")
	if _, err := store.InsertCharge(ctx, user, chargeType, cycle, amount); err != nil {
		t.Fatalf("InsertCharge failed: %v", err)
	}

	_, err = store.InsertCharge(ctx, user, chargeType, cycle, amount)
	var dup *ledger.DuplicateChargeError
	if !errors.As(err, &dup) {
		t.Fatalf("Second InsertCharge error = %v, want DuplicateChargeError", err)
	}

	// The original row must survive untouched.
	total, err := store.SumByCategory(ctx, user, cycle, models.CategoryWireless)
	if err != nil {
		t.Fatalf("SumByCategory failed: %v", err)
	}
	if !total.Equal(amount) {
		t.Errorf("SumByCategory = %s, want %s", total, amount)
	}
}

// seedCharges writes a small two-user wireless cycle plus an unrelated TV
// charge and returns the cycle.
func seedCharges(t *testing.T, store *SQLiteStore) (*models.BillingCycle, *models.User, *models.User) {
	t.Helper()
	ctx := context.Background()

	john, _, err := store.GetOrCreateUser(ctx, "John Doe", "555-123-4567")
	if err != nil {
		t.Fatalf("GetOrCreateUser failed: %v", err)
	}
	jane, _, err := store.GetOrCreateUser(ctx, "Jane Doe", "555-987-6543")
	if err != nil {
		t.Fatalf("GetOrCreateUser failed: %v", err)
	}
	wireless, _, err := store.GetOrCreateCategory(ctx, models.CategoryWireless, "Wireless")
	if err != nil {
		t.Fatalf("GetOrCreateCategory failed: %v", err)
	}
	utv, _, err := store.GetOrCreateCategory(ctx, models.CategoryUverseTV, "U-verse TV")
	if err != nil {
		t.Fatalf("GetOrCreateCategory failed: %v", err)
	}
	monthly, _, err := store.GetOrCreateType(ctx, "monthly-charges", "Monthly Charges", wireless)
	if err != nil {
		t.Fatalf("GetOrCreateType failed: %v", err)
	}
	usage, _, err := store.GetOrCreateType(ctx, "usage-charges", "Usage Charges", wireless)
	if err != nil {
		t.Fatalf("GetOrCreateType failed: %v", err)
	}
	tvMonthly, _, err := store.GetOrCreateType(ctx, "utv-monthly-charges", "Monthly Charges", utv)
	if err != nil {
		t.Fatalf("GetOrCreateType failed: %v", err)
	}
	cycle, _, err := store.GetOrCreateCycle(ctx, "Mar 15 - Apr 14, 2016")
	if err != nil {
		t.Fatalf("GetOrCreateCycle failed: %v", err)
	}

	inserts := []struct {
		user       *models.User
		chargeType *models.ChargeType
		amount     string
	}{
		{john, monthly, "45.00"},
		{john, usage, "5.50"},
		{jane, monthly, "25.00"},
		{john, tvMonthly, "64.99"},
	}
	for _, in := range inserts {
		if _, err := store.InsertCharge(context.Background(), in.user, in.chargeType, cycle, decimal.RequireFromString(in.amount)); err != nil {
			t.Fatalf("InsertCharge(%s, %s) failed: %v", in.user.Number, in.chargeType.Type, err)
		}
	}
	return cycle, john, jane
}

func TestAggregates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	cycle, john, jane := seedCharges(t, store)

	t.Run("SumByCategory excludes other categories", func(t *testing.T) {
		total, err := store.SumByCategory(ctx, john, cycle, models.CategoryWireless)
		if err != nil {
			t.Fatalf("SumByCategory failed: %v", err)
		}
		if want := decimal.RequireFromString("50.50"); !total.Equal(want) {
			t.Errorf("John wireless total = %s, want %s", total, want)
		}
	})

	t.Run("UserTotals in insertion order", func(t *testing.T) {
		totals, err := store.UserTotals(ctx, cycle, models.CategoryWireless)
		if err != nil {
			t.Fatalf("UserTotals failed: %v", err)
		}
		if len(totals) != 2 {
			t.Fatalf("UserTotals returned %d rows, want 2", len(totals))
		}
		if totals[0].User.Number != john.Number || totals[1].User.Number != jane.Number {
			t.Errorf("Row order = %s, %s; want John first", totals[0].User.Number, totals[1].User.Number)
		}
		if want := decimal.RequireFromString("50.50"); !totals[0].Total.Equal(want) {
			t.Errorf("John total = %s, want %s", totals[0].Total, want)
		}
		if want := decimal.RequireFromString("25.00"); !totals[1].Total.Equal(want) {
			t.Errorf("Jane total = %s, want %s", totals[1].Total, want)
		}
	})

	t.Run("TypeTotals groups one user's rows consecutively", func(t *testing.T) {
		rows, err := store.TypeTotals(ctx, cycle, models.CategoryWireless)
		if err != nil {
			t.Fatalf("TypeTotals failed: %v", err)
		}
		if len(rows) != 3 {
			t.Fatalf("TypeTotals returned %d rows, want 3", len(rows))
		}
		if rows[0].User.Number != john.Number || rows[1].User.Number != john.Number {
			t.Errorf("Expected John's two rows first, got %s then %s", rows[0].User.Number, rows[1].User.Number)
		}
		if rows[2].User.Number != jane.Number {
			t.Errorf("Expected Jane's row last, got %s", rows[2].User.Number)
		}
		if rows[0].TypeText != "Monthly Charges" {
			t.Errorf("First row type = %q, want Monthly Charges", rows[0].TypeText)
		}
	})
}

func TestCycleByMonth(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, _, err := store.GetOrCreateCycle(ctx, "Mar 15 - Apr 14, 2016"); err != nil {
		t.Fatalf("GetOrCreateCycle failed: %v", err)
	}

	t.Run("match", func(t *testing.T) {
		cycle, err := store.CycleByMonth(ctx, time.April, 2016)
		if err != nil {
			t.Fatalf("CycleByMonth failed: %v", err)
		}
		if cycle == nil {
			t.Fatal("CycleByMonth = nil, want cycle")
		}
		if cycle.Name != "Mar 15 - Apr 14, 2016" {
			t.Errorf("CycleByMonth name = %q", cycle.Name)
		}
	})

	t.Run("no match", func(t *testing.T) {
		cycle, err := store.CycleByMonth(ctx, time.June, 2016)
		if err != nil {
			t.Fatalf("CycleByMonth failed: %v", err)
		}
		if cycle != nil {
			t.Errorf("CycleByMonth = %+v, want nil", cycle)
		}
	})

	t.Run("cycle without end date is invisible", func(t *testing.T) {
		if _, _, err := store.GetOrCreateCycle(ctx, "Statement 42"); err != nil {
			t.Fatalf("GetOrCreateCycle failed: %v", err)
		}
		cycle, err := store.CycleByMonth(ctx, time.January, 1)
		if err != nil {
			t.Fatalf("CycleByMonth failed: %v", err)
		}
		if cycle != nil {
			t.Errorf("CycleByMonth = %+v, want nil", cycle)
		}
	})
}
