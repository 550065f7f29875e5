package extract

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestTotalAmount(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		label   string
		want    string
		wantErr bool
	}{
		{
			name:  "amount on same line",
			body:  "Monthly Charges\nTotal Monthly Charges $64.99",
			label: "Monthly Charges",
			want:  "64.99",
		},
		{
			name:  "amount separated by newlines",
			body:  "Add-ons\nsome detail\nTotal Add-ons\n\n$12.50\n",
			label: "Add-ons",
			want:  "12.5",
		},
		{
			name:  "monthly charges label with billing period collapses",
			body:  "Monthly Charges Mar 15 - Apr 14\nPlan detail\nTotal Monthly Charges $175.00",
			label: "Monthly Charges Mar 15 - Apr 14",
			want:  "175",
		},
		{
			name:  "first anchor wins",
			body:  "Total Usage $5.00\nmore\nTotal Usage $9.00",
			label: "Usage",
			want:  "5",
		},
		{
			name:  "thousands separator",
			body:  "Total Equipment\n$1,049.99",
			label: "Equipment",
			want:  "1049.99",
		},
		{
			name:    "missing anchor",
			body:    "Surcharges & Fees\n$2.34",
			label:   "Surcharges & Fees",
			wantErr: true,
		},
		{
			name:    "anchor without amount",
			body:    "Total Usage\nno dollars here",
			label:   "Usage",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TotalAmount(tt.body, tt.label)
			if tt.wantErr {
				var extErr *ExtractionError
				if !errors.As(err, &extErr) {
					t.Fatalf("TotalAmount() error = %v, want ExtractionError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("TotalAmount() error = %v", err)
			}
			if want := decimal.RequireFromString(tt.want); !got.Equal(want) {
				t.Errorf("TotalAmount() = %s, want %s", got, want)
			}
		})
	}
}

func TestCanonicalLabel(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Monthly Charges", "Monthly Charges"},
		{"Monthly Charges Mar 15 - Apr 14", "Monthly Charges"},
		{"  Monthly Charges Jun 01 - Jun 30  ", "Monthly Charges"},
		{"Usage Charges", "Usage Charges"},
		{" Equipment ", "Equipment"},
	}

	for _, tt := range tests {
		if got := CanonicalLabel(tt.label); got != tt.want {
			t.Errorf("CanonicalLabel(%q) = %q, want %q", tt.label, got, tt.want)
		}
		// Idempotence: a second pass must be a no-op.
		if once := CanonicalLabel(tt.label); CanonicalLabel(once) != once {
			t.Errorf("CanonicalLabel not idempotent for %q", tt.label)
		}
	}
}

func TestTypeCode(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Monthly Charges", "monthly-charges"},
		{"Monthly Charges Mar 15 - Apr 14", "monthly-charges"},
		{"Surcharges & Fees", "surcharges-and-fees"},
		{"Account Monthly Charges Share", "account-monthly-charges-share"},
	}

	for _, tt := range tests {
		got := TypeCode(tt.label)
		if got != tt.want {
			t.Errorf("TypeCode(%q) = %q, want %q", tt.label, got, tt.want)
		}
		if TypeCode(got) != got {
			t.Errorf("TypeCode not idempotent for %q: %q -> %q", tt.label, got, TypeCode(got))
		}
	}
}

func TestDiscountAmount(t *testing.T) {
	body := "Monthly Charges Mar 15 - Apr 14\nNational Account Discount\n$20.00\nTotal Monthly Charges $175.00"
	amount, ok := DiscountAmount(body)
	if !ok {
		t.Fatal("DiscountAmount() ok = false, want true")
	}
	if want := decimal.RequireFromString("20"); !amount.Equal(want) {
		t.Errorf("DiscountAmount() = %s, want %s", amount, want)
	}

	if _, ok := DiscountAmount("Monthly Charges\nTotal Monthly Charges $175.00"); ok {
		t.Error("DiscountAmount() ok = true for body without discount, want false")
	}
}

func TestStatementTotal(t *testing.T) {
	tests := []struct {
		text    string
		want    string
		wantErr bool
	}{
		{"$255.00", "255", false},
		{"  $1,234.56 \n", "1234.56", false},
		{"255.00", "255", false},
		{"", "", true},
		{"n/a", "", true},
	}

	for _, tt := range tests {
		got, err := StatementTotal(tt.text)
		if tt.wantErr {
			if err == nil {
				t.Errorf("StatementTotal(%q) error = nil, want error", tt.text)
			}
			continue
		}
		if err != nil {
			t.Errorf("StatementTotal(%q) error = %v", tt.text, err)
			continue
		}
		if want := decimal.RequireFromString(tt.want); !got.Equal(want) {
			t.Errorf("StatementTotal(%q) = %s, want %s", tt.text, got, want)
		}
	}
}
