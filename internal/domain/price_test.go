package domain

import (
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

func TestNewPriceValidation(t *testing.T) {
	tests := []struct {
		name     string
		currency string
		amount   string
		wantErr  bool
	}{
		{"valid", "ARS", "10000", false},
		{"valid with decimals", "USD", "19.99", false},
		{"zero amount", "EUR", "0", false},
		{"lowercase currency", "ars", "10", true},
		{"two letter currency", "AR", "10", true},
		{"four letter currency", "ARSX", "10", true},
		{"empty currency", "", "10", true},
		{"negative amount", "ARS", "-0.01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPrice(tt.currency, decimal.RequireFromString(tt.amount))
			if tt.wantErr && err == nil {
				t.Fatalf("NewPrice(%q, %s) expected error, got nil", tt.currency, tt.amount)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("NewPrice(%q, %s) unexpected error: %v", tt.currency, tt.amount, err)
			}
		})
	}
}

func TestNewPriceRoundsHalfUp(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.005", "10.01"},
		{"10.004", "10.00"},
		{"10.015", "10.02"},
		{"7500.0000", "7500.00"},
		{"9999.9", "9999.90"},
	}

	for _, tt := range tests {
		p, err := NewPrice("ARS", decimal.RequireFromString(tt.in))
		if err != nil {
			t.Fatalf("NewPrice(ARS, %s): %v", tt.in, err)
		}
		if got := p.Amount.StringFixed(2); got != tt.want {
			t.Errorf("NewPrice(ARS, %s) amount = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestPriceJSONKeepsTwoDecimals(t *testing.T) {
	p, err := NewPrice("ARS", decimal.RequireFromString("9999.9"))
	if err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"currency":"ARS","amount":9999.90}`
	if string(data) != want {
		t.Errorf("marshal = %s, want %s", data, want)
	}

	var back Price
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Currency != "ARS" || !back.Amount.Equal(p.Amount) {
		t.Errorf("round trip = %s, want %s", back, p)
	}
}

func TestProperty_PriceJSONRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("marshal then unmarshal preserves currency and amount", prop.ForAll(
		func(currency string, cents int64) bool {
			amount := decimal.New(cents, -2)
			p, err := NewPrice(currency, amount)
			if err != nil {
				t.Logf("FAIL: NewPrice(%q, %s): %v", currency, amount, err)
				return false
			}

			data, err := json.Marshal(p)
			if err != nil {
				t.Logf("FAIL: marshal: %v", err)
				return false
			}

			var back Price
			if err := json.Unmarshal(data, &back); err != nil {
				t.Logf("FAIL: unmarshal %s: %v", data, err)
				return false
			}

			if back.Currency != p.Currency || !back.Amount.Equal(p.Amount) {
				t.Logf("FAIL: round trip %s != %s", back, p)
				return false
			}
			return true
		},
		gen.RegexMatch(`[A-Z]{3}`),
		gen.Int64Range(0, 1_000_000_000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
