package domain

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Price is an immutable currency-tagged amount, normalized to two decimal
// places with half-up rounding at construction time. Callers must not assume
// their raw input amount is preserved bit-for-bit.
type Price struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// NewPrice validates the currency code and amount and returns a normalized
// Price. The currency must be a 3-letter uppercase ISO 4217 code and the
// amount must be >= 0.
func NewPrice(currency string, amount decimal.Decimal) (Price, error) {
	if !currencyPattern.MatchString(currency) {
		return Price{}, fmt.Errorf("%w: currency must be ISO 4217 (e.g., ARS, USD)", ErrInvalidArgument)
	}
	if amount.IsNegative() {
		return Price{}, fmt.Errorf("%w: amount must be >= 0", ErrInvalidArgument)
	}
	return Price{Currency: currency, Amount: amount.Round(2)}, nil
}

// WithAmount returns a new Price with the same currency and the given amount,
// re-validated and re-normalized like a freshly constructed Price.
func (p Price) WithAmount(amount decimal.Decimal) (Price, error) {
	return NewPrice(p.Currency, amount)
}

func (p Price) String() string {
	return p.Currency + " " + p.Amount.StringFixed(2)
}

// MarshalJSON writes the amount as a plain JSON number with exactly two
// fractional digits, so 9999.9 persists as 9999.90.
func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Currency string      `json:"currency"`
		Amount   json.Number `json:"amount"`
	}{p.Currency, json.Number(p.Amount.StringFixed(2))})
}

func (p *Price) UnmarshalJSON(data []byte) error {
	var raw struct {
		Currency string          `json:"currency"`
		Amount   decimal.Decimal `json:"amount"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Currency = raw.Currency
	p.Amount = raw.Amount.Round(2)
	return nil
}
