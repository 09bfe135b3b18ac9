package domain

import (
	"fmt"
	"strings"
	"time"
)

// DiscountType is a closed set of discount kinds.
type DiscountType string

const (
	DiscountPercent DiscountType = "PERCENT"
	DiscountAmount  DiscountType = "AMOUNT"
)

// ParseDiscountType parses a case-insensitive discount type token.
func ParseDiscountType(s string) (DiscountType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(DiscountPercent):
		return DiscountPercent, nil
	case string(DiscountAmount):
		return DiscountAmount, nil
	default:
		return "", fmt.Errorf("%w: unknown discount type %q (allowed: PERCENT, AMOUNT)", ErrInvalidArgument, s)
	}
}

// Discount is an immutable percentage or fixed-amount reduction with an
// optional active time window. Window bounds are inclusive.
type Discount struct {
	Type     DiscountType `json:"type"`
	Value    int64        `json:"value"`
	Label    string       `json:"label,omitempty"`
	StartsAt *time.Time   `json:"startsAt,omitempty"`
	EndsAt   *time.Time   `json:"endsAt,omitempty"`
}

// NewDiscount validates and returns a Discount. PERCENT values must be in
// 0..100, AMOUNT values must be >= 0, and EndsAt must not precede StartsAt.
func NewDiscount(typ DiscountType, value int64, label string, startsAt, endsAt *time.Time) (Discount, error) {
	switch typ {
	case DiscountPercent:
		if value < 0 || value > 100 {
			return Discount{}, fmt.Errorf("%w: percent discount value must be in 0..100", ErrInvalidArgument)
		}
	case DiscountAmount:
		if value < 0 {
			return Discount{}, fmt.Errorf("%w: amount discount value must be >= 0", ErrInvalidArgument)
		}
	default:
		return Discount{}, fmt.Errorf("%w: unknown discount type %q (allowed: PERCENT, AMOUNT)", ErrInvalidArgument, typ)
	}
	if startsAt != nil && endsAt != nil && endsAt.Before(*startsAt) {
		return Discount{}, fmt.Errorf("%w: endsAt must not precede startsAt", ErrInvalidArgument)
	}
	return Discount{Type: typ, Value: value, Label: label, StartsAt: startsAt, EndsAt: endsAt}, nil
}

// Active reports whether the discount window contains now. Both bounds are
// inclusive; an absent bound is open. A zero now falls back to the current
// time, but callers should pass an explicit instant for determinism.
func (d Discount) Active(now time.Time) bool {
	if now.IsZero() {
		now = time.Now()
	}
	if d.StartsAt != nil && now.Before(*d.StartsAt) {
		return false
	}
	if d.EndsAt != nil && now.After(*d.EndsAt) {
		return false
	}
	return true
}
