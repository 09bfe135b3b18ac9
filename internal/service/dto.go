package service

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// PriceRequest carries a raw price from the boundary. Currency case and
// amount precision are normalized by the domain, not here.
type PriceRequest struct {
	Currency string          `json:"currency" validate:"required"`
	Amount   decimal.Decimal `json:"amount"`
}

// CreateItemRequest is the payload for creating a listing.
type CreateItemRequest struct {
	Title        string            `json:"title" validate:"required"`
	Description  string            `json:"description" validate:"required"`
	Price        *PriceRequest     `json:"price" validate:"required"`
	Stock        int               `json:"stock" validate:"gte=0"`
	SellerID     string            `json:"sellerId" validate:"required"`
	Condition    string            `json:"condition" validate:"required"`
	FreeShipping bool              `json:"freeShipping"`
	Categories   []string          `json:"categories"`
	Attributes   map[string]string `json:"attributes"`
}

// UpdateItemRequest is a partial update: absent fields are left untouched,
// never reset to defaults.
type UpdateItemRequest struct {
	Title       *string       `json:"title" validate:"omitempty,min=1"`
	Description *string       `json:"description" validate:"omitempty,min=1"`
	Price       *PriceRequest `json:"price"`
	Stock       *int          `json:"stock" validate:"omitempty,gte=0"`
}

// ApplyDiscountRequest carries a discount to apply. Type is a
// case-insensitive token validated against the known discount types.
type ApplyDiscountRequest struct {
	Type     string     `json:"type" validate:"required"`
	Value    int64      `json:"value" validate:"gte=0"`
	Label    string     `json:"label"`
	StartsAt *time.Time `json:"startsAt"`
	EndsAt   *time.Time `json:"endsAt"`
}

// PriceResponse is the outward price shape. The amount is rendered as a JSON
// number with exactly two fractional digits.
type PriceResponse struct {
	Amount   json.Number `json:"amount"`
	Currency string      `json:"currency"`
}

// DiscountResponse is only ever rendered for an active discount; inactive,
// future and expired discounts are suppressed entirely.
type DiscountResponse struct {
	Type     string     `json:"type"`
	Value    int64      `json:"value"`
	Label    string     `json:"label,omitempty"`
	StartsAt *time.Time `json:"startsAt,omitempty"`
	EndsAt   *time.Time `json:"endsAt,omitempty"`
	Active   bool       `json:"active"`
}

type PictureResponse struct {
	URL  string `json:"url"`
	Main bool   `json:"main"`
	Alt  string `json:"alt,omitempty"`
}

type RatingResponse struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// ItemResponse is the outward listing representation, with the effective
// price computed at response time. Attributes render in their stored
// insertion order, not sorted key order.
type ItemResponse struct {
	ID                string                                 `json:"id"`
	Title             string                                 `json:"title"`
	Description       string                                 `json:"description"`
	BasePrice         PriceResponse                          `json:"basePrice"`
	CurrentPrice      PriceResponse                          `json:"currentPrice"`
	HasActiveDiscount bool                                   `json:"hasActiveDiscount"`
	Discount          *DiscountResponse                      `json:"discount,omitempty"`
	Stock             int                                    `json:"stock"`
	SellerID          string                                 `json:"sellerId"`
	Pictures          []PictureResponse                      `json:"pictures"`
	Rating            RatingResponse                         `json:"rating"`
	Condition         string                                 `json:"condition"`
	FreeShipping      bool                                   `json:"freeShipping"`
	Categories        []string                               `json:"categories"`
	Attributes        *orderedmap.OrderedMap[string, string] `json:"attributes"`
}
