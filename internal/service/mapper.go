package service

import (
	"encoding/json"
	"time"

	"item-detail/internal/domain"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// toItemResponse maps an item to its outward representation as of now. The
// current price embeds the active discount, and the discount block is present
// only when active at now.
func toItemResponse(item *domain.Item, now time.Time) *ItemResponse {
	rs := &ItemResponse{
		ID:           item.ID(),
		Title:        item.Title(),
		Description:  item.Description(),
		BasePrice:    toPriceResponse(item.BasePrice()),
		CurrentPrice: toPriceResponse(item.CurrentPrice(now)),
		Stock:        item.Stock(),
		SellerID:     item.SellerID(),
		Pictures:     []PictureResponse{},
		Rating:       RatingResponse{Average: item.Rating().Average, Count: item.Rating().Count},
		Condition:    string(item.ItemCondition()),
		FreeShipping: item.FreeShipping(),
		Categories:   item.Categories(),
		Attributes:   toAttributesResponse(item),
	}

	for _, p := range item.Pictures() {
		rs.Pictures = append(rs.Pictures, PictureResponse{URL: p.URL, Main: p.Main, Alt: p.Alt})
	}

	if d, ok := item.ActiveDiscount(now); ok {
		rs.HasActiveDiscount = true
		rs.Discount = &DiscountResponse{
			Type:     string(d.Type),
			Value:    d.Value,
			Label:    d.Label,
			StartsAt: d.StartsAt,
			EndsAt:   d.EndsAt,
			Active:   true,
		}
	}

	return rs
}

func toPriceResponse(p domain.Price) PriceResponse {
	return PriceResponse{Amount: json.Number(p.Amount.StringFixed(2)), Currency: p.Currency}
}

// toAttributesResponse rebuilds the attribute mapping in stored insertion
// order so the rendered JSON object keeps it.
func toAttributesResponse(item *domain.Item) *orderedmap.OrderedMap[string, string] {
	values := item.Attributes()
	out := orderedmap.New[string, string]()
	for _, key := range item.AttributeKeys() {
		out.Set(key, values[key])
	}
	return out
}
