package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Item is the mutable aggregate root of a listing. It exclusively owns its
// value objects and collections: inputs are copied on construction and every
// accessor hands out copies, so the only way to change an item is through its
// mutators.
type Item struct {
	id           string
	title        string
	titleNorm    string
	description  string
	basePrice    Price
	discount     *Discount
	stock        int
	sellerID     string
	pictures     []Picture
	rating       Rating
	condition    Condition
	freeShipping bool
	categories   []string
	attributes   *orderedmap.OrderedMap[string, string]
}

// itemJSON is the persisted wire shape of an Item. The normalized title is
// derived, never stored.
type itemJSON struct {
	ID           string                                 `json:"id"`
	Title        string                                 `json:"title"`
	Description  string                                 `json:"description"`
	Price        Price                                  `json:"price"`
	Discount     *Discount                              `json:"discount,omitempty"`
	Stock        int                                    `json:"stock"`
	SellerID     string                                 `json:"sellerId"`
	Pictures     []Picture                              `json:"pictures"`
	Rating       Rating                                 `json:"rating"`
	Condition    Condition                              `json:"condition"`
	FreeShipping bool                                   `json:"freeShipping"`
	Categories   []string                               `json:"categories"`
	Attributes   *orderedmap.OrderedMap[string, string] `json:"attributes"`
}

func (it *Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(itemJSON{
		ID:           it.id,
		Title:        it.title,
		Description:  it.description,
		Price:        it.basePrice,
		Discount:     it.discount,
		Stock:        it.stock,
		SellerID:     it.sellerID,
		Pictures:     it.pictures,
		Rating:       it.rating,
		Condition:    it.condition,
		FreeShipping: it.freeShipping,
		Categories:   it.categories,
		Attributes:   it.attributes,
	})
}

func (it *Item) UnmarshalJSON(data []byte) error {
	var raw itemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	it.id = raw.ID
	it.title = raw.Title
	it.titleNorm = NormalizeTitle(raw.Title)
	it.description = raw.Description
	it.basePrice = raw.Price
	it.discount = raw.Discount
	it.stock = raw.Stock
	it.sellerID = raw.SellerID
	it.pictures = raw.Pictures
	it.rating = raw.Rating
	it.condition = raw.Condition
	it.freeShipping = raw.FreeShipping
	it.categories = raw.Categories
	it.attributes = raw.Attributes
	if it.pictures == nil {
		it.pictures = []Picture{}
	}
	if it.categories == nil {
		it.categories = []string{}
	}
	if it.attributes == nil {
		it.attributes = orderedmap.New[string, string]()
	}
	if it.condition == "" {
		it.condition = ConditionNew
	}
	return nil
}

// ---------- accessors ----------

func (it *Item) ID() string               { return it.id }
func (it *Item) Title() string            { return it.title }
func (it *Item) TitleNormalized() string  { return it.titleNorm }
func (it *Item) Description() string      { return it.description }
func (it *Item) BasePrice() Price         { return it.basePrice }
func (it *Item) Stock() int               { return it.stock }
func (it *Item) SellerID() string         { return it.sellerID }
func (it *Item) Rating() Rating           { return it.rating }
func (it *Item) ItemCondition() Condition { return it.condition }
func (it *Item) FreeShipping() bool       { return it.freeShipping }

// Discount returns the applied discount, active or not, or false when there
// is none.
func (it *Item) Discount() (Discount, bool) {
	if it.discount == nil {
		return Discount{}, false
	}
	return *it.discount, true
}

// ActiveDiscount returns the discount only when its window contains now.
// Inactive, future and expired discounts are invisible through this accessor,
// which is what keeps them out of every external representation.
func (it *Item) ActiveDiscount(now time.Time) (Discount, bool) {
	if it.discount == nil || !it.discount.Active(now) {
		return Discount{}, false
	}
	return *it.discount, true
}

// HasActiveDiscount reports whether a discount is applied and active at now.
func (it *Item) HasActiveDiscount(now time.Time) bool {
	_, ok := it.ActiveDiscount(now)
	return ok
}

// Pictures returns a copy of the picture list in insertion order.
func (it *Item) Pictures() []Picture {
	out := make([]Picture, len(it.pictures))
	copy(out, it.pictures)
	return out
}

// Categories returns a copy of the category list in insertion order.
// Duplicates are allowed.
func (it *Item) Categories() []string {
	out := make([]string, len(it.categories))
	copy(out, it.categories)
	return out
}

// Attributes returns a copy of the attribute mapping.
func (it *Item) Attributes() map[string]string {
	out := make(map[string]string, it.attributes.Len())
	for pair := it.attributes.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value
	}
	return out
}

// AttributeKeys returns the attribute keys in insertion order.
func (it *Item) AttributeKeys() []string {
	out := make([]string, 0, it.attributes.Len())
	for pair := it.attributes.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// CurrentPrice computes the effective price at now. Without an active
// discount it is the base price unchanged. Percent discounts use a 4-decimal
// intermediate factor; the result is clamped at zero and rounded half-up to
// two decimals.
func (it *Item) CurrentPrice(now time.Time) Price {
	d := it.discount
	if d == nil || !d.Active(now) {
		return it.basePrice
	}

	base := it.basePrice.Amount
	var current decimal.Decimal
	switch d.Type {
	case DiscountPercent:
		percent := decimal.NewFromInt(d.Value).DivRound(decimal.NewFromInt(100), 4)
		current = base.Sub(base.Mul(percent))
	case DiscountAmount:
		current = base.Sub(decimal.NewFromInt(d.Value))
	default:
		return it.basePrice
	}

	if current.IsNegative() {
		current = decimal.Zero
	}
	// Cannot fail: the currency is already valid and the amount non-negative.
	price, _ := it.basePrice.WithAmount(current.Round(2))
	return price
}

// ---------- mutators ----------

// ChangeTitle replaces the title and recomputes the normalized title.
func (it *Item) ChangeTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title required", ErrInvalidArgument)
	}
	it.title = title
	it.titleNorm = NormalizeTitle(title)
	return nil
}

func (it *Item) ChangeDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("%w: description required", ErrInvalidArgument)
	}
	it.description = description
	return nil
}

func (it *Item) ChangeBasePrice(p Price) error {
	if p.Currency == "" {
		return fmt.Errorf("%w: price required", ErrInvalidArgument)
	}
	it.basePrice = p
	return nil
}

// SetStock sets the absolute stock level, which must be >= 0.
func (it *Item) SetStock(stock int) error {
	if stock < 0 {
		return fmt.Errorf("%w: stock must be >= 0", ErrInvalidArgument)
	}
	it.stock = stock
	return nil
}

// IncrementStock adjusts stock by delta. Unlike SetStock this is a relative
// operation, so a negative result is an aggregate invariant violation rather
// than bad input.
func (it *Item) IncrementStock(delta int) error {
	next := it.stock + delta
	if next < 0 {
		return fmt.Errorf("%w: stock cannot go negative", ErrIllegalState)
	}
	it.stock = next
	return nil
}

// ApplyDiscount replaces the current discount. The discount was already
// validated at construction, so the replace is unconditional.
func (it *Item) ApplyDiscount(d Discount) {
	it.discount = &d
}

// ClearDiscount removes any applied discount.
func (it *Item) ClearDiscount() {
	it.discount = nil
}

// UpdateRating folds a vote into the rating.
func (it *Item) UpdateRating(stars int) error {
	r, err := it.rating.AddVote(stars)
	if err != nil {
		return err
	}
	it.rating = r
	return nil
}

// AddPicture appends a picture. When the new picture is flagged main, every
// existing main flag is cleared first, so at most one picture is ever main.
func (it *Item) AddPicture(p Picture) error {
	if strings.TrimSpace(p.URL) == "" {
		return fmt.Errorf("%w: picture url required", ErrInvalidArgument)
	}
	if p.Main {
		for i := range it.pictures {
			it.pictures[i].Main = false
		}
	}
	it.pictures = append(it.pictures, p)
	return nil
}

// RemovePictureByURL removes every picture with the given URL and reports
// whether any was removed.
func (it *Item) RemovePictureByURL(url string) (bool, error) {
	if strings.TrimSpace(url) == "" {
		return false, fmt.Errorf("%w: url required", ErrInvalidArgument)
	}
	kept := it.pictures[:0]
	removed := false
	for _, p := range it.pictures {
		if p.URL == url {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	it.pictures = kept
	return removed, nil
}

// SetMainPicture flags the picture with the given URL as main and clears the
// flag everywhere else. Reports whether a matching picture was found.
func (it *Item) SetMainPicture(url string) (bool, error) {
	if strings.TrimSpace(url) == "" {
		return false, fmt.Errorf("%w: url required", ErrInvalidArgument)
	}
	found := false
	for i := range it.pictures {
		isMain := it.pictures[i].URL == url
		if isMain {
			found = true
		}
		it.pictures[i].Main = isMain
	}
	return found, nil
}

// AddCategory appends a category. Duplicates are allowed.
func (it *Item) AddCategory(category string) error {
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("%w: category required", ErrInvalidArgument)
	}
	it.categories = append(it.categories, category)
	return nil
}

// RemoveCategory removes the first occurrence of category and reports whether
// one was removed.
func (it *Item) RemoveCategory(category string) bool {
	for i, c := range it.categories {
		if c == category {
			it.categories = append(it.categories[:i], it.categories[i+1:]...)
			return true
		}
	}
	return false
}

// ReplaceCategories swaps the whole category list. All entries are validated
// before any state changes, so a blank entry leaves the previous list intact.
// A nil list clears to empty.
func (it *Item) ReplaceCategories(categories []string) error {
	for _, c := range categories {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("%w: category required", ErrInvalidArgument)
		}
	}
	it.categories = append([]string{}, categories...)
	return nil
}

// PutAttribute sets an attribute. A blank value removes the key instead of
// storing an empty string.
func (it *Item) PutAttribute(key, value string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: attribute key required", ErrInvalidArgument)
	}
	if strings.TrimSpace(value) == "" {
		it.attributes.Delete(key)
		return nil
	}
	it.attributes.Set(key, value)
	return nil
}

// RemoveAttribute deletes an attribute if present.
func (it *Item) RemoveAttribute(key string) {
	it.attributes.Delete(key)
}

// ClearAttributes removes all attributes.
func (it *Item) ClearAttributes() {
	it.attributes = orderedmap.New[string, string]()
}

func (it *Item) SetFreeShipping(free bool) {
	it.freeShipping = free
}

// Validate is the final aggregate check before persistence.
func (it *Item) Validate() error {
	switch {
	case strings.TrimSpace(it.id) == "":
		return fmt.Errorf("%w: id required", ErrIllegalState)
	case strings.TrimSpace(it.title) == "":
		return fmt.Errorf("%w: title required", ErrIllegalState)
	case strings.TrimSpace(it.description) == "":
		return fmt.Errorf("%w: description required", ErrIllegalState)
	case it.basePrice.Currency == "":
		return fmt.Errorf("%w: price required", ErrIllegalState)
	case it.stock < 0:
		return fmt.Errorf("%w: stock must be >= 0", ErrIllegalState)
	}
	return nil
}

// Clone returns a deep copy of the item. The repository exchanges clones with
// its callers so indexed state can never be mutated outside its lock.
func (it *Item) Clone() *Item {
	out := *it
	if it.discount != nil {
		d := *it.discount
		out.discount = &d
	}
	out.pictures = make([]Picture, len(it.pictures))
	copy(out.pictures, it.pictures)
	out.categories = make([]string, len(it.categories))
	copy(out.categories, it.categories)
	out.attributes = orderedmap.New[string, string]()
	for pair := it.attributes.Oldest(); pair != nil; pair = pair.Next() {
		out.attributes.Set(pair.Key, pair.Value)
	}
	return &out
}
