package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ItemBuilder assembles a new Item. A generated id and sensible defaults are
// supplied up front; Build validates the required fields and copies every
// collection so the builder's inputs stay external to the aggregate.
type ItemBuilder struct {
	id           string
	title        string
	description  string
	price        Price
	hasPrice     bool
	discount     *Discount
	stock        int
	sellerID     string
	pictures     []Picture
	rating       Rating
	condition    Condition
	freeShipping bool
	categories   []string
	attributes   map[string]string
	attrOrder    []string
}

// NewItemBuilder returns a builder with a generated id, an empty rating and
// condition NEW.
func NewItemBuilder() *ItemBuilder {
	return &ItemBuilder{
		id:        uuid.NewString(),
		rating:    EmptyRating(),
		condition: ConditionNew,
	}
}

func (b *ItemBuilder) ID(id string) *ItemBuilder {
	b.id = id
	return b
}

func (b *ItemBuilder) Title(title string) *ItemBuilder {
	b.title = title
	return b
}

func (b *ItemBuilder) Description(description string) *ItemBuilder {
	b.description = description
	return b
}

func (b *ItemBuilder) Price(p Price) *ItemBuilder {
	b.price = p
	b.hasPrice = true
	return b
}

func (b *ItemBuilder) Discount(d Discount) *ItemBuilder {
	b.discount = &d
	return b
}

func (b *ItemBuilder) Stock(stock int) *ItemBuilder {
	b.stock = stock
	return b
}

func (b *ItemBuilder) SellerID(sellerID string) *ItemBuilder {
	b.sellerID = sellerID
	return b
}

func (b *ItemBuilder) Pictures(pictures []Picture) *ItemBuilder {
	b.pictures = append([]Picture{}, pictures...)
	return b
}

func (b *ItemBuilder) Rating(r Rating) *ItemBuilder {
	b.rating = r
	return b
}

func (b *ItemBuilder) Condition(c Condition) *ItemBuilder {
	b.condition = c
	return b
}

func (b *ItemBuilder) FreeShipping(free bool) *ItemBuilder {
	b.freeShipping = free
	return b
}

func (b *ItemBuilder) Categories(categories []string) *ItemBuilder {
	b.categories = append([]string{}, categories...)
	return b
}

// Attribute adds a single attribute, preserving call order.
func (b *ItemBuilder) Attribute(key, value string) *ItemBuilder {
	if b.attributes == nil {
		b.attributes = map[string]string{}
	}
	if _, seen := b.attributes[key]; !seen {
		b.attrOrder = append(b.attrOrder, key)
	}
	b.attributes[key] = value
	return b
}

// Build validates the required fields and returns the assembled Item.
func (b *ItemBuilder) Build() (*Item, error) {
	switch {
	case strings.TrimSpace(b.id) == "":
		return nil, fmt.Errorf("%w: id required", ErrInvalidArgument)
	case strings.TrimSpace(b.title) == "":
		return nil, fmt.Errorf("%w: title required", ErrInvalidArgument)
	case strings.TrimSpace(b.description) == "":
		return nil, fmt.Errorf("%w: description required", ErrInvalidArgument)
	case !b.hasPrice:
		return nil, fmt.Errorf("%w: price required", ErrInvalidArgument)
	case b.stock < 0:
		return nil, fmt.Errorf("%w: stock must be >= 0", ErrInvalidArgument)
	case strings.TrimSpace(b.sellerID) == "":
		return nil, fmt.Errorf("%w: sellerId required", ErrInvalidArgument)
	}

	condition := b.condition
	if condition == "" {
		condition = ConditionNew
	}

	attrs := orderedmap.New[string, string]()
	for _, k := range b.attrOrder {
		attrs.Set(k, b.attributes[k])
	}

	it := &Item{
		id:           b.id,
		title:        b.title,
		titleNorm:    NormalizeTitle(b.title),
		description:  b.description,
		basePrice:    b.price,
		discount:     b.discount,
		stock:        b.stock,
		sellerID:     b.sellerID,
		pictures:     append([]Picture{}, b.pictures...),
		rating:       b.rating,
		condition:    condition,
		freeShipping: b.freeShipping,
		categories:   append([]string{}, b.categories...),
		attributes:   attrs,
	}
	return it, nil
}
