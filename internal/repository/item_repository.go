package repository

import (
	"context"
	"errors"

	"item-detail/internal/domain"
)

var (
	ErrItemNotFound = errors.New("item not found")

	// ErrDuplicateListing is returned when a save would give two different
	// items the same (seller, normalized title) pair.
	ErrDuplicateListing = errors.New("seller already has a listing with this title")
)

// ItemRepository defines the interface for item persistence. Implementations
// return deep copies: mutating a returned item has no effect until it is
// saved again.
type ItemRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Item, error)
	FindBySellerAndTitle(ctx context.Context, sellerID, titleNormalized string) (*domain.Item, error)
	FindAll(ctx context.Context, page, size int) ([]*domain.Item, error)
	Save(ctx context.Context, item *domain.Item) (*domain.Item, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
}
