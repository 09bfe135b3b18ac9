package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"item-detail/internal/domain"
	"item-detail/internal/repository"
)

// ItemService defines the business operations on listings.
type ItemService interface {
	Create(ctx context.Context, req *CreateItemRequest) (*ItemResponse, error)
	GetByID(ctx context.Context, id string) (*ItemResponse, error)
	List(ctx context.Context, page, size int) ([]*ItemResponse, error)
	Update(ctx context.Context, id string, req *UpdateItemRequest) (*ItemResponse, error)
	Delete(ctx context.Context, id string) error
	Rate(ctx context.Context, id string, stars int) (*ItemResponse, error)
	ApplyDiscount(ctx context.Context, id string, req *ApplyDiscountRequest) (*ItemResponse, error)
	ClearDiscount(ctx context.Context, id string) (*ItemResponse, error)
}

type itemService struct {
	repo repository.ItemRepository
}

// NewItemService creates a new instance of ItemService.
func NewItemService(repo repository.ItemRepository) ItemService {
	return &itemService{repo: repo}
}

// Create builds, validates and persists a new listing. The uniqueness
// pre-check is an optimization; the repository repeats it under its write
// lock, so a race between the two still surfaces as a duplicate error.
func (s *itemService) Create(ctx context.Context, req *CreateItemRequest) (*ItemResponse, error) {
	price, err := domain.NewPrice(strings.ToUpper(req.Price.Currency), req.Price.Amount)
	if err != nil {
		return nil, err
	}
	condition, err := domain.ParseCondition(req.Condition)
	if err != nil {
		return nil, err
	}

	titleNorm := domain.NormalizeTitle(req.Title)
	if _, err := s.repo.FindBySellerAndTitle(ctx, req.SellerID, titleNorm); err == nil {
		return nil, repository.ErrDuplicateListing
	} else if !errors.Is(err, repository.ErrItemNotFound) {
		return nil, fmt.Errorf("failed to check existing listing: %w", err)
	}

	item, err := domain.NewItemBuilder().
		Title(req.Title).
		Description(req.Description).
		Price(price).
		Stock(req.Stock).
		SellerID(req.SellerID).
		Condition(condition).
		FreeShipping(req.FreeShipping).
		Build()
	if err != nil {
		return nil, err
	}

	if err := item.ReplaceCategories(req.Categories); err != nil {
		return nil, err
	}
	for _, key := range sortedKeys(req.Attributes) {
		if err := item.PutAttribute(key, req.Attributes[key]); err != nil {
			return nil, err
		}
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	saved, err := s.repo.Save(ctx, item)
	if err != nil {
		return nil, err
	}
	return toItemResponse(saved, time.Now()), nil
}

func (s *itemService) GetByID(ctx context.Context, id string) (*ItemResponse, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toItemResponse(item, time.Now()), nil
}

func (s *itemService) List(ctx context.Context, page, size int) ([]*ItemResponse, error) {
	items, err := s.repo.FindAll(ctx, page, size)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := make([]*ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toItemResponse(it, now))
	}
	return out, nil
}

// Update applies only the fields present in the request. When the title
// changes in a way that changes the normalized title, uniqueness is
// re-checked against other items before saving.
func (s *itemService) Update(ctx context.Context, id string, req *UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldNorm := item.TitleNormalized()

	if req.Title != nil {
		if err := item.ChangeTitle(*req.Title); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		if err := item.ChangeDescription(*req.Description); err != nil {
			return nil, err
		}
	}
	if req.Price != nil {
		price, err := domain.NewPrice(strings.ToUpper(req.Price.Currency), req.Price.Amount)
		if err != nil {
			return nil, err
		}
		if err := item.ChangeBasePrice(price); err != nil {
			return nil, err
		}
	}
	if req.Stock != nil {
		if err := item.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}

	if item.TitleNormalized() != oldNorm {
		other, err := s.repo.FindBySellerAndTitle(ctx, item.SellerID(), item.TitleNormalized())
		if err == nil && other.ID() != item.ID() {
			return nil, repository.ErrDuplicateListing
		}
		if err != nil && !errors.Is(err, repository.ErrItemNotFound) {
			return nil, fmt.Errorf("failed to check existing listing: %w", err)
		}
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	saved, err := s.repo.Save(ctx, item)
	if err != nil {
		return nil, err
	}
	return toItemResponse(saved, time.Now()), nil
}

func (s *itemService) Delete(ctx context.Context, id string) error {
	found, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return repository.ErrItemNotFound
	}
	return nil
}

func (s *itemService) Rate(ctx context.Context, id string, stars int) (*ItemResponse, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := item.UpdateRating(stars); err != nil {
		return nil, err
	}

	saved, err := s.repo.Save(ctx, item)
	if err != nil {
		return nil, err
	}
	return toItemResponse(saved, time.Now()), nil
}

func (s *itemService) ApplyDiscount(ctx context.Context, id string, req *ApplyDiscountRequest) (*ItemResponse, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	typ, err := domain.ParseDiscountType(req.Type)
	if err != nil {
		return nil, err
	}
	discount, err := domain.NewDiscount(typ, req.Value, req.Label, req.StartsAt, req.EndsAt)
	if err != nil {
		return nil, err
	}
	item.ApplyDiscount(discount)

	saved, err := s.repo.Save(ctx, item)
	if err != nil {
		return nil, err
	}
	return toItemResponse(saved, time.Now()), nil
}

func (s *itemService) ClearDiscount(ctx context.Context, id string) (*ItemResponse, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	item.ClearDiscount()

	saved, err := s.repo.Save(ctx, item)
	if err != nil {
		return nil, err
	}
	return toItemResponse(saved, time.Now()), nil
}

// sortedKeys gives map iteration a deterministic order.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
