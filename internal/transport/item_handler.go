package transport

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"item-detail/internal/domain"
	"item-detail/internal/middleware"
	"item-detail/internal/repository"
	"item-detail/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

// ItemHandler handles HTTP requests for item operations.
type ItemHandler struct {
	itemService service.ItemService
	logger      *zap.Logger
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(itemService service.ItemService, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
		logger:      logger,
	}
}

// RegisterRoutes registers all item routes.
func (h *ItemHandler) RegisterRoutes(r chi.Router) {
	r.Route("/items", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{id}", h.GetByID)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/rating", h.Rate)
		r.Post("/{id}/discount", h.ApplyDiscount)
		r.Delete("/{id}/discount", h.ClearDiscount)
	})
}

// Create handles POST /items.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Create item validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.itemService.Create(r.Context(), &req)
	if err != nil {
		h.respondError(w, r, err, "failed to create item")
		return
	}

	h.logger.Info("Item created", zap.String("item_id", item.ID))
	w.Header().Set("Location", fmt.Sprintf("/items/%s", item.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, item)
}

// GetByID handles GET /items/{id}.
func (h *ItemHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := h.itemService.GetByID(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err, "failed to get item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, item)
}

// List handles GET /items with optional page and size query parameters.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	page, ok := queryInt(w, r, "page", 0)
	if !ok {
		return
	}
	size, ok := queryInt(w, r, "size", defaultPageSize)
	if !ok {
		return
	}
	if page < 0 || size < 1 || size > maxPageSize {
		middleware.RespondWithError(w, http.StatusBadRequest,
			fmt.Sprintf("page must be >= 0 and size in 1..%d", maxPageSize))
		return
	}

	items, err := h.itemService.List(r.Context(), page, size)
	if err != nil {
		h.respondError(w, r, err, "failed to list items")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, items)
}

// Update handles PUT /items/{id} with partial update semantics.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req service.UpdateItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Update item validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.itemService.Update(r.Context(), id, &req)
	if err != nil {
		h.respondError(w, r, err, "failed to update item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /items/{id}.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.itemService.Delete(r.Context(), id); err != nil {
		h.respondError(w, r, err, "failed to delete item")
		return
	}

	h.logger.Info("Item deleted", zap.String("item_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// Rate handles POST /items/{id}/rating?stars=N.
func (h *ItemHandler) Rate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	stars, err := strconv.Atoi(r.URL.Query().Get("stars"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "stars query parameter must be an integer in 1..5")
		return
	}

	item, err := h.itemService.Rate(r.Context(), id, stars)
	if err != nil {
		h.respondError(w, r, err, "failed to rate item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, item)
}

// ApplyDiscount handles POST /items/{id}/discount.
func (h *ItemHandler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req service.ApplyDiscountRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Apply discount validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.itemService.ApplyDiscount(r.Context(), id, &req)
	if err != nil {
		h.respondError(w, r, err, "failed to apply discount")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, item)
}

// ClearDiscount handles DELETE /items/{id}/discount.
func (h *ItemHandler) ClearDiscount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := h.itemService.ClearDiscount(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err, "failed to clear discount")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, item)
}

// respondError maps the error taxonomy to HTTP statuses. Anything
// unclassified is logged in full and reported with a generic message.
func (h *ItemHandler) respondError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrItemNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "item not found")
	case errors.Is(err, repository.ErrDuplicateListing), errors.Is(err, domain.ErrIllegalState):
		middleware.RespondWithError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error(fallback,
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}

// queryInt parses an optional integer query parameter. A malformed value is
// reported to the client and ok=false returned.
func queryInt(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, name+" must be an integer")
		return 0, false
	}
	return v, true
}
