package transport

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"wonder-electronics/internal/middleware"
	"wonder-electronics/internal/repository"
	"wonder-electronics/internal/service"
)

// AddToCartRequest represents the add-to-cart payload
type AddToCartRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Color     string `json:"color"`
}

// UpdateCartRequest represents the change-quantity payload
type UpdateCartRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

// CartHandler handles HTTP requests for the shopping cart. All routes
// run behind optional auth: signed-in users are keyed by user ID, guests
// by the X-Guest-ID header.
type CartHandler struct {
	cart   service.CartService
	logger *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cart service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{cart: cart, logger: logger}
}

// RegisterRoutes registers cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router, optionalAuth func(http.Handler) http.Handler) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Use(optionalAuth)
		r.Get("/", h.GetCart)
		r.Post("/items", h.AddItem)
		r.Put("/items", h.UpdateItem)
		r.Delete("/items", h.RemoveItem)
		r.Delete("/", h.ClearCart)
	})

	// Guests call this once and replay the ID on every request.
	r.Post("/api/guest", h.NewGuest)
}

func (h *CartHandler) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner := middleware.CartOwner(r)
	if owner == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "missing guest ID or authentication")
		return "", false
	}
	return owner, true
}

// NewGuest mints a guest identity
func (h *CartHandler) NewGuest(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusCreated, map[string]string{"guestId": service.NewGuestID()})
}

// GetCart returns the resolved cart with totals
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	view, err := h.cart.View(r.Context(), owner)
	if err != nil {
		h.logger.Error("Failed to load cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, view)
}

// AddItem puts one unit of a product in the cart
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	var req AddToCartRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := h.cart.AddLine(r.Context(), owner, productID, req.Color); err != nil {
		h.respondCartError(w, err, "failed to add to cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "added to cart"})
}

// UpdateItem sets a line's quantity
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	var req UpdateCartRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := h.cart.SetQuantity(r.Context(), owner, productID, req.Color, req.Quantity); err != nil {
		h.respondCartError(w, err, "failed to update cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "cart updated"})
}

// RemoveItem deletes a line
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	var req AddToCartRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := h.cart.RemoveLine(r.Context(), owner, productID, req.Color); err != nil {
		h.logger.Error("Failed to remove cart line", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "item removed"})
}

// ClearCart empties the cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	if err := h.cart.Clear(r.Context(), owner); err != nil {
		h.logger.Error("Failed to clear cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to clear cart")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "cart cleared"})
}

func (h *CartHandler) respondCartError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, service.ErrOutOfStock):
		middleware.RespondWithError(w, http.StatusConflict, "product is out of stock")
	case errors.Is(err, service.ErrStockLimitReached):
		middleware.RespondWithError(w, http.StatusConflict, "only limited stock is available")
	case errors.Is(err, service.ErrInvalidColor):
		middleware.RespondWithError(w, http.StatusBadRequest, "color is not offered for this product")
	default:
		h.logger.Error("Cart operation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
