package transport

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"wonder-electronics/internal/domain"
	"wonder-electronics/internal/middleware"
	"wonder-electronics/internal/repository"
	"wonder-electronics/internal/service"
)

// UpdateOrderStatusRequest represents the admin status-update payload
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderView decorates an order with the expected delivery date and
// formatted totals in the requested currency.
type OrderView struct {
	domain.Order
	ExpectedDelivery string `json:"expectedDelivery"`
	FormattedTotal   string `json:"formattedTotal"`
}

// OrderHandler handles HTTP requests for checkout and order management
type OrderHandler struct {
	orders   service.OrderService
	currency *service.CurrencyService
	logger   *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders service.OrderService, currency *service.CurrencyService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, currency: currency, logger: logger}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/", h.PlaceOrder)
			r.Get("/mine", h.MyOrders)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, adminMiddleware)
			r.Get("/", h.ListOrders)
			r.Get("/{id}", h.GetOrder)
			r.Post("/{id}/approve", h.ApproveOrder)
			r.Put("/{id}/status", h.UpdateStatus)
		})
	})
}

func (h *OrderHandler) orderViews(r *http.Request, orders []domain.Order) ([]OrderView, error) {
	currency, rates, err := h.currency.Resolve(r.Context(), r.URL.Query().Get("currency"))
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		formatted, err := service.Format(o.Total, currency, rates)
		if err != nil {
			return nil, err
		}
		views = append(views, OrderView{
			Order:            o,
			ExpectedDelivery: o.ExpectedDelivery().UTC().Format(time.RFC3339),
			FormattedTotal:   formatted,
		})
	}
	return views, nil
}

// PlaceOrder turns the caller's cart into an order
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req service.PlaceOrderInput
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	owner := middleware.CartOwner(r)
	order, err := h.orders.PlaceOrder(r.Context(), owner, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			middleware.RespondWithError(w, http.StatusBadRequest, "cart is empty")
		case errors.Is(err, service.ErrMissingCheckoutInfo):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrInsufficientStock):
			middleware.RespondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusConflict, "a cart item is no longer available")
		default:
			h.logger.Error("Failed to place order", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to place order")
		}
		return
	}

	views, err := h.orderViews(r, []domain.Order{*order})
	if err != nil {
		h.logger.Error("Failed to build order view", zap.Error(err))
		middleware.RespondWithJSON(w, http.StatusCreated, order)
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, views[0])
}

// MyOrders lists the caller's orders
func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	orders, err := h.orders.ListUserOrders(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	views, err := h.orderViews(r, orders)
	if err != nil {
		h.logger.Error("Failed to build order views", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, views)
}

// ListOrders lists every order for the admin console
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context())
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	views, err := h.orderViews(r, orders)
	if err != nil {
		h.logger.Error("Failed to build order views", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, views)
}

// GetOrder returns a single order
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("Failed to get order", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get order")
		return
	}

	views, err := h.orderViews(r, []domain.Order{*order})
	if err != nil {
		h.logger.Error("Failed to build order view", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get order")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, views[0])
}

// ApproveOrder verifies an order's payment
func (h *OrderHandler) ApproveOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	if err := h.orders.Approve(r.Context(), id); err != nil {
		h.logger.Error("Failed to approve order", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to approve order")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "order approved"})
}

// UpdateStatus sets an order's fulfilment status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var req UpdateOrderStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), id, req.Status); err != nil {
		h.logger.Error("Failed to update order status", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update order status")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "status updated"})
}
