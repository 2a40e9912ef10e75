package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wonder-electronics/internal/domain"
	"wonder-electronics/internal/metrics"
	"wonder-electronics/internal/repository"
)

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrMissingCheckoutInfo = errors.New("customer name, phone and address are required")
)

// PlaceOrderInput carries the checkout form. The cart itself is loaded
// server-side from the owner's persisted cart.
type PlaceOrderInput struct {
	CustomerName     string `json:"customerName" validate:"required"`
	CustomerPhone    string `json:"customerPhone" validate:"required"`
	CustomerAddress  string `json:"customerAddress" validate:"required"`
	PaymentReference string `json:"paymentReference"`
	DeliveryPeriod   string `json:"deliveryPeriod"`
}

// OrderService implements checkout and the admin order workflow.
type OrderService interface {
	PlaceOrder(ctx context.Context, owner string, userID uuid.UUID, input PlaceOrderInput) (*domain.Order, error)
	Approve(ctx context.Context, orderID uuid.UUID) error
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) error
	ListOrders(ctx context.Context) ([]domain.Order, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID) ([]domain.Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
}

type orderService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	carts    repository.CartRepository
	settings repository.SettingsRepository
	logger   *zap.Logger
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	carts repository.CartRepository,
	settings repository.SettingsRepository,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		orders:   orders,
		products: products,
		carts:    carts,
		settings: settings,
		logger:   logger,
	}
}

// PlaceOrder turns the owner's cart into an order. Item prices are
// snapshotted from the live catalog at this moment, stock is decremented
// atomically across all lines, and the cart is cleared only after the
// order has been persisted.
func (s *orderService) PlaceOrder(ctx context.Context, owner string, userID uuid.UUID, input PlaceOrderInput) (*domain.Order, error) {
	if strings.TrimSpace(input.CustomerName) == "" ||
		strings.TrimSpace(input.CustomerPhone) == "" ||
		strings.TrimSpace(input.CustomerAddress) == "" {
		metrics.OrdersFailedTotal.WithLabelValues("missing_info").Inc()
		return nil, ErrMissingCheckoutInfo
	}

	lines, err := s.carts.Get(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		metrics.OrdersFailedTotal.WithLabelValues("empty_cart").Inc()
		return nil, ErrEmptyCart
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, 0, len(lines))
	deductions := make(map[uuid.UUID]int, len(lines))
	var subtotal float64
	for _, line := range lines {
		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				metrics.OrdersFailedTotal.WithLabelValues("product_gone").Inc()
			}
			return nil, err
		}
		item := domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  line.Quantity,
			Discount:  product.Discount,
			Color:     line.Color,
		}
		items = append(items, item)
		deductions[product.ID] += line.Quantity
		subtotal += product.EffectivePrice() * float64(line.Quantity)
	}

	if err := s.products.DecrementStock(ctx, deductions); err != nil {
		metrics.OrdersFailedTotal.WithLabelValues("insufficient_stock").Inc()
		return nil, err
	}

	delivery := input.DeliveryPeriod
	switch delivery {
	case domain.DeliveryExpress, domain.DeliveryStandard, domain.DeliveryEconomy:
	default:
		delivery = domain.DeliveryStandard
	}

	tax := subtotal * settings.TaxRate / 100
	order := domain.Order{
		ID:               uuid.New(),
		UserID:           userID,
		CustomerName:     input.CustomerName,
		CustomerPhone:    input.CustomerPhone,
		CustomerAddress:  input.CustomerAddress,
		PaymentReference: input.PaymentReference,
		Items:            items,
		Subtotal:         subtotal,
		Tax:              tax,
		Total:            subtotal + tax,
		Status:           domain.OrderStatusPending,
		PaymentVerified:  false,
		DeliveryPeriod:   delivery,
		OrderDate:        time.Now().UTC(),
	}

	if err := s.orders.Create(ctx, &order); err != nil {
		return nil, err
	}
	if err := s.carts.Clear(ctx, owner); err != nil {
		s.logger.Warn("failed to clear cart after checkout",
			zap.String("owner", owner),
			zap.Error(err),
		)
	}

	metrics.OrdersPlacedTotal.Inc()
	s.logger.Info("order placed",
		zap.String("order_id", order.ID.String()),
		zap.Int("items", len(order.Items)),
		zap.Float64("total", order.Total),
	)
	return &order, nil
}

// Approve marks the order's payment as verified and stamps the approval
// date. Approving an already approved or unknown order is a no-op.
func (s *orderService) Approve(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil
		}
		return err
	}
	if order.PaymentVerified {
		return nil
	}

	now := time.Now().UTC()
	order.Status = domain.OrderStatusApproved
	order.PaymentVerified = true
	order.ApprovedDate = &now
	if err := s.orders.Update(ctx, order); err != nil {
		return err
	}
	metrics.OrdersApprovedTotal.Inc()
	return nil
}

// UpdateStatus sets a free-form fulfilment status on the order. Unknown
// orders are ignored.
func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil
		}
		return err
	}
	order.Status = status
	return s.orders.Update(ctx, order)
}

func (s *orderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.List(ctx)
}

func (s *orderService) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *orderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	return s.orders.FindByID(ctx, orderID)
}
