package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"wonder-electronics/internal/domain"
	"wonder-electronics/internal/events"
	"wonder-electronics/internal/store"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository defines the interface for order data access. Orders are
// append-only snapshots; Update exists only for the admin status and
// approval actions.
type OrderRepository interface {
	List(ctx context.Context) ([]domain.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	Create(ctx context.Context, order *domain.Order) error
	Update(ctx context.Context, order *domain.Order) error
}

type orderRepository struct {
	slot *slot[domain.Order]
	bus  *events.Bus
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(s store.Store, bus *events.Bus) OrderRepository {
	return &orderRepository{
		slot: newSlot[domain.Order](s, slotOrders, nil),
		bus:  bus,
	}
}

func (r *orderRepository) List(ctx context.Context) ([]domain.Order, error) {
	return r.slot.read(ctx)
}

func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	orders, err := r.slot.read(ctx)
	if err != nil {
		return nil, err
	}
	mine := []domain.Order{}
	for _, o := range orders {
		if o.UserID == userID {
			mine = append(mine, o)
		}
	}
	return mine, nil
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	orders, err := r.slot.read(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			o := orders[i]
			return &o, nil
		}
	}
	return nil, ErrOrderNotFound
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	err := r.slot.mutate(ctx, func(orders []domain.Order) ([]domain.Order, error) {
		return append(orders, *order), nil
	})
	if err != nil {
		return err
	}
	r.bus.Publish(events.Event{Entity: events.EntityOrder, Action: events.ActionCreated, ID: order.ID.String()})
	return nil
}

func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	err := r.slot.mutate(ctx, func(orders []domain.Order) ([]domain.Order, error) {
		for i := range orders {
			if orders[i].ID == order.ID {
				orders[i] = *order
				return orders, nil
			}
		}
		return nil, ErrOrderNotFound
	})
	if err != nil {
		return err
	}
	r.bus.Publish(events.Event{Entity: events.EntityOrder, Action: events.ActionUpdated, ID: order.ID.String()})
	return nil
}
