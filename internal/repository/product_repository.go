package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"wonder-electronics/internal/domain"
	"wonder-electronics/internal/events"
	"wonder-electronics/internal/store"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Product, error)
	Search(ctx context.Context, query string) ([]domain.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	Replace(ctx context.Context, products []domain.Product) error
	DecrementStock(ctx context.Context, quantities map[uuid.UUID]int) error
}

type productRepository struct {
	slot *slot[domain.Product]
	bus  *events.Bus
}

// NewProductRepository creates a new instance of ProductRepository backed
// by the products slot, seeded with the default catalog.
func NewProductRepository(s store.Store, bus *events.Bus) ProductRepository {
	return &productRepository{
		slot: newSlot(s, slotProducts, domain.DefaultProducts),
		bus:  bus,
	}
}

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	return r.slot.read(ctx)
}

func (r *productRepository) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	products, err := r.slot.read(ctx)
	if err != nil {
		return nil, err
	}
	if category == "" || category == "all" {
		return products, nil
	}

	filtered := []domain.Product{}
	for _, p := range products {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// Search matches the query case-insensitively against name, description,
// category and brand.
func (r *productRepository) Search(ctx context.Context, query string) ([]domain.Product, error) {
	products, err := r.slot.read(ctx)
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return products, nil
	}

	matched := []domain.Product{}
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term) ||
			strings.Contains(strings.ToLower(p.Category), term) ||
			strings.Contains(strings.ToLower(p.Brand), term) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	products, err := r.slot.read(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			p := products[i]
			return &p, nil
		}
	}
	return nil, ErrProductNotFound
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	err := r.slot.mutate(ctx, func(products []domain.Product) ([]domain.Product, error) {
		return append(products, *product), nil
	})
	if err != nil {
		return err
	}
	r.bus.Publish(events.Event{Entity: events.EntityProduct, Action: events.ActionCreated, ID: product.ID.String()})
	return nil
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	err := r.slot.mutate(ctx, func(products []domain.Product) ([]domain.Product, error) {
		for i := range products {
			if products[i].ID == product.ID {
				products[i] = *product
				return products, nil
			}
		}
		return nil, ErrProductNotFound
	})
	if err != nil {
		return err
	}
	r.bus.Publish(events.Event{Entity: events.EntityProduct, Action: events.ActionUpdated, ID: product.ID.String()})
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.slot.mutate(ctx, func(products []domain.Product) ([]domain.Product, error) {
		for i := range products {
			if products[i].ID == id {
				return append(products[:i], products[i+1:]...), nil
			}
		}
		return nil, ErrProductNotFound
	})
	if err != nil {
		return err
	}
	r.bus.Publish(events.Event{Entity: events.EntityProduct, Action: events.ActionDeleted, ID: id.String()})
	return nil
}

// DecrementStock deducts the given quantities in a single read-modify-
// write. Either every product has enough stock and all deductions apply,
// or nothing changes.
func (r *productRepository) DecrementStock(ctx context.Context, quantities map[uuid.UUID]int) error {
	err := r.slot.mutate(ctx, func(products []domain.Product) ([]domain.Product, error) {
		for id, qty := range quantities {
			found := false
			for i := range products {
				if products[i].ID == id {
					if products[i].Stock < qty {
						return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, products[i].Name)
					}
					products[i].Stock -= qty
					found = true
					break
				}
			}
			if !found {
				return nil, ErrProductNotFound
			}
		}
		return products, nil
	})
	if err != nil {
		return err
	}
	r.bus.Publish(events.Event{Entity: events.EntityProduct, Action: events.ActionUpdated})
	return nil
}

// Replace swaps the whole catalog, used by admin import.
func (r *productRepository) Replace(ctx context.Context, products []domain.Product) error {
	err := r.slot.mutate(ctx, func([]domain.Product) ([]domain.Product, error) {
		return products, nil
	})
	if err != nil {
		return err
	}
	r.bus.Publish(events.Event{Entity: events.EntityProduct, Action: events.ActionUpdated})
	return nil
}
