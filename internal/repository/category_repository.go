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
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("category with this name already exists")
)

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	FindByName(ctx context.Context, name string) (*domain.Category, error)
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryRepository struct {
	slot *slot[domain.Category]
	bus  *events.Bus
}

// NewCategoryRepository creates a new instance of CategoryRepository,
// seeded with the four default categories.
func NewCategoryRepository(s store.Store, bus *events.Bus) CategoryRepository {
	return &categoryRepository{
		slot: newSlot(s, slotCategories, domain.DefaultCategories),
		bus:  bus,
	}
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	return r.slot.read(ctx)
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	categories, err := r.slot.read(ctx)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if categories[i].ID == id {
			c := categories[i]
			return &c, nil
		}
	}
	return nil, ErrCategoryNotFound
}

func (r *categoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	categories, err := r.slot.read(ctx)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if categories[i].Name == name {
			c := categories[i]
			return &c, nil
		}
	}
	return nil, ErrCategoryNotFound
}

// Create rejects a duplicate slug before appending.
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	err := r.slot.mutate(ctx, func(categories []domain.Category) ([]domain.Category, error) {
		for i := range categories {
			if categories[i].Name == category.Name {
				return nil, ErrCategoryAlreadyExists
			}
		}
		return append(categories, *category), nil
	})
	if err != nil {
		return err
	}
	r.bus.Publish(events.Event{Entity: events.EntityCategory, Action: events.ActionCreated, ID: category.ID.String()})
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	err := r.slot.mutate(ctx, func(categories []domain.Category) ([]domain.Category, error) {
		for i := range categories {
			if categories[i].ID == category.ID {
				categories[i] = *category
				return categories, nil
			}
		}
		return nil, ErrCategoryNotFound
	})
	if err != nil {
		return err
	}
	r.bus.Publish(events.Event{Entity: events.EntityCategory, Action: events.ActionUpdated, ID: category.ID.String()})
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.slot.mutate(ctx, func(categories []domain.Category) ([]domain.Category, error) {
		for i := range categories {
			if categories[i].ID == id {
				return append(categories[:i], categories[i+1:]...), nil
			}
		}
		return nil, ErrCategoryNotFound
	})
	if err != nil {
		return err
	}
	r.bus.Publish(events.Event{Entity: events.EntityCategory, Action: events.ActionDeleted, ID: id.String()})
	return nil
}
