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
	ErrSlideNotFound = errors.New("slide not found")
)

// SlideRepository defines the interface for carousel slide data access.
// Sequence order is display order.
type SlideRepository interface {
	List(ctx context.Context) ([]domain.Slide, error)
	Create(ctx context.Context, slide *domain.Slide) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type slideRepository struct {
	slot *slot[domain.Slide]
	bus  *events.Bus
}

// NewSlideRepository creates a new instance of SlideRepository, seeded
// with the three default slides.
func NewSlideRepository(s store.Store, bus *events.Bus) SlideRepository {
	return &slideRepository{
		slot: newSlot(s, slotSlides, domain.DefaultSlides),
		bus:  bus,
	}
}

func (r *slideRepository) List(ctx context.Context) ([]domain.Slide, error) {
	return r.slot.read(ctx)
}

func (r *slideRepository) Create(ctx context.Context, slide *domain.Slide) error {
	if slide.ID == uuid.Nil {
		slide.ID = uuid.New()
	}
	err := r.slot.mutate(ctx, func(slides []domain.Slide) ([]domain.Slide, error) {
		return append(slides, *slide), nil
	})
	if err != nil {
		return err
	}
	r.bus.Publish(events.Event{Entity: events.EntitySlide, Action: events.ActionCreated, ID: slide.ID.String()})
	return nil
}

func (r *slideRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.slot.mutate(ctx, func(slides []domain.Slide) ([]domain.Slide, error) {
		for i := range slides {
			if slides[i].ID == id {
				return append(slides[:i], slides[i+1:]...), nil
			}
		}
		return nil, ErrSlideNotFound
	})
	if err != nil {
		return err
	}
	r.bus.Publish(events.Event{Entity: events.EntitySlide, Action: events.ActionDeleted, ID: id.String()})
	return nil
}
