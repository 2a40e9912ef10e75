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
	ErrResetRequestNotFound = errors.New("password reset request not found")
)

// ResetRequestRepository defines the interface for password reset request
// data access.
type ResetRequestRepository interface {
	List(ctx context.Context) ([]domain.PasswordResetRequest, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.PasswordResetRequest, error)
	Create(ctx context.Context, request *domain.PasswordResetRequest) error
	Update(ctx context.Context, request *domain.PasswordResetRequest) error
}

type resetRequestRepository struct {
	slot *slot[domain.PasswordResetRequest]
	bus  *events.Bus
}

// NewResetRequestRepository creates a new instance of ResetRequestRepository.
func NewResetRequestRepository(s store.Store, bus *events.Bus) ResetRequestRepository {
	return &resetRequestRepository{
		slot: newSlot[domain.PasswordResetRequest](s, slotResetRequests, nil),
		bus:  bus,
	}
}

func (r *resetRequestRepository) List(ctx context.Context) ([]domain.PasswordResetRequest, error) {
	return r.slot.read(ctx)
}

func (r *resetRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.PasswordResetRequest, error) {
	requests, err := r.slot.read(ctx)
	if err != nil {
		return nil, err
	}
	for i := range requests {
		if requests[i].ID == id {
			req := requests[i]
			return &req, nil
		}
	}
	return nil, ErrResetRequestNotFound
}

func (r *resetRequestRepository) Create(ctx context.Context, request *domain.PasswordResetRequest) error {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	err := r.slot.mutate(ctx, func(requests []domain.PasswordResetRequest) ([]domain.PasswordResetRequest, error) {
		return append(requests, *request), nil
	})
	if err != nil {
		return err
	}
	r.bus.Publish(events.Event{Entity: events.EntityResetRequest, Action: events.ActionCreated, ID: request.ID.String()})
	return nil
}

func (r *resetRequestRepository) Update(ctx context.Context, request *domain.PasswordResetRequest) error {
	err := r.slot.mutate(ctx, func(requests []domain.PasswordResetRequest) ([]domain.PasswordResetRequest, error) {
		for i := range requests {
			if requests[i].ID == request.ID {
				requests[i] = *request
				return requests, nil
			}
		}
		return nil, ErrResetRequestNotFound
	})
	if err != nil {
		return err
	}
	r.bus.Publish(events.Event{Entity: events.EntityResetRequest, Action: events.ActionUpdated, ID: request.ID.String()})
	return nil
}
