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
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user with this email already exists")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByPhone(ctx context.Context, phone string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	slot *slot[domain.User]
	bus  *events.Bus
}

// NewUserRepository creates a new instance of UserRepository. The seed
// function provides the default admin account; it is invoked only when
// the users slot is absent.
func NewUserRepository(s store.Store, bus *events.Bus, seed func() []domain.User) UserRepository {
	return &userRepository{
		slot: newSlot(s, slotUsers, seed),
		bus:  bus,
	}
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.slot.read(ctx)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	users, err := r.slot.read(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			u := users[i]
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *userRepository) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	users, err := r.slot.read(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Phone == phone {
			u := users[i]
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	users, err := r.slot.read(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			u := users[i]
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

// Create rejects a duplicate email before appending.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	err := r.slot.mutate(ctx, func(users []domain.User) ([]domain.User, error) {
		for i := range users {
			if users[i].Email == user.Email {
				return nil, ErrUserAlreadyExists
			}
		}
		return append(users, *user), nil
	})
	if err != nil {
		return err
	}
	r.bus.Publish(events.Event{Entity: events.EntityUser, Action: events.ActionCreated, ID: user.ID.String()})
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	err := r.slot.mutate(ctx, func(users []domain.User) ([]domain.User, error) {
		for i := range users {
			if users[i].ID == user.ID {
				users[i] = *user
				return users, nil
			}
		}
		return nil, ErrUserNotFound
	})
	if err != nil {
		return err
	}
	r.bus.Publish(events.Event{Entity: events.EntityUser, Action: events.ActionUpdated, ID: user.ID.String()})
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.slot.mutate(ctx, func(users []domain.User) ([]domain.User, error) {
		for i := range users {
			if users[i].ID == id {
				return append(users[:i], users[i+1:]...), nil
			}
		}
		return nil, ErrUserNotFound
	})
	if err != nil {
		return err
	}
	r.bus.Publish(events.Event{Entity: events.EntityUser, Action: events.ActionDeleted, ID: id.String()})
	return nil
}
