package repository

import (
	"context"
	"errors"

	"wonder-electronics/internal/domain"
	"wonder-electronics/internal/store"
)

var (
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenRevoked  = errors.New("refresh token has been revoked")
)

// RefreshTokenRepository defines the interface for refresh token data access
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
}

type refreshTokenRepository struct {
	slot *slot[domain.RefreshToken]
}

// NewRefreshTokenRepository creates a new instance of RefreshTokenRepository
func NewRefreshTokenRepository(s store.Store) RefreshTokenRepository {
	return &refreshTokenRepository{
		slot: newSlot[domain.RefreshToken](s, slotRefreshTokens, nil),
	}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	return r.slot.mutate(ctx, func(tokens []domain.RefreshToken) ([]domain.RefreshToken, error) {
		return append(tokens, *token), nil
	})
}

func (r *refreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	tokens, err := r.slot.read(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tokens {
		if tokens[i].Token == token {
			if tokens[i].Revoked {
				return nil, ErrRefreshTokenRevoked
			}
			t := tokens[i]
			return &t, nil
		}
	}
	return nil, ErrRefreshTokenNotFound
}

func (r *refreshTokenRepository) Revoke(ctx context.Context, token string) error {
	return r.slot.mutate(ctx, func(tokens []domain.RefreshToken) ([]domain.RefreshToken, error) {
		for i := range tokens {
			if tokens[i].Token == token {
				tokens[i].Revoked = true
				return tokens, nil
			}
		}
		return nil, ErrRefreshTokenNotFound
	})
}
