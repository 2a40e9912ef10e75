package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"golang.org/x/crypto/bcrypt"

	"wonder-electronics/internal/domain"
	"wonder-electronics/internal/repository"
)

// Mock repositories for testing
type mockUserRepository struct {
	users map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *mockUserRepository) List(ctx context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, *u)
	}
	return users, nil
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Phone == phone {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Email]; !exists {
		return repository.ErrUserNotFound
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	for email, user := range m.users {
		if user.ID == id {
			delete(m.users, email)
			return nil
		}
	}
	return repository.ErrUserNotFound
}

type mockRefreshTokenRepository struct {
	tokens map[string]*domain.RefreshToken
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{
		tokens: make(map[string]*domain.RefreshToken),
	}
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *mockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if refreshToken.Revoked {
		return nil, repository.ErrRefreshTokenRevoked
	}
	return refreshToken, nil
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return repository.ErrRefreshTokenNotFound
	}
	refreshToken.Revoked = true
	return nil
}

func newTestUserService() (UserService, *mockUserRepository, *mockRefreshTokenRepository) {
	userRepo := newMockUserRepository()
	refreshTokenRepo := newMockRefreshTokenRepository()
	svc := NewUserService(userRepo, refreshTokenRepo, "test-secret-key", 0, 0)
	return svc, userRepo, refreshTokenRepo
}

func TestProperty_RegistrationCreatesHashedPasswords(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("passwords are hashed with bcrypt and not stored as plaintext", prop.ForAll(
		func(name string, email string, password string) bool {
			svc, userRepo, _ := newTestUserService()
			ctx := context.Background()

			user, err := svc.Register(ctx, name, email, password, "")
			if err != nil {
				return true // Skip invalid combinations
			}

			if user.PasswordHash == password {
				t.Logf("FAIL: Password stored as plaintext for email %s", email)
				return false
			}

			if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
				t.Logf("FAIL: Password hash is not a valid bcrypt hash: %v", err)
				return false
			}

			storedUser, err := userRepo.FindByEmail(ctx, user.Email)
			if err != nil {
				t.Logf("FAIL: Could not find stored user: %v", err)
				return false
			}
			if storedUser.PasswordHash != user.PasswordHash {
				t.Logf("FAIL: Stored password hash doesn't match returned hash")
				return false
			}

			return true
		},
		gen.RegexMatch(`[A-Z][a-z]{2,15}`),
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{6,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_JWTTokensContainRequiredClaims(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("access tokens carry user ID, email and role claims", prop.ForAll(
		func(name string, email string, password string, role string) bool {
			svc, userRepo, _ := newTestUserService()
			ctx := context.Background()

			user, err := svc.Register(ctx, name, email, password, "")
			if err != nil {
				return true
			}

			user.Role = role
			userRepo.users[user.Email] = user

			accessToken, _, _, err := svc.Login(ctx, email, password)
			if err != nil {
				t.Logf("FAIL: Login failed: %v", err)
				return false
			}

			claims, err := svc.ValidateToken(accessToken)
			if err != nil {
				t.Logf("FAIL: Token validation failed: %v", err)
				return false
			}

			if claims.UserID != user.ID {
				t.Logf("FAIL: User ID claim mismatch. Expected %s, got %s", user.ID, claims.UserID)
				return false
			}
			if claims.Email != user.Email {
				t.Logf("FAIL: Email claim mismatch. Expected %s, got %s", user.Email, claims.Email)
				return false
			}
			if claims.Role != role {
				t.Logf("FAIL: Role claim mismatch. Expected %s, got %s", role, claims.Role)
				return false
			}
			if claims.ExpiresAt == nil || claims.IssuedAt == nil {
				t.Logf("FAIL: Token missing expiration or issued-at claim")
				return false
			}

			return true
		},
		gen.RegexMatch(`[A-Z][a-z]{2,15}`),
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{6,20}`),
		gen.OneConstOf(domain.RoleCustomer, domain.RoleAdmin),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_TokenRefreshRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("valid refresh token returns new valid access token", prop.ForAll(
		func(name string, email string, password string) bool {
			svc, _, _ := newTestUserService()
			ctx := context.Background()

			if _, err := svc.Register(ctx, name, email, password, ""); err != nil {
				return true
			}

			_, refreshToken, user, err := svc.Login(ctx, email, password)
			if err != nil {
				t.Logf("FAIL: Login failed: %v", err)
				return false
			}

			newAccessToken, err := svc.RefreshToken(ctx, refreshToken)
			if err != nil {
				t.Logf("FAIL: Token refresh failed: %v", err)
				return false
			}

			claims, err := svc.ValidateToken(newAccessToken)
			if err != nil {
				t.Logf("FAIL: New access token validation failed: %v", err)
				return false
			}
			if claims.UserID != user.ID {
				t.Logf("FAIL: User ID mismatch in refreshed token")
				return false
			}
			if claims.ExpiresAt != nil && time.Now().After(claims.ExpiresAt.Time) {
				t.Logf("FAIL: Refreshed token is already expired")
				return false
			}

			return true
		},
		gen.RegexMatch(`[A-Z][a-z]{2,15}`),
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{6,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_LogoutInvalidatesRefreshToken(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("logout marks refresh token as revoked", prop.ForAll(
		func(name string, email string, password string) bool {
			svc, _, refreshTokenRepo := newTestUserService()
			ctx := context.Background()

			if _, err := svc.Register(ctx, name, email, password, ""); err != nil {
				return true
			}

			_, refreshToken, _, err := svc.Login(ctx, email, password)
			if err != nil {
				t.Logf("FAIL: Login failed: %v", err)
				return false
			}

			if _, err := svc.RefreshToken(ctx, refreshToken); err != nil {
				t.Logf("FAIL: Refresh token should work before logout: %v", err)
				return false
			}

			if err := svc.Logout(ctx, refreshToken); err != nil {
				t.Logf("FAIL: Logout failed: %v", err)
				return false
			}

			if _, err := svc.RefreshToken(ctx, refreshToken); err != ErrInvalidToken {
				t.Logf("FAIL: Expected ErrInvalidToken after logout, got: %v", err)
				return false
			}

			if _, err := refreshTokenRepo.FindByToken(ctx, refreshToken); err != repository.ErrRefreshTokenRevoked {
				t.Logf("FAIL: Token should be revoked in repository, got error: %v", err)
				return false
			}

			return true
		},
		gen.RegexMatch(`[A-Z][a-z]{2,15}`),
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{6,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestDeleteUserProtectsAdmins(t *testing.T) {
	svc, userRepo, _ := newTestUserService()
	ctx := context.Background()

	admin := &domain.User{ID: uuid.New(), Email: "admin@example.com", Role: domain.RoleAdmin}
	userRepo.users[admin.Email] = admin

	if err := svc.DeleteUser(ctx, admin.ID); err != ErrCannotDeleteAdmin {
		t.Errorf("expected ErrCannotDeleteAdmin, got %v", err)
	}

	customer := &domain.User{ID: uuid.New(), Email: "c@example.com", Role: domain.RoleCustomer}
	userRepo.users[customer.Email] = customer

	if err := svc.DeleteUser(ctx, customer.ID); err != nil {
		t.Errorf("deleting a customer should succeed, got %v", err)
	}
	if err := svc.DeleteUser(ctx, customer.ID); err != nil {
		t.Errorf("deleting an unknown user should be a no-op, got %v", err)
	}
}
