package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"wonder-electronics/internal/domain"
	"wonder-electronics/internal/metrics"
	"wonder-electronics/internal/repository"
)

const (
	tempPasswordLength = 8
	minPasswordLength  = 6
)

const passwordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

var ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", minPasswordLength)

// ResetService implements both password recovery paths: the
// admin-mediated one, where a customer files a request and an admin
// approves it to issue a temporary password, and the self-service OTP
// one, where the customer proves ownership of the email with a one-time
// code and picks a new password immediately.
type ResetService interface {
	// Admin-mediated path.
	RequestReset(ctx context.Context, email string) error
	ApproveReset(ctx context.Context, requestID uuid.UUID) (*domain.PasswordResetRequest, error)
	CompleteReset(ctx context.Context, requestID uuid.UUID) error
	ListRequests(ctx context.Context) ([]domain.PasswordResetRequest, error)

	// OTP path.
	RequestOTP(ctx context.Context, email string) (code string, err error)
	VerifyOTP(ctx context.Context, email, code string) error
	CompleteOTPReset(ctx context.Context, email, code, newPassword string) error
}

type resetService struct {
	requests repository.ResetRequestRepository
	users    repository.UserRepository
	otp      *OTPManager
	logger   *zap.Logger
}

// NewResetService creates a new instance of ResetService.
func NewResetService(
	requests repository.ResetRequestRepository,
	users repository.UserRepository,
	otp *OTPManager,
	logger *zap.Logger,
) ResetService {
	return &resetService{requests: requests, users: users, otp: otp, logger: logger}
}

// RequestReset files a pending reset request for the email's account.
// Unknown emails are silently accepted so the endpoint does not reveal
// which addresses have accounts.
func (s *resetService) RequestReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		}
		return err
	}

	request := &domain.PasswordResetRequest{
		ID:          uuid.New(),
		UserEmail:   user.Email,
		UserName:    user.Name,
		RequestDate: time.Now().UTC(),
		Status:      domain.ResetStatusPending,
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return err
	}
	metrics.PasswordResetsTotal.WithLabelValues("requested").Inc()
	return nil
}

// ApproveReset issues a temporary password for the request's account.
// The generated password replaces the user's hash, any pending OTP reset
// flag is cleared, and the plaintext is kept on the request record so the
// admin can relay it. Approving an unknown request returns nil.
func (s *resetService) ApproveReset(ctx context.Context, requestID uuid.UUID) (*domain.PasswordResetRequest, error) {
	request, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrResetRequestNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if request.Status != domain.ResetStatusPending {
		return request, nil
	}

	user, err := s.users.FindByEmail(ctx, request.UserEmail)
	if err != nil {
		return nil, err
	}

	tempPassword, err := generatePassword(tempPasswordLength)
	if err != nil {
		return nil, err
	}
	hash, err := hashPassword(tempPassword)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user.PasswordHash = hash
	user.PasswordResetPending = false
	user.PasswordResetDate = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	request.Status = domain.ResetStatusApproved
	request.ApprovedDate = &now
	request.NewPassword = tempPassword
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, err
	}

	metrics.PasswordResetsTotal.WithLabelValues("approved").Inc()
	s.logger.Info("password reset approved",
		zap.String("request_id", request.ID.String()),
		zap.String("email", request.UserEmail),
	)
	return request, nil
}

// CompleteReset marks an approved request as completed and discards the
// temporary plaintext. Unknown requests are ignored.
func (s *resetService) CompleteReset(ctx context.Context, requestID uuid.UUID) error {
	request, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrResetRequestNotFound) {
			return nil
		}
		return err
	}
	if request.Status != domain.ResetStatusApproved {
		return nil
	}

	now := time.Now().UTC()
	request.Status = domain.ResetStatusCompleted
	request.CompletedDate = &now
	request.NewPassword = ""
	return s.requests.Update(ctx, request)
}

func (s *resetService) ListRequests(ctx context.Context) ([]domain.PasswordResetRequest, error) {
	return s.requests.List(ctx)
}

// RequestOTP issues a one-time code for the email's account. Unknown
// emails get an empty code and no error, again to avoid enumeration.
// There is no mail transport; the caller decides how to deliver the code.
func (s *resetService) RequestOTP(ctx context.Context, email string) (string, error) {
	_, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil
		}
		return "", err
	}

	code, err := s.otp.Issue(email)
	if err != nil {
		return "", err
	}
	metrics.PasswordResetsTotal.WithLabelValues("otp_issued").Inc()
	return code, nil
}

func (s *resetService) VerifyOTP(ctx context.Context, email, code string) error {
	return s.otp.Verify(email, code)
}

// CompleteOTPReset sets the new password after a verified code. The
// account is flagged PasswordResetPending so the admin console can see
// self-service resets until one is acknowledged.
func (s *resetService) CompleteOTPReset(ctx context.Context, email, code, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}

	if err := s.otp.Verify(email, code); err != nil {
		return err
	}
	if err := s.otp.Consume(email); err != nil {
		return err
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	user.PasswordHash = hash
	user.PasswordResetPending = true
	user.PasswordResetDate = &now
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	metrics.PasswordResetsTotal.WithLabelValues("otp_completed").Inc()
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func generatePassword(n int) (string, error) {
	var b strings.Builder
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordAlphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		b.WriteByte(passwordAlphabet[idx.Int64()])
	}
	return b.String(), nil
}
