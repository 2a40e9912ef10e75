package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"wonder-electronics/internal/domain"
	"wonder-electronics/internal/events"
	"wonder-electronics/internal/repository"
	"wonder-electronics/internal/store"
)

type resetServiceFixture struct {
	reset    ResetService
	users    repository.UserRepository
	requests repository.ResetRequestRepository
}

func newResetServiceFixture(t *testing.T) *resetServiceFixture {
	t.Helper()
	s := store.NewMemory()
	bus := events.NewBus()
	users := repository.NewUserRepository(s, bus, nil)
	requests := repository.NewResetRequestRepository(s, bus)
	return &resetServiceFixture{
		reset:    NewResetService(requests, users, NewOTPManager(), zap.NewNop()),
		users:    users,
		requests: requests,
	}
}

func createCustomer(t *testing.T, users repository.UserRepository, email string) *domain.User {
	t.Helper()
	hash, err := hashPassword("original-password")
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	user := &domain.User{
		ID:           uuid.New(),
		Name:         "Test Customer",
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
		Status:       domain.StatusActive,
	}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("creating user: %v", err)
	}
	return user
}

func TestRequestResetFilesPendingRequest(t *testing.T) {
	f := newResetServiceFixture(t)
	ctx := context.Background()
	createCustomer(t, f.users, "lost@example.com")

	if err := f.reset.RequestReset(ctx, "  LOST@Example.com "); err != nil {
		t.Fatalf("requesting reset: %v", err)
	}

	requests, err := f.reset.ListRequests(ctx)
	if err != nil {
		t.Fatalf("listing requests: %v", err)
	}
	if len(requests) != 1 {
		t.Fatalf("got %d requests, want 1", len(requests))
	}
	if requests[0].UserEmail != "lost@example.com" || requests[0].Status != domain.ResetStatusPending {
		t.Errorf("unexpected request: %+v", requests[0])
	}
}

func TestRequestResetUnknownEmailIsSilent(t *testing.T) {
	f := newResetServiceFixture(t)
	ctx := context.Background()

	if err := f.reset.RequestReset(ctx, "stranger@example.com"); err != nil {
		t.Fatalf("unknown email must not error, got %v", err)
	}
	requests, err := f.reset.ListRequests(ctx)
	if err != nil {
		t.Fatalf("listing requests: %v", err)
	}
	if len(requests) != 0 {
		t.Errorf("unknown email must not file a request, got %d", len(requests))
	}
}

func TestApproveResetIssuesTemporaryPassword(t *testing.T) {
	f := newResetServiceFixture(t)
	ctx := context.Background()
	user := createCustomer(t, f.users, "lost@example.com")
	oldHash := user.PasswordHash

	if err := f.reset.RequestReset(ctx, user.Email); err != nil {
		t.Fatalf("requesting reset: %v", err)
	}
	requests, _ := f.reset.ListRequests(ctx)

	approved, err := f.reset.ApproveReset(ctx, requests[0].ID)
	if err != nil {
		t.Fatalf("approving reset: %v", err)
	}
	if approved == nil {
		t.Fatal("expected the approved request back")
	}
	if approved.Status != domain.ResetStatusApproved || approved.ApprovedDate == nil {
		t.Errorf("approval not recorded: %+v", approved)
	}
	if !regexp.MustCompile(`^[A-Za-z0-9]{8}$`).MatchString(approved.NewPassword) {
		t.Errorf("temporary password %q does not match the expected shape", approved.NewPassword)
	}

	updated, err := f.users.FindByEmail(ctx, user.Email)
	if err != nil {
		t.Fatalf("reading user: %v", err)
	}
	if updated.PasswordHash == oldHash {
		t.Error("user password hash unchanged by approval")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte(approved.NewPassword)); err != nil {
		t.Errorf("temporary password does not verify against stored hash: %v", err)
	}
	if updated.PasswordResetPending {
		t.Error("approval should clear the pending-reset flag")
	}
	if updated.PasswordResetDate == nil {
		t.Error("approval should stamp the reset date")
	}

	// A second approve returns the request untouched.
	again, err := f.reset.ApproveReset(ctx, requests[0].ID)
	if err != nil {
		t.Fatalf("second approve: %v", err)
	}
	if again.NewPassword != approved.NewPassword {
		t.Error("second approve must not regenerate the password")
	}
}

func TestApproveResetUnknownRequest(t *testing.T) {
	f := newResetServiceFixture(t)

	request, err := f.reset.ApproveReset(context.Background(), uuid.New())
	if err != nil {
		t.Errorf("approving an unknown request should be a no-op, got %v", err)
	}
	if request != nil {
		t.Errorf("expected nil request, got %+v", request)
	}
}

func TestCompleteResetDiscardsPlaintext(t *testing.T) {
	f := newResetServiceFixture(t)
	ctx := context.Background()
	user := createCustomer(t, f.users, "lost@example.com")

	if err := f.reset.RequestReset(ctx, user.Email); err != nil {
		t.Fatalf("requesting reset: %v", err)
	}
	requests, _ := f.reset.ListRequests(ctx)
	if _, err := f.reset.ApproveReset(ctx, requests[0].ID); err != nil {
		t.Fatalf("approving reset: %v", err)
	}

	if err := f.reset.CompleteReset(ctx, requests[0].ID); err != nil {
		t.Fatalf("completing reset: %v", err)
	}
	completed, err := f.requests.FindByID(ctx, requests[0].ID)
	if err != nil {
		t.Fatalf("reading request: %v", err)
	}
	if completed.Status != domain.ResetStatusCompleted || completed.CompletedDate == nil {
		t.Errorf("completion not recorded: %+v", completed)
	}
	if completed.NewPassword != "" {
		t.Error("completion must discard the plaintext password")
	}

	// Completing a pending request does nothing.
	if err := f.reset.RequestReset(ctx, user.Email); err != nil {
		t.Fatalf("requesting reset: %v", err)
	}
	all, _ := f.reset.ListRequests(ctx)
	for _, r := range all {
		if r.Status != domain.ResetStatusPending {
			continue
		}
		if err := f.reset.CompleteReset(ctx, r.ID); err != nil {
			t.Fatalf("completing pending request: %v", err)
		}
		got, _ := f.requests.FindByID(ctx, r.ID)
		if got.Status != domain.ResetStatusPending {
			t.Errorf("pending request must stay pending, got %s", got.Status)
		}
	}
}

func TestOTPResetFlow(t *testing.T) {
	f := newResetServiceFixture(t)
	ctx := context.Background()
	user := createCustomer(t, f.users, "otp@example.com")

	code, err := f.reset.RequestOTP(ctx, user.Email)
	if err != nil {
		t.Fatalf("requesting OTP: %v", err)
	}
	if code == "" {
		t.Fatal("expected a code for a known account")
	}

	if err := f.reset.CompleteOTPReset(ctx, user.Email, code, "short"); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}

	if err := f.reset.VerifyOTP(ctx, user.Email, code); err != nil {
		t.Fatalf("verifying OTP: %v", err)
	}
	if err := f.reset.CompleteOTPReset(ctx, user.Email, code, "brand-new-password"); err != nil {
		t.Fatalf("completing OTP reset: %v", err)
	}

	updated, err := f.users.FindByEmail(ctx, user.Email)
	if err != nil {
		t.Fatalf("reading user: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("brand-new-password")); err != nil {
		t.Errorf("new password does not verify: %v", err)
	}
	if !updated.PasswordResetPending {
		t.Error("self-service reset should flag the account for the admin console")
	}

	// The code is single-use.
	if err := f.reset.CompleteOTPReset(ctx, user.Email, code, "another-password"); !errors.Is(err, ErrOTPNotFound) {
		t.Errorf("reusing a consumed code should fail, got %v", err)
	}
}

func TestRequestOTPUnknownEmailIsSilent(t *testing.T) {
	f := newResetServiceFixture(t)

	code, err := f.reset.RequestOTP(context.Background(), "stranger@example.com")
	if err != nil {
		t.Fatalf("unknown email must not error, got %v", err)
	}
	if code != "" {
		t.Errorf("unknown email must not get a code, got %q", code)
	}
}
