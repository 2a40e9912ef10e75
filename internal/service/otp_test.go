package service

import (
	"errors"
	"testing"
	"time"
)

func TestOTPLifecycle(t *testing.T) {
	m := NewOTPManager()

	code, err := m.Issue("user@example.com")
	if err != nil {
		t.Fatalf("issuing code: %v", err)
	}
	if len(code) != otpLength {
		t.Fatalf("code %q has length %d, want %d", code, len(code), otpLength)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Fatalf("code %q contains a non-digit", code)
		}
	}

	// Email lookup is case- and whitespace-insensitive.
	if err := m.Verify("  USER@Example.com ", code); err != nil {
		t.Fatalf("verifying code: %v", err)
	}
	if err := m.Consume("user@example.com"); err != nil {
		t.Fatalf("consuming code: %v", err)
	}

	if err := m.Verify("user@example.com", code); !errors.Is(err, ErrOTPNotFound) {
		t.Errorf("consumed code should be gone, got %v", err)
	}
	if err := m.Consume("user@example.com"); !errors.Is(err, ErrOTPNotFound) {
		t.Errorf("double consume should report ErrOTPNotFound, got %v", err)
	}
}

func TestOTPVerifyUnknownEmail(t *testing.T) {
	m := NewOTPManager()

	if err := m.Verify("nobody@example.com", "123456"); !errors.Is(err, ErrOTPNotFound) {
		t.Errorf("expected ErrOTPNotFound, got %v", err)
	}
}

func TestOTPWrongAttemptsExhaustCode(t *testing.T) {
	m := NewOTPManager()

	code, err := m.Issue("user@example.com")
	if err != nil {
		t.Fatalf("issuing code: %v", err)
	}
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	if err := m.Verify("user@example.com", wrong); !errors.Is(err, ErrOTPMismatch) {
		t.Fatalf("first wrong attempt: expected ErrOTPMismatch, got %v", err)
	}
	if err := m.Verify("user@example.com", wrong); !errors.Is(err, ErrOTPMismatch) {
		t.Fatalf("second wrong attempt: expected ErrOTPMismatch, got %v", err)
	}
	if err := m.Verify("user@example.com", wrong); !errors.Is(err, ErrOTPAttemptsUsed) {
		t.Fatalf("third wrong attempt: expected ErrOTPAttemptsUsed, got %v", err)
	}

	// Even the right code is refused once attempts are spent.
	if err := m.Verify("user@example.com", code); !errors.Is(err, ErrOTPAttemptsUsed) {
		t.Errorf("exhausted code should stay locked, got %v", err)
	}

	// A fresh issue resets the counter.
	code, err = m.Issue("user@example.com")
	if err != nil {
		t.Fatalf("reissuing code: %v", err)
	}
	if err := m.Verify("user@example.com", code); err != nil {
		t.Errorf("fresh code should verify, got %v", err)
	}
}

func TestOTPExpires(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := NewOTPManagerWithClock(func() time.Time { return current })

	code, err := m.Issue("user@example.com")
	if err != nil {
		t.Fatalf("issuing code: %v", err)
	}

	current = current.Add(otpTTL - time.Second)
	if err := m.Verify("user@example.com", code); err != nil {
		t.Fatalf("code should still be valid just before the deadline, got %v", err)
	}

	current = current.Add(2 * time.Second)
	if err := m.Consume("user@example.com"); !errors.Is(err, ErrOTPExpired) {
		t.Errorf("expected ErrOTPExpired, got %v", err)
	}
	if err := m.Verify("user@example.com", code); !errors.Is(err, ErrOTPNotFound) {
		t.Errorf("expired code should be dropped, got %v", err)
	}
}

func TestOTPConsumeRequiresVerification(t *testing.T) {
	m := NewOTPManager()

	if _, err := m.Issue("user@example.com"); err != nil {
		t.Fatalf("issuing code: %v", err)
	}
	if err := m.Consume("user@example.com"); !errors.Is(err, ErrOTPMismatch) {
		t.Errorf("consume without verify should fail, got %v", err)
	}
}

func TestOTPReissueReplacesCode(t *testing.T) {
	m := NewOTPManager()

	first, err := m.Issue("user@example.com")
	if err != nil {
		t.Fatalf("issuing code: %v", err)
	}
	second, err := m.Issue("user@example.com")
	if err != nil {
		t.Fatalf("reissuing code: %v", err)
	}
	if first == second {
		// Collisions are possible but wildly unlikely; skip rather than flake.
		t.Skip("generated identical codes")
	}

	if err := m.Verify("user@example.com", first); !errors.Is(err, ErrOTPMismatch) {
		t.Errorf("stale code should mismatch, got %v", err)
	}
	if err := m.Verify("user@example.com", second); err != nil {
		t.Errorf("current code should verify, got %v", err)
	}
}
