package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"
)

const (
	otpLength      = 6
	otpTTL         = 5 * time.Minute
	otpMaxAttempts = 3
)

var (
	ErrOTPNotFound     = errors.New("no code was requested for this email")
	ErrOTPExpired      = errors.New("code has expired")
	ErrOTPMismatch     = errors.New("incorrect code")
	ErrOTPAttemptsUsed = errors.New("too many incorrect attempts")
)

type otpEntry struct {
	code     string
	issuedAt time.Time
	attempts int
	verified bool
	consumed bool
}

// OTPManager issues and verifies short-lived numeric codes, keyed by
// email. Codes live in memory only; a restart voids outstanding codes.
// Expiry is checked lazily on verification.
type OTPManager struct {
	mu      sync.Mutex
	entries map[string]*otpEntry
	now     func() time.Time
}

// NewOTPManager creates an OTPManager using the wall clock.
func NewOTPManager() *OTPManager {
	return &OTPManager{
		entries: make(map[string]*otpEntry),
		now:     time.Now,
	}
}

// NewOTPManagerWithClock creates an OTPManager with an injectable clock
// for tests.
func NewOTPManagerWithClock(now func() time.Time) *OTPManager {
	return &OTPManager{
		entries: make(map[string]*otpEntry),
		now:     now,
	}
}

// Issue generates a fresh 6-digit code for the email, replacing any
// outstanding one.
func (m *OTPManager) Issue(email string) (string, error) {
	code, err := randomDigits(otpLength)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[normalizeEmail(email)] = &otpEntry{
		code:     code,
		issuedAt: m.now(),
	}
	return code, nil
}

// Verify checks a submitted code. A code survives at most three wrong
// attempts and five minutes; a correct code is marked verified but stays
// usable by Consume exactly once.
func (m *OTPManager) Verify(email, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := normalizeEmail(email)
	entry, ok := m.entries[key]
	if !ok || entry.consumed {
		return ErrOTPNotFound
	}
	if m.now().Sub(entry.issuedAt) > otpTTL {
		delete(m.entries, key)
		return ErrOTPExpired
	}
	if entry.attempts >= otpMaxAttempts {
		return ErrOTPAttemptsUsed
	}
	if entry.code != code {
		entry.attempts++
		if entry.attempts >= otpMaxAttempts {
			return ErrOTPAttemptsUsed
		}
		return ErrOTPMismatch
	}
	entry.verified = true
	return nil
}

// Consume retires a previously verified code so it cannot authorize a
// second password change.
func (m *OTPManager) Consume(email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := normalizeEmail(email)
	entry, ok := m.entries[key]
	if !ok || entry.consumed {
		return ErrOTPNotFound
	}
	if m.now().Sub(entry.issuedAt) > otpTTL {
		delete(m.entries, key)
		return ErrOTPExpired
	}
	if !entry.verified {
		return ErrOTPMismatch
	}
	entry.consumed = true
	delete(m.entries, key)
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func randomDigits(n int) (string, error) {
	var b strings.Builder
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate code: %w", err)
		}
		fmt.Fprintf(&b, "%d", d.Int64())
	}
	return b.String(), nil
}
