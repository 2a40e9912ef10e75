package domain

import (
	"time"

	"github.com/google/uuid"
)

// Password reset request states.
const (
	ResetStatusPending   = "pending"
	ResetStatusApproved  = "approved"
	ResetStatusCompleted = "completed"
)

// PasswordResetRequest tracks the email-based reset flow: created pending,
// moved to approved or straight to completed when the admin issues a new
// password. NewPassword holds the generated password so the admin can
// relay it; the user record itself only ever stores the hash.
type PasswordResetRequest struct {
	ID            uuid.UUID  `json:"id"`
	UserEmail     string     `json:"userEmail"`
	UserName      string     `json:"userName"`
	RequestDate   time.Time  `json:"requestDate"`
	Status        string     `json:"status"`
	ApprovedDate  *time.Time `json:"approvedDate,omitempty"`
	CompletedDate *time.Time `json:"completedDate,omitempty"`
	NewPassword   string     `json:"newPassword,omitempty"`
}
