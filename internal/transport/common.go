package transport

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wonder-electronics/internal/domain"
	"wonder-electronics/internal/middleware"
)

// requestUserID pulls the authenticated user's ID out of the request
// context, replying 401/400 itself when it cannot.
func requestUserID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	userIDStr, ok := middleware.GetUserID(r.Context())
	if !ok {
		logger.Error("User ID not found in context")
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		logger.Error("Invalid user ID format", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user ID")
		return uuid.Nil, false
	}
	return userID, true
}

func profileOf(u *domain.User) UserProfile {
	return UserProfile{
		ID:                   u.ID.String(),
		Name:                 u.Name,
		Email:                u.Email,
		Phone:                u.Phone,
		Role:                 u.Role,
		JoinDate:             u.JoinDate.UTC().Format(time.RFC3339),
		Status:               u.Status,
		PasswordResetPending: u.PasswordResetPending,
	}
}
