package transport

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"wonder-electronics/internal/middleware"
	"wonder-electronics/internal/repository"
	"wonder-electronics/internal/service"
)

// ResetRequestPayload represents the forgot-password payload
type ResetRequestPayload struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyOTPRequest represents the code-verification payload
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

// CompleteOTPRequest represents the final new-password payload
type CompleteOTPRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=6"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// ResetHandler handles HTTP requests for both password recovery paths
type ResetHandler struct {
	resets      service.ResetService
	logger      *zap.Logger
	development bool
}

// NewResetHandler creates a new ResetHandler. In development the issued
// OTP code is echoed back in the response since there is no mail
// transport.
func NewResetHandler(resets service.ResetService, development bool, logger *zap.Logger) *ResetHandler {
	return &ResetHandler{resets: resets, development: development, logger: logger}
}

// RegisterRoutes registers reset routes
func (h *ResetHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/password-reset", func(r chi.Router) {
		// Public routes
		r.Post("/request", h.RequestReset)
		r.Post("/otp/request", h.RequestOTP)
		r.Post("/otp/verify", h.VerifyOTP)
		r.Post("/otp/complete", h.CompleteOTP)

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, adminMiddleware)
			r.Get("/requests", h.ListRequests)
			r.Post("/requests/{id}/approve", h.ApproveRequest)
			r.Post("/requests/{id}/complete", h.CompleteRequest)
		})
	})
}

// RequestReset files an admin-mediated reset request. Always replies OK
// so callers cannot probe which emails exist.
func (h *ResetHandler) RequestReset(w http.ResponseWriter, r *http.Request) {
	var req ResetRequestPayload
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.resets.RequestReset(r.Context(), req.Email); err != nil {
		h.logger.Error("Failed to file reset request", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to request reset")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "if that email has an account, a reset request was filed",
	})
}

// RequestOTP issues a one-time code
func (h *ResetHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req ResetRequestPayload
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	code, err := h.resets.RequestOTP(r.Context(), req.Email)
	if err != nil {
		h.logger.Error("Failed to issue OTP", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to request code")
		return
	}

	response := map[string]string{
		"message": "if that email has an account, a code was sent",
	}
	if h.development && code != "" {
		response["code"] = code
	}
	middleware.RespondWithJSON(w, http.StatusOK, response)
}

// VerifyOTP checks a submitted code
func (h *ResetHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.resets.VerifyOTP(r.Context(), req.Email, req.Code); err != nil {
		h.respondOTPError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "code verified"})
}

// CompleteOTP sets the new password after a verified code
func (h *ResetHandler) CompleteOTP(w http.ResponseWriter, r *http.Request) {
	var req CompleteOTPRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.resets.CompleteOTPReset(r.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrPasswordTooShort) {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.respondOTPError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

// ListRequests returns all reset requests for the admin console
func (h *ResetHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.resets.ListRequests(r.Context())
	if err != nil {
		h.logger.Error("Failed to list reset requests", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list reset requests")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, requests)
}

// ApproveRequest issues a temporary password for the request's account
func (h *ResetHandler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request ID")
		return
	}

	request, err := h.resets.ApproveReset(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to approve reset request", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to approve reset request")
		return
	}
	if request == nil {
		middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "nothing to approve"})
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, request)
}

// CompleteRequest closes out an approved request
func (h *ResetHandler) CompleteRequest(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request ID")
		return
	}

	if err := h.resets.CompleteReset(r.Context(), id); err != nil {
		h.logger.Error("Failed to complete reset request", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to complete reset request")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "request completed"})
}

func (h *ResetHandler) respondOTPError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		middleware.RespondWithError(w, http.StatusBadRequest, "no code was requested for this email")
	case errors.Is(err, service.ErrOTPNotFound):
		middleware.RespondWithError(w, http.StatusBadRequest, "no code was requested for this email")
	case errors.Is(err, service.ErrOTPExpired):
		middleware.RespondWithError(w, http.StatusBadRequest, "code has expired")
	case errors.Is(err, service.ErrOTPMismatch):
		middleware.RespondWithError(w, http.StatusBadRequest, "incorrect code")
	case errors.Is(err, service.ErrOTPAttemptsUsed):
		middleware.RespondWithError(w, http.StatusTooManyRequests, "too many incorrect attempts, request a new code")
	default:
		h.logger.Error("OTP operation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "reset failed")
	}
}
