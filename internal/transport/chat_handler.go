package transport

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"wonder-electronics/internal/domain"
	"wonder-electronics/internal/middleware"
	"wonder-electronics/internal/service"
)

// SendMessageRequest represents the customer chat payload
type SendMessageRequest struct {
	Text string `json:"text" validate:"required"`
	Name string `json:"name"`
}

// AdminReplyRequest represents the admin reply payload
type AdminReplyRequest struct {
	UserID string `json:"userId" validate:"required"`
	Text   string `json:"text" validate:"required"`
}

// ChatHandler handles HTTP requests for the support chat
type ChatHandler struct {
	chat   service.ChatService
	logger *zap.Logger
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chat service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, logger: logger}
}

// RegisterRoutes registers chat routes
func (h *ChatHandler) RegisterRoutes(r chi.Router, optionalAuth, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/chat", func(r chi.Router) {
		// Customer side: works for guests too.
		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Get("/messages", h.MyMessages)
			r.Post("/messages", h.SendMessage)
		})

		// Admin inbox.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, adminMiddleware)
			r.Get("/sessions", h.Sessions)
			r.Post("/reply", h.Reply)
		})
	})
}

func (h *ChatHandler) chatIdentity(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner := middleware.CartOwner(r)
	if owner == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "missing guest ID or authentication")
		return "", false
	}
	return owner, true
}

// MyMessages returns the caller's conversation
func (h *ChatHandler) MyMessages(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.chatIdentity(w, r)
	if !ok {
		return
	}

	messages, err := h.chat.Messages(r.Context(), owner)
	if err != nil {
		h.logger.Error("Failed to load chat messages", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load messages")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, messages)
}

// SendMessage appends a customer message to the caller's conversation
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.chatIdentity(w, r)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := req.Name
	if email, ok := middleware.GetUserEmail(r.Context()); ok && name == "" {
		name = email
	}

	message, err := h.chat.Send(r.Context(), owner, name, req.Text, domain.SenderUser)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			middleware.RespondWithError(w, http.StatusBadRequest, "message text is empty")
			return
		}
		h.logger.Error("Failed to send chat message", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to send message")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, message)
}

// Sessions returns the admin chat inbox, most recently active first
func (h *ChatHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.chat.Sessions(r.Context())
	if err != nil {
		h.logger.Error("Failed to load chat sessions", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load sessions")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, sessions)
}

// Reply appends an admin message to a customer's conversation
func (h *ChatHandler) Reply(w http.ResponseWriter, r *http.Request) {
	var req AdminReplyRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message, err := h.chat.Send(r.Context(), req.UserID, "Support", req.Text, domain.SenderAdmin)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			middleware.RespondWithError(w, http.StatusBadRequest, "message text is empty")
			return
		}
		h.logger.Error("Failed to send admin reply", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to send reply")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, message)
}
