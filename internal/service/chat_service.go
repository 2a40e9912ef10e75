package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"wonder-electronics/internal/domain"
	"wonder-electronics/internal/metrics"
	"wonder-electronics/internal/repository"
)

var ErrEmptyMessage = errors.New("message text is empty")

// ChatService is the support chat between customers (or guests) and the
// admin console. Messages live in one append-only log; sessions are views
// grouped by user.
type ChatService interface {
	Send(ctx context.Context, userID, userName, text string, sender string) (*domain.ChatMessage, error)
	Messages(ctx context.Context, userID string) ([]domain.ChatMessage, error)
	Sessions(ctx context.Context) ([]domain.ChatSession, error)
}

type chatService struct {
	messages repository.ChatRepository
}

// NewChatService creates a new instance of ChatService.
func NewChatService(messages repository.ChatRepository) ChatService {
	return &chatService{messages: messages}
}

// NewGuestID mints an identity for a visitor chatting before signing in.
func NewGuestID() string {
	return "guest_" + uuid.New().String()
}

func (s *chatService) Send(ctx context.Context, userID, userName, text string, sender string) (*domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if sender != domain.SenderAdmin {
		sender = domain.SenderUser
	}

	message := domain.ChatMessage{
		Text:      text,
		Sender:    sender,
		UserName:  userName,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
	}
	if err := s.messages.Append(ctx, message); err != nil {
		return nil, err
	}
	metrics.ChatMessagesTotal.WithLabelValues(sender).Inc()
	return &message, nil
}

// Messages returns the conversation for one user, oldest first.
func (s *chatService) Messages(ctx context.Context, userID string) ([]domain.ChatMessage, error) {
	all, err := s.messages.List(ctx)
	if err != nil {
		return nil, err
	}
	conversation := make([]domain.ChatMessage, 0)
	for _, m := range all {
		if m.UserID == userID {
			conversation = append(conversation, m)
		}
	}
	return conversation, nil
}

// Sessions groups the log by user for the admin inbox, most recently
// active first.
func (s *chatService) Sessions(ctx context.Context) ([]domain.ChatSession, error) {
	all, err := s.messages.List(ctx)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string]*domain.ChatSession)
	order := make([]string, 0)
	for _, m := range all {
		session, ok := byUser[m.UserID]
		if !ok {
			session = &domain.ChatSession{UserID: m.UserID, UserName: m.UserName}
			byUser[m.UserID] = session
			order = append(order, m.UserID)
		}
		if m.UserName != "" {
			session.UserName = m.UserName
		}
		session.Messages = append(session.Messages, m)
		session.LastMessage = m.Timestamp
	}

	sessions := make([]domain.ChatSession, 0, len(order))
	for _, id := range order {
		sessions = append(sessions, *byUser[id])
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].LastMessage.After(sessions[j].LastMessage)
	})
	return sessions, nil
}
