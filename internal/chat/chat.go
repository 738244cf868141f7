// Package chat sends and lists conversation messages, with a client-side
// send ceiling per conversation. The ceiling is a UX nudge toward booking a
// consultation, not a quota: it counts only this process's sends and resets
// on restart.
package chat

import (
	"context"
	"sync"
	"time"

	"legallink_client/internal/api"
	"legallink_client/platform/apperr"
	"legallink_client/platform/config"
	"legallink_client/platform/logger"
	"legallink_client/platform/sanitize"
)

// Message is one conversation message as the backend returns it.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Sender         string    `json:"sender"`
	Body           string    `json:"body"`
	SentAt         time.Time `json:"sentAt"`
}

// Backend is the slice of the API client the chat module needs.
type Backend interface {
	Get(ctx context.Context, path string, out interface{}) error
	Post(ctx context.Context, path string, body, out interface{}) error
}

// Service sends messages through the throttle.
type Service struct {
	backend Backend
	log     *logger.Logger

	defaultLimit int
	overrides    map[string]int

	mu   sync.Mutex
	sent map[string]int
}

// New creates the chat service with ceilings taken from configuration.
func New(backend Backend, cfg config.ChatConfig, log *logger.Logger) *Service {
	return &Service{
		backend:      backend,
		log:          log,
		defaultLimit: cfg.GetChatMessageLimit(),
		overrides:    cfg.GetChatLimitOverrides(),
		sent:         make(map[string]int),
	}
}

// Limit returns the send ceiling for a conversation.
func (s *Service) Limit(conversationID string) int {
	if limit, ok := s.overrides[conversationID]; ok {
		return limit
	}
	return s.defaultLimit
}

// Remaining returns how many sends are left before the ceiling.
func (s *Service) Remaining(conversationID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	remaining := s.Limit(conversationID) - s.sent[conversationID]
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Send posts a message unless the conversation's ceiling is reached. A
// blocked send returns a rate-limited error; the caller offers the booking
// flow instead. Only successful sends count against the ceiling.
func (s *Service) Send(ctx context.Context, conversationID, body string) (Message, error) {
	if conversationID == "" {
		return Message{}, apperr.BadRequest("missing conversation id")
	}
	if body == "" {
		return Message{}, apperr.Validation("message is empty")
	}

	limit := s.Limit(conversationID)
	s.mu.Lock()
	if s.sent[conversationID] >= limit {
		s.mu.Unlock()
		s.log.ThrottleExceeded(conversationID, limit)
		return Message{}, apperr.RateLimited("free message limit reached, book a consultation to continue")
	}
	s.mu.Unlock()

	var sent Message
	err := s.backend.Post(ctx, api.Path("chat", "conversations", conversationID, "messages"),
		map[string]string{"body": body}, &sent)
	if err != nil {
		return Message{}, err
	}

	s.mu.Lock()
	s.sent[conversationID]++
	s.mu.Unlock()
	return sent, nil
}

// History fetches the conversation's messages.
func (s *Service) History(ctx context.Context, conversationID string) ([]Message, error) {
	if conversationID == "" {
		return nil, apperr.BadRequest("missing conversation id")
	}
	var items []Message
	if err := s.backend.Get(ctx, api.Path("chat", "conversations", conversationID, "messages"), &items); err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Body = sanitize.Text(items[i].Body)
	}
	return items, nil
}
