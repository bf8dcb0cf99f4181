package usecase

import (
	"context"

	"proview-backend/internal/chat/domain"
	"proview-backend/internal/chat/dto"
)

// StatusNotifier receives chat lifecycle transitions. Satisfied by the
// notification service; nil disables fanout.
type StatusNotifier interface {
	NotifyChatStatus(userID, chatID string, status domain.ChatStatus)
}

// ChatUsecase defines the business logic for chats
type ChatUsecase interface {
	// ListChats returns the drawer rows for a user, newest first
	ListChats(userID string) ([]dto.ChatSummary, error)

	// CreateChat inserts a pending chat for a validated non-empty query
	CreateChat(userID, query string) (*domain.Chat, error)

	// DeleteChat removes a chat scoped to its owner
	DeleteChat(userID, chatID string) error

	// Ask runs the AI pass for a prompt. When chatID is empty a chat row is
	// created first. The finished summary, sources and product link are
	// persisted so later loads are idempotent reads.
	Ask(ctx context.Context, userID, chatID, prompt string) (*dto.AskResponse, error)

	// GetChatDetail loads the persisted summary and sources. A chat without
	// a summary comes back retryable with its original query, never ready
	// with empty text.
	GetChatDetail(userID, chatID string) (*dto.ChatDetail, error)

	// Retry replays the chat's stored query through the ask path. Rejected
	// while a generation for the same chat is in flight.
	Retry(ctx context.Context, userID, chatID string) (*dto.AskResponse, error)

	// SetStatusNotifier wires status-event fanout (optional)
	SetStatusNotifier(n StatusNotifier)
}
