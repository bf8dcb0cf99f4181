package repository

import "proview-backend/internal/chat/domain"

// ChatRepository defines the data access surface for chats and their sources
type ChatRepository interface {
	// Create inserts a new chat row
	Create(chat *domain.Chat) error

	// FindByID finds a chat by its ID
	FindByID(id string) (*domain.Chat, error)

	// FindByUser returns all chats owned by a user, newest generation first
	FindByUser(userID string) ([]*domain.Chat, error)

	// SetStatus updates only the lifecycle status
	SetStatus(id string, status domain.ChatStatus) error

	// SaveResult persists a finished generation: summary, status, product
	// link and the replaced source list, atomically
	SaveResult(chat *domain.Chat, sources []*domain.ChatSource) error

	// FindSources returns the citations attached to a chat
	FindSources(chatID string) ([]*domain.ChatSource, error)

	// Delete removes a chat scoped to its owner
	Delete(id, userID string) error
}
