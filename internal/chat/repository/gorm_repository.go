package repository

import (
	"errors"
	"time"

	"proview-backend/internal/chat/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned by Delete when no row matched the (id, owner) pair.
var ErrNotFound = errors.New("chat not found")

// gormChatRepository implements ChatRepository using GORM
type gormChatRepository struct {
	db *gorm.DB
}

// NewGormChatRepository creates a new GORM-based ChatRepository
func NewGormChatRepository(db *gorm.DB) ChatRepository {
	return &gormChatRepository{db: db}
}

func (r *gormChatRepository) Create(chat *domain.Chat) error {
	if chat.ID == "" {
		chat.ID = uuid.New().String()
	}
	if chat.Status == "" {
		chat.Status = domain.StatusPending
	}
	chat.GeneratedOn = time.Now()
	return r.db.Create(chat).Error
}

func (r *gormChatRepository) FindByID(id string) (*domain.Chat, error) {
	var chat domain.Chat
	err := r.db.Where("id = ?", id).First(&chat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &chat, nil
}

func (r *gormChatRepository) FindByUser(userID string) ([]*domain.Chat, error) {
	var chats []*domain.Chat
	err := r.db.Where("queried_by = ?", userID).
		Order("generated_on DESC").
		Find(&chats).Error
	return chats, err
}

func (r *gormChatRepository) SetStatus(id string, status domain.ChatStatus) error {
	return r.db.Model(&domain.Chat{}).Where("id = ?", id).
		Update("status", status).Error
}

func (r *gormChatRepository) SaveResult(chat *domain.Chat, sources []*domain.ChatSource) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(chat).Error; err != nil {
			return err
		}
		// Sources are read-only once written; a regeneration replaces the set.
		if err := tx.Where("chat_id = ?", chat.ID).Delete(&domain.ChatSource{}).Error; err != nil {
			return err
		}
		for _, source := range sources {
			if source.ID == "" {
				source.ID = uuid.New().String()
			}
			source.ChatID = chat.ID
			if err := tx.Create(source).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *gormChatRepository) FindSources(chatID string) ([]*domain.ChatSource, error) {
	var sources []*domain.ChatSource
	err := r.db.Where("chat_id = ?", chatID).Find(&sources).Error
	return sources, err
}

func (r *gormChatRepository) Delete(id, userID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND queried_by = ?", id, userID).Delete(&domain.Chat{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("chat_id = ?", id).Delete(&domain.ChatSource{}).Error
	})
}
