package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"weekly-planner/internal/model"
)

// ChatRepository remembers chats so reminders find their recipient after a restart.
type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// Touch finds or creates the chat by TelegramID and bumps its LastSeenAt.
func (r *ChatRepository) Touch(ctx context.Context, telegramID int64, seenAt time.Time) (*model.Chat, error) {
	var chat model.Chat
	db := r.db.WithContext(ctx)
	err := db.Where("telegram_id = ?", telegramID).First(&chat).Error
	switch {
	case err == nil:
		if err := db.Model(&chat).Update("last_seen_at", seenAt).Error; err != nil {
			return nil, fmt.Errorf("update chat: %w", err)
		}
		return &chat, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		chat = model.Chat{TelegramID: telegramID, LastSeenAt: seenAt}
		if err := db.Create(&chat).Error; err != nil {
			return nil, fmt.Errorf("create chat: %w", err)
		}
		return &chat, nil
	default:
		return nil, fmt.Errorf("find chat: %w", err)
	}
}

// LastActive returns the most recently seen chat.
func (r *ChatRepository) LastActive(ctx context.Context) (*model.Chat, error) {
	var chat model.Chat
	if err := r.db.WithContext(ctx).Order("last_seen_at DESC, id DESC").First(&chat).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}
