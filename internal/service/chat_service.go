package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"weekly-planner/internal/repository"
)

// ChatService records which chat talks to the bot and points reminders at it.
type ChatService struct {
	chatRepo  *repository.ChatRepository
	reminders *ReminderService
	now       func() time.Time
	log       zerolog.Logger
}

func NewChatService(chatRepo *repository.ChatRepository, reminders *ReminderService, log zerolog.Logger) *ChatService {
	return &ChatService{chatRepo: chatRepo, reminders: reminders, now: time.Now, log: log}
}

// RegisterChat makes chatID the reminder recipient and persists it.
// Storage errors are logged; the in-memory recipient is updated regardless.
func (s *ChatService) RegisterChat(ctx context.Context, chatID int64) {
	s.reminders.RegisterChat(chatID)
	if _, err := s.chatRepo.Touch(ctx, chatID, s.now()); err != nil {
		s.log.Warn().Err(err).Int64("chat_id", chatID).Msg("remember chat")
	}
}

// Restore points reminders at the last active chat, if any.
func (s *ChatService) Restore(ctx context.Context) (int64, error) {
	chat, err := s.chatRepo.LastActive(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	s.reminders.RegisterChat(chat.TelegramID)
	return chat.TelegramID, nil
}
