// Package conversation drives multi-step chat dialogs: a per-chat session
// holds the active flow, its step cursor, the anchor message edited in place
// and the draft data collected so far.
package conversation

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"weekly-planner/internal/model"
)

// Transport is the chat surface flows talk to. Texts are sent as HTML.
type Transport interface {
	SendMessage(ctx context.Context, chatID int64, text string, markup interface{}) (int, error)
	EditMessage(ctx context.Context, chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error
	EditMarkup(ctx context.Context, chatID int64, messageID int, markup tgbotapi.InlineKeyboardMarkup) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	AnswerCallback(ctx context.Context, callbackID string) error
}

// TaskStore is the durable task storage used by the flows.
type TaskStore interface {
	Create(ctx context.Context, task *model.Task) error
	DeleteMany(ctx context.Context, taskIDs []uint) error
	DeleteAll(ctx context.Context) error
	ListByWeekday(ctx context.Context, day int) ([]model.Task, error)
}

// ChatRegistry learns which chat is active, e.g. to address reminders.
type ChatRegistry interface {
	RegisterChat(ctx context.Context, chatID int64)
}

// Message is an inbound text message.
type Message struct {
	ChatID    int64
	MessageID int
	Text      string
}

// Callback is an inbound inline button press.
type Callback struct {
	ID        string
	ChatID    int64
	MessageID int
	Data      string
}
