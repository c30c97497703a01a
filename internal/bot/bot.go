package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"weekly-planner/internal/conversation"
)

// Handler consumes inbound chat events. conversation.Router implements it.
type Handler interface {
	HandleText(ctx context.Context, msg conversation.Message) error
	HandleCallback(ctx context.Context, cb conversation.Callback) error
}

// Bot adapts the Telegram Bot API to the conversation and reminder layers.
type Bot struct {
	api *tgbotapi.BotAPI
	log zerolog.Logger
}

func New(token string, log zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Info().Str("account", api.Self.UserName).Msg("bot authorized")

	return &Bot{api: api, log: log}, nil
}

// Start begins polling updates until ctx is cancelled. Updates are handled
// one at a time, which keeps every chat's events in arrival order.
func (b *Bot) Start(ctx context.Context, handler Handler) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info().Msg("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		b.dispatch(ctx, handler, update)
	}

	return ctx.Err()
}

func (b *Bot) dispatch(ctx context.Context, handler Handler, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		if cb.Message == nil || cb.Message.Chat == nil {
			return
		}
		err := handler.HandleCallback(ctx, conversation.Callback{
			ID:        cb.ID,
			ChatID:    cb.Message.Chat.ID,
			MessageID: cb.Message.MessageID,
			Data:      cb.Data,
		})
		if err != nil {
			b.log.Error().Err(err).Int64("chat_id", cb.Message.Chat.ID).Msg("handle callback")
		}
	case update.Message != nil:
		msg := update.Message
		if msg.Chat == nil || msg.Text == "" {
			return
		}
		err := handler.HandleText(ctx, conversation.Message{
			ChatID:    msg.Chat.ID,
			MessageID: msg.MessageID,
			Text:      msg.Text,
		})
		if err != nil {
			b.log.Error().Err(err).Int64("chat_id", msg.Chat.ID).Msg("handle message")
		}
	default:
		b.log.Debug().Int("update_id", update.UpdateID).Msg("unhandled update")
	}
}

// SendMessage sends an HTML message with optional markup and returns its id.
func (b *Bot) SendMessage(ctx context.Context, chatID int64, text string, markup interface{}) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	sent, err := b.api.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("send message: %w", err)
	}
	return sent.MessageID, nil
}

// SendHTML implements the reminder sender.
func (b *Bot) SendHTML(ctx context.Context, chatID int64, text string) error {
	_, err := b.SendMessage(ctx, chatID, text, nil)
	return err
}

func (b *Bot) EditMessage(ctx context.Context, chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.ReplyMarkup = markup
	return b.request(edit, "edit message")
}

func (b *Bot) EditMarkup(ctx context.Context, chatID int64, messageID int, markup tgbotapi.InlineKeyboardMarkup) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.request(tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, markup), "edit markup")
}

func (b *Bot) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.request(tgbotapi.NewDeleteMessage(chatID, messageID), "delete message")
}

func (b *Bot) AnswerCallback(ctx context.Context, callbackID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.request(tgbotapi.NewCallback(callbackID, ""), "callback ack")
}

func (b *Bot) request(c tgbotapi.Chattable, what string) error {
	if _, err := b.api.Request(c); err != nil {
		if isNotModified(err) {
			return nil
		}
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}

// isNotModified matches Telegram's reply to an edit that changes nothing,
// e.g. re-rendering a schedule page whose tasks did not change.
func isNotModified(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}
