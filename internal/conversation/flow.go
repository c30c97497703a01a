package conversation

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// Flow is one multi-step dialog. Advance is called for every text message
// routed to the session, including the one that started it, and reports
// whether the flow has finished. HandleCallback handles inline button presses.
type Flow interface {
	Advance(ctx context.Context, s *Session, msg Message) (bool, error)
	HandleCallback(ctx context.Context, s *Session, cb Callback) error
}

type flowDeps struct {
	transport Transport
	store     TaskStore
	log       zerolog.Logger
}

// showAnchor edits the anchor message or sends it when the session has none yet.
func (d flowDeps) showAnchor(ctx context.Context, s *Session, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	if s.AnchorID != 0 {
		return d.transport.EditMessage(ctx, s.ChatID, s.AnchorID, text, markup)
	}
	var m interface{}
	if markup != nil {
		m = *markup
	}
	id, err := d.transport.SendMessage(ctx, s.ChatID, text, m)
	if err != nil {
		return err
	}
	s.AnchorID = id
	return nil
}

// dropInput removes the user's message to keep the chat tidy. Failures are
// only logged.
func (d flowDeps) dropInput(ctx context.Context, msg Message) {
	if msg.MessageID == 0 {
		return
	}
	if err := d.transport.DeleteMessage(ctx, msg.ChatID, msg.MessageID); err != nil {
		d.log.Debug().Err(err).Int64("chat_id", msg.ChatID).Int("message_id", msg.MessageID).Msg("delete input message")
	}
}

// staleCallback reports whether a button press came from a message other than the anchor.
func staleCallback(s *Session, cb Callback) bool {
	return s.AnchorID != 0 && cb.MessageID != 0 && cb.MessageID != s.AnchorID
}
