package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ErrNoRecipient is reported when a reminder fires before any chat is known.
var ErrNoRecipient = errors.New("no reminder recipient")

const (
	reminderQueueSize = 64
	deliveryTimeout   = 15 * time.Second
)

// Sender delivers an HTML message to a chat.
type Sender interface {
	SendHTML(ctx context.Context, chatID int64, text string) error
}

// Notification is a rendered trigger waiting for delivery.
type Notification struct {
	ID      uuid.UUID
	Trigger Trigger
	Text    string
}

// ReminderService turns fired triggers into chat messages for the single
// recipient chat. Delivery happens on its own goroutine so the tick loop
// never waits on the transport; failed deliveries are counted, not retried.
type ReminderService struct {
	sender  Sender
	lead    time.Duration
	limiter *rate.Limiter
	queue   chan Notification
	log     zerolog.Logger

	recipient atomic.Int64
	pinned    atomic.Bool
	delivered atomic.Int64
	failures  atomic.Int64
}

func NewReminderService(sender Sender, lead time.Duration, perSecond float64, log zerolog.Logger) *ReminderService {
	if perSecond <= 0 {
		perSecond = 1
	}
	return &ReminderService{
		sender:  sender,
		lead:    lead,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		queue:   make(chan Notification, reminderQueueSize),
		log:     log,
	}
}

// PinRecipient fixes the output chat; RegisterChat calls are ignored afterwards.
func (s *ReminderService) PinRecipient(chatID int64) {
	s.recipient.Store(chatID)
	s.pinned.Store(true)
}

// RegisterChat makes chatID the recipient unless one was pinned.
func (s *ReminderService) RegisterChat(chatID int64) {
	if s.pinned.Load() {
		return
	}
	s.recipient.Store(chatID)
}

// Recipient returns the current output chat, 0 when none is known.
func (s *ReminderService) Recipient() int64 {
	return s.recipient.Load()
}

// Delivered returns the number of successfully sent reminders.
func (s *ReminderService) Delivered() int64 {
	return s.delivered.Load()
}

// Failures returns the number of reminders that were dropped or failed to send.
func (s *ReminderService) Failures() int64 {
	return s.failures.Load()
}

// Render formats the user-facing text for a trigger.
func (s *ReminderService) Render(t Trigger) string {
	label := fmt.Sprintf("%d.%s", t.TaskID, html.EscapeString(t.TaskName))
	switch t.Kind {
	case TriggerReminder:
		return fmt.Sprintf("<b>🔔 Через %d минут начнется задача: \"%s\"!</b>", int(s.lead/time.Minute), label)
	case TriggerStart:
		return fmt.Sprintf("<b>🔔 Задача \"%s\" началась!</b>", label)
	default:
		return fmt.Sprintf("<b>🔔 Задача \"%s\" окончилась!</b>", label)
	}
}

// Notify queues a fired trigger for delivery without blocking.
// It matches NotifyFunc.
func (s *ReminderService) Notify(t Trigger) {
	n := Notification{ID: uuid.New(), Trigger: t, Text: s.Render(t)}
	select {
	case s.queue <- n:
	default:
		s.failures.Add(1)
		s.log.Warn().Str("delivery_id", n.ID.String()).Uint("task_id", t.TaskID).Str("kind", string(t.Kind)).
			Msg("reminder queue full, dropping")
	}
}

// Run delivers queued reminders until ctx is cancelled.
func (s *ReminderService) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n := <-s.queue:
			if err := s.limiter.Wait(ctx); err != nil {
				return err
			}
			if err := s.deliver(ctx, n); err != nil {
				s.failures.Add(1)
				s.log.Error().Err(err).Str("delivery_id", n.ID.String()).Uint("task_id", n.Trigger.TaskID).
					Str("kind", string(n.Trigger.Kind)).Msg("reminder delivery failed")
				continue
			}
			s.delivered.Add(1)
			s.log.Info().Str("delivery_id", n.ID.String()).Uint("task_id", n.Trigger.TaskID).
				Str("kind", string(n.Trigger.Kind)).Msg("reminder delivered")
		}
	}
}

func (s *ReminderService) deliver(ctx context.Context, n Notification) error {
	chatID := s.recipient.Load()
	if chatID == 0 {
		return ErrNoRecipient
	}
	sendCtx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()
	return s.sender.SendHTML(sendCtx, chatID, n.Text)
}
