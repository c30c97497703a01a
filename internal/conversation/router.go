package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

const commandPrefix = "/"

// Router is the entry point for every inbound text message and button press.
type Router struct {
	transport Transport
	store     TaskStore
	chats     ChatRegistry
	sessions  *Sessions
	flows     map[FlowKind]Flow
	menu      map[string]FlowKind
	log       zerolog.Logger
}

// NewRouter wires the flow variants. chats may be nil.
func NewRouter(transport Transport, store TaskStore, chats ChatRegistry, sessions *Sessions, log zerolog.Logger) *Router {
	deps := flowDeps{transport: transport, store: store, log: log}
	return &Router{
		transport: transport,
		store:     store,
		chats:     chats,
		sessions:  sessions,
		flows: map[FlowKind]Flow{
			FlowAddTask:      &AddTaskFlow{flowDeps: deps},
			FlowShowSchedule: &ShowScheduleFlow{flowDeps: deps},
			FlowDeleteTask:   &DeleteTaskFlow{flowDeps: deps},
		},
		menu: map[string]FlowKind{
			menuLabelAddTask:      FlowAddTask,
			menuLabelShowSchedule: FlowShowSchedule,
			menuLabelDeleteTasks:  FlowDeleteTask,
		},
		log: log,
	}
}

// HandleText routes a text message: menu labels start a fresh flow, commands
// reset the session, anything else feeds the active flow.
func (r *Router) HandleText(ctx context.Context, msg Message) error {
	unlock := r.sessions.Lock(msg.ChatID)
	defer unlock()

	if r.chats != nil {
		r.chats.RegisterChat(ctx, msg.ChatID)
	}

	text := strings.TrimSpace(msg.Text)
	if kind, ok := r.menu[text]; ok {
		r.log.Debug().Int64("chat_id", msg.ChatID).Str("flow", kind.String()).Msg("start flow")
		return r.advance(ctx, r.sessions.Start(msg.ChatID, kind), msg)
	}

	if strings.HasPrefix(text, commandPrefix) {
		r.sessions.Clear(msg.ChatID)
		return r.handleCommand(ctx, msg.ChatID, text)
	}

	if s := r.sessions.Get(msg.ChatID); s != nil {
		return r.advance(ctx, s, msg)
	}

	_, err := r.transport.SendMessage(ctx, msg.ChatID, textUnknownCommand, nil)
	return err
}

// HandleCallback routes a button press to the active flow. The press is
// always acknowledged; presses without a matching session are ignored.
func (r *Router) HandleCallback(ctx context.Context, cb Callback) error {
	unlock := r.sessions.Lock(cb.ChatID)
	defer unlock()

	var err error
	if s := r.sessions.Get(cb.ChatID); s != nil {
		if flow, ok := r.flows[s.Kind]; ok {
			if err = flow.HandleCallback(ctx, s, cb); err != nil {
				r.reportFailure(ctx, cb.ChatID)
				err = fmt.Errorf("%s callback %q: %w", s.Kind, cb.Data, err)
			}
		}
	}

	if ackErr := r.transport.AnswerCallback(ctx, cb.ID); ackErr != nil {
		r.log.Warn().Err(ackErr).Str("callback_id", cb.ID).Msg("callback ack")
	}
	return err
}

func (r *Router) advance(ctx context.Context, s *Session, msg Message) error {
	flow, ok := r.flows[s.Kind]
	if !ok {
		r.sessions.Clear(s.ChatID)
		return nil
	}
	done, err := flow.Advance(ctx, s, msg)
	if err != nil {
		r.reportFailure(ctx, s.ChatID)
		return fmt.Errorf("%s step %d: %w", s.Kind, s.Step, err)
	}
	if done {
		r.log.Debug().Int64("chat_id", s.ChatID).Str("flow", s.Kind.String()).Msg("flow completed")
		r.sessions.Clear(s.ChatID)
	}
	return nil
}

func (r *Router) handleCommand(ctx context.Context, chatID int64, text string) error {
	command := strings.Fields(text)[0]
	// Commands in groups may carry the bot name: /start@my_bot.
	command, _, _ = strings.Cut(command, "@")
	r.log.Info().Int64("chat_id", chatID).Str("command", command).Msg("command")

	switch command {
	case "/start":
		_, err := r.transport.SendMessage(ctx, chatID, textStarted, mainMenuKeyboard())
		return err
	case "/help":
		_, err := r.transport.SendMessage(ctx, chatID, textHelp, mainMenuKeyboard())
		return err
	case "/reset":
		if err := r.store.DeleteAll(ctx); err != nil {
			r.reportFailure(ctx, chatID)
			return fmt.Errorf("reset: %w", err)
		}
		_, err := r.transport.SendMessage(ctx, chatID, textResetDone, mainMenuKeyboard())
		return err
	default:
		_, err := r.transport.SendMessage(ctx, chatID, textUnknownCommand, nil)
		return err
	}
}

// reportFailure tells the user something went wrong without exposing details.
func (r *Router) reportFailure(ctx context.Context, chatID int64) {
	if _, err := r.transport.SendMessage(ctx, chatID, textFailure, nil); err != nil {
		r.log.Warn().Err(err).Int64("chat_id", chatID).Msg("report failure to chat")
	}
}
