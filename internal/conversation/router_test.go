package conversation

import (
	"context"
	"errors"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestRouterUnknownInput(t *testing.T) {
	h := newHarness()
	if err := h.text("hello"); err != nil {
		t.Fatalf("HandleText error: %v", err)
	}
	if got := h.transport.lastSent().text; got != textUnknownCommand {
		t.Fatalf("reply = %q, want unknown notice", got)
	}
	if h.session() != nil {
		t.Fatal("no session should be created")
	}
}

func TestRouterNewFlowDiscardsDraft(t *testing.T) {
	h := newHarness()
	_ = h.text(menuLabelAddTask)
	_ = h.text("Math")
	_ = h.press(dayCallback(0))
	_ = h.text(doneKeyword)
	_ = h.text("10:00")

	_ = h.text(menuLabelDeleteTasks)
	s := h.session()
	if s.Kind != FlowDeleteTask || s.Step != deleteStepIDs {
		t.Fatalf("unexpected session %+v", s)
	}
	if s.Draft.Name != "" || len(s.Draft.Weekdays) != 0 {
		t.Fatalf("draft leaked into new flow: %+v", s.Draft)
	}
	if h.store.writes != 0 {
		t.Fatalf("store written %d times, want 0", h.store.writes)
	}

	// The old picker no longer toggles anything.
	_ = h.press(dayCallback(3))
	if len(h.session().Draft.Weekdays) != 0 {
		t.Fatal("callback reached a discarded flow")
	}
}

func TestRouterCommandClearsSession(t *testing.T) {
	h := newHarness()
	_ = h.text(menuLabelAddTask)
	if err := h.text("/start"); err != nil {
		t.Fatalf("HandleText error: %v", err)
	}
	if h.session() != nil {
		t.Fatal("command should clear the session")
	}
	last := h.transport.lastSent()
	if last.text != textStarted {
		t.Fatalf("reply = %q", last.text)
	}
	if _, ok := last.markup.(tgbotapi.ReplyKeyboardMarkup); !ok {
		t.Fatalf("start should attach the main menu, got %T", last.markup)
	}
}

func TestRouterCommands(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "/help", want: textHelp},
		{text: "/start@planner_bot", want: textStarted},
		{text: "/nope", want: textUnknownCommand},
	}
	for _, tt := range tests {
		h := newHarness()
		if err := h.text(tt.text); err != nil {
			t.Fatalf("%s error: %v", tt.text, err)
		}
		if got := h.transport.lastSent().text; got != tt.want {
			t.Fatalf("%s reply = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestRouterResetDeletesAll(t *testing.T) {
	h := newHarness()
	h.store.seed(1, 2, 3)
	if err := h.text("/reset"); err != nil {
		t.Fatalf("HandleText error: %v", err)
	}
	if len(h.store.ids()) != 0 {
		t.Fatalf("store not cleared: %v", h.store.ids())
	}
	if got := h.transport.lastSent().text; got != textResetDone {
		t.Fatalf("reply = %q", got)
	}
}

func TestRouterCallbackWithoutSession(t *testing.T) {
	h := newHarness()
	if err := h.press(dayCallback(1)); err != nil {
		t.Fatalf("HandleCallback error: %v", err)
	}
	if len(h.transport.answered) != 1 {
		t.Fatal("callback must always be answered")
	}
}

func TestRouterStoreFailure(t *testing.T) {
	h := newHarness()
	h.store.listErr = errors.New("disk on fire")

	err := h.text(menuLabelShowSchedule)
	if err == nil {
		t.Fatal("expected error from failing store")
	}
	if !errors.Is(err, h.store.listErr) {
		t.Fatalf("error %v should wrap the store error", err)
	}
	if got := h.transport.lastSent().text; got != textFailure {
		t.Fatalf("reply = %q, want generic failure notice", got)
	}
}

func TestRouterCreateFailureKeepsStep(t *testing.T) {
	h := newHarness()
	h.store.createErr = errors.New("locked")
	_ = h.text(menuLabelAddTask)
	_ = h.text("Math")
	_ = h.press(dayCallback(0))
	_ = h.text(doneKeyword)
	_ = h.text("10:00")

	if err := h.text("11:00"); err == nil {
		t.Fatal("expected error")
	}
	if s := h.session(); s == nil || s.Step != addStepEndTime {
		t.Fatalf("flow should stay at the end-time step, session %+v", s)
	}

	h.store.createErr = nil
	if err := h.text("11:00"); err != nil {
		t.Fatalf("retry error: %v", err)
	}
	if h.session() != nil || len(h.store.ids()) != 1 {
		t.Fatal("retry should complete the flow")
	}
}

func TestRouterRegistersChat(t *testing.T) {
	h := newHarness()
	_ = h.text("/start")
	if h.chats.last != testChat {
		t.Fatalf("registered chat = %d, want %d", h.chats.last, testChat)
	}
}

func TestRouterSessionsPerChat(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	var wg sync.WaitGroup
	for chat := int64(1); chat <= 5; chat++ {
		wg.Add(1)
		go func(chatID int64) {
			defer wg.Done()
			_ = h.router.HandleText(ctx, Message{ChatID: chatID, Text: menuLabelAddTask})
			_ = h.router.HandleText(ctx, Message{ChatID: chatID, Text: "task"})
		}(chat)
	}
	wg.Wait()

	if h.sessions.Len() != 5 {
		t.Fatalf("sessions = %d, want 5", h.sessions.Len())
	}
	for chat := int64(1); chat <= 5; chat++ {
		s := h.sessions.Get(chat)
		if s.Step != addStepWeekdays || s.Draft.Name != "task" {
			t.Fatalf("chat %d session %+v", chat, s)
		}
	}
}

func TestDecodeCallback(t *testing.T) {
	t.Parallel()
	kind, value, ok := decodeCallback("day:3")
	if !ok || kind != cbDay || value != "3" {
		t.Fatalf("decode = %q %q %v", kind, value, ok)
	}
	for _, bad := range []string{"", "day", ":3", "day:"} {
		if _, _, ok := decodeCallback(bad); ok {
			t.Fatalf("decodeCallback(%q) should fail", bad)
		}
	}
}
