package conversation

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"weekly-planner/internal/model"
)

type sentMsg struct {
	chatID int64
	id     int
	text   string
	markup interface{}
}

type editedMsg struct {
	id     int
	text   string
	markup *tgbotapi.InlineKeyboardMarkup
}

type fakeTransport struct {
	mu       sync.Mutex
	nextID   int
	sent     []sentMsg
	edits    []editedMsg
	markups  map[int]tgbotapi.InlineKeyboardMarkup
	texts    map[int]string
	deleted  []int
	answered []string
	sendErr  error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{nextID: 1000, markups: make(map[int]tgbotapi.InlineKeyboardMarkup), texts: make(map[int]string)}
}

func (f *fakeTransport) SendMessage(_ context.Context, chatID int64, text string, markup interface{}) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return 0, f.sendErr
	}
	f.nextID++
	f.sent = append(f.sent, sentMsg{chatID: chatID, id: f.nextID, text: text, markup: markup})
	f.texts[f.nextID] = text
	if m, ok := markup.(tgbotapi.InlineKeyboardMarkup); ok {
		f.markups[f.nextID] = m
	}
	return f.nextID, nil
}

func (f *fakeTransport) EditMessage(_ context.Context, _ int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, editedMsg{id: messageID, text: text, markup: markup})
	f.texts[messageID] = text
	if markup != nil {
		f.markups[messageID] = *markup
	} else {
		delete(f.markups, messageID)
	}
	return nil
}

func (f *fakeTransport) EditMarkup(_ context.Context, _ int64, messageID int, markup tgbotapi.InlineKeyboardMarkup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markups[messageID] = markup
	return nil
}

func (f *fakeTransport) DeleteMessage(_ context.Context, _ int64, messageID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeTransport) AnswerCallback(_ context.Context, callbackID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answered = append(f.answered, callbackID)
	return nil
}

func (f *fakeTransport) text(id int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.texts[id]
}

func (f *fakeTransport) lastSent() sentMsg {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return sentMsg{}
	}
	return f.sent[len(f.sent)-1]
}

// selectedDays reads the ✅-marked buttons of a weekday picker.
func (f *fakeTransport) selectedDays(id int) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, row := range f.markups[id].InlineKeyboard {
		for _, btn := range row {
			if strings.HasPrefix(btn.Text, "✅ ") && btn.CallbackData != nil {
				out = append(out, *btn.CallbackData)
			}
		}
	}
	return out
}

type fakeStore struct {
	mu        sync.Mutex
	nextID    uint
	tasks     map[uint]model.Task
	writes    int
	createErr error
	listErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{tasks: make(map[uint]model.Task)}
}

func (s *fakeStore) seed(ids ...uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.tasks[id] = model.Task{ID: id, Name: "seed", Weekdays: model.Weekdays{0}, StartTime: model.Clock{Hour: 9}, EndTime: model.Clock{Hour: 10}}
		if id > s.nextID {
			s.nextID = id
		}
	}
}

func (s *fakeStore) Create(_ context.Context, task *model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	if !task.Ready() {
		return errors.New("incomplete task")
	}
	s.nextID++
	task.ID = s.nextID
	s.tasks[task.ID] = *task
	s.writes++
	return nil
}

func (s *fakeStore) DeleteMany(_ context.Context, ids []uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.tasks, id)
	}
	s.writes++
	return nil
}

func (s *fakeStore) DeleteAll(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = make(map[uint]model.Task)
	s.writes++
	return nil
}

func (s *fakeStore) ListByWeekday(_ context.Context, day int) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []model.Task
	for _, task := range s.tasks {
		if day == -1 || task.Weekdays.Contains(day) {
			out = append(out, task)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) ids() []uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []uint
	for id := range s.tasks {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

type fakeChats struct {
	mu   sync.Mutex
	last int64
}

func (c *fakeChats) RegisterChat(_ context.Context, chatID int64) {
	c.mu.Lock()
	c.last = chatID
	c.mu.Unlock()
}

type harness struct {
	transport *fakeTransport
	store     *fakeStore
	chats     *fakeChats
	sessions  *Sessions
	router    *Router
	msgID     int
}

const testChat int64 = 77

func newHarness() *harness {
	h := &harness{
		transport: newFakeTransport(),
		store:     newFakeStore(),
		chats:     &fakeChats{},
		sessions:  NewSessions(),
	}
	h.router = NewRouter(h.transport, h.store, h.chats, h.sessions, zerolog.New(io.Discard))
	return h
}

func (h *harness) text(text string) error {
	h.msgID++
	return h.router.HandleText(context.Background(), Message{ChatID: testChat, MessageID: h.msgID, Text: text})
}

func (h *harness) press(data string) error {
	s := h.sessions.Get(testChat)
	anchor := 0
	if s != nil {
		anchor = s.AnchorID
	}
	return h.router.HandleCallback(context.Background(), Callback{ID: "cb-" + data, ChatID: testChat, MessageID: anchor, Data: data})
}

func (h *harness) session() *Session {
	return h.sessions.Get(testChat)
}
