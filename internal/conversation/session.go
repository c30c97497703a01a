package conversation

import (
	"sync"

	"weekly-planner/internal/model"
)

// FlowKind tags the flow variant a session runs.
type FlowKind int

const (
	FlowNone FlowKind = iota
	FlowAddTask
	FlowShowSchedule
	FlowDeleteTask
)

func (k FlowKind) String() string {
	switch k {
	case FlowAddTask:
		return "add_task"
	case FlowShowSchedule:
		return "show_schedule"
	case FlowDeleteTask:
		return "delete_task"
	default:
		return "none"
	}
}

// Session is the dialog state of one chat.
type Session struct {
	ChatID int64
	Kind   FlowKind
	// Step is the flow's cursor. The schedule view uses it as the selected weekday.
	Step int
	// AnchorID is the message the flow edits in place, 0 until sent.
	AnchorID int
	Draft    model.Task
}

// Sessions maps chats to their active session. Events of one chat are
// serialised through Lock; different chats proceed independently.
type Sessions struct {
	mu     sync.Mutex
	byChat map[int64]*Session
	locks  map[int64]*sync.Mutex
}

func NewSessions() *Sessions {
	return &Sessions{
		byChat: make(map[int64]*Session),
		locks:  make(map[int64]*sync.Mutex),
	}
}

// Lock acquires the chat's lock and returns its release function.
func (s *Sessions) Lock(chatID int64) func() {
	s.mu.Lock()
	l, ok := s.locks[chatID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[chatID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Get returns the chat's session or nil.
func (s *Sessions) Get(chatID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byChat[chatID]
}

// Start replaces any existing session of the chat with a fresh one.
func (s *Sessions) Start(chatID int64, kind FlowKind) *Session {
	session := &Session{ChatID: chatID, Kind: kind}
	s.mu.Lock()
	s.byChat[chatID] = session
	s.mu.Unlock()
	return session
}

// Clear drops the chat's session.
func (s *Sessions) Clear(chatID int64) {
	s.mu.Lock()
	delete(s.byChat, chatID)
	s.mu.Unlock()
}

// Len returns the number of chats with an active session.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byChat)
}
