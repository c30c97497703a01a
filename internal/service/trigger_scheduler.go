package service

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"weekly-planner/internal/model"
)

// NotifyFunc receives a trigger when it fires.
type NotifyFunc func(Trigger)

type opKind int

const (
	opIngest opKind = iota
	opRetract
	opReset
)

type triggerOp struct {
	kind opKind
	task model.Task
	ids  []uint
}

// TriggerScheduler keeps the live set of weekly triggers and fires each at
// most once per matching minute.
//
// Producers (task creation and deletion) only append to a pending queue; the
// queue is drained at the start of every Tick, so the trigger table itself is
// touched by the tick path alone.
type TriggerScheduler struct {
	lead   time.Duration
	loc    *time.Location
	notify NotifyFunc
	log    zerolog.Logger

	mu      sync.Mutex
	pending []triggerOp

	tickMu    sync.Mutex
	triggers  map[TriggerID]Trigger
	byTask    map[uint][]TriggerID
	lastFired map[TriggerID]time.Time
}

func NewTriggerScheduler(lead time.Duration, loc *time.Location, notify NotifyFunc, log zerolog.Logger) *TriggerScheduler {
	if loc == nil {
		loc = time.Local
	}
	return &TriggerScheduler{
		lead:      lead,
		loc:       loc,
		notify:    notify,
		log:       log,
		triggers:  make(map[TriggerID]Trigger),
		byTask:    make(map[uint][]TriggerID),
		lastFired: make(map[TriggerID]time.Time),
	}
}

// Ingest queues a task so its triggers replace any earlier ones for the same id.
func (s *TriggerScheduler) Ingest(task model.Task) {
	s.enqueue(triggerOp{kind: opIngest, task: task})
}

// Retract queues removal of every trigger derived from the given tasks.
func (s *TriggerScheduler) Retract(taskIDs ...uint) {
	if len(taskIDs) == 0 {
		return
	}
	ids := append([]uint(nil), taskIDs...)
	s.enqueue(triggerOp{kind: opRetract, ids: ids})
}

// Reset queues removal of all triggers.
func (s *TriggerScheduler) Reset() {
	s.enqueue(triggerOp{kind: opReset})
}

func (s *TriggerScheduler) enqueue(op triggerOp) {
	s.mu.Lock()
	s.pending = append(s.pending, op)
	s.mu.Unlock()
}

// Pending returns the number of queued, not yet applied operations.
func (s *TriggerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Tick applies queued operations and fires every trigger due in the minute
// of now. It returns the number of triggers fired.
func (s *TriggerScheduler) Tick(now time.Time) int {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	s.drainLocked()

	now = now.In(s.loc)
	minute := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), 0, 0, s.loc)

	var due []Trigger
	for id, t := range s.triggers {
		if !t.Matches(minute) {
			continue
		}
		if last, ok := s.lastFired[id]; ok && last.Equal(minute) {
			continue
		}
		s.lastFired[id] = minute
		due = append(due, t)
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].TaskID != due[j].TaskID {
			return due[i].TaskID < due[j].TaskID
		}
		return due[i].Kind.order() < due[j].Kind.order()
	})

	for _, t := range due {
		s.fire(t)
	}
	return len(due)
}

// Triggers returns a snapshot of the live table, applying queued operations first.
func (s *TriggerScheduler) Triggers() []Trigger {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	s.drainLocked()

	out := make([]Trigger, 0, len(s.triggers))
	for _, t := range s.triggers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.TaskID != b.TaskID {
			return a.TaskID < b.TaskID
		}
		if a.Weekday != b.Weekday {
			return a.Weekday < b.Weekday
		}
		return a.Kind.order() < b.Kind.order()
	})
	return out
}

func (s *TriggerScheduler) fire(t Trigger) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Uint("task_id", t.TaskID).Str("kind", string(t.Kind)).
				Msg("trigger callback panicked")
		}
	}()
	s.log.Debug().Uint("task_id", t.TaskID).Str("kind", string(t.Kind)).Int("weekday", t.Weekday).
		Str("at", t.At.String()).Msg("trigger fired")
	if s.notify != nil {
		s.notify(t)
	}
}

func (s *TriggerScheduler) drainLocked() {
	s.mu.Lock()
	ops := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, op := range ops {
		switch op.kind {
		case opIngest:
			s.applyIngest(op.task)
		case opRetract:
			for _, id := range op.ids {
				s.removeTask(id, nil)
			}
		case opReset:
			s.triggers = make(map[TriggerID]Trigger)
			s.byTask = make(map[uint][]TriggerID)
			s.lastFired = make(map[TriggerID]time.Time)
		}
	}
}

func (s *TriggerScheduler) applyIngest(task model.Task) {
	triggers, err := DeriveTriggers(task, s.lead, s.loc)
	if err != nil {
		s.log.Warn().Err(err).Uint("task_id", task.ID).Msg("dropped malformed triggers")
	}

	keep := make(map[TriggerID]struct{}, len(triggers))
	for _, t := range triggers {
		keep[t.ID()] = struct{}{}
	}
	s.removeTask(task.ID, keep)

	ids := make([]TriggerID, 0, len(triggers))
	for _, t := range triggers {
		s.triggers[t.ID()] = t
		ids = append(ids, t.ID())
	}
	if len(ids) > 0 {
		s.byTask[task.ID] = ids
	}
	s.log.Debug().Uint("task_id", task.ID).Int("triggers", len(ids)).Msg("task ingested")
}

// removeTask drops a task's triggers. Fired-minute bookkeeping survives for
// ids in keep so re-ingesting a task does not re-fire within the same minute.
func (s *TriggerScheduler) removeTask(taskID uint, keep map[TriggerID]struct{}) {
	for _, id := range s.byTask[taskID] {
		delete(s.triggers, id)
		if _, ok := keep[id]; !ok {
			delete(s.lastFired, id)
		}
	}
	delete(s.byTask, taskID)
}
