package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"weekly-planner/internal/model"
)

// ErrInvalidTrigger marks a trigger whose weekday or time is out of range.
var ErrInvalidTrigger = errors.New("invalid trigger")

// TriggerKind says which moment of a task a trigger announces.
type TriggerKind string

const (
	TriggerReminder TriggerKind = "reminder"
	TriggerStart    TriggerKind = "start"
	TriggerEnd      TriggerKind = "end"
)

func (k TriggerKind) order() int {
	switch k {
	case TriggerReminder:
		return 0
	case TriggerStart:
		return 1
	default:
		return 2
	}
}

// TriggerID identifies a trigger. Deleting a task removes every id carrying its TaskID.
type TriggerID struct {
	TaskID  uint
	Weekday int
	Kind    TriggerKind
}

// Trigger is a weekly firing rule derived from a task.
type Trigger struct {
	TaskID   uint
	TaskName string
	Weekday  int
	At       model.Clock
	Kind     TriggerKind

	rule cron.Schedule
}

func (t Trigger) ID() TriggerID {
	return TriggerID{TaskID: t.TaskID, Weekday: t.Weekday, Kind: t.Kind}
}

// Matches reports whether the trigger is due in the minute starting at minute.
func (t Trigger) Matches(minute time.Time) bool {
	if t.rule == nil {
		return false
	}
	return t.rule.Next(minute.Add(-time.Second)).Equal(minute)
}

// DeriveTriggers expands a task into reminder, start and end triggers for
// every weekday. Out-of-range entries are skipped and reported in the
// returned error; the valid triggers are still returned.
func DeriveTriggers(task model.Task, lead time.Duration, loc *time.Location) ([]Trigger, error) {
	if loc == nil {
		loc = time.Local
	}
	leadMinutes := int(lead / time.Minute)
	reminderAt, shift := task.StartTime.AddMinutes(-leadMinutes)

	triggers := make([]Trigger, 0, len(task.Weekdays)*3)
	var errs []error
	for _, day := range task.Weekdays {
		if !model.ValidWeekday(day) {
			errs = append(errs, fmt.Errorf("%w: task %d weekday %d", ErrInvalidTrigger, task.ID, day))
			continue
		}
		candidates := []Trigger{
			{Weekday: wrapWeekday(day + shift), At: reminderAt, Kind: TriggerReminder},
			{Weekday: day, At: task.StartTime, Kind: TriggerStart},
			{Weekday: day, At: task.EndTime, Kind: TriggerEnd},
		}
		for _, t := range candidates {
			t.TaskID = task.ID
			t.TaskName = task.Name
			rule, err := weeklyRule(t.Weekday, t.At, loc)
			if err != nil {
				errs = append(errs, fmt.Errorf("task %d %s: %w", task.ID, t.Kind, err))
				continue
			}
			t.rule = rule
			triggers = append(triggers, t)
		}
	}
	return triggers, errors.Join(errs...)
}

// weeklyRule builds a standard cron rule firing once a week at the given
// weekday and time in loc. Weekday 0 is Monday, while cron counts from Sunday.
func weeklyRule(weekday int, at model.Clock, loc *time.Location) (cron.Schedule, error) {
	if !model.ValidWeekday(weekday) || !at.Valid() {
		return nil, fmt.Errorf("%w: weekday %d at %d:%d", ErrInvalidTrigger, weekday, at.Hour, at.Minute)
	}
	spec := fmt.Sprintf("%d %d * * %d", at.Minute, at.Hour, (weekday+1)%model.DaysInWeek)
	rule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTrigger, err)
	}
	if weekly, ok := rule.(*cron.SpecSchedule); ok && loc != nil {
		weekly.Location = loc
	}
	return rule, nil
}

func wrapWeekday(day int) int {
	return ((day % model.DaysInWeek) + model.DaysInWeek) % model.DaysInWeek
}
