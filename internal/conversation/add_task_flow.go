package conversation

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"weekly-planner/internal/model"
)

// Steps of AddTaskFlow.
const (
	addStepStart = iota
	addStepName
	addStepWeekdays
	addStepStartTime
	addStepEndTime
)

// AddTaskFlow collects name, weekdays, start and end time, then stores the task.
type AddTaskFlow struct {
	flowDeps
}

func (f *AddTaskFlow) Advance(ctx context.Context, s *Session, msg Message) (bool, error) {
	text := strings.TrimSpace(msg.Text)

	switch s.Step {
	case addStepStart:
		if err := f.showAnchor(ctx, s, textAskName, nil); err != nil {
			return false, err
		}
		s.Step = addStepName
	case addStepName:
		if text == "" {
			if err := f.showAnchor(ctx, s, textEmptyName, nil); err != nil {
				return false, err
			}
			break
		}
		s.Draft.Name = text
		picker := weekdayPicker(s.Draft.Weekdays)
		if err := f.showAnchor(ctx, s, textAskWeekdays, &picker); err != nil {
			return false, err
		}
		s.Step = addStepWeekdays
	case addStepWeekdays:
		if !strings.EqualFold(text, doneKeyword) {
			break
		}
		if len(s.Draft.Weekdays) == 0 {
			picker := weekdayPicker(s.Draft.Weekdays)
			if err := f.showAnchor(ctx, s, textNoWeekdays, &picker); err != nil {
				return false, err
			}
			break
		}
		if err := f.showAnchor(ctx, s, textAskStart, nil); err != nil {
			return false, err
		}
		s.Step = addStepStartTime
	case addStepStartTime:
		start, err := model.ParseClock(text)
		if err != nil {
			break
		}
		s.Draft.StartTime = start
		if err := f.showAnchor(ctx, s, textAskEnd, nil); err != nil {
			return false, err
		}
		s.Step = addStepEndTime
	case addStepEndTime:
		end, err := model.ParseClock(text)
		if err != nil {
			break
		}
		s.Draft.EndTime = end
		task := s.Draft
		if err := f.store.Create(ctx, &task); err != nil {
			return false, fmt.Errorf("save task: %w", err)
		}
		f.log.Info().Int64("chat_id", s.ChatID).Uint("task_id", task.ID).Msg("task added via chat")
		if err := f.showAnchor(ctx, s, fmt.Sprintf(textTaskAddedFmt, html.EscapeString(task.Name)), nil); err != nil {
			f.log.Warn().Err(err).Int64("chat_id", s.ChatID).Msg("confirm task added")
		}
		f.dropInput(ctx, msg)
		return true, nil
	}

	f.dropInput(ctx, msg)
	return false, nil
}

// HandleCallback toggles a weekday in the draft and redraws the picker.
func (f *AddTaskFlow) HandleCallback(ctx context.Context, s *Session, cb Callback) error {
	kind, value, ok := decodeCallback(cb.Data)
	if !ok || kind != cbDay || s.Step > addStepWeekdays || staleCallback(s, cb) {
		return nil
	}
	day, err := strconv.Atoi(value)
	if err != nil || !model.ValidWeekday(day) {
		return nil
	}
	s.Draft.Weekdays = s.Draft.Weekdays.Toggle(day)
	if s.Step != addStepWeekdays {
		return nil
	}
	return f.transport.EditMarkup(ctx, s.ChatID, s.AnchorID, weekdayPicker(s.Draft.Weekdays))
}
