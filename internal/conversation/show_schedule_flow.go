package conversation

import (
	"context"
	"fmt"
	"html"
	"strings"

	"weekly-planner/internal/model"
)

// ShowScheduleFlow is a paginated view of the tasks of one weekday. It never
// completes; the session's Step holds the selected weekday.
type ShowScheduleFlow struct {
	flowDeps
}

func (f *ShowScheduleFlow) Advance(ctx context.Context, s *Session, _ Message) (bool, error) {
	return false, f.render(ctx, s)
}

// HandleCallback pages to the previous or next weekday, wrapping around the week.
func (f *ShowScheduleFlow) HandleCallback(ctx context.Context, s *Session, cb Callback) error {
	kind, value, ok := decodeCallback(cb.Data)
	if !ok || kind != cbPage || staleCallback(s, cb) {
		return nil
	}
	switch value {
	case pagePrev:
		s.Step = (s.Step + model.DaysInWeek - 1) % model.DaysInWeek
	case pageNext:
		s.Step = (s.Step + 1) % model.DaysInWeek
	default:
		return nil
	}
	return f.render(ctx, s)
}

func (f *ShowScheduleFlow) render(ctx context.Context, s *Session) error {
	tasks, err := f.store.ListByWeekday(ctx, s.Step)
	if err != nil {
		return fmt.Errorf("list weekday %d: %w", s.Step, err)
	}
	pager := pagerKeyboard()
	return f.showAnchor(ctx, s, renderDay(s.Step, tasks), &pager)
}

func renderDay(day int, tasks []model.Task) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<b>~ %s ~</b>\n\n", weekdayNames[day]))
	if len(tasks) == 0 {
		b.WriteString(textEmptyDay)
		return b.String()
	}
	for _, task := range tasks {
		b.WriteString(fmt.Sprintf("<b>📌 %s</b>\n", html.EscapeString(task.Name)))
		b.WriteString(fmt.Sprintf("🆔 %d. ⏰ %s - %s\n\n", task.ID, task.StartTime, task.EndTime))
	}
	return strings.TrimSpace(b.String())
}
