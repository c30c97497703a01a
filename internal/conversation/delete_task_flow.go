package conversation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidIDs is returned when the id list contains a non-integer entry.
var ErrInvalidIDs = errors.New("invalid task id list")

const (
	deleteStepStart = iota
	deleteStepIDs
)

// DeleteTaskFlow asks for a comma-separated id list and deletes those tasks.
type DeleteTaskFlow struct {
	flowDeps
}

func (f *DeleteTaskFlow) Advance(ctx context.Context, s *Session, msg Message) (bool, error) {
	switch s.Step {
	case deleteStepStart:
		if err := f.showAnchor(ctx, s, textAskIDs, nil); err != nil {
			return false, err
		}
		s.Step = deleteStepIDs
	case deleteStepIDs:
		ids, err := parseIDs(msg.Text)
		if err != nil {
			// Nothing is deleted when any entry is bad.
			if err := f.showAnchor(ctx, s, textBadIDs, nil); err != nil {
				return false, err
			}
			break
		}
		if err := f.store.DeleteMany(ctx, ids); err != nil {
			return false, fmt.Errorf("delete tasks: %w", err)
		}
		f.log.Info().Int64("chat_id", s.ChatID).Interface("task_ids", ids).Msg("tasks deleted via chat")
		if err := f.showAnchor(ctx, s, textTasksDeleted, nil); err != nil {
			f.log.Warn().Err(err).Int64("chat_id", s.ChatID).Msg("confirm tasks deleted")
		}
		f.dropInput(ctx, msg)
		return true, nil
	}

	f.dropInput(ctx, msg)
	return false, nil
}

func (f *DeleteTaskFlow) HandleCallback(context.Context, *Session, Callback) error {
	return nil
}

// parseIDs parses "3, 5,7" into ids, dropping duplicates. Any bad entry fails the whole list.
func parseIDs(raw string) ([]uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidIDs
	}
	seen := make(map[uint]struct{})
	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidIDs, part)
		}
		if _, dup := seen[uint(id)]; dup {
			continue
		}
		seen[uint(id)] = struct{}{}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
