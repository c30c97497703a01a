package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"weekly-planner/internal/model"
	"weekly-planner/internal/repository"
)

// ErrIncompleteTask is returned when a task misses its name, weekdays or times.
var ErrIncompleteTask = errors.New("incomplete task")

// TriggerSink receives task lifecycle changes. TriggerScheduler implements it.
type TriggerSink interface {
	Ingest(task model.Task)
	Retract(taskIDs ...uint)
	Reset()
}

// TaskService wraps the task store and keeps the trigger table in step with it.
type TaskService struct {
	taskRepo *repository.TaskRepository
	triggers TriggerSink
	log      zerolog.Logger
}

func NewTaskService(taskRepo *repository.TaskRepository, triggers TriggerSink, log zerolog.Logger) *TaskService {
	return &TaskService{taskRepo: taskRepo, triggers: triggers, log: log}
}

// Create stores the task, assigning its id, and hands it to the scheduler.
func (s *TaskService) Create(ctx context.Context, task *model.Task) error {
	if !task.Ready() {
		return ErrIncompleteTask
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return err
	}
	s.triggers.Ingest(*task)
	s.log.Info().Uint("task_id", task.ID).Str("weekdays", task.Weekdays.String()).
		Str("start", task.StartTime.String()).Str("end", task.EndTime.String()).Msg("task created")
	return nil
}

// DeleteMany removes the tasks and retracts their triggers.
func (s *TaskService) DeleteMany(ctx context.Context, taskIDs []uint) error {
	if err := s.taskRepo.DeleteMany(ctx, taskIDs); err != nil {
		return err
	}
	s.triggers.Retract(taskIDs...)
	s.log.Info().Interface("task_ids", taskIDs).Msg("tasks deleted")
	return nil
}

// DeleteAll wipes every task and trigger.
func (s *TaskService) DeleteAll(ctx context.Context) error {
	if err := s.taskRepo.DeleteAll(ctx); err != nil {
		return err
	}
	s.triggers.Reset()
	s.log.Info().Msg("all tasks deleted")
	return nil
}

// ListByWeekday lists tasks on day, or all tasks for repository.AllWeekdays.
func (s *TaskService) ListByWeekday(ctx context.Context, day int) ([]model.Task, error) {
	return s.taskRepo.ListByWeekday(ctx, day)
}

// LoadTriggers re-derives triggers for every stored task. Used on startup.
func (s *TaskService) LoadTriggers(ctx context.Context) (int, error) {
	tasks, err := s.taskRepo.ListByWeekday(ctx, repository.AllWeekdays)
	if err != nil {
		return 0, fmt.Errorf("load triggers: %w", err)
	}
	for _, task := range tasks {
		s.triggers.Ingest(task)
	}
	return len(tasks), nil
}
