package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"weekly-planner/internal/model"
)

// AllWeekdays makes ListByWeekday return every task.
const AllWeekdays = -1

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// ListByWeekday returns tasks scheduled on day ordered by start time, or all
// tasks when day is AllWeekdays.
func (r *TaskRepository) ListByWeekday(ctx context.Context, day int) ([]model.Task, error) {
	var tasks []model.Task
	query := r.db.WithContext(ctx).Order("start_time ASC, id ASC")
	if day != AllWeekdays {
		if !model.ValidWeekday(day) {
			return nil, fmt.Errorf("list tasks: %w: %d", model.ErrInvalidWeekday, day)
		}
		// Weekdays are single digits, so a substring match is exact.
		query = query.Where("weekdays LIKE ?", fmt.Sprintf("%%%d%%", day))
	}
	if err := query.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, taskID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).First(&task, taskID).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteMany removes all listed tasks in one transaction. Unknown ids are ignored.
func (r *TaskRepository) DeleteMany(ctx context.Context, taskIDs []uint) error {
	if len(taskIDs) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Where("id IN ?", taskIDs).Delete(&model.Task{}).Error
	})
	if err != nil {
		return fmt.Errorf("delete tasks: %w", err)
	}
	return nil
}

// DeleteAll wipes the task table.
func (r *TaskRepository) DeleteAll(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.Task{}).Error; err != nil {
		return fmt.Errorf("delete all tasks: %w", err)
	}
	return nil
}
