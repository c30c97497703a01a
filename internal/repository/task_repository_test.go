package repository

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"weekly-planner/internal/model"
)

func newTestRepo(t *testing.T) *TaskRepository {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "nested", "tasks.db"), zerolog.New(io.Discard))
	if err != nil {
		t.Fatalf("NewDB error: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewTaskRepository(db)
}

func mustCreate(t *testing.T, repo *TaskRepository, name string, days model.Weekdays, start, end string) model.Task {
	t.Helper()
	s, err := model.ParseClock(start)
	if err != nil {
		t.Fatalf("ParseClock: %v", err)
	}
	e, err := model.ParseClock(end)
	if err != nil {
		t.Fatalf("ParseClock: %v", err)
	}
	task := model.Task{Name: name, Weekdays: days, StartTime: s, EndTime: e}
	if err := repo.Create(context.Background(), &task); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	return task
}

func TestTaskRepositoryCreateAndFind(t *testing.T) {
	repo := newTestRepo(t)
	created := mustCreate(t, repo, "Math", model.Weekdays{2, 0}, "10:00", "11:30")
	if created.ID == 0 {
		t.Fatal("expected id to be assigned")
	}

	got, err := repo.FindByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("FindByID error: %v", err)
	}
	if got.Name != "Math" || got.Weekdays.String() != "0,2" {
		t.Fatalf("unexpected task: %+v", got)
	}
	if got.StartTime != (model.Clock{Hour: 10}) || got.EndTime != (model.Clock{Hour: 11, Minute: 30}) {
		t.Fatalf("unexpected times: %v - %v", got.StartTime, got.EndTime)
	}
}

func TestTaskRepositoryListByWeekday(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	mustCreate(t, repo, "Late", model.Weekdays{0}, "18:00", "19:00")
	mustCreate(t, repo, "Early", model.Weekdays{0, 3}, "08:00", "09:00")
	mustCreate(t, repo, "Sunday", model.Weekdays{6}, "12:00", "13:00")

	monday, err := repo.ListByWeekday(ctx, model.Monday)
	if err != nil {
		t.Fatalf("ListByWeekday error: %v", err)
	}
	if len(monday) != 2 || monday[0].Name != "Early" || monday[1].Name != "Late" {
		t.Fatalf("unexpected monday tasks: %+v", monday)
	}

	tuesday, err := repo.ListByWeekday(ctx, model.Tuesday)
	if err != nil {
		t.Fatalf("ListByWeekday error: %v", err)
	}
	if len(tuesday) != 0 {
		t.Fatalf("expected empty tuesday, got %+v", tuesday)
	}

	all, err := repo.ListByWeekday(ctx, AllWeekdays)
	if err != nil {
		t.Fatalf("ListByWeekday error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(all))
	}

	if _, err := repo.ListByWeekday(ctx, 9); !errors.Is(err, model.ErrInvalidWeekday) {
		t.Fatalf("expected ErrInvalidWeekday, got %v", err)
	}
}

func TestTaskRepositoryDeleteMany(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	var ids []uint
	for _, name := range []string{"a", "b", "c", "d"} {
		ids = append(ids, mustCreate(t, repo, name, model.Weekdays{1}, "09:00", "10:00").ID)
	}

	if err := repo.DeleteMany(ctx, []uint{ids[1], ids[2], 999}); err != nil {
		t.Fatalf("DeleteMany error: %v", err)
	}
	left, err := repo.ListByWeekday(ctx, AllWeekdays)
	if err != nil {
		t.Fatalf("ListByWeekday error: %v", err)
	}
	if len(left) != 2 || left[0].ID != ids[0] || left[1].ID != ids[3] {
		t.Fatalf("unexpected remaining tasks: %+v", left)
	}
	if _, err := repo.FindByID(ctx, ids[1]); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestTaskRepositoryDeleteAll(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	mustCreate(t, repo, "a", model.Weekdays{1}, "09:00", "10:00")
	mustCreate(t, repo, "b", model.Weekdays{2}, "09:00", "10:00")

	if err := repo.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll error: %v", err)
	}
	all, err := repo.ListByWeekday(ctx, AllWeekdays)
	if err != nil {
		t.Fatalf("ListByWeekday error: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty table, got %d", len(all))
	}
}
