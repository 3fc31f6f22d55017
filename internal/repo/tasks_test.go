package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/nhle/taskdash/internal/model"
	"github.com/nhle/taskdash/internal/repo"
	"github.com/nhle/taskdash/tests/testutil"
)

func newTaskRepo(t *testing.T) *repo.Tasks {
	t.Helper()
	return repo.NewTasks(context.Background(), testutil.NewTestKV(t))
}

func TestAddTask(t *testing.T) {
	r := newTaskRepo(t)
	ctx := context.Background()
	deadline := time.Now().Add(48 * time.Hour)

	before := time.Now()
	task, err := r.AddTask(ctx, "write report", model.PriorityHigh, deadline)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	if task.ID == "" {
		t.Error("expected a generated id")
	}
	if task.Status != model.StatusTodo {
		t.Errorf("got status %q, want %q", task.Status, model.StatusTodo)
	}
	if task.AssignTime.Before(before) {
		t.Errorf("AssignTime %v is before the call at %v", task.AssignTime, before)
	}
	if !task.Deadline.Equal(deadline) {
		t.Errorf("got deadline %v, want %v", task.Deadline, deadline)
	}
}

func TestAddTaskAssignsFreshIDs(t *testing.T) {
	r := newTaskRepo(t)
	ctx := context.Background()
	deadline := time.Now().Add(time.Hour)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		task, err := r.AddTask(ctx, "task", model.PriorityMedium, deadline)
		if err != nil {
			t.Fatalf("AddTask #%d: %v", i, err)
		}
		if seen[task.ID] {
			t.Fatalf("duplicate id %s", task.ID)
		}
		seen[task.ID] = true
	}
}

func TestAddTaskValidation(t *testing.T) {
	r := newTaskRepo(t)
	ctx := context.Background()

	if _, err := r.AddTask(ctx, "", model.PriorityHigh, time.Now()); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := r.AddTask(ctx, "   ", model.PriorityHigh, time.Now()); err == nil {
		t.Error("expected error for blank name")
	}
	if _, err := r.AddTask(ctx, "no deadline", model.PriorityHigh, time.Time{}); err == nil {
		t.Error("expected error for zero deadline")
	}

	// Rejected tasks must not leave partial state behind.
	if got := len(r.ListTasks()); got != 0 {
		t.Errorf("got %d tasks after rejected adds, want 0", got)
	}
}

func TestAddTaskClampsPriority(t *testing.T) {
	r := newTaskRepo(t)

	task, err := r.AddTask(context.Background(), "odd priority", 9, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if task.Priority != model.PriorityMedium {
		t.Errorf("got priority %d, want %d", task.Priority, model.PriorityMedium)
	}
}

func TestUpdateTaskMergesPatch(t *testing.T) {
	r := newTaskRepo(t)
	ctx := context.Background()

	task, err := r.AddTask(ctx, "original", model.PriorityLow, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	status := model.StatusInReview
	newDeadline := time.Now().Add(72 * time.Hour)
	err = r.UpdateTask(ctx, task.ID, repo.TaskPatch{
		Status:   &status,
		Deadline: &newDeadline,
	})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}

	got, ok := r.GetTask(task.ID)
	if !ok {
		t.Fatal("task vanished")
	}
	if got.Status != model.StatusInReview {
		t.Errorf("got status %q, want %q", got.Status, model.StatusInReview)
	}
	if !got.Deadline.Equal(newDeadline) {
		t.Errorf("got deadline %v, want %v", got.Deadline, newDeadline)
	}
	// Untouched fields survive the merge.
	if got.Name != "original" {
		t.Errorf("name changed to %q", got.Name)
	}
	if got.Priority != model.PriorityLow {
		t.Errorf("priority changed to %d", got.Priority)
	}
}

func TestUpdateTaskUnknownIDIsSilentNoOp(t *testing.T) {
	r := newTaskRepo(t)
	ctx := context.Background()

	name := "ghost"
	if err := r.UpdateTask(ctx, "no-such-id", repo.TaskPatch{Name: &name}); err != nil {
		t.Fatalf("expected silent no-op, got: %v", err)
	}
	if got := len(r.ListTasks()); got != 0 {
		t.Errorf("got %d tasks, want 0", got)
	}
}

func TestUpdateTaskRejectsInvalidFields(t *testing.T) {
	r := newTaskRepo(t)
	ctx := context.Background()

	task, _ := r.AddTask(ctx, "task", model.PriorityMedium, time.Now().Add(time.Hour))

	empty := ""
	if err := r.UpdateTask(ctx, task.ID, repo.TaskPatch{Name: &empty}); err == nil {
		t.Error("expected error for empty name patch")
	}

	bogus := "archived"
	if err := r.UpdateTask(ctx, task.ID, repo.TaskPatch{Status: &bogus}); err == nil {
		t.Error("expected error for invalid status patch")
	}

	got, _ := r.GetTask(task.ID)
	if got.Name != "task" || got.Status != model.StatusTodo {
		t.Errorf("rejected patch mutated the task: %+v", got)
	}
}

func TestDeleteTask(t *testing.T) {
	r := newTaskRepo(t)
	ctx := context.Background()

	task, _ := r.AddTask(ctx, "doomed", model.PriorityMedium, time.Now().Add(time.Hour))

	if err := r.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if _, ok := r.GetTask(task.ID); ok {
		t.Error("task still present after delete")
	}

	// Deleting again is a no-op.
	if err := r.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestListTasksInsertionOrder(t *testing.T) {
	r := newTaskRepo(t)
	ctx := context.Background()
	deadline := time.Now().Add(time.Hour)

	names := []string{"first", "second", "third"}
	for _, n := range names {
		if _, err := r.AddTask(ctx, n, model.PriorityMedium, deadline); err != nil {
			t.Fatalf("AddTask %s: %v", n, err)
		}
	}

	tasks := r.ListTasks()
	if len(tasks) != len(names) {
		t.Fatalf("got %d tasks, want %d", len(tasks), len(names))
	}
	for i, n := range names {
		if tasks[i].Name != n {
			t.Errorf("position %d: got %q, want %q", i, tasks[i].Name, n)
		}
	}
}

func TestTasksSurviveReload(t *testing.T) {
	kv := testutil.NewTestKV(t)
	ctx := context.Background()

	r := repo.NewTasks(ctx, kv)
	task, err := r.AddTask(ctx, "durable", model.PriorityHigh, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	reloaded := repo.NewTasks(ctx, kv)
	got, ok := reloaded.GetTask(task.ID)
	if !ok {
		t.Fatal("task missing after reload")
	}
	if got.Name != "durable" || got.Status != model.StatusTodo {
		t.Errorf("reloaded task mismatch: %+v", got)
	}
}

func TestCountByStatus(t *testing.T) {
	r := newTaskRepo(t)
	ctx := context.Background()
	deadline := time.Now().Add(time.Hour)

	a, _ := r.AddTask(ctx, "a", model.PriorityMedium, deadline)
	r.AddTask(ctx, "b", model.PriorityMedium, deadline)

	done := model.StatusCompleted
	r.UpdateTask(ctx, a.ID, repo.TaskPatch{Status: &done})

	counts := r.CountByStatus()
	if counts[model.StatusCompleted] != 1 {
		t.Errorf("got %d completed, want 1", counts[model.StatusCompleted])
	}
	if counts[model.StatusTodo] != 1 {
		t.Errorf("got %d to do, want 1", counts[model.StatusTodo])
	}
}
