// Package repo holds the in-memory collections that are the source of
// truth for tasks and the notification log. Every mutation persists the
// full collection as a JSON snapshot in the key-value store.
package repo

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/taskdash/internal/model"
	"github.com/nhle/taskdash/internal/store"
)

// tasksKey is the kv key holding the full task collection.
const tasksKey = "tasks"

// TaskPatch holds optional field updates for UpdateTask. Nil fields are
// left unchanged.
type TaskPatch struct {
	Name     *string
	Priority *int
	Deadline *time.Time
	Status   *string
}

// Tasks is the task repository. It owns the ordered task collection,
// loaded once at construction and persisted on every mutation. Reads
// from the watcher goroutine and writes from the UI share the mutex.
type Tasks struct {
	kv    *store.KVStore
	mu    sync.Mutex
	tasks []model.Task
}

// NewTasks loads the task collection from the store. A missing or
// corrupt snapshot degrades to an empty collection.
func NewTasks(ctx context.Context, kv *store.KVStore) *Tasks {
	r := &Tasks{kv: kv}
	var tasks []model.Task
	if ok, err := kv.Get(ctx, tasksKey, &tasks); err == nil && ok {
		r.tasks = tasks
	}
	return r
}

// AddTask validates and appends a new task. The task gets a fresh id,
// AssignTime of now, and status "To Do".
func (r *Tasks) AddTask(
	ctx context.Context,
	name string,
	priority int,
	deadline time.Time,
) (model.Task, error) {
	if strings.TrimSpace(name) == "" {
		return model.Task{}, fmt.Errorf("task name must not be empty")
	}
	if deadline.IsZero() {
		return model.Task{}, fmt.Errorf("task deadline must be a valid timestamp")
	}
	if priority < model.PriorityHigh || priority > model.PriorityLow {
		priority = model.PriorityMedium
	}

	task := model.Task{
		ID:         uuid.New().String(),
		Name:       name,
		Priority:   priority,
		AssignTime: time.Now(),
		Deadline:   deadline,
		Status:     model.StatusTodo,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks = append(r.tasks, task)
	if err := r.persistLocked(ctx); err != nil {
		r.tasks = r.tasks[:len(r.tasks)-1]
		return model.Task{}, err
	}
	return task, nil
}

// UpdateTask merges the patch into the task matching id. An unknown id
// is a silent no-op: ids are never user-typed, so a miss means the task
// was deleted underneath a stale view and there is nothing to fix.
func (r *Tasks) UpdateTask(ctx context.Context, id string, patch TaskPatch) error {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return fmt.Errorf("task name must not be empty")
	}
	if patch.Status != nil && !model.ValidStatus(*patch.Status) {
		return fmt.Errorf("invalid task status %q", *patch.Status)
	}
	if patch.Deadline != nil && patch.Deadline.IsZero() {
		return fmt.Errorf("task deadline must be a valid timestamp")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.tasks {
		if r.tasks[i].ID != id {
			continue
		}
		if patch.Name != nil {
			r.tasks[i].Name = *patch.Name
		}
		if patch.Priority != nil {
			p := *patch.Priority
			if p < model.PriorityHigh || p > model.PriorityLow {
				p = model.PriorityMedium
			}
			r.tasks[i].Priority = p
		}
		if patch.Deadline != nil {
			r.tasks[i].Deadline = *patch.Deadline
		}
		if patch.Status != nil {
			r.tasks[i].Status = *patch.Status
		}
		return r.persistLocked(ctx)
	}
	return nil
}

// DeleteTask removes the task matching id. Unknown ids are a no-op.
func (r *Tasks) DeleteTask(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.tasks {
		if r.tasks[i].ID == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return r.persistLocked(ctx)
		}
	}
	return nil
}

// ListTasks returns a copy of the collection in insertion order.
func (r *Tasks) ListTasks() []model.Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Task, len(r.tasks))
	copy(out, r.tasks)
	return out
}

// GetTask returns the task matching id, if present.
func (r *Tasks) GetTask(id string) (model.Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// CountByStatus returns the number of tasks per status.
func (r *Tasks) CountByStatus() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[string]int, len(model.Statuses))
	for _, t := range r.tasks {
		counts[t.Status]++
	}
	return counts
}

// persistLocked writes the full collection snapshot. Callers must hold mu.
func (r *Tasks) persistLocked(ctx context.Context) error {
	if err := r.kv.Set(ctx, tasksKey, r.tasks); err != nil {
		return fmt.Errorf("persisting tasks: %w", err)
	}
	return nil
}
