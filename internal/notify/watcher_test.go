package notify_test

import (
	"context"
	"testing"
	"time"

	"github.com/nhle/taskdash/internal/model"
	"github.com/nhle/taskdash/internal/notify"
	"github.com/nhle/taskdash/internal/repo"
	"github.com/nhle/taskdash/tests/testutil"
)

type fixture struct {
	tasks   *repo.Tasks
	log     *repo.NotificationLog
	watcher *notify.Watcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	kv := testutil.NewTestKV(t)
	ctx := context.Background()
	tasks := repo.NewTasks(ctx, kv)
	log := repo.NewNotificationLog(ctx, kv)
	return &fixture{
		tasks:   tasks,
		log:     log,
		watcher: notify.New(tasks, log, time.Minute),
	}
}

func TestCheckNowDueToday(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2026, time.August, 31, 14, 30, 0, 0, time.Local)

	// Due at the very start of today still counts as due today.
	deadline := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.Local)
	task, err := f.tasks.AddTask(ctx, "file taxes", model.PriorityHigh, deadline)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	emitted := f.watcher.CheckNow(ctx, now)
	if len(emitted) != 1 {
		t.Fatalf("got %d notifications, want 1", len(emitted))
	}
	n := emitted[0]
	if n.Type != model.NotificationDueToday {
		t.Errorf("got type %q, want %q", n.Type, model.NotificationDueToday)
	}
	if n.Message != "Task is due today: file taxes" {
		t.Errorf("got message %q", n.Message)
	}
	if want := task.ID + "-2026-08-31"; n.NotificationKey != want {
		t.Errorf("got key %q, want %q", n.NotificationKey, want)
	}
}

func TestCheckNowPastDeadline(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2026, time.August, 31, 9, 0, 0, 0, time.Local)

	yesterday := time.Date(2026, time.August, 30, 17, 0, 0, 0, time.Local)
	task, err := f.tasks.AddTask(ctx, "pay invoice", model.PriorityHigh, yesterday)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	emitted := f.watcher.CheckNow(ctx, now)
	if len(emitted) != 1 {
		t.Fatalf("got %d notifications, want 1", len(emitted))
	}
	n := emitted[0]
	if n.Type != model.NotificationPastDeadline {
		t.Errorf("got type %q, want %q", n.Type, model.NotificationPastDeadline)
	}
	if n.Message != "Task is past deadline: pay invoice" {
		t.Errorf("got message %q", n.Message)
	}
	// The key is anchored to the deadline's day, not today.
	if want := task.ID + "-2026-08-30"; n.NotificationKey != want {
		t.Errorf("got key %q, want %q", n.NotificationKey, want)
	}
}

func TestCheckNowSecondPassIsSilent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2026, time.August, 31, 9, 0, 0, 0, time.Local)

	f.tasks.AddTask(ctx, "overdue", model.PriorityMedium,
		time.Date(2026, time.August, 29, 12, 0, 0, 0, time.Local))

	if got := len(f.watcher.CheckNow(ctx, now)); got != 1 {
		t.Fatalf("first pass: got %d, want 1", got)
	}
	if got := len(f.watcher.CheckNow(ctx, now)); got != 0 {
		t.Errorf("second pass: got %d, want 0", got)
	}
	// Even a day later the same deadline stays deduplicated.
	if got := len(f.watcher.CheckNow(ctx, now.Add(24*time.Hour))); got != 0 {
		t.Errorf("next-day pass: got %d, want 0", got)
	}
	if f.log.Len() != 1 {
		t.Errorf("log has %d entries, want 1", f.log.Len())
	}
}

func TestCheckNowFutureDeadlineIsQuiet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2026, time.August, 31, 9, 0, 0, 0, time.Local)

	f.tasks.AddTask(ctx, "next week", model.PriorityLow,
		time.Date(2026, time.September, 7, 12, 0, 0, 0, time.Local))

	if got := len(f.watcher.CheckNow(ctx, now)); got != 0 {
		t.Errorf("got %d notifications, want 0", got)
	}
}

func TestCheckNowSkipsCompletedTasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2026, time.August, 31, 9, 0, 0, 0, time.Local)

	task, _ := f.tasks.AddTask(ctx, "done already", model.PriorityMedium,
		time.Date(2026, time.August, 30, 12, 0, 0, 0, time.Local))
	done := model.StatusCompleted
	if err := f.tasks.UpdateTask(ctx, task.ID, repo.TaskPatch{Status: &done}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}

	if got := len(f.watcher.CheckNow(ctx, now)); got != 0 {
		t.Errorf("completed task produced %d notifications", got)
	}
}

func TestCheckNowDeadlineChangeProducesNewKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2026, time.August, 31, 9, 0, 0, 0, time.Local)

	task, _ := f.tasks.AddTask(ctx, "slipping", model.PriorityHigh,
		time.Date(2026, time.August, 30, 12, 0, 0, 0, time.Local))

	if got := len(f.watcher.CheckNow(ctx, now)); got != 1 {
		t.Fatalf("first pass: got %d, want 1", got)
	}

	// Pushing the deadline out resets nothing until that day arrives.
	newDeadline := time.Date(2026, time.September, 2, 12, 0, 0, 0, time.Local)
	f.tasks.UpdateTask(ctx, task.ID, repo.TaskPatch{Deadline: &newDeadline})
	if got := len(f.watcher.CheckNow(ctx, now)); got != 0 {
		t.Fatalf("after reschedule: got %d, want 0", got)
	}

	// Once the new deadline day is reached, a fresh key fires.
	later := time.Date(2026, time.September, 2, 8, 0, 0, 0, time.Local)
	emitted := f.watcher.CheckNow(ctx, later)
	if len(emitted) != 1 {
		t.Fatalf("on new deadline day: got %d, want 1", len(emitted))
	}
	if want := task.ID + "-2026-09-02"; emitted[0].NotificationKey != want {
		t.Errorf("got key %q, want %q", emitted[0].NotificationKey, want)
	}
	if f.log.Len() != 2 {
		t.Errorf("log has %d entries, want 2", f.log.Len())
	}
}

func TestCheckNowDeletedTaskKeepsLogEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2026, time.August, 31, 9, 0, 0, 0, time.Local)

	task, _ := f.tasks.AddTask(ctx, "fleeting", model.PriorityMedium,
		time.Date(2026, time.August, 30, 12, 0, 0, 0, time.Local))

	f.watcher.CheckNow(ctx, now)
	f.tasks.DeleteTask(ctx, task.ID)

	if got := len(f.watcher.CheckNow(ctx, now)); got != 0 {
		t.Errorf("deleted task produced %d notifications", got)
	}
	if f.log.Len() != 1 {
		t.Errorf("log entry for deleted task was lost: len=%d", f.log.Len())
	}
}

func TestKeyFormat(t *testing.T) {
	deadline := time.Date(2026, time.August, 31, 23, 59, 59, 0, time.Local)
	if got, want := notify.Key("abc", deadline), "abc-2026-08-31"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// Same day, different time of day: same key.
	morning := time.Date(2026, time.August, 31, 0, 0, 1, 0, time.Local)
	if notify.Key("abc", deadline) != notify.Key("abc", morning) {
		t.Error("keys differ within the same day")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	f := newFixture(t)

	cmd := f.watcher.Start()
	if cmd == nil {
		t.Fatal("Start returned nil subscription")
	}

	f.watcher.Stop()
	f.watcher.Stop()
}
