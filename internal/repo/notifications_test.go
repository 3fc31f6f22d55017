package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/nhle/taskdash/internal/model"
	"github.com/nhle/taskdash/internal/repo"
	"github.com/nhle/taskdash/tests/testutil"
)

func newNotifLog(t *testing.T) *repo.NotificationLog {
	t.Helper()
	return repo.NewNotificationLog(context.Background(), testutil.NewTestKV(t))
}

func notif(key, taskID string, ts time.Time) model.Notification {
	return model.Notification{
		NotificationKey: key,
		TaskID:          taskID,
		TaskName:        "task " + taskID,
		Type:            model.NotificationDueToday,
		Message:         "Task is due today: task " + taskID,
		Timestamp:       ts,
	}
}

func TestAppendAssignsID(t *testing.T) {
	l := newNotifLog(t)

	added, err := l.Append(context.Background(), notif("t1-2026-08-31", "t1", time.Now()))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if !added {
		t.Fatal("expected added=true")
	}

	entries := l.List()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].ID == "" {
		t.Error("expected a generated id")
	}
}

func TestAppendDeduplicatesByKey(t *testing.T) {
	l := newNotifLog(t)
	ctx := context.Background()

	first := notif("t1-2026-08-31", "t1", time.Now())
	if added, _ := l.Append(ctx, first); !added {
		t.Fatal("first append rejected")
	}

	// Same key, different timestamp: must be dropped.
	dup := notif("t1-2026-08-31", "t1", time.Now().Add(time.Hour))
	added, err := l.Append(ctx, dup)
	if err != nil {
		t.Fatalf("Append duplicate: %v", err)
	}
	if added {
		t.Error("duplicate key was accepted")
	}
	if l.Len() != 1 {
		t.Errorf("got %d entries, want 1", l.Len())
	}

	// A different key for the same task is a separate notification.
	if added, _ := l.Append(ctx, notif("t1-2026-09-01", "t1", time.Now())); !added {
		t.Error("distinct key was rejected")
	}
}

func TestHas(t *testing.T) {
	l := newNotifLog(t)

	if l.Has("t1-2026-08-31") {
		t.Error("Has on empty log")
	}
	l.Append(context.Background(), notif("t1-2026-08-31", "t1", time.Now()))
	if !l.Has("t1-2026-08-31") {
		t.Error("Has missed an existing key")
	}
}

func TestDeleteNotification(t *testing.T) {
	l := newNotifLog(t)
	ctx := context.Background()

	l.Append(ctx, notif("t1-2026-08-31", "t1", time.Now()))
	id := l.List()[0].ID

	if err := l.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if l.Len() != 0 {
		t.Errorf("got %d entries after delete, want 0", l.Len())
	}

	// Unknown ids are a no-op.
	if err := l.Delete(ctx, "no-such-id"); err != nil {
		t.Fatalf("delete of unknown id: %v", err)
	}
}

func TestClearNotifications(t *testing.T) {
	l := newNotifLog(t)
	ctx := context.Background()

	l.Append(ctx, notif("t1-2026-08-31", "t1", time.Now()))
	l.Append(ctx, notif("t2-2026-08-31", "t2", time.Now()))

	if err := l.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if l.Len() != 0 {
		t.Errorf("got %d entries after clear, want 0", l.Len())
	}
	if l.Has("t1-2026-08-31") {
		t.Error("cleared key still reported present")
	}
}

func TestListNewestFirst(t *testing.T) {
	l := newNotifLog(t)
	ctx := context.Background()
	base := time.Date(2026, time.August, 31, 9, 0, 0, 0, time.Local)

	l.Append(ctx, notif("t1-2026-08-31", "t1", base))
	l.Append(ctx, notif("t2-2026-08-31", "t2", base.Add(2*time.Hour)))
	l.Append(ctx, notif("t3-2026-08-31", "t3", base.Add(time.Hour)))

	entries := l.List()
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	wantOrder := []string{"t2", "t3", "t1"}
	for i, want := range wantOrder {
		if entries[i].TaskID != want {
			t.Errorf("position %d: got %s, want %s", i, entries[i].TaskID, want)
		}
	}
}

func TestLogSurvivesReload(t *testing.T) {
	kv := testutil.NewTestKV(t)
	ctx := context.Background()

	l := repo.NewNotificationLog(ctx, kv)
	l.Append(ctx, notif("t1-2026-08-31", "t1", time.Now()))

	reloaded := repo.NewNotificationLog(ctx, kv)
	if !reloaded.Has("t1-2026-08-31") {
		t.Error("dedup key lost across reload")
	}
	if reloaded.Len() != 1 {
		t.Errorf("got %d entries after reload, want 1", reloaded.Len())
	}
}
