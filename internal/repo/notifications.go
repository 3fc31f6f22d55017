package repo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/nhle/taskdash/internal/model"
	"github.com/nhle/taskdash/internal/store"
)

// notificationsKey is the kv key holding the notification log.
const notificationsKey = "notifications_log"

// NotificationLog is the persisted record of previously emitted deadline
// alerts, used for deduplication and history display.
type NotificationLog struct {
	kv      *store.KVStore
	mu      sync.Mutex
	entries []model.Notification
}

// NewNotificationLog loads the log from the store. A missing or corrupt
// snapshot degrades to an empty log.
func NewNotificationLog(ctx context.Context, kv *store.KVStore) *NotificationLog {
	l := &NotificationLog{kv: kv}
	var entries []model.Notification
	if ok, err := kv.Get(ctx, notificationsKey, &entries); err == nil && ok {
		l.entries = entries
	}
	return l
}

// Has reports whether an entry with the given notification key exists.
func (l *NotificationLog) Has(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasLocked(key)
}

func (l *NotificationLog) hasLocked(key string) bool {
	for _, e := range l.entries {
		if e.NotificationKey == key {
			return true
		}
	}
	return false
}

// Append records a notification unless one with the same key already
// exists. It reports whether the entry was added. An empty ID gets a
// fresh UUID.
func (l *NotificationLog) Append(ctx context.Context, n model.Notification) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.hasLocked(n.NotificationKey) {
		return false, nil
	}
	if n.ID == "" {
		n.ID = uuid.New().String()
	}

	l.entries = append(l.entries, n)
	if err := l.persistLocked(ctx); err != nil {
		l.entries = l.entries[:len(l.entries)-1]
		return false, err
	}
	return true, nil
}

// Delete removes a single entry by id. Unknown ids are a no-op.
func (l *NotificationLog) Delete(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.entries {
		if l.entries[i].ID == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return l.persistLocked(ctx)
		}
	}
	return nil
}

// Clear removes all entries.
func (l *NotificationLog) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = nil
	return l.persistLocked(ctx)
}

// List returns a copy of the log, newest first.
func (l *NotificationLog) List() []model.Notification {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]model.Notification, len(l.entries))
	copy(out, l.entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// Len returns the number of logged entries.
func (l *NotificationLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// persistLocked writes the full log snapshot. Callers must hold mu.
func (l *NotificationLog) persistLocked(ctx context.Context) error {
	if err := l.kv.Set(ctx, notificationsKey, l.entries); err != nil {
		return fmt.Errorf("persisting notification log: %w", err)
	}
	return nil
}
