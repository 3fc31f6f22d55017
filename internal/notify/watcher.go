// Package notify implements the deadline watcher: a background loop that
// compares task deadlines against the current day and logs at most one
// alert per task+deadline-day pair.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskdash/internal/model"
	"github.com/nhle/taskdash/internal/repo"
)

// AlertMsg is a tea.Msg carrying a transient deadline alert. Alerts are
// fire-and-forget: the durable record lives in the notification log.
type AlertMsg struct {
	Type     string
	TaskID   string
	TaskName string
	Message  string
}

// checkTimeout bounds the store writes done by a single tick.
const checkTimeout = 10 * time.Second

// Watcher polls the task repository and emits deadline notifications.
type Watcher struct {
	tasks    *repo.Tasks
	log      *repo.NotificationLog
	interval time.Duration
	alertCh  chan AlertMsg
	stopCh   chan struct{}
	mu       sync.Mutex
	running  bool
}

// New creates a Watcher with the given poll interval. Intervals of zero
// or below fall back to one minute.
func New(tasks *repo.Tasks, log *repo.NotificationLog, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Watcher{
		tasks:    tasks,
		log:      log,
		interval: interval,
		alertCh:  make(chan AlertMsg, 16),
		stopCh:   make(chan struct{}),
	}
}

// Start launches the polling goroutine and returns a subscription
// command that delivers AlertMsg values to the Bubble Tea runtime.
// Calling Start on a running watcher returns only the subscription.
func (w *Watcher) Start() tea.Cmd {
	w.mu.Lock()
	if !w.running {
		w.running = true
		go w.loop()
	}
	w.mu.Unlock()

	return w.waitForAlert()
}

// Stop halts the polling goroutine. Safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	close(w.stopCh)
	w.running = false
}

// WaitForNextAlert returns a tea.Cmd that waits for the next alert.
// Call it again after handling each AlertMsg to keep listening.
func (w *Watcher) WaitForNextAlert() tea.Cmd {
	return w.waitForAlert()
}

// loop checks deadlines immediately, then on every tick.
func (w *Watcher) loop() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.check(time.Now())

	for {
		select {
		case <-w.stopCh:
			return
		case now := <-ticker.C:
			w.check(now)
		}
	}
}

// check runs one evaluation pass with a bounded context.
func (w *Watcher) check(now time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()
	w.CheckNow(ctx, now)
}

// CheckNow evaluates every task against the current day and returns the
// notifications that were newly logged. Completed tasks are excluded
// entirely; tasks without a usable deadline are skipped so one bad task
// never aborts the pass.
func (w *Watcher) CheckNow(ctx context.Context, now time.Time) []model.Notification {
	today := truncateToDay(now)

	var emitted []model.Notification
	for _, task := range w.tasks.ListTasks() {
		if task.Status == model.StatusCompleted {
			continue
		}
		if task.Deadline.IsZero() {
			continue
		}

		deadlineDay := truncateToDay(task.Deadline)

		var notifType, message string
		switch {
		case deadlineDay.Equal(today):
			notifType = model.NotificationDueToday
			message = fmt.Sprintf("Task is due today: %s", task.Name)
		case deadlineDay.Before(today):
			notifType = model.NotificationPastDeadline
			message = fmt.Sprintf("Task is past deadline: %s", task.Name)
		default:
			continue
		}

		key := Key(task.ID, task.Deadline)
		if w.log.Has(key) {
			continue
		}

		n := model.Notification{
			NotificationKey: key,
			TaskID:          task.ID,
			TaskName:        task.Name,
			Type:            notifType,
			Message:         message,
			Timestamp:       now,
		}
		added, err := w.log.Append(ctx, n)
		if err != nil || !added {
			continue
		}
		emitted = append(emitted, n)

		w.sendAlert(AlertMsg{
			Type:     notifType,
			TaskID:   task.ID,
			TaskName: task.Name,
			Message:  message,
		})
	}
	return emitted
}

// Key builds the dedup key for a task and its deadline: the key is
// anchored to the deadline's calendar day, so a task stays notified for
// a given deadline until the deadline itself changes.
func Key(taskID string, deadline time.Time) string {
	return taskID + "-" + truncateToDay(deadline).Format("2006-01-02")
}

// truncateToDay drops the time-of-day component in local time.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// sendAlert delivers an alert without blocking the watcher.
func (w *Watcher) sendAlert(msg AlertMsg) {
	select {
	case w.alertCh <- msg:
	default:
		// Drop if the channel is full; the log already has the entry.
	}
}

// waitForAlert returns a tea.Cmd that blocks until the next alert.
func (w *Watcher) waitForAlert() tea.Cmd {
	return func() tea.Msg {
		alert, ok := <-w.alertCh
		if !ok {
			return nil
		}
		return alert
	}
}
