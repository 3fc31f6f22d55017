package app

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskdash/internal/model"
	"github.com/nhle/taskdash/internal/repo"
	"github.com/nhle/taskdash/internal/ui/taskform"
)

// taskMutatedMsg is sent after a task create/update/delete completes.
type taskMutatedMsg struct{ err error }

// notifMutatedMsg is sent after a notification delete/clear completes.
type notifMutatedMsg struct{ err error }

// deadlinesCheckedMsg reports the outcome of a manual deadline check.
type deadlinesCheckedMsg struct {
	count int
}

func (m deadlinesCheckedMsg) summary() string {
	switch m.count {
	case 0:
		return "no new deadline alerts"
	case 1:
		return "1 new deadline alert"
	default:
		return fmt.Sprintf("%d new deadline alerts", m.count)
	}
}

// createTask persists a new task from the form.
func (m *Model) createTask(msg taskform.TaskCreatedMsg) tea.Cmd {
	r := m.tasks
	return func() tea.Msg {
		_, err := r.AddTask(context.Background(), msg.Name, msg.Priority, msg.Deadline)
		return taskMutatedMsg{err: err}
	}
}

// updateTask merges the form's edits into an existing task.
func (m *Model) updateTask(msg taskform.TaskUpdatedMsg) tea.Cmd {
	r := m.tasks
	return func() tea.Msg {
		patch := repo.TaskPatch{
			Name:     &msg.Name,
			Priority: &msg.Priority,
			Deadline: &msg.Deadline,
			Status:   &msg.Status,
		}
		err := r.UpdateTask(context.Background(), msg.ID, patch)
		return taskMutatedMsg{err: err}
	}
}

// deleteTask removes a task from the repository.
func (m *Model) deleteTask(id string) tea.Cmd {
	r := m.tasks
	return func() tea.Msg {
		err := r.DeleteTask(context.Background(), id)
		return taskMutatedMsg{err: err}
	}
}

// toggleComplete flips a task between completed and to-do.
func (m *Model) toggleComplete(task model.Task) tea.Cmd {
	r := m.tasks
	return func() tea.Msg {
		status := model.StatusCompleted
		if task.Status == model.StatusCompleted {
			status = model.StatusTodo
		}
		err := r.UpdateTask(context.Background(), task.ID, repo.TaskPatch{Status: &status})
		return taskMutatedMsg{err: err}
	}
}

// checkDeadlines runs an immediate watcher pass.
func (m *Model) checkDeadlines() tea.Cmd {
	w := m.watcher
	return func() tea.Msg {
		emitted := w.CheckNow(context.Background(), time.Now())
		return deadlinesCheckedMsg{count: len(emitted)}
	}
}

// deleteNotification removes a single log entry.
func (m *Model) deleteNotification(id string) tea.Cmd {
	l := m.log
	return func() tea.Msg {
		err := l.Delete(context.Background(), id)
		return notifMutatedMsg{err: err}
	}
}

// clearNotifications empties the log.
func (m *Model) clearNotifications() tea.Cmd {
	l := m.log
	return func() tea.Msg {
		err := l.Clear(context.Background())
		return notifMutatedMsg{err: err}
	}
}
