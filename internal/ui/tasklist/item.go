package tasklist

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskdash/internal/countdown"
	"github.com/nhle/taskdash/internal/model"
	"github.com/nhle/taskdash/internal/theme"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.Task
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Task.Name }

// Title returns the task name for the list.
func (i TaskItem) Title() string { return i.Task.Name }

// Description returns a short summary line for the list.
func (i TaskItem) Description() string {
	return fmt.Sprintf("%s | %s | due %s",
		model.StatusLabel(i.Task.Status),
		model.PriorityLabel(i.Task.Priority),
		i.Task.Deadline.Format("2006-01-02 15:04"),
	)
}

// ItemDelegate implements list.ItemDelegate for rendering task rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single task row: completion glyph, name, priority,
// status, and deadline with overdue highlighting.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}

	task := ti.Task

	glyph := "○"
	if task.Status == model.StatusCompleted {
		glyph = "✓"
	}

	name := task.Name
	if len(name) > 40 {
		name = name[:37] + "..."
	}

	deadline := task.Deadline.Format("Jan 02 15:04")
	deadlineStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	if task.Status != model.StatusCompleted &&
		countdown.Until(task.Deadline, time.Now()).Overdue() {
		deadlineStyle = theme.OverdueStyle
	}

	line := fmt.Sprintf("%s %-40s %-7s %-10s %s",
		glyph,
		name,
		model.PriorityLabel(task.Priority),
		model.StatusLabel(task.Status),
		deadlineStyle.Render(deadline),
	)

	style := theme.ListItemStyle
	if index == m.Index() {
		style = theme.SelectedItemStyle
	}

	fmt.Fprint(w, style.Render(line))
}
