package timetrack

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskdash/internal/countdown"
	"github.com/nhle/taskdash/internal/model"
	"github.com/nhle/taskdash/internal/theme"
)

// Model is the live countdown view over non-completed tasks. The clock
// advances via ticks scheduled by the app only while the view is active.
type Model struct {
	tasks  []model.Task
	now    time.Time
	desc   bool
	cursor int
	width  int
	height int
}

// New creates a new time tracking model.
func New(width, height int) Model {
	return Model{
		now:    time.Now(),
		width:  width,
		height: height,
	}
}

// SetTasks replaces the tracked tasks, dropping completed ones.
func (m *Model) SetTasks(tasks []model.Task) {
	m.tasks = m.tasks[:0]
	for _, t := range tasks {
		if t.Status != model.StatusCompleted {
			m.tasks = append(m.tasks, t)
		}
	}
	if m.cursor >= len(m.tasks) {
		m.cursor = 0
	}
}

// SetNow advances the view's clock.
func (m *Model) SetNow(now time.Time) {
	m.now = now
}

// Update handles messages for the countdown view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "s":
			m.desc = !m.desc
		case "j", "down":
			if m.cursor < len(m.tasks)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		}
	}
	return m, nil
}

// View renders the countdown table, sorted by raw signed delta so that
// the most urgent tasks (deepest overdue first) lead in ascending order.
func (m Model) View() string {
	title := theme.HeaderStyle.Render("Time Tracking")

	direction := "ascending"
	if m.desc {
		direction = "descending"
	}
	subtitle := theme.HelpStyle.Render(
		fmt.Sprintf("live countdown · sorted %s by time left · s toggle · esc back", direction),
	)

	if len(m.tasks) == 0 {
		empty := theme.HelpStyle.Render("No tasks with pending deadlines.")
		return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "", empty)
	}

	sorted := make([]model.Task, len(m.tasks))
	copy(sorted, m.tasks)
	countdown.SortTasks(sorted, m.now, m.desc)

	header := fmt.Sprintf("  %-32s %-10s %s", "Task", "Status", "Time Status")
	rows := []string{
		title,
		subtitle,
		"",
		lipgloss.NewStyle().Bold(true).Render(header),
	}

	maxRows := m.height - 6
	for i, t := range sorted {
		if maxRows > 0 && i >= maxRows {
			rows = append(rows, theme.HelpStyle.Render(
				fmt.Sprintf("  ... %d more", len(sorted)-i)))
			break
		}

		status := countdown.Until(t.Deadline, m.now)
		style := theme.RemainingStyle
		if status.Overdue() {
			style = theme.OverdueStyle
		}

		name := t.Name
		if len(name) > 32 {
			name = name[:29] + "..."
		}

		prefix := "  "
		if i == m.cursor {
			prefix = "> "
		}

		rows = append(rows, fmt.Sprintf("%s%-32s %-10s %s",
			prefix,
			name,
			model.StatusLabel(t.Status),
			style.Render(status.String()),
		))
	}

	return strings.Join(rows, "\n")
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
