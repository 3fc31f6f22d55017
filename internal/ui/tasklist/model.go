package tasklist

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskdash/internal/keys"
	"github.com/nhle/taskdash/internal/model"
	"github.com/nhle/taskdash/internal/repo"
	"github.com/nhle/taskdash/internal/theme"
)

// TasksLoadedMsg is sent when tasks have been loaded from the repository.
type TasksLoadedMsg struct {
	Tasks []model.Task
}

// sortModes defines the available sort modes cycled by Tab. "created"
// is the repository's insertion order.
var sortModes = []string{
	"created",
	"priority",
	"deadline",
	"name",
	"status",
}

// Model is the dashboard task list view.
type Model struct {
	list         list.Model
	repo         *repo.Tasks
	keys         *keys.KeyMap
	all          []model.Task
	statusFilter string
	query        string
	sortIndex    int
	searchMode   bool
	searchInput  textinput.Model
	width        int
	height       int
}

// New creates a new task list model.
func New(r *repo.Tasks, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-3)
	l.Title = "Tasks"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search tasks..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		repo:        r,
		keys:        k,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Init returns a command that loads the initial set of tasks.
func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// Reload returns a command that re-reads the repository.
func (m Model) Reload() tea.Cmd {
	r := m.repo
	return func() tea.Msg {
		return TasksLoadedMsg{Tasks: r.ListTasks()}
	}
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TasksLoadedMsg:
		m.all = msg.Tasks
		cmd := m.applyView()
		return m, cmd

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.query = m.searchInput.Value()
		cmd := m.applyView()
		return m, cmd

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.query = ""
		cmd := m.applyView()
		return m, cmd
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.FilterTodo):
		return m.toggleStatusFilter(model.StatusTodo)

	case key.Matches(msg, m.keys.FilterInReview):
		return m.toggleStatusFilter(model.StatusInReview)

	case key.Matches(msg, m.keys.FilterPending):
		return m.toggleStatusFilter(model.StatusPending)

	case key.Matches(msg, m.keys.FilterCompleted):
		return m.toggleStatusFilter(model.StatusCompleted)

	case key.Matches(msg, m.keys.ClearFilter):
		m.statusFilter = ""
		cmd := m.applyView()
		return m, cmd

	case key.Matches(msg, m.keys.CycleSort):
		m.sortIndex = (m.sortIndex + 1) % len(sortModes)
		cmd := m.applyView()
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// toggleStatusFilter sets the status filter, or clears it when the same
// status is toggled twice.
func (m Model) toggleStatusFilter(status string) (Model, tea.Cmd) {
	if m.statusFilter == status {
		m.statusFilter = ""
	} else {
		m.statusFilter = status
	}
	cmd := m.applyView()
	return m, cmd
}

// applyView recomputes the visible items from the full task set.
func (m *Model) applyView() tea.Cmd {
	visible := make([]model.Task, 0, len(m.all))
	q := strings.ToLower(m.query)
	for _, t := range m.all {
		if m.statusFilter != "" && t.Status != m.statusFilter {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(t.Name), q) {
			continue
		}
		visible = append(visible, t)
	}

	sortTasks(visible, sortModes[m.sortIndex])

	items := make([]list.Item, len(visible))
	for i, t := range visible {
		items[i] = TaskItem{Task: t}
	}
	return m.list.SetItems(items)
}

// sortTasks orders tasks by the given mode. "created" keeps the
// repository's insertion order.
func sortTasks(tasks []model.Task, mode string) {
	switch mode {
	case "priority":
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Priority < tasks[j].Priority
		})
	case "deadline":
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Deadline.Before(tasks[j].Deadline)
		})
	case "name":
		sort.SliceStable(tasks, func(i, j int) bool {
			return strings.ToLower(tasks[i].Name) < strings.ToLower(tasks[j].Name)
		})
	case "status":
		rank := make(map[string]int, len(model.Statuses))
		for i, s := range model.Statuses {
			rank[s] = i
		}
		sort.SliceStable(tasks, func(i, j int) bool {
			return rank[tasks[i].Status] < rank[tasks[j].Status]
		})
	}
}

// SelectedTask returns the task currently under the cursor.
func (m Model) SelectedTask() (model.Task, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return model.Task{}, false
	}
	return item.Task, true
}

// InSearchMode reports whether the search input has focus.
func (m Model) InSearchMode() bool {
	return m.searchMode
}

// View renders the stats line, optional search input, and the list.
func (m Model) View() string {
	sections := []string{m.statsLine()}
	if m.searchMode {
		sections = append(sections, m.searchInput.View())
	}
	sections = append(sections, m.list.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// statsLine summarizes the collection and the active filter/sort.
func (m Model) statsLine() string {
	counts := make(map[string]int, len(model.Statuses))
	for _, t := range m.all {
		counts[t.Status]++
	}

	parts := []string{fmt.Sprintf("%d tasks", len(m.all))}
	for _, s := range model.Statuses {
		label := fmt.Sprintf("%d %s", counts[s], model.StatusLabel(s))
		parts = append(parts, theme.StatusStyle(s).Render(label))
	}

	line := strings.Join(parts, "  ")

	var extras []string
	if m.statusFilter != "" {
		extras = append(extras, "filter: "+model.StatusLabel(m.statusFilter))
	}
	if m.query != "" {
		extras = append(extras, "search: "+m.query)
	}
	if m.sortIndex != 0 {
		extras = append(extras, "sort: "+sortModes[m.sortIndex])
	}
	if len(extras) > 0 {
		line += theme.HelpStyle.Render("  (" + strings.Join(extras, ", ") + ")")
	}

	return line
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-3)
	m.searchInput.Width = width - 4
}
