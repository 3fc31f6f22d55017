package notiflist

import (
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskdash/internal/keys"
	"github.com/nhle/taskdash/internal/model"
	"github.com/nhle/taskdash/internal/repo"
	"github.com/nhle/taskdash/internal/theme"
)

// NotificationsLoadedMsg is sent when the log has been re-read.
type NotificationsLoadedMsg struct {
	Entries []model.Notification
}

// DeleteNotificationMsg asks the app to delete a single entry.
type DeleteNotificationMsg struct {
	ID string
}

// ClearNotificationsMsg asks the app to clear the whole log.
type ClearNotificationsMsg struct{}

// Model is the notification history view.
type Model struct {
	list   list.Model
	log    *repo.NotificationLog
	keys   *keys.KeyMap
	width  int
	height int
}

// notifItem wraps a model.Notification for bubbles/list.
type notifItem struct {
	n model.Notification
}

func (i notifItem) FilterValue() string { return i.n.Message }

// itemDelegate renders a notification as a two-line entry.
type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 2 }
func (d itemDelegate) Spacing() int                            { return 1 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ni, ok := item.(notifItem)
	if !ok {
		return
	}

	glyph := "●"
	if ni.n.Type == model.NotificationPastDeadline {
		glyph = "▲"
	}

	first := theme.NotificationStyle(ni.n.Type).Render(glyph) + " " + ni.n.Message
	second := theme.HelpStyle.Render(ni.n.Timestamp.Format("Jan 2, 2006 15:04"))

	style := theme.ListItemStyle
	if index == m.Index() {
		style = theme.SelectedItemStyle
	}

	lines := lipgloss.JoinVertical(lipgloss.Left, first, second)
	io.WriteString(w, style.Render(lines))
}

// New creates a new notification history model.
func New(l *repo.NotificationLog, k *keys.KeyMap, width, height int) Model {
	lst := list.New([]list.Item{}, itemDelegate{}, width, height-1)
	lst.Title = "Notifications"
	lst.SetShowStatusBar(true)
	lst.SetShowHelp(false)
	lst.SetFilteringEnabled(false)
	lst.Styles.Title = theme.HeaderStyle

	return Model{
		list:   lst,
		log:    l,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Reload returns a command that re-reads the log, newest first.
func (m Model) Reload() tea.Cmd {
	l := m.log
	return func() tea.Msg {
		return NotificationsLoadedMsg{Entries: l.List()}
	}
}

// Update handles messages for the notification view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case NotificationsLoadedMsg:
		items := make([]list.Item, len(msg.Entries))
		for i, n := range msg.Entries {
			items[i] = notifItem{n: n}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Delete):
			item, ok := m.list.SelectedItem().(notifItem)
			if !ok {
				return m, nil
			}
			id := item.n.ID
			return m, func() tea.Msg { return DeleteNotificationMsg{ID: id} }

		case msg.String() == "C":
			if len(m.list.Items()) == 0 {
				return m, nil
			}
			return m, func() tea.Msg { return ClearNotificationsMsg{} }
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the notification list with a hint line.
func (m Model) View() string {
	hint := theme.HelpStyle.Render("x delete · C clear all · esc back")
	return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), hint)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-1)
}
