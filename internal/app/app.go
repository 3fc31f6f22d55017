// Package app wires the repositories, the deadline watcher, and the
// individual views into the root Bubble Tea model.
package app

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskdash/internal/keys"
	"github.com/nhle/taskdash/internal/notify"
	"github.com/nhle/taskdash/internal/repo"
	"github.com/nhle/taskdash/internal/theme"
	"github.com/nhle/taskdash/internal/ui"
	"github.com/nhle/taskdash/internal/ui/command"
	helpview "github.com/nhle/taskdash/internal/ui/help"
	"github.com/nhle/taskdash/internal/ui/notiflist"
	"github.com/nhle/taskdash/internal/ui/taskform"
	"github.com/nhle/taskdash/internal/ui/tasklist"
	"github.com/nhle/taskdash/internal/ui/timetrack"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewForm
	ViewNotifications
	ViewTimeTrack
	ViewHelp
	ViewCommand
)

// clockTickMsg advances the countdown view's clock.
type clockTickMsg time.Time

// flashExpireMsg clears a transient status message. The sequence number
// keeps an old expiry from wiping a newer flash.
type flashExpireMsg struct {
	seq int
}

// Model is the root Bubble Tea model that manages view routing, layout,
// and access to the repositories.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap
	tasks        *repo.Tasks
	log          *repo.NotificationLog
	watcher      *notify.Watcher

	taskList    tasklist.Model
	taskForm    taskform.Model
	notifView   notiflist.Model
	timeView    timetrack.Model
	helpView    helpview.Model
	commandView command.Model

	refresh  time.Duration
	flash    string
	flashSeq int
	ready    bool
}

// New creates the root application model. refresh is the countdown
// view's clock period.
func New(
	tasks *repo.Tasks,
	log *repo.NotificationLog,
	watcher *notify.Watcher,
	refresh time.Duration,
) Model {
	if refresh <= 0 {
		refresh = time.Second
	}
	k := keys.DefaultKeyMap()

	return Model{
		currentView: ViewList,
		keys:        k,
		tasks:       tasks,
		log:         log,
		watcher:     watcher,
		taskList:    tasklist.New(tasks, k, 80, 24),
		taskForm:    taskform.New(80, 24),
		notifView:   notiflist.New(log, k, 80, 24),
		timeView:    timetrack.New(80, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80, 24),
		refresh:     refresh,
	}
}

// Init loads the task list and starts the deadline watcher.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.taskList.Init(),
		m.watcher.Start(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.taskList.SetSize(w, h)
		m.taskForm.SetSize(w, h)
		m.notifView.SetSize(w, h)
		m.timeView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		// Forward to the active view so huh forms can lay themselves out.
		return m.updateActiveView(msg)

	case notify.AlertMsg:
		cmds := []tea.Cmd{
			m.watcher.WaitForNextAlert(),
			m.setFlash(msg.Message),
		}
		if m.currentView == ViewNotifications {
			cmds = append(cmds, m.notifView.Reload())
		}
		return m, tea.Batch(cmds...)

	case clockTickMsg:
		if m.currentView != ViewTimeTrack {
			// View left; let the tick loop die.
			return m, nil
		}
		m.timeView.SetNow(time.Time(msg))
		return m, m.scheduleClock()

	case flashExpireMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil

	case tasklist.TasksLoadedMsg:
		m.timeView.SetTasks(msg.Tasks)
		var cmd tea.Cmd
		m.taskList, cmd = m.taskList.Update(msg)
		return m, cmd

	case taskform.TaskCreatedMsg:
		m.currentView = ViewList
		return m, m.createTask(msg)

	case taskform.TaskUpdatedMsg:
		m.currentView = ViewList
		return m, m.updateTask(msg)

	case taskform.TaskFormCancelMsg:
		m.currentView = ViewList
		return m, nil

	case taskMutatedMsg:
		if msg.err != nil {
			return m, tea.Batch(
				m.setFlash(fmt.Sprintf("error: %v", msg.err)),
				m.taskList.Reload(),
			)
		}
		return m, m.taskList.Reload()

	case notiflist.DeleteNotificationMsg:
		return m, m.deleteNotification(msg.ID)

	case notiflist.ClearNotificationsMsg:
		return m, m.clearNotifications()

	case notifMutatedMsg:
		if msg.err != nil {
			return m, tea.Batch(
				m.setFlash(fmt.Sprintf("error: %v", msg.err)),
				m.notifView.Reload(),
			)
		}
		return m, m.notifView.Reload()

	case deadlinesCheckedMsg:
		cmds := []tea.Cmd{m.setFlash(msg.summary())}
		if m.currentView == ViewNotifications {
			cmds = append(cmds, m.notifView.Reload())
		}
		return m, tea.Batch(cmds...)

	case command.CommandMsg:
		m.currentView = m.previousView
		return m.executeCommand(string(msg))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveView(msg)
}

// handleKey routes keyboard input: global bindings first, then the
// active view.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// ctrl+c always quits, regardless of focus.
	if msg.String() == "ctrl+c" {
		m.watcher.Stop()
		return m, tea.Quit
	}

	// Text-entry views own every other key.
	switch m.currentView {
	case ViewForm:
		return m.updateActiveView(msg)
	case ViewCommand:
		if msg.String() == "esc" {
			m.currentView = m.previousView
			return m, nil
		}
		return m.updateActiveView(msg)
	case ViewHelp:
		if msg.String() == "esc" || msg.String() == "?" || msg.String() == "q" {
			m.currentView = m.previousView
			return m, nil
		}
		return m, nil
	case ViewNotifications, ViewTimeTrack:
		if msg.String() == "esc" {
			m.currentView = ViewList
			return m, m.taskList.Reload()
		}
		return m.updateActiveView(msg)
	}

	// List view: global bindings are inactive while searching.
	if m.taskList.InSearchMode() {
		return m.updateActiveView(msg)
	}

	switch msg.String() {
	case "q":
		m.watcher.Stop()
		return m, tea.Quit

	case "?":
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil

	case ":":
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m, m.commandView.Focus()

	case "n":
		m.previousView = m.currentView
		m.currentView = ViewForm
		return m, m.taskForm.StartCreate()

	case "e":
		task, ok := m.taskList.SelectedTask()
		if !ok {
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewForm
		return m, m.taskForm.StartEdit(task)

	case "x":
		task, ok := m.taskList.SelectedTask()
		if !ok {
			return m, nil
		}
		return m, m.deleteTask(task.ID)

	case " ":
		task, ok := m.taskList.SelectedTask()
		if !ok {
			return m, nil
		}
		return m, m.toggleComplete(task)

	case "b":
		m.previousView = m.currentView
		m.currentView = ViewNotifications
		return m, m.notifView.Reload()

	case "t":
		m.previousView = m.currentView
		m.currentView = ViewTimeTrack
		m.timeView.SetTasks(m.tasks.ListTasks())
		m.timeView.SetNow(time.Now())
		return m, m.scheduleClock()

	case "r":
		return m, m.checkDeadlines()
	}

	return m.updateActiveView(msg)
}

// updateActiveView forwards a message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentView {
	case ViewList:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewForm:
		m.taskForm, cmd = m.taskForm.Update(msg)
	case ViewNotifications:
		m.notifView, cmd = m.notifView.Update(msg)
	case ViewTimeTrack:
		m.timeView, cmd = m.timeView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}
	return m, cmd
}

// View renders the frame around the active view.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var content string
	switch m.currentView {
	case ViewList:
		content = m.taskList.View()
	case ViewForm:
		content = m.taskForm.View()
	case ViewNotifications:
		content = m.notifView.View()
	case ViewTimeTrack:
		content = m.timeView.View()
	case ViewHelp:
		content = m.helpView.View()
	case ViewCommand:
		content = m.commandView.View()
	}

	summary := fmt.Sprintf("%d notifications", m.log.Len())
	header := m.layout.RenderHeader("taskdash", summary)

	message := m.flash
	if message != "" {
		message = theme.AlertStyle.Render(message)
	}
	statusBar := m.layout.RenderStatusBar(m.statusHints(), message)

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// statusHints returns the key hints for the current view.
func (m Model) statusHints() string {
	switch m.currentView {
	case ViewList:
		return "n new · e edit · x delete · space complete · t time · b notifications · ? help · q quit"
	case ViewForm:
		return "enter next · esc cancel"
	case ViewNotifications:
		return "x delete · C clear all · esc back"
	case ViewTimeTrack:
		return "s toggle sort · esc back"
	case ViewCommand:
		return "enter run · esc close"
	default:
		return "esc back"
	}
}

// setFlash shows a transient status message that expires on its own.
func (m *Model) setFlash(text string) tea.Cmd {
	m.flash = text
	m.flashSeq++
	seq := m.flashSeq
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return flashExpireMsg{seq: seq}
	})
}

// scheduleClock schedules the next countdown refresh tick.
func (m Model) scheduleClock() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

// executeCommand runs a command palette entry.
func (m Model) executeCommand(cmd string) (tea.Model, tea.Cmd) {
	switch cmd {
	case "q", "quit":
		m.watcher.Stop()
		return m, tea.Quit
	case "check":
		return m, m.checkDeadlines()
	case "clear-notifications":
		return m, m.clearNotifications()
	default:
		return m, m.setFlash(fmt.Sprintf("unknown command: %s", cmd))
	}
}
