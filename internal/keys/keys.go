package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Task actions
	New            key.Binding
	Edit           key.Binding
	Delete         key.Binding
	ToggleComplete key.Binding

	// Search
	Search key.Binding

	// Command palette
	Command key.Binding

	// Help toggle
	Help key.Binding

	// Views
	Notifications key.Binding
	TimeTracking  key.Binding

	// Immediate deadline check
	CheckDeadlines key.Binding

	// Status filters
	FilterTodo      key.Binding
	FilterInReview  key.Binding
	FilterPending   key.Binding
	FilterCompleted key.Binding
	ClearFilter     key.Binding

	// Sort
	CycleSort key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new task"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit task"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete"),
		),
		ToggleComplete: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle complete"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Notifications: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "notifications"),
		),
		TimeTracking: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "time tracking"),
		),
		CheckDeadlines: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "check deadlines"),
		),
		FilterTodo: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "filter to do"),
		),
		FilterInReview: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "filter in review"),
		),
		FilterPending: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "filter pending"),
		),
		FilterCompleted: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "filter completed"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "show all"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "cycle sort"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.New, k.Edit,
		k.Delete, k.Quit, k.Help,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Back, k.Quit},
		{k.New, k.Edit, k.Delete, k.ToggleComplete},
		{k.Search, k.CycleSort, k.FilterTodo, k.FilterInReview, k.FilterPending, k.FilterCompleted, k.ClearFilter},
		{k.Notifications, k.TimeTracking, k.CheckDeadlines, k.Command, k.Help},
	}
}
