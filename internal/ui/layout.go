package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskdash/internal/theme"
)

// Layout manages the terminal frame: a one-line header, the content
// area, and a one-line status bar.
type Layout struct {
	Width  int
	Height int
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{Width: width, Height: height}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area.
func (l Layout) ContentHeight() int {
	return l.Height - 2
}

// RenderHeader renders the top bar with the app title on the left and a
// summary (e.g. notification count) on the right.
func (l Layout) RenderHeader(title, summary string) string {
	return l.renderBar(theme.HeaderStyle, title, summary)
}

// RenderStatusBar renders the bottom bar with keyboard hints on the
// left and a transient message on the right.
func (l Layout) RenderStatusBar(hints, message string) string {
	return l.renderBar(theme.StatusBarStyle, hints, message)
}

// RenderWithFrame vertically joins the header, content, and status bar.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		statusBar,
	)
}

// renderBar lays out left and right segments in a full-width bar.
func (l Layout) renderBar(style lipgloss.Style, left, right string) string {
	leftRendered := style.Render(left)
	rightRendered := style.Align(lipgloss.Right).Render(right)

	gap := l.Width - lipgloss.Width(leftRendered) - lipgloss.Width(rightRendered)
	if gap < 0 {
		gap = 0
	}

	filler := style.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(style.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, leftRendered, filler, rightRendered)
}
