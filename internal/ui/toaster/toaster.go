// Package toaster shows short-lived notifications at the bottom of the
// screen: validation failures, rejected submits and session events.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/fitcoach/internal/ui/overlay"
	"github.com/zjrosen/fitcoach/internal/ui/styles"
)

// DefaultDuration is how long a toast stays up.
const DefaultDuration = 3 * time.Second

// Style determines the visual appearance of the toast.
type Style int

const (
	StyleSuccess Style = iota
	StyleError
	StyleInfo
	StyleWarn
)

// ShowMsg asks the toaster to display a message.
type ShowMsg struct {
	Message string
	Style   Style
}

// DismissMsg hides the toast it was scheduled for. Toasts shown later are
// unaffected.
type DismissMsg struct {
	seq int
}

// Notify returns a command that shows message.
func Notify(message string, style Style) tea.Cmd {
	return func() tea.Msg { return ShowMsg{Message: message, Style: style} }
}

// Model holds the toaster state.
type Model struct {
	message  string
	style    Style
	visible  bool
	seq      int
	duration time.Duration
}

// New creates a hidden toaster.
func New() Model {
	return Model{duration: DefaultDuration}
}

// Update handles ShowMsg and DismissMsg.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ShowMsg:
		m = m.Show(msg.Message, msg.Style)
		return m, scheduleDismiss(m.seq, m.duration)
	case DismissMsg:
		if msg.seq == m.seq {
			m = m.Hide()
		}
	}
	return m, nil
}

// Show displays message immediately without scheduling a dismissal.
func (m Model) Show(message string, style Style) Model {
	m.seq++
	m.message = message
	m.style = style
	m.visible = true
	return m
}

// Hide dismisses the toast.
func (m Model) Hide() Model {
	m.visible = false
	m.message = ""
	return m
}

// Visible returns whether the toast is showing.
func (m Model) Visible() bool {
	return m.visible
}

// View renders the toast box.
func (m Model) View() string {
	if !m.visible || m.message == "" {
		return ""
	}

	style := lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder())

	var content string
	switch m.style {
	case StyleError:
		style = style.BorderForeground(styles.ToastBorderErrorColor)
		content = "✗ " + m.message
	case StyleInfo:
		style = style.BorderForeground(styles.ToastBorderInfoColor)
		content = "ℹ " + m.message
	case StyleWarn:
		style = style.BorderForeground(styles.ToastBorderWarnColor)
		content = "! " + m.message
	default:
		style = style.BorderForeground(styles.ToastBorderSuccessColor)
		content = "✓ " + m.message
	}
	return style.Render(content)
}

// Overlay draws the toast bottom-center over bg.
func (m Model) Overlay(bg string, width, height int) string {
	if !m.visible || m.message == "" {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    width,
		Height:   height,
		Position: overlay.Bottom,
		PadY:     1,
	}, m.View(), bg)
}

func scheduleDismiss(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return DismissMsg{seq: seq}
	})
}
