// Package logview is a debug overlay listing recent log entries.
package logview

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/fitcoach/internal/log"
	"github.com/zjrosen/fitcoach/internal/ui/overlay"
	"github.com/zjrosen/fitcoach/internal/ui/styles"
)

const (
	// DefaultCapacity is how many entries are kept before the oldest is dropped.
	DefaultCapacity = 500

	viewportMaxHeight = 25
	viewportMinHeight = 5
	boxMaxWidth       = 160
	boxMinWidth       = 40
)

// Model holds a bounded buffer of log lines and the overlay state.
type Model struct {
	entries  []string
	capacity int
	minLevel log.Level
	visible  bool
	width    int
	height   int
	viewport viewport.Model
}

// New creates a hidden log view.
func New() Model {
	return Model{capacity: DefaultCapacity, minLevel: log.LevelDebug}
}

// Append records one formatted log line.
func (m *Model) Append(entry string) {
	m.entries = append(m.entries, strings.TrimSuffix(entry, "\n"))
	if over := len(m.entries) - m.capacity; over > 0 {
		m.entries = append(m.entries[:0:0], m.entries[over:]...)
	}
	if m.visible {
		m.refresh()
	}
}

// Entries returns the buffered lines that pass the level filter.
func (m Model) Entries() []string {
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		if levelOf(e) >= m.minLevel {
			out = append(out, e)
		}
	}
	return out
}

// Update handles keys while visible. Esc and ctrl+l close the overlay.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if !m.visible {
			return m, nil
		}
		switch msg.String() {
		case "c":
			m.entries = nil
		case "d":
			m.minLevel = log.LevelDebug
		case "i":
			m.minLevel = log.LevelInfo
		case "w":
			m.minLevel = log.LevelWarn
		case "e":
			m.minLevel = log.LevelError
		case "esc", "ctrl+l":
			m.visible = false
			return m, nil
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		m.refresh()
	}
	return m, nil
}

// Toggle shows or hides the overlay.
func (m *Model) Toggle() {
	m.visible = !m.visible
	if m.visible {
		m.refresh()
	}
}

// Visible reports whether the overlay is shown.
func (m Model) Visible() bool { return m.visible }

// SetSize records the screen size.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	if m.visible {
		m.refresh()
	}
}

func (m Model) boxWidth() int {
	return max(min(m.width-4, boxMaxWidth), boxMinWidth)
}

func (m *Model) refresh() {
	if m.width == 0 || m.height == 0 {
		return
	}
	// header, divider, footer divider, hint and borders
	h := max(min(viewportMaxHeight, m.height-6), viewportMinHeight)
	w := m.boxWidth() - 2

	m.viewport = viewport.New(w, h)
	m.viewport.SetContent(m.content(w))
	m.viewport.GotoBottom()
}

func (m Model) content(width int) string {
	entries := m.Entries()
	if len(entries) == 0 {
		return styles.MutedStyle.Italic(true).Render("No logs to display")
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		if ansi.StringWidth(e) > width {
			e = ansi.Truncate(e, width-3, "...")
		}
		lines[i] = levelStyle(levelOf(e)).Render(e)
	}
	return strings.Join(lines, "\n")
}

// View renders the overlay box, or "" when hidden.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	w := m.boxWidth()
	divider := lipgloss.NewStyle().Foreground(styles.BorderDefaultColor).Render(strings.Repeat("─", w))
	title := lipgloss.NewStyle().Bold(true).Foreground(styles.AccentColor).PaddingLeft(1).Render("Logs")

	body := strings.Join([]string{title, divider, m.viewport.View(), divider, m.hint()}, "\n")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BorderFocusColor).
		Width(w).
		Render(body)
}

// Overlay centers the box on bg when visible.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(overlay.Config{Width: m.width, Height: m.height, Position: overlay.Center}, m.View(), bg)
}

func (m Model) hint() string {
	parts := []string{styles.MutedStyle.Render("[c] Clear")}
	for _, f := range []struct {
		key   string
		label string
		level log.Level
	}{
		{"d", "Debug", log.LevelDebug},
		{"i", "Info", log.LevelInfo},
		{"w", "Warn", log.LevelWarn},
		{"e", "Error", log.LevelError},
	} {
		text := "[" + f.key + "] " + f.label
		if f.level == m.minLevel {
			parts = append(parts, styles.RowStyle.Bold(true).Render(text))
		} else {
			parts = append(parts, styles.MutedStyle.Render(text))
		}
	}
	return strings.Join(parts, "  ")
}

// levelOf reads the level marker written by log.Format. Unknown lines are
// treated as errors so they are never filtered out.
func levelOf(entry string) log.Level {
	for _, l := range []log.Level{log.LevelError, log.LevelWarn, log.LevelInfo, log.LevelDebug} {
		if strings.Contains(entry, "["+l.String()+"]") {
			return l
		}
	}
	return log.LevelError
}

func levelStyle(l log.Level) lipgloss.Style {
	switch l {
	case log.LevelError:
		return lipgloss.NewStyle().Foreground(styles.StatusErrorColor)
	case log.LevelWarn:
		return lipgloss.NewStyle().Foreground(styles.StatusWarningColor)
	case log.LevelInfo:
		return lipgloss.NewStyle().Foreground(styles.ToastBorderInfoColor)
	default:
		return styles.MutedStyle
	}
}
