package logview

import (
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/fitcoach/internal/log"
)

func entry(level log.Level, msg string) string {
	return log.Format(time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC), level, log.CatVideo, msg)
}

func TestAppend_DropsOldest(t *testing.T) {
	m := New()
	m.capacity = 3
	for i := range 5 {
		m.Append(entry(log.LevelInfo, fmt.Sprintf("msg %d", i)))
	}

	got := m.Entries()
	require.Len(t, got, 3)
	require.Contains(t, got[0], "msg 2")
	require.Contains(t, got[2], "msg 4")
}

func TestLevelFilter(t *testing.T) {
	m := New()
	m.Append(entry(log.LevelDebug, "stale video response"))
	m.Append(entry(log.LevelWarn, "session failed"))
	m.Append(entry(log.LevelError, "boom"))
	m.Toggle()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("w")})
	require.Len(t, m.Entries(), 2)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	require.Len(t, m.Entries(), 1)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	require.Len(t, m.Entries(), 3)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	require.Empty(t, m.Entries())
}

func TestKeysIgnoredWhenHidden(t *testing.T) {
	m := New()
	m.Append(entry(log.LevelInfo, "hello"))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	require.Len(t, m.Entries(), 1)
}

func TestToggleAndView(t *testing.T) {
	m := New()
	m.SetSize(100, 30)
	require.Empty(t, m.View())
	require.Equal(t, "bg", m.Overlay("bg"))

	m.Append(entry(log.LevelInfo, "plan ready"))
	m.Toggle()
	require.True(t, m.Visible())
	view := m.View()
	require.Contains(t, view, "Logs")
	require.Contains(t, view, "plan ready")
	require.Contains(t, view, "[c] Clear")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, m.Visible())
}

func TestLevelOf(t *testing.T) {
	require.Equal(t, log.LevelDebug, levelOf(entry(log.LevelDebug, "x")))
	require.Equal(t, log.LevelWarn, levelOf(entry(log.LevelWarn, "x")))
	require.Equal(t, log.LevelError, levelOf("no marker"))
}
