package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

var (
	_ help.KeyMap = FormKeyMap{}
	_ help.KeyMap = PlanKeyMap{}
)

func TestGlobal_Bindings(t *testing.T) {
	require.Equal(t, []string{"ctrl+c"}, Global.Quit.Keys())
	require.Equal(t, []string{"ctrl+n"}, Global.Reset.Keys())
	require.Equal(t, "new session", Global.Reset.Help().Desc)
}

func TestPlan_TabCyclesFocus(t *testing.T) {
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyTab}, Plan.FocusNext))
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyShiftTab}, Plan.FocusPrev))
	require.False(t, key.Matches(tea.KeyMsg{Type: tea.KeyTab}, Plan.FocusPrev))
}

func TestForm_Bindings(t *testing.T) {
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyEnter}, Form.Submit))
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyRight}, Form.Cycle))
	require.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyLeft}, Form.CyclePrev))
}

func TestHelp_EveryBindingHasText(t *testing.T) {
	for _, group := range append(Form.FullHelp(), Plan.FullHelp()...) {
		for _, b := range group {
			require.NotEmpty(t, b.Help().Key)
			require.NotEmpty(t, b.Help().Desc)
		}
	}
	require.Len(t, Plan.ShortHelp(), 4)
}
