package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// Panel renders content in a rounded box of exactly width x height cells
// with the title embedded in the top border: ╭─ Title ─────╮
// The border uses BorderFocusColor when focused.
func Panel(content, title string, width, height int, focused bool) string {
	var borderColor lipgloss.TerminalColor = BorderDefaultColor
	if focused {
		borderColor = BorderFocusColor
	}
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(borderColor).Bold(focused)

	inner := max(width-2, 1)
	rows := max(height-2, 1)

	var b strings.Builder
	b.WriteString(topBorder(title, inner, borderStyle, titleStyle))
	b.WriteString("\n")

	lines := strings.Split(content, "\n")
	for i := 0; i < rows; i++ {
		var line string
		if i < len(lines) {
			line = ansi.Truncate(lines[i], inner, "")
		}
		if w := ansi.StringWidth(line); w < inner {
			line += strings.Repeat(" ", inner-w)
		}
		b.WriteString(borderStyle.Render(borderVertical))
		b.WriteString(line)
		b.WriteString(borderStyle.Render(borderVertical))
		b.WriteString("\n")
	}

	b.WriteString(borderStyle.Render(borderBottomLeft + strings.Repeat(borderHorizontal, inner) + borderBottomRight))
	return b.String()
}

func topBorder(title string, inner int, borderStyle, titleStyle lipgloss.Style) string {
	// "─ " + title + " " needs at least 4 cells.
	if title == "" || inner < 4 {
		return borderStyle.Render(borderTopLeft + strings.Repeat(borderHorizontal, inner) + borderTopRight)
	}

	title = Truncate(title, inner-4)
	rest := max(inner-3-ansi.StringWidth(title), 0)

	return borderStyle.Render(borderTopLeft+borderHorizontal+" ") +
		titleStyle.Render(title) +
		borderStyle.Render(" "+strings.Repeat(borderHorizontal, rest)+borderTopRight)
}
