package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/fitcoach/internal/chat"
	"github.com/zjrosen/fitcoach/internal/plan"
	"github.com/zjrosen/fitcoach/internal/ui/markdown"
	"github.com/zjrosen/fitcoach/internal/ui/styles"
)

const videoZonePrefix = "video-"

// layout holds panel sizes for the plan screen.
type layout struct {
	leftW, rightW            int
	bodyH                    int
	exerciseH, videoH, chatH int
}

func (m Model) layout() layout {
	w, h := m.size()
	l := layout{}
	l.leftW = max(w*55/100, 20)
	l.rightW = max(w-l.leftW, 20)
	l.bodyH = max(h-2, 12) // header + footer
	l.exerciseH = max(l.bodyH/4, 4)
	l.videoH = max(l.bodyH/3, 5)
	l.chatH = max(l.bodyH-l.exerciseH-l.videoH, 5)
	return l
}

func planDocument(s *plan.Session) string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	section := func(title, body string) {
		if strings.TrimSpace(body) == "" {
			return
		}
		b.WriteString("# " + title + "\n\n" + body + "\n\n")
	}
	section("Fitness Analysis", s.FitnessAnalysis)
	section("Workout Plan", s.WorkoutPlan)
	section("Nutrition Tips", s.NutritionTips)
	return b.String()
}

func (m Model) renderMarkdown(md string, width int) string {
	if m.md == nil {
		return markdown.Plain(md, width)
	}
	return m.md.Render(md)
}

func (m Model) planScreenView() string {
	l := m.layout()
	header := m.headerView()

	left := styles.Panel(m.planView.View(), "Plan", l.leftW, l.bodyH, m.focus == focusPlan)
	right := lipgloss.JoinVertical(lipgloss.Left,
		styles.Panel(m.exercisesView(l.rightW-2, l.exerciseH-2), "Exercises", l.rightW, l.exerciseH, m.focus == focusExercises),
		styles.Panel(m.videosView(l.rightW-2, l.videoH-2), "Videos", l.rightW, l.videoH, m.focus == focusVideos),
		styles.Panel(m.chatPanelView(l.rightW-2), "Ask your coach", l.rightW, l.chatH, m.focus == focusChat),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.footerView())
}

func (m Model) headerView() string {
	s := m.orch.Session()
	if s == nil {
		return styles.HeaderStyle.Render("fitcoach")
	}
	parts := []string{
		"fitcoach",
		"session " + s.ID,
		"BMI " + styles.FormatBMI(s.BMI),
	}
	if s.RecommendationLevel != "" {
		parts = append(parts, "level "+s.RecommendationLevel)
	}
	w, _ := m.size()
	return styles.Truncate(styles.HeaderStyle.Render(strings.Join(parts, " · ")), w)
}

func (m Model) footerView() string {
	w, _ := m.size()
	var line string
	if m.screen == screenForm {
		line = m.help.View(formHelp)
	} else {
		line = m.help.View(planHelp)
	}
	if m.status != "" {
		line = m.status + "  " + line
	}
	if m.debug && m.lastLog != "" {
		line += "  " + styles.MutedStyle.Render(m.lastLog)
	}
	return styles.Truncate(styles.StatusBarStyle.Render(line), w)
}

func (m Model) exercisesView(width, height int) string {
	rows := m.orch.Exercises().Rows()
	if len(rows) == 0 {
		return styles.MutedStyle.Render("No exercise tables in this plan.")
	}

	start := scrollStart(m.exerciseCursor, len(rows), height)
	lines := make([]string, 0, height)
	for i := start; i < len(rows) && len(lines) < height; i++ {
		b := rows[i]
		prefix := "  "
		if m.focus == focusExercises && i == m.exerciseCursor {
			prefix = styles.SelectionIndicatorStyle.Render("> ")
		}
		style := styles.RowStyle
		if m.orch.Exercises().IsActive(b.ID) {
			style = styles.ActiveRowStyle
			prefix = styles.SelectionIndicatorStyle.Render("● ")
		}
		label := b.Row.Name
		if day := b.Row.Cells[0]; day != "" {
			label = fmt.Sprintf("%s  %s", label, styles.MutedStyle.Render(day))
		}
		line := prefix + style.Render(styles.Truncate(label, width-2))
		lines = append(lines, zone.Mark(b.ID, line))
	}
	return strings.Join(lines, "\n")
}

func (m Model) videosView(width, height int) string {
	st := m.orch.Video().State()
	if st.Query == "" {
		return styles.MutedStyle.Render("Select an exercise to find demo videos.")
	}

	lines := []string{styles.MutedStyle.Render(styles.Truncate("Search: "+st.Query, width))}
	switch {
	case st.Loading:
		lines = append(lines, m.spinner.View()+" Searching…")
	case st.Err != "":
		lines = append(lines, styles.ErrorStyle.Render(styles.Truncate(st.Err, width)))
	case len(st.Videos) == 0:
		lines = append(lines, styles.MutedStyle.Render("No videos found."))
	}

	listH := max(height-len(lines)-1, 1)
	start := scrollStart(st.Selected, len(st.Videos), listH)
	for i := start; i < len(st.Videos) && i-start < listH; i++ {
		v := st.Videos[i]
		text := v.Title
		if v.ChannelTitle != "" {
			text += " · " + v.ChannelTitle
		}
		prefix, style := "  ", styles.RowStyle
		if i == st.Selected {
			prefix, style = styles.SelectionIndicatorStyle.Render("▶ "), styles.ActiveRowStyle
		}
		line := prefix + style.Render(styles.Truncate(text, width-2))
		lines = append(lines, zone.Mark(videoZonePrefix+v.VideoID, line))
	}

	if v, ok := st.SelectedVideo(); ok {
		lines = append(lines, styles.MutedStyle.Render(styles.Truncate(v.WatchURL(), width)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) chatPanelView(width int) string {
	return m.chatView.View() + "\n" + styles.Truncate(m.chatInput.View(), width)
}

// chatContent renders every turn of the thread for the chat viewport.
func (m Model) chatContent(width int) string {
	turns := m.orch.Chat().Turns()
	if len(turns) == 0 {
		return styles.MutedStyle.Render("Ask a follow-up question about your plan.")
	}

	blocks := make([]string, 0, len(turns))
	for _, t := range turns {
		var b strings.Builder
		b.WriteString(styles.UserMessageStyle.Render("You: "))
		b.WriteString(markdown.Plain(t.UserMessage, width-5))
		b.WriteString("\n")
		switch t.Status {
		case chat.TurnPending:
			b.WriteString(m.spinner.View() + " thinking…")
		case chat.TurnFailed:
			b.WriteString(styles.FailedReplyStyle.Render(t.Reply))
		default:
			b.WriteString(m.renderChatReply(t.Reply, width))
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

func (m Model) renderChatReply(reply string, width int) string {
	if m.chatMD == nil {
		return styles.ReplyStyle.Render(markdown.Plain(reply, width))
	}
	return m.chatMD.Render(reply)
}

// scrollStart returns the first visible index so that cursor stays inside a
// window of height rows.
func scrollStart(cursor, n, height int) int {
	if height <= 0 || n <= height || cursor < height {
		return 0
	}
	return min(cursor-height+1, n-height)
}
