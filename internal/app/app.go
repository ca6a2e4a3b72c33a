// Package app contains the root application model.
package app

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/fitcoach/internal/chat"
	"github.com/zjrosen/fitcoach/internal/config"
	"github.com/zjrosen/fitcoach/internal/exercise"
	"github.com/zjrosen/fitcoach/internal/keys"
	"github.com/zjrosen/fitcoach/internal/log"
	"github.com/zjrosen/fitcoach/internal/plan"
	"github.com/zjrosen/fitcoach/internal/profile"
	"github.com/zjrosen/fitcoach/internal/pubsub"
	"github.com/zjrosen/fitcoach/internal/session"
	"github.com/zjrosen/fitcoach/internal/ui/logview"
	"github.com/zjrosen/fitcoach/internal/ui/markdown"
	"github.com/zjrosen/fitcoach/internal/ui/styles"
	"github.com/zjrosen/fitcoach/internal/ui/toaster"
	"github.com/zjrosen/fitcoach/internal/video"
)

type screen int

const (
	screenForm screen = iota
	screenPlan
)

type focus int

const (
	focusPlan focus = iota
	focusExercises
	focusVideos
	focusChat
	focusCount
)

var (
	formHelp help.KeyMap = keys.Form
	planHelp help.KeyMap = keys.Plan
)

const (
	defaultWidth  = 100
	defaultHeight = 32
)

// Model is the root application state.
type Model struct {
	orch  *session.Orchestrator
	cfg   config.Config
	debug bool

	screen         screen
	form           formModel
	focus          focus
	exerciseCursor int

	planView  viewport.Model
	chatView  viewport.Model
	chatInput textinput.Model
	spinner   spinner.Model
	help      help.Model
	toaster   toaster.Model

	md     *markdown.Renderer
	chatMD *markdown.Renderer

	logView logview.Model

	events *pubsub.Listener[session.Event]
	logSub *pubsub.Listener[string]

	status  string
	lastLog string

	width  int
	height int
}

// New creates the root model. The orchestrator's event broker and, in
// debug mode, the log broker are listened to for the lifetime of ctx.
func New(ctx context.Context, orch *session.Orchestrator, cfg config.Config) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.SpinnerColor)

	ti := textinput.New()
	ti.Placeholder = "Ask about your plan…"
	ti.Prompt = "> "
	ti.CharLimit = 500

	m := Model{
		orch:      orch,
		cfg:       cfg,
		debug:     cfg.Debug,
		form:      newForm(),
		planView:  viewport.New(defaultWidth/2, defaultHeight),
		chatView:  viewport.New(defaultWidth/2, defaultHeight/3),
		chatInput: ti,
		spinner:   sp,
		help:      help.New(),
		toaster:   toaster.New(),
		logView:   logview.New(),
		events:    pubsub.NewListener(ctx, orch.Events()),
	}
	if cfg.Debug {
		m.logSub = log.NewListener(ctx)
	}
	m.resize(defaultWidth, defaultHeight)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick, m.events.Listen()}
	if m.logSub != nil {
		cmds = append(cmds, m.logSub.Listen())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.orch.Chat().Pending() > 0 {
			m.refreshChat(false)
		}
		return m, cmd

	case toaster.ShowMsg, toaster.DismissMsg:
		var cmd tea.Cmd
		m.toaster, cmd = m.toaster.Update(msg)
		return m, cmd

	case pubsub.Event[session.Event]:
		return m, tea.Batch(m.handleSessionEvent(msg.Payload), m.events.Listen())

	case pubsub.Event[string]:
		m.lastLog = msg.Payload
		m.logView.Append(msg.Payload)
		if m.logSub == nil {
			return m, nil
		}
		return m, m.logSub.Listen()

	case plan.ResultMsg:
		cmd, _ := m.orch.Update(msg)
		m.afterPlanResult()
		return m, cmd

	case exercise.SelectedMsg, video.ResultMsg:
		cmd, _ := m.orch.Update(msg)
		return m, cmd

	case chat.ReplyMsg:
		cmd, _ := m.orch.Update(msg)
		m.refreshChat(true)
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blinks and other input-level messages.
	var cmd tea.Cmd
	switch {
	case m.screen == screenPlan && m.focus == focusChat:
		m.chatInput, cmd = m.chatInput.Update(msg)
	case m.screen == screenForm:
		m.form, cmd = m.form.updateInput(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Global.Quit) {
		return m, tea.Quit
	}
	if m.debug && key.Matches(msg, keys.Global.Logs) && !m.logView.Visible() {
		m.logView.Toggle()
		return m, nil
	}
	if m.logView.Visible() {
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.Global.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, keys.Global.Reset):
		m.reset()
		return m, nil
	}

	if m.screen == screenForm {
		return m.handleFormKey(msg)
	}
	return m.handlePlanKey(msg)
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	form, cmd, submit := m.form.update(msg)
	m.form = form
	if !submit {
		return m, cmd
	}
	return m.submit()
}

// submit validates the form and starts a plan request.
func (m Model) submit() (tea.Model, tea.Cmd) {
	p, err := profile.Collect(m.form.values())
	if err != nil {
		var fe profile.FieldErrors
		if errors.As(err, &fe) {
			m.form.errs = fe
		}
		return m, toaster.Notify("Please fix the highlighted fields", toaster.StyleError)
	}
	m.form.errs = nil

	cmd, err := m.orch.Submit(p)
	if errors.Is(err, plan.ErrSubmitInFlight) {
		return m, toaster.Notify("A plan is already being generated", toaster.StyleWarn)
	}
	if err != nil {
		return m, toaster.Notify(err.Error(), toaster.StyleError)
	}
	m.status = "Generating plan… BMI " + styles.FormatBMI(p.BMI())
	return m, tea.Batch(cmd, m.spinner.Tick)
}

func (m Model) handlePlanKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Plan.FocusNext):
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil
	case key.Matches(msg, keys.Plan.FocusPrev):
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil
	}

	switch m.focus {
	case focusExercises:
		n := len(m.orch.Exercises().Rows())
		switch {
		case key.Matches(msg, keys.Plan.Up):
			m.exerciseCursor = max(m.exerciseCursor-1, 0)
		case key.Matches(msg, keys.Plan.Down):
			m.exerciseCursor = min(m.exerciseCursor+1, max(n-1, 0))
		case key.Matches(msg, keys.Plan.Select):
			return m, m.orch.SelectExerciseIndex(m.exerciseCursor)
		}
		return m, nil

	case focusVideos:
		switch {
		case key.Matches(msg, keys.Plan.Up):
			m.orch.Video().SelectPrev()
		case key.Matches(msg, keys.Plan.Down):
			m.orch.Video().SelectNext()
		}
		return m, nil

	case focusChat:
		if key.Matches(msg, keys.Plan.Send) {
			return m.sendChat()
		}
		var cmd tea.Cmd
		m.chatInput, cmd = m.chatInput.Update(msg)
		return m, cmd

	default:
		var cmd tea.Cmd
		m.planView, cmd = m.planView.Update(msg)
		return m, cmd
	}
}

func (m Model) sendChat() (tea.Model, tea.Cmd) {
	cmd, err := m.orch.Send(m.chatInput.Value())
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		return m, nil
	case err != nil:
		return m, toaster.Notify(err.Error(), toaster.StyleError)
	}
	m.chatInput.Reset()
	m.refreshChat(true)
	return m, tea.Batch(cmd, m.spinner.Tick)
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.screen != screenPlan {
		return m, nil
	}
	if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease {
		for i, b := range m.orch.Exercises().Rows() {
			if z := zone.Get(b.ID); z != nil && z.InBounds(msg) {
				m.exerciseCursor = i
				m.setFocus(focusExercises)
				return m, m.orch.SelectExercise(b.ID)
			}
		}
		for _, v := range m.orch.Video().State().Videos {
			if z := zone.Get(videoZonePrefix + v.VideoID); z != nil && z.InBounds(msg) {
				m.orch.Video().SelectVideo(v.VideoID)
				m.setFocus(focusVideos)
				return m, nil
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusChat:
		m.chatView, cmd = m.chatView.Update(msg)
	default:
		m.planView, cmd = m.planView.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleSessionEvent(ev session.Event) tea.Cmd {
	switch ev.Kind {
	case session.SessionStarted:
		m.status = "Session " + ev.SessionID
		return toaster.Notify("Your plan is ready", toaster.StyleSuccess)
	case session.SessionFailed:
		m.status = ""
		return toaster.Notify(ev.Message, toaster.StyleError)
	case session.SessionReset:
		m.status = ""
		return toaster.Notify("Started a new session", toaster.StyleInfo)
	}
	return nil
}

func (m *Model) afterPlanResult() {
	switch m.orch.Plan().Status() {
	case plan.StatusReady:
		m.screen = screenPlan
		m.exerciseCursor = 0
		m.setFocus(focusExercises)
		m.refreshPlan()
		m.refreshChat(true)
	case plan.StatusFailed:
		m.screen = screenForm
		m.status = ""
	}
}

// reset discards the session and returns to the form. Form values are kept
// so the user can tweak and resubmit.
func (m *Model) reset() {
	m.orch.Reset()
	m.screen = screenForm
	m.exerciseCursor = 0
	m.status = ""
	m.chatInput.Reset()
	m.setFocus(focusPlan)
	m.refreshPlan()
	m.refreshChat(true)
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	if f == focusChat {
		m.chatInput.Focus()
	} else {
		m.chatInput.Blur()
	}
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.logView.SetSize(width, height)
	l := m.layout()

	m.planView.Width = l.leftW - 2
	m.planView.Height = l.bodyH - 2
	m.chatView.Width = l.rightW - 2
	m.chatView.Height = max(l.chatH-3, 1) // borders + input line
	m.chatInput.Width = max(l.rightW-6, 10)

	style := m.cfg.UI.MarkdownStyle
	if r, err := markdown.New(style, m.planView.Width); err == nil {
		m.md = r
	} else {
		log.ErrorErr(log.CatUI, "markdown renderer unavailable", err, "style", style)
		m.md = nil
	}
	if r, err := markdown.New(style, m.chatView.Width); err == nil {
		m.chatMD = r
	} else {
		m.chatMD = nil
	}

	m.refreshPlan()
	m.refreshChat(false)
}

func (m *Model) refreshPlan() {
	m.planView.SetContent(m.renderMarkdown(planDocument(m.orch.Session()), m.planView.Width))
	m.planView.GotoTop()
}

func (m *Model) refreshChat(toBottom bool) {
	m.chatView.SetContent(m.chatContent(m.chatView.Width))
	if toBottom {
		m.chatView.GotoBottom()
	}
}

func (m Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

// View implements tea.Model.
func (m Model) View() string {
	w, h := m.size()

	var body string
	if m.screen == screenForm {
		body = lipgloss.JoinVertical(lipgloss.Left,
			m.form.view(w, m.orch.Plan().Status() == plan.StatusSubmitting, m.spinner.View()),
			m.formErrorView(),
		)
		body = lipgloss.PlaceVertical(h-1, lipgloss.Top, body) + "\n" + m.footerView()
	} else {
		body = m.planScreenView()
	}
	return zone.Scan(m.toaster.Overlay(m.logView.Overlay(body), w, h))
}

func (m Model) formErrorView() string {
	if m.orch.Plan().Status() != plan.StatusFailed {
		return ""
	}
	return "  " + styles.ErrorStyle.Render(strings.TrimSpace(m.orch.Plan().Err()))
}
