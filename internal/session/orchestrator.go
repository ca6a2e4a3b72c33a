// Package session ties the plan, exercise, video and chat components
// together. It owns the current Session and is the only place that starts
// or clears one.
package session

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/fitcoach/internal/chat"
	"github.com/zjrosen/fitcoach/internal/config"
	"github.com/zjrosen/fitcoach/internal/exercise"
	"github.com/zjrosen/fitcoach/internal/log"
	"github.com/zjrosen/fitcoach/internal/plan"
	"github.com/zjrosen/fitcoach/internal/profile"
	"github.com/zjrosen/fitcoach/internal/pubsub"
	"github.com/zjrosen/fitcoach/internal/video"
)

// Collaborator is the remote coaching service.
type Collaborator interface {
	plan.Generator
	video.Searcher
	chat.Asker
}

// EventKind classifies lifecycle events.
type EventKind int

const (
	SessionStarted EventKind = iota
	SessionFailed
	SessionReset
)

func (k EventKind) String() string {
	switch k {
	case SessionStarted:
		return "started"
	case SessionFailed:
		return "failed"
	case SessionReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event describes a session lifecycle transition.
type Event struct {
	Kind      EventKind
	SessionID string
	Message   string
}

// Orchestrator routes messages between components.
type Orchestrator struct {
	ctx    context.Context
	plan   *plan.Client
	bridge *exercise.Bridge
	video  *video.Lookup
	chat   *chat.Client
	events *pubsub.Broker[Event]
}

// New creates an orchestrator with no session. ctx bounds every request
// it starts.
func New(ctx context.Context, c Collaborator, videoCfg config.VideoConfig) *Orchestrator {
	return &Orchestrator{
		ctx:    ctx,
		plan:   plan.NewClient(c),
		bridge: exercise.NewBridge(),
		video:  video.NewLookupFromConfig(c, videoCfg),
		chat:   chat.NewClient(c),
		events: pubsub.NewBroker[Event](),
	}
}

// Submit starts a plan request.
func (o *Orchestrator) Submit(p profile.Profile) (tea.Cmd, error) {
	return o.plan.Submit(o.ctx, p)
}

// SelectExercise activates the exercise row with id and starts a video
// search for it. Stale or unknown IDs do nothing.
func (o *Orchestrator) SelectExercise(id string) tea.Cmd {
	name, ok := o.bridge.Activate(id)
	if !ok {
		return nil
	}
	return selected(name)
}

// SelectExerciseIndex is SelectExercise by position.
func (o *Orchestrator) SelectExerciseIndex(i int) tea.Cmd {
	name, ok := o.bridge.ActivateIndex(i)
	if !ok {
		return nil
	}
	return selected(name)
}

func selected(name string) tea.Cmd {
	return func() tea.Msg { return exercise.SelectedMsg{Name: name} }
}

// Send posts a chat message for the current session.
func (o *Orchestrator) Send(message string) (tea.Cmd, error) {
	id := ""
	if s := o.plan.Session(); s != nil {
		id = s.ID
	}
	return o.chat.Send(o.ctx, id, message)
}

// Update routes component messages. handled is false for messages that
// belong to no component.
func (o *Orchestrator) Update(msg tea.Msg) (cmd tea.Cmd, handled bool) {
	switch msg := msg.(type) {
	case plan.ResultMsg:
		if !o.plan.Apply(msg) {
			return nil, true
		}
		o.onPlanResult()
		return nil, true

	case exercise.SelectedMsg:
		s := o.plan.Session()
		if s == nil {
			return nil, true
		}
		return o.video.Search(o.ctx, msg.Name, string(s.ExperienceLevel)), true

	case video.ResultMsg:
		o.video.Apply(msg)
		return nil, true

	case chat.ReplyMsg:
		o.chat.Apply(msg)
		return nil, true
	}
	return nil, false
}

func (o *Orchestrator) onPlanResult() {
	switch o.plan.Status() {
	case plan.StatusReady:
		s := o.plan.Session()
		o.bridge.Rebuild(s.WorkoutPlan)
		o.video.Reset()
		o.chat.Reset()
		log.Info(log.CatSession, "session started", "session", s.ID, "exercises", len(o.bridge.Rows()))
		o.events.Publish(Event{Kind: SessionStarted, SessionID: s.ID})
	case plan.StatusFailed:
		o.bridge.Clear()
		o.video.Reset()
		o.chat.Reset()
		log.Warn(log.CatSession, "session failed", "error", o.plan.Err())
		o.events.Publish(Event{Kind: SessionFailed, Message: o.plan.Err()})
	}
}

// Reset discards the session and every piece of dependent state.
func (o *Orchestrator) Reset() {
	id := ""
	if s := o.plan.Session(); s != nil {
		id = s.ID
	}
	o.plan.Reset()
	o.bridge.Clear()
	o.video.Reset()
	o.chat.Reset()
	log.Info(log.CatSession, "session reset", "session", id)
	o.events.Publish(Event{Kind: SessionReset, SessionID: id})
}

// Session returns the current session, or nil.
func (o *Orchestrator) Session() *plan.Session { return o.plan.Session() }

// Plan exposes the plan client state.
func (o *Orchestrator) Plan() *plan.Client { return o.plan }

// Exercises exposes the selection bridge.
func (o *Orchestrator) Exercises() *exercise.Bridge { return o.bridge }

// Video exposes the video lookup.
func (o *Orchestrator) Video() *video.Lookup { return o.video }

// Chat exposes the chat thread.
func (o *Orchestrator) Chat() *chat.Thread { return o.chat.Thread() }

// Events returns the lifecycle event broker.
func (o *Orchestrator) Events() *pubsub.Broker[Event] { return o.events }

// Close releases the event broker.
func (o *Orchestrator) Close() {
	o.events.Close()
}
