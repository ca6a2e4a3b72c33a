// Package plan manages the lifecycle of a plan-generation request and the
// Session it produces.
package plan

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/fitcoach/internal/api"
	"github.com/zjrosen/fitcoach/internal/log"
	"github.com/zjrosen/fitcoach/internal/profile"
)

// ErrSubmitInFlight is returned when Submit is called while a request is
// already pending.
var ErrSubmitInFlight = errors.New("a plan request is already in progress")

// Status of the plan request lifecycle.
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitting:
		return "submitting"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session is the server-issued record for one generated plan. It is never
// modified after creation.
type Session struct {
	ID                  string
	BMI                 float64
	RecommendationLevel string
	FitnessAnalysis     string
	WorkoutPlan         string
	NutritionTips       string

	// ExperienceLevel of the profile that produced the session.
	ExperienceLevel profile.ExperienceLevel
}

// Generator is the collaborator that produces plans.
type Generator interface {
	GeneratePlan(ctx context.Context, req api.PlanRequest) (api.PlanResponse, error)
}

// ResultMsg carries the outcome of one Submit.
type ResultMsg struct {
	Attempt int
	Session *Session
	Err     error
}

// Client tracks a single plan request at a time.
type Client struct {
	gen     Generator
	status  Status
	session *Session
	errMsg  string
	attempt int
}

// NewClient creates an idle client.
func NewClient(gen Generator) *Client {
	return &Client{gen: gen}
}

// Submit starts a plan request for p and returns the command that performs
// it. Profiles that fail validation are rejected without a network call.
func (c *Client) Submit(ctx context.Context, p profile.Profile) (tea.Cmd, error) {
	if c.status == StatusSubmitting {
		return nil, ErrSubmitInFlight
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	c.attempt++
	c.status = StatusSubmitting
	c.errMsg = ""
	attempt := c.attempt
	gen := c.gen
	req := p.Request()
	level := p.ExperienceLevel

	log.Info(log.CatPlan, "submitting profile", "attempt", attempt, "level", level)

	return func() tea.Msg {
		resp, err := gen.GeneratePlan(ctx, req)
		if err != nil {
			return ResultMsg{Attempt: attempt, Err: err}
		}
		return ResultMsg{Attempt: attempt, Session: &Session{
			ID:                  resp.SessionID,
			BMI:                 resp.BMI,
			RecommendationLevel: string(resp.RecommendationLevel),
			FitnessAnalysis:     resp.FitnessAnalysis,
			WorkoutPlan:         resp.WorkoutPlan,
			NutritionTips:       resp.NutritionTips,
			ExperienceLevel:     level,
		}}
	}, nil
}

// Apply records the outcome of the current attempt. Results from attempts
// superseded by Reset are ignored and Apply returns false.
func (c *Client) Apply(msg ResultMsg) bool {
	if msg.Attempt != c.attempt || c.status != StatusSubmitting {
		log.Debug(log.CatPlan, "discarding stale plan result", "attempt", msg.Attempt, "current", c.attempt)
		return false
	}

	if msg.Err != nil || msg.Session == nil {
		err := msg.Err
		if err == nil {
			err = &api.MalformedResponseError{Op: "generate plan", Reason: "no session"}
		}
		c.status = StatusFailed
		c.session = nil
		c.errMsg = api.UserMessage(err)
		log.ErrorErr(log.CatPlan, "plan request failed", err, "attempt", msg.Attempt)
		return true
	}

	c.status = StatusReady
	c.session = msg.Session
	c.errMsg = ""
	log.Info(log.CatPlan, "plan ready", "session", msg.Session.ID, "attempt", msg.Attempt)
	return true
}

// Reset returns to Idle with no session. A pending request's result will
// be ignored.
func (c *Client) Reset() {
	c.attempt++
	c.status = StatusIdle
	c.session = nil
	c.errMsg = ""
}

// Status returns the lifecycle state.
func (c *Client) Status() Status { return c.status }

// Session returns the current session, or nil unless Ready.
func (c *Client) Session() *Session { return c.session }

// Err returns the user-facing failure message when Failed.
func (c *Client) Err() string { return c.errMsg }
