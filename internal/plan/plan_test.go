package plan

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/fitcoach/internal/api"
	"github.com/zjrosen/fitcoach/internal/profile"
)

type fakeGenerator struct {
	resp  api.PlanResponse
	err   error
	calls int
	last  api.PlanRequest
}

func (f *fakeGenerator) GeneratePlan(_ context.Context, req api.PlanRequest) (api.PlanResponse, error) {
	f.calls++
	f.last = req
	return f.resp, f.err
}

func testProfile() profile.Profile {
	return profile.Profile{
		Weight: 80, Height: 180, Gender: profile.GenderMale, Age: 30,
		FitnessGoal: "build muscle", WorkoutPreference: profile.PreferenceStrength,
		WorkoutLocation: profile.LocationGym, Duration: "1 hour",
		ExperienceLevel: profile.LevelBeginner,
	}
}

func TestSubmit_Success(t *testing.T) {
	gen := &fakeGenerator{resp: api.PlanResponse{
		SessionID: "s-1", BMI: 24.7, RecommendationLevel: "2",
		WorkoutPlan: "plan", FitnessAnalysis: "fine", NutritionTips: "eat",
	}}
	c := NewClient(gen)
	require.Equal(t, StatusIdle, c.Status())

	cmd, err := c.Submit(context.Background(), testProfile())
	require.NoError(t, err)
	require.Equal(t, StatusSubmitting, c.Status())
	require.Zero(t, gen.calls, "network call happens in the command")

	msg := cmd().(ResultMsg)
	require.True(t, c.Apply(msg))
	require.Equal(t, StatusReady, c.Status())
	require.Equal(t, 1, gen.calls)
	require.Equal(t, 1, gen.last.Gender)

	s := c.Session()
	require.NotNil(t, s)
	require.Equal(t, "s-1", s.ID)
	require.Equal(t, "2", s.RecommendationLevel)
	require.Equal(t, profile.LevelBeginner, s.ExperienceLevel)
	require.Empty(t, c.Err())
}

func TestSubmit_RejectsSecondWhileInFlight(t *testing.T) {
	c := NewClient(&fakeGenerator{resp: api.PlanResponse{SessionID: "s"}})

	_, err := c.Submit(context.Background(), testProfile())
	require.NoError(t, err)

	cmd, err := c.Submit(context.Background(), testProfile())
	require.ErrorIs(t, err, ErrSubmitInFlight)
	require.Nil(t, cmd)
	require.Equal(t, StatusSubmitting, c.Status())
}

func TestSubmit_InvalidProfileNoNetwork(t *testing.T) {
	gen := &fakeGenerator{}
	c := NewClient(gen)

	p := testProfile()
	p.Age = 5
	_, err := c.Submit(context.Background(), p)

	var fe profile.FieldErrors
	require.ErrorAs(t, err, &fe)
	require.Equal(t, StatusIdle, c.Status())
	require.Zero(t, gen.calls)
}

func TestApply_Failure(t *testing.T) {
	gen := &fakeGenerator{err: &api.TransportError{Op: "generate plan", StatusCode: 502, Err: errors.New("bad gateway")}}
	c := NewClient(gen)

	cmd, err := c.Submit(context.Background(), testProfile())
	require.NoError(t, err)
	require.True(t, c.Apply(cmd().(ResultMsg)))

	require.Equal(t, StatusFailed, c.Status())
	require.Nil(t, c.Session())
	require.Contains(t, c.Err(), "status 502")

	// Failed accepts a new submit.
	gen.err = nil
	gen.resp = api.PlanResponse{SessionID: "s-2"}
	cmd, err = c.Submit(context.Background(), testProfile())
	require.NoError(t, err)
	require.True(t, c.Apply(cmd().(ResultMsg)))
	require.Equal(t, "s-2", c.Session().ID)
}

func TestApply_NewSessionReplacesPrevious(t *testing.T) {
	gen := &fakeGenerator{resp: api.PlanResponse{SessionID: "first"}}
	c := NewClient(gen)

	cmd, _ := c.Submit(context.Background(), testProfile())
	c.Apply(cmd().(ResultMsg))
	first := c.Session()

	gen.resp = api.PlanResponse{SessionID: "second"}
	cmd, err := c.Submit(context.Background(), testProfile())
	require.NoError(t, err)
	c.Apply(cmd().(ResultMsg))

	require.Equal(t, "second", c.Session().ID)
	require.Equal(t, "first", first.ID)
}

func TestReset_DiscardsLateResult(t *testing.T) {
	c := NewClient(&fakeGenerator{resp: api.PlanResponse{SessionID: "late"}})

	cmd, err := c.Submit(context.Background(), testProfile())
	require.NoError(t, err)
	c.Reset()
	require.Equal(t, StatusIdle, c.Status())

	require.False(t, c.Apply(cmd().(ResultMsg)))
	require.Equal(t, StatusIdle, c.Status())
	require.Nil(t, c.Session())
}

func TestApply_NilSessionIsMalformed(t *testing.T) {
	c := NewClient(&fakeGenerator{})
	_, err := c.Submit(context.Background(), testProfile())
	require.NoError(t, err)

	require.True(t, c.Apply(ResultMsg{Attempt: 1}))
	require.Equal(t, StatusFailed, c.Status())
	require.Contains(t, c.Err(), "unexpected response")
}

func TestStatus_String(t *testing.T) {
	require.Equal(t, "submitting", StatusSubmitting.String())
	require.Equal(t, "unknown", Status(42).String())
}
