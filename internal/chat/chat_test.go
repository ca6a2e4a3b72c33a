package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/fitcoach/internal/api"
)

type echoAsker struct {
	err   error
	reply string
	calls int
}

func (e *echoAsker) SendConcern(_ context.Context, _, concern string) (string, error) {
	e.calls++
	if e.err != nil {
		return "", e.err
	}
	if e.reply != "" {
		return e.reply, nil
	}
	return "re: " + concern, nil
}

func TestThread_AppendResolve(t *testing.T) {
	th := NewThread()
	a := th.Append("one")
	b := th.Append("two")
	require.NotEqual(t, a, b)
	require.Equal(t, 2, th.Len())
	require.Equal(t, 2, th.Pending())

	require.True(t, th.Resolve(b, "reply two"))
	require.False(t, th.Resolve(b, "again"), "a turn resolves once")
	require.False(t, th.Fail(b, "late failure"))
	require.True(t, th.Fail(a, "oops"))

	turns := th.Turns()
	require.Equal(t, "one", turns[0].UserMessage)
	require.Equal(t, TurnFailed, turns[0].Status)
	require.Equal(t, "reply two", turns[1].Reply)
	require.Equal(t, TurnResolved, turns[1].Status)
	require.Zero(t, th.Pending())

	_, ok := th.Turn("nope")
	require.False(t, ok)
	require.False(t, th.Resolve("nope", "x"))
}

func TestThread_TurnsIsCopy(t *testing.T) {
	th := NewThread()
	id := th.Append("hi")
	turns := th.Turns()
	turns[0].Reply = "mutated"

	turn, ok := th.Turn(id)
	require.True(t, ok)
	require.Empty(t, turn.Reply)
}

func TestSend_ValidationFailsFast(t *testing.T) {
	asker := &echoAsker{}
	c := NewClient(asker)

	_, err := c.Send(context.Background(), "s1", "   ")
	require.ErrorIs(t, err, ErrEmptyMessage)
	_, err = c.Send(context.Background(), "", "hello")
	require.ErrorIs(t, err, ErrNoSession)

	require.Zero(t, c.Thread().Len())
	require.Zero(t, asker.calls)
}

func TestSend_AppendsBeforeNetwork(t *testing.T) {
	asker := &echoAsker{}
	c := NewClient(asker)

	cmd, err := c.Send(context.Background(), "s1", " knees hurt ")
	require.NoError(t, err)
	require.Equal(t, 1, c.Thread().Len())
	require.Equal(t, 1, c.Thread().Pending())
	require.Zero(t, asker.calls)

	require.True(t, c.Apply(cmd().(ReplyMsg)))
	turn := c.Thread().Turns()[0]
	require.Equal(t, "knees hurt", turn.UserMessage)
	require.Equal(t, "re: knees hurt", turn.Reply)
	require.Equal(t, TurnResolved, turn.Status)
}

func TestApply_OutOfOrderRepliesResolveByIdentity(t *testing.T) {
	c := NewClient(&echoAsker{})
	cmd1, err := c.Send(context.Background(), "s1", "M1")
	require.NoError(t, err)
	cmd2, err := c.Send(context.Background(), "s1", "M2")
	require.NoError(t, err)

	// R2 arrives before R1.
	require.True(t, c.Apply(cmd2().(ReplyMsg)))
	require.True(t, c.Apply(cmd1().(ReplyMsg)))

	turns := c.Thread().Turns()
	require.Equal(t, "re: M1", turns[0].Reply)
	require.Equal(t, "re: M2", turns[1].Reply)
}

func TestApply_TransportFailure(t *testing.T) {
	c := NewClient(&echoAsker{err: &api.TransportError{Op: "send concern", Err: errors.New("refused")}})
	cmd, err := c.Send(context.Background(), "s1", "hello")
	require.NoError(t, err)

	require.True(t, c.Apply(cmd().(ReplyMsg)))
	turn := c.Thread().Turns()[0]
	require.Equal(t, ReplySendFailed, turn.Reply)
	require.Equal(t, TurnFailed, turn.Status)
}

func TestApply_MalformedReplyFromService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{})
	}))
	defer srv.Close()

	c := NewClient(api.New(srv.URL))
	cmd, err := c.Send(context.Background(), "s1", "hello")
	require.NoError(t, err)

	var msg tea.Msg
	require.NotPanics(t, func() { msg = cmd() })
	require.True(t, c.Apply(msg.(ReplyMsg)))

	turn := c.Thread().Turns()[0]
	require.Equal(t, ReplyInvalidResponse, turn.Reply)
	require.Equal(t, TurnFailed, turn.Status)
	require.Zero(t, c.Thread().Pending())
}

func TestApply_EmptyReplyIsInvalid(t *testing.T) {
	c := NewClient(&echoAsker{})
	id := c.Thread().Append("x")
	require.True(t, c.Apply(ReplyMsg{TurnID: id}))
	turn, _ := c.Thread().Turn(id)
	require.Equal(t, ReplyInvalidResponse, turn.Reply)
}

func TestReset_IgnoresLateReplies(t *testing.T) {
	c := NewClient(&echoAsker{})
	cmd, err := c.Send(context.Background(), "s1", "hello")
	require.NoError(t, err)

	c.Reset()
	require.Zero(t, c.Thread().Len())
	require.False(t, c.Apply(cmd().(ReplyMsg)))
	require.Zero(t, c.Thread().Len())
}

// Replies delivered in any order always land on the turn that sent them.
func TestIdentityResolution_AnyOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := NewClient(&echoAsker{})
		n := rapid.IntRange(1, 10).Draw(t, "sends")

		msgs := make([]ReplyMsg, 0, n)
		for i := 0; i < n; i++ {
			text := rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "msg")
			cmd, err := c.Send(context.Background(), "s", text)
			if err != nil {
				t.Fatalf("send: %v", err)
			}
			msgs = append(msgs, cmd().(ReplyMsg))
		}

		order := rapid.Permutation(msgs).Draw(t, "order")
		for _, m := range order {
			if !c.Apply(m) {
				t.Fatalf("reply for %s not applied", m.TurnID)
			}
		}

		turns := c.Thread().Turns()
		if len(turns) != n {
			t.Fatalf("len = %d, want %d", len(turns), n)
		}
		for _, turn := range turns {
			if turn.Reply != "re: "+turn.UserMessage || turn.Status != TurnResolved {
				t.Fatalf("turn %q got reply %q (%s)", turn.UserMessage, turn.Reply, turn.Status)
			}
		}
	})
}
