package chat

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/fitcoach/internal/api"
	"github.com/zjrosen/fitcoach/internal/log"
)

var (
	// ErrEmptyMessage is returned by Send for a blank message.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrNoSession is returned by Send when there is no session to talk to.
	ErrNoSession = errors.New("no active session")
)

// Texts shown in place of a reply that could not be obtained.
const (
	ReplyInvalidResponse = "Error: Invalid response"
	ReplySendFailed      = "Error sending message"
)

// Asker is the chat collaborator.
type Asker interface {
	SendConcern(ctx context.Context, sessionID, concern string) (string, error)
}

// ReplyMsg carries the outcome for one turn.
type ReplyMsg struct {
	TurnID TurnID
	Reply  string
	Err    error
}

// Client sends messages and resolves their turns. Several sends may be in
// flight; each reply resolves only its own turn.
type Client struct {
	asker  Asker
	thread *Thread
}

// NewClient creates a client with an empty thread.
func NewClient(asker Asker) *Client {
	return &Client{asker: asker, thread: NewThread()}
}

// Send appends a pending turn for message and returns the command that
// fetches its reply. Nothing is appended when the message is blank or there
// is no session.
func (c *Client) Send(ctx context.Context, sessionID, message string) (tea.Cmd, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if sessionID == "" {
		return nil, ErrNoSession
	}

	id := c.thread.Append(message)
	log.Debug(log.CatChat, "turn appended", "turn", id, "session", sessionID)

	asker := c.asker
	return func() tea.Msg {
		reply, err := asker.SendConcern(ctx, sessionID, message)
		return ReplyMsg{TurnID: id, Reply: reply, Err: err}
	}, nil
}

// Apply resolves the turn named by msg. Replies for turns that are unknown
// (for example after Reset) or already resolved are ignored.
func (c *Client) Apply(msg ReplyMsg) bool {
	var ok bool
	switch {
	case msg.Err == nil && msg.Reply != "":
		ok = c.thread.Resolve(msg.TurnID, msg.Reply)
	case msg.Err == nil, api.IsMalformed(msg.Err):
		ok = c.thread.Fail(msg.TurnID, ReplyInvalidResponse)
	default:
		ok = c.thread.Fail(msg.TurnID, ReplySendFailed)
	}

	if !ok {
		log.Debug(log.CatChat, "ignoring reply for unknown turn", "turn", msg.TurnID)
		return false
	}
	if msg.Err != nil {
		log.ErrorErr(log.CatChat, "turn failed", msg.Err, "turn", msg.TurnID)
	}
	return true
}

// Reset starts a new, empty thread.
func (c *Client) Reset() {
	c.thread = NewThread()
}

// Thread returns the current thread for rendering.
func (c *Client) Thread() *Thread {
	return c.thread
}
