// Package chat keeps the follow-up conversation for a session: an
// append-only thread of turns, each resolved by identity when its reply
// arrives.
package chat

import (
	"github.com/google/uuid"
)

// TurnID identifies a turn for the lifetime of a thread.
type TurnID string

// TurnStatus is the state of a turn's reply.
type TurnStatus int

const (
	TurnPending TurnStatus = iota
	TurnResolved
	TurnFailed
)

func (s TurnStatus) String() string {
	switch s {
	case TurnPending:
		return "pending"
	case TurnResolved:
		return "resolved"
	case TurnFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Turn pairs a user message with its reply.
type Turn struct {
	ID          TurnID
	UserMessage string
	Reply       string // empty while pending
	Status      TurnStatus
}

// Thread is an ordered, append-only list of turns. Turns are only added at
// the tail and each leaves the pending state at most once.
type Thread struct {
	turns []Turn
	index map[TurnID]int
	newID func() TurnID
}

// NewThread returns an empty thread.
func NewThread() *Thread {
	return &Thread{
		index: map[TurnID]int{},
		newID: func() TurnID { return TurnID(uuid.NewString()) },
	}
}

// Append adds a pending turn for msg and returns its ID.
func (t *Thread) Append(msg string) TurnID {
	id := t.newID()
	t.index[id] = len(t.turns)
	t.turns = append(t.turns, Turn{ID: id, UserMessage: msg, Status: TurnPending})
	return id
}

// Resolve sets the reply of a pending turn. It returns false if the turn is
// unknown or no longer pending.
func (t *Thread) Resolve(id TurnID, reply string) bool {
	return t.settle(id, reply, TurnResolved)
}

// Fail resolves a pending turn to an error text.
func (t *Thread) Fail(id TurnID, text string) bool {
	return t.settle(id, text, TurnFailed)
}

func (t *Thread) settle(id TurnID, reply string, status TurnStatus) bool {
	i, ok := t.index[id]
	if !ok || t.turns[i].Status != TurnPending {
		return false
	}
	t.turns[i].Reply = reply
	t.turns[i].Status = status
	return true
}

// Turn returns the turn with id.
func (t *Thread) Turn(id TurnID) (Turn, bool) {
	i, ok := t.index[id]
	if !ok {
		return Turn{}, false
	}
	return t.turns[i], true
}

// Turns returns a copy of all turns in order.
func (t *Thread) Turns() []Turn {
	return append([]Turn(nil), t.turns...)
}

// Len returns the number of turns.
func (t *Thread) Len() int {
	return len(t.turns)
}

// Pending returns how many turns await a reply.
func (t *Thread) Pending() int {
	n := 0
	for _, turn := range t.turns {
		if turn.Status == TurnPending {
			n++
		}
	}
	return n
}
