package pubsub

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Listener keeps one broker subscription alive across Update calls.
// Call Listen again after every received event to keep receiving.
type Listener[T any] struct {
	ctx context.Context
	ch  <-chan Event[T]
}

// NewListener subscribes to broker for the lifetime of ctx.
func NewListener[T any](ctx context.Context, broker *Broker[T]) *Listener[T] {
	return &Listener[T]{ctx: ctx, ch: broker.Subscribe(ctx)}
}

// Listen returns a command that yields the next Event[T] as a tea.Msg, or nil
// once the context is cancelled or the subscription closes.
func (l *Listener[T]) Listen() tea.Cmd {
	ctx, ch := l.ctx, l.ch
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-ch:
			if !ok {
				return nil
			}
			return event
		}
	}
}
