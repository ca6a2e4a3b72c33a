package exercise

import (
	"fmt"

	"github.com/zjrosen/fitcoach/internal/log"
)

// SelectedMsg is emitted when the user activates an exercise row.
type SelectedMsg struct {
	Name string
}

// Binding ties a stable row ID to a parsed row.
type Binding struct {
	ID  string
	Row Row
}

// Bridge maps rows of the current plan to selection intents. Bindings are
// rebuilt wholesale when the plan changes; IDs from earlier builds never
// match again.
type Bridge struct {
	epoch    int
	bindings []Binding
	byID     map[string]int
	active   string
}

// NewBridge returns an empty bridge.
func NewBridge() *Bridge {
	return &Bridge{byID: map[string]int{}}
}

// Rebuild replaces all bindings with rows parsed from markdown and clears
// the active row.
func (b *Bridge) Rebuild(markdown string) {
	b.epoch++
	b.active = ""

	rows := Parse(markdown)
	b.bindings = make([]Binding, 0, len(rows))
	b.byID = make(map[string]int, len(rows))
	for _, r := range rows {
		id := fmt.Sprintf("exercise-%d-%d-%d", b.epoch, r.Table, r.Index)
		b.byID[id] = len(b.bindings)
		b.bindings = append(b.bindings, Binding{ID: id, Row: r})
	}
	log.Debug(log.CatUI, "exercise bindings rebuilt", "epoch", b.epoch, "rows", len(b.bindings))
}

// Activate marks the row with id as the only active row and returns its
// exercise name. Unknown or stale IDs leave the state unchanged.
func (b *Bridge) Activate(id string) (string, bool) {
	i, ok := b.byID[id]
	if !ok {
		return "", false
	}
	b.active = id
	return b.bindings[i].Row.Name, true
}

// ActivateIndex activates the i-th binding in document order.
func (b *Bridge) ActivateIndex(i int) (string, bool) {
	if i < 0 || i >= len(b.bindings) {
		return "", false
	}
	return b.Activate(b.bindings[i].ID)
}

// Active returns the active binding, if any.
func (b *Bridge) Active() (Binding, bool) {
	i, ok := b.byID[b.active]
	if !ok {
		return Binding{}, false
	}
	return b.bindings[i], true
}

// ActiveIndex returns the position of the active binding or -1.
func (b *Bridge) ActiveIndex() int {
	if i, ok := b.byID[b.active]; ok {
		return i
	}
	return -1
}

// IsActive reports whether id is the active row.
func (b *Bridge) IsActive(id string) bool {
	return id != "" && id == b.active
}

// Rows returns the current bindings in document order.
func (b *Bridge) Rows() []Binding {
	return b.bindings
}

// Clear drops every binding, as if the plan were empty.
func (b *Bridge) Clear() {
	b.Rebuild("")
}
