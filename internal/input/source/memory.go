package source

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/keys/internal/input/key"
)

type subscription struct {
	id string
	t  key.EventType
	fn func(*key.Event)
}

// Memory is an in-process input source. Events are delivered
// synchronously on the goroutine that emits them.
type Memory struct {
	mu   sync.RWMutex
	subs []subscription
}

// NewMemory creates an empty source.
func NewMemory() *Memory {
	return &Memory{}
}

// Subscribe registers fn for events of type t and returns the subscription ID.
func (m *Memory) Subscribe(t key.EventType, fn func(*key.Event)) string {
	id := uuid.New().String()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, subscription{id: id, t: t, fn: fn})
	return id
}

// Unsubscribe removes a subscription. Returns false for unknown IDs.
func (m *Memory) Unsubscribe(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, s := range m.subs {
		if s.id == id {
			m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Subscribers returns the number of subscriptions for t.
func (m *Memory) Subscribers(t key.EventType) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, s := range m.subs {
		if s.t == t {
			n++
		}
	}
	return n
}

// Emit delivers ev to every subscriber of ev.Type in subscription order
// and returns how many were called. Subscribers may subscribe or
// unsubscribe while being called; the change applies to the next event.
func (m *Memory) Emit(ev *key.Event) int {
	if ev == nil {
		return 0
	}

	m.mu.RLock()
	targets := make([]func(*key.Event), 0, len(m.subs))
	for _, s := range m.subs {
		if s.t == ev.Type {
			targets = append(targets, s.fn)
		}
	}
	m.mu.RUnlock()

	for _, fn := range targets {
		fn(ev)
	}
	return len(targets)
}

// Press emits a keydown followed by a keyup for code and returns both events.
func (m *Memory) Press(code int, mods key.Modifier) (down, up *key.Event) {
	down = key.NewEvent(key.KeyDown, code, mods)
	m.Emit(down)
	up = key.NewEvent(key.KeyUp, code, mods)
	m.Emit(up)
	return down, up
}

// Type emits a keydown for each combo, with target as the focused element.
func (m *Memory) Type(target string, combos ...key.Combo) []*key.Event {
	events := make([]*key.Event, 0, len(combos))
	for _, c := range combos {
		ev := key.NewEvent(key.KeyDown, c.Key().Code, c.Modifiers())
		ev.Target = target
		m.Emit(ev)
		events = append(events, ev)
	}
	return events
}
