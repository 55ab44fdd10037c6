package sync

import (
	"sync"
)

const eventBufferSize = 64

// EventKind identifies the per-item progress events emitted by a sync
// session.
type EventKind string

const (
	EventPushed       EventKind = "pushed"
	EventPushedError  EventKind = "pushed-error"
	EventPulled       EventKind = "pulled"
	EventPulledError  EventKind = "pulled-error"
	EventDeleted      EventKind = "deleted"
	EventDeletedError EventKind = "deleted-error"
)

// Event is one per-item progress notification. Err is set for the error
// kinds only.
type Event struct {
	Kind EventKind
	Type string // artifact type name
	Name string // artifact display name
	Err  error
}

// Emitter broadcasts per-item events to subscribers. One emitter is scoped
// to one sync session; nothing is global.
type Emitter struct {
	subs []chan *Event
	mu   sync.RWMutex
}

func NewEmitter() *Emitter {
	return &Emitter{
		subs: make([]chan *Event, 0),
	}
}

// Subscribe returns a channel receiving every subsequent event. Slow
// subscribers drop events rather than block the engine.
func (e *Emitter) Subscribe() <-chan *Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	ch := make(chan *Event, eventBufferSize)
	e.subs = append(e.subs, ch)
	return ch
}

// Unsubscribe removes a subscription channel and closes it.
func (e *Emitter) Unsubscribe(ch <-chan *Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, sub := range e.subs {
		if sub == ch {
			close(sub)
			e.subs = append(e.subs[:i], e.subs[i+1:]...)
			break
		}
	}
}

func (e *Emitter) emit(ev *Event) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, sub := range e.subs {
		select {
		case sub <- ev:
		default:
			// subscriber is full, skip to avoid blocking the engine
		}
	}
}

// Close closes all subscription channels.
func (e *Emitter) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, sub := range e.subs {
		close(sub)
	}
	e.subs = make([]chan *Event, 0)
}
