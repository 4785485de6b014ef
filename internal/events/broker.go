package events

import (
	"slices"
	"sync"
)

// HandlerFunc is called synchronously for every published event it is
// registered for.
type HandlerFunc func(event Event)

// Source lets a component listen for events of a given type.
type Source interface {
	Handle(eventType EventType, fn HandlerFunc) (unsubscribe func())
}

// Emitter publishes events.
type Emitter interface {
	Publish(event Event)
}

// Bus is both ends of an event scope.
type Bus interface {
	Source
	Emitter
}

type handler struct {
	id uint64
	fn HandlerFunc
}

// Broker manages event distribution. Handlers run synchronously on the
// publishing goroutine in registration order; channel subscribers receive a
// copy without blocking the publisher.
type Broker struct {
	handlers    map[EventType][]handler
	subscribers map[EventType][]chan Event
	nextID      uint64
	mu          sync.RWMutex
	bufferSize  int
}

// NewBroker creates a new event broker
func NewBroker() *Broker {
	return &Broker{
		handlers:    make(map[EventType][]handler),
		subscribers: make(map[EventType][]chan Event),
		bufferSize:  64,
	}
}

// Handle registers fn for eventType and returns a function that removes it.
// It is safe to call Handle or the returned function from inside a handler.
func (b *Broker) Handle(eventType EventType, fn HandlerFunc) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], handler{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { b.removeHandler(eventType, id) })
	}
}

// HandlerCount returns how many handlers are registered for eventType.
func (b *Broker) HandlerCount(eventType EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}

// Subscribe creates a channel subscription to specific event types
func (b *Broker) Subscribe(eventTypes ...EventType) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, b.bufferSize)

	// If no specific types provided, subscribe to all
	if len(eventTypes) == 0 {
		eventTypes = []EventType{Wildcard}
	}

	for _, eventType := range eventTypes {
		b.subscribers[eventType] = append(b.subscribers[eventType], ch)
	}

	return ch
}

// Unsubscribe removes a channel subscription from every event type and
// closes the channel
func (b *Broker) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var found chan Event
	for eventType := range b.subscribers {
		if c := b.removeChannel(eventType, ch); c != nil {
			found = c
		}
	}
	if found != nil {
		close(found)
	}
}

// Publish delivers an event to handlers, then to channel subscribers.
// A handler registered or removed during Publish takes effect on the next one.
func (b *Broker) Publish(event Event) {
	b.mu.RLock()
	handlers := slices.Clone(b.handlers[event.Type])
	handlers = append(handlers, b.handlers[Wildcard]...)
	b.mu.RUnlock()

	for _, h := range handlers {
		if b.active(event.Type, h.id) {
			h.fn(event)
		}
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, eventType := range []EventType{event.Type, Wildcard} {
		for _, ch := range b.subscribers[eventType] {
			select {
			case ch <- event:
			default:
				// Channel full, skip this event
			}
		}
	}
}

// Clear removes all handlers and subscriptions
func (b *Broker) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	seen := make(map[<-chan Event]bool)
	for _, subscribers := range b.subscribers {
		for _, ch := range subscribers {
			if !seen[ch] {
				seen[ch] = true
				close(ch)
			}
		}
	}

	b.subscribers = make(map[EventType][]chan Event)
	b.handlers = make(map[EventType][]handler)
}

// active reports whether handler id is still registered. A handler removed
// by an earlier handler in the same Publish is skipped.
func (b *Broker) active(eventType EventType, id uint64) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, et := range []EventType{eventType, Wildcard} {
		for _, h := range b.handlers[et] {
			if h.id == id {
				return true
			}
		}
	}
	return false
}

func (b *Broker) removeHandler(eventType EventType, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = slices.DeleteFunc(b.handlers[eventType], func(h handler) bool {
		return h.id == id
	})
	if len(b.handlers[eventType]) == 0 {
		delete(b.handlers, eventType)
	}
}

// removeChannel removes a channel from one event type's subscribers and
// returns it, or nil when it was not subscribed to that type.
func (b *Broker) removeChannel(eventType EventType, target <-chan Event) chan Event {
	subscribers := b.subscribers[eventType]
	var found chan Event
	for i, ch := range subscribers {
		if ch == target {
			b.subscribers[eventType] = append(subscribers[:i], subscribers[i+1:]...)
			found = ch
			break
		}
	}

	// Clean up empty subscriber lists
	if len(b.subscribers[eventType]) == 0 {
		delete(b.subscribers, eventType)
	}
	return found
}
