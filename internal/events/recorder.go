package events

import "sync"

// Recorder captures events from a Source. It is meant for tests and for the
// reader's event log.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	stops  []func()
}

// NewRecorder records every event of the given types published on src.
// With no types it records everything.
func NewRecorder(src Source, eventTypes ...EventType) *Recorder {
	r := &Recorder{}
	if len(eventTypes) == 0 {
		eventTypes = []EventType{Wildcard}
	}
	for _, eventType := range eventTypes {
		r.stops = append(r.stops, src.Handle(eventType, r.record))
	}
	return r
}

func (r *Recorder) record(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Of returns the recorded events of one type, in order.
func (r *Recorder) Of(eventType EventType) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many events of eventType were recorded.
func (r *Recorder) Count(eventType EventType) int {
	return len(r.Of(eventType))
}

// Last returns the most recent event of eventType.
func (r *Recorder) Last(eventType EventType) (Event, bool) {
	of := r.Of(eventType)
	if len(of) == 0 {
		return Event{}, false
	}
	return of[len(of)-1], true
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// Stop detaches the recorder from its source.
func (r *Recorder) Stop() {
	for _, stop := range r.stops {
		stop()
	}
	r.stops = nil
}
