package events

import "github.com/billie-coop/spyglass/internal/geom"

// EventType identifies the type of event
type EventType string

const (
	// Raw signals from the host
	ContainerScrollEvent EventType = "container.scroll"
	WindowResizeEvent    EventType = "window.resize"

	// Sampled scroll position of the container
	ScrolledEvent EventType = "ui.scrolled"

	// Spy events
	SpyAddedEvent       EventType = "spy.added"
	SpyRemovedEvent     EventType = "spy.removed"
	SpiedEvent          EventType = "spy.spied"
	SpiesRefreshedEvent EventType = "spy.refreshed"
)

// Wildcard subscribes to every event type.
const Wildcard EventType = "*"

// Event represents an event in the system. Target names the element an
// event is addressed to, when there is one.
type Event struct {
	Type    EventType
	Payload any
	Target  string
}

// Event payload types

// SelectorPayload is carried by SpyAddedEvent, SpyRemovedEvent and SpiedEvent.
type SelectorPayload struct {
	Selector string
}

// ScrolledPayload is the container's visible rectangle in content coordinates.
type ScrolledPayload struct {
	geom.Rect
}

// RefreshedPayload lists the selectors re-measured by SpiesRefreshedEvent,
// in registry order.
type RefreshedPayload struct {
	Targets []string
}
