package spy

import (
	"github.com/billie-coop/spyglass/internal/events"
	"github.com/rs/zerolog"
)

// Scroller turns raw container scroll signals into throttled Scrolled events
// carrying the container's visible rectangle.
type Scroller struct {
	container Container
	bus       events.Bus
	throttle  *Throttle
	log       zerolog.Logger
	stop      func()
}

// NewScroller starts listening for ContainerScrollEvent on bus.
func NewScroller(container Container, bus events.Bus, opts ...Option) *Scroller {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := &Scroller{
		container: container,
		bus:       bus,
		throttle:  NewThrottle(o.clock, o.throttle),
		log:       o.log.With().Str("component", "scroller").Logger(),
	}
	s.stop = bus.Handle(events.ContainerScrollEvent, func(events.Event) {
		s.Scroll()
	})
	return s
}

// Scroll handles one raw scroll signal. It returns false when the signal was
// dropped by the throttle.
func (s *Scroller) Scroll() bool {
	if !s.throttle.Allow() {
		s.log.Trace().Msg("scroll throttled")
		return false
	}

	r := VisibleRect(s.container)
	s.log.Debug().Stringer("rect", r).Msg("scrolled")
	s.bus.Publish(events.Event{
		Type:    events.ScrolledEvent,
		Payload: events.ScrolledPayload{Rect: r},
	})
	return true
}

// Close stops listening for scroll signals.
func (s *Scroller) Close() {
	s.stop()
}
