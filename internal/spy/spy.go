// Package spy tracks which elements of a scrollable container are in view.
//
// A Spy keeps a registry of selectors, each with the bounding box measured
// when it was added. Every Scrolled event is matched against the registry and
// produces one Spied event per visible target. A window resize re-measures
// every target and drops the ones that can no longer be found.
//
// The Spy only listens to the bus while it has at least one target, and
// reports failures through return values and events rather than errors.
package spy

import (
	"github.com/billie-coop/spyglass/internal/csync"
	"github.com/billie-coop/spyglass/internal/events"
	"github.com/billie-coop/spyglass/internal/geom"
	"github.com/rs/zerolog"
)

// Target is a registered selector.
type Target struct {
	Selector string
	Box      geom.Rect
	Once     bool
}

// Spy owns one container's registry of targets.
type Spy struct {
	locator   Locator
	container Container
	bus       events.Bus
	log       zerolog.Logger

	targets  *csync.OrderedMap[string, Target]
	handlers []func()
}

// New creates a Spy for container. Elements are found through locator and
// events are exchanged over bus.
func New(locator Locator, container Container, bus events.Bus, opts ...Option) *Spy {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Spy{
		locator:   locator,
		container: container,
		bus:       bus,
		log:       o.log.With().Str("component", "spy").Logger(),
		targets:   csync.NewOrderedMap[string, Target](),
	}
}

// AddSpy starts watching selector. Adding a selector that is already watched
// replaces it, options included. It returns false, and changes nothing, when
// the selector does not resolve to a measurable element.
func (s *Spy) AddSpy(selector string, opts ...AddOption) bool {
	var o addOptions
	for _, opt := range opts {
		opt(&o)
	}

	box, ok := s.measure(selector)
	if !ok {
		s.log.Debug().Str("selector", selector).Msg("selector not found")
		return false
	}

	s.addTarget(selector, box, o.once)
	s.log.Debug().
		Str("selector", selector).
		Stringer("box", box).
		Bool("once", o.once).
		Msg("spy added")
	s.publish(events.SpyAddedEvent, selector)

	if o.checkNow {
		if r, visible := visibleInWindow(s.container); visible {
			s.check(r, selector, true)
		}
	}

	return true
}

// RemoveSpy stops watching selector. SpyRemovedEvent is published even when
// the selector was not being watched.
func (s *Spy) RemoveSpy(selector string) {
	if s.targets.Delete(selector) {
		s.log.Debug().Str("selector", selector).Msg("spy removed")
	}
	if s.targets.Len() == 0 {
		s.detach()
	}
	s.publish(events.SpyRemovedEvent, selector)
}

// Targets returns the registered targets in registry order.
func (s *Spy) Targets() []Target {
	return s.targets.Values()
}

// Len returns the number of registered targets.
func (s *Spy) Len() int {
	return s.targets.Len()
}

// Attached reports whether the Spy is listening for scroll and resize.
func (s *Spy) Attached() bool {
	return len(s.handlers) > 0
}

// Close drops every target without publishing events and stops listening.
func (s *Spy) Close() {
	s.targets.Clear()
	s.detach()
}

// addTarget stores a target and attaches the bus handlers on first use.
func (s *Spy) addTarget(selector string, box geom.Rect, once bool) {
	s.targets.Set(selector, Target{Selector: selector, Box: box, Once: once})
	s.attach()
}

func (s *Spy) measure(selector string) (geom.Rect, bool) {
	el, ok := s.locator.ResolveOne(selector)
	if !ok {
		return geom.Rect{}, false
	}
	return s.locator.Measure(el)
}

func (s *Spy) attach() {
	if s.Attached() {
		return
	}
	s.handlers = []func(){
		s.bus.Handle(events.ScrolledEvent, s.onScrolled),
		s.bus.Handle(events.WindowResizeEvent, s.onResize),
	}
	s.log.Debug().Msg("listeners attached")
}

func (s *Spy) detach() {
	if !s.Attached() {
		return
	}
	for _, stop := range s.handlers {
		stop()
	}
	s.handlers = nil
	s.log.Debug().Msg("listeners detached")
}

func (s *Spy) onScrolled(e events.Event) {
	p, ok := e.Payload.(events.ScrolledPayload)
	if !ok {
		s.log.Warn().Msgf("unexpected scrolled payload %T", e.Payload)
		return
	}
	s.Check(p.Rect)
}

func (s *Spy) onResize(events.Event) {
	s.Refresh()
}

func (s *Spy) publish(eventType events.EventType, selector string) {
	s.bus.Publish(events.Event{
		Type:    eventType,
		Payload: events.SelectorPayload{Selector: selector},
	})
}

// selectorsMatching returns, in registry order, the selectors whose box
// satisfies overlaps against r. Registry keys are unique, so is the result.
func (s *Spy) selectorsMatching(r geom.Rect, overlaps func(a, b geom.Rect) bool) []string {
	var out []string
	s.targets.Range(func(selector string, t Target) bool {
		if overlaps(t.Box, r) {
			out = append(out, selector)
		}
		return true
	})
	return out
}
