package spy

import (
	"slices"

	"github.com/billie-coop/spyglass/internal/events"
	"github.com/billie-coop/spyglass/internal/geom"
)

// Check matches every target against the visible rectangle r and publishes
// one SpiedEvent per target in view. It returns the matched selectors.
func (s *Spy) Check(r geom.Rect) []string {
	return s.check(r, "", false)
}

// check runs one matching pass. When filtered, the pass is restricted to
// the selector only, whatever its value.
//
// Both axis subsets are computed before anything fires, so a fire-once
// target removed during the pass does not change what the rest of the pass
// sees.
func (s *Spy) check(r geom.Rect, only string, filtered bool) []string {
	top := s.selectorsMatching(r, geom.OverlapsVertical)
	left := s.selectorsMatching(r, geom.OverlapsHorizontal)
	if len(top) == 0 || len(left) == 0 {
		return nil
	}

	var triggered []string
	for _, selector := range top {
		if filtered && only != selector {
			continue
		}
		if slices.Contains(triggered, selector) || !slices.Contains(left, selector) {
			continue
		}
		triggered = append(triggered, selector)
		s.trigger(selector)
	}
	return triggered
}

// trigger publishes SpiedEvent for selector, addressed to its element, and
// removes the target if it fires once.
func (s *Spy) trigger(selector string) {
	var target string
	if el, ok := s.locator.ResolveOne(selector); ok {
		target = el.ID()
	}

	s.log.Debug().Str("selector", selector).Str("target", target).Msg("spied")
	s.bus.Publish(events.Event{
		Type:    events.SpiedEvent,
		Payload: events.SelectorPayload{Selector: selector},
		Target:  target,
	})

	if t, ok := s.targets.Get(selector); ok && t.Once {
		s.RemoveSpy(selector)
	}
}
