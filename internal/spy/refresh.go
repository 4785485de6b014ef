package spy

import "github.com/billie-coop/spyglass/internal/events"

// Refresh re-measures every target after a layout change. Targets that
// still resolve keep their Once flag and get the new box; the rest are
// removed with a SpyRemovedEvent. SpiesRefreshedEvent lists the refreshed
// selectors and is only published when there is at least one.
func (s *Spy) Refresh() []string {
	var refreshed []string

	s.targets.Range(func(selector string, t Target) bool {
		box, ok := s.measure(selector)
		if !ok {
			s.log.Debug().Str("selector", selector).Msg("target gone")
			s.RemoveSpy(selector)
			return true
		}

		s.addTarget(selector, box, t.Once)
		refreshed = append(refreshed, selector)
		return true
	})

	if len(refreshed) == 0 {
		return nil
	}

	s.log.Debug().Strs("targets", refreshed).Msg("spies refreshed")
	s.bus.Publish(events.Event{
		Type:    events.SpiesRefreshedEvent,
		Payload: events.RefreshedPayload{Targets: refreshed},
	})
	return refreshed
}
