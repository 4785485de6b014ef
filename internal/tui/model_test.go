package tui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/billie-coop/spyglass/internal/events"
	"github.com/billie-coop/spyglass/internal/geom"
	"github.com/billie-coop/spyglass/internal/spy"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T, opts Options) (*Model, *clock.Mock) {
	t.Helper()
	mock := clock.NewMock()
	opts.Clock = mock
	opts.Style = testStyle
	m := New(DefaultDocument(), opts)
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, mock
}

func targetSelectors(s *spy.Spy) []string {
	var out []string
	for _, t := range s.Targets() {
		out = append(out, t.Selector)
	}
	return out
}

func TestModelRegistersSections(t *testing.T) {
	m, _ := newTestModel(t, Options{CheckNow: true})

	assert.Equal(t, len(m.doc.Sections), m.Spy().Len())
	assert.True(t, m.Spy().Attached())
	assert.Equal(t, "#introduction", targetSelectors(m.Spy())[0])

	// Visible at registration
	assert.True(t, m.Layout().Seen("introduction"))
	assert.False(t, m.Layout().Seen("the-end"))
}

func TestModelWithoutCheckNow(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	assert.Equal(t, 0, m.Layout().SeenCount())
}

func TestModelContainer(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	w, h := m.Size()
	assert.Equal(t, float64(100-feedWidth-1), w)
	assert.Equal(t, float64(30-headerHeight-footerHeight-1), h)
	assert.Equal(t, geom.Rect{Top: 1, Bottom: 28, Left: 0, Right: 65}, m.Bounds())
	assert.Equal(t, geom.Rect{Top: 0, Bottom: 29, Left: 0, Right: 99}, m.Window())
	assert.Equal(t, geom.Rect{Top: 0, Bottom: 27, Left: 0, Right: 65}, spy.VisibleRect(m))

	top, left := m.ScrollOffset()
	assert.Zero(t, top)
	assert.Zero(t, left)
}

func TestModelScroll(t *testing.T) {
	m, _ := newTestModel(t, Options{CheckNow: true})

	cmd := m.ScrollTo(m.maxYOffset(), 0)
	require.NotNil(t, cmd)

	top, _ := m.ScrollOffset()
	assert.Equal(t, float64(m.maxYOffset()), top)
	assert.True(t, m.Layout().Seen("the-end"))

	t.Run("clamped", func(t *testing.T) {
		assert.Nil(t, m.ScrollBy(1000, 0))
		top, _ := m.ScrollOffset()
		assert.Equal(t, float64(m.maxYOffset()), top)
	})
}

func TestModelScrollSettles(t *testing.T) {
	m, mock := newTestModel(t, Options{})
	rec := events.NewRecorder(m.broker, events.ScrolledEvent)
	defer rec.Stop()

	m.ScrollBy(1, 0)
	m.ScrollBy(1, 0)
	assert.Equal(t, 1, rec.Count(events.ScrolledEvent), "second scroll is throttled")

	// A stale settle does nothing
	m.Update(scrollSettleMsg{seq: m.scrollSeq - 1})
	assert.Equal(t, 1, rec.Count(events.ScrolledEvent))

	mock.Add(m.opts.Throttle)
	m.Update(scrollSettleMsg{seq: m.scrollSeq})
	require.Equal(t, 2, rec.Count(events.ScrolledEvent))

	last, ok := rec.Last(events.ScrolledEvent)
	require.True(t, ok)
	assert.Equal(t, spy.VisibleRect(m), last.Payload.(events.ScrolledPayload).Rect)

	// Nothing left to catch up on
	mock.Add(m.opts.Throttle)
	m.Update(scrollSettleMsg{seq: m.scrollSeq})
	assert.Equal(t, 2, rec.Count(events.ScrolledEvent))
}

func TestModelHideTopSection(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	rec := events.NewRecorder(m.broker)
	defer rec.Stop()
	total := m.Spy().Len()

	require.True(t, m.HideTopSection())

	assert.Equal(t, total-1, m.Spy().Len())
	assert.NotContains(t, targetSelectors(m.Spy()), "#introduction")
	assert.Equal(t, 1, rec.Count(events.SpyRemovedEvent))
	assert.Equal(t, 1, rec.Count(events.SpiesRefreshedEvent))

	box, ok := m.Layout().Box("getting-around")
	require.True(t, ok)
	assert.Equal(t, float64(0), box.Top)
}

func TestModelResize(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	rec := events.NewRecorder(m.broker)
	defer rec.Stop()
	total := m.Spy().Len()

	m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})

	assert.Equal(t, 1, rec.Count(events.SpiesRefreshedEvent))
	assert.Equal(t, 0, rec.Count(events.SpyAddedEvent))
	assert.Equal(t, total, m.Spy().Len())

	w, _ := m.Size()
	assert.Equal(t, float64(59), w, "no side panel on narrow terminals")
}

func TestModelOnce(t *testing.T) {
	m, _ := newTestModel(t, Options{Once: true, CheckNow: true})

	assert.True(t, m.Layout().Seen("introduction"))
	assert.NotContains(t, targetSelectors(m.Spy()), "#introduction")
	assert.Less(t, m.Spy().Len(), len(m.doc.Sections))
}

func TestModelReset(t *testing.T) {
	m, _ := newTestModel(t, Options{Once: true, CheckNow: true})
	m.ScrollTo(m.maxYOffset(), 0)
	m.HideTopSection()

	m.Reset()

	for _, s := range m.doc.Sections {
		assert.False(t, s.Hidden, s.ID)
	}
	top, _ := m.ScrollOffset()
	assert.Zero(t, top)
	assert.True(t, m.Layout().Seen("introduction"))
	assert.False(t, m.Layout().Seen("the-end"))
	assert.NotContains(t, targetSelectors(m.Spy()), "#introduction")
	assert.Contains(t, targetSelectors(m.Spy()), "#the-end")
}

func TestModelFeed(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	_, cmd := m.Update(events.Event{
		Type:    events.SpiedEvent,
		Payload: events.SelectorPayload{Selector: "#matching"},
	})
	assert.NotNil(t, cmd)
	require.Len(t, m.feed, 1)
	assert.Contains(t, m.feed[0], "#matching")

	m.Update(events.Event{
		Type:    events.SpiesRefreshedEvent,
		Payload: events.RefreshedPayload{Targets: []string{"#a", "#b"}},
	})
	assert.Contains(t, m.feed[1], "2 targets")
}

func TestModelView(t *testing.T) {
	m := New(DefaultDocument(), Options{Style: testStyle, Clock: clock.NewMock()})
	defer m.Close()
	assert.Equal(t, "Initializing...", m.render())

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	view := m.render()
	assert.Contains(t, view, "Spyglass")
	assert.Contains(t, view, "watching")
}

func TestModelReload(t *testing.T) {
	m, _ := newTestModel(t, Options{CheckNow: true})
	m.HideTopSection()
	rec := events.NewRecorder(m.broker)
	defer rec.Stop()

	edited := ParseMarkdown(strings.Replace(sampleMarkdown, "## The end", "## Appendix", 1))
	m.Update(DocumentChangedMsg{Doc: edited})

	selectors := targetSelectors(m.Spy())
	assert.Contains(t, selectors, "#appendix")
	assert.NotContains(t, selectors, "#the-end")
	assert.NotContains(t, selectors, "#introduction", "hidden sections stay hidden")

	intro, ok := edited.Section("introduction")
	require.True(t, ok)
	assert.True(t, intro.Hidden)

	assert.Equal(t, 1, rec.Count(events.SpyAddedEvent))
	assert.Equal(t, 1, rec.Count(events.SpyRemovedEvent))
	assert.Equal(t, 1, rec.Count(events.SpiesRefreshedEvent))
}

type memProgress struct {
	seen   []string
	resets int
}

func (p *memProgress) Seen() []string { return p.seen }

func (p *memProgress) MarkSeen(id string) error {
	p.seen = append(p.seen, id)
	return nil
}

func (p *memProgress) Reset() error {
	p.seen = nil
	p.resets++
	return nil
}

func TestModelProgress(t *testing.T) {
	progress := &memProgress{seen: []string{"the-end", "gone-section"}}
	m, _ := newTestModel(t, Options{CheckNow: true, Progress: progress})

	assert.True(t, m.Layout().Seen("the-end"), "restored")
	assert.Contains(t, progress.seen, "introduction")
	assert.Equal(t, len(progress.seen)-1, m.Layout().SeenCount(), "unknown IDs are not counted")

	m.Reset()
	assert.Equal(t, 1, progress.resets)
	assert.False(t, m.Layout().Seen("the-end"))
	assert.Contains(t, progress.seen, "introduction")
	assert.NotContains(t, progress.seen, "the-end")
}

func TestModelRowBelowPaneIsNotSeen(t *testing.T) {
	var src strings.Builder
	for i := range 20 {
		fmt.Fprintf(&src, "## S%d\n", i)
	}
	m := New(ParseMarkdown(src.String()), Options{Style: testStyle, Clock: clock.NewMock(), CheckNow: true})
	defer m.Close()

	// No side panel; the pane shows rows 0..9
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 12})

	box, ok := m.Layout().Box("s5")
	require.True(t, ok)
	require.Equal(t, float64(10), box.Top)

	assert.True(t, m.Layout().Seen("s4"))
	assert.False(t, m.Layout().Seen("s5"), "first row below the pane")

	m.ScrollBy(2, 0)
	assert.True(t, m.Layout().Seen("s5"))
	assert.False(t, m.Layout().Seen("s6"))
}
