package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/billie-coop/spyglass/internal/events"
	"github.com/billie-coop/spyglass/internal/geom"
	"github.com/billie-coop/spyglass/internal/spy"
	"github.com/charmbracelet/bubbles/v2/help"
	"github.com/charmbracelet/bubbles/v2/key"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/rs/zerolog"
)

const (
	headerHeight = 1
	footerHeight = 1
	feedWidth    = 34 // Side panel, hidden below minFeedWidth
	minFeedWidth = 80
)

// Progress persists which sections have been seen.
type Progress interface {
	Seen() []string
	MarkSeen(id string) error
	Reset() error
}

// Options configures the reader.
type Options struct {
	Throttle time.Duration
	Once     bool
	CheckNow bool
	Style    string
	Logger   *zerolog.Logger
	Clock    clock.Clock
	Progress Progress
}

// DocumentChangedMsg carries a new version of the document, read from disk.
type DocumentChangedMsg struct {
	Doc *Document
}

// scrollSettleMsg re-samples the pane once a throttle window has passed, so
// the last position of a fast scroll is not lost to the throttle.
type scrollSettleMsg struct {
	seq int
}

// Model is the reader: a document in a scrollable pane, every section
// watched by a spy.
type Model struct {
	opts   Options
	doc    *Document
	layout *Layout
	keys   KeyMap

	viewport viewport.Model
	help     help.Model

	// Event system
	broker   *events.Broker
	eventSub <-chan events.Event
	spy      *spy.Spy
	scroller *spy.Scroller
	log      zerolog.Logger

	width      int
	height     int
	yOffset    int
	xOffset    int
	scrollSeq  int
	lastSample geom.Rect
	registered bool
	feed       []string
}

var _ spy.Container = (*Model)(nil)

// New creates a reader for doc.
func New(doc *Document, opts Options) *Model {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Throttle <= 0 {
		opts.Throttle = spy.DefaultThrottle
	}
	if opts.Style == "" {
		opts.Style = "dark"
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	m := &Model{
		opts:   opts,
		doc:    doc,
		layout: NewLayout(doc, opts.Style),
		keys:   DefaultKeyMap(),
		help:   help.New(),
		broker: events.NewBroker(),
		log:    log,
	}

	if opts.Progress != nil {
		m.layout.RestoreSeen(opts.Progress.Seen())
	}

	spyOpts := []spy.Option{
		spy.WithLogger(log),
		spy.WithClock(opts.Clock),
		spy.WithThrottle(opts.Throttle),
	}
	m.spy = spy.New(m.layout, m, m.broker, spyOpts...)
	m.scroller = spy.NewScroller(m, m.broker, spyOpts...)

	// Seen markers must not be lost, so they use a handler; the feed can
	// afford to drop events and reads from a channel.
	m.broker.Handle(events.SpiedEvent, m.onSpied)
	m.broker.Handle(events.ScrolledEvent, func(e events.Event) {
		if p, ok := e.Payload.(events.ScrolledPayload); ok {
			m.lastSample = p.Rect
		}
	})
	m.eventSub = m.broker.Subscribe(
		events.SpyAddedEvent,
		events.SpyRemovedEvent,
		events.SpiedEvent,
		events.SpiesRefreshedEvent,
	)

	return m
}

// Init starts listening for spy events.
func (m *Model) Init() tea.Cmd {
	return m.listenForEvents()
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case events.Event:
		m.handleEvent(msg)
		return m, m.listenForEvents()

	case scrollSettleMsg:
		if msg.seq == m.scrollSeq && m.lastSample != spy.VisibleRect(m) {
			m.broker.Publish(events.Event{Type: events.ContainerScrollEvent})
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.Resize(msg.Width, msg.Height)
		return m, nil

	case DocumentChangedMsg:
		m.Reload(msg.Doc)
		return m, nil

	case tea.MouseWheelMsg:
		switch msg.Button {
		case tea.MouseWheelDown:
			return m, m.ScrollBy(3, 0)
		case tea.MouseWheelUp:
			return m, m.ScrollBy(-3, 0)
		}

	case tea.KeyPressMsg:
		_, vh := m.paneSize()
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Down):
			return m, m.ScrollBy(1, 0)
		case key.Matches(msg, m.keys.Up):
			return m, m.ScrollBy(-1, 0)
		case key.Matches(msg, m.keys.Right):
			return m, m.ScrollBy(0, 4)
		case key.Matches(msg, m.keys.Left):
			return m, m.ScrollBy(0, -4)
		case key.Matches(msg, m.keys.PageDown):
			return m, m.ScrollBy(vh, 0)
		case key.Matches(msg, m.keys.PageUp):
			return m, m.ScrollBy(-vh, 0)
		case key.Matches(msg, m.keys.Home):
			return m, m.ScrollTo(0, m.xOffset)
		case key.Matches(msg, m.keys.End):
			return m, m.ScrollTo(m.maxYOffset(), m.xOffset)
		case key.Matches(msg, m.keys.Hide):
			m.HideTopSection()
			return m, nil
		case key.Matches(msg, m.keys.Reset):
			m.Reset()
			return m, nil
		}
	}

	return m, nil
}

// View renders the UI
func (m *Model) View() tea.View {
	return tea.NewView(m.render())
}

func (m *Model) render() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	title := m.doc.Title
	if title == "" {
		title = "spyglass"
	}
	header := headerStyle.Render(title) + mutedStyle.Render(fmt.Sprintf(
		"  seen %d/%d · watching %d",
		m.layout.SeenCount(), len(m.doc.Sections), m.spy.Len(),
	))

	body := m.viewport.View()
	if fw := m.feedWidth(); fw > 0 {
		_, vh := m.paneSize()
		feed := feedStyle.
			Width(fw - 2). // Account for border width
			Height(vh - 2).
			Render(m.renderFeed(vh - 2))
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, feed)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.help.View(m.keys))
}

// Resize lays the document out for a new terminal size. The first call
// registers every section; later calls signal a layout change so the spy
// re-measures.
func (m *Model) Resize(width, height int) {
	m.width = width
	m.height = height

	vw, vh := m.paneSize()
	m.viewport = viewport.New(
		viewport.WithWidth(vw),
		viewport.WithHeight(vh),
	)
	m.relayout()

	if !m.registered {
		m.registerAll()
		return
	}
	m.broker.Publish(events.Event{Type: events.WindowResizeEvent})
}

// ScrollBy scrolls the pane by dy rows and dx columns.
func (m *Model) ScrollBy(dy, dx int) tea.Cmd {
	return m.ScrollTo(m.yOffset+dy, m.xOffset+dx)
}

// ScrollTo scrolls the pane and signals the scroll. The returned command
// re-samples the pane after one throttle window.
func (m *Model) ScrollTo(y, x int) tea.Cmd {
	y = clamp(y, 0, m.maxYOffset())
	x = clamp(x, 0, m.maxXOffset())
	if y == m.yOffset && x == m.xOffset {
		return nil
	}

	m.yOffset, m.xOffset = y, x
	m.syncViewport()
	m.broker.Publish(events.Event{Type: events.ContainerScrollEvent})

	m.scrollSeq++
	seq := m.scrollSeq
	return tea.Tick(m.opts.Throttle, func(time.Time) tea.Msg {
		return scrollSettleMsg{seq: seq}
	})
}

// HideTopSection hides the section at the top of the pane. Its selector no
// longer resolves, so the layout change that follows drops it from the spy.
func (m *Model) HideTopSection() bool {
	s, ok := m.layout.SectionAt(m.yOffset)
	if !ok {
		return false
	}

	s.Hidden = true
	m.log.Debug().Str("section", s.ID).Msg("section hidden")
	m.relayout()
	m.broker.Publish(events.Event{Type: events.WindowResizeEvent})
	return true
}

// Reload replaces the document, keeping hidden and seen state of sections
// that survived the edit. Sections that are gone are dropped by the refresh
// that follows; new sections are registered.
func (m *Model) Reload(doc *Document) {
	for _, s := range doc.Sections {
		if old, ok := m.doc.Section(s.ID); ok {
			s.Hidden = old.Hidden
		}
	}
	m.doc = doc
	m.layout.SetDocument(doc)
	m.relayout()
	m.log.Debug().Int("sections", len(doc.Sections)).Msg("document reloaded")

	if !m.registered {
		return
	}
	m.broker.Publish(events.Event{Type: events.WindowResizeEvent})

	watched := make(map[string]bool)
	for _, t := range m.spy.Targets() {
		watched[t.Selector] = true
	}
	for _, s := range doc.Shown() {
		// Once targets that were seen are gone on purpose
		if watched["#"+s.ID] || (m.opts.Once && m.layout.Seen(s.ID)) {
			continue
		}
		m.addSpy(s)
	}
}

// Reset shows every section again, forgets what was seen and registers
// every section from scratch.
func (m *Model) Reset() {
	for _, s := range m.doc.Sections {
		s.Hidden = false
	}
	m.spy.Close()
	m.layout.ResetSeen()
	if m.opts.Progress != nil {
		if err := m.opts.Progress.Reset(); err != nil {
			m.log.Error().Err(err).Msg("failed to reset progress")
		}
	}
	m.feed = nil
	m.yOffset, m.xOffset = 0, 0
	m.relayout()
	m.registerAll()
}

// Close detaches the spy and the scroller from the event bus.
func (m *Model) Close() {
	m.scroller.Close()
	m.spy.Close()
	m.broker.Clear()
}

// Spy returns the reader's spy.
func (m *Model) Spy() *spy.Spy {
	return m.spy
}

// Layout returns the reader's layout.
func (m *Model) Layout() *Layout {
	return m.layout
}

// The container methods speak in inclusive cell coordinates, like the
// layout's boxes: a pane of vh rows spans rows top..top+vh-1.

// Bounds implements spy.Container: the pane sits below the header.
func (m *Model) Bounds() geom.Rect {
	w, h := m.Size()
	return geom.FromBox(headerHeight, 0, w, h)
}

// Window implements spy.Container.
func (m *Model) Window() geom.Rect {
	return geom.FromBox(0, 0, float64(max(m.width-1, 0)), float64(max(m.height-1, 0)))
}

// ScrollOffset implements spy.Container.
func (m *Model) ScrollOffset() (float64, float64) {
	return float64(m.yOffset), float64(m.xOffset)
}

// Size implements spy.Container. It is the distance from the first to the
// last visible cell, one less than the pane size.
func (m *Model) Size() (float64, float64) {
	vw, vh := m.paneSize()
	return float64(vw - 1), float64(vh - 1)
}

func (m *Model) registerAll() {
	for _, s := range m.doc.Shown() {
		m.addSpy(s)
	}
	m.registered = true
}

func (m *Model) addSpy(s *Section) {
	var opts []spy.AddOption
	if m.opts.Once {
		opts = append(opts, spy.Once())
	}
	if m.opts.CheckNow {
		opts = append(opts, spy.CheckNow())
	}

	if !m.spy.AddSpy("#"+s.ID, opts...) {
		m.log.Warn().Str("section", s.ID).Msg("section could not be registered")
	}
}

func (m *Model) onSpied(e events.Event) {
	if !m.layout.MarkSeen(e.Target) {
		return
	}
	m.viewport.SetContent(m.layout.Content())
	m.syncViewport()

	if m.opts.Progress != nil {
		if err := m.opts.Progress.MarkSeen(e.Target); err != nil {
			m.log.Error().Err(err).Str("section", e.Target).Msg("failed to save progress")
		}
	}
}

func (m *Model) handleEvent(e events.Event) {
	var line string
	switch p := e.Payload.(type) {
	case events.SelectorPayload:
		line = p.Selector
	case events.RefreshedPayload:
		line = fmt.Sprintf("%d targets", len(p.Targets))
	}

	style, ok := eventStyles[string(e.Type)]
	if !ok {
		style = mutedStyle
	}
	m.feed = append(m.feed, style.Render(string(e.Type))+" "+line)

	// Keep the feed bounded
	if len(m.feed) > 200 {
		m.feed = m.feed[len(m.feed)-200:]
	}
}

func (m *Model) renderFeed(rows int) string {
	if rows <= 0 {
		return ""
	}
	if len(m.feed) == 0 {
		return mutedStyle.Render("No events yet")
	}
	start := max(len(m.feed)-rows, 0)
	return strings.Join(m.feed[start:], "\n")
}

// listenForEvents creates a command that waits for events
func (m *Model) listenForEvents() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-m.eventSub
		if !ok {
			return nil
		}
		return event
	}
}

func (m *Model) relayout() {
	vw, _ := m.paneSize()
	m.layout.Reflow(vw)
	m.viewport.SetContent(m.layout.Content())
	m.yOffset = clamp(m.yOffset, 0, m.maxYOffset())
	m.xOffset = clamp(m.xOffset, 0, m.maxXOffset())
	m.syncViewport()
}

func (m *Model) syncViewport() {
	m.viewport.SetYOffset(m.yOffset)
	m.viewport.SetXOffset(m.xOffset)
}

func (m *Model) feedWidth() int {
	if m.width < minFeedWidth {
		return 0
	}
	return feedWidth
}

func (m *Model) paneSize() (int, int) {
	return max(m.width-m.feedWidth(), 1), max(m.height-headerHeight-footerHeight, 1)
}

func (m *Model) maxYOffset() int {
	_, vh := m.paneSize()
	return max(m.layout.Height()-vh, 0)
}

func (m *Model) maxXOffset() int {
	vw, _ := m.paneSize()
	return max(m.layout.Width()-vw, 0)
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
