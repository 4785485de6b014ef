package tui

import (
	"strings"

	"github.com/billie-coop/spyglass/internal/geom"
	"github.com/billie-coop/spyglass/internal/spy"
	"github.com/charmbracelet/glamour/v2"
	"github.com/charmbracelet/lipgloss/v2"
)

// sectionGap is the number of blank lines between two sections.
const sectionGap = 1

type sectionElement struct {
	section *Section
}

func (e sectionElement) ID() string { return e.section.ID }

// Layout stacks the shown sections of a document vertically and remembers
// where each one landed. It is the spy.Locator for the reader: boxes are in
// content coordinates and only change on Reflow.
type Layout struct {
	doc    *Document
	style  string
	width  int
	seen   map[string]bool
	bodies map[string]string
	boxes  map[string]geom.Rect
	blocks []string
}

var _ spy.Locator = (*Layout)(nil)

// NewLayout creates a layout for doc. style is a glamour style name or path.
func NewLayout(doc *Document, style string) *Layout {
	return &Layout{
		doc:    doc,
		style:  style,
		seen:   make(map[string]bool),
		bodies: make(map[string]string),
		boxes:  make(map[string]geom.Rect),
	}
}

// SetDocument swaps the laid-out document. Seen markers are kept by section
// ID; call Reflow to lay the new document out.
func (l *Layout) SetDocument(doc *Document) {
	l.doc = doc
	l.bodies = make(map[string]string)
}

// Reflow renders every shown section at width and recomputes the boxes.
func (l *Layout) Reflow(width int) {
	if width != l.width {
		l.width = width
		l.bodies = make(map[string]string)
	}

	l.boxes = make(map[string]geom.Rect)
	l.blocks = l.blocks[:0]

	row := 0
	for _, s := range l.doc.Shown() {
		block := l.renderSection(s)
		height := lipgloss.Height(block)
		l.boxes[s.ID] = geom.Rect{
			Top:    float64(row),
			Bottom: float64(row + height - 1),
			Left:   0,
			Right:  float64(max(lipgloss.Width(block)-1, 0)),
		}
		l.blocks = append(l.blocks, block)
		row += height + sectionGap
	}
}

// Content is the rendered document.
func (l *Layout) Content() string {
	return strings.Join(l.blocks, strings.Repeat("\n", sectionGap+1))
}

// Height is the number of content rows.
func (l *Layout) Height() int {
	if len(l.blocks) == 0 {
		return 0
	}
	return lipgloss.Height(l.Content())
}

// Width is the widest content row.
func (l *Layout) Width() int {
	w := 0
	for _, box := range l.boxes {
		w = max(w, int(box.Right)+1)
	}
	return w
}

// Box returns the laid-out box of a section.
func (l *Layout) Box(id string) (geom.Rect, bool) {
	box, ok := l.boxes[id]
	return box, ok
}

// SectionAt returns the first shown section whose box contains row.
func (l *Layout) SectionAt(row int) (*Section, bool) {
	for _, s := range l.doc.Shown() {
		if box, ok := l.boxes[s.ID]; ok && int(box.Top) <= row && row <= int(box.Bottom)+sectionGap {
			return s, true
		}
	}
	return nil, false
}

// MarkSeen flags a section as seen. The marker does not change any box.
func (l *Layout) MarkSeen(id string) bool {
	if l.seen[id] {
		return false
	}
	l.seen[id] = true
	l.Reflow(l.width)
	return true
}

// RestoreSeen flags sections seen in an earlier run. Unknown IDs are kept
// so they apply if the section comes back.
func (l *Layout) RestoreSeen(ids []string) {
	for _, id := range ids {
		l.seen[id] = true
	}
	if l.width > 0 {
		l.Reflow(l.width)
	}
}

// Seen reports whether a section has been seen.
func (l *Layout) Seen(id string) bool {
	return l.seen[id]
}

// SeenCount returns how many sections of the document have been seen.
func (l *Layout) SeenCount() int {
	n := 0
	for _, s := range l.doc.Sections {
		if l.seen[s.ID] {
			n++
		}
	}
	return n
}

// ResetSeen clears every seen marker.
func (l *Layout) ResetSeen() {
	l.seen = make(map[string]bool)
	l.Reflow(l.width)
}

// ResolveOne returns the first laid-out section matching selector.
func (l *Layout) ResolveOne(selector string) (spy.Element, bool) {
	for _, s := range l.doc.Find(selector) {
		if _, ok := l.boxes[s.ID]; ok {
			return sectionElement{section: s}, true
		}
	}
	return nil, false
}

// Measure returns the box a section got at the last Reflow. Sections hidden
// since then are not measurable even though their box is still cached.
func (l *Layout) Measure(el spy.Element) (geom.Rect, bool) {
	se, ok := el.(sectionElement)
	if !ok || se.section.Hidden {
		return geom.Rect{}, false
	}
	box, ok := l.boxes[se.section.ID]
	return box, ok
}

func (l *Layout) renderSection(s *Section) string {
	marker := markerStyle.Render("○")
	if l.seen[s.ID] {
		marker = seenMarkerStyle.Render("●")
	}
	header := marker + " " + titleStyle.Render(s.Title)

	body := l.renderBody(s)
	if body == "" {
		return header
	}
	return header + "\n" + body
}

func (l *Layout) renderBody(s *Section) string {
	if body, ok := l.bodies[s.ID]; ok {
		return body
	}
	if s.Body == "" {
		return ""
	}

	body, err := renderMarkdown(s.Body, l.style, l.width)
	if err != nil {
		body = s.Body
	}
	l.bodies[s.ID] = body
	return body
}

func renderMarkdown(content, style string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(max(width-4, 20)), // Account for glamour's margins
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		return content, err
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content, err
	}

	// Remove extra newlines that glamour adds
	return strings.Trim(rendered, "\n"), nil
}
