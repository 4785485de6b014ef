package spy

import "github.com/billie-coop/spyglass/internal/geom"

// Element is a node handed out by a Locator. Its ID addresses Spied events.
type Element interface {
	ID() string
}

// Locator resolves selectors to elements inside the container and measures
// them in container content coordinates (row 0 is the top of the content,
// not of the visible area).
type Locator interface {
	// ResolveOne returns the first element matching selector. When a selector
	// matches several elements, the first one in document order is used and
	// the rest are ignored.
	ResolveOne(selector string) (Element, bool)

	// Measure returns the element's bounding box, or false when the element
	// is no longer laid out.
	Measure(el Element) (geom.Rect, bool)
}

// Container is the scrollable area being spied on.
type Container interface {
	// Bounds is the container's visible box in window coordinates.
	Bounds() geom.Rect

	// Window is the real viewport the container is displayed in.
	Window() geom.Rect

	// ScrollOffset returns how far the content is scrolled.
	ScrollOffset() (top, left float64)

	// Size returns the container's own visible size, not its content size.
	Size() (width, height float64)
}

// VisibleRect is the part of the content currently scrolled into view.
func VisibleRect(c Container) geom.Rect {
	top, left := c.ScrollOffset()
	width, height := c.Size()
	return geom.FromBox(top, left, width, height)
}

// visibleInWindow clips the container to the window and translates the
// result into content coordinates. It is false when the container is
// entirely off screen.
func visibleInWindow(c Container) (geom.Rect, bool) {
	bounds := c.Bounds()
	clip, ok := geom.Clip(bounds, c.Window())
	if !ok {
		return geom.Rect{}, false
	}

	top, left := c.ScrollOffset()
	return clip.Translate(top-bounds.Top, left-bounds.Left), true
}
