// Package geom holds the axis-aligned rectangle math used by the spy.
//
// All comparisons truncate coordinates to whole cells first, so fractional
// offsets coming from a measurement layer never change the outcome of a test
// by less than one cell.
package geom

import "fmt"

// Rect is an axis-aligned rectangle. Top <= Bottom and Left <= Right are
// expected from callers and are not checked.
type Rect struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
}

// FromBox builds a Rect from an origin and a size.
func FromBox(top, left, width, height float64) Rect {
	return Rect{
		Top:    top,
		Bottom: top + height,
		Left:   left,
		Right:  left + width,
	}
}

// Height returns Bottom - Top.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Width returns Right - Left.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Translate moves the rectangle by dy rows and dx columns.
func (r Rect) Translate(dy, dx float64) Rect {
	return Rect{
		Top:    r.Top + dy,
		Bottom: r.Bottom + dy,
		Left:   r.Left + dx,
		Right:  r.Right + dx,
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("{top:%g bottom:%g left:%g right:%g}", r.Top, r.Bottom, r.Left, r.Right)
}

// Overlaps1D reports whether the interval [aStart, aEnd] touches [bStart, bEnd].
//
// It is true whenever an endpoint of A lies in B's span, or A reaches past
// the end of B while starting inside it. Note the second clause of each side
// (aStart <= bEnd || aEnd <= bEnd) is looser than a plain min/max overlap:
// an interval that starts at or after bStart and ends before bEnd counts even
// when the bounds are inverted. Callers depend on this exact behaviour.
func Overlaps1D(aStart, aEnd, bStart, bEnd float64) bool {
	as, ae := int(aStart), int(aEnd)
	bs, be := int(bStart), int(bEnd)

	return (as >= bs && (as <= be || ae <= be)) ||
		(ae >= bs && (ae <= be || as <= be))
}

// Overlaps2D is Overlaps1D on both axes.
func Overlaps2D(a, b Rect) bool {
	return OverlapsVertical(a, b) && OverlapsHorizontal(a, b)
}

// OverlapsVertical tests a's Top/Bottom span against b's.
func OverlapsVertical(a, b Rect) bool {
	return Overlaps1D(a.Top, a.Bottom, b.Top, b.Bottom)
}

// OverlapsHorizontal tests a's Left/Right span against b's.
func OverlapsHorizontal(a, b Rect) bool {
	return Overlaps1D(a.Left, a.Right, b.Left, b.Right)
}

// Clip returns the part of inner that lies inside outer. The boolean is false
// when the two do not overlap on both axes, in which case the Rect is zero.
func Clip(inner, outer Rect) (Rect, bool) {
	if !Overlaps2D(inner, outer) {
		return Rect{}, false
	}

	return Rect{
		Top:    max(inner.Top, outer.Top),
		Bottom: min(inner.Bottom, outer.Bottom),
		Left:   max(inner.Left, outer.Left),
		Right:  min(inner.Right, outer.Right),
	}, true
}
