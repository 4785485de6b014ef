package spy

import (
	"github.com/billie-coop/spyglass/internal/geom"
)

type fakeElement struct {
	id string
}

func (e fakeElement) ID() string { return e.id }

// fakePage is a Locator and a Container backed by plain maps.
type fakePage struct {
	boxes   map[string]geom.Rect
	gone    map[string]bool
	bounds  geom.Rect
	window  geom.Rect
	scrollY float64
	scrollX float64
	width   float64
	height  float64
}

// newFakePage lays out the elements used throughout the tests inside a
// 100x100 container at the top left of an 800x600 window.
func newFakePage() *fakePage {
	return &fakePage{
		boxes: map[string]geom.Rect{
			".at-the-top":        {Top: 0, Bottom: 10, Left: 0, Right: 10},
			".inner":             {Top: 50, Bottom: 160, Left: 50, Right: 160},
			".target":            {Top: 150, Bottom: 200, Left: 150, Right: 200},
			".impossible-target": {Top: 1000, Bottom: 1100, Left: 1000, Right: 1100},
		},
		gone:   map[string]bool{},
		bounds: geom.FromBox(0, 0, 100, 100),
		window: geom.FromBox(0, 0, 800, 600),
		width:  100,
		height: 100,
	}
}

func (p *fakePage) ResolveOne(selector string) (Element, bool) {
	if _, ok := p.boxes[selector]; !ok || p.gone[selector] {
		return nil, false
	}
	return fakeElement{id: "el" + selector}, true
}

func (p *fakePage) Measure(el Element) (geom.Rect, bool) {
	selector := el.ID()[len("el"):]
	if p.gone[selector] {
		return geom.Rect{}, false
	}
	box, ok := p.boxes[selector]
	return box, ok
}

func (p *fakePage) Bounds() geom.Rect { return p.bounds }

func (p *fakePage) Window() geom.Rect { return p.window }

func (p *fakePage) ScrollOffset() (float64, float64) { return p.scrollY, p.scrollX }

func (p *fakePage) Size() (float64, float64) { return p.width, p.height }

var (
	scrollMiss = geom.Rect{Top: 0, Bottom: 100, Left: 0, Right: 100}
	scrollHit  = geom.Rect{Top: 150, Bottom: 200, Left: 150, Right: 200}
)
