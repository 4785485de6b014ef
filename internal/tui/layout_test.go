package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStyle = "notty"

func newTestLayout(t *testing.T, src string) (*Document, *Layout) {
	t.Helper()
	doc := ParseMarkdown(src)
	l := NewLayout(doc, testStyle)
	l.Reflow(60)
	return doc, l
}

func TestLayoutStacksSections(t *testing.T) {
	doc, l := newTestLayout(t, "## A\nalpha\n\n## B {.x}\nbeta\n\n## C {.x}\n")

	var prev float64 = -1 - sectionGap
	for _, s := range doc.Sections {
		box, ok := l.Box(s.ID)
		require.True(t, ok, s.ID)
		assert.Equal(t, prev+1+sectionGap, box.Top, s.ID)
		assert.GreaterOrEqual(t, box.Bottom, box.Top)
		assert.Equal(t, float64(0), box.Left)
		prev = box.Bottom
	}

	assert.Equal(t, int(prev)+1, l.Height())
	assert.Positive(t, l.Width())
}

func TestLayoutSectionAt(t *testing.T) {
	_, l := newTestLayout(t, "## A\nalpha\n\n## B\nbeta\n")

	s, ok := l.SectionAt(0)
	require.True(t, ok)
	assert.Equal(t, "a", s.ID)

	b, _ := l.Box("b")
	s, ok = l.SectionAt(int(b.Top))
	require.True(t, ok)
	assert.Equal(t, "b", s.ID)

	_, ok = l.SectionAt(l.Height() + 10)
	assert.False(t, ok)
}

func TestLayoutLocator(t *testing.T) {
	doc, l := newTestLayout(t, "## A\n## B {.x}\n## C {.x}\n")

	t.Run("first match wins", func(t *testing.T) {
		el, ok := l.ResolveOne(".x")
		require.True(t, ok)
		assert.Equal(t, "b", el.ID())
	})

	t.Run("unknown selector", func(t *testing.T) {
		_, ok := l.ResolveOne("#nope")
		assert.False(t, ok)
	})

	t.Run("measure", func(t *testing.T) {
		el, ok := l.ResolveOne("#c")
		require.True(t, ok)
		box, ok := l.Measure(el)
		require.True(t, ok)
		want, _ := l.Box("c")
		assert.Equal(t, want, box)
	})

	t.Run("hidden section is not measurable", func(t *testing.T) {
		el, ok := l.ResolveOne("#a")
		require.True(t, ok)

		doc.Sections[0].Hidden = true
		defer func() { doc.Sections[0].Hidden = false }()

		_, ok = l.Measure(el)
		assert.False(t, ok)

		l.Reflow(60)
		_, ok = l.ResolveOne("#a")
		assert.False(t, ok)
		box, _ := l.Box("b")
		assert.Equal(t, float64(0), box.Top)
	})
}

func TestLayoutSeen(t *testing.T) {
	_, l := newTestLayout(t, "## A\nalpha\n## B\nbeta\n")
	before, _ := l.Box("b")

	assert.True(t, l.MarkSeen("a"))
	assert.False(t, l.MarkSeen("a"))
	assert.True(t, l.Seen("a"))
	assert.Equal(t, 1, l.SeenCount())
	assert.Contains(t, l.Content(), "●")

	after, _ := l.Box("b")
	assert.Equal(t, before, after)

	l.ResetSeen()
	assert.Equal(t, 0, l.SeenCount())
	assert.NotContains(t, l.Content(), "●")
}
