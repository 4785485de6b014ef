package tui

// DefaultDocument is shown when no file is given.
func DefaultDocument() *Document {
	return ParseMarkdown(sampleMarkdown)
}

const sampleMarkdown = `# Spyglass

Scroll through this document. Every section is watched; when one scrolls
into view it is marked as seen and the event shows up in the side panel.

## Getting around {.help}

- **j/k** or arrow keys scroll one line
- **f/b** or page keys scroll one page
- **g/G** jump to the top or the bottom
- **h/l** scroll sideways
- **d** hides the section at the top of the view
- **r** brings every section back and starts over
- **q** quits

## How sections are tracked {.core}

Each section is registered under its ID, like ` + "`#how-sections-are-tracked`" + `.
Its bounding box is measured once, when it is registered, and cached.

Scrolling produces at most one sample per throttle window. Each sample is
the rectangle of content currently inside the pane.

## Matching {.core}

A section is in view when its box overlaps the sampled rectangle on the
vertical axis *and* on the horizontal axis. Each section fires at most once
per sample.

## Fire once {.options}

Start spyglass with ` + "`--once`" + ` and every section stops being watched the
first time it is seen. The side panel shows the removal right after the
match.

## Check now {.options}

With ` + "`--check-now`" + ` (the default) sections that are already visible when
they are registered are reported straight away, without waiting for a
scroll.

## Resizing {.core}

Resize the terminal and every section is measured again. Sections that are
no longer on the page are dropped; the rest are refreshed in one event.

## A wide table {.wide}

| Event | Payload | When |
|-------|---------|------|
| spy.added | selector | a section starts being watched |
| spy.removed | selector | a section stops being watched |
| spy.spied | selector | a watched section is in view |
| spy.refreshed | selectors | the layout changed |
| ui.scrolled | rectangle | the pane scrolled, throttled |

## Long section

Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod
tempor incididunt ut labore et dolore magna aliqua.

Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris nisi ut
aliquip ex ea commodo consequat.

Duis aute irure dolor in reprehenderit in voluptate velit esse cillum dolore
eu fugiat nulla pariatur.

Excepteur sint occaecat cupidatat non proident, sunt in culpa qui officia
deserunt mollit anim id est laborum.

## The end

That is all. Press **r** to start over.
`
