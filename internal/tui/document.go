package tui

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"
)

// Section is one "## " block of a document.
type Section struct {
	ID     string
	Title  string
	Tags   []string
	Body   string
	Hidden bool
}

// Matches reports whether the section is selected by selector.
//
//	#id    the section with that ID
//	.tag   every section carrying the tag
//	*      every section
func (s *Section) Matches(selector string) bool {
	switch {
	case selector == "*":
		return true
	case strings.HasPrefix(selector, "#"):
		return s.ID == selector[1:]
	case strings.HasPrefix(selector, "."):
		return slices.Contains(s.Tags, selector[1:])
	}
	return false
}

// Document is a markdown file split into sections.
type Document struct {
	Title    string
	Sections []*Section
}

// Find returns the shown sections matching selector, in document order.
func (d *Document) Find(selector string) []*Section {
	var out []*Section
	for _, s := range d.Sections {
		if !s.Hidden && s.Matches(selector) {
			out = append(out, s)
		}
	}
	return out
}

// Section returns the section with the given ID.
func (d *Document) Section(id string) (*Section, bool) {
	for _, s := range d.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// Shown returns the sections that are not hidden.
func (d *Document) Shown() []*Section {
	return d.Find("*")
}

// LoadDocument reads and parses a markdown file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	doc := ParseMarkdown(string(data))
	if len(doc.Sections) == 0 {
		return nil, fmt.Errorf("document %s has no sections", path)
	}
	return doc, nil
}

// "## Title {.tag .other}"
var headingAttrs = regexp.MustCompile(`^(.*?)\s*\{([^}]*)\}\s*$`)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// ParseMarkdown splits src on level-two headings. A leading "# " line is the
// document title; text before the first "## " becomes an "Introduction"
// section.
func ParseMarkdown(src string) *Document {
	doc := &Document{}
	ids := make(map[string]bool)

	var cur *Section
	var body []string
	flush := func() {
		if cur != nil {
			cur.Body = strings.TrimSpace(strings.Join(body, "\n"))
		}
		body = nil
	}

	for _, line := range strings.Split(src, "\n") {
		switch {
		case strings.HasPrefix(line, "# ") && doc.Title == "" && cur == nil && len(body) == 0:
			doc.Title = strings.TrimSpace(line[2:])
		case strings.HasPrefix(line, "## "):
			flush()
			cur = newSection(line[3:], ids)
			doc.Sections = append(doc.Sections, cur)
		default:
			if cur == nil {
				if strings.TrimSpace(line) == "" {
					continue
				}
				cur = newSection("Introduction", ids)
				doc.Sections = append(doc.Sections, cur)
			}
			body = append(body, line)
		}
	}
	flush()

	return doc
}

func newSection(heading string, ids map[string]bool) *Section {
	heading = strings.TrimSpace(heading)

	var tags []string
	if m := headingAttrs.FindStringSubmatch(heading); m != nil {
		heading = m[1]
		for _, attr := range strings.Fields(m[2]) {
			if tag, ok := strings.CutPrefix(attr, "."); ok && tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	base := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(heading), "-"), "-")
	if base == "" {
		base = "section"
	}

	// A suffixed ID may already belong to a heading like "Foo 2"
	id := base
	for n := 2; ids[id]; n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}
	ids[id] = true

	return &Section{ID: id, Title: heading, Tags: tags}
}
