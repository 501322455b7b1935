package components

import (
	"context"
	"io"
	"sort"
	"strings"

	"github.com/a-h/templ"
)

// Markup accumulates HTML before it is written out in one piece
type Markup struct {
	b   strings.Builder
	err error
}

// Raw appends trusted markup
func (m *Markup) Raw(parts ...string) {
	for _, p := range parts {
		m.b.WriteString(p)
	}
}

// Text appends escaped text
func (m *Markup) Text(s string) {
	m.b.WriteString(templ.EscapeString(s))
}

// Attr appends ` name="value"` with value escaped
func (m *Markup) Attr(name, value string) {
	m.b.WriteString(" ")
	m.b.WriteString(name)
	m.b.WriteString(`="`)
	m.b.WriteString(templ.EscapeString(value))
	m.b.WriteString(`"`)
}

// Attrs appends every attribute of attrs in name order
func (m *Markup) Attrs(attrs map[string]string) {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m.Attr(name, attrs[name])
	}
}

// Flag appends a boolean attribute when on
func (m *Markup) Flag(name string, on bool) {
	if on {
		m.b.WriteString(" ")
		m.b.WriteString(name)
	}
}

// Component renders c in place
func (m *Markup) Component(ctx context.Context, c templ.Component) {
	if m.err != nil || c == nil {
		return
	}
	m.err = c.Render(ctx, &m.b)
}

// WriteTo flushes the accumulated markup
func (m *Markup) WriteTo(w io.Writer) error {
	if m.err != nil {
		return m.err
	}
	_, err := io.WriteString(w, m.b.String())
	return err
}

// Build wraps a markup producing function as a component
func Build(fn func(ctx context.Context, m *Markup)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var m Markup
		fn(ctx, &m)
		return m.WriteTo(w)
	})
}
