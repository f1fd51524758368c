// Package templates implements the rendering contract used by regionui views:
// a Renderer turning a template reference and data into markup, and a Cache
// resolving template identifiers to compiled templates.
package templates

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

var (
	ErrTemplateNotFound = errors.New("templates: template not found")
)

// Template is a compiled template. *html/template.Template satisfies it.
type Template interface {
	Execute(w io.Writer, data any) error
}

// TemplateFunc adapts a function to the Template interface.
type TemplateFunc func(w io.Writer, data any) error

func (f TemplateFunc) Execute(w io.Writer, data any) error { return f(w, data) }

// Templ adapts a templ component constructor.
func Templ(component func(data any) templ.Component) Template {
	return TemplateFunc(func(w io.Writer, data any) error {
		c := component(data)
		if c == nil {
			return nil
		}
		return c.Render(context.Background(), w)
	})
}

// Inline compiles markup with html/template. It panics on a parse error, in
// the manner of template.Must.
func Inline(markup string) Ref {
	return Use(template.Must(template.New("").Parse(markup)))
}

// Ref references the template of a view. The zero Ref references nothing and
// fails to render; None is the sanctioned way of rendering no markup.
type Ref struct {
	id   string
	tmpl Template
	none bool
}

// None renders an empty string.
var None = Ref{none: true}

// ID references a template by its cache identifier.
func ID(id string) Ref { return Ref{id: id} }

// Use references an already compiled template.
func Use(t Template) Ref { return Ref{tmpl: t} }

func (r Ref) IsZero() bool { return r.id == "" && r.tmpl == nil && !r.none }
func (r Ref) ID() string   { return r.id }

func (r Ref) String() string {
	switch {
	case r.none:
		return "<none>"
	case r.tmpl != nil:
		return "<compiled>"
	}
	return r.id
}

// Renderer renders template references, resolving identifiers through its
// Cache.
type Renderer struct {
	Cache *Cache
}

func NewRenderer(c *Cache) *Renderer {
	if c == nil {
		c = NewCache(nil)
	}
	return &Renderer{Cache: c}
}

// Default is used by views that are not given a Renderer.
var Default = NewRenderer(NewCache(nil))

// Render executes the referenced template with data.
func (r *Renderer) Render(ref Ref, data any) (string, error) {
	if ref.none {
		return "", nil
	}
	t := ref.tmpl
	if t == nil {
		if ref.id == "" {
			return "", fmt.Errorf("%w: empty template reference", ErrTemplateNotFound)
		}
		var err error
		t, err = r.Cache.Get(ref.id)
		if err != nil {
			return "", err
		}
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("templates: rendering %s: %w", ref, err)
	}
	return buf.String(), nil
}
