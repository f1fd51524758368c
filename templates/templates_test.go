package templates

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/a-h/templ"
)

func TestRendererRender(t *testing.T) {
	cache := NewCache(MapLoader{
		"item": `<b>{{.name}}</b>`,
	})
	r := NewRenderer(cache)

	tests := []struct {
		name    string
		ref     Ref
		want    string
		wantErr error
	}{
		{"by id", ID("item"), "<b>go</b>", nil},
		{"inline", Inline(`<i>{{.name}}</i>`), "<i>go</i>", nil},
		{"none renders nothing", None, "", nil},
		{"zero ref fails", Ref{}, "", ErrTemplateNotFound},
		{"unknown id fails", ID("missing"), "", ErrTemplateNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Render(tt.ref, map[string]any{"name": "go"})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Render() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTemplAdapter(t *testing.T) {
	tpl := Templ(func(data any) templ.Component {
		return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			_, err := io.WriteString(w, "<em>"+data.(string)+"</em>")
			return err
		})
	})
	got, err := NewRenderer(nil).Render(Use(tpl), "hi")
	if err != nil {
		t.Fatal(err)
	}
	if got != "<em>hi</em>" {
		t.Errorf("got %q", got)
	}
}

func TestCacheClear(t *testing.T) {
	fsys := fstest.MapFS{
		"a.html": {Data: []byte(`a`)},
		"b.html": {Data: []byte(`b`)},
	}
	c := NewCache(FSLoader{FS: fsys})
	for _, id := range []string{"a.html", "b.html"} {
		if _, err := c.Get(id); err != nil {
			t.Fatal(err)
		}
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}

	c.Clear("a.html")
	if c.Len() != 1 {
		t.Errorf("selective Clear left %d entries, want 1", c.Len())
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Clear() left %d entries", c.Len())
	}

	if _, err := c.Get("nope.html"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestTemplateID(t *testing.T) {
	dir := filepath.FromSlash("/srv/templates")
	tests := []struct {
		path string
		id   string
		ok   bool
	}{
		{filepath.FromSlash("/srv/templates/item.html"), "item.html", true},
		{filepath.FromSlash("/srv/templates/list/row.html"), "list/row.html", true},
		{filepath.FromSlash("/srv/other.html"), "", false},
		{dir, "", false},
	}
	for _, tt := range tests {
		id, ok := TemplateID(dir, tt.path)
		if id != tt.id || ok != tt.ok {
			t.Errorf("TemplateID(%q) = %q, %v; want %q, %v", tt.path, id, ok, tt.id, tt.ok)
		}
	}
}
