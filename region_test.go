package ui_test

import (
	"errors"
	"strings"
	"testing"

	ui "github.com/atdiar/regionui"
	"github.com/atdiar/regionui/dom"

	"golang.org/x/net/html"
)

func newRegion(t *testing.T, doc *html.Node, selector string) *ui.Region {
	t.Helper()
	r, err := ui.NewRegion(ui.RegionOptions{
		Selector:      selector,
		ParentElement: func() *html.Node { return doc },
	})
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestRegionShowReplacesView(t *testing.T) {
	tests := []struct {
		name         string
		opts         []ui.ShowOption
		wantDestroys int
	}{
		{"destroy", nil, 1},
		{"prevent destroy", []ui.ShowOption{ui.PreventDestroy()}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := document(t, `<div id="r"></div>`)
			r := newRegion(t, doc, "#r")
			var l1, l2 lifecycle
			v1, v2 := countingView(&l1, "one"), countingView(&l2, "two")

			if err := r.Show(v1); err != nil {
				t.Fatal(err)
			}
			if err := r.Show(v2, tt.opts...); err != nil {
				t.Fatal(err)
			}
			children := dom.Children(r.El())
			if len(children) != 1 || children[0] != v2.El() {
				t.Fatalf("region content: got %d children", len(children))
			}
			if l1.destroy != tt.wantDestroys {
				t.Errorf("destroys: got %d, want %d", l1.destroy, tt.wantDestroys)
			}
			if r.CurrentView() != v2 {
				t.Error("current view is not the last shown")
			}
		})
	}
}

func TestRegionShowIsIdempotent(t *testing.T) {
	doc := document(t, `<div id="r"></div>`)
	r := newRegion(t, doc, "#r")
	var l lifecycle
	v := countingView(&l, "x")

	for j := 0; j < 2; j++ {
		if err := r.Show(v); err != nil {
			t.Fatal(err)
		}
	}
	if l.render != 1 || l.show != 1 {
		t.Errorf("got %d renders and %d shows, want 1 and 1", l.render, l.show)
	}

	if err := r.Show(v, ui.ForceShow()); err != nil {
		t.Fatal(err)
	}
	if l.render != 2 || l.show != 2 || l.destroy != 0 {
		t.Errorf("forced show: got %+v", l)
	}
	if len(dom.Children(r.El())) != 1 {
		t.Error("forced show duplicated the view")
	}
}

func TestRegionEvents(t *testing.T) {
	doc := document(t, `<div id="r"></div>`)
	r := newRegion(t, doc, "#r")
	var got []string
	record(r, &got)

	var l lifecycle
	r.Show(countingView(&l, "a"))
	if s := strings.Join(got, ","); s != "before:show,show" {
		t.Errorf("first show: got %s", s)
	}

	got = nil
	r.Show(countingView(&l, "b"))
	want := "before:swapOut,before:empty,empty,before:swap,before:show,swapOut,swap,show"
	if s := strings.Join(got, ","); s != want {
		t.Errorf("swap: got %s\nwant %s", s, want)
	}
}

func TestRegionEmptiesWhenViewIsDestroyed(t *testing.T) {
	doc := document(t, `<div id="r"></div>`)
	r := newRegion(t, doc, "#r")
	var l lifecycle
	v := countingView(&l, "x")
	r.Show(v)

	v.Destroy()
	if r.HasView() {
		t.Error("region kept a destroyed view")
	}
	if l.destroy != 1 {
		t.Errorf("destroys: got %d", l.destroy)
	}
	if err := r.Show(v); !errors.Is(err, ui.ErrViewDestroyed) {
		t.Errorf("showing a destroyed view: got %v", err)
	}
}

func TestRegionEmpty(t *testing.T) {
	doc := document(t, `<div id="r"></div>`)
	r := newRegion(t, doc, "#r")
	var got []string
	record(r, &got)
	r.Empty()
	if len(got) != 0 {
		t.Errorf("emptying an empty region emitted %v", got)
	}

	var l lifecycle
	v := countingView(&l, "x")
	r.Show(v)
	r.Empty(ui.PreventDestroy())
	if v.IsDestroyed() || r.HasView() {
		t.Error("Empty(PreventDestroy()) should only forget the view")
	}

	r.Show(v)
	r.Empty()
	r.Empty()
	if l.destroy != 1 {
		t.Errorf("destroys: got %d", l.destroy)
	}
	if r.El().FirstChild != nil {
		t.Error("the view's element is still in the region")
	}
}

func TestRegionReset(t *testing.T) {
	doc := document(t, `<section><div id="r"></div></section>`)
	r := newRegion(t, doc, "#r")
	var l lifecycle
	r.Show(countingView(&l, "x"))
	old := r.El()

	dom.SetContent(find(t, doc, "section"), `<div id="r"></div>`)
	r.Reset()
	if l.destroy != 1 {
		t.Error("Reset should empty the region")
	}
	r.Show(countingView(&l, "y"))
	if r.El() == old {
		t.Error("Reset should look the element up again")
	}
	if got := dom.Text(find(t, doc, "#r")); got != "y" {
		t.Errorf("got %q", got)
	}
}

func TestRegionMissingElement(t *testing.T) {
	doc := document(t, "")
	var l lifecycle

	r := newRegion(t, doc, "#missing")
	err := r.Show(countingView(&l, "x"))
	if !errors.Is(err, ui.ErrNoElement) || !strings.Contains(err.Error(), "#missing") {
		t.Errorf("got %v", err)
	}

	lenient, err := ui.NewRegion(ui.RegionOptions{
		Selector:            "#missing",
		ParentElement:       func() *html.Node { return doc },
		AllowMissingElement: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := lenient.Show(countingView(&l, "x")); err != nil {
		t.Errorf("lenient region: got %v", err)
	}
	if l.render != 0 {
		t.Error("a view was rendered without a region element")
	}

	if _, err := ui.NewRegion(ui.RegionOptions{}); !errors.Is(err, ui.ErrMalformedRegion) {
		t.Errorf("malformed region: got %v", err)
	}
}

type removableView struct {
	el      *html.Node
	removed int
}

func (v *removableView) Render() error  { return nil }
func (v *removableView) El() *html.Node { return v.el }
func (v *removableView) Remove() {
	v.removed++
	dom.Detach(v.el)
}

func TestRegionRemovableTeardown(t *testing.T) {
	doc := document(t, `<div id="r"></div>`)
	r := newRegion(t, doc, "#r")
	v := &removableView{el: dom.NewElement("p")}
	r.Show(v)
	var l lifecycle
	r.Show(countingView(&l, "x"))
	if v.removed != 1 {
		t.Errorf("removes: got %d", v.removed)
	}
}

func TestRegionAttachView(t *testing.T) {
	doc := document(t, `<div id="r"><p>server</p></div>`)
	r := newRegion(t, doc, "#r")
	var l lifecycle
	v := countingView(&l, "x")
	var got []string
	record(r, &got)

	r.AttachView(v)
	if r.CurrentView() != v || l.render != 0 || len(got) != 0 {
		t.Errorf("AttachView rendered or emitted: %+v %v", l, got)
	}
	r.Empty()
	if !v.IsDestroyed() {
		t.Error("an attached view is destroyed on empty")
	}
}
