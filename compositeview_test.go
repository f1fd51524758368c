package ui_test

import (
	"errors"
	"strings"
	"testing"

	ui "github.com/atdiar/regionui"
	"github.com/atdiar/regionui/collection"
	"github.com/atdiar/regionui/dom"
	"github.com/atdiar/regionui/templates"
)

var liView = ui.ItemViewFactory(ui.ViewOptions{TagName: "li", Template: templates.Inline("{{.foo}}")})

func sortedCollection(values ...string) *collection.Collection {
	c := collection.New().WithComparator(collection.ByAttr("foo"))
	for _, v := range values {
		c.AddAttrs(attrs(v))
	}
	return c
}

func TestCompositeViewSortedInsert(t *testing.T) {
	c := sortedCollection("bbar", "abar")
	v := ui.NewCompositeView(ui.CompositeViewOptions{CollectionViewOptions: ui.CollectionViewOptions{
		ViewOptions: ui.ViewOptions{
			Template:   templates.Inline("<h2>{{.title}}</h2><ul></ul>"),
			Model:      collection.NewModel(map[string]any{"title": "list"}),
			Collection: c,
		},
		ChildView:          liView,
		ChildViewContainer: "ul",
	}})
	if err := v.Render(); err != nil {
		t.Fatal(err)
	}
	defer v.Destroy()
	ul := find(t, v.El(), "ul")

	if got := texts(ul); got != "abar,bbar" {
		t.Fatalf("render: got %s", got)
	}
	if got := dom.Text(find(t, v.El(), "h2")); got != "list" {
		t.Errorf("model template: got %q", got)
	}

	c.AddAttrs(attrs("0bar"))
	if got := texts(ul); got != "0bar,abar,bbar" {
		t.Errorf("sorted add: got %s", got)
	}

	c.AddAttrs(attrs("zbar"), collection.At(1))
	if got := texts(ul); got != "0bar,zbar,abar,bbar" {
		t.Errorf("add at index: got %s", got)
	}
}

func TestCompositeViewRenderOrder(t *testing.T) {
	c := sortedCollection("a")
	v := ui.NewCompositeView(ui.CompositeViewOptions{CollectionViewOptions: ui.CollectionViewOptions{
		ViewOptions: ui.ViewOptions{
			Template:   templates.Inline("<ul></ul>"),
			Collection: c,
		},
		ChildView:          liView,
		ChildViewContainer: "ul",
	}})
	var got []string
	record(v, &got)
	if err := v.Render(); err != nil {
		t.Fatal(err)
	}
	defer v.Destroy()

	var own []string
	for _, e := range got {
		switch e {
		case "before:render", "composite:model:rendered", "render:collection",
			"composite:collection:rendered", "composite:rendered", "render":
			own = append(own, e)
		}
	}
	want := "before:render,composite:model:rendered,render:collection,composite:collection:rendered,composite:rendered,render"
	if s := strings.Join(own, ","); s != want {
		t.Errorf("got  %s\nwant %s", s, want)
	}
}

func TestCompositeViewContainer(t *testing.T) {
	tests := []struct {
		name string
		opts func(*ui.CollectionViewOptions)
	}{
		{"selector", func(o *ui.CollectionViewOptions) { o.ChildViewContainer = "ul.items" }},
		{"ui alias", func(o *ui.CollectionViewOptions) {
			o.UI = map[string]string{"list": "ul.items"}
			o.ChildViewContainer = "@ui.list"
		}},
		{"function", func(o *ui.CollectionViewOptions) {
			o.ChildViewContainerFunc = func(*ui.CollectionView) string { return ".items" }
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := ui.CollectionViewOptions{
				ViewOptions: ui.ViewOptions{
					Template:   templates.Inline(`<ul class="other"></ul><ul class="items"></ul>`),
					Collection: sortedCollection("a", "b"),
				},
				ChildView: liView,
			}
			tt.opts(&opts)
			v := ui.NewCompositeView(ui.CompositeViewOptions{CollectionViewOptions: opts})
			if err := v.Render(); err != nil {
				t.Fatal(err)
			}
			defer v.Destroy()
			if got := texts(find(t, v.El(), "ul.items")); got != "a,b" {
				t.Errorf("got %s", got)
			}
			if got := texts(find(t, v.El(), "ul.other")); got != "" {
				t.Errorf("children landed in the wrong list: %s", got)
			}
		})
	}
}

func TestCompositeViewMissingContainer(t *testing.T) {
	v := ui.NewCompositeView(ui.CompositeViewOptions{CollectionViewOptions: ui.CollectionViewOptions{
		ViewOptions: ui.ViewOptions{
			Template:   templates.Inline("<ul></ul>"),
			Collection: sortedCollection("a"),
		},
		ChildView:          liView,
		ChildViewContainer: "ol",
	}})
	err := v.Render()
	if !errors.Is(err, ui.ErrChildViewContainerMissing) || !strings.Contains(err.Error(), `"ol"`) {
		t.Errorf("got %v", err)
	}
	if v.El().FirstChild != nil && len(dom.Children(find(t, v.El(), "ul"))) != 0 {
		t.Error("children were appended somewhere else")
	}
}

func TestCompositeViewMissingTemplate(t *testing.T) {
	v := ui.NewCompositeView(ui.CompositeViewOptions{CollectionViewOptions: ui.CollectionViewOptions{
		ViewOptions: ui.ViewOptions{Collection: sortedCollection("a")},
		ChildView:   liView,
	}})
	if err := v.Render(); !errors.Is(err, templates.ErrTemplateNotFound) {
		t.Errorf("got %v", err)
	}
}

func TestCompositeViewTree(t *testing.T) {
	tree := map[string][]string{
		"root": {"a", "b"},
		"b":    {"b1", "b2"},
	}
	childrenOf := func(m ui.Model) ui.Collection {
		c := collection.New()
		for _, name := range tree[m.Attributes()["name"].(string)] {
			c.AddAttrs(map[string]any{"name": name})
		}
		return c
	}
	root := collection.NewModel(map[string]any{"name": "root"})
	v := ui.NewCompositeView(ui.CompositeViewOptions{
		CollectionViewOptions: ui.CollectionViewOptions{
			ViewOptions: ui.ViewOptions{
				TagName:    "li",
				Template:   templates.Inline("<b>{{.name}}</b><ul></ul>"),
				Model:      root,
				Collection: childrenOf(root),
			},
			ChildViewContainer: "ul",
		},
		ChildCollection: childrenOf,
	})
	if err := v.Render(); err != nil {
		t.Fatal(err)
	}
	defer v.Destroy()

	got, err := dom.Render(v.El())
	if err != nil {
		t.Fatal(err)
	}
	want := "<li><b>root</b><ul>" +
		"<li><b>a</b><ul></ul></li>" +
		"<li><b>b</b><ul><li><b>b1</b><ul></ul></li><li><b>b2</b><ul></ul></li></ul></li>" +
		"</ul></li>"
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}

	var relayed []string
	v.On("all", ui.NewEventHandler(func(evt ui.Event) bool {
		relayed = append(relayed, evt.Type)
		return false
	}))
	b := v.ChildAt(1).(*ui.CompositeView)
	b.ChildAt(0).Trigger("select")
	if len(relayed) != 1 || relayed[0] != "childview:childview:select" {
		t.Errorf("nested relay: got %v", relayed)
	}
}

func TestCompositeViewRerender(t *testing.T) {
	c := sortedCollection("a", "b")
	v := ui.NewCompositeView(ui.CompositeViewOptions{CollectionViewOptions: ui.CollectionViewOptions{
		ViewOptions: ui.ViewOptions{
			Template:   templates.Inline("<ul></ul>"),
			Collection: c,
		},
		ChildView:          liView,
		ChildViewContainer: "ul",
	}})
	if err := v.Render(); err != nil {
		t.Fatal(err)
	}
	defer v.Destroy()
	first := v.Children()
	if err := v.Render(); err != nil {
		t.Fatal(err)
	}
	for _, child := range first {
		if !child.IsDestroyed() {
			t.Error("a child of the previous render survived")
		}
	}
	if got := texts(find(t, v.El(), "ul")); got != "a,b" || v.Len() != 2 {
		t.Errorf("got %s with %d children", got, v.Len())
	}
	c.AddAttrs(attrs("c"))
	if got := texts(find(t, v.El(), "ul")); got != "a,b,c" {
		t.Errorf("the new container is not used: %s", got)
	}
}

func TestCompositeViewEventsCarryTheView(t *testing.T) {
	c := sortedCollection("a")
	v := ui.NewCompositeView(ui.CompositeViewOptions{CollectionViewOptions: ui.CollectionViewOptions{
		ViewOptions: ui.ViewOptions{
			Template:   templates.Inline("<ul></ul>"),
			Collection: c,
		},
		ChildView:          liView,
		EmptyView:          ui.ItemViewFactory(ui.ViewOptions{Template: templates.None}),
		ChildViewContainer: "ul",
	}})
	seen := make(map[string]any)
	v.On("all", ui.NewEventHandler(func(evt ui.Event) bool {
		if !strings.Contains(evt.Type, "child") {
			seen[evt.Type] = evt.Arg(0)
		}
		return false
	}))
	if err := v.Render(); err != nil {
		t.Fatal(err)
	}
	c.Remove(c.At(0))
	c.AddAttrs(attrs("b"))
	v.Destroy()

	for _, name := range []string{
		"before:render", "before:render:collection", "render:collection", "render",
		"before:render:empty", "render:empty", "before:remove:empty", "remove:empty",
		"before:destroy:collection", "destroy:collection", "before:destroy", "destroy",
	} {
		arg, ok := seen[name]
		if !ok {
			t.Errorf("%s did not fire", name)
			continue
		}
		if cv, ok := arg.(*ui.CompositeView); !ok || cv != v {
			t.Errorf("%s: got %T", name, arg)
		}
	}
}
