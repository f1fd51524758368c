package ui_test

import (
	"strings"
	"testing"

	ui "github.com/atdiar/regionui"
	"github.com/atdiar/regionui/dom"
	"github.com/atdiar/regionui/templates"

	"golang.org/x/net/html"
)

func document(t *testing.T, body string) *html.Node {
	t.Helper()
	doc, err := dom.Document("<html><body>" + body + "</body></html>")
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func find(t *testing.T, root *html.Node, selector string) *html.Node {
	t.Helper()
	n, err := dom.FindOne(root, selector)
	if err != nil {
		t.Fatal(err)
	}
	if n == nil {
		t.Fatalf("no element matches %q", selector)
	}
	return n
}

// texts joins the text of the element children of n.
func texts(n *html.Node) string {
	var s []string
	for _, c := range dom.Children(n) {
		s = append(s, dom.Text(c))
	}
	return strings.Join(s, ",")
}

type lifecycle struct {
	render, show, destroy int
}

func (l *lifecycle) methods() ui.Methods {
	return ui.Methods{
		"onRender":  func(...any) any { l.render++; return nil },
		"onShow":    func(...any) any { l.show++; return nil },
		"onDestroy": func(...any) any { l.destroy++; return nil },
	}
}

func countingView(l *lifecycle, markup string) *ui.View {
	return ui.NewView(ui.ViewOptions{
		Template: templates.Inline(markup),
		Methods:  l.methods(),
	})
}

func record(e ui.Eventable, got *[]string) {
	e.On("all", ui.NewEventHandler(func(evt ui.Event) bool {
		*got = append(*got, evt.Type)
		return false
	}))
}
