// Package dom provides the element tree used by regionui views and regions.
//
// Elements are plain *html.Node values from golang.org/x/net/html so that a
// rendered composition can be serialized as is. Selectors are CSS selectors.
package dom

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/yosssi/gohtml"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	ErrBadSelector = errors.New("dom: invalid selector")
	ErrNilNode     = errors.New("dom: nil node")
)

// NewElement creates a detached element node.
func NewElement(tag string, attrs ...html.Attribute) *html.Node {
	if tag == "" {
		tag = "div"
	}
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

// NewFragment returns an off-tree container. Its children can be moved in a
// single pass into a live element with MoveChildren.
func NewFragment() *html.Node {
	return &html.Node{Type: html.DocumentNode}
}

// Document parses a complete html document.
func Document(markup string) (*html.Node, error) {
	return html.Parse(strings.NewReader(markup))
}

// Parse parses markup as the content of context. When context is nil the
// markup is parsed as body content.
func Parse(markup string, context *html.Node) ([]*html.Node, error) {
	if context == nil || context.Type != html.ElementNode || context.DataAtom == 0 {
		context = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	}
	return html.ParseFragment(strings.NewReader(markup), context)
}

// SetContent replaces the children of n by the parsed markup.
func SetContent(n *html.Node, markup string) error {
	if n == nil {
		return ErrNilNode
	}
	nodes, err := Parse(markup, n)
	if err != nil {
		return err
	}
	Empty(n)
	for _, c := range nodes {
		n.AppendChild(c)
	}
	return nil
}

// Empty removes every child of n.
func Empty(n *html.Node) {
	if n == nil {
		return
	}
	for child := n.FirstChild; child != nil; {
		next := child.NextSibling
		n.RemoveChild(child)
		child = next
	}
}

// Detach unlinks n from its parent if it has one.
func Detach(n *html.Node) {
	if n == nil || n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Append moves child at the end of parent's children.
func Append(parent, child *html.Node) {
	Detach(child)
	parent.AppendChild(child)
}

// InsertAt moves child so that it becomes the element child of parent at
// position index. Text and comment nodes are not counted. An index past the
// last element child appends.
func InsertAt(parent, child *html.Node, index int) {
	Detach(child)
	if index < 0 {
		index = 0
	}
	children := Children(parent)
	if index >= len(children) {
		parent.AppendChild(child)
		return
	}
	parent.InsertBefore(child, children[index])
}

// InsertBefore moves child right before ref, which must be a child of parent.
func InsertBefore(parent, child, ref *html.Node) {
	Detach(child)
	if ref == nil || ref.Parent != parent {
		parent.AppendChild(child)
		return
	}
	parent.InsertBefore(child, ref)
}

// MoveChildren moves every child of src at the end of dst, preserving order.
func MoveChildren(dst, src *html.Node) {
	for child := src.FirstChild; child != nil; {
		next := child.NextSibling
		src.RemoveChild(child)
		dst.AppendChild(child)
		child = next
	}
}

// Children returns the element children of n.
func Children(n *html.Node) []*html.Node {
	var res []*html.Node
	if n == nil {
		return res
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			res = append(res, c)
		}
	}
	return res
}

// IndexOf returns the position of child among the element children of its
// parent, or -1.
func IndexOf(child *html.Node) int {
	if child == nil || child.Parent == nil {
		return -1
	}
	for i, c := range Children(child.Parent) {
		if c == child {
			return i
		}
	}
	return -1
}

// Contains reports whether n is root or one of its descendants.
func Contains(root, n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == root {
			return true
		}
	}
	return false
}

// Find returns the descendants of root matching selector, in document order.
// root itself is never part of the result.
func Find(root *html.Node, selector string) ([]*html.Node, error) {
	if root == nil {
		return nil, ErrNilNode
	}
	sel, err := cascadia.Parse(selector)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrBadSelector, selector, err)
	}
	return cascadia.QueryAll(root, sel), nil
}

// FindOne returns the first descendant of root matching selector, or nil.
func FindOne(root *html.Node, selector string) (*html.Node, error) {
	nodes, err := Find(root, selector)
	if err != nil || len(nodes) == 0 {
		return nil, err
	}
	return nodes[0], nil
}

// Attr returns the value of the named attribute.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces an attribute.
func SetAttr(n *html.Node, key, value string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

// RemoveAttr removes an attribute if present.
func RemoveAttr(n *html.Node, key string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

// Text returns the text content of n, comments excluded.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	switch n.Type {
	case html.TextNode, html.RawNode:
		return n.Data
	case html.ElementNode, html.DocumentNode:
		var b strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.CommentNode {
				b.WriteString(Text(c))
			}
		}
		return b.String()
	}
	return ""
}

// Render returns the outer html of n.
func Render(n *html.Node) (string, error) {
	if n == nil {
		return "", ErrNilNode
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderInner returns the html of the children of n.
func RenderInner(n *html.Node) (string, error) {
	if n == nil {
		return "", ErrNilNode
	}
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// Format renders n as indented html.
func Format(n *html.Node) (string, error) {
	s, err := Render(n)
	if err != nil {
		return "", err
	}
	return gohtml.Format(s), nil
}
