package ui

import (
	"strconv"
	"sync/atomic"

	"golang.org/x/net/html"
)

// Model is the contract views expect from the data they display.
type Model interface {
	Eventable
	CID() string
	Attributes() map[string]any
}

// Collection is the contract of the backing collection of a CollectionView.
// It emits "add" (model, collection, ChangeOptions), "remove" (model,
// collection, ChangeOptions), "reset" (collection, ChangeOptions), "sort"
// (collection, ChangeOptions) and "sync" (collection, ChangeOptions).
// Models returns the models in iteration order, which follows the comparator
// when the collection has one.
type Collection interface {
	Eventable
	Models() []Model
	Len() int
	IndexOf(m Model) int
}

// Synced is implemented by collections that know whether they were
// confirmed by their source.
type Synced interface {
	Synced() bool
}

// ChangeOptions is the options argument of collection events.
type ChangeOptions struct {
	// At is the requested insertion index of an add, when Positioned.
	At         int
	Positioned bool
	// Index is the former position of a removed model.
	Index    int
	Previous []Model
}

func changeOptions(evt Event) ChangeOptions {
	for _, a := range evt.Args {
		switch o := a.(type) {
		case ChangeOptions:
			return o
		case *ChangeOptions:
			if o != nil {
				return *o
			}
		}
	}
	return ChangeOptions{}
}

// Options is a free form option bag, as handed to child views.
type Options map[string]any

// Merge returns a copy of o overridden by the entries of others.
func (o Options) Merge(others ...Options) Options {
	res := make(Options, len(o))
	for k, v := range o {
		res[k] = v
	}
	for _, other := range others {
		for k, v := range other {
			res[k] = v
		}
	}
	return res
}

func (o Options) Get(key string) (any, bool) {
	v, ok := o[key]
	return v, ok
}

func (o Options) String(key string) string {
	switch v := o[key].(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	}
	return ""
}

// Renderable is what a Region can show.
type Renderable interface {
	Render() error
	El() *html.Node
}

// AsyncRenderable views can render off the loop goroutine.
type AsyncRenderable interface {
	Renderable
	RenderAsync(loop *Loop) *Pending
}

// Destroyable views are torn down with Destroy.
type Destroyable interface {
	Destroy()
}

// Removable views only know how to detach themselves.
type Removable interface {
	Remove()
}

type destroyedChecker interface {
	IsDestroyed() bool
}

// ChildView is a view managed by a CollectionView.
type ChildView interface {
	Renderable
	Eventable
	Destroyable
	IsDestroyed() bool
}

// ViewFactory builds the view displaying model. opts is the per child option
// bag of the CollectionView.
type ViewFactory func(model Model, opts Options) (ChildView, error)

var placeholderCount atomic.Int64

// placeholderModel is the throwaway model bound to empty and loading views.
type placeholderModel struct {
	Events
	cid string
}

func newPlaceholderModel() *placeholderModel {
	n := placeholderCount.Add(1)
	return &placeholderModel{cid: "placeholder" + strconv.FormatInt(n, 10)}
}

func (p *placeholderModel) CID() string                { return p.cid }
func (p *placeholderModel) Attributes() map[string]any { return map[string]any{} }
