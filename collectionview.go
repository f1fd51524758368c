package ui

import (
	"fmt"
	"strings"

	"github.com/atdiar/regionui/dom"

	"golang.org/x/net/html"
)

// DisplayState is what a CollectionView currently displays.
type DisplayState int

const (
	StateUnrendered DisplayState = iota
	// StateNormal displays one child view per model.
	StateNormal
	// StateEmpty displays the empty view, if any, for an empty collection.
	StateEmpty
	// StateLoading displays the loading view until the collection syncs.
	StateLoading
	StateDestroyed
)

func (s DisplayState) String() string {
	switch s {
	case StateUnrendered:
		return "unrendered"
	case StateNormal:
		return "normal"
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateDestroyed:
		return "destroyed"
	}
	return fmt.Sprintf("DisplayState(%d)", int(s))
}

// CollectionViewOptions configure a CollectionView. Collection and the other
// ViewOptions fields are shared with View.
type CollectionViewOptions struct {
	ViewOptions

	// ChildView builds the view of each model. GetChildView, when set and
	// returning a factory, takes precedence for that model.
	ChildView    ViewFactory
	GetChildView func(m Model) ViewFactory

	ChildViewOptions     Options
	ChildViewOptionsFunc func(m Model, index int) Options

	EmptyView          ViewFactory
	EmptyViewOptions   Options
	LoadingView        ViewFactory
	LoadingViewOptions Options

	// ChildViewEventPrefix prefixes relayed child events, "childview" by
	// default.
	ChildViewEventPrefix string
	// ChildEvents are called with the child for its events, keyed by the
	// child's event name.
	ChildEvents map[string]func(child ChildView, evt Event)

	// DisableSort appends added children instead of following the
	// collection's order and ignores sort events.
	DisableSort bool

	// ChildViewContainer is a selector, possibly "@ui.name", of the element
	// children are appended to. The view's element is used when empty.
	ChildViewContainer     string
	ChildViewContainerFunc func(cv *CollectionView) string
}

// CollectionView displays one child view per model of a collection and keeps
// them in sync with the collection's add, remove, reset, sort and sync
// events.
type CollectionView struct {
	*View

	copts    CollectionViewOptions
	children *childRegistry
	state    DisplayState

	placeholder ChildView
	synced      bool
	isShown     bool
	bound       bool

	buffering bool
	buffer    *html.Node
	container *html.Node

	defaultChild ViewFactory
}

func NewCollectionView(opts CollectionViewOptions) *CollectionView {
	cv := &CollectionView{
		View:     NewView(opts.ViewOptions),
		copts:    opts,
		children: newChildRegistry(),
	}
	cv.self = cv
	if c := opts.Collection; c != nil {
		cv.ListenTo(c, "sync", NewEventHandler(cv.onCollectionSync))
	}
	cv.On("show", NewEventHandler(func(Event) bool {
		cv.isShown = true
		for _, child := range cv.children.list() {
			triggerShow(child)
		}
		return false
	}))
	return cv
}

func triggerShow(child ChildView) {
	TriggerMethodOn(child, "before:show", child)
	TriggerMethodOn(child, "show", child)
}

// DisplayState returns what the view currently displays.
func (cv *CollectionView) DisplayState() DisplayState { return cv.state }

// Children returns the child views in display order, placeholder included.
func (cv *CollectionView) Children() []ChildView { return cv.children.list() }

// Len returns the number of child views, placeholder included.
func (cv *CollectionView) Len() int { return cv.children.len() }

// ChildByModel returns the child view displaying m, or nil.
func (cv *CollectionView) ChildByModel(m Model) ChildView { return cv.children.findByModel(m) }

// ChildAt returns the child view at display position i, or nil.
func (cv *CollectionView) ChildAt(i int) ChildView { return cv.children.at(i) }

// Placeholder returns the empty or loading view currently displayed, or nil.
func (cv *CollectionView) Placeholder() ChildView { return cv.placeholder }

// Render builds one child view per model, or the placeholder when the
// collection is empty.
func (cv *CollectionView) Render() error {
	if cv.isDestroyed {
		return errViewDestroyed(cv.self)
	}
	cv.TriggerMethod("before:render", cv.self)
	return cv.applyChildren()
}

// RenderAsync builds the children on loop, unless the view was destroyed
// by then. Child views render synchronously once there.
func (cv *CollectionView) RenderAsync(loop *Loop) *Pending {
	if cv.isDestroyed {
		return settledPending(errViewDestroyed(cv.self))
	}
	cv.TriggerMethod("before:render", cv.self)
	return cv.renderAsync(loop, func() (string, error) { return "", nil }, func(string) error {
		return cv.applyChildren()
	})
}

func (cv *CollectionView) applyChildren() error {
	cv.container = nil
	if err := cv.renderChildren(); err != nil {
		return err
	}
	cv.isRendered = true
	cv.hasRenderedBefore = true
	cv.bindCollection()
	cv.TriggerMethod("render", cv.self)
	return nil
}

// Collection events are only observed once rendered so that no child view
// is built before the view is.
func (cv *CollectionView) bindCollection() {
	c := cv.copts.Collection
	if cv.bound || c == nil {
		return
	}
	cv.bound = true
	cv.ListenTo(c, "add", NewEventHandler(cv.onCollectionAdd))
	cv.ListenTo(c, "remove", NewEventHandler(cv.onCollectionRemove))
	cv.ListenTo(c, "reset", NewEventHandler(cv.onCollectionReset))
	cv.ListenTo(c, "sort", NewEventHandler(cv.onCollectionSort))
}

func (cv *CollectionView) isEmpty() bool {
	return cv.copts.Collection == nil || cv.copts.Collection.Len() == 0
}

func (cv *CollectionView) isSynced() bool {
	if cv.synced {
		return true
	}
	s, ok := cv.copts.Collection.(Synced)
	return ok && s.Synced()
}

func (cv *CollectionView) renderChildren() error {
	cv.destroyChildren()
	container, err := cv.childViewContainer()
	if err != nil {
		return err
	}
	if cv.isEmpty() {
		return cv.showPlaceholder()
	}

	cv.TriggerMethod("before:render:collection", cv.self)
	cv.startBuffering()
	for i, m := range cv.copts.Collection.Models() {
		if err := cv.addChildFor(m, i); err != nil {
			cv.endBuffering(container)
			return err
		}
	}
	cv.endBuffering(container)
	cv.state = StateNormal
	cv.TriggerMethod("render:collection", cv.self)
	return nil
}

func (cv *CollectionView) startBuffering() {
	cv.buffering = true
	cv.buffer = dom.NewFragment()
}

func (cv *CollectionView) endBuffering(container *html.Node) {
	cv.buffering = false
	dom.MoveChildren(container, cv.buffer)
	cv.buffer = nil
	if cv.isShown {
		for _, child := range cv.children.list() {
			triggerShow(child)
		}
	}
}

func (cv *CollectionView) showPlaceholder() error {
	if cv.copts.LoadingView != nil && !cv.isSynced() {
		return cv.showLoadingView()
	}
	return cv.showEmptyView()
}

func (cv *CollectionView) showEmptyView() error {
	if cv.copts.EmptyView == nil {
		cv.state = StateEmpty
		return nil
	}
	cv.TriggerMethod("before:render:empty", cv.self)
	if err := cv.addPlaceholder(cv.copts.EmptyView, cv.copts.EmptyViewOptions); err != nil {
		return err
	}
	cv.state = StateEmpty
	cv.TriggerMethod("render:empty", cv.self)
	return nil
}

func (cv *CollectionView) showLoadingView() error {
	cv.TriggerMethod("before:render:loading", cv.self)
	if err := cv.addPlaceholder(cv.copts.LoadingView, cv.copts.LoadingViewOptions); err != nil {
		return err
	}
	cv.state = StateLoading
	cv.TriggerMethod("render:loading", cv.self)
	return nil
}

func (cv *CollectionView) addPlaceholder(f ViewFactory, opts Options) error {
	m := newPlaceholderModel()
	child, err := f(m, opts.Merge())
	if err != nil {
		return err
	}
	if child == nil {
		return fmt.Errorf("%w: placeholder factory returned no view", ErrNoChildView)
	}
	cv.placeholder = child
	return cv.addChild(child, m, 0)
}

func (cv *CollectionView) destroyPlaceholder() {
	if cv.placeholder == nil {
		return
	}
	kind := "empty"
	if cv.state == StateLoading {
		kind = "loading"
	}
	cv.TriggerMethod("before:remove:"+kind, cv.self)
	cv.removeChildView(cv.placeholder)
	cv.placeholder = nil
	cv.TriggerMethod("remove:"+kind, cv.self)
}

func (cv *CollectionView) childViewFor(m Model) (ViewFactory, error) {
	if cv.copts.GetChildView != nil {
		if f := cv.copts.GetChildView(m); f != nil {
			return f, nil
		}
	}
	if cv.copts.ChildView != nil {
		return cv.copts.ChildView, nil
	}
	if cv.defaultChild != nil {
		return cv.defaultChild, nil
	}
	return nil, fmt.Errorf("%w: no child view for model %s", ErrNoChildView, m.CID())
}

func (cv *CollectionView) childOptions(m Model, index int) Options {
	o := cv.copts.ChildViewOptions.Merge()
	if cv.copts.ChildViewOptionsFunc != nil {
		o = o.Merge(cv.copts.ChildViewOptionsFunc(m, index))
	}
	return o
}

func (cv *CollectionView) addChildFor(m Model, index int) error {
	f, err := cv.childViewFor(m)
	if err != nil {
		return err
	}
	child, err := f(m, cv.childOptions(m, index))
	if err != nil {
		return err
	}
	if child == nil {
		return fmt.Errorf("%w: factory returned no view for model %s", ErrNoChildView, m.CID())
	}
	cv.TriggerMethod("before:add:child", child)
	if err := cv.addChild(child, m, index); err != nil {
		return err
	}
	cv.TriggerMethod("add:child", child)
	return nil
}

func (cv *CollectionView) addChild(child ChildView, m Model, index int) error {
	index = cv.children.add(child, m, index)
	cv.relay(child)
	if err := child.Render(); err != nil {
		return err
	}
	if err := cv.attachChild(child, index); err != nil {
		return err
	}
	if cv.isShown && !cv.buffering {
		triggerShow(child)
	}
	return nil
}

// attachChild inserts the child's element before the element of the child
// that follows it in display order, so that insertions keep the collection's
// order in the DOM.
func (cv *CollectionView) attachChild(child ChildView, index int) error {
	if cv.buffering {
		dom.Append(cv.buffer, child.El())
		return nil
	}
	container, err := cv.childViewContainer()
	if err != nil {
		return err
	}
	if next := cv.children.at(index + 1); next != nil && next.El().Parent == container {
		dom.InsertBefore(container, child.El(), next.El())
		return nil
	}
	dom.Append(container, child.El())
	return nil
}

// childViewContainer elects, once per render, the element children are
// appended to.
func (cv *CollectionView) childViewContainer() (*html.Node, error) {
	if cv.container != nil {
		return cv.container, nil
	}
	sel := cv.copts.ChildViewContainer
	if cv.copts.ChildViewContainerFunc != nil {
		sel = cv.copts.ChildViewContainerFunc(cv)
	}
	if sel == "" {
		cv.container = cv.el
		return cv.container, nil
	}

	var n *html.Node
	var err error
	if name, ok := strings.CutPrefix(sel, "@ui."); ok {
		n = cv.ui[name]
		if s, declared := cv.opts.UI[name]; n == nil && declared {
			n, err = dom.FindOne(cv.el, s)
		}
	} else {
		n, err = dom.FindOne(cv.el, sel)
	}
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, fmt.Errorf("%w: %q", ErrChildViewContainerMissing, sel)
	}
	cv.container = n
	return n, nil
}

// relay re-triggers every event of child on the view, prefixed, with the
// child as first argument.
func (cv *CollectionView) relay(child ChildView) {
	prefix := cv.copts.ChildViewEventPrefix
	if prefix == "" {
		prefix = "childview"
	}
	h := NewEventHandler(func(evt Event) bool {
		if fn := cv.copts.ChildEvents[evt.Type]; fn != nil {
			fn(child, evt)
		}
		args := make([]any, 0, len(evt.Args)+1)
		args = append(args, child)
		args = append(args, evt.Args...)
		cv.TriggerMethod(prefix+":"+evt.Type, args...)
		return false
	})
	cv.ListenTo(child, "all", h)
	cv.children.bindings[child] = h
}

func (cv *CollectionView) unrelay(child ChildView) {
	if h := cv.children.bindings[child]; h != nil {
		cv.StopListening(child, "all", h)
	}
}

func (cv *CollectionView) removeChildView(child ChildView) {
	if child == nil {
		return
	}
	cv.TriggerMethod("before:remove:child", child)
	if !child.IsDestroyed() {
		child.Destroy()
	}
	cv.unrelay(child)
	cv.children.remove(child)
	cv.TriggerMethod("remove:child", child)
}

func (cv *CollectionView) destroyChildren() {
	cv.destroyPlaceholder()
	for _, child := range cv.children.list() {
		cv.removeChildView(child)
	}
}

func (cv *CollectionView) onCollectionAdd(evt Event) bool {
	m, ok := evt.Arg(0).(Model)
	if !ok {
		return false
	}
	o := changeOptions(evt)
	cv.destroyPlaceholder()

	var index int
	switch {
	case o.Positioned:
		index = o.At
	case !cv.copts.DisableSort:
		index = cv.copts.Collection.IndexOf(m)
	default:
		index = cv.children.len()
	}
	DEBUG("ui: adding child for %s at %d", m.CID(), index)
	if err := cv.addChildFor(m, index); err != nil {
		panic(err)
	}
	cv.state = StateNormal
	return false
}

func (cv *CollectionView) onCollectionRemove(evt Event) bool {
	m, ok := evt.Arg(0).(Model)
	if !ok {
		return false
	}
	child := cv.children.findByModel(m)
	if child == nil {
		return false
	}
	cv.removeChildView(child)
	if cv.isEmpty() {
		if err := cv.showEmptyView(); err != nil {
			panic(err)
		}
	}
	return false
}

func (cv *CollectionView) onCollectionReset(Event) bool {
	if err := cv.renderChildren(); err != nil {
		panic(err)
	}
	return false
}

func (cv *CollectionView) onCollectionSort(Event) bool {
	if cv.copts.DisableSort || cv.state != StateNormal || !cv.orderChanged() {
		return false
	}
	if err := cv.renderChildren(); err != nil {
		panic(err)
	}
	return false
}

func (cv *CollectionView) orderChanged() bool {
	models := cv.copts.Collection.Models()
	if len(models) != cv.children.len() {
		return true
	}
	for i, m := range models {
		if cv.children.at(i) != cv.children.findByModel(m) {
			return true
		}
	}
	return false
}

func (cv *CollectionView) onCollectionSync(evt Event) bool {
	if c, ok := evt.Arg(0).(Collection); ok && c != cv.copts.Collection {
		return false
	}
	cv.synced = true
	if cv.state != StateLoading {
		return false
	}
	if cv.isEmpty() {
		cv.destroyPlaceholder()
		if err := cv.showEmptyView(); err != nil {
			panic(err)
		}
		return false
	}
	if err := cv.renderChildren(); err != nil {
		panic(err)
	}
	return false
}

// Destroy destroys every child view and the placeholder, then the view.
func (cv *CollectionView) Destroy() {
	if cv.isDestroyed {
		return
	}
	cv.TriggerMethod("before:destroy:collection", cv.self)
	cv.destroyChildren()
	cv.TriggerMethod("destroy:collection", cv.self)
	cv.state = StateDestroyed
	cv.View.Destroy()
}
