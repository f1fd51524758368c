package ui

import (
	"fmt"

	"github.com/atdiar/regionui/dom"

	"golang.org/x/net/html"
)

// RegionOptions configure a Region. Either Selector or Element is required.
type RegionOptions struct {
	Selector string
	Element  *html.Node
	// ParentElement returns the root Selector is resolved in. It is called
	// each time the element has to be resolved, so that regions nested in a
	// view keep working after the view re-renders.
	ParentElement func() *html.Node
	// AllowMissingElement turns a missing element into a silent no-op show.
	AllowMissingElement bool
	// Attach puts the rendered view in the region's element. The default
	// empties the element and appends the view's root.
	Attach func(r *Region, v Renderable)
}

// Region manages the display of one view at a time in an element.
type Region struct {
	Events

	selector      string
	el            *html.Node
	parentElement func() *html.Node
	allowMissing  bool
	attach        func(*Region, Renderable)

	currentView Renderable
	teardown    func()
	watched     Eventable
	onDestroy   *EventHandler
}

// NewRegion returns a region. Its element is only looked up on first use
// since it may not exist yet.
func NewRegion(opts RegionOptions) (*Region, error) {
	if opts.Selector == "" && opts.Element == nil {
		return nil, fmt.Errorf("%w: a selector or an element is required", ErrMalformedRegion)
	}
	attach := opts.Attach
	if attach == nil {
		attach = attachHTML
	}
	return &Region{
		selector:      opts.Selector,
		el:            opts.Element,
		parentElement: opts.ParentElement,
		allowMissing:  opts.AllowMissingElement,
		attach:        attach,
	}, nil
}

func attachHTML(r *Region, v Renderable) {
	dom.Empty(r.el)
	dom.Append(r.el, v.El())
}

// ShowOption modifies a single Show call.
type ShowOption func(*showOptions)

type showOptions struct {
	preventDestroy bool
	forceShow      bool
}

// PreventDestroy keeps the previous view alive when it is swapped out.
func PreventDestroy() ShowOption {
	return func(o *showOptions) { o.preventDestroy = true }
}

// ForceShow re-renders and re-attaches a view that is already shown.
func ForceShow() ShowOption {
	return func(o *showOptions) { o.forceShow = true }
}

func newShowOptions(opts []ShowOption) showOptions {
	var o showOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (r *Region) El() *html.Node          { return r.el }
func (r *Region) Selector() string        { return r.selector }
func (r *Region) CurrentView() Renderable { return r.currentView }
func (r *Region) HasView() bool           { return r.currentView != nil }

func (r *Region) ensureElement() (bool, error) {
	if r.el != nil {
		return true, nil
	}
	var root *html.Node
	if r.parentElement != nil {
		root = r.parentElement()
	}
	var el *html.Node
	if root != nil {
		n, err := dom.FindOne(root, r.selector)
		if err != nil {
			return false, err
		}
		el = n
	}
	if el == nil {
		if r.allowMissing {
			return false, nil
		}
		return false, fmt.Errorf("%w: region selector %q", ErrNoElement, r.selector)
	}
	r.el = el
	return true, nil
}

// Show renders view and displays it in the region. A different view shown
// before is destroyed unless PreventDestroy is given. Showing the view that
// is already displayed does nothing unless ForceShow is given.
func (r *Region) Show(view Renderable, opts ...ShowOption) error {
	old, isChanging, proceed, err := r.prepareShow(view, newShowOptions(opts))
	if err != nil || !proceed {
		return err
	}
	if err := view.Render(); err != nil {
		return err
	}
	r.finishShow(view, old, isChanging)
	return nil
}

// ShowAsync is Show for views rendering asynchronously. The view is attached
// and the show events fire on loop once its render settles, unless the view
// was destroyed in the meantime.
func (r *Region) ShowAsync(view AsyncRenderable, loop *Loop, opts ...ShowOption) *Pending {
	old, isChanging, proceed, err := r.prepareShow(view, newShowOptions(opts))
	if err != nil || !proceed {
		return settledPending(err)
	}
	p := view.RenderAsync(loop)
	p.onApplied(func(err error) {
		if err != nil {
			return
		}
		r.finishShow(view, old, isChanging)
	})
	return p
}

func (r *Region) prepareShow(view Renderable, o showOptions) (old Renderable, isChanging, proceed bool, err error) {
	ok, err := r.ensureElement()
	if err != nil || !ok {
		return nil, false, false, err
	}
	if d, ok := view.(destroyedChecker); ok && d.IsDestroyed() {
		return nil, false, false, errViewDestroyed(view)
	}

	old = r.currentView
	isDifferent := view != old
	isChanging = old != nil
	shouldDestroy := isDifferent && !o.preventDestroy
	shouldShow := isDifferent || o.forceShow

	if isChanging {
		r.TriggerMethod("before:swapOut", old, r)
	}
	if shouldDestroy {
		r.Empty()
	} else if isChanging && shouldShow {
		r.unwatch()
	}
	if !shouldShow {
		return old, isChanging, false, nil
	}
	r.watch(view)
	return old, isChanging, true, nil
}

func (r *Region) finishShow(view, old Renderable, isChanging bool) {
	DEBUG("ui: region %q shows %T", r.selector, view)
	if isChanging {
		r.TriggerMethod("before:swap", view, r)
	}
	r.TriggerMethod("before:show", view, r)
	TriggerMethodOn(view, "before:show", view, r)
	if isChanging {
		r.TriggerMethod("swapOut", old, r)
	}

	r.attach(r, view)
	r.currentView = view
	r.teardown = teardownOf(view)

	if isChanging {
		r.TriggerMethod("swap", view, r)
	}
	r.TriggerMethod("show", view, r)
	TriggerMethodOn(view, "show", view, r)
}

// watch empties the region when the view is destroyed by someone else.
func (r *Region) watch(view Renderable) {
	r.unwatch()
	ev, ok := view.(Eventable)
	if !ok {
		return
	}
	h := NewEventHandler(func(Event) bool {
		if r.currentView == view {
			r.Empty()
		}
		return false
	}).TriggerOnce()
	ev.On("destroy", h)
	r.watched, r.onDestroy = ev, h
}

func (r *Region) unwatch() {
	if r.watched != nil {
		r.watched.Off("destroy", r.onDestroy)
	}
	r.watched, r.onDestroy = nil, nil
}

// teardownOf resolves how a view is disposed of when the region lets it go.
func teardownOf(view Renderable) func() {
	switch v := view.(type) {
	case Destroyable:
		return func() {
			if d, ok := view.(destroyedChecker); ok && d.IsDestroyed() {
				return
			}
			v.Destroy()
		}
	case Removable:
		return v.Remove
	}
	return func() { dom.Detach(view.El()) }
}

// Empty destroys the current view, or only detaches it from the region when
// PreventDestroy is given. Emptying an empty region does nothing.
func (r *Region) Empty(opts ...ShowOption) {
	view := r.currentView
	if view == nil {
		return
	}
	o := newShowOptions(opts)
	r.unwatch()
	r.TriggerMethod("before:empty", view)
	if !o.preventDestroy && r.teardown != nil {
		r.teardown()
	}
	r.TriggerMethod("empty", view)
	r.currentView = nil
	r.teardown = nil
}

// Reset empties the region and forgets its element so that it is looked up
// again on next show.
func (r *Region) Reset() {
	r.Empty()
	if r.selector != "" {
		r.el = nil
	}
}

// AttachView makes view the current view without rendering nor showing it,
// for views whose element is already in place.
func (r *Region) AttachView(view Renderable) {
	r.currentView = view
	r.teardown = teardownOf(view)
}

// Destroy empties the region and stops its listeners.
func (r *Region) Destroy() {
	r.Empty()
	r.StopListening(nil, "", nil)
}
