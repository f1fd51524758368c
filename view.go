package ui

import (
	"github.com/atdiar/regionui/dom"
	"github.com/atdiar/regionui/templates"

	"golang.org/x/net/html"
)

// ViewOptions configure a View.
type ViewOptions struct {
	TagName    string
	ClassName  string
	ID         string
	Attributes map[string]string
	// Element is adopted as the view's root instead of a new one.
	Element *html.Node

	Template        templates.Ref
	Renderer        *templates.Renderer
	TemplateHelpers map[string]any

	Model      Model
	Collection Collection

	// UI maps names to selectors evaluated within the view after each render.
	UI map[string]string

	ModelEvents      map[string]func(Event) bool
	CollectionEvents map[string]func(Event) bool
	Methods          Methods
	Behaviors        []Behavior

	// Options is the option bag handed over by a parent CollectionView.
	Options Options
}

// View renders a template into its root element.
type View struct {
	Events

	opts ViewOptions
	el   *html.Node
	ui   map[string]*html.Node
	// self is the outermost view embedding this one, passed along with
	// lifecycle events.
	self Renderable

	isRendered        bool
	isDestroyed       bool
	hasRenderedBefore bool
}

func NewView(opts ViewOptions) *View {
	v := &View{}
	v.init(opts)
	return v
}

func (v *View) init(opts ViewOptions) {
	v.opts = opts
	v.self = v
	v.el = opts.Element
	if v.el == nil {
		v.el = dom.NewElement(opts.TagName)
	}
	if opts.ClassName != "" {
		dom.SetAttr(v.el, "class", opts.ClassName)
	}
	if opts.ID != "" {
		dom.SetAttr(v.el, "id", opts.ID)
	}
	for k, val := range opts.Attributes {
		dom.SetAttr(v.el, k, val)
	}
	for name, m := range opts.Methods {
		v.SetMethod(name, m)
	}

	bindEventMap(&v.Events, opts.Model, opts.ModelEvents)
	bindEventMap(&v.Events, opts.Collection, opts.CollectionEvents)
	for _, b := range opts.Behaviors {
		v.addMethods(b.Methods)
		bindEventMap(&v.Events, opts.Model, b.ModelEvents)
		bindEventMap(&v.Events, opts.Collection, b.CollectionEvents)
	}
}

// ItemViewFactory returns a ViewFactory building Views from opts, bound to
// the child's model and option bag.
func ItemViewFactory(opts ViewOptions) ViewFactory {
	return func(m Model, o Options) (ChildView, error) {
		child := opts
		child.Model = m
		child.Element = nil
		child.Options = opts.Options.Merge(o)
		return NewView(child), nil
	}
}

func (v *View) El() *html.Node         { return v.el }
func (v *View) Model() Model           { return v.opts.Model }
func (v *View) Collection() Collection { return v.opts.Collection }
func (v *View) Options() Options       { return v.opts.Options }
func (v *View) IsRendered() bool       { return v.isRendered }
func (v *View) IsDestroyed() bool      { return v.isDestroyed }

// UI returns the element bound under name by the last render, or nil.
func (v *View) UI(name string) *html.Node {
	return v.ui[name]
}

func (v *View) renderer() *templates.Renderer {
	if v.opts.Renderer != nil {
		return v.opts.Renderer
	}
	return templates.Default
}

// SerializeData returns the template data: the model attributes, or the
// collection's under "items" when the view has no model, plus the template
// helpers.
func (v *View) SerializeData() map[string]any {
	data := make(map[string]any)
	switch {
	case v.opts.Model != nil:
		for k, val := range v.opts.Model.Attributes() {
			data[k] = val
		}
	case v.opts.Collection != nil:
		models := v.opts.Collection.Models()
		items := make([]map[string]any, 0, len(models))
		for _, m := range models {
			items = append(items, m.Attributes())
		}
		data["items"] = items
	}
	v.mixinHelpers(data)
	return data
}

func (v *View) serializeModel() map[string]any {
	data := make(map[string]any)
	if v.opts.Model != nil {
		for k, val := range v.opts.Model.Attributes() {
			data[k] = val
		}
	}
	v.mixinHelpers(data)
	return data
}

func (v *View) mixinHelpers(data map[string]any) {
	for k, val := range v.opts.TemplateHelpers {
		data[k] = val
	}
}

// Render renders the template into the view's element and binds the UI
// elements.
func (v *View) Render() error {
	if v.isDestroyed {
		return errViewDestroyed(v.self)
	}
	v.TriggerMethod("before:render", v.self)
	markup, err := v.renderer().Render(v.opts.Template, v.SerializeData())
	if err != nil {
		return err
	}
	return v.apply(markup)
}

func (v *View) apply(markup string) error {
	v.ui = nil
	if err := dom.SetContent(v.el, markup); err != nil {
		return err
	}
	if err := v.bindUIElements(); err != nil {
		return err
	}
	v.isRendered = true
	v.hasRenderedBefore = true
	v.TriggerMethod("render", v.self)
	return nil
}

// RenderAsync renders the template on another goroutine and applies the
// result on loop. A result settling after the view was destroyed is dropped:
// the element is left untouched and no render event fires.
func (v *View) RenderAsync(loop *Loop) *Pending {
	if v.isDestroyed {
		return settledPending(errViewDestroyed(v.self))
	}
	v.TriggerMethod("before:render", v.self)
	r, ref, data := v.renderer(), v.opts.Template, v.SerializeData()
	return v.renderAsync(loop, func() (string, error) { return r.Render(ref, data) }, v.apply)
}

// renderAsync runs render on another goroutine, then apply with its markup
// on loop unless the view was destroyed in the meantime. render must not
// touch the view.
func (v *View) renderAsync(loop *Loop, render func() (string, error), apply func(markup string) error) *Pending {
	p := newPending()
	go func() {
		markup, err := render()
		loop.Do(func() {
			if v.isDestroyed {
				DEBUG("ui: dropping render result of destroyed %T", v.self)
				p.settle(nil, true)
				return
			}
			if err == nil {
				err = apply(markup)
			}
			p.settle(err, false)
		})
	}()
	return p
}

func (v *View) bindUIElements() error {
	if len(v.opts.UI) == 0 {
		return nil
	}
	v.ui = make(map[string]*html.Node, len(v.opts.UI))
	for name, sel := range v.opts.UI {
		n, err := dom.FindOne(v.el, sel)
		if err != nil {
			return err
		}
		v.ui[name] = n
	}
	return nil
}

// Destroy tears the view down: lifecycle events, element removal and
// unbinding of every listener. Destroying twice is a no-op.
func (v *View) Destroy() {
	if v.isDestroyed {
		return
	}
	v.TriggerMethod("before:destroy", v.self)
	v.isDestroyed = true
	v.TriggerMethod("destroy", v.self)
	v.ui = nil
	v.isRendered = false
	v.Remove()
	v.Off("", nil)
}

// Remove detaches the element and stops listening to other objects.
func (v *View) Remove() {
	dom.Detach(v.el)
	v.StopListening(nil, "", nil)
}
