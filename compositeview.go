package ui

import (
	"github.com/atdiar/regionui/dom"
)

// CompositeViewOptions configure a CompositeView.
type CompositeViewOptions struct {
	CollectionViewOptions

	// ChildCollection returns the collection of a child built recursively,
	// when neither ChildView nor GetChildView is set.
	ChildCollection func(m Model) Collection
}

// CompositeView renders its model's template, then the child views of its
// collection into a container element of that template.
//
// Without a configured child view, children are CompositeViews built from
// the same options, which is how trees are displayed.
type CompositeView struct {
	*CollectionView

	composite CompositeViewOptions
}

func NewCompositeView(opts CompositeViewOptions) *CompositeView {
	v := &CompositeView{
		CollectionView: NewCollectionView(opts.CollectionViewOptions),
		composite:      opts,
	}
	v.self = v
	if opts.ChildView == nil && opts.GetChildView == nil {
		v.defaultChild = v.buildBranch
	}
	return v
}

func (v *CompositeView) buildBranch(m Model, o Options) (ChildView, error) {
	opts := v.composite
	opts.Element = nil
	opts.Model = m
	opts.Collection = nil
	if opts.ChildCollection != nil {
		opts.Collection = opts.ChildCollection(m)
	}
	opts.Options = opts.Options.Merge(o)
	return NewCompositeView(opts), nil
}

// Render renders the model template, binds the ui elements it contains and
// only then renders the children, since their container usually comes from
// that template.
func (v *CompositeView) Render() error {
	if v.isDestroyed {
		return errViewDestroyed(v)
	}
	v.TriggerMethod("before:render", v)
	markup, err := v.renderer().Render(v.opts.Template, v.serializeModel())
	if err != nil {
		return err
	}
	return v.applyComposite(markup)
}

// RenderAsync renders the model template on another goroutine. The markup,
// the ui elements and the children are applied on loop, unless the view was
// destroyed by then.
func (v *CompositeView) RenderAsync(loop *Loop) *Pending {
	if v.isDestroyed {
		return settledPending(errViewDestroyed(v))
	}
	v.TriggerMethod("before:render", v)
	r, ref, data := v.renderer(), v.opts.Template, v.serializeModel()
	return v.renderAsync(loop, func() (string, error) { return r.Render(ref, data) }, v.applyComposite)
}

func (v *CompositeView) applyComposite(markup string) error {
	v.container = nil
	v.destroyChildren()
	v.ui = nil
	if err := dom.SetContent(v.el, markup); err != nil {
		return err
	}
	v.TriggerMethod("composite:model:rendered", v)
	if err := v.bindUIElements(); err != nil {
		return err
	}

	if err := v.renderChildren(); err != nil {
		return err
	}
	v.TriggerMethod("composite:collection:rendered", v)

	v.isRendered = true
	v.hasRenderedBefore = true
	v.bindCollection()
	v.TriggerMethod("composite:rendered", v)
	v.TriggerMethod("render", v)
	return nil
}
