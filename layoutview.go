package ui

import (
	"golang.org/x/net/html"
)

// LayoutViewOptions configure a LayoutView.
type LayoutViewOptions struct {
	ViewOptions

	Regions     RegionDefinitions
	RegionsFunc func() RegionDefinitions
}

// LayoutView is a View whose regions are looked up in its own element.
type LayoutView struct {
	*View

	regions *RegionManager
}

// NewLayoutView builds the view and its regions. Regions are not resolved
// before the view renders.
func NewLayoutView(opts LayoutViewOptions) (*LayoutView, error) {
	lv := &LayoutView{
		View:    NewView(opts.ViewOptions),
		regions: NewRegionManager(),
	}
	lv.self = lv
	lv.forwardRegionEvents()

	defs := opts.Regions
	if opts.RegionsFunc != nil {
		defs = opts.RegionsFunc()
	}
	if _, err := lv.regions.AddRegions(defs, lv.regionDefaults()); err != nil {
		return nil, err
	}
	return lv, nil
}

func (lv *LayoutView) regionDefaults() RegionDefinition {
	return RegionDefinition{ParentElement: func() *html.Node { return lv.el }}
}

func (lv *LayoutView) forwardRegionEvents() {
	for _, name := range []string{"before:add:region", "add:region", "before:remove:region", "remove:region"} {
		name := name
		lv.ListenTo(lv.regions, name, NewEventHandler(func(evt Event) bool {
			lv.TriggerMethod(name, evt.Args...)
			return false
		}))
	}
}

// Render renders the template. On every render but the first, the regions
// are reset beforehand since the elements they held are gone.
func (lv *LayoutView) Render() error {
	if lv.isDestroyed {
		return errViewDestroyed(lv)
	}
	lv.resetRegions()
	return lv.View.Render()
}

// RenderAsync renders the template on another goroutine. The regions are
// reset and the markup applied on loop, unless the view was destroyed by
// then.
func (lv *LayoutView) RenderAsync(loop *Loop) *Pending {
	if lv.isDestroyed {
		return settledPending(errViewDestroyed(lv))
	}
	lv.TriggerMethod("before:render", lv)
	r, ref, data := lv.renderer(), lv.opts.Template, lv.SerializeData()
	return lv.renderAsync(loop, func() (string, error) { return r.Render(ref, data) }, func(markup string) error {
		lv.resetRegions()
		return lv.apply(markup)
	})
}

func (lv *LayoutView) resetRegions() {
	if !lv.hasRenderedBefore {
		return
	}
	for _, name := range lv.regions.Names() {
		lv.regions.Get(name).Reset()
	}
}

// Regions returns the region manager of the view.
func (lv *LayoutView) Regions() *RegionManager { return lv.regions }

func (lv *LayoutView) GetRegion(name string) *Region { return lv.regions.Get(name) }

// AddRegion adds a region resolved within the view's element.
func (lv *LayoutView) AddRegion(name string, d RegionDefinition) (*Region, error) {
	if d.Region == nil && d.Selector != "" {
		d = d.withDefaults(lv.regionDefaults())
	}
	return lv.regions.AddRegion(name, d)
}

func (lv *LayoutView) AddRegions(defs RegionDefinitions) (map[string]*Region, error) {
	return lv.regions.AddRegions(defs, lv.regionDefaults())
}

func (lv *LayoutView) RemoveRegion(name string) *Region {
	return lv.regions.RemoveRegion(name)
}

// Destroy destroys the regions, and the views they show, then the view.
func (lv *LayoutView) Destroy() {
	if lv.isDestroyed {
		return
	}
	lv.regions.Destroy()
	lv.View.Destroy()
}
