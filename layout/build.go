package layout

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	ui "github.com/atdiar/regionui"
	"github.com/atdiar/regionui/collection"
	"github.com/atdiar/regionui/dom"
	"github.com/atdiar/regionui/templates"

	"golang.org/x/net/html"
	"golang.org/x/text/language"
)

// Env holds what a page needs from its host.
type Env struct {
	// Renderer resolves template ids. The page's inline templates are added
	// to its cache. When nil, the page gets a renderer of its own serving
	// only its inline templates.
	Renderer *templates.Renderer
	// DB serves the data sets declared with a query.
	DB *sql.DB
	// Channel is the application channel name.
	Channel string
}

// Built is a page whose views are rendered and shown in its document.
type Built struct {
	App         *ui.Application
	Doc         *html.Node
	Collections map[string]*collection.Collection
}

// Render returns the document formatted as indented html.
func (b *Built) Render() (string, error) {
	return dom.Format(b.Doc)
}

// Destroy destroys every view of the page.
func (b *Built) Destroy() {
	b.App.Destroy()
}

type builder struct {
	page        *Page
	env         Env
	collections map[string]*collection.Collection
}

// Build parses the document, loads the data sets and shows the view of each
// region, in region name order.
func Build(ctx context.Context, p *Page, env Env) (*Built, error) {
	if env.Renderer == nil {
		env.Renderer = templates.NewRenderer(templates.NewCache(nil))
	}
	doc, err := dom.Document(p.Document)
	if err != nil {
		return nil, fmt.Errorf("layout: parsing document: %w", err)
	}
	inline := templates.MapLoader(p.Templates)
	for id := range p.Templates {
		t, err := inline.Load(id)
		if err != nil {
			return nil, err
		}
		env.Renderer.Cache.Set(id, t)
	}

	b := &builder{page: p, env: env, collections: make(map[string]*collection.Collection)}
	for _, name := range sortedKeys(p.Data) {
		c, err := b.load(ctx, p.Data[name])
		if err != nil {
			return nil, fmt.Errorf("layout: data set %q: %w", name, err)
		}
		b.collections[name] = c
	}

	app := ui.NewApplication(doc, env.Channel)
	for _, name := range sortedKeys(p.Regions) {
		spec := p.Regions[name]
		r, err := app.AddRegion(name, ui.RegionDefinition{
			Selector:            spec.Selector,
			AllowMissingElement: spec.AllowMissing,
		})
		if err != nil {
			return nil, err
		}
		if err := b.show(r, spec.View); err != nil {
			app.Destroy()
			return nil, fmt.Errorf("layout: region %q: %w", name, err)
		}
	}
	return &Built{App: app, Doc: doc, Collections: b.collections}, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (b *builder) load(ctx context.Context, ds DataSet) (*collection.Collection, error) {
	c := collection.New()
	if ds.SortBy != "" {
		cmp := collection.ByAttr(ds.SortBy)
		if ds.Locale != "" {
			tag, err := language.Parse(ds.Locale)
			if err != nil {
				return nil, err
			}
			cmp = collection.ByAttrCollated(ds.SortBy, tag)
		}
		if ds.Desc {
			cmp = collection.Reverse(cmp)
		}
		c.SetComparator(cmp)
	}

	var src collection.Source = collection.SliceSource(ds.Rows)
	if ds.Query != "" {
		if b.env.DB == nil {
			return nil, ErrNoDatabase
		}
		src = collection.SQLSource{DB: b.env.DB, Query: ds.Query, Args: ds.Args}
	}
	if err := c.Fetch(ctx, src); err != nil {
		return nil, err
	}
	return c, nil
}

func (b *builder) show(r *ui.Region, spec *ViewSpec) error {
	if spec == nil {
		return nil
	}
	v, err := b.view(spec, nil)
	if err != nil {
		return err
	}
	if err := r.Show(v); err != nil {
		return err
	}
	lv, ok := v.(*ui.LayoutView)
	if !ok {
		return nil
	}
	for _, name := range sortedKeys(spec.Regions) {
		if err := b.show(lv.GetRegion(name), spec.Regions[name].View); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func (b *builder) template(id string) templates.Ref {
	if id == "" {
		return templates.None
	}
	return templates.ID(id)
}

func (b *builder) viewOptions(spec *ViewSpec, m ui.Model) ui.ViewOptions {
	if m == nil && spec.Model != nil {
		m = collection.NewModel(spec.Model)
	}
	return ui.ViewOptions{
		TagName:    spec.Tag,
		ClassName:  spec.Class,
		ID:         spec.ID,
		Attributes: spec.Attrs,
		Template:   b.template(spec.Template),
		Renderer:   b.env.Renderer,
		Model:      m,
		UI:         spec.UI,
	}
}

func (b *builder) collectionOptions(spec *ViewSpec, m ui.Model) ui.CollectionViewOptions {
	opts := ui.CollectionViewOptions{
		ViewOptions:        b.viewOptions(spec, m),
		ChildViewContainer: spec.Container,
	}
	if c, ok := b.collections[spec.Data]; ok {
		opts.Collection = c
	}
	if spec.Child != nil {
		opts.ChildView = b.factory(spec.Child)
	}
	if spec.Empty != nil {
		opts.EmptyView = b.factory(spec.Empty)
	}
	return opts
}

func (b *builder) factory(spec *ViewSpec) ui.ViewFactory {
	return func(m ui.Model, _ ui.Options) (ui.ChildView, error) {
		v, err := b.view(spec, m)
		if err != nil {
			return nil, err
		}
		child, ok := v.(ui.ChildView)
		if !ok {
			return nil, fmt.Errorf("%w: %T cannot be a child view", ui.ErrNoChildView, v)
		}
		return child, nil
	}
}

// view builds the view described by spec, bound to m when not nil.
func (b *builder) view(spec *ViewSpec, m ui.Model) (ui.Renderable, error) {
	switch spec.kind() {
	case KindItem:
		return ui.NewView(b.viewOptions(spec, m)), nil
	case KindCollection:
		return ui.NewCollectionView(b.collectionOptions(spec, m)), nil
	case KindComposite:
		opts := ui.CompositeViewOptions{CollectionViewOptions: b.collectionOptions(spec, m)}
		if spec.Children != "" {
			opts.ChildCollection = nestedRows(spec.Children)
		}
		if opts.Collection == nil && opts.ChildCollection != nil && opts.Model != nil {
			opts.Collection = opts.ChildCollection(opts.Model)
		}
		return ui.NewCompositeView(opts), nil
	case KindLayout:
		defs := make(ui.RegionDefinitions, len(spec.Regions))
		for name, r := range spec.Regions {
			defs[name] = ui.RegionDefinition{Selector: r.Selector, AllowMissingElement: r.AllowMissing}
		}
		lv, err := ui.NewLayoutView(ui.LayoutViewOptions{ViewOptions: b.viewOptions(spec, m), Regions: defs})
		if err != nil {
			return nil, err
		}
		return lv, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, spec.Kind)
}

// nestedRows returns the children of a tree node, held as a list of
// attribute maps under attr.
func nestedRows(attr string) func(ui.Model) ui.Collection {
	return func(m ui.Model) ui.Collection {
		c := collection.New()
		rows, _ := m.Attributes()[attr].([]any)
		for _, row := range rows {
			if attrs, ok := row.(map[string]any); ok {
				c.AddAttrs(attrs)
			}
		}
		return c
	}
}
