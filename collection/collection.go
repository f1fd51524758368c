package collection

import (
	"context"
	"slices"

	ui "github.com/atdiar/regionui"
)

// Comparator orders the models of a collection, as cmp.Compare does.
type Comparator func(a, b *Model) int

// Collection is an ordered set of models. With a comparator, models are kept
// sorted, except for a model inserted at an explicit index which keeps its
// place until the next sort.
type Collection struct {
	ui.Events

	models     []*Model
	comparator Comparator
	synced     bool
}

func New(models ...*Model) *Collection {
	c := &Collection{}
	for _, m := range models {
		if c.indexOf(m.CID()) < 0 {
			c.models = append(c.models, m)
		}
	}
	return c
}

// WithComparator sets the comparator and sorts the models without emitting
// a sort event.
func (c *Collection) WithComparator(cmp Comparator) *Collection {
	c.comparator = cmp
	c.sort()
	return c
}

// SetComparator changes the comparator. Call Sort to reorder.
func (c *Collection) SetComparator(cmp Comparator) { c.comparator = cmp }

func (c *Collection) Len() int { return len(c.models) }

// Models returns the models in order.
func (c *Collection) Models() []ui.Model {
	res := make([]ui.Model, len(c.models))
	for i, m := range c.models {
		res[i] = m
	}
	return res
}

// At returns the model at index i or nil.
func (c *Collection) At(i int) *Model {
	if i < 0 || i >= len(c.models) {
		return nil
	}
	return c.models[i]
}

// Get returns the model with the given client id or nil.
func (c *Collection) Get(cid string) *Model {
	if i := c.indexOf(cid); i >= 0 {
		return c.models[i]
	}
	return nil
}

// IndexOf returns the position of m or -1.
func (c *Collection) IndexOf(m ui.Model) int {
	if m == nil {
		return -1
	}
	return c.indexOf(m.CID())
}

func (c *Collection) indexOf(cid string) int {
	return slices.IndexFunc(c.models, func(m *Model) bool { return m.CID() == cid })
}

// AddOption modifies a single Add call.
type AddOption func(*ui.ChangeOptions)

// At inserts the model at index i, bypassing the comparator for this insert.
func At(i int) AddOption {
	return func(o *ui.ChangeOptions) {
		o.At = i
		o.Positioned = true
	}
}

// Add adds m and emits "add" (m, c, options). Without At, a collection
// with a comparator is sorted first and emits "sort" after "add". Adding a
// model already present does nothing.
func (c *Collection) Add(m *Model, opts ...AddOption) *Model {
	if i := c.indexOf(m.CID()); i >= 0 {
		return c.models[i]
	}
	var o ui.ChangeOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.Positioned {
		if o.At < 0 || o.At > len(c.models) {
			o.At = len(c.models)
		}
		c.models = slices.Insert(c.models, o.At, m)
		c.Trigger("add", m, c, o)
		return m
	}

	c.models = append(c.models, m)
	sorted := c.sort()
	c.Trigger("add", m, c, o)
	if sorted {
		c.Trigger("sort", c, ui.ChangeOptions{})
	}
	return m
}

// AddAttrs adds a new model built from attrs.
func (c *Collection) AddAttrs(attrs map[string]any, opts ...AddOption) *Model {
	return c.Add(NewModel(attrs), opts...)
}

// Remove removes m and emits "remove" (m, c, options) carrying its former
// index. It reports whether m was present.
func (c *Collection) Remove(m ui.Model) bool {
	i := c.IndexOf(m)
	if i < 0 {
		return false
	}
	removed := c.models[i]
	c.models = slices.Delete(c.models, i, i+1)
	c.Trigger("remove", removed, c, ui.ChangeOptions{Index: i})
	return true
}

// Reset replaces every model and emits "reset" (c, options) carrying the
// previous models.
func (c *Collection) Reset(models ...*Model) {
	prev := c.Models()
	c.models = c.models[:0:0]
	for _, m := range models {
		if c.indexOf(m.CID()) < 0 {
			c.models = append(c.models, m)
		}
	}
	c.sort()
	c.Trigger("reset", c, ui.ChangeOptions{Previous: prev})
}

// Sort sorts the models with the comparator and emits "sort". It does
// nothing without a comparator.
func (c *Collection) Sort() {
	if c.sort() {
		c.Trigger("sort", c, ui.ChangeOptions{})
	}
}

func (c *Collection) sort() bool {
	if c.comparator == nil {
		return false
	}
	slices.SortStableFunc(c.models, c.comparator)
	return true
}

// Synced reports whether the collection was loaded from a Source.
func (c *Collection) Synced() bool { return c.synced }

// Fetch replaces the models with those loaded from src. It emits "request"
// before loading, then "reset" and "sync" on success or "error" on failure.
func (c *Collection) Fetch(ctx context.Context, src Source) error {
	c.Trigger("request", c)
	models, err := src.Load(ctx)
	if err != nil {
		c.Trigger("error", c, err)
		return err
	}
	c.Reset(models...)
	c.synced = true
	c.Trigger("sync", c, ui.ChangeOptions{})
	return nil
}
