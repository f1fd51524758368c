package ui

import (
	"fmt"
	"sort"

	"golang.org/x/net/html"
)

// RegionDefinition describes a region to build. A definition holding a
// Region is used as is.
type RegionDefinition struct {
	Selector            string
	Element             *html.Node
	ParentElement       func() *html.Node
	AllowMissingElement bool
	// Build constructs a custom region from the definition.
	Build  func(RegionOptions) (*Region, error)
	Region *Region
}

// Selector is the definition of a region bound to a selector.
func Selector(s string) RegionDefinition {
	return RegionDefinition{Selector: s}
}

// RegionDefinitions maps region names to definitions.
type RegionDefinitions map[string]RegionDefinition

func (d RegionDefinition) withDefaults(defaults RegionDefinition) RegionDefinition {
	if d.ParentElement == nil {
		d.ParentElement = defaults.ParentElement
	}
	if d.Build == nil {
		d.Build = defaults.Build
	}
	if !d.AllowMissingElement {
		d.AllowMissingElement = defaults.AllowMissingElement
	}
	return d
}

func buildRegion(name string, d RegionDefinition) (*Region, error) {
	if d.Region != nil {
		return d.Region, nil
	}
	if d.Selector == "" && d.Element == nil {
		return nil, fmt.Errorf("%w: region %q has neither selector nor element", ErrMalformedRegion, name)
	}
	opts := RegionOptions{
		Selector:            d.Selector,
		Element:             d.Element,
		ParentElement:       d.ParentElement,
		AllowMissingElement: d.AllowMissingElement,
	}
	if d.Build != nil {
		return d.Build(opts)
	}
	return NewRegion(opts)
}

// RegionManager holds named regions.
type RegionManager struct {
	Events

	names   []string
	regions map[string]*Region
}

func NewRegionManager() *RegionManager {
	return &RegionManager{regions: make(map[string]*Region)}
}

// AddRegions builds and adds every definition. defaults, when given, fill
// the unset fields of selector based definitions. Names are added in sorted
// order. It returns the regions added before an error occurred.
func (m *RegionManager) AddRegions(defs RegionDefinitions, defaults ...RegionDefinition) (map[string]*Region, error) {
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	added := make(map[string]*Region, len(defs))
	for _, name := range names {
		d := defs[name]
		if d.Region == nil && d.Selector != "" && len(defaults) > 0 {
			d = d.withDefaults(defaults[0])
		}
		r, err := m.AddRegion(name, d)
		if err != nil {
			return added, err
		}
		added[name] = r
	}
	return added, nil
}

// AddRegionsFunc is AddRegions for lazily computed definitions.
func (m *RegionManager) AddRegionsFunc(fn func() RegionDefinitions, defaults ...RegionDefinition) (map[string]*Region, error) {
	if fn == nil {
		return map[string]*Region{}, nil
	}
	return m.AddRegions(fn(), defaults...)
}

// AddRegion builds and stores a region under name. A region already stored
// under that name is replaced without being emptied.
func (m *RegionManager) AddRegion(name string, d RegionDefinition) (*Region, error) {
	r, err := buildRegion(name, d)
	if err != nil {
		return nil, err
	}
	m.TriggerMethod("before:add:region", name, r)
	m.store(name, r)
	m.TriggerMethod("add:region", name, r)
	return r, nil
}

func (m *RegionManager) store(name string, r *Region) {
	if _, ok := m.regions[name]; !ok {
		m.names = append(m.names, name)
	}
	m.regions[name] = r
}

// Get returns the region stored under name or nil.
func (m *RegionManager) Get(name string) *Region {
	return m.regions[name]
}

// Regions returns a copy of the name to region mapping.
func (m *RegionManager) Regions() map[string]*Region {
	res := make(map[string]*Region, len(m.regions))
	for k, v := range m.regions {
		res[k] = v
	}
	return res
}

// Names returns the region names in insertion order.
func (m *RegionManager) Names() []string {
	return append([]string(nil), m.names...)
}

func (m *RegionManager) Len() int { return len(m.names) }

// RemoveRegion empties the region, stops its listeners and forgets it.
func (m *RegionManager) RemoveRegion(name string) *Region {
	r, ok := m.regions[name]
	if !ok {
		return nil
	}
	m.remove(name, r)
	return r
}

func (m *RegionManager) remove(name string, r *Region) {
	m.TriggerMethod("before:remove:region", name, r)
	r.Empty()
	r.StopListening(nil, "", nil)
	delete(m.regions, name)
	for i, n := range m.names {
		if n == name {
			m.names = append(m.names[:i], m.names[i+1:]...)
			break
		}
	}
	m.TriggerMethod("remove:region", name, r)
}

// EmptyRegions empties every region, in insertion order.
func (m *RegionManager) EmptyRegions() {
	for _, name := range m.names {
		m.regions[name].Empty()
	}
}

// RemoveRegions removes every region, in insertion order.
func (m *RegionManager) RemoveRegions() {
	for _, name := range m.Names() {
		m.remove(name, m.regions[name])
	}
}

// Destroy removes every region and unbinds the manager's events.
func (m *RegionManager) Destroy() {
	m.RemoveRegions()
	m.StopListening(nil, "", nil)
	m.Off("", nil)
}
