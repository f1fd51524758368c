// Package layout describes a page in YAML: its document, its regions and the
// views they show, and the data sets those views display.
//
//	document: <html><body><main id="main"></main></body></html>
//	templates:
//	  item: <span>{{.title}}</span>
//	data:
//	  todos:
//	    sortBy: title
//	    rows: [{title: b}, {title: a}]
//	regions:
//	  main:
//	    selector: "#main"
//	    view:
//	      kind: collection
//	      tag: ul
//	      data: todos
//	      child: {tag: li, template: item}
package layout

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownKind = errors.New("layout: unknown view kind")
	ErrUnknownData = errors.New("layout: unknown data set")
	ErrNoDatabase  = errors.New("layout: data set needs a database")
	ErrNoDocument  = errors.New("layout: page has no document")
)

// View kinds.
const (
	KindItem       = "item"
	KindCollection = "collection"
	KindComposite  = "composite"
	KindLayout     = "layout"
)

// Page is the root of a layout file.
type Page struct {
	Title     string                `yaml:"title"`
	Document  string                `yaml:"document"`
	Templates map[string]string     `yaml:"templates"`
	Data      map[string]DataSet    `yaml:"data"`
	Regions   map[string]RegionSpec `yaml:"regions"`
}

// DataSet is the content of a collection, given inline or as a query run
// against the database handed to Build.
type DataSet struct {
	Rows  []map[string]any `yaml:"rows"`
	Query string           `yaml:"query"`
	Args  []any            `yaml:"args"`

	SortBy string `yaml:"sortBy"`
	// Locale selects a collated comparison of SortBy, e.g. "fr".
	Locale string `yaml:"locale"`
	Desc   bool   `yaml:"desc"`
}

type RegionSpec struct {
	Selector     string    `yaml:"selector"`
	AllowMissing bool      `yaml:"allowMissing"`
	View         *ViewSpec `yaml:"view"`
}

// ViewSpec describes a view. Kind defaults to item.
type ViewSpec struct {
	Kind     string            `yaml:"kind"`
	Tag      string            `yaml:"tag"`
	Class    string            `yaml:"class"`
	ID       string            `yaml:"id"`
	Attrs    map[string]string `yaml:"attrs"`
	Template string            `yaml:"template"`
	UI       map[string]string `yaml:"ui"`

	// Model holds the attributes of the view's model.
	Model map[string]any `yaml:"model"`
	// Data names the data set of collection and composite views.
	Data string `yaml:"data"`

	Child     *ViewSpec `yaml:"child"`
	Empty     *ViewSpec `yaml:"empty"`
	Container string    `yaml:"container"`
	// Children names the attribute holding the nested rows of a recursive
	// composite view.
	Children string `yaml:"children"`

	Regions map[string]RegionSpec `yaml:"regions"`
}

func (v *ViewSpec) kind() string {
	if v.Kind == "" {
		return KindItem
	}
	return v.Kind
}

// Parse decodes a page. Unknown fields are errors.
func Parse(r io.Reader) (*Page, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var p Page
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("layout: decoding: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// ParseFile decodes the page stored at path.
func ParseFile(path string) (*Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func (p *Page) validate() error {
	if p.Document == "" {
		return ErrNoDocument
	}
	for name, r := range p.Regions {
		if err := p.validateView(name, r.View); err != nil {
			return err
		}
	}
	return nil
}

func (p *Page) validateView(at string, v *ViewSpec) error {
	if v == nil {
		return nil
	}
	switch v.kind() {
	case KindItem:
	case KindCollection, KindComposite:
		if v.Data != "" {
			if _, ok := p.Data[v.Data]; !ok {
				return fmt.Errorf("%w: %q in %s", ErrUnknownData, v.Data, at)
			}
		}
	case KindLayout:
		for name, r := range v.Regions {
			if err := p.validateView(at+"."+name, r.View); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: %q in %s", ErrUnknownKind, v.Kind, at)
	}
	for _, sub := range []*ViewSpec{v.Child, v.Empty} {
		if err := p.validateView(at, sub); err != nil {
			return err
		}
	}
	return nil
}
