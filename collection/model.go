// Package collection provides models and ordered collections emitting the
// events CollectionViews reconcile against.
package collection

import (
	"fmt"
	"reflect"
	"strconv"
	"sync/atomic"

	ui "github.com/atdiar/regionui"
)

var cidCounter atomic.Int64

// Model is a set of attributes emitting "change" and "change:<key>" events
// when they are modified.
type Model struct {
	ui.Events

	cid   string
	attrs map[string]any
}

func NewModel(attrs map[string]any) *Model {
	m := &Model{
		cid:   "c" + strconv.FormatInt(cidCounter.Add(1), 10),
		attrs: make(map[string]any, len(attrs)),
	}
	for k, v := range attrs {
		m.attrs[k] = v
	}
	return m
}

// CID is the client identifier of the model, unique within the process.
func (m *Model) CID() string { return m.cid }

// ID returns the "id" attribute.
func (m *Model) ID() any { return m.attrs["id"] }

func (m *Model) Get(key string) any { return m.attrs[key] }

// String returns the attribute formatted with fmt, or "" when unset.
func (m *Model) String(key string) string {
	v, ok := m.attrs[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Set updates an attribute. Setting an equal value emits nothing.
func (m *Model) Set(key string, value any) {
	if old, ok := m.attrs[key]; ok && reflect.DeepEqual(old, value) {
		return
	}
	m.attrs[key] = value
	m.Trigger("change:"+key, m, value)
	m.Trigger("change", m)
}

// Attributes returns a copy of the attributes.
func (m *Model) Attributes() map[string]any {
	res := make(map[string]any, len(m.attrs))
	for k, v := range m.attrs {
		res[k] = v
	}
	return res
}
