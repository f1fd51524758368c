// Package ui is a library for composing views into regions and keeping lists
// of child views in sync with the collections they display.
package ui

import (
	"strings"
)

// Event is what an EventHandler receives. Type is the name the event was
// triggered with, also for handlers registered on the "all" wildcard.
type Event struct {
	Type string
	Args []any
}

// Arg returns the i-th argument of the event or nil.
func (e Event) Arg(i int) any {
	if i < 0 || i >= len(e.Args) {
		return nil
	}
	return e.Args[i]
}

// EventHandler wraps a callback. Returning true from Fn ends the dispatch of
// the current event.
type EventHandler struct {
	Fn   func(Event) bool
	Once bool
}

func NewEventHandler(fn func(Event) bool) *EventHandler {
	return &EventHandler{Fn: fn}
}

// TriggerOnce marks the handler for removal after its first invocation.
func (h *EventHandler) TriggerOnce() *EventHandler {
	h.Once = true
	return h
}

func (h *EventHandler) Handle(evt Event) bool {
	return h.Fn(evt)
}

// Eventable is implemented by every object taking part in the lifecycle:
// regions, region managers, views, models and collections.
type Eventable interface {
	On(names string, h *EventHandler)
	Off(names string, h *EventHandler)
	Trigger(name string, args ...any)
}

// Method is a lifecycle hook invoked by TriggerMethod.
type Method func(args ...any) any

// Methods maps hook names such as "onBeforeShow" to hooks.
type Methods map[string]Method

type subscription struct {
	target  Eventable
	name    string
	handler *EventHandler
}

// Events is an embeddable event emitter. The zero value is ready to use.
type Events struct {
	handlers  map[string][]*EventHandler
	listening []subscription
	methods   Methods
	extra     []Methods
}

// On registers h for each space separated event name. The "all" name
// receives every event.
func (e *Events) On(names string, h *EventHandler) {
	if h == nil {
		return
	}
	if e.handlers == nil {
		e.handlers = make(map[string][]*EventHandler)
	}
	for _, name := range strings.Fields(names) {
		e.handlers[name] = append(e.handlers[name], h)
	}
}

// Once registers h so that it is removed after its first invocation.
func (e *Events) Once(names string, h *EventHandler) {
	e.On(names, h.TriggerOnce())
}

// Off removes h from the named events. An empty names removes h from every
// event; a nil h removes every handler of the named events.
func (e *Events) Off(names string, h *EventHandler) {
	if e.handlers == nil {
		return
	}
	if names == "" && h == nil {
		e.handlers = nil
		return
	}
	var keys []string
	if names == "" {
		for k := range e.handlers {
			keys = append(keys, k)
		}
	} else {
		keys = strings.Fields(names)
	}
	for _, k := range keys {
		if h == nil {
			delete(e.handlers, k)
			continue
		}
		e.remove(k, h)
	}
}

func (e *Events) remove(name string, h *EventHandler) {
	list := e.handlers[name]
	for i, v := range list {
		if v != h {
			continue
		}
		nl := make([]*EventHandler, 0, len(list)-1)
		nl = append(nl, list[:i]...)
		nl = append(nl, list[i+1:]...)
		if len(nl) == 0 {
			delete(e.handlers, name)
		} else {
			e.handlers[name] = nl
		}
		return
	}
}

func (e *Events) registered(name string, h *EventHandler) bool {
	for _, v := range e.handlers[name] {
		if v == h {
			return true
		}
	}
	return false
}

// ListenerCount returns the number of handlers registered for name.
func (e *Events) ListenerCount(name string) int {
	return len(e.handlers[name])
}

// Trigger calls the handlers of name, then the handlers of "all".
// Handlers removed while the event is being dispatched are skipped.
func (e *Events) Trigger(name string, args ...any) {
	if e.handlers == nil {
		return
	}
	evt := Event{Type: name, Args: args}
	if e.dispatch(name, evt) {
		return
	}
	if name != "all" {
		e.dispatch("all", evt)
	}
}

func (e *Events) dispatch(key string, evt Event) bool {
	list := e.handlers[key]
	if len(list) == 0 {
		return false
	}
	snapshot := make([]*EventHandler, len(list))
	copy(snapshot, list)
	for _, h := range snapshot {
		if !e.registered(key, h) {
			continue
		}
		if h.Once {
			e.remove(key, h)
		}
		if h.Handle(evt) {
			return true
		}
	}
	return false
}

// ListenTo registers h on target and remembers the subscription so that
// StopListening can undo it.
func (e *Events) ListenTo(target Eventable, names string, h *EventHandler) {
	if target == nil || h == nil {
		return
	}
	target.On(names, h)
	for _, name := range strings.Fields(names) {
		e.listening = append(e.listening, subscription{target, name, h})
	}
}

// ListenToOnce is ListenTo with a handler removed after its first call.
func (e *Events) ListenToOnce(target Eventable, names string, h *EventHandler) {
	e.ListenTo(target, names, h.TriggerOnce())
}

// StopListening removes the subscriptions made with ListenTo. Nil or empty
// arguments act as wildcards.
func (e *Events) StopListening(target Eventable, names string, h *EventHandler) {
	if len(e.listening) == 0 {
		return
	}
	var filter map[string]bool
	if names != "" {
		filter = make(map[string]bool)
		for _, n := range strings.Fields(names) {
			filter[n] = true
		}
	}
	kept := e.listening[:0]
	for _, s := range e.listening {
		match := (target == nil || s.target == target) &&
			(filter == nil || filter[s.name]) &&
			(h == nil || s.handler == h)
		if !match {
			kept = append(kept, s)
			continue
		}
		s.target.Off(s.name, s.handler)
	}
	for i := len(kept); i < len(e.listening); i++ {
		e.listening[i] = subscription{}
	}
	e.listening = kept
}

// SetMethod registers the hook called by TriggerMethod. name is the hook
// name, e.g. "onShow".
func (e *Events) SetMethod(name string, m Method) {
	if e.methods == nil {
		e.methods = make(Methods)
	}
	e.methods[name] = m
}

func (e *Events) addMethods(ms Methods) {
	if len(ms) > 0 {
		e.extra = append(e.extra, ms)
	}
}

// TriggerMethod calls the hook matching name, e.g. "onBeforeShow" for
// "before:show", then triggers the event. It returns the hook's result.
func (e *Events) TriggerMethod(name string, args ...any) any {
	var result any
	mname := MethodName(name)
	if m, ok := e.methods[mname]; ok && m != nil {
		result = m(args...)
	}
	for _, ms := range e.extra {
		if m, ok := ms[mname]; ok && m != nil {
			m(args...)
		}
	}
	e.Trigger(name, args...)
	return result
}

// MethodName returns the hook name for an event name: "before:show" becomes
// "onBeforeShow".
func MethodName(event string) string {
	var b strings.Builder
	b.WriteString("on")
	for _, part := range strings.Split(event, ":") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

type methodTriggerer interface {
	TriggerMethod(name string, args ...any) any
}

// TriggerMethodOn calls TriggerMethod on target when it has one, falls back
// to Trigger for plain Eventables and does nothing otherwise.
func TriggerMethodOn(target any, name string, args ...any) any {
	switch t := target.(type) {
	case methodTriggerer:
		return t.TriggerMethod(name, args...)
	case Eventable:
		t.Trigger(name, args...)
	}
	return nil
}
