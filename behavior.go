package ui

// Behavior is a capability set composed into a view when it is built.
// The view binds its event maps and calls its Methods from TriggerMethod
// after its own hook, in the order the behaviors were given.
//
//	ui.Behavior{
//		ModelEvents: map[string]func(ui.Event) bool{"change": highlight},
//		Methods: ui.Methods{"onShow": focusFirstInput},
//	}
type Behavior struct {
	ModelEvents      map[string]func(Event) bool
	CollectionEvents map[string]func(Event) bool
	Methods          Methods
}

func bindEventMap(e *Events, target Eventable, m map[string]func(Event) bool) {
	if target == nil {
		return
	}
	for name, fn := range m {
		if fn == nil {
			continue
		}
		e.ListenTo(target, name, NewEventHandler(fn))
	}
}
