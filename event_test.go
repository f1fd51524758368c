package ui

import (
	"strings"
	"testing"
)

func recorder(got *[]string) *EventHandler {
	return NewEventHandler(func(evt Event) bool {
		*got = append(*got, evt.Type)
		return false
	})
}

func TestTrigger(t *testing.T) {
	var e Events
	var got []string
	e.On("a b", recorder(&got))
	e.On("all", NewEventHandler(func(evt Event) bool {
		got = append(got, "all:"+evt.Type)
		return false
	}))

	e.Trigger("a")
	e.Trigger("b")
	e.Trigger("c")
	if s := strings.Join(got, ","); s != "a,all:a,b,all:b,all:c" {
		t.Errorf("got %s", s)
	}
}

func TestTriggerStopsOnTrue(t *testing.T) {
	var e Events
	var got []string
	e.On("a", NewEventHandler(func(Event) bool { got = append(got, "first"); return true }))
	e.On("a", NewEventHandler(func(Event) bool { got = append(got, "second"); return false }))
	e.On("all", recorder(&got))
	e.Trigger("a")
	if s := strings.Join(got, ","); s != "first" {
		t.Errorf("got %s", s)
	}
}

func TestOnceAndOff(t *testing.T) {
	var e Events
	var got []string
	h := recorder(&got)
	e.Once("a", NewEventHandler(func(Event) bool { got = append(got, "once"); return false }))
	e.On("a", h)

	e.Trigger("a")
	e.Trigger("a")
	e.Off("a", h)
	e.Trigger("a")
	if s := strings.Join(got, ","); s != "once,a,a" {
		t.Errorf("got %s", s)
	}
	if n := e.ListenerCount("a"); n != 0 {
		t.Errorf("ListenerCount: got %d", n)
	}
}

func TestHandlerRemovedDuringDispatch(t *testing.T) {
	var e Events
	var got []string
	second := recorder(&got)
	e.On("a", NewEventHandler(func(Event) bool {
		e.Off("a", second)
		return false
	}))
	e.On("a", second)
	e.Trigger("a")
	if len(got) != 0 {
		t.Errorf("removed handler was called: %v", got)
	}
}

func TestListenToAndStopListening(t *testing.T) {
	var listener, a, b Events
	var got []string
	h := recorder(&got)
	listener.ListenTo(&a, "x y", h)
	listener.ListenTo(&b, "x", h)

	listener.StopListening(&a, "x", nil)
	a.Trigger("x")
	a.Trigger("y")
	b.Trigger("x")
	if s := strings.Join(got, ","); s != "y,x" {
		t.Fatalf("got %s", s)
	}

	listener.StopListening(nil, "", nil)
	a.Trigger("y")
	b.Trigger("x")
	if len(got) != 2 {
		t.Errorf("handlers still bound: %v", got)
	}
	if a.ListenerCount("y")+b.ListenerCount("x") != 0 {
		t.Error("StopListening should unregister from the targets")
	}
}

func TestMethodName(t *testing.T) {
	tests := []struct {
		event string
		want  string
	}{
		{"show", "onShow"},
		{"before:show", "onBeforeShow"},
		{"childview:before:render", "onChildviewBeforeRender"},
		{"composite:model:rendered", "onCompositeModelRendered"},
		{"before:swapOut", "onBeforeSwapOut"},
	}
	for _, tt := range tests {
		t.Run(tt.event, func(t *testing.T) {
			if got := MethodName(tt.event); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTriggerMethod(t *testing.T) {
	var e Events
	var got []string
	e.SetMethod("onBeforeShow", func(args ...any) any {
		got = append(got, "method")
		return args[0]
	})
	e.addMethods(Methods{"onBeforeShow": func(...any) any {
		got = append(got, "behavior")
		return "ignored"
	}})
	e.On("before:show", recorder(&got))

	res := e.TriggerMethod("before:show", 42)
	if res != 42 {
		t.Errorf("result: got %v", res)
	}
	if s := strings.Join(got, ","); s != "method,behavior,before:show" {
		t.Errorf("order: got %s", s)
	}
}

type plainEmitter struct{ Events }

func (p *plainEmitter) TriggerMethod(string, ...any) any { return "method" }

func TestTriggerMethodOn(t *testing.T) {
	if got := TriggerMethodOn(&plainEmitter{}, "x"); got != "method" {
		t.Errorf("TriggerMethod not used: %v", got)
	}
	m := newPlaceholderModel()
	var got []string
	m.On("x", recorder(&got))
	TriggerMethodOn(m, "x")
	if len(got) != 1 {
		t.Error("Trigger fallback not used")
	}
	if TriggerMethodOn(struct{}{}, "x") != nil {
		t.Error("non eventable target should be ignored")
	}
}
