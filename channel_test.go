package ui_test

import (
	"errors"
	"testing"

	ui "github.com/atdiar/regionui"
)

func TestChannel(t *testing.T) {
	t.Cleanup(ui.ResetChannels)
	c := ui.GetChannel("cart")
	if ui.GetChannel("cart") != c {
		t.Fatal("GetChannel should return the registered channel")
	}

	c.Reply("total", func(args ...any) any { return args[0].(int) * 2 })
	got, err := c.Request("total", 21)
	if err != nil || got != 42 {
		t.Errorf("Request: got %v, %v", got, err)
	}
	if _, err := c.Request("missing"); !errors.Is(err, ui.ErrNoHandler) {
		t.Errorf("missing reply: got %v", err)
	}

	var executed []any
	c.Comply("clear", func(args ...any) { executed = args })
	if err := c.Execute("clear", "all"); err != nil || len(executed) != 1 {
		t.Errorf("Execute: got %v, %v", executed, err)
	}
	if err := c.Execute("missing"); !errors.Is(err, ui.ErrNoHandler) {
		t.Errorf("missing command: got %v", err)
	}

	events := 0
	c.On("checkout", ui.NewEventHandler(func(ui.Event) bool { events++; return false }))
	c.Trigger("checkout")

	ui.ResetChannels()
	c.Trigger("checkout")
	if events != 1 {
		t.Errorf("events: got %d", events)
	}
	if _, err := c.Request("total", 1); !errors.Is(err, ui.ErrNoHandler) {
		t.Error("ResetChannels kept replies")
	}
	if ui.GetChannel("cart") == c {
		t.Error("ResetChannels kept the channel registered")
	}
}
