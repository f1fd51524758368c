package ui

import (
	"errors"
	"fmt"
	"sync"
)

// DefaultChannel is the name of the channel of applications created without
// one.
const DefaultChannel = "global"

var ErrNoHandler = errors.New("ui: no handler registered")

// Channel is a named message bus shared by the parts of an application that
// must not reference each other: events, request/reply and commands.
// Like everything bound to the UI it is used from the loop goroutine.
type Channel struct {
	Events

	Name     string
	replies  map[string]func(args ...any) any
	commands map[string]func(args ...any)
}

var channels = struct {
	sync.Mutex
	byName map[string]*Channel
}{byName: make(map[string]*Channel)}

// GetChannel returns the channel registered under name, creating it on first
// use.
func GetChannel(name string) *Channel {
	channels.Lock()
	defer channels.Unlock()
	c, ok := channels.byName[name]
	if !ok {
		c = &Channel{
			Name:     name,
			replies:  make(map[string]func(args ...any) any),
			commands: make(map[string]func(args ...any)),
		}
		channels.byName[name] = c
	}
	return c
}

// ResetChannels resets and forgets every channel.
func ResetChannels() {
	channels.Lock()
	all := channels.byName
	channels.byName = make(map[string]*Channel)
	channels.Unlock()
	for _, c := range all {
		c.Reset()
	}
}

// Reply registers the handler answering requests of name.
func (c *Channel) Reply(name string, fn func(args ...any) any) {
	c.replies[name] = fn
}

// Request returns the answer of the handler registered for name.
func (c *Channel) Request(name string, args ...any) (any, error) {
	fn, ok := c.replies[name]
	if !ok {
		return nil, fmt.Errorf("%w: request %q on channel %q", ErrNoHandler, name, c.Name)
	}
	return fn(args...), nil
}

// Comply registers the handler executing commands of name.
func (c *Channel) Comply(name string, fn func(args ...any)) {
	c.commands[name] = fn
}

// Execute runs the command handler registered for name.
func (c *Channel) Execute(name string, args ...any) error {
	fn, ok := c.commands[name]
	if !ok {
		return fmt.Errorf("%w: command %q on channel %q", ErrNoHandler, name, c.Name)
	}
	fn(args...)
	return nil
}

// Reset removes every handler of the channel.
func (c *Channel) Reset() {
	c.Off("", nil)
	c.StopListening(nil, "", nil)
	clear(c.replies)
	clear(c.commands)
}
