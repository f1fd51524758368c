package ui

import (
	"errors"
	"fmt"
	"log"
)

var (
	ErrNoElement                 = errors.New("ui: element does not exist")
	ErrMalformedRegion           = errors.New("ui: malformed region definition")
	ErrNoChildView               = errors.New("ui: a child view must be specified")
	ErrChildViewContainerMissing = errors.New("ui: the specified child view container does not exist")
	ErrViewDestroyed             = errors.New("ui: view is destroyed")
)

// Debug enables DEBUG output.
var Debug bool

// DEBUG logs when Debug is set.
func DEBUG(msg string, args ...any) {
	if !Debug {
		return
	}
	log.Printf(msg, args...)
}

func errViewDestroyed(v any) error {
	return fmt.Errorf("%w: cannot use %T", ErrViewDestroyed, v)
}
