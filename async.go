package ui

import (
	"context"
	"sync"
)

// Loop serializes access to the UI tree. Views, regions and collections are
// not safe for concurrent use: goroutines hand their mutations over with Do
// and the goroutine owning the tree runs them with Run or RunOnce, in the
// order they were submitted.
type Loop struct {
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
}

func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Do schedules fn on the loop. It never blocks and may be called from any
// goroutine.
func (l *Loop) Do(fn func()) {
	l.mu.Lock()
	l.pending = append(l.pending, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) next() func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.pending) == 0 {
		return nil
	}
	fn := l.pending[0]
	l.pending[0] = nil
	l.pending = l.pending[1:]
	return fn
}

// RunOnce waits for one scheduled function and runs it.
func (l *Loop) RunOnce(ctx context.Context) error {
	for {
		if fn := l.next(); fn != nil {
			fn()
			return nil
		}
		select {
		case <-l.wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Run runs scheduled functions until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := l.RunOnce(ctx); err != nil {
			return err
		}
	}
}

// Pending is the handle of an asynchronous render. It settles on the loop
// goroutine, either applied or dropped because its view was destroyed in the
// meantime.
type Pending struct {
	done    chan struct{}
	err     error
	dropped bool
	settled bool
	then    []func(error)
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

func settledPending(err error) *Pending {
	p := newPending()
	p.settle(err, false)
	return p
}

// Done is closed once the render has settled.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Err returns the render error. Only meaningful after Done is closed.
func (p *Pending) Err() error { return p.err }

// Dropped reports whether the result was discarded. Only meaningful after
// Done is closed.
func (p *Pending) Dropped() bool { return p.dropped }

// Wait blocks until the render settles or ctx is done. It must not be called
// from the loop goroutine since settling happens there.
func (p *Pending) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// onApplied registers fn to run on the loop goroutine once the result has
// been applied. It is never called for a dropped result.
func (p *Pending) onApplied(fn func(error)) {
	if p.settled {
		if !p.dropped {
			fn(p.err)
		}
		return
	}
	p.then = append(p.then, fn)
}

func (p *Pending) settle(err error, dropped bool) {
	if p.settled {
		return
	}
	p.settled = true
	p.err = err
	p.dropped = dropped
	if !dropped {
		for _, fn := range p.then {
			fn(err)
		}
	}
	p.then = nil
	close(p.done)
}
