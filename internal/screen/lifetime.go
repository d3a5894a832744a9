package screen

import "context"

// Ticket identifies one asynchronous load started by a screen.
type Ticket uint64

// Lifetime tracks the load a screen is currently waiting for. Starting a
// new load cancels the previous one, and a result is only applied when
// its ticket is still current. It is used from the UI goroutine only.
type Lifetime struct {
	current Ticket
	cancel  context.CancelFunc
	closed  bool
}

// Begin starts a new load and returns the context the load must run
// under together with its ticket.
func (l *Lifetime) Begin() (context.Context, Ticket) {
	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	if l.closed {
		cancel()
	}
	l.current++
	l.cancel = cancel
	return ctx, l.current
}

// Current reports whether a result carrying t may still be applied.
func (l *Lifetime) Current(t Ticket) bool {
	return !l.closed && t != 0 && t == l.current
}

// Done marks the load for t finished and releases its context.
func (l *Lifetime) Done(t Ticket) {
	if t == l.current && l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

// Close cancels the pending load. Later results are never current.
func (l *Lifetime) Close() {
	l.closed = true
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

// Closed reports whether Close was called.
func (l *Lifetime) Closed() bool {
	return l.closed
}
