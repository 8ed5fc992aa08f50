package coinbase

import (
	"context"
	"sync"

	"github.com/backtesting-org/coinbase-streaming/pkg/coinbase/streaming"
)

type sessionHandle struct {
	session streaming.Session
	cancel  context.CancelFunc
}

// pendingConnect tracks one Connect between its synchronous return and the
// moment its completion resolves. ctx becomes the session lifetime.
type pendingConnect struct {
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// sessionRegistry holds at most one live session and one pending connect.
// Every read and swap happens under mu.
type sessionRegistry struct {
	mu      sync.Mutex
	current *sessionHandle
	pending *pendingConnect
}

// begin registers a new pending connect and cancels the one it replaces.
// The pending context survives cancellation of parent; the caller links them.
func (r *sessionRegistry) begin(parent context.Context) *pendingConnect {
	ctx, cancel := context.WithCancel(context.WithoutCancel(parent))
	p := &pendingConnect{ctx: ctx, cancel: cancel, done: make(chan struct{})}

	r.mu.Lock()
	previous := r.pending
	r.pending = p
	r.mu.Unlock()

	if previous != nil {
		previous.cancel()
	}
	return p
}

// detach removes the current session on behalf of p so it can be torn down
// before p publishes. It returns nil when p is no longer the pending connect.
func (r *sessionRegistry) detach(p *pendingConnect) *sessionHandle {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pending != p {
		return nil
	}
	h := r.current
	r.current = nil
	return h
}

// publish makes s the current session. It fails when p was superseded or
// cancelled, in which case the caller owns s and must close it.
func (r *sessionRegistry) publish(p *pendingConnect, s streaming.Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pending != p || p.ctx.Err() != nil {
		return false
	}
	r.current = &sessionHandle{session: s, cancel: p.cancel}
	return true
}

// finish marks p settled
func (r *sessionRegistry) finish(p *pendingConnect) {
	r.mu.Lock()
	if r.pending == p {
		r.pending = nil
	}
	r.mu.Unlock()
	close(p.done)
}

// release clears s if it is still the current session
func (r *sessionRegistry) release(s streaming.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil && r.current.session == s {
		r.current = nil
	}
}

// takeAll clears both slots and hands them to the caller
func (r *sessionRegistry) takeAll() (*sessionHandle, *pendingConnect) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, p := r.current, r.pending
	r.current, r.pending = nil, nil
	return h, p
}

func (r *sessionRegistry) session() streaming.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current == nil {
		return nil
	}
	return r.current.session
}
