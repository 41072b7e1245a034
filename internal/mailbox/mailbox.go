// Package mailbox adapts chanx.Channel into a per-consumer inbox with
// context-aware send/receive, the way an actor's mailbox sits on top of a
// raw channel. It is adapted from the actor subsystem's ChannelMailbox,
// rewired onto chanx.Channel instead of a built-in Go channel to
// demonstrate (and exercise, via its tests) the core library end to end.
package mailbox

import (
	"context"
	"iter"
	"sync/atomic"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/roasbeef/chanx"
)

// Mailbox is a context-aware inbox of messages of type M, backed by a
// chanx.Channel. Unlike chanx.Channel itself, Mailbox layers cancellation
// on top — the core primitive is deliberately cancellation-free, so any
// deadline/timeout behavior belongs up here, at the application layer.
type Mailbox[M any] struct {
	ch *chanx.Channel[M]

	// ctx governs the mailbox's lifetime. When cancelled, Send fails and
	// Receive stops before its next receive, independent of the caller's
	// own context.
	ctx context.Context

	closed atomic.Bool
}

// New creates a Mailbox with the given capacity, backed by a fresh
// chanx.Channel. If capacity is 0 or negative, it defaults to 1 so the
// mailbox is buffered (an empty mailbox would rendezvous on every send,
// which is rarely what an actor-style consumer wants).
func New[M any](ctx context.Context, capacity int) *Mailbox[M] {
	if capacity <= 0 {
		capacity = 1
	}

	return &Mailbox[M]{
		ch:  chanx.New[M](capacity, chanx.WithName("mailbox")),
		ctx: ctx,
	}
}

// Send delivers msg to the mailbox, blocking until it is accepted, ctx is
// cancelled, the mailbox's own context is cancelled, or the mailbox is
// closed. It returns true only if msg was accepted.
//
// chanx.Channel.Send has no cancellation hook of its own (the core is
// deliberately event-driven, not deadline-driven), so a blocked Send here
// is raced against both contexts in a helper goroutine. If a context wins
// the race, that goroutine's Send call remains outstanding until the
// mailbox is closed or a receiver drains space for it — the same
// trade-off any cancellable wrapper around a non-cancellable primitive
// makes.
func (m *Mailbox[M]) Send(ctx context.Context, msg M) bool {
	if ctx.Err() != nil || m.ctx.Err() != nil || m.closed.Load() {
		return false
	}

	done := make(chan error, 1)
	go func() {
		done <- m.ch.Send(msg)
	}()

	select {
	case err := <-done:
		return err == nil

	case <-ctx.Done():
		return false

	case <-m.ctx.Done():
		return false
	}
}

// TrySend delivers msg without blocking. It returns true only if msg was
// accepted immediately.
func (m *Mailbox[M]) TrySend(msg M) bool {
	if m.ctx.Err() != nil || m.closed.Load() {
		return false
	}

	return m.ch.TrySend(msg) == nil
}

// Receive returns an iterator over messages as they arrive. Iteration
// stops when the mailbox is closed, or when ctx or the mailbox's context
// is found cancelled. Both contexts are checked only before each receive:
// a receive that is already blocked is not interrupted by cancellation,
// and the message it then gets is still yielded. Messages still buffered
// when the mailbox is closed are not yielded.
func (m *Mailbox[M]) Receive(ctx context.Context) iter.Seq[M] {
	return func(yield func(M) bool) {
		for {
			if ctx.Err() != nil || m.ctx.Err() != nil {
				return
			}

			msg, err := m.ch.Receive()
			if err != nil {
				return
			}

			if !yield(msg) {
				return
			}
		}
	}
}

// Close closes the mailbox. Safe to call more than once.
func (m *Mailbox[M]) Close() {
	if m.closed.CompareAndSwap(false, true) {
		_ = m.ch.Close()
	}
}

// IsClosed reports whether the mailbox has been closed.
func (m *Mailbox[M]) IsClosed() bool {
	return m.closed.Load()
}

// Stats summarizes a mailbox's current occupancy, mirroring the actor
// subsystem's habit of surfacing queue depth for observability.
type Stats struct {
	Len int
	Cap int
}

// Stats returns the mailbox's current occupancy, wrapped in fn.Option so
// callers that track several mailboxes can filter out ones with nothing to
// report using the usual Option combinators.
func (m *Mailbox[M]) Stats() fn.Option[Stats] {
	return fn.Some(Stats{Len: m.ch.Len(), Cap: m.ch.Cap()})
}
