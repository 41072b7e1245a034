// Package chanx implements a thread-safe, bounded, in-process
// message-passing channel with blocking and non-blocking send/receive,
// explicit closure, and a multi-way Select across heterogeneous channels.
//
// Unlike a built-in Go channel, chanx.Channel is assembled from explicit
// collaborators — a ring buffer (internal/ringbuf) and a selector registry
// (internal/selreg) — coordinated by a mutex and two condition variables.
// This mirrors the mutex/condvar/semaphore protocol of the C
// implementation this package was modeled on, rendered in idiomatic Go.
package chanx

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/roasbeef/chanx/internal/ringbuf"
	"github.com/roasbeef/chanx/internal/selreg"
)

// state tracks where a Channel sits in its Open -> Closed -> Destroyed
// lifecycle.
type state int

const (
	stateOpen state = iota
	stateClosed
	stateDestroyed
)

// Channel is a bounded, thread-safe FIFO conduit of values of type T. The
// zero value is not usable; construct one with New.
type Channel[T any] struct {
	mu sync.Mutex

	// notEmpty is signalled whenever an element has just been added, or
	// the channel has just been closed.
	notEmpty *sync.Cond

	// notFull is signalled whenever an element has just been removed,
	// or the channel has just been closed.
	notFull *sync.Cond

	buf   *ringbuf.Buffer[T]
	state state

	selectors *selreg.Registry

	// rendezvous-only fields, used exclusively when buf.Cap() == 0. A
	// capacity-0 channel has no room to buffer anything, so Send/Receive
	// hand a value off directly under the mutex instead of going
	// through buf. A sender may only deposit into rendezvousVal once a
	// receiver is already parked waiting for one (waitingReceivers > 0),
	// and the depositing Send does not return until that receiver has
	// taken the value — this is what keeps a capacity-0 channel a true
	// synchronous hand-off instead of a disguised capacity-1 buffer.
	rendezvousFull   bool
	rendezvousVal    T
	waitingReceivers int

	name string
}

// New creates a Channel with the given capacity. A capacity of 0 is legal
// and produces a synchronous, rendezvous-only channel: Send blocks until a
// concurrent Receive takes the value directly, with no intermediate
// buffering.
func New[T any](capacity int, opts ...Option) *Channel[T] {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	c := &Channel[T]{
		buf:       ringbuf.New[T](capacity),
		selectors: selreg.New(),
		name:      cfg.logName(),
	}
	c.notEmpty = sync.NewCond(&c.mu)
	c.notFull = sync.NewCond(&c.mu)

	log.Debugf("chanx: created channel %q with capacity %d", c.name,
		capacity)

	return c
}

// unbuffered reports whether this channel uses the rendezvous path.
func (c *Channel[T]) unbuffered() bool {
	return c.buf.Cap() == 0
}

// Send writes v to the channel, blocking until there is room, the channel
// is closed, or (for capacity-0 channels) a receiver rendezvouses. On a
// capacity-0 channel, Send does not return until a concurrent Receive has
// actually taken v — a deposit into the rendezvous slot alone is not
// enough. It returns ErrClosed if the channel was already closed, or
// becomes closed while waiting; the value is then guaranteed not to have
// been delivered.
func (c *Channel[T]) Send(v T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for {
		if c.state != stateOpen {
			return ErrClosed
		}

		if c.putLocked(v) {
			c.notEmpty.Signal()
			c.selectors.PostAll()

			if c.unbuffered() {
				return c.awaitPickupLocked()
			}

			return nil
		}

		c.notFull.Wait()
	}
}

// awaitPickupLocked blocks until the value this goroutine just deposited
// into the rendezvous slot has been taken by a receiver, or the channel
// is closed first. Caller holds c.mu and has just set rendezvousFull.
func (c *Channel[T]) awaitPickupLocked() error {
	for c.rendezvousFull && c.state == stateOpen {
		c.notFull.Wait()
	}

	if c.rendezvousFull {
		c.rendezvousFull = false

		var zero T
		c.rendezvousVal = zero

		return ErrClosed
	}

	return nil
}

// Receive blocks until a value is available, the channel is closed, or
// closure is observed while waiting. It returns ErrClosed if the channel
// is already closed or becomes closed before a value arrives, even if
// values remain buffered: once closed, a channel never yields another
// value.
func (c *Channel[T]) Receive() (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T

	for {
		if c.state != stateOpen {
			return zero, ErrClosed
		}

		if v, ok := c.takeLocked(); ok {
			c.notFull.Signal()
			c.selectors.PostAll()

			return v, nil
		}

		if c.unbuffered() {
			// Register as a parked receiver before waiting so a
			// concurrent Send knows it may deposit into the
			// rendezvous slot, and wake any sender that is itself
			// parked waiting for a receiver to show up, whether in a
			// blocking Send (notFull) or a Select SEND intent (the
			// selector registry).
			c.waitingReceivers++
			c.notFull.Broadcast()
			c.selectors.PostAll()
			c.notEmpty.Wait()
			c.waitingReceivers--

			continue
		}

		c.notEmpty.Wait()
	}
}

// TrySend is the non-blocking counterpart to Send. It returns
// ErrChannelFull if the value could not be accepted without blocking, and
// ErrClosed if the channel is closed. On a capacity-0 channel, TrySend
// only succeeds if a receiver is already parked waiting for a value;
// otherwise it reports ErrChannelFull rather than buffering the value
// with no partner to hand it to.
func (c *Channel[T]) TrySend(v T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != stateOpen {
		return ErrClosed
	}

	if !c.putLocked(v) {
		return ErrChannelFull
	}

	c.notEmpty.Signal()
	c.selectors.PostAll()

	return nil
}

// TryReceive is the non-blocking counterpart to Receive. It returns
// ErrChannelEmpty if no value is available without blocking, and
// ErrClosed if the channel is closed.
func (c *Channel[T]) TryReceive() (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T

	if c.state != stateOpen {
		return zero, ErrClosed
	}

	v, ok := c.takeLocked()
	if !ok {
		return zero, ErrChannelEmpty
	}

	c.notFull.Signal()
	c.selectors.PostAll()

	return v, nil
}

// putLocked attempts to add v without blocking. Caller holds c.mu. On an
// unbuffered channel this only succeeds if a receiver is already parked
// waiting for a value — otherwise there is no one to hand v to, and
// depositing it anyway would turn the rendezvous slot into a disguised
// one-element buffer.
func (c *Channel[T]) putLocked(v T) bool {
	if c.unbuffered() {
		if c.waitingReceivers == 0 || c.rendezvousFull {
			return false
		}

		c.rendezvousVal = v
		c.rendezvousFull = true

		return true
	}

	return c.buf.TryAdd(v)
}

// takeLocked attempts to remove a value without blocking. Caller holds
// c.mu.
func (c *Channel[T]) takeLocked() (T, bool) {
	if c.unbuffered() {
		if !c.rendezvousFull {
			var zero T
			return zero, false
		}

		v := c.rendezvousVal
		var zero T
		c.rendezvousVal = zero
		c.rendezvousFull = false

		return v, true
	}

	return c.buf.TryRemove()
}

// Close marks the channel closed, waking every blocked Send, Receive, and
// Select. It returns ErrClosed if the channel was already closed.
func (c *Channel[T]) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != stateOpen {
		return ErrClosed
	}

	c.state = stateClosed
	c.notEmpty.Broadcast()
	c.notFull.Broadcast()
	c.selectors.PostAll()

	log.Debugf("chanx: closed channel %q", c.name)

	return nil
}

// Destroy releases the channel's resources. It returns ErrDestroy if the
// channel has not been closed. The caller is responsible for quiescence:
// no goroutine may be inside Send/Receive/TrySend/TryReceive/Select on this
// channel when Destroy is called.
func (c *Channel[T]) Destroy() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != stateClosed {
		return fmt.Errorf("chanx: %w", ErrDestroy)
	}

	if c.selectors.Len() != 0 {
		return fmt.Errorf(
			"chanx: %w: %d selector(s) still registered",
			ErrDestroy, c.selectors.Len(),
		)
	}

	c.state = stateDestroyed
	c.buf = nil
	c.selectors = nil

	return nil
}

// registerSelector subscribes tok with this channel for wake-up
// notifications, used internally by Select. It reports ErrClosed, without
// registering anything, if the channel is already closed, so a Select
// built entirely from already-closed channels fails fast instead of
// blocking forever.
func (c *Channel[T]) registerSelector(tok *selreg.Token) (*list.Element, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != stateOpen {
		return nil, ErrClosed
	}

	return c.selectors.Insert(tok), nil
}

// unregisterSelector removes a previously registered selector token. It is
// always safe to call, including after the channel has been closed or
// destroyed.
func (c *Channel[T]) unregisterSelector(elem *list.Element) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.selectors != nil {
		c.selectors.Remove(elem)
	}
}

// enterRecvWait marks this channel as having an additional parked
// receiver, used by Select for its Recv intents so a concurrent Send on a
// capacity-0 channel has an actual waiting partner to deposit into,
// rather than polling a rendezvous slot that never looks occupied. It
// wakes both a directly blocked Send (via notFull) and any Select SEND
// intent already registered on this channel (via the selector registry),
// since either one may have been parked waiting for a receiver to show
// up before this call.
func (c *Channel[T]) enterRecvWait() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.unbuffered() {
		return
	}

	c.waitingReceivers++
	c.notFull.Broadcast()
	c.selectors.PostAll()
}

// exitRecvWait reverses a prior enterRecvWait.
func (c *Channel[T]) exitRecvWait() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.unbuffered() {
		return
	}

	c.waitingReceivers--
}

// trySendAny is the type-erased counterpart to TrySend, used by Select to
// operate over heterogeneous channel types via the selectable interface.
func (c *Channel[T]) trySendAny(v any) error {
	tv, ok := v.(T)
	if !ok {
		return fmt.Errorf(
			"chanx: select: value of type %T does not match "+
				"channel element type", v,
		)
	}

	return c.TrySend(tv)
}

// tryReceiveAny is the type-erased counterpart to TryReceive.
func (c *Channel[T]) tryReceiveAny() (any, error) {
	v, err := c.TryReceive()
	if err != nil {
		return nil, err
	}

	return v, nil
}

// Len reports how many values are currently buffered.
func (c *Channel[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.unbuffered() {
		if c.rendezvousFull {
			return 1
		}

		return 0
	}

	return c.buf.Len()
}

// Cap reports the channel's fixed capacity.
func (c *Channel[T]) Cap() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.buf.Cap()
}
