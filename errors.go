package chanx

import "errors"

// Sentinel errors covering the status taxonomy a bounded channel can
// return. SUCCESS is represented by a nil error, matching Go convention;
// GEN_ERROR is any other error, normally wrapped with fmt.Errorf so the
// underlying cause survives errors.Is/errors.As.
var (
	// ErrClosed is returned by Send, Receive, TrySend, TryReceive, and
	// Close once a channel has been closed. For Send/TrySend it means
	// the value was not enqueued; for Receive/TryReceive it means no
	// value was produced, even if the buffer still holds data (see
	// SPEC_FULL.md's discussion of post-close drainage).
	ErrClosed = errors.New("chanx: channel is closed")

	// ErrChannelFull is returned by TrySend when the buffer has no room
	// for the value. It is a momentary, non-terminal condition.
	ErrChannelFull = errors.New("chanx: channel is full")

	// ErrChannelEmpty is returned by TryReceive when the buffer has no
	// value available. It is a momentary, non-terminal condition.
	ErrChannelEmpty = errors.New("chanx: channel is empty")

	// ErrDestroy is returned by Destroy when called on a channel that
	// has not yet been closed.
	ErrDestroy = errors.New("chanx: destroy called on open channel")
)
