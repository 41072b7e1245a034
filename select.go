package chanx

import (
	"container/list"
	"errors"
	"fmt"

	"github.com/roasbeef/chanx/internal/selreg"
)

// Direction distinguishes a send intent from a receive intent within a
// Select call.
type Direction int

const (
	// Send indicates Intent.Value should be sent on Intent.Chan.
	Send Direction = iota

	// Recv indicates a value should be received from Intent.Chan.
	Recv
)

// selectable is the type-erased view of a *Channel[T] that Select operates
// over. It is unexported because the only useful implementation is
// *Channel[T] itself — Go's lack of variance means a hidden interface is
// the idiomatic way to let one Select call mix channels of different
// element types. enterRecvWait/exitRecvWait let a Recv intent register
// itself as a parked receiver on a capacity-0 channel for the duration of
// the Select call, the same way a direct blocking Receive would, so a
// concurrent Send has an actual partner to hand a value to.
type selectable interface {
	registerSelector(tok *selreg.Token) (*list.Element, error)
	unregisterSelector(elem *list.Element)
	trySendAny(v any) error
	tryReceiveAny() (any, error)
	enterRecvWait()
	exitRecvWait()
}

// Intent is one leg of a Select call: an operation to attempt against a
// single channel. For Send, Value is the value to transmit. For Recv,
// Value is ignored.
type Intent struct {
	Chan  selectable
	Dir   Direction
	Value any
}

// SendIntent builds a Send Intent for ch carrying value v.
func SendIntent[T any](ch *Channel[T], v T) Intent {
	return Intent{Chan: ch, Dir: Send, Value: v}
}

// RecvIntent builds a Recv Intent for ch.
func RecvIntent[T any](ch *Channel[T]) Intent {
	return Intent{Chan: ch, Dir: Recv}
}

// Select blocks until exactly one of the given intents can be performed,
// then performs it and returns its index. For a successful Recv intent,
// received holds the value (as `any`; callers type-assert back to the
// channel's element type). When multiple intents are simultaneously ready,
// the lowest index wins; this can starve higher-index intents under
// constant low-index activity.
//
// If any participating channel is already closed, or becomes closed while
// Select is blocked, Select returns ErrClosed and the index of that
// channel. Select never holds more than one channel's internal lock at a
// time.
func Select(intents ...Intent) (index int, received any, err error) {
	if len(intents) == 0 {
		return -1, nil, fmt.Errorf(
			"chanx: select requires at least one intent",
		)
	}

	tok := selreg.NewToken()
	elems := make([]*list.Element, len(intents))

	unregister := func(upTo int) {
		for i := 0; i < upTo; i++ {
			intents[i].Chan.unregisterSelector(elems[i])

			if intents[i].Dir == Recv {
				intents[i].Chan.exitRecvWait()
			}
		}
	}

	for i, in := range intents {
		elem, regErr := in.Chan.registerSelector(tok)
		if regErr != nil {
			unregister(i)
			return i, nil, regErr
		}

		elems[i] = elem

		if in.Dir == Recv {
			in.Chan.enterRecvWait()
		}
	}

	for {
		for i, in := range intents {
			var (
				val   any
				opErr error
			)

			switch in.Dir {
			case Send:
				opErr = in.Chan.trySendAny(in.Value)
			case Recv:
				val, opErr = in.Chan.tryReceiveAny()
			default:
				opErr = fmt.Errorf(
					"chanx: select: invalid direction %v",
					in.Dir,
				)
			}

			if errors.Is(opErr, ErrChannelFull) ||
				errors.Is(opErr, ErrChannelEmpty) {

				continue
			}

			// Every other outcome (nil == success, ErrClosed, or
			// any generic error) is terminal: exactly one intent
			// resolves per Select call.
			unregister(len(intents))

			return i, val, opErr
		}

		tok.Wait()
	}
}
