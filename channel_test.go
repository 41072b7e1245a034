package chanx

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestScenarioCapacityTwo exercises a capacity-2 channel through a full
// TrySend/TryReceive cycle.
func TestScenarioCapacityTwo(t *testing.T) {
	t.Parallel()

	c := New[int](2)

	require.NoError(t, c.TrySend(1))
	require.NoError(t, c.TrySend(2))
	require.ErrorIs(t, c.TrySend(3), ErrChannelFull)

	v, err := c.TryReceive()
	require.NoError(t, err)
	require.Equal(t, 1, v)

	v, err = c.TryReceive()
	require.NoError(t, err)
	require.Equal(t, 2, v)

	_, err = c.TryReceive()
	require.ErrorIs(t, err, ErrChannelEmpty)
}

// TestScenarioRendezvous verifies that a capacity-0 channel delivers the
// value via direct hand-off rather than deadlocking forever, and that
// the sender actually blocks until a receiver takes the value instead of
// returning as soon as it deposits it.
func TestScenarioRendezvous(t *testing.T) {
	t.Parallel()

	c := New[int](0)

	result := make(chan error, 1)
	go func() {
		result <- c.Send(42)
	}()

	select {
	case <-result:
		t.Fatal("send completed before any receiver was waiting")
	case <-time.After(20 * time.Millisecond):
	}

	v, err := c.Receive()
	require.NoError(t, err)
	require.Equal(t, 42, v)

	select {
	case sendErr := <-result:
		require.NoError(t, sendErr)
	case <-time.After(time.Second):
		t.Fatal("sender did not unblock after rendezvous")
	}
}

// TestRendezvousTrySendFailsWithoutWaitingReceiver verifies that a
// non-blocking send on a capacity-0 channel reports ErrChannelFull when
// no receiver is parked waiting for a value, rather than buffering the
// value with no partner to hand it to.
func TestRendezvousTrySendFailsWithoutWaitingReceiver(t *testing.T) {
	t.Parallel()

	c := New[int](0)

	require.ErrorIs(t, c.TrySend(1), ErrChannelFull)

	// Once a receiver is actually parked, the same value hands off
	// immediately.
	recvDone := make(chan struct{})
	go func() {
		defer close(recvDone)

		v, err := c.Receive()
		require.NoError(t, err)
		require.Equal(t, 2, v)
	}()

	require.Eventually(t, func() bool {
		return c.TrySend(2) == nil
	}, time.Second, time.Millisecond)

	select {
	case <-recvDone:
	case <-time.After(time.Second):
		t.Fatal("receiver never took the handed-off value")
	}
}

// TestScenarioCloseDropsBuffered verifies that once closed, a receive
// fails even though a value remains buffered.
func TestScenarioCloseDropsBuffered(t *testing.T) {
	t.Parallel()

	c := New[int](1)

	require.NoError(t, c.Send(7))
	require.NoError(t, c.Close())

	_, err := c.Receive()
	require.ErrorIs(t, err, ErrClosed)
}

// TestScenarioSelectTieBreak verifies that when multiple Select intents
// are simultaneously ready, the lowest index wins.
func TestScenarioSelectTieBreak(t *testing.T) {
	t.Parallel()

	c1 := New[int](1)
	c2 := New[int](1)

	require.NoError(t, c1.TrySend(9))

	idx, val, err := Select(RecvIntent(c1), SendIntent(c2, 5))
	require.NoError(t, err)
	require.Equal(t, 0, idx)
	require.Equal(t, 9, val)
}

// TestScenarioSelectUnblocksOnClose verifies that a Select blocked on a
// full channel unblocks with ErrClosed once that channel is closed.
func TestScenarioSelectUnblocksOnClose(t *testing.T) {
	t.Parallel()

	c := New[int](1)
	require.NoError(t, c.TrySend(1)) // full: SEND intent cannot proceed

	type selectResult struct {
		idx int
		err error
	}
	results := make(chan selectResult, 1)

	go func() {
		idx, _, err := Select(SendIntent(c, 2))
		results <- selectResult{idx: idx, err: err}
	}()

	// Give the goroutine a chance to register before closing.
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, c.Close())

	select {
	case res := <-results:
		require.ErrorIs(t, res.err, ErrClosed)
		require.Equal(t, 0, res.idx)
	case <-time.After(time.Second):
		t.Fatal("select did not unblock after close")
	}
}

// TestRoundTrip sends a single value and receives it back unchanged.
func TestRoundTrip(t *testing.T) {
	t.Parallel()

	c := New[string](1)

	require.NoError(t, c.Send("hello"))

	v, err := c.Receive()
	require.NoError(t, err)
	require.Equal(t, "hello", v)
}

// TestBoundaryCapacityOne has two sends contend over a capacity-1
// channel: one succeeds immediately and the other blocks until drained.
func TestBoundaryCapacityOne(t *testing.T) {
	t.Parallel()

	c := New[int](1)

	require.NoError(t, c.TrySend(1))
	require.ErrorIs(t, c.TrySend(2), ErrChannelFull)

	blocked := make(chan error, 1)
	go func() {
		blocked <- c.Send(2)
	}()

	select {
	case <-blocked:
		t.Fatal("second send completed before the channel was drained")
	case <-time.After(20 * time.Millisecond):
	}

	v, err := c.Receive()
	require.NoError(t, err)
	require.Equal(t, 1, v)

	select {
	case err := <-blocked:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("second send never completed after drain")
	}

	v, err = c.Receive()
	require.NoError(t, err)
	require.Equal(t, 2, v)
}

// TestBoundaryCapacityK fills a capacity-k channel to the brim, then
// frees and reuses one slot.
func TestBoundaryCapacityK(t *testing.T) {
	t.Parallel()

	const k = 5

	c := New[int](k)

	for i := 0; i < k; i++ {
		require.NoError(t, c.TrySend(i))
	}
	require.ErrorIs(t, c.TrySend(k), ErrChannelFull)

	_, err := c.TryReceive()
	require.NoError(t, err)

	require.NoError(t, c.TrySend(k))
}

// TestCloseIdempotence is part of P2/P3: close is one-shot, and every
// operation after close surfaces ErrClosed.
func TestCloseIdempotence(t *testing.T) {
	t.Parallel()

	c := New[int](1)

	require.NoError(t, c.Close())
	require.ErrorIs(t, c.Close(), ErrClosed)

	require.ErrorIs(t, c.TrySend(1), ErrClosed)
	_, err := c.TryReceive()
	require.ErrorIs(t, err, ErrClosed)

	require.ErrorIs(t, c.Send(1), ErrClosed)
	_, err = c.Receive()
	require.ErrorIs(t, err, ErrClosed)
}

// TestDestroyRequiresClose is P3.
func TestDestroyRequiresClose(t *testing.T) {
	t.Parallel()

	c := New[int](1)

	err := c.Destroy()
	require.True(t, errors.Is(err, ErrDestroy))

	require.NoError(t, c.Close())
	require.NoError(t, c.Destroy())
}

// TestBlockedReceiversWakeOnClose is P2: a goroutine already blocked in
// Receive observes closure within bounded time.
func TestBlockedReceiversWakeOnClose(t *testing.T) {
	t.Parallel()

	c := New[int](0)

	var wg sync.WaitGroup
	errs := make([]error, 4)

	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.Receive()
		}(i)
	}

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, c.Close())

	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()

	select {
	case <-waitDone:
	case <-time.After(time.Second):
		t.Fatal("blocked receivers did not wake up after close")
	}

	for _, err := range errs {
		require.ErrorIs(t, err, ErrClosed)
	}
}

// TestLenCap exercises the Len/Cap introspection accessors.
func TestLenCap(t *testing.T) {
	t.Parallel()

	c := New[int](3)
	require.Equal(t, 3, c.Cap())
	require.Equal(t, 0, c.Len())

	require.NoError(t, c.TrySend(1))
	require.NoError(t, c.TrySend(2))
	require.Equal(t, 2, c.Len())
}

// TestSingleSenderFIFOOrder verifies a single sender's values come out in
// the exact order they were sent.
func TestSingleSenderFIFOOrder(t *testing.T) {
	t.Parallel()

	c := New[int](4)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 20; i++ {
			require.NoError(t, c.Send(i))
		}
	}()

	for i := 0; i < 20; i++ {
		v, err := c.Receive()
		require.NoError(t, err)
		require.Equal(t, i, v)
	}

	<-done
}

// TestConcurrentSendersDeliverEveryValueOnce verifies that with many
// concurrent senders, every value is delivered exactly once with no loss
// or duplication, even though their relative order is not guaranteed.
func TestConcurrentSendersDeliverEveryValueOnce(t *testing.T) {
	t.Parallel()

	c := New[int](4)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, c.Send(i))
		}()
	}

	seen := make(map[int]bool)
	for i := 0; i < 20; i++ {
		v, err := c.Receive()
		require.NoError(t, err)
		require.False(t, seen[v], "value %d received twice", v)
		seen[v] = true
	}

	require.Len(t, seen, 20)
	wg.Wait()
}
