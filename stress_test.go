package chanx

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestManyProducersManyConsumersDeliverEveryValue is a property test over
// scenario 6: N producers and M consumers share one channel, and every
// produced value is consumed, with no loss, for arbitrary (producers,
// consumers, capacity, count) combinations. Duplicate deliveries and
// per-producer order are not checked here.
func TestManyProducersManyConsumersDeliverEveryValue(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		producers := rapid.IntRange(1, 6).Draw(rt, "producers")
		consumers := rapid.IntRange(1, 6).Draw(rt, "consumers")
		capacity := rapid.IntRange(0, 8).Draw(rt, "capacity")
		perProducer := rapid.IntRange(1, 40).Draw(rt, "perProducer")

		c := New[int](capacity)

		var produced sync.Map
		var producerWG sync.WaitGroup

		next := atomic.Int64{}

		for p := 0; p < producers; p++ {
			producerWG.Add(1)
			go func() {
				defer producerWG.Done()

				for i := 0; i < perProducer; i++ {
					tag := int(next.Add(1))
					produced.Store(tag, struct{}{})

					if err := c.Send(tag); err != nil {
						return
					}
				}
			}()
		}

		var (
			consumed  sync.Map
			consumedN atomic.Int64
		)

		total := int64(producers * perProducer)

		var consumerWG sync.WaitGroup
		for i := 0; i < consumers; i++ {
			consumerWG.Add(1)
			go func() {
				defer consumerWG.Done()

				for {
					v, err := c.Receive()
					if err != nil {
						return
					}

					consumed.Store(v, struct{}{})
					consumedN.Add(1)
				}
			}()
		}

		producerWG.Wait()

		deadline := time.Now().Add(5 * time.Second)
		for consumedN.Load() < total && time.Now().Before(deadline) {
			time.Sleep(time.Millisecond)
		}

		require.NoError(t, c.Close())
		consumerWG.Wait()

		produced.Range(func(key, _ any) bool {
			_, ok := consumed.Load(key)
			require.Truef(t, ok, "tag %v was produced but never consumed", key)
			return true
		})
	})
}
