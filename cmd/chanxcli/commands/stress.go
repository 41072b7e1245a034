package commands

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/roasbeef/chanx"
	"github.com/spf13/cobra"
)

var (
	producers   int
	consumers   int
	perProducer int
)

var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Run N producers and M consumers over a shared channel",
	Long: `stress spins up --producers producers and --consumers consumers
around a single chanx.Channel, each producer sending --per-producer
uniquely tagged values, then reports whether every produced tag was
consumed exactly once.`,
	RunE: runStress,
}

func init() {
	stressCmd.Flags().IntVar(&producers, "producers", 4, "number of producer goroutines")
	stressCmd.Flags().IntVar(&consumers, "consumers", 4, "number of consumer goroutines")
	stressCmd.Flags().IntVar(&perProducer, "per-producer", 1000, "messages sent by each producer")
}

func runStress(cmd *cobra.Command, args []string) error {
	cleanup, err := setupLogging()
	if err != nil {
		return err
	}
	defer cleanup()

	ch := chanx.New[string](capacity, chanx.WithName("stress"))

	var produced sync.Map // tag -> struct{}
	var producerWG sync.WaitGroup

	for p := 0; p < producers; p++ {
		producerWG.Add(1)

		go func(producerID int) {
			defer producerWG.Done()

			for i := 0; i < perProducer; i++ {
				tag := uuid.NewString()
				produced.Store(tag, struct{}{})

				if err := ch.Send(tag); err != nil {
					return
				}
			}
		}(p)
	}

	var (
		consumed  sync.Map
		consumedN atomic.Int64
	)

	total := int64(producers * perProducer)

	var consumerWG sync.WaitGroup
	for c := 0; c < consumers; c++ {
		consumerWG.Add(1)

		go func() {
			defer consumerWG.Done()

			for {
				v, err := ch.Receive()
				if err != nil {
					return
				}

				consumed.Store(v, struct{}{})
				consumedN.Add(1)
			}
		}()
	}

	producerWG.Wait()

	// Close drops anything still buffered, so wait until every produced
	// value has actually been consumed before closing, rather than
	// closing as soon as producers finish.
	for consumedN.Load() < total {
		time.Sleep(time.Millisecond)
	}

	_ = ch.Close()
	consumerWG.Wait()

	var missing int
	produced.Range(func(key, _ any) bool {
		if _, ok := consumed.Load(key); !ok {
			missing++
		}

		return true
	})

	fmt.Printf(
		"producers=%d consumers=%d per_producer=%d consumed=%d missing=%d\n",
		producers, consumers, perProducer, consumedN.Load(), missing,
	)

	if missing > 0 {
		return fmt.Errorf("stress: %d produced tags were never consumed", missing)
	}

	return nil
}
