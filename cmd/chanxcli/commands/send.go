package commands

import (
	"fmt"
	"time"

	"github.com/roasbeef/chanx"
	"github.com/spf13/cobra"
)

var sendRecvCmd = &cobra.Command{
	Use:   "demo",
	Short: "Send a few values through a channel and receive them back",
	Long: `demo creates a chanx.Channel[string] with the configured
capacity, sends a handful of values, and receives them, printing each
operation's result.`,
	RunE: runSendRecv,
}

func runSendRecv(cmd *cobra.Command, args []string) error {
	cleanup, err := setupLogging()
	if err != nil {
		return err
	}
	defer cleanup()

	ch := chanx.New[string](capacity, chanx.WithName("demo"))
	defer func() {
		_ = ch.Close()
		_ = ch.Destroy()
	}()

	values := []string{"alpha", "bravo", "charlie"}

	done := make(chan struct{})
	go func() {
		defer close(done)

		for _, v := range values {
			if err := ch.Send(v); err != nil {
				fmt.Printf("send(%q) -> %v\n", v, err)
				return
			}

			fmt.Printf("send(%q) -> ok\n", v)
		}
	}()

	for range values {
		v, err := ch.Receive()
		if err != nil {
			fmt.Printf("receive() -> %v\n", err)
			continue
		}

		fmt.Printf("receive() -> %q\n", v)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		fmt.Println("sender goroutine did not finish in time")
	}

	return nil
}
