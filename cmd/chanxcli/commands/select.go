package commands

import (
	"fmt"

	"github.com/roasbeef/chanx"
	"github.com/spf13/cobra"
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Demonstrate Select across two channels",
	Long: `select creates two channels, pre-fills the first, and runs a
chanx.Select over a receive intent on the first and a send intent on the
second — mirroring the library's own tie-break test scenario.`,
	RunE: runSelect,
}

func runSelect(cmd *cobra.Command, args []string) error {
	cleanup, err := setupLogging()
	if err != nil {
		return err
	}
	defer cleanup()

	c1 := chanx.New[int](1, chanx.WithName("c1"))
	c2 := chanx.New[int](1, chanx.WithName("c2"))
	defer func() {
		_ = c1.Close()
		_ = c1.Destroy()
		_ = c2.Close()
		_ = c2.Destroy()
	}()

	if err := c1.TrySend(9); err != nil {
		return fmt.Errorf("priming c1: %w", err)
	}

	idx, val, err := chanx.Select(
		chanx.RecvIntent(c1),
		chanx.SendIntent(c2, 5),
	)
	if err != nil {
		return fmt.Errorf("select: %w", err)
	}

	fmt.Printf("select chose intent %d, value=%v\n", idx, val)

	return nil
}
