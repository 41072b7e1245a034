package commands

import (
	"github.com/spf13/cobra"
)

var (
	// capacity is the capacity of the demo channel.
	capacity int

	// logDir, when non-empty, enables rotating file logging in addition
	// to console output.
	logDir string
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "chanxcli",
	Short: "Exercise the chanx bounded channel and select primitives",
	Long: `chanxcli is a small demo and stress harness for the chanx
package. It drives a real chanx.Channel from the command line so the
send/receive/select behavior described in the library's design docs can be
observed directly, without writing a throwaway Go program.`,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().IntVar(
		&capacity, "capacity", 1,
		"Capacity of the demo channel (0 for rendezvous)",
	)
	rootCmd.PersistentFlags().StringVar(
		&logDir, "log-dir", "",
		"Directory for rotating log files (empty disables file logging)",
	)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(sendRecvCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(stressCmd)
}
