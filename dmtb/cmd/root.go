// Package cmd provides the command-line interface of the datamover testbench.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// exitCode is set by commands that report a result through the exit status.
var exitCode int

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dmtb",
	Short: "Datamover testbench on a simulated cluster.",
	Long: `dmtb drives the datamover accelerator model through its register ` +
		`interface. It runs the three-job copy test and prints the register ` +
		`map.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("env", ".env",
		"File with DATAMOVER_* settings, ignored if missing.")
}

// Execute adds all child commands to the root command and sets flags
// appropriately. The process exits with the number of mismatched words of a
// run, or 1 if a command fails.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	atexit.Exit(exitCode)
}
