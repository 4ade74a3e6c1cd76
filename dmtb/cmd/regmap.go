package cmd

import (
	"fmt"

	"github.com/sarchlab/datamover/datamover"
	"github.com/spf13/cobra"
)

var regmapCmd = &cobra.Command{
	Use:   "regmap",
	Short: "Print the register map of the accelerator.",
	Run: func(cmd *cobra.Command, _ []string) {
		absolute, _ := cmd.Flags().GetBool("absolute")

		base := uint32(0)
		if absolute {
			base = datamover.AddrBase
		}

		out := cmd.OutOrStdout()
		for offset := uint32(0); offset < datamover.AddrSpace; offset += 4 {
			name := datamover.RegisterName(offset)
			if _, _, ok := datamover.DecodeOffset(offset); !ok &&
				offset > datamover.RegSoftClear {
				continue
			}

			fmt.Fprintf(out, "0x%08x  %s\n", base+offset, name)
		}
	},
}

func init() {
	rootCmd.AddCommand(regmapCmd)
	regmapCmd.Flags().Bool("absolute", false,
		"Print addresses in the cluster address space.")
}
