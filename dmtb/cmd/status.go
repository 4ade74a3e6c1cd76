package cmd

import (
	"fmt"

	"github.com/sarchlab/datamover/datamover"
	"github.com/sarchlab/datamover/mmio"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Read the job state of an accelerator through a memory mapping.",
	Long: `status maps the register window of a real accelerator, by default ` +
		`through /dev/mem at the cluster base address, and prints the status ` +
		`masks, the running job and the descriptor of every bank. Reading ` +
		`the window never acquires a slot.`,
	RunE: readStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	f := statusCmd.Flags()
	f.String("mem", "/dev/mem", "File that maps the cluster address space.")
	f.Uint64("base", datamover.AddrBase,
		"Address of the register window in the file.")
	f.Bool("soft-clear", false,
		"Return all slots to idle after printing the state.")
}

func readStatus(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("mem")
	base, _ := cmd.Flags().GetUint64("base")
	softClear, _ := cmd.Flags().GetBool("soft-clear")

	w, err := mmio.OpenMapped(path, int64(base), datamover.AddrSpace)
	if err != nil {
		return err
	}
	defer w.Close()

	ctrl := datamover.NewController(w, datamover.DefaultDataWidth/8)
	s := ctrl.ReadStatus()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "status 0x%08x running %03b finished %03b\n",
		uint32(s), uint32(s.Running()), uint32(s.Finished()))

	if bank, ok := ctrl.RunningJob(); ok {
		fmt.Fprintf(out, "running_job bank%d\n", bank)
	} else {
		fmt.Fprintln(out, "running_job none")
	}

	for b := datamover.Bank(0); b < datamover.NumBanks; b++ {
		d := datamover.ReadDescriptor(w, b)
		fmt.Fprintf(out, "bank%d src 0x%08x dst 0x%08x tot_len %d\n",
			b, d.SrcAddr, d.DstAddr, d.TotLen)
	}

	if softClear {
		ctrl.SoftClear()
		fmt.Fprintln(out, "soft clear issued")
	}

	return nil
}
