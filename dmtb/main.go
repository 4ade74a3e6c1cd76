// Command dmtb runs the datamover testbench on a simulated cluster.
package main

import "github.com/sarchlab/datamover/dmtb/cmd"

func main() {
	cmd.Execute()
}
