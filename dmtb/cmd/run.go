package cmd

import (
	"fmt"
	"log"

	"github.com/sarchlab/datamover/config"
	"github.com/sarchlab/datamover/platform"
	"github.com/sarchlab/datamover/sim"
	"github.com/sarchlab/datamover/testbench"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Copy pseudo-random buffers with the accelerator and check them.",
	Long: `run fills one source buffer per job, acquires a job slot for each, ` +
		`configures the descriptors, starts all jobs with a single trigger ` +
		`and compares the destination buffers once the accelerator signals ` +
		`completion. The number of mismatched words is written to the ` +
		`result sink and used as the exit status.`,
	RunE: runTestbench,
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.Uint32("seed", 0, "Seed of the first source buffer.")
	f.Int("jobs", 0, "Number of jobs, 1 to 3.")
	f.Uint32("tot-len", 0, "Units per job, a multiple of 32.")
	f.Uint32("element-bytes", 0, "Width of one transfer unit in bytes.")
	f.Int("units-per-cycle", 0, "Units the accelerator copies per cycle.")
	f.Float64("freq-mhz", 0, "Accelerator clock in MHz.")
	f.Int("corrupt-word", -1,
		"Flip this word of the first destination buffer before comparing.")
	f.Bool("trace", false, "Record a trace database.")
	f.String("trace-path", "", "Trace database path without extension.")
	f.Bool("monitor", false, "Serve the simulation state over HTTP.")
	f.Int("monitor-port", 0, "Monitor port, random if not set.")
	f.Bool("open-browser", false, "Open the monitor in a browser.")
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env")

	c, err := config.Load(envFile)
	if err != nil {
		return c, err
	}

	f := cmd.Flags()
	if f.Changed("seed") {
		c.Seed, _ = f.GetUint32("seed")
	}
	if f.Changed("jobs") {
		c.Jobs, _ = f.GetInt("jobs")
	}
	if f.Changed("tot-len") {
		c.TotLen, _ = f.GetUint32("tot-len")
	}
	if f.Changed("element-bytes") {
		c.ElementBytes, _ = f.GetUint32("element-bytes")
	}
	if f.Changed("units-per-cycle") {
		c.UnitsPerCycle, _ = f.GetInt("units-per-cycle")
	}
	if f.Changed("freq-mhz") {
		c.FreqMHz, _ = f.GetFloat64("freq-mhz")
	}
	if f.Changed("corrupt-word") {
		c.CorruptWord, _ = f.GetInt("corrupt-word")
	}
	if f.Changed("trace") {
		c.Trace, _ = f.GetBool("trace")
	}
	if f.Changed("trace-path") {
		c.TracePath, _ = f.GetString("trace-path")
		c.Trace = true
	}
	if f.Changed("monitor") {
		c.Monitor, _ = f.GetBool("monitor")
	}
	if f.Changed("monitor-port") {
		c.MonitorPort, _ = f.GetInt("monitor-port")
		c.Monitor = true
	}
	if f.Changed("open-browser") {
		c.OpenBrowser, _ = f.GetBool("open-browser")
	}

	return c, nil
}

func buildPlatform(c config.Config) (*platform.Platform, error) {
	if c.ElementBytes == 0 || c.ElementBytes%4 != 0 {
		return nil, fmt.Errorf("element width %d is not a positive multiple "+
			"of 4 bytes", c.ElementBytes)
	}

	if c.UnitsPerCycle <= 0 || c.FreqMHz <= 0 {
		return nil, fmt.Errorf("invalid throughput %d units at %g MHz",
			c.UnitsPerCycle, c.FreqMHz)
	}

	b := platform.MakeBuilder().
		WithFreq(sim.Freq(c.FreqMHz) * sim.MHz).
		WithElementBytes(c.ElementBytes).
		WithUnitsPerCycle(c.UnitsPerCycle)

	if c.Trace {
		b = b.WithTracing(c.TracePath)
	}

	if c.Monitor {
		b = b.WithMonitor(c.MonitorPort)
		if c.OpenBrowser {
			b = b.WithBrowser()
		}
	}

	return b.Build("Cluster"), nil
}

func runTestbench(cmd *cobra.Command, _ []string) error {
	c, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	p, err := buildPlatform(c)
	if err != nil {
		return err
	}
	defer func() {
		if err := p.Close(); err != nil {
			log.Printf("closing platform: %v", err)
		}
	}()

	report, err := testbench.Run(p, c.Options())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, j := range report.Jobs {
		fmt.Fprintf(out, "job %d bank %d src 0x%08x dst 0x%08x words %d "+
			"errors %d crc 0x%02x/0x%02x\n", i, j.Bank, j.Src, j.Dst, j.Words,
			j.Errors, j.SrcCRC, j.DstCRC)
	}

	fmt.Fprintf(out, "simulated time %.3f us, accelerator busy %.3f us\n",
		float64(report.SimTime)*1e6, float64(p.JobTime.TotalTime())*1e6)
	fmt.Fprintf(out, "errors: %d\n", report.Errors)

	exitCode = report.Errors

	return nil
}
