// Package config loads the settings of a datamover simulation run.
//
// Settings come from, in increasing priority, the defaults, an optional .env
// file, and DATAMOVER_* environment variables. Command line flags are applied
// on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sarchlab/datamover/datamover"
	"github.com/sarchlab/datamover/testbench"
)

// EnvPrefix is the prefix of every environment variable read.
const EnvPrefix = "DATAMOVER_"

// Config is the configuration of a run.
type Config struct {
	Seed          uint32
	Jobs          int
	TotLen        uint32
	ElementBytes  uint32
	UnitsPerCycle int
	FreqMHz       float64
	CorruptWord   int

	Trace     bool
	TracePath string

	Monitor     bool
	MonitorPort int
	OpenBrowser bool
}

// Default returns the configuration of the reference test.
func Default() Config {
	return Config{
		Seed:          testbench.DefaultSeed,
		Jobs:          datamover.NumBanks,
		TotLen:        64,
		ElementBytes:  datamover.DefaultDataWidth / 8,
		UnitsPerCycle: 1,
		FreqMHz:       1000,
		CorruptWord:   -1,
	}
}

// Load reads envFile, if it exists, and the environment on top of the
// defaults. An empty envFile skips the file.
func Load(envFile string) (Config, error) {
	fileValues := map[string]string{}

	if envFile != "" {
		values, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileValues = values
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("reading %s: %w", envFile, err)
		}
	}

	l := loader{file: fileValues}
	c := Default()

	l.uint32Var("SEED", &c.Seed)
	l.intVar("JOBS", &c.Jobs)
	l.uint32Var("TOT_LEN", &c.TotLen)
	l.uint32Var("ELEMENT_BYTES", &c.ElementBytes)
	l.intVar("UNITS_PER_CYCLE", &c.UnitsPerCycle)
	l.floatVar("FREQ_MHZ", &c.FreqMHz)
	l.intVar("CORRUPT_WORD", &c.CorruptWord)
	l.boolVar("TRACE", &c.Trace)
	l.stringVar("TRACE_PATH", &c.TracePath)
	l.boolVar("MONITOR", &c.Monitor)
	l.intVar("MONITOR_PORT", &c.MonitorPort)
	l.boolVar("OPEN_BROWSER", &c.OpenBrowser)

	if l.err != nil {
		return Config{}, l.err
	}

	return c, nil
}

// Options converts the configuration into testbench options.
func (c Config) Options() testbench.Options {
	opts := testbench.DefaultOptions()
	opts.Seed = c.Seed
	opts.Jobs = c.Jobs
	opts.TotLen = c.TotLen
	opts.CorruptWord = c.CorruptWord

	return opts
}

type loader struct {
	file map[string]string
	err  error
}

func (l *loader) lookup(key string) (string, bool) {
	key = EnvPrefix + key

	if v, ok := os.LookupEnv(key); ok {
		return v, true
	}

	v, ok := l.file[key]

	return v, ok
}

func (l *loader) parse(key string, parse func(string) error) {
	if l.err != nil {
		return
	}

	v, ok := l.lookup(key)
	if !ok {
		return
	}

	if err := parse(v); err != nil {
		l.err = fmt.Errorf("%s%s=%q: %w", EnvPrefix, key, v, err)
	}
}

func (l *loader) uint32Var(key string, dst *uint32) {
	l.parse(key, func(s string) error {
		v, err := strconv.ParseUint(s, 0, 32)
		*dst = uint32(v)
		return err
	})
}

func (l *loader) intVar(key string, dst *int) {
	l.parse(key, func(s string) error {
		v, err := strconv.Atoi(s)
		*dst = v
		return err
	})
}

func (l *loader) floatVar(key string, dst *float64) {
	l.parse(key, func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		*dst = v
		return err
	})
}

func (l *loader) boolVar(key string, dst *bool) {
	l.parse(key, func(s string) error {
		v, err := strconv.ParseBool(s)
		*dst = v
		return err
	})
}

func (l *loader) stringVar(key string, dst *string) {
	l.parse(key, func(s string) error {
		*dst = s
		return nil
	})
}
