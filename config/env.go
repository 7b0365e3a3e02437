package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/sarchlab/cachesim/mem/cache/layer"
	"github.com/sarchlab/cachesim/simulation"
)

// EnvPrefix starts the name of every environment variable read by LoadEnv.
const EnvPrefix = "CACHESIM_"

type envVar struct {
	key   string
	apply func(cfg *simulation.Config, value string) error
}

var envVars = []envVar{
	{"CYCLES", func(c *simulation.Config, v string) error {
		return parseUint(v, 64, func(n uint64) { c.CycleBudget = n })
	}},
	{"TRACE_FILE", func(c *simulation.Config, v string) error {
		c.TraceFile = v
		return nil
	}},
	{"NUM_CACHE_LEVELS", func(c *simulation.Config, v string) error {
		return parseUint(v, 8, func(n uint64) { c.NumLevels = int(n) })
	}},
	{"CACHELINE_SIZE", func(c *simulation.Config, v string) error {
		return parseUint(v, 32, func(n uint64) { c.LineSize = uint32(n) })
	}},
	{"NUM_LINES_L1", func(c *simulation.Config, v string) error {
		return parseUint(v, 32, func(n uint64) { c.NumLines[0] = uint32(n) })
	}},
	{"NUM_LINES_L2", func(c *simulation.Config, v string) error {
		return parseUint(v, 32, func(n uint64) { c.NumLines[1] = uint32(n) })
	}},
	{"NUM_LINES_L3", func(c *simulation.Config, v string) error {
		return parseUint(v, 32, func(n uint64) { c.NumLines[2] = uint32(n) })
	}},
	{"LATENCY_L1", func(c *simulation.Config, v string) error {
		return parseUint(v, 32, func(n uint64) { c.Latencies[0] = uint32(n) })
	}},
	{"LATENCY_L2", func(c *simulation.Config, v string) error {
		return parseUint(v, 32, func(n uint64) { c.Latencies[1] = uint32(n) })
	}},
	{"LATENCY_L3", func(c *simulation.Config, v string) error {
		return parseUint(v, 32, func(n uint64) { c.Latencies[2] = uint32(n) })
	}},
	{"MEMORY_LATENCY", func(c *simulation.Config, v string) error {
		return parseUint(v, 32, func(n uint64) { c.MemoryLatency = uint32(n) })
	}},
	{"MAPPING_STRATEGY", func(c *simulation.Config, v string) error {
		s, err := layer.ParseStrategy(v)
		if err != nil {
			return err
		}

		c.Strategy = s

		return nil
	}},
	{"VERIFY", func(c *simulation.Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}

		c.Verify = b

		return nil
	}},
}

func parseUint(v string, bits int, apply func(n uint64)) error {
	n, err := strconv.ParseUint(v, 0, bits)
	if err != nil {
		return err
	}

	apply(n)

	return nil
}

// LoadEnv overrides cfg with the CACHESIM_* variables found in the given
// .env files and in the process environment. The process environment wins
// over the files. Without file names, only the process environment is read.
func LoadEnv(cfg *simulation.Config, filenames ...string) error {
	values := map[string]string{}

	if len(filenames) > 0 {
		fromFiles, err := godotenv.Read(filenames...)
		if err != nil {
			return err
		}

		values = fromFiles
	}

	for _, v := range envVars {
		name := EnvPrefix + v.key

		value, found := os.LookupEnv(name)
		if !found {
			value, found = values[name]
		}

		if !found {
			continue
		}

		if err := v.apply(cfg, value); err != nil {
			return fmt.Errorf("%w: %s=%q: %w",
				simulation.ErrConfiguration, name, value, err)
		}
	}

	return nil
}
