package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sarchlab/cachesim/config"
	"github.com/sarchlab/cachesim/mem/cache/layer"
	"github.com/sarchlab/cachesim/monitoring"
	"github.com/sarchlab/cachesim/simulation"
	"github.com/sarchlab/cachesim/workload"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] requests.csv",
	Short: "Run the requests of a CSV file through the cache hierarchy.",
	Long: "Each row of the CSV file is `R,<addr>[,<expected>]` or " +
		"`W,<addr>,<data>`, in decimal or 0x-prefixed hexadecimal. " +
		"Settings are taken from the defaults, then the .env file and " +
		"CACHESIM_* variables, then the config file, then the flags.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd.Flags())
		if err != nil {
			return err
		}

		reqs, err := workload.LoadCSV(args[0])
		if err != nil {
			return err
		}

		opts, cleanup, err := runOptions(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := simulation.Run(cfg, reqs, opts...)
		printResult(cmd.OutOrStdout(), cfg, len(reqs), result)

		if err != nil {
			return err
		}

		if cfg.Verify && result.Mismatches > 0 {
			return fmt.Errorf("%d reads returned unexpected data",
				result.Mismatches)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	d := simulation.DefaultConfig()
	f := runCmd.Flags()

	f.Uint64P("cycles", "c", d.CycleBudget, "Number of simulation cycles")
	f.StringP("tf", "f", "", "Output waveform trace file")
	f.Uint32P("cacheline-size", "C", d.LineSize, "Cache line size in bytes")
	f.Uint32P("num-lines-l1", "L", d.NumLines[0], "Number of lines in L1")
	f.Uint32P("num-lines-l2", "M", d.NumLines[1], "Number of lines in L2")
	f.Uint32P("num-lines-l3", "N", d.NumLines[2], "Number of lines in L3")
	f.Uint32P("latency-cache-l1", "l", d.Latencies[0], "Latency of L1 in cycles")
	f.Uint32P("latency-cache-l2", "m", d.Latencies[1], "Latency of L2 in cycles")
	f.Uint32P("latency-cache-l3", "n", d.Latencies[2], "Latency of L3 in cycles")
	f.IntP("num-cache-levels", "e", d.NumLevels, "Number of cache levels (1-3)")
	f.StringP("mapping-strategy", "S", "1",
		"Mapping strategy (0=direct-mapped, 1=fully associative)")
	f.Uint32("memory-latency", d.MemoryLatency, "Latency of the main memory")
	f.String("config", "", "YAML configuration file")
	f.String("env", "", "File of CACHESIM_* variables")
	f.String("record", "", "Record requests into this SQLite database")
	f.Bool("monitor", false, "Serve the monitoring page while running")
	f.Int("monitor-port", 0, "Port of the monitoring page, random if 0")
	f.Bool("monitor-open", false, "Open the monitoring page in a browser")
	f.Bool("verbose", false, "Log every cycle and request to stderr")
	f.Bool("verify", false, "Check reads against their expected values")
}

func loadConfig(flags *pflag.FlagSet) (simulation.Config, error) {
	cfg := simulation.DefaultConfig()

	envFile, _ := flags.GetString("env")

	var envFiles []string
	if envFile != "" {
		envFiles = append(envFiles, envFile)
	}

	if err := config.LoadEnv(&cfg, envFiles...); err != nil {
		return cfg, err
	}

	if path, _ := flags.GetString("config"); path != "" {
		file, err := config.LoadFile(path)
		if err != nil {
			return cfg, err
		}

		if err := file.Apply(&cfg); err != nil {
			return cfg, err
		}
	}

	if err := applyFlags(flags, &cfg); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func applyFlags(flags *pflag.FlagSet, cfg *simulation.Config) error {
	var err error

	uint32Flags := map[string]*uint32{
		"cacheline-size":   &cfg.LineSize,
		"num-lines-l1":     &cfg.NumLines[0],
		"num-lines-l2":     &cfg.NumLines[1],
		"num-lines-l3":     &cfg.NumLines[2],
		"latency-cache-l1": &cfg.Latencies[0],
		"latency-cache-l2": &cfg.Latencies[1],
		"latency-cache-l3": &cfg.Latencies[2],
		"memory-latency":   &cfg.MemoryLatency,
	}

	flags.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}

		if dst, ok := uint32Flags[f.Name]; ok {
			*dst, err = flags.GetUint32(f.Name)
			return
		}

		switch f.Name {
		case "cycles":
			cfg.CycleBudget, err = flags.GetUint64(f.Name)
		case "tf":
			cfg.TraceFile, err = flags.GetString(f.Name)
		case "num-cache-levels":
			cfg.NumLevels, err = flags.GetInt(f.Name)
		case "mapping-strategy":
			cfg.Strategy, err = layer.ParseStrategy(f.Value.String())
		case "verify":
			cfg.Verify, err = flags.GetBool(f.Name)
		}
	})

	return err
}

func runOptions(cmd *cobra.Command) ([]simulation.Option, func(), error) {
	flags := cmd.Flags()
	opts := []simulation.Option{}
	cleanup := func() {}

	if path, _ := flags.GetString("record"); path != "" {
		if _, err := os.Stat(path + ".sqlite3"); err == nil {
			return nil, cleanup, fmt.Errorf("%s.sqlite3 already exists", path)
		}

		opts = append(opts, simulation.WithRecordFile(path))
	}

	if verbose, _ := flags.GetBool("verbose"); verbose {
		logger := log.New(cmd.ErrOrStderr(), "", 0)
		opts = append(opts, simulation.WithLogger(logger))
	}

	monitorOn, _ := flags.GetBool("monitor")
	openBrowser, _ := flags.GetBool("monitor-open")

	if monitorOn || openBrowser {
		port, _ := flags.GetInt("monitor-port")

		m := monitoring.NewMonitor().WithPortNumber(port)
		if err := m.StartServer(); err != nil {
			return nil, cleanup, err
		}

		cleanup = func() { _ = m.StopServer() }

		if openBrowser {
			if err := m.OpenInBrowser(); err != nil {
				log.Printf("cannot open the browser: %v", err)
			}
		}

		opts = append(opts, simulation.WithMonitor(m))
	}

	return opts, cleanup, nil
}

func printResult(
	w io.Writer,
	cfg simulation.Config,
	numRequests int,
	result simulation.Result,
) {
	fmt.Fprintf(w, "Requests:     %d (%d completed)\n",
		numRequests, result.Completed())
	fmt.Fprintf(w, "Cycles:       %d\n", result.Cycles)
	fmt.Fprintf(w, "Hits:         %d\n", result.Hits)
	fmt.Fprintf(w, "Misses:       %d\n", result.Misses)

	for i := 0; i < cfg.NumLevels; i++ {
		fmt.Fprintf(w, "L%d hits:      %d\n", i+1, result.LevelHits[i])
	}

	fmt.Fprintf(w, "Avg. latency: %.2f cycles\n", result.AvgLatency)

	if cfg.Verify {
		fmt.Fprintf(w, "Mismatches:   %d\n", result.Mismatches)
	}

	if result.Cycles >= cfg.CycleBudget &&
		result.Completed() < uint64(numRequests) {
		fmt.Fprintf(w, "Stopped at the cycle budget of %d\n", cfg.CycleBudget)
	}
}
