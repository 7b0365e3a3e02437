package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sarchlab/cachesim/mem/cache/layer"
	"github.com/sarchlab/cachesim/simulation"
)

func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		Expect(f.Value.Set(f.DefValue)).To(Succeed())
		f.Changed = false
	})
}

func execute(args ...string) (string, error) {
	resetFlags(runCmd)
	resetFlags(generateCmd)

	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs(args)

	_, err := rootCmd.ExecuteC()

	return out.String(), err
}

func writeFile(dir, name, content string) string {
	path := filepath.Join(dir, name)
	Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())

	return path
}

var _ = Describe("run", func() {
	var dir string

	scenarioFlags := []string{
		"-C", "8", "-L", "2", "-M", "4", "-N", "8",
		"-l", "2", "-m", "2", "-n", "3", "--memory-latency", "5",
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("should print the result", func() {
		csv := writeFile(dir, "reqs.csv", "W,0,0xA1A2A3A4\nR,0,0xA1A2A3A4\nR,0\n")

		args := append([]string{"run"}, scenarioFlags...)
		out, err := execute(append(args, "--verify", csv)...)

		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(ContainSubstring("Hits:         2"))
		Expect(out).To(ContainSubstring("Misses:       1"))
		Expect(out).To(ContainSubstring("L1 hits:      2"))
		Expect(out).To(ContainSubstring("Mismatches:   0"))
	})

	It("should fail on mismatching reads", func() {
		csv := writeFile(dir, "reqs.csv", "W,0,1\nR,0,2\n")

		args := append([]string{"run"}, scenarioFlags...)
		_, err := execute(append(args, "--verify", csv)...)

		Expect(err).To(MatchError(ContainSubstring("unexpected data")))
	})

	It("should report the cycle budget", func() {
		csv := writeFile(dir, "reqs.csv", "R,0\nR,64\n")

		args := append([]string{"run"}, scenarioFlags...)
		out, err := execute(append(args, "-c", "3", csv)...)

		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(ContainSubstring("Cycles:       3"))
		Expect(out).To(ContainSubstring("Stopped at the cycle budget of 3"))
	})

	It("should reject invalid settings", func() {
		csv := writeFile(dir, "reqs.csv", "R,0\n")

		_, err := execute("run", "-C", "12", csv)

		Expect(errors.Is(err, simulation.ErrConfiguration)).To(BeTrue())
	})

	It("should reject malformed request files", func() {
		csv := writeFile(dir, "reqs.csv", "Q,0\n")

		_, err := execute("run", csv)

		Expect(err).To(MatchError(ContainSubstring("line 1")))
	})

	It("should require a request file", func() {
		_, err := execute("run")

		Expect(err).To(HaveOccurred())
	})

	It("should write the waveform and the database", func() {
		csv := writeFile(dir, "reqs.csv", "R,0\n")
		wave := filepath.Join(dir, "wave")
		db := filepath.Join(dir, "rec")

		args := append([]string{"run"}, scenarioFlags...)
		_, err := execute(append(args, "-f", wave, "--record", db, csv)...)

		Expect(err).ToNot(HaveOccurred())
		Expect(wave + ".vcd").To(BeAnExistingFile())
		Expect(db + ".sqlite3").To(BeAnExistingFile())
	})
})

var _ = Describe("configuration layers", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		resetFlags(runCmd)
	})

	It("should apply env, then file, then flags", func() {
		env := writeFile(dir, ".env",
			"CACHESIM_LATENCY_L1=3\nCACHESIM_LATENCY_L2=5\nCACHESIM_LATENCY_L3=7\n")
		file := writeFile(dir, "run.yaml",
			"latencies: [4, 6]\nmapping_strategy: direct\n")

		Expect(runCmd.Flags().Parse([]string{
			"--env", env, "--config", file, "-l", "9",
		})).To(Succeed())

		cfg, err := loadConfig(runCmd.Flags())

		Expect(err).ToNot(HaveOccurred())
		Expect(cfg.Latencies).To(Equal([3]uint32{9, 6, 7}))
		Expect(cfg.Strategy).To(Equal(layer.DirectMapped))
	})

	It("should keep the defaults without settings", func() {
		Expect(runCmd.Flags().Parse(nil)).To(Succeed())

		cfg, err := loadConfig(runCmd.Flags())

		Expect(err).ToNot(HaveOccurred())
		Expect(cfg).To(Equal(simulation.DefaultConfig()))
	})
})

var _ = Describe("generate", func() {
	It("should write a request file that run accepts", func() {
		dir := GinkgoT().TempDir()
		csv := filepath.Join(dir, "mm.csv")

		out, err := execute("generate", "-s", "3", "-t", "-o", csv)
		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(ContainSubstring("99 requests"))

		out, err = execute("run", "--verify", "-C", "16", "--memory-latency", "4", csv)
		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(ContainSubstring("Mismatches:   0"))
	})

	It("should reject an empty matrix", func() {
		_, err := execute("generate", "-s", "0")

		Expect(err).To(HaveOccurred())
	})
})
