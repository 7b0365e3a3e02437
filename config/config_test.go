package config_test

import (
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/config"
	"github.com/sarchlab/cachesim/mem/cache/layer"
	"github.com/sarchlab/cachesim/simulation"
)

func writeFile(name, content string) string {
	path := filepath.Join(GinkgoT().TempDir(), name)
	Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())

	return path
}

var _ = Describe("File", func() {
	It("should override the fields it sets", func() {
		path := writeFile("run.yaml", `
cycles: 5000
num_cache_levels: 2
cacheline_size: 32
num_lines: [16, 64]
latencies: [1, 4]
mapping_strategy: direct
verify: true
`)

		f, err := config.LoadFile(path)
		Expect(err).ToNot(HaveOccurred())

		cfg := simulation.DefaultConfig()
		Expect(f.Apply(&cfg)).To(Succeed())

		Expect(cfg.CycleBudget).To(Equal(uint64(5000)))
		Expect(cfg.NumLevels).To(Equal(2))
		Expect(cfg.LineSize).To(Equal(uint32(32)))
		Expect(cfg.NumLines).To(Equal([3]uint32{16, 64, 32768}))
		Expect(cfg.Latencies).To(Equal([3]uint32{1, 4, 32}))
		Expect(cfg.Strategy).To(Equal(layer.DirectMapped))
		Expect(cfg.MemoryLatency).To(Equal(uint32(100)))
		Expect(cfg.Verify).To(BeTrue())
		Expect(cfg.Validate()).To(Succeed())
	})

	It("should accept an empty file", func() {
		f, err := config.Parse(nil)
		Expect(err).ToNot(HaveOccurred())

		cfg := simulation.DefaultConfig()
		Expect(f.Apply(&cfg)).To(Succeed())
		Expect(cfg).To(Equal(simulation.DefaultConfig()))
	})

	It("should reject unknown keys", func() {
		_, err := config.Parse([]byte("cache_size: 4\n"))

		Expect(errors.Is(err, simulation.ErrConfiguration)).To(BeTrue())
	})

	It("should reject unknown strategies", func() {
		f, err := config.Parse([]byte("mapping_strategy: skewed\n"))
		Expect(err).ToNot(HaveOccurred())

		cfg := simulation.DefaultConfig()
		err = f.Apply(&cfg)

		Expect(errors.Is(err, simulation.ErrConfiguration)).To(BeTrue())
	})

	It("should reject too many levels", func() {
		f, err := config.Parse([]byte("latencies: [1, 2, 3, 4]\n"))
		Expect(err).ToNot(HaveOccurred())

		cfg := simulation.DefaultConfig()

		Expect(errors.Is(f.Apply(&cfg), simulation.ErrConfiguration)).
			To(BeTrue())
	})

	It("should fail on a missing file", func() {
		_, err := config.LoadFile(filepath.Join(GinkgoT().TempDir(), "none"))

		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("LoadEnv", func() {
	It("should read the .env file", func() {
		path := writeFile(".env", `
CACHESIM_CYCLES=0x100
CACHESIM_NUM_LINES_L2=128
CACHESIM_MAPPING_STRATEGY=1
OTHER=1
`)

		cfg := simulation.DefaultConfig()
		Expect(config.LoadEnv(&cfg, path)).To(Succeed())

		Expect(cfg.CycleBudget).To(Equal(uint64(256)))
		Expect(cfg.NumLines[1]).To(Equal(uint32(128)))
		Expect(cfg.Strategy).To(Equal(layer.FullyAssociative))
	})

	It("should prefer the process environment", func() {
		path := writeFile(".env", "CACHESIM_LATENCY_L1=3\n")
		GinkgoT().Setenv("CACHESIM_LATENCY_L1", "5")

		cfg := simulation.DefaultConfig()
		Expect(config.LoadEnv(&cfg, path)).To(Succeed())

		Expect(cfg.Latencies[0]).To(Equal(uint32(5)))
	})

	It("should report malformed values", func() {
		GinkgoT().Setenv("CACHESIM_VERIFY", "maybe")

		cfg := simulation.DefaultConfig()
		err := config.LoadEnv(&cfg)

		Expect(errors.Is(err, simulation.ErrConfiguration)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("CACHESIM_VERIFY"))
	})

	It("should fail on a missing .env file", func() {
		cfg := simulation.DefaultConfig()

		Expect(config.LoadEnv(&cfg, "/nonexistent/.env")).ToNot(Succeed())
	})
})
