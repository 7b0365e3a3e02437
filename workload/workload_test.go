package workload_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/mem/cache/layer"
	"github.com/sarchlab/cachesim/simulation"
	"github.com/sarchlab/cachesim/workload"
)

var _ = Describe("ParseCSV", func() {
	It("should parse reads and writes", func() {
		reqs, err := workload.ParseCSV(strings.NewReader(
			"W,0x10,0xCAFE\n" +
				"\n" +
				"R, 16,\n" +
				"r,0x10\n" +
				"R,0x10,51966\n"))

		Expect(err).ToNot(HaveOccurred())
		Expect(reqs).To(Equal([]simulation.Request{
			{Address: 16, Data: 0xCAFE, IsWrite: true},
			{Address: 16},
			{Address: 16},
			{Address: 16, Expected: 0xCAFE, HasExpected: true},
		}))
	})

	DescribeTable("should reject malformed rows with their line number",
		func(row string) {
			_, err := workload.ParseCSV(strings.NewReader("R,0\n\n" + row + "\n"))

			Expect(errors.Is(err, workload.ErrParse)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("line 3"))
		},
		Entry("unknown type", "X,0,0"),
		Entry("missing address", "R"),
		Entry("extra field", "W,0,1,2"),
		Entry("write without data", "W,0,"),
		Entry("negative address", "R,-4"),
		Entry("address too large", "R,0x100000000"),
		Entry("not a number", "W,0,12ab"),
	)

	It("should load a file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "reqs.csv")
		Expect(os.WriteFile(path, []byte("W,4,1\nR,4,1"), 0o644)).To(Succeed())

		reqs, err := workload.LoadCSV(path)

		Expect(err).ToNot(HaveOccurred())
		Expect(reqs).To(HaveLen(2))
	})
})

var _ = Describe("MatMul", func() {
	It("should generate the accesses of a 2x2 product", func() {
		reqs := workload.GenerateMatMul(2, true)

		// 3 n^2 initial writes, 2 n^3 reads, n^2 writes, n^2 final reads
		Expect(reqs).To(HaveLen(12 + 16 + 4 + 4))
		Expect(reqs[0]).To(Equal(simulation.Request{
			Address: 0, Data: 1, IsWrite: true,
		}))
		Expect(reqs[1]).To(Equal(simulation.Request{
			Address: 16, Data: 1, IsWrite: true,
		}))

		last := reqs[len(reqs)-1]
		Expect(last).To(Equal(simulation.Request{
			Address: 44, Expected: 4, HasExpected: true,
		}))
	})

	It("should leave out the expected values when asked", func() {
		for _, r := range workload.GenerateMatMul(2, false) {
			Expect(r.HasExpected).To(BeFalse())
			Expect(r.Expected).To(BeZero())
		}
	})

	It("should round trip through CSV", func() {
		reqs := workload.GenerateMatMul(3, true)

		buf := new(bytes.Buffer)
		Expect(workload.WriteCSV(buf, reqs)).To(Succeed())

		parsed, err := workload.ParseCSV(buf)
		Expect(err).ToNot(HaveOccurred())
		Expect(parsed).To(Equal(reqs))
	})

	It("should verify on the simulated cache", func() {
		cfg := simulation.DefaultConfig()
		cfg.NumLines = [3]uint32{4, 8, 16}
		cfg.Latencies = [3]uint32{1, 2, 4}
		cfg.LineSize = 16
		cfg.MemoryLatency = 10
		cfg.Strategy = layer.DirectMapped
		cfg.Verify = true

		reqs := workload.GenerateMatMul(4, true)

		result, err := simulation.Run(cfg, reqs)

		Expect(err).ToNot(HaveOccurred())
		Expect(result.Completed()).To(Equal(uint64(len(reqs))))
		Expect(result.Mismatches).To(BeZero())
	})
})
