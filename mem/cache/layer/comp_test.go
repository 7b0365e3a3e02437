package layer_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/mem/cache/layer"
	"github.com/sarchlab/cachesim/mem/mem"
)

func line(words ...uint32) []byte {
	data := make([]byte, 8)
	for i, w := range words {
		Expect(mem.SpliceWord(data, uint32(i*4), w)).To(Succeed())
	}

	return data
}

// tickUntilReady ticks the layer and returns the number of ticks taken,
// counting the tick in which the request was accepted.
func tickUntilReady(c *layer.Comp) int {
	ticks := 0
	for !c.Ready() {
		c.Tick()
		ticks++
		Expect(ticks).To(BeNumerically("<", 100))
	}

	return ticks
}

var _ = Describe("Layer", func() {
	var (
		builder layer.Builder
		c       *layer.Comp
	)

	BeforeEach(func() {
		builder = layer.MakeBuilder().
			WithLineSize(8).
			WithNumLines(2).
			WithLatency(2)
	})

	Context("direct-mapped", func() {
		BeforeEach(func() {
			c = builder.WithStrategy(layer.DirectMapped).Build("L1")
		})

		It("should become ready one tick after the latency", func() {
			c.Accept(mem.AccessReq{Address: 0})

			Expect(tickUntilReady(c)).To(Equal(3))
			Expect(c.Miss()).To(BeTrue())
		})

		It("should hit after a fill and extract the word", func() {
			Expect(c.WriteCacheline(0x8, line(0xA1A2A3A4, 0xB1B2B3B4))).
				To(Succeed())

			c.Accept(mem.AccessReq{Address: 0xC})
			tickUntilReady(c)

			Expect(c.Hit()).To(BeTrue())
			Expect(c.Commit()).To(Succeed())
			Expect(c.Data()).To(Equal(uint32(0xB1B2B3B4)))
		})

		It("should splice writes into the line", func() {
			Expect(c.WriteCacheline(0, line(1, 2))).To(Succeed())

			c.Accept(mem.AccessReq{Address: 4, Data: 0xCAFE, IsWrite: true})
			tickUntilReady(c)
			Expect(c.Commit()).To(Succeed())

			l, err := c.Line(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(l.Valid).To(BeTrue())
			Expect(l.Data).To(Equal(line(1, 0xCAFE)))
		})

		It("should replace the line sharing the index", func() {
			Expect(c.WriteCacheline(0x00, line(1))).To(Succeed())
			Expect(c.WriteCacheline(0x10, line(2))).To(Succeed())

			Expect(c.Contains(0x00)).To(BeFalse())
			Expect(c.Contains(0x10)).To(BeTrue())
			Expect(c.LineAddress(0)).To(Equal(uint32(0x10)))
		})
	})

	Context("fully-associative", func() {
		BeforeEach(func() {
			c = builder.WithStrategy(layer.FullyAssociative).Build("L2")
		})

		It("should touch the line on commit", func() {
			Expect(c.WriteCacheline(0x00, line(1))).To(Succeed())
			Expect(c.WriteCacheline(0x40, line(2))).To(Succeed())
			Expect(c.UsageOrder()).To(Equal([]int{1, 0}))

			c.Accept(mem.AccessReq{Address: 0x00})
			tickUntilReady(c)
			Expect(c.Commit()).To(Succeed())

			Expect(c.UsageOrder()).To(Equal([]int{0, 1}))
		})

		It("should not touch the line when stopped", func() {
			Expect(c.WriteCacheline(0x00, line(1))).To(Succeed())
			Expect(c.WriteCacheline(0x40, line(2))).To(Succeed())

			c.Accept(mem.AccessReq{Address: 0x00})
			tickUntilReady(c)
			c.Stop()

			Expect(c.Ready()).To(BeFalse())
			Expect(c.UsageOrder()).To(Equal([]int{1, 0}))
			Expect(c.Commit()).To(MatchError(mem.ErrProtocol))
		})

		It("should evict the least recently used line", func() {
			Expect(c.WriteCacheline(0x00, line(1))).To(Succeed())
			Expect(c.WriteCacheline(0x40, line(2))).To(Succeed())
			Expect(c.WriteCacheline(0x80, line(3))).To(Succeed())

			Expect(c.Contains(0x00)).To(BeFalse())
			Expect(c.Contains(0x40)).To(BeTrue())
			Expect(c.Contains(0x80)).To(BeTrue())
		})
	})

	It("should fail accesses that cross the line", func() {
		c = builder.Build("L1")

		c.Accept(mem.AccessReq{Address: 5})
		c.Tick()
		c.Tick()

		Expect(c.Ready()).To(BeFalse())
		Expect(c.Busy()).To(BeFalse())
		Expect(c.Err()).To(MatchError(mem.ErrAddressing))
	})

	It("should skip one tick when marked idle", func() {
		c = builder.WithLatency(1).Build("L1")

		c.Accept(mem.AccessReq{Address: 0})
		c.MarkIdle()
		Expect(c.Tick()).To(BeFalse())
		Expect(c.Tick()).To(BeTrue())
		Expect(c.Ready()).To(BeTrue())

		c.MarkIdle()
		c.Accept(mem.AccessReq{Address: 8})
		Expect(c.Tick()).To(BeFalse())
		Expect(c.Tick()).To(BeTrue())
		Expect(c.Ready()).To(BeTrue())
	})

	It("should reject lines of the wrong size", func() {
		c = builder.Build("L1")

		Expect(c.WriteCacheline(0, make([]byte, 4))).
			To(MatchError(mem.ErrProtocol))
	})

	It("should report lines out of range", func() {
		c = builder.Build("L1")

		_, err := c.Line(2)
		Expect(err).To(HaveOccurred())
	})

	DescribeTable("spec validation",
		func(spec layer.Spec) {
			Expect(spec.Validate()).To(MatchError(mem.ErrConfiguration))
			Expect(func() { layer.MakeBuilder().WithSpec(spec).Build("L") }).
				To(Panic())
		},
		Entry("zero latency", layer.Spec{
			Level: 1, Latency: 0, NumLines: 2, LineSize: 8}),
		Entry("lines not power of two", layer.Spec{
			Level: 1, Latency: 1, NumLines: 3, LineSize: 8}),
		Entry("line size not power of two", layer.Spec{
			Level: 1, Latency: 1, NumLines: 2, LineSize: 12}),
		Entry("line smaller than a word", layer.Spec{
			Level: 1, Latency: 1, NumLines: 2, LineSize: 2}),
		Entry("unknown strategy", layer.Spec{
			Level: 1, Latency: 1, NumLines: 2, LineSize: 8, Strategy: 7}),
	)

	It("should parse strategies", func() {
		s, err := layer.ParseStrategy("1")
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal(layer.FullyAssociative))

		s, err = layer.ParseStrategy("direct-mapped")
		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal(layer.DirectMapped))

		_, err = layer.ParseStrategy("2")
		Expect(err).To(MatchError(mem.ErrConfiguration))
	})
})
