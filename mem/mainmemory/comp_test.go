package mainmemory_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/mem/mainmemory"
	"github.com/sarchlab/cachesim/mem/mem"
)

var _ = Describe("Main Memory", func() {
	var m *mainmemory.Comp

	BeforeEach(func() {
		m = mainmemory.MakeBuilder().
			WithLatency(3).
			WithLineSize(8).
			Build("Memory")
	})

	It("should read zeros from untouched addresses", func() {
		line, err := m.GetLine(0x1234)

		Expect(err).NotTo(HaveOccurred())
		Expect(line).To(Equal(make([]byte, 8)))
	})

	It("should return the aligned line", func() {
		Expect(m.SetWord(0, 0xA1A2A3A4)).To(Succeed())
		Expect(m.SetWord(4, 0xB1B2B3B4)).To(Succeed())

		line, err := m.GetLine(6)

		Expect(err).NotTo(HaveOccurred())
		Expect(line).To(Equal([]byte{
			0xA4, 0xA3, 0xA2, 0xA1, 0xB4, 0xB3, 0xB2, 0xB1}))
	})

	It("should complete a read latency ticks after the strobe tick", func() {
		Expect(m.SetWord(8, 42)).To(Succeed())

		m.SetInputs(12, 0)
		m.StrobeRead()

		ticks := 0
		for !m.Ready() {
			m.Tick()
			ticks++
			Expect(ticks).To(BeNumerically("<", 10))
		}

		Expect(ticks).To(Equal(4))
		w, _ := mem.ExtractWord(m.Line(), 0)
		Expect(w).To(Equal(uint32(42)))
		Expect(m.NumReads).To(Equal(uint64(1)))
	})

	It("should apply writes on completion", func() {
		m.SetInputs(16, 0xCAFEBABE)
		m.StrobeWrite()

		m.Tick()
		m.Tick()
		w, _ := m.Word(16)
		Expect(w).To(BeZero())

		m.Tick()
		m.Tick()
		Expect(m.Ready()).To(BeTrue())
		w, _ = m.Word(16)
		Expect(w).To(Equal(uint32(0xCAFEBABE)))

		w, _ = mem.ExtractWord(m.Line(), 0)
		Expect(w).To(Equal(uint32(0xCAFEBABE)))
	})

	It("should cancel the access when stopped", func() {
		m.SetInputs(16, 7)
		m.StrobeWrite()
		m.Tick()
		m.Tick()

		m.Stop()
		for i := 0; i < 5; i++ {
			Expect(m.Tick()).To(BeFalse())
		}

		Expect(m.Ready()).To(BeFalse())
		Expect(m.Busy()).To(BeFalse())
		Expect(m.NumCancelled).To(Equal(uint64(1)))
		w, _ := m.Word(16)
		Expect(w).To(BeZero())
	})

	It("should reject addresses beyond the capacity", func() {
		small := mainmemory.MakeBuilder().
			WithLineSize(8).
			WithNewStorage(64).
			Build("Small")

		Expect(small.SetWord(64, 1)).To(MatchError(mem.ErrAddressing))
	})

	It("should validate the spec", func() {
		spec := mainmemory.Defaults()
		spec.Latency = 0

		Expect(spec.Validate()).To(MatchError(mem.ErrConfiguration))
	})
})
