package vcd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/mem/cache/hierarchy"
	"github.com/sarchlab/cachesim/sim"
)

func signalsAt(now sim.VTimeInCycle, s hierarchy.Signals) sim.HookCtx {
	return sim.HookCtx{Now: now, Pos: sim.HookPosSignals, Item: s}
}

var _ = Describe("Writer", func() {
	var (
		buf *bytes.Buffer
		w   *Writer
	)

	BeforeEach(func() {
		buf = new(bytes.Buffer)
		w = NewWriter(buf)
	})

	It("should declare every signal once", func() {
		w.Func(signalsAt(1, hierarchy.Signals{}))
		Expect(w.Flush()).To(Succeed())

		out := buf.String()
		Expect(out).To(ContainSubstring("$scope module cachesim $end"))
		Expect(out).To(ContainSubstring("$var wire 1 ! clk $end"))
		Expect(out).To(ContainSubstring("$var wire 32 # addr $end"))
		Expect(out).To(ContainSubstring("$var wire 1 ) miss $end"))
		Expect(strings.Count(out, "$enddefinitions")).To(Equal(1))
		Expect(out).To(ContainSubstring("$dumpvars"))
	})

	It("should only write the values that changed", func() {
		w.Func(signalsAt(1, hierarchy.Signals{Addr: 4, Read: true}))
		w.Func(signalsAt(2, hierarchy.Signals{Addr: 4, Read: true}))
		w.Func(signalsAt(3, hierarchy.Signals{
			Addr: 4, Read: true, Ready: true, RData: 0xB1,
		}))
		Expect(w.Flush()).To(Succeed())

		out := buf.String()
		Expect(strings.Count(out, "b100 #")).To(Equal(1))
		Expect(strings.Count(out, "1&")).To(Equal(1))
		Expect(out).To(ContainSubstring("#4\n1!\n#5\n0!\n"))
		Expect(out).To(ContainSubstring("#6\n1!\nb10110001 %\n1(\n#7\n0!\n"))
	})

	It("should ignore other hook positions", func() {
		w.Func(sim.HookCtx{Pos: sim.HookPosTaskStart, Item: sim.TaskStart{}})
		Expect(w.Flush()).To(Succeed())

		Expect(buf.Len()).To(BeZero())
	})

	It("should create a file with the vcd extension", func() {
		path := filepath.Join(GinkgoT().TempDir(), "trace")

		fw, err := Create(path)
		Expect(err).ToNot(HaveOccurred())
		Expect(fw.Filename()).To(Equal(path + ".vcd"))

		fw.Func(signalsAt(1, hierarchy.Signals{Write: true}))
		Expect(fw.Close()).To(Succeed())
		Expect(fw.Close()).To(Succeed())

		content, err := os.ReadFile(path + ".vcd")
		Expect(err).ToNot(HaveOccurred())
		Expect(string(content)).To(ContainSubstring("1'"))
	})
})
