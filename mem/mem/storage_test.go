package mem_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachesim/mem/mem"
)

var _ = Describe("Storage", func() {
	It("should read and write in single unit", func() {
		storage := mem.NewStorage(4096)
		Expect(storage.Write(0, []byte{1, 2, 3, 4})).To(Succeed())

		res, err := storage.Read(0, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(Equal([]byte{1, 2}))

		res, _ = storage.Read(1, 2)
		Expect(res).To(Equal([]byte{2, 3}))
	})

	It("should read and write across units", func() {
		storage := mem.NewStorage(8192)
		Expect(storage.Write(4094, []byte{1, 2, 3, 4})).To(Succeed())

		res, _ := storage.Read(4094, 4)
		Expect(res).To(Equal([]byte{1, 2, 3, 4}))
		Expect(storage.NumAllocatedUnits()).To(Equal(2))
	})

	It("should read zeros without allocating", func() {
		storage := mem.NewStorage(mem.AddressSpaceSize)

		res, err := storage.Read(0xFFFFFFC0, 64)

		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(Equal(make([]byte, 64)))
		Expect(storage.NumAllocatedUnits()).To(Equal(0))
	})

	It("should return error if accessing over the capacity", func() {
		storage := mem.NewStorage(4096)

		err := storage.Write(4097, []byte{1})
		Expect(err).To(MatchError(mem.ErrBeyondCapacity))

		_, err = storage.Read(4095, 2)
		Expect(err).To(MatchError(mem.ErrBeyondCapacity))
	})
})

var _ = Describe("Word helpers", func() {
	It("should extract little-endian words", func() {
		line := []byte{0xA4, 0xA3, 0xA2, 0xA1, 0xB4, 0xB3, 0xB2, 0xB1}

		w, err := mem.ExtractWord(line, 4)

		Expect(err).NotTo(HaveOccurred())
		Expect(w).To(Equal(uint32(0xB1B2B3B4)))
	})

	It("should splice words", func() {
		line := make([]byte, 8)

		Expect(mem.SpliceWord(line, 0, 0xA1A2A3A4)).To(Succeed())
		Expect(line).To(Equal([]byte{0xA4, 0xA3, 0xA2, 0xA1, 0, 0, 0, 0}))
	})

	It("should reject words crossing the line", func() {
		line := make([]byte, 8)

		_, err := mem.ExtractWord(line, 5)
		Expect(err).To(MatchError(mem.ErrWordCrossesLine))
		Expect(mem.SpliceWord(line, 6, 1)).To(MatchError(mem.ErrWordCrossesLine))
	})

	DescribeTable("power of two helpers",
		func(n uint32, isPow bool, log uint32) {
			Expect(mem.IsPowerOfTwo(n)).To(Equal(isPow))
			if isPow {
				Expect(mem.Log2(n)).To(Equal(log))
			}
		},
		Entry("zero", uint32(0), false, uint32(0)),
		Entry("one", uint32(1), true, uint32(0)),
		Entry("sixty-four", uint32(64), true, uint32(6)),
		Entry("twelve", uint32(12), false, uint32(0)),
	)

	It("should align to the line base", func() {
		Expect(mem.LineBase(0x1237, 64)).To(Equal(uint32(0x1200)))
	})
})
