package mem

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// WordSize is the number of bytes a single access moves.
const WordSize = 4

// ErrWordCrossesLine is returned when a word does not fit in the line at the
// given offset.
var ErrWordCrossesLine = errors.New("word crosses the cache line boundary")

// ExtractWord reads the little-endian word at offset within line.
func ExtractWord(line []byte, offset uint32) (uint32, error) {
	if err := checkWordFits(line, offset); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(line[offset:]), nil
}

// SpliceWord overwrites the 4 bytes at offset within line with the
// little-endian encoding of word.
func SpliceWord(line []byte, offset uint32, word uint32) error {
	if err := checkWordFits(line, offset); err != nil {
		return err
	}

	binary.LittleEndian.PutUint32(line[offset:], word)

	return nil
}

func checkWordFits(line []byte, offset uint32) error {
	if uint64(offset)+WordSize > uint64(len(line)) {
		return fmt.Errorf("%w: offset %d, line size %d",
			ErrWordCrossesLine, offset, len(line))
	}

	return nil
}

// LineBase returns the address of the first byte of the line that holds
// addr. lineSize must be a power of two.
func LineBase(addr uint32, lineSize uint32) uint32 {
	return addr &^ (lineSize - 1)
}

// IsPowerOfTwo tells if n is a non-zero power of two.
func IsPowerOfTwo(n uint32) bool {
	return n != 0 && n&(n-1) == 0
}

// Log2 returns the base-2 logarithm of a power of two.
func Log2(n uint32) uint32 {
	bits := uint32(0)
	for n > 1 {
		n >>= 1
		bits++
	}

	return bits
}
