package mem

import (
	"errors"
	"fmt"
)

// ErrBeyondCapacity is returned when an access leaves the storage capacity.
var ErrBeyondCapacity = errors.New(
	"accessing physical address beyond the storage capacity")

// A Storage keeps the data of the simulated memory.
//
// The storage manages the data in units, similar to pages in memory
// management. Units that are never touched by Read or Write are not
// allocated, and unallocated bytes read as zero.
type Storage struct {
	unitSize uint64
	capacity uint64
	data     map[uint64][]byte
}

// NewStorage creates a storage object with the specified capacity in bytes.
func NewStorage(capacity uint64) *Storage {
	storage := new(Storage)

	storage.unitSize = 4 * KB
	storage.capacity = capacity
	storage.data = make(map[uint64][]byte)

	return storage
}

// Capacity returns the number of bytes the storage can hold.
func (s *Storage) Capacity() uint64 {
	return s.capacity
}

// NumAllocatedUnits returns how many units have been allocated.
func (s *Storage) NumAllocatedUnits() int {
	return len(s.data)
}

func (s *Storage) unit(address uint64, create bool) ([]byte, error) {
	if address >= s.capacity {
		return nil, fmt.Errorf("%w: 0x%x", ErrBeyondCapacity, address)
	}

	baseAddr, _ := s.parseAddress(address)

	unit, ok := s.data[baseAddr]
	if !ok && create {
		unit = make([]byte, s.unitSize)
		s.data[baseAddr] = unit
	}

	return unit, nil
}

func (s *Storage) parseAddress(addr uint64) (baseAddr, inUnitAddr uint64) {
	inUnitAddr = addr % s.unitSize
	baseAddr = addr - inUnitAddr

	return baseAddr, inUnitAddr
}

func (s *Storage) chunk(currAddr, lenLeft uint64) (inUnitAddr, n uint64) {
	baseAddr, inUnitAddr := s.parseAddress(currAddr)

	n = baseAddr + s.unitSize - currAddr
	if lenLeft < n {
		n = lenLeft
	}

	return inUnitAddr, n
}

// Read returns a copy of length bytes starting at address.
func (s *Storage) Read(address uint64, length uint64) ([]byte, error) {
	res := make([]byte, length)
	offset := uint64(0)

	for offset < length {
		currAddr := address + offset

		unit, err := s.unit(currAddr, false)
		if err != nil {
			return nil, err
		}

		inUnitAddr, n := s.chunk(currAddr, length-offset)
		if unit != nil {
			copy(res[offset:offset+n], unit[inUnitAddr:inUnitAddr+n])
		}

		offset += n
	}

	return res, nil
}

// Write copies data into the storage starting at address.
func (s *Storage) Write(address uint64, data []byte) error {
	length := uint64(len(data))
	offset := uint64(0)

	for offset < length {
		currAddr := address + offset

		unit, err := s.unit(currAddr, true)
		if err != nil {
			return err
		}

		inUnitAddr, n := s.chunk(currAddr, length-offset)
		copy(unit[inUnitAddr:inUnitAddr+n], data[offset:offset+n])

		offset += n
	}

	return nil
}
