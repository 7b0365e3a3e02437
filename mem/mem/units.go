package mem

// For capacity
const (
	_         = iota
	KB uint64 = 1 << (10 * iota)
	MB
	GB
)

// AddressSpaceSize is the size of the flat 32-bit byte address space.
const AddressSpaceSize = 4 * GB
