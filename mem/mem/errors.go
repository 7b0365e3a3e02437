package mem

import "errors"

// Errors shared by the components of the memory system. Component errors wrap
// one of these, so callers can classify them with errors.Is.
var (
	// ErrConfiguration reports a component that cannot be built as
	// configured.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrAddressing reports an access that does not fit in a cache line.
	ErrAddressing = errors.New("invalid address")

	// ErrProtocol reports a component used out of its handshake order.
	ErrProtocol = errors.New("protocol violation")
)
