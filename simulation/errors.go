package simulation

import "github.com/sarchlab/cachesim/mem/mem"

// The errors a run can fail with. Use errors.Is to classify them.
var (
	ErrConfiguration = mem.ErrConfiguration
	ErrAddressing    = mem.ErrAddressing
	ErrProtocol      = mem.ErrProtocol
)
