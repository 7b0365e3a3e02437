package simulation

import (
	"github.com/sarchlab/cachesim/mem/cache/hierarchy"
	"github.com/sarchlab/cachesim/mem/mem"
)

// Request is one access of a workload.
type Request struct {
	Address uint32
	Data    uint32
	IsWrite bool

	// Expected is the value a read should return. It is only checked when
	// HasExpected is set and the run verifies reads.
	Expected    uint32
	HasExpected bool
}

// AccessReq returns the request as seen by the memory system.
func (r Request) AccessReq() mem.AccessReq {
	return mem.AccessReq{
		Address: r.Address,
		Data:    r.Data,
		IsWrite: r.IsWrite,
	}
}

// Result summarizes a run.
type Result struct {
	Cycles     uint64
	Hits       uint64
	Misses     uint64
	Mismatches uint64

	// LevelHits counts the requests served by each level, L1 first.
	LevelHits [hierarchy.MaxLevels]uint64

	// AvgLatency is the average number of cycles of a completed request.
	AvgLatency float64
}

// Completed returns the number of requests that finished.
func (r Result) Completed() uint64 {
	return r.Hits + r.Misses
}
