package layer

import (
	"github.com/sarchlab/cachesim/mem/cache/internal/tagging"
	"github.com/sarchlab/cachesim/mem/mem"
)

type phase int

const (
	phaseIdle phase = iota
	phaseDeciding
	phaseWaiting
	phaseReady
	phaseFailed
)

func (p phase) String() string {
	return [...]string{"idle", "deciding", "waiting", "ready", "failed"}[p]
}

// state is the per-request runtime data of a layer.
type state struct {
	Phase     phase
	Req       mem.AccessReq
	Loc       tagging.Location
	Hit       bool
	Slot      int
	Remaining uint32
	Committed bool
	Output    uint32

	// Fresh marks the tick in which the request was accepted.
	Fresh bool

	// Idle suppresses the next tick.
	Idle bool
}
