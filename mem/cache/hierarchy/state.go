package hierarchy

import "github.com/sarchlab/cachesim/mem/mem"

const noLevel = -1

type phase int

const (
	phaseIdle phase = iota
	phaseIssued
	phaseInFlight
	phaseDone
	phaseFailed
)

// state is the per-request runtime data of the hierarchy.
type state struct {
	Phase  phase
	Req    mem.AccessReq
	TaskID string

	// Cycle counts the ticks the hierarchy has seen.
	Cycle     uint64
	StartedAt uint64

	// Broadcasting is set during the tick the request is broadcast.
	Broadcasting bool

	HitLevel int
	Miss     bool
	Data     uint32
}
