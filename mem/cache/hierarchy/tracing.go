package hierarchy

import (
	"fmt"

	"github.com/sarchlab/cachesim/sim"
)

// Signals is the per-cycle snapshot of the hierarchy's interface, passed to
// hooks at sim.HookPosSignals.
type Signals struct {
	Addr  uint32
	WData uint32
	RData uint32
	Read  bool
	Write bool
	Ready bool
	Miss  bool
}

// Tags attached to every request task when it is resolved.
const (
	TagMiss = "miss"
)

// HitTag returns the tag of a request served by the given 1-based level.
func HitTag(level int) string {
	return fmt.Sprintf("l%d_hit", level)
}

func (c *Comp) hookCtx(pos *sim.HookPos, item any) sim.HookCtx {
	return sim.HookCtx{
		Domain: c,
		Now:    sim.VTimeInCycle(c.state.Cycle),
		Pos:    pos,
		Item:   item,
	}
}

func (c *Comp) traceReqStart() {
	c.state.TaskID = sim.GetIDGenerator().Generate()

	if c.NumHooks() == 0 {
		return
	}

	c.InvokeHook(c.hookCtx(sim.HookPosTaskStart, sim.TaskStart{
		ID:    c.state.TaskID,
		Kind:  "req_in",
		What:  c.state.Req.Kind(),
		Where: c.Name(),
	}))
}

func (c *Comp) tagReq(level int) {
	if c.NumHooks() == 0 {
		return
	}

	what := TagMiss
	if level >= 0 {
		what = HitTag(level + 1)
	}

	c.InvokeHook(c.hookCtx(sim.HookPosTaskTag, sim.TaskTag{
		TaskID: c.state.TaskID,
		What:   what,
		Detail: fmt.Sprintf("0x%08x", c.state.Req.Address),
	}))
}

func (c *Comp) traceReqEnd() {
	if c.NumHooks() == 0 {
		return
	}

	c.InvokeHook(c.hookCtx(sim.HookPosTaskEnd, sim.TaskEnd{
		ID: c.state.TaskID,
	}))
}

func (c *Comp) publishSignals() {
	if c.NumHooks() == 0 {
		return
	}

	inFlight := c.state.Phase == phaseInFlight || c.state.Phase == phaseDone
	ready := c.Ready()

	signals := Signals{
		Addr:  c.state.Req.Address,
		WData: c.state.Req.Data,
		Read:  inFlight && !c.state.Req.IsWrite,
		Write: inFlight && c.state.Req.IsWrite,
		Ready: ready,
		Miss:  ready && c.Miss(),
	}

	if ready {
		signals.RData = c.Data()
	}

	c.InvokeHook(c.hookCtx(sim.HookPosSignals, signals))
}
