package hierarchy

import (
	"errors"

	"github.com/sarchlab/cachesim/mem/cache/routing"
	"github.com/sarchlab/cachesim/mem/mem"
)

// broadcastMW drives an issued request onto the input muxes.
type broadcastMW struct {
	*Comp
}

func (m *broadcastMW) Tick() bool {
	m.state.Broadcasting = false

	if m.state.Phase != phaseIssued {
		return false
	}

	req := m.state.Req

	m.addrIn.SetRoute(routing.Broadcast())
	m.dataIn.SetRoute(routing.Broadcast())
	m.writeIn.SetRoute(routing.Broadcast())
	m.addrIn.Drive(0, req.Address)
	m.dataIn.Drive(0, req.Data)
	m.writeIn.Drive(0, req.IsWrite)

	for i := 0; i < m.readyOut.Width(); i++ {
		m.readyOut.Drive(i, false)
		m.missOut.Drive(i, false)
	}

	m.readyOut.SetRoute(routing.Broadcast())
	m.readyOut.Settle()

	m.state.Phase = phaseInFlight
	m.state.Broadcasting = true
	m.state.StartedAt = m.state.Cycle
	m.traceReqStart()

	return true
}

// settleMW propagates the inputs and, in a broadcast tick, delivers the
// request to every level and strobes the memory.
type settleMW struct {
	*Comp
}

func (m *settleMW) Tick() bool {
	m.addrIn.Settle()
	m.dataIn.Settle()
	m.writeIn.Settle()

	if !m.state.Broadcasting {
		return false
	}

	for i, l := range m.Layers {
		l.Accept(mem.AccessReq{
			Address: m.addrIn.Output(i),
			Data:    m.dataIn.Output(i),
			IsWrite: m.writeIn.Output(i),
		})
	}

	memPort := len(m.Layers)
	m.Memory.SetInputs(m.addrIn.Output(memPort), m.dataIn.Output(memPort))

	if m.writeIn.Output(memPort) {
		m.Memory.StrobeWrite()
	} else {
		m.Memory.StrobeRead()
	}

	return true
}

type layerMW struct {
	*Comp
}

func (m *layerMW) Tick() bool {
	progress := false
	for _, l := range m.Layers {
		progress = l.Tick() || progress
	}

	return progress
}

type memoryMW struct {
	*Comp
}

func (m *memoryMW) Tick() bool {
	return m.Memory.Tick()
}

// resolveMW decides the outcome of the in-flight request once the levels
// and the memory it depends on are ready.
type resolveMW struct {
	*Comp
}

func (m *resolveMW) Tick() bool {
	if m.state.Phase != phaseInFlight {
		return false
	}

	if err := m.collectErrors(); err != nil {
		m.fail(err)
		return true
	}

	var err error
	if m.state.Req.IsWrite {
		err = m.resolveWrite()
	} else {
		err = m.resolveRead()
	}

	if err != nil {
		m.fail(err)
		return true
	}

	return m.state.Phase == phaseDone
}

func (m *resolveMW) collectErrors() error {
	errs := make([]error, 0)
	for _, l := range m.Layers {
		if err := l.Err(); err != nil {
			errs = append(errs, err)
		}
	}

	if err := m.Memory.Err(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (m *resolveMW) resolveRead() error {
	for i, l := range m.Layers {
		if !l.Ready() {
			return nil
		}

		if l.Hit() {
			return m.serveFromLevel(i)
		}
	}

	if !m.Memory.Ready() {
		return nil
	}

	return m.serveFromMemory()
}

func (m *resolveMW) serveFromLevel(winner int) error {
	if err := m.Layers[winner].Commit(); err != nil {
		return err
	}

	for i, l := range m.Layers {
		if i != winner {
			l.Stop()
		}
	}

	m.Layers[winner].MarkIdle()
	m.Memory.Stop()

	m.finish(winner, false, m.Layers[winner].Data())

	return nil
}

func (m *resolveMW) serveFromMemory() error {
	line := m.Memory.Line()

	for _, l := range m.Layers {
		if err := l.WriteCacheline(m.state.Req.Address, line); err != nil {
			return err
		}
	}

	offset := m.state.Req.Address & (m.Spec.Memory.LineSize - 1)

	word, err := mem.ExtractWord(line, offset)
	if err != nil {
		return errors.Join(mem.ErrAddressing, err)
	}

	m.finish(noLevel, true, word)

	return nil
}

func (m *resolveMW) resolveWrite() error {
	for _, l := range m.Layers {
		if !l.Ready() {
			return nil
		}
	}

	if !m.Memory.Ready() {
		return nil
	}

	winner := noLevel
	line := m.Memory.Line()

	for i, l := range m.Layers {
		if l.Hit() {
			if err := l.Commit(); err != nil {
				return err
			}

			if winner == noLevel {
				winner = i
			}

			continue
		}

		if err := l.WriteCacheline(m.state.Req.Address, line); err != nil {
			return err
		}

		l.Stop()
	}

	m.finish(winner, winner == noLevel, m.state.Req.Data)

	return nil
}

func (m *resolveMW) finish(level int, miss bool, data uint32) {
	source := level
	if level == noLevel {
		source = len(m.Layers)
	}

	m.dataOut.Drive(source, data)
	m.missOut.Drive(source, miss)
	m.readyOut.Drive(source, true)

	m.dataOut.SetRoute(routing.Select(source))
	m.missOut.SetRoute(routing.Select(source))
	m.readyOut.SetRoute(routing.Select(source))
	m.dataOut.Settle()
	m.missOut.Settle()
	m.readyOut.Settle()

	m.state.Phase = phaseDone
	m.state.HitLevel = level
	m.state.Miss = miss
	m.state.Data = data

	m.tagReq(level)
	m.traceReqEnd()
}

func (m *resolveMW) fail(err error) {
	for _, l := range m.Layers {
		l.Stop()
	}

	m.Memory.Stop()

	m.err = err
	m.state.Phase = phaseFailed
	m.traceReqEnd()
}

// signalMW publishes the observable signals of the tick.
type signalMW struct {
	*Comp
}

func (m *signalMW) Tick() bool {
	m.publishSignals()
	return false
}
