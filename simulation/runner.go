package simulation

import (
	"fmt"
	"log"

	"github.com/sarchlab/cachesim/mem/cache/hierarchy"
	"github.com/sarchlab/cachesim/monitoring"
	"github.com/sarchlab/cachesim/sim"
)

// runner feeds the requests to the hierarchy one after another, one cycle
// per tick, and counts the outcome of each request.
type runner struct {
	*sim.TickingComponent

	cache  *hierarchy.Comp
	budget uint64
	verify bool
	logger *log.Logger

	requests []Request
	next     int
	inFlight bool

	progress *monitoring.ProgressBar
	result   Result
	err      error
}

func newRunner(
	name string,
	engine sim.Engine,
	cache *hierarchy.Comp,
	cfg Config,
) *runner {
	r := &runner{
		cache:  cache,
		budget: cfg.CycleBudget,
		verify: cfg.Verify,
	}
	r.TickingComponent = sim.NewTickingComponent(name, engine, r)

	return r
}

// Err returns the error of the request that stopped the run.
func (r *runner) Err() error {
	return r.err
}

// Tick runs one cycle of the current request, issuing the next request if
// none is in flight.
func (r *runner) Tick() bool {
	if r.err != nil || r.finished() {
		return false
	}

	if r.result.Cycles >= r.budget {
		return false
	}

	if !r.inFlight {
		r.issue()
	}

	r.result.Cycles++
	r.cache.Tick()

	if err := r.cache.Err(); err != nil {
		r.err = fmt.Errorf("request %d (%s): %w",
			r.next, r.requests[r.next].AccessReq(), err)
		return false
	}

	if r.cache.Ready() {
		r.complete()
	}

	return true
}

func (r *runner) finished() bool {
	return r.next >= len(r.requests)
}

func (r *runner) issue() {
	r.cache.Issue(r.requests[r.next].AccessReq())
	r.inFlight = true

	if r.progress != nil {
		r.progress.IncrementInProgress(1)
	}
}

func (r *runner) complete() {
	req := r.requests[r.next]

	if r.cache.Miss() {
		r.result.Misses++
	} else {
		r.result.Hits++
	}

	if r.verify && req.HasExpected && !req.IsWrite &&
		r.cache.Data() != req.Expected {
		r.result.Mismatches++

		if r.logger != nil {
			r.logger.Printf("%d, %s, request %d read 0x%08x, expected 0x%08x",
				r.result.Cycles, r.Name(), r.next, r.cache.Data(), req.Expected)
		}
	}

	if r.progress != nil {
		r.progress.MoveInProgressToFinished(1)
	}

	r.inFlight = false
	r.next++
}
