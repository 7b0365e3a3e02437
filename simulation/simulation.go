// Package simulation runs a workload of requests through a cache hierarchy.
package simulation

import (
	"errors"

	"github.com/sarchlab/cachesim/datarecording"
	"github.com/sarchlab/cachesim/mem/cache/hierarchy"
	"github.com/sarchlab/cachesim/monitoring"
	"github.com/sarchlab/cachesim/sim"
	"github.com/sarchlab/cachesim/tracing"
	"github.com/sarchlab/cachesim/tracing/vcd"
)

// RunTableName is the table a recorded simulation writes its result to.
const RunTableName = "runs"

type runEntry struct {
	ID         string
	Levels     int
	Strategy   string
	Requests   uint64
	Cycles     uint64
	Hits       uint64
	Misses     uint64
	Mismatches uint64
	AvgLatency float64
}

// A Simulation owns the engine, the hierarchy and the services attached to
// them.
type Simulation struct {
	id     string
	cfg    Config
	engine *sim.SerialEngine
	cache  *hierarchy.Comp
	runner *runner

	dataRecorder  datarecording.DataRecorder
	ownsRecorder  bool
	monitor       *monitoring.Monitor
	visTracer     *tracing.DBTracer
	waveform      *vcd.Writer
	tagCounter    *tracing.TagCountTracer
	latencyTracer *tracing.TotalAvgTimeTracer

	components    []sim.Named
	compNameIndex map[string]int
}

// ID returns the unique identifier of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() sim.Engine {
	return s.engine
}

// GetCache returns the simulated cache hierarchy.
func (s *Simulation) GetCache() *hierarchy.Comp {
	return s.cache
}

// GetDataRecorder returns the data recorder used in the simulation, if any.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor used in the simulation, if any.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// GetVisTracer returns the tracer that records requests, if any.
func (s *Simulation) GetVisTracer() *tracing.DBTracer {
	return s.visTracer
}

// RegisterComponent registers a component with the simulation.
func (s *Simulation) RegisterComponent(c sim.Named) {
	compName := c.Name()
	if _, found := s.compNameIndex[compName]; found {
		panic("component " + compName + " already registered")
	}

	s.components = append(s.components, c)
	s.compNameIndex[compName] = len(s.components) - 1

	if s.monitor != nil {
		s.monitor.RegisterComponent(c)
	}
}

// GetComponentByName returns the component with the given name, or nil.
func (s *Simulation) GetComponentByName(name string) sim.Named {
	i, found := s.compNameIndex[name]
	if !found {
		return nil
	}

	return s.components[i]
}

// Components returns all the registered components.
func (s *Simulation) Components() []sim.Named {
	return append([]sim.Named(nil), s.components...)
}

// Run processes the requests in order until they are all done, the cycle
// budget is used up, or a request fails. The result holds the statistics
// gathered so far in every case.
func (s *Simulation) Run(requests []Request) (Result, error) {
	s.runner.requests = requests

	if s.monitor != nil {
		bar := s.monitor.CreateProgressBar("Requests", uint64(len(requests)))
		s.runner.progress = bar
		defer s.monitor.CompleteProgressBar(bar)
	}

	s.runner.TickLater()
	err := s.engine.Run()
	s.engine.Finished()

	result := s.runner.result
	for i := range s.cache.Layers {
		result.LevelHits[i] = s.tagCounter.GetTaskCount(hierarchy.HitTag(i + 1))
	}
	result.AvgLatency = s.latencyTracer.AverageTime()

	s.recordResult(uint64(len(requests)), result)

	return result, err
}

func (s *Simulation) recordResult(numRequests uint64, result Result) {
	if s.dataRecorder == nil {
		return
	}

	s.dataRecorder.InsertData(RunTableName, runEntry{
		ID:         s.id,
		Levels:     s.cfg.NumLevels,
		Strategy:   s.cfg.Strategy.String(),
		Requests:   numRequests,
		Cycles:     result.Cycles,
		Hits:       result.Hits,
		Misses:     result.Misses,
		Mismatches: result.Mismatches,
		AvgLatency: result.AvgLatency,
	})
}

// Terminate flushes the outputs of the simulation and closes the files it
// opened.
func (s *Simulation) Terminate() error {
	var errs []error

	if s.visTracer != nil {
		s.visTracer.Terminate()
	} else if s.dataRecorder != nil {
		s.dataRecorder.Flush()
	}

	if s.ownsRecorder {
		errs = append(errs, s.dataRecorder.Close())
	}

	if s.waveform != nil {
		errs = append(errs, s.waveform.Close())
	}

	return errors.Join(errs...)
}

// Run builds a simulation from the configuration, runs the requests and
// terminates it. Configuration errors are returned before any cycle runs.
// Other errors are returned together with the partial result.
func Run(cfg Config, requests []Request, opts ...Option) (Result, error) {
	b := MakeBuilder().WithConfig(cfg)
	for _, opt := range opts {
		b = opt(b)
	}

	s, err := b.Build()
	if err != nil {
		return Result{}, err
	}

	result, err := s.Run(requests)

	return result, errors.Join(err, s.Terminate())
}
