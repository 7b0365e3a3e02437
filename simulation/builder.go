package simulation

import (
	"log"

	"github.com/rs/xid"
	"github.com/sarchlab/cachesim/datarecording"
	"github.com/sarchlab/cachesim/mem/cache/hierarchy"
	"github.com/sarchlab/cachesim/monitoring"
	"github.com/sarchlab/cachesim/sim"
	"github.com/sarchlab/cachesim/tracing"
	"github.com/sarchlab/cachesim/tracing/vcd"
)

// Builder can be used to build a simulation.
type Builder struct {
	cfg        Config
	preload    map[uint32]uint32
	recorder   datarecording.DataRecorder
	recordFile string
	record     bool
	monitor    *monitoring.Monitor
	logger     *log.Logger
	hooks      []sim.Hook
}

// An Option customizes the simulation built by Run.
type Option func(b Builder) Builder

// MakeBuilder creates a new builder with the default configuration.
func MakeBuilder() Builder {
	return Builder{cfg: DefaultConfig()}
}

// WithConfig sets the configuration of the run.
func (b Builder) WithConfig(cfg Config) Builder {
	b.cfg = cfg
	return b
}

// WithPreload stores words in the memory before the first request.
func (b Builder) WithPreload(words map[uint32]uint32) Builder {
	b.preload = words
	return b
}

// WithRecorder records the requests and the result into an existing
// recorder. The simulation does not close it.
func (b Builder) WithRecorder(r datarecording.DataRecorder) Builder {
	b.recorder = r
	return b
}

// WithRecordFile records the requests and the result into a new database.
// An empty name picks a unique one.
func (b Builder) WithRecordFile(path string) Builder {
	b.record = true
	b.recordFile = path
	return b
}

// WithMonitor registers the engine and the components with a monitor.
func (b Builder) WithMonitor(m *monitoring.Monitor) Builder {
	b.monitor = m
	return b
}

// WithLogger prints the events and the requests into the logger.
func (b Builder) WithLogger(logger *log.Logger) Builder {
	b.logger = logger
	return b
}

// WithHooks attaches extra hooks to the cache hierarchy.
func (b Builder) WithHooks(hooks ...sim.Hook) Builder {
	b.hooks = append(append([]sim.Hook(nil), b.hooks...), hooks...)
	return b
}

// Build validates the configuration and builds the simulation.
func (b Builder) Build() (*Simulation, error) {
	spec, err := b.cfg.HierarchySpec()
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		id:            xid.New().String(),
		cfg:           b.cfg,
		engine:        sim.NewSerialEngine(),
		monitor:       b.monitor,
		compNameIndex: make(map[string]int),
	}

	s.cache = hierarchy.MakeBuilder().WithSpec(spec).Build("Cache")
	if err := s.cache.Preload(b.preload); err != nil {
		return nil, err
	}

	s.runner = newRunner("Runner", s.engine, s.cache, b.cfg)
	s.runner.logger = b.logger

	s.registerComponents()

	if err := b.attachHooks(s); err != nil {
		return nil, err
	}

	if s.monitor != nil {
		s.monitor.RegisterEngine(s.engine)
	}

	return s, nil
}

func (s *Simulation) registerComponents() {
	s.RegisterComponent(s.runner)
	s.RegisterComponent(s.cache)

	for _, l := range s.cache.Layers {
		s.RegisterComponent(l)
	}

	s.RegisterComponent(s.cache.Memory)
}

func (b Builder) attachHooks(s *Simulation) error {
	s.tagCounter = tracing.NewTagCountTracer(tracing.KindIs("req_in"))
	s.latencyTracer = tracing.NewAverageTimeTracer(tracing.KindIs("req_in"))
	s.cache.AcceptHook(s.tagCounter)
	s.cache.AcceptHook(s.latencyTracer)

	b.attachRecorder(s)

	if b.cfg.TraceFile != "" {
		w, err := vcd.Create(b.cfg.TraceFile)
		if err != nil {
			return err
		}

		s.waveform = w
		s.cache.AcceptHook(w)
	}

	if b.logger != nil {
		s.engine.AcceptHook(sim.NewEventLogger(b.logger))
		s.cache.AcceptHook(hierarchy.NewRequestLogger(b.logger))
	}

	for _, h := range b.hooks {
		s.cache.AcceptHook(h)
	}

	return nil
}

func (b Builder) attachRecorder(s *Simulation) {
	switch {
	case b.recorder != nil:
		s.dataRecorder = b.recorder
	case b.record:
		s.dataRecorder = datarecording.New(b.recordFile)
		s.ownsRecorder = true
	default:
		return
	}

	s.dataRecorder.CreateTable(RunTableName, runEntry{})
	s.visTracer = tracing.NewDBTracer(s.dataRecorder, tracing.KindIs("req_in"))
	s.cache.AcceptHook(s.visTracer)
}

// WithPreload is the Option form of Builder.WithPreload.
func WithPreload(words map[uint32]uint32) Option {
	return func(b Builder) Builder { return b.WithPreload(words) }
}

// WithRecorder is the Option form of Builder.WithRecorder.
func WithRecorder(r datarecording.DataRecorder) Option {
	return func(b Builder) Builder { return b.WithRecorder(r) }
}

// WithRecordFile is the Option form of Builder.WithRecordFile.
func WithRecordFile(path string) Option {
	return func(b Builder) Builder { return b.WithRecordFile(path) }
}

// WithMonitor is the Option form of Builder.WithMonitor.
func WithMonitor(m *monitoring.Monitor) Option {
	return func(b Builder) Builder { return b.WithMonitor(m) }
}

// WithLogger is the Option form of Builder.WithLogger.
func WithLogger(logger *log.Logger) Option {
	return func(b Builder) Builder { return b.WithLogger(logger) }
}

// WithHooks is the Option form of Builder.WithHooks.
func WithHooks(hooks ...sim.Hook) Option {
	return func(b Builder) Builder { return b.WithHooks(hooks...) }
}
