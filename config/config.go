// Package config loads run configurations from YAML files and from
// environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/cachesim/mem/cache/hierarchy"
	"github.com/sarchlab/cachesim/mem/cache/layer"
	"github.com/sarchlab/cachesim/simulation"
)

// File is the content of a configuration file. Fields left out keep the
// value they had before the file is applied.
type File struct {
	Cycles        *uint64  `yaml:"cycles"`
	TraceFile     *string  `yaml:"trace_file"`
	NumLevels     *int     `yaml:"num_cache_levels"`
	LineSize      *uint32  `yaml:"cacheline_size"`
	NumLines      []uint32 `yaml:"num_lines"`
	Latencies     []uint32 `yaml:"latencies"`
	Strategy      *string  `yaml:"mapping_strategy"`
	MemoryLatency *uint32  `yaml:"memory_latency"`
	Verify        *bool    `yaml:"verify"`
}

// Parse decodes a configuration file. Unknown keys are errors.
func Parse(data []byte) (File, error) {
	f := File{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err := dec.Decode(&f)
	if err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("%w: %w", simulation.ErrConfiguration, err)
	}

	return f, nil
}

// LoadFile reads and decodes a configuration file.
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}

	f, err := Parse(data)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}

	return f, nil
}

// Apply overrides the fields of cfg that the file sets.
func (f File) Apply(cfg *simulation.Config) error {
	if len(f.NumLines) > hierarchy.MaxLevels {
		return fmt.Errorf("%w: %d line counts for at most %d levels",
			simulation.ErrConfiguration, len(f.NumLines), hierarchy.MaxLevels)
	}

	if len(f.Latencies) > hierarchy.MaxLevels {
		return fmt.Errorf("%w: %d latencies for at most %d levels",
			simulation.ErrConfiguration, len(f.Latencies), hierarchy.MaxLevels)
	}

	if f.Strategy != nil {
		s, err := layer.ParseStrategy(*f.Strategy)
		if err != nil {
			return err
		}

		cfg.Strategy = s
	}

	set(&cfg.CycleBudget, f.Cycles)
	set(&cfg.TraceFile, f.TraceFile)
	set(&cfg.NumLevels, f.NumLevels)
	set(&cfg.LineSize, f.LineSize)
	set(&cfg.MemoryLatency, f.MemoryLatency)
	set(&cfg.Verify, f.Verify)

	copy(cfg.NumLines[:], f.NumLines)
	copy(cfg.Latencies[:], f.Latencies)

	return nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
