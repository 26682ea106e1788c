// Package pascalconfig describes a run's configuration as a plain JSON
// document, mirroring gofem/inp.Sim's own JSON-unmarshaled simulation
// file (inp/sim.go) rather than introducing a separate config
// library.
package pascalconfig

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hubailmm/pascal/pascalerr"
)

// Config holds the grid size, process-grid shape, and partitioner
// settings for one run of cmd/pascal.
type Config struct {
	// Grid dimensions (spec.md §3's ni, nj).
	Ni int `json:"ni"`
	Nj int `json:"nj"`

	// Process-grid shape; NiProc*NjProc workers are spawned.
	NiProc int `json:"niProc"`
	NjProc int `json:"njProc"`

	// PartitionerPath, when non-empty, is the path to an external
	// partitioner binary (partition.Subprocess); empty selects the
	// pure-Go partition.Greedy fallback.
	PartitionerPath string   `json:"partitionerPath"`
	PartitionerArgs []string `json:"partitionerArgs"`

	// Verbose enables per-stage progress banners.
	Verbose bool `json:"verbose"`
}

// SetDefault fills in the same defaults the original source's
// MPI_Commander constructor assumes implicitly: a single worker.
func (c *Config) SetDefault() {
	if c.NiProc == 0 {
		c.NiProc = 1
	}
	if c.NjProc == 0 {
		c.NjProc = 1
	}
}

// Validate reports a malformed configuration (non-positive grid or
// process-grid dimensions).
func (c *Config) Validate() error {
	if c.Ni <= 0 || c.Nj <= 0 {
		return pascalerr.NewDecompositionError("grid dimensions must be positive, got ni=%d nj=%d", c.Ni, c.Nj)
	}
	if c.NiProc <= 0 || c.NjProc <= 0 {
		return pascalerr.NewDecompositionError("process-grid dimensions must be positive, got niProc=%d njProc=%d", c.NiProc, c.NjProc)
	}
	return nil
}

// Load reads and unmarshals a Config from a JSON file at path,
// applying SetDefault before Validate (mirroring inp.ReadData's
// read-then-postprocess sequence).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pascalconfig: cannot read %q: %w", path, err)
	}
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("pascalconfig: cannot parse %q: %w", path, err)
	}
	c.SetDefault()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
