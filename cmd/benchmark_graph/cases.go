package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type benchmarkCase struct {
	Name           string  `toml:"name" yaml:"name"`                       // friendly name for the test, should be unique
	Width          int64   `toml:"width" yaml:"width"`                     // width of dependency graph to construct
	TotalLayers    int64   `toml:"total_layers" yaml:"total_layers"`       // depth of dependency graph to construct
	StaticFraction float64 `toml:"static_fraction" yaml:"static_fraction"` // fraction of nodes that are static
	NSources       int64   `toml:"sources" yaml:"sources"`                 // construct a graph with number of sources in each node
	ReadFraction   float64 `toml:"read_fraction" yaml:"read_fraction"`     // fraction of [0, 1] elements in the last layer to read each iteration
	Iterations     int64   `toml:"iterations" yaml:"iterations"`
	ExpectedSum    float64 `toml:"expected_sum" yaml:"expected_sum"` // zero skips the check
}

type caseFile struct {
	Cases []benchmarkCase `toml:"case" yaml:"cases"`
}

var defaultCases = []benchmarkCase{
	{
		Name:           "simple component",
		Width:          10,
		StaticFraction: 1,
		NSources:       2,
		TotalLayers:    5,
		ReadFraction:   0.2,
		Iterations:     600000,
		ExpectedSum:    19199968,
	},
	{
		Name:           "dynamic component",
		Width:          10,
		TotalLayers:    10,
		StaticFraction: 0.75,
		NSources:       6,
		ReadFraction:   0.2,
		Iterations:     15000,
		ExpectedSum:    302310782860,
	},
	{
		Name:           "large web app",
		Width:          1000,
		TotalLayers:    12,
		StaticFraction: 0.95,
		NSources:       4,
		ReadFraction:   1,
		Iterations:     7000,
		ExpectedSum:    29355933696000,
	},
	{
		Name:           "wide dense",
		Width:          1000,
		TotalLayers:    5,
		StaticFraction: 1,
		NSources:       25,
		ReadFraction:   1,
		Iterations:     3000,
		ExpectedSum:    1171484375000,
	},
	{
		Name:           "deep",
		Width:          5,
		TotalLayers:    500,
		StaticFraction: 1,
		NSources:       3,
		ReadFraction:   1,
		Iterations:     500,
	},
	{
		Name:           "very dynamic",
		Width:          100,
		TotalLayers:    15,
		StaticFraction: 0.5,
		NSources:       6,
		ReadFraction:   1,
		Iterations:     2000,
		ExpectedSum:    15664996402790400,
	},
}

// loadCases reads a TOML or YAML case file, chosen by extension.
func loadCases(path string) ([]benchmarkCase, error) {
	var f caseFile
	switch ext := filepath.Ext(path); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, &f); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
	case ".yaml", ".yml":
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &f); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported case file extension %q", ext)
	}

	for i, c := range f.Cases {
		if err := c.validate(); err != nil {
			return nil, fmt.Errorf("case %d: %w", i, err)
		}
	}
	return f.Cases, nil
}

func (c benchmarkCase) validate() error {
	switch {
	case c.Name == "":
		return fmt.Errorf("missing name")
	case c.Width < 1 || c.TotalLayers < 2 || c.NSources < 1 || c.Iterations < 1:
		return fmt.Errorf("%q: width, sources and iterations must be positive and total_layers at least 2", c.Name)
	case c.StaticFraction < 0 || c.StaticFraction > 1 || c.ReadFraction < 0 || c.ReadFraction > 1:
		return fmt.Errorf("%q: fractions must be within [0, 1]", c.Name)
	}
	return nil
}
