package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultWorldSeed = "scrapyard"

// worldConfig captures the knobs used when generating a compound.
type worldConfig struct {
	Seed          string         `yaml:"seed" json:"seed"`
	Width         float64        `yaml:"width" json:"width"`
	Depth         float64        `yaml:"depth" json:"depth"`
	InteriorWalls int            `yaml:"interiorWalls" json:"interiorWalls"`
	Doors         int            `yaml:"doors" json:"doors"`
	Debris        int            `yaml:"debris" json:"debris"`
	Agents        map[string]int `yaml:"agents" json:"agents"`
}

// normalized returns a config with defaults applied.
func (cfg worldConfig) normalized() worldConfig {
	normalized := cfg
	normalized.Seed = strings.TrimSpace(normalized.Seed)
	if normalized.Seed == "" {
		normalized.Seed = defaultWorldSeed
	}
	if normalized.Width <= 0 {
		normalized.Width = defaultWorldWidth
	}
	if normalized.Depth <= 0 {
		normalized.Depth = defaultWorldDepth
	}
	if normalized.InteriorWalls < 0 {
		normalized.InteriorWalls = 0
	}
	if normalized.Doors < 0 {
		normalized.Doors = 0
	}
	if normalized.Debris < 0 {
		normalized.Debris = 0
	}
	if len(normalized.Agents) == 0 {
		normalized.Agents = map[string]int{"sentinel": 3, "skirmisher": 2, "lurker": 1}
	}
	return normalized
}

// defaultWorldConfig describes the stock compound layout.
func defaultWorldConfig() worldConfig {
	return worldConfig{}.normalized()
}

// loadWorldConfig reads a YAML world file. A missing path yields the
// defaults.
func loadWorldConfig(path string) (worldConfig, error) {
	if strings.TrimSpace(path) == "" {
		return defaultWorldConfig(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return worldConfig{}, fmt.Errorf("read world config: %w", err)
	}
	var cfg worldConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return worldConfig{}, fmt.Errorf("parse world config: %w", err)
	}
	return cfg.normalized(), nil
}
