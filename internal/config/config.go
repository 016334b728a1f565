package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/agentlab/internal/params"
)

const (
	DefaultSteps     = 125
	DefaultFrameRate = 30
	DefaultN         = 100
	DefaultWidth     = 10
	DefaultHeight    = 10
)

type Config struct {
	Model     string          `yaml:"model"`
	Steps     int             `yaml:"steps"`
	Seed      int64           `yaml:"seed"`
	FrameRate int             `yaml:"fps"`
	Boltzmann BoltzmannConfig `yaml:"boltzmann"`
	Schelling SchellingConfig `yaml:"schelling"`
}

type BoltzmannConfig struct {
	N      int `yaml:"n"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type SchellingConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Density    float64 `yaml:"density"`
	MinorityPC float64 `yaml:"minority_pc"`
	Homophily  float64 `yaml:"homophily"`
	Radius     int     `yaml:"radius"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:     "boltzmann",
		Steps:     DefaultSteps,
		FrameRate: DefaultFrameRate,
		Boltzmann: BoltzmannConfig{
			N:      DefaultN,
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
		Schelling: SchellingConfig{
			Width:      40,
			Height:     40,
			Density:    0.625,
			MinorityPC: 0.5,
			Homophily:  0.4,
			Radius:     1,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyTo pushes the config's per-model values into a parameter set.
// Config files are trusted, so values are not clamped to the
// interactive slider ranges (the large benchmark presets exceed them).
func (c *Config) ApplyTo(p params.Set) {
	switch c.Model {
	case "schelling":
		_ = p.Put("width", float64(c.Schelling.Width))
		_ = p.Put("height", float64(c.Schelling.Height))
		_ = p.Put("density", c.Schelling.Density)
		_ = p.Put("minority_pc", c.Schelling.MinorityPC)
		_ = p.Put("homophily", c.Schelling.Homophily)
		_ = p.Put("radius", float64(c.Schelling.Radius))
	default:
		_ = p.Put("n", float64(c.Boltzmann.N))
		_ = p.Put("width", float64(c.Boltzmann.Width))
		_ = p.Put("height", float64(c.Boltzmann.Height))
	}
}
