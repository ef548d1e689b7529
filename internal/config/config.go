package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTolerance     = 1e-6
	DefaultMaxIterations = 100
	DefaultProblem       = "allocation"

	ProjectionClamp = "clamp"
	ProjectionFree  = "free"
)

type Config struct {
	Problem       string       `yaml:"problem"`
	Tolerance     float64      `yaml:"tolerance"`
	MaxIterations int          `yaml:"max_iterations"`
	Projection    string       `yaml:"projection"`
	InitState     []float64    `yaml:"init_state"`
	Params        ParamsConfig `yaml:"params"`
}

// ParamsConfig overrides problem coefficients for problems that accept them.
type ParamsConfig map[string]float64

func DefaultConfig() *Config {
	return &Config{
		Problem:       DefaultProblem,
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
		Projection:    ProjectionClamp,
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
	if err := cfg.Validate(); err != nil {
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

func (c *Config) Validate() error {
	if c.Tolerance < 0 {
		return fmt.Errorf("tolerance must not be negative, got %g", c.Tolerance)
	}
	if c.MaxIterations < 0 {
		return fmt.Errorf("max_iterations must not be negative, got %d", c.MaxIterations)
	}
	switch c.Projection {
	case "", ProjectionClamp, ProjectionFree:
	default:
		return fmt.Errorf("projection must be %q or %q, got %q", ProjectionClamp, ProjectionFree, c.Projection)
	}
	return nil
}

// GetInitState returns the configured starting iterate, padded with the
// conventional all-ones start when unset.
func (c *Config) GetInitState(dim int) []float64 {
	if len(c.InitState) == dim {
		x := make([]float64, dim)
		copy(x, c.InitState)
		return x
	}
	x := make([]float64, dim)
	for i := range x {
		x[i] = 1.0
	}
	return x
}
