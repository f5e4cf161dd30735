package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/beadsim/internal/physics"
	"github.com/san-kum/beadsim/internal/spectral"
)

// Config is the on-disk run description: the physical parameter set plus
// run seed and analyzer options.
type Config struct {
	Physics physics.Parameters `yaml:"physics"`
	Seed    uint64             `yaml:"seed"`
	Window  string             `yaml:"window"`  // "rect" or "hann"
	Detrend bool               `yaml:"detrend"` // subtract mean before the PSD
}

// DefaultConfig mirrors the reference magnetic-tweezers configuration.
func DefaultConfig() *Config {
	return &Config{
		Physics: physics.Default(),
		Seed:    1,
		Window:  "rect",
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

// SpectralOptions resolves the analyzer options named in the config.
func (c *Config) SpectralOptions() (spectral.Options, error) {
	w, err := spectral.ParseWindow(c.Window)
	if err != nil {
		return spectral.Options{}, err
	}
	return spectral.Options{Window: w, Detrend: c.Detrend}, nil
}
