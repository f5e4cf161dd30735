package config

import "sort"

// Presets are named starting points for common experiments. "reference" is
// the full five-second run; "quick" keeps the capture geometry but shortens
// the run for interactive use; "taut" stretches the tether close to its
// contour length where the WLC stiffness dominates.
var presets = map[string]func(*Config){
	"reference": func(c *Config) {},
	"quick": func(c *Config) {
		c.Physics.Steps = 100000
	},
	"taut": func(c *Config) {
		c.Physics.Extension = 6.8e-6
	},
	"soft": func(c *Config) {
		c.Physics.TetherStiffness = 6e-5
		c.Physics.Force = 1e-12
	},
}

// GetPreset returns the named preset applied to the default config, or nil
// if the name is unknown.
func GetPreset(name string) *Config {
	apply, ok := presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// ListPresets returns the known preset names, sorted.
func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
