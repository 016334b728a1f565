package config

// Preset bundles a config with batch-run defaults. Seeds is how many
// consecutive seeds a batch sweeps, Replications how many repeats per
// seed.
type Preset struct {
	Config       Config
	Seeds        int
	Replications int
}

var Presets = map[string]map[string]*Preset{
	"boltzmann": {
		"small": {
			Config: Config{
				Model: "boltzmann", Steps: 125,
				Boltzmann: BoltzmannConfig{N: 100, Width: 10, Height: 10},
			},
			Seeds: 50, Replications: 5,
		},
		"large": {
			Config: Config{
				Model: "boltzmann", Steps: 10,
				Boltzmann: BoltzmannConfig{N: 10000, Width: 100, Height: 100},
			},
			Seeds: 10, Replications: 3,
		},
	},
	"schelling": {
		"small": {
			Config: Config{
				Model: "schelling", Steps: 20,
				Schelling: SchellingConfig{
					Width: 40, Height: 40,
					Density: 0.625, MinorityPC: 0.5, Homophily: 0.4, Radius: 1,
				},
			},
			Seeds: 50, Replications: 5,
		},
		"large": {
			Config: Config{
				Model: "schelling", Steps: 10,
				Schelling: SchellingConfig{
					Width: 100, Height: 100,
					Density: 0.8, MinorityPC: 0.5, Homophily: 1, Radius: 2,
				},
			},
			Seeds: 10, Replications: 3,
		},
	},
}

func GetPreset(model, preset string) *Preset {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	p, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return p
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	return names
}
