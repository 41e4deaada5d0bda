package config

// RootConfig represents the shared beamsim.toml configuration file.
type RootConfig struct {
	Simulation  SimulationConfig   `toml:"simulation"`
	Presets     PresetConfig       `toml:"presets"`
	Attenuators []AttenuatorConfig `toml:"attenuators"`
}

// SimulationConfig selects how device signals are backed.
type SimulationConfig struct {
	Backend string `toml:"backend"`
	Jobs    int    `toml:"jobs"`
}

// PresetConfig holds the hutch and user preset roots. Relative paths are
// resolved against the directory of the file they were read from.
type PresetConfig struct {
	Hutch string `toml:"hutch"`
	User  string `toml:"user"`
}

// AttenuatorConfig describes one attenuator to build.
type AttenuatorConfig struct {
	Name    string `toml:"name"`
	Prefix  string `toml:"prefix"`
	Filters int    `toml:"filters"`
}

// UserConfig is a personal overlay on top of the shared file. It may redirect
// preset roots and add or override attenuators.
type UserConfig struct {
	Presets     PresetConfig       `toml:"presets"`
	Attenuators []AttenuatorConfig `toml:"attenuators"`
}

// MergedConfig is the fully resolved configuration after overlaying the user
// config on the shared one.
type MergedConfig struct {
	Backend     string
	Jobs        int
	Presets     PresetConfig
	Attenuators []AttenuatorConfig
}
