package config

import (
	"fmt"
	"path/filepath"

	"go.dot.industries/beamsim/internal/preset"
	"go.dot.industries/beamsim/internal/signal"
)

const defaultJobs = 4

// Merge overlays an optional user config on the root config. User preset
// roots replace root ones field by field, and user attenuators replace root
// attenuators with the same name or are appended. Input configs are never
// mutated.
func Merge(root *RootConfig, user *UserConfig) (*MergedConfig, error) {
	if root == nil {
		return nil, fmt.Errorf("root config is required")
	}

	backend := root.Simulation.Backend
	if backend == "" {
		backend = signal.BackendSim
	}

	jobs := root.Simulation.Jobs
	if jobs < 1 {
		jobs = defaultJobs
	}

	return &MergedConfig{
		Backend:     backend,
		Jobs:        jobs,
		Presets:     mergePresets(root.Presets, user),
		Attenuators: mergeAttenuators(root.Attenuators, user),
	}, nil
}

func mergePresets(base PresetConfig, user *UserConfig) PresetConfig {
	if user == nil {
		return base
	}

	if user.Presets.Hutch != "" {
		base.Hutch = user.Presets.Hutch
	}
	if user.Presets.User != "" {
		base.User = user.Presets.User
	}

	return base
}

// mergeAttenuators keeps root order and appends new user entries in their
// own order.
func mergeAttenuators(root []AttenuatorConfig, user *UserConfig) []AttenuatorConfig {
	result := make([]AttenuatorConfig, len(root))
	copy(result, root)

	if user == nil {
		return result
	}

	index := make(map[string]int, len(result))
	for i, a := range result {
		index[a.Name] = i
	}

	for _, a := range user.Attenuators {
		if i, ok := index[a.Name]; ok {
			result[i] = a
			continue
		}
		index[a.Name] = len(result)
		result = append(result, a)
	}

	return result
}

// PresetRoots resolves the configured preset roots against rootDir.
func (m *MergedConfig) PresetRoots(rootDir string) preset.Roots {
	return preset.Roots{
		Hutch: resolvePath(rootDir, m.Presets.Hutch),
		User:  resolvePath(rootDir, m.Presets.User),
	}
}

func resolvePath(rootDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(rootDir, p)
}
