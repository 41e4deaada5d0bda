package config

import (
	"fmt"

	"go.dot.industries/beamsim/internal/attenuator"
	"go.dot.industries/beamsim/internal/signal"
)

// Validate checks that a RootConfig has valid values.
func Validate(cfg *RootConfig) error {
	if err := validateSimulation(cfg.Simulation); err != nil {
		return fmt.Errorf("simulation config: %w", err)
	}

	if err := validateAttenuators(cfg.Attenuators); err != nil {
		return fmt.Errorf("attenuators config: %w", err)
	}

	return nil
}

// ValidateMerged validates a merged config and checks that any configured
// preset roots exist relative to rootDir.
func ValidateMerged(cfg *MergedConfig, rootDir string) error {
	if err := validateAttenuators(cfg.Attenuators); err != nil {
		return fmt.Errorf("attenuators config: %w", err)
	}

	if cfg.Presets.Hutch == "" && cfg.Presets.User == "" {
		return nil
	}

	if err := cfg.PresetRoots(rootDir).Validate(); err != nil {
		return fmt.Errorf("presets config: %w", err)
	}

	return nil
}

// ValidateUser checks that a UserConfig has valid structure.
func ValidateUser(cfg *UserConfig) error {
	if cfg == nil {
		return fmt.Errorf("user config is nil")
	}
	return validateAttenuators(cfg.Attenuators)
}

func validateSimulation(s SimulationConfig) error {
	if _, err := signal.ForBackend(s.Backend); err != nil {
		return err
	}
	if s.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative")
	}
	return nil
}

func validateAttenuators(atts []AttenuatorConfig) error {
	seen := make(map[string]bool, len(atts))

	for i, a := range atts {
		if a.Name == "" {
			return fmt.Errorf("attenuator %d: name is required", i)
		}
		if seen[a.Name] {
			return fmt.Errorf("attenuator %q: duplicate name", a.Name)
		}
		seen[a.Name] = true

		if a.Prefix == "" {
			return fmt.Errorf("attenuator %q: prefix is required", a.Name)
		}
		if a.Filters < 1 || a.Filters > attenuator.MaxFilters {
			return fmt.Errorf("attenuator %q: filters must be between 1 and %d, got %d", a.Name, attenuator.MaxFilters, a.Filters)
		}
	}

	return nil
}
