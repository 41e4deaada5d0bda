package attenuator

import (
	"fmt"

	"go.dot.industries/beamsim/internal/signal"
)

// SeedSimulated puts a simulated attenuator into its resting state: the
// transmission readback reads 1, no calculation is pending, every filter is
// OUT, and filter i (0-based) is 2*i thick. It fails if a is not backed by
// simulated signals.
func SeedSimulated(a *Attenuator) error {
	for _, s := range []struct {
		sig   signal.Signal
		value any
	}{
		{a.Readback, 1},
		{a.Done, 0},
		{a.CalcPend, 0},
	} {
		sim, ok := s.sig.(signal.Simulated)
		if !ok {
			return fmt.Errorf("seed %s: signal %s is not simulated", a.name, s.sig.Name())
		}
		sim.SimPut(s.value)
	}

	for i, filt := range a.filters {
		if err := filt.Remove(); err != nil {
			return fmt.Errorf("seed %s: %w", a.name, err)
		}
		if err := filt.Thickness.Put(float64(2 * i)); err != nil {
			return fmt.Errorf("seed %s: filter %d thickness: %w", a.name, filt.Number, err)
		}
	}

	return nil
}
