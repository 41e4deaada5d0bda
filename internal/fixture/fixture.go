// Package fixture builds simulated devices and disposable preset roots for
// tests. Fixtures fail the calling test on setup errors and register their
// teardown with Cleanup, so teardown runs even when the test fails.
package fixture

import (
	"os"
	"testing"

	"go.dot.industries/beamsim/internal/attenuator"
	"go.dot.industries/beamsim/internal/preset"
	"go.dot.industries/beamsim/internal/signal"
)

const (
	AttPrefix = "TST:ATT"
	AttName   = "test_att"
)

// AttFilters is the filter count of the fixture attenuator.
const AttFilters = attenuator.MaxFilters - 1

// FakeAttenuator returns a simulated attenuator with every filter OUT and
// filter i (0-based) set to thickness 2*i. The status PVs read
// readback=1, done=0, calcpend=0.
func FakeAttenuator(tb testing.TB) *attenuator.Attenuator {
	tb.Helper()

	att, err := attenuator.New(signal.Sim, AttPrefix, AttFilters, AttName)
	if err != nil {
		tb.Fatalf("attenuator.New() error = %v", err)
	}

	if err := attenuator.SeedSimulated(att); err != nil {
		tb.Fatalf("attenuator.SeedSimulated() error = %v", err)
	}

	return att
}

// SimPut drives a simulated signal's readback. It fails the test if s is not
// simulated.
func SimPut(tb testing.TB, s signal.Signal, value any) {
	tb.Helper()

	sim, ok := s.(signal.Simulated)
	if !ok {
		tb.Fatalf("signal %s is not simulated (%T)", s.Name(), s)
	}
	sim.SimPut(value)
}

// Presets prepares test_presets/{hutch,user} in the test's working directory
// and returns Paths registered to them. On cleanup the registration is reset
// and the tree removed.
func Presets(tb testing.TB) *preset.Paths {
	tb.Helper()

	wd, err := os.Getwd()
	if err != nil {
		tb.Fatalf("os.Getwd() error = %v", err)
	}

	return PresetsIn(tb, wd)
}

// PresetsIn is Presets rooted at base instead of the working directory.
func PresetsIn(tb testing.TB, base string) *preset.Paths {
	tb.Helper()

	roots, err := preset.Prepare(base)
	if err != nil {
		tb.Fatalf("preset.Prepare() error = %v", err)
	}

	paths := &preset.Paths{}
	tb.Cleanup(func() {
		paths.Reset()
		if err := preset.RemoveTree(base); err != nil {
			tb.Errorf("preset teardown: %v", err)
		}
	})

	if err := paths.Register(roots); err != nil {
		tb.Fatalf("Register() error = %v", err)
	}

	return paths
}
