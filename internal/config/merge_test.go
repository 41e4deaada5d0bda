package config

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.dot.industries/beamsim/internal/preset"
)

func TestMerge_RootOnly(t *testing.T) {
	root := &RootConfig{
		Attenuators: []AttenuatorConfig{{Name: "a", Prefix: "A:ATT", Filters: 3}},
	}

	got, err := Merge(root, nil)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	want := &MergedConfig{
		Backend:     "sim",
		Jobs:        defaultJobs,
		Attenuators: []AttenuatorConfig{{Name: "a", Prefix: "A:ATT", Filters: 3}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_UserOverlay(t *testing.T) {
	root := &RootConfig{
		Simulation: SimulationConfig{Backend: "ca", Jobs: 8},
		Presets:    PresetConfig{Hutch: "/shared/hutch", User: "/shared/user"},
		Attenuators: []AttenuatorConfig{
			{Name: "a", Prefix: "A:ATT", Filters: 3},
			{Name: "b", Prefix: "B:ATT", Filters: 5},
		},
	}
	user := &UserConfig{
		Presets: PresetConfig{User: "/home/op/presets"},
		Attenuators: []AttenuatorConfig{
			{Name: "b", Prefix: "B2:ATT", Filters: 2},
			{Name: "c", Prefix: "C:ATT", Filters: 1},
		},
	}

	got, err := Merge(root, user)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	want := &MergedConfig{
		Backend: "ca",
		Jobs:    8,
		Presets: PresetConfig{Hutch: "/shared/hutch", User: "/home/op/presets"},
		Attenuators: []AttenuatorConfig{
			{Name: "a", Prefix: "A:ATT", Filters: 3},
			{Name: "b", Prefix: "B2:ATT", Filters: 2},
			{Name: "c", Prefix: "C:ATT", Filters: 1},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
	}

	if root.Attenuators[1].Prefix != "B:ATT" {
		t.Error("Merge() mutated root attenuators")
	}
	if root.Presets.User != "/shared/user" {
		t.Error("Merge() mutated root presets")
	}
}

func TestMerge_NilRoot(t *testing.T) {
	if _, err := Merge(nil, nil); err == nil {
		t.Fatal("Merge() expected error for nil root")
	}
}

func TestMergedConfig_PresetRoots(t *testing.T) {
	m := &MergedConfig{Presets: PresetConfig{Hutch: "presets/hutch", User: "/abs/user"}}

	got := m.PresetRoots("/etc/beamsim")
	want := preset.Roots{
		Hutch: filepath.Join("/etc/beamsim", "presets", "hutch"),
		User:  "/abs/user",
	}
	if got != want {
		t.Errorf("PresetRoots() = %+v, want %+v", got, want)
	}
}
