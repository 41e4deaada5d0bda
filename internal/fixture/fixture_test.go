package fixture

import (
	"os"
	"path/filepath"
	"testing"

	"go.dot.industries/beamsim/internal/attenuator"
	"go.dot.industries/beamsim/internal/preset"
	"go.dot.industries/beamsim/internal/signal"
)

func TestFakeAttenuator(t *testing.T) {
	att := FakeAttenuator(t)

	if att.Name() != AttName || att.Prefix() != AttPrefix {
		t.Errorf("identity = (%q, %q), want (%q, %q)", att.Name(), att.Prefix(), AttName, AttPrefix)
	}

	filters := att.Filters()
	if len(filters) != attenuator.MaxFilters-1 {
		t.Fatalf("len(Filters()) = %d, want %d", len(filters), attenuator.MaxFilters-1)
	}

	for i, filt := range filters {
		state, err := filt.StateString()
		if err != nil {
			t.Fatalf("StateString() error = %v", err)
		}
		if state != attenuator.StateOut {
			t.Errorf("filter %d state = %q, want %q", i, state, attenuator.StateOut)
		}

		thick, err := filt.ThicknessValue()
		if err != nil {
			t.Fatalf("ThicknessValue() error = %v", err)
		}
		if thick != float64(2*i) {
			t.Errorf("filter %d thickness = %v, want %v", i, thick, 2*i)
		}
	}
}

func TestFakeAttenuator_StatusSignals(t *testing.T) {
	att := FakeAttenuator(t)

	tests := []struct {
		name string
		sig  signal.Signal
		want any
	}{
		{name: "readback", sig: att.Readback, want: 1},
		{name: "done", sig: att.Done, want: 0},
		{name: "calcpend", sig: att.CalcPend, want: 0},
	}

	for _, tt := range tests {
		got, err := tt.sig.Get()
		if err != nil {
			t.Fatalf("%s Get() error = %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFakeAttenuator_Independent(t *testing.T) {
	a := FakeAttenuator(t)
	b := FakeAttenuator(t)

	fa, _ := a.Filter(1)
	if err := fa.Insert(); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	fb, _ := b.Filter(1)
	in, err := fb.IsInserted()
	if err != nil {
		t.Fatalf("IsInserted() error = %v", err)
	}
	if in {
		t.Error("inserting a filter on one fixture leaked into another")
	}
}

func TestPresets(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("os.Getwd() error = %v", err)
	}
	tree := preset.TreePath(wd)

	var paths *preset.Paths
	t.Run("setup", func(t *testing.T) {
		paths = Presets(t)

		roots, ok := paths.Roots()
		if !ok {
			t.Fatal("Presets() returned unregistered paths")
		}

		for _, dir := range []string{roots.Hutch, roots.User} {
			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatalf("os.ReadDir(%s) error = %v", dir, err)
			}
			if len(entries) != 0 {
				t.Errorf("%s has %d entries, want empty", dir, len(entries))
			}
		}

		if roots.Hutch != filepath.Join(tree, "hutch") {
			t.Errorf("Hutch = %q, want under %q", roots.Hutch, tree)
		}
	})

	if paths.Registered() {
		t.Error("paths still registered after teardown")
	}
	if _, err := os.Stat(tree); !os.IsNotExist(err) {
		t.Errorf("os.Stat(%s) error = %v, want not exist", tree, err)
	}
}

func TestPresets_RepeatedRuns(t *testing.T) {
	base := t.TempDir()

	for i := 0; i < 2; i++ {
		t.Run("run", func(t *testing.T) {
			paths := PresetsIn(t, base)

			hutch, err := paths.Hutch()
			if err != nil {
				t.Fatalf("Hutch() error = %v", err)
			}
			if err := os.WriteFile(filepath.Join(hutch, "saved.yml"), []byte("x"), 0o644); err != nil {
				t.Fatalf("os.WriteFile() error = %v", err)
			}
		})
	}

	if _, err := os.Stat(preset.TreePath(base)); !os.IsNotExist(err) {
		t.Errorf("os.Stat() error = %v, want not exist", err)
	}
}

func TestPresets_StaleTreeFromInterruptedRun(t *testing.T) {
	base := t.TempDir()
	stale := filepath.Join(preset.TreePath(base), "hutch", "old.yml")
	if err := os.MkdirAll(filepath.Dir(stale), 0o755); err != nil {
		t.Fatalf("os.MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(stale, []byte("x"), 0o644); err != nil {
		t.Fatalf("os.WriteFile() error = %v", err)
	}

	paths := PresetsIn(t, base)

	hutch, _ := paths.Hutch()
	entries, err := os.ReadDir(hutch)
	if err != nil {
		t.Fatalf("os.ReadDir() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("hutch has %d entries after setup, want empty", len(entries))
	}
}
