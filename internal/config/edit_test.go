package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestSetPresetRoots(t *testing.T) {
	tests := []struct {
		name    string
		initial string
	}{
		{
			name: "create presets section when missing",
			initial: `# Shared config
[simulation]
backend = "sim"
`,
		},
		{
			name: "replace existing values",
			initial: `[presets]
# where presets live
hutch = "/old/hutch"
user = "/old/user"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			writeTestFile(t, path, tt.initial)

			if err := SetPresetRoots(path, "/new/hutch", "/new/user"); err != nil {
				t.Fatalf("SetPresetRoots() error = %v", err)
			}

			cfg, err := LoadRootConfig(path)
			if err != nil {
				t.Fatalf("LoadRootConfig() error = %v", err)
			}
			if cfg.Presets.Hutch != "/new/hutch" || cfg.Presets.User != "/new/user" {
				t.Errorf("Presets = %+v, want /new/hutch and /new/user", cfg.Presets)
			}

			content := readTestFile(t, path)
			for _, line := range strings.Split(tt.initial, "\n") {
				if strings.HasPrefix(line, "#") && !strings.Contains(content, line) {
					t.Errorf("comment %q was lost:\n%s", line, content)
				}
			}
		})
	}
}

func TestSetPresetRoots_PartialUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeTestFile(t, path, `[presets]
hutch = "/keep/hutch"
`)

	if err := SetPresetRoots(path, "", "/new/user"); err != nil {
		t.Fatalf("SetPresetRoots() error = %v", err)
	}

	cfg, err := LoadRootConfig(path)
	if err != nil {
		t.Fatalf("LoadRootConfig() error = %v", err)
	}
	if cfg.Presets.Hutch != "/keep/hutch" {
		t.Errorf("Presets.Hutch = %q, want %q", cfg.Presets.Hutch, "/keep/hutch")
	}
	if cfg.Presets.User != "/new/user" {
		t.Errorf("Presets.User = %q, want %q", cfg.Presets.User, "/new/user")
	}
}

func TestClearPresetRoots(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeTestFile(t, path, `[presets]
hutch = "/h"
user = "/u"

[simulation]
backend = "sim"
`)

	if err := ClearPresetRoots(path); err != nil {
		t.Fatalf("ClearPresetRoots() error = %v", err)
	}

	cfg, err := LoadRootConfig(path)
	if err != nil {
		t.Fatalf("LoadRootConfig() error = %v", err)
	}
	if cfg.Presets.Hutch != "" || cfg.Presets.User != "" {
		t.Errorf("Presets = %+v, want empty", cfg.Presets)
	}
	if cfg.Simulation.Backend != "sim" {
		t.Errorf("Simulation.Backend = %q, want %q", cfg.Simulation.Backend, "sim")
	}
}

func TestSetPresetRoots_MissingFile(t *testing.T) {
	if err := SetPresetRoots(filepath.Join(t.TempDir(), "nope.toml"), "/h", "/u"); err == nil {
		t.Fatal("SetPresetRoots() expected error for missing file")
	}
}
