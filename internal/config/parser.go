package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileName is the name of the shared configuration file.
const FileName = "beamsim.toml"

// UserConfigPath returns the path of the personal overlay
// (~/.config/beamsim/beamsim.toml).
var UserConfigPath = func() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join("~", ".config", "beamsim", FileName)
	}
	return filepath.Join(dir, "beamsim", FileName)
}

// ErrNotFound is returned by FindRootConfig when no beamsim.toml exists in
// the start directory or any of its parents.
var ErrNotFound = errors.New("config not found")

// LoadRootConfig parses a shared beamsim.toml file at the given path. Keys
// the file does not know about are rejected so a typo in a PV prefix or
// preset root never goes unnoticed.
func LoadRootConfig(path string) (*RootConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading root config %s: %w", path, err)
	}

	var cfg RootConfig
	if err := decodeStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing root config %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadUserConfig parses a personal overlay file. A missing file yields a nil
// config and no error.
func LoadUserConfig(path string) (*UserConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading user config %s: %w", path, err)
	}

	var cfg UserConfig
	if err := decodeStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing user config %s: %w", path, err)
	}

	return &cfg, nil
}

func decodeStrict(data []byte, v any) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	err := dec.Decode(v)

	var strict *toml.StrictMissingError
	if errors.As(err, &strict) {
		return fmt.Errorf("unknown keys:\n%s", strict.String())
	}
	return err
}

// FindRootConfig walks up from startDir to the nearest directory holding a
// beamsim.toml regular file and returns its absolute path. A directory named
// beamsim.toml is skipped.
func FindRootConfig(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving absolute path for %s: %w", startDir, err)
	}

	for d := dir; ; d = filepath.Dir(d) {
		candidate := filepath.Join(d, FileName)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, nil
		}
		if filepath.Dir(d) == d {
			break
		}
	}

	return "", fmt.Errorf("%w: no %s in %s or any parent directory", ErrNotFound, FileName, dir)
}
