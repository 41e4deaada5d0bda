package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"go.dot.industries/beamsim/internal/config"
)

var (
	flagConfig     string
	flagUserConfig string
	flagBackend    string
	flagVerbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "beamsim",
	Short: "Simulated beamline devices and preset roots",
	Long: `beamsim builds simulated beamline devices (attenuators and their
filter PVs) and manages the hutch and user preset directories that device
tests run against. No hardware is contacted.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to shared beamsim.toml (auto-detected if omitted)")
	rootCmd.PersistentFlags().StringVar(&flagUserConfig, "user-config", "", "path to personal overlay (defaults to the user config dir)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "signal backend (sim, ca); overrides config")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	cobra.OnInitialize(initLogger)
}

func initLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if flagVerbose {
		level = zerolog.DebugLevel
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().Level(level)
}

// configPath returns the shared config path from the flag or by walking up
// from the working directory.
func configPath() (string, error) {
	if flagConfig != "" {
		return flagConfig, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	return config.FindRootConfig(cwd)
}

// loadConfig finds, parses, and merges the shared and personal configs and
// returns the merged config plus the directory of the shared file.
func loadConfig() (*config.MergedConfig, string, error) {
	path, err := configPath()
	if err != nil {
		return nil, "", err
	}

	root, err := config.LoadRootConfig(path)
	if err != nil {
		return nil, "", err
	}
	if err := config.Validate(root); err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}

	userPath := flagUserConfig
	if userPath == "" {
		userPath = config.UserConfigPath()
	}

	user, err := config.LoadUserConfig(userPath)
	if err != nil {
		return nil, "", err
	}

	merged, err := config.Merge(root, user)
	if err != nil {
		return nil, "", err
	}

	if flagBackend != "" {
		merged.Backend = flagBackend
	}

	log.Debug().
		Str("config", path).
		Str("user_config", userPath).
		Bool("user_overlay", user != nil).
		Str("backend", merged.Backend).
		Msg("loaded config")

	return merged, filepath.Dir(path), nil
}
