package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"go.dot.industries/beamsim/internal/config"
	"go.dot.industries/beamsim/internal/harness"
	"go.dot.industries/beamsim/internal/preset"
)

var (
	flagPresetDir string
	flagHutch     string
	flagUser      string
)

func init() {
	presetsCmd.PersistentFlags().StringVar(&flagPresetDir, "dir", "", "directory holding the test_presets tree (defaults to cwd)")

	presetsRegisterCmd.Flags().StringVar(&flagHutch, "hutch", "", "hutch preset root")
	presetsRegisterCmd.Flags().StringVar(&flagUser, "user", "", "user preset root")

	presetsCmd.AddCommand(presetsInitCmd, presetsCleanCmd, presetsRegisterCmd, presetsShowCmd, presetsRunCmd)
	rootCmd.AddCommand(presetsCmd)
}

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Manage hutch and user preset roots",
}

var presetsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a fresh test_presets/{hutch,user} tree",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := presetBase()
		if err != nil {
			return err
		}

		roots, err := preset.Prepare(base, preset.WithLogger(log.Logger))
		if err != nil {
			return err
		}

		fmt.Printf("hutch: %s\nuser:  %s\n", roots.Hutch, roots.User)
		return nil
	},
}

var presetsCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the test_presets tree",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := presetBase()
		if err != nil {
			return err
		}

		return preset.RemoveTree(base, preset.WithLogger(log.Logger))
	},
}

var presetsRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Write preset roots into beamsim.toml",
	Long: `Validates the given hutch and user roots and records them under
[presets] in the shared beamsim.toml, keeping comments and layout intact.
With neither flag set, the roots are removed from the file.`,
	Args: cobra.NoArgs,
	RunE: runPresetsRegister,
}

var presetsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the preset roots in effect",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		merged, rootDir, err := loadConfig()
		if err != nil {
			return err
		}

		paths := &preset.Paths{}
		if err := paths.Register(merged.PresetRoots(rootDir)); err != nil {
			return err
		}

		hutch, _ := paths.Hutch()
		user, _ := paths.User()
		fmt.Printf("hutch: %s\nuser:  %s\n", hutch, user)
		return nil
	},
}

var presetsRunCmd = &cobra.Command{
	Use:   "run -- <command> [args...]",
	Short: "Run a command against a fresh preset tree",
	Long: `Prepares test_presets/{hutch,user}, exports the roots as
BEAMSIM_HUTCH_PRESETS and BEAMSIM_USER_PRESETS, runs the command, and removes
the tree when the command exits, whether it passed or not.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPresetsRun,
}

func runPresetsRun(cmd *cobra.Command, args []string) error {
	base, err := presetBase()
	if err != nil {
		return err
	}

	r := harness.New(base, harness.WithLogger(log.Logger))
	if err := r.Run(context.Background(), args); err != nil {
		if code := harness.ExitCode(err); code != 1 {
			if errors.Is(err, harness.ErrTeardown) {
				log.Error().Err(err).Msg("presets run")
			}
			os.Exit(code)
		}
		return err
	}

	return nil
}

func runPresetsRegister(cmd *cobra.Command, args []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	if flagHutch == "" && flagUser == "" {
		if err := config.ClearPresetRoots(path); err != nil {
			return err
		}
		log.Info().Str("config", path).Msg("preset roots cleared")
		return nil
	}

	if flagHutch == "" || flagUser == "" {
		return fmt.Errorf("both --hutch and --user are required")
	}

	roots := preset.Roots{Hutch: absPath(flagHutch), User: absPath(flagUser)}
	if err := roots.Validate(); err != nil {
		return err
	}

	if err := config.SetPresetRoots(path, roots.Hutch, roots.User); err != nil {
		return err
	}

	log.Info().Str("config", path).Str("hutch", roots.Hutch).Str("user", roots.User).Msg("preset roots registered")
	return nil
}

func presetBase() (string, error) {
	if flagPresetDir != "" {
		return flagPresetDir, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return cwd, nil
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
