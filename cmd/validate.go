package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"go.dot.industries/beamsim/internal/config"
	"go.dot.industries/beamsim/internal/signal"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate beamsim.toml and the personal overlay",
	Long: `Checks the shared beamsim.toml and the personal overlay for structural
validity. Reports unknown backends, bad attenuator definitions, and preset
roots that don't exist on disk.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	merged, rootDir, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if _, err := signal.ForBackend(merged.Backend); err != nil {
		return err
	}

	if err := config.ValidateMerged(merged, rootDir); err != nil {
		return err
	}

	log.Debug().Str("root", rootDir).Msg("config valid")
	fmt.Printf("beamsim.toml: valid (%d attenuator(s), backend %s)\n", len(merged.Attenuators), merged.Backend)

	return nil
}
