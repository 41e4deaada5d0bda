package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"go.dot.industries/beamsim/internal/attenuator"
	"go.dot.industries/beamsim/internal/config"
	"go.dot.industries/beamsim/internal/signal"
)

var flagJobs int

func init() {
	attCmd.Flags().IntVarP(&flagJobs, "jobs", "j", 0, "maximum attenuators built at once (overrides config)")
	rootCmd.AddCommand(attCmd)
}

var attCmd = &cobra.Command{
	Use:   "att",
	Short: "Build the configured attenuators and print their filters",
	Long: `Builds every attenuator listed in beamsim.toml with the configured
signal backend. With the sim backend each device is seeded to its resting
state (all filters OUT, filter i at thickness 2*i) before its filter table
is printed.`,
	Args: cobra.NoArgs,
	RunE: runAtt,
}

func runAtt(cmd *cobra.Command, args []string) error {
	merged, _, err := loadConfig()
	if err != nil {
		return err
	}

	factory, err := signal.ForBackend(merged.Backend)
	if err != nil {
		return err
	}

	var seed func(*attenuator.Attenuator) error
	if merged.Backend == signal.BackendSim {
		seed = attenuator.SeedSimulated
	}

	jobs := merged.Jobs
	if flagJobs > 0 {
		jobs = flagJobs
	}

	atts, err := attenuator.BuildAll(
		context.Background(),
		factory,
		attenuatorSpecs(merged.Attenuators),
		jobs,
		seed,
		attenuator.WithLogger(log.Logger),
	)
	if err != nil {
		return err
	}

	log.Debug().Int("attenuators", len(atts)).Int("jobs", jobs).Msg("built attenuators")

	for _, att := range atts {
		if err := printAttenuator(att); err != nil {
			return err
		}
	}

	return nil
}

func attenuatorSpecs(cfgs []config.AttenuatorConfig) []attenuator.Spec {
	specs := make([]attenuator.Spec, 0, len(cfgs))
	for _, c := range cfgs {
		specs = append(specs, attenuator.Spec{
			Name:    c.Name,
			Prefix:  c.Prefix,
			Filters: c.Filters,
		})
	}
	return specs
}

func printAttenuator(att *attenuator.Attenuator) error {
	snap, err := att.Snapshot()
	if err != nil {
		return fmt.Errorf("reading %s: %w", att.Name(), err)
	}

	fmt.Printf("%s (%s)\n", att.Name(), att.Prefix())
	for _, f := range snap {
		fmt.Printf("  filter %-2d  %-7s  %g\n", f.Number, f.State, f.Thickness)
	}
	fmt.Println()

	return nil
}
