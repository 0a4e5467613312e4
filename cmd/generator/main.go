// Command generator builds the simulated vehicle file from the route dataset.
package main

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ukydev/transit-simulator/internal/config"
	"github.com/ukydev/transit-simulator/internal/fleet"
	"github.com/ukydev/transit-simulator/internal/logging"
	"github.com/ukydev/transit-simulator/internal/routes"
)

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:           "generator",
		Short:         "Generates simulated transit vehicles from a route dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile, config.GeneratorDefaults, flagBindings(cmd.Flags()))
			if err != nil {
				return err
			}
			if err := logging.Setup(log.StandardLogger(), cfg.Log.Level, cfg.Log.Format); err != nil {
				return err
			}
			return generate(cfg, log.StandardLogger(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	cmd.Flags().String("routes", "", "route dataset (GeoJSON FeatureCollection)")
	cmd.Flags().String("output", "", "vehicle file to write")
	cmd.Flags().Int("per-route", 0, "vehicles per route")
	cmd.Flags().String("strategy", "", "route selection: first, all or every")
	cmd.Flags().Int64("seed", 0, "random seed for starting positions (0 = time based)")
	return cmd
}

func flagBindings(fs *pflag.FlagSet) map[string]*pflag.Flag {
	return map[string]*pflag.Flag{
		"routes_file":     fs.Lookup("routes"),
		"output_file":     fs.Lookup("output"),
		"fleet.per_route": fs.Lookup("per-route"),
		"fleet.strategy":  fs.Lookup("strategy"),
		"seed":            fs.Lookup("seed"),
	}
}

func generate(cfg *config.Config, logger *log.Logger, progressOut io.Writer) error {
	features, err := routes.Load(cfg.RoutesFile)
	if err != nil {
		return fmt.Errorf("failed to load routes: %w", err)
	}
	strategy := fleet.Strategy(cfg.Fleet.Strategy)

	bar := progressbar.NewOptions(fleet.Steps(features, cfg.Fleet.Modes, strategy),
		progressbar.OptionSetWriter(progressOut),
		progressbar.OptionSetDescription("Building vehicles"),
		progressbar.OptionClearOnFinish(),
	)

	builder := fleet.NewBuilder(cfg.Fleet.PerRoute, fleet.NewRand(cfg.Seed), logger)
	builder.Progress = func() { _ = bar.Add(1) }

	vehicles, err := builder.Build(features, cfg.Fleet.Modes, strategy)
	if err != nil {
		return err
	}
	_ = bar.Finish()

	if err := fleet.SaveFile(cfg.OutputFile, vehicles); err != nil {
		return fmt.Errorf("failed to write vehicles: %w", err)
	}

	logger.WithFields(log.Fields{
		"vehicles": len(vehicles),
		"routes":   len(features),
		"output":   cfg.OutputFile,
	}).Info("Generated vehicle data")
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.WithError(err).Fatal("Generator failed")
	}
}
