// Command simulator moves transit vehicles along their routes and reports
// each position to the tracking backend on a fixed interval.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ukydev/transit-simulator/internal/config"
	"github.com/ukydev/transit-simulator/internal/fleet"
	"github.com/ukydev/transit-simulator/internal/logging"
	"github.com/ukydev/transit-simulator/internal/models"
	"github.com/ukydev/transit-simulator/internal/reporter"
	"github.com/ukydev/transit-simulator/internal/routes"
	"github.com/ukydev/transit-simulator/internal/simulator"
)

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:           "simulator",
		Short:         "Simulates transit vehicles reporting their positions",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile, config.SimulatorDefaults, flagBindings(cmd.Flags()))
			if err != nil {
				return err
			}
			if err := logging.Setup(log.StandardLogger(), cfg.Log.Level, cfg.Log.Format); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, log.StandardLogger())
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	cmd.Flags().String("routes", "", "route dataset (GeoJSON FeatureCollection)")
	cmd.Flags().String("vehicles", "", "pre-built vehicle file; skips building from routes")
	cmd.Flags().String("endpoint", "", "location update endpoint")
	cmd.Flags().Duration("interval", 0, "time between ticks")
	cmd.Flags().Bool("drain", false, "wait for every report before the next tick")
	cmd.Flags().Int64("seed", 0, "random seed for starting positions (0 = time based)")
	return cmd
}

func flagBindings(fs *pflag.FlagSet) map[string]*pflag.Flag {
	return map[string]*pflag.Flag{
		"routes_file":   fs.Lookup("routes"),
		"vehicles_file": fs.Lookup("vehicles"),
		"endpoint":      fs.Lookup("endpoint"),
		"interval":      fs.Lookup("interval"),
		"drain_ticks":   fs.Lookup("drain"),
		"seed":          fs.Lookup("seed"),
	}
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	vehicles, err := loadVehicles(cfg, logger)
	if err != nil {
		return err
	}

	rep, err := reporter.NewHTTPReporter(cfg.Endpoint, cfg.DeregisterEndpoint, cfg.RequestTimeout)
	if err != nil {
		return err
	}

	mirrors, err := dialMirrors(cfg)
	if err != nil {
		return err
	}
	defer func() {
		for _, m := range mirrors {
			if err := m.Close(); err != nil {
				logger.WithError(err).Warn("Failed to close mirror")
			}
		}
	}()

	opts := simulator.Options{
		Interval:        cfg.Interval,
		DrainTicks:      cfg.DrainTicks,
		MaxInFlight:     cfg.MaxInFlight,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Mirrors:         mirrors,
		Logger:          logger,
	}
	if cfg.DeregisterEndpoint != "" {
		opts.Deregisterer = rep
	}

	logger.WithFields(log.Fields{
		"endpoint": cfg.Endpoint,
		"mirrors":  len(mirrors),
	}).Info("Starting transit simulation")

	return simulator.New(vehicles, rep, opts).Run(ctx)
}

func loadVehicles(cfg *config.Config, logger *log.Logger) ([]*models.Vehicle, error) {
	if cfg.VehiclesFile != "" {
		vehicles, err := fleet.LoadFile(cfg.VehiclesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load vehicles: %w", err)
		}
		logger.WithFields(log.Fields{
			"file":     cfg.VehiclesFile,
			"vehicles": len(vehicles),
		}).Info("Loaded vehicles")
		return vehicles, nil
	}

	features, err := routes.Load(cfg.RoutesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load routes: %w", err)
	}
	builder := fleet.NewBuilder(cfg.Fleet.PerRoute, fleet.NewRand(cfg.Seed), logger)
	return builder.Build(features, cfg.Fleet.Modes, fleet.Strategy(cfg.Fleet.Strategy))
}

func dialMirrors(cfg *config.Config) ([]reporter.Publisher, error) {
	var mirrors []reporter.Publisher

	if cfg.MQTT.Broker != "" {
		p, err := reporter.DialMQTT(cfg.MQTT.Broker, cfg.MQTT.ClientID, cfg.MQTT.TopicPrefix, byte(cfg.MQTT.QoS))
		if err != nil {
			return nil, err
		}
		mirrors = append(mirrors, p)
	}

	if len(cfg.Kafka.Brokers) > 0 {
		p, err := reporter.DialKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			for _, m := range mirrors {
				_ = m.Close()
			}
			return nil, err
		}
		mirrors = append(mirrors, p)
	}

	return mirrors, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.WithError(err).Fatal("Simulator failed")
	}
}
