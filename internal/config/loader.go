// Package config loads settings from an optional .env file, an optional YAML
// file, TRANSITSIM_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TRANSITSIM_INTERVAL.
const EnvPrefix = "TRANSITSIM"

// DefaultModes are the Freetown transit modes simulated out of the box.
var DefaultModes = []string{"Podapoda", "Keke", "Taxi", "Paratransit Bus", "WAKA FINE Bus", "Motorbike"}

// Defaults adjusts viper defaults for one binary.
type Defaults func(v *viper.Viper)

// SimulatorDefaults places one vehicle on the first route of each mode.
func SimulatorDefaults(v *viper.Viper) {
	v.SetDefault("fleet.strategy", "first")
	v.SetDefault("fleet.per_route", 1)
}

// GeneratorDefaults places two vehicles on every route.
func GeneratorDefaults(v *viper.Viper) {
	v.SetDefault("fleet.strategy", "every")
	v.SetDefault("fleet.per_route", 2)
}

func setCommonDefaults(v *viper.Viper) {
	v.SetDefault("routes_file", "data/routes.geojson")
	v.SetDefault("output_file", "simulator/vehicle_data.json")
	v.SetDefault("vehicles_file", "")
	v.SetDefault("endpoint", "https://freetown-pt-tracker-backend.onrender.com/api/location/update")
	v.SetDefault("deregister_endpoint", "")
	v.SetDefault("interval", 10*time.Second)
	v.SetDefault("request_timeout", 10*time.Second)
	v.SetDefault("shutdown_timeout", 30*time.Second)
	v.SetDefault("drain_ticks", false)
	v.SetDefault("max_in_flight", 0)
	v.SetDefault("seed", 0)
	v.SetDefault("fleet.strategy", "first")
	v.SetDefault("fleet.per_route", 1)
	v.SetDefault("fleet.modes", DefaultModes)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.topic_prefix", "transit/positions")
	v.SetDefault("mqtt.client_id", "transit-simulator")
	v.SetDefault("mqtt.qos", 0)
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "vehicle-positions")
}

// Load reads configuration. configFile may be empty. flags maps config keys
// to command-line flags; only flags the user actually set take effect.
func Load(configFile string, defaults Defaults, flags map[string]*pflag.Flag) (*Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	v := viper.New()
	setCommonDefaults(v)
	if defaults != nil {
		defaults(v)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	for key, flag := range flags {
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("binding flag %s: %w", flag.Name, err)
		}
	}

	var cfg Config
	decoderConfigOption := viper.DecoderConfigOption(func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			dc.DecodeHook,
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err := v.Unmarshal(&cfg, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	cfg.Fleet.Modes = trimAll(cfg.Fleet.Modes)
	cfg.Kafka.Brokers = trimAll(cfg.Kafka.Brokers)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, s := range values {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
