package config

import "time"

// FleetConfig controls which routes get vehicles.
type FleetConfig struct {
	Strategy string   `mapstructure:"strategy" validate:"oneof=first all every"`
	PerRoute int      `mapstructure:"per_route" validate:"gte=1"`
	Modes    []string `mapstructure:"modes"`
}

// LogConfig controls logrus output.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn warning error fatal panic"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// MQTTConfig enables the MQTT position mirror when Broker is set.
type MQTTConfig struct {
	Broker      string `mapstructure:"broker" validate:"omitempty,url"`
	TopicPrefix string `mapstructure:"topic_prefix" validate:"required_with=Broker"`
	ClientID    string `mapstructure:"client_id" validate:"required_with=Broker"`
	QoS         int    `mapstructure:"qos" validate:"gte=0,lte=2"`
}

// KafkaConfig enables the Kafka position mirror when Brokers is set.
type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic" validate:"required_with=Brokers"`
}

// Config is shared by the generator and simulator binaries.
type Config struct {
	RoutesFile   string `mapstructure:"routes_file" validate:"required"`
	OutputFile   string `mapstructure:"output_file" validate:"required"`
	VehiclesFile string `mapstructure:"vehicles_file"`

	Endpoint           string        `mapstructure:"endpoint" validate:"required,url"`
	DeregisterEndpoint string        `mapstructure:"deregister_endpoint" validate:"omitempty,url"`
	Interval           time.Duration `mapstructure:"interval" validate:"gt=0"`
	RequestTimeout     time.Duration `mapstructure:"request_timeout" validate:"gte=0"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	DrainTicks         bool          `mapstructure:"drain_ticks"`
	MaxInFlight        int           `mapstructure:"max_in_flight" validate:"gte=0"`
	Seed               int64         `mapstructure:"seed"`

	Fleet FleetConfig `mapstructure:"fleet"`
	Log   LogConfig   `mapstructure:"log"`
	MQTT  MQTTConfig  `mapstructure:"mqtt"`
	Kafka KafkaConfig `mapstructure:"kafka"`
}
