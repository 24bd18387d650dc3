package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the configuration implementation.
type Config struct {
	AppName         string
	RunMode         string
	Host            string
	Port            int
	ShutdownTimeout time.Duration
	MaxInFlight     int
	QueueTimeout    time.Duration
	Upstreams       *Upstreams
	Consul          *Consul
	Observes        *Observes
	Logger          *Logger
	Data            *Data
}

// envBindings maps configuration keys to the plain environment variables
// documented for the service. Every other key is reachable through the
// automatic SECTION_KEY form.
var envBindings = map[string]string{
	"app_name":                    "APP_NAME",
	"run_mode":                    "RUN_MODE",
	"server.host":                 "HOST",
	"server.port":                 "PORT",
	"server.shutdown_timeout":     "SHUTDOWN_TIMEOUT",
	"server.max_in_flight":        "MAX_IN_FLIGHT",
	"upstreams.users.base":        "USERS_BASE",
	"upstreams.users.timeout":     "USERS_TIMEOUT",
	"upstreams.addresses.base":    "ADDRESSES_BASE",
	"upstreams.addresses.timeout": "ADDRESSES_TIMEOUT",
	"logger.level":                "LOG_LEVEL",
	"logger.format":               "LOG_FORMAT",
	"logger.output":               "LOG_OUTPUT",
	"logger.output_file":          "LOG_FILE",
	"data.redis.addr":             "REDIS_ADDR",
	"data.redis.password":         "REDIS_PASSWORD",
	"data.redis.db":               "REDIS_DB",
	"data.redis.ttl":              "REDIS_TTL",
	"consul.address":              "CONSUL_ADDRESS",
	"consul.scheme":               "CONSUL_SCHEME",
	"observes.tracer.endpoint":    "OTEL_ENDPOINT",
	"observes.sentry.endpoint":    "SENTRY_DSN",
}

// Load builds the configuration from the environment and, when configPath is
// not empty, from that file. Environment variables win over file values.
// The returned configuration has been validated.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		AppName:         v.GetString("app_name"),
		RunMode:         v.GetString("run_mode"),
		Host:            v.GetString("server.host"),
		Port:            v.GetInt("server.port"),
		ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		MaxInFlight:     v.GetInt("server.max_in_flight"),
		QueueTimeout:    v.GetDuration("server.queue_timeout"),
		Upstreams:       getUpstreamsConfig(v),
		Consul:          getConsulConfig(v),
		Observes:        getObservesConfig(v),
		Logger:          getLoggerConfig(v),
		Data:            getDataConfig(v),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "composite")
	v.SetDefault("run_mode", "release")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8002)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.max_in_flight", 0)
	v.SetDefault("server.queue_timeout", 500*time.Millisecond)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
}

// Validate ensures required fields are present and consistent.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("server.port (PORT) is invalid: %d", c.Port)
	}
	if c.MaxInFlight < 0 {
		return fmt.Errorf("server.max_in_flight (MAX_IN_FLIGHT) must not be negative: %d", c.MaxInFlight)
	}
	if c.Upstreams == nil {
		return fmt.Errorf("upstreams are not configured")
	}
	for _, u := range []*Upstream{c.Upstreams.Users, c.Upstreams.Addresses} {
		if err := u.validate(c.Consul); err != nil {
			return err
		}
	}
	return c.Observes.validate()
}

// Addr returns host:port for HTTP server binding.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug reports whether the service runs in debug mode.
func (c *Config) IsDebug() bool {
	return c.RunMode == "debug"
}
