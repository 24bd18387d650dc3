package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Observes groups the optional observability backends. Each is off while
// its endpoint is empty.
type Observes struct {
	Sentry *Sentry
	Tracer *Tracer
}

// Sentry reports recovered panics. Endpoint is the DSN.
type Sentry struct {
	Endpoint    string  `json:"endpoint"`
	Environment string  `json:"environment"`
	Release     string  `json:"release"` // defaults to the build version
	SampleRate  float64 `json:"sample_rate"`
}

// Tracer exports spans over OTLP gRPC.
type Tracer struct {
	Endpoint       string            `json:"endpoint"`
	Insecure       bool              `json:"insecure"`
	Headers        map[string]string `json:"headers"`
	ServiceName    string            `json:"service_name"`
	ServiceVersion string            `json:"service_version"` // defaults to the build version
	Environment    string            `json:"environment"`
	SamplingRate   float64           `json:"sampling_rate"`

	MaxExportBatchSize int           `json:"max_export_batch_size"`
	BatchTimeout       time.Duration `json:"batch_timeout"`
	ExportTimeout      time.Duration `json:"export_timeout"`
}

func getObservesConfig(v *viper.Viper) *Observes {
	// Both backends report the run mode unless told otherwise.
	env := getStringOrDefault(v, "observes.environment", v.GetString("run_mode"))
	return &Observes{
		Sentry: getSentryConfig(v, env),
		Tracer: getTracerConfig(v, env),
	}
}

func getSentryConfig(v *viper.Viper, env string) *Sentry {
	const p = "observes.sentry."
	return &Sentry{
		Endpoint:    v.GetString(p + "endpoint"),
		Environment: getStringOrDefault(v, p+"environment", env),
		Release:     v.GetString(p + "release"),
		SampleRate:  getFloat64OrDefault(v, p+"sample_rate", 1.0),
	}
}

func getTracerConfig(v *viper.Viper, env string) *Tracer {
	const p = "observes.tracer."
	return &Tracer{
		Endpoint:       v.GetString(p + "endpoint"),
		Insecure:       getBoolOrDefault(v, p+"insecure", true),
		Headers:        v.GetStringMapString(p + "headers"),
		ServiceName:    getStringOrDefault(v, p+"service_name", v.GetString("app_name")),
		ServiceVersion: v.GetString(p + "service_version"),
		Environment:    getStringOrDefault(v, p+"environment", env),
		SamplingRate:   getFloat64OrDefault(v, p+"sampling_rate", 1.0),

		MaxExportBatchSize: getIntOrDefault(v, p+"max_export_batch_size", 512),
		BatchTimeout:       getDurationOrDefault(v, p+"batch_timeout", 5*time.Second),
		ExportTimeout:      getDurationOrDefault(v, p+"export_timeout", 30*time.Second),
	}
}

func (o *Observes) validate() error {
	if o == nil {
		return nil
	}
	if o.Sentry != nil && (o.Sentry.SampleRate < 0 || o.Sentry.SampleRate > 1) {
		return fmt.Errorf("observes.sentry.sample_rate must be within [0, 1]: %v", o.Sentry.SampleRate)
	}
	if o.Tracer != nil && (o.Tracer.SamplingRate < 0 || o.Tracer.SamplingRate > 1) {
		return fmt.Errorf("observes.tracer.sampling_rate must be within [0, 1]: %v", o.Tracer.SamplingRate)
	}
	return nil
}
