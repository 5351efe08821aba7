package telemetry

import "fmt"

// Config holds the observability settings for the server: structured
// logging, Prometheus metrics, and OpenTelemetry tracing.
type Config struct {
	// ServiceName identifies this service in traces and metrics.
	ServiceName string `yaml:"service_name" validate:"required"`

	// ServiceVersion is the running build version.
	ServiceVersion string `yaml:"service_version"`

	// Environment names the deployment environment (development, production).
	Environment string `yaml:"environment"`

	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig controls the zerolog logger.
type LoggingConfig struct {
	// Level is the minimum level to emit: trace, debug, info, warn, error.
	Level string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic"`

	// Format selects the output encoding: json or console.
	Format string `yaml:"format" validate:"omitempty,oneof=json console"`

	// EnableCaller adds the file:line of the call site to each entry.
	EnableCaller bool `yaml:"enable_caller"`
}

// MetricsConfig controls the Prometheus metrics endpoint.
type MetricsConfig struct {
	// Enabled turns metric collection on. When false every Metrics method
	// is a no-op.
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the host:port the metrics HTTP server binds to.
	ListenAddress string `yaml:"listen_address" validate:"omitempty,hostname_port"`

	// Path is the HTTP path the exposition endpoint is served on.
	Path string `yaml:"path"`

	// Namespace prefixes every metric name.
	Namespace string `yaml:"namespace"`
}

// TracingConfig controls OpenTelemetry tracing.
type TracingConfig struct {
	// Enabled turns span creation on.
	Enabled bool `yaml:"enabled"`

	// Exporter selects where spans go: stdout or none.
	Exporter string `yaml:"exporter" validate:"omitempty,oneof=stdout none"`

	// SampleRate is the fraction of traces to sample, 0.0 to 1.0.
	SampleRate float64 `yaml:"sample_rate" validate:"gte=0,lte=1"`
}

// DefaultConfig returns a Config suitable for local development: console
// logging at info, metrics and tracing disabled.
func DefaultConfig(serviceName, serviceVersion string) Config {
	return Config{
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
		Environment:    "development",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Metrics: MetricsConfig{
			Enabled:       false,
			ListenAddress: "localhost:9090",
			Path:          "/metrics",
			Namespace:     "quotevault",
		},
		Tracing: TracingConfig{
			Enabled:    false,
			Exporter:   "stdout",
			SampleRate: 1.0,
		},
	}
}

// Validate checks the configuration for values the constructors would
// reject later.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}
	if c.Tracing.Enabled && c.Tracing.Exporter == "" {
		return fmt.Errorf("tracing.exporter is required when tracing is enabled")
	}
	if c.Metrics.Enabled && c.Metrics.ListenAddress == "" {
		return fmt.Errorf("metrics.listen_address is required when metrics are enabled")
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %f", c.Tracing.SampleRate)
	}
	return nil
}
