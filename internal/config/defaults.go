package config

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		Run: RunConfig{
			DurationSeconds: 120,
			IntervalSeconds: 1,
			MaxSamples:      0,
		},
		Sensors: SensorsConfig{
			EnableTemperature: true,
			EnableGPU:         true,
		},
		Report: ReportConfig{
			OutputDir:  "reports",
			MaxRawRows: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
