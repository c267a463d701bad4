package config

// Config represents the complete resmon configuration
type Config struct {
	Run     RunConfig     `yaml:"run"`
	Sensors SensorsConfig `yaml:"sensors"`
	Report  ReportConfig  `yaml:"report"`
	Logging LoggingConfig `yaml:"logging"`
}

// RunConfig represents the sampling run parameters
type RunConfig struct {
	DurationSeconds int `yaml:"duration_seconds"`
	IntervalSeconds int `yaml:"interval_seconds"`
	// MaxSamples bounds the in-memory series; 0 keeps every sample.
	// When set, the oldest samples are evicted and the report loses
	// early history.
	MaxSamples int `yaml:"max_samples"`
}

// SensorsConfig represents optional sensor toggles
type SensorsConfig struct {
	EnableTemperature bool `yaml:"enable_temperature"`
	EnableGPU         bool `yaml:"enable_gpu"`
}

// ReportConfig represents report generation configuration
type ReportConfig struct {
	OutputDir string `yaml:"output_dir"`
	// MaxRawRows caps each half of the raw-data section (first N and
	// last N samples).
	MaxRawRows int `yaml:"max_raw_rows"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	return e.Path + ": " + e.Message
}
