package config

import (
	"fmt"
)

const (
	// MaxDurationSeconds bounds a single run to one day. Guards
	// against accidental or hostile unbounded runs.
	MaxDurationSeconds = 86400
	// MaxIntervalSeconds bounds the sampling cadence to one hour.
	MaxIntervalSeconds = 3600
)

// Validate checks if the configuration is valid
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateRun()...)
	errors = append(errors, c.validateReport()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateRun() []ValidationError {
	var errors []ValidationError

	if c.Run.DurationSeconds <= 0 {
		errors = append(errors, ValidationError{
			Path:    "run.duration_seconds",
			Message: fmt.Sprintf("must be positive, got %d", c.Run.DurationSeconds),
		})
	} else if c.Run.DurationSeconds > MaxDurationSeconds {
		errors = append(errors, ValidationError{
			Path:    "run.duration_seconds",
			Message: fmt.Sprintf("must be at most %d, got %d", MaxDurationSeconds, c.Run.DurationSeconds),
		})
	}

	if c.Run.IntervalSeconds <= 0 {
		errors = append(errors, ValidationError{
			Path:    "run.interval_seconds",
			Message: fmt.Sprintf("must be positive, got %d", c.Run.IntervalSeconds),
		})
	} else if c.Run.IntervalSeconds > MaxIntervalSeconds {
		errors = append(errors, ValidationError{
			Path:    "run.interval_seconds",
			Message: fmt.Sprintf("must be at most %d, got %d", MaxIntervalSeconds, c.Run.IntervalSeconds),
		})
	}

	if c.Run.MaxSamples < 0 {
		errors = append(errors, ValidationError{
			Path:    "run.max_samples",
			Message: fmt.Sprintf("must be non-negative, got %d", c.Run.MaxSamples),
		})
	}

	return errors
}

func (c *Config) validateReport() []ValidationError {
	var errors []ValidationError

	if c.Report.OutputDir == "" {
		errors = append(errors, ValidationError{
			Path:    "report.output_dir",
			Message: "must not be empty",
		})
	}

	if c.Report.MaxRawRows < 0 {
		errors = append(errors, ValidationError{
			Path:    "report.max_raw_rows",
			Message: fmt.Sprintf("must be non-negative, got %d", c.Report.MaxRawRows),
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		errors = append(errors, ValidationError{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got '%s'", validLevels, c.Logging.Level),
		})
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, c.Logging.Format) {
		errors = append(errors, ValidationError{
			Path:    "logging.format",
			Message: fmt.Sprintf("must be one of %v, got '%s'", validFormats, c.Logging.Format),
		})
	}

	return errors
}

// contains checks if a string is in a slice
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
