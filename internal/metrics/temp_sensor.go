package metrics

import (
	"context"
	"strings"

	"github.com/shirou/gopsutil/v4/sensors"

	"resmon/internal/logging"
)

// preferredTempKeys are checked in order before falling back to the
// first reported sensor.
var preferredTempKeys = []string{"coretemp", "cpu_thermal"}

// tempReadFunc matches the gopsutil temperature read so tests can
// substitute a fake.
type tempReadFunc func(ctx context.Context) ([]sensors.TemperatureStat, error)

// TempSensor reads the CPU temperature through the OS sensor facility.
// Availability is probed once at construction; an unavailable sensor
// answers nil immediately without attempting I/O.
type TempSensor struct {
	logger    *logging.Logger
	read      tempReadFunc
	available bool
}

// NewTempSensor creates a temperature sensor and probes availability.
func NewTempSensor(logger *logging.Logger) *TempSensor {
	return newTempSensor(logger, sensors.TemperaturesWithContext)
}

func newTempSensor(logger *logging.Logger, read tempReadFunc) *TempSensor {
	s := &TempSensor{
		logger: logger,
		read:   read,
	}

	stats, err := s.read(context.Background())
	switch {
	case err != nil:
		s.logger.Info("sensor.temp.unavailable", "Temperature sensing unavailable", map[string]interface{}{
			"error": err.Error(),
		})
	case len(stats) == 0:
		s.logger.Info("sensor.temp.unavailable", "No temperature sensors reported", nil)
	default:
		s.available = true
	}

	return s
}

// Available reports whether the capability probe succeeded.
func (s *TempSensor) Available() bool {
	return s.available
}

// Read returns the current CPU temperature in Celsius, or nil when the
// sensor is unavailable or the read degraded. Cancellation is left to
// the caller; it is never converted into a degraded reading silently.
func (s *TempSensor) Read(ctx context.Context) *float64 {
	if !s.available {
		return nil
	}

	stats, err := s.read(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Debug("sensor.temp.read.failed", "Temperature read failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return nil
	}
	if len(stats) == 0 {
		return nil
	}

	for _, key := range preferredTempKeys {
		for _, stat := range stats {
			if strings.Contains(stat.SensorKey, key) {
				temp := stat.Temperature
				return &temp
			}
		}
	}

	// Fall back to the first reported sensor.
	temp := stats[0].Temperature
	return &temp
}
