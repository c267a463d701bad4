//go:build cuda

package metrics

import (
	"context"

	"github.com/NVIDIA/go-nvml/pkg/nvml"

	"resmon/internal/gpu"
	"resmon/internal/logging"
)

// GPUSensor reads optional GPU utilization, memory, and temperature
// through NVML. An Init failure at construction (library not present)
// disables the sensor permanently. With NVML initialized, a missing
// device or a failed query degrades that tick only; the next tick
// tries again.
type GPUSensor struct {
	logger      *logging.Logger
	nvml        gpu.NVMLInterface
	device      gpu.DeviceInterface
	initialized bool
}

// NewGPUSensor creates a sensor backed by the real NVML library.
func NewGPUSensor(logger *logging.Logger) *GPUSensor {
	return NewGPUSensorWithNVML(gpu.NewRealNVML(), logger)
}

// NewGPUSensorWithNVML creates a sensor with custom NVML (for testing).
func NewGPUSensorWithNVML(nvmlInterface gpu.NVMLInterface, logger *logging.Logger) *GPUSensor {
	s := &GPUSensor{
		logger: logger,
		nvml:   nvmlInterface,
	}

	if ret := s.nvml.Init(); ret != nvml.SUCCESS {
		s.logger.Info("sensor.gpu.unavailable", "NVML unavailable, GPU metrics disabled", map[string]interface{}{
			"error": nvml.ErrorString(ret),
		})
		return s
	}
	s.initialized = true

	s.logger.Info("sensor.gpu.initialized", "NVML initialized", nil)
	return s
}

// Available reports whether NVML initialized successfully.
func (s *GPUSensor) Available() bool {
	return s.initialized
}

// Read returns the current GPU metrics. Fields degrade to nil
// individually when their query fails; a missing device leaves all
// fields nil without disabling future attempts.
func (s *GPUSensor) Read(ctx context.Context) GPUReading {
	if !s.initialized || ctx.Err() != nil {
		return GPUReading{}
	}

	if s.device == nil {
		count, ret := s.nvml.DeviceGetCount()
		if ret != nvml.SUCCESS {
			s.logger.Debug("sensor.gpu.count.failed", "Failed to count GPU devices", map[string]interface{}{
				"error": nvml.ErrorString(ret),
			})
			return GPUReading{}
		}
		if count == 0 {
			s.logger.Debug("sensor.gpu.no_devices", "No GPU devices present", nil)
			return GPUReading{}
		}

		device, ret := s.nvml.DeviceGetHandleByIndex(0)
		if ret != nvml.SUCCESS {
			s.logger.Debug("sensor.gpu.device.failed", "No GPU device available", map[string]interface{}{
				"error": nvml.ErrorString(ret),
			})
			return GPUReading{}
		}
		s.device = device

		name := "unknown"
		if n, ret := device.GetName(); ret == nvml.SUCCESS {
			name = n
		}
		s.logger.Info("sensor.gpu.device", "GPU device acquired", map[string]interface{}{
			"name": name,
		})
	}

	var reading GPUReading

	if utilization, ret := s.device.GetUtilizationRates(); ret == nvml.SUCCESS {
		util := float64(utilization.Gpu)
		reading.UtilPct = &util
	} else {
		s.logger.Debug("sensor.gpu.utilization.failed", "Failed to read GPU utilization", map[string]interface{}{
			"error": nvml.ErrorString(ret),
		})
	}

	if memInfo, ret := s.device.GetMemoryInfo(); ret == nvml.SUCCESS {
		usedMB := float64(memInfo.Used) / bytesPerMB
		reading.MemoryMB = &usedMB
	} else {
		s.logger.Debug("sensor.gpu.memory.failed", "Failed to read GPU memory", map[string]interface{}{
			"error": nvml.ErrorString(ret),
		})
	}

	if temp, ret := s.device.GetTemperature(nvml.TEMPERATURE_GPU); ret == nvml.SUCCESS {
		tempC := float64(temp)
		reading.TempC = &tempC
	} else {
		s.logger.Debug("sensor.gpu.temperature.failed", "Failed to read GPU temperature", map[string]interface{}{
			"error": nvml.ErrorString(ret),
		})
	}

	return reading
}

// Close shuts NVML down.
func (s *GPUSensor) Close() {
	if s.initialized {
		if ret := s.nvml.Shutdown(); ret != nvml.SUCCESS {
			s.logger.Warn("sensor.gpu.shutdown.failed", "NVML shutdown reported an error", map[string]interface{}{
				"error": nvml.ErrorString(ret),
			})
		}
		s.initialized = false
		s.device = nil
	}
}
