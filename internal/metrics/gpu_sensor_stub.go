//go:build !cuda

package metrics

import (
	"context"

	"resmon/internal/logging"
)

// GPUSensor is a no-op sensor used when CUDA/NVML support is disabled.
type GPUSensor struct {
	logger *logging.Logger
}

// NewGPUSensor creates a stub sensor that records that NVML support is
// compiled out.
func NewGPUSensor(logger *logging.Logger) *GPUSensor {
	if logger != nil {
		logger.Info("sensor.gpu.disabled", "GPU metrics skipped (built without cuda tag)", nil)
	}
	return &GPUSensor{logger: logger}
}

// Available always reports false for the stub sensor.
func (s *GPUSensor) Available() bool {
	return false
}

// Read returns an empty reading because GPU metrics are unavailable.
func (s *GPUSensor) Read(ctx context.Context) GPUReading {
	return GPUReading{}
}

// Close is a no-op for the stub sensor.
func (s *GPUSensor) Close() {}
