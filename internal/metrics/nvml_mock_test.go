//go:build cuda

package metrics

import (
	"resmon/internal/gpu"

	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

// mockNVML is a mock implementation of gpu.NVMLInterface for testing
type mockNVML struct {
	InitReturn                   nvml.Return
	ShutdownReturn               nvml.Return
	DeviceCount                  int
	DeviceCountReturn            nvml.Return
	Device                       *mockDevice
	DeviceGetHandleByIndexReturn nvml.Return
	ShutdownCalls                int
}

// mockDevice represents a mock GPU device
type mockDevice struct {
	Name              string
	NameReturn        nvml.Return
	GPUUtil           uint32
	UtilizationReturn nvml.Return
	MemoryUsed        uint64
	MemoryTotal       uint64
	MemoryInfoReturn  nvml.Return
	Temperature       uint32
	TemperatureReturn nvml.Return
}

// newMockNVML creates a mock with every call succeeding and a single
// device slot
func newMockNVML() *mockNVML {
	return &mockNVML{
		InitReturn:                   nvml.SUCCESS,
		ShutdownReturn:               nvml.SUCCESS,
		DeviceCount:                  1,
		DeviceCountReturn:            nvml.SUCCESS,
		DeviceGetHandleByIndexReturn: nvml.SUCCESS,
	}
}

func (m *mockNVML) Init() nvml.Return {
	return m.InitReturn
}

func (m *mockNVML) Shutdown() nvml.Return {
	m.ShutdownCalls++
	return m.ShutdownReturn
}

func (m *mockNVML) DeviceGetCount() (int, nvml.Return) {
	return m.DeviceCount, m.DeviceCountReturn
}

func (m *mockNVML) DeviceGetHandleByIndex(index int) (gpu.DeviceInterface, nvml.Return) {
	if m.DeviceGetHandleByIndexReturn != nvml.SUCCESS || m.Device == nil {
		if m.DeviceGetHandleByIndexReturn == nvml.SUCCESS {
			return nil, nvml.ERROR_GPU_IS_LOST
		}
		return nil, m.DeviceGetHandleByIndexReturn
	}
	return m.Device, nvml.SUCCESS
}

func (d *mockDevice) GetName() (string, nvml.Return) {
	return d.Name, d.NameReturn
}

func (d *mockDevice) GetUtilizationRates() (nvml.Utilization, nvml.Return) {
	return nvml.Utilization{Gpu: d.GPUUtil}, d.UtilizationReturn
}

func (d *mockDevice) GetMemoryInfo() (nvml.Memory, nvml.Return) {
	return nvml.Memory{Used: d.MemoryUsed, Total: d.MemoryTotal}, d.MemoryInfoReturn
}

func (d *mockDevice) GetTemperature(sensor nvml.TemperatureSensors) (uint32, nvml.Return) {
	return d.Temperature, d.TemperatureReturn
}
