package monitor

import (
	"github.com/shirou/gopsutil/v4/mem"
)

// MemoryMonitor reports RAM and swap usage.
type MemoryMonitor struct{}

func NewMemoryMonitor() *MemoryMonitor {
	return &MemoryMonitor{}
}

func (m *MemoryMonitor) Name() string {
	return "memory"
}

func (m *MemoryMonitor) Collect() (any, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil, err
	}

	state := &MemoryState{
		UsedBytes:      vm.Used,
		AvailableBytes: vm.Available,
		TotalBytes:     vm.Total,
		UsagePercent:   vm.UsedPercent,
	}

	// Swap stays zero when the host does not report it.
	if sw, err := mem.SwapMemory(); err == nil {
		state.SwapTotalBytes = sw.Total
		state.SwapUsedBytes = sw.Used
	}

	return state, nil
}
