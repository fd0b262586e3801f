package monitor

import (
	"github.com/shirou/gopsutil/v4/cpu"
)

type CPUMonitor struct{}

func NewCPUMonitor() *CPUMonitor {
	return &CPUMonitor{}
}

func (m *CPUMonitor) Name() string {
	return "cpu"
}

func (m *CPUMonitor) Collect() (any, error) {
	logical, err := cpu.Counts(true)
	if err != nil {
		return nil, err
	}

	// Physical counts are unavailable in some containers.
	physical, err := cpu.Counts(false)
	if err != nil {
		physical = 0
	}

	var model string
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		model = infos[0].ModelName
	}

	percentages, err := cpu.Percent(0, false)
	if err != nil {
		return nil, err
	}

	var overall float64
	if len(percentages) > 0 {
		overall = percentages[0]
	}

	return &CPUState{
		Model:         model,
		LogicalCores:  logical,
		PhysicalCores: physical,
		UsagePercent:  overall,
	}, nil
}
