package monitor

import (
	"github.com/shirou/gopsutil/v4/host"
)

type HostMonitor struct{}

func NewHostMonitor() *HostMonitor {
	return &HostMonitor{}
}

func (m *HostMonitor) Name() string {
	return "host"
}

func (m *HostMonitor) Collect() (any, error) {
	info, err := host.Info()
	if err != nil {
		return nil, err
	}

	return &HostState{
		Hostname:        info.Hostname,
		OS:              info.OS,
		Platform:        info.Platform,
		PlatformVersion: info.PlatformVersion,
		KernelArch:      info.KernelArch,
	}, nil
}
